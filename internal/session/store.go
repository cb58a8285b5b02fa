// Package session holds the in-memory state of a workout recording in
// progress. One Store exists per user; it is never persisted and is
// rebuilt empty on server restart. Finished sessions are written to
// storage and the store is reset.
package session

import (
	"sync"

	"github.com/corevia/corevia/internal/models"
)

// Store is the active recording session for a single user. All
// operations are synchronous; subscribers are notified after each
// mutation. Reads of the remote store never happen here — callers fetch
// and push results in via the cache methods.
type Store struct {
	mu sync.Mutex

	part               models.Part
	mainExercise       *models.MainExercise
	accessoryExercises []models.AccessoryExercise
	notes              string

	// lastSessionCache remembers the most recent persisted session per
	// part. Presence of a key means the lookup already happened; a nil
	// value means no prior session exists. Preserved across Reset so
	// revisiting a part does not refetch.
	lastSessionCache map[models.Part]*models.Session
	progressCache    map[models.Part][]models.ProgressPoint

	subscribers []func()
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		lastSessionCache: make(map[models.Part]*models.Session),
		progressCache:    make(map[models.Part][]models.ProgressPoint),
	}
}

// Subscribe registers fn to be called after every mutation. There is no
// unsubscribe; subscribers live as long as the store.
func (s *Store) Subscribe(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subscribers = append(s.subscribers, fn)
}

// notify runs outside the lock so subscribers may read the store.
func (s *Store) notify(subs []func()) {
	for _, fn := range subs {
		fn()
	}
}

// SetPart selects the body part being trained. Other fields are untouched.
func (s *Store) SetPart(part models.Part) {
	s.mu.Lock()
	s.part = part
	subs := s.subscribers
	s.mu.Unlock()
	s.notify(subs)
}

// SetMainExercise replaces the main-exercise state wholesale. Used to
// seed a fresh recording after the progression weight is computed.
func (s *Store) SetMainExercise(m models.MainExercise) {
	s.mu.Lock()
	cp := m
	s.mainExercise = &cp
	subs := s.subscribers
	s.mu.Unlock()
	s.notify(subs)
}

// UpdateReps records the rep count for one set and re-derives its
// success flag from the threshold rule. Editing reps always overwrites
// a manual ToggleSuccess at the same index. No-op when no main exercise
// is active or the index is out of range.
func (s *Store) UpdateReps(setIndex, reps int) {
	s.mu.Lock()
	if s.mainExercise == nil || setIndex < 0 || setIndex >= len(s.mainExercise.Sets) {
		s.mu.Unlock()
		return
	}
	s.mainExercise.Sets[setIndex] = models.WorkoutSet{
		Reps:      reps,
		IsSuccess: reps >= models.SuccessThreshold,
	}
	subs := s.subscribers
	s.mu.Unlock()
	s.notify(subs)
}

// ToggleSuccess flips the success flag of one set, leaving its reps
// unchanged. No-op when no main exercise is active or the index is out
// of range.
func (s *Store) ToggleSuccess(setIndex int) {
	s.mu.Lock()
	if s.mainExercise == nil || setIndex < 0 || setIndex >= len(s.mainExercise.Sets) {
		s.mu.Unlock()
		return
	}
	s.mainExercise.Sets[setIndex].IsSuccess = !s.mainExercise.Sets[setIndex].IsSuccess
	subs := s.subscribers
	s.mu.Unlock()
	s.notify(subs)
}

// AddAccessoryExercise appends an accessory lift to the session.
func (s *Store) AddAccessoryExercise(e models.AccessoryExercise) {
	s.mu.Lock()
	s.accessoryExercises = append(s.accessoryExercises, e)
	subs := s.subscribers
	s.mu.Unlock()
	s.notify(subs)
}

// RemoveAccessoryExercise removes the accessory at index, preserving
// the order of the rest. An out-of-range index is a silent no-op.
func (s *Store) RemoveAccessoryExercise(index int) {
	s.mu.Lock()
	if index < 0 || index >= len(s.accessoryExercises) {
		s.mu.Unlock()
		return
	}
	s.accessoryExercises = append(s.accessoryExercises[:index], s.accessoryExercises[index+1:]...)
	subs := s.subscribers
	s.mu.Unlock()
	s.notify(subs)
}

// SetNotes replaces the free-text notes.
func (s *Store) SetNotes(notes string) {
	s.mu.Lock()
	s.notes = notes
	subs := s.subscribers
	s.mu.Unlock()
	s.notify(subs)
}

// CacheLastSession records the most recent persisted session for a part.
// A nil session is cached too: it means "looked up, none exists".
func (s *Store) CacheLastSession(part models.Part, sess *models.Session) {
	s.mu.Lock()
	s.lastSessionCache[part] = sess
	subs := s.subscribers
	s.mu.Unlock()
	s.notify(subs)
}

// CacheProgress records the progress history for a part.
func (s *Store) CacheProgress(part models.Part, points []models.ProgressPoint) {
	s.mu.Lock()
	s.progressCache[part] = points
	subs := s.subscribers
	s.mu.Unlock()
	s.notify(subs)
}

// LastSessionFor returns the cached prior session for a part. The bool
// distinguishes "never looked up" from "looked up, none exists" (nil).
func (s *Store) LastSessionFor(part models.Part) (*models.Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.lastSessionCache[part]
	return sess, ok
}

// ProgressFor returns the cached progress history for a part, if any.
func (s *Store) ProgressFor(part models.Part) ([]models.ProgressPoint, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	points, ok := s.progressCache[part]
	return points, ok
}

// SuccessSets counts the successful sets of the active main exercise,
// 0 when none is active.
func (s *Store) SuccessSets() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.mainExercise == nil {
		return 0
	}
	return s.mainExercise.SuccessSets()
}

// Reset clears the recording fields back to their defaults. Both caches
// survive so returning to an already-visited part skips the refetch.
// Called when entering the home screen and after a confirmed save.
func (s *Store) Reset() {
	s.mu.Lock()
	s.part = ""
	s.mainExercise = nil
	s.accessoryExercises = nil
	s.notes = ""
	subs := s.subscribers
	s.mu.Unlock()
	s.notify(subs)
}

// Snapshot is a copy of the recording fields at one instant.
type Snapshot struct {
	Part               models.Part                `json:"part"`
	MainExercise       *models.MainExercise       `json:"mainExercise"`
	AccessoryExercises []models.AccessoryExercise `json:"accessoryExercises"`
	Notes              string                     `json:"notes"`
	SuccessSets        int                        `json:"successSets"`
}

// Snapshot copies the current recording state. The caller owns the copy.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		Part:  s.part,
		Notes: s.notes,
	}
	if s.mainExercise != nil {
		cp := *s.mainExercise
		snap.MainExercise = &cp
		snap.SuccessSets = cp.SuccessSets()
	}
	if len(s.accessoryExercises) > 0 {
		snap.AccessoryExercises = append([]models.AccessoryExercise(nil), s.accessoryExercises...)
	}
	return snap
}
