// Package workout translates between the recording store's shape and
// the persisted session documents. Write failures propagate to the
// caller; read failures are logged and replaced with empty results so a
// transient outage never blocks starting a fresh session.
package workout

import (
	"context"
	"errors"
	"time"

	"log/slog"

	"github.com/corevia/corevia/internal/models"
	"github.com/corevia/corevia/internal/session"
	"github.com/corevia/corevia/internal/storage"
	"github.com/google/uuid"
)

// ErrSaveTimeout reports that a save did not complete within the
// caller's deadline. The underlying write is not cancelled and may
// still land afterwards.
var ErrSaveTimeout = errors.New("session save timed out")

// Store is the slice of the storage layer this service needs. *storage.DB
// satisfies it; tests substitute fakes.
type Store interface {
	InsertSession(ctx context.Context, id uuid.UUID, draft models.SessionDraft, isAllSuccess bool) (time.Time, error)
	LatestSession(ctx context.Context, userID string, part models.Part) (*models.Session, error)
	SessionsByPart(ctx context.Context, userID string, part models.Part) ([]models.Session, error)
	FAQsByPart(ctx context.Context, part models.Part) ([]models.FAQ, error)
	UpsertFAQ(ctx context.Context, f models.FAQ) error
}

var _ Store = (*storage.DB)(nil)

// Service holds dependencies for session persistence.
type Service struct {
	store Store
	log   *slog.Logger
}

// New creates a Service.
func New(store Store, log *slog.Logger) *Service {
	return &Service{store: store, log: log}
}

// SaveResult is what the feedback view renders after a save.
type SaveResult struct {
	ID           uuid.UUID `json:"id"`
	Date         time.Time `json:"date"`
	SuccessSets  int       `json:"successSets"`
	IsAllSuccess bool      `json:"isAllSuccess"`
}

// SaveSession writes one session document. Every call generates a fresh
// random ID, so identical input saved twice yields two documents —
// there is deliberately no deduplication. Exactly one write attempt is
// made; on error nothing is retried.
func (s *Service) SaveSession(ctx context.Context, draft models.SessionDraft) (*SaveResult, error) {
	id := uuid.New()
	isAllSuccess := draft.MainExercise.AllSuccess()

	date, err := s.store.InsertSession(ctx, id, draft, isAllSuccess)
	if err != nil {
		return nil, err
	}
	return &SaveResult{
		ID:           id,
		Date:         date,
		SuccessSets:  draft.MainExercise.SuccessSets(),
		IsAllSuccess: isAllSuccess,
	}, nil
}

// SaveSessionTimeout races SaveSession against a wall-clock deadline.
// When the timer wins, ErrSaveTimeout is returned but the write keeps
// running; a late success is logged, not surfaced. This bounds how long
// the caller shows a saving indicator without risking a double submit
// from a retry racing a slow write.
func (s *Service) SaveSessionTimeout(ctx context.Context, draft models.SessionDraft, timeout time.Duration) (*SaveResult, error) {
	type outcome struct {
		res *SaveResult
		err error
	}
	done := make(chan outcome, 1)

	// Detach from the request context: the write must be able to
	// outlive the deadline and the HTTP request that triggered it.
	writeCtx := context.WithoutCancel(ctx)
	go func() {
		res, err := s.SaveSession(writeCtx, draft)
		done <- outcome{res, err}
	}()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case out := <-done:
		return out.res, out.err
	case <-timer.C:
		go func() {
			out := <-done
			if out.err != nil {
				s.log.Error("save failed after timeout was reported", "error", out.err)
			} else {
				s.log.Warn("save completed after timeout was reported", "id", out.res.ID)
			}
		}()
		return nil, ErrSaveTimeout
	}
}

// LastSession returns the most recent persisted session for a user and
// part, or nil when none exists or the query fails. Fail-open: a read
// error means the user starts a fresh session instead of being blocked.
func (s *Service) LastSession(ctx context.Context, userID string, part models.Part) *models.Session {
	sess, err := s.store.LatestSession(ctx, userID, part)
	if err != nil {
		s.log.Error("last session lookup failed", "part", part, "error", err)
		return nil
	}
	return sess
}

// Progress returns the weight/success history for one part, oldest
// first. Fail-open: errors yield an empty history.
func (s *Service) Progress(ctx context.Context, userID string, part models.Part) []models.ProgressPoint {
	sessions, err := s.store.SessionsByPart(ctx, userID, part)
	if err != nil {
		s.log.Error("progress lookup failed", "part", part, "error", err)
		return nil
	}

	points := make([]models.ProgressPoint, 0, len(sessions))
	for _, sess := range sessions {
		points = append(points, models.ProgressPoint{
			Date:        sess.Date,
			Weight:      sess.MainExercise.Weight,
			SuccessSets: sess.MainExercise.SuccessSets(),
		})
	}
	return points
}

// History returns a user's full persisted history for one part, oldest
// first. Unlike the recording-flow reads this propagates errors: it
// backs the history API, where an outage should be visible.
func (s *Service) History(ctx context.Context, userID string, part models.Part) ([]models.Session, error) {
	return s.store.SessionsByPart(ctx, userID, part)
}

// FAQs returns the guide entries for one part. Fail-open: errors yield
// an empty list.
func (s *Service) FAQs(ctx context.Context, part models.Part) []models.FAQ {
	faqs, err := s.store.FAQsByPart(ctx, part)
	if err != nil {
		s.log.Error("faq lookup failed", "part", part, "error", err)
		return nil
	}
	return faqs
}

// ImportFAQs upserts guide content, returning how many documents were
// written. Stops at the first failure; documents already written stay.
func (s *Service) ImportFAQs(ctx context.Context, faqs []models.FAQ) (int, error) {
	for i, f := range faqs {
		if err := s.store.UpsertFAQ(ctx, f); err != nil {
			return i, err
		}
	}
	return len(faqs), nil
}

// StartRecording resets the store and seeds a new main exercise for the
// given part. The prior session comes from the store's cache when the
// part was already visited this process lifetime; otherwise it is
// fetched once and cached, including the "none exists" answer.
func (s *Service) StartRecording(ctx context.Context, st *session.Store, userID string, part models.Part) *models.Session {
	st.Reset()
	st.SetPart(part)

	prior, cached := st.LastSessionFor(part)
	if !cached {
		prior = s.LastSession(ctx, userID, part)
		st.CacheLastSession(part, prior)
	}

	st.SetMainExercise(models.NewMainExercise(part, models.NextWeight(prior)))
	return prior
}
