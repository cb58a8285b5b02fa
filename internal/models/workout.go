package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	// SetsPerMainExercise is the prescribed set count for every main lift.
	SetsPerMainExercise = 5

	// SuccessThreshold is the rep count at or above which a set is
	// automatically marked successful when reps are entered.
	SuccessThreshold = 10

	// DefaultStartWeight is the working weight (kg) for a user's first
	// session on a body part.
	DefaultStartWeight = 20.0

	// WeightIncrement is added to the working weight (kg) after a session
	// in which every set succeeded.
	WeightIncrement = 2.5
)

// WorkoutSet is one set of the main lift.
type WorkoutSet struct {
	Reps      int  `json:"reps"`
	IsSuccess bool `json:"isSuccess"`
}

// MainExercise is the primary compound lift tracked for progressive
// overload in a session. The fixed-size array makes the
// exactly-five-sets invariant structural rather than something every
// caller has to re-check.
type MainExercise struct {
	Part   Part                            `json:"part"`
	Weight float64                         `json:"weight"`
	Sets   [SetsPerMainExercise]WorkoutSet `json:"sets"`
}

// NewMainExercise seeds a main exercise with empty sets at the given weight.
func NewMainExercise(part Part, weight float64) MainExercise {
	return MainExercise{Part: part, Weight: weight}
}

// AllSuccess reports whether every set succeeded.
func (m MainExercise) AllSuccess() bool {
	for _, s := range m.Sets {
		if !s.IsSuccess {
			return false
		}
	}
	return true
}

// SuccessSets counts the sets marked successful.
func (m MainExercise) SuccessSets() int {
	n := 0
	for _, s := range m.Sets {
		if s.IsSuccess {
			n++
		}
	}
	return n
}

// AccessoryExercise is a supplementary lift logged alongside the main
// exercise. It is not subject to the progression rule.
type AccessoryExercise struct {
	Name   string  `json:"name"`
	Weight float64 `json:"weight"`
	Reps   int     `json:"reps"`
	Sets   int     `json:"sets"`
}

// Session is one persisted workout record: one body part, one date.
// Sessions are immutable once written.
type Session struct {
	ID                 uuid.UUID           `json:"id"`
	UserID             string              `json:"userId"`
	Date               time.Time           `json:"date"`
	Part               Part                `json:"part"`
	MainExercise       MainExercise        `json:"mainExercise"`
	AccessoryExercises []AccessoryExercise `json:"accessoryExercises"`
	Notes              string              `json:"notes"`
	IsAllSuccess       bool                `json:"isAllSuccess"`
}

// SessionDraft is a session as assembled at save time, before the store
// assigns an ID and the database assigns the date.
type SessionDraft struct {
	UserID             string              `json:"userId"`
	Part               Part                `json:"part"`
	MainExercise       MainExercise        `json:"mainExercise"`
	AccessoryExercises []AccessoryExercise `json:"accessoryExercises"`
	Notes              string              `json:"notes"`
}

// ProgressPoint is one session reduced to the numbers the progress graph
// plots.
type ProgressPoint struct {
	Date        time.Time `json:"date"`
	Weight      float64   `json:"weight"`
	SuccessSets int       `json:"successSets"`
}

// NextWeight applies the linear-progression rule: first session on a
// part starts at the default weight; a fully successful prior session
// earns a fixed increment; anything else repeats the prior weight.
// Failure never reduces the weight.
func NextWeight(prior *Session) float64 {
	if prior == nil {
		return DefaultStartWeight
	}
	if prior.MainExercise.AllSuccess() {
		return prior.MainExercise.Weight + WeightIncrement
	}
	return prior.MainExercise.Weight
}
