package models

import "testing"

// TestNextWeightNoPrior verifies that the first session on a part
// starts at the default weight.
func TestNextWeightNoPrior(t *testing.T) {
	if got := NextWeight(nil); got != DefaultStartWeight {
		t.Errorf("NextWeight(nil) = %v, want %v", got, DefaultStartWeight)
	}
}

// TestNextWeightAllSuccess verifies the increment after a fully
// successful prior session: 60kg with five successes earns 62.5kg.
func TestNextWeightAllSuccess(t *testing.T) {
	prior := &Session{MainExercise: NewMainExercise(PartChest, 60)}
	for i := range prior.MainExercise.Sets {
		prior.MainExercise.Sets[i] = WorkoutSet{Reps: 10, IsSuccess: true}
	}

	if got := NextWeight(prior); got != 62.5 {
		t.Errorf("NextWeight = %v, want 62.5", got)
	}
}

// TestNextWeightPartialSuccess verifies that one failed set keeps the
// weight unchanged. There is no decrement rule: repeated failure holds
// the same weight indefinitely.
func TestNextWeightPartialSuccess(t *testing.T) {
	prior := &Session{MainExercise: NewMainExercise(PartChest, 60)}
	for i := range prior.MainExercise.Sets {
		prior.MainExercise.Sets[i] = WorkoutSet{Reps: 10, IsSuccess: true}
	}
	prior.MainExercise.Sets[2].IsSuccess = false

	if got := NextWeight(prior); got != 60 {
		t.Errorf("NextWeight = %v, want 60", got)
	}
}

// TestAllSuccess verifies the denormalized all-success computation over
// the fixed five sets.
func TestAllSuccess(t *testing.T) {
	m := NewMainExercise(PartLeg, 100)
	if m.AllSuccess() {
		t.Error("empty sets reported all-success")
	}

	for i := range m.Sets {
		m.Sets[i].IsSuccess = true
	}
	if !m.AllSuccess() {
		t.Error("five successful sets not reported all-success")
	}

	m.Sets[4].IsSuccess = false
	if m.AllSuccess() {
		t.Error("four of five successes reported all-success")
	}
}

// TestSuccessSets verifies the success count used by the feedback view.
func TestSuccessSets(t *testing.T) {
	m := NewMainExercise(PartBack, 80)
	if got := m.SuccessSets(); got != 0 {
		t.Errorf("SuccessSets = %d, want 0", got)
	}

	m.Sets[0].IsSuccess = true
	m.Sets[3].IsSuccess = true
	if got := m.SuccessSets(); got != 2 {
		t.Errorf("SuccessSets = %d, want 2", got)
	}
}

// TestParsePart verifies that only the four trained parts are accepted.
func TestParsePart(t *testing.T) {
	for _, valid := range []string{"chest", "back", "shoulder", "leg"} {
		if _, err := ParsePart(valid); err != nil {
			t.Errorf("ParsePart(%q) unexpected error: %v", valid, err)
		}
	}
	for _, invalid := range []string{"", "arms", "Chest", "cardio"} {
		if _, err := ParsePart(invalid); err == nil {
			t.Errorf("ParsePart(%q) expected error", invalid)
		}
	}
}

// TestCoreLift verifies the part-to-main-lift mapping shown on the
// record view.
func TestCoreLift(t *testing.T) {
	cases := map[Part]string{
		PartChest:    "bench press",
		PartBack:     "deadlift",
		PartShoulder: "overhead press",
		PartLeg:      "squat",
	}
	for part, want := range cases {
		if got := part.CoreLift(); got != want {
			t.Errorf("CoreLift(%s) = %q, want %q", part, got, want)
		}
	}
}
