package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/corevia/corevia/internal/models"
	"github.com/corevia/corevia/internal/session"
	"github.com/corevia/corevia/internal/workout"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

func (s *Server) handleParts(w http.ResponseWriter, r *http.Request) {
	type partInfo struct {
		Part     models.Part `json:"part"`
		CoreLift string      `json:"coreLift"`
	}
	parts := make([]partInfo, 0, len(models.Parts))
	for _, p := range models.Parts {
		parts = append(parts, partInfo{Part: p, CoreLift: p.CoreLift()})
	}
	writeJSON(w, http.StatusOK, parts)
}

// sessionResponse is the recording state plus the prior session, which
// the record view shows in its "last time" panel.
type sessionResponse struct {
	State       session.Snapshot `json:"state"`
	LastSession *models.Session  `json:"lastSession,omitempty"`
}

func (s *Server) handleStartSession(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Part string `json:"part"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	part, err := models.ParsePart(req.Part)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	user := userFromContext(r)
	st := s.sessions.Store(user.UID)
	prior := s.workouts.StartRecording(r.Context(), st, user.UID, part)
	recordingsStarted.Inc()

	writeJSON(w, http.StatusOK, sessionResponse{State: st.Snapshot(), LastSession: prior})
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	st := s.sessions.Store(userFromContext(r).UID)
	writeJSON(w, http.StatusOK, sessionResponse{State: st.Snapshot()})
}

func (s *Server) handleUpdateReps(w http.ResponseWriter, r *http.Request) {
	index, ok := parseIndex(w, r)
	if !ok {
		return
	}
	var req struct {
		Reps int `json:"reps"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if req.Reps < 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "reps must be non-negative"})
		return
	}

	st := s.sessions.Store(userFromContext(r).UID)
	st.UpdateReps(index, req.Reps)
	writeJSON(w, http.StatusOK, sessionResponse{State: st.Snapshot()})
}

func (s *Server) handleToggleSuccess(w http.ResponseWriter, r *http.Request) {
	index, ok := parseIndex(w, r)
	if !ok {
		return
	}
	st := s.sessions.Store(userFromContext(r).UID)
	st.ToggleSuccess(index)
	writeJSON(w, http.StatusOK, sessionResponse{State: st.Snapshot()})
}

func (s *Server) handleAddAccessory(w http.ResponseWriter, r *http.Request) {
	var e models.AccessoryExercise
	if err := json.NewDecoder(r.Body).Decode(&e); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if e.Name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name is required"})
		return
	}

	st := s.sessions.Store(userFromContext(r).UID)
	st.AddAccessoryExercise(e)
	writeJSON(w, http.StatusOK, sessionResponse{State: st.Snapshot()})
}

func (s *Server) handleRemoveAccessory(w http.ResponseWriter, r *http.Request) {
	index, ok := parseIndex(w, r)
	if !ok {
		return
	}
	st := s.sessions.Store(userFromContext(r).UID)
	st.RemoveAccessoryExercise(index)
	writeJSON(w, http.StatusOK, sessionResponse{State: st.Snapshot()})
}

func (s *Server) handleSetNotes(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Notes string `json:"notes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}

	st := s.sessions.Store(userFromContext(r).UID)
	st.SetNotes(req.Notes)
	writeJSON(w, http.StatusOK, sessionResponse{State: st.Snapshot()})
}

func (s *Server) handleSaveSession(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r)
	st := s.sessions.Store(user.UID)

	snap := st.Snapshot()
	if snap.Part == "" || snap.MainExercise == nil {
		writeJSON(w, http.StatusConflict, map[string]string{"error": "no active recording session"})
		return
	}

	draft := models.SessionDraft{
		UserID:             user.UID,
		Part:               snap.Part,
		MainExercise:       *snap.MainExercise,
		AccessoryExercises: snap.AccessoryExercises,
		Notes:              snap.Notes,
	}

	result, err := s.workouts.SaveSessionTimeout(r.Context(), draft, s.saveTimeout)
	if errors.Is(err, workout.ErrSaveTimeout) {
		saveFailures.WithLabelValues("timeout").Inc()
		writeJSON(w, http.StatusGatewayTimeout, map[string]string{
			"error": "save timed out — the network seems slow, try again",
		})
		return
	}
	if err != nil {
		saveFailures.WithLabelValues("error").Inc()
		s.log.Error("session save failed", "part", snap.Part, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to save session"})
		return
	}

	// The recording survives failed saves so the user can retry without
	// re-entering data; only a confirmed save clears it. The cached
	// "last session" for this part is refreshed so the next recording
	// progresses from today's result.
	st.Reset()
	st.CacheLastSession(draft.Part, &models.Session{
		ID:                 result.ID,
		UserID:             draft.UserID,
		Date:               result.Date,
		Part:               draft.Part,
		MainExercise:       draft.MainExercise,
		AccessoryExercises: draft.AccessoryExercises,
		Notes:              draft.Notes,
		IsAllSuccess:       result.IsAllSuccess,
	})
	sessionsSaved.Inc()

	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleProgress(w http.ResponseWriter, r *http.Request) {
	part, err := models.ParsePart(r.URL.Query().Get("part"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	user := userFromContext(r)
	st := s.sessions.Store(user.UID)
	if points, ok := st.ProgressFor(part); ok {
		writeJSON(w, http.StatusOK, points)
		return
	}

	points := s.workouts.Progress(r.Context(), user.UID, part)
	st.CacheProgress(part, points)
	writeJSON(w, http.StatusOK, points)
}

func (s *Server) handleSessions(w http.ResponseWriter, r *http.Request) {
	part, err := models.ParsePart(r.URL.Query().Get("part"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	user := userFromContext(r)
	sessions, err := s.workouts.History(r.Context(), user.UID, part)
	if err != nil {
		s.log.Error("session history query failed", "part", part, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if sessions == nil {
		sessions = []models.Session{}
	}
	writeJSON(w, http.StatusOK, sessions)
}

func (s *Server) handleLatestSession(w http.ResponseWriter, r *http.Request) {
	part, err := models.ParsePart(r.URL.Query().Get("part"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	user := userFromContext(r)
	// Fail-open like the record view: null means "no prior session".
	writeJSON(w, http.StatusOK, s.workouts.LastSession(r.Context(), user.UID, part))
}

func (s *Server) handleFaqs(w http.ResponseWriter, r *http.Request) {
	part, err := models.ParsePart(r.URL.Query().Get("part"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	faqs := s.workouts.FAQs(r.Context(), part)
	if faqs == nil {
		faqs = []models.FAQ{}
	}
	writeJSON(w, http.StatusOK, faqs)
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, userFromContext(r))
}

func (s *Server) handleSignOut(w http.ResponseWriter, r *http.Request) {
	// Identity is ambient (tailnet or dev); there is no server-side
	// session token to revoke. The client drops its local state.
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleImportFaqs(w http.ResponseWriter, r *http.Request) {
	var faqs []models.FAQ
	if err := json.NewDecoder(r.Body).Decode(&faqs); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	for i := range faqs {
		if faqs[i].ID == uuid.Nil {
			faqs[i].ID = uuid.New()
		}
		if _, err := models.ParsePart(string(faqs[i].Part)); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
	}

	count, err := s.workouts.ImportFAQs(r.Context(), faqs)
	if err != nil {
		s.log.Error("faq import failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"imported": count})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// parseIndex reads the {index} route parameter. A malformed index is a
// client error; an out-of-range one is left to the store's no-op rule.
func parseIndex(w http.ResponseWriter, r *http.Request) (int, bool) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid set index"})
		return 0, false
	}
	return index, true
}
