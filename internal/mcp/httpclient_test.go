package mcp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/corevia/corevia/internal/models"
)

// newTestServer creates an httptest server that routes requests to
// handler functions keyed by path. Verifies the HTTP client sends
// correct paths and query params.
func newTestServer(t *testing.T, handlers map[string]http.HandlerFunc) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h, ok := handlers[r.URL.Path]
		if !ok {
			t.Errorf("unexpected request path: %s", r.URL.Path)
			http.NotFound(w, r)
			return
		}
		h(w, r)
	}))
}

func writeTestJSON(t *testing.T, w http.ResponseWriter, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		t.Fatal(err)
	}
}

// TestHTTPLatestSession verifies the part query param and parsing of
// both a session and the JSON null no-session answer.
func TestHTTPLatestSession(t *testing.T) {
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"/api/v1/sessions/latest": func(w http.ResponseWriter, r *http.Request) {
			if got := r.URL.Query().Get("part"); got != "chest" {
				t.Errorf("part=%q, want chest", got)
			}
			writeTestJSON(t, w, models.Session{
				UserID:       "alice",
				Date:         time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC),
				Part:         models.PartChest,
				MainExercise: models.NewMainExercise(models.PartChest, 60),
			})
		},
	})
	defer ts.Close()

	client := NewHTTPClient(ts.URL)
	sess, err := client.LatestSession(context.Background(), "", models.PartChest)
	if err != nil {
		t.Fatal(err)
	}
	if sess == nil || sess.MainExercise.Weight != 60 {
		t.Errorf("session = %+v, want weight 60", sess)
	}
}

// TestHTTPLatestSessionNull verifies JSON null decodes to a nil session.
func TestHTTPLatestSessionNull(t *testing.T) {
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"/api/v1/sessions/latest": func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte("null"))
		},
	})
	defer ts.Close()

	client := NewHTTPClient(ts.URL)
	sess, err := client.LatestSession(context.Background(), "", models.PartBack)
	if err != nil {
		t.Fatal(err)
	}
	if sess != nil {
		t.Errorf("session = %+v, want nil", sess)
	}
}

// TestHTTPSessionsByPart verifies the history endpoint parsing.
func TestHTTPSessionsByPart(t *testing.T) {
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"/api/v1/sessions": func(w http.ResponseWriter, r *http.Request) {
			if got := r.URL.Query().Get("part"); got != "leg" {
				t.Errorf("part=%q, want leg", got)
			}
			writeTestJSON(t, w, []models.Session{
				{Part: models.PartLeg, MainExercise: models.NewMainExercise(models.PartLeg, 100)},
				{Part: models.PartLeg, MainExercise: models.NewMainExercise(models.PartLeg, 102.5)},
			})
		},
	})
	defer ts.Close()

	client := NewHTTPClient(ts.URL)
	sessions, err := client.SessionsByPart(context.Background(), "", models.PartLeg)
	if err != nil {
		t.Fatal(err)
	}
	if len(sessions) != 2 {
		t.Fatalf("got %d sessions, want 2", len(sessions))
	}
	if sessions[1].MainExercise.Weight != 102.5 {
		t.Errorf("weight = %v, want 102.5", sessions[1].MainExercise.Weight)
	}
}

// TestHTTPErrorStatus verifies a non-200 response becomes an error that
// includes the status.
func TestHTTPErrorStatus(t *testing.T) {
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"/api/v1/faqs": func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, `{"error":"boom"}`, http.StatusInternalServerError)
		},
	})
	defer ts.Close()

	client := NewHTTPClient(ts.URL)
	if _, err := client.FAQsByPart(context.Background(), models.PartChest); err == nil {
		t.Error("expected error for 500 response")
	}
}
