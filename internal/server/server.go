package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/corevia/corevia/internal/session"
	"github.com/corevia/corevia/internal/workout"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"tailscale.com/client/tailscale"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	workouts    *workout.Service
	sessions    *session.Manager
	log         *slog.Logger
	apiKey      string
	saveTimeout time.Duration
	tsClient    *tailscale.LocalClient
	router      chi.Router
}

// New creates a new Server with all routes configured.
func New(workouts *workout.Service, sessions *session.Manager, apiKey string, saveTimeout time.Duration, log *slog.Logger) *Server {
	s := &Server{
		workouts:    workouts,
		sessions:    sessions,
		log:         log,
		apiKey:      apiKey,
		saveTimeout: saveTimeout,
		router:      chi.NewRouter(),
	}
	s.routes()
	return s
}

// SetTailscale enables identity resolution via the tsnet local client.
// Without it every request runs as the dev identity.
func (s *Server) SetTailscale(lc *tailscale.LocalClient) {
	s.tsClient = lc
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Use(RequestLogging(s.log))
	s.router.Use(CORS)
	s.router.Use(s.Identity)

	s.router.Handle("/metrics", promhttp.Handler())

	s.router.Route("/api/v1", func(r chi.Router) {
		// Recording flow
		r.Get("/parts", s.handleParts)
		r.Post("/session/start", s.handleStartSession)
		r.Get("/session", s.handleGetSession)
		r.Put("/session/sets/{index}/reps", s.handleUpdateReps)
		r.Post("/session/sets/{index}/toggle", s.handleToggleSuccess)
		r.Post("/session/accessories", s.handleAddAccessory)
		r.Delete("/session/accessories/{index}", s.handleRemoveAccessory)
		r.Put("/session/notes", s.handleSetNotes)
		r.Post("/session/save", s.handleSaveSession)

		// History and guide views
		r.Get("/progress", s.handleProgress)
		r.Get("/sessions", s.handleSessions)
		r.Get("/sessions/latest", s.handleLatestSession)
		r.Get("/faqs", s.handleFaqs)

		// Identity
		r.Get("/me", s.handleMe)
		r.Post("/signout", s.handleSignOut)

		// Content import (API key required)
		r.Route("/import", func(r chi.Router) {
			r.Use(APIKeyAuth(s.apiKey))
			r.Post("/faqs", s.handleImportFaqs)
		})
	})
}
