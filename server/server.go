// Package server exposes casengine's analysis engine over HTTP: a stateless
// analyze endpoint plus an optional, JWT-scoped per-session history, in the
// same chi-routed, result.Result-based style the teacher's game server used
// for its own endpoints, minus any user accounts or SQL-backed persistence.
package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dekarrin/casengine/server/result"
)

// Server holds the dependencies shared across HTTP handlers: the signing
// secret for session tokens and the in-memory history store.
type Server struct {
	tokenSecret []byte
	history     *historyStore
}

// New creates a Server that signs session tokens with secret. secret should
// be a long random value read from configuration; it is not derived from
// any user credential since casengine has no accounts.
func New(secret []byte) *Server {
	return &Server{
		tokenSecret: secret,
		history:     newHistoryStore(),
	}
}

// Router builds the chi mux that cmd/casserver mounts and serves.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/session", s.handleCreateSession)
		r.Post("/analyze", s.handleAnalyze)
		r.Get("/history", s.handleHistory)
		r.NotFound(func(w http.ResponseWriter, req *http.Request) {
			result.NotFound("no route for %s %s", req.Method, req.URL.Path).WriteResponse(w)
		})
	})

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		result.NotFound("no route for %s %s", req.Method, req.URL.Path).WriteResponse(w)
	})

	return r
}
