package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/nikhilbhutani/mediatranscriber/internal/api/handlers"
	"github.com/nikhilbhutani/mediatranscriber/internal/api/middleware"
	"github.com/nikhilbhutani/mediatranscriber/internal/auth"
	"github.com/nikhilbhutani/mediatranscriber/internal/history"
	"github.com/nikhilbhutani/mediatranscriber/internal/transcriber"
)

// Limiter rejects requests over a rate with 429.
type Limiter interface {
	Limit(next http.Handler) http.Handler
}

// Deps are the process-lifetime services the router wires. Nil optional
// fields disable the matching feature.
type Deps struct {
	Transcriber    *transcriber.Service
	Recorder       history.Recorder       // optional
	History        handlers.HistoryLister // optional, enables GET /transcriptions
	Limiter        Limiter                // optional
	JWT            *auth.JWTMiddleware    // optional
	MaxUploadBytes int64
	CORSOrigins    []string
	Log            zerolog.Logger
}

type Router struct {
	mux  *chi.Mux
	deps Deps
}

func NewRouter(deps Deps) *Router {
	return &Router{
		mux:  chi.NewRouter(),
		deps: deps,
	}
}

func (rt *Router) Setup() http.Handler {
	r := rt.mux

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logging(rt.deps.Log))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS(rt.deps.CORSOrigins))

	// Health endpoint (no auth, no rate limit)
	r.Get("/health", handlers.Health)

	r.Group(func(r chi.Router) {
		if rt.deps.Limiter != nil {
			r.Use(rt.deps.Limiter.Limit)
		}
		if rt.deps.JWT != nil {
			r.Use(rt.deps.JWT.Authenticate)
		}

		transcribeH := handlers.NewTranscribeHandler(rt.deps.Transcriber, rt.deps.Recorder)
		r.With(middleware.MaxBodySize(rt.deps.MaxUploadBytes)).Post("/transcribe", transcribeH.Transcribe)

		if rt.deps.History != nil {
			historyH := handlers.NewHistoryHandler(rt.deps.History)
			r.Get("/transcriptions", historyH.List)
		}
	})

	return r
}
