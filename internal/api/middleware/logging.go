package middleware

import (
	"net/http"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"
)

// silentPaths are polled endpoints that are only logged on errors.
var silentPaths = map[string]bool{
	"/health": true,
}

// Logging attaches log to every request context (retrievable with
// hlog.FromRequest) tagged with chi's request id, and writes one access line
// per request. It must run after chimiddleware.RequestID.
func Logging(log zerolog.Logger) func(http.Handler) http.Handler {
	withLogger := hlog.NewHandler(log)

	tagRequest := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if id := chimiddleware.GetReqID(r.Context()); id != "" {
				l := zerolog.Ctx(r.Context())
				l.UpdateContext(func(c zerolog.Context) zerolog.Context {
					return c.Str("request_id", id)
				})
			}
			next.ServeHTTP(w, r)
		})
	}

	access := hlog.AccessHandler(func(r *http.Request, status, size int, duration time.Duration) {
		if silentPaths[r.URL.Path] && status < 400 {
			return
		}
		var ev *zerolog.Event
		switch {
		case status >= 500:
			ev = hlog.FromRequest(r).Error()
		case status >= 400:
			ev = hlog.FromRequest(r).Warn()
		default:
			ev = hlog.FromRequest(r).Info()
		}
		ev.Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", status).
			Int("size", size).
			Dur("duration", duration).
			Msg("request")
	})

	return func(next http.Handler) http.Handler {
		return withLogger(tagRequest(access(next)))
	}
}

// MaxBodySize limits the request body to the given number of bytes.
func MaxBodySize(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			next.ServeHTTP(w, r)
		})
	}
}
