package server

import (
	"net/http"
	"strings"
	"time"

	"schoolboard/internal/session"
	"schoolboard/internal/theme"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"
)

// publicPrefixes are served without a session
var publicPrefixes = []string{"/assets/", "/health", "/metrics"}

// AuthMiddleware redirects unauthenticated requests to /login and
// authenticated visitors of /login to the dashboard.
// Assets and the ops endpoints are always allowed.
func (s *Server) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		for _, prefix := range publicPrefixes {
			if strings.HasPrefix(r.URL.Path, prefix) {
				next.ServeHTTP(w, r)
				return
			}
		}

		authenticated := session.IsAuthenticated(r)

		if r.URL.Path == "/login" {
			if authenticated && r.Method == http.MethodGet {
				session.Redirect(w, r, "/")
				return
			}
			next.ServeHTTP(w, r)
			return
		}

		if !authenticated {
			session.Redirect(w, r, "/login")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// RequestLogger logs each request with zerolog
func RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("Request started")

		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", status).
			Int("bytes", ww.BytesWritten()).
			Dur("duration", time.Since(start)).
			Bool("htmx", session.IsHTMX(r)).
			Msg("Request completed")
	})
}

// ColorSchemeHint asks browsers to send their preferred color scheme,
// the theme fallback when no cookie is set
func ColorSchemeHint(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Accept-CH", theme.HintHeader)
		w.Header().Add("Vary", theme.HintHeader)
		next.ServeHTTP(w, r)
	})
}
