package server

import (
	"net/http"

	"schoolboard/cmd/web/pages"
	"schoolboard/internal/theme"

	"github.com/rs/zerolog/log"
)

// Page Handlers
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if err := pages.LoginPage(theme.FromRequest(r)).Render(r.Context(), w); err != nil {
		log.Error().Err(err).Msg("Error rendering login page")
		http.Error(w, "Error rendering page", http.StatusInternalServerError)
	}
}

// API Handlers
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	s.sendJSON(w, http.StatusOK, true, "Health check successful", HealthData{
		Status:   "up",
		Env:      s.config.Env,
		Upstream: s.config.APIBaseURL,
		Sessions: s.sessions.Len(),
	})
}

// Error Handlers
func (s *Server) handleError404(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNotFound)
	if err := pages.Error404(theme.FromRequest(r)).Render(r.Context(), w); err != nil {
		http.Error(w, "Error rendering 404 page", http.StatusInternalServerError)
	}
}
