package handlers

import (
	"net/http"
	"time"

	"schoolboard/cmd/web/components"
	"schoolboard/internal/theme"

	"github.com/go-chi/chi/v5"
)

// HandleNotifications renders the session's active toasts
func (s *Sessions) HandleNotifications(w http.ResponseWriter, r *http.Request) {
	user := currentUser(w, r)
	if user == nil {
		return
	}
	now := time.Now()
	render(w, r, components.Toasts(s.Notices(user.SessionID).Active(now), now))
}

// HandleDismiss removes one toast. Unknown ids are already gone.
func (s *Sessions) HandleDismiss(w http.ResponseWriter, r *http.Request) {
	user := currentUser(w, r)
	if user == nil {
		return
	}
	s.Notices(user.SessionID).Dismiss(chi.URLParam(r, "id"))
	w.WriteHeader(http.StatusOK)
}

// HandleThemeToggle flips the theme and reloads the page with it
func HandleThemeToggle(w http.ResponseWriter, r *http.Request) {
	theme.Toggle(w, r, r.TLS != nil)
	w.Header().Set("HX-Refresh", "true")
	w.WriteHeader(http.StatusNoContent)
}
