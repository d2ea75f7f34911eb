// Package handlers serves the browser routes. Each handler resolves the
// session's page controller, drives it and renders the result.
package handlers

import (
	"context"
	"net/http"
	"time"

	"schoolboard/cmd/web/pages"
	appctx "schoolboard/internal/context"
	"schoolboard/internal/dashboard"
	"schoolboard/internal/messaging"
	"schoolboard/internal/notify"
	"schoolboard/internal/session"
	"schoolboard/internal/theme"

	"github.com/a-h/templ"
	"github.com/rs/zerolog/log"
)

// Sessions holds the per-session view state
type Sessions struct {
	Dashboards    *session.Store[*dashboard.Controller]
	Messaging     *session.Store[*messaging.Controller]
	Notifications *session.Store[*notify.Center]
	NotifyTTL     time.Duration
}

func NewSessions(ttl, notifyTTL time.Duration) *Sessions {
	return &Sessions{
		Dashboards:    session.NewStore[*dashboard.Controller]("dashboard", ttl),
		Messaging:     session.NewStore[*messaging.Controller]("messaging", ttl),
		Notifications: session.NewStore[*notify.Center]("notifications", ttl),
		NotifyTTL:     notifyTTL,
	}
}

// Notices returns the session's toast stack, creating it on first use
func (s *Sessions) Notices(sid string) *notify.Center {
	return s.Notifications.GetOrCreate(sid, func() *notify.Center {
		return notify.NewCenter(s.NotifyTTL)
	})
}

// Release drops all state of a session
func (s *Sessions) Release(sid string) {
	s.Dashboards.Delete(sid)
	s.Messaging.Delete(sid)
	s.Notifications.Delete(sid)
}

// StartJanitors sweeps every store on interval until ctx ends
func (s *Sessions) StartJanitors(ctx context.Context, interval time.Duration) []*session.Janitor {
	return []*session.Janitor{
		s.Dashboards.StartJanitor(ctx, interval),
		s.Messaging.StartJanitor(ctx, interval),
		s.Notifications.StartJanitor(ctx, interval),
	}
}

// Len reports how many sessions hold state in each store
func (s *Sessions) Len() map[string]int {
	return map[string]int{
		"dashboard":     s.Dashboards.Len(),
		"messaging":     s.Messaging.Len(),
		"notifications": s.Notifications.Len(),
	}
}

// currentUser writes 401 and returns nil when the request has no session
func currentUser(w http.ResponseWriter, r *http.Request) *appctx.UserInfo {
	user := appctx.GetUserFromContext(r.Context())
	if user == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return nil
	}
	return user
}

func (s *Sessions) chrome(r *http.Request, user *appctx.UserInfo) pages.Chrome {
	now := time.Now()
	return pages.Chrome{
		Mode:   theme.FromRequest(r),
		User:   user,
		Toasts: s.Notices(user.SessionID).Active(now),
		Now:    now,
	}
}

func render(w http.ResponseWriter, r *http.Request, c templ.Component) {
	if err := c.Render(r.Context(), w); err != nil {
		log.Error().
			Err(err).
			Str("path", r.URL.Path).
			Msg("Error rendering component")
		http.Error(w, "Error rendering page", http.StatusInternalServerError)
	}
}

// triggerNotify asks the toast stack to refresh itself
func triggerNotify(w http.ResponseWriter) {
	w.Header().Set("HX-Trigger", "notify")
}
