package handlers

import (
	"errors"
	"net/http"

	"schoolboard/cmd/web/components"
	"schoolboard/cmd/web/pages"
	"schoolboard/internal/dashboard"
	"schoolboard/internal/validation"

	"github.com/rs/zerolog/log"
)

type DashboardHandler struct {
	service       dashboard.Service
	activityLimit int
	sessions      *Sessions
}

func NewDashboardHandler(service dashboard.Service, activityLimit int, sessions *Sessions) *DashboardHandler {
	return &DashboardHandler{
		service:       service,
		activityLimit: activityLimit,
		sessions:      sessions,
	}
}

func (h *DashboardHandler) newController(sid string) *dashboard.Controller {
	c := dashboard.NewController(h.service, h.sessions.Notices(sid), h.activityLimit)
	h.sessions.Dashboards.Put(sid, c)
	return c
}

// HandlePage starts a fresh dashboard for the session and renders it
func (h *DashboardHandler) HandlePage(w http.ResponseWriter, r *http.Request) {
	user := currentUser(w, r)
	if user == nil {
		return
	}

	c := h.newController(user.SessionID)
	if err := c.Load(r.Context(), dashboard.PeriodWeek); err != nil {
		log.Warn().
			Err(err).
			Str("session_id", user.SessionID).
			Msg("Dashboard rendered without fresh data")
	}

	render(w, r, pages.DashboardPage(h.sessions.chrome(r, user), c.View()))
}

// HandlePanel re-runs the batch for the selected period and renders the panel.
// A superseded batch answers 204 so htmx keeps the newer panel.
func (h *DashboardHandler) HandlePanel(w http.ResponseWriter, r *http.Request) {
	user := currentUser(w, r)
	if user == nil {
		return
	}

	raw := r.URL.Query().Get("period")
	if err := validation.ValidatePeriod(raw); err != nil {
		http.Error(w, validation.FormatError(err)[0].Error, http.StatusBadRequest)
		return
	}
	period, err := dashboard.ParsePeriod(raw)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	c, ok := h.sessions.Dashboards.Get(user.SessionID)
	if !ok {
		c = h.newController(user.SessionID)
	}

	err = c.Load(r.Context(), period)
	switch {
	case errors.Is(err, dashboard.ErrStaleBatch):
		w.WriteHeader(http.StatusNoContent)
		return
	case err != nil:
		triggerNotify(w)
	}

	render(w, r, pages.DashboardPanel(c.View()))
}

type summaryRange struct {
	DateFrom string `validate:"omitempty,datetime=2006-01-02"`
	DateTo   string `validate:"omitempty,datetime=2006-01-02"`
}

// HandleFinancialSummary renders the summary card for an optional date range.
// It runs outside the dashboard batch so a failure only affects the card.
func (h *DashboardHandler) HandleFinancialSummary(w http.ResponseWriter, r *http.Request) {
	user := currentUser(w, r)
	if user == nil {
		return
	}

	q := r.URL.Query()
	req := summaryRange{DateFrom: q.Get("date_from"), DateTo: q.Get("date_to")}
	if err := validation.Validate(req); err != nil {
		http.Error(w, validation.FormatError(err)[0].Error, http.StatusBadRequest)
		return
	}

	summary, err := h.service.GetFinancialSummary(r.Context(), req.DateFrom, req.DateTo)
	if err != nil {
		log.Error().
			Err(err).
			Str("session_id", user.SessionID).
			Msg("Failed to load financial summary")
		render(w, r, components.FinancialSummary(nil, dashboard.MsgSummaryFailed))
		return
	}

	render(w, r, components.FinancialSummary(dashboard.NormalizeFinancialSummary(summary), ""))
}
