package handlers

import (
	"errors"
	"net/http"
	"strings"

	"schoolboard/cmd/web/components"
	"schoolboard/cmd/web/pages"
	"schoolboard/internal/messaging"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type MessagingHandler struct {
	service      messaging.Service
	historyLimit int
	sessions     *Sessions
}

func NewMessagingHandler(service messaging.Service, historyLimit int, sessions *Sessions) *MessagingHandler {
	return &MessagingHandler{
		service:      service,
		historyLimit: historyLimit,
		sessions:     sessions,
	}
}

func (h *MessagingHandler) newController(sid string) *messaging.Controller {
	c := messaging.NewController(h.service, h.historyLimit, nil)
	h.sessions.Messaging.Put(sid, c)
	return c
}

// controller returns the session's controller, initializing a new one when
// the session has none
func (h *MessagingHandler) controller(w http.ResponseWriter, r *http.Request) *messaging.Controller {
	user := currentUser(w, r)
	if user == nil {
		return nil
	}
	c, ok := h.sessions.Messaging.Get(user.SessionID)
	if !ok {
		c = h.newController(user.SessionID)
		c.Init(r.Context())
	}
	return c
}

// HandlePage starts a fresh messaging page for the session
func (h *MessagingHandler) HandlePage(w http.ResponseWriter, r *http.Request) {
	user := currentUser(w, r)
	if user == nil {
		return
	}

	c := h.newController(user.SessionID)
	c.Init(r.Context())

	render(w, r, pages.MessagingPage(h.sessions.chrome(r, user), c.View()))
}

// HandleSelectGroup keeps the typed draft and switches the recipient group
func (h *MessagingHandler) HandleSelectGroup(w http.ResponseWriter, r *http.Request) {
	c := h.controller(w, r)
	if c == nil {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}

	if r.PostForm.Has("message") {
		c.SetDraft(r.PostFormValue("message"))
	}
	c.SelectGroup(r.PostFormValue("group_type"))

	render(w, r, components.Composer(c.View()))
}

// HandleSend sends the submitted draft. Precondition and upstream failures
// render as page errors in the composer.
func (h *MessagingHandler) HandleSend(w http.ResponseWriter, r *http.Request) {
	c := h.controller(w, r)
	if c == nil {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}
	// a rejected send must leave the in-flight draft and group alone
	if c.State() == messaging.StateSending {
		http.Error(w, messaging.ErrSendInProgress.Error(), http.StatusConflict)
		return
	}

	if group := r.PostFormValue("group_type"); group != c.View().SelectedGroup {
		c.SelectGroup(group)
	}
	c.SetDraft(r.PostFormValue("message"))

	err := c.Send(r.Context())
	switch {
	case errors.Is(err, messaging.ErrSendInProgress):
		http.Error(w, err.Error(), http.StatusConflict)
		return
	case messaging.IsValidation(err):
		// message already on the view
	case err != nil:
		log.Warn().Err(err).Msg("Message send failed")
	}

	view := c.View()
	render(w, r, components.Composer(view))
	if err == nil {
		render(w, r, components.HistoryTableOOB(view))
	}
}

// HandleHistory applies the ?date= filter. An empty date clears it.
func (h *MessagingHandler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	c := h.controller(w, r)
	if c == nil {
		return
	}

	raw := strings.TrimSpace(r.URL.Query().Get("date"))
	if raw == "" {
		c.SetDateFilter(nil)
	} else {
		day, err := messaging.ParseDay(raw)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		c.SetDateFilter(&day)
	}

	render(w, r, components.HistoryTable(c.View()))
}

// HandleApplyTemplate replaces the draft with a saved template
func (h *MessagingHandler) HandleApplyTemplate(w http.ResponseWriter, r *http.Request) {
	c := h.controller(w, r)
	if c == nil {
		return
	}

	if err := c.ApplyTemplate(chi.URLParam(r, "id")); err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	render(w, r, components.Composer(c.View()))
}
