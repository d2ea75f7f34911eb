package auth

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	appctx "schoolboard/internal/context"
	"schoolboard/internal/session"
	"schoolboard/internal/validation"

	"github.com/rs/zerolog/log"
)

type Handler struct {
	authService Service
	// onLogout releases per-session state
	onLogout func(sid string)
}

func NewHandler(authService Service, onLogout func(sid string)) *Handler {
	return &Handler{
		authService: authService,
		onLogout:    onLogout,
	}
}

// decodeLogin accepts a JSON body or a submitted form
func decodeLogin(r *http.Request) (LoginRequest, error) {
	var req LoginRequest
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		err := json.NewDecoder(r.Body).Decode(&req)
		return req, err
	}
	if err := r.ParseForm(); err != nil {
		return req, err
	}
	req.Email = strings.TrimSpace(r.PostFormValue("email"))
	req.Password = r.PostFormValue("password")
	return req, nil
}

func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	req, err := decodeLogin(r)
	if err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := validation.Validate(&req); err != nil {
		errs := validation.FormatError(err)
		http.Error(w, errs[0].Error, http.StatusBadRequest)
		return
	}

	sess, err := h.authService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidCredentials):
			http.Error(w, "Invalid credentials", http.StatusUnauthorized)
		default:
			log.Error().
				Err(err).
				Str("email", req.Email).
				Msg("Error logging in against the API")
			http.Error(w, "Login is unavailable, please try again", http.StatusBadGateway)
		}
		return
	}

	token, err := h.authService.GenerateToken(sess)
	if err != nil {
		log.Error().
			Err(err).
			Str("session_id", sess.ID).
			Msg("Failed to generate auth token")
		http.Error(w, "Error generating token", http.StatusInternalServerError)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     session.CookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteStrictMode,
		MaxAge:   int(time.Until(sess.ExpiresAt).Seconds()),
	})

	log.Info().
		Str("username", sess.Username).
		Str("session_id", sess.ID).
		Msg("User logged in")

	if session.IsHTMX(r) {
		w.Header().Set("HX-Redirect", "/")
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if user := appctx.GetUserFromContext(r.Context()); user != nil && h.onLogout != nil {
		h.onLogout(user.SessionID)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     session.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteStrictMode,
	})

	session.Redirect(w, r, "/login")
}
