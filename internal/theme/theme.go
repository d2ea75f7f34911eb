package theme

import (
	"net/http"
	"strings"
	"time"
)

type Mode string

const (
	Light Mode = "light"
	Dark  Mode = "dark"
)

const (
	CookieName = "theme"
	// HintHeader is the client hint carrying the OS color scheme
	HintHeader = "Sec-CH-Prefers-Color-Scheme"
	cookieAge  = 365 * 24 * time.Hour
)

func Parse(s string) (Mode, bool) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case Light:
		return Light, true
	case Dark:
		return Dark, true
	}
	return "", false
}

// FromRequest resolves the mode from the theme cookie, then the client hint,
// defaulting to light
func FromRequest(r *http.Request) Mode {
	if c, err := r.Cookie(CookieName); err == nil {
		if m, ok := Parse(c.Value); ok {
			return m
		}
	}
	if m, ok := Parse(strings.Trim(r.Header.Get(HintHeader), `"`)); ok {
		return m
	}
	return Light
}

// Toggled returns the opposite mode
func (m Mode) Toggled() Mode {
	if m == Dark {
		return Light
	}
	return Dark
}

func (m Mode) IsDark() bool {
	return m == Dark
}

// Persist stores m in the theme cookie for a year
func Persist(w http.ResponseWriter, m Mode, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    string(m),
		Path:     "/",
		MaxAge:   int(cookieAge.Seconds()),
		Expires:  time.Now().Add(cookieAge),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Toggle flips the request's mode, persists it and returns the new mode
func Toggle(w http.ResponseWriter, r *http.Request, secure bool) Mode {
	m := FromRequest(r).Toggled()
	Persist(w, m, secure)
	return m
}
