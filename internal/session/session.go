package session

import (
	"net/http"

	"github.com/go-chi/jwtauth/v5"
)

// CookieName holds the session JWT
const CookieName = "jwt"

// IsAuthenticated reports whether the request carries a verified session token.
// jwtauth.Verifier must have run before.
func IsAuthenticated(r *http.Request) bool {
	token, _, err := jwtauth.FromContext(r.Context())
	return err == nil && token != nil
}

// IsHTMX reports whether the request was issued by htmx
func IsHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}

// Redirect sends the browser to target, via HX-Redirect for htmx requests
func Redirect(w http.ResponseWriter, r *http.Request, target string) {
	if IsHTMX(r) {
		w.Header().Set("HX-Redirect", target)
		return
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}
