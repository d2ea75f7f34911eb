package auth

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrMissingToken       = errors.New("upstream login returned no access token")
)
