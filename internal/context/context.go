package context

import (
	"context"

	"github.com/go-chi/jwtauth/v5"
)

type contextKey string

const (
	userContextKey contextKey = "user"
)

// Session JWT claim names
const (
	ClaimUsername = "username"
	ClaimSession  = "sid"
	ClaimAPIToken = "api_token"
	ClaimRole     = "role"
)

type UserInfo struct {
	Username  string
	SessionID string
	Role      string
	// APIToken is the upstream bearer token obtained at login
	APIToken string
}

// GetUserFromContext retrieves user info from context
func GetUserFromContext(ctx context.Context) *UserInfo {
	// If already stored in context, return it
	if user, ok := ctx.Value(userContextKey).(*UserInfo); ok {
		return user
	}

	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return nil
	}

	// Otherwise parse from JWT claims
	return getUserFromClaims(claims)
}

// getUserFromClaims creates UserInfo from JWT claims
func getUserFromClaims(claims map[string]interface{}) *UserInfo {
	username, _ := claims[ClaimUsername].(string)
	sid, _ := claims[ClaimSession].(string)
	token, _ := claims[ClaimAPIToken].(string)
	role, _ := claims[ClaimRole].(string)
	if username == "" || sid == "" {
		return nil
	}
	return &UserInfo{
		Username:  username,
		SessionID: sid,
		Role:      role,
		APIToken:  token,
	}
}

// WithUser adds user info to the context
func WithUser(ctx context.Context, user *UserInfo) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// APIToken is the upstream bearer token of the request's session, or ""
func APIToken(ctx context.Context) string {
	if user := GetUserFromContext(ctx); user != nil {
		return user.APIToken
	}
	return ""
}
