package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"schoolboard/internal/apiclient"
	appctx "schoolboard/internal/context"

	"github.com/go-chi/jwtauth/v5"
	"github.com/google/uuid"
)

// Upstream is the raw request surface of the API client
type Upstream interface {
	DoRaw(ctx context.Context, method, path string, params url.Values, body any) ([]byte, error)
}

type Service interface {
	GetAuth() *jwtauth.JWTAuth
	Login(ctx context.Context, email, password string) (*Session, error)
	GenerateToken(session *Session) (string, error)
}

type authService struct {
	tokenAuth *jwtauth.JWTAuth
	upstream  Upstream
	now       func() time.Time
}

// TokenExpiry bounds a session when the upstream does not say otherwise
const TokenExpiry = time.Hour * 24

// NewService creates a new auth service
func NewService(secretKey string, upstream Upstream) Service {
	tokenAuth := jwtauth.New("HS256", []byte(secretKey), nil)
	return &authService{
		tokenAuth: tokenAuth,
		upstream:  upstream,
		now:       time.Now,
	}
}

// GetAuth returns the JWTAuth instance for middleware
func (s *authService) GetAuth() *jwtauth.JWTAuth {
	return s.tokenAuth
}

// LoginRequest is the upstream credential body
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=1"`
}

// loginResponse is the un-enveloped upstream /auth/login reply
type loginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
	User        struct {
		ID    string `json:"id"`
		Email string `json:"email"`
		Role  string `json:"role"`
	} `json:"user"`
}

// Session is an authenticated browser session
type Session struct {
	ID        string
	Username  string
	Role      string
	APIToken  string
	ExpiresAt time.Time
}

// Login exchanges credentials for an upstream token. 400 and 401 replies
// become ErrInvalidCredentials.
func (s *authService) Login(ctx context.Context, email, password string) (*Session, error) {
	raw, err := s.upstream.DoRaw(ctx, http.MethodPost, "/auth/login", nil, LoginRequest{Email: email, Password: password})
	if err != nil {
		if apiclient.IsStatus(err, http.StatusUnauthorized) || apiclient.IsStatus(err, http.StatusBadRequest) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("upstream login: %w", err)
	}

	var resp loginResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("decoding login response: %w", err)
	}
	if resp.AccessToken == "" {
		return nil, ErrMissingToken
	}

	expiry := TokenExpiry
	if resp.ExpiresIn > 0 {
		expiry = time.Duration(resp.ExpiresIn) * time.Second
	}
	username := resp.User.Email
	if username == "" {
		username = email
	}

	return &Session{
		ID:        uuid.NewString(),
		Username:  username,
		Role:      resp.User.Role,
		APIToken:  resp.AccessToken,
		ExpiresAt: s.now().Add(expiry),
	}, nil
}

// GenerateToken creates the session JWT
func (s *authService) GenerateToken(session *Session) (string, error) {
	claims := map[string]interface{}{
		appctx.ClaimUsername: session.Username,
		appctx.ClaimSession:  session.ID,
		appctx.ClaimAPIToken: session.APIToken,
		appctx.ClaimRole:     session.Role,
		"exp":                session.ExpiresAt.Unix(),
	}

	_, tokenString, err := s.tokenAuth.Encode(claims)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}
