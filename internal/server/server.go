package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"schoolboard/cmd/web/handlers"
	"schoolboard/internal/apiclient"
	"schoolboard/internal/auth"
	"schoolboard/internal/config"
	appctx "schoolboard/internal/context"
	"schoolboard/internal/dashboard"
	"schoolboard/internal/messaging"
	"schoolboard/internal/metrics"
	"schoolboard/internal/session"

	_ "github.com/joho/godotenv/autoload"
	"github.com/rs/zerolog/log"
)

// Server represents the HTTP server and its dependencies
type Server struct {
	config           *config.Config
	metrics          *metrics.Metrics
	authService      auth.Service
	authHandler      *auth.Handler
	sessions         *handlers.Sessions
	dashboardHandler *handlers.DashboardHandler
	messagingHandler *handlers.MessagingHandler
}

// NewServer creates a new server instance. m may be nil.
func NewServer(cfg *config.Config, m *metrics.Metrics) (*Server, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}

	// One client for the whole process; the bearer token comes from each request's session
	client := apiclient.New(cfg.APIBaseURL, cfg.APITimeout,
		apiclient.WithTokenSource(appctx.APIToken),
		apiclient.WithObserver(m),
	)

	// Initialize services
	authService := auth.NewService(cfg.Secret, client)
	dashboardService := dashboard.NewService(client)
	messagingService := messaging.NewService(client)

	// Per-session page state
	sessions := handlers.NewSessions(cfg.SessionTTL, cfg.NotificationTTL)

	// Initialize handlers
	authHandler := auth.NewHandler(authService, sessions.Release)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService, cfg.ActivityLimit, sessions)
	messagingHandler := handlers.NewMessagingHandler(messagingService, cfg.HistoryLimit, sessions)

	return &Server{
		config:           cfg,
		metrics:          m,
		authService:      authService,
		authHandler:      authHandler,
		sessions:         sessions,
		dashboardHandler: dashboardHandler,
		messagingHandler: messagingHandler,
	}, nil
}

// StartJanitors sweeps idle session state every interval until ctx ends
func (s *Server) StartJanitors(ctx context.Context, interval time.Duration) []*session.Janitor {
	return s.sessions.StartJanitors(ctx, interval)
}

// Start builds the HTTP server
func (s *Server) Start() (*http.Server, error) {
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.RegisterRoutes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: s.config.APITimeout + 15*time.Second,
	}

	log.Info().
		Int("port", s.config.Port).
		Str("env", s.config.Env).
		Msg("Starting server")

	return srv, nil
}

// sendJSON sends a JSON response with consistent formatting
func (s *Server) sendJSON(w http.ResponseWriter, status int, success bool, message string, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	response := APIResponse{
		Success: success,
		Message: message,
		Data:    data,
	}

	if err := json.NewEncoder(w).Encode(response); err != nil {
		log.Error().Err(err).Msg("Error encoding JSON response")
	}
}
