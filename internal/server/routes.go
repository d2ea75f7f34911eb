package server

import (
	"net/http"

	"schoolboard/cmd/web"
	"schoolboard/cmd/web/handlers"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/jwtauth/v5"
)

func (s *Server) RegisterRoutes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(RequestLogger)
	r.Use(middleware.Recoverer)
	r.Use(s.metrics.Middleware)
	r.Use(ColorSchemeHint)

	// JWT verification populates the token context; AuthMiddleware gates on it
	tokenAuth := s.authService.GetAuth()
	r.Use(jwtauth.Verifier(tokenAuth))
	r.Use(s.AuthMiddleware)

	if s.config.IsDevelopment() {
		r.Use(middleware.NoCache)
	}

	// CORS configuration
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{s.config.BaseURL},
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "HX-Request", "HX-Target", "HX-Trigger", "HX-Current-URL"},
		ExposedHeaders:   []string{"HX-Redirect", "HX-Refresh", "HX-Trigger"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Serve static files
	fileServer := http.FileServer(http.FS(web.Files)) // embedded in binary
	r.Handle("/assets/*", fileServer)

	// Error 404 handler
	r.NotFound(s.handleError404)

	// Public routes
	r.Group(func(r chi.Router) {
		r.Get("/login", s.handleLogin)
		r.Post("/login", s.authHandler.HandleLogin)

		r.Get("/health", s.healthHandler)
		r.Handle("/metrics", s.metrics.Handler())
	})

	// Protected routes
	r.Group(func(r chi.Router) {
		r.Use(jwtauth.Authenticator(tokenAuth))

		r.Get("/logout", s.authHandler.HandleLogout)

		// Dashboard
		r.Get("/", s.dashboardHandler.HandlePage)
		r.Get("/dashboard/panel", s.dashboardHandler.HandlePanel)
		r.Get("/dashboard/financial-summary", s.dashboardHandler.HandleFinancialSummary)

		// Messaging
		r.Route("/messaging", func(r chi.Router) {
			r.Get("/", s.messagingHandler.HandlePage)
			r.Post("/group", s.messagingHandler.HandleSelectGroup)
			r.Post("/send", s.messagingHandler.HandleSend)
			r.Get("/history", s.messagingHandler.HandleHistory)
			r.Post("/template/{id}", s.messagingHandler.HandleApplyTemplate)
		})

		// Toasts and theme
		r.Get("/notifications", s.sessions.HandleNotifications)
		r.Delete("/notifications/{id}", s.sessions.HandleDismiss)
		r.Post("/theme/toggle", handlers.HandleThemeToggle)
	})

	return r
}
