package server

import (
	"context"
	"log"

	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"counselhub/internal/auth"
	"counselhub/internal/db"
	"counselhub/internal/email"
	"counselhub/internal/handlers"
	"counselhub/internal/middleware"
	"counselhub/internal/models"
)

// RegisterRoutes registers all application routes.
func (s *Server) RegisterRoutes(ctx context.Context, database *db.DB, tokens *auth.TokenManager, notifier *email.Notifier) error {
	authMiddleware := middleware.NewAuthMiddleware(tokens, database)

	authHandler := handlers.NewAuthHandler(database, tokens, s.Cfg)
	adminAuthHandler := handlers.NewAdminAuthHandler(database, tokens, s.Cfg)
	counselorHandler := handlers.NewCounselorHandler(database)
	sessionHandler := handlers.NewSessionHandler(database, notifier)
	adminUserHandler := handlers.NewAdminUserHandler(database)
	adminMetricsHandler := handlers.NewAdminMetricsHandler(database)
	adminAnalyticsHandler := handlers.NewAdminAnalyticsHandler(database)
	adminAuditHandler := handlers.NewAdminAuditHandler(database)
	healthHandler := handlers.NewHealthHandler(database)

	// Health and Prometheus scrape endpoints
	s.App.Get("/healthz", healthHandler.Check)
	s.App.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// Student auth
	api := s.App.Group("/api")
	api.Post("/auth/login", authHandler.Login)
	api.Post("/auth/logout", authHandler.Logout)
	api.Get("/auth/me", authMiddleware.RequireAuth, authHandler.Me)

	// Counselor catalog
	api.Get("/counselors", authMiddleware.RequireAuth, counselorHandler.ListEnabled)

	// Session lifecycle and history
	api.Post("/sessions", authMiddleware.RequireAuth, sessionHandler.Create)
	api.Get("/sessions", authMiddleware.RequireAuth, sessionHandler.List)
	api.Get("/sessions/stats", authMiddleware.RequireAuth, sessionHandler.Stats)
	api.Get("/sessions/:id", authMiddleware.RequireAuth, sessionHandler.Detail)
	api.Post("/sessions/:id/save", authMiddleware.RequireAuth, sessionHandler.Save)
	api.Delete("/sessions/:id", authMiddleware.RequireAuth, sessionHandler.Delete)

	// Admin auth
	admin := s.App.Group("/api/admin")
	admin.Post("/auth/login", adminAuthHandler.Login)
	admin.Post("/auth/logout", authMiddleware.RequireAdmin(), adminAuthHandler.Logout)
	admin.Get("/auth/me", authMiddleware.RequireAdmin(), adminAuthHandler.Me)

	// Optional SSO login for admins
	if s.Cfg.IsSSOEnabled() {
		ssoHandler, err := handlers.NewAdminSSOHandler(ctx, s.Cfg, database, tokens)
		if err != nil {
			log.Printf("Warning: Failed to initialize OIDC auth: %v", err)
			log.Println("SSO login is disabled. Check the OIDC_* environment variables.")
		} else {
			admin.Get("/auth/sso/login", ssoHandler.Login)
			admin.Get("/auth/sso/callback", ssoHandler.Callback)
		}
	} else {
		log.Println("SSO login is disabled. Set OIDC_ISSUER to enable.")
	}

	// Dashboard metrics and analytics
	monitor := authMiddleware.RequireAdmin(models.RoleSystemMonitor)
	admin.Get("/metrics/current", monitor, adminMetricsHandler.Current)
	admin.Get("/analytics/sessions", monitor, adminAnalyticsHandler.Sessions)

	// Counselor category management
	manager := authMiddleware.RequireAdmin(models.RoleContentManager)
	admin.Get("/counselors", manager, counselorHandler.ListAll)
	admin.Post("/counselors", manager, counselorHandler.Create)
	admin.Put("/counselors/:id", manager, counselorHandler.Update)
	admin.Put("/counselors/:id/enabled", manager, counselorHandler.SetEnabled)

	// Student account management and audit trail (super admin only)
	super := authMiddleware.RequireAdmin(models.RoleSuperAdmin)
	admin.Get("/users", super, adminUserHandler.List)
	admin.Put("/users/:id/blocked", super, adminUserHandler.SetBlocked)
	admin.Get("/audit-log", super, adminAuditHandler.List)

	return nil
}
