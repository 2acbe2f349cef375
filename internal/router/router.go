package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/csta-edu/enrollment-api/internal/config"
	"github.com/csta-edu/enrollment-api/internal/handler"
	"github.com/csta-edu/enrollment-api/internal/middleware"
	"github.com/csta-edu/enrollment-api/internal/models"
	"github.com/csta-edu/enrollment-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	EnrollHandler      *handler.EnrollHandler
	AdminEnrollHandler *handler.AdminEnrollHandler
	AdminAuditHandler  *handler.AdminAuditHandler
	AuthHandler        *handler.AuthHandler
	StudentHandler     *handler.StudentHandler
	JWTMiddleware      fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	api := app.Group("/api", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))
	api.Get("/metrics", observability.MetricsHandler())

	jwtMiddleware := deps.JWTMiddleware
	if jwtMiddleware == nil {
		jwtMiddleware = func(c *fiber.Ctx) error { return c.Next() }
	}

	// Public enrollment submission
	if deps.EnrollHandler != nil {
		deps.EnrollHandler.Register(api.Group("/enroll"))
	}

	// Auth
	if deps.AuthHandler != nil {
		auth := api.Group("/auth")
		deps.AuthHandler.RegisterPublic(auth)
		deps.AuthHandler.RegisterProtected(auth.Group("", jwtMiddleware))
	}

	// Student self-service
	if deps.StudentHandler != nil {
		student := api.Group("/student", jwtMiddleware, middleware.RequireRole(models.RoleStudent))
		deps.StudentHandler.Register(student)
	}

	// Admin review surface
	admin := api.Group("/admin", jwtMiddleware, middleware.RequireRole(models.RoleAdmin, models.RoleDean, models.RoleSuperadmin))
	if deps.AdminEnrollHandler != nil {
		deps.AdminEnrollHandler.Register(admin.Group("/enroll_requests"))
	}
	if deps.AdminAuditHandler != nil {
		deps.AdminAuditHandler.Register(admin.Group("/audit_logs"))
	}
}
