package rest

import (
	"database/sql"
	"log/slog"

	"github.com/frahmantamala/company-directory/internal"
	"github.com/frahmantamala/company-directory/internal/admin"
	"github.com/frahmantamala/company-directory/internal/app"
	"github.com/frahmantamala/company-directory/internal/assignment"
	"github.com/frahmantamala/company-directory/internal/auth"
	"github.com/frahmantamala/company-directory/internal/companyposition"
	"github.com/frahmantamala/company-directory/internal/department"
	"github.com/frahmantamala/company-directory/internal/transport/middleware"
	"github.com/frahmantamala/company-directory/internal/transport/swagger"
	"github.com/frahmantamala/company-directory/internal/user"
	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"
)

// Controllers holds every routed controller.
type Controllers struct {
	App             *app.Handler
	User            *user.Handler
	Admin           *admin.Handler
	Auth            *auth.Handler
	Department      *department.Handler
	CompanyPosition *companyposition.Handler
	Assignment      *assignment.Handler
}

// RegisterActions fills the dispatch table. A nil controller registers
// nothing, so its routes answer "Method or class not found!".
func RegisterActions(d *Dispatcher, c Controllers) {
	if h := c.App; h != nil {
		d.Handle("app", "app", "list", h.List)
		d.Handle("app", "app", "get", h.Get)
		d.Handle("app", "app", "create", h.Create)
		d.Handle("app", "app", "update", h.Update)
		d.Handle("app", "app", "delete", h.Delete)
	}
	if h := c.User; h != nil {
		d.Handle("user", "user", "list", h.List)
		d.Handle("user", "user", "get", h.Get)
		d.Handle("user", "user", "create", h.Create)
		d.Handle("user", "user", "update", h.Update)
		d.Handle("user", "user", "delete", h.Delete)
	}
	if h := c.Admin; h != nil {
		d.Handle("user", "admin", "configure", h.Configure)
		d.Handle("user", "admin", "add", h.Add)
		d.Handle("user", "admin", "remove", h.Remove)
	}
	if h := c.Auth; h != nil {
		d.Handle("user", "auth", "register", h.Register)
		d.Handle("user", "auth", "login", h.Login)
		d.Handle("user", "auth", "logout", h.Logout)
	}
	if h := c.Department; h != nil {
		d.Handle("user", "department", "list", h.List)
		d.Handle("user", "department", "get", h.Get)
		d.Handle("user", "department", "create", h.Create)
		d.Handle("user", "department", "update", h.Update)
		d.Handle("user", "department", "delete", h.Delete)
	}
	if h := c.CompanyPosition; h != nil {
		d.Handle("user", "companyPosition", "list", h.List)
		d.Handle("user", "companyPosition", "get", h.Get)
		d.Handle("user", "companyPosition", "create", h.Create)
		d.Handle("user", "companyPosition", "update", h.Update)
		d.Handle("user", "companyPosition", "delete", h.Delete)
	}
	if h := c.Assignment; h != nil {
		d.Handle("user", "assignment", "list", h.List)
		d.Handle("user", "assignment", "assign", h.Assign)
		d.Handle("user", "assignment", "revoke", h.Revoke)
		d.Handle("user", "assignment", "check", h.Check)
	}
}

// RegisterAllRoutes installs the middleware chain, the operational
// endpoints and the /api dispatcher on router.
func RegisterAllRoutes(router *chi.Mux, db *sql.DB, cfg internal.ServerConfig, dispatcher *Dispatcher, logger *slog.Logger) {
	healthHandler := NewHealthHandler(db)

	router.Use(middleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(middleware.LoggingMiddleware(logger))
	router.Use(middleware.RecoveryMiddleware(logger, cfg.MirrorStatusCode))
	router.Use(middleware.CORS(cfg.AllowedOrigins))
	if cfg.RateLimit.RequestsPerSecond > 0 {
		router.Use(middleware.RateLimit(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst, cfg.MirrorStatusCode, logger))
	}

	router.Get("/ping", healthHandler.pingHandler)
	router.Get("/health", healthHandler.healthCheckHandler)
	router.Handle("/metrics", MetricsHandler())

	if cfg.OpenAPIPath != "" {
		router.Get("/openapi.yml", swagger.SpecHandler(cfg.OpenAPIPath))
		router.Handle("/swagger/*", swagger.Handler())
	}

	router.Mount("/api", dispatcher)
}
