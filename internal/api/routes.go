// routes.go - Route registration and middleware
package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/philipparndt/gocraft/internal/config"
	"github.com/philipparndt/gocraft/internal/session"
)

// Dependencies holds all handler dependencies
type Dependencies struct {
	SessionMgr *session.Manager
	Config     *config.Config
	Version    string
}

// Handlers holds all handler instances
type Handlers struct {
	Health  HealthHandler
	Project ProjectHandler
}

// NewHandlers creates all handler instances
func NewHandlers(deps *Dependencies) *Handlers {
	return &Handlers{
		Health:  NewHealthHandler(deps.Version, deps.SessionMgr),
		Project: NewProjectHandler(deps.SessionMgr, deps.Config.Paper),
	}
}

// RegisterRoutes registers all API routes with the Echo instance
func RegisterRoutes(e *echo.Echo, handlers *Handlers) {
	e.GET("/health", handlers.Health.HandleHealth)

	projects := e.Group("/api/projects")
	projects.POST("", handlers.Project.HandleCreateProject)
	projects.GET("", handlers.Project.HandleListProjects)
	projects.GET("/:id", handlers.Project.HandleGetProject)
	projects.GET("/:id/snapshot.msgpack", handlers.Project.HandleGetProjectMsgpack)
	projects.POST("/:id/actions", handlers.Project.HandleApplyAction)
	projects.GET("/:id/pages", handlers.Project.HandleExportPages)
	projects.GET("/:id/pages/:page", handlers.Project.HandleExportPage)
	projects.GET("/:id/preview.png", handlers.Project.HandlePreview)
	projects.DELETE("/:id", handlers.Project.HandleDeleteProject)
}

// SetupMiddleware configures the error handler and common middleware
func SetupMiddleware(e *echo.Echo, cfg config.ServerConfig) {
	e.HTTPErrorHandler = ErrorHandler

	if cfg.RequestLogging {
		e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
			Skipper: func(c echo.Context) bool {
				return c.Path() == "/health"
			},
		}))
	}
	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		StackSize: 1024 * 4,
	}))
	e.Use(middleware.BodyLimit(cfg.BodyLimit))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.AllowOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
	}))
}
