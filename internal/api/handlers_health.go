// handlers_health.go - Health check handlers
package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/philipparndt/gocraft/internal/session"
)

// HealthHandlerImpl implements the HealthHandler interface
type HealthHandlerImpl struct {
	version    string
	sessionMgr *session.Manager
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(version string, sessionMgr *session.Manager) HealthHandler {
	return &HealthHandlerImpl{
		version:    version,
		sessionMgr: sessionMgr,
	}
}

// HandleHealth returns server health status and the number of open projects
func (h *HealthHandlerImpl) HandleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":   "ok",
		"version":  h.version,
		"projects": len(h.sessionMgr.List()),
	})
}
