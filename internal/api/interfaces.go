// interfaces.go - Handler interface definitions
package api

import "github.com/labstack/echo/v4"

// HealthHandler reports server liveness
type HealthHandler interface {
	HandleHealth(c echo.Context) error
}

// ProjectHandler opens, edits and exports papercraft projects
type ProjectHandler interface {
	HandleCreateProject(c echo.Context) error
	HandleListProjects(c echo.Context) error
	HandleGetProject(c echo.Context) error
	HandleGetProjectMsgpack(c echo.Context) error
	HandleApplyAction(c echo.Context) error
	HandleExportPage(c echo.Context) error
	HandleExportPages(c echo.Context) error
	HandlePreview(c echo.Context) error
	HandleDeleteProject(c echo.Context) error
}
