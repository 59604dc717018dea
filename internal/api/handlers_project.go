// handlers_project.go - Project lifecycle, edit and export handlers
package api

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/philipparndt/gocraft/internal/session"
	"github.com/philipparndt/gocraft/pkg/export"
	"github.com/philipparndt/gocraft/pkg/mesh"
	"github.com/philipparndt/gocraft/pkg/obj"
	"github.com/philipparndt/gocraft/pkg/papercraft"
	"github.com/philipparndt/gocraft/pkg/preview"
	"github.com/philipparndt/gocraft/pkg/stl"
)

// Model sources accepted by HandleCreateProject
const (
	FormatOBJ         = "obj"
	FormatSTL         = "stl"
	FormatCube        = "cube"
	FormatTetrahedron = "tetrahedron"
)

// ProjectHandlerImpl implements the ProjectHandler interface
type ProjectHandlerImpl struct {
	sessionMgr *session.Manager
	defaults   papercraft.PaperOptions
}

// NewProjectHandler creates a project handler. Projects created without
// options use defaults.
func NewProjectHandler(sessionMgr *session.Manager, defaults papercraft.PaperOptions) ProjectHandler {
	return &ProjectHandlerImpl{
		sessionMgr: sessionMgr,
		defaults:   defaults,
	}
}

type createProjectRequest struct {
	Name   string `json:"name"`
	Format string `json:"format"`
	// Data is the base64 encoded model file for obj and stl
	Data    string                   `json:"data,omitempty"`
	Size    float64                  `json:"size,omitempty"`
	Options *papercraft.PaperOptions `json:"options,omitempty"`
}

func (r *createProjectRequest) validate() error {
	if r.Name == "" {
		return NewValidationError("name")
	}
	switch r.Format {
	case FormatOBJ, FormatSTL:
		if r.Data == "" {
			return NewValidationError("data")
		}
	case FormatCube, FormatTetrahedron:
		if r.Size < 0 {
			return NewValidationError("size")
		}
	default:
		return NewValidationError("format")
	}
	return nil
}

func (r *createProjectRequest) mesh() (*mesh.Mesh, error) {
	size := r.Size
	if size == 0 {
		size = 50
	}
	switch r.Format {
	case FormatCube:
		return mesh.Cube(size), nil
	case FormatTetrahedron:
		return mesh.Tetrahedron(size), nil
	}

	decoded, err := base64.StdEncoding.DecodeString(r.Data)
	if err != nil {
		return nil, NewBadRequestError("invalid base64 data", err)
	}
	if r.Format == FormatSTL {
		model, err := stl.ParseReader(bytes.NewReader(decoded))
		if err != nil {
			return nil, NewBadRequestError("invalid STL file", err)
		}
		return model.Mesh()
	}
	model, err := obj.ParseReader(bytes.NewReader(decoded))
	if err != nil {
		return nil, NewBadRequestError("invalid OBJ file", err)
	}
	// uploaded OBJ files carry no texture images
	return model.Mesh(nil)
}

type projectResponse struct {
	Project  session.Info         `json:"project"`
	Snapshot *papercraft.Snapshot `json:"snapshot"`
}

// HandleCreateProject loads a model and unfolds it into a new project
func (h *ProjectHandlerImpl) HandleCreateProject(c echo.Context) error {
	var req createProjectRequest
	if err := c.Bind(&req); err != nil {
		return NewBadRequestError("invalid JSON body", err)
	}
	if err := req.validate(); err != nil {
		return err
	}

	m, err := req.mesh()
	if err != nil {
		return FromDomainError(err)
	}
	options := h.defaults
	if req.Options != nil {
		options = *req.Options
	}

	info, snap, err := h.sessionMgr.Create(c.Request().Context(), req.Name, m, options)
	if err != nil {
		return FromDomainError(err)
	}
	return c.JSON(http.StatusCreated, projectResponse{Project: info, Snapshot: snap})
}

// HandleListProjects returns all open projects
func (h *ProjectHandlerImpl) HandleListProjects(c echo.Context) error {
	return c.JSON(http.StatusOK, h.sessionMgr.List())
}

// HandleGetProject returns the current snapshot of a project
func (h *ProjectHandlerImpl) HandleGetProject(c echo.Context) error {
	snap, err := h.sessionMgr.Snapshot(c.Param("id"))
	if err != nil {
		return FromDomainError(err)
	}
	return c.JSON(http.StatusOK, snap)
}

// HandleGetProjectMsgpack returns the snapshot msgpack encoded with the
// same field names as the JSON form
func (h *ProjectHandlerImpl) HandleGetProjectMsgpack(c echo.Context) error {
	snap, err := h.sessionMgr.Snapshot(c.Param("id"))
	if err != nil {
		return FromDomainError(err)
	}

	data, err := encodeMsgpack(snap)
	if err != nil {
		return NewInternalError("failed to encode msgpack", err)
	}
	return c.Blob(http.StatusOK, "application/msgpack", data)
}

func encodeMsgpack(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.SetCustomStructTag("json")
	enc.UseCompactInts(true)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// HandleApplyAction runs one edit action and returns the new snapshot
func (h *ProjectHandlerImpl) HandleApplyAction(c echo.Context) error {
	var action Action
	if err := c.Bind(&action); err != nil {
		return NewBadRequestError("invalid JSON body", err)
	}
	if err := action.validate(); err != nil {
		return err
	}

	id := c.Param("id")
	snap, err := h.sessionMgr.Apply(c.Request().Context(), id, action.Apply)
	if err != nil {
		return FromDomainError(err)
	}
	return c.JSON(http.StatusOK, snap)
}

// HandleExportPage renders one page of the project as SVG
func (h *ProjectHandlerImpl) HandleExportPage(c echo.Context) error {
	id := c.Param("id")
	page, err := strconv.Atoi(strings.TrimSuffix(c.Param("page"), ".svg"))
	if err != nil || page < 0 {
		return NewValidationError("page")
	}

	layout, err := h.sessionMgr.Layout(id)
	if err != nil {
		return FromDomainError(err)
	}
	if page >= len(layout.Pages) {
		return NewNotFoundError("page", strconv.Itoa(page))
	}

	var buf bytes.Buffer
	if err := export.WriteSVG(&buf, layout, page); err != nil {
		return NewInternalError("failed to render page", err)
	}
	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf("inline; filename=%q", fmt.Sprintf("page-%d.svg", page+1)))
	return c.Blob(http.StatusOK, "image/svg+xml", buf.Bytes())
}

// HandleExportPages renders every page into one Inkscape multipage SVG
func (h *ProjectHandlerImpl) HandleExportPages(c echo.Context) error {
	layout, err := h.sessionMgr.Layout(c.Param("id"))
	if err != nil {
		return FromDomainError(err)
	}

	var buf bytes.Buffer
	if err := export.WriteSVGMultipage(&buf, layout); err != nil {
		return NewInternalError("failed to render pages", err)
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, `inline; filename="pages.svg"`)
	return c.Blob(http.StatusOK, "image/svg+xml", buf.Bytes())
}

// HandlePreview renders a PNG thumbnail of the model with faces tinted by
// island. Query parameters: width, height, yaw and pitch (radians).
func (h *ProjectHandlerImpl) HandlePreview(c echo.Context) error {
	opts := preview.DefaultOptions()
	var err error
	if opts.Width, err = queryInt(c, "width", opts.Width, 16, 2048); err != nil {
		return err
	}
	if opts.Height, err = queryInt(c, "height", opts.Height, 16, 2048); err != nil {
		return err
	}
	if opts.Yaw, err = queryFloat(c, "yaw", opts.Yaw); err != nil {
		return err
	}
	if opts.Pitch, err = queryFloat(c, "pitch", opts.Pitch); err != nil {
		return err
	}

	var img *image.RGBA
	if err := h.sessionMgr.View(c.Param("id"), func(p *papercraft.Project) {
		img = preview.RenderProject(p, opts)
	}); err != nil {
		return FromDomainError(err)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return NewInternalError("failed to encode preview", err)
	}
	return c.Blob(http.StatusOK, "image/png", buf.Bytes())
}

func queryInt(c echo.Context, name string, defaultVal, lo, hi int) (int, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return defaultVal, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < lo || v > hi {
		return 0, NewValidationError(name)
	}
	return v, nil
}

func queryFloat(c echo.Context, name string, defaultVal float64) (float64, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return defaultVal, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, NewValidationError(name)
	}
	return v, nil
}

// HandleDeleteProject closes a project
func (h *ProjectHandlerImpl) HandleDeleteProject(c echo.Context) error {
	id := c.Param("id")
	if !h.sessionMgr.Delete(id) {
		return NewNotFoundError("project", id)
	}
	return c.NoContent(http.StatusNoContent)
}
