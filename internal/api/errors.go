// errors.go - Structured error responses and the mapping from domain errors
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/philipparndt/gocraft/internal/session"
	"github.com/philipparndt/gocraft/pkg/mesh"
	"github.com/philipparndt/gocraft/pkg/papercraft"
)

// APIError is the JSON body of every failed request
type APIError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewBadRequestError creates a 400 Bad Request error
func NewBadRequestError(message string, cause error) *APIError {
	err := &APIError{
		Status:  http.StatusBadRequest,
		Code:    "BAD_REQUEST",
		Message: message,
	}
	if cause != nil {
		err.Details = cause.Error()
	}
	return err
}

// NewValidationError creates a 400 validation error for a specific field
func NewValidationError(field string) *APIError {
	return &APIError{
		Status:  http.StatusBadRequest,
		Code:    "VALIDATION_ERROR",
		Message: fmt.Sprintf("validation failed for field: %s", field),
	}
}

// NewNotFoundError creates a 404 Not Found error
func NewNotFoundError(resource string, id string) *APIError {
	return &APIError{
		Status:  http.StatusNotFound,
		Code:    "NOT_FOUND",
		Message: fmt.Sprintf("%s not found: %s", resource, id),
	}
}

// NewConflictError creates a 409 Conflict error
func NewConflictError(message string) *APIError {
	return &APIError{
		Status:  http.StatusConflict,
		Code:    "CONFLICT",
		Message: message,
	}
}

// NewPreconditionError creates a 422 error for an edit the project state
// does not allow
func NewPreconditionError(message string) *APIError {
	return &APIError{
		Status:  http.StatusUnprocessableEntity,
		Code:    "PRECONDITION_FAILED",
		Message: message,
	}
}

// NewInternalError creates a 500 Internal Server Error
func NewInternalError(message string, cause error) *APIError {
	err := &APIError{
		Status:  http.StatusInternalServerError,
		Code:    "INTERNAL_ERROR",
		Message: message,
	}
	if cause != nil {
		err.Details = cause.Error()
	}
	return err
}

// NewServiceUnavailableError creates a 503 Service Unavailable error
func NewServiceUnavailableError(message string) *APIError {
	return &APIError{
		Status:  http.StatusServiceUnavailable,
		Code:    "SERVICE_UNAVAILABLE",
		Message: message,
	}
}

// FromDomainError converts an error from the session, papercraft or mesh
// packages into an APIError
func FromDomainError(err error) *APIError {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}

	var conflict *papercraft.VersionConflictError
	switch {
	case errors.As(err, &conflict):
		e := NewConflictError("island version is stale, refetch the project")
		e.Details = err.Error()
		return e
	case errors.Is(err, session.ErrProjectNotFound),
		errors.Is(err, papercraft.ErrUnknownEdge),
		errors.Is(err, papercraft.ErrUnknownFace),
		errors.Is(err, papercraft.ErrUnknownIsland):
		return &APIError{Status: http.StatusNotFound, Code: "NOT_FOUND", Message: err.Error()}
	case errors.Is(err, papercraft.ErrBoundaryEdge),
		errors.Is(err, papercraft.ErrEdgeNotJoined),
		errors.Is(err, papercraft.ErrEdgeNotCut),
		errors.Is(err, papercraft.ErrInconsistentJoin),
		errors.Is(err, papercraft.ErrIslandTooLarge):
		return NewPreconditionError(err.Error())
	case errors.Is(err, papercraft.ErrInvalidOptions),
		errors.Is(err, papercraft.ErrEdgeLengthMismatch),
		isMeshError(err):
		return NewBadRequestError(err.Error(), nil)
	case errors.Is(err, session.ErrTooManyProjects):
		return NewServiceUnavailableError(err.Error())
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return NewServiceUnavailableError("request cancelled")
	}
	return NewInternalError("unexpected error", err)
}

func isMeshError(err error) bool {
	for _, target := range []error{
		mesh.ErrInvalidFace,
		mesh.ErrVertexIndex,
		mesh.ErrDegenerateEdge,
		mesh.ErrNonManifold,
		mesh.ErrInconsistentWinding,
		mesh.ErrNoFaces,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// ErrorHandler renders errors returned by handlers.
// Usage: e.HTTPErrorHandler = api.ErrorHandler
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var apiErr *APIError
	var httpErr *echo.HTTPError
	switch {
	case errors.As(err, &apiErr):
	case errors.As(err, &httpErr):
		apiErr = &APIError{
			Status:  httpErr.Code,
			Code:    "HTTP_ERROR",
			Message: fmt.Sprintf("%v", httpErr.Message),
		}
	default:
		apiErr = FromDomainError(err)
	}

	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(apiErr.Status)
		return
	}
	_ = c.JSON(apiErr.Status, apiErr)
}
