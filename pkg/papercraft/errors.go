package papercraft

import (
	"errors"
	"fmt"
)

// Input-validation failure raised while unfolding; no project is created.
var ErrEdgeLengthMismatch = errors.New("shared edge has different lengths in its two faces")

// Operation-precondition failures. The project is left unchanged.
var (
	ErrUnknownEdge      = errors.New("unknown edge")
	ErrUnknownFace      = errors.New("unknown face")
	ErrUnknownIsland    = errors.New("unknown island")
	ErrBoundaryEdge     = errors.New("edge has no second face")
	ErrEdgeNotJoined    = errors.New("edge is not joined")
	ErrEdgeNotCut       = errors.New("edge is not cut")
	ErrInconsistentJoin = errors.New("faces cannot be joined without tearing the island")
	ErrVersionConflict  = errors.New("island version is stale")
	ErrInvalidOptions   = errors.New("invalid paper options")
	ErrIslandTooLarge   = errors.New("island does not fit in the usable page area")
)

// EdgeError reports a failed edge operation
type EdgeError struct {
	Op   string
	Edge int
	Err  error
}

func (e *EdgeError) Error() string {
	return fmt.Sprintf("%s edge %d: %v", e.Op, e.Edge, e.Err)
}

func (e *EdgeError) Unwrap() error {
	return e.Err
}

// VersionConflictError is returned when a caller acts on an outdated island
// version and must refetch the project
type VersionConflictError struct {
	Island   IslandID
	Expected uint32
	Actual   uint32
}

func (e *VersionConflictError) Error() string {
	return fmt.Sprintf("island %d: version %d requested, current is %d", e.Island, e.Expected, e.Actual)
}

// Is makes errors.Is(err, ErrVersionConflict) match
func (e *VersionConflictError) Is(target error) bool {
	return target == ErrVersionConflict
}
