package mesh

import "errors"

// Input-validation failures. Any of them aborts a load: no mesh is produced.
var (
	ErrInvalidFace         = errors.New("face has fewer than 3 vertices")
	ErrVertexIndex         = errors.New("vertex index out of range")
	ErrDegenerateEdge      = errors.New("edge connects a vertex position to itself")
	ErrNonManifold         = errors.New("edge is shared by more than two faces")
	ErrInconsistentWinding = errors.New("adjacent faces traverse their shared edge in the same direction")
	ErrNoFaces             = errors.New("mesh has no faces")
)
