package papercraft

import (
	"github.com/golang/geo/r2"

	"github.com/philipparndt/gocraft/pkg/geometry"
	"github.com/philipparndt/gocraft/pkg/mesh"
)

// Snapshot is the complete observable state of a project. Every edit
// operation returns a fresh one.
type Snapshot struct {
	Model   ModelInfo    `json:"model"`
	Options PaperOptions `json:"options"`
	Islands []IslandView `json:"islands"`
	Edges   []EdgeView   `json:"edges"`
}

// ModelInfo summarizes the mesh the project was built from
type ModelInfo struct {
	Vertices  int      `json:"vertices"`
	Faces     int      `json:"faces"`
	Edges     int      `json:"edges"`
	Materials []string `json:"materials"`
}

// IslandView is an island with its page geometry resolved
type IslandView struct {
	ID       IslandID         `json:"id"`
	Name     string           `json:"name"`
	Version  uint32           `json:"version"`
	Root     int              `json:"root"`
	Position geometry.Vector2 `json:"position"`
	Rotation float64          `json:"rotation"`
	Page     int              `json:"page"`
	Bounds   r2.Rect          `json:"bounds"`
	Faces    []FaceView       `json:"faces"`
}

// FaceView carries the page placement of one face. Matrix is the SVG
// matrix(a b c d e f) form of the face-local to page transform.
type FaceView struct {
	Face     int                `json:"face"`
	Material int                `json:"material"`
	Matrix   [6]float64         `json:"matrix"`
	Points   []geometry.Vector2 `json:"points"`
}

// EdgeView is an edge with its state and derived geometry
type EdgeView struct {
	Edge       int                `json:"edge"`
	Faces      [2]int             `json:"faces"`
	Status     EdgeStatus         `json:"status"`
	Fold       mesh.FoldKind      `json:"fold"`
	Angle      float64            `json:"angle"`
	Flap       bool               `json:"flap"`
	FlapOffset float64            `json:"flapOffset,omitempty"`
	FlapShape  []geometry.Vector2 `json:"flapShape,omitempty"`
}

// Snapshot captures the current state
func (p *Project) Snapshot() *Snapshot {
	s := &Snapshot{
		Model: ModelInfo{
			Vertices: p.mesh.NumVertices(),
			Faces:    p.mesh.NumFaces(),
			Edges:    p.mesh.NumEdges(),
		},
		Options: p.options,
		Islands: make([]IslandView, 0, len(p.islands)),
		Edges:   make([]EdgeView, 0, len(p.edges)),
	}
	for _, t := range p.mesh.Textures() {
		s.Model.Materials = append(s.Model.Materials, t.Name)
	}

	for _, isl := range p.islands {
		bounds := p.IslandBounds(isl.ID)
		view := IslandView{
			ID:       isl.ID,
			Name:     isl.Name(),
			Version:  isl.Version,
			Root:     isl.Root,
			Position: isl.Position,
			Rotation: isl.Rotation,
			Page:     p.options.PageOf(geometry.FromPoint(bounds.Center())),
			Bounds:   bounds,
			Faces:    make([]FaceView, 0, len(isl.Faces)),
		}
		for _, f := range isl.Faces {
			view.Faces = append(view.Faces, FaceView{
				Face:     f,
				Material: p.mesh.Face(f).Material,
				Matrix:   p.FacePageMatrix(f).SVG(),
				Points:   p.FacePagePoints(f),
			})
		}
		s.Islands = append(s.Islands, view)
	}

	for e, state := range p.edges {
		edge := p.mesh.Edge(e)
		view := EdgeView{
			Edge:       e,
			Faces:      edge.Faces,
			Status:     state.Status,
			Fold:       edge.Fold(),
			Angle:      edge.Angle,
			Flap:       state.Flap && state.Status == Cut,
			FlapOffset: state.FlapOffset,
		}
		if flap, ok := p.Flap(e); ok {
			view.FlapShape = flap
		}
		s.Edges = append(s.Edges, view)
	}
	return s
}

// Island returns the view of island id
func (s *Snapshot) Island(id IslandID) (IslandView, bool) {
	for _, isl := range s.Islands {
		if isl.ID == id {
			return isl, true
		}
	}
	return IslandView{}, false
}
