package papercraft

import (
	"fmt"
	"math"

	"github.com/philipparndt/gocraft/pkg/geometry"
	"github.com/philipparndt/gocraft/pkg/mesh"
)

// JoinTolerance is the largest distance, relative to the edge length, by
// which a face may be off when joining two faces of the same island
const JoinTolerance = 1e-6

// Cut separates the faces of a joined edge. The island splits when the edge
// was its only link between the two faces; the split-off part is placed
// next to where it was. The new cut gets a flap; offset moves the start of
// that flap along the edge.
func (p *Project) Cut(e int, offset *float64) (*Snapshot, error) {
	edge, err := p.checkEdge("cut", e)
	if err != nil {
		return nil, err
	}
	if p.edges[e].Status != Joined {
		return nil, &EdgeError{Op: "cut", Edge: e, Err: ErrEdgeNotJoined}
	}

	state := EdgeState{Status: Cut, Flap: true}
	if offset != nil {
		state.FlapOffset = *offset
	}
	p.edges[e] = state

	done := p.rebuild(rebuildHint{cutEdge: e, priorityFace: mesh.NoFace})
	p.touch(done, edge.Faces[0], edge.Faces[1])
	return p.Snapshot(), nil
}

// Join glues the faces of a cut edge. Two islands merge into the one owning
// priorityFace, or the larger one when no priority is given. Joining two
// faces of the same island only succeeds when they already line up.
func (p *Project) Join(e int, priorityFace *int) (*Snapshot, error) {
	edge, err := p.checkEdge("join", e)
	if err != nil {
		return nil, err
	}
	if p.edges[e].Status != Cut {
		return nil, &EdgeError{Op: "join", Edge: e, Err: ErrEdgeNotCut}
	}
	hint := rebuildHint{cutEdge: -1, priorityFace: mesh.NoFace}
	if priorityFace != nil {
		if *priorityFace < 0 || *priorityFace >= p.mesh.NumFaces() {
			return nil, fmt.Errorf("join edge %d: priority face %d: %w", e, *priorityFace, ErrUnknownFace)
		}
		hint.priorityFace = *priorityFace
	}

	f0, f1 := edge.Faces[0], edge.Faces[1]
	if p.faceIsland[f0] == p.faceIsland[f1] {
		want := p.alignEdge(p.faceMatrix[f0], e, f0, f1)
		tol := JoinTolerance * math.Max(1, p.sideLength(f0, edge.Sides[0]))
		if !want.ApproxEqual(p.faceMatrix[f1], tol) {
			return nil, &EdgeError{Op: "join", Edge: e, Err: ErrInconsistentJoin}
		}
	}

	p.edges[e] = EdgeState{Status: Joined}
	done := p.rebuild(hint)
	p.touch(done, f0, f1)
	return p.Snapshot(), nil
}

// ToggleFlap changes the flap of a cut edge
func (p *Project) ToggleFlap(e int, action FlapAction) (*Snapshot, error) {
	edge, err := p.checkEdge("toggle flap", e)
	if err != nil {
		return nil, err
	}
	if p.edges[e].Status != Cut {
		return nil, &EdgeError{Op: "toggle flap", Edge: e, Err: ErrEdgeNotCut}
	}

	p.edges[e].Flap = action.apply(p.edges[e].Flap)
	p.touch(map[IslandID]bool{}, edge.Faces[0], edge.Faces[1])
	return p.Snapshot(), nil
}

// MoveIsland shifts an island by delta millimetres
func (p *Project) MoveIsland(key IslandKey, delta geometry.Vector2) (*Snapshot, error) {
	isl, err := p.checkKey(key)
	if err != nil {
		return nil, err
	}
	isl.Position = isl.Position.Add(delta)
	isl.Version++
	return p.Snapshot(), nil
}

// RotateIsland turns an island by angle radians around a page-space center
func (p *Project) RotateIsland(key IslandKey, angle float64, center geometry.Vector2) (*Snapshot, error) {
	isl, err := p.checkKey(key)
	if err != nil {
		return nil, err
	}
	isl.Position = center.Add(isl.Position.Sub(center).Rotate(angle))
	isl.Rotation = normalizeAngle(isl.Rotation + angle)
	isl.Version++
	return p.Snapshot(), nil
}

// SetOptions replaces the paper options. With relocate set the islands are
// packed for the new page; when they do not fit, nothing changes.
func (p *Project) SetOptions(options PaperOptions, relocate bool) (*Snapshot, error) {
	options, err := options.Validate()
	if err != nil {
		return nil, err
	}
	if !relocate {
		p.options = options
		return p.Snapshot(), nil
	}

	previous := p.options
	p.options = options
	plan, pages, err := p.planPack()
	if err != nil {
		p.options = previous
		return nil, err
	}
	p.applyPlan(plan, pages, true)
	return p.Snapshot(), nil
}

// Pack arranges all islands on the pages without overlap, adding pages as
// needed
func (p *Project) Pack() (*Snapshot, error) {
	if err := p.pack(true); err != nil {
		return nil, err
	}
	return p.Snapshot(), nil
}
