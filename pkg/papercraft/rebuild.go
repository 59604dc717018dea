package papercraft

import (
	"slices"

	"github.com/philipparndt/gocraft/pkg/geometry"
	"github.com/philipparndt/gocraft/pkg/mesh"
)

// SplitDistance is how far in millimetres a split-off island is pushed away
// from the edge that was cut
const SplitDistance = 5.0

type rebuildHint struct {
	cutEdge      int
	priorityFace int
}

// rebuild recomputes the islands from the joined edges. An island keeps its
// id and placement while its root face survives in a component; when
// several roots end up together, the priority face's island wins, then the
// larger island, then the older one. Islands whose face set changed and
// all new islands get a version bump, reported in the returned set.
func (p *Project) rebuild(hint rebuildHint) map[IslandID]bool {
	n := p.mesh.NumFaces()
	components, compOf := p.components()

	oldIslands := p.islands
	oldFaceIsland := p.faceIsland
	oldMatrix := p.faceMatrix

	candidates := make([][]*Island, len(components))
	for _, isl := range oldIslands {
		c := compOf[isl.Root]
		candidates[c] = append(candidates[c], isl)
	}

	bumped := make(map[IslandID]bool)
	p.islands = make([]*Island, 0, len(components))
	p.faceIsland = make([]IslandID, n)
	p.faceMatrix = make([]geometry.Affine, n)

	for c, faces := range components {
		var isl *Island
		if winner := p.pickSurvivor(candidates[c], hint, oldFaceIsland); winner != nil {
			isl = winner.clone()
			if !sameFaces(isl.Faces, faces) {
				isl.Version++
				bumped[isl.ID] = true
			}
		} else {
			isl = &Island{ID: p.nextID, Version: 1, Root: faces[0]}
			p.nextID++
			bumped[isl.ID] = true
			if oldIslands != nil {
				p.placeSplit(isl, faces, hint, oldFaceIsland, oldIslands, oldMatrix)
			}
		}
		isl.Faces = faces
		p.islands = append(p.islands, isl)
		for _, f := range faces {
			p.faceIsland[f] = isl.ID
		}
		p.layoutFaces(isl)
	}

	slices.SortFunc(p.islands, func(a, b *Island) int {
		return int(a.ID) - int(b.ID)
	})
	return bumped
}

// components groups faces connected by joined edges. Faces are visited in
// index order, so each component is sorted and starts at its lowest face.
func (p *Project) components() ([][]int, []int) {
	n := p.mesh.NumFaces()
	compOf := make([]int, n)
	for f := range compOf {
		compOf[f] = -1
	}

	var components [][]int
	for start := 0; start < n; start++ {
		if compOf[start] >= 0 {
			continue
		}
		c := len(components)
		compOf[start] = c
		faces := []int{start}
		queue := []int{start}
		for len(queue) > 0 {
			f := queue[0]
			queue = queue[1:]
			for _, e := range p.mesh.FaceEdges(f) {
				if p.edges[e].Status != Joined {
					continue
				}
				other := p.mesh.Edge(e).Other(f)
				if other == mesh.NoFace || compOf[other] >= 0 {
					continue
				}
				compOf[other] = c
				faces = append(faces, other)
				queue = append(queue, other)
			}
		}
		slices.Sort(faces)
		components = append(components, faces)
	}
	return components, compOf
}

func (p *Project) pickSurvivor(candidates []*Island, hint rebuildHint, oldFaceIsland []IslandID) *Island {
	if len(candidates) == 0 {
		return nil
	}
	if hint.priorityFace != mesh.NoFace && oldFaceIsland != nil {
		for _, isl := range candidates {
			if isl.ID == oldFaceIsland[hint.priorityFace] {
				return isl
			}
		}
	}
	best := candidates[0]
	for _, isl := range candidates[1:] {
		if len(isl.Faces) > len(best.Faces) || (len(isl.Faces) == len(best.Faces) && isl.ID < best.ID) {
			best = isl
		}
	}
	return best
}

// placeSplit puts a new island where its root face used to be on the page,
// shifted away from the cut edge
func (p *Project) placeSplit(isl *Island, faces []int, hint rebuildHint, oldFaceIsland []IslandID, oldIslands []*Island, oldMatrix []geometry.Affine) {
	parent := findIsland(oldIslands, oldFaceIsland[isl.Root])
	if parent == nil {
		return
	}
	local := oldMatrix[isl.Root]
	scale := p.options.Scale
	isl.Rotation = normalizeAngle(parent.Rotation + local.RotationAngle())
	isl.Position = parent.Position.Add(local.TranslationPart().Mul(scale).Rotate(parent.Rotation))

	if hint.cutEdge < 0 {
		return
	}
	edge := p.mesh.Edge(hint.cutEdge)
	inside := edge.Faces[0]
	if _, ok := slices.BinarySearch(faces, inside); !ok {
		inside = edge.Faces[1]
		if _, ok := slices.BinarySearch(faces, inside); !ok {
			return
		}
	}

	page := parent.transform(scale).Mul(oldMatrix[inside])
	shape := p.shapes[inside]
	side := edge.Sides[edge.Slot(inside)]
	a := page.TransformPoint(shape[side])
	b := page.TransformPoint(shape[(side+1)%len(shape)])
	// faces wind counter-clockwise, so the interior is left of a→b
	away := b.Sub(a).Perp().Normalize()
	isl.Position = isl.Position.Add(away.Mul(SplitDistance))
}

func findIsland(islands []*Island, id IslandID) *Island {
	for _, isl := range islands {
		if isl.ID == id {
			return isl
		}
	}
	return nil
}

// layoutFaces assigns island-local matrices by walking joined edges depth
// first from the root
func (p *Project) layoutFaces(isl *Island) {
	visited := map[int]bool{isl.Root: true}
	p.faceMatrix[isl.Root] = geometry.Identity()
	stack := []int{isl.Root}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, e := range p.mesh.FaceEdges(f) {
			if p.edges[e].Status != Joined {
				continue
			}
			child := p.mesh.Edge(e).Other(f)
			if child == mesh.NoFace || visited[child] {
				continue
			}
			visited[child] = true
			p.faceMatrix[child] = p.alignEdge(p.faceMatrix[f], e, f, child)
			stack = append(stack, child)
		}
	}
}

// alignEdge returns the matrix placing child so that its copy of edge e lies
// on the parent's copy. The shared edge runs in opposite directions in the
// two windings.
func (p *Project) alignEdge(parentMatrix geometry.Affine, e, parent, child int) geometry.Affine {
	edge := p.mesh.Edge(e)
	ps, cs := p.shapes[parent], p.shapes[child]
	pSide := edge.Sides[edge.Slot(parent)]
	cSide := edge.Sides[edge.Slot(child)]

	pa, pb := ps[pSide], ps[(pSide+1)%len(ps)]
	ca, cb := cs[cSide], cs[(cSide+1)%len(cs)]

	angle := pa.Sub(pb).Angle() - cb.Sub(ca).Angle()
	offset := pb.Sub(ca.Rotate(angle))
	return parentMatrix.Mul(geometry.RigidTransform(angle, offset))
}
