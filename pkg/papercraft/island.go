package papercraft

import (
	"math"

	"github.com/philipparndt/gocraft/pkg/geometry"
)

// IslandID identifies an island for as long as it exists. Ids are never
// reused within a project.
type IslandID uint32

// IslandKey names an island at a specific version. Move and rotate requests
// carry a key so stale writes can be rejected.
type IslandKey struct {
	ID      IslandID `json:"id"`
	Version uint32   `json:"version"`
}

// Island is a maximal set of faces connected by joined edges, placed on the
// page as one rigid piece. Root is the face whose local frame is the
// island's frame; Position and Rotation place that frame on the page.
type Island struct {
	ID       IslandID
	Version  uint32
	Root     int
	Position geometry.Vector2
	Rotation float64
	Faces    []int
}

// Key returns the island's current key
func (i *Island) Key() IslandKey {
	return IslandKey{ID: i.ID, Version: i.Version}
}

// Name returns the printed label of the island: A to Z, then AA, AB and so on
func (i *Island) Name() string {
	var b []byte
	for n := int(i.ID); n > 0; n = (n - 1) / 26 {
		b = append([]byte{byte('A' + (n-1)%26)}, b...)
	}
	return string(b)
}

// transform maps island-local coordinates to page space
func (i *Island) transform(scale float64) geometry.Affine {
	return geometry.RigidTransform(i.Rotation, i.Position).Mul(geometry.Scaling(scale))
}

func (i *Island) clone() *Island {
	c := *i
	c.Faces = append([]int(nil), i.Faces...)
	return &c
}

// normalizeAngle wraps an angle into (-π, π]
func normalizeAngle(a float64) float64 {
	a = math.Mod(a, 2*math.Pi)
	if a <= -math.Pi {
		a += 2 * math.Pi
	} else if a > math.Pi {
		a -= 2 * math.Pi
	}
	return a
}

func sameFaces(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
