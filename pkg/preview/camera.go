package preview

import (
	"math"

	"github.com/philipparndt/gocraft/pkg/geometry"
)

// Camera orbits a target point at a fixed distance
type Camera struct {
	Position geometry.Vector3
	Target   geometry.Vector3
	Up       geometry.Vector3
	FOV      float64 // Field of view in radians
	Distance float64
	Pitch    float64 // Rotation around the horizontal axis
	Yaw      float64 // Rotation around the up axis
}

// NewCamera creates a camera that sees the whole bounding box
func NewCamera(bbox geometry.BoundingBox, yaw, pitch float64) *Camera {
	radius := bbox.Size().Length() / 2
	if !(radius > 0) || math.IsInf(radius, 0) {
		radius = 1
	}
	fov := math.Pi / 4
	c := &Camera{
		Target:   bbox.Center(),
		Up:       geometry.NewVector3(0, 1, 0),
		FOV:      fov,
		Distance: radius / math.Sin(fov/2) * 1.1,
	}
	c.Rotate(pitch, yaw)
	return c
}

// Rotate turns the camera around the target. Pitch is clamped short of the
// poles.
func (c *Camera) Rotate(deltaPitch, deltaYaw float64) {
	maxAngle := math.Pi/2 - 0.1
	c.Pitch = math.Max(-maxAngle, math.Min(maxAngle, c.Pitch+deltaPitch))
	c.Yaw += deltaYaw

	x := c.Distance * math.Cos(c.Pitch) * math.Sin(c.Yaw)
	y := c.Distance * math.Sin(c.Pitch)
	z := c.Distance * math.Cos(c.Pitch) * math.Cos(c.Yaw)
	c.Position = c.Target.Add(geometry.NewVector3(x, y, z))
}

// Forward returns the viewing direction
func (c *Camera) Forward() geometry.Vector3 {
	return c.Target.Sub(c.Position).Normalize()
}

// Project maps a point to screen coordinates and its depth along the view
// direction
func (c *Camera) Project(point geometry.Vector3, width, height float64) (float64, float64, float64) {
	forward := c.Forward()
	right := forward.Cross(c.Up).Normalize()
	up := right.Cross(forward).Normalize()

	relative := point.Sub(c.Position)
	x := relative.Dot(right)
	y := relative.Dot(up)
	z := math.Max(relative.Dot(forward), 0.01)

	aspect := width / height
	fovScale := math.Tan(c.FOV / 2)
	screenX := x/(z*fovScale*aspect)*(width/2) + width/2
	screenY := -y/(z*fovScale)*(height/2) + height/2
	return screenX, screenY, z
}
