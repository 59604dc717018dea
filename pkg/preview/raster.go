package preview

import (
	"image"
	"image/color"
	"math"
)

// vertex is a projected corner: screen position and depth
type vertex struct {
	x, y, z float64
}

// canvas is an image with a depth buffer
type canvas struct {
	img   *image.RGBA
	depth []float64
}

func newCanvas(width, height int, background color.RGBA) *canvas {
	c := &canvas{
		img:   image.NewRGBA(image.Rect(0, 0, width, height)),
		depth: make([]float64, width*height),
	}
	for i := range c.depth {
		c.depth[i] = math.Inf(1)
	}
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			c.img.SetRGBA(x, y, background)
		}
	}
	return c
}

// fillTriangle scan-converts a triangle, keeping the nearest surface per
// pixel
func (c *canvas) fillTriangle(a, b, v vertex, col color.RGBA) {
	pts := [3]vertex{a, b, v}
	if pts[0].y > pts[1].y {
		pts[0], pts[1] = pts[1], pts[0]
	}
	if pts[1].y > pts[2].y {
		pts[1], pts[2] = pts[2], pts[1]
	}
	if pts[0].y > pts[1].y {
		pts[0], pts[1] = pts[1], pts[0]
	}

	bounds := c.img.Bounds()
	width := bounds.Dx()
	top := int(math.Max(0, math.Ceil(pts[0].y)))
	bottom := int(math.Min(float64(bounds.Max.Y-1), pts[2].y))

	for y := top; y <= bottom; y++ {
		fy := float64(y)
		var xs [2]float64
		var zs [2]float64
		n := 0
		for _, e := range [3][2]int{{0, 1}, {1, 2}, {0, 2}} {
			p, q := pts[e[0]], pts[e[1]]
			if p.y == q.y || fy < p.y || fy > q.y || n == 2 {
				continue
			}
			t := (fy - p.y) / (q.y - p.y)
			xs[n] = p.x + t*(q.x-p.x)
			zs[n] = p.z + t*(q.z-p.z)
			n++
		}
		if n < 2 {
			continue
		}
		if xs[0] > xs[1] {
			xs[0], xs[1] = xs[1], xs[0]
			zs[0], zs[1] = zs[1], zs[0]
		}

		left := int(math.Max(0, math.Ceil(xs[0])))
		right := int(math.Min(float64(bounds.Max.X-1), xs[1]))
		for x := left; x <= right; x++ {
			t := 0.0
			if xs[1] != xs[0] {
				t = (float64(x) - xs[0]) / (xs[1] - xs[0])
			}
			z := zs[0] + t*(zs[1]-zs[0])
			idx := y*width + x
			if z < c.depth[idx] {
				c.depth[idx] = z
				c.img.SetRGBA(x, y, col)
			}
		}
	}
}

// drawLine draws a depth-tested line with Bresenham's algorithm. bias pulls
// the line towards the viewer so it wins against the faces it lies on.
func (c *canvas) drawLine(a, b vertex, col color.RGBA, bias float64) {
	bounds := c.img.Bounds()
	width := bounds.Dx()
	x1, y1 := int(math.Round(a.x)), int(math.Round(a.y))
	x2, y2 := int(math.Round(b.x)), int(math.Round(b.y))

	dx, dy := abs(x2-x1), abs(y2-y1)
	sx, sy := 1, 1
	if x1 > x2 {
		sx = -1
	}
	if y1 > y2 {
		sy = -1
	}
	steps := max(dx, dy)
	err := dx - dy

	for i := 0; ; i++ {
		if x1 >= 0 && x1 < bounds.Max.X && y1 >= 0 && y1 < bounds.Max.Y {
			t := 0.0
			if steps > 0 {
				t = float64(i) / float64(steps)
			}
			z := a.z + t*(b.z-a.z) - bias
			idx := y1*width + x1
			if z <= c.depth[idx] {
				c.img.SetRGBA(x1, y1, col)
			}
		}
		if x1 == x2 && y1 == y2 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x1 += sx
		}
		if e2 < dx {
			err += dx
			y1 += sy
		}
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
