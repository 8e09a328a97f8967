// Package shape provides the concrete geometric primitives emitted by the
// procedural generators and consumed by the grid accelerator: quadric spheres
// and cylinders (optionally clipped in z and phi) and indexed triangle meshes.
package shape

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/gekko3d/lumen/geom"
)

// Intersection is the hit record for a ray/shape query. THit is in the
// parameterization of the query ray.
type Intersection struct {
	THit float32
	P    mgl32.Vec3
	N    mgl32.Vec3
}

// Shape is the closed capability set shared by all primitives.
type Shape interface {
	Bounds() geom.Bounds3
	Intersect(r geom.Ray, tMax float32) (Intersection, bool)
	IntersectP(r geom.Ray, tMax float32) bool
}

// quadratic solves a*t^2 + b*t + c = 0, returning the roots in order.
func quadratic(a, b, c float32) (float32, float32, bool) {
	if a == 0 {
		return 0, 0, false
	}
	disc := float64(b)*float64(b) - 4*float64(a)*float64(c)
	if disc < 0 {
		return 0, 0, false
	}
	rootDisc := math.Sqrt(disc)
	var q float64
	if b < 0 {
		q = -0.5 * (float64(b) - rootDisc)
	} else {
		q = -0.5 * (float64(b) + rootDisc)
	}
	t0 := float32(q / float64(a))
	t1 := float32(float64(c) / q)
	if t0 > t1 {
		t0, t1 = t1, t0
	}
	return t0, t1, true
}
