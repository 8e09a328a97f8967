package geom

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Bounds3 is an axis-aligned bounding box.
type Bounds3 struct {
	Min mgl32.Vec3
	Max mgl32.Vec3
}

// EmptyBounds returns an inverted box so that the first Union fixes it.
func EmptyBounds() Bounds3 {
	inf := float32(math.Inf(1))
	return Bounds3{
		Min: mgl32.Vec3{inf, inf, inf},
		Max: mgl32.Vec3{-inf, -inf, -inf},
	}
}

func NewBounds3(p0, p1 mgl32.Vec3) Bounds3 {
	b := Bounds3{}
	for axis := 0; axis < 3; axis++ {
		b.Min[axis] = min(p0[axis], p1[axis])
		b.Max[axis] = max(p0[axis], p1[axis])
	}
	return b
}

func (b Bounds3) Union(o Bounds3) Bounds3 {
	for axis := 0; axis < 3; axis++ {
		b.Min[axis] = min(b.Min[axis], o.Min[axis])
		b.Max[axis] = max(b.Max[axis], o.Max[axis])
	}
	return b
}

func (b Bounds3) UnionPoint(p mgl32.Vec3) Bounds3 {
	for axis := 0; axis < 3; axis++ {
		b.Min[axis] = min(b.Min[axis], p[axis])
		b.Max[axis] = max(b.Max[axis], p[axis])
	}
	return b
}

func (b Bounds3) Diagonal() mgl32.Vec3 {
	return b.Max.Sub(b.Min)
}

// MaxDimension returns the axis with the largest extent.
func (b Bounds3) MaxDimension() int {
	d := b.Diagonal()
	axis := 0
	if d.Y() > d.X() {
		axis = 1
	}
	if d.Z() > d[axis] {
		axis = 2
	}
	return axis
}

func (b Bounds3) Contains(p mgl32.Vec3) bool {
	for axis := 0; axis < 3; axis++ {
		if p[axis] < b.Min[axis] || p[axis] > b.Max[axis] {
			return false
		}
	}
	return true
}

// IntersectP runs the slab test against [0, tMax] and returns the entry and
// exit parameters. Zero direction components divide to signed infinities; the
// comparisons below discard the resulting NaNs for rays originating on a slab.
func (b Bounds3) IntersectP(r Ray, tMax float32) (float32, float32, bool) {
	t0, t1 := float32(0), tMax
	for axis := 0; axis < 3; axis++ {
		invD := 1 / r.Dir[axis]
		tNear := (b.Min[axis] - r.Origin[axis]) * invD
		tFar := (b.Max[axis] - r.Origin[axis]) * invD
		if tNear > tFar {
			tNear, tFar = tFar, tNear
		}
		if tNear > t0 {
			t0 = tNear
		}
		if tFar < t1 {
			t1 = tFar
		}
		if t0 > t1 {
			return 0, 0, false
		}
	}
	return t0, t1, true
}
