package shape

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/gekko3d/lumen/geom"
)

// Sphere is a quadric sphere of the given radius centered at the object-space
// origin, optionally clipped to z in [zMin, zMax] and phi in [0, phiMax].
// Hemisphere caps on tube ends use the clipped form.
type Sphere struct {
	renderFromObject *geom.Transform
	objectFromRender *geom.Transform
	radius           float32
	zMin, zMax       float32
	phiMax           float32 // radians
}

func NewSphere(renderFromObject, objectFromRender *geom.Transform, radius, zMin, zMax, phiMaxDeg float32) *Sphere {
	return &Sphere{
		renderFromObject: renderFromObject,
		objectFromRender: objectFromRender,
		radius:           radius,
		zMin:             mgl32.Clamp(min(zMin, zMax), -radius, radius),
		zMax:             mgl32.Clamp(max(zMin, zMax), -radius, radius),
		phiMax:           mgl32.DegToRad(mgl32.Clamp(phiMaxDeg, 0, 360)),
	}
}

func (s *Sphere) Bounds() geom.Bounds3 {
	// Object-space box of the clipped sphere; loose in x/y for partial phi.
	ob := geom.Bounds3{
		Min: mgl32.Vec3{-s.radius, -s.radius, s.zMin},
		Max: mgl32.Vec3{s.radius, s.radius, s.zMax},
	}
	return s.renderFromObject.Bounds(ob)
}

func (s *Sphere) Intersect(r geom.Ray, tMax float32) (Intersection, bool) {
	or := s.objectFromRender.Ray(r)
	o, d := or.Origin, or.Dir

	a := d.Dot(d)
	b := 2 * o.Dot(d)
	c := o.Dot(o) - s.radius*s.radius
	t0, t1, ok := quadratic(a, b, c)
	if !ok || t0 > tMax || t1 <= 0 {
		return Intersection{}, false
	}

	t := t0
	if t <= 0 {
		t = t1
	}
	for {
		if t > tMax {
			return Intersection{}, false
		}
		pHit := or.At(t)
		if s.clipped(pHit) {
			if t == t1 {
				return Intersection{}, false
			}
			t = t1
			continue
		}
		n := pHit.Mul(1 / s.radius)
		return Intersection{
			THit: t,
			P:    s.renderFromObject.Point(pHit),
			N:    s.renderFromObject.Vector(n).Normalize(),
		}, true
	}
}

func (s *Sphere) IntersectP(r geom.Ray, tMax float32) bool {
	_, ok := s.Intersect(r, tMax)
	return ok
}

// clipped reports whether an object-space surface point falls outside the z
// or phi range.
func (s *Sphere) clipped(p mgl32.Vec3) bool {
	if (s.zMin > -s.radius && p.Z() < s.zMin) || (s.zMax < s.radius && p.Z() > s.zMax) {
		return true
	}
	if s.phiMax < 2*math.Pi {
		phi := float32(math.Atan2(float64(p.Y()), float64(p.X())))
		if phi < 0 {
			phi += 2 * math.Pi
		}
		if phi > s.phiMax {
			return true
		}
	}
	return false
}
