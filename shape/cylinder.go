package shape

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/gekko3d/lumen/geom"
)

// Cylinder is an open quadric tube of the given radius around the object-space
// z axis, spanning z in [zMin, zMax] and phi in [0, phiMax]. No end caps; the
// tube emitter closes the ends with hemisphere spheres.
type Cylinder struct {
	renderFromObject *geom.Transform
	objectFromRender *geom.Transform
	radius           float32
	zMin, zMax       float32
	phiMax           float32 // radians
}

func NewCylinder(renderFromObject, objectFromRender *geom.Transform, radius, zMin, zMax, phiMaxDeg float32) *Cylinder {
	return &Cylinder{
		renderFromObject: renderFromObject,
		objectFromRender: objectFromRender,
		radius:           radius,
		zMin:             min(zMin, zMax),
		zMax:             max(zMin, zMax),
		phiMax:           mgl32.DegToRad(mgl32.Clamp(phiMaxDeg, 0, 360)),
	}
}

func (c *Cylinder) Bounds() geom.Bounds3 {
	ob := geom.Bounds3{
		Min: mgl32.Vec3{-c.radius, -c.radius, c.zMin},
		Max: mgl32.Vec3{c.radius, c.radius, c.zMax},
	}
	return c.renderFromObject.Bounds(ob)
}

func (c *Cylinder) Intersect(r geom.Ray, tMax float32) (Intersection, bool) {
	or := c.objectFromRender.Ray(r)
	o, d := or.Origin, or.Dir

	a := d.X()*d.X() + d.Y()*d.Y()
	b := 2 * (o.X()*d.X() + o.Y()*d.Y())
	cc := o.X()*o.X() + o.Y()*o.Y() - c.radius*c.radius
	t0, t1, ok := quadratic(a, b, cc)
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
		if c.clipped(pHit) {
			if t == t1 {
				return Intersection{}, false
			}
			t = t1
			continue
		}
		n := mgl32.Vec3{pHit.X(), pHit.Y(), 0}.Mul(1 / c.radius)
		return Intersection{
			THit: t,
			P:    c.renderFromObject.Point(pHit),
			N:    c.renderFromObject.Vector(n).Normalize(),
		}, true
	}
}

func (c *Cylinder) IntersectP(r geom.Ray, tMax float32) bool {
	_, ok := c.Intersect(r, tMax)
	return ok
}

func (c *Cylinder) clipped(p mgl32.Vec3) bool {
	if p.Z() < c.zMin || p.Z() > c.zMax {
		return true
	}
	if c.phiMax < 2*math.Pi {
		phi := float32(math.Atan2(float64(p.Y()), float64(p.X())))
		if phi < 0 {
			phi += 2 * math.Pi
		}
		if phi > c.phiMax {
			return true
		}
	}
	return false
}
