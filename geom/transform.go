package geom

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Transform carries a matrix together with its inverse so that composing and
// inverting never pays for a general 4x4 inversion.
type Transform struct {
	M    mgl32.Mat4
	MInv mgl32.Mat4
}

func Identity() Transform {
	return Transform{M: mgl32.Ident4(), MInv: mgl32.Ident4()}
}

func Translate(v mgl32.Vec3) Transform {
	return Transform{
		M:    mgl32.Translate3D(v.X(), v.Y(), v.Z()),
		MInv: mgl32.Translate3D(-v.X(), -v.Y(), -v.Z()),
	}
}

// Rotate builds a rotation of angle degrees around axis.
func Rotate(angleDeg float32, axis mgl32.Vec3) Transform {
	m := mgl32.HomogRotate3D(mgl32.DegToRad(angleDeg), axis.Normalize())
	return Transform{M: m, MInv: m.Transpose()}
}

// RotateFromTo builds the rotation taking the unit vector from onto the unit
// vector to.
func RotateFromTo(from, to mgl32.Vec3) Transform {
	m := mgl32.QuatBetweenVectors(from, to).Mat4()
	return Transform{M: m, MInv: m.Transpose()}
}

func (t Transform) Mul(o Transform) Transform {
	return Transform{
		M:    t.M.Mul4(o.M),
		MInv: o.MInv.Mul4(t.MInv),
	}
}

func (t Transform) Inverse() Transform {
	return Transform{M: t.MInv, MInv: t.M}
}

func (t Transform) Point(p mgl32.Vec3) mgl32.Vec3 {
	return t.M.Mul4x1(p.Vec4(1)).Vec3()
}

func (t Transform) Vector(v mgl32.Vec3) mgl32.Vec3 {
	return t.M.Mul4x1(v.Vec4(0)).Vec3()
}

func (t Transform) Ray(r Ray) Ray {
	return Ray{
		Origin: t.Point(r.Origin),
		Dir:    t.Vector(r.Dir),
		Time:   r.Time,
	}
}

// Bounds transforms all eight corners and re-wraps them. Exact for
// translations; under rotations the result is a conservative box.
func (t Transform) Bounds(b Bounds3) Bounds3 {
	out := EmptyBounds()
	for i := 0; i < 8; i++ {
		c := mgl32.Vec3{b.Min.X(), b.Min.Y(), b.Min.Z()}
		if i&1 != 0 {
			c[0] = b.Max.X()
		}
		if i&2 != 0 {
			c[1] = b.Max.Y()
		}
		if i&4 != 0 {
			c[2] = b.Max.Z()
		}
		out = out.UnionPoint(t.Point(c))
	}
	return out
}
