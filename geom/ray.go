package geom

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Ray is a parametric line o + t*d. Dir is not required to be normalized;
// all t values handed around the library are in Dir's scale.
type Ray struct {
	Origin mgl32.Vec3
	Dir    mgl32.Vec3
	Time   float32
}

func (r Ray) At(t float32) mgl32.Vec3 {
	return r.Origin.Add(r.Dir.Mul(t))
}
