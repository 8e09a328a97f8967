// Package grid implements a uniform voxel grid ray intersection accelerator.
// Primitives are binned into voxels at build time; queries walk the voxels
// along the ray with a 3D DDA and stop at the first voxel that can contain
// the closest hit.
package grid

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/gekko3d/lumen"
	"github.com/gekko3d/lumen/geom"
	"github.com/gekko3d/lumen/shape"
)

// Primitive is the capability set the grid needs from its contents. The
// concrete shapes in the shape package satisfy it.
type Primitive interface {
	Bounds() geom.Bounds3
	Intersect(r geom.Ray, tMax float32) (shape.Intersection, bool)
	IntersectP(r geom.Ray, tMax float32) bool
}

var (
	ErrNoPrimitives    = errors.New("grid: no primitives")
	ErrDegenerateBound = errors.New("grid: degenerate bounds")
)

// maxVoxelsPerAxis caps the resolution so dense scenes cannot blow up the
// voxel array.
const maxVoxelsPerAxis = 64

// cmpToAxis maps the three pairwise nextT comparisons to the axis with the
// smallest crossing parameter.
var cmpToAxis = [8]int{2, 1, 2, 1, 2, 2, 0, 0}

// voxel holds the indices of the primitives whose bounds overlap it.
type voxel struct {
	prims []int32
}

// Grid is immutable after construction; queries share no state and are safe
// to run concurrently.
type Grid struct {
	primitives []Primitive
	voxels     []voxel
	bounds     geom.Bounds3
	nVoxels    [3]int
	width      mgl32.Vec3
	invWidth   mgl32.Vec3
}

// NewGrid builds the grid over prims. The voxel resolution targets a few
// primitives per voxel under uniform density: 3 * cbrt(n) voxels across the
// dominant axis, clamped to [1, 64] per axis. A nil logger is allowed.
func NewGrid(prims []Primitive, log lumen.Logger) (*Grid, error) {
	log = lumen.OrNop(log)
	if len(prims) == 0 {
		return nil, ErrNoPrimitives
	}

	bounds := geom.EmptyBounds()
	for _, p := range prims {
		bounds = bounds.Union(p.Bounds())
	}
	diag := bounds.Diagonal()
	maxAxis := bounds.MaxDimension()
	if !(diag[maxAxis] > 0) {
		return nil, fmt.Errorf("%w: diagonal %v", ErrDegenerateBound, diag)
	}

	g := &Grid{
		primitives: prims,
		bounds:     bounds,
	}

	voxelsPerUnit := 3 * float32(math.Cbrt(float64(len(prims)))) / diag[maxAxis]
	for axis := 0; axis < 3; axis++ {
		n := int(math.Round(float64(diag[axis] * voxelsPerUnit)))
		g.nVoxels[axis] = clampInt(n, 1, maxVoxelsPerAxis)
		g.width[axis] = diag[axis] / float32(g.nVoxels[axis])
		if g.width[axis] != 0 {
			g.invWidth[axis] = 1 / g.width[axis]
		}
	}

	g.voxels = make([]voxel, g.nVoxels[0]*g.nVoxels[1]*g.nVoxels[2])
	for i, p := range prims {
		pb := p.Bounds()
		var vmin, vmax [3]int
		for axis := 0; axis < 3; axis++ {
			vmin[axis] = g.posToVoxel(pb.Min, axis)
			vmax[axis] = g.posToVoxel(pb.Max, axis)
		}
		for z := vmin[2]; z <= vmax[2]; z++ {
			for y := vmin[1]; y <= vmax[1]; y++ {
				for x := vmin[0]; x <= vmax[0]; x++ {
					v := &g.voxels[g.offset(x, y, z)]
					v.prims = append(v.prims, int32(i))
				}
			}
		}
	}

	log.Debugf("grid: %d primitives in %dx%dx%d voxels, width %v",
		len(prims), g.nVoxels[0], g.nVoxels[1], g.nVoxels[2], g.width)
	return g, nil
}

func (g *Grid) Bounds() geom.Bounds3 {
	return g.bounds
}

func (g *Grid) posToVoxel(p mgl32.Vec3, axis int) int {
	v := int((p[axis] - g.bounds.Min[axis]) * g.invWidth[axis])
	return clampInt(v, 0, g.nVoxels[axis]-1)
}

func (g *Grid) voxelToPos(i, axis int) float32 {
	return g.bounds.Min[axis] + float32(i)*g.width[axis]
}

func (g *Grid) offset(x, y, z int) int {
	return z*g.nVoxels[0]*g.nVoxels[1] + y*g.nVoxels[0] + x
}

// dda holds the per-query traversal state.
type dda struct {
	pos    [3]int
	step   [3]int
	out    [3]int
	nextT  [3]float32
	deltaT [3]float32
}

// setup seeds the walk at the ray's entry point into the grid. rayT is the
// parameter of that entry point (0 when the origin is inside), so that all
// nextT values stay in the query ray's parameterization.
func (g *Grid) setup(r geom.Ray, rayT float32) dda {
	var d dda
	entry := r.At(rayT)
	for axis := 0; axis < 3; axis++ {
		d.pos[axis] = g.posToVoxel(entry, axis)
		if r.Dir[axis] >= 0 {
			d.nextT[axis] = rayT + (g.voxelToPos(d.pos[axis]+1, axis)-entry[axis])/r.Dir[axis]
			d.deltaT[axis] = g.width[axis] / r.Dir[axis]
			d.step[axis] = 1
			d.out[axis] = g.nVoxels[axis]
		} else {
			d.nextT[axis] = rayT + (g.voxelToPos(d.pos[axis], axis)-entry[axis])/r.Dir[axis]
			d.deltaT[axis] = -g.width[axis] / r.Dir[axis]
			d.step[axis] = -1
			d.out[axis] = -1
		}
	}
	return d
}

// stepAxis picks the axis with the smallest nextT. Comparisons against the
// infinities produced by zero direction components resolve to the finite
// axes, so zero components need no special casing.
func (d *dda) stepAxis() int {
	bits := 0
	if d.nextT[0] < d.nextT[1] {
		bits |= 4
	}
	if d.nextT[0] < d.nextT[2] {
		bits |= 2
	}
	if d.nextT[1] < d.nextT[2] {
		bits |= 1
	}
	return cmpToAxis[bits]
}

// advance moves to the next voxel along axis. It reports false when the walk
// leaves the grid.
func (d *dda) advance(axis int) bool {
	d.pos[axis] += d.step[axis]
	if d.pos[axis] == d.out[axis] {
		return false
	}
	d.nextT[axis] += d.deltaT[axis]
	return true
}

// Intersect returns the closest hit before tMax, if any.
//
// A primitive straddling several voxels is tested once per query: the visit
// set is allocated per call and keyed by primitive index, which keeps the
// grid itself immutable and queries safe to run in parallel.
func (g *Grid) Intersect(r geom.Ray, tMax float32) (shape.Intersection, bool) {
	rayT, _, ok := g.bounds.IntersectP(r, tMax)
	if !ok {
		return shape.Intersection{}, false
	}
	d := g.setup(r, rayT)
	visited := newVisitSet(len(g.primitives))

	var closest shape.Intersection
	hit := false
	for {
		v := &g.voxels[g.offset(d.pos[0], d.pos[1], d.pos[2])]
		if isect, ok := v.intersect(g, r, tMax, visited); ok {
			if !hit || isect.THit < closest.THit {
				closest = isect
				hit = true
			}
		}
		axis := d.stepAxis()
		if hit && closest.THit < d.nextT[axis] {
			break
		}
		if tMax < d.nextT[axis] {
			break
		}
		if !d.advance(axis) {
			break
		}
	}
	return closest, hit
}

// IntersectP reports whether anything is hit before tMax (shadow query).
func (g *Grid) IntersectP(r geom.Ray, tMax float32) bool {
	rayT, _, ok := g.bounds.IntersectP(r, tMax)
	if !ok {
		return false
	}
	d := g.setup(r, rayT)
	visited := newVisitSet(len(g.primitives))

	for {
		v := &g.voxels[g.offset(d.pos[0], d.pos[1], d.pos[2])]
		if v.intersectP(g, r, tMax, visited) {
			return true
		}
		axis := d.stepAxis()
		if tMax < d.nextT[axis] {
			return false
		}
		if !d.advance(axis) {
			return false
		}
	}
}

func (v *voxel) intersect(g *Grid, r geom.Ray, tMax float32, visited visitSet) (shape.Intersection, bool) {
	var closest shape.Intersection
	hit := false
	for _, idx := range v.prims {
		if visited.seen(idx) {
			continue
		}
		visited.mark(idx)
		if isect, ok := g.primitives[idx].Intersect(r, tMax); ok {
			if !hit || isect.THit < closest.THit {
				closest = isect
				hit = true
			}
		}
	}
	return closest, hit
}

func (v *voxel) intersectP(g *Grid, r geom.Ray, tMax float32, visited visitSet) bool {
	for _, idx := range v.prims {
		if visited.seen(idx) {
			continue
		}
		visited.mark(idx)
		if g.primitives[idx].IntersectP(r, tMax) {
			return true
		}
	}
	return false
}

// visitSet is a per-query bitset over primitive indices.
type visitSet []uint64

func newVisitSet(n int) visitSet {
	return make(visitSet, (n+63)/64)
}

func (s visitSet) seen(i int32) bool {
	return s[i>>6]&(1<<uint(i&63)) != 0
}

func (s visitSet) mark(i int32) {
	s[i>>6] |= 1 << uint(i&63)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
