package shape

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/gekko3d/lumen/geom"
)

// TriangleMesh holds indexed triangle geometry. Positions are transformed to
// render space once at construction; individual Triangles index into the mesh
// and stay cheap to copy around.
type TriangleMesh struct {
	P       []mgl32.Vec3
	Indices []int
}

func NewTriangleMesh(renderFromObject geom.Transform, indices []int, p []mgl32.Vec3) *TriangleMesh {
	rp := make([]mgl32.Vec3, len(p))
	for i, pt := range p {
		rp[i] = renderFromObject.Point(pt)
	}
	idx := make([]int, len(indices))
	copy(idx, indices)
	return &TriangleMesh{P: rp, Indices: idx}
}

// Triangles returns one Triangle per index triple.
func (m *TriangleMesh) Triangles() []Shape {
	out := make([]Shape, 0, len(m.Indices)/3)
	for i := 0; i+2 < len(m.Indices); i += 3 {
		out = append(out, &Triangle{mesh: m, first: i})
	}
	return out
}

// Triangle is a single face of a TriangleMesh.
type Triangle struct {
	mesh  *TriangleMesh
	first int // offset of the first of three indices
}

func (t *Triangle) points() (mgl32.Vec3, mgl32.Vec3, mgl32.Vec3) {
	m := t.mesh
	return m.P[m.Indices[t.first]], m.P[m.Indices[t.first+1]], m.P[m.Indices[t.first+2]]
}

func (t *Triangle) Bounds() geom.Bounds3 {
	p0, p1, p2 := t.points()
	return geom.NewBounds3(p0, p1).UnionPoint(p2)
}

// Intersect runs the Moller-Trumbore test.
func (t *Triangle) Intersect(r geom.Ray, tMax float32) (Intersection, bool) {
	p0, p1, p2 := t.points()
	e1 := p1.Sub(p0)
	e2 := p2.Sub(p0)
	pv := r.Dir.Cross(e2)
	det := e1.Dot(pv)
	if det > -1e-9 && det < 1e-9 {
		return Intersection{}, false
	}
	invDet := 1 / det
	tv := r.Origin.Sub(p0)
	u := tv.Dot(pv) * invDet
	if u < 0 || u > 1 {
		return Intersection{}, false
	}
	qv := tv.Cross(e1)
	v := r.Dir.Dot(qv) * invDet
	if v < 0 || u+v > 1 {
		return Intersection{}, false
	}
	tHit := e2.Dot(qv) * invDet
	if tHit <= 0 || tHit > tMax {
		return Intersection{}, false
	}
	return Intersection{
		THit: tHit,
		P:    r.At(tHit),
		N:    e1.Cross(e2).Normalize(),
	}, true
}

func (t *Triangle) IntersectP(r geom.Ray, tMax float32) bool {
	_, ok := t.Intersect(r, tMax)
	return ok
}
