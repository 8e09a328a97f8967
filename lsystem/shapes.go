package lsystem

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/gekko3d/lumen"
	"github.com/gekko3d/lumen/geom"
	"github.com/gekko3d/lumen/shape"
)

// CreateShapes materializes the interpreted geometry: per tube one cylinder
// plus two hemisphere caps, per polygon its fan triangles. Transforms are
// allocated from the arena and shared between a cylinder and its caps; the
// returned shapes borrow from the arena.
func (l *Lsystem) CreateShapes(arena *lumen.Arena) []shape.Shape {
	nShapes := 3 * len(l.tubes)
	for i := range l.polygons {
		nShapes += l.polygons[i].TriangleCount()
	}
	shapes := make([]shape.Shape, 0, nShapes)

	zAxis := mgl32.Vec3{0, 0, 1}
	for _, tube := range l.tubes {
		dir := tube.End.Sub(tube.Start)
		height := dir.Len()
		dir = dir.Mul(1 / height)
		r := tube.Radius

		orient := geom.RotateFromTo(zAxis, dir)
		objectFromStart := geom.Translate(tube.Start).Mul(orient)
		objectFromEnd := geom.Translate(tube.End).Mul(orient)

		renderFromStart := arena.NewTransform(l.renderFromObject.Mul(objectFromStart))
		startFromRender := arena.NewTransform(objectFromStart.Inverse().Mul(*l.objectFromRender))
		renderFromEnd := arena.NewTransform(l.renderFromObject.Mul(objectFromEnd))
		endFromRender := arena.NewTransform(objectFromEnd.Inverse().Mul(*l.objectFromRender))

		shapes = append(shapes,
			shape.NewCylinder(renderFromStart, startFromRender, r, 0, height, 360),
			shape.NewSphere(renderFromStart, startFromRender, r, -r, 0, 360),
			shape.NewSphere(renderFromEnd, endFromRender, r, 0, r, 360),
		)
	}

	for i := range l.polygons {
		poly := &l.polygons[i]
		if len(poly.Indices) == 0 {
			continue
		}
		mesh := shape.NewTriangleMesh(*l.renderFromObject, poly.Indices, poly.Points)
		shapes = append(shapes, mesh.Triangles()...)
	}
	return shapes
}
