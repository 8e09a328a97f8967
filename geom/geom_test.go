package geom

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBoundsUnion(t *testing.T) {
	b := EmptyBounds()
	b = b.UnionPoint(mgl32.Vec3{1, 2, 3})
	b = b.UnionPoint(mgl32.Vec3{-1, 0, 5})

	assert.Equal(t, mgl32.Vec3{-1, 0, 3}, b.Min)
	assert.Equal(t, mgl32.Vec3{1, 2, 5}, b.Max)

	b2 := NewBounds3(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{4, 1, 1})
	u := b.Union(b2)
	assert.Equal(t, mgl32.Vec3{-1, 0, 0}, u.Min)
	assert.Equal(t, mgl32.Vec3{4, 2, 5}, u.Max)
}

func TestBoundsMaxDimension(t *testing.T) {
	b := NewBounds3(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{1, 5, 2})
	if b.MaxDimension() != 1 {
		t.Errorf("expected axis 1, got %d", b.MaxDimension())
	}
	b = NewBounds3(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{1, 2, 7})
	if b.MaxDimension() != 2 {
		t.Errorf("expected axis 2, got %d", b.MaxDimension())
	}
}

func TestBoundsIntersectP(t *testing.T) {
	b := NewBounds3(mgl32.Vec3{-1, -1, -1}, mgl32.Vec3{1, 1, 1})

	// Entering from outside along +z.
	t0, t1, ok := b.IntersectP(Ray{Origin: mgl32.Vec3{0, 0, -5}, Dir: mgl32.Vec3{0, 0, 1}}, 100)
	require.True(t, ok)
	assert.InDelta(t, 4.0, t0, 1e-5)
	assert.InDelta(t, 6.0, t1, 1e-5)

	// Origin inside: entry parameter is clamped to zero.
	t0, _, ok = b.IntersectP(Ray{Origin: mgl32.Vec3{0, 0, 0}, Dir: mgl32.Vec3{1, 0, 0}}, 100)
	require.True(t, ok)
	assert.Equal(t, float32(0), t0)

	// Miss.
	_, _, ok = b.IntersectP(Ray{Origin: mgl32.Vec3{0, 5, -5}, Dir: mgl32.Vec3{0, 0, 1}}, 100)
	assert.False(t, ok)

	// Too far: the box is beyond tMax.
	_, _, ok = b.IntersectP(Ray{Origin: mgl32.Vec3{0, 0, -5}, Dir: mgl32.Vec3{0, 0, 1}}, 2)
	assert.False(t, ok)

	// Zero direction component inside the slab must not break the test.
	t0, _, ok = b.IntersectP(Ray{Origin: mgl32.Vec3{0.5, 0, -5}, Dir: mgl32.Vec3{0, 0, 1}}, 100)
	require.True(t, ok)
	assert.InDelta(t, 4.0, t0, 1e-5)

	// Zero direction component outside the slab.
	_, _, ok = b.IntersectP(Ray{Origin: mgl32.Vec3{2, 0, -5}, Dir: mgl32.Vec3{0, 0, 1}}, 100)
	assert.False(t, ok)
}

func TestTransformTranslate(t *testing.T) {
	tr := Translate(mgl32.Vec3{1, 2, 3})
	p := tr.Point(mgl32.Vec3{1, 1, 1})
	assert.Equal(t, mgl32.Vec3{2, 3, 4}, p)

	// Vectors ignore translation.
	v := tr.Vector(mgl32.Vec3{1, 1, 1})
	assert.Equal(t, mgl32.Vec3{1, 1, 1}, v)

	back := tr.Inverse().Point(p)
	assert.Equal(t, mgl32.Vec3{1, 1, 1}, back)
}

func TestRotateFromTo(t *testing.T) {
	from := mgl32.Vec3{0, 0, 1}
	to := mgl32.Vec3{1, 0, 0}
	r := RotateFromTo(from, to)
	got := r.Vector(from)
	assert.InDelta(t, to.X(), got.X(), 1e-5)
	assert.InDelta(t, to.Y(), got.Y(), 1e-5)
	assert.InDelta(t, to.Z(), got.Z(), 1e-5)

	// Inverse undoes it.
	back := r.Inverse().Vector(got)
	assert.InDelta(t, from.Z(), back.Z(), 1e-5)
}

func TestRotateDegrees(t *testing.T) {
	r := Rotate(90, mgl32.Vec3{1, 0, 0})
	got := r.Vector(mgl32.Vec3{0, 1, 0})
	// +90 degrees around x takes +y to +z.
	assert.InDelta(t, 0, got.X(), 1e-5)
	assert.InDelta(t, 0, got.Y(), 1e-5)
	assert.InDelta(t, 1, got.Z(), 1e-5)
}

func TestTransformCompose(t *testing.T) {
	a := Translate(mgl32.Vec3{1, 0, 0})
	b := Rotate(90, mgl32.Vec3{0, 0, 1})
	ab := a.Mul(b)

	p := mgl32.Vec3{1, 0, 0}
	want := a.Point(b.Point(p))
	got := ab.Point(p)
	assert.InDelta(t, want.X(), got.X(), 1e-5)
	assert.InDelta(t, want.Y(), got.Y(), 1e-5)
	assert.InDelta(t, want.Z(), got.Z(), 1e-5)

	// MInv tracks the composition.
	back := ab.Inverse().Point(got)
	assert.InDelta(t, p.X(), back.X(), 1e-5)
	assert.InDelta(t, p.Y(), back.Y(), 1e-5)
	assert.InDelta(t, p.Z(), back.Z(), 1e-5)
}

func TestTransformBounds(t *testing.T) {
	b := NewBounds3(mgl32.Vec3{-1, -1, 0}, mgl32.Vec3{1, 1, 2})
	moved := Translate(mgl32.Vec3{0, 0, 10}).Bounds(b)
	assert.Equal(t, float32(10), moved.Min.Z())
	assert.Equal(t, float32(12), moved.Max.Z())
}

func TestRayAt(t *testing.T) {
	r := Ray{Origin: mgl32.Vec3{1, 0, 0}, Dir: mgl32.Vec3{0, 2, 0}}
	p := r.At(2)
	assert.Equal(t, mgl32.Vec3{1, 4, 0}, p)
	if math.IsNaN(float64(p.Y())) {
		t.Fatal("unexpected NaN")
	}
}
