package lumen

import (
	"github.com/gekko3d/lumen/geom"
)

const arenaChunkSize = 256

// Arena hands out stable pointers to transforms in fixed-capacity chunks.
// Procedural shape emission allocates two transforms per shape pair; pooling
// them keeps the pointers shared between a cylinder and its cap spheres and
// frees everything at once when the arena is dropped.
type Arena struct {
	chunks [][]geom.Transform
}

func NewArena() *Arena {
	return &Arena{}
}

// NewTransform copies t into the arena and returns its address. The pointer
// stays valid for the arena's lifetime; chunks never reallocate.
func (a *Arena) NewTransform(t geom.Transform) *geom.Transform {
	n := len(a.chunks)
	if n == 0 || len(a.chunks[n-1]) == cap(a.chunks[n-1]) {
		a.chunks = append(a.chunks, make([]geom.Transform, 0, arenaChunkSize))
		n++
	}
	chunk := append(a.chunks[n-1], t)
	a.chunks[n-1] = chunk
	return &chunk[len(chunk)-1]
}

// Len reports how many transforms the arena holds.
func (a *Arena) Len() int {
	total := 0
	for _, c := range a.chunks {
		total += len(c)
	}
	return total
}

// Reset drops all chunks. Previously returned pointers become stale.
func (a *Arena) Reset() {
	a.chunks = nil
}
