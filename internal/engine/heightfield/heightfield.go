// Package heightfield synthesizes square elevation grids for terrain meshing.
package heightfield

import (
	"encoding/binary"
	"math"

	"github.com/cespare/xxhash/v2"
)

// Elevation clamp range applied after every generation.
const (
	MinElevation float32 = 0
	MaxElevation float32 = 255
)

// Heightfield is a Size x Size grid of elevations stored row-major.
type Heightfield struct {
	Size  int
	Cells []float32
}

// New allocates a zero-filled heightfield.
func New(size int) *Heightfield {
	return &Heightfield{Size: size, Cells: make([]float32, size*size)}
}

// At returns the elevation at (row, col).
func (h *Heightfield) At(row, col int) float32 {
	return h.Cells[row*h.Size+col]
}

// Set stores the elevation at (row, col).
func (h *Heightfield) Set(row, col int, v float32) {
	h.Cells[row*h.Size+col] = v
}

// Add offsets the elevation at (row, col).
func (h *Heightfield) Add(row, col int, dv float32) {
	h.Cells[row*h.Size+col] += dv
}

// Range returns the lowest and highest elevation.
func (h *Heightfield) Range() (min, max float32) {
	if len(h.Cells) == 0 {
		return 0, 0
	}
	min, max = h.Cells[0], h.Cells[0]
	for _, v := range h.Cells[1:] {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	return min, max
}

// Clone returns a deep copy.
func (h *Heightfield) Clone() *Heightfield {
	out := &Heightfield{Size: h.Size, Cells: make([]float32, len(h.Cells))}
	copy(out.Cells, h.Cells)
	return out
}

// Fingerprint hashes the size and the exact bit pattern of every cell.
// Two heightfields share a fingerprint when they are byte-for-byte equal.
func (h *Heightfield) Fingerprint() uint64 {
	d := xxhash.New()
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], uint32(h.Size))
	_, _ = d.Write(buf[:])
	for _, v := range h.Cells {
		binary.LittleEndian.PutUint32(buf[:], math.Float32bits(v))
		_, _ = d.Write(buf[:])
	}
	return d.Sum64()
}

// clamp forces every cell into [MinElevation, MaxElevation].
func (h *Heightfield) clamp() {
	for i, v := range h.Cells {
		h.Cells[i] = clampf(v, MinElevation, MaxElevation)
	}
}

func clampf(v, min, max float32) float32 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
