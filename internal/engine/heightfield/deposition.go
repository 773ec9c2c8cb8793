package heightfield

// neighbourOffsets lists the 8 surrounding cells, scanned in this order.
var neighbourOffsets = [8][2]int{
	{-1, -1}, {-1, 0}, {-1, 1},
	{0, -1}, {0, 1},
	{1, -1}, {1, 0}, {1, 1},
}

// cardinalOffsets are the moves between successive drop points.
var cardinalOffsets = [4][2]int{{-1, 0}, {1, 0}, {0, -1}, {0, 1}}

// particleDeposition drops particles that roll downhill and deposit Amount
// where they come to rest. Each drop point is the previous one moved one
// random cardinal step. Coordinates wrap modulo size-1.
func particleDeposition(h *Heightfield, p DepositionParams, src source) {
	maxSteps := p.MaxRollSteps
	if maxSteps == 0 {
		maxSteps = 4 * h.Size
	}

	r, c := src.IntN(h.Size), src.IntN(h.Size)
	for i := 0; i < p.Iterations; i++ {
		rr, rc := roll(h, r, c, maxSteps)
		h.Add(rr, rc, p.Amount)

		step := cardinalOffsets[src.IntN(len(cardinalOffsets))]
		r = wrap(r+step[0], h.Size)
		c = wrap(c+step[1], h.Size)
	}
}

// roll follows the steepest strictly-lower neighbour until none is lower
// or maxSteps moves have been made, and returns the resting cell.
func roll(h *Heightfield, r, c, maxSteps int) (int, int) {
	for step := 0; step < maxSteps; step++ {
		cur := h.At(r, c)
		bestR, bestC, best := -1, -1, cur
		for _, o := range neighbourOffsets {
			nr, nc := wrap(r+o[0], h.Size), wrap(c+o[1], h.Size)
			if v := h.At(nr, nc); v < best {
				bestR, bestC, best = nr, nc, v
			}
		}
		if bestR < 0 {
			break
		}
		r, c = bestR, bestC
	}
	return r, c
}

// wrap maps v into [0, size-1) so stepping past an edge re-enters on the
// opposite side. A single-cell grid maps everything to 0.
func wrap(v, size int) int {
	n := size - 1
	if n <= 0 {
		return 0
	}
	v %= n
	if v < 0 {
		v += n
	}
	return v
}
