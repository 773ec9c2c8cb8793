package heightfield

// diamondSquare runs midpoint displacement over spans size-1, (size-1)/2, ... 2.
// The perturbation range halves in lockstep with the span.
func diamondSquare(h *Heightfield, p DiamondSquareParams, src source) {
	last := h.Size - 1
	h.Set(0, 0, float32(randomInt(src, 0, p.CornerMax)))
	h.Set(0, last, float32(randomInt(src, 0, p.CornerMax)))
	h.Set(last, 0, float32(randomInt(src, 0, p.CornerMax)))
	h.Set(last, last, float32(randomInt(src, 0, p.CornerMax)))

	rng := p.InitialRange
	for span := last; span >= 2; span /= 2 {
		diamondPass(h, span, rng, src)
		squarePass(h, span, rng, src)
		rng /= 2
	}
}

// diamondPass sets every cell centre to its corner average plus noise.
func diamondPass(h *Heightfield, span, rng int, src source) {
	half := span / 2
	for r := 0; r+span < h.Size; r += span {
		for c := 0; c+span < h.Size; c += span {
			avg := (h.At(r, c) + h.At(r, c+span) + h.At(r+span, c) + h.At(r+span, c+span)) / 4
			h.Set(r+half, c+half, avg+float32(randomInt(src, -rng, rng)))
		}
	}
}

// squarePass sets every edge midpoint of the current sub-grid. Points on
// the border average only the neighbours inside the grid.
func squarePass(h *Heightfield, span, rng int, src source) {
	half := span / 2
	for r := 0; r < h.Size; r += half {
		// Edge midpoints sit where exactly one of row, col is an odd multiple of half.
		start := half
		if (r/half)%2 == 1 {
			start = 0
		}
		for c := start; c < h.Size; c += span {
			squarePoint(h, r, c, half, rng, src)
		}
	}
}

func squarePoint(h *Heightfield, r, c, half, rng int, src source) {
	var acc, n float32
	if c-half >= 0 {
		acc += h.At(r, c-half)
		n++
	}
	if r-half >= 0 {
		acc += h.At(r-half, c)
		n++
	}
	if c+half < h.Size {
		acc += h.At(r, c+half)
		n++
	}
	if r+half < h.Size {
		acc += h.At(r+half, c)
		n++
	}
	h.Set(r, c, acc/n-float32(randomInt(src, -rng, rng)))
}
