package heightfield

// faultFormation repeatedly splits the grid along a random line, raising
// one side and lowering the other. Displacement decays linearly from
// InitialDisplacement to FinalDisplacement.
func faultFormation(h *Heightfield, p FaultParams, src source) {
	for i := range h.Cells {
		h.Cells[i] = p.BaseHeight
	}
	if h.Size < 2 {
		// No two distinct points exist to define a line.
		return
	}

	for it := 0; it < p.Iterations; it++ {
		d := p.InitialDisplacement + (p.FinalDisplacement-p.InitialDisplacement)*float32(it)/float32(p.Iterations)

		x1, z1 := src.IntN(h.Size), src.IntN(h.Size)
		x2, z2 := x1, z1
		for x2 == x1 && z2 == z1 {
			x2, z2 = src.IntN(h.Size), src.IntN(h.Size)
		}

		// Line a*x + b*z = c through both points.
		a := float32(z2 - z1)
		b := float32(x1 - x2)
		c := a*float32(x1) + b*float32(z1)

		for x := 0; x < h.Size; x++ {
			for z := 0; z < h.Size; z++ {
				if a*float32(x)+b*float32(z) > c {
					h.Add(x, z, d)
				} else {
					h.Add(x, z, -d)
				}
			}
		}
	}
}
