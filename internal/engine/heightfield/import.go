package heightfield

// importHeightMap maps byte sample s to (1 - s/255) * HeightScale.
// Validate has already ensured Samples covers the whole grid.
func importHeightMap(h *Heightfield, p ImportParams) {
	for i := range h.Cells {
		h.Cells[i] = (1 - float32(p.Samples[i])/255) * p.HeightScale
	}
}
