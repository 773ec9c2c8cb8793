package heightfield

// Generate builds a heightfield of the given size with the selected algorithm.
// Output is clamped to [MinElevation, MaxElevation] and depends only on the inputs,
// so a fixed Params.Seed reproduces the same grid bit for bit.
func Generate(size int, alg Algorithm, p Params) (*Heightfield, error) {
	return generate(size, alg, p, newSource(p.Seed))
}

func generate(size int, alg Algorithm, p Params, src source) (*Heightfield, error) {
	if err := Validate(size, alg, p); err != nil {
		return nil, err
	}

	h := New(size)
	switch alg {
	case DiamondSquare:
		diamondSquare(h, p.DiamondSquare, src)
	case Fault:
		faultFormation(h, p.Fault, src)
	case ParticleDeposition:
		particleDeposition(h, p.Deposition, src)
	case HeightMapImport:
		importHeightMap(h, p.Import)
	}
	h.clamp()
	return h, nil
}
