package heightfield

import "math/rand/v2"

// source is the subset of *rand.Rand the generators draw from.
// Tests substitute scripted sources to get hand-checkable grids.
type source interface {
	IntN(n int) int
}

func newSource(seed uint64) source {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// randomInt returns a uniform integer in [min, max].
func randomInt(src source, min, max int) int {
	return min + src.IntN(max-min+1)
}
