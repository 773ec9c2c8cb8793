package heightfield

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// Generation errors.
var (
	ErrInvalidGridSize   = errors.New("invalid grid size")
	ErrInvalidParams     = errors.New("invalid generation parameters")
	ErrGridTooLarge      = errors.New("grid size exceeds limit")
	ErrTooManyIterations = errors.New("iteration count exceeds limit")
	ErrMissingInput      = errors.New("height map input too short")
	ErrUnknownAlgorithm  = errors.New("unknown algorithm")
)

// Limits that keep a single generation call bounded in memory and time.
const (
	MaxGridSize             = 4097
	MaxFaultIterations      = 1 << 20
	MaxDepositionIterations = 1 << 24
	MaxPerturbationRange    = 1 << 20 // bound for CornerMax and InitialRange
)

// Algorithm selects the synthesis method.
type Algorithm int

// Supported algorithms.
const (
	DiamondSquare Algorithm = iota
	Fault
	ParticleDeposition
	HeightMapImport
)

var algorithmNames = [...]string{
	DiamondSquare:      "diamond-square",
	Fault:              "fault",
	ParticleDeposition: "particle-deposition",
	HeightMapImport:    "height-map",
}

// String returns the configuration name of the algorithm.
func (a Algorithm) String() string {
	if a < 0 || int(a) >= len(algorithmNames) {
		return fmt.Sprintf("Unknown(%d)", int(a))
	}
	return algorithmNames[a]
}

// ParseAlgorithm resolves a configuration name, case-insensitively.
func ParseAlgorithm(name string) (Algorithm, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, n := range algorithmNames {
		if n == name {
			return Algorithm(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, name)
}

// DiamondSquareParams controls midpoint displacement.
type DiamondSquareParams struct {
	InitialRange int // perturbation bound for the first round, halved every round
	CornerMax    int // corners are seeded uniformly in [0, CornerMax]
}

// FaultParams controls fault formation.
type FaultParams struct {
	Iterations          int
	InitialDisplacement float32
	FinalDisplacement   float32
	BaseHeight          float32 // starting elevation of every cell
}

// DepositionParams controls particle deposition.
type DepositionParams struct {
	Iterations   int
	Amount       float32
	MaxRollSteps int // 0 selects 4*size
}

// ImportParams carries a raw height map: Size*Size bytes, row-major, no header.
type ImportParams struct {
	Samples     []byte
	HeightScale float32
}

// Params holds the inputs of every algorithm plus the random seed.
type Params struct {
	Seed          uint64
	DiamondSquare DiamondSquareParams
	Fault         FaultParams
	Deposition    DepositionParams
	Import        ImportParams
}

// DefaultParams returns the reference parameter set.
func DefaultParams() Params {
	return Params{
		DiamondSquare: DiamondSquareParams{InitialRange: 32, CornerMax: 32},
		Fault: FaultParams{
			Iterations:          1024,
			InitialDisplacement: 1,
			FinalDisplacement:   0,
		},
		Deposition: DepositionParams{Iterations: 1_000_000, Amount: 1},
		Import:     ImportParams{HeightScale: 10},
	}
}

// Validate checks size and parameters for the chosen algorithm without allocating the grid.
func Validate(size int, alg Algorithm, p Params) error {
	if size < 1 {
		return fmt.Errorf("%w: %d", ErrInvalidGridSize, size)
	}
	if size > MaxGridSize {
		return fmt.Errorf("%w: %d > %d", ErrGridTooLarge, size, MaxGridSize)
	}

	switch alg {
	case DiamondSquare:
		if !isPowerOfTwo(size-1) || size < 3 {
			return fmt.Errorf("%w: diamond-square needs 2^k+1, got %d", ErrInvalidGridSize, size)
		}
		ds := p.DiamondSquare
		if ds.InitialRange < 0 || ds.CornerMax < 0 {
			return fmt.Errorf("%w: negative diamond-square range", ErrInvalidParams)
		}
		if ds.InitialRange > MaxPerturbationRange || ds.CornerMax > MaxPerturbationRange {
			return fmt.Errorf("%w: diamond-square range above %d", ErrInvalidParams, MaxPerturbationRange)
		}
	case Fault:
		if p.Fault.Iterations < 0 {
			return fmt.Errorf("%w: negative fault iterations", ErrInvalidParams)
		}
		if p.Fault.Iterations > MaxFaultIterations {
			return fmt.Errorf("%w: fault %d > %d", ErrTooManyIterations, p.Fault.Iterations, MaxFaultIterations)
		}
		if !finite(p.Fault.InitialDisplacement, p.Fault.FinalDisplacement, p.Fault.BaseHeight) {
			return fmt.Errorf("%w: non-finite fault parameter", ErrInvalidParams)
		}
	case ParticleDeposition:
		if p.Deposition.Iterations < 0 || p.Deposition.MaxRollSteps < 0 {
			return fmt.Errorf("%w: negative deposition counts", ErrInvalidParams)
		}
		if p.Deposition.Iterations > MaxDepositionIterations {
			return fmt.Errorf("%w: deposition %d > %d", ErrTooManyIterations, p.Deposition.Iterations, MaxDepositionIterations)
		}
		if !finite(p.Deposition.Amount) {
			return fmt.Errorf("%w: non-finite deposition amount", ErrInvalidParams)
		}
	case HeightMapImport:
		if len(p.Import.Samples) < size*size {
			return fmt.Errorf("%w: have %d bytes, need %d", ErrMissingInput, len(p.Import.Samples), size*size)
		}
		if !finite(p.Import.HeightScale) {
			return fmt.Errorf("%w: non-finite height scale", ErrInvalidParams)
		}
	default:
		return fmt.Errorf("%w: %d", ErrUnknownAlgorithm, int(alg))
	}
	return nil
}

// finite reports whether every value is neither NaN nor infinite.
func finite(vs ...float32) bool {
	for _, v := range vs {
		f := float64(v)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return false
		}
	}
	return true
}

func isPowerOfTwo(n int) bool {
	return n > 0 && n&(n-1) == 0
}
