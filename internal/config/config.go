// Package config handles terraingen configuration loading and management.
package config

import (
	"errors"
	"fmt"

	"github.com/Faultbox/heightforge/internal/engine/heightfield"
	"github.com/Faultbox/heightforge/internal/logger"
)

// ErrInvalidConfig is returned by Validate.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds all generation settings.
type Config struct {
	Terrain TerrainConfig `yaml:"terrain"`
	Mesh    MeshConfig    `yaml:"mesh"`
	Output  OutputConfig  `yaml:"output"`
	Logging LoggingConfig `yaml:"logging"`
}

// TerrainConfig selects the heightfield algorithm and its parameters.
type TerrainConfig struct {
	GridSize      int                 `yaml:"grid_size"`
	Algorithm     string              `yaml:"algorithm"`
	Seed          uint64              `yaml:"seed"` // 0 picks a time-based seed
	DiamondSquare DiamondSquareConfig `yaml:"diamond_square"`
	Fault         FaultConfig         `yaml:"fault"`
	Deposition    DepositionConfig    `yaml:"deposition"`
	HeightMap     HeightMapConfig     `yaml:"height_map"`
}

// DiamondSquareConfig holds midpoint displacement settings.
type DiamondSquareConfig struct {
	InitialRange int `yaml:"initial_range"`
	CornerMax    int `yaml:"corner_max"`
}

// FaultConfig holds fault formation settings.
type FaultConfig struct {
	Iterations          int     `yaml:"iterations"`
	InitialDisplacement float32 `yaml:"initial_displacement"`
	FinalDisplacement   float32 `yaml:"final_displacement"`
	BaseHeight          float32 `yaml:"base_height"`
}

// DepositionConfig holds particle deposition settings.
type DepositionConfig struct {
	Iterations   int     `yaml:"iterations"`
	Amount       float32 `yaml:"amount"`
	MaxRollSteps int     `yaml:"max_roll_steps"`
}

// HeightMapConfig points at an external height map (.raw, .png, .bmp, .tif).
type HeightMapConfig struct {
	Path        string  `yaml:"path"`
	HeightScale float32 `yaml:"height_scale"`
}

// MeshConfig places the terrain mesh in world space.
type MeshConfig struct {
	Build  bool       `yaml:"build"`
	Scale  [3]float32 `yaml:"scale"`
	Origin [3]float32 `yaml:"origin"`
}

// OutputConfig holds output file settings. Empty names skip that output.
type OutputConfig struct {
	Dir         string `yaml:"dir"`
	Heightfield string `yaml:"heightfield"`
	Mesh        string `yaml:"mesh"`
	Preview     string `yaml:"preview"`
	Replay      string `yaml:"replay"` // config with the resolved seed
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with the reference generation settings.
func Default() *Config {
	p := heightfield.DefaultParams()
	return &Config{
		Terrain: TerrainConfig{
			GridSize:  257,
			Algorithm: heightfield.DiamondSquare.String(),
			DiamondSquare: DiamondSquareConfig{
				InitialRange: p.DiamondSquare.InitialRange,
				CornerMax:    p.DiamondSquare.CornerMax,
			},
			Fault: FaultConfig{
				Iterations:          p.Fault.Iterations,
				InitialDisplacement: p.Fault.InitialDisplacement,
				FinalDisplacement:   p.Fault.FinalDisplacement,
				BaseHeight:          p.Fault.BaseHeight,
			},
			Deposition: DepositionConfig{
				Iterations: p.Deposition.Iterations,
				Amount:     p.Deposition.Amount,
			},
			HeightMap: HeightMapConfig{
				HeightScale: p.Import.HeightScale,
			},
		},
		Mesh: MeshConfig{
			Build: true,
			Scale: [3]float32{1, 1, 1},
		},
		Output: OutputConfig{
			Dir:         ".",
			Heightfield: "terrain.hfz",
			Mesh:        "terrain.glb",
			Preview:     "terrain.png",
			Replay:      "terrain.yaml",
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Algorithm resolves the configured algorithm name.
func (c *Config) Algorithm() (heightfield.Algorithm, error) {
	return heightfield.ParseAlgorithm(c.Terrain.Algorithm)
}

// Params converts the terrain section into generator parameters.
// Import samples are loaded separately by the pipeline.
func (c *Config) Params() heightfield.Params {
	t := c.Terrain
	return heightfield.Params{
		Seed: t.Seed,
		DiamondSquare: heightfield.DiamondSquareParams{
			InitialRange: t.DiamondSquare.InitialRange,
			CornerMax:    t.DiamondSquare.CornerMax,
		},
		Fault: heightfield.FaultParams{
			Iterations:          t.Fault.Iterations,
			InitialDisplacement: t.Fault.InitialDisplacement,
			FinalDisplacement:   t.Fault.FinalDisplacement,
			BaseHeight:          t.Fault.BaseHeight,
		},
		Deposition: heightfield.DepositionParams{
			Iterations:   t.Deposition.Iterations,
			Amount:       t.Deposition.Amount,
			MaxRollSteps: t.Deposition.MaxRollSteps,
		},
		Import: heightfield.ImportParams{
			HeightScale: t.HeightMap.HeightScale,
		},
	}
}

// Validate checks settings that cannot be caught by the generator itself.
func (c *Config) Validate() error {
	alg, err := c.Algorithm()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if alg == heightfield.HeightMapImport && c.Terrain.HeightMap.Path == "" {
		return fmt.Errorf("%w: height-map algorithm needs terrain.height_map.path", ErrInvalidConfig)
	}
	for i, s := range c.Mesh.Scale {
		if s <= 0 {
			return fmt.Errorf("%w: mesh.scale[%d] must be positive, got %v", ErrInvalidConfig, i, s)
		}
	}
	if _, err := logger.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}
