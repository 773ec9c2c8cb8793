package config

import "flag"

var (
	flagConfig    = flag.String("config", "", "Path to config file")
	flagDebug     = flag.Bool("debug", false, "Enable debug logging")
	flagSize      = flag.Int("size", 0, "Grid size (2^k+1 for diamond-square)")
	flagAlgorithm = flag.String("algorithm", "", "diamond-square, fault, particle-deposition or height-map")
	flagSeed      = flag.Uint64("seed", 0, "Random seed (0 = time-based)")
	flagOut       = flag.String("out", "", "Output directory")
	flagHeightMap = flag.String("heightmap", "", "Height map file for the height-map algorithm")
	flagNoMesh    = flag.Bool("no-mesh", false, "Skip mesh building")
)

// ParseArgs parses flags from an explicit argument list, for subcommands.
func ParseArgs(args []string) error {
	return flag.CommandLine.Parse(args)
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagSize > 0 {
		cfg.Terrain.GridSize = *flagSize
	}
	if *flagAlgorithm != "" {
		cfg.Terrain.Algorithm = *flagAlgorithm
	}
	if *flagSeed != 0 {
		cfg.Terrain.Seed = *flagSeed
	}
	if *flagOut != "" {
		cfg.Output.Dir = *flagOut
	}
	if *flagHeightMap != "" {
		cfg.Terrain.HeightMap.Path = *flagHeightMap
	}
	if *flagNoMesh {
		cfg.Mesh.Build = false
	}
}
