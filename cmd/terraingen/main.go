// terraingen generates terrain heightfields and meshes from the command line.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xlab/closer"
	"go.uber.org/zap"

	"github.com/Faultbox/heightforge/internal/config"
	"github.com/Faultbox/heightforge/internal/engine/heightfield"
	"github.com/Faultbox/heightforge/internal/engine/terrain"
	"github.com/Faultbox/heightforge/internal/logger"
	"github.com/Faultbox/heightforge/internal/worldgen"
	"github.com/Faultbox/heightforge/pkg/formats"
)

func main() {
	closer.Bind(logger.Sync)
	defer closer.Close()

	if len(os.Args) < 2 {
		printUsage()
		closer.Exit(1)
		return
	}

	command := os.Args[1]
	args := os.Args[2:]

	var err error
	switch command {
	case "generate", "gen":
		err = cmdGenerate(args)
	case "info":
		err = cmdInfo(args)
	case "mesh":
		err = cmdMesh(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		closer.Exit(1)
		return
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		closer.Exit(1)
	}
}

// errUsage reports bad arguments; the usage line has already been printed.
var errUsage = errors.New("invalid arguments")

func printUsage() {
	fmt.Println(`terraingen - procedural terrain generator

Usage:
  terraingen <command> [options]

Commands:
  generate [flags]                   Generate a heightfield, mesh and preview
  info <file.hfz>                    Show stored heightfield information
  mesh <file.hfz> [output.glb]       Build a mesh from a stored heightfield
  help                               Show this help

Generate flags:
  -config <file>       YAML config (default ./terraingen.yaml)
  -size <n>            Grid size (2^k+1 for diamond-square)
  -algorithm <name>    diamond-square, fault, particle-deposition, height-map
  -seed <n>            Random seed (0 = time-based)
  -heightmap <file>    Height map for the height-map algorithm (.raw, .png, .bmp, .tif)
  -out <dir>           Output directory
  -no-mesh             Skip the mesh and GLB export
  -debug               Debug logging

Examples:
  terraingen generate -size 257 -seed 42
  terraingen generate -algorithm fault -size 128 -out build
  terraingen info build/terrain.hfz
  terraingen mesh build/terrain.hfz island.glb`)
}

func cmdGenerate(args []string) error {
	if err := config.ParseArgs(args); err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	logger.Sugar.Debugf("Config: %+v", cfg)

	res, err := worldgen.Run(cfg)
	if err != nil {
		logger.Error("generation failed", zap.Error(err))
		return err
	}

	fmt.Printf("Algorithm:   %s\n", res.Algorithm)
	fmt.Printf("Size:        %d\n", res.Heightfield.Size)
	fmt.Printf("Seed:        %d\n", res.Seed)
	fmt.Printf("Fingerprint: %016x\n", res.Fingerprint)
	if res.Mesh != nil {
		fmt.Printf("Triangles:   %d\n", res.Mesh.TriangleCount())
	}
	for _, p := range res.Outputs {
		fmt.Printf("Wrote:       %s\n", p)
	}
	return nil
}

func loadHFZ(path string) (*heightfield.Heightfield, error) {
	stored, err := formats.ParseHFZFile(path)
	if err != nil {
		return nil, err
	}
	return &heightfield.Heightfield{Size: int(stored.Size), Cells: stored.Cells}, nil
}

func cmdInfo(args []string) error {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: terraingen info <file.hfz>")
		return errUsage
	}

	h, err := loadHFZ(args[0])
	if err != nil {
		return err
	}
	lo, hi := h.Range()

	fmt.Printf("File:        %s\n", args[0])
	fmt.Printf("Size:        %dx%d\n", h.Size, h.Size)
	fmt.Printf("Range:       %.3f .. %.3f\n", lo, hi)
	fmt.Printf("Fingerprint: %016x\n", h.Fingerprint())
	return nil
}

func cmdMesh(args []string) error {
	fs := flag.NewFlagSet("mesh", flag.ContinueOnError)
	scale := fs.Float64("scale", 1, "Horizontal scale")
	height := fs.Float64("height", 1, "Vertical scale")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}
	if *scale <= 0 || *height <= 0 {
		return fmt.Errorf("scale and height must be positive, got %v and %v", *scale, *height)
	}

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: terraingen mesh [-scale s] [-height s] <file.hfz> [output.glb]")
		return errUsage
	}

	input := fs.Arg(0)
	output := strings.TrimSuffix(input, filepath.Ext(input)) + ".glb"
	if fs.NArg() > 1 {
		output = fs.Arg(1)
	}

	h, err := loadHFZ(input)
	if err != nil {
		return err
	}

	opts := terrain.DefaultMeshOptions()
	opts.Scale.X = float32(*scale)
	opts.Scale.Y = float32(*height)
	opts.Scale.Z = float32(*scale)

	m, err := terrain.BuildMesh(h, opts)
	if err != nil {
		return err
	}
	if err := terrain.WriteGLB(m, output); err != nil {
		return err
	}

	fmt.Printf("Mesh:        %d vertices, %d triangles\n", len(m.Vertices), m.TriangleCount())
	fmt.Printf("Wrote:       %s (%d bytes of vertex data)\n", output, len(m.Vertices)*terrain.VertexStride)
	return nil
}
