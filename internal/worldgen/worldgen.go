// Package worldgen runs the terrain pipeline: heightfield synthesis, meshing
// and file output, driven by a config.Config.
package worldgen

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/heightforge/internal/config"
	"github.com/Faultbox/heightforge/internal/engine/heightfield"
	"github.com/Faultbox/heightforge/internal/engine/terrain"
	"github.com/Faultbox/heightforge/internal/logger"
	"github.com/Faultbox/heightforge/pkg/formats"
	"github.com/Faultbox/heightforge/pkg/math"
)

// Result describes one pipeline run.
type Result struct {
	Algorithm   heightfield.Algorithm
	Seed        uint64 // resolved seed, never 0
	Heightfield *heightfield.Heightfield
	Mesh        *terrain.Mesh // nil when mesh building is disabled
	Fingerprint uint64
	Outputs     []string // files written, in order
}

// Generator owns the configuration between runs so that a parameter
// change can be followed by Regenerate.
type Generator struct {
	cfg  *config.Config
	log  *zap.Logger
	now  func() time.Time
	seed uint64 // last resolved seed
}

// New creates a generator. A nil logger falls back to logger.Log.
func New(cfg *config.Config, log *zap.Logger) *Generator {
	if log == nil {
		log = logger.Log
	}
	return &Generator{cfg: cfg, log: log, now: time.Now}
}

// Run executes the pipeline once with the global logger.
func Run(cfg *config.Config) (*Result, error) {
	return New(cfg, nil).Run()
}

// Config returns the generator's configuration.
func (g *Generator) Config() *config.Config {
	return g.cfg
}

// Run resolves the seed and rebuilds everything from scratch.
func (g *Generator) Run() (*Result, error) {
	seed := g.cfg.Terrain.Seed
	if seed == 0 {
		seed = uint64(g.now().UnixNano())
		if seed == 0 {
			seed = 1
		}
		g.log.Info("using time-based seed", zap.Uint64("seed", seed))
	}
	return g.build(seed)
}

// Regenerate applies update to the configuration and performs a full
// rebuild. A time-based seed from the previous run is reused, so a change
// such as the height scale reshapes the same terrain instead of a new one.
func (g *Generator) Regenerate(update func(*config.Config)) (*Result, error) {
	if update != nil {
		update(g.cfg)
	}
	if err := g.cfg.Validate(); err != nil {
		return nil, err
	}
	if g.cfg.Terrain.Seed == 0 && g.seed != 0 {
		g.log.Debug("regenerating with previous seed", zap.Uint64("seed", g.seed))
		return g.build(g.seed)
	}
	return g.Run()
}

func (g *Generator) build(seed uint64) (*Result, error) {
	alg, err := g.cfg.Algorithm()
	if err != nil {
		return nil, err
	}

	size := g.cfg.Terrain.GridSize
	params := g.cfg.Params()
	params.Seed = seed

	if alg == heightfield.HeightMapImport {
		samples, n, err := g.loadHeightMap(size)
		if err != nil {
			return nil, err
		}
		params.Import.Samples = samples
		size = n
	}

	done := logger.Stage(g.log, "heightfield",
		zap.Stringer("algorithm", alg),
		zap.Int("size", size),
		zap.Uint64("seed", seed),
	)
	h, err := heightfield.Generate(size, alg, params)
	if err != nil {
		return nil, fmt.Errorf("generating %s heightfield: %w", alg, err)
	}
	lo, hi := h.Range()
	res := &Result{
		Algorithm:   alg,
		Seed:        seed,
		Heightfield: h,
		Fingerprint: h.Fingerprint(),
	}
	done(
		zap.Float32("min", lo),
		zap.Float32("max", hi),
		zap.String("fingerprint", fmt.Sprintf("%016x", res.Fingerprint)),
	)

	if g.cfg.Mesh.Build {
		done := logger.Stage(g.log, "mesh", zap.Int("size", size))
		m, err := terrain.BuildMesh(h, g.meshOptions())
		if err != nil {
			return nil, fmt.Errorf("building mesh: %w", err)
		}
		res.Mesh = m
		done(zap.Int("vertices", len(m.Vertices)), zap.Int("triangles", m.TriangleCount()))
	}

	g.seed = seed

	if err := g.writeOutputs(res); err != nil {
		return nil, err
	}
	return res, nil
}

func (g *Generator) meshOptions() terrain.MeshOptions {
	return terrain.MeshOptions{
		Origin: math.FromArray(g.cfg.Mesh.Origin),
		Scale:  math.FromArray(g.cfg.Mesh.Scale),
	}
}

// loadHeightMap reads the configured height map. Images carry their own
// size; raw files are read at the configured grid size.
func (g *Generator) loadHeightMap(size int) ([]byte, int, error) {
	path := g.cfg.Terrain.HeightMap.Path
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png", ".bmp", ".tif", ".tiff":
		img, err := formats.DecodeHeightImageFile(path)
		if err != nil {
			return nil, 0, fmt.Errorf("loading height map %s: %w", path, err)
		}
		if img.Size != size {
			g.log.Warn("height map size overrides grid size",
				zap.String("path", path),
				zap.Int("image_size", img.Size),
				zap.Int("grid_size", size),
			)
		}
		g.log.Debug("loaded height map", zap.String("path", path), zap.String("format", img.Format))
		return img.Samples, img.Size, nil
	default:
		samples, err := formats.ParseRawHeightMapFile(path, size)
		if err != nil {
			return nil, 0, fmt.Errorf("loading height map %s: %w", path, err)
		}
		g.log.Debug("loaded height map", zap.String("path", path), zap.String("format", "raw"))
		return samples, size, nil
	}
}

func (g *Generator) writeOutputs(res *Result) error {
	out := g.cfg.Output
	if out.Heightfield == "" && out.Preview == "" && out.Replay == "" && (out.Mesh == "" || res.Mesh == nil) {
		return nil
	}
	if err := os.MkdirAll(out.Dir, 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	h := res.Heightfield
	if out.Heightfield != "" {
		path := filepath.Join(out.Dir, out.Heightfield)
		if err := formats.WriteHFZFile(path, h.Size, h.Cells); err != nil {
			return err
		}
		res.Outputs = append(res.Outputs, path)
	}
	if out.Mesh != "" && res.Mesh != nil {
		path := filepath.Join(out.Dir, out.Mesh)
		if err := terrain.WriteGLB(res.Mesh, path); err != nil {
			return err
		}
		res.Outputs = append(res.Outputs, path)
	}
	if out.Preview != "" {
		path := filepath.Join(out.Dir, out.Preview)
		lo, hi := h.Range()
		if err := formats.WriteHeightPNGFile(path, h.Size, h.Cells, lo, hi); err != nil {
			return err
		}
		res.Outputs = append(res.Outputs, path)
	}
	if out.Replay != "" {
		path := filepath.Join(out.Dir, out.Replay)
		replay := *g.cfg
		replay.Terrain.Seed = res.Seed
		if err := replay.SaveTo(path); err != nil {
			return fmt.Errorf("writing replay config: %w", err)
		}
		res.Outputs = append(res.Outputs, path)
	}

	for _, p := range res.Outputs {
		g.log.Info("wrote output", zap.String("path", p))
	}
	return nil
}
