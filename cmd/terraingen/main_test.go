package main

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/Faultbox/heightforge/internal/engine/terrain"
	"github.com/Faultbox/heightforge/pkg/formats"
)

func writeTestHFZ(t *testing.T, size int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "terrain.hfz")
	cells := make([]float32, size*size)
	for i := range cells {
		cells[i] = float32(i)
	}
	if err := formats.WriteHFZFile(path, size, cells); err != nil {
		t.Fatalf("WriteHFZFile: %v", err)
	}
	return path
}

func TestCmdMeshWritesGLB(t *testing.T) {
	in := writeTestHFZ(t, 3)
	out := filepath.Join(t.TempDir(), "out.glb")

	if err := cmdMesh([]string{"-scale", "2", in, out}); err != nil {
		t.Fatalf("cmdMesh: %v", err)
	}
	if _, err := os.Stat(out); err != nil {
		t.Errorf("GLB not written: %v", err)
	}
}

func TestCmdMeshBadFlag(t *testing.T) {
	in := writeTestHFZ(t, 3)
	if err := cmdMesh([]string{"-scale", "wide", in}); err == nil {
		t.Error("expected error for non-numeric -scale")
	}
	if err := cmdMesh([]string{"-bogus", in}); err == nil {
		t.Error("expected error for unknown flag")
	}
	if err := cmdMesh([]string{"-height", "0", in}); err == nil {
		t.Error("expected error for zero height scale")
	}
}

func TestCmdMeshHelp(t *testing.T) {
	if err := cmdMesh([]string{"-h"}); err != nil {
		t.Errorf("help should not be an error, got %v", err)
	}
}

func TestCmdMeshUsage(t *testing.T) {
	if err := cmdMesh(nil); !errors.Is(err, errUsage) {
		t.Errorf("expected errUsage, got %v", err)
	}
}

func TestCmdMeshBadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "junk.hfz")
	if err := os.WriteFile(path, []byte("not an hfz file at all"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := cmdMesh([]string{path}); !errors.Is(err, formats.ErrInvalidHFZMagic) {
		t.Errorf("expected ErrInvalidHFZMagic, got %v", err)
	}
}

func TestCmdInfo(t *testing.T) {
	if err := cmdInfo([]string{writeTestHFZ(t, 2)}); err != nil {
		t.Errorf("cmdInfo: %v", err)
	}
	if err := cmdInfo(nil); !errors.Is(err, errUsage) {
		t.Errorf("expected errUsage, got %v", err)
	}
}

func TestCmdMeshSingleCell(t *testing.T) {
	if err := cmdMesh([]string{writeTestHFZ(t, 1)}); !errors.Is(err, terrain.ErrInvalidGridSize) {
		t.Errorf("expected ErrInvalidGridSize, got %v", err)
	}
}
