package terrain

import (
	"errors"
	"flag"
	"fmt"
	gomath "math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"unsafe"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/Faultbox/heightforge/internal/engine/heightfield"
	"github.com/Faultbox/heightforge/pkg/math"
)

var update = flag.Bool("update", false, "rewrite golden files")

func flatField(size int, elevation float32) *heightfield.Heightfield {
	h := heightfield.New(size)
	for i := range h.Cells {
		h.Cells[i] = elevation
	}
	return h
}

func near(a, b float32) bool {
	return gomath.Abs(float64(a-b)) < 1e-4
}

func nearVec(a, b math.Vec3) bool {
	return near(a.X, b.X) && near(a.Y, b.Y) && near(a.Z, b.Z)
}

func TestVertexLayout(t *testing.T) {
	if VertexStride != 56 {
		t.Errorf("VertexStride = %d, want 56", VertexStride)
	}
	if got := unsafe.Sizeof(Vertex{}); got != VertexStride {
		t.Errorf("Vertex size = %d bytes, want %d", got, VertexStride)
	}
	// Attribute offsets inside one packed record.
	var v Vertex
	offsets := []struct {
		name string
		got  uintptr
		want uintptr
	}{
		{"position", unsafe.Offsetof(v.Position), 0},
		{"normal", unsafe.Offsetof(v.Normal), 12},
		{"texcoord", unsafe.Offsetof(v.TexCoord), 24},
		{"tangent", unsafe.Offsetof(v.Tangent), 32},
		{"bitangent", unsafe.Offsetof(v.Bitangent), 44},
	}
	for _, o := range offsets {
		if o.got != o.want {
			t.Errorf("%s offset = %d, want %d", o.name, o.got, o.want)
		}
	}
}

func TestBuildMeshVertexCount(t *testing.T) {
	for _, size := range []int{2, 3, 5, 17} {
		t.Run(fmt.Sprint(size), func(t *testing.T) {
			m, err := BuildMesh(flatField(size, 0), DefaultMeshOptions())
			if err != nil {
				t.Fatalf("BuildMesh failed: %v", err)
			}
			want := 6 * (size - 1) * (size - 1)
			if len(m.Vertices) != want {
				t.Errorf("got %d vertices, want %d", len(m.Vertices), want)
			}
			if m.TriangleCount() != want/3 {
				t.Errorf("got %d triangles, want %d", m.TriangleCount(), want/3)
			}
		})
	}
}

func TestBuildMeshInvalidGridSize(t *testing.T) {
	for _, size := range []int{0, 1} {
		_, err := BuildMesh(flatField(size, 0), DefaultMeshOptions())
		if !errors.Is(err, ErrInvalidGridSize) {
			t.Errorf("size %d: expected ErrInvalidGridSize, got %v", size, err)
		}
	}
}

func TestBuildMeshCellLayout(t *testing.T) {
	h := heightfield.New(3)
	for i := range h.Cells {
		h.Cells[i] = float32(i)
	}
	m, err := BuildMesh(h, DefaultMeshOptions())
	if err != nil {
		t.Fatalf("BuildMesh failed: %v", err)
	}

	// Cell (0,1) is the second cell; centre offset is (3-1)/2 = 1.
	cell := m.Vertices[6:12]
	want := []struct {
		pos [3]float32
		uv  [2]float32
	}{
		{[3]float32{-1, 1, 0}, [2]float32{0, 0}},
		{[3]float32{-1, 2, 1}, [2]float32{1, 0}},
		{[3]float32{0, 4, 0}, [2]float32{0, 1}},
		{[3]float32{0, 4, 0}, [2]float32{0, 1}},
		{[3]float32{-1, 2, 1}, [2]float32{1, 0}},
		{[3]float32{0, 5, 1}, [2]float32{1, 1}},
	}
	for k, w := range want {
		if cell[k].Position != w.pos {
			t.Errorf("vertex %d position = %v, want %v", k, cell[k].Position, w.pos)
		}
		if cell[k].TexCoord != w.uv {
			t.Errorf("vertex %d texcoord = %v, want %v", k, cell[k].TexCoord, w.uv)
		}
	}

	for i, v := range h.Cells {
		if v != float32(i) {
			t.Fatalf("BuildMesh modified the heightfield at %d", i)
		}
	}
}

func TestBuildMeshWorldTransform(t *testing.T) {
	opts := MeshOptions{
		Origin: math.Vec3{X: 100, Y: -5, Z: 7},
		Scale:  math.Vec3{X: 2, Y: 0.5, Z: 3},
	}
	m, err := BuildMesh(flatField(5, 10), opts)
	if err != nil {
		t.Fatalf("BuildMesh failed: %v", err)
	}

	// (i-2)*2+100, 10*0.5-5, (j-2)*3+7
	wantMin := [3]float32{96, 0, 1}
	wantMax := [3]float32{104, 0, 13}
	if m.Bounds.Min != wantMin || m.Bounds.Max != wantMax {
		t.Errorf("bounds = %v..%v, want %v..%v", m.Bounds.Min, m.Bounds.Max, wantMin, wantMax)
	}
}

func TestFlatTangentFrame(t *testing.T) {
	m, err := BuildMesh(flatField(4, 3), DefaultMeshOptions())
	if err != nil {
		t.Fatalf("BuildMesh failed: %v", err)
	}
	up := math.Vec3{Y: 1}
	tangent := math.Vec3{Z: 1}
	bitangent := math.Vec3{X: -1}
	for i, v := range m.Vertices {
		if !nearVec(math.FromArray(v.Normal), up) {
			t.Fatalf("vertex %d normal = %v, want %v", i, v.Normal, up)
		}
		if !nearVec(math.FromArray(v.Tangent), tangent) {
			t.Fatalf("vertex %d tangent = %v, want %v", i, v.Tangent, tangent)
		}
		if !nearVec(math.FromArray(v.Bitangent), bitangent) {
			t.Fatalf("vertex %d bitangent = %v, want %v", i, v.Bitangent, bitangent)
		}
	}
}

func TestTangentSpaceOrthonormal(t *testing.T) {
	p := heightfield.DefaultParams()
	p.Seed = 99
	h, err := heightfield.Generate(17, heightfield.DiamondSquare, p)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	m, err := BuildMesh(h, DefaultMeshOptions())
	if err != nil {
		t.Fatalf("BuildMesh failed: %v", err)
	}

	for face := 0; face < m.TriangleCount(); face++ {
		v := m.Vertices[face*3]
		n := math.FromArray(v.Normal)
		tg := math.FromArray(v.Tangent)
		b := math.FromArray(v.Bitangent)

		for name, vec := range map[string]math.Vec3{"normal": n, "tangent": tg, "bitangent": b} {
			if l := vec.Length(); !near(l, 1) {
				t.Fatalf("face %d %s length = %v, want 1", face, name, l)
			}
		}
		if want := tg.Cross(n).Normalize(); !nearVec(b, want) {
			t.Fatalf("face %d bitangent = %v, want T×N = %v", face, b, want)
		}
		for k := 1; k < 3; k++ {
			other := m.Vertices[face*3+k]
			if other.Normal != v.Normal || other.Tangent != v.Tangent || other.Bitangent != v.Bitangent {
				t.Fatalf("face %d vertex %d frame differs from vertex 0", face, k)
			}
		}
	}
}

func TestComputeTangentFrameDegenerateUV(t *testing.T) {
	uv := math.Vec2{X: 0.5, Y: 0.5}
	frame := ComputeTangentFrame(
		math.Vec3{}, math.Vec3{X: 1}, math.Vec3{Z: 1},
		uv, uv, uv,
	)
	if !frame.Tangent.IsFinite() || !frame.Bitangent.IsFinite() || !frame.Normal.IsFinite() {
		t.Errorf("degenerate UV produced non-finite frame %+v", frame)
	}
}

func TestComputeTangentFrameNearDegenerateUsesUnitScale(t *testing.T) {
	// det = 1e-5, below the threshold: f stays 1, so the tangent direction
	// matches t2*e1 - t1*e2 without blowing up.
	frame := ComputeTangentFrame(
		math.Vec3{}, math.Vec3{X: 1}, math.Vec3{Z: 1},
		math.Vec2{}, math.Vec2{X: 1e-5, Y: 0}, math.Vec2{X: 0, Y: 1},
	)
	if !nearVec(frame.Tangent, math.Vec3{X: 1}) {
		t.Errorf("tangent = %v, want (1,0,0)", frame.Tangent)
	}
}

func TestVertexBytes(t *testing.T) {
	m, err := BuildMesh(flatField(3, 2), DefaultMeshOptions())
	if err != nil {
		t.Fatalf("BuildMesh failed: %v", err)
	}
	b := m.VertexBytes()
	if len(b) != len(m.Vertices)*VertexStride {
		t.Fatalf("got %d bytes, want %d", len(b), len(m.Vertices)*VertexStride)
	}
	// Second float of the first vertex is its elevation.
	bits := uint32(b[4]) | uint32(b[5])<<8 | uint32(b[6])<<16 | uint32(b[7])<<24
	if got := gomath.Float32frombits(bits); got != 2 {
		t.Errorf("packed position.y = %v, want 2", got)
	}
	// The second record starts right after the first.
	second := m.Vertices[1].Position[1]
	off := VertexStride + 4
	bits = uint32(b[off]) | uint32(b[off+1])<<8 | uint32(b[off+2])<<16 | uint32(b[off+3])<<24
	if got := gomath.Float32frombits(bits); got != second {
		t.Errorf("second record position.y = %v, want %v", got, second)
	}
}

func TestWriteGLB(t *testing.T) {
	m, err := BuildMesh(flatField(5, 1), DefaultMeshOptions())
	if err != nil {
		t.Fatalf("BuildMesh failed: %v", err)
	}
	path := filepath.Join(t.TempDir(), "terrain.glb")
	if err := WriteGLB(m, path); err != nil {
		t.Fatalf("WriteGLB failed: %v", err)
	}

	doc, err := gltf.Open(path)
	if err != nil {
		t.Fatalf("gltf.Open failed: %v", err)
	}
	if len(doc.Meshes) != 1 || len(doc.Meshes[0].Primitives) != 1 {
		t.Fatalf("expected one mesh with one primitive")
	}
	attrs := doc.Meshes[0].Primitives[0].Attributes
	for _, name := range []string{gltf.POSITION, gltf.NORMAL, gltf.TEXCOORD_0, gltf.TANGENT} {
		idx, ok := attrs[name]
		if !ok {
			t.Errorf("missing attribute %s", name)
			continue
		}
		if got := int(doc.Accessors[idx].Count); got != len(m.Vertices) {
			t.Errorf("%s count = %d, want %d", name, got, len(m.Vertices))
		}
	}
}

func TestGLBDegenerateFaceUsesUnitVectors(t *testing.T) {
	// All three corners coincide, so the face has no normal or tangent.
	vertices := []Vertex{
		{Position: [3]float32{1, 2, 3}, TexCoord: cornerUV[0]},
		{Position: [3]float32{1, 2, 3}, TexCoord: cornerUV[1]},
		{Position: [3]float32{1, 2, 3}, TexCoord: cornerUV[2]},
	}
	applyTangentFrames(vertices)
	if vertices[0].Normal != ([3]float32{}) || vertices[0].Tangent != ([3]float32{}) {
		t.Fatalf("expected zero frame, got N=%v T=%v", vertices[0].Normal, vertices[0].Tangent)
	}

	doc := GLBDocument(&Mesh{Vertices: vertices})
	attrs := doc.Meshes[0].Primitives[0].Attributes

	normals, err := modeler.ReadNormal(doc, doc.Accessors[attrs[gltf.NORMAL]], nil)
	if err != nil {
		t.Fatalf("ReadNormal: %v", err)
	}
	tangents, err := modeler.ReadTangent(doc, doc.Accessors[attrs[gltf.TANGENT]], nil)
	if err != nil {
		t.Fatalf("ReadTangent: %v", err)
	}
	for i := range vertices {
		if normals[i] != [3]float32{0, 1, 0} {
			t.Errorf("normal %d = %v, want (0,1,0)", i, normals[i])
		}
		if tangents[i] != [4]float32{1, 0, 0, -1} {
			t.Errorf("tangent %d = %v, want (1,0,0,-1)", i, tangents[i])
		}
	}
}

func TestGLBKeepsRealFrames(t *testing.T) {
	m, err := BuildMesh(flatField(2, 0), DefaultMeshOptions())
	if err != nil {
		t.Fatalf("BuildMesh failed: %v", err)
	}
	doc := GLBDocument(m)
	attrs := doc.Meshes[0].Primitives[0].Attributes
	normals, err := modeler.ReadNormal(doc, doc.Accessors[attrs[gltf.NORMAL]], nil)
	if err != nil {
		t.Fatalf("ReadNormal: %v", err)
	}
	for i, n := range normals {
		if n != m.Vertices[i].Normal {
			t.Errorf("normal %d = %v, want %v", i, n, m.Vertices[i].Normal)
		}
	}
}

func TestBuildMeshLimits(t *testing.T) {
	// Only the size field is inspected before the limit check.
	big := &heightfield.Heightfield{Size: MaxMeshGridSize + 1}
	if _, err := BuildMesh(big, DefaultMeshOptions()); !errors.Is(err, ErrMeshTooLarge) {
		t.Errorf("expected ErrMeshTooLarge, got %v", err)
	}

	short := &heightfield.Heightfield{Size: 3, Cells: make([]float32, 4)}
	if _, err := BuildMesh(short, DefaultMeshOptions()); !errors.Is(err, ErrInvalidGridSize) {
		t.Errorf("expected ErrInvalidGridSize for short cells, got %v", err)
	}
}

func TestWriteGLBEmptyMesh(t *testing.T) {
	err := WriteGLB(&Mesh{}, filepath.Join(t.TempDir(), "empty.glb"))
	if !errors.Is(err, ErrInvalidGridSize) {
		t.Errorf("expected ErrInvalidGridSize, got %v", err)
	}
}

// fixed3 formats v to three decimals with small magnitudes snapped to 0,
// so the golden text does not depend on the sign of zero or FMA rounding.
func fixed3(v float32) string {
	if v > -5e-4 && v < 5e-4 {
		v = 0
	}
	return fmt.Sprintf("%.3f", v)
}

func writeVec(sb *strings.Builder, vs ...float32) {
	for i, v := range vs {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(fixed3(v))
	}
}

// TestDiamondSquareMeshGolden pins the 96-vertex mesh of the seeded 5x5
// grid. Run with -update to refresh.
func TestDiamondSquareMeshGolden(t *testing.T) {
	p := heightfield.DefaultParams()
	p.Seed = 42
	h, err := heightfield.Generate(5, heightfield.DiamondSquare, p)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	m, err := BuildMesh(h, DefaultMeshOptions())
	if err != nil {
		t.Fatalf("BuildMesh failed: %v", err)
	}
	if len(m.Vertices) != 96 {
		t.Fatalf("got %d vertices, want 96", len(m.Vertices))
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "grid %016x\n", h.Fingerprint())
	for _, v := range m.Vertices {
		writeVec(&sb, v.Position[:]...)
		sb.WriteString(" | ")
		writeVec(&sb, v.Normal[:]...)
		sb.WriteString(" | ")
		writeVec(&sb, v.TexCoord[:]...)
		sb.WriteString(" | ")
		writeVec(&sb, v.Tangent[:]...)
		sb.WriteString(" | ")
		writeVec(&sb, v.Bitangent[:]...)
		sb.WriteByte('\n')
	}
	got := sb.String()

	path := filepath.Join("testdata", "mesh_5_seed42.golden")
	if *update {
		if err := os.MkdirAll("testdata", 0755); err != nil {
			t.Fatalf("creating testdata: %v", err)
		}
		if err := os.WriteFile(path, []byte(got), 0644); err != nil {
			t.Fatalf("writing golden: %v", err)
		}
	}

	want, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading golden: %v", err)
	}
	if got != string(want) {
		gotLines := strings.Split(got, "\n")
		wantLines := strings.Split(string(want), "\n")
		for i := 0; i < len(gotLines) && i < len(wantLines); i++ {
			if gotLines[i] != wantLines[i] {
				t.Fatalf("mesh drifted from golden at line %d:\ngot:  %s\nwant: %s", i+1, gotLines[i], wantLines[i])
			}
		}
		t.Fatalf("mesh drifted from golden: got %d lines, want %d", len(gotLines), len(wantLines))
	}
}
