// Package terrain builds renderable triangle meshes from heightfields.
package terrain

import (
	"errors"

	"github.com/Faultbox/heightforge/pkg/math"
)

// Meshing errors.
var (
	ErrInvalidGridSize = errors.New("terrain: grid size must be at least 2")
	ErrMeshTooLarge    = errors.New("terrain: grid too large to mesh")
)

// MaxMeshGridSize bounds BuildMesh: 1024^2 cells at 6 vertices each is
// about 350 MB of vertices.
const MaxMeshGridSize = 1025

// Vertex is one non-indexed terrain vertex. The field order and widths are
// the upload layout: 14 float32 values, 56 bytes.
type Vertex struct {
	Position  [3]float32
	Normal    [3]float32
	TexCoord  [2]float32
	Tangent   [3]float32
	Bitangent [3]float32
}

// VertexStride is the size of one packed Vertex in bytes.
const VertexStride = 14 * 4

// VerticesPerCell is two triangles per grid quad, no sharing.
const VerticesPerCell = 6

// Mesh holds the complete terrain mesh data ready for GPU upload.
type Mesh struct {
	Vertices []Vertex
	Bounds   Bounds
	GridSize int
}

// TriangleCount returns the number of faces in the mesh.
func (m *Mesh) TriangleCount() int {
	return len(m.Vertices) / 3
}

// Bounds holds the axis-aligned bounding box of the terrain.
type Bounds struct {
	Min [3]float32
	Max [3]float32
}

// MeshOptions places the grid in world space. Grid coordinates are
// centred on the middle cell, multiplied by Scale, then moved by Origin.
type MeshOptions struct {
	Origin math.Vec3
	Scale  math.Vec3
}

// DefaultMeshOptions returns unit scale at the world origin.
func DefaultMeshOptions() MeshOptions {
	return MeshOptions{Scale: math.Vec3{X: 1, Y: 1, Z: 1}}
}

// Corner texture coordinates, indexed by the corner's role in a quad.
var cornerUV = [4][2]float32{
	{0, 0}, // (i, j)
	{1, 0}, // (i, j+1)
	{0, 1}, // (i+1, j)
	{1, 1}, // (i+1, j+1)
}
