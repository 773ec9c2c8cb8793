package terrain

import (
	"encoding/binary"
	"fmt"
	gomath "math"

	"github.com/Faultbox/heightforge/internal/engine/heightfield"
	"github.com/Faultbox/heightforge/pkg/math"
)

// BuildMesh triangulates the heightfield into 6*(size-1)^2 vertices, rows
// outer and columns inner. Each quad emits triangle {(i,j), (i,j+1), (i+1,j)}
// then {(i+1,j), (i,j+1), (i+1,j+1)}. The heightfield is not modified.
func BuildMesh(h *heightfield.Heightfield, opts MeshOptions) (*Mesh, error) {
	size := h.Size
	if size < 2 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidGridSize, size)
	}
	if size > MaxMeshGridSize {
		return nil, fmt.Errorf("%w: %d > %d", ErrMeshTooLarge, size, MaxMeshGridSize)
	}
	if len(h.Cells) != size*size {
		return nil, fmt.Errorf("%w: %d cells for size %d", ErrInvalidGridSize, len(h.Cells), size)
	}

	world := gridToWorld(size, opts)
	positions := make([][3]float32, size*size)
	for i := 0; i < size; i++ {
		for j := 0; j < size; j++ {
			p := world.TransformPoint(math.Vec3{X: float32(i), Y: h.At(i, j), Z: float32(j)})
			positions[i*size+j] = p.Array()
		}
	}

	bounds := Bounds{
		Min: [3]float32{1e10, 1e10, 1e10},
		Max: [3]float32{-1e10, -1e10, -1e10},
	}
	for _, p := range positions {
		updateBounds(&bounds, p)
	}

	cells := size - 1
	vertices := make([]Vertex, 0, VerticesPerCell*cells*cells)
	for i := 0; i < cells; i++ {
		for j := 0; j < cells; j++ {
			// Corner roles match cornerUV.
			c00 := i*size + j
			c01 := i*size + j + 1
			c10 := (i+1)*size + j
			c11 := (i+1)*size + j + 1

			vertices = append(vertices,
				Vertex{Position: positions[c00], TexCoord: cornerUV[0]},
				Vertex{Position: positions[c01], TexCoord: cornerUV[1]},
				Vertex{Position: positions[c10], TexCoord: cornerUV[2]},

				Vertex{Position: positions[c10], TexCoord: cornerUV[2]},
				Vertex{Position: positions[c01], TexCoord: cornerUV[1]},
				Vertex{Position: positions[c11], TexCoord: cornerUV[3]},
			)
		}
	}

	applyTangentFrames(vertices)

	return &Mesh{
		Vertices: vertices,
		Bounds:   bounds,
		GridSize: size,
	}, nil
}

// gridToWorld centres grid coordinates on (size-1)/2 in both axes, then
// scales and translates. Elevation is not re-centred.
func gridToWorld(size int, opts MeshOptions) math.Mat4 {
	half := float32(size-1) / 2
	centre := math.Translate(math.Vec3{X: -half, Z: -half})
	return math.Translate(opts.Origin).Mul(math.Scale(opts.Scale)).Mul(centre)
}

// VertexBytes packs every vertex little-endian in field order, VertexStride
// bytes each, ready for a vertex buffer upload.
func (m *Mesh) VertexBytes() []byte {
	out := make([]byte, 0, len(m.Vertices)*VertexStride)
	for i := range m.Vertices {
		v := &m.Vertices[i]
		out = appendFloats(out, v.Position[:]...)
		out = appendFloats(out, v.Normal[:]...)
		out = appendFloats(out, v.TexCoord[:]...)
		out = appendFloats(out, v.Tangent[:]...)
		out = appendFloats(out, v.Bitangent[:]...)
	}
	return out
}

func appendFloats(b []byte, fs ...float32) []byte {
	for _, f := range fs {
		b = binary.LittleEndian.AppendUint32(b, gomath.Float32bits(f))
	}
	return b
}

func updateBounds(b *Bounds, p [3]float32) {
	for k := 0; k < 3; k++ {
		if p[k] < b.Min[k] {
			b.Min[k] = p[k]
		}
		if p[k] > b.Max[k] {
			b.Max[k] = p[k]
		}
	}
}
