package terrain

import (
	"github.com/Faultbox/heightforge/pkg/math"
)

// degenerateUVDeterminant is the |det| at or below which the UV basis
// is treated as singular and the tangent is left unscaled.
const degenerateUVDeterminant = 1e-4

// TangentFrame is the per-face normal-mapping basis.
type TangentFrame struct {
	Normal    math.Vec3
	Tangent   math.Vec3
	Bitangent math.Vec3
}

// ComputeTangentFrame returns the face frame of triangle (p0, p1, p2) with
// texcoords (t0, t1, t2). The bitangent is Tangent × Normal (left-handed).
func ComputeTangentFrame(p0, p1, p2 math.Vec3, t0, t1, t2 math.Vec2) TangentFrame {
	e1 := p1.Sub(p0)
	e2 := p2.Sub(p0)
	normal := e1.Cross(e2).Normalize()

	d1 := t1.Sub(t0)
	d2 := t2.Sub(t0)
	det := d1.Cross(d2)
	f := float32(1)
	if absf(det) > degenerateUVDeterminant {
		f = 1 / det
	}

	tangent := e1.Scale(d2.Y).Sub(e2.Scale(d1.Y)).Scale(f).Normalize()
	bitangent := tangent.Cross(normal).Normalize()

	return TangentFrame{Normal: normal, Tangent: tangent, Bitangent: bitangent}
}

// applyTangentFrames writes one frame into all three vertices of every face.
// Vertices must be non-indexed: face k owns vertices 3k..3k+2.
func applyTangentFrames(vertices []Vertex) {
	for i := 0; i+2 < len(vertices); i += 3 {
		v0, v1, v2 := &vertices[i], &vertices[i+1], &vertices[i+2]
		frame := ComputeTangentFrame(
			math.FromArray(v0.Position), math.FromArray(v1.Position), math.FromArray(v2.Position),
			math.Vec2FromArray(v0.TexCoord), math.Vec2FromArray(v1.TexCoord), math.Vec2FromArray(v2.TexCoord),
		)
		n, t, b := frame.Normal.Array(), frame.Tangent.Array(), frame.Bitangent.Array()
		for _, v := range []*Vertex{v0, v1, v2} {
			v.Normal, v.Tangent, v.Bitangent = n, t, b
		}
	}
}

func absf(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}
