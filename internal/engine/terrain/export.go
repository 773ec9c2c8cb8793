package terrain

import (
	"fmt"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

// GLBDocument converts the mesh into a single-primitive glTF document.
// The mesh stays non-indexed. Tangent w is -1 because the bitangent
// is Tangent × Normal.
func GLBDocument(m *Mesh) *gltf.Document {
	n := len(m.Vertices)
	positions := make([][3]float32, n)
	normals := make([][3]float32, n)
	texCoords := make([][2]float32, n)
	tangents := make([][4]float32, n)
	for i, v := range m.Vertices {
		positions[i] = v.Position
		normals[i] = unitOr(v.Normal, [3]float32{0, 1, 0})
		texCoords[i] = v.TexCoord
		t := unitOr(v.Tangent, [3]float32{1, 0, 0})
		tangents[i] = [4]float32{t[0], t[1], t[2], -1}
	}

	doc := gltf.NewDocument()
	doc.Asset.Generator = "heightforge terrain"

	posAccessor := modeler.WritePosition(doc, positions)
	normalAccessor := modeler.WriteNormal(doc, normals)
	uvAccessor := modeler.WriteTextureCoord(doc, texCoords)
	tangentAccessor := modeler.WriteTangent(doc, tangents)

	prim := &gltf.Primitive{
		Attributes: gltf.PrimitiveAttributes{
			gltf.POSITION:   posAccessor,
			gltf.NORMAL:     normalAccessor,
			gltf.TEXCOORD_0: uvAccessor,
			gltf.TANGENT:    tangentAccessor,
		},
	}

	material := &gltf.Material{Name: "Terrain", AlphaMode: gltf.AlphaOpaque}
	material.PBRMetallicRoughness = &gltf.PBRMetallicRoughness{
		BaseColorFactor: &[4]float64{1, 1, 1, 1},
		MetallicFactor:  gltf.Float(0),
		RoughnessFactor: gltf.Float(1),
	}
	doc.Materials = []*gltf.Material{material}
	prim.Material = gltf.Index(0)

	doc.Meshes = []*gltf.Mesh{{Name: "Terrain", Primitives: []*gltf.Primitive{prim}}}
	doc.Nodes = []*gltf.Node{{Name: "Terrain", Mesh: gltf.Index(0)}}
	doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, 0)
	return doc
}

// unitOr returns v when it has length, otherwise fallback. glTF requires
// unit NORMAL and TANGENT attributes; degenerate faces carry zero vectors.
func unitOr(v, fallback [3]float32) [3]float32 {
	if v == ([3]float32{}) {
		return fallback
	}
	return v
}

// WriteGLB saves the mesh as binary glTF.
func WriteGLB(m *Mesh, path string) error {
	if len(m.Vertices) == 0 {
		return fmt.Errorf("writing %s: %w", path, ErrInvalidGridSize)
	}
	if err := gltf.SaveBinary(GLBDocument(m), path); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
