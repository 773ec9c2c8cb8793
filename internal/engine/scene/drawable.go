// Package scene connects terrain meshes to an external renderer.
// Device resources live behind RenderContext; terrain generation never sees them.
package scene

import (
	"errors"
	"fmt"

	"github.com/Faultbox/heightforge/internal/engine/terrain"
)

// ErrNotUploaded is returned when drawing a mesh that has no GPU buffer.
var ErrNotUploaded = errors.New("scene: mesh not uploaded")

// BufferID identifies a vertex buffer owned by a RenderContext.
type BufferID uint32

// RenderContext is the device surface a drawable needs.
type RenderContext interface {
	CreateVertexBuffer(data []byte, stride int) (BufferID, error)
	DrawTriangles(id BufferID, vertexCount int) error
	DeleteBuffer(id BufferID)
}

// Drawable is anything that can upload itself and be drawn.
type Drawable interface {
	UploadMesh(rc RenderContext) error
	Draw(rc RenderContext) error
	Release(rc RenderContext)
}

// TerrainDrawable draws a non-indexed terrain mesh.
type TerrainDrawable struct {
	mesh        *terrain.Mesh
	vbo         BufferID
	vertexCount int
	uploaded    bool
}

var _ Drawable = (*TerrainDrawable)(nil)

// NewTerrainDrawable wraps a mesh. Nothing is uploaded until UploadMesh.
func NewTerrainDrawable(mesh *terrain.Mesh) *TerrainDrawable {
	return &TerrainDrawable{mesh: mesh}
}

// UploadMesh creates the vertex buffer, releasing any previous one.
func (d *TerrainDrawable) UploadMesh(rc RenderContext) error {
	if d.mesh == nil || len(d.mesh.Vertices) == 0 {
		return fmt.Errorf("uploading terrain: %w", terrain.ErrInvalidGridSize)
	}
	d.Release(rc)

	id, err := rc.CreateVertexBuffer(d.mesh.VertexBytes(), terrain.VertexStride)
	if err != nil {
		return fmt.Errorf("uploading terrain: %w", err)
	}
	d.vbo = id
	d.vertexCount = len(d.mesh.Vertices)
	d.uploaded = true
	return nil
}

// Draw issues one non-indexed triangle draw covering the whole mesh.
func (d *TerrainDrawable) Draw(rc RenderContext) error {
	if !d.uploaded {
		return ErrNotUploaded
	}
	return rc.DrawTriangles(d.vbo, d.vertexCount)
}

// Replace swaps in a rebuilt mesh and uploads it.
func (d *TerrainDrawable) Replace(rc RenderContext, mesh *terrain.Mesh) error {
	d.mesh = mesh
	return d.UploadMesh(rc)
}

// Release frees the vertex buffer if one exists.
func (d *TerrainDrawable) Release(rc RenderContext) {
	if !d.uploaded {
		return
	}
	rc.DeleteBuffer(d.vbo)
	d.uploaded = false
	d.vertexCount = 0
}
