package renderer

import (
	"errors"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/kiss-anaglyph/internal/surface"
)

// attribute describes one per-vertex stream bound to a shader location.
type attribute struct {
	name       string
	location   uint32
	components int32
}

// Vertex layout shared by the shaders and the buffers.
var attributes = [...]attribute{
	{"aPosition", 0, 3},
	{"aUV", 1, 2},
	{"aNormal", 2, 3},
	{"aTangent", 3, 3},
}

var errEmptyMesh = errors.New("mesh has no vertices or indices")

// meshStreams returns the flat float streams for m in attribute order.
func meshStreams(m *surface.Mesh) [len(attributes)][]float32 {
	return [len(attributes)][]float32{
		m.Positions(),
		m.UVs(),
		m.Normals(),
		m.Tangents(),
	}
}

// meshBuffers owns a VAO with one STATIC vertex buffer per attribute and
// a 16-bit index buffer.
type meshBuffers struct {
	vao   uint32
	vbos  [len(attributes)]uint32
	ebo   uint32
	count int32
}

func (b *meshBuffers) upload(m *surface.Mesh) error {
	if m == nil || len(m.Vertices) == 0 || len(m.Indices) == 0 {
		return errEmptyMesh
	}
	if b.vao == 0 {
		gl.GenVertexArrays(1, &b.vao)
		gl.GenBuffers(int32(len(b.vbos)), &b.vbos[0])
		gl.GenBuffers(1, &b.ebo)
	}

	gl.BindVertexArray(b.vao)

	streams := meshStreams(m)
	for i, a := range attributes {
		data := streams[i]
		gl.BindBuffer(gl.ARRAY_BUFFER, b.vbos[i])
		gl.BufferData(gl.ARRAY_BUFFER, len(data)*4, gl.Ptr(data), gl.STATIC_DRAW)
		gl.VertexAttribPointer(a.location, a.components, gl.FLOAT, false, 0, nil)
		gl.EnableVertexAttribArray(a.location)
	}

	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, b.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(m.Indices)*2, gl.Ptr(m.Indices), gl.STATIC_DRAW)
	b.count = int32(len(m.Indices))

	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	return nil
}

func (b *meshBuffers) draw(r *Renderer, color [4]float32, shade, mapped bool) {
	if b.count == 0 {
		return
	}
	r.setColor(color, shade, mapped)
	gl.BindVertexArray(b.vao)
	gl.DrawElements(gl.TRIANGLES, b.count, gl.UNSIGNED_SHORT, nil)
}

func (b *meshBuffers) release() {
	if b.vao == 0 {
		return
	}
	gl.DeleteBuffers(int32(len(b.vbos)), &b.vbos[0])
	gl.DeleteBuffers(1, &b.ebo)
	gl.DeleteVertexArrays(1, &b.vao)
	*b = meshBuffers{}
}
