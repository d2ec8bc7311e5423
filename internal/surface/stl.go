package surface

import (
	"fmt"

	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Triangles converts the mesh to sdfx triangles, dropping zero-area faces
// (the surface pinches to a point at z = 0 and z = 1).
func (m *Mesh) Triangles() []*sdf.Triangle3 {
	tris := make([]*sdf.Triangle3, 0, m.TriangleCount())
	for i := 0; i+2 < len(m.Indices); i += 3 {
		t := &sdf.Triangle3{
			toV3(m.Vertices[m.Indices[i]].Position),
			toV3(m.Vertices[m.Indices[i+1]].Position),
			toV3(m.Vertices[m.Indices[i+2]].Position),
		}
		if t[1].Sub(t[0]).Cross(t[2].Sub(t[0])).Length() < 1e-12 {
			continue
		}
		tris = append(tris, t)
	}
	return tris
}

// SaveSTL writes the mesh to path as a binary STL file.
func (m *Mesh) SaveSTL(path string) error {
	tris := m.Triangles()
	if len(tris) == 0 {
		return fmt.Errorf("save %s: mesh has no non-degenerate triangles", path)
	}
	if err := render.SaveSTL(path, tris); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}

func toV3(p [3]float32) v3.Vec {
	return v3.Vec{X: float64(p[0]), Y: float64(p[1]), Z: float64(p[2])}
}
