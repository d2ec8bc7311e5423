package surface

import (
	"gonum.org/v1/gonum/spatial/r3"
)

// Tessellate evaluates the kiss surface over g and returns its triangle mesh.
//
// Vertices are emitted row by row (z outer, u inner), so node (zIndex, uIndex)
// lands at zIndex·(USegments+1) + uIndex. The first and last u columns are
// separate vertices even when the u range spans a full turn; the seam is
// not stitched.
func Tessellate(g Grid) (*Mesh, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}

	vertices := make([]Vertex, 0, g.VertexCount())
	bounds := emptyBounds()

	uSpan := g.UMax - g.UMin
	zSpan := g.ZMax - g.ZMin

	for zi := 0; zi <= g.ZSegments; zi++ {
		z := g.Z(zi)
		for ui := 0; ui <= g.USegments; ui++ {
			u := g.U(ui)

			pos := toArray(Position(u, z))
			updateBounds(&bounds, pos)

			vertices = append(vertices, Vertex{
				Position: pos,
				UV:       [2]float32{float32((z - g.ZMin) / zSpan), float32((u - g.UMin) / uSpan)},
				Tangent:  toArray(Tangent(u, z)),
			})
		}
	}

	indices := gridIndices(g.USegments, g.ZSegments)

	positions := make([][3]float32, len(vertices))
	for i := range vertices {
		positions[i] = vertices[i].Position
	}
	for i, n := range EstimateNormals(positions, indices) {
		vertices[i].Normal = n
	}

	return &Mesh{
		Grid:     g,
		Vertices: vertices,
		Indices:  indices,
		Bounds:   bounds,
	}, nil
}

// gridIndices triangulates a (uSegments+1) x (zSegments+1) vertex grid.
// Each cell yields (c, n, c+1) and (c+1, n, n+1), where n is the vertex
// one row above c.
func gridIndices(uSegments, zSegments int) []uint16 {
	indices := make([]uint16, 0, 6*uSegments*zSegments)
	stride := uSegments + 1

	for zi := 0; zi < zSegments; zi++ {
		for ui := 0; ui < uSegments; ui++ {
			current := uint16(zi*stride + ui)
			next := current + uint16(stride)

			indices = append(indices,
				current, next, current+1,
				current+1, next, next+1,
			)
		}
	}
	return indices
}

func toArray(v r3.Vec) [3]float32 {
	return [3]float32{float32(v.X), float32(v.Y), float32(v.Z)}
}
