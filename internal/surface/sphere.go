package surface

import (
	"fmt"
	"math"
)

// Sphere builds a UV sphere of the given radius centered at the origin.
// It is used as the on-screen marker for the sound source.
func Sphere(radius float64, latBands, lonBands int) (*Mesh, error) {
	if latBands < 1 || lonBands < 1 {
		return nil, fmt.Errorf("sphere %dx%d: %w", latBands, lonBands, ErrInvalidSegments)
	}
	if n := (latBands + 1) * (lonBands + 1); n > MaxVertices {
		return nil, fmt.Errorf("sphere with %d vertices: %w", n, ErrTooManyVertices)
	}

	vertices := make([]Vertex, 0, (latBands+1)*(lonBands+1))
	bounds := emptyBounds()

	for lat := 0; lat <= latBands; lat++ {
		theta := float64(lat) * math.Pi / float64(latBands)
		sinTheta, cosTheta := math.Sin(theta), math.Cos(theta)

		for lon := 0; lon <= lonBands; lon++ {
			phi := float64(lon) * 2 * math.Pi / float64(lonBands)
			sinPhi, cosPhi := math.Sin(phi), math.Cos(phi)

			n := [3]float32{float32(cosPhi * sinTheta), float32(cosTheta), float32(sinPhi * sinTheta)}
			pos := [3]float32{float32(radius) * n[0], float32(radius) * n[1], float32(radius) * n[2]}
			updateBounds(&bounds, pos)

			vertices = append(vertices, Vertex{
				Position: pos,
				Normal:   n,
				UV:       [2]float32{float32(lon) / float32(lonBands), float32(lat) / float32(latBands)},
				Tangent:  [3]float32{float32(-sinPhi), 0, float32(cosPhi)},
			})
		}
	}

	indices := make([]uint16, 0, 6*latBands*lonBands)
	for lat := 0; lat < latBands; lat++ {
		for lon := 0; lon < lonBands; lon++ {
			first := uint16(lat*(lonBands+1) + lon)
			second := first + uint16(lonBands+1)

			indices = append(indices,
				first, second, first+1,
				second, second+1, first+1,
			)
		}
	}

	return &Mesh{Vertices: vertices, Indices: indices, Bounds: bounds}, nil
}
