package surface

import "gonum.org/v1/gonum/spatial/r3"

// EstimateNormals returns one normal per position, computed by summing the
// unnormalized face normals (v1−v0)×(v2−v0) of every triangle that uses the
// vertex and normalizing the sum. Larger triangles therefore weigh more.
//
// A vertex whose sum is exactly zero (unreferenced, or touched only by
// zero-area triangles) keeps the zero vector.
func EstimateNormals(positions [][3]float32, indices []uint16) [][3]float32 {
	acc := make([]r3.Vec, len(positions))

	for i := 0; i+2 < len(indices); i += 3 {
		i0, i1, i2 := indices[i], indices[i+1], indices[i+2]

		v0 := fromArray(positions[i0])
		v1 := fromArray(positions[i1])
		v2 := fromArray(positions[i2])

		face := r3.Cross(r3.Sub(v1, v0), r3.Sub(v2, v0))

		acc[i0] = r3.Add(acc[i0], face)
		acc[i1] = r3.Add(acc[i1], face)
		acc[i2] = r3.Add(acc[i2], face)
	}

	normals := make([][3]float32, len(positions))
	for i, n := range acc {
		normals[i] = toArray(unitOr(n, r3.Vec{}, 0))
	}
	return normals
}

func fromArray(p [3]float32) r3.Vec {
	return r3.Vec{X: float64(p[0]), Y: float64(p[1]), Z: float64(p[2])}
}
