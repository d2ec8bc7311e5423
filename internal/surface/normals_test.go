package surface

import (
	"math"
	"testing"
)

func TestEstimateNormalsFlatQuad(t *testing.T) {
	positions := [][3]float32{
		{0, 0, 0},
		{1, 0, 0},
		{0, 1, 0},
		{1, 1, 0},
	}
	indices := []uint16{0, 1, 2, 2, 1, 3}

	for i, n := range EstimateNormals(positions, indices) {
		if n != [3]float32{0, 0, 1} {
			t.Errorf("normal %d = %v, want (0, 0, 1)", i, n)
		}
	}
}

func TestEstimateNormalsAreaWeighted(t *testing.T) {
	// Vertex 0 is shared by a large triangle in the xy plane and a small
	// one in the xz plane; the sum leans towards the large face.
	positions := [][3]float32{
		{0, 0, 0},
		{4, 0, 0},
		{0, 4, 0},
		{0, 0, 1},
	}
	indices := []uint16{
		0, 1, 2, // normal +z, area 8
		0, 3, 1, // normal +y, area 2 (cross = (0,4,0))
	}

	n := EstimateNormals(positions, indices)[0]
	want := [3]float32{0, float32(4 / math.Sqrt(16+256)), float32(16 / math.Sqrt(16+256))}
	for i := 0; i < 3; i++ {
		if math.Abs(float64(n[i]-want[i])) > 1e-6 {
			t.Fatalf("normal = %v, want %v", n, want)
		}
	}
}

func TestEstimateNormalsUnreferencedVertex(t *testing.T) {
	positions := [][3]float32{
		{0, 0, 0},
		{1, 0, 0},
		{0, 1, 0},
		{5, 5, 5}, // not referenced
	}
	normals := EstimateNormals(positions, []uint16{0, 1, 2})

	if len(normals) != len(positions) {
		t.Fatalf("got %d normals, want %d", len(normals), len(positions))
	}
	if normals[3] != [3]float32{} {
		t.Errorf("unreferenced normal = %v, want zero", normals[3])
	}
}

func TestEstimateNormalsDegenerateTriangle(t *testing.T) {
	positions := [][3]float32{
		{1, 1, 1},
		{1, 1, 1},
		{1, 1, 1},
	}
	for i, n := range EstimateNormals(positions, []uint16{0, 1, 2}) {
		if n != [3]float32{} {
			t.Errorf("normal %d = %v, want zero", i, n)
		}
	}
}

func TestMeshNormalsUnitOrZero(t *testing.T) {
	for _, g := range []Grid{DefaultGrid(4, 4), DefaultGrid(32, 32), DefaultGrid(9, 13)} {
		m, err := Tessellate(g)
		if err != nil {
			t.Fatalf("Tessellate: %v", err)
		}

		// A vertex may only have a zero normal if every triangle it
		// belongs to has zero area.
		hasArea := make([]bool, len(m.Vertices))
		for i := 0; i < len(m.Indices); i += 3 {
			a := fromArray(m.Vertices[m.Indices[i]].Position)
			b := fromArray(m.Vertices[m.Indices[i+1]].Position)
			c := fromArray(m.Vertices[m.Indices[i+2]].Position)
			ab := [3]float64{b.X - a.X, b.Y - a.Y, b.Z - a.Z}
			ac := [3]float64{c.X - a.X, c.Y - a.Y, c.Z - a.Z}
			cross := [3]float64{
				ab[1]*ac[2] - ab[2]*ac[1],
				ab[2]*ac[0] - ab[0]*ac[2],
				ab[0]*ac[1] - ab[1]*ac[0],
			}
			if cross != [3]float64{} {
				for _, idx := range m.Indices[i : i+3] {
					hasArea[idx] = true
				}
			}
		}

		for i, v := range m.Vertices {
			if v.Normal == [3]float32{} {
				if hasArea[i] {
					t.Errorf("grid %dx%d: vertex %d has zero normal but touches a non-degenerate face",
						g.USegments, g.ZSegments, i)
				}
				continue
			}
			if l := length(v.Normal); math.Abs(l-1) > 1e-5 {
				t.Errorf("grid %dx%d: normal %d length = %f, want 1", g.USegments, g.ZSegments, i, l)
			}
		}
	}
}
