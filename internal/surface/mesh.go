package surface

// Vertex is one tessellated surface point with all shading attributes.
type Vertex struct {
	Position [3]float32
	UV       [2]float32
	Normal   [3]float32
	Tangent  [3]float32
}

// Bounds holds the axis-aligned bounding box of a mesh.
type Bounds struct {
	Min [3]float32
	Max [3]float32
}

// Mesh holds triangle-list geometry ready for GPU upload.
// A Mesh is never modified after it is returned; rebuilding produces a new one.
type Mesh struct {
	Grid     Grid
	Vertices []Vertex
	Indices  []uint16
	Bounds   Bounds
}

// TriangleCount returns the number of triangles in the index list.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// Positions returns the flattened xyz position array.
func (m *Mesh) Positions() []float32 {
	out := make([]float32, 0, len(m.Vertices)*3)
	for i := range m.Vertices {
		out = append(out, m.Vertices[i].Position[:]...)
	}
	return out
}

// UVs returns the flattened uv array.
func (m *Mesh) UVs() []float32 {
	out := make([]float32, 0, len(m.Vertices)*2)
	for i := range m.Vertices {
		out = append(out, m.Vertices[i].UV[:]...)
	}
	return out
}

// Normals returns the flattened normal array.
func (m *Mesh) Normals() []float32 {
	out := make([]float32, 0, len(m.Vertices)*3)
	for i := range m.Vertices {
		out = append(out, m.Vertices[i].Normal[:]...)
	}
	return out
}

// Tangents returns the flattened tangent array.
func (m *Mesh) Tangents() []float32 {
	out := make([]float32, 0, len(m.Vertices)*3)
	for i := range m.Vertices {
		out = append(out, m.Vertices[i].Tangent[:]...)
	}
	return out
}

func emptyBounds() Bounds {
	return Bounds{
		Min: [3]float32{1e10, 1e10, 1e10},
		Max: [3]float32{-1e10, -1e10, -1e10},
	}
}

func updateBounds(b *Bounds, p [3]float32) {
	for i := 0; i < 3; i++ {
		if p[i] < b.Min[i] {
			b.Min[i] = p[i]
		}
		if p[i] > b.Max[i] {
			b.Max[i] = p[i]
		}
	}
}
