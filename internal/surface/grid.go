package surface

import (
	"errors"
	"fmt"
	"math"
)

// MaxVertices is the largest vertex count addressable by a 16-bit index buffer.
const MaxVertices = 1 << 16

// Validation errors returned by Grid.Validate.
var (
	ErrInvalidSegments = errors.New("segment count must be at least 1")
	ErrInvalidRange    = errors.New("parameter range must satisfy min < max")
	ErrDomain          = errors.New("z range exceeds surface domain (z must be <= 1)")
	ErrTooManyVertices = errors.New("grid exceeds 16-bit index limit")
	ErrNonFiniteBound  = errors.New("parameter bounds must be finite")
)

// Grid describes the regular parameter grid walked by Tessellate.
type Grid struct {
	USegments int
	ZSegments int

	UMin, UMax float64
	ZMin, ZMax float64
}

// DefaultGrid returns a grid over u in [0, 2π] and z in [-1, 1].
func DefaultGrid(uSegments, zSegments int) Grid {
	return Grid{
		USegments: uSegments,
		ZSegments: zSegments,
		UMin:      0,
		UMax:      2 * math.Pi,
		ZMin:      -1,
		ZMax:      1,
	}
}

// Validate checks the grid against the surface domain and the index format.
func (g Grid) Validate() error {
	if g.USegments < 1 {
		return fmt.Errorf("u segments %d: %w", g.USegments, ErrInvalidSegments)
	}
	if g.ZSegments < 1 {
		return fmt.Errorf("z segments %d: %w", g.ZSegments, ErrInvalidSegments)
	}
	for _, b := range []float64{g.UMin, g.UMax, g.ZMin, g.ZMax} {
		if math.IsNaN(b) || math.IsInf(b, 0) {
			return fmt.Errorf("bound %v: %w", b, ErrNonFiniteBound)
		}
	}
	if !(g.UMin < g.UMax) {
		return fmt.Errorf("u range [%g, %g]: %w", g.UMin, g.UMax, ErrInvalidRange)
	}
	if !(g.ZMin < g.ZMax) {
		return fmt.Errorf("z range [%g, %g]: %w", g.ZMin, g.ZMax, ErrInvalidRange)
	}
	if math.IsInf(g.UMax-g.UMin, 0) {
		return fmt.Errorf("u span [%g, %g]: %w", g.UMin, g.UMax, ErrNonFiniteBound)
	}
	if math.IsInf(g.ZMax-g.ZMin, 0) {
		return fmt.Errorf("z span [%g, %g]: %w", g.ZMin, g.ZMax, ErrNonFiniteBound)
	}
	if g.ZMax > 1 {
		return fmt.Errorf("z max %g: %w", g.ZMax, ErrDomain)
	}
	// For z < 0 the radius grows with |z|, so ZMin bounds the whole range.
	if r := radius(g.ZMin); math.IsInf(r, 0) || r > math.MaxFloat32 {
		return fmt.Errorf("z min %g: radius overflows float32: %w", g.ZMin, ErrDomain)
	}
	if g.USegments >= MaxVertices || g.ZSegments >= MaxVertices {
		return fmt.Errorf("%dx%d segments: %w", g.USegments, g.ZSegments, ErrTooManyVertices)
	}
	if n := g.VertexCount(); n > MaxVertices {
		return fmt.Errorf("%d vertices: %w", n, ErrTooManyVertices)
	}
	return nil
}

// VertexCount returns (USegments+1)·(ZSegments+1).
func (g Grid) VertexCount() int {
	return (g.USegments + 1) * (g.ZSegments + 1)
}

// IndexCount returns 6·USegments·ZSegments.
func (g Grid) IndexCount() int {
	return 6 * g.USegments * g.ZSegments
}

// U returns the u parameter of grid column i. The last column is pinned
// to UMax so accumulated rounding cannot overshoot the range.
func (g Grid) U(i int) float64 {
	if i >= g.USegments {
		return g.UMax
	}
	step := (g.UMax - g.UMin) / float64(g.USegments)
	return g.UMin + float64(i)*step
}

// Z returns the z parameter of grid row j. The last row is pinned to ZMax,
// keeping z <= 1 whenever the grid validated.
func (g Grid) Z(j int) float64 {
	if j >= g.ZSegments {
		return g.ZMax
	}
	step := (g.ZMax - g.ZMin) / float64(g.ZSegments)
	return g.ZMin + float64(j)*step
}

// Index returns the vertex index of grid node (zIndex, uIndex).
func (g Grid) Index(zIndex, uIndex int) int {
	return zIndex*(g.USegments+1) + uIndex
}
