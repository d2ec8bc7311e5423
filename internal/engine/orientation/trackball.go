package orientation

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/kiss-anaglyph/pkg/math"
)

// Trackball turns mouse drags into an accumulated rotation using a
// virtual sphere inscribed in the viewport. Not safe for concurrent use;
// it is driven from the render goroutine only.
type Trackball struct {
	width, height float32
	scale         float32

	rotation math.Quat
	dragging bool
	last     math.Vec3
}

// NewTrackball creates a trackball for a viewport of the given size.
func NewTrackball(width, height int) *Trackball {
	t := &Trackball{
		scale:    1.0,
		rotation: math.QuatIdentity(),
	}
	t.SetViewport(width, height)
	return t
}

// SetViewport updates the viewport size used to map mouse coordinates.
func (t *Trackball) SetViewport(width, height int) {
	t.width = float32(max(width, 1))
	t.height = float32(max(height, 1))
}

// SetScale sets the rotation multiplier applied to each drag step.
func (t *Trackball) SetScale(scale float32) {
	t.scale = scale
}

// Begin starts a drag at window coordinates (x, y).
func (t *Trackball) Begin(x, y int) {
	t.dragging = true
	t.last = t.project(x, y)
}

// Drag rotates by the arc between the previous and current pointer positions.
func (t *Trackball) Drag(x, y int) {
	if !t.dragging {
		return
	}
	cur := t.project(x, y)
	if step, ok := math.QuatArc(t.last, cur, t.scale); ok {
		t.rotation = step.Mul(t.rotation).Normalize()
	}
	t.last = cur
}

// End finishes the current drag.
func (t *Trackball) End() {
	t.dragging = false
}

// Dragging reports whether a drag is in progress.
func (t *Trackball) Dragging() bool {
	return t.dragging
}

// Reset discards the accumulated rotation.
func (t *Trackball) Reset() {
	t.rotation = math.QuatIdentity()
	t.dragging = false
}

// Matrix returns the accumulated rotation.
func (t *Trackball) Matrix() math.Mat4 {
	return t.rotation.ToMat4()
}

// project maps window coordinates onto the unit virtual sphere.
// Points outside the inscribed circle fall on a hyperbolic sheet.
func (t *Trackball) project(x, y int) math.Vec3 {
	nx := (2*float32(x) - t.width) / t.width
	ny := (t.height - 2*float32(y)) / t.height

	d2 := nx*nx + ny*ny
	var z float32
	if d2 <= 0.5 {
		z = math32.Sqrt(1 - d2)
	} else {
		z = 0.5 / math32.Sqrt(d2)
	}
	return math.Vec3{X: nx, Y: ny, Z: z}.Normalize()
}
