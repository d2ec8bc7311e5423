// Package camera provides the off-axis stereo camera used for anaglyph rendering.
package camera

import (
	"errors"
	"fmt"

	"github.com/chewxy/math32"

	"github.com/Faultbox/kiss-anaglyph/pkg/math"
)

// Eye selects one half of a stereo pair.
type Eye int

const (
	LeftEye Eye = iota
	RightEye
)

// String returns "left" or "right".
func (e Eye) String() string {
	if e == LeftEye {
		return "left"
	}
	return "right"
}

// ErrInvalidParams is returned by StereoParams.Validate.
var ErrInvalidParams = errors.New("invalid stereo parameters")

// StereoParams describes a parallel-axis stereo camera.
// Frustums are derived on every call; nothing is cached.
type StereoParams struct {
	EyeSeparation float32 // Distance between the eyes (interpupillary distance)
	Convergence   float32 // Distance to the zero-parallax plane
	AspectRatio   float32 // Viewport width / height
	FOV           float32 // Vertical field of view, radians
	Near          float32 // Near clipping distance
	Far           float32 // Far clipping distance
}

// DefaultStereoParams returns the settings the viewer starts with.
func DefaultStereoParams(aspect float32) StereoParams {
	return StereoParams{
		EyeSeparation: 0.07,
		Convergence:   10,
		AspectRatio:   aspect,
		FOV:           math32.Pi / 4,
		Near:          1,
		Far:           100,
	}
}

// Validate checks every parameter against its allowed range.
func (p StereoParams) Validate() error {
	switch {
	case !(p.EyeSeparation > 0):
		return fmt.Errorf("eye separation %g must be > 0: %w", p.EyeSeparation, ErrInvalidParams)
	case !(p.Convergence > 0):
		return fmt.Errorf("convergence %g must be > 0: %w", p.Convergence, ErrInvalidParams)
	case !(p.AspectRatio > 0):
		return fmt.Errorf("aspect ratio %g must be > 0: %w", p.AspectRatio, ErrInvalidParams)
	case !(p.FOV > 0 && p.FOV < math32.Pi):
		return fmt.Errorf("field of view %g must be in (0, π): %w", p.FOV, ErrInvalidParams)
	case !(p.Near > 0):
		return fmt.Errorf("near clip %g must be > 0: %w", p.Near, ErrInvalidParams)
	case !(p.Far > p.Near):
		return fmt.Errorf("far clip %g must exceed near clip %g: %w", p.Far, p.Near, ErrInvalidParams)
	}
	return nil
}

// LeftFrustum returns the asymmetric frustum of the left eye.
func (p StereoParams) LeftFrustum() math.Frustum {
	b, c := p.halfWidths()
	return p.frustum(-b*p.Near/p.Convergence, c*p.Near/p.Convergence)
}

// RightFrustum returns the asymmetric frustum of the right eye,
// the horizontal mirror image of LeftFrustum.
func (p StereoParams) RightFrustum() math.Frustum {
	b, c := p.halfWidths()
	return p.frustum(-c*p.Near/p.Convergence, b*p.Near/p.Convergence)
}

// Frustum returns the frustum of the given eye.
func (p StereoParams) Frustum(e Eye) math.Frustum {
	if e == LeftEye {
		return p.LeftFrustum()
	}
	return p.RightFrustum()
}

// EyeOffset returns the scene-space x translation applied for eye e.
// Shifting the scene by +sep/2 is equivalent to moving the left eye by -sep/2.
func (p StereoParams) EyeOffset(e Eye) float32 {
	if e == LeftEye {
		return p.EyeSeparation / 2
	}
	return -p.EyeSeparation / 2
}

// halfWidths returns the narrow (b) and wide (c) half-widths of the
// convergence-plane window seen from each eye.
func (p StereoParams) halfWidths() (b, c float32) {
	a := p.AspectRatio * math32.Tan(p.FOV/2) * p.Convergence
	return a - p.EyeSeparation/2, a + p.EyeSeparation/2
}

func (p StereoParams) frustum(left, right float32) math.Frustum {
	top := p.Near * math32.Tan(p.FOV/2)
	return math.Frustum{
		Left:   left,
		Right:  right,
		Bottom: -top,
		Top:    top,
		Near:   p.Near,
		Far:    p.Far,
	}
}
