// Package frame composes the per-eye matrices and pass state of one stereo frame.
package frame

import (
	"github.com/Faultbox/kiss-anaglyph/internal/engine/camera"
	"github.com/Faultbox/kiss-anaglyph/internal/surface"
	"github.com/Faultbox/kiss-anaglyph/pkg/math"
)

// Scene placement shared by both eyes.
const (
	ViewDistance float32 = 10  // Surface distance in front of the viewer
	TiltAngle    float32 = 0.7 // Fixed presentation tilt, radians
)

// TiltAxis is the axis of the fixed presentation tilt.
var TiltAxis = math.Vec3{X: 0.707, Y: 0.707, Z: 0}

// ColorMask selects which color channels a pass may write.
type ColorMask struct {
	R, G, B, A bool
}

// Red-cyan anaglyph channel masks.
var (
	LeftMask  = ColorMask{R: true, A: true}
	RightMask = ColorMask{G: true, B: true, A: true}
)

// EyePass holds everything the backend needs to draw one eye.
type EyePass struct {
	Eye        camera.Eye
	ModelView  math.Mat4
	Projection math.Mat4
	ColorMask  ColorMask
	ClearDepth bool // Clear the depth buffer (only) before this pass

	// MarkerModelView positions the sound source marker; used when Frame.Marker is set.
	MarkerModelView math.Mat4
}

// Frame is an ordered pair of passes: Eyes[0] is left, Eyes[1] is right.
type Frame struct {
	Eyes   [2]EyePass
	Marker bool
}

// Backend draws frames. Implementations own all GPU state.
type Backend interface {
	UploadMesh(m *surface.Mesh) error
	UploadMarker(m *surface.Mesh) error
	DrawFrame(f Frame)
}

// Compose builds the stereo pair for the given camera and orientation.
func Compose(p camera.StereoParams, orient math.Mat4) Frame {
	return Frame{
		Eyes: [2]EyePass{
			composeEye(p, camera.LeftEye, orient, LeftMask, false),
			composeEye(p, camera.RightEye, orient, RightMask, true),
		},
	}
}

// ModelView returns the model-view matrix for a given scene-space eye offset.
func ModelView(eyeOffset float32, orient math.Mat4) math.Mat4 {
	return math.Chain(
		math.Translate(0, 0, -ViewDistance),
		math.Translate(eyeOffset, 0, 0),
		math.RotateAxis(TiltAxis, TiltAngle),
		orient,
	)
}

// WithMarker returns f with the marker placed at pos in each eye.
// The marker shares the presentation tilt but not the surface orientation.
func (f Frame) WithMarker(p camera.StereoParams, pos math.Vec3) Frame {
	place := math.Translate(pos.X, pos.Y, pos.Z)
	for i := range f.Eyes {
		f.Eyes[i].MarkerModelView = ModelView(p.EyeOffset(f.Eyes[i].Eye), place)
	}
	f.Marker = true
	return f
}

func composeEye(p camera.StereoParams, eye camera.Eye, orient math.Mat4, mask ColorMask, clearDepth bool) EyePass {
	return EyePass{
		Eye:        eye,
		ModelView:  ModelView(p.EyeOffset(eye), orient),
		Projection: p.Frustum(eye).Matrix(),
		ColorMask:  mask,
		ClearDepth: clearDepth,
	}
}
