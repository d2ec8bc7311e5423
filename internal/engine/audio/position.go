package audio

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/kiss-anaglyph/internal/engine/orientation"
	"github.com/Faultbox/kiss-anaglyph/pkg/math"
)

// SourceRadius is the distance of the sound source from the listener.
const SourceRadius float32 = 8

// SourcePosition places the sound source on a sphere of the given radius
// around the listener. Alpha is wrapped to one turn; Beta is clamped to
// [-π/2, π/2]. Gamma does not affect the position.
func SourcePosition(a orientation.Angles, radius float32) math.Vec3 {
	alpha := math32.Mod(a.Alpha, 2*math32.Pi)
	beta := a.Clamped().Beta

	return math.Vec3{
		X: radius * math32.Sin(alpha) * math32.Cos(beta),
		Y: radius * math32.Sin(beta),
		Z: radius * math32.Cos(alpha) * math32.Cos(beta),
	}
}

// DistanceModel attenuates a source with the inverse distance law.
type DistanceModel struct {
	RefDistance float64 // Distance at which gain is 1
	MaxDistance float64 // Beyond this the gain stops falling
	Rolloff     float64
}

// DefaultDistanceModel returns the attenuation used for the sound source.
func DefaultDistanceModel() DistanceModel {
	return DistanceModel{RefDistance: 1, MaxDistance: 20, Rolloff: 1.5}
}

// Gain returns the attenuation factor in (0, 1] for a source at distance d.
func (m DistanceModel) Gain(d float64) float64 {
	if m.RefDistance <= 0 {
		return 1
	}
	d = clamp(d, m.RefDistance, max(m.MaxDistance, m.RefDistance))
	return m.RefDistance / (m.RefDistance + m.Rolloff*(d-m.RefDistance))
}

// Pan returns the stereo balance in [-1, 1] for a source at p, with the
// listener at the origin facing -Z and +X to the right.
func Pan(p math.Vec3) float64 {
	l := p.Length()
	if l < math.Epsilon {
		return 0
	}
	return clamp(float64(p.X/l), -1, 1)
}
