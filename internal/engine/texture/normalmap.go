package texture

import (
	"image"
	"image/color"
	"math"
)

// EncodeNormal packs a unit tangent-space normal into RGB as n·0.5 + 0.5.
func EncodeNormal(n [3]float64) color.RGBA {
	ch := func(v float64) uint8 {
		return uint8(math.Round(math.Max(0, math.Min(1, v*0.5+0.5)) * 255))
	}
	return color.RGBA{R: ch(n[0]), G: ch(n[1]), B: ch(n[2]), A: 255}
}

// DecodeNormal unpacks a normal map texel. The result is not renormalized.
func DecodeNormal(c color.RGBA) [3]float64 {
	f := func(v uint8) float64 { return float64(v)/255*2 - 1 }
	return [3]float64{f(c.R), f(c.G), f(c.B)}
}

// Ripples generates a tileable size×size normal map of an egg-crate height
// field h = sin(2π·cells·s)·sin(2π·cells·t) / (2π·cells) scaled so its
// steepest slope equals slope. Red follows s and green follows t.
func Ripples(size, cells int, slope float64) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	k := 2 * math.Pi * float64(cells)

	for y := 0; y < size; y++ {
		t := (float64(y) + 0.5) / float64(size)
		for x := 0; x < size; x++ {
			s := (float64(x) + 0.5) / float64(size)

			dhds := slope * math.Cos(k*s) * math.Sin(k*t)
			dhdt := slope * math.Sin(k*s) * math.Cos(k*t)

			n := [3]float64{-dhds, -dhdt, 1}
			l := math.Sqrt(n[0]*n[0] + n[1]*n[1] + n[2]*n[2])
			img.SetRGBA(x, y, EncodeNormal([3]float64{n[0] / l, n[1] / l, n[2] / l}))
		}
	}
	return img
}
