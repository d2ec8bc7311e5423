package renderer

import (
	"errors"
	"image"

	"github.com/chewxy/math32"
	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/kiss-anaglyph/internal/engine/texture"
)

// Built-in ripple map parameters.
const (
	rippleSize  = 256
	rippleCells = 4
	rippleSlope = 0.8
)

var errEmptyTexture = errors.New("texture has no pixels")

// Shading holds the surface lighting and texture settings.
type Shading struct {
	NormalMapping bool
	NormalMap     *image.RGBA // nil selects the built-in ripple map
	Specular      float32     // Highlight strength, 0 disables it
	Texture       TextureTransform
}

// TextureTransform rotates texture coordinates by Angle radians about
// Point, then scales them by Tiles.
type TextureTransform struct {
	Point [2]float32
	Angle float32
	Tiles [2]float32
}

// Rotation returns the rotation by Angle as a column-major 2x2 matrix.
func (t TextureTransform) Rotation() [4]float32 {
	s, c := math32.Sin(t.Angle), math32.Cos(t.Angle)
	return [4]float32{c, s, -s, c}
}

// DefaultNormalMap returns the built-in ripple normal map.
func DefaultNormalMap() *image.RGBA {
	return texture.Ripples(rippleSize, rippleCells, rippleSlope)
}

// uploadTexture creates a repeating mipmapped RGBA texture from img.
func uploadTexture(img *image.RGBA) (uint32, error) {
	b := img.Bounds()
	if b.Empty() || len(img.Pix) == 0 {
		return 0, errEmptyTexture
	}
	img = texture.ToRGBA(img)

	var id uint32
	gl.GenTextures(1, &id)
	gl.BindTexture(gl.TEXTURE_2D, id)

	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.PixelStorei(gl.UNPACK_ROW_LENGTH, int32(img.Stride/4))
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8,
		int32(b.Dx()), int32(b.Dy()),
		0, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(img.Pix))
	gl.PixelStorei(gl.UNPACK_ROW_LENGTH, 0)

	gl.GenerateMipmap(gl.TEXTURE_2D)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR_MIPMAP_LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.REPEAT)
	gl.BindTexture(gl.TEXTURE_2D, 0)

	return id, nil
}
