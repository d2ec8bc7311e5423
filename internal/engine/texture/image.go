package texture

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/draw"
	_ "image/jpeg" // JPEG decoder registration
	_ "image/png"  // PNG decoder registration
	"os"
	"path/filepath"
	"strings"

	_ "golang.org/x/image/bmp" // BMP decoder registration
)

// Decode decodes image data into RGBA. TGA is selected by the name's
// extension since it has no magic number; BMP, PNG and JPEG are sniffed.
func Decode(data []byte, name string) (*image.RGBA, error) {
	if strings.EqualFold(filepath.Ext(name), ".tga") {
		img, err := DecodeTGA(data)
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", name, err)
		}
		return img, nil
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		if errors.Is(err, image.ErrFormat) {
			err = ErrUnsupported
		}
		return nil, fmt.Errorf("decode %s: %w", name, err)
	}
	return ToRGBA(img), nil
}

// Load reads and decodes the image at path.
func Load(path string) (*image.RGBA, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read texture: %w", err)
	}
	return Decode(data, path)
}

// ToRGBA returns img as *image.RGBA with its origin at (0, 0), converting
// when needed.
func ToRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok && rgba.Bounds().Min == (image.Point{}) {
		return rgba
	}
	b := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	return rgba
}
