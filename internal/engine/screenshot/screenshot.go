// Package screenshot saves rendered frames as PNG files.
package screenshot

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"time"
)

// ErrSizeMismatch is returned when the pixel buffer does not match the
// given dimensions.
var ErrSizeMismatch = errors.New("pixel data size mismatch")

// Capture writes timestamped PNG files into a directory.
type Capture struct {
	dir    string
	prefix string
	now    func() time.Time
}

// New creates a capture writing <dir>/<prefix>_<timestamp>.png.
// An empty dir means the working directory.
func New(dir, prefix string) *Capture {
	return &Capture{dir: dir, prefix: prefix, now: time.Now}
}

// SavePixels writes RGBA pixels read back from GL. Rows arrive bottom-up
// and are flipped so the file is upright. It returns the file path.
func (c *Capture) SavePixels(pixels []byte, width, height int) (string, error) {
	if width <= 0 || height <= 0 || len(pixels) != width*height*4 {
		return "", fmt.Errorf("%dx%d with %d bytes: %w", width, height, len(pixels), ErrSizeMismatch)
	}
	return c.Save(flipRows(pixels, width, height))
}

// Save writes img and returns the file path.
func (c *Capture) Save(img image.Image) (string, error) {
	if c.dir != "" {
		if err := os.MkdirAll(c.dir, 0o755); err != nil {
			return "", fmt.Errorf("creating output dir: %w", err)
		}
	}

	path := c.Filename()
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating file: %w", err)
	}

	if err := png.Encode(f, img); err != nil {
		f.Close()
		return "", fmt.Errorf("encoding PNG: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("closing %s: %w", path, err)
	}
	return path, nil
}

// Filename returns the path the next capture would be written to.
func (c *Capture) Filename() string {
	name := fmt.Sprintf("%s_%s.png", c.prefix, c.now().Format("2006-01-02_15-04-05.000"))
	if c.dir != "" {
		return filepath.Join(c.dir, name)
	}
	return name
}

func flipRows(pixels []byte, width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	row := width * 4
	for y := 0; y < height; y++ {
		src := (height - 1 - y) * row
		copy(img.Pix[y*img.Stride:y*img.Stride+row], pixels[src:src+row])
	}
	return img
}
