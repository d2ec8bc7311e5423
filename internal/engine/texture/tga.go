// Package texture decodes and generates the images sampled by the surface
// shader.
package texture

import (
	"errors"
	"fmt"
	"image"
	"image/color"
)

// TGA image types.
const (
	TGATypeUncompressed = 2  // Uncompressed true-color
	TGATypeRLE          = 10 // RLE compressed true-color
)

// Decoding errors.
var (
	ErrTruncated   = errors.New("image data truncated")
	ErrUnsupported = errors.New("unsupported image format")
)

const tgaHeaderSize = 18

// DecodeTGA decodes an uncompressed or RLE true-color TGA image with 24 or
// 32 bits per pixel.
func DecodeTGA(data []byte) (*image.RGBA, error) {
	if len(data) < tgaHeaderSize {
		return nil, fmt.Errorf("tga header: %w", ErrTruncated)
	}

	idLength := int(data[0])
	colorMapType := data[1]
	imageType := int(data[2])
	width := int(data[12]) | int(data[13])<<8
	height := int(data[14]) | int(data[15])<<8
	bpp := int(data[16])
	topToBottom := data[17]&0x20 != 0

	if colorMapType != 0 {
		return nil, fmt.Errorf("color-mapped tga: %w", ErrUnsupported)
	}
	if imageType != TGATypeUncompressed && imageType != TGATypeRLE {
		return nil, fmt.Errorf("tga type %d: %w", imageType, ErrUnsupported)
	}
	if bpp != 24 && bpp != 32 {
		return nil, fmt.Errorf("tga depth %d: %w", bpp, ErrUnsupported)
	}
	if width == 0 || height == 0 {
		return nil, fmt.Errorf("tga size %dx%d: %w", width, height, ErrUnsupported)
	}

	offset := tgaHeaderSize + idLength
	if offset > len(data) {
		return nil, fmt.Errorf("tga id field: %w", ErrTruncated)
	}

	d := tgaDecoder{
		img:         image.NewRGBA(image.Rect(0, 0, width, height)),
		src:         data[offset:],
		bytesPP:     bpp / 8,
		topToBottom: topToBottom,
	}

	var err error
	if imageType == TGATypeUncompressed {
		err = d.raw(width * height)
	} else {
		err = d.rle(width * height)
	}
	if err != nil {
		return nil, err
	}
	return d.img, nil
}

// tgaDecoder writes pixels in file order, flipping rows for bottom-up files.
type tgaDecoder struct {
	img         *image.RGBA
	src         []byte
	pos         int
	bytesPP     int
	topToBottom bool
	written     int
}

// next reads one BGR(A) pixel.
func (d *tgaDecoder) next() (color.RGBA, error) {
	if d.pos+d.bytesPP > len(d.src) {
		return color.RGBA{}, fmt.Errorf("tga pixel %d: %w", d.written, ErrTruncated)
	}
	p := d.src[d.pos : d.pos+d.bytesPP]
	d.pos += d.bytesPP

	c := color.RGBA{R: p[2], G: p[1], B: p[0], A: 255}
	if d.bytesPP == 4 {
		c.A = p[3]
	}
	return c, nil
}

func (d *tgaDecoder) put(c color.RGBA) {
	b := d.img.Bounds()
	x := d.written % b.Dx()
	y := d.written / b.Dx()
	if !d.topToBottom {
		y = b.Dy() - 1 - y
	}
	d.img.SetRGBA(x, y, c)
	d.written++
}

func (d *tgaDecoder) raw(total int) error {
	for d.written < total {
		c, err := d.next()
		if err != nil {
			return err
		}
		d.put(c)
	}
	return nil
}

func (d *tgaDecoder) rle(total int) error {
	for d.written < total {
		if d.pos >= len(d.src) {
			return fmt.Errorf("tga packet at pixel %d: %w", d.written, ErrTruncated)
		}
		packet := d.src[d.pos]
		d.pos++
		count := min(int(packet&0x7f)+1, total-d.written)

		if packet&0x80 != 0 {
			// Run: one pixel repeated count times
			c, err := d.next()
			if err != nil {
				return err
			}
			for range count {
				d.put(c)
			}
			continue
		}

		for range count {
			c, err := d.next()
			if err != nil {
				return err
			}
			d.put(c)
		}
	}
	return nil
}
