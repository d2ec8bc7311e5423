package texture

import (
	"bytes"
	"errors"
	"image"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"testing"
)

func TestEncodeDecodeNormal(t *testing.T) {
	tests := [][3]float64{
		{0, 0, 1},
		{1, 0, 0},
		{0, -1, 0},
		{0.6, 0, 0.8},
	}
	for _, n := range tests {
		got := DecodeNormal(EncodeNormal(n))
		for i := range n {
			if math.Abs(got[i]-n[i]) > 1.0/127 {
				t.Errorf("round trip %v = %v", n, got)
				break
			}
		}
	}

	if c := EncodeNormal([3]float64{0, 0, 1}); c.R != 128 || c.G != 128 || c.B != 255 {
		t.Errorf("flat normal = %v, want (128, 128, 255)", c)
	}
}

func TestRipples(t *testing.T) {
	const size = 64
	img := Ripples(size, 2, 0.75)

	if b := img.Bounds(); b.Dx() != size || b.Dy() != size {
		t.Fatalf("bounds = %v", b)
	}

	var tilted bool
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			n := DecodeNormal(img.RGBAAt(x, y))
			if n[2] <= 0 {
				t.Fatalf("texel (%d,%d) faces away: %v", x, y, n)
			}
			if l := math.Sqrt(n[0]*n[0] + n[1]*n[1] + n[2]*n[2]); math.Abs(l-1) > 0.02 {
				t.Fatalf("texel (%d,%d) length %f", x, y, l)
			}
			if math.Abs(n[0]) > 0.3 {
				tilted = true
			}
		}
	}
	if !tilted {
		t.Error("ripple map is flat")
	}

	// The pattern repeats every size/cells texels, so the map tiles.
	const period = size / 2
	for y := 0; y < size; y++ {
		for x := 0; x < period; x++ {
			a, b := img.RGBAAt(x, y), img.RGBAAt(x+period, y)
			if absDiff(a.R, b.R) > 1 || absDiff(a.G, b.G) > 1 {
				t.Fatalf("texel (%d,%d) = %v, one period on = %v", x, y, a, b)
			}
		}
	}
}

func absDiff(a, b uint8) int {
	if a > b {
		return int(a - b)
	}
	return int(b - a)
}

func TestDecodeByName(t *testing.T) {
	src := Ripples(8, 1, 0.5)
	var buf bytes.Buffer
	if err := png.Encode(&buf, src); err != nil {
		t.Fatal(err)
	}

	img, err := Decode(buf.Bytes(), "normal.png")
	if err != nil {
		t.Fatalf("Decode png: %v", err)
	}
	if !bytes.Equal(img.Pix, src.Pix) {
		t.Error("png pixels differ")
	}

	tga := append(tgaHeader(TGATypeUncompressed, 1, 1, 24, true), 255, 128, 128)
	img, err = Decode(tga, "NORMAL.TGA")
	if err != nil {
		t.Fatalf("Decode tga: %v", err)
	}
	if c := img.RGBAAt(0, 0); c.R != 128 || c.B != 255 {
		t.Errorf("tga texel = %v", c)
	}

	if _, err := Decode([]byte("not an image"), "x.dat"); !errors.Is(err, ErrUnsupported) {
		t.Errorf("unknown format err = %v, want ErrUnsupported", err)
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "n.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := png.Encode(f, Ripples(4, 1, 0.5)); err != nil {
		t.Fatal(err)
	}
	f.Close()

	img, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if img.Bounds() != image.Rect(0, 0, 4, 4) {
		t.Errorf("bounds = %v", img.Bounds())
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.png")); err == nil {
		t.Error("Load of a missing file should fail")
	}
}

func TestToRGBAOffsetOrigin(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 4, 4))
	src.Pix[4*5] = 200 // (1,1) red
	sub := src.SubImage(image.Rect(1, 1, 3, 3))

	got := ToRGBA(sub)
	if got.Bounds() != image.Rect(0, 0, 2, 2) {
		t.Fatalf("bounds = %v", got.Bounds())
	}
	if got.RGBAAt(0, 0).R != 200 {
		t.Errorf("origin texel = %v", got.RGBAAt(0, 0))
	}
}
