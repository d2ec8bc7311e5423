package app

import (
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/chewxy/math32"

	"github.com/Faultbox/kiss-anaglyph/internal/config"
	"github.com/Faultbox/kiss-anaglyph/internal/engine/audio"
	"github.com/Faultbox/kiss-anaglyph/internal/engine/texture"
)

func TestShadingFromConfig(t *testing.T) {
	sc := config.Default().Shading
	sc.NormalMap = true
	sc.TextureAngle = 90

	sh, err := shadingFromConfig(sc)
	if err != nil {
		t.Fatalf("shadingFromConfig: %v", err)
	}
	if !sh.NormalMapping || sh.NormalMap != nil {
		t.Errorf("shading = %+v, want mapping on with the built-in map", sh)
	}
	if math32.Abs(sh.Texture.Angle-math32.Pi/2) > 1e-6 {
		t.Errorf("angle = %v rad, want π/2", sh.Texture.Angle)
	}
	if sh.Texture.Tiles != sc.TextureTiles || sh.Texture.Point != sc.TexturePoint {
		t.Errorf("texture = %+v", sh.Texture)
	}
}

func TestShadingFromConfigLoadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bumps.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := png.Encode(f, texture.Ripples(16, 2, 0.5)); err != nil {
		t.Fatal(err)
	}
	f.Close()

	sc := config.Default().Shading
	sc.NormalMapFile = path
	sh, err := shadingFromConfig(sc)
	if err != nil {
		t.Fatalf("shadingFromConfig: %v", err)
	}
	if sh.NormalMap == nil || sh.NormalMap.Bounds().Dx() != 16 {
		t.Errorf("normal map not loaded: %v", sh.NormalMap)
	}

	sc.NormalMapFile = filepath.Join(t.TempDir(), "missing.tga")
	sh, err = shadingFromConfig(sc)
	if err == nil {
		t.Error("missing file should fail")
	}
	if sh.NormalMap != nil {
		t.Error("failed load should fall back to the built-in map")
	}
}

func TestFilterFromConfig(t *testing.T) {
	ac := config.Default().Audio
	f := filterFromConfig(ac)
	want := audio.Filter{Frequency: 1000, Q: 4, Gain: 15}
	if f != want {
		t.Errorf("filter = %+v, want %+v", f, want)
	}
	if err := f.Validate(audio.DefaultSampleRate); err != nil {
		t.Errorf("default filter invalid: %v", err)
	}
}

func TestWithFilter(t *testing.T) {
	dst := config.Default().Audio
	src := dst
	src.Volume = 0.1
	src.FilterEnabled = true
	src.FilterHz = 250
	src.FilterGain = -9

	got := withFilter(dst, src)
	if got.Volume != dst.Volume {
		t.Errorf("volume copied: %v", got.Volume)
	}
	if !got.FilterEnabled || got.FilterHz != 250 || got.FilterGain != -9 || got.FilterQ != dst.FilterQ {
		t.Errorf("filter keys = %+v", got)
	}
}
