package app

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/kiss-anaglyph/internal/config"
	"github.com/Faultbox/kiss-anaglyph/internal/engine/audio"
	"github.com/Faultbox/kiss-anaglyph/internal/engine/renderer"
	"github.com/Faultbox/kiss-anaglyph/internal/engine/texture"
)

// shadingFromConfig converts the shading section and loads its normal map.
// On a load error the returned settings use the built-in map.
func shadingFromConfig(sc config.ShadingConfig) (renderer.Shading, error) {
	sh := renderer.Shading{
		NormalMapping: sc.NormalMap,
		Specular:      sc.Specular,
		Texture: renderer.TextureTransform{
			Point: sc.TexturePoint,
			Angle: sc.TextureAngle * math32.Pi / 180,
			Tiles: sc.TextureTiles,
		},
	}
	if sc.NormalMapFile == "" {
		return sh, nil
	}
	img, err := texture.Load(sc.NormalMapFile)
	if err != nil {
		return sh, err
	}
	sh.NormalMap = img
	return sh, nil
}

func filterFromConfig(ac config.AudioConfig) audio.Filter {
	return audio.Filter{
		Enabled:   ac.FilterEnabled,
		Frequency: ac.FilterHz,
		Q:         ac.FilterQ,
		Gain:      ac.FilterGain,
	}
}

// withFilter returns dst with the filter keys of src.
func withFilter(dst, src config.AudioConfig) config.AudioConfig {
	dst.FilterEnabled = src.FilterEnabled
	dst.FilterHz = src.FilterHz
	dst.FilterQ = src.FilterQ
	dst.FilterGain = src.FilterGain
	return dst
}
