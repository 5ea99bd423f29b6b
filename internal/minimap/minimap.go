// Package minimap renders the in-game level overview image from the
// synthesized terrain.
package minimap

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"

	"github.com/hwforge/mapgen/internal/terrain"
)

// Size is the edge length in pixels the engine expects for level minimaps.
const Size = 128

// Base colors per texture index, shaded by height before downsampling.
var textureColors = [...]color.NRGBA{
	terrain.TextureSeabed: {R: 14, G: 38, B: 64, A: 255},
	terrain.TextureSand:   {R: 194, G: 178, B: 128, A: 255},
	terrain.TextureGrass:  {R: 62, G: 110, B: 58, A: 255},
	terrain.TextureRock:   {R: 112, G: 108, B: 100, A: 255},
	terrain.TextureBase:   {R: 96, G: 78, B: 70, A: 255},
	terrain.TextureScrap:  {R: 130, G: 96, B: 60, A: 255},
}

var waterColor = color.NRGBA{R: 20, G: 60, B: 110, A: 255}

// Render draws the field at full grid resolution and scales it down to the
// engine's minimap size.
func Render(field *terrain.Field) image.Image {
	full := image.NewNRGBA(image.Rect(0, 0, field.Width, field.Length))
	for x := 0; x < field.Width; x++ {
		for z := 0; z < field.Length; z++ {
			full.SetNRGBA(x, z, cellColor(field, x, z))
		}
	}
	small := image.NewNRGBA(image.Rect(0, 0, Size, Size))
	draw.ApproxBiLinear.Scale(small, small.Bounds(), full, full.Bounds(), draw.Src, nil)
	return small
}

func cellColor(field *terrain.Field, x, z int) color.NRGBA {
	if field.IsWater(x, z) {
		return waterColor
	}
	tex := field.Texture(x, z)
	c := textureColors[terrain.TextureSeabed]
	if int(tex) < len(textureColors) {
		c = textureColors[tex]
	}
	// Shade by height so slopes read at a glance.
	shade := 0.75 + 0.25*clamp(field.Height(x, z)/2200, 0, 1)
	return color.NRGBA{
		R: uint8(float64(c.R) * shade),
		G: uint8(float64(c.G) * shade),
		B: uint8(float64(c.B) * shade),
		A: 255,
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
