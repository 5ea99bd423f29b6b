// Package terrain derives the level heightfield and texture layout from a
// fixed zone layout. Terrain strictly follows the layout; there is no
// feedback into zone placement.
package terrain

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/hwforge/mapgen/internal/noise"
	"github.com/hwforge/mapgen/internal/zone"
	"github.com/hwforge/mapgen/pkg/geom"
)

// Grid dimensions of the single supported map template ("large", L22).
const (
	GridWidth  = 256
	GridLength = 256
)

// Height scaling, from calibration against stock levels: noise in [0,1] maps
// to [-1000, 2200] with everything below -100 clamped so the seabed stays
// still.
const (
	heightMin   = -1000
	heightMax   = 2200
	seabedClamp = -100
)

// smoothingRing is the width in cells of the blend band around each zone.
const smoothingRing = 6

// Texture indices into the level's land texture table.
const (
	TextureSeabed uint8 = 0
	TextureSand   uint8 = 1
	TextureGrass  uint8 = 2
	TextureRock   uint8 = 3
	TextureBase   uint8 = 4
	TextureScrap  uint8 = 5
)

// Field is the synthesized heightfield plus parallel texture grid. Owned by
// this package; consumers read it only.
type Field struct {
	Width, Length int
	heights       []float64
	textures      []uint8
}

// Height returns the height at (x, z) in engine units. Out-of-grid access is
// a logic defect and panics.
func (f *Field) Height(x, z int) float64 {
	return f.heights[f.index(x, z)]
}

// Texture returns the texture index at (x, z).
func (f *Field) Texture(x, z int) uint8 {
	return f.textures[f.index(x, z)]
}

func (f *Field) setHeight(x, z int, h float64) {
	f.heights[f.index(x, z)] = h
}

func (f *Field) setTexture(x, z int, t uint8) {
	f.textures[f.index(x, z)] = t
}

func (f *Field) index(x, z int) int {
	if x < 0 || z < 0 || x >= f.Width || z >= f.Length {
		panic(fmt.Sprintf("terrain access (%d,%d) outside %dx%d grid", x, z, f.Width, f.Length))
	}
	return x*f.Length + z
}

// IsWater reports whether the cell sits below sea level.
func (f *Field) IsWater(x, z int) bool {
	return f.Height(x, z) < 0
}

// BuildLandField generates the pre-scaling land proxy: fractal noise shaped
// by an island mask. The zone engine scores against the same field the
// heights are later derived from.
func BuildLandField(gen *noise.Generator) *noise.Field {
	base := gen.FractalMap(GridWidth, GridLength, 5, 0.3)
	island := gen.IslandMask(GridWidth, GridLength)
	out := noise.NewField(GridWidth, GridLength)
	for z := 0; z < GridLength; z++ {
		for x := 0; x < GridWidth; x++ {
			out.Set(x, z, base.At(x, z)*island.At(x, z))
		}
	}
	return out
}

// Synthesize derives the terrain for a zone layout. land must be the field
// the layout was placed against.
func Synthesize(land *noise.Field, layout *zone.Layout, log *zap.Logger) *Field {
	f := &Field{
		Width:    GridWidth,
		Length:   GridLength,
		heights:  make([]float64, GridWidth*GridLength),
		textures: make([]uint8, GridWidth*GridLength),
	}

	// Base profile: scaled noise with the underwater clamp.
	for z := 0; z < GridLength; z++ {
		for x := 0; x < GridWidth; x++ {
			h := heightMin + land.At(x, z)*(heightMax-heightMin)
			if h < seabedClamp {
				h = seabedClamp
			}
			f.setHeight(x, z, h)
		}
	}

	flattenZones(f, layout)
	paintTextures(f, layout)
	despeckle(f, layout)

	log.Info("terrain synthesized",
		zap.Int("width", f.Width), zap.Int("length", f.Length),
		zap.Int("zones", len(layout.Zones)))
	return f
}

// zoneProfileHeight is the flat interior height for a zone: the base terrain
// height at its center, raised to a kind-specific floor so interiors never
// flood.
func zoneProfileHeight(f *Field, z *zone.Zone) float64 {
	h := f.Height(int(z.Center.X), int(z.Center.Z))
	floor := 60.0
	switch z.Kind {
	case zone.EnemyBase:
		floor = 250
	case zone.PumpOutpost:
		floor = 120
	case zone.ScrapArea:
		floor = 100
	}
	if h < floor {
		return floor
	}
	return h
}

// flattenZones levels each zone interior and blends the surrounding ring so
// plateaus fade into the base terrain instead of cliffing.
func flattenZones(f *Field, layout *zone.Layout) {
	for _, zn := range layout.Zones {
		target := zoneProfileHeight(f, zn)
		shape := zn.Shape()
		lo, hi := shape.Bounds()
		x0, z0 := clampCell(int(lo.X)-smoothingRing), clampCell(int(lo.Z)-smoothingRing)
		x1, z1 := clampCell(int(hi.X)+smoothingRing), clampCell(int(hi.Z)+smoothingRing)
		for x := x0; x <= x1; x++ {
			for z := z0; z <= z1; z++ {
				d := shape.DistanceToBoundary(cellCenter(x, z))
				switch {
				case d <= 0:
					f.setHeight(x, z, target)
				case d < smoothingRing:
					t := d / smoothingRing
					f.setHeight(x, z, target*(1-t)+f.Height(x, z)*t)
				}
			}
		}
	}
}

// paintTextures assigns height-banded base textures, then kind-specific
// textures inside zones.
func paintTextures(f *Field, layout *zone.Layout) {
	for x := 0; x < f.Width; x++ {
		for z := 0; z < f.Length; z++ {
			h := f.Height(x, z)
			switch {
			case h < 0:
				f.setTexture(x, z, TextureSeabed)
			case h < 150:
				f.setTexture(x, z, TextureSand)
			case h < 700:
				f.setTexture(x, z, TextureGrass)
			default:
				f.setTexture(x, z, TextureRock)
			}
		}
	}
	for _, zn := range layout.Zones {
		tex := zoneTexture(zn.Kind)
		shape := zn.Shape()
		lo, hi := shape.Bounds()
		x0, z0 := clampCell(int(lo.X)), clampCell(int(lo.Z))
		x1, z1 := clampCell(int(hi.X)), clampCell(int(hi.Z))
		for x := x0; x <= x1; x++ {
			for z := z0; z <= z1; z++ {
				if shape.Occupies(cellCenter(x, z)) {
					f.setTexture(x, z, tex)
				}
			}
		}
	}
}

func zoneTexture(kind zone.Kind) uint8 {
	switch kind {
	case zone.EnemyBase, zone.PumpOutpost:
		return TextureBase
	case zone.ScrapArea:
		return TextureScrap
	default:
		return TextureSand
	}
}

// despeckle removes single-cell texture islands, except along zone
// boundaries where hard transitions are intentional.
func despeckle(f *Field, layout *zone.Layout) {
	for x := 1; x < f.Width-1; x++ {
		for z := 1; z < f.Length-1; z++ {
			if _, d := layout.NearestZone(cellCenter(x, z)); d > -1.5 && d < 1.5 {
				continue
			}
			own := f.Texture(x, z)
			counts := map[uint8]int{}
			isolated := true
			for _, n := range [][2]int{{x - 1, z}, {x + 1, z}, {x, z - 1}, {x, z + 1}} {
				t := f.Texture(n[0], n[1])
				counts[t]++
				if t == own {
					isolated = false
				}
			}
			if !isolated {
				continue
			}
			best, bestCount := own, 0
			for _, t := range []uint8{TextureSeabed, TextureSand, TextureGrass, TextureRock, TextureBase, TextureScrap} {
				if counts[t] > bestCount {
					best, bestCount = t, counts[t]
				}
			}
			f.setTexture(x, z, best)
		}
	}
}

func clampCell(v int) int {
	if v < 0 {
		return 0
	}
	if v > GridWidth-1 {
		return GridWidth - 1
	}
	return v
}

func cellCenter(x, z int) geom.Vec2 {
	return geom.Vec2{X: float64(x), Z: float64(z)}
}
