// Package level assembles and writes every asset file of a generated level:
// terrain geometry, level config, object list, mission script, patrol routes,
// area and text records, and the minimap.
package level

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/hwforge/mapgen/internal/construction"
	"github.com/hwforge/mapgen/internal/garrison"
	"github.com/hwforge/mapgen/internal/minimap"
	"github.com/hwforge/mapgen/internal/noise"
	"github.com/hwforge/mapgen/internal/terrain"
	"github.com/hwforge/mapgen/internal/zone"
	"github.com/hwforge/mapgen/pkg/formats"
)

// ErrAssetWrite marks a failure while writing level files to the install
// directory. Registration is rolled back when it surfaces.
var ErrAssetWrite = errors.New("level asset write failed")

// rallyScaler converts grid coordinates to the engine's rally point units.
const rallyScaler = 51.7

// Params carries everything the serializer needs for one level.
type Params struct {
	Name       string
	InstallDir string
	Layout     *zone.Layout
	Field      *terrain.Field
	Garrisons  []*garrison.Garrison
	Extras     *garrison.Extras
	Set        *construction.Set
	Catalogs   construction.Catalogs
	Energy     int
	Shells     int
}

// Assets is the full set of encoded level files, built in memory first so a
// failed build never leaves partial files on disk.
type Assets struct {
	LEV     *formats.LEV
	CFG     *formats.CFG
	OB3     *formats.OB3
	ARS     *formats.ARS
	PAT     *formats.PAT
	AIL     *formats.AIL
	AIT     *formats.AIT
	Minimap []byte
}

// Build assembles all asset files for the level.
func Build(p Params, gen *noise.Generator, log *zap.Logger) (*Assets, error) {
	a := &Assets{
		CFG: &formats.CFG{},
		OB3: formats.NewOB3(),
		PAT: formats.NewPAT(),
		AIL: formats.NewAIL(),
		AIT: formats.NewAIT(),
	}

	a.LEV = buildLEV(p.Field, gen.Sub("lev"))
	buildCFG(a.CFG, p)
	flyerIDs := buildObjects(a.OB3, p)
	if p.Extras != nil && len(p.Extras.PatrolPoints) > 0 {
		a.PAT.AddRoute(patrolRouteName, patrolGridPoints(p.Extras, p.Field))
	}

	ars, err := buildScript(p, flyerIDs, a.AIL, a.AIT, gen.Sub("script"), log)
	if err != nil {
		return nil, err
	}
	a.ARS = ars
	a.Minimap = formats.EncodeTGA(minimap.Render(p.Field))

	log.Info("level assets built",
		zap.String("level", p.Name),
		zap.Int("objects", len(a.OB3.Objects)),
		zap.Int("triggers", len(a.ARS.Records)))
	return a, nil
}

// Write stores the assets under <install>/<Name>/ plus the text records under
// <install>/Text/English/. Any failure surfaces ErrAssetWrite.
func (a *Assets) Write(p Params) error {
	dir := filepath.Join(p.InstallDir, p.Name)
	textDir := filepath.Join(p.InstallDir, "Text", "English")
	for _, d := range []string{dir, textDir} {
		if err := os.MkdirAll(d, 0o755); err != nil {
			return fmt.Errorf("%w: %v", ErrAssetWrite, err)
		}
	}

	files := []struct {
		path string
		data []byte
	}{
		{filepath.Join(dir, p.Name+".lev"), a.LEV.Encode()},
		{filepath.Join(dir, p.Name+".cfg"), a.CFG.Encode()},
		{filepath.Join(dir, p.Name+".ob3"), a.OB3.Encode()},
		{filepath.Join(dir, p.Name+".ars"), a.ARS.Encode()},
		{filepath.Join(dir, p.Name+".pat"), a.PAT.Encode()},
		{filepath.Join(dir, p.Name+".ail"), a.AIL.Encode()},
		{filepath.Join(dir, "map.tga"), a.Minimap},
		{filepath.Join(textDir, p.Name+".ait"), a.AIT.Encode()},
	}
	for _, f := range files {
		if err := os.WriteFile(f.path, f.data, 0o644); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrAssetWrite, filepath.Base(f.path), err)
		}
	}
	return nil
}

// buildLEV fills the terrain geometry from the synthesized field. Texture
// direction is randomized per cell so tiling seams do not line up.
func buildLEV(field *terrain.Field, gen *noise.Generator) *formats.LEV {
	lev := formats.NewLEV(field.Width, field.Length)
	lowest, highest := float32(0), float32(0)
	for x := 0; x < field.Width; x++ {
		for z := 0; z < field.Length; z++ {
			h := float32(field.Height(x, z))
			pt := lev.Point(x, z)
			pt.Height = h
			pt.Flags = formats.TerrainPointFlagDraw
			pt.Mat = field.Texture(x, z)
			pt.TextureDir = uint8(gen.IntN(4))
			if h < lowest {
				lowest = h
			}
			if h > highest {
				highest = h
			}
		}
	}
	lev.Header.LowestPoint = lowest
	lev.Header.HighestPoint = highest
	return lev
}

func buildCFG(cfg *formats.CFG, p Params) {
	cfg.Set("LevelCash", fmt.Sprintf("%d", p.Energy))

	rally := rallyPoint(p)
	y := p.Field.Height(int(rally.X), int(rally.Z))
	cfg.Set("RallyPoint", fmt.Sprintf("%.6f,%.6f,%.6f",
		rally.Z*10*rallyScaler, y, rally.X*10*rallyScaler))

	cfg.Set("Land Textures", landTextureTable...)
	cfg.Set("OverheadMap", "map.tga")
}

// rallyPoint is the scrap area closest to the carrier, the spot a player
// heads for first.
func rallyPoint(p Params) struct{ X, Z float64 } {
	carrier := p.Layout.Carrier()
	var best *zone.Zone
	bestDist := 0.0
	for _, z := range p.Layout.Scrap() {
		d := z.Center.Distance(carrier.Center)
		if best == nil || d < bestDist {
			best, bestDist = z, d
		}
	}
	if best == nil {
		best = carrier
	}
	return struct{ X, Z float64 }{best.Center.X, best.Center.Z}
}

// landTextureTable maps texture indices to engine texture names, in index
// order matching the terrain package constants.
var landTextureTable = []string{
	"seabed01",
	"sand01",
	"grass01",
	"rock01",
	"alienfloor01",
	"scrapfloor01",
}

// buildObjects writes the object list: carrier first, then the map revealer,
// garrisons and finally the patrol flyers. Returns the flyers' object IDs for
// route assignment.
func buildObjects(ob3 *formats.OB3, p Params) []int {
	carrier := p.Layout.Carrier()
	y := p.Field.Height(int(carrier.Center.X), int(carrier.Center.Z))
	ob3.Add("Carrier", "", carrier.Center.X, y, carrier.Center.Z, 0, 0)

	rally := rallyPoint(p)
	ob3.Add("MapRevealer1", "", rally.X, 0, rally.Z, 0, 0)

	for _, g := range p.Garrisons {
		team := uint32(0)
		if g.Zone.Team != zone.Neutral {
			team = uint32(g.Zone.Team)
		}
		for _, u := range g.Units {
			uy := p.Field.Height(clampGrid(u.Pos.X, p.Field.Width), clampGrid(u.Pos.Z, p.Field.Length)) + u.YOffset
			ob3.Add(u.Type, "", u.Pos.X, uy, u.Pos.Z, team, u.Rotation)
		}
	}

	var flyerIDs []int
	if p.Extras != nil {
		for _, f := range p.Extras.Flyers {
			fy := p.Field.Height(clampGrid(f.Pos.X, p.Field.Width), clampGrid(f.Pos.Z, p.Field.Length)) + f.YOffset
			id := ob3.Add(f.Type, "", f.Pos.X, fy, f.Pos.Z, flyerTeam, f.Rotation)
			flyerIDs = append(flyerIDs, id)
		}
	}
	return flyerIDs
}

// flyerTeam is the roaming hostile team the engine reserves for unaligned
// patrol units.
const flyerTeam = 7

func clampGrid(v float64, max int) int {
	i := int(v)
	if i < 0 {
		return 0
	}
	if i >= max {
		return max - 1
	}
	return i
}

func patrolGridPoints(e *garrison.Extras, field *terrain.Field) [][3]float64 {
	pts := make([][3]float64, 0, len(e.PatrolPoints))
	for _, p := range e.PatrolPoints {
		y := field.Height(clampGrid(p.X, field.Width), clampGrid(p.Z, field.Length)) + 15
		pts = append(pts, [3]float64{p.X, y, p.Z})
	}
	return pts
}
