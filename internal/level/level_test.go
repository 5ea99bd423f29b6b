package level

import (
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/hwforge/mapgen/internal/construction"
	"github.com/hwforge/mapgen/internal/garrison"
	"github.com/hwforge/mapgen/internal/noise"
	"github.com/hwforge/mapgen/internal/terrain"
	"github.com/hwforge/mapgen/internal/zone"
	"github.com/hwforge/mapgen/pkg/formats"
	"github.com/hwforge/mapgen/pkg/geom"
)

func testParams(t *testing.T) Params {
	t.Helper()
	layout := &zone.Layout{
		Bounds: geom.Rect{Min: geom.Vec2{}, Max: geom.Vec2{X: 255, Z: 255}},
		Zones: []*zone.Zone{
			{ID: 1, Kind: zone.CarrierSpawn, Size: zone.Small, Center: geom.Vec2{X: 40, Z: 40}, Team: zone.Neutral},
			{ID: 2, Kind: zone.EnemyBase, Size: zone.Small, Center: geom.Vec2{X: 160, Z: 160}, Team: 1},
			{ID: 3, Kind: zone.ScrapArea, Size: zone.Tiny, Center: geom.Vec2{X: 60, Z: 55}, Team: zone.Neutral, Special: zone.WeaponCrate},
		},
	}
	gen := noise.New(42)
	land := terrain.BuildLandField(gen.Sub("land"))
	field := terrain.Synthesize(land, layout, zap.NewNop())
	garrisons := garrison.Populate(layout, gen.Sub("garrison"), zap.NewNop())
	garrison.Balance(garrisons, 2, zap.NewNop())
	extras := garrison.GenerateExtras(layout, gen.Sub("extras"), zap.NewNop())

	catalogs := construction.DefaultCatalogs()
	set, err := construction.Select(catalogs, construction.Includes{}, gen.Sub("construction"), zap.NewNop())
	if err != nil {
		t.Fatalf("Select failed: %v", err)
	}

	return Params{
		Name:       "TestLevel",
		InstallDir: t.TempDir(),
		Layout:     layout,
		Field:      field,
		Garrisons:  garrisons,
		Extras:     extras,
		Set:        set,
		Catalogs:   catalogs,
		Energy:     5000,
		Shells:     2,
	}
}

func TestBuildAssets(t *testing.T) {
	p := testParams(t)
	assets, err := Build(p, noise.New(42), zap.NewNop())
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	// Terrain geometry covers the full grid and parses back.
	lev, err := formats.ParseLEV(assets.LEV.Encode())
	if err != nil {
		t.Fatalf("encoded LEV does not parse: %v", err)
	}
	if len(lev.TerrainPoints) != terrain.GridWidth*terrain.GridLength {
		t.Errorf("expected %d terrain points, got %d",
			terrain.GridWidth*terrain.GridLength, len(lev.TerrainPoints))
	}

	// The carrier is the first object.
	if len(assets.OB3.Objects) == 0 || assets.OB3.Objects[0].ObjectType != "Carrier" {
		t.Fatal("carrier missing from object list")
	}

	// Config carries cash and a rally point.
	cash, err := assets.CFG.Get("LevelCash")
	if err != nil || cash[0] != "5000" {
		t.Errorf("LevelCash mismatch: %v %v", cash, err)
	}
	if _, err := assets.CFG.Get("RallyPoint"); err != nil {
		t.Errorf("RallyPoint missing: %v", err)
	}

	// Every selected item became buildable.
	actions := assets.ARS.Actions(recordBuildSetup)
	wantItems := len(p.Set.Vehicles) + len(p.Set.Weapons) + len(p.Set.Addons) + len(p.Set.Companions)
	if len(actions) != wantItems {
		t.Errorf("expected %d build actions, got %d", wantItems, len(actions))
	}

	// Flyers got route assignments matching the patrol route.
	routeActions := assets.ARS.Actions(recordPatrol)
	if len(routeActions) != len(p.Extras.Flyers) {
		t.Errorf("expected %d route assignments, got %d", len(p.Extras.Flyers), len(routeActions))
	}
	if _, err := assets.PAT.Route(patrolRouteName); err != nil {
		t.Errorf("patrol route missing: %v", err)
	}

	// Carrier shells action carries the configured count.
	shells := assets.ARS.Actions(recordCarrierShells)
	if len(shells) != 1 || shells[0].Values[0] != "2" {
		t.Errorf("carrier shells action mismatch: %+v", shells)
	}

	// Weapon crate zone wired the area and text records.
	if len(assets.AIL.Areas) != 1 || assets.AIL.Areas[0].Name != "near_crate_zone" {
		t.Errorf("crate area missing: %+v", assets.AIL.Areas)
	}
	if len(assets.AIT.Records) == 0 {
		t.Error("crate text records missing")
	}

	// Minimap is a 128x128 24-bit TGA.
	if len(assets.Minimap) != 18+128*128*3 {
		t.Errorf("unexpected minimap size %d", len(assets.Minimap))
	}
}

func TestBuildDeterministic(t *testing.T) {
	p := testParams(t)
	a, err := Build(p, noise.New(42), zap.NewNop())
	if err != nil {
		t.Fatalf("first build failed: %v", err)
	}
	b, err := Build(p, noise.New(42), zap.NewNop())
	if err != nil {
		t.Fatalf("second build failed: %v", err)
	}

	if string(a.LEV.Encode()) != string(b.LEV.Encode()) {
		t.Error("LEV bytes differ between identical builds")
	}
	if string(a.ARS.Encode()) != string(b.ARS.Encode()) {
		t.Error("ARS bytes differ between identical builds")
	}
}

func TestBuildScriptParsesBaseSkeleton(t *testing.T) {
	ars, err := formats.ParseARS([]byte(baseScript))
	if err != nil {
		t.Fatalf("base script does not parse: %v", err)
	}
	for _, name := range []string{recordBuildSetup, recordPatrol, recordCarrierShells} {
		if _, err := ars.Record(name); err != nil {
			t.Errorf("base script missing record %q: %v", name, err)
		}
	}
	if !strings.HasPrefix(string(ars.Encode()), "AIRS\n") {
		t.Error("encoded script missing AIRS header")
	}
}
