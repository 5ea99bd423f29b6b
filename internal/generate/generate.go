// Package generate runs the full level generation pipeline: zone placement,
// terrain synthesis, construction selection, garrison population, team
// balancing and asset serialization.
package generate

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hwforge/mapgen/internal/config"
	"github.com/hwforge/mapgen/internal/construction"
	"github.com/hwforge/mapgen/internal/garrison"
	"github.com/hwforge/mapgen/internal/level"
	"github.com/hwforge/mapgen/internal/noise"
	"github.com/hwforge/mapgen/internal/regen"
	"github.com/hwforge/mapgen/internal/terrain"
	"github.com/hwforge/mapgen/internal/zone"
	"github.com/hwforge/mapgen/pkg/geom"
)

// Result holds everything a finished run produced, kept for inspection and
// tests.
type Result struct {
	RunID     string
	Seed      int64
	Layout    *zone.Layout
	Field     *terrain.Field
	Set       *construction.Set
	Garrisons []*garrison.Garrison
	Extras    *garrison.Extras
	Energy    int
	Teams     map[zone.TeamID]int
	Doc       *regen.Document
}

// mapBounds is the placement plane of the single supported map template.
func mapBounds() geom.Rect {
	return geom.Rect{
		Min: geom.Vec2{X: 0, Z: 0},
		Max: geom.Vec2{X: terrain.GridWidth - 1, Z: terrain.GridLength - 1},
	}
}

// RegenOverrides carries the values a caller explicitly changed for a
// regeneration. Zero values mean "keep what the run document recorded".
type RegenOverrides struct {
	Teams      int
	BaseCount  int
	ScrapCount int
	PumpCount  int
}

// Run executes a fresh generation and writes the level into the install
// directory.
func Run(cfg *config.Config, log *zap.Logger) (*Result, error) {
	seed := cfg.Generation.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	req := zone.Request{
		BaseCount:  cfg.Generation.BaseCount,
		ScrapCount: cfg.Generation.ScrapCount,
		PumpCount:  cfg.Generation.PumpCount,
	}
	res, err := build(cfg, seed, req, clampTeams(cfg.Generation.Teams), nil, log)
	if err != nil {
		return nil, err
	}
	if err := write(cfg, res, log); err != nil {
		return nil, err
	}
	return res, nil
}

// Regenerate replays a previous run from its sidecar document. Zone counts
// and teams come from the document unless the caller overrode them; only an
// actual count change makes zone placement re-run, otherwise the stored
// layout is used verbatim.
func Regenerate(cfg *config.Config, docPath string, ov RegenOverrides, log *zap.Logger) (*Result, error) {
	doc, err := regen.Load(docPath)
	if err != nil {
		return nil, err
	}
	req := zone.Request{
		BaseCount:  doc.BaseCount,
		ScrapCount: doc.ScrapCount,
		PumpCount:  doc.PumpCount,
	}
	if ov.BaseCount > 0 {
		req.BaseCount = ov.BaseCount
	}
	if ov.ScrapCount > 0 {
		req.ScrapCount = ov.ScrapCount
	}
	if ov.PumpCount > 0 {
		req.PumpCount = ov.PumpCount
	}
	teams := doc.Teams
	if ov.Teams > 0 {
		teams = ov.Teams
	}
	res, err := build(cfg, doc.Seed, req, clampTeams(teams), doc, log)
	if err != nil {
		return nil, err
	}
	if err := write(cfg, res, log); err != nil {
		return nil, err
	}
	return res, nil
}

// build runs every in-memory stage. Each stage draws from its own named
// random stream, so skipping a stage during regeneration cannot shift the
// draws of the others.
func build(cfg *config.Config, seed int64, req zone.Request, teams int, doc *regen.Document, log *zap.Logger) (*Result, error) {
	catalogs := construction.DefaultCatalogs()
	if err := construction.Validate(catalogs); err != nil {
		return nil, err
	}

	gen := noise.New(seed)
	log.Info("generation started", zap.Int64("seed", seed), zap.Int("teams", teams))

	land := terrain.BuildLandField(gen.Sub("land"))

	layout, err := resolveLayout(req, doc, land, gen, log)
	if err != nil {
		return nil, err
	}

	field := terrain.Synthesize(land, layout, log)

	var set *construction.Set
	var energy int
	if doc != nil {
		set = doc.ConstructionSet()
		energy = doc.StartingEnergy
	} else {
		inc := construction.Includes(cfg.Include)
		set, err = construction.Select(catalogs, inc, gen.Sub("construction"), log)
		if err != nil {
			return nil, err
		}
		energy = construction.StartingEnergy(gen.Sub("energy"))
	}

	garrisons := garrison.Populate(layout, gen.Sub("garrison"), log)
	totals := garrison.Balance(garrisons, teams, log)
	extras := garrison.GenerateExtras(layout, gen.Sub("extras"), log)

	runID := uuid.NewString()
	if doc != nil {
		runID = doc.RunID
	}

	res := &Result{
		RunID:     runID,
		Seed:      seed,
		Layout:    layout,
		Field:     field,
		Set:       set,
		Garrisons: garrisons,
		Extras:    extras,
		Energy:    energy,
		Teams:     totals,
	}
	res.Doc = regen.New(runID, cfg.Install.LevelName, seed, teams, energy, layout, set)
	return res, nil
}

// resolveLayout picks between fresh placement and a layout pinned by a
// regeneration document.
func resolveLayout(req zone.Request, doc *regen.Document, land *noise.Field, gen *noise.Generator, log *zap.Logger) (*zone.Layout, error) {
	if doc != nil && !doc.CountsChanged(req) {
		log.Info("reusing recorded zone layout", zap.Int("zones", len(doc.Zones)))
		return doc.Layout(mapBounds())
	}
	if doc != nil {
		log.Info("zone counts changed, re-placing zones")
	}
	engine := zone.NewEngine(mapBounds(), land, gen.Sub("zones"), log)
	return engine.Generate(req)
}

// write serializes the level into the install directory. Registration happens
// first and is rolled back if any asset fails to land on disk.
func write(cfg *config.Config, res *Result, log *zap.Logger) error {
	gen := noise.New(res.Seed)
	params := level.Params{
		Name:       cfg.Install.LevelName,
		InstallDir: cfg.Install.Dir,
		Layout:     res.Layout,
		Field:      res.Field,
		Garrisons:  res.Garrisons,
		Extras:     res.Extras,
		Set:        res.Set,
		Catalogs:   construction.DefaultCatalogs(),
		Energy:     res.Energy,
		Shells:     gen.Sub("shells").IntRange(1, 5),
	}
	assets, err := level.Build(params, gen, log)
	if err != nil {
		return err
	}

	if err := level.Register(cfg.Install.Dir, cfg.Install.LevelName); err != nil {
		return err
	}
	if err := assets.Write(params); err != nil {
		if rbErr := level.Unregister(cfg.Install.Dir, cfg.Install.LevelName); rbErr != nil {
			log.Error("registration rollback failed", zap.Error(rbErr))
		}
		return err
	}

	docPath := filepath.Join(cfg.Install.Dir, cfg.Install.LevelName,
		cfg.Install.LevelName+".mapgen.yaml")
	if err := res.Doc.Save(docPath); err != nil {
		if rbErr := level.Unregister(cfg.Install.Dir, cfg.Install.LevelName); rbErr != nil {
			log.Error("registration rollback failed", zap.Error(rbErr))
		}
		return fmt.Errorf("%w: %v", level.ErrAssetWrite, err)
	}

	log.Info("level written",
		zap.String("level", cfg.Install.LevelName),
		zap.String("dir", filepath.Join(cfg.Install.Dir, cfg.Install.LevelName)))
	return nil
}

func clampTeams(n int) int {
	if n < 2 {
		return 2
	}
	if n > 4 {
		return 4
	}
	return n
}
