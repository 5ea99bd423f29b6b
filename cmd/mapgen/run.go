package main

import (
	"fmt"

	"github.com/hwforge/mapgen/internal/config"
	"github.com/hwforge/mapgen/internal/construction"
	"github.com/hwforge/mapgen/internal/generate"
	"github.com/hwforge/mapgen/internal/logger"
	"github.com/hwforge/mapgen/internal/regen"
)

type options struct {
	configPath string
	overrides  config.Overrides
}

// setup loads the config and wires the generation log file next to the level
// assets.
func setup(opts options) (*config.Config, error) {
	cfg, err := config.Load(opts.configPath, opts.overrides)
	if err != nil {
		return nil, err
	}
	logPath := logger.LevelLogPath(cfg.Install.Dir, cfg.Install.LevelName)
	if cfg.Logging.LogFile != "" {
		logPath = cfg.Logging.LogFile
	}
	if err := logger.Init(cfg.Logging.Level, logPath); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runGenerate(opts options) error {
	cfg, err := setup(opts)
	if err != nil {
		return err
	}
	defer logger.Sync()

	res, err := generate.Run(cfg, logger.Log)
	if err != nil {
		return err
	}
	fmt.Printf("generated %q (seed %d, %d zones, %d objects placed)\n",
		cfg.Install.LevelName, res.Seed, len(res.Layout.Zones), objectCount(res))
	return nil
}

func runRegen(opts options, docPath string) error {
	cfg, err := setup(opts)
	if err != nil {
		return err
	}
	defer logger.Sync()

	// Only flags the user actually passed override the recorded document.
	ov := generate.RegenOverrides{
		Teams:      opts.overrides.Teams,
		BaseCount:  opts.overrides.BaseCount,
		ScrapCount: opts.overrides.ScrapCount,
		PumpCount:  opts.overrides.PumpCount,
	}
	res, err := generate.Regenerate(cfg, docPath, ov, logger.Log)
	if err != nil {
		return err
	}
	fmt.Printf("regenerated %q (seed %d, %d zones)\n",
		cfg.Install.LevelName, res.Seed, len(res.Layout.Zones))
	return nil
}

func runValidate(docPath string) error {
	if err := construction.Validate(construction.DefaultCatalogs()); err != nil {
		return err
	}
	doc, err := regen.Load(docPath)
	if err != nil {
		return err
	}
	fmt.Printf("ok: run %s, seed %d, %d zones\n", doc.RunID, doc.Seed, len(doc.Zones))
	return nil
}

func objectCount(res *generate.Result) int {
	n := 0
	for _, g := range res.Garrisons {
		n += len(g.Units)
	}
	if res.Extras != nil {
		n += len(res.Extras.Flyers)
	}
	return n
}
