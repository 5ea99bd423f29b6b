package config

// Overrides carries CLI flag values that take priority over the config file.
// Zero values mean "not set".
type Overrides struct {
	InstallDir string
	LevelName  string
	Seed       int64
	Teams      int
	BaseCount  int
	ScrapCount int
	PumpCount  int
	Debug      bool
}

// apply writes the set overrides into the config.
func (o Overrides) apply(cfg *Config) {
	if o.Debug {
		cfg.Logging.Level = "debug"
	}
	if o.InstallDir != "" {
		cfg.Install.Dir = o.InstallDir
	}
	if o.LevelName != "" {
		cfg.Install.LevelName = o.LevelName
	}
	if o.Seed != 0 {
		cfg.Generation.Seed = o.Seed
	}
	if o.Teams > 0 {
		cfg.Generation.Teams = o.Teams
	}
	if o.BaseCount > 0 {
		cfg.Generation.BaseCount = o.BaseCount
	}
	if o.ScrapCount > 0 {
		cfg.Generation.ScrapCount = o.ScrapCount
	}
	if o.PumpCount > 0 {
		cfg.Generation.PumpCount = o.PumpCount
	}
}
