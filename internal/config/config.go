// Package config handles generator configuration loading and management.
package config

// Config holds all generator settings.
type Config struct {
	Install    InstallConfig    `yaml:"install"`
	Generation GenerationConfig `yaml:"generation"`
	Include    IncludeConfig    `yaml:"include"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// InstallConfig locates the game install the level is written into.
type InstallConfig struct {
	Dir       string `yaml:"dir"`
	LevelName string `yaml:"level_name"`
}

// GenerationConfig holds the knobs of a generation run. A zero seed means
// pick one from entropy.
type GenerationConfig struct {
	Seed       int64 `yaml:"seed"`
	Teams      int   `yaml:"teams"`
	BaseCount  int   `yaml:"base_count"`
	ScrapCount int   `yaml:"scrap_count"`
	PumpCount  int   `yaml:"pump_count"`
}

// IncludeConfig forces extra items into the construction selection.
type IncludeConfig struct {
	Vehicles   []string `yaml:"vehicles"`
	Weapons    []string `yaml:"weapons"`
	Addons     []string `yaml:"addons"`
	Companions []string `yaml:"companions"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Install: InstallConfig{
			Dir:       ".",
			LevelName: "Skirmish01",
		},
		Generation: GenerationConfig{
			Seed:       0,
			Teams:      2,
			BaseCount:  3,
			ScrapCount: 2,
			PumpCount:  1,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
