package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Install.Dir != "." {
		t.Errorf("expected install dir \".\", got %s", cfg.Install.Dir)
	}
	if cfg.Install.LevelName != "Skirmish01" {
		t.Errorf("expected level name Skirmish01, got %s", cfg.Install.LevelName)
	}
	if cfg.Generation.Seed != 0 {
		t.Errorf("expected zero seed, got %d", cfg.Generation.Seed)
	}
	if cfg.Generation.Teams != 2 {
		t.Errorf("expected 2 teams, got %d", cfg.Generation.Teams)
	}
	if cfg.Generation.BaseCount != 3 {
		t.Errorf("expected 3 bases, got %d", cfg.Generation.BaseCount)
	}
	if cfg.Generation.ScrapCount != 2 {
		t.Errorf("expected 2 scrap areas, got %d", cfg.Generation.ScrapCount)
	}
	if cfg.Generation.PumpCount != 1 {
		t.Errorf("expected 1 pump, got %d", cfg.Generation.PumpCount)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level info, got %s", cfg.Logging.Level)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load("", Overrides{})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Generation.Teams != 2 {
		t.Errorf("expected default teams, got %d", cfg.Generation.Teams)
	}
}

func TestLoadExplicitFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mapgen.yaml")
	content := `install:
  dir: /opt/hw
  level_name: Archipelago
generation:
  seed: 99
  base_count: 5
include:
  weapons:
    - Laser
logging:
  level: warn
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	cfg, err := Load(path, Overrides{})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Install.Dir != "/opt/hw" {
		t.Errorf("expected install dir /opt/hw, got %s", cfg.Install.Dir)
	}
	if cfg.Install.LevelName != "Archipelago" {
		t.Errorf("expected level name Archipelago, got %s", cfg.Install.LevelName)
	}
	if cfg.Generation.Seed != 99 {
		t.Errorf("expected seed 99, got %d", cfg.Generation.Seed)
	}
	if cfg.Generation.BaseCount != 5 {
		t.Errorf("expected 5 bases, got %d", cfg.Generation.BaseCount)
	}
	// Unset file values keep their defaults.
	if cfg.Generation.Teams != 2 {
		t.Errorf("expected default teams, got %d", cfg.Generation.Teams)
	}
	if len(cfg.Include.Weapons) != 1 || cfg.Include.Weapons[0] != "Laser" {
		t.Errorf("expected forced weapon Laser, got %v", cfg.Include.Weapons)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("expected log level warn, got %s", cfg.Logging.Level)
	}
}

func TestLoadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mapgen.yaml")
	if err := os.WriteFile(path, []byte("install: [not a mapping"), 0o644); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	if _, err := Load(path, Overrides{}); err == nil {
		t.Fatal("expected error for malformed config file")
	}
}

func TestOverridesTakePriority(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mapgen.yaml")
	content := `generation:
  seed: 99
  teams: 3
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	ov := Overrides{
		InstallDir: "/tmp/hw",
		Seed:       7,
		BaseCount:  4,
		Debug:      true,
	}
	cfg, err := Load(path, ov)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Generation.Seed != 7 {
		t.Errorf("override lost: expected seed 7, got %d", cfg.Generation.Seed)
	}
	if cfg.Install.Dir != "/tmp/hw" {
		t.Errorf("override lost: expected /tmp/hw, got %s", cfg.Install.Dir)
	}
	if cfg.Generation.BaseCount != 4 {
		t.Errorf("override lost: expected 4 bases, got %d", cfg.Generation.BaseCount)
	}
	// File value with no override survives.
	if cfg.Generation.Teams != 3 {
		t.Errorf("expected teams 3 from file, got %d", cfg.Generation.Teams)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("debug flag should force debug level, got %s", cfg.Logging.Level)
	}
}

func TestOverridesZeroValuesAreIgnored(t *testing.T) {
	cfg := Default()
	Overrides{}.apply(cfg)

	if cfg.Generation.Teams != 2 || cfg.Generation.BaseCount != 3 {
		t.Error("empty overrides changed generation defaults")
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("empty overrides changed log level to %s", cfg.Logging.Level)
	}
}

func TestSaveToRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "mapgen.yaml")

	cfg := Default()
	cfg.Install.LevelName = "RoundTrip"
	cfg.Generation.Seed = 1234
	cfg.Include.Vehicles = []string{"Bomber"}

	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo failed: %v", err)
	}

	loaded, err := Load(path, Overrides{})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.Install.LevelName != "RoundTrip" {
		t.Errorf("level name lost: got %s", loaded.Install.LevelName)
	}
	if loaded.Generation.Seed != 1234 {
		t.Errorf("seed lost: got %d", loaded.Generation.Seed)
	}
	if len(loaded.Include.Vehicles) != 1 || loaded.Include.Vehicles[0] != "Bomber" {
		t.Errorf("include list lost: got %v", loaded.Include.Vehicles)
	}
}

func TestConfigDirIsAbsolute(t *testing.T) {
	dir := ConfigDir()
	if dir == "" {
		t.Fatal("ConfigDir returned empty path")
	}
	if !filepath.IsAbs(dir) {
		t.Errorf("expected absolute config dir, got %s", dir)
	}
}
