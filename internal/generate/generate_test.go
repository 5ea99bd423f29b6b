package generate

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/hwforge/mapgen/internal/config"
	"github.com/hwforge/mapgen/internal/regen"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Install.Dir = t.TempDir()
	cfg.Install.LevelName = "TestLevel"
	cfg.Generation.Seed = 42
	cfg.Generation.Teams = 2
	cfg.Generation.BaseCount = 4
	cfg.Generation.ScrapCount = 3
	cfg.Generation.PumpCount = 1
	return cfg
}

func docPath(cfg *config.Config) string {
	return filepath.Join(cfg.Install.Dir, cfg.Install.LevelName,
		cfg.Install.LevelName+".mapgen.yaml")
}

func TestRunWritesLevel(t *testing.T) {
	cfg := testConfig(t)

	res, err := Run(cfg, zap.NewNop())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if res.Seed != 42 {
		t.Errorf("expected seed 42, got %d", res.Seed)
	}
	if got := len(res.Layout.Bases()); got != 4 {
		t.Errorf("expected 4 bases, got %d", got)
	}
	if got := len(res.Layout.Scrap()); got != 3 {
		t.Errorf("expected 3 scrap areas, got %d", got)
	}

	dir := filepath.Join(cfg.Install.Dir, cfg.Install.LevelName)
	for _, name := range []string{
		"TestLevel.lev", "TestLevel.cfg", "TestLevel.ob3",
		"TestLevel.ars", "TestLevel.pat", "TestLevel.ail",
		"map.tga", "TestLevel.mapgen.yaml",
	} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("missing asset %s: %v", name, err)
		}
	}
	if _, err := os.Stat(filepath.Join(cfg.Install.Dir, "Text", "English", "TestLevel.ait")); err != nil {
		t.Errorf("missing text records: %v", err)
	}

	list, err := os.ReadFile(filepath.Join(cfg.Install.Dir, "hwae_levels.txt"))
	if err != nil {
		t.Fatalf("level list missing: %v", err)
	}
	if !strings.Contains(string(list), "TestLevel") {
		t.Errorf("level not registered: %q", list)
	}
}

func TestRunIsDeterministic(t *testing.T) {
	a, err := Run(testConfig(t), zap.NewNop())
	if err != nil {
		t.Fatalf("first run failed: %v", err)
	}
	b, err := Run(testConfig(t), zap.NewNop())
	if err != nil {
		t.Fatalf("second run failed: %v", err)
	}

	if !a.Layout.Equal(b.Layout) {
		t.Error("same seed produced different layouts")
	}
	if a.Energy != b.Energy {
		t.Errorf("energy differs: %d != %d", a.Energy, b.Energy)
	}
	for x := 0; x < a.Field.Width; x += 16 {
		for z := 0; z < a.Field.Length; z += 16 {
			if a.Field.Height(x, z) != b.Field.Height(x, z) {
				t.Fatalf("terrain diverged at (%d,%d)", x, z)
			}
		}
	}
}

func TestRegenerateReusesLayout(t *testing.T) {
	cfg := testConfig(t)
	first, err := Run(cfg, zap.NewNop())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	second, err := Regenerate(cfg, docPath(cfg), RegenOverrides{}, zap.NewNop())
	if err != nil {
		t.Fatalf("Regenerate failed: %v", err)
	}

	if !first.Layout.Equal(second.Layout) {
		t.Error("regeneration changed the zone layout")
	}
	if first.Energy != second.Energy {
		t.Errorf("regeneration changed starting energy: %d != %d", first.Energy, second.Energy)
	}
	for x := 0; x < first.Field.Width; x += 16 {
		for z := 0; z < first.Field.Length; z += 16 {
			if first.Field.Height(x, z) != second.Field.Height(x, z) {
				t.Fatalf("regenerated terrain diverged at (%d,%d)", x, z)
			}
		}
	}

	// The pinned construction set is replayed, not re-drawn.
	if strings.Join(first.Set.Vehicles, ",") != strings.Join(second.Set.Vehicles, ",") {
		t.Error("regeneration changed the construction set")
	}
}

func TestRegenerateIgnoresConfigCountDefaults(t *testing.T) {
	cfg := testConfig(t)
	first, err := Run(cfg, zap.NewNop())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	// A regen invocation with no count flags resolves to default counts
	// that differ from the document; the recorded layout must still win.
	plain := config.Default()
	plain.Install.Dir = cfg.Install.Dir
	plain.Install.LevelName = cfg.Install.LevelName

	second, err := Regenerate(plain, docPath(cfg), RegenOverrides{}, zap.NewNop())
	if err != nil {
		t.Fatalf("Regenerate failed: %v", err)
	}
	if !first.Layout.Equal(second.Layout) {
		t.Error("regeneration without overrides re-placed the zones")
	}
}

func TestRegenerateCountChangeReplacesZones(t *testing.T) {
	cfg := testConfig(t)
	first, err := Run(cfg, zap.NewNop())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	path := docPath(cfg)

	second, err := Regenerate(cfg, path, RegenOverrides{BaseCount: 2}, zap.NewNop())
	if err != nil {
		t.Fatalf("Regenerate failed: %v", err)
	}

	if got := len(second.Layout.Bases()); got != 2 {
		t.Errorf("expected 2 bases after count change, got %d", got)
	}
	// Seed and construction selection stay pinned even when zones move.
	if second.Seed != first.Seed {
		t.Errorf("seed changed: %d != %d", second.Seed, first.Seed)
	}
	if strings.Join(first.Set.Weapons, ",") != strings.Join(second.Set.Weapons, ",") {
		t.Error("count change re-drew the construction set")
	}
}

func TestRegenerateRejectsMalformedDocument(t *testing.T) {
	cfg := testConfig(t)
	path := filepath.Join(cfg.Install.Dir, "broken.yaml")
	if err := os.WriteFile(path, []byte("seed: 0\n"), 0o644); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	if _, err := Regenerate(cfg, path, RegenOverrides{}, zap.NewNop()); err == nil {
		t.Fatal("expected error for malformed document")
	}
	if _, err := os.Stat(filepath.Join(cfg.Install.Dir, "hwae_levels.txt")); !os.IsNotExist(err) {
		t.Error("failed regeneration left the level registered")
	}
}

func TestDocumentMatchesResult(t *testing.T) {
	cfg := testConfig(t)
	res, err := Run(cfg, zap.NewNop())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	doc, err := regen.Load(docPath(cfg))
	if err != nil {
		t.Fatalf("loading run document failed: %v", err)
	}
	if doc.Seed != res.Seed || doc.StartingEnergy != res.Energy {
		t.Errorf("document out of sync with run: %+v", doc)
	}
	rebuilt, err := doc.Layout(res.Layout.Bounds)
	if err != nil {
		t.Fatalf("rebuilding layout failed: %v", err)
	}
	if !res.Layout.Equal(rebuilt) {
		t.Error("document layout differs from generated layout")
	}
}
