package zone

import (
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/hwforge/mapgen/internal/noise"
	"github.com/hwforge/mapgen/pkg/geom"
)

func testBounds() geom.Rect {
	return geom.Rect{Min: geom.Vec2{X: 0, Z: 0}, Max: geom.Vec2{X: 255, Z: 255}}
}

// flatLand is a uniform all-land field so placement never fails on water.
func flatLand() *noise.Field {
	f := noise.NewField(256, 256)
	for z := 0; z < 256; z++ {
		for x := 0; x < 256; x++ {
			f.Set(x, z, 0.8)
		}
	}
	return f
}

func newTestEngine(seed int64) *Engine {
	return NewEngine(testBounds(), flatLand(), noise.New(seed), zap.NewNop())
}

func TestGenerateLayoutInvariants(t *testing.T) {
	layout, err := newTestEngine(42).Generate(Request{BaseCount: 4, ScrapCount: 3, PumpCount: 1})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	carriers := layout.ByKind(CarrierSpawn)
	if len(carriers) != 1 {
		t.Fatalf("expected exactly one carrier spawn, got %d", len(carriers))
	}
	if got := len(layout.Bases()); got != 4 {
		t.Errorf("expected 4 bases, got %d", got)
	}
	if got := len(layout.Scrap()); got != 3 {
		t.Errorf("expected 3 scrap areas, got %d", got)
	}
	if got := len(layout.ByKind(PumpOutpost)); got != 1 {
		t.Errorf("expected 1 pump outpost, got %d", got)
	}

	// No two zone disks may overlap.
	for i, a := range layout.Zones {
		for _, b := range layout.Zones[i+1:] {
			if a.Center.Distance(b.Center) < a.Radius()+b.Radius() {
				t.Errorf("zones %s and %s overlap", a, b)
			}
		}
	}

	// Enemy bases stay outside the carrier safety radius.
	carrier := layout.Carrier()
	for _, b := range layout.Bases() {
		if b.Center.Distance(carrier.Center) < carrierSafetyRadius {
			t.Errorf("base %s inside carrier safety radius", b)
		}
	}

	// One scrap area must sit within reach of the carrier.
	nearCarrier := false
	for _, s := range layout.Scrap() {
		if s.Center.Distance(carrier.Center) <= scrapProximity {
			nearCarrier = true
		}
	}
	if !nearCarrier {
		t.Error("no scrap area within carrier proximity")
	}

	// Zone disks stay inside the map bounds and centers are integral.
	for _, z := range layout.Zones {
		lo, hi := z.Shape().Bounds()
		if lo.X < 0 || lo.Z < 0 || hi.X > 255 || hi.Z > 255 {
			t.Errorf("zone %s extends outside the map", z)
		}
		if z.Center.X != float64(int(z.Center.X)) || z.Center.Z != float64(int(z.Center.Z)) {
			t.Errorf("zone %s has a non-integer center", z)
		}
	}
}

func TestGenerateIsDeterministic(t *testing.T) {
	req := Request{BaseCount: 3, ScrapCount: 2, PumpCount: 1}
	a, err := newTestEngine(7).Generate(req)
	if err != nil {
		t.Fatalf("first run failed: %v", err)
	}
	b, err := newTestEngine(7).Generate(req)
	if err != nil {
		t.Fatalf("second run failed: %v", err)
	}
	if !a.Equal(b) {
		t.Error("same seed produced different layouts")
	}
}

func TestGenerateAtMostOneWeaponCrate(t *testing.T) {
	// Enough scrap areas to draw the crate special repeatedly.
	layout, err := newTestEngine(13).Generate(Request{BaseCount: 2, ScrapCount: 6, PumpCount: 0})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	crates := 0
	for _, z := range layout.Zones {
		if z.Special == WeaponCrate {
			crates++
		}
	}
	if crates > 1 {
		t.Errorf("expected at most one weapon crate zone, got %d", crates)
	}
}

func TestGenerateRequiresABase(t *testing.T) {
	if _, err := newTestEngine(1).Generate(Request{BaseCount: 0}); err == nil {
		t.Fatal("expected error for zero bases")
	}
}

func TestGenerateFailsOnAllWater(t *testing.T) {
	water := noise.NewField(256, 256)
	engine := NewEngine(testBounds(), water, noise.New(5), zap.NewNop())

	_, err := engine.Generate(Request{BaseCount: 1, ScrapCount: 1})
	if !errors.Is(err, ErrPlacementExhausted) {
		t.Fatalf("expected ErrPlacementExhausted, got %v", err)
	}
}
