package formats

import (
	"errors"
	"math"
	"testing"
)

func TestPATAddRouteScaling(t *testing.T) {
	pat := NewPAT()
	pat.AddRoute("patrol1", [][3]float64{
		{10, 50, 20},
		{30, 60, 40},
	})

	route, err := pat.Route("patrol1")
	if err != nil {
		t.Fatalf("Route failed: %v", err)
	}
	if len(route.Points) != 2 {
		t.Fatalf("expected 2 waypoints, got %d", len(route.Points))
	}
	if math.Abs(route.Points[0].X-10*10*MapScaler) > 1e-9 {
		t.Errorf("X not scaled to world units: %v", route.Points[0].X)
	}
	if math.Abs(route.Points[0].Y-50*MapScaler) > 1e-9 {
		t.Errorf("Y not scaled to world units: %v", route.Points[0].Y)
	}

	if _, err := pat.Route("missing"); !errors.Is(err, ErrUnknownPatrolRoute) {
		t.Errorf("expected ErrUnknownPatrolRoute, got %v", err)
	}
}

func TestPATRoundTrip(t *testing.T) {
	pat := NewPAT()
	pat.AddRoute("patrol1", [][3]float64{{5, 1, 7}, {9, 2, 3}, {4, 1, 8}})

	parsed, err := ParsePAT(pat.Encode())
	if err != nil {
		t.Fatalf("ParsePAT failed: %v", err)
	}
	route, err := parsed.Route("patrol1")
	if err != nil {
		t.Fatalf("Route failed: %v", err)
	}
	if len(route.Points) != 3 {
		t.Fatalf("expected 3 waypoints, got %d", len(route.Points))
	}
	orig, _ := pat.Route("patrol1")
	for i := range route.Points {
		if math.Abs(route.Points[i].X-orig.Points[i].X) > 0.001 {
			t.Errorf("waypoint %d X mismatch: %v != %v", i, route.Points[i].X, orig.Points[i].X)
		}
	}
}

func TestAILRoundTrip(t *testing.T) {
	ail := NewAIL()
	ail.AddArea("near_crate_zone", [4]int{70, 50, 130, 110})
	ail.AddArea("near_crate_zone", [4]int{75, 55, 135, 115}) // replace

	parsed, err := ParseAIL(ail.Encode())
	if err != nil {
		t.Fatalf("ParseAIL failed: %v", err)
	}
	if len(parsed.Areas) != 1 {
		t.Fatalf("expected 1 area, got %d", len(parsed.Areas))
	}
	area := parsed.Areas[0]
	if area.Name != "near_crate_zone" {
		t.Errorf("name mismatch: %q", area.Name)
	}
	if area.BoundingBox != [4]int{75, 55, 135, 115} {
		t.Errorf("bounding box mismatch: %v", area.BoundingBox)
	}
}

func TestAITRoundTrip(t *testing.T) {
	ait := NewAIT()
	ait.AddText("hwae_weapon_crate__sample_crate", "Sample the weapon crate")

	parsed, err := ParseAIT(ait.Encode())
	if err != nil {
		t.Fatalf("ParseAIT failed: %v", err)
	}
	if len(parsed.Records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(parsed.Records))
	}
	if parsed.Records[0].Content != "Sample the weapon crate" {
		t.Errorf("content mismatch: %q", parsed.Records[0].Content)
	}
}
