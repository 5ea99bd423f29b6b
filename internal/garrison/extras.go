package garrison

import (
	"math"
	"sort"

	"go.uber.org/zap"

	"github.com/hwforge/mapgen/internal/noise"
	"github.com/hwforge/mapgen/internal/zone"
	"github.com/hwforge/mapgen/pkg/geom"
)

// Extras are map-wide objects outside any zone: a shared patrol route and
// the flyers bound to it.
type Extras struct {
	PatrolPoints []geom.Vec2
	Flyers       []Unit
}

// GenerateExtras draws 3-7 random map points, keeps their convex hull as the
// patrol route, and spawns 3-7 flyers that follow it.
func GenerateExtras(layout *zone.Layout, gen *noise.Generator, log *zap.Logger) *Extras {
	e := &Extras{}

	n := gen.IntRange(3, 8)
	pts := make([]geom.Vec2, 0, n)
	margin := 20.0
	for i := 0; i < n; i++ {
		pts = append(pts, geom.Vec2{
			X: layout.Bounds.Min.X + margin + gen.Float()*(layout.Bounds.Width()-2*margin),
			Z: layout.Bounds.Min.Z + margin + gen.Float()*(layout.Bounds.Height()-2*margin),
		})
	}
	e.PatrolPoints = convexHull(pts)

	flyerCount := gen.IntRange(3, 8)
	for i := 0; i < flyerCount; i++ {
		t := "SmallFlyer"
		if gen.IntN(2) == 1 {
			t = "MediumFlyer"
		}
		p := noise.Pick(gen, e.PatrolPoints)
		e.Flyers = append(e.Flyers, Unit{
			Type:     t,
			Pos:      p,
			Behavior: Patrol,
			YOffset:  15,
		})
	}
	log.Info("generated patrol extras",
		zap.Int("route_points", len(e.PatrolPoints)),
		zap.Float64("route_length", e.RouteLength()),
		zap.Int("flyers", len(e.Flyers)))
	return e
}

// convexHull returns the hull of pts in counter-clockwise order (Andrew's
// monotone chain).
func convexHull(pts []geom.Vec2) []geom.Vec2 {
	if len(pts) < 3 {
		return pts
	}
	sorted := append([]geom.Vec2(nil), pts...)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].X != sorted[j].X {
			return sorted[i].X < sorted[j].X
		}
		return sorted[i].Z < sorted[j].Z
	})

	cross := func(o, a, b geom.Vec2) float64 {
		return (a.X-o.X)*(b.Z-o.Z) - (a.Z-o.Z)*(b.X-o.X)
	}

	var hull []geom.Vec2
	for _, p := range sorted {
		for len(hull) >= 2 && cross(hull[len(hull)-2], hull[len(hull)-1], p) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}
	lower := len(hull) + 1
	for i := len(sorted) - 2; i >= 0; i-- {
		p := sorted[i]
		for len(hull) >= lower && cross(hull[len(hull)-2], hull[len(hull)-1], p) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}
	return hull[:len(hull)-1]
}

// RouteLength returns the total length of the patrol loop.
func (e *Extras) RouteLength() float64 {
	total := 0.0
	for i, p := range e.PatrolPoints {
		next := e.PatrolPoints[(i+1)%len(e.PatrolPoints)]
		total += math.Hypot(next.X-p.X, next.Z-p.Z)
	}
	return total
}
