package zone

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/hwforge/mapgen/internal/noise"
	"github.com/hwforge/mapgen/pkg/geom"
)

// ErrPlacementExhausted is returned when the attempt budget runs out before
// the mandatory zone minimums are satisfied. The failure is surfaced rather
// than silently dropping a mandatory zone.
var ErrPlacementExhausted = errors.New("zone placement exhausted attempt budget")

const (
	// minClearance is the minimum gap between any two zone disks.
	minClearance = 4
	// carrierSafetyRadius keeps enemy bases away from the carrier spawn.
	carrierSafetyRadius = 40
	// scrapProximity bounds how far the mandatory scrap area may sit from
	// the carrier spawn.
	scrapProximity = 30
	// attemptBudget caps rejection-sampling draws per zone.
	attemptBudget = 400
	// carrierCandidates is how many scored locations the carrier heuristic
	// considers.
	carrierCandidates = 48
	// landThreshold is the minimum land-field value for a zone center;
	// values below it end up underwater after height scaling.
	landThreshold = 0.35
	// edgeMargin keeps zone centers away from the map border on top of the
	// zone radius.
	edgeMargin = 8
)

var baseSizeWeights = []noise.Weighted[Size]{
	{Item: Tiny, Weight: 1},
	{Item: Small, Weight: 4},
	{Item: Medium, Weight: 3},
	{Item: Large, Weight: 2},
}

var scrapSizeWeights = []noise.Weighted[Size]{
	{Item: Tiny, Weight: 2},
	{Item: Small, Weight: 4},
	{Item: Medium, Weight: 3},
}

var scrapSpecialWeights = []noise.Weighted[Special]{
	{Item: NoSpecial, Weight: 3},
	{Item: WeaponCrate, Weight: 1},
}

// Request describes how many zones of each kind to place.
type Request struct {
	BaseCount  int
	ScrapCount int
	PumpCount  int
}

// Engine places zones on the map plane by rejection sampling.
type Engine struct {
	bounds geom.Rect
	land   *noise.Field
	gen    *noise.Generator
	log    *zap.Logger
}

// NewEngine returns an engine for the given bounds. The land field is the
// pre-scaling terrain height proxy used for flatness scoring and to keep
// zones off the sea.
func NewEngine(bounds geom.Rect, land *noise.Field, gen *noise.Generator, log *zap.Logger) *Engine {
	return &Engine{bounds: bounds, land: land, gen: gen, log: log}
}

// Generate places the carrier spawn, mandatory minimum zones and the
// requested optional zones. It fails with ErrPlacementExhausted if a
// mandatory zone cannot be placed within the attempt budget.
func (e *Engine) Generate(req Request) (*Layout, error) {
	if req.BaseCount < 1 {
		return nil, fmt.Errorf("%w: at least one enemy base required", ErrPlacementExhausted)
	}
	layout := &Layout{Bounds: e.bounds}

	carrier := e.placeCarrier(layout)
	e.log.Info("placed carrier spawn",
		zap.Float64("x", carrier.Center.X), zap.Float64("z", carrier.Center.Z))

	// Mandatory minimums go first, with relaxed clearance so a crowded draw
	// sequence cannot push them off the map.
	if err := e.placeMandatory(layout); err != nil {
		return nil, err
	}

	for i := 1; i < req.BaseCount; i++ {
		size := noise.PickWeighted(e.gen, baseSizeWeights)
		if _, err := e.place(layout, EnemyBase, size, NoSpecial, minClearance); err != nil {
			return nil, fmt.Errorf("placing enemy base %d: %w", i+1, err)
		}
	}
	crateAllocated := false
	for i := 1; i < req.ScrapCount; i++ {
		size := noise.PickWeighted(e.gen, scrapSizeWeights)
		special := noise.PickWeighted(e.gen, scrapSpecialWeights)
		if special == WeaponCrate && crateAllocated {
			special = NoSpecial
		}
		z, err := e.place(layout, ScrapArea, size, special, minClearance)
		if err != nil {
			return nil, fmt.Errorf("placing scrap area %d: %w", i+1, err)
		}
		if z.Special == WeaponCrate {
			crateAllocated = true
		}
	}
	for i := 0; i < req.PumpCount; i++ {
		if _, err := e.place(layout, PumpOutpost, Small, NoSpecial, minClearance); err != nil {
			return nil, fmt.Errorf("placing pump outpost %d: %w", i+1, err)
		}
	}

	e.log.Info("zone layout complete", zap.Int("zones", len(layout.Zones)))
	return layout, nil
}

// placeCarrier runs the optimal-location heuristic: draw a fixed number of
// candidates and keep the best-scoring one. Ties break toward the earliest
// draw, which keeps fixed-seed runs reproducible.
func (e *Engine) placeCarrier(layout *Layout) *Zone {
	carrier := &Zone{ID: 1, Kind: CarrierSpawn, Size: Small, Team: Neutral}
	radius := carrier.Radius()

	// Bases cluster around the map interior, so the carrier scores higher
	// the farther it sits from the interior centroid.
	centroid := geom.Vec2{
		X: (e.bounds.Min.X + e.bounds.Max.X) / 2,
		Z: (e.bounds.Min.Z + e.bounds.Max.Z) / 2,
	}
	maxDist := centroid.Distance(e.bounds.Min)

	var best geom.Vec2
	bestScore := -1.0
	for i := 0; i < carrierCandidates; i++ {
		p := e.randomCenter(radius)
		if e.land.At(int(p.X), int(p.Z)) < landThreshold {
			continue
		}
		edge := e.edgeDistance(p) / maxDist
		spread := p.Distance(centroid) / maxDist
		flat := e.flatness(p, radius)
		score := 1.5*edge + 1.0*spread + 2.0*flat
		if score > bestScore {
			best, bestScore = p, score
		}
	}
	if bestScore < 0 {
		// Degenerate land mask; fall back to the centroid, which the
		// terrain stage will flatten into a usable spawn anyway.
		best = geom.Vec2{X: float64(int(centroid.X)), Z: float64(int(centroid.Z))}
	}
	carrier.Center = best
	layout.Zones = append(layout.Zones, carrier)
	return carrier
}

func (e *Engine) placeMandatory(layout *Layout) error {
	relaxed := float64(minClearance) / 2

	// At least one tiny enemy base must exist or the mission cannot scale
	// down; never silently skip it.
	if _, err := e.place(layout, EnemyBase, Tiny, NoSpecial, relaxed); err != nil {
		return fmt.Errorf("mandatory tiny base: %w", err)
	}

	// At least one scrap area within reach of the carrier.
	carrier := layout.Carrier()
	z, err := e.placeNear(layout, ScrapArea, Tiny, carrier.Center, scrapProximity, relaxed)
	if err != nil {
		return fmt.Errorf("mandatory carrier-side scrap: %w", err)
	}
	e.log.Info("placed mandatory zones",
		zap.String("scrap", z.String()),
		zap.Float64("scrap_carrier_distance", z.Center.Distance(carrier.Center)))
	return nil
}

// place rejection-samples a center for a new zone until it fits.
func (e *Engine) place(layout *Layout, kind Kind, size Size, special Special, clearance float64) (*Zone, error) {
	z := &Zone{ID: len(layout.Zones) + 1, Kind: kind, Size: size, Team: Neutral, Special: special}
	for attempt := 0; attempt < attemptBudget; attempt++ {
		p := e.randomCenter(z.Radius())
		if e.accepts(layout, z, p, clearance) {
			z.Center = p
			layout.Zones = append(layout.Zones, z)
			e.log.Info("placed zone", zap.String("zone", z.String()), zap.Int("attempts", attempt+1))
			return z, nil
		}
	}
	return nil, fmt.Errorf("%w: %s/%s after %d attempts", ErrPlacementExhausted, kind, size, attemptBudget)
}

// placeNear is place restricted to a disk around an anchor point.
func (e *Engine) placeNear(layout *Layout, kind Kind, size Size, anchor geom.Vec2, maxDist, clearance float64) (*Zone, error) {
	z := &Zone{ID: len(layout.Zones) + 1, Kind: kind, Size: size, Team: Neutral}
	for attempt := 0; attempt < attemptBudget; attempt++ {
		p := e.randomCenter(z.Radius())
		if p.Distance(anchor) > maxDist {
			continue
		}
		if e.accepts(layout, z, p, clearance) {
			z.Center = p
			layout.Zones = append(layout.Zones, z)
			e.log.Info("placed zone", zap.String("zone", z.String()), zap.Int("attempts", attempt+1))
			return z, nil
		}
	}
	return nil, fmt.Errorf("%w: %s/%s near (%.0f,%.0f)", ErrPlacementExhausted, kind, size, anchor.X, anchor.Z)
}

// accepts tests a candidate center against land coverage, disk overlap with
// every accepted zone and the carrier safety radius.
func (e *Engine) accepts(layout *Layout, z *Zone, p geom.Vec2, clearance float64) bool {
	if e.land.At(int(p.X), int(p.Z)) < landThreshold {
		return false
	}
	candidate := geom.Circle{Center: p, Radius: z.Radius()}
	for _, placed := range layout.Zones {
		if placed.circle().Overlaps(candidate, clearance) {
			return false
		}
		if z.Kind == EnemyBase && placed.Kind == CarrierSpawn &&
			p.Distance(placed.Center) < carrierSafetyRadius {
			return false
		}
	}
	return true
}

// randomCenter draws a uniform integer grid point keeping the zone radius
// plus margin inside the bounds.
func (e *Engine) randomCenter(radius float64) geom.Vec2 {
	m := radius + edgeMargin
	x := e.gen.IntRange(int(e.bounds.Min.X+m), int(e.bounds.Max.X-m)+1)
	z := e.gen.IntRange(int(e.bounds.Min.Z+m), int(e.bounds.Max.Z-m)+1)
	return geom.Vec2{X: float64(x), Z: float64(z)}
}

func (e *Engine) edgeDistance(p geom.Vec2) float64 {
	return -geom.Rect{Min: e.bounds.Min, Max: e.bounds.Max}.DistanceToBoundary(p)
}

// flatness samples the land field around p; low spread means flat ground.
func (e *Engine) flatness(p geom.Vec2, radius float64) float64 {
	center := e.land.Sample(p.X, p.Z)
	spread := 0.0
	for _, d := range [][2]float64{{radius, 0}, {-radius, 0}, {0, radius}, {0, -radius}} {
		v := e.land.Sample(p.X+d[0], p.Z+d[1])
		if diff := v - center; diff > 0 {
			spread += diff
		} else {
			spread -= diff
		}
	}
	return 1 - spread/4
}
