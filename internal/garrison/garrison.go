// Package garrison populates zones with structures and units and balances
// enemy bases across opposing teams.
package garrison

import (
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/hwforge/mapgen/internal/noise"
	"github.com/hwforge/mapgen/internal/zone"
	"github.com/hwforge/mapgen/pkg/geom"
)

// Behavior is the AI stance assigned to a placed unit.
type Behavior int

const (
	Static Behavior = iota
	Patrol
	AAGun
	Radar
)

// String returns a human-readable behavior name.
func (b Behavior) String() string {
	switch b {
	case Static:
		return "static"
	case Patrol:
		return "patrol"
	case AAGun:
		return "aa_gun"
	case Radar:
		return "radar"
	default:
		return fmt.Sprintf("Behavior(%d)", int(b))
	}
}

// Unit is one placed object: a structure, vehicle or emplacement.
type Unit struct {
	Type      string
	Pos       geom.Vec2
	Rotation  float64
	Behavior  Behavior
	Defensive bool
	YOffset   float64
}

// Garrison is the population of a single zone. Regenerated on every run.
type Garrison struct {
	Zone  *zone.Zone
	Units []Unit
}

// Strength estimates combat weight for balancing: roster size plus
// defensive structures counted again.
func (g *Garrison) Strength() int {
	s := len(g.Units)
	for _, u := range g.Units {
		if u.Defensive {
			s++
		}
	}
	return s
}

// ProductionCount returns how many production buildings the garrison holds.
func (g *Garrison) ProductionCount() int {
	n := 0
	for _, u := range g.Units {
		if isProduction(u.Type) {
			n++
		}
	}
	return n
}

var productionTypes = []string{"AlienGroundProd", "AlienProdTower", "AlienLargeProd"}

func isProduction(t string) bool {
	for _, p := range productionTypes {
		if p == t {
			return true
		}
	}
	return false
}

var defenseTypes = []string{"AlienWallGun", "AlienLightningGun", "AlienBlastTower"}

var roamerTypes = []noise.Weighted[string]{
	{Item: "LightWalker", Weight: 4},
	{Item: "HeavyWalker", Weight: 2},
	{Item: "SmallFlyer", Weight: 3},
	{Item: "MediumFlyer", Weight: 1},
}

var scrapTypes = []noise.Weighted[string]{
	{Item: "TankWreck1", Weight: 3},
	{Item: "TankWreck2", Weight: 3},
	{Item: "DestroyedCopter", Weight: 2},
	{Item: "FuelTank", Weight: 2},
	{Item: "FuelSilo", Weight: 1},
}

// baseComposition scales the garrison with the zone size class.
func baseComposition(size zone.Size) (production, defenses, roamers int) {
	switch size {
	case zone.Tiny:
		return 1, 1, 2
	case zone.Small:
		return 1, 2, 4
	case zone.Medium:
		return 2, 3, 6
	default:
		return 3, 4, 8
	}
}

// perimeterBand is how far outside a base radius its pickets may roam.
const perimeterBand = 10

// Populate builds a garrison for every zone in the layout. Enemy bases get
// production buildings, defenses and roamers; pump outposts get pumps with a
// light guard; scrap areas get neutral wreckage.
func Populate(layout *zone.Layout, gen *noise.Generator, log *zap.Logger) []*Garrison {
	var out []*Garrison
	for _, zn := range layout.Zones {
		var g *Garrison
		switch zn.Kind {
		case zone.EnemyBase:
			g = populateBase(zn, gen)
		case zone.PumpOutpost:
			g = populateOutpost(zn, gen)
		case zone.ScrapArea:
			g = populateScrap(zn, gen)
		default:
			continue
		}
		log.Info("populated zone",
			zap.String("zone", zn.String()),
			zap.Int("units", len(g.Units)),
			zap.Int("strength", g.Strength()))
		out = append(out, g)
	}
	return out
}

func populateBase(zn *zone.Zone, gen *noise.Generator) *Garrison {
	g := &Garrison{Zone: zn}
	production, defenses, roamers := baseComposition(zn.Size)

	// The win condition is "destroy all production buildings", so at least
	// one production structure is non-negotiable.
	g.add(gen, zn, "AlienGroundProd", insideZone, Static, false)
	for i := 1; i < production; i++ {
		g.add(gen, zn, noise.Pick(gen, productionTypes), insideZone, Static, false)
	}
	for i := 0; i < defenses; i++ {
		g.add(gen, zn, noise.Pick(gen, defenseTypes), insideZone, Static, true)
	}
	g.add(gen, zn, "AlienPowerStore", insideZone, Static, false)

	// Pickets scatter through the perimeter band, not the base interior.
	for i := 0; i < roamers; i++ {
		g.add(gen, zn, noise.PickWeighted(gen, roamerTypes), perimeterRing, Patrol, false)
	}
	g.add(gen, zn, "AlienAckAckGun", perimeterRing, AAGun, true)
	if zn.Size >= zone.Medium {
		g.add(gen, zn, "AlienSpyTower", perimeterRing, Radar, false)
	}
	return g
}

func populateOutpost(zn *zone.Zone, gen *noise.Generator) *Garrison {
	g := &Garrison{Zone: zn}
	for i := 0; i < 3; i++ {
		g.add(gen, zn, "AlienPump", insideZone, Static, false)
	}
	g.add(gen, zn, noise.Pick(gen, defenseTypes), insideZone, Static, true)
	g.add(gen, zn, noise.PickWeighted(gen, roamerTypes), perimeterRing, Patrol, false)
	return g
}

func populateScrap(zn *zone.Zone, gen *noise.Generator) *Garrison {
	g := &Garrison{Zone: zn}
	count := 3 + int(zn.Size)
	for i := 0; i < count; i++ {
		g.add(gen, zn, noise.PickWeighted(gen, scrapTypes), insideZone, Static, false)
	}
	if zn.Special == zone.WeaponCrate {
		for i := 0; i < 3; i++ {
			g.add(gen, zn, "WeaponCrate", insideZone, Static, false)
		}
	}
	return g
}

type placementRegion int

const (
	insideZone placementRegion = iota
	perimeterRing
)

// add places a unit with jittered polar sampling and a short separation
// retry loop. Placement never fails: after the retries the last candidate
// is kept, which at worst packs objects tightly.
func (g *Garrison) add(gen *noise.Generator, zn *zone.Zone, unitType string, region placementRegion, behavior Behavior, defensive bool) {
	const minSeparation = 3.0
	var pos geom.Vec2
	for attempt := 0; attempt < 12; attempt++ {
		theta := gen.Float() * 2 * math.Pi
		var r float64
		if region == insideZone {
			r = math.Sqrt(gen.Float()) * (zn.Radius() - 2)
		} else {
			r = zn.Radius() + gen.Float()*perimeterBand
		}
		pos = zn.Center.Add(geom.Vec2{X: r * math.Cos(theta), Z: r * math.Sin(theta)})
		ok := true
		for _, u := range g.Units {
			if u.Pos.Distance(pos) < minSeparation {
				ok = false
				break
			}
		}
		if ok {
			break
		}
	}
	g.Units = append(g.Units, Unit{
		Type:      unitType,
		Pos:       pos,
		Rotation:  float64(gen.IntN(360)),
		Behavior:  behavior,
		Defensive: defensive,
	})
}
