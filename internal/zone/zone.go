// Package zone places the gameplay zones of a skirmish level: the carrier
// spawn, enemy bases, scrap areas and pump outposts.
package zone

import (
	"fmt"

	"github.com/hwforge/mapgen/pkg/geom"
)

// Kind classifies a zone's gameplay role.
type Kind int

const (
	CarrierSpawn Kind = iota
	ScrapArea
	EnemyBase
	PumpOutpost
)

// String returns a human-readable kind name.
func (k Kind) String() string {
	switch k {
	case CarrierSpawn:
		return "carrier_spawn"
	case ScrapArea:
		return "scrap_area"
	case EnemyBase:
		return "enemy_base"
	case PumpOutpost:
		return "pump_outpost"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// ParseKind converts a kind name back to its Kind.
func ParseKind(s string) (Kind, error) {
	for _, k := range []Kind{CarrierSpawn, ScrapArea, EnemyBase, PumpOutpost} {
		if k.String() == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown zone kind %q", s)
}

// Size is a zone size class.
type Size int

const (
	Tiny Size = iota + 1
	Small
	Medium
	Large
)

// String returns a human-readable size name.
func (s Size) String() string {
	switch s {
	case Tiny:
		return "tiny"
	case Small:
		return "small"
	case Medium:
		return "medium"
	case Large:
		return "large"
	default:
		return fmt.Sprintf("Size(%d)", int(s))
	}
}

// ParseSize converts a size name back to its Size.
func ParseSize(s string) (Size, error) {
	for _, v := range []Size{Tiny, Small, Medium, Large} {
		if v.String() == s {
			return v, nil
		}
	}
	return 0, fmt.Errorf("unknown zone size %q", s)
}

// Radius returns the zone radius in grid cells for a size class.
func (s Size) Radius() float64 {
	switch s {
	case Tiny:
		return 8
	case Small:
		return 12
	case Medium:
		return 16
	case Large:
		return 22
	default:
		return 8
	}
}

// TeamID identifies the owning team of a zone. Scrap areas and the carrier
// spawn stay neutral.
type TeamID int

// Neutral marks a zone with no owning team.
const Neutral TeamID = -1

// Special marks a scrap zone variant with extra mission logic.
type Special int

const (
	NoSpecial Special = iota
	WeaponCrate
)

// Zone is one circular gameplay region. Centers sit on integer grid
// coordinates so layouts survive serialization bit-for-bit. Zones are
// read-only after placement except Team, which the balancer assigns.
type Zone struct {
	ID      int
	Kind    Kind
	Size    Size
	Center  geom.Vec2
	Team    TeamID
	Special Special
}

// Radius returns the zone radius in grid cells.
func (z *Zone) Radius() float64 {
	if z.Kind == CarrierSpawn {
		return 12
	}
	if z.Kind == PumpOutpost {
		return 10
	}
	return z.Size.Radius()
}

// Shape returns the zone footprint as a geom.Shape.
func (z *Zone) Shape() geom.Shape {
	return z.circle()
}

func (z *Zone) circle() geom.Circle {
	return geom.Circle{Center: z.Center, Radius: z.Radius()}
}

// String renders a compact description for generation logs.
func (z *Zone) String() string {
	return fmt.Sprintf("%s/%s@(%.0f,%.0f)", z.Kind, z.Size, z.Center.X, z.Center.Z)
}

// Layout is the full set of placed zones for one level.
type Layout struct {
	Bounds geom.Rect
	Zones  []*Zone
}

// Carrier returns the carrier spawn zone.
func (l *Layout) Carrier() *Zone {
	for _, z := range l.Zones {
		if z.Kind == CarrierSpawn {
			return z
		}
	}
	return nil
}

// ByKind returns all zones of the given kind in placement order.
func (l *Layout) ByKind(kind Kind) []*Zone {
	var out []*Zone
	for _, z := range l.Zones {
		if z.Kind == kind {
			out = append(out, z)
		}
	}
	return out
}

// Bases returns all enemy base zones.
func (l *Layout) Bases() []*Zone {
	return l.ByKind(EnemyBase)
}

// Scrap returns all scrap area zones.
func (l *Layout) Scrap() []*Zone {
	return l.ByKind(ScrapArea)
}

// NearestZone returns the zone whose boundary is closest to p, together with
// the signed distance to that boundary (negative inside).
func (l *Layout) NearestZone(p geom.Vec2) (*Zone, float64) {
	var nearest *Zone
	best := 0.0
	for _, z := range l.Zones {
		d := z.Shape().DistanceToBoundary(p)
		if nearest == nil || d < best {
			nearest, best = z, d
		}
	}
	return nearest, best
}

// Equal reports whether two layouts contain identical zones in identical
// order. Team assignments are excluded: they belong to the balancer.
func (l *Layout) Equal(other *Layout) bool {
	if other == nil || len(l.Zones) != len(other.Zones) {
		return false
	}
	for i, z := range l.Zones {
		o := other.Zones[i]
		if z.Kind != o.Kind || z.Size != o.Size || z.Special != o.Special || z.Center != o.Center {
			return false
		}
	}
	return true
}
