// Package regen reads and writes the sidecar document that makes a generated
// level reproducible. The document pins the seed, the selected construction
// set and the exact zone layout; loading it back replays generation without
// re-running zone placement.
package regen

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/hwforge/mapgen/internal/construction"
	"github.com/hwforge/mapgen/internal/zone"
	"github.com/hwforge/mapgen/pkg/geom"
)

// ErrMalformedConfig marks a regeneration document that cannot be used.
var ErrMalformedConfig = errors.New("malformed regeneration config")

// Document is the on-disk regeneration record for one level.
type Document struct {
	RunID          string             `yaml:"run_id"`
	LevelName      string             `yaml:"level_name"`
	Seed           int64              `yaml:"seed"`
	Teams          int                `yaml:"teams"`
	BaseCount      int                `yaml:"base_count"`
	ScrapCount     int                `yaml:"scrap_count"`
	PumpCount      int                `yaml:"pump_count"`
	StartingEnergy int                `yaml:"starting_energy"`
	Zones          []ZoneRecord       `yaml:"zones"`
	Construction   ConstructionRecord `yaml:"construction"`
}

// ZoneRecord is one placed zone. Centers are integers so a layout survives a
// save/load cycle bit-for-bit.
type ZoneRecord struct {
	Kind    string `yaml:"kind"`
	Size    string `yaml:"size"`
	X       int    `yaml:"x"`
	Z       int    `yaml:"z"`
	Team    int    `yaml:"team"`
	Special string `yaml:"special,omitempty"`
}

// ConstructionRecord is the selected build set.
type ConstructionRecord struct {
	Vehicles   []string `yaml:"vehicles"`
	Weapons    []string `yaml:"weapons"`
	Addons     []string `yaml:"addons"`
	Companions []string `yaml:"companions"`
}

// New captures a finished generation run into a document.
func New(runID, levelName string, seed int64, teams int, energy int, layout *zone.Layout, set *construction.Set) *Document {
	d := &Document{
		RunID:          runID,
		LevelName:      levelName,
		Seed:           seed,
		Teams:          teams,
		BaseCount:      len(layout.Bases()),
		ScrapCount:     len(layout.Scrap()),
		PumpCount:      len(layout.ByKind(zone.PumpOutpost)),
		StartingEnergy: energy,
		Construction: ConstructionRecord{
			Vehicles:   set.Vehicles,
			Weapons:    set.Weapons,
			Addons:     set.Addons,
			Companions: set.Companions,
		},
	}
	for _, z := range layout.Zones {
		rec := ZoneRecord{
			Kind: z.Kind.String(),
			Size: z.Size.String(),
			X:    int(z.Center.X),
			Z:    int(z.Center.Z),
			Team: int(z.Team),
		}
		if z.Special == zone.WeaponCrate {
			rec.Special = "weapon_crate"
		}
		d.Zones = append(d.Zones, rec)
	}
	return d
}

// Load reads and validates a regeneration document.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read regen config: %w", err)
	}
	var d Document
	if err := yaml.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedConfig, err)
	}
	if err := d.validate(); err != nil {
		return nil, err
	}
	return &d, nil
}

// Save writes the document next to the level assets. Output is deterministic
// for a given document.
func (d *Document) Save(path string) error {
	data, err := yaml.Marshal(d)
	if err != nil {
		return fmt.Errorf("marshal regen config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write regen config: %w", err)
	}
	return nil
}

func (d *Document) validate() error {
	if d.Seed == 0 {
		return fmt.Errorf("%w: missing seed", ErrMalformedConfig)
	}
	if d.Teams < 2 || d.Teams > 4 {
		return fmt.Errorf("%w: teams %d outside [2,4]", ErrMalformedConfig, d.Teams)
	}
	if len(d.Zones) == 0 {
		return fmt.Errorf("%w: no zones", ErrMalformedConfig)
	}
	carriers := 0
	for i, rec := range d.Zones {
		if _, err := zone.ParseKind(rec.Kind); err != nil {
			return fmt.Errorf("%w: zone %d: %v", ErrMalformedConfig, i, err)
		}
		if _, err := zone.ParseSize(rec.Size); err != nil {
			return fmt.Errorf("%w: zone %d: %v", ErrMalformedConfig, i, err)
		}
		if rec.Special != "" && rec.Special != "weapon_crate" {
			return fmt.Errorf("%w: zone %d: unknown special %q", ErrMalformedConfig, i, rec.Special)
		}
		if rec.Kind == zone.CarrierSpawn.String() {
			carriers++
		}
	}
	if carriers != 1 {
		return fmt.Errorf("%w: expected exactly one carrier spawn, found %d", ErrMalformedConfig, carriers)
	}
	return nil
}

// Layout reconstructs the zone layout pinned by the document.
func (d *Document) Layout(bounds geom.Rect) (*zone.Layout, error) {
	layout := &zone.Layout{Bounds: bounds}
	for i, rec := range d.Zones {
		kind, err := zone.ParseKind(rec.Kind)
		if err != nil {
			return nil, fmt.Errorf("%w: zone %d: %v", ErrMalformedConfig, i, err)
		}
		size, err := zone.ParseSize(rec.Size)
		if err != nil {
			return nil, fmt.Errorf("%w: zone %d: %v", ErrMalformedConfig, i, err)
		}
		z := &zone.Zone{
			ID:     i + 1,
			Kind:   kind,
			Size:   size,
			Center: geom.Vec2{X: float64(rec.X), Z: float64(rec.Z)},
			Team:   zone.Neutral,
		}
		if rec.Special == "weapon_crate" {
			z.Special = zone.WeaponCrate
		}
		p := z.Center
		if !layout.Bounds.Occupies(p) {
			return nil, fmt.Errorf("%w: zone %d center (%d,%d) outside map", ErrMalformedConfig, i, rec.X, rec.Z)
		}
		layout.Zones = append(layout.Zones, z)
	}
	return layout, nil
}

// ConstructionSet rebuilds the pinned construction selection.
func (d *Document) ConstructionSet() *construction.Set {
	return &construction.Set{
		Vehicles:   d.Construction.Vehicles,
		Weapons:    d.Construction.Weapons,
		Addons:     d.Construction.Addons,
		Companions: d.Construction.Companions,
	}
}

// CountsChanged reports whether the requested zone counts differ from the
// recorded layout. A changed count forces fresh zone placement; everything
// else replays from the pinned seed.
func (d *Document) CountsChanged(req zone.Request) bool {
	return req.BaseCount != d.BaseCount ||
		req.ScrapCount != d.ScrapCount ||
		req.PumpCount != d.PumpCount
}
