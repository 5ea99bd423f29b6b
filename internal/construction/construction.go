// Package construction selects the vehicles, weapons, addons and soulcatcher
// companions available for building in a generated level.
package construction

import (
	"errors"
	"fmt"
	"slices"

	"go.uber.org/zap"

	"github.com/hwforge/mapgen/internal/noise"
)

// ErrCatalogInsufficient is returned when a catalog cannot hold the mandatory
// items. Surfaced at validation time, before any generation work.
var ErrCatalogInsufficient = errors.New("construction catalog insufficient")

// Category names a construction catalog.
type Category string

const (
	Vehicles   Category = "vehicles"
	Weapons    Category = "weapons"
	Addons     Category = "addons"
	Companions Category = "companions"
)

// MinCompanions is the minimum soulcatcher companion count per level.
const MinCompanions = 6

// Catalogs holds the item identifiers available for selection.
type Catalogs struct {
	Vehicles   []string
	Weapons    []string
	Addons     []string
	Companions []string
}

// DefaultCatalogs returns the stock game's buildable item identifiers.
func DefaultCatalogs() Catalogs {
	return Catalogs{
		Vehicles: []string{
			"Pegasus", "Scarab", "Chopper", "HeavyTank", "Supertank",
			"Superchopper", "Hovertank", "Reconbuggy", "Staticplatform",
			"Bomber", "Superhover",
		},
		Weapons: []string{
			"Minigun", "Missile", "Flamer", "Lobber", "EMP", "Laser",
		},
		Addons: []string{
			"Soulcatcher", "Recycler", "Armour", "Cooler", "Shield",
			"Cloak", "Repair",
		},
		Companions: []string{
			"Ransom", "Borden", "Madsen", "Sinclair", "Kroker",
			"Patton", "Korolev", "Elroy", "Kenzie", "Lazare",
		},
	}
}

// Rule declares one item that must be present in every generated set.
type Rule struct {
	Category Category
	Item     string
}

// AnyOfRule declares a group of which at least one item must be present.
type AnyOfRule struct {
	Category Category
	Items    []string
}

// MandatoryRules lists always-include items. Without Pegasus and Scarab the
// player cannot harvest scrap or lift units, and without the soulcatcher and
// recycler addons the economy deadlocks, so they ship in every level.
var MandatoryRules = []Rule{
	{Vehicles, "Pegasus"},
	{Vehicles, "Scarab"},
	{Addons, "Soulcatcher"},
	{Addons, "Recycler"},
}

// AnyOfRules lists at-least-one groups: some defensive addon must exist.
var AnyOfRules = []AnyOfRule{
	{Addons, []string{"Shield", "Armour"}},
}

// Set is an immutable construction selection.
type Set struct {
	Vehicles   []string
	Weapons    []string
	Addons     []string
	Companions []string
}

// Items returns the selection for one category.
func (s *Set) Items(cat Category) []string {
	switch cat {
	case Vehicles:
		return s.Vehicles
	case Weapons:
		return s.Weapons
	case Addons:
		return s.Addons
	case Companions:
		return s.Companions
	}
	return nil
}

// Contains reports whether the category selection includes item.
func (s *Set) Contains(cat Category, item string) bool {
	return slices.Contains(s.Items(cat), item)
}

// Validate checks the catalogs against capacity and mandatory rules. It is
// the only place a CatalogInsufficient error originates, so a bad config
// fails before any terrain work begins.
func Validate(c Catalogs) error {
	if len(c.Companions) < MinCompanions {
		return fmt.Errorf("%w: %d companions, need at least %d",
			ErrCatalogInsufficient, len(c.Companions), MinCompanions)
	}
	for _, rule := range MandatoryRules {
		if !slices.Contains(c.items(rule.Category), rule.Item) {
			return fmt.Errorf("%w: mandatory %s %q missing from catalog",
				ErrCatalogInsufficient, rule.Category, rule.Item)
		}
	}
	for _, rule := range AnyOfRules {
		found := false
		for _, item := range rule.Items {
			if slices.Contains(c.items(rule.Category), item) {
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("%w: none of %v present in %s catalog",
				ErrCatalogInsufficient, rule.Items, rule.Category)
		}
	}
	return nil
}

func (c Catalogs) items(cat Category) []string {
	switch cat {
	case Vehicles:
		return c.Vehicles
	case Weapons:
		return c.Weapons
	case Addons:
		return c.Addons
	case Companions:
		return c.Companions
	}
	return nil
}

// Includes are extra items the map config forces into the selection.
type Includes struct {
	Vehicles   []string
	Weapons    []string
	Addons     []string
	Companions []string
}

// Select draws a construction set from the catalogs. Random draws happen
// without replacement up to category targets; mandatory items not already
// drawn are reconciled in afterwards. Validate must have passed first.
func Select(c Catalogs, inc Includes, gen *noise.Generator, log *zap.Logger) (*Set, error) {
	if err := Validate(c); err != nil {
		return nil, err
	}

	set := &Set{
		Vehicles:   noise.Sample(gen, c.Vehicles, 2, len(c.Vehicles)),
		Weapons:    selectWeapons(c.Weapons, gen),
		Addons:     noise.Sample(gen, c.Addons, 1, len(c.Addons)),
		Companions: noise.Sample(gen, c.Companions, MinCompanions, len(c.Companions)),
	}

	forceInclude(set, Vehicles, inc.Vehicles, c, log)
	forceInclude(set, Weapons, inc.Weapons, c, log)
	forceInclude(set, Addons, inc.Addons, c, log)
	forceInclude(set, Companions, inc.Companions, c, log)

	// Post-draw reconciliation of the declarative mandatory rules.
	for _, rule := range MandatoryRules {
		appendMissing(set, rule.Category, rule.Item)
	}
	for _, rule := range AnyOfRules {
		satisfied := false
		for _, item := range rule.Items {
			if set.Contains(rule.Category, item) {
				satisfied = true
				break
			}
		}
		if !satisfied {
			appendMissing(set, rule.Category, noise.Pick(gen, rule.Items))
		}
	}

	log.Info("construction selected",
		zap.Strings("vehicles", set.Vehicles),
		zap.Strings("weapons", set.Weapons),
		zap.Strings("addons", set.Addons),
		zap.Strings("companions", set.Companions))
	return set, nil
}

// selectWeapons always considers the basic pair, guarantees at least one
// non-EMP weapon, then maybe extras.
func selectWeapons(catalog []string, gen *noise.Generator) []string {
	var picked []string
	for _, basic := range []string{"Minigun", "Missile"} {
		if slices.Contains(catalog, basic) && gen.IntN(2) == 0 {
			picked = append(picked, basic)
		}
	}
	var nonEMP []string
	for _, w := range catalog {
		if w != "EMP" && !slices.Contains(picked, w) {
			nonEMP = append(nonEMP, w)
		}
	}
	if len(nonEMP) > 0 && !hasNonEMP(picked) {
		picked = append(picked, noise.Pick(gen, nonEMP))
	}
	for _, w := range noise.Sample(gen, catalog, 0, len(catalog)) {
		if !slices.Contains(picked, w) {
			picked = append(picked, w)
		}
	}
	if len(picked) == 0 {
		picked = append(picked, catalog[0])
	}
	return picked
}

func hasNonEMP(items []string) bool {
	for _, w := range items {
		if w != "EMP" {
			return true
		}
	}
	return false
}

func forceInclude(set *Set, cat Category, items []string, c Catalogs, log *zap.Logger) {
	for _, item := range items {
		if !slices.Contains(c.items(cat), item) {
			log.Warn("requested item not in catalog, skipped",
				zap.String("category", string(cat)), zap.String("item", item))
			continue
		}
		appendMissing(set, cat, item)
	}
}

func appendMissing(set *Set, cat Category, item string) {
	if set.Contains(cat, item) {
		return
	}
	switch cat {
	case Vehicles:
		set.Vehicles = append(set.Vehicles, item)
	case Weapons:
		set.Weapons = append(set.Weapons, item)
	case Addons:
		set.Addons = append(set.Addons, item)
	case Companions:
		set.Companions = append(set.Companions, item)
	}
}

// SpareWeapon returns a weapon from the catalog absent from the set, used by
// weapon-crate scrap zones to gift something new. Returns "" if the set
// already covers the catalog.
func SpareWeapon(c Catalogs, set *Set, gen *noise.Generator) string {
	var spare []string
	for _, w := range c.Weapons {
		if !set.Contains(Weapons, w) {
			spare = append(spare, w)
		}
	}
	if len(spare) == 0 {
		return ""
	}
	return noise.Pick(gen, spare)
}

// StartingEnergy draws the level's starting EJ budget.
func StartingEnergy(gen *noise.Generator) int {
	return gen.IntRange(12, 33) * 250
}
