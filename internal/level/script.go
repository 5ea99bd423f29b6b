package level

import (
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/hwforge/mapgen/internal/construction"
	"github.com/hwforge/mapgen/internal/noise"
	"github.com/hwforge/mapgen/internal/zone"
	"github.com/hwforge/mapgen/pkg/formats"
)

const patrolRouteName = "patrol1"

// Trigger record names the generator appends actions to.
const (
	recordBuildSetup    = "BUILD_SETUP"
	recordPatrol        = "HWAE patrol 1"
	recordCarrierShells = "HWAE set carrier shells"
	recordWeaponReady   = "HWAE_zone_specific weapon ready"
)

// baseScript is the mission skeleton every generated level starts from. The
// generator only ever appends actions to these records; conditions stay fixed.
const baseScript = `AIRS
Trigger: "BUILD_SETUP" : AIS_SPECIFICPLAYER : 0 : BOOL_OR
{
Condition: AICond_TimeElapsed
  0
}

Trigger: "HWAE patrol 1" : AIS_SPECIFICPLAYER : 7 : BOOL_OR
{
Condition: AICond_TimeElapsed
  0
}

Trigger: "HWAE set carrier shells" : AIS_SPECIFICPLAYER : 0 : BOOL_OR
{
Condition: AICond_TimeElapsed
  0
}

Trigger: "HWAE destroy all win" : AIS_SPECIFICPLAYER : 0 : BOOL_AND
{
Condition: AICond_NoUnitOfTypeExists
  AlienGroundProd
Condition: AICond_NoUnitOfTypeExists
  AlienProdTower
Condition: AICond_NoUnitOfTypeExists
  AlienLargeProd
Action: AIScript_MissionOver
  AIS_MISSIONOVER_WIN
}

Trigger: "HWAE carrier lost" : AIS_SPECIFICPLAYER : 0 : BOOL_OR
{
Condition: AICond_NoUnitOfTypeExists
  Carrier
Action: AIScript_MissionOver
  AIS_MISSIONOVER_LOSE
}
`

// weaponCrateScript is merged in only when the layout carries a weapon crate
// scrap zone.
const weaponCrateScript = `
Trigger: "HWAE_zone_specific weapon ready" : AIS_SPECIFICPLAYER : 0 : BOOL_AND
{
Condition: AICond_PlayerInArea
  near_crate_zone
Condition: AICond_TimeElapsed
  30
}

Trigger: "HWAE_zone_specific crate prompt" : AIS_SPECIFICPLAYER : 0 : BOOL_OR
{
Condition: AICond_PlayerInArea
  near_crate_zone
Action: AIScript_ShowText
  hwae_weapon_crate__sample_crate
}
`

// buildScript assembles the full trigger script: the base skeleton, building
// availability, patrol routes, carrier shells and optional weapon crate
// logic.
func buildScript(p Params, flyerIDs []int, ail *formats.AIL, ait *formats.AIT, gen *noise.Generator, log *zap.Logger) (*formats.ARS, error) {
	ars, err := formats.ParseARS([]byte(baseScript))
	if err != nil {
		return nil, fmt.Errorf("base mission script: %w", err)
	}

	if err := addBuildSetup(ars, p.Set); err != nil {
		return nil, err
	}

	// The route id the engine expects is 0-based.
	for _, id := range flyerIDs {
		if err := ars.AddAction(recordPatrol, "AIScript_AssignRoute",
			strconv.Quote(patrolRouteName), strconv.Itoa(id-1)); err != nil {
			return nil, err
		}
	}

	if err := ars.AddAction(recordCarrierShells, "AIScript_SetCarrierShells",
		strconv.Itoa(p.Shells)); err != nil {
		return nil, err
	}

	if crate := weaponCrateZone(p.Layout); crate != nil {
		if err := addWeaponCrate(ars, ail, ait, p, crate, gen, log); err != nil {
			return nil, err
		}
	}
	return ars, nil
}

// addBuildSetup makes every selected item buildable by the player.
func addBuildSetup(ars *formats.ARS, set *construction.Set) error {
	for _, cat := range []construction.Category{
		construction.Vehicles, construction.Weapons,
		construction.Addons, construction.Companions,
	} {
		for _, item := range set.Items(cat) {
			if err := ars.AddAction(recordBuildSetup, "AIScript_MakeAvailableForBuilding",
				"AIS_SPECIFICPLAYER : 0",
				"AIS_UNITTYPE_SPECIFIC : "+item); err != nil {
				return err
			}
		}
	}
	return nil
}

func weaponCrateZone(layout *zone.Layout) *zone.Zone {
	for _, z := range layout.Zones {
		if z.Special == zone.WeaponCrate {
			return z
		}
	}
	return nil
}

// addWeaponCrate merges the crate trigger fragment, defines the crate
// proximity area, and grants a weapon the player did not start with.
func addWeaponCrate(ars *formats.ARS, ail *formats.AIL, ait *formats.AIT, p Params, crate *zone.Zone, gen *noise.Generator, log *zap.Logger) error {
	if err := ars.Merge([]byte(weaponCrateScript)); err != nil {
		return fmt.Errorf("weapon crate script: %w", err)
	}
	ait.AddText("hwae_weapon_crate__sample_crate", "Sample the weapon crate")

	x, z := int(crate.Center.X), int(crate.Center.Z)
	ail.AddArea("near_crate_zone", [4]int{z - 30, x - 30, z + 30, x + 30})

	spare := construction.SpareWeapon(p.Catalogs, p.Set, gen)
	if spare == "" {
		log.Info("no spare weapon left for crate reward")
		return nil
	}
	log.Info("weapon crate reward selected", zap.String("weapon", spare))
	if err := ars.AddAction(recordWeaponReady, "AIScript_MakeAvailableForBuilding",
		"AIS_SPECIFICPLAYER : 0",
		"AIS_UNITTYPE_SPECIFIC : "+spare); err != nil {
		return err
	}
	ait.AddText("hwae_weapon_crate__weapon_ready_in",
		fmt.Sprintf("New weapon (%s) ready in:", spare))
	return nil
}
