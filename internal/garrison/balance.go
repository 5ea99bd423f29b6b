package garrison

import (
	"sort"

	"go.uber.org/zap"

	"github.com/hwforge/mapgen/internal/zone"
)

// Balance assigns enemy-base zones to opposing teams with a running-minimum
// greedy rule: bases sorted by descending strength, each assigned to the
// currently weakest team. Not globally optimal, but the pairwise team
// strength difference never exceeds the strength of the single largest base.
func Balance(garrisons []*Garrison, teams int, log *zap.Logger) map[zone.TeamID]int {
	if teams < 2 {
		teams = 2
	}

	bases := make([]*Garrison, 0, len(garrisons))
	for _, g := range garrisons {
		if g.Zone.Kind == zone.EnemyBase {
			bases = append(bases, g)
		}
	}
	// Stable order for equal strengths keeps fixed seeds reproducible.
	sort.SliceStable(bases, func(i, j int) bool {
		si, sj := bases[i].Strength(), bases[j].Strength()
		if si != sj {
			return si > sj
		}
		return bases[i].Zone.ID < bases[j].Zone.ID
	})

	totals := make(map[zone.TeamID]int, teams)
	for t := 1; t <= teams; t++ {
		totals[zone.TeamID(t)] = 0
	}
	for _, g := range bases {
		weakest := zone.TeamID(1)
		for t := 2; t <= teams; t++ {
			if totals[zone.TeamID(t)] < totals[weakest] {
				weakest = zone.TeamID(t)
			}
		}
		g.Zone.Team = weakest
		totals[weakest] += g.Strength()
		log.Info("assigned base to team",
			zap.String("zone", g.Zone.String()),
			zap.Int("team", int(weakest)),
			zap.Int("strength", g.Strength()))
	}
	return totals
}
