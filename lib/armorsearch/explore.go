// Copyright (C) 2022  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

package armorsearch

import (
	"context"
	"sort"

	"github.com/mhbuild/armorquest/lib/armor"
	"github.com/mhbuild/armorquest/lib/armorpool"
	"github.com/mhbuild/armorquest/lib/maps"
)

// SkillFeasibility is one "explore" trial's outcome: whether adding
// SkillID (at its lowest positive point value) to baseQuery still
// yields at least one ArmorSet.
type SkillFeasibility struct {
	SkillID  armor.SkillID
	Feasible bool
}

// Explore iterates every skill id that some catalog piece or jewel
// references and that is not already present in baseQuery.Effects
// (skill systems no row references are not tried), building the
// foundation once and reusing it
// across trials via PushSnapshot/RestoreSnapshot.
func (d Driver) Explore(ctx context.Context, catalog *armor.Catalog, baseQuery Query) ([]SkillFeasibility, error) {
	catalog.SetAmulets(baseQuery.Amulets)

	present := make(map[armor.SkillID]bool, len(baseQuery.Effects))
	for _, e := range baseQuery.Effects {
		present[e.SkillID] = true
	}

	base := make([]Effect, len(baseQuery.Effects))
	copy(base, baseQuery.Effects)
	sort.SliceStable(base, func(i, j int) bool {
		return EffectScore(catalog, base[i]) < EffectScore(catalog, base[j])
	})

	foundationN := FoundationNum
	if len(base) < foundationN {
		foundationN = len(base)
	}
	slots := make([]armor.SkillID, foundationN)
	for i := 0; i < foundationN; i++ {
		slots[i] = base[i].SkillID
	}

	var pool armorpool.Pool
	forest := BuildFoundation(&pool, catalog, baseQuery.ArmorFilter, slots)
	snapshot := pool.PushSnapshot()

	var candidates []armor.SkillID
	for _, id := range maps.SortedKeys(catalogSkillIDs(catalog)) {
		if !present[id] {
			candidates = append(candidates, id)
		}
	}

	results := make([]SkillFeasibility, 0, len(candidates))
	for _, skill := range candidates {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		sys, _ := catalog.SkillSystem(skill)
		threshold := sys.LowestPositivePoints
		if threshold <= 0 {
			threshold = 1
		}

		trialEffects := append(append([]Effect(nil), base...), Effect{SkillID: skill, Points: threshold})
		feasible := trialFeasible(&pool, catalog, baseQuery, forest, slots, trialEffects, foundationN)
		results = append(results, SkillFeasibility{SkillID: skill, Feasible: feasible})

		pool.RestoreSnapshot(snapshot)
	}
	return results, nil
}

func catalogSkillIDs(catalog *armor.Catalog) map[armor.SkillID]struct{} {
	// There is no direct accessor for "all skill ids"; Explore needs
	// one, so probe via SkillSystem across a generous id range is
	// wrong in general — instead accumulate ids actually referenced
	// by catalog rows, which is every id Explore could usefully try.
	out := make(map[armor.SkillID]struct{})
	for _, part := range armor.Parts {
		for _, p := range catalog.Pieces(part, nil) {
			for _, e := range p.Effects {
				out[e.SkillID] = struct{}{}
			}
		}
	}
	for _, j := range catalog.Jewels(nil) {
		for _, e := range j.Effects {
			out[e.SkillID] = struct{}{}
		}
	}
	return out
}

// trialFeasible runs the remaining pipeline stages on top of the
// already-built foundation forest for one extended effect list,
// without rebuilding the foundation. forest's ids stay valid across
// trials because each trial's own allocations are rolled back by
// RestoreSnapshot before the next one starts.
func trialFeasible(pool *armorpool.Pool, catalog *armor.Catalog, baseQuery Query, forest []armorpool.ORID, slots []armor.SkillID, effects []Effect, foundationN int) bool {
	filtered := buildPipeline(pool, catalog, baseQuery.JewelFilter, baseQuery.Defense, forest, slots, effects, foundationN)
	_, ok := filtered.Next()
	return ok
}
