// Copyright (C) 2022  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

package armorsearch

import (
	"context"
	"fmt"
	"sort"

	"github.com/mhbuild/armorquest/lib/armor"
	"github.com/mhbuild/armorquest/lib/armorjewel"
	"github.com/mhbuild/armorquest/lib/armorpool"
	"github.com/mhbuild/armorquest/lib/armorsig"
	"github.com/mhbuild/armorquest/lib/armorsplit"
)

// ErrNegativeMaxResults is an input error: a query must not request
// a negative truncation count.
type ErrNegativeMaxResults struct {
	MaxResults int
}

func (e *ErrNegativeMaxResults) Error() string {
	return fmt.Sprintf("max_results must be >= 0, got %d", e.MaxResults)
}

func (e *ErrNegativeMaxResults) Is(target error) bool {
	_, ok := target.(*ErrNegativeMaxResults)
	return ok
}

// Driver orders a query's effects by estimated restrictiveness,
// assembles the iterator pipeline, and drains up to MaxResults
// ArmorSets.
type Driver struct{}

// Search builds and returns a ResultStream for query against
// catalog. The pipeline is cooperative and has no asynchronous
// suspension, so ctx is never checked here; it is accepted only so
// cmd/armorquest can bound catalog-adjacent work uniformly.
func (Driver) Search(_ context.Context, catalog *armor.Catalog, query Query) (*ResultStream, error) {
	if query.MaxResults < 0 {
		return nil, &ErrNegativeMaxResults{MaxResults: query.MaxResults}
	}
	catalogEffects := make([]armor.Effect, len(query.Effects))
	for i, e := range query.Effects {
		catalogEffects[i] = armor.Effect{SkillID: e.SkillID, Points: e.Points}
	}
	if err := catalog.CheckEffects(catalogEffects); err != nil {
		return nil, err
	}

	catalog.SetAmulets(query.Amulets)

	effects := make([]Effect, len(query.Effects))
	copy(effects, query.Effects)
	sort.SliceStable(effects, func(i, j int) bool {
		return EffectScore(catalog, effects[i]) < EffectScore(catalog, effects[j])
	})

	if len(effects) == 0 {
		empty := func() (ArmorSet, bool) { return ArmorSet{}, false }
		return &ResultStream{next: empty}, nil
	}

	foundationN := FoundationNum
	if len(effects) < foundationN {
		foundationN = len(effects)
	}
	slots := make([]armor.SkillID, foundationN)
	for i := 0; i < foundationN; i++ {
		slots[i] = effects[i].SkillID
	}

	var pool armorpool.Pool
	forest := BuildFoundation(&pool, catalog, query.ArmorFilter, slots)

	filtered := buildPipeline(&pool, catalog, query.JewelFilter, query.Defense, forest, slots, effects, foundationN)

	remaining := query.MaxResults
	next := func() (ArmorSet, bool) {
		if remaining <= 0 {
			return ArmorSet{}, false
		}
		set, ok := filtered.Next()
		if !ok {
			return ArmorSet{}, false
		}
		remaining--
		return set, true
	}
	return &ResultStream{next: next}, nil
}

// buildPipeline assembles the jewel-filter, skill-split,
// expansion, and defense-filter stages on top of an already-built
// foundation forest. Shared by Driver.Search and Driver.Explore's
// per-trial pipeline so the two never drift apart.
func buildPipeline(pool *armorpool.Pool, catalog *armor.Catalog, jewelFilter armor.JewelFilter, defense int, forest []armorpool.ORID, slots []armor.SkillID, effects []Effect, foundationN int) *defenseFilterIter {
	var stage rootIter = newFoundationIter(pool, forest)

	// One jewel-filter stage per foundation skill, each testing the
	// cumulative thresholds up to and including its own, so the
	// cheapest skill prunes before the second is even considered.
	hc := armorjewel.NewHoleClient(catalog, jewelFilter, slots)
	for i := 0; i < foundationN; i++ {
		inverse := armorsig.InverseKey(pointsOf(effects[:i+1]))
		stage = newJewelFilterIter(stage, pool, hc, inverse)
	}

	if len(effects) > foundationN {
		splitter := armorsplit.New(pool, pieceLookup(catalog))
		activeSlots := append([]armor.SkillID(nil), slots...)
		for i := foundationN; i < len(effects); i++ {
			activeSlots = append(activeSlots, effects[i].SkillID)
			stageHC := armorjewel.NewHoleClient(catalog, jewelFilter, activeSlots)
			inverse := armorsig.InverseKey(pointsOf(effects[:i+1]))
			stage = newSkillSplitIter(stage, pool, splitter, stageHC, inverse, effects[i].SkillID, i, int32(effects[i].Points))
		}
	}

	allSlots := make([]armor.SkillID, len(effects))
	for i, e := range effects {
		allSlots[i] = e.SkillID
	}
	expansion := newExpansionIter(stage, pool, catalog, allSlots, armorsig.InverseKey(pointsOf(effects)))
	return newDefenseFilterIter(expansion, defense)
}

func pointsOf(effects []Effect) []int32 {
	out := make([]int32, len(effects))
	for i, e := range effects {
		out[i] = int32(e.Points)
	}
	return out
}

func pieceLookup(catalog *armor.Catalog) armorsplit.PieceLookup {
	return func(part int, pieceIdx int, skill armor.SkillID) int32 {
		p, ok := catalog.PieceByID(armor.PartID(part), armor.PieceID(pieceIdx))
		if !ok {
			return 0
		}
		var total int32
		for _, e := range p.Effects {
			if e.SkillID == skill {
				total += int32(e.Points)
			}
		}
		return total
	}
}
