// Copyright (C) 2022  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

package armorformat

import (
	"sort"

	"github.com/mhbuild/armorquest/lib/armor"
	"github.com/mhbuild/armorquest/lib/armorsearch"
)

// Formatter is the per-query context every drain-mode formatter
// needs: the catalog for name lookups, the jewel filter the query
// itself used (so PlanJewels never proposes a jewel the query
// excluded), and Slots, the EffectScore-sorted skill order a
// surviving ArmorSet's Key/JewelKey signature slots line up with —
// the same order armorsearch.Driver computed internally, recomputed
// here since ArmorSet carries no slot mapping of its own.
type Formatter struct {
	Catalog     *armor.Catalog
	JewelFilter armor.JewelFilter
	Slots       []armor.SkillID
}

// NewFormatter reorders queryEffects exactly the way Driver.Search
// does before building the foundation, so a formatter consuming that
// search's ResultStream can attribute each signature slot back to
// the SkillID it tracks.
func NewFormatter(catalog *armor.Catalog, jewelFilter armor.JewelFilter, queryEffects []armorsearch.Effect) *Formatter {
	effects := append([]armorsearch.Effect(nil), queryEffects...)
	sort.SliceStable(effects, func(i, j int) bool {
		return armorsearch.EffectScore(catalog, effects[i]) < armorsearch.EffectScore(catalog, effects[j])
	})
	slots := make([]armor.SkillID, len(effects))
	for i, e := range effects {
		slots[i] = e.SkillID
	}
	return &Formatter{Catalog: catalog, JewelFilter: jewelFilter, Slots: slots}
}

func (f *Formatter) plan(set armorsearch.ArmorSet) []SocketPlacement {
	return PlanJewels(f.Catalog, f.JewelFilter, f.Slots, set)
}
