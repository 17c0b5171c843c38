// Copyright (C) 2022  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

package armorsearch

import "github.com/mhbuild/armorquest/lib/armor"

// EffectScore estimates how restrictive a requested effect is: the
// fraction of catalog pieces (across all five parts) that contribute
// any positive points to the skill, scaled by the skill's
// lowest-positive-points value. Lower scores mean rarer or
// harder-to-satisfy skills; the driver sorts effects ascending by
// this score so the cheapest, most-pruning constraints run first.
func EffectScore(catalog *armor.Catalog, effect Effect) float64 {
	var total, contributing int
	for _, part := range armor.Parts {
		pieces := catalog.Pieces(part, nil)
		total += len(pieces)
		for _, p := range pieces {
			for _, e := range p.Effects {
				if e.SkillID == effect.SkillID && e.Points > 0 {
					contributing++
					break
				}
			}
		}
	}

	fraction := 1.0
	if total > 0 {
		fraction = float64(contributing) / float64(total)
	}

	lowest := 1
	if sys, ok := catalog.SkillSystem(effect.SkillID); ok && sys.LowestPositivePoints > 0 {
		lowest = sys.LowestPositivePoints
	}
	return fraction * float64(lowest)
}
