// Copyright (C) 2022  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

package armorsearch

import (
	"github.com/mhbuild/armorquest/lib/armor"
	"github.com/mhbuild/armorquest/lib/armorpool"
	"github.com/mhbuild/armorquest/lib/armorsig"
)

// pieceSignature computes a piece's foundation-stage signature:
// points in the tracked slots, socket counts, and (body pieces
// only) the piece's own torso-up value folded into Multiplier so
// that pieces with different torso-up values are never coalesced
// into the same foundation group. Multiplier is 1 for every other
// part, the neutral "not yet amplified" value; for a body piece it
// holds the torso-up value itself (0 when the piece has no
// torso-up effect at all), since mergeForests reads it back out as
// the m in BodyRefactor(m+1) — a body piece with no torso-up skill
// must refactor by 1, i.e. leave the other four parts unscaled.
func pieceSignature(piece armor.Piece, slots []armor.SkillID, part armor.PartID, torsoUp armor.SkillID) armorsig.Signature {
	sig := armorsig.New()
	for i, slot := range slots {
		for _, e := range piece.Effects {
			if e.SkillID == slot {
				sig.Points[i] += int32(e.Points)
			}
		}
	}
	if piece.Holes > 0 && piece.HoleSize >= 1 && piece.HoleSize <= 3 {
		sig.Holes[piece.HoleSize-1] = uint8(piece.Holes)
	}
	if part == armor.BODY {
		sig.Multiplier = 0
		for _, e := range piece.Effects {
			if e.SkillID == torsoUp && e.Points > 0 {
				sig.Multiplier = uint8(e.Points)
			}
		}
	}
	return sig
}

// buildPartForest groups one part's (filtered) pieces by identical
// foundation signature, emitting one ARMORS OR-node per group.
func buildPartForest(pool *armorpool.Pool, catalog *armor.Catalog, part armor.PartID, filter armor.ArmorFilter, slots []armor.SkillID) []armorpool.ORID {
	pieces := catalog.Pieces(part, filter)
	groups := make(map[armorsig.Signature][]int)
	var order []armorsig.Signature
	for _, piece := range pieces {
		sig := pieceSignature(piece, slots, part, catalog.TorsoUp())
		if _, ok := groups[sig]; !ok {
			order = append(order, sig)
		}
		groups[sig] = append(groups[sig], int(piece.ID))
	}

	forest := make([]armorpool.ORID, 0, len(order))
	for _, sig := range order {
		forest = append(forest, pool.MakeOR(armorpool.ARMORS, sig, int(part), groups[sig]))
	}
	return forest
}

// mergeForests pairs every OR-node of left with every OR-node of
// right, creating one AND-node per pair, then groups the resulting
// AND-nodes by combined key into fresh ANDS OR-nodes. isBody
// triggers the BodyRefactor rule on the accumulated (left) side:
// non-body parts accumulate first, then the body forest is merged
// in; only the amulet forest follows it.
func mergeForests(pool *armorpool.Pool, left, right []armorpool.ORID, isBody bool) []armorpool.ORID {
	groups := make(map[armorsig.Signature][]int)
	var order []armorsig.Signature

	for _, l := range left {
		for _, r := range right {
			leftKey := pool.Or(l).Key
			rightKey := pool.Or(r).Key

			var combined armorsig.Signature
			if isBody {
				m := rightKey.Multiplier
				refactored := armorsig.BodyRefactor(leftKey, m+1)
				combined = armorsig.Add(refactored, rightKey)
			} else {
				combined = armorsig.Add(leftKey, rightKey)
			}

			andID := pool.MakeAnd(l, r)
			if _, ok := groups[combined]; !ok {
				order = append(order, combined)
			}
			groups[combined] = append(groups[combined], int(andID))
		}
	}

	out := make([]armorpool.ORID, 0, len(order))
	for _, sig := range order {
		out = append(out, pool.MakeOR(armorpool.ANDS, sig, 0, groups[sig]))
	}
	return out
}

// NoAmuletSentinel is the ARMORS-leaf piece index meaning "amulet
// slot left empty", distinct from the -1 "not yet assigned" value
// rawTuple uses during expansion (see iterators.go) and from any
// legitimate armor.PieceID, which starts at 0.
const NoAmuletSentinel = -2

// buildAmuletForest groups the query's spliced-in amulets (already
// installed on catalog via Catalog.SetAmulets) the same way
// buildPartForest groups a body part's pieces, plus one extra group
// — the zero signature tagged with NoAmuletSentinel — so that
// wearing no amulet is always a candidate alongside every supplied
// one. That is how "optional" is represented inside the DAG rather
// than bolted on after expansion.
func buildAmuletForest(pool *armorpool.Pool, catalog *armor.Catalog, filter armor.ArmorFilter, slots []armor.SkillID) []armorpool.ORID {
	pieces := catalog.Pieces(armor.AMULET, filter)
	groups := make(map[armorsig.Signature][]int)
	var order []armorsig.Signature

	none := armorsig.New()
	groups[none] = append(groups[none], NoAmuletSentinel)
	order = append(order, none)

	for _, piece := range pieces {
		sig := pieceSignature(piece, slots, armor.AMULET, catalog.TorsoUp())
		if _, ok := groups[sig]; !ok {
			order = append(order, sig)
		}
		groups[sig] = append(groups[sig], int(piece.ID))
	}

	forest := make([]armorpool.ORID, 0, len(order))
	for _, sig := range order {
		forest = append(forest, pool.MakeOR(armorpool.ARMORS, sig, int(armor.AMULET), groups[sig]))
	}
	return forest
}

// BuildFoundation constructs the full forest for the given slot
// mapping (the first FoundationNum reordered query effects): the
// five body parts merged HEAD, HANDS, WAIST, FEET (plain merges),
// then BODY (the merge that triggers BodyRefactor), then the
// optional AMULET slot merged in last as a plain (non-body) merge.
func BuildFoundation(pool *armorpool.Pool, catalog *armor.Catalog, filter armor.ArmorFilter, slots []armor.SkillID) []armorpool.ORID {
	head := buildPartForest(pool, catalog, armor.HEAD, filter, slots)
	hands := buildPartForest(pool, catalog, armor.HANDS, filter, slots)
	waist := buildPartForest(pool, catalog, armor.WAIST, filter, slots)
	feet := buildPartForest(pool, catalog, armor.FEET, filter, slots)
	body := buildPartForest(pool, catalog, armor.BODY, filter, slots)
	amulet := buildAmuletForest(pool, catalog, filter, slots)

	acc := mergeForests(pool, head, hands, false)
	acc = mergeForests(pool, acc, waist, false)
	acc = mergeForests(pool, acc, feet, false)
	acc = mergeForests(pool, acc, body, true)
	acc = mergeForests(pool, acc, amulet, false)
	return acc
}
