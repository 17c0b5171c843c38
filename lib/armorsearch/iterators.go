// Copyright (C) 2022  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

package armorsearch

import (
	"github.com/mhbuild/armorquest/lib/armor"
	"github.com/mhbuild/armorquest/lib/armorjewel"
	"github.com/mhbuild/armorquest/lib/armorpool"
	"github.com/mhbuild/armorquest/lib/armorsig"
	"github.com/mhbuild/armorquest/lib/armorsplit"
)

// rootIter is the small capability interface every pipeline stage
// implements: cooperative, single-threaded, no stage re-entrant.
type rootIter interface {
	Next() (TreeRoot, bool)
}

// sliceIter is the Foundation iterator: it yields every TreeRoot in
// the foundation forest in arena order, JewelKeys empty.
type sliceIter struct {
	pool  *armorpool.Pool
	roots []armorpool.ORID
	i     int
}

func newFoundationIter(pool *armorpool.Pool, roots []armorpool.ORID) *sliceIter {
	return &sliceIter{pool: pool, roots: roots}
}

func (it *sliceIter) Next() (TreeRoot, bool) {
	if it.i >= len(it.roots) {
		return TreeRoot{}, false
	}
	id := it.roots[it.i]
	it.i++
	return TreeRoot{ID: id, TorsoMultiplier: it.pool.Or(id).Key.Multiplier}, true
}

// jewelFilterIter is the jewel-filter stage: for each input root, consult
// the jewel sub-solver for candidate socket-fill signatures
// satisfying the thresholds accumulated so far.
type jewelFilterIter struct {
	upstream rootIter
	pool     *armorpool.Pool
	hc       *armorjewel.HoleClient
	inverse  armorsig.Signature
}

func newJewelFilterIter(upstream rootIter, pool *armorpool.Pool, hc *armorjewel.HoleClient, inverse armorsig.Signature) *jewelFilterIter {
	return &jewelFilterIter{upstream: upstream, pool: pool, hc: hc, inverse: inverse}
}

func (it *jewelFilterIter) Next() (TreeRoot, bool) {
	for {
		root, ok := it.upstream.Next()
		if !ok {
			return TreeRoot{}, false
		}
		key := it.pool.Or(root.ID).Key

		// Extensions of two different bases can collapse to the same
		// combined key; dedupe so downstream stages (and ultimately
		// expansion) never see the same candidate twice.
		var candidates []armorsig.Signature
		seen := make(map[armorsig.Signature]bool)
		add := func(c armorsig.Signature) {
			if !seen[c] {
				seen[c] = true
				candidates = append(candidates, c)
			}
		}
		if len(root.JewelKeys) == 0 {
			for _, j := range it.hc.Query(key) {
				if armorsig.Satisfy(armorsig.Or(key, j), it.inverse) {
					add(j)
				}
			}
		} else {
			for _, e := range root.JewelKeys {
				residual := armorjewel.GetResidual(key.Holes, e)
				for _, j := range it.hc.QueryResidual(residual[0], residual[1], residual[2], 0, key.Multiplier) {
					combined := armorsig.Add(e, j)
					if armorsig.Satisfy(armorsig.Or(key, combined), it.inverse) {
						add(combined)
					}
				}
			}
		}

		if len(candidates) == 0 {
			continue
		}
		root.JewelKeys = candidates
		return root, true
	}
}

// skillSplitIter is the skill-split stage: for skills beyond the
// foundation, tentatively assume the best achievable points, test
// feasibility via the jewel solver, then refine with
// SkillSplitter.Split and re-emit one TreeRoot per surviving sub-OR.
type skillSplitIter struct {
	upstream  rootIter
	pool      *armorpool.Pool
	splitter  *armorsplit.SkillSplitter
	hc        *armorjewel.HoleClient
	inverse   armorsig.Signature
	skill     armor.SkillID
	skillSlot int
	required  int32

	pending []TreeRoot
}

func newSkillSplitIter(upstream rootIter, pool *armorpool.Pool, splitter *armorsplit.SkillSplitter, hc *armorjewel.HoleClient, inverse armorsig.Signature, skill armor.SkillID, skillSlot int, required int32) *skillSplitIter {
	return &skillSplitIter{
		upstream: upstream, pool: pool, splitter: splitter, hc: hc,
		inverse: inverse, skill: skill, skillSlot: skillSlot, required: required,
	}
}

func (it *skillSplitIter) Next() (TreeRoot, bool) {
	for {
		if len(it.pending) > 0 {
			root := it.pending[0]
			it.pending = it.pending[1:]
			return root, true
		}

		root, ok := it.upstream.Next()
		if !ok {
			return TreeRoot{}, false
		}

		node := it.pool.Or(root.ID)
		subMax := it.splitter.Max(root.ID, it.skill)
		key0 := armorsig.AddPoints(node.Key, it.skillSlot, subMax)

		var survivors []armorsig.Signature
		seen := make(map[armorsig.Signature]bool)
		var subMin int32 = -1
		keep := func(c armorsig.Signature) {
			if seen[c] {
				return
			}
			seen[c] = true
			survivors = append(survivors, c)
			need := it.required - armorsig.GetPoints(c, it.skillSlot)
			if subMin == -1 || need < subMin {
				subMin = need
			}
		}
		for _, e := range root.JewelKeys {
			residual := armorjewel.GetResidual(node.Key.Holes, e)
			for _, j := range it.hc.QueryResidual(residual[0], residual[1], residual[2], 0, node.Key.Multiplier) {
				combined := armorsig.Add(e, j)
				if armorsig.Satisfy(armorsig.Or(key0, combined), it.inverse) {
					keep(combined)
				}
			}
		}
		if len(root.JewelKeys) == 0 {
			for _, j := range it.hc.Query(node.Key) {
				if armorsig.Satisfy(armorsig.Or(key0, j), it.inverse) {
					keep(j)
				}
			}
		}

		if len(survivors) == 0 {
			continue
		}
		if subMin < 0 {
			subMin = 0
		}

		subs := it.splitter.Split(root.ID, subMin, it.skill, it.skillSlot)
		for _, sub := range subs {
			// Each sub-OR's key differs from the parent's in this
			// skill slot only; candidates that survived against the
			// parent's optimistic upper bound may not survive the
			// sub-OR's own, so re-filter before emitting.
			subKey := it.pool.Or(sub).Key
			var subKeys []armorsig.Signature
			for _, s := range survivors {
				if armorsig.Satisfy(armorsig.Or(subKey, s), it.inverse) {
					subKeys = append(subKeys, s)
				}
			}
			if len(subKeys) == 0 {
				continue
			}
			it.pending = append(it.pending, TreeRoot{
				ID:              sub,
				TorsoMultiplier: root.TorsoMultiplier,
				JewelKeys:       subKeys,
			})
		}
	}
}

// expansionIter is the expansion stage: enumerate the cartesian product
// of piece choices down the AND/OR DAG, yielding one ArmorSet per
// (concrete piece tuple, jewel-key) pair. baseIndex identifies the
// originating TreeRoot for callers that need to group results.
//
// Upstream stages prune on per-node upper bounds; a concrete tuple
// under an AND-node can fall short of the bound its node advertised.
// Expansion therefore recomputes each tuple's actual signature and
// emits only (tuple, jewel-key) pairs that satisfy every query
// effect, which is what makes the emitted stream exact rather than
// merely plausible.
type expansionIter struct {
	upstream  rootIter
	pool      *armorpool.Pool
	catalog   *armor.Catalog
	slots     []armor.SkillID
	inverse   armorsig.Signature
	baseIndex int

	pending []ArmorSet
}

func newExpansionIter(upstream rootIter, pool *armorpool.Pool, catalog *armor.Catalog, slots []armor.SkillID, inverse armorsig.Signature) *expansionIter {
	return &expansionIter{upstream: upstream, pool: pool, catalog: catalog, slots: slots, inverse: inverse, baseIndex: -1}
}

// BaseIndex identifies the TreeRoot that produced the ArmorSet most
// recently returned by Next.
func (it *expansionIter) BaseIndex() int { return it.baseIndex }

func (it *expansionIter) Next() (ArmorSet, bool) {
	for {
		if len(it.pending) > 0 {
			set := it.pending[0]
			it.pending = it.pending[1:]
			return set, true
		}
		root, ok := it.upstream.Next()
		if !ok {
			return ArmorSet{}, false
		}
		it.baseIndex++

		tuples := expandTuples(it.pool, root.ID)
		for _, raw := range tuples {
			var tuple [5]armor.PieceID
			for i := 0; i < 5; i++ {
				tuple[i] = armor.PieceID(raw[i])
			}
			hasAmulet := raw[armor.AMULET] >= 0
			var amuletID armor.PieceID
			if hasAmulet {
				amuletID = armor.PieceID(raw[armor.AMULET])
			}
			actual := it.tupleSignature(tuple, hasAmulet, amuletID)
			defense := sumDefense(it.catalog, tuple, hasAmulet, amuletID)
			for _, jewelKey := range root.JewelKeys {
				if !armorsig.Satisfy(armorsig.Or(actual, jewelKey), it.inverse) {
					continue
				}
				it.pending = append(it.pending, ArmorSet{
					PieceIDs:  tuple,
					HasAmulet: hasAmulet,
					AmuletID:  amuletID,
					Defense:   defense,
					Key:       actual,
					JewelKey:  jewelKey,
				})
			}
		}
	}
}

// tupleSignature computes a concrete tuple's armor-only signature
// for the active skill slots: the four non-body parts accumulate
// first and are scaled by the body piece's torso-up value plus one,
// then the body piece and the amulet are added unscaled, mirroring
// the foundation's merge order.
func (it *expansionIter) tupleSignature(tuple [5]armor.PieceID, hasAmulet bool, amuletID armor.PieceID) armorsig.Signature {
	torsoUp := it.catalog.TorsoUp()
	slotIndex := make(map[armor.SkillID]int, len(it.slots))
	for i, skill := range it.slots {
		slotIndex[skill] = i
	}
	addEffects := func(sig *armorsig.Signature, effects []armor.Effect) {
		for _, e := range effects {
			if slot, ok := slotIndex[e.SkillID]; ok {
				sig.Points[slot] += int32(e.Points)
			}
		}
	}
	addHoles := func(sig *armorsig.Signature, p armor.Piece) {
		if p.Holes > 0 && p.HoleSize >= 1 && p.HoleSize <= 3 {
			sig.Holes[p.HoleSize-1] += uint8(p.Holes)
		}
	}

	var acc, rest armorsig.Signature
	var m uint8
	for _, part := range armor.Parts {
		p, ok := it.catalog.PieceByID(part, tuple[part])
		if !ok {
			continue
		}
		if part == armor.BODY {
			for _, e := range p.Effects {
				if e.SkillID == torsoUp && e.Points > 0 {
					m = uint8(e.Points)
				}
			}
			addEffects(&rest, p.Effects)
		} else {
			addEffects(&acc, p.Effects)
		}
		addHoles(&rest, p)
	}
	if hasAmulet {
		if p, ok := it.catalog.PieceByID(armor.AMULET, amuletID); ok {
			addEffects(&rest, p.Effects)
			addHoles(&rest, p)
		}
	}

	out := armorsig.BodyRefactor(acc, m+1)
	for i := range out.Points {
		out.Points[i] += rest.Points[i]
	}
	out.Holes = rest.Holes
	out.Multiplier = 1
	if m > 1 {
		out.Multiplier = m
	}
	return out
}

// rawTuple holds part-indexed piece ids during expansion — the five
// body parts plus the amulet slot — with -1 meaning "not yet
// assigned" — unlike armor.PieceID, which is a legitimate catalog
// index starting at 0, so it cannot double as its own unset
// sentinel. The amulet slot's resting value once fully expanded is
// NoAmuletSentinel (-2, defined in foundation.go), meaning
// "deliberately empty", which mergeTuples must propagate just like
// any other assignment.
type rawTuple [6]int

func newRawTuple() rawTuple {
	return rawTuple{-1, -1, -1, -1, -1, -1}
}

// expandTuples walks the AND/OR DAG rooted at id, producing every
// concrete piece tuple it represents (five body parts plus the
// amulet slot). Each ARMORS leaf writes its piece id into the slot
// its Part field names, and mergeTuples combines the two sides of
// every AND-node, so the result does not depend on merge order.
func expandTuples(pool *armorpool.Pool, id armorpool.ORID) []rawTuple {
	node := pool.Or(id)
	switch node.Kind {
	case armorpool.ARMORS:
		out := make([]rawTuple, 0, len(node.Children))
		for _, pieceIdx := range node.Children {
			tuple := newRawTuple()
			tuple[node.Part] = pieceIdx
			out = append(out, tuple)
		}
		return out
	case armorpool.ANDS:
		var out []rawTuple
		for _, andIdx := range node.Children {
			and := pool.And(armorpool.ANDID(andIdx))
			lefts := expandTuples(pool, and.Left)
			rights := expandTuples(pool, and.Right)
			for _, l := range lefts {
				for _, r := range rights {
					out = append(out, mergeTuples(l, r))
				}
			}
		}
		return out
	}
	return nil
}

func mergeTuples(a, b rawTuple) rawTuple {
	out := a
	for i := range out {
		if b[i] != -1 {
			out[i] = b[i]
		}
	}
	return out
}

func sumDefense(catalog *armor.Catalog, tuple [5]armor.PieceID, hasAmulet bool, amuletID armor.PieceID) int {
	total := 0
	for _, part := range armor.Parts {
		if p, ok := catalog.PieceByID(part, tuple[part]); ok {
			total += p.MaxDefense
		}
	}
	if hasAmulet {
		if p, ok := catalog.PieceByID(armor.AMULET, amuletID); ok {
			total += p.MaxDefense
		}
	}
	return total
}

// defenseFilterIter sits downstream of expansion:
// reject any set whose total defense falls below the query minimum.
// Non-order-preserving-sensitive: it only ever drops items.
type defenseFilterIter struct {
	upstream *expansionIter
	minDef   int
}

func newDefenseFilterIter(upstream *expansionIter, minDef int) *defenseFilterIter {
	return &defenseFilterIter{upstream: upstream, minDef: minDef}
}

func (it *defenseFilterIter) Next() (ArmorSet, bool) {
	for {
		set, ok := it.upstream.Next()
		if !ok {
			return ArmorSet{}, false
		}
		if set.Defense < it.minDef {
			continue
		}
		return set, true
	}
}
