// Copyright (C) 2022  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

// Package armorformat holds the three drain-mode formatters (text,
// S-expression, JSON) that consume armorsearch's ResultStream one
// ArmorSet at a time, plus the formatter-side jewel-placement packer.
// None of this is on the search pipeline's critical path: it exists
// purely to turn a surviving (Key, JewelKey) pair into something a
// person or another program can read.
package armorformat

import (
	"sort"

	"github.com/mhbuild/armorquest/lib/armor"
	"github.com/mhbuild/armorquest/lib/armorsearch"
	"github.com/mhbuild/armorquest/lib/containers"
)

// SocketPlacement names one physical socket on one equipped piece and
// the jewel (if any) packed into it.
type SocketPlacement struct {
	Part    armor.PartID
	PieceID armor.PieceID
	Jewel   containers.Optional[armor.JewelID]
}

type socket struct {
	part    armor.PartID
	pieceID armor.PieceID
	size    int
}

// PlanJewels reconstructs one explicit (piece, socket, jewel)
// assignment realizing set.JewelKey's point totals. The pipeline
// only ever carries the aggregate signature; a concrete plan is
// formatter-side, off the critical path.
//
// The packer is greedy, not globally optimal: for each tracked skill
// slot (richest-required-total first), it repeatedly places the
// highest-value jewel for that slot into the smallest socket it still
// fits, until the slot's target is met or no placement helps. A jewel
// that also contributes to an already-processed slot is unavailable
// to a later one, so a plan needing the same jewel to double-count
// across slots will under-realize the key — acceptable for a
// read-only rendering of a result that the core has already accepted.
func PlanJewels(catalog *armor.Catalog, filter armor.JewelFilter, slots []armor.SkillID, set armorsearch.ArmorSet) []SocketPlacement {
	sockets := gatherSockets(catalog, set)
	jewels := catalog.Jewels(filter)

	order := make([]int, 0, len(slots))
	for i := range slots {
		if int(set.JewelKey.Points[i]) > 0 {
			order = append(order, i)
		}
	}
	sort.SliceStable(order, func(i, j int) bool {
		return set.JewelKey.Points[order[i]] > set.JewelKey.Points[order[j]]
	})

	placements := make([]SocketPlacement, len(sockets))
	for i, s := range sockets {
		placements[i] = SocketPlacement{Part: s.part, PieceID: s.pieceID}
	}
	used := make([]bool, len(sockets))

	for _, slot := range order {
		target := set.JewelKey.Points[slot]
		for target > 0 {
			idx, jewel, ok := bestFit(jewels, sockets, used, slots[slot])
			if !ok {
				break
			}
			placements[idx].Jewel = containers.Optional[armor.JewelID]{OK: true, Val: jewel.ID}
			used[idx] = true
			for _, e := range jewel.Effects {
				if e.SkillID == slots[slot] {
					target -= int32(e.Points)
				}
			}
		}
	}
	return placements
}

// bestFit picks, among jewels contributing to skill, the one with
// the highest contribution that fits some unused socket, preferring
// the smallest such socket so larger sockets stay free for jewels
// that need them.
func bestFit(jewels []armor.Jewel, sockets []socket, used []bool, skill armor.SkillID) (int, armor.Jewel, bool) {
	bestSocket := -1
	var bestJewel armor.Jewel
	bestPoints := 0
	bestSize := 0
	for _, j := range jewels {
		points := 0
		for _, e := range j.Effects {
			if e.SkillID == skill {
				points += e.Points
			}
		}
		if points <= 0 {
			continue
		}
		for i, s := range sockets {
			if used[i] || s.size < j.Size {
				continue
			}
			if bestSocket == -1 || points > bestPoints || (points == bestPoints && s.size < bestSize) {
				bestSocket, bestJewel, bestPoints, bestSize = i, j, points, s.size
			}
		}
	}
	return bestSocket, bestJewel, bestSocket >= 0
}

func gatherSockets(catalog *armor.Catalog, set armorsearch.ArmorSet) []socket {
	var out []socket
	for _, part := range armor.Parts {
		p, ok := catalog.PieceByID(part, set.PieceIDs[part])
		if !ok {
			continue
		}
		for i := 0; i < p.Holes; i++ {
			out = append(out, socket{part: part, pieceID: p.ID, size: p.HoleSize})
		}
	}
	if set.HasAmulet {
		if p, ok := catalog.PieceByID(armor.AMULET, set.AmuletID); ok {
			for i := 0; i < p.Holes; i++ {
				out = append(out, socket{part: armor.AMULET, pieceID: p.ID, size: p.HoleSize})
			}
		}
	}
	return out
}

func jewelByID(catalog *armor.Catalog, id armor.JewelID) (armor.Jewel, bool) {
	for _, j := range catalog.Jewels(nil) {
		if j.ID == id {
			return j, true
		}
	}
	return armor.Jewel{}, false
}
