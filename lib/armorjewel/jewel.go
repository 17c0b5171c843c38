// Copyright (C) 2022  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

// Package armorjewel implements the jewel-assignment sub-solver:
// given residual sockets and the set of skills a pipeline stage is
// tracking, enumerate candidate socket-fill signatures.
package armorjewel

import (
	"fmt"

	"github.com/mhbuild/armorquest/lib/armor"
	"github.com/mhbuild/armorquest/lib/armorsig"
	"github.com/mhbuild/armorquest/lib/containers"
)

// holeKey is the jewel solver's memoisation key: residual socket
// counts, the body multiplier in effect, and a fingerprint of which
// skills are currently active (so entries from one stage are never
// reused by a stage tracking different skills).
type holeKey struct {
	c1, c2, c3 uint8
	m          uint8
	active     string
}

// candidateJewel is one catalog jewel reduced to the fields the
// solver actually combines: its size and its contribution to each
// currently-active skill slot.
type candidateJewel struct {
	id     armor.JewelID
	size   int
	points [armorsig.MaxSkillSlots]int32
}

// HoleClient is the jewel solver for one slot↔SkillID mapping. The
// search pipeline builds one (see NewHoleClient) shared by all
// jewel-filter stages and one more per skill-split stage, each over
// the query's effective jewel list (already run through the query's
// JewelFilter) and the mapping that stage is using.
type HoleClient struct {
	jewels []candidateJewel
	slots  []armor.SkillID // slot i tracks skill slots[i]
	cache  *containers.LRUCache[holeKey, []armorsig.Signature]
}

// NewHoleClient builds a solver over the catalog's jewels (after
// filtering) for the given active-skill slot mapping.
func NewHoleClient(catalog *armor.Catalog, filter armor.JewelFilter, slots []armor.SkillID) *HoleClient {
	slotIndex := make(map[armor.SkillID]int, len(slots))
	for i, s := range slots {
		slotIndex[s] = i
	}

	jewels := catalog.Jewels(filter)
	cands := make([]candidateJewel, 0, len(jewels))
	for _, j := range jewels {
		var c candidateJewel
		c.id = j.ID
		c.size = j.Size
		for _, e := range j.Effects {
			if slot, ok := slotIndex[e.SkillID]; ok {
				c.points[slot] += int32(e.Points)
			}
		}
		cands = append(cands, c)
	}

	return &HoleClient{
		jewels: cands,
		slots:  slots,
		cache:  containers.NewLRUCache[holeKey, []armorsig.Signature](1024),
	}
}

// Reset purges the memoisation table. The search pipeline does not
// call it: every query builds fresh HoleClients, so each query's
// memoisation starts empty anyway.
func (hc *HoleClient) Reset() {
	hc.cache.Purge()
}

func activeFingerprint(slots []armor.SkillID) string {
	// Slot order is fixed for the lifetime of a stage, so a plain
	// join is a stable, collision-free fingerprint.
	out := make([]byte, 0, 4*len(slots))
	for _, s := range slots {
		out = append(out, []byte(fmt.Sprintf("%d,", s))...)
	}
	return string(out)
}

// socketFills enumerates the useful jewel multisets that fit in
// c1+c2+c3 free sockets (sizes 1, 2, 3 respectively), memoised on
// (c1,c2,c3,m,active). A size-k socket may host any jewel of size
// j <= k. Each returned signature's Points vector is the multiset's
// joint contribution to the active skills and its Holes counts are
// the sockets the multiset consumes per size class; the empty fill
// is always included, so "no jewels needed" is a candidate like any
// other.
func (hc *HoleClient) socketFills(c1, c2, c3 uint8, m uint8) []armorsig.Signature {
	key := holeKey{c1: c1, c2: c2, c3: c3, m: m, active: activeFingerprint(hc.slots)}
	if cached, ok := hc.cache.Get(key); ok {
		return cached
	}

	// Jewels contributing nothing to the active skills can never make
	// a fill useful; drop them (and collapse duplicates) up front so
	// the branching factor tracks the distinct useful jewels, not the
	// catalog size.
	type shape struct {
		size   int
		points [armorsig.MaxSkillSlots]int32
	}
	seenShape := make(map[shape]bool)
	distinct := make([]candidateJewel, 0, len(hc.jewels))
	for _, j := range hc.jewels {
		sh := shape{size: j.size, points: j.points}
		if sh.points == ([armorsig.MaxSkillSlots]int32{}) || seenShape[sh] {
			continue
		}
		seenShape[sh] = true
		distinct = append(distinct, j)
	}

	budget := [3]uint8{c1, c2, c3}
	empty := armorsig.Signature{Multiplier: m}
	out := []armorsig.Signature{empty}
	seen := map[armorsig.Signature]bool{empty: true}
	frontier := []armorsig.Signature{empty}
	for len(frontier) > 0 {
		next := make([]armorsig.Signature, 0, len(frontier))
		for _, cur := range frontier {
			for _, j := range distinct {
				// A jewel of size s may occupy one free socket of
				// any class >= s; branch on the class so fills that
				// only work by putting a small jewel in a big socket
				// are still found.
				for class := j.size - 1; class < 3; class++ {
					if cur.Holes[class] >= budget[class] {
						continue
					}
					n := cur
					n.Holes[class]++
					for slot := range hc.slots {
						n.Points[slot] += j.points[slot]
					}
					if seen[n] {
						continue
					}
					seen[n] = true
					next = append(next, n)
					out = append(out, n)
				}
			}
		}
		frontier = next
	}
	hc.cache.Add(key, out)
	return out
}

// Query returns the socket-fill signatures useful for the current
// prefix of effects, given a piece key's raw socket counts and body
// multiplier.
func (hc *HoleClient) Query(pieceKey armorsig.Signature) []armorsig.Signature {
	return hc.QueryResidual(pieceKey.Holes[0], pieceKey.Holes[1], pieceKey.Holes[2], 0, pieceKey.Multiplier)
}

// QueryResidual is the residual-aware variant: one, two, three are
// free sockets of each size; extra is additional size-1-equivalent
// capacity already freed up by larger unused slots (this solver
// folds all residual capacity into the three socket counts directly,
// so extra is simply added to the size-1 budget).
//
// Each returned signature's Holes field records the sockets the fill
// consumes per size class, so GetResidual can recover what remains
// free once a candidate is committed.
func (hc *HoleClient) QueryResidual(one, two, three, extra uint8, m uint8) []armorsig.Signature {
	return hc.socketFills(one+extra, two, three, m)
}

// GetResidual recovers how many sockets of each size remain free on
// a piece after committing the jewel-key `committed`, given the
// piece's own socket counts `pieceHoles` (all of one size class,
// matching armor.Piece.HoleSize in this catalog format; the
// computation is size-class-generic regardless).
func GetResidual(pieceHoles [3]uint8, committed armorsig.Signature) [3]uint8 {
	var out [3]uint8
	for i := range out {
		if pieceHoles[i] > committed.Holes[i] {
			out[i] = pieceHoles[i] - committed.Holes[i]
		}
	}
	return out
}
