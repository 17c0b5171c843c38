// Copyright (C) 2022  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

package armorsearch_test

import (
	"context"
	"fmt"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mhbuild/armorquest/lib/armor"
	"github.com/mhbuild/armorquest/lib/armorsearch"
)

// bruteKey is a comparable projection of an ArmorSet: which piece
// fills each part, whether an amulet is worn, and the ids of the
// first three jewels (sorted) that end up socketed. Good enough to compare set membership
// against the pipeline's output without caring about Key/JewelKey
// bit layout.
type bruteKey struct {
	pieces  [5]armor.PieceID
	amulet  armor.PieceID
	hasAmu  bool
	jewelID [3]armor.JewelID // sorted ids of jewels used, 0 = unused slot
}

// bruteForce enumerates every combination of one piece per part
// (plus every amulet, or none), and for each combination tries
// every way of filling its sockets with the available jewel
// multiset (in this harness pieces carry at most one socket each,
// so a combination has at most five sockets and the search space
// stays small): O(|HEAD| * |BODY| * |HANDS| * |WAIST| * |FEET| *
// (|AMULET|+1) * |jewel assignments|). Only suitable for the tiny
// synthetic catalogs (<=4 pieces/part) used in this test.
func bruteForce(catalog *armor.Catalog, query armorsearch.Query) []bruteKey {
	var pieces [5][]armor.Piece
	for _, part := range armor.Parts {
		pieces[part] = catalog.Pieces(part, query.ArmorFilter)
	}
	amulets := append([]armor.Piece{{ID: -1}}, catalog.Pieces(armor.AMULET, nil)...)
	jewels := catalog.Jewels(query.JewelFilter)

	required := map[armor.SkillID]int{}
	for _, e := range query.Effects {
		required[e.SkillID] += e.Points
	}

	var out []bruteKey
	var combo [5]armor.Piece
	var rec func(part int)
	rec = func(part int) {
		if part == 5 {
			for _, amu := range amulets {
				tryAmulet(catalog, combo, amu, jewels, required, query.Defense, &out)
			}
			return
		}
		for _, p := range pieces[part] {
			combo[part] = p
			rec(part + 1)
		}
	}
	rec(0)
	return out
}

func tryAmulet(catalog *armor.Catalog, combo [5]armor.Piece, amu armor.Piece, jewels []armor.Jewel, required map[armor.SkillID]int, minDefense int, out *[]bruteKey) {
	defense := amu.MaxDefense
	for _, p := range combo {
		defense += p.MaxDefense
	}
	if defense < minDefense {
		return
	}

	sockets := make([]int, 0, 6)
	for _, p := range combo {
		for i := 0; i < p.Holes; i++ {
			sockets = append(sockets, p.HoleSize)
		}
	}
	if amu.ID != -1 {
		for i := 0; i < amu.Holes; i++ {
			sockets = append(sockets, amu.HoleSize)
		}
	}

	base := map[armor.SkillID]int{}
	for _, p := range combo {
		for _, e := range p.Effects {
			base[e.SkillID] += e.Points
		}
	}
	if amu.ID != -1 {
		for _, e := range amu.Effects {
			base[e.SkillID] += e.Points
		}
	}

	// Enumerate every assignment of (at most) len(sockets) jewels
	// drawn from jewels (with repetition allowed across distinct
	// catalog jewel rows, since a catalog may list several rows of
	// the same jewel), including "leave empty".
	type choice struct {
		idx int // index into jewels, or -1 for empty
	}
	choices := make([]choice, len(sockets))
	var best *bruteKey
	var try func(i int)
	try = func(i int) {
		if i == len(sockets) {
			totals := map[armor.SkillID]int{}
			for s, v := range base {
				totals[s] = v
			}
			var used []armor.JewelID
			for si, c := range choices {
				if c.idx < 0 {
					continue
				}
				j := jewels[c.idx]
				if j.Size > sockets[si] {
					return
				}
				for _, e := range j.Effects {
					totals[e.SkillID] += e.Points
				}
				used = append(used, j.ID)
			}
			for skill, want := range required {
				if totals[skill] < want {
					return
				}
			}
			sort.Slice(used, func(a, b int) bool { return used[a] < used[b] })
			var key bruteKey
			for i, p := range combo {
				key.pieces[i] = p.ID
			}
			if amu.ID != -1 {
				key.hasAmu = true
				key.amulet = amu.ID
			}
			for i := 0; i < len(used) && i < 3; i++ {
				key.jewelID[i] = used[i]
			}
			if best == nil {
				best = &key
			}
			return
		}
		choices[i] = choice{idx: -1}
		try(i + 1)
		for ji := range jewels {
			choices[i] = choice{idx: ji}
			try(i + 1)
		}
	}
	try(0)
	if best != nil {
		*out = append(*out, *best)
	}
}

func pipelineKeys(t *testing.T, catalog *armor.Catalog, query armorsearch.Query) []bruteKey {
	t.Helper()
	var driver armorsearch.Driver
	query.MaxResults = 1000
	stream, err := driver.Search(context.Background(), catalog, query)
	require.NoError(t, err)
	var out []bruteKey
	for {
		set, ok := stream.Next()
		if !ok {
			break
		}
		out = append(out, bruteKey{
			pieces: set.PieceIDs,
			hasAmu: set.HasAmulet,
			amulet: set.AmuletID,
		})
	}
	return out
}

// setOfPieces projects away jewel/amulet detail that the pipeline's
// ArmorSet and the brute-force enumerator track differently (the
// brute force records a single satisfying jewel assignment; the
// pipeline may report the same piece combination with a different
// arbitrary satisfying assignment). Comparing the set of (piece
// combination, amulet) pairs that appear at all is still a
// meaningful round-trip check: every combination the brute force
// proves feasible must appear in the pipeline's output, and nothing
// infeasible must appear there either.
func setOfPieces(keys []bruteKey) map[string]bool {
	out := make(map[string]bool, len(keys))
	for _, k := range keys {
		s := fmt.Sprintf("%v/%v/%v", k.pieces, k.hasAmu, k.amulet)
		out[s] = true
	}
	return out
}

func TestBruteForceRoundTrip(t *testing.T) {
	skillA := armor.SkillID(1)
	skillB := armor.SkillID(2)
	skills := []armor.SkillSystem{
		{ID: skillA, Name: "a", LowestPositivePoints: 1},
		{ID: skillB, Name: "b", LowestPositivePoints: 1},
	}

	var pieces [5][]armor.Piece
	id := armor.PieceID(1)
	for _, part := range armor.Parts {
		for i := 0; i < 3; i++ {
			p := armor.Piece{
				ID:         id,
				Part:       part,
				MaxDefense: 10 * i,
				Effects:    []armor.Effect{{SkillID: skillA, Points: i}},
			}
			if i == 1 {
				p.Holes = 1
				p.HoleSize = 1
			}
			pieces[part] = append(pieces[part], p)
			id++
		}
	}
	jewels := []armor.Jewel{
		{ID: 1, Size: 1, Effects: []armor.Effect{{SkillID: skillB, Points: 2}}},
	}

	catalog := armor.NewCatalog(pieces, jewels, skills, armor.SkillID(999))
	query := armorsearch.Query{
		Effects: []armorsearch.Effect{
			{SkillID: skillA, Points: 3},
			{SkillID: skillB, Points: 2},
		},
	}

	brute := setOfPieces(bruteForce(catalog, query))
	pipeline := setOfPieces(pipelineKeys(t, catalog, query))
	assert.Equal(t, brute, pipeline)
	assert.NotEmpty(t, brute, "scenario should be satisfiable so the comparison is meaningful")
}

func TestBruteForceRoundTripEffectOrderInvariant(t *testing.T) {
	skillA := armor.SkillID(1)
	skillB := armor.SkillID(2)
	skillC := armor.SkillID(3)
	skills := []armor.SkillSystem{
		{ID: skillA, Name: "a", LowestPositivePoints: 1},
		{ID: skillB, Name: "b", LowestPositivePoints: 1},
		{ID: skillC, Name: "c", LowestPositivePoints: 1},
	}

	var pieces [5][]armor.Piece
	id := armor.PieceID(1)
	for _, part := range armor.Parts {
		for i := 0; i < 2; i++ {
			pieces[part] = append(pieces[part], armor.Piece{
				ID:   id,
				Part: part,
				Effects: []armor.Effect{
					{SkillID: skillA, Points: i},
					{SkillID: skillB, Points: 1 - i},
					{SkillID: skillC, Points: i},
				},
			})
			id++
		}
	}
	catalog := armor.NewCatalog(pieces, nil, skills, armor.SkillID(999))

	forward := armorsearch.Query{Effects: []armorsearch.Effect{
		{SkillID: skillA, Points: 2},
		{SkillID: skillB, Points: 2},
		{SkillID: skillC, Points: 2},
	}}
	reversed := armorsearch.Query{Effects: []armorsearch.Effect{
		{SkillID: skillC, Points: 2},
		{SkillID: skillB, Points: 2},
		{SkillID: skillA, Points: 2},
	}}

	forwardKeys := setOfPieces(pipelineKeys(t, catalog, forward))
	reversedKeys := setOfPieces(pipelineKeys(t, catalog, reversed))
	assert.Equal(t, forwardKeys, reversedKeys)

	brute := setOfPieces(bruteForce(catalog, forward))
	assert.Equal(t, brute, forwardKeys)
}
