// Copyright (C) 2022  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

package armorsearch_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mhbuild/armorquest/lib/armor"
	"github.com/mhbuild/armorquest/lib/armorsearch"
)

const (
	skill5    = armor.SkillID(5)
	skill7    = armor.SkillID(7)
	skill9    = armor.SkillID(9)
	torsoUpID = armor.SkillID(100)
)

func onePerPart(effect armor.Effect, defense int) [5][]armor.Piece {
	var pieces [5][]armor.Piece
	id := armor.PieceID(1)
	for _, part := range armor.Parts {
		pieces[part] = []armor.Piece{{
			ID:         id,
			Part:       part,
			Name:       part.String(),
			MaxDefense: defense,
			Effects:    []armor.Effect{effect},
		}}
		id++
	}
	return pieces
}

func newCatalog(t *testing.T, pieces [5][]armor.Piece, jewels []armor.Jewel) *armor.Catalog {
	t.Helper()
	skills := []armor.SkillSystem{
		{ID: skill5, Name: "skill5", LowestPositivePoints: 1},
		{ID: skill7, Name: "skill7", LowestPositivePoints: 1},
		{ID: skill9, Name: "skill9", LowestPositivePoints: 1},
		{ID: torsoUpID, Name: "torso-up", LowestPositivePoints: 1},
	}
	return armor.NewCatalog(pieces, jewels, skills, torsoUpID)
}

func drainAll(t *testing.T, stream *armorsearch.ResultStream) []armorsearch.ArmorSet {
	t.Helper()
	var out []armorsearch.ArmorSet
	for {
		set, ok := stream.Next()
		if !ok {
			break
		}
		out = append(out, set)
	}
	return out
}

func TestScenarioEmptyCatalog(t *testing.T) {
	catalog := newCatalog(t, [5][]armor.Piece{}, nil)
	var driver armorsearch.Driver
	stream, err := driver.Search(context.Background(), catalog, armorsearch.Query{
		Effects:    []armorsearch.Effect{{SkillID: skill5, Points: 3}},
		MaxResults: 10,
	})
	require.NoError(t, err)
	assert.Empty(t, drainAll(t, stream))
}

func TestScenarioTrivialSatisfy(t *testing.T) {
	pieces := onePerPart(armor.Effect{SkillID: skill5, Points: 1}, 0)
	catalog := newCatalog(t, pieces, nil)
	var driver armorsearch.Driver
	stream, err := driver.Search(context.Background(), catalog, armorsearch.Query{
		Effects:    []armorsearch.Effect{{SkillID: skill5, Points: 5}},
		Defense:    0,
		MaxResults: 10,
	})
	require.NoError(t, err)
	results := drainAll(t, stream)
	assert.Len(t, results, 1)
}

func TestScenarioTorsoUpDoubling(t *testing.T) {
	const m = 3
	var pieces [5][]armor.Piece
	id := armor.PieceID(1)
	for _, part := range armor.Parts {
		// Per the scenario, only the non-body parts contribute to
		// skill 7; the body piece carries only torso_up, isolating
		// the multiplier's effect on the already-accumulated side.
		var effects []armor.Effect
		if part == armor.BODY {
			effects = []armor.Effect{{SkillID: torsoUpID, Points: m}}
		} else {
			effects = []armor.Effect{{SkillID: skill7, Points: 2}}
		}
		pieces[part] = []armor.Piece{{ID: id, Part: part, Effects: effects}}
		id++
	}
	catalog := newCatalog(t, pieces, nil)
	var driver armorsearch.Driver
	stream, err := driver.Search(context.Background(), catalog, armorsearch.Query{
		Effects:    []armorsearch.Effect{{SkillID: skill7, Points: 1}},
		MaxResults: 10,
	})
	require.NoError(t, err)
	results := drainAll(t, stream)
	require.Len(t, results, 1)
	// Four non-body pieces contribute 2 points each, merged before
	// the body side, whose BodyRefactor(m+1) scales the accumulated
	// total: 2 * (m+1) * 4. Skill 7 is the query's sole (foundation)
	// effect, so it lives in slot 0 of the merged key.
	assert.Equal(t, int32(2*(m+1)*4), results[0].Key.Points[0])
}

func TestScenarioDefenseFilter(t *testing.T) {
	pieces := onePerPart(armor.Effect{SkillID: skill5, Points: 1}, 79)
	catalog := newCatalog(t, pieces, nil)
	var driver armorsearch.Driver

	stream, err := driver.Search(context.Background(), catalog, armorsearch.Query{
		Effects:    []armorsearch.Effect{{SkillID: skill5, Points: 5}},
		Defense:    400,
		MaxResults: 10,
	})
	require.NoError(t, err)
	assert.Empty(t, drainAll(t, stream))

	stream, err = driver.Search(context.Background(), catalog, armorsearch.Query{
		Effects:    []armorsearch.Effect{{SkillID: skill5, Points: 5}},
		Defense:    0,
		MaxResults: 10,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, drainAll(t, stream))
}

func TestScenarioTruncation(t *testing.T) {
	var pieces [5][]armor.Piece
	id := armor.PieceID(1)
	for _, part := range armor.Parts {
		pieces[part] = []armor.Piece{
			{ID: id, Part: part, Effects: []armor.Effect{{SkillID: skill5, Points: 1}}},
			{ID: id + 1, Part: part, Effects: []armor.Effect{{SkillID: skill5, Points: 1}}},
		}
		id += 2
	}
	catalog := newCatalog(t, pieces, nil)
	var driver armorsearch.Driver
	stream, err := driver.Search(context.Background(), catalog, armorsearch.Query{
		Effects:    []armorsearch.Effect{{SkillID: skill5, Points: 1}},
		MaxResults: 3,
	})
	require.NoError(t, err)
	assert.Len(t, drainAll(t, stream), 3)
}

func TestUnknownSkillIsInputError(t *testing.T) {
	catalog := newCatalog(t, [5][]armor.Piece{}, nil)
	var driver armorsearch.Driver
	_, err := driver.Search(context.Background(), catalog, armorsearch.Query{
		Effects: []armorsearch.Effect{{SkillID: armor.SkillID(9999), Points: 1}},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, &armor.ErrUnknownSkill{})
}

func TestNegativeMaxResultsIsInputError(t *testing.T) {
	catalog := newCatalog(t, [5][]armor.Piece{}, nil)
	var driver armorsearch.Driver
	_, err := driver.Search(context.Background(), catalog, armorsearch.Query{
		Effects:    []armorsearch.Effect{{SkillID: skill5, Points: 1}},
		MaxResults: -1,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, &armorsearch.ErrNegativeMaxResults{})
}

func TestScenarioJewelFallback(t *testing.T) {
	// Pieces alone contribute 4/5 required points to skill9; a
	// size-1 jewel contributing 1 point to skill9 fills the gap
	// through a size-1 socket on one otherwise-empty piece.
	var pieces [5][]armor.Piece
	id := armor.PieceID(1)
	for _, part := range armor.Parts {
		p := armor.Piece{ID: id, Part: part, Effects: []armor.Effect{{SkillID: skill9, Points: 1}}}
		if part == armor.HEAD {
			p.Holes = 1
			p.HoleSize = 1
			p.Effects = nil
		}
		pieces[part] = []armor.Piece{p}
		id++
	}
	jewels := []armor.Jewel{
		{ID: 1, Size: 1, Effects: []armor.Effect{{SkillID: skill9, Points: 1}}},
	}
	catalog := newCatalog(t, pieces, jewels)
	var driver armorsearch.Driver
	stream, err := driver.Search(context.Background(), catalog, armorsearch.Query{
		Effects:    []armorsearch.Effect{{SkillID: skill9, Points: 5}},
		MaxResults: 10,
	})
	require.NoError(t, err)
	results := drainAll(t, stream)
	require.Len(t, results, 1)
	assert.Equal(t, int32(1), results[0].JewelKey.Points[0])
}
