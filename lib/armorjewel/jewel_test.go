// Copyright (C) 2022  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

package armorjewel_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mhbuild/armorquest/lib/armor"
	"github.com/mhbuild/armorquest/lib/armorjewel"
	"github.com/mhbuild/armorquest/lib/armorsig"
)

const skill9 = armor.SkillID(9)

func newCatalog(jewels []armor.Jewel) *armor.Catalog {
	skills := []armor.SkillSystem{
		{ID: skill9, Name: "skill9", LowestPositivePoints: 1},
	}
	return armor.NewCatalog([5][]armor.Piece{}, jewels, skills, armor.SkillID(999))
}

func TestQueryIncludesEmptyFill(t *testing.T) {
	catalog := newCatalog(nil)
	hc := armorjewel.NewHoleClient(catalog, nil, []armor.SkillID{skill9})

	key := armorsig.New()
	key.Holes = [3]uint8{2, 0, 0}
	fills := hc.Query(key)
	require.NotEmpty(t, fills)
	assert.Equal(t, armorsig.Signature{Multiplier: 1}, fills[0])
}

func TestQueryEnumeratesMultisets(t *testing.T) {
	catalog := newCatalog([]armor.Jewel{
		{ID: 1, Size: 1, Effects: []armor.Effect{{SkillID: skill9, Points: 1}}},
	})
	hc := armorjewel.NewHoleClient(catalog, nil, []armor.SkillID{skill9})

	key := armorsig.New()
	key.Holes = [3]uint8{2, 0, 0}
	fills := hc.Query(key)

	// Empty, one jewel, two jewels.
	require.Len(t, fills, 3)
	var points []int32
	for _, f := range fills {
		points = append(points, armorsig.GetPoints(f, 0))
		assert.Equal(t, f.Holes[0], uint8(armorsig.GetPoints(f, 0)), "each size-1 jewel consumes one size-1 socket")
	}
	assert.ElementsMatch(t, []int32{0, 1, 2}, points)
}

func TestSmallJewelMayUseBigSocket(t *testing.T) {
	catalog := newCatalog([]armor.Jewel{
		{ID: 1, Size: 1, Effects: []armor.Effect{{SkillID: skill9, Points: 1}}},
	})
	hc := armorjewel.NewHoleClient(catalog, nil, []armor.SkillID{skill9})

	key := armorsig.New()
	key.Holes = [3]uint8{0, 0, 1}
	fills := hc.Query(key)

	var best int32
	for _, f := range fills {
		if p := armorsig.GetPoints(f, 0); p > best {
			best = p
		}
	}
	assert.Equal(t, int32(1), best)
}

func TestJewelTooBigForSocket(t *testing.T) {
	catalog := newCatalog([]armor.Jewel{
		{ID: 1, Size: 3, Effects: []armor.Effect{{SkillID: skill9, Points: 4}}},
	})
	hc := armorjewel.NewHoleClient(catalog, nil, []armor.SkillID{skill9})

	key := armorsig.New()
	key.Holes = [3]uint8{1, 1, 0}
	for _, f := range hc.Query(key) {
		assert.Equal(t, int32(0), armorsig.GetPoints(f, 0))
	}
}

func TestJewelFilterIsHonored(t *testing.T) {
	catalog := newCatalog([]armor.Jewel{
		{ID: 1, Size: 1, Effects: []armor.Effect{{SkillID: skill9, Points: 1}}},
		{ID: 2, Size: 1, Effects: []armor.Effect{{SkillID: skill9, Points: 5}}},
	})
	filter := func(j armor.Jewel) bool { return j.ID != 2 }
	hc := armorjewel.NewHoleClient(catalog, filter, []armor.SkillID{skill9})

	key := armorsig.New()
	key.Holes = [3]uint8{1, 0, 0}
	for _, f := range hc.Query(key) {
		assert.LessOrEqual(t, armorsig.GetPoints(f, 0), int32(1))
	}
}

func TestGetResidual(t *testing.T) {
	committed := armorsig.Signature{Holes: [3]uint8{1, 0, 1}}
	assert.Equal(t, [3]uint8{1, 2, 0}, armorjewel.GetResidual([3]uint8{2, 2, 1}, committed))

	// Committing more than exists (stale candidate against a finer
	// sub-OR) clamps at zero rather than wrapping.
	over := armorsig.Signature{Holes: [3]uint8{3, 0, 0}}
	assert.Equal(t, [3]uint8{0, 1, 0}, armorjewel.GetResidual([3]uint8{1, 1, 0}, over))
}
