// Copyright (C) 2022  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

package armorsplit_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mhbuild/armorquest/lib/armor"
	"github.com/mhbuild/armorquest/lib/armorpool"
	"github.com/mhbuild/armorquest/lib/armorsig"
	"github.com/mhbuild/armorquest/lib/armorsplit"
)

const skill7 = armor.SkillID(7)

func TestMaxAndSplit(t *testing.T) {
	var pool armorpool.Pool
	// Three synthetic pieces (indices 0,1,2) contributing 1, 3, 5
	// points to skill7 respectively.
	contrib := map[int]int32{0: 1, 1: 3, 2: 5}
	lookup := func(part int, idx int, skill armor.SkillID) int32 {
		require.Equal(t, skill7, skill)
		return contrib[idx]
	}
	or := pool.MakeOR(armorpool.ARMORS, armorsig.New(), int(armor.HEAD), []int{0, 1, 2})

	splitter := armorsplit.New(&pool, lookup)
	assert.Equal(t, int32(5), splitter.Max(or, skill7))

	// One sub-OR per distinct contribution >= 3 (values 5 and 3,
	// strongest first), plus the remainder bucket holding piece 0.
	subs := splitter.Split(or, 3, skill7, 0)
	require.Len(t, subs, 3)
	assert.Equal(t, []int{2}, pool.Or(subs[0]).Children)
	assert.Equal(t, int32(5), armorsig.GetPoints(pool.Or(subs[0]).Key, 0))
	assert.Equal(t, []int{1}, pool.Or(subs[1]).Children)
	assert.Equal(t, int32(3), armorsig.GetPoints(pool.Or(subs[1]).Key, 0))
	assert.Equal(t, []int{0}, pool.Or(subs[2]).Children)
	assert.Equal(t, int32(1), armorsig.GetPoints(pool.Or(subs[2]).Key, 0))

	var allChildren []int
	for _, sub := range subs {
		node := pool.Or(sub)
		allChildren = append(allChildren, node.Children...)
	}
	assert.ElementsMatch(t, []int{0, 1, 2}, allChildren)
}
