// Copyright (C) 2022  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

package armorpool_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mhbuild/armorquest/lib/armorpool"
	"github.com/mhbuild/armorquest/lib/armorsig"
)

func TestSnapshotRestore(t *testing.T) {
	var p armorpool.Pool
	or0 := p.MakeOR(armorpool.ARMORS, armorsig.New(), 0, []int{0})
	snap := p.PushSnapshot()

	or1 := p.MakeOR(armorpool.ARMORS, armorsig.New(), 0, []int{1})
	_ = p.MakeAnd(or0, or1)
	require.Equal(t, 2, p.NumOR())
	require.Equal(t, 1, p.NumAnd())

	p.RestoreSnapshot(snap)
	assert.Equal(t, 1, p.NumOR())
	assert.Equal(t, 0, p.NumAnd())

	// or0 is still valid; ids issued after the snapshot are not.
	assert.NotPanics(t, func() { p.Or(or0) })
}

func TestOrOutOfRangePanics(t *testing.T) {
	var p armorpool.Pool
	assert.Panics(t, func() { p.Or(0) })
}

func TestRestoreStaleSnapshotPanics(t *testing.T) {
	var p armorpool.Pool
	p.MakeOR(armorpool.ARMORS, armorsig.New(), 0, nil)
	snap := p.PushSnapshot()

	var other armorpool.Pool
	assert.Panics(t, func() { other.RestoreSnapshot(snap) })
}
