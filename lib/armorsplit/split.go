// Copyright (C) 2022  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

// Package armorsplit implements SkillSplitter: refinement of a
// coarse foundation OR-node into finer-grained OR-nodes by a skill
// the foundation didn't track.
package armorsplit

import (
	"sort"

	"github.com/mhbuild/armorquest/lib/armor"
	"github.com/mhbuild/armorquest/lib/armorpool"
	"github.com/mhbuild/armorquest/lib/armorsig"
)

// PieceLookup resolves a (part, piece id) pair, as stored in an
// ARMORS OR-node's children, to the piece's raw
// contribution to a skill; SkillSplitter is decoupled from
// armor.Catalog so it can be unit tested against synthetic pieces.
type PieceLookup func(part int, pieceIndex int, skill armor.SkillID) int32

// SkillSplitter caches, per (skill, OR-node), the maximum
// single-"branch" contribution reachable under that node, and can
// partition the node's children into coarser/finer buckets by that
// contribution.
type SkillSplitter struct {
	pool   *armorpool.Pool
	lookup PieceLookup
	cache  map[cacheKey][]branchValue
}

type cacheKey struct {
	skill armor.SkillID
	or    armorpool.ORID
}

// branchValue pairs one child of an OR-node with its maximum
// contribution to the skill being split on.
type branchValue struct {
	child int
	value int32
}

func New(pool *armorpool.Pool, lookup PieceLookup) *SkillSplitter {
	return &SkillSplitter{
		pool:   pool,
		lookup: lookup,
		cache:  make(map[cacheKey][]branchValue),
	}
}

func (s *SkillSplitter) branchValues(or armorpool.ORID, skill armor.SkillID) []branchValue {
	key := cacheKey{skill: skill, or: or}
	if v, ok := s.cache[key]; ok {
		return v
	}

	node := s.pool.Or(or)
	out := make([]branchValue, 0, len(node.Children))
	switch node.Kind {
	case armorpool.ARMORS:
		for _, pieceIdx := range node.Children {
			out = append(out, branchValue{child: pieceIdx, value: s.lookup(node.Part, pieceIdx, skill)})
		}
	case armorpool.ANDS:
		for _, andIdx := range node.Children {
			and := s.pool.And(armorpool.ANDID(andIdx))
			leftMax := maxValue(s.branchValues(and.Left, skill))
			rightMax := maxValue(s.branchValues(and.Right, skill))
			out = append(out, branchValue{child: andIdx, value: leftMax + rightMax})
		}
	}
	s.cache[key] = out
	return out
}

func maxValue(vs []branchValue) int32 {
	var m int32
	for i, v := range vs {
		if i == 0 || v.value > m {
			m = v.value
		}
	}
	return m
}

// Max returns the maximum single-branch contribution to skill
// reachable under or.
func (s *SkillSplitter) Max(or armorpool.ORID, skill armor.SkillID) int32 {
	return maxValue(s.branchValues(or, skill))
}

// Split partitions or's children into fresh OR-nodes by their
// contribution to skill: one new OR-node per distinct contribution
// value >= minPoints (keyed with that exact value added to the
// parent key's slot, so each is homogeneous in this skill and the
// caller can accept or reject it with one Satisfy test), plus a
// single remainder node holding every child below minPoints (keyed
// at the remainder's own maximum; the caller's filter rejects it as
// a whole). Split never mutates or; it only allocates.
//
// The union of the returned ids' children equals or's children
// exactly once.
func (s *SkillSplitter) Split(or armorpool.ORID, minPoints int32, skill armor.SkillID, skillSlot int) []armorpool.ORID {
	branches := s.branchValues(or, skill)
	node := s.pool.Or(or)

	byValue := make(map[int32][]int)
	var values []int32
	var restChildren []int
	var restMax int32
	for _, b := range branches {
		if b.value >= minPoints {
			if _, ok := byValue[b.value]; !ok {
				values = append(values, b.value)
			}
			byValue[b.value] = append(byValue[b.value], b.child)
		} else {
			// Contributions can be negative, so the first rest child
			// seeds the max rather than zero.
			if len(restChildren) == 0 || b.value > restMax {
				restMax = b.value
			}
			restChildren = append(restChildren, b.child)
		}
	}
	sort.Slice(values, func(i, j int) bool { return values[i] > values[j] })

	out := make([]armorpool.ORID, 0, len(values)+1)
	for _, v := range values {
		key := armorsig.AddPoints(node.Key, skillSlot, v)
		out = append(out, s.pool.MakeOR(node.Kind, key, node.Part, byValue[v]))
	}
	if len(restChildren) > 0 {
		key := armorsig.AddPoints(node.Key, skillSlot, restMax)
		out = append(out, s.pool.MakeOR(node.Kind, key, node.Part, restChildren))
	}
	return out
}
