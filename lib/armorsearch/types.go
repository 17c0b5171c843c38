// Copyright (C) 2022  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

// Package armorsearch assembles the foundation, the lazy iterator
// pipeline, and the Driver that orders query effects and drains
// results. This is the package that ties armor, armorsig,
// armorpool, armorjewel, and armorsplit together.
package armorsearch

import (
	"github.com/mhbuild/armorquest/lib/armor"
	"github.com/mhbuild/armorquest/lib/armorpool"
	"github.com/mhbuild/armorquest/lib/armorsig"
)

// FoundationNum is how many of the query's (reordered) effects the
// foundation tracks before handing off to per-skill refinement.
// Tracking more makes grouping degrade rapidly: almost every piece
// becomes distinct and the sharing that makes the forest compact is
// lost.
const FoundationNum = 2

// Effect is a query-side skill requirement: at least Points of
// SkillID across the whole armor set.
type Effect struct {
	SkillID armor.SkillID
	Points  int
}

// Query is the external interface to a search: everything needed to
// assemble and drain the pipeline for one request.
type Query struct {
	Effects     []Effect
	ArmorFilter armor.ArmorFilter
	JewelFilter armor.JewelFilter
	Amulets     []armor.Piece
	Defense     int
	MaxResults  int
}

// ArmorSet is a concrete leaf: one piece per body part, an optional
// amulet, and the jewel-key chosen to fill sockets.
type ArmorSet struct {
	PieceIDs  [5]armor.PieceID // HEAD, BODY, HANDS, WAIST, FEET
	HasAmulet bool
	AmuletID  armor.PieceID
	Defense   int
	// Key is the merged armor-only signature (body multiplier
	// already applied, sockets not yet filled) for the tracked
	// skill slots, the same value Satisfy was tested against.
	Key      armorsig.Signature
	JewelKey armorsig.Signature
}

// TreeRoot is a pipeline work-item: an OR-node plus the candidate
// socket-fill signatures that have survived filtering so far. An
// empty JewelKeys means "no jewels yet considered", distinct from
// "no feasible assignment" (which drops the root from the stream
// entirely).
type TreeRoot struct {
	ID              armorpool.ORID
	TorsoMultiplier uint8
	JewelKeys       []armorsig.Signature
}

// ResultStream is the iterator of concrete ArmorSets the core
// exposes; the three drain modes in lib/armorformat each consume
// one ArmorSet at a time via Next.
type ResultStream struct {
	next func() (ArmorSet, bool)
}

// Next advances the stream, returning false once exhausted.
func (s *ResultStream) Next() (ArmorSet, bool) {
	return s.next()
}
