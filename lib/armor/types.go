// Copyright (C) 2022  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

// Package armor is the read-only catalog view: armor pieces, jewels,
// and skill systems, plus the filter predicates a Query applies to
// them. It never imports lib/armorpool or lib/armorsearch — the
// catalog is a leaf.
package armor

// SkillID identifies a skill system (e.g. "Attack Up (Large)").
// Skill ids are catalog-assigned and stable for the lifetime of a
// process; there is no skill id 0 reserved for "none" — query code
// must not use the zero value as a sentinel.
type SkillID int

// PartID identifies one of the five equipment slots, or the
// amulet/charm slot that holds query-supplied synthetic pieces.
type PartID int

const (
	HEAD PartID = iota
	BODY
	HANDS
	WAIST
	FEET
	AMULET
)

func (p PartID) String() string {
	switch p {
	case HEAD:
		return "HEAD"
	case BODY:
		return "BODY"
	case HANDS:
		return "HANDS"
	case WAIST:
		return "WAIST"
	case FEET:
		return "FEET"
	case AMULET:
		return "AMULET"
	default:
		return "PART(?)"
	}
}

// Parts lists the five body parts merged into the foundation, in
// PartID order; armorsearch.BuildFoundation merges them HEAD, HANDS,
// WAIST, FEET, then BODY. AMULET is merged in last, as an optional sixth
// forest (see armorsearch.buildAmuletForest): a query-supplied
// amulet or none at all, never one of these five.
var Parts = [5]PartID{HEAD, BODY, HANDS, WAIST, FEET}

// PieceID is a Piece's catalog-assigned id (Piece.ID), not its
// position in its part's slice; Catalog.PieceByID resolves it.
// PieceIDs are only meaningful together with a PartID; the pair
// (PartID, PieceID) is what armorsearch.ArmorSet actually stores.
type PieceID int

// JewelID is a Jewel's catalog-assigned id (Jewel.ID), not its
// position in a Catalog's jewel slice.
type JewelID int

// Effect is a (skill, points) pair. On a catalog row points is the
// contribution a piece or jewel makes; on a Query effect it is the
// minimum required total.
type Effect struct {
	SkillID SkillID
	Points  int
}

// Piece is one armor-catalog row: an equipment piece for a single
// part, contributing Effects and offering Holes sockets.
type Piece struct {
	ID         PieceID
	Part       PartID
	Name       string
	Rare       int
	Holes      int // number of sockets, 0..3
	HoleSize   int // size of each socket (all sockets on one piece share a size class in this catalog format)
	MaxDefense int
	Effects    []Effect
}

// Jewel is one jewel-catalog row: Size ∈ {1,2,3} indicates which
// socket sizes it fits (a jewel of size j fits any socket of size
// ≥ j).
type Jewel struct {
	ID      JewelID
	Name    string
	Size    int
	Effects []Effect
}

// SkillSystem names a skill and records the smallest positive
// point value any single catalog row contributes to it — used by
// armorsearch.EffectScore to rank query effects cheapest-first.
type SkillSystem struct {
	ID                   SkillID
	Name                 string
	LowestPositivePoints int
}

// ArmorFilter reports whether a piece is eligible for a query
// (e.g. rarity bounds, forbidden-piece sets built with
// containers.Set[PieceID]).
type ArmorFilter func(Piece) bool

// JewelFilter reports whether a jewel is eligible for a query.
type JewelFilter func(Jewel) bool
