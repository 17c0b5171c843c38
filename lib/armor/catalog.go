// Copyright (C) 2022  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

package armor

import "fmt"

// Catalog is the read-only (mostly) view of everything a Query is
// evaluated against: the per-part piece lists, the jewel list, and
// the skill-system table naming which skill is torso-up.
//
// The one mutable region is extraArmor, the amulet slot: amulets
// are synthetic pieces supplied by the query and spliced in at query
// start. It is not safe for concurrent queries.
type Catalog struct {
	pieces  [5][]Piece // indexed by PartID HEAD..FEET
	jewels  []Jewel
	skills  map[SkillID]SkillSystem
	torsoUp SkillID

	extraArmor []Piece // AMULET part, set by SetAmulets before a query

	byID [5]map[PieceID]Piece // lazily built index for PieceByID
}

// NewCatalog builds a Catalog from already-decoded rows. Decoding
// from a directory of JSON documents is DecodeDir in decode.go.
func NewCatalog(pieces [5][]Piece, jewels []Jewel, skills []SkillSystem, torsoUp SkillID) *Catalog {
	c := &Catalog{
		pieces:  pieces,
		jewels:  jewels,
		skills:  make(map[SkillID]SkillSystem, len(skills)),
		torsoUp: torsoUp,
	}
	for _, s := range skills {
		c.skills[s.ID] = s
	}
	return c
}

// SetAmulets installs the query's synthetic amulet pieces, replacing
// any previous installation. It must be called before the
// foundation is built for a query and must not be called again
// until that query has finished draining.
func (c *Catalog) SetAmulets(amulets []Piece) {
	c.extraArmor = amulets
}

// Pieces returns the pieces of the given part that pass filter (nil
// filter accepts everything). Part must be one of HEAD..FEET or
// AMULET.
func (c *Catalog) Pieces(part PartID, filter ArmorFilter) []Piece {
	var all []Piece
	if part == AMULET {
		all = c.extraArmor
	} else {
		all = c.pieces[part]
	}
	if filter == nil {
		out := make([]Piece, len(all))
		copy(out, all)
		return out
	}
	out := make([]Piece, 0, len(all))
	for _, p := range all {
		if filter(p) {
			out = append(out, p)
		}
	}
	return out
}

// Jewels returns the jewels that pass filter (nil filter accepts
// everything).
func (c *Catalog) Jewels(filter JewelFilter) []Jewel {
	if filter == nil {
		out := make([]Jewel, len(c.jewels))
		copy(out, c.jewels)
		return out
	}
	out := make([]Jewel, 0, len(c.jewels))
	for _, j := range c.jewels {
		if filter(j) {
			out = append(out, j)
		}
	}
	return out
}

// PieceByID looks up a piece of the given part by its catalog id,
// including AMULET (searched against the installed extraArmor, since
// amulets never populate the per-part index). The per-part index for
// HEAD..FEET is built on first use.
func (c *Catalog) PieceByID(part PartID, id PieceID) (Piece, bool) {
	if part == AMULET {
		for _, p := range c.extraArmor {
			if p.ID == id {
				return p, true
			}
		}
		return Piece{}, false
	}
	if c.byID[part] == nil {
		idx := make(map[PieceID]Piece, len(c.pieces[part]))
		for _, p := range c.pieces[part] {
			idx[p.ID] = p
		}
		c.byID[part] = idx
	}
	p, ok := c.byID[part][id]
	return p, ok
}

// SkillSystem looks up a skill by id.
func (c *Catalog) SkillSystem(id SkillID) (SkillSystem, bool) {
	s, ok := c.skills[id]
	return s, ok
}

// TorsoUp returns the distinguished torso-up skill id.
func (c *Catalog) TorsoUp() SkillID {
	return c.torsoUp
}

// CheckEffects validates that every effect in effects names a known
// skill, returning *ErrUnknownSkill (wrapped) for the first one that
// doesn't.
func (c *Catalog) CheckEffects(effects []Effect) error {
	for _, e := range effects {
		if _, ok := c.skills[e.SkillID]; !ok {
			return fmt.Errorf("validating query effects: %w", &ErrUnknownSkill{SkillID: e.SkillID})
		}
	}
	return nil
}
