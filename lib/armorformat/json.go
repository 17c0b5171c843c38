// Copyright (C) 2022  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

package armorformat

import (
	"io"

	"git.lukeshu.com/go/lowmemjson"

	"github.com/mhbuild/armorquest/lib/armor"
	"github.com/mhbuild/armorquest/lib/armorsearch"
)

// JSONFormatter renders one ArmorSet as a JSON document through
// lowmemjson.Encode, the same codec the catalog reader uses, so the
// input and output schemas share one library.
type JSONFormatter struct {
	*Formatter
}

// NewJSONFormatter builds a JSONFormatter for one query's effects.
func NewJSONFormatter(catalog *armor.Catalog, jewelFilter armor.JewelFilter, queryEffects []armorsearch.Effect) *JSONFormatter {
	return &JSONFormatter{NewFormatter(catalog, jewelFilter, queryEffects)}
}

// jsonPlacement/jsonSet mirror the wire layout without tying
// armorsearch's ArmorSet itself to a wire schema.
type jsonPlacement struct {
	Part    string `json:"part"`
	PieceID int    `json:"piece_id"`
	Name    string `json:"name"`
	JewelID *int   `json:"jewel_id"`
	Jewel   string `json:"jewel,omitempty"`
}

type jsonSet struct {
	Defense    int             `json:"defense"`
	HasAmulet  bool            `json:"has_amulet"`
	Placements []jsonPlacement `json:"placements"`
}

func (f *JSONFormatter) toJSON(set armorsearch.ArmorSet) jsonSet {
	out := jsonSet{Defense: set.Defense, HasAmulet: set.HasAmulet}
	for _, p := range f.plan(set) {
		name := "?"
		if piece, ok := f.Catalog.PieceByID(p.Part, p.PieceID); ok {
			name = piece.Name
		}
		placement := jsonPlacement{
			Part:    p.Part.String(),
			PieceID: int(p.PieceID),
			Name:    name,
		}
		if p.Jewel.OK {
			id := int(p.Jewel.Val)
			placement.JewelID = &id
			if jewel, ok := jewelByID(f.Catalog, p.Jewel.Val); ok {
				placement.Jewel = jewel.Name
			}
		}
		out.Placements = append(out.Placements, placement)
	}
	return out
}

// Write renders set to w as one JSON document followed by a
// newline.
func (f *JSONFormatter) Write(w io.Writer, set armorsearch.ArmorSet) error {
	return lowmemjson.Encode(&lowmemjson.ReEncoder{
		Out: w,

		Indent:                "  ",
		ForceTrailingNewlines: true,
		CompactIfUnder:        120,
	}, f.toJSON(set))
}
