// Copyright (C) 2022  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

package armorformat

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/mhbuild/armorquest/lib/armor"
	"github.com/mhbuild/armorquest/lib/armorsearch"
)

// SExprFormatter renders one ArmorSet as a compact plist-like
// S-expression line: one parenthesized record per line,
// keyword-tagged per part, each piece's id followed by the jewel ids
// packed into its sockets.
type SExprFormatter struct {
	*Formatter
}

// NewSExprFormatter builds an SExprFormatter for one query's effects.
func NewSExprFormatter(catalog *armor.Catalog, jewelFilter armor.JewelFilter, queryEffects []armorsearch.Effect) *SExprFormatter {
	return &SExprFormatter{NewFormatter(catalog, jewelFilter, queryEffects)}
}

// Write renders set to w as a single S-expression line.
func (f *SExprFormatter) Write(w io.Writer, set armorsearch.ArmorSet) error {
	placements := f.plan(set)
	jewelsFor := func(part armor.PartID, pieceID armor.PieceID) []armor.JewelID {
		var out []armor.JewelID
		for _, p := range placements {
			if p.Part == part && p.PieceID == pieceID && p.Jewel.OK {
				out = append(out, p.Jewel.Val)
			}
		}
		return out
	}

	var b strings.Builder
	b.WriteByte('(')
	appendPiece(&b, ":HEAD", int(set.PieceIDs[armor.HEAD]), jewelsFor(armor.HEAD, set.PieceIDs[armor.HEAD]))
	appendPiece(&b, ":BODY", int(set.PieceIDs[armor.BODY]), jewelsFor(armor.BODY, set.PieceIDs[armor.BODY]))
	appendPiece(&b, ":HANDS", int(set.PieceIDs[armor.HANDS]), jewelsFor(armor.HANDS, set.PieceIDs[armor.HANDS]))
	appendPiece(&b, ":WAIST", int(set.PieceIDs[armor.WAIST]), jewelsFor(armor.WAIST, set.PieceIDs[armor.WAIST]))
	appendPiece(&b, ":FEET", int(set.PieceIDs[armor.FEET]), jewelsFor(armor.FEET, set.PieceIDs[armor.FEET]))
	if set.HasAmulet {
		appendPiece(&b, ":AMULET", int(set.AmuletID), jewelsFor(armor.AMULET, set.AmuletID))
	} else {
		b.WriteString(":AMULET (-1 ())")
	}
	fmt.Fprintf(&b, " :DEFENSE %d", set.Defense)
	b.WriteString(")\n")

	_, err := io.WriteString(w, b.String())
	return err
}

func appendPiece(b *strings.Builder, tag string, id int, jewels []armor.JewelID) {
	b.WriteString(tag)
	b.WriteString(" (")
	b.WriteString(strconv.Itoa(id))
	b.WriteString(" (")
	for i, j := range jewels {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(strconv.Itoa(int(j)))
	}
	b.WriteString(")) ")
}
