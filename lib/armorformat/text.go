// Copyright (C) 2022  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

package armorformat

import (
	"io"

	"github.com/mhbuild/armorquest/lib/armor"
	"github.com/mhbuild/armorquest/lib/armorsearch"
	"github.com/mhbuild/armorquest/lib/textui"
)

// TextFormatter renders one ArmorSet as a human-readable block: one
// line per equipped part plus a trailing jewel-plan line, through
// textui.Fprintf so the defense figure gets thousands separators.
type TextFormatter struct {
	*Formatter
}

// NewTextFormatter builds a TextFormatter for one query's effects.
func NewTextFormatter(catalog *armor.Catalog, jewelFilter armor.JewelFilter, queryEffects []armorsearch.Effect) *TextFormatter {
	return &TextFormatter{NewFormatter(catalog, jewelFilter, queryEffects)}
}

func holeText(holes int) string {
	switch holes {
	case 1:
		return "O--"
	case 2:
		return "OO-"
	case 3:
		return "OOO"
	default:
		return "---"
	}
}

// Write renders set to w as one multi-line block.
func (f *TextFormatter) Write(w io.Writer, set armorsearch.ArmorSet) error {
	if _, err := textui.Fprintf(w, "---------- ArmorSet (defense %v) ----------\n", set.Defense); err != nil {
		return err
	}
	for _, part := range armor.Parts {
		name, holes, rare := "?", 0, 0
		if p, ok := f.Catalog.PieceByID(part, set.PieceIDs[part]); ok {
			name, holes, rare = p.Name, p.Holes, p.Rare
		}
		if _, err := textui.Fprintf(w, "[%6s] [%s] [Rare %02d] %s\n", part, holeText(holes), rare, name); err != nil {
			return err
		}
	}
	if set.HasAmulet {
		name, holes := "?", 0
		if p, ok := f.Catalog.PieceByID(armor.AMULET, set.AmuletID); ok {
			name, holes = p.Name, p.Holes
		}
		if _, err := textui.Fprintf(w, "[AMULET] [%s] %s\n", holeText(holes), name); err != nil {
			return err
		}
	}

	if _, err := io.WriteString(w, "Jewel Plan:"); err != nil {
		return err
	}
	for _, placement := range f.plan(set) {
		if !placement.Jewel.OK {
			continue
		}
		name := "?"
		if j, ok := jewelByID(f.Catalog, placement.Jewel.Val); ok {
			name = j.Name
		}
		if _, err := textui.Fprintf(w, " | %s[%s]", name, placement.Part); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, " |\n\n")
	return err
}
