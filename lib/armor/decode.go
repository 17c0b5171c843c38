// Copyright (C) 2022  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

package armor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"git.lukeshu.com/go/lowmemjson"
	"github.com/datawire/dlib/dlog"

	"github.com/mhbuild/armorquest/lib/streamio"
)

// wireArmor/wireJewel/wireSkill mirror the on-disk JSON shape; they
// exist so the public Piece/Jewel/SkillSystem types don't need json
// tags tying their Go field names to the wire schema.
type wireEffect struct {
	Skill  SkillID `json:"skill"`
	Points int     `json:"points"`
}

type wireArmor struct {
	ID         PieceID      `json:"id"`
	Part       string       `json:"part"`
	Name       string       `json:"name"`
	Rare       int          `json:"rare"`
	Holes      int          `json:"holes"`
	HoleSize   int          `json:"hole_size"`
	MaxDefense int          `json:"max_defense"`
	Effects    []wireEffect `json:"effects"`
}

type wireJewel struct {
	ID      JewelID      `json:"id"`
	Name    string       `json:"name"`
	Size    int          `json:"size"`
	Effects []wireEffect `json:"effects"`
}

type wireSkill struct {
	ID                   SkillID `json:"id"`
	Name                 string  `json:"name"`
	LowestPositivePoints int     `json:"lowest_positive_points"`
}

type wireMeta struct {
	TorsoUp SkillID `json:"torso_up"`
}

func partFromWire(file, name string) (PartID, error) {
	switch name {
	case "HEAD":
		return HEAD, nil
	case "BODY":
		return BODY, nil
	case "HANDS":
		return HANDS, nil
	case "WAIST":
		return WAIST, nil
	case "FEET":
		return FEET, nil
	default:
		return 0, &ErrMalformedRow{File: file, Reason: fmt.Sprintf("unknown part %q", name)}
	}
}

func effectsFromWire(in []wireEffect) []Effect {
	out := make([]Effect, len(in))
	for i, e := range in {
		out[i] = Effect{SkillID: e.Skill, Points: e.Points}
	}
	return out
}

// readJSONFile decodes a single JSON document from filename through
// a progress-reporting streamio.RuneScanner, so loading a large
// catalog file logs its progress.
func readJSONFile[T any](ctx context.Context, filename string) (T, error) {
	var zero T
	fh, err := os.Open(filename)
	if err != nil {
		return zero, err
	}
	ctx = dlog.WithField(ctx, "armorquest.load.file", filepath.Base(filename))
	rs, err := streamio.NewRuneScanner(ctx, fh)
	if err != nil {
		_ = fh.Close()
		return zero, err
	}
	defer func() { _ = rs.Close() }()

	var ret T
	if err := lowmemjson.DecodeThenEOF(rs, &ret); err != nil {
		return zero, fmt.Errorf("decoding %s: %w", filename, err)
	}
	return ret, nil
}

// DecodeDir loads a catalog from a directory of JSON documents:
// armors.json ([]wireArmor), jewels.json ([]wireJewel), skills.json
// ([]wireSkill), meta.json (wireMeta naming torso_up).
func DecodeDir(ctx context.Context, dir string) (*Catalog, error) {
	wireArmors, err := readJSONFile[[]wireArmor](ctx, filepath.Join(dir, "armors.json"))
	if err != nil {
		return nil, err
	}
	wireJewels, err := readJSONFile[[]wireJewel](ctx, filepath.Join(dir, "jewels.json"))
	if err != nil {
		return nil, err
	}
	wireSkills, err := readJSONFile[[]wireSkill](ctx, filepath.Join(dir, "skills.json"))
	if err != nil {
		return nil, err
	}
	meta, err := readJSONFile[wireMeta](ctx, filepath.Join(dir, "meta.json"))
	if err != nil {
		return nil, err
	}

	var pieces [5][]Piece
	for _, wa := range wireArmors {
		part, err := partFromWire(filepath.Join(dir, "armors.json"), wa.Part)
		if err != nil {
			return nil, err
		}
		pieces[part] = append(pieces[part], Piece{
			ID:         wa.ID,
			Part:       part,
			Name:       wa.Name,
			Rare:       wa.Rare,
			Holes:      wa.Holes,
			HoleSize:   wa.HoleSize,
			MaxDefense: wa.MaxDefense,
			Effects:    effectsFromWire(wa.Effects),
		})
	}

	jewels := make([]Jewel, 0, len(wireJewels))
	for _, wj := range wireJewels {
		if wj.Size < 1 || wj.Size > 3 {
			return nil, &ErrMalformedRow{File: "jewels.json", Reason: fmt.Sprintf("jewel %d has size %d, want 1..3", wj.ID, wj.Size)}
		}
		jewels = append(jewels, Jewel{
			ID:      wj.ID,
			Name:    wj.Name,
			Size:    wj.Size,
			Effects: effectsFromWire(wj.Effects),
		})
	}

	skills := make([]SkillSystem, 0, len(wireSkills))
	for _, ws := range wireSkills {
		skills = append(skills, SkillSystem{
			ID:                   ws.ID,
			Name:                 ws.Name,
			LowestPositivePoints: ws.LowestPositivePoints,
		})
	}

	return NewCatalog(pieces, jewels, skills, meta.TorsoUp), nil
}

// wireAmulet is armors.json's wireArmor shape minus the "part"
// field, since every row in an amulets file is implicitly AMULET —
// query.Amulets are synthetic pieces the CLI splices in at query
// start, not catalog rows with a home part of their own.
type wireAmulet struct {
	ID         PieceID      `json:"id"`
	Name       string       `json:"name"`
	Rare       int          `json:"rare"`
	Holes      int          `json:"holes"`
	HoleSize   int          `json:"hole_size"`
	MaxDefense int          `json:"max_defense"`
	Effects    []wireEffect `json:"effects"`
}

// DecodeAmuletsFile loads a query's supplied amulets from a single
// JSON array document, the CLI's --amulets flag.
func DecodeAmuletsFile(ctx context.Context, filename string) ([]Piece, error) {
	wireAmulets, err := readJSONFile[[]wireAmulet](ctx, filename)
	if err != nil {
		return nil, err
	}
	out := make([]Piece, 0, len(wireAmulets))
	for _, wa := range wireAmulets {
		out = append(out, Piece{
			ID:         wa.ID,
			Part:       AMULET,
			Name:       wa.Name,
			Rare:       wa.Rare,
			Holes:      wa.Holes,
			HoleSize:   wa.HoleSize,
			MaxDefense: wa.MaxDefense,
			Effects:    effectsFromWire(wa.Effects),
		})
	}
	return out, nil
}
