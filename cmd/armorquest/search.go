// Copyright (C) 2022  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/datawire/dlib/dlog"
	"github.com/datawire/ocibuild/pkg/cliutil"
	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"

	"github.com/mhbuild/armorquest/lib/armor"
	"github.com/mhbuild/armorquest/lib/armorformat"
	"github.com/mhbuild/armorquest/lib/armorsearch"
	"github.com/mhbuild/armorquest/lib/containers"
	"github.com/mhbuild/armorquest/lib/textui"
)

// writer is the interface Write(io.Writer, armorsearch.ArmorSet) error
// that all three armorformat drain-mode formatters satisfy; the CLI
// drains the ResultStream through whichever one --format names.
type writer interface {
	Write(io.Writer, armorsearch.ArmorSet) error
}

func newSearchCmd(catalogDir *string) *cobra.Command {
	var skillFlags []string
	var forbidArmor []int
	var forbidJewel []int
	var amuletsFile string
	var defense int
	var maxResults int
	var format string
	var output string
	var debugDump bool

	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search the catalog for armor sets meeting the given skill targets",
		Args:  cliutil.WrapPositionalArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			catalog, err := armor.DecodeDir(ctx, *catalogDir)
			if err != nil {
				return err
			}

			effects, err := parseSkillFlags(skillFlags)
			if err != nil {
				return err
			}

			var amulets []armor.Piece
			if amuletsFile != "" {
				amulets, err = armor.DecodeAmuletsFile(ctx, amuletsFile)
				if err != nil {
					return err
				}
			}

			armorFilter := forbidArmorFilter(forbidArmor)
			jewelFilter := forbidJewelFilter(forbidJewel)

			var driver armorsearch.Driver
			stream, err := driver.Search(ctx, catalog, armorsearch.Query{
				Effects:     effects,
				ArmorFilter: armorFilter,
				JewelFilter: jewelFilter,
				Amulets:     amulets,
				Defense:     defense,
				MaxResults:  maxResults,
			})
			if err != nil {
				return err
			}

			out, closeOut, err := openOutput(output)
			if err != nil {
				return err
			}
			defer closeOut()

			fmtr, err := newWriter(format, catalog, jewelFilter, effects)
			if err != nil {
				return err
			}

			dumper := spew.NewDefaultConfig()
			dumper.DisablePointerAddresses = true

			count := 0
			for {
				set, ok := stream.Next()
				if !ok {
					break
				}
				if debugDump {
					dumper.Fdump(os.Stderr, set)
				}
				if err := fmtr.Write(out, set); err != nil {
					return err
				}
				count++
			}
			dlog.Infof(ctx, "armorquest: wrote %d armor set(s)", count)
			dlog.Debugf(ctx, "armorquest: memory: %v", new(textui.LiveMemUse))
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringArrayVar(&skillFlags, "skill", nil, "require `skill_id=points`; may be repeated")
	flags.IntSliceVar(&forbidArmor, "forbid-armor", nil, "exclude armor piece `id` from the search; may be repeated")
	flags.IntSliceVar(&forbidJewel, "forbid-jewel", nil, "exclude jewel `id` from the search; may be repeated")
	flags.StringVar(&amuletsFile, "amulets", "", "load synthetic amulet pieces from a JSON `file`")
	if err := cmd.MarkFlagFilename("amulets"); err != nil {
		panic(err)
	}
	flags.IntVar(&defense, "defense", 0, "minimum total defense")
	flags.IntVar(&maxResults, "max-results", 100, "stop after this many armor sets")
	flags.StringVar(&format, "format", "text", "drain-mode formatter: text, sexpr, or json")
	flags.StringVar(&output, "output", "-", "write results to `file` (\"-\" for stdout)")
	flags.BoolVar(&debugDump, "debug-dump", false, "spew.Dump each ArmorSet to stderr before formatting")

	return cmd
}

func parseSkillFlags(flags []string) ([]armorsearch.Effect, error) {
	out := make([]armorsearch.Effect, 0, len(flags))
	for _, raw := range flags {
		parts := strings.SplitN(raw, "=", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("--skill %q: want skill_id=points", raw)
		}
		skillID, err := strconv.Atoi(parts[0])
		if err != nil {
			return nil, fmt.Errorf("--skill %q: bad skill_id: %w", raw, err)
		}
		points, err := strconv.Atoi(parts[1])
		if err != nil {
			return nil, fmt.Errorf("--skill %q: bad points: %w", raw, err)
		}
		out = append(out, armorsearch.Effect{SkillID: armor.SkillID(skillID), Points: points})
	}
	return out, nil
}

func forbidArmorFilter(ids []int) armor.ArmorFilter {
	if len(ids) == 0 {
		return nil
	}
	forbidden := make(containers.Set[armor.PieceID], len(ids))
	for _, id := range ids {
		forbidden.Insert(armor.PieceID(id))
	}
	return func(p armor.Piece) bool {
		return !forbidden.Has(p.ID)
	}
}

func forbidJewelFilter(ids []int) armor.JewelFilter {
	if len(ids) == 0 {
		return nil
	}
	forbidden := make(containers.Set[armor.JewelID], len(ids))
	for _, id := range ids {
		forbidden.Insert(armor.JewelID(id))
	}
	return func(j armor.Jewel) bool {
		return !forbidden.Has(j.ID)
	}
}

func newWriter(format string, catalog *armor.Catalog, jewelFilter armor.JewelFilter, effects []armorsearch.Effect) (writer, error) {
	switch format {
	case "text":
		return armorformat.NewTextFormatter(catalog, jewelFilter, effects), nil
	case "sexpr":
		return armorformat.NewSExprFormatter(catalog, jewelFilter, effects), nil
	case "json":
		return armorformat.NewJSONFormatter(catalog, jewelFilter, effects), nil
	default:
		return nil, fmt.Errorf("--format %q: want text, sexpr, or json", format)
	}
}

func openOutput(path string) (io.Writer, func(), error) {
	if path == "" || path == "-" {
		return os.Stdout, func() {}, nil
	}
	fh, err := os.Create(path)
	if err != nil {
		return nil, nil, err
	}
	return fh, func() { _ = fh.Close() }, nil
}
