// Copyright (C) 2022  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

package main

import (
	"fmt"

	"git.lukeshu.com/go/lowmemjson"
	"github.com/datawire/dlib/dlog"
	"github.com/datawire/ocibuild/pkg/cliutil"
	"github.com/spf13/cobra"

	"github.com/mhbuild/armorquest/lib/armor"
	"github.com/mhbuild/armorquest/lib/armorformat"
	"github.com/mhbuild/armorquest/lib/armorsearch"
)

// newExploreCmd builds the standalone "explore" mode: for every
// skill not already in the base query, check whether adding it (at
// its lowest positive point value) still yields at least one armor
// set, reusing the foundation across trials via
// armorsearch.Driver.Explore's snapshot/restore.
func newExploreCmd(catalogDir *string) *cobra.Command {
	var skillFlags []string
	var defense int
	var format string
	var output string

	cmd := &cobra.Command{
		Use:   "explore",
		Short: "Check, skill by skill, which additional skills remain feasible for a base query",
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

			var driver armorsearch.Driver
			results, err := driver.Explore(ctx, catalog, armorsearch.Query{
				Effects: effects,
				Defense: defense,
			})
			if err != nil {
				return err
			}

			out, closeOut, err := openOutput(output)
			if err != nil {
				return err
			}
			defer closeOut()

			switch format {
			case "text":
				for _, r := range results {
					if err := armorformat.WriteExploreResult(out, catalog, r); err != nil {
						return err
					}
				}
			case "json":
				if err := writeJSONFile(out, results, lowmemjson.ReEncoder{
					Indent:                "  ",
					ForceTrailingNewlines: true,
				}); err != nil {
					return err
				}
			default:
				return fmt.Errorf("--format %q: want text or json", format)
			}

			pass := 0
			for _, r := range results {
				if r.Feasible {
					pass++
				}
			}
			dlog.Infof(ctx, "armorquest: %d/%d additional skills remain feasible", pass, len(results))
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringArrayVar(&skillFlags, "skill", nil, "base-query requirement `skill_id=points`; may be repeated")
	flags.IntVar(&defense, "defense", 0, "minimum total defense")
	flags.StringVar(&format, "format", "text", "output format: text or json")
	flags.StringVar(&output, "output", "-", "write results to `file` (\"-\" for stdout)")

	return cmd
}
