// Copyright (C) 2023  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

package main

import (
	"github.com/spf13/cobra"

	"github.com/mhbuild/armorquest/lib/profile"
)

// addProfileFlags wires lib/profile's generic pprof/trace flags onto
// the root command.
func addProfileFlags(argparser *cobra.Command) profile.StopFunc {
	return profile.AddProfileFlags(argparser.PersistentFlags(), "profile-")
}
