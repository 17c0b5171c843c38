// Copyright (C) 2022  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

package armorformat

import (
	"fmt"
	"io"

	"github.com/mhbuild/armorquest/lib/armor"
	"github.com/mhbuild/armorquest/lib/armorsearch"
)

// WriteExploreResult renders one SkillFeasibility trial as
// "(skill_id :PASS)" / "(skill_id :FAIL)", one record per line, with
// the skill's name in a trailing comment for human readers.
func WriteExploreResult(w io.Writer, catalog *armor.Catalog, result armorsearch.SkillFeasibility) error {
	status := ":FAIL"
	if result.Feasible {
		status = ":PASS"
	}
	name := "?"
	if sys, ok := catalog.SkillSystem(result.SkillID); ok {
		name = sys.Name
	}
	_, err := fmt.Fprintf(w, "(%d %s) ; %s\n", result.SkillID, status, name)
	return err
}
