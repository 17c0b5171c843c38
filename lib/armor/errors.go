// Copyright (C) 2022  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

package armor

import "fmt"

// ErrUnknownSkill is returned (wrapped with the offending id) when a
// query references a skill id absent from the catalog's skill
// system table.
type ErrUnknownSkill struct {
	SkillID SkillID
}

func (e *ErrUnknownSkill) Error() string {
	return fmt.Sprintf("unknown skill id: %d", e.SkillID)
}

func (e *ErrUnknownSkill) Is(target error) bool {
	_, ok := target.(*ErrUnknownSkill)
	return ok
}

// ErrMalformedRow is returned by catalog decoding when a row fails a
// structural check that json decoding itself cannot express (e.g. a
// jewel size outside 1..3).
type ErrMalformedRow struct {
	File   string
	Reason string
}

func (e *ErrMalformedRow) Error() string {
	return fmt.Sprintf("malformed row in %s: %s", e.File, e.Reason)
}

func (e *ErrMalformedRow) Is(target error) bool {
	_, ok := target.(*ErrMalformedRow)
	return ok
}
