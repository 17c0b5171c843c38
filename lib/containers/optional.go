// Copyright (C) 2022  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

package containers

// Optional[T] is a value that may be absent, with the presence flag
// explicit rather than smuggled through a pointer or a zero value; a
// jewel-plan socket that stays empty is Optional[JewelID]{} rather
// than some sentinel id.
type Optional[T any] struct {
	OK  bool
	Val T
}
