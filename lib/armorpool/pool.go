// Copyright (C) 2022  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

// Package armorpool implements the arena-backed AND/OR DAG: two
// dense, monotonically-growing slices of nodes addressed by plain
// int ids. Snapshot/restore lets the "explore" driver reuse a
// foundation across many trial queries without rebuilding it.
package armorpool

import (
	"fmt"

	"github.com/mhbuild/armorquest/lib/armorsig"
)

// Kind distinguishes an OR-node's children: either piece ids of one
// part (ARMORS) or AND-node ids (ANDS).
type Kind uint8

const (
	ARMORS Kind = iota
	ANDS
)

// ORID and ANDID are the two distinct id spaces; they are not
// interchangeable, which is why they're named types rather than
// bare ints.
type ORID int
type ANDID int

// ORNode is a set of alternatives sharing a signature. ARMORS
// children are piece ids of the owning part (Part says which
// part); ANDS children are ANDID values stored as int, and Part is
// meaningless for them.
type ORNode struct {
	Key      armorsig.Signature
	Kind     Kind
	Part     int // armor.PartID, valid only when Kind == ARMORS
	Children []int
}

// ANDNode represents the Cartesian composition of two OR-nodes.
type ANDNode struct {
	Left, Right ORID
}

// Snapshot is an opaque token from PushSnapshot; pass it to
// RestoreSnapshot to roll the pool back. A Snapshot is only valid
// for the Pool that produced it.
type Snapshot struct {
	orLen, andLen int
}

// Pool is the arena. The zero Pool is ready to use.
type Pool struct {
	ors  []ORNode
	ands []ANDNode
}

// MakeOR appends a new OR-node and returns its id. children is
// moved in, not copied; the caller must not reuse the slice. part
// is only meaningful when kind == ARMORS.
func (p *Pool) MakeOR(kind Kind, key armorsig.Signature, part int, children []int) ORID {
	id := ORID(len(p.ors))
	p.ors = append(p.ors, ORNode{Key: key, Kind: kind, Part: part, Children: children})
	return id
}

// MakeAnd appends a new AND-node and returns its id.
func (p *Pool) MakeAnd(left, right ORID) ANDID {
	id := ANDID(len(p.ands))
	p.ands = append(p.ands, ANDNode{Left: left, Right: right})
	return id
}

// Or returns a read-only view of the OR-node with the given id. An
// out-of-range id is a programming error and panics; there is no
// recovery from an invalid node id.
func (p *Pool) Or(id ORID) *ORNode {
	if int(id) < 0 || int(id) >= len(p.ors) {
		panic(fmt.Sprintf("armorpool: OR-node id %d out of range [0,%d)", id, len(p.ors)))
	}
	return &p.ors[id]
}

// And returns a read-only view of the AND-node with the given id.
func (p *Pool) And(id ANDID) *ANDNode {
	if int(id) < 0 || int(id) >= len(p.ands) {
		panic(fmt.Sprintf("armorpool: AND-node id %d out of range [0,%d)", id, len(p.ands)))
	}
	return &p.ands[id]
}

// NumOR and NumAnd report current arena sizes, mostly useful for
// diagnostics and the debug dump tool.
func (p *Pool) NumOR() int  { return len(p.ors) }
func (p *Pool) NumAnd() int { return len(p.ands) }

// PushSnapshot records the current arena sizes.
func (p *Pool) PushSnapshot() Snapshot {
	return Snapshot{orLen: len(p.ors), andLen: len(p.ands)}
}

// RestoreSnapshot truncates both arenas back to the recorded sizes,
// invalidating any ids issued since the snapshot. Restoring to a
// snapshot whose sizes exceed the current arena (a stale snapshot
// from, e.g., a different Pool) is a programming error and panics.
func (p *Pool) RestoreSnapshot(s Snapshot) {
	if s.orLen > len(p.ors) || s.andLen > len(p.ands) {
		panic("armorpool: stale snapshot: recorded size exceeds current arena")
	}
	p.ors = p.ors[:s.orLen]
	p.ands = p.ands[:s.andLen]
}
