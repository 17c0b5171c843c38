// Copyright (C) 2022  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

// Package armorsig implements the packed fingerprint ("signature")
// that the search engine shares and compares in place of concrete
// piece tuples: per-skill points for the skills currently being
// tracked, socket counts by size, and the body-torso multiplier.
package armorsig

// MaxSkillSlots bounds how many skills a single pipeline stage can
// track at once. The foundation only ever tracks two; skill-split
// stages track the foundation's two plus the skills refined so far.
// 16 leaves ample headroom without needing a variable-width encoding,
// and a plain comparable array works directly as a map key.
const MaxSkillSlots = 16

// Signature is a fixed-width, comparable fingerprint: it can be used
// directly as a map key, which is what NodePool's merge-by-key
// grouping and the jewel solver's memoisation table both rely on.
//
// Points is indexed by pipeline-stage-local skill slot, not by
// armor.SkillID — callers track the slot↔SkillID mapping themselves
// (it's the same for every Signature alive during one stage).
type Signature struct {
	Points     [MaxSkillSlots]int32
	Holes      [3]uint8 // counts of size-1, size-2, size-3 sockets
	Multiplier uint8    // body-torso multiplier; 1 for non-body pieces, the torso-up value (0 if none) for a body piece's foundation signature
}

// New returns a zero signature with Multiplier 1, the base
// multiplier every non-merged piece starts with.
func New() Signature {
	return Signature{Multiplier: 1}
}

// Add combines two signatures skill-wise and socket-wise; the
// multiplier takes the larger of the two rather than summing, so
// that repeated non-body merges don't inflate it — only
// BodyRefactor changes Multiplier to a value that means something.
func Add(a, b Signature) Signature {
	var out Signature
	for i := range out.Points {
		out.Points[i] = a.Points[i] + b.Points[i]
	}
	for i := range out.Holes {
		out.Holes[i] = a.Holes[i] + b.Holes[i]
	}
	out.Multiplier = a.Multiplier
	if b.Multiplier > out.Multiplier {
		out.Multiplier = b.Multiplier
	}
	return out
}

// Or has the same layout-level effect as Add; it is the name used
// when combining an armor signature with a jewel-assignment
// signature, where "OR" better describes layering a socket-fill on
// top of a piece than "adding" does. A jewel-key signature's Holes
// count the sockets the fill consumes, so the combined value's Holes
// are not meaningful as free-socket counts; Satisfy never looks at
// them.
func Or(a, b Signature) Signature {
	return Add(a, b)
}

// AddPoints returns a with delta added to skill slot i.
func AddPoints(a Signature, slot int, delta int32) Signature {
	out := a
	out.Points[slot] += delta
	return out
}

// GetPoints returns a's accumulated points in skill slot i.
func GetPoints(a Signature, slot int) int32 {
	return a.Points[slot]
}

// BodyRefactor rewrites a non-body signature to account for the
// compound torso-up multiplier newMult that the body side of a merge
// carries: the skill points already accumulated on the non-body side
// are scaled by newMult before the body piece itself is added in.
//
// BodyRefactor never touches a.Multiplier itself — only Points — so
// that BodyRefactor(s, 1) == s holds regardless of what s.Multiplier
// already is; the multiplier field always describes a standalone
// piece or a body-side accumulator, never "how this signature was
// last scaled."
func BodyRefactor(a Signature, newMult uint8) Signature {
	out := a
	for i := range out.Points {
		out.Points[i] *= int32(newMult)
	}
	return out
}

// Satisfy reports whether every skill slot of sig meets or exceeds
// the corresponding threshold encoded in inverse (an "inverse key"
// built by InverseKey). Holes and Multiplier are not compared.
func Satisfy(sig, inverse Signature) bool {
	for i := range sig.Points {
		if sig.Points[i] < inverse.Points[i] {
			return false
		}
	}
	return true
}

// InverseKey builds the test vector Satisfy compares against: a
// signature whose skill slots hold the minimum required points for
// each tracked skill, in slot order. Unused slots are left at 0,
// the natural "always satisfied" default.
func InverseKey(minPoints []int32) Signature {
	var out Signature
	copy(out.Points[:], minPoints)
	return out
}
