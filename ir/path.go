package ir

import (
	"strconv"
	"strings"
)

// Segment is one step of a Path: a literal key or a loop variable.
type Segment struct {
	Key string
	Var string
}

// IsVar reports whether the segment is bound to a loop variable.
func (s Segment) IsVar() bool { return s.Var != "" }

func (s Segment) String() string {
	if s.IsVar() {
		return "[" + s.Var + "]"
	}
	return "[" + strconv.Quote(s.Key) + "]"
}

// Path addresses a location in the output structure, relative to the
// function's result container. The zero value is the root.
type Path struct {
	segs []Segment
}

// Root returns the empty path.
func Root() Path { return Path{} }

// Key returns p extended by a literal key.
func (p Path) Key(key string) Path { return p.with(Segment{Key: key}) }

// Index returns p extended by a loop variable.
func (p Path) Index(name string) Path { return p.with(Segment{Var: name}) }

func (p Path) with(s Segment) Path {
	segs := make([]Segment, len(p.segs), len(p.segs)+1)
	copy(segs, p.segs)
	return Path{segs: append(segs, s)}
}

// IsRoot reports whether p is the root path.
func (p Path) IsRoot() bool { return len(p.segs) == 0 }

// Len returns the number of segments.
func (p Path) Len() int { return len(p.segs) }

// Parent returns p without its last segment. The parent of the root is the root.
func (p Path) Parent() Path {
	if p.IsRoot() {
		return p
	}
	return Path{segs: p.segs[:len(p.segs)-1]}
}

// Last returns the final segment; ok is false at the root.
func (p Path) Last() (Segment, bool) {
	if p.IsRoot() {
		return Segment{}, false
	}
	return p.segs[len(p.segs)-1], true
}

// Segments returns a copy of the segments.
func (p Path) Segments() []Segment {
	return append([]Segment(nil), p.segs...)
}

// String renders the path as `$["items"][index2]`.
func (p Path) String() string {
	var sb strings.Builder
	sb.WriteString("$")
	for _, s := range p.segs {
		sb.WriteString(s.String())
	}
	return sb.String()
}

// Equal reports whether two paths have the same segments.
func (p Path) Equal(o Path) bool {
	if len(p.segs) != len(o.segs) {
		return false
	}
	for i := range p.segs {
		if p.segs[i] != o.segs[i] {
			return false
		}
	}
	return true
}
