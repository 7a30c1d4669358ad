package shape

import (
	"sort"
	"strconv"
	"strings"
)

// Stack counts how often each type was entered along one expansion path.
//
// A Stack is persistent: Enter returns a new Stack and never mutates the
// receiver, so sibling branches of a walk cannot observe each other's
// entries. The zero value is an empty stack.
type Stack struct {
	counts map[TypeID]int
	depth  int
}

// NewStack returns an empty stack.
func NewStack() Stack { return Stack{} }

// Enter returns a copy of s with the count of id incremented.
func (s Stack) Enter(id TypeID) Stack {
	next := make(map[TypeID]int, len(s.counts)+1)
	for k, v := range s.counts {
		next[k] = v
	}
	next[id]++
	return Stack{counts: next, depth: s.depth + 1}
}

// Count returns how many times id was entered.
func (s Stack) Count(id TypeID) int { return s.counts[id] }

// Depth returns the number of Enter calls along the path.
func (s Stack) Depth() int { return s.depth }

// String renders the counts sorted by type, e.g. "orders.Order=1 orders.Item=2".
func (s Stack) String() string {
	ids := make([]string, 0, len(s.counts))
	for id := range s.counts {
		ids = append(ids, string(id))
	}
	sort.Strings(ids)

	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		parts = append(parts, TypeID(id).Short()+"="+strconv.Itoa(s.counts[TypeID(id)]))
	}
	if len(parts) == 0 {
		return "<empty>"
	}
	return strings.Join(parts, " ")
}
