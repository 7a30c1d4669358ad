package codegen

import (
	"github.com/teranos/dtogen/shape"
)

// DefaultMaxDepth lets a type repeat once along one expansion path.
const DefaultMaxDepth = 1

// Exceeded reports whether expanding field would enter its class more often
// than allowed along the current path. Occurrences are counted per type; the
// field's own MaxDepth wins over threshold. Fields without a class type are
// never guarded.
//
// A true result drops the field from the output, so cyclic shapes lose their
// deepest nested data instead of failing.
func Exceeded(field shape.FieldShape, stack shape.Stack, threshold int) bool {
	cs, ok := shape.ClassOf(field.Type)
	if !ok {
		return false
	}
	if field.MaxDepth != nil {
		threshold = *field.MaxDepth
	}
	return stack.Count(cs.ID) > threshold
}
