package codegen

import (
	"strings"

	"github.com/teranos/dtogen/shape"
)

// FunctionPrefix starts every generated function name.
const FunctionPrefix = "serialize_"

// FunctionID returns the deterministic function name of a request:
// serialize_<type>[_<group>...][_<version>] with every character outside
// [A-Za-z0-9_] replaced by an underscore. Groups keep their configured order.
func FunctionID(req shape.GenerationRequest) string {
	var sb strings.Builder
	sb.WriteString(FunctionPrefix)
	sb.WriteString(string(req.TypeID))
	if len(req.Groups) > 0 {
		sb.WriteString("_")
		sb.WriteString(strings.Join(req.Groups, "_"))
	}
	if req.Version != "" {
		sb.WriteString("_")
		sb.WriteString(req.Version)
	}
	return sanitizeIdentifier(sb.String())
}

func sanitizeIdentifier(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			return r
		}
		return '_'
	}, s)
}
