// Package util holds small helpers shared by the metadata sources.
package util

import (
	"strings"
	"unicode"
)

// ExportName turns a serialized key into the exported Go identifier it is
// read from: "createdAt" becomes CreatedAt, "external_id" and "external-id"
// become ExternalId. Keys made only of separators return "".
func ExportName(key string) string {
	parts := strings.FieldsFunc(key, func(r rune) bool {
		return r == '_' || r == '-' || r == '.' || unicode.IsSpace(r)
	})

	var result strings.Builder
	for _, part := range parts {
		runes := []rune(part)
		result.WriteRune(unicode.ToUpper(runes[0]))
		result.WriteString(string(runes[1:]))
	}
	return result.String()
}
