// Package shape holds the resolved, per-request description of a type:
// which fields exist, in what order, how they are read and what they hold.
//
// Shapes are produced by a metadata provider for one generation request and
// are immutable once returned. Nested classes are shared pointers, so a
// self-referential Go type resolves to a cyclic pointer graph; consumers
// bound their walk with a Stack.
package shape

import (
	"strings"
)

// DefaultDateFormat is the layout used for date fields that do not declare one.
// It is ISO 8601 with a numeric zone offset.
const DefaultDateFormat = "2006-01-02T15:04:05-0700"

// TypeID is a fully-qualified Go type name: "<import path>.<Name>".
type TypeID string

// NewTypeID joins an import path and a type name.
func NewTypeID(pkgPath, name string) TypeID {
	if pkgPath == "" {
		return TypeID(name)
	}
	return TypeID(pkgPath + "." + name)
}

// Package returns the import path part of the identifier.
func (id TypeID) Package() string {
	s := string(id)
	i := strings.LastIndex(s, ".")
	if i < 0 || i < strings.LastIndex(s, "/") {
		return ""
	}
	return s[:i]
}

// Name returns the unqualified type name.
func (id TypeID) Name() string {
	s := string(id)
	if pkg := id.Package(); pkg != "" {
		return s[len(pkg)+1:]
	}
	return s
}

// Short returns "<last path element>.<Name>", used in diagnostics.
func (id TypeID) Short() string {
	pkg := id.Package()
	if pkg == "" {
		return id.Name()
	}
	if i := strings.LastIndex(pkg, "/"); i >= 0 {
		pkg = pkg[i+1:]
	}
	return pkg + "." + id.Name()
}

func (id TypeID) String() string { return string(id) }

// ClassShape is the resolved field set of one type for one request.
type ClassShape struct {
	ID TypeID

	// Abstract marks an interface contract; generated code receives it by
	// value instead of by pointer.
	Abstract bool

	// Fields in output order.
	Fields []FieldShape
}

// FieldShape describes one serialized field.
type FieldShape struct {
	// Name is the Go field name.
	Name string

	// SerializedKey is the output map key.
	SerializedKey string

	Access Access
	Type   TypeSpec

	// Exported reports whether generated code in another package can read
	// the field directly.
	Exported bool

	// Nillable reports whether the field's Go type can be nil.
	Nillable bool

	// Pointer reports whether the value is held behind a pointer. Present
	// values are dereferenced before they are written, absent ones are
	// skipped. Slices and maps are nillable without being pointers.
	Pointer bool

	// MaxDepth overrides the recursion threshold for this field.
	MaxDepth *int
}

// Access describes how generated code reads a field.
type Access struct {
	accessor string
}

// Direct is field access by selector.
func Direct() Access { return Access{} }

// ViaAccessor is access through a zero-argument method.
func ViaAccessor(name string) Access { return Access{accessor: name} }

// IsDirect reports whether the field is read by selector.
func (a Access) IsDirect() bool { return a.accessor == "" }

// Accessor returns the accessor method name, empty for direct access.
func (a Access) Accessor() string { return a.accessor }

func (a Access) String() string {
	if a.IsDirect() {
		return "direct"
	}
	return a.accessor + "()"
}

// GenerationRequest selects one shape of a type.
type GenerationRequest struct {
	TypeID TypeID

	// Version is empty for unversioned requests.
	Version string

	Groups []string
}

// Versioned reports whether the request pins an API version.
func (r GenerationRequest) Versioned() bool { return r.Version != "" }

func (r GenerationRequest) String() string {
	var sb strings.Builder
	sb.WriteString(string(r.TypeID))
	if len(r.Groups) > 0 {
		sb.WriteString(" groups=")
		sb.WriteString(strings.Join(r.Groups, ","))
	}
	if r.Version != "" {
		sb.WriteString(" version=")
		sb.WriteString(r.Version)
	}
	return sb.String()
}
