package shape

import "fmt"

// TypeSpec is the closed set of field type variants.
type TypeSpec interface {
	fmt.Stringer
	isTypeSpec()
}

// Primitive is a scalar copied verbatim.
type Primitive struct{}

// Unknown is a value without structural knowledge (interface{}, any,
// json.RawMessage). It is copied verbatim like a primitive.
type Unknown struct{}

// DateTime is a time value that is formatted on output.
type DateTime struct {
	// Format is a Go time layout; empty means DefaultDateFormat.
	Format string
}

// Class is a nested object.
type Class struct {
	Shape *ClassShape
}

// Collection is a slice/array (Map false) or a string-keyed map (Map true).
type Collection struct {
	Elem TypeSpec
	Map  bool
}

// VariantUnion is a closed set of concrete shapes behind one contract.
// It only appears as the top-level dispatch of a registered override.
type VariantUnion struct {
	Variants []*ClassShape
}

func (Primitive) isTypeSpec()    {}
func (Unknown) isTypeSpec()      {}
func (DateTime) isTypeSpec()     {}
func (Class) isTypeSpec()        {}
func (Collection) isTypeSpec()   {}
func (VariantUnion) isTypeSpec() {}

func (Primitive) String() string { return "primitive" }
func (Unknown) String() string   { return "unknown" }

func (d DateTime) String() string {
	return "datetime(" + d.Layout() + ")"
}

func (c Class) String() string {
	if c.Shape == nil {
		return "class(<nil>)"
	}
	return "class(" + c.Shape.ID.Short() + ")"
}

func (c Collection) String() string {
	if c.Map {
		return "map[string]" + c.Elem.String()
	}
	return "[]" + c.Elem.String()
}

func (u VariantUnion) String() string {
	return fmt.Sprintf("union(%d variants)", len(u.Variants))
}

// Layout returns the configured layout or DefaultDateFormat.
func (d DateTime) Layout() string {
	if d.Format == "" {
		return DefaultDateFormat
	}
	return d.Format
}

// IsPrimitiveLike reports whether values of t are copied verbatim:
// primitives, unknowns and collections whose innermost element is one of them.
func IsPrimitiveLike(t TypeSpec) bool {
	switch v := t.(type) {
	case Primitive, Unknown:
		return true
	case Collection:
		return IsPrimitiveCollection(v)
	}
	return false
}

// IsPrimitiveCollection walks nested collections down to their leaf and
// reports whether that leaf is a primitive or an unknown value.
func IsPrimitiveCollection(c Collection) bool {
	var t TypeSpec = c
	for {
		coll, ok := t.(Collection)
		if !ok {
			return false
		}
		switch coll.Elem.(type) {
		case Primitive, Unknown:
			return true
		}
		t = coll.Elem
	}
}

// ClassOf returns the innermost class shape of t, unwrapping collections.
func ClassOf(t TypeSpec) (*ClassShape, bool) {
	for {
		switch v := t.(type) {
		case Class:
			return v.Shape, v.Shape != nil
		case Collection:
			t = v.Elem
		default:
			return nil, false
		}
	}
}
