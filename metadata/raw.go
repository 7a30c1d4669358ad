// Package metadata resolves shapes from annotated type declarations.
//
// A type is declared once as a RawClass whose properties carry one or more
// alternative Variations (different getters, version ranges, groups). A
// Pipeline of Reducers narrows each property to a single variation for one
// generation request, and the Builder turns the survivors into a
// shape.ClassShape graph.
package metadata

import (
	"strings"

	"github.com/teranos/dtogen/shape"
)

// DefaultGroup is the group of variations that declare none.
const DefaultGroup = "Default"

// RawClass is the unreduced declaration of one type.
type RawClass struct {
	ID       shape.TypeID
	Abstract bool

	// Properties in declaration order, one per serialized key.
	Properties []RawProperty
}

// Property returns the property with the given serialized key.
func (c *RawClass) Property(key string) (*RawProperty, bool) {
	for i := range c.Properties {
		if c.Properties[i].SerializedKey == key {
			return &c.Properties[i], true
		}
	}
	return nil, false
}

// AddVariation appends v to the property named key, creating it at the end
// of the declaration order when absent.
func (c *RawClass) AddVariation(key string, v Variation) {
	if p, ok := c.Property(key); ok {
		p.Variations = append(p.Variations, v)
		return
	}
	c.Properties = append(c.Properties, RawProperty{SerializedKey: key, Variations: []Variation{v}})
}

// RawProperty groups every variation that serializes under one key.
type RawProperty struct {
	SerializedKey string
	Variations    []Variation
}

// Variation is one way of producing a property.
type Variation struct {
	// Name is the Go field name.
	Name     string
	Access   shape.Access
	Type     RawType
	Exported bool
	Nillable bool
	// Pointer marks a value read through a pointer.
	Pointer bool

	Groups    []string
	Since     string
	Until     string
	Preferred bool
	MaxDepth  *int
}

// InGroup reports whether the variation belongs to any of groups. A variation
// without groups belongs to DefaultGroup.
func (v Variation) InGroup(groups []string) bool {
	own := v.Groups
	if len(own) == 0 {
		own = []string{DefaultGroup}
	}
	for _, g := range groups {
		for _, o := range own {
			if g == o {
				return true
			}
		}
	}
	return false
}

func (v Variation) String() string {
	var sb strings.Builder
	sb.WriteString(v.Name)
	sb.WriteString(" ")
	sb.WriteString(v.Access.String())
	if len(v.Groups) > 0 {
		sb.WriteString(" groups=" + strings.Join(v.Groups, "|"))
	}
	if v.Since != "" {
		sb.WriteString(" since=" + v.Since)
	}
	if v.Until != "" {
		sb.WriteString(" until=" + v.Until)
	}
	if v.Preferred {
		sb.WriteString(" preferred")
	}
	return sb.String()
}

// RawType mirrors shape.TypeSpec with classes referenced by identifier.
type RawType interface {
	String() string
	isRawType()
}

// TypePrimitive is a scalar.
type TypePrimitive struct{}

// TypeUnknown is a value without structural knowledge.
type TypeUnknown struct{}

// TypeDateTime is a formatted time value.
type TypeDateTime struct {
	Format string
}

// TypeRef references another RawClass.
type TypeRef struct {
	ID shape.TypeID
}

// TypeCollection is a list, or a string-keyed map when Map is set.
type TypeCollection struct {
	Elem RawType
	Map  bool
}

func (TypePrimitive) isRawType()  {}
func (TypeUnknown) isRawType()    {}
func (TypeDateTime) isRawType()   {}
func (TypeRef) isRawType()        {}
func (TypeCollection) isRawType() {}

func (TypePrimitive) String() string { return "primitive" }
func (TypeUnknown) String() string   { return "unknown" }

func (t TypeDateTime) String() string {
	if t.Format == "" {
		return "datetime"
	}
	return "datetime(" + t.Format + ")"
}

func (t TypeRef) String() string { return "class(" + string(t.ID) + ")" }

func (t TypeCollection) String() string {
	if t.Map {
		return "map(" + t.Elem.String() + ")"
	}
	return "list(" + t.Elem.String() + ")"
}
