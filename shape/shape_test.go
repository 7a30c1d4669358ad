package shape

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTypeID(t *testing.T) {
	tests := []struct {
		name  string
		id    TypeID
		pkg   string
		short string
		base  string
	}{
		{"qualified", NewTypeID("github.com/teranos/dtogen/model/orders", "Order"), "github.com/teranos/dtogen/model/orders", "orders.Order", "Order"},
		{"single element path", NewTypeID("orders", "Order"), "orders", "orders.Order", "Order"},
		{"unqualified", NewTypeID("", "Order"), "", "Order", "Order"},
		{"dotted host only", TypeID("example.com/x"), "", "example.com/x", "example.com/x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.pkg, tt.id.Package())
			assert.Equal(t, tt.base, tt.id.Name())
			assert.Equal(t, tt.short, tt.id.Short())
		})
	}
}

func TestAccess(t *testing.T) {
	assert.True(t, Direct().IsDirect())
	assert.Equal(t, "direct", Direct().String())

	a := ViaAccessor("GetName")
	assert.False(t, a.IsDirect())
	assert.Equal(t, "GetName", a.Accessor())
	assert.Equal(t, "GetName()", a.String())
}

func TestGenerationRequestString(t *testing.T) {
	r := GenerationRequest{TypeID: "pkg.Order", Groups: []string{"public", "admin"}, Version: "v1"}
	assert.Equal(t, "pkg.Order groups=public,admin version=v1", r.String())
	assert.True(t, r.Versioned())

	assert.Equal(t, "pkg.Order", GenerationRequest{TypeID: "pkg.Order"}.String())
}

func TestDateTimeLayout(t *testing.T) {
	assert.Equal(t, DefaultDateFormat, DateTime{}.Layout())
	assert.Equal(t, "2006-01-02", DateTime{Format: "2006-01-02"}.Layout())
}

func TestIsPrimitiveLike(t *testing.T) {
	cls := Class{Shape: &ClassShape{ID: "pkg.Tag"}}

	tests := []struct {
		name string
		spec TypeSpec
		want bool
	}{
		{"primitive", Primitive{}, true},
		{"unknown", Unknown{}, true},
		{"date", DateTime{}, false},
		{"class", cls, false},
		{"list of primitives", Collection{Elem: Primitive{}}, true},
		{"map of primitives", Collection{Elem: Primitive{}, Map: true}, true},
		{"nested list of primitives", Collection{Elem: Collection{Elem: Primitive{}}}, true},
		{"list of classes", Collection{Elem: cls}, false},
		{"list of unknown", Collection{Elem: Unknown{}}, true},
		{"map of lists of unknown", Collection{Elem: Collection{Elem: Unknown{}}, Map: true}, true},
		{"list of dates", Collection{Elem: DateTime{}}, false},
		{"list of lists of classes", Collection{Elem: Collection{Elem: cls}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsPrimitiveLike(tt.spec))
		})
	}
}

func TestClassOf(t *testing.T) {
	tag := &ClassShape{ID: "pkg.Tag"}

	got, ok := ClassOf(Collection{Elem: Collection{Elem: Class{Shape: tag}, Map: true}})
	assert.True(t, ok)
	assert.Same(t, tag, got)

	_, ok = ClassOf(Collection{Elem: Primitive{}})
	assert.False(t, ok)

	_, ok = ClassOf(DateTime{})
	assert.False(t, ok)
}

func TestTypeSpecString(t *testing.T) {
	tag := &ClassShape{ID: "github.com/x/customers.CustomerTag"}
	assert.Equal(t, "[]class(customers.CustomerTag)", Collection{Elem: Class{Shape: tag}}.String())
	assert.Equal(t, "map[string]primitive", Collection{Elem: Primitive{}, Map: true}.String())
	assert.Equal(t, "union(4 variants)", VariantUnion{Variants: make([]*ClassShape, 4)}.String())
}
