package render

import (
	"context"
	"go/parser"
	"go/token"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/dtogen/codegen"
	"github.com/teranos/dtogen/errors"
	"github.com/teranos/dtogen/internal/fixtures"
	"github.com/teranos/dtogen/ir"
	"github.com/teranos/dtogen/metadata"
	"github.com/teranos/dtogen/shape"
)

var model = ir.Var{Name: codegen.ParamName}

func buildOrder(t *testing.T, req shape.GenerationRequest) *ir.Function {
	t.Helper()
	provider := metadata.NewBuilder(fixtures.Catalog())
	pipeline, err := metadata.PipelineFor(req)
	require.NoError(t, err)
	cs, err := provider.Resolve(context.Background(), req.TypeID, pipeline)
	require.NoError(t, err)
	fn, err := codegen.New(provider, codegen.DefaultRegistry(), codegen.DefaultOptions()).BuildFunction(context.Background(), cs, req)
	require.NoError(t, err)
	return fn
}

func render(t *testing.T, fn *ir.Function) string {
	t.Helper()
	src, err := New("serializers").Render(fn)
	require.NoError(t, err)

	_, err = parser.ParseFile(token.NewFileSet(), "gen.go", src, parser.AllErrors)
	require.NoError(t, err, string(src))
	return string(src)
}

func TestRenderPrimitives(t *testing.T) {
	root := ir.Root()
	fn := &ir.Function{
		Name:      "serialize_x_Point",
		Param:     "model",
		ParamType: "example.com/geo.Point",
		Pointer:   true,
		Body: ir.Block{ir.Object{Target: root, Body: ir.Block{
			ir.Guard{Value: ir.Field{X: model, Name: "X"}, Body: ir.Block{
				ir.Assign{Target: root.Key("x"), Value: ir.Field{X: model, Name: "X"}},
			}},
			ir.Guard{Value: ir.Field{X: model, Name: "Labels"}, Body: ir.Block{
				ir.Copy{Target: root.Key("labels"), Value: ir.Field{X: model, Name: "Labels"}},
			}},
		}}},
	}

	src := render(t, fn)

	assert.Contains(t, src, "// "+Header)
	assert.Contains(t, src, "package serializers")
	assert.Contains(t, src, `"example.com/geo"`)
	assert.Contains(t, src, "func serialize_x_Point(model *geo.Point) map[string]any {")
	assert.Contains(t, src, "if model == nil {\n\t\treturn nil\n\t}")
	assert.Contains(t, src, "data := map[string]any{}")
	assert.Contains(t, src, `data["x"] = model.X`)
	assert.Contains(t, src, `data["labels"] = model.Labels`)
	assert.Contains(t, src, "return data\n}")
}

func TestRenderGuards(t *testing.T) {
	root := ir.Root()
	comment := ir.Var{Name: "modelManagerComment"}
	tests := []struct {
		name     string
		guard    ir.Guard
		contains []string
		absent   []string
	}{
		{
			name: "temp nillable",
			guard: ir.Guard{
				Temp: comment.Name, Value: ir.Call{X: model, Method: "ManagerComment"}, Nillable: true,
				Body: ir.Block{ir.Assign{Target: root.Key("managerComment"), Value: ir.Deref{X: comment}}},
			},
			contains: []string{
				"if modelManagerComment := model.ManagerComment(); modelManagerComment != nil {",
				`data["managerComment"] = *modelManagerComment`,
			},
		},
		{
			name: "temp not nillable",
			guard: ir.Guard{
				Temp: comment.Name, Value: ir.Call{X: model, Method: "ManagerComment"},
				Body: ir.Block{ir.Assign{Target: root.Key("managerComment"), Value: comment}},
			},
			contains: []string{
				"\t{\n\t\tmodelManagerComment := model.ManagerComment()",
			},
			absent: []string{"!= nil {\n\t\tdata"},
		},
		{
			name: "temp unused",
			guard: ir.Guard{
				Temp: comment.Name, Value: ir.Call{X: model, Method: "ManagerComment"},
				Body: ir.Block{ir.EmptyList{Target: root.Key("tags")}},
			},
			contains: []string{`data["tags"] = []any{}`},
			absent:   []string{"modelManagerComment"},
		},
		{
			name: "field nillable",
			guard: ir.Guard{
				Value: ir.Field{X: model, Name: "Delivery"}, Nillable: true,
				Body: ir.Block{ir.EmptyMap{Target: root.Key("delivery")}},
			},
			contains: []string{
				"if model.Delivery != nil {",
				`data["delivery"] = map[string]any{}`,
			},
		},
		{
			name:   "empty body",
			guard:  ir.Guard{Value: ir.Field{X: model, Name: "Delivery"}, Nillable: true},
			absent: []string{"model.Delivery"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fn := &ir.Function{
				Name: "serialize_g", Param: "model", ParamType: "x.T", Pointer: true,
				Body: ir.Block{ir.Object{Target: root, Body: ir.Block{tt.guard}}},
			}
			src := render(t, fn)
			for _, want := range tt.contains {
				assert.Contains(t, src, want)
			}
			for _, unwanted := range tt.absent {
				assert.NotContains(t, src, unwanted)
			}
		})
	}
}

func TestRenderNestedContainers(t *testing.T) {
	root := ir.Root()
	items := ir.Field{X: model, Name: "Items"}
	item := ir.Elem{X: items, Index: "index1"}
	props := ir.Field{X: item, Name: "Properties"}
	fn := &ir.Function{
		Name: "serialize_n", Param: "model", ParamType: "x.T", Pointer: true,
		Body: ir.Block{ir.Object{Target: root, Body: ir.Block{
			ir.ListLoop{Target: root.Key("items"), Source: items, Index: "index1", Body: ir.Block{
				ir.Object{Target: root.Key("items").Index("index1"), Body: ir.Block{
					ir.Assign{Target: root.Key("items").Index("index1").Key("id"), Value: ir.Field{X: item, Name: "ID"}},
					ir.MapLoop{Target: root.Key("items").Index("index1").Key("properties"), Source: props, Index: "index3", Body: ir.Block{
						ir.Object{Target: root.Key("items").Index("index1").Key("properties").Index("index3")},
					}},
				}},
			}},
		}}},
	}

	src := render(t, fn)

	assert.Contains(t, src, "list1 := make([]any, len(model.Items))")
	assert.Contains(t, src, `data["items"] = list1`)
	assert.Contains(t, src, "for index1 := range model.Items {")
	assert.Contains(t, src, "obj2 := map[string]any{}")
	assert.Contains(t, src, "list1[index1] = obj2")
	assert.Contains(t, src, `obj2["id"] = model.Items[index1].ID`)
	assert.Contains(t, src, "dict3 := make(map[string]any, len(model.Items[index1].Properties))")
	assert.Contains(t, src, `obj2["properties"] = dict3`)
	assert.Contains(t, src, "for index3 := range model.Items[index1].Properties {")
	assert.Contains(t, src, "dict3[index3] = obj4")
}

func TestRenderDereferences(t *testing.T) {
	root := ir.Root()
	slots := ir.Deref{X: ir.Field{X: model, Name: "Slots"}}
	extra := ir.Deref{X: ir.Field{X: model, Name: "Extra"}}
	contact := ir.Deref{X: ir.Field{X: model, Name: "Contact"}}
	slot := ir.Elem{X: slots, Index: "index1"}

	fn := &ir.Function{
		Name: "serialize_d", Param: "model", ParamType: "x.T", Pointer: true,
		Body: ir.Block{ir.Object{Target: root, Body: ir.Block{
			ir.ListLoop{Target: root.Key("slots"), Source: slots, Index: "index1", Body: ir.Block{
				ir.Object{Target: root.Key("slots").Index("index1"), Body: ir.Block{
					ir.Assign{Target: root.Key("slots").Index("index1").Key("from"), Value: ir.Field{X: slot, Name: "From"}},
				}},
			}},
			ir.MapLoop{Target: root.Key("extra"), Source: extra, Index: "index1", Body: ir.Block{
				ir.Assign{Target: root.Key("extra").Index("index1"), Value: ir.Elem{X: extra, Index: "index1"}},
			}},
			ir.Copy{Target: root.Key("raw"), Value: extra},
			ir.VariantSwitch{Target: root.Key("contact"), Source: contact, Var: "modelContactVariant", Cases: []ir.VariantCase{
				{Type: "example.com/crm.Person", Body: ir.Block{ir.EmptyMap{Target: root.Key("contact")}}},
			}},
		}}},
	}

	src := render(t, fn)

	assert.Contains(t, src, "list1 := make([]any, len(*model.Slots))")
	assert.Contains(t, src, "for index1 := range *model.Slots {")
	assert.Contains(t, src, `obj2["from"] = (*model.Slots)[index1].From`)
	assert.Contains(t, src, "dict3 := make(map[string]any, len(*model.Extra))")
	assert.Contains(t, src, "dict3[index1] = (*model.Extra)[index1]")
	assert.Contains(t, src, `data["raw"] = *model.Extra`)
	assert.Contains(t, src, "switch (*model.Contact).(type) {")
}

func TestRenderVariantSwitch(t *testing.T) {
	root := ir.Root()
	customer := ir.Field{X: model, Name: "Customer"}
	v := ir.Var{Name: "modelCustomerVariant"}

	tests := []struct {
		name     string
		cases    []ir.VariantCase
		contains []string
	}{
		{
			name: "bound",
			cases: []ir.VariantCase{
				{Type: "example.com/crm.Person", Body: ir.Block{
					ir.Assign{Target: root.Key("customer"), Value: ir.Field{X: v, Name: "ID"}},
				}},
				{Type: "example.com/crm.Contact", Abstract: true, Body: ir.Block{
					ir.EmptyMap{Target: root.Key("customer")},
				}},
			},
			contains: []string{
				"switch modelCustomerVariant := model.Customer.(type) {",
				"case *crm.Person:",
				`data["customer"] = modelCustomerVariant.ID`,
				"case crm.Contact:",
			},
		},
		{
			name: "unbound",
			cases: []ir.VariantCase{
				{Type: "example.com/crm.Person", Body: ir.Block{ir.EmptyMap{Target: root.Key("customer")}}},
			},
			contains: []string{"switch model.Customer.(type) {"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fn := &ir.Function{
				Name: "serialize_v", Param: "model", ParamType: "x.T", Pointer: true,
				Body: ir.Block{ir.Object{Target: root, Body: ir.Block{
					ir.VariantSwitch{Target: root.Key("customer"), Source: customer, Var: v.Name, Cases: tt.cases},
				}}},
			}
			src := render(t, fn)
			for _, want := range tt.contains {
				assert.Contains(t, src, want)
			}
			assert.NotContains(t, src, "default:")
		})
	}
}

func TestRenderOrder(t *testing.T) {
	fn := buildOrder(t, shape.GenerationRequest{TypeID: fixtures.OrderID})
	src := render(t, fn)

	assert.Contains(t, src, "// "+fn.Name+" serializes orders.Order.")
	assert.Contains(t, src, "func "+fn.Name+"(model *orders.Order) map[string]any {")
	assert.Contains(t, src, `.Format("2006-01-02T15:04:05-0700")`)
	assert.Contains(t, src, "for index1 := range model.Tags {")
	assert.Contains(t, src, "switch modelCustomerVariant := model.Customer.(type) {")
	assert.Contains(t, src, "case *customers.Customer:")
	assert.Contains(t, src, "case *corporate.CustomerCorporate:")
	assert.Contains(t, src, "if model.Delivery != nil {")
	assert.Contains(t, src, "if modelManagerComment := model.ManagerComment(); modelManagerComment != nil {")
	assert.Contains(t, src, `data["managerComment"] = *modelManagerComment`)
	assert.Contains(t, src, "if model.Delivery.Instructions != nil {")
	assert.Contains(t, src, "= *model.Delivery.Instructions")
	assert.Contains(t, src, "for index2 := range *model.Delivery.Slots {")
	assert.Contains(t, src, "(*model.Delivery.Slots)[index2].From")
	assert.Contains(t, src, "= *model.Delivery.Extra")
}

func TestRenderAbstractParam(t *testing.T) {
	fn := buildOrder(t, shape.GenerationRequest{TypeID: fixtures.CustomerInterfaceID})
	src := render(t, fn)

	assert.Contains(t, src, "(model orders.CustomerInterface) map[string]any {")
	assert.Contains(t, src, "switch modelVariant := model.(type) {")
}

func TestRenderDocComment(t *testing.T) {
	fn := buildOrder(t, shape.GenerationRequest{TypeID: fixtures.OrderID, Groups: []string{"public", "admin"}, Version: "1.0"})
	src := render(t, fn)

	assert.Contains(t, src, "// "+fn.Name+" serializes orders.Order for groups public, admin, version 1.0.")
}

func TestRenderDeterministic(t *testing.T) {
	req := shape.GenerationRequest{TypeID: fixtures.OrderID, Groups: []string{"admin"}}
	first, err := New("serializers").Render(buildOrder(t, req))
	require.NoError(t, err)
	second, err := New("serializers").Render(buildOrder(t, req))
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestRenderMissingContainer(t *testing.T) {
	root := ir.Root()
	fn := &ir.Function{
		Name: "serialize_bad", Param: "model", ParamType: "x.T", Pointer: true,
		Body: ir.Block{ir.Object{Target: root, Body: ir.Block{
			ir.Assign{Target: root.Key("a").Key("b"), Value: model},
		}}},
	}

	_, err := New("serializers").Render(fn)
	require.Error(t, err)
	assert.True(t, errors.IsAssertionFailure(err))
	assert.Contains(t, err.Error(), "serialize_bad")
}
