// Package codegen walks resolved shapes into serialization routines.
//
// The walk is type directed: primitives and unknown values are copied, dates
// are formatted, nested classes recurse, collections loop or bulk-copy, and a
// small registry of overridden types short-circuits the generic walk. The
// output is an ir.Function; rendering it to source is left to a renderer.
package codegen

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/teranos/dtogen/errors"
	"github.com/teranos/dtogen/ir"
	"github.com/teranos/dtogen/logger"
	"github.com/teranos/dtogen/metadata"
	"github.com/teranos/dtogen/shape"
)

// ParamName names the input parameter of every generated function.
const ParamName = "model"

// Provider resolves the shape of a type under a reduction pipeline.
type Provider interface {
	Resolve(ctx context.Context, id shape.TypeID, pipeline metadata.Pipeline) (*shape.ClassShape, error)
}

// Options tune the walk.
type Options struct {
	// MaxDepth is the recursion threshold of fields without their own.
	MaxDepth int

	// DateFormat replaces shape.DefaultDateFormat for date fields that do
	// not declare a layout.
	DateFormat string
}

// DefaultOptions returns the options used when none are configured.
func DefaultOptions() Options {
	return Options{MaxDepth: DefaultMaxDepth}
}

// Generator builds statement trees. It holds no per-request state and may be
// shared across goroutines.
type Generator struct {
	provider Provider
	registry *Registry
	opts     Options
	logger   *zap.SugaredLogger
}

// New returns a Generator. A nil registry disables overrides.
func New(provider Provider, registry *Registry, opts Options) *Generator {
	if opts.MaxDepth < 0 {
		opts.MaxDepth = DefaultMaxDepth
	}
	if registry == nil {
		registry = NewRegistry()
	}
	return &Generator{
		provider: provider,
		registry: registry,
		opts:     opts,
		logger:   logger.ComponentLogger("codegen"),
	}
}

// BuildFunction generates the complete routine for one request.
func (g *Generator) BuildFunction(ctx context.Context, cs *shape.ClassShape, req shape.GenerationRequest) (*ir.Function, error) {
	fn := &ir.Function{
		Name:      FunctionID(req),
		Param:     ParamName,
		ParamType: cs.ID,
		Pointer:   !cs.Abstract,
		Request:   req,
	}

	body, err := g.Generate(ctx, cs, req, ir.Root(), fn.Source(), shape.NewStack())
	if err != nil {
		return nil, errors.WithDetailf(err, "request: %s", req)
	}
	fn.Body = body
	return fn, nil
}

// Generate emits the statements that serialize src, whose shape is cs, into out.
func (g *Generator) Generate(ctx context.Context, cs *shape.ClassShape, req shape.GenerationRequest, out ir.Path, src ir.Expr, stack shape.Stack) (ir.Block, error) {
	if o, ok := g.registry.Lookup(cs.ID); ok {
		switch o.Kind {
		case KindVariants:
			return g.generateVariants(ctx, cs, o, req, out, src, stack)
		case KindAttribute:
			return g.generateAttribute(cs, o, out, src)
		}
	}

	stack = stack.Enter(cs.ID)

	var body ir.Block
	for _, field := range cs.Fields {
		block, err := g.generateField(ctx, cs, field, req, out, src, stack)
		if err != nil {
			return nil, err
		}
		body = append(body, block...)
	}
	return ir.Block{ir.Object{Target: out, Body: body}}, nil
}

func (g *Generator) generateVariants(ctx context.Context, cs *shape.ClassShape, o Override, req shape.GenerationRequest, out ir.Path, src ir.Expr, stack shape.Stack) (ir.Block, error) {
	sw := ir.VariantSwitch{
		Target: out,
		Source: src,
		Var:    ir.Sanitize(src) + "Variant",
	}

	for _, id := range o.Variants {
		variant, err := g.provider.Resolve(ctx, id, metadata.PreferredPipeline())
		if err != nil {
			return nil, errors.Wrapf(err, "variant %s of %s", id.Short(), cs.ID.Short())
		}

		body, err := g.Generate(ctx, variant, req, out, ir.Var{Name: sw.Var}, stack)
		if err != nil {
			return nil, err
		}
		sw.Cases = append(sw.Cases, ir.VariantCase{Type: id, Abstract: variant.Abstract, Body: body})
	}
	return ir.Block{sw}, nil
}

func (g *Generator) generateAttribute(cs *shape.ClassShape, o Override, out ir.Path, src ir.Expr) (ir.Block, error) {
	if out.IsRoot() {
		return nil, errors.WithHint(
			errors.Wrapf(errors.ErrUnsupportedRoot, "%s serializes as a single attribute", cs.ID.Short()),
			"request the types that embed it instead")
	}

	var value ir.Expr = ir.Field{X: src, Name: o.Attribute}
	if method, ok := strings.CutSuffix(o.Attribute, "()"); ok {
		value = ir.Call{X: src, Method: method}
	}
	return ir.Block{ir.Assign{Target: out, Value: value}}, nil
}

func (g *Generator) generateField(ctx context.Context, cs *shape.ClassShape, field shape.FieldShape, req shape.GenerationRequest, out ir.Path, src ir.Expr, stack shape.Stack) (ir.Block, error) {
	if Exceeded(field, stack, g.opts.MaxDepth) {
		g.logger.Debugw("Max depth reached, field omitted",
			logger.FieldTypeID, string(cs.ID),
			logger.FieldField, field.Name,
			logger.FieldPath, out.String(),
			logger.FieldDepth, stack.Depth(),
		)
		return nil, nil
	}

	fieldOut := out.Key(field.SerializedKey)
	guarded := field.Pointer || (field.Nillable && !shape.IsPrimitiveLike(field.Type))

	if !field.Access.IsDirect() {
		temp := ir.Sanitize(src) + ir.UpperFirst(field.Name)
		body, err := g.generateFieldType(ctx, field.Type, req, fieldOut, read(field, ir.Var{Name: temp}), stack)
		if err != nil {
			return nil, err
		}
		return ir.Block{ir.Guard{
			Temp:     temp,
			Value:    ir.Call{X: src, Method: field.Access.Accessor()},
			Nillable: guarded,
			Body:     body,
		}}, nil
	}

	if !field.Exported {
		return nil, errors.WithHint(
			errors.WithDetailf(
				errors.Wrapf(errors.ErrInvalidAccess, "field %s of %s is not exported and has no getter", field.Name, cs.ID.Short()),
				"source: %s; output: %s; stack: %s", src, out, stack),
			"export the field or add getter=<Method> to its serializer tag")
	}

	value := ir.Field{X: src, Name: field.Name}
	body, err := g.generateFieldType(ctx, field.Type, req, fieldOut, read(field, value), stack)
	if err != nil {
		return nil, err
	}
	return ir.Block{ir.Guard{Value: value, Nillable: guarded, Body: body}}, nil
}

// read returns the expression that yields the field's value once v is known
// to be present. Scalars and collections behind a pointer are dereferenced;
// structs and times are used through the pointer. Interface contracts are
// dereferenced so their dynamic type can be switched on.
func read(field shape.FieldShape, v ir.Expr) ir.Expr {
	if !field.Pointer {
		return v
	}
	switch t := field.Type.(type) {
	case shape.DateTime:
		return v
	case shape.Class:
		if t.Shape == nil || !t.Shape.Abstract {
			return v
		}
	}
	return ir.Deref{X: v}
}

func (g *Generator) generateFieldType(ctx context.Context, t shape.TypeSpec, req shape.GenerationRequest, out ir.Path, src ir.Expr, stack shape.Stack) (ir.Block, error) {
	switch v := t.(type) {
	case shape.DateTime:
		return ir.Block{ir.FormatTime{Target: out, Value: src, Layout: g.layout(v)}}, nil
	case shape.Primitive, shape.Unknown:
		return ir.Block{ir.Assign{Target: out, Value: src}}, nil
	case shape.Class:
		return g.Generate(ctx, v.Shape, req, out, src, stack)
	case shape.Collection:
		return g.generateCollection(ctx, v, req, out, src, stack)
	}
	return nil, unexpectedType(t, out, src)
}

func (g *Generator) generateCollection(ctx context.Context, c shape.Collection, req shape.GenerationRequest, out ir.Path, src ir.Expr, stack shape.Stack) (ir.Block, error) {
	index := fmt.Sprintf("index%d", out.Len())
	elemOut := out.Index(index)
	elemSrc := ir.Elem{X: src, Index: index}

	var (
		inner ir.Block
		err   error
	)
	switch v := c.Elem.(type) {
	case shape.Primitive, shape.Unknown:
		return ir.Block{ir.Copy{Target: out, Value: src}}, nil
	case shape.Collection:
		if shape.IsPrimitiveCollection(v) {
			return ir.Block{ir.Copy{Target: out, Value: src}}, nil
		}
		inner, err = g.generateCollection(ctx, v, req, elemOut, elemSrc, stack)
	case shape.Class:
		inner, err = g.Generate(ctx, v.Shape, req, elemOut, elemSrc, stack)
	default:
		return nil, unexpectedType(c.Elem, out, src)
	}
	if err != nil {
		return nil, err
	}

	if inner.Empty() {
		if c.Map {
			return ir.Block{ir.EmptyMap{Target: out}}, nil
		}
		return ir.Block{ir.EmptyList{Target: out}}, nil
	}

	if c.Map {
		return ir.Block{ir.MapLoop{Target: out, Source: src, Index: index, Body: inner}}, nil
	}
	return ir.Block{ir.ListLoop{Target: out, Source: src, Index: index, Body: inner}}, nil
}

func (g *Generator) layout(d shape.DateTime) string {
	if d.Format == "" && g.opts.DateFormat != "" {
		return g.opts.DateFormat
	}
	return d.Layout()
}

func unexpectedType(t shape.TypeSpec, out ir.Path, src ir.Expr) error {
	name := "<nil>"
	if t != nil {
		name = t.String()
	}
	return errors.WithDetailf(
		errors.Wrapf(errors.ErrUnexpectedType, "%s at %s", name, out),
		"source: %s", src)
}
