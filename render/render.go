// Package render turns ir functions into Go source with jennifer.
//
// A generated function builds its result from plain containers: objects are
// map[string]any, lists are []any sized up front and filled by index, maps
// are map[string]any filled by key. Every container is stored into its
// parent as soon as it is created.
package render

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/dave/jennifer/jen"

	"github.com/teranos/dtogen/errors"
	"github.com/teranos/dtogen/ir"
	"github.com/teranos/dtogen/shape"
)

// Header is the first line of every generated file.
const Header = "Code generated by dtogen. DO NOT EDIT."

// ResultVar names the result container of every generated function.
const ResultVar = "data"

// Renderer renders functions into files of one package.
type Renderer struct {
	Package string
}

// New returns a renderer for package pkg.
func New(pkg string) *Renderer {
	return &Renderer{Package: pkg}
}

// Render returns a complete, formatted Go file holding fn.
func (r *Renderer) Render(fn *ir.Function) ([]byte, error) {
	return r.RenderFile(fn)
}

// RenderFile returns one formatted Go file holding every function in order.
func (r *Renderer) RenderFile(fns ...*ir.Function) ([]byte, error) {
	f := jen.NewFile(r.Package)
	f.HeaderComment(Header)

	for i, fn := range fns {
		if i > 0 {
			f.Line()
		}
		code, err := Function(fn)
		if err != nil {
			return nil, errors.Wrapf(err, "render %s", fn.Name)
		}
		f.Comment(docComment(fn))
		f.Add(code)
	}

	var buf bytes.Buffer
	if err := f.Render(&buf); err != nil {
		return nil, errors.Wrap(err, "failed to format generated source")
	}
	return buf.Bytes(), nil
}

// Function renders fn as a function declaration.
func Function(fn *ir.Function) (jen.Code, error) {
	s := newScope()

	body, err := s.block(fn.Body)
	if err != nil {
		return nil, err
	}

	param := jen.Id(fn.Param)
	if fn.Pointer {
		param = param.Op("*")
	}
	param = param.Add(typeName(fn.ParamType))

	stmts := []jen.Code{
		jen.If(jen.Id(fn.Param).Op("==").Nil()).Block(jen.Return(jen.Nil())),
		jen.Id(ResultVar).Op(":=").Add(objectType()).Values(),
	}
	stmts = append(stmts, body...)
	stmts = append(stmts, jen.Return(jen.Id(ResultVar)))

	return jen.Func().Id(fn.Name).Params(param).Add(objectType()).Block(stmts...), nil
}

func docComment(fn *ir.Function) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s serializes %s", fn.Name, fn.ParamType.Short())
	var parts []string
	if len(fn.Request.Groups) > 0 {
		parts = append(parts, "groups "+strings.Join(fn.Request.Groups, ", "))
	}
	if fn.Request.Version != "" {
		parts = append(parts, "version "+fn.Request.Version)
	}
	if len(parts) > 0 {
		sb.WriteString(" for ")
		sb.WriteString(strings.Join(parts, ", "))
	}
	sb.WriteString(".")
	return sb.String()
}

func typeName(id shape.TypeID) jen.Code {
	if pkg := id.Package(); pkg != "" {
		return jen.Qual(pkg, id.Name())
	}
	return jen.Id(id.Name())
}

func objectType() *jen.Statement {
	return jen.Map(jen.String()).Id("any")
}

func listType() *jen.Statement {
	return jen.Index().Id("any")
}

type containerKind int

const (
	kindObject containerKind = iota
	kindList
)

type container struct {
	name string
	kind containerKind
}

// scope tracks the container variable bound to each output path.
type scope struct {
	containers map[string]container
	next       int
}

func newScope() *scope {
	return &scope{containers: map[string]container{
		ir.Root().String(): {name: ResultVar, kind: kindObject},
	}}
}

func (s *scope) newVar(prefix string) string {
	s.next++
	return fmt.Sprintf("%s%d", prefix, s.next)
}

// bind binds p to c and returns a function restoring the previous binding.
func (s *scope) bind(p ir.Path, c container) func() {
	key := p.String()
	prev, had := s.containers[key]
	s.containers[key] = c
	return func() {
		if had {
			s.containers[key] = prev
		} else {
			delete(s.containers, key)
		}
	}
}

// slot renders the assignable location of p inside its parent container.
func (s *scope) slot(p ir.Path) (*jen.Statement, error) {
	last, ok := p.Last()
	if !ok {
		return nil, errors.AssertionFailedf("cannot assign to the root path")
	}
	parent, ok := s.containers[p.Parent().String()]
	if !ok {
		return nil, errors.AssertionFailedf("no container open at %s", p.Parent())
	}

	if last.IsVar() {
		return jen.Id(parent.name).Index(jen.Id(last.Var)), nil
	}
	if parent.kind == kindList {
		return nil, errors.AssertionFailedf("literal key %q inside list %s", last.Key, p.Parent())
	}
	return jen.Id(parent.name).Index(jen.Lit(last.Key)), nil
}

func (s *scope) assign(p ir.Path, value jen.Code) (jen.Code, error) {
	slot, err := s.slot(p)
	if err != nil {
		return nil, err
	}
	return slot.Op("=").Add(value), nil
}

func (s *scope) block(b ir.Block) ([]jen.Code, error) {
	var out []jen.Code
	for _, st := range b {
		code, err := s.statement(st)
		if err != nil {
			return nil, err
		}
		out = append(out, code...)
	}
	return out, nil
}

func (s *scope) statement(st ir.Statement) ([]jen.Code, error) {
	switch v := st.(type) {
	case ir.Object:
		return s.object(v)
	case ir.Assign:
		return s.single(v.Target, expr(v.Value))
	case ir.Copy:
		return s.single(v.Target, expr(v.Value))
	case ir.FormatTime:
		return s.single(v.Target, operand(v.Value).Dot("Format").Call(jen.Lit(v.Layout)))
	case ir.EmptyList:
		return s.single(v.Target, listType().Values())
	case ir.EmptyMap:
		return s.single(v.Target, objectType().Values())
	case ir.Guard:
		return s.guard(v)
	case ir.ListLoop:
		return s.loop(v.Target, v.Source, v.Index, v.Body, kindList)
	case ir.MapLoop:
		return s.loop(v.Target, v.Source, v.Index, v.Body, kindObject)
	case ir.VariantSwitch:
		return s.variants(v)
	}
	return nil, errors.AssertionFailedf("unknown statement %T", st)
}

func (s *scope) single(p ir.Path, value jen.Code) ([]jen.Code, error) {
	code, err := s.assign(p, value)
	if err != nil {
		return nil, err
	}
	return []jen.Code{code}, nil
}

func (s *scope) object(o ir.Object) ([]jen.Code, error) {
	if o.Target.IsRoot() {
		return s.block(o.Body)
	}

	name := s.newVar("obj")
	store, err := s.assign(o.Target, jen.Id(name))
	if err != nil {
		return nil, err
	}

	restore := s.bind(o.Target, container{name: name, kind: kindObject})
	defer restore()

	body, err := s.block(o.Body)
	if err != nil {
		return nil, err
	}

	out := []jen.Code{
		jen.Id(name).Op(":=").Add(objectType()).Values(),
		store,
	}
	return append(out, body...), nil
}

func (s *scope) guard(g ir.Guard) ([]jen.Code, error) {
	body, err := s.block(g.Body)
	if err != nil {
		return nil, err
	}
	if len(body) == 0 {
		return nil, nil
	}

	value := expr(g.Value)
	switch {
	case g.Temp != "" && g.Nillable:
		return []jen.Code{
			jen.If(jen.Id(g.Temp).Op(":=").Add(value), jen.Id(g.Temp).Op("!=").Nil()).Block(body...),
		}, nil
	case g.Temp != "":
		if !ir.Uses(g.Body, g.Temp) {
			return body, nil
		}
		stmts := append([]jen.Code{jen.Id(g.Temp).Op(":=").Add(value)}, body...)
		return []jen.Code{jen.Block(stmts...)}, nil
	case g.Nillable:
		return []jen.Code{jen.If(value.Op("!=").Nil()).Block(body...)}, nil
	}
	return body, nil
}

func (s *scope) loop(target ir.Path, source ir.Expr, index string, b ir.Block, kind containerKind) ([]jen.Code, error) {
	prefix, typ := "dict", objectType()
	if kind == kindList {
		prefix, typ = "list", listType()
	}
	name := s.newVar(prefix)

	store, err := s.assign(target, jen.Id(name))
	if err != nil {
		return nil, err
	}

	restore := s.bind(target, container{name: name, kind: kind})
	defer restore()

	body, err := s.block(b)
	if err != nil {
		return nil, err
	}

	return []jen.Code{
		jen.Id(name).Op(":=").Make(typ, jen.Len(expr(source))),
		store,
		jen.For(jen.Id(index).Op(":=").Range().Add(expr(source))).Block(body...),
	}, nil
}

func (s *scope) variants(sw ir.VariantSwitch) ([]jen.Code, error) {
	bound := false
	cases := make([]jen.Code, 0, len(sw.Cases))
	for _, c := range sw.Cases {
		body, err := s.block(c.Body)
		if err != nil {
			return nil, err
		}
		if ir.Uses(c.Body, sw.Var) {
			bound = true
		}

		typ := jen.Add(typeName(c.Type))
		if !c.Abstract {
			typ = jen.Op("*").Add(typeName(c.Type))
		}
		cases = append(cases, jen.Case(typ).Block(body...))
	}

	subject := operand(sw.Source).Assert(jen.Type())
	if bound {
		subject = jen.Id(sw.Var).Op(":=").Add(subject)
	}
	return []jen.Code{jen.Switch(subject).Block(cases...)}, nil
}

func expr(e ir.Expr) *jen.Statement {
	switch v := e.(type) {
	case ir.Var:
		return jen.Id(v.Name)
	case ir.Field:
		return operand(v.X).Dot(v.Name)
	case ir.Call:
		return operand(v.X).Dot(v.Method).Call()
	case ir.Elem:
		return operand(v.X).Index(jen.Id(v.Index))
	case ir.Deref:
		return jen.Op("*").Add(expr(v.X))
	}
	return jen.Id(fmt.Sprintf("/* %T */", e))
}

// operand renders e as the left side of a selector, index or assertion.
// A dereference binds looser than those and needs parentheses.
func operand(e ir.Expr) *jen.Statement {
	if _, ok := e.(ir.Deref); ok {
		return jen.Parens(expr(e))
	}
	return expr(e)
}
