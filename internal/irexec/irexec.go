// Package irexec interprets ir functions with reflection. Tests use it to
// check what a generated routine writes for real values without compiling
// the rendered source. Like compiled Go it only selects fields through
// pointers implicitly: ranging, indexing and reading a pointed-to value need
// an explicit dereference.
package irexec

import (
	"fmt"
	"reflect"
	"time"

	"github.com/teranos/dtogen/ir"
	"github.com/teranos/dtogen/shape"
)

// Eval runs fn with model bound to its parameter.
func Eval(fn *ir.Function, model any) (map[string]any, error) {
	m := &machine{
		vars:       map[string]reflect.Value{fn.Param: reflect.ValueOf(model)},
		containers: map[string]any{},
	}
	if isNil(reflect.ValueOf(model)) {
		return nil, nil
	}

	data := map[string]any{}
	m.containers[ir.Root().String()] = data
	if err := m.block(fn.Body); err != nil {
		return nil, err
	}
	return data, nil
}

type machine struct {
	vars       map[string]reflect.Value
	containers map[string]any
}

func (m *machine) block(b ir.Block) error {
	for _, st := range b {
		if err := m.statement(st); err != nil {
			return err
		}
	}
	return nil
}

func (m *machine) statement(st ir.Statement) error {
	switch v := st.(type) {
	case ir.Object:
		if !v.Target.IsRoot() {
			if err := m.open(v.Target, map[string]any{}); err != nil {
				return err
			}
		}
		return m.block(v.Body)

	case ir.Assign:
		val, err := m.eval(v.Value)
		if err != nil {
			return err
		}
		return m.write(v.Target, export(val))

	case ir.Copy:
		val, err := m.eval(v.Value)
		if err != nil {
			return err
		}
		return m.write(v.Target, export(val))

	case ir.FormatTime:
		val, err := m.eval(v.Value)
		if err != nil {
			return err
		}
		t, ok := reflect.Indirect(val).Interface().(time.Time)
		if !ok {
			return fmt.Errorf("%s is %s, not time.Time", v.Value, val.Type())
		}
		return m.write(v.Target, t.Format(v.Layout))

	case ir.Guard:
		val, err := m.eval(v.Value)
		if err != nil {
			return err
		}
		if v.Nillable && isNil(val) {
			return nil
		}
		if v.Temp != "" {
			m.vars[v.Temp] = val
		}
		return m.block(v.Body)

	case ir.ListLoop:
		src, err := m.eval(v.Source)
		if err != nil {
			return err
		}
		if k := src.Kind(); k != reflect.Slice && k != reflect.Array {
			return fmt.Errorf("cannot range over %s (%s) as a list", v.Source, src.Type())
		}
		if err := m.open(v.Target, make([]any, src.Len())); err != nil {
			return err
		}
		for i := 0; i < src.Len(); i++ {
			m.vars[v.Index] = reflect.ValueOf(i)
			if err := m.block(v.Body); err != nil {
				return err
			}
		}
		return nil

	case ir.MapLoop:
		src, err := m.eval(v.Source)
		if err != nil {
			return err
		}
		if src.Kind() != reflect.Map {
			return fmt.Errorf("cannot range over %s (%s) as a map", v.Source, src.Type())
		}
		if err := m.open(v.Target, make(map[string]any, src.Len())); err != nil {
			return err
		}
		iter := src.MapRange()
		for iter.Next() {
			m.vars[v.Index] = iter.Key()
			if err := m.block(v.Body); err != nil {
				return err
			}
		}
		return nil

	case ir.EmptyList:
		return m.write(v.Target, []any{})

	case ir.EmptyMap:
		return m.write(v.Target, map[string]any{})

	case ir.VariantSwitch:
		src, err := m.eval(v.Source)
		if err != nil {
			return err
		}
		for src.Kind() == reflect.Interface && !src.IsNil() {
			src = src.Elem()
		}
		dyn := typeID(src.Type())
		for _, c := range v.Cases {
			if c.Type == dyn {
				m.vars[v.Var] = src
				return m.block(c.Body)
			}
		}
		return nil
	}
	return fmt.Errorf("unknown statement %T", st)
}

// open stores a fresh container at p.
func (m *machine) open(p ir.Path, c any) error {
	if err := m.write(p, c); err != nil {
		return err
	}
	m.containers[m.key(p)] = c
	return nil
}

// key resolves loop variables so that every element gets its own container.
func (m *machine) key(p ir.Path) string {
	k := "$"
	for _, s := range p.Segments() {
		if s.IsVar() {
			k += fmt.Sprintf("[%v]", m.vars[s.Var].Interface())
			continue
		}
		k += fmt.Sprintf("[%q]", s.Key)
	}
	return k
}

func (m *machine) write(p ir.Path, val any) error {
	last, ok := p.Last()
	if !ok {
		return fmt.Errorf("write to root")
	}

	parent := m.containers[m.key(p.Parent())]
	switch c := parent.(type) {
	case map[string]any:
		key := last.Key
		if last.IsVar() {
			key = fmt.Sprint(m.vars[last.Var].Interface())
		}
		c[key] = val
	case []any:
		c[m.vars[last.Var].Interface().(int)] = val
	default:
		return fmt.Errorf("no container at %s", p.Parent())
	}
	return nil
}

func (m *machine) eval(e ir.Expr) (reflect.Value, error) {
	switch v := e.(type) {
	case ir.Var:
		val, ok := m.vars[v.Name]
		if !ok {
			return reflect.Value{}, fmt.Errorf("undefined variable %s", v.Name)
		}
		return val, nil

	case ir.Field:
		x, err := m.eval(v.X)
		if err != nil {
			return reflect.Value{}, err
		}
		x = deref(x)
		f := x.FieldByName(v.Name)
		if !f.IsValid() {
			return reflect.Value{}, fmt.Errorf("%s has no field %s", x.Type(), v.Name)
		}
		return f, nil

	case ir.Call:
		x, err := m.eval(v.X)
		if err != nil {
			return reflect.Value{}, err
		}
		meth := x.MethodByName(v.Method)
		if !meth.IsValid() && x.Kind() != reflect.Pointer && x.CanAddr() {
			meth = x.Addr().MethodByName(v.Method)
		}
		if !meth.IsValid() {
			return reflect.Value{}, fmt.Errorf("%s has no method %s", x.Type(), v.Method)
		}
		return meth.Call(nil)[0], nil

	case ir.Elem:
		x, err := m.eval(v.X)
		if err != nil {
			return reflect.Value{}, err
		}
		idx := m.vars[v.Index]
		switch x.Kind() {
		case reflect.Map:
			return x.MapIndex(idx), nil
		case reflect.Slice, reflect.Array:
			return x.Index(int(idx.Int())), nil
		}
		return reflect.Value{}, fmt.Errorf("cannot index %s (%s)", v.X, x.Type())

	case ir.Deref:
		x, err := m.eval(v.X)
		if err != nil {
			return reflect.Value{}, err
		}
		if x.Kind() != reflect.Pointer {
			return reflect.Value{}, fmt.Errorf("cannot dereference %s (%s)", v.X, x.Type())
		}
		if x.IsNil() {
			return reflect.Value{}, fmt.Errorf("nil dereference of %s", v.X)
		}
		return x.Elem(), nil
	}
	return reflect.Value{}, fmt.Errorf("unknown expression %T", e)
}

func deref(v reflect.Value) reflect.Value {
	for v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface {
		v = v.Elem()
	}
	return v
}

func isNil(v reflect.Value) bool {
	if !v.IsValid() {
		return true
	}
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func, reflect.Chan:
		return v.IsNil()
	}
	return false
}

func export(v reflect.Value) any {
	if !v.IsValid() {
		return nil
	}
	return v.Interface()
}

func typeID(t reflect.Type) shape.TypeID {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return shape.NewTypeID(t.PkgPath(), t.Name())
}
