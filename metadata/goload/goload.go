// Package goload builds a metadata catalog from Go packages.
//
// Every named struct of the loaded packages becomes a class, and so does
// every struct or interface they reference, wherever it is declared.
// Interfaces become abstract classes without properties. Field types map
// onto metadata types:
//
//	time.Time                     datetime
//	json.RawMessage, any          unknown
//	bool, numbers, strings, []byte primitive
//	named struct or interface     class reference
//	slices, arrays                list
//	maps with string keys         map
//	*T                            T, read through the pointer
//
// Exported fields are always read; unexported fields only when they carry
// a json or serializer tag, in which case they need a getter.
package goload

import (
	"context"
	"go/types"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/tools/go/packages"

	"github.com/teranos/dtogen/errors"
	"github.com/teranos/dtogen/logger"
	"github.com/teranos/dtogen/metadata"
	"github.com/teranos/dtogen/shape"
)

// Loader loads Go packages into a catalog.
type Loader struct {
	// Dir is the working directory of the underlying go list call.
	Dir string

	logger *zap.SugaredLogger
}

// NewLoader returns a loader running in dir.
func NewLoader(dir string) *Loader {
	return &Loader{Dir: dir, logger: logger.ComponentLogger("goload")}
}

// Load loads the packages matched by patterns with a loader in the current
// directory.
func Load(ctx context.Context, patterns ...string) (*metadata.Catalog, error) {
	return NewLoader("").Load(ctx, patterns...)
}

// Load resolves patterns and declares every reachable type.
func (l *Loader) Load(ctx context.Context, patterns ...string) (*metadata.Catalog, error) {
	if len(patterns) == 0 {
		return metadata.NewCatalog(), nil
	}

	cfg := &packages.Config{
		Context: ctx,
		Dir:     l.Dir,
		Mode:    packages.NeedName | packages.NeedTypes | packages.NeedImports,
	}

	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load packages %s", strings.Join(patterns, " "))
	}
	if len(pkgs) == 0 {
		return nil, errors.Newf("no packages found for %s", strings.Join(patterns, " "))
	}

	var loadErrs []string
	packages.Visit(pkgs, nil, func(p *packages.Package) {
		for _, e := range p.Errors {
			loadErrs = append(loadErrs, e.Error())
		}
	})
	if len(loadErrs) > 0 {
		return nil, errors.WithDetail(
			errors.Newf("package errors in %s", strings.Join(patterns, " ")),
			strings.Join(loadErrs, "\n"))
	}

	d := &declarer{classes: map[shape.TypeID]*metadata.RawClass{}}
	for _, pkg := range pkgs {
		if pkg.Types == nil {
			continue
		}
		scope := pkg.Types.Scope()
		for _, name := range scope.Names() {
			tn, ok := scope.Lookup(name).(*types.TypeName)
			if !ok || !tn.Exported() || tn.IsAlias() {
				continue
			}
			named, ok := tn.Type().(*types.Named)
			if !ok || named.TypeParams().Len() > 0 {
				continue
			}
			switch named.Underlying().(type) {
			case *types.Struct, *types.Interface:
				if _, err := d.declare(named); err != nil {
					return nil, err
				}
			}
		}
	}

	catalog := metadata.NewCatalog()
	for _, rc := range d.classes {
		catalog.Add(rc)
	}

	l.logger.Infow("Loaded Go packages",
		"patterns", patterns,
		"packages", len(pkgs),
		logger.FieldCount, catalog.Len(),
	)
	return catalog, nil
}

// Dirs returns the sorted source directories of the packages matched by
// patterns.
func (l *Loader) Dirs(ctx context.Context, patterns ...string) ([]string, error) {
	if len(patterns) == 0 {
		return nil, nil
	}

	cfg := &packages.Config{
		Context: ctx,
		Dir:     l.Dir,
		Mode:    packages.NeedName | packages.NeedFiles,
	}
	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to list packages %s", strings.Join(patterns, " "))
	}

	seen := map[string]bool{}
	var dirs []string
	for _, pkg := range pkgs {
		for _, f := range pkg.GoFiles {
			dir := filepath.Dir(f)
			if !seen[dir] {
				seen[dir] = true
				dirs = append(dirs, dir)
			}
		}
	}
	sort.Strings(dirs)
	return dirs, nil
}

// declarer turns named types into raw classes, following references.
type declarer struct {
	classes map[shape.TypeID]*metadata.RawClass
}

func typeIDOf(named *types.Named) shape.TypeID {
	obj := named.Obj()
	if obj.Pkg() == nil {
		return shape.TypeID(obj.Name())
	}
	return shape.NewTypeID(obj.Pkg().Path(), obj.Name())
}

func (d *declarer) declare(named *types.Named) (shape.TypeID, error) {
	id := typeIDOf(named)
	if _, ok := d.classes[id]; ok {
		return id, nil
	}

	rc := &metadata.RawClass{ID: id}
	d.classes[id] = rc

	switch u := named.Underlying().(type) {
	case *types.Interface:
		rc.Abstract = true
	case *types.Struct:
		if err := d.declareFields(rc, named, u, 0); err != nil {
			return id, errors.Wrapf(err, "declare %s", id.Short())
		}
	}
	return id, nil
}

const maxEmbedding = 8

func (d *declarer) declareFields(rc *metadata.RawClass, owner *types.Named, st *types.Struct, embedding int) error {
	for i := 0; i < st.NumFields(); i++ {
		field := st.Field(i)

		info, err := ParseFieldTags(st.Tag(i))
		if err != nil {
			return errors.Wrapf(err, "field %s", field.Name())
		}
		if info.Skip || (!field.Exported() && !info.Tagged) {
			continue
		}

		if field.Embedded() && info.JSONName == "" && embedding < maxEmbedding {
			if inner, ok := field.Type().Underlying().(*types.Struct); ok {
				if err := d.declareFields(rc, owner, inner, embedding+1); err != nil {
					return err
				}
				continue
			}
		}

		if err := d.declareField(rc, owner, field, info); err != nil {
			return errors.Wrapf(err, "field %s", field.Name())
		}
	}
	return nil
}

func (d *declarer) declareField(rc *metadata.RawClass, owner *types.Named, field *types.Var, info FieldTagInfo) error {
	baseKey := info.JSONName
	if baseKey == "" {
		baseKey = field.Name()
	}

	for _, tv := range info.Variations {
		access := shape.Direct()
		valueType := field.Type()
		exported := field.Exported()

		if tv.Getter != "" {
			result, err := getterResult(owner, tv.Getter)
			if err != nil {
				return err
			}
			access = shape.ViaAccessor(tv.Getter)
			valueType = result
			exported = true
		}

		rt, nillable, ok, err := d.rawType(valueType)
		if err != nil {
			return err
		}
		_, pointer := types.Unalias(valueType).Underlying().(*types.Pointer)
		if !ok {
			continue
		}
		if tv.Format != "" {
			rt = withFormat(rt, tv.Format)
		}

		key := tv.Key
		if key == "" {
			key = baseKey
		}
		rc.AddVariation(key, metadata.Variation{
			Name:      field.Name(),
			Access:    access,
			Type:      rt,
			Exported:  exported,
			Nillable:  nillable,
			Pointer:   pointer,
			Groups:    tv.Groups,
			Since:     tv.Since,
			Until:     tv.Until,
			Preferred: tv.Preferred,
			MaxDepth:  tv.MaxDepth,
		})
	}
	return nil
}

// getterResult returns the single result type of the zero-argument method
// name on *owner.
func getterResult(owner *types.Named, name string) (types.Type, error) {
	obj, _, _ := types.LookupFieldOrMethod(types.NewPointer(owner), true, owner.Obj().Pkg(), name)
	fn, ok := obj.(*types.Func)
	if !ok {
		return nil, errors.WithHint(
			errors.Wrapf(errors.ErrInvalidAccess, "getter %s not found on %s", name, owner.Obj().Name()),
			"the getter must be a method of the type or of its pointer")
	}
	if !fn.Exported() {
		return nil, errors.Wrapf(errors.ErrInvalidAccess, "getter %s of %s is not exported", name, owner.Obj().Name())
	}
	sig := fn.Type().(*types.Signature)
	if sig.Params().Len() != 0 || sig.Results().Len() != 1 {
		return nil, errors.Wrapf(errors.ErrInvalidAccess,
			"getter %s of %s must take no arguments and return one value", name, owner.Obj().Name())
	}
	return sig.Results().At(0).Type(), nil
}

// rawType maps a Go type. ok is false for types that cannot be serialized
// (channels, functions).
func (d *declarer) rawType(t types.Type) (rt metadata.RawType, nillable bool, ok bool, err error) {
	t = types.Unalias(t)

	switch v := t.(type) {
	case *types.Pointer:
		if _, ok := v.Elem().Underlying().(*types.Pointer); ok {
			return nil, false, false, errors.WithHint(
				errors.Wrapf(errors.ErrUnexpectedType, "pointer to pointer %s", t),
				"serialize through a single pointer or a getter")
		}
		rt, _, ok, err = d.rawType(v.Elem())
		return rt, true, ok, err

	case *types.Named:
		return d.namedType(v)

	case *types.Basic:
		return metadata.TypePrimitive{}, false, true, nil

	case *types.Slice:
		if isByte(v.Elem()) {
			return metadata.TypePrimitive{}, true, true, nil
		}
		elem, ok, err := d.elemType(v.Elem())
		if !ok || err != nil {
			return nil, false, ok, err
		}
		return metadata.TypeCollection{Elem: elem}, true, true, nil

	case *types.Array:
		elem, ok, err := d.elemType(v.Elem())
		if !ok || err != nil {
			return nil, false, ok, err
		}
		return metadata.TypeCollection{Elem: elem}, false, true, nil

	case *types.Map:
		if !isString(v.Key()) {
			return metadata.TypeUnknown{}, true, true, nil
		}
		elem, ok, err := d.elemType(v.Elem())
		if !ok || err != nil {
			return nil, false, ok, err
		}
		return metadata.TypeCollection{Elem: elem, Map: true}, true, true, nil

	case *types.Interface:
		return metadata.TypeUnknown{}, true, true, nil

	case *types.Struct:
		return metadata.TypeUnknown{}, false, true, nil
	}

	return nil, false, false, nil
}

// elemType maps a collection element. Elements are used as they are:
// pointers to structs and times read through the pointer, and scalars behind
// a pointer are copied with the collection. A pointer to a collection has no
// such reading and is rejected.
func (d *declarer) elemType(t types.Type) (metadata.RawType, bool, error) {
	rt, _, ok, err := d.rawType(t)
	if !ok || err != nil {
		return nil, ok, err
	}
	if _, ptr := types.Unalias(t).Underlying().(*types.Pointer); ptr {
		if _, coll := rt.(metadata.TypeCollection); coll {
			return nil, false, errors.WithHint(
				errors.Wrapf(errors.ErrUnexpectedType, "element %s points to a collection", t),
				"store the inner collection by value")
		}
	}
	return rt, true, nil
}

func (d *declarer) namedType(named *types.Named) (metadata.RawType, bool, bool, error) {
	if obj := named.Obj(); obj.Pkg() != nil {
		switch obj.Pkg().Path() + "." + obj.Name() {
		case "time.Time":
			return metadata.TypeDateTime{}, false, true, nil
		case "encoding/json.RawMessage":
			return metadata.TypeUnknown{}, true, true, nil
		}
	}

	switch u := named.Underlying().(type) {
	case *types.Struct:
		if named.TypeArgs().Len() > 0 {
			return metadata.TypeUnknown{}, false, true, nil
		}
		id, err := d.declare(named)
		return metadata.TypeRef{ID: id}, false, true, err

	case *types.Interface:
		if u.Empty() || named.TypeArgs().Len() > 0 {
			return metadata.TypeUnknown{}, true, true, nil
		}
		id, err := d.declare(named)
		return metadata.TypeRef{ID: id}, true, true, err
	}

	return d.rawType(named.Underlying())
}

func withFormat(t metadata.RawType, format string) metadata.RawType {
	switch v := t.(type) {
	case metadata.TypeDateTime:
		return metadata.TypeDateTime{Format: format}
	case metadata.TypeCollection:
		return metadata.TypeCollection{Elem: withFormat(v.Elem, format), Map: v.Map}
	}
	return t
}

func isByte(t types.Type) bool {
	b, ok := t.Underlying().(*types.Basic)
	return ok && b.Kind() == types.Byte
}

// isString accepts only the predeclared string type: generated code ranges
// over the map and stores keys into a map[string]any.
func isString(t types.Type) bool {
	b, ok := t.(*types.Basic)
	return ok && b.Kind() == types.String
}
