package metadata

import (
	"context"

	"go.uber.org/zap"

	"github.com/teranos/dtogen/errors"
	"github.com/teranos/dtogen/logger"
	"github.com/teranos/dtogen/shape"
)

// Builder resolves shapes out of a Catalog. It is safe for concurrent use:
// the catalog is only read and every Resolve call builds fresh shapes.
type Builder struct {
	catalog *Catalog
	logger  *zap.SugaredLogger
}

// NewBuilder returns a Builder over catalog.
func NewBuilder(catalog *Catalog) *Builder {
	return &Builder{
		catalog: catalog,
		logger:  logger.ComponentLogger("metadata"),
	}
}

// Catalog returns the underlying catalog.
func (b *Builder) Catalog() *Catalog { return b.catalog }

// Resolve reduces the class id and every class reachable from it with
// pipeline. Each type is built once per call, so cyclic declarations come
// back as a cyclic pointer graph.
func (b *Builder) Resolve(ctx context.Context, id shape.TypeID, pipeline Pipeline) (*shape.ClassShape, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r := &resolution{catalog: b.catalog, pipeline: pipeline, built: map[shape.TypeID]*shape.ClassShape{}}
	cs, err := r.class(id)
	if err != nil {
		return nil, errors.WithDetailf(err, "pipeline: %s", pipeline)
	}

	if len(cs.Fields) == 0 && !cs.Abstract {
		return nil, errors.WithHint(
			errors.WithDetailf(
				errors.Wrapf(errors.ErrShapeResolution, "no field of %s survives reduction", id.Short()),
				"pipeline: %s", pipeline),
			"check the groups and since/until ranges declared on the type")
	}

	b.logger.Debugw("Resolved shape",
		logger.FieldTypeID, string(id),
		logger.FieldCount, len(cs.Fields),
		"classes", len(r.built),
	)
	return cs, nil
}

type resolution struct {
	catalog  *Catalog
	pipeline Pipeline
	built    map[shape.TypeID]*shape.ClassShape
}

func (r *resolution) class(id shape.TypeID) (*shape.ClassShape, error) {
	if cs, ok := r.built[id]; ok {
		return cs, nil
	}

	rc, ok := r.catalog.Lookup(id)
	if !ok {
		return nil, errors.WithHint(
			errors.Wrapf(errors.ErrShapeResolution, "unknown type %s", id),
			"add the package to source.packages or declare the type in a manifest")
	}

	cs := &shape.ClassShape{ID: rc.ID, Abstract: rc.Abstract}
	r.built[id] = cs

	for _, prop := range rc.Properties {
		vs := r.pipeline.Apply(prop.SerializedKey, prop.Variations)
		switch len(vs) {
		case 0:
			continue
		case 1:
		default:
			return nil, errors.Wrapf(errors.ErrShapeResolution,
				"%s.%s: %d variations left after reduction", id.Short(), prop.SerializedKey, len(vs))
		}

		field, err := r.field(prop.SerializedKey, vs[0])
		if err != nil {
			return nil, errors.Wrapf(err, "%s.%s", id.Short(), prop.SerializedKey)
		}
		cs.Fields = append(cs.Fields, field)
	}
	return cs, nil
}

func (r *resolution) field(key string, v Variation) (shape.FieldShape, error) {
	t, err := r.typeSpec(v.Type)
	if err != nil {
		return shape.FieldShape{}, err
	}
	return shape.FieldShape{
		Name:          v.Name,
		SerializedKey: key,
		Access:        v.Access,
		Type:          t,
		Exported:      v.Exported,
		Nillable:      v.Nillable || v.Pointer,
		Pointer:       v.Pointer,
		MaxDepth:      v.MaxDepth,
	}, nil
}

func (r *resolution) typeSpec(t RawType) (shape.TypeSpec, error) {
	switch v := t.(type) {
	case TypePrimitive:
		return shape.Primitive{}, nil
	case TypeUnknown, nil:
		return shape.Unknown{}, nil
	case TypeDateTime:
		return shape.DateTime{Format: v.Format}, nil
	case TypeRef:
		cs, err := r.class(v.ID)
		if err != nil {
			return nil, err
		}
		return shape.Class{Shape: cs}, nil
	case TypeCollection:
		elem, err := r.typeSpec(v.Elem)
		if err != nil {
			return nil, err
		}
		return shape.Collection{Elem: elem, Map: v.Map}, nil
	}
	return nil, errors.Wrapf(errors.ErrUnexpectedType, "raw type %T", t)
}
