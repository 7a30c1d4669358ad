// Package manifest declares types in YAML, for shapes that cannot be read
// from Go source (generated types, types behind build tags, external APIs).
//
// Example:
//
//	types:
//	  - id: example.com/shop.Order
//	    properties:
//	      - key: id
//	        name: ID
//	        type: primitive
//	      - key: createdAt
//	        name: CreatedAt
//	        type: datetime(2006-01-02)
//	      - key: items
//	        name: Items
//	        type: list(class(example.com/shop.Item))
//	        nillable: true
//	      - key: note
//	        name: Note
//	        pointer: true
//	      - key: number
//	        variations:
//	          - name: Number
//	            until: "1.0"
//	          - name: ExternalNumber
//	            getter: GetExternalNumber
//	            since: "1.1"
//
// Type grammar: primitive, unknown, datetime, datetime(<layout>),
// class(<type id>), list(<type>), map(<type>). Type defaults to primitive;
// exported defaults to true. Pointer marks a value held behind a pointer: it
// is skipped when nil and dereferenced otherwise.
package manifest

import (
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/teranos/dtogen/errors"
	"github.com/teranos/dtogen/internal/util"
	"github.com/teranos/dtogen/metadata"
	"github.com/teranos/dtogen/shape"
)

// Manifest is the document root.
type Manifest struct {
	Types []TypeDecl `yaml:"types"`
}

// TypeDecl declares one class.
type TypeDecl struct {
	ID         string         `yaml:"id"`
	Abstract   bool           `yaml:"abstract,omitempty"`
	Properties []PropertyDecl `yaml:"properties"`
}

// PropertyDecl declares one serialized key. Either the inline variation
// fields or Variations are set, not both.
type PropertyDecl struct {
	Key        string          `yaml:"key"`
	Variations []VariationDecl `yaml:"variations,omitempty"`

	VariationDecl `yaml:",inline"`
}

// VariationDecl declares one variation.
type VariationDecl struct {
	Name      string   `yaml:"name,omitempty"`
	Getter    string   `yaml:"getter,omitempty"`
	Type      string   `yaml:"type,omitempty"`
	Exported  *bool    `yaml:"exported,omitempty"`
	Nillable  bool     `yaml:"nillable,omitempty"`
	Pointer   bool     `yaml:"pointer,omitempty"`
	Groups    []string `yaml:"groups,omitempty"`
	Since     string   `yaml:"since,omitempty"`
	Until     string   `yaml:"until,omitempty"`
	Preferred bool     `yaml:"preferred,omitempty"`
	MaxDepth  *int     `yaml:"max_depth,omitempty"`
}

func (v VariationDecl) empty() bool {
	return v.Name == "" && v.Getter == "" && v.Type == ""
}

// Load reads and parses the manifest at path.
func Load(path string) (*metadata.Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read manifest %s", path)
	}
	catalog, err := Parse(data)
	if err != nil {
		return nil, errors.Wrapf(err, "manifest %s", path)
	}
	return catalog, nil
}

// LoadAll loads every manifest in order; later manifests win on conflict.
func LoadAll(paths ...string) (*metadata.Catalog, error) {
	catalog := metadata.NewCatalog()
	for _, p := range paths {
		c, err := Load(p)
		if err != nil {
			return nil, err
		}
		catalog.Merge(c)
	}
	return catalog, nil
}

// Parse parses a manifest document.
func Parse(data []byte) (*metadata.Catalog, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, errors.Wrap(err, "failed to parse manifest YAML")
	}
	return m.Catalog()
}

// Catalog converts the declarations.
func (m *Manifest) Catalog() (*metadata.Catalog, error) {
	catalog := metadata.NewCatalog()
	for i, td := range m.Types {
		rc, err := td.class()
		if err != nil {
			return nil, errors.Wrapf(err, "types[%d]", i)
		}
		if _, dup := catalog.Lookup(rc.ID); dup {
			return nil, errors.Wrapf(errors.ErrInvalidConfig, "type %s declared twice", rc.ID)
		}
		catalog.Add(rc)
	}
	return catalog, nil
}

func (td TypeDecl) class() (*metadata.RawClass, error) {
	if td.ID == "" {
		return nil, errors.Wrap(errors.ErrInvalidConfig, "type without id")
	}
	rc := &metadata.RawClass{ID: shape.TypeID(td.ID), Abstract: td.Abstract}

	for _, pd := range td.Properties {
		if pd.Key == "" {
			return nil, errors.Wrapf(errors.ErrInvalidConfig, "%s: property without key", td.ID)
		}

		decls := pd.Variations
		if !pd.VariationDecl.empty() {
			if len(decls) > 0 {
				return nil, errors.Wrapf(errors.ErrInvalidConfig,
					"%s.%s: set either inline fields or variations", td.ID, pd.Key)
			}
			decls = []VariationDecl{pd.VariationDecl}
		}
		if len(decls) == 0 {
			return nil, errors.Wrapf(errors.ErrInvalidConfig, "%s.%s: no variation", td.ID, pd.Key)
		}

		for _, vd := range decls {
			v, err := vd.variation(pd.Key)
			if err != nil {
				return nil, errors.Wrapf(err, "%s.%s", td.ID, pd.Key)
			}
			rc.AddVariation(pd.Key, v)
		}
	}
	return rc, nil
}

func (vd VariationDecl) variation(key string) (metadata.Variation, error) {
	typ := vd.Type
	if typ == "" {
		typ = "primitive"
	}
	rt, err := ParseType(typ)
	if err != nil {
		return metadata.Variation{}, err
	}

	name := vd.Name
	if name == "" {
		name = util.ExportName(key)
	}

	access := shape.Direct()
	if vd.Getter != "" {
		access = shape.ViaAccessor(vd.Getter)
	}

	exported := true
	if vd.Exported != nil {
		exported = *vd.Exported
	}

	return metadata.Variation{
		Name:      name,
		Access:    access,
		Type:      rt,
		Exported:  exported,
		Nillable:  vd.Nillable,
		Pointer:   vd.Pointer,
		Groups:    vd.Groups,
		Since:     vd.Since,
		Until:     vd.Until,
		Preferred: vd.Preferred,
		MaxDepth:  vd.MaxDepth,
	}, nil
}

// ParseType parses the type grammar.
func ParseType(s string) (metadata.RawType, error) {
	s = strings.TrimSpace(s)

	head, arg, hasArg := strings.Cut(s, "(")
	if hasArg {
		if !strings.HasSuffix(arg, ")") {
			return nil, errors.Wrapf(errors.ErrInvalidConfig, "type %q: missing closing parenthesis", s)
		}
		arg = strings.TrimSuffix(arg, ")")
	}

	switch head {
	case "primitive", "unknown":
		if hasArg {
			return nil, errors.Wrapf(errors.ErrInvalidConfig, "type %q takes no argument", head)
		}
		if head == "unknown" {
			return metadata.TypeUnknown{}, nil
		}
		return metadata.TypePrimitive{}, nil
	case "datetime":
		return metadata.TypeDateTime{Format: arg}, nil
	case "class":
		if arg == "" {
			return nil, errors.Wrapf(errors.ErrInvalidConfig, "type %q: class needs a type id", s)
		}
		return metadata.TypeRef{ID: shape.TypeID(arg)}, nil
	case "list", "map":
		if arg == "" {
			return nil, errors.Wrapf(errors.ErrInvalidConfig, "type %q: %s needs an element type", s, head)
		}
		elem, err := ParseType(arg)
		if err != nil {
			return nil, err
		}
		return metadata.TypeCollection{Elem: elem, Map: head == "map"}, nil
	}
	return nil, errors.WithHint(
		errors.Wrapf(errors.ErrInvalidConfig, "unknown type %q", s),
		"use primitive, unknown, datetime, class(<id>), list(<type>) or map(<type>)")
}
