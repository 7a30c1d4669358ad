package codegen

import (
	"sort"
	"strings"

	"github.com/teranos/dtogen/errors"
	"github.com/teranos/dtogen/shape"
)

// Kind selects how an overridden type is generated.
type Kind int

const (
	// KindVariants dispatches on the concrete type behind a contract.
	KindVariants Kind = iota + 1

	// KindAttribute writes a single attribute in place of the object.
	KindAttribute
)

func (k Kind) String() string {
	switch k {
	case KindVariants:
		return "variants"
	case KindAttribute:
		return "attribute"
	}
	return "unknown"
}

// ParseKind parses "variants" or "attribute".
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "variants":
		return KindVariants, nil
	case "attribute":
		return KindAttribute, nil
	}
	return 0, errors.Wrapf(errors.ErrInvalidConfig, "unknown override kind %q", s)
}

// Override replaces the generic field walk for one type.
type Override struct {
	Kind Kind

	// Variants lists the concrete types of a KindVariants override, in
	// dispatch order.
	Variants []shape.TypeID

	// Attribute is the field written by a KindAttribute override. A trailing
	// "()" calls a method instead.
	Attribute string
}

func (o Override) validate() error {
	switch o.Kind {
	case KindVariants:
		if len(o.Variants) == 0 {
			return errors.Wrap(errors.ErrInvalidConfig, "variants override without variants")
		}
		seen := make(map[shape.TypeID]bool, len(o.Variants))
		for _, v := range o.Variants {
			if seen[v] {
				return errors.Wrapf(errors.ErrInvalidConfig, "variant %s listed twice", v)
			}
			seen[v] = true
		}
	case KindAttribute:
		if strings.TrimSuffix(o.Attribute, "()") == "" {
			return errors.Wrap(errors.ErrInvalidConfig, "attribute override without attribute")
		}
	default:
		return errors.Wrapf(errors.ErrInvalidConfig, "override kind %d", o.Kind)
	}
	return nil
}

// Registry maps type identifiers to overrides. It is filled before a run and
// only read afterwards.
type Registry struct {
	entries map[shape.TypeID]Override
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[shape.TypeID]Override)}
}

// Sample domain types that carry overrides by default.
const (
	CustomerInterfaceID                  shape.TypeID = "github.com/teranos/dtogen/model/orders.CustomerInterface"
	CustomerID                           shape.TypeID = "github.com/teranos/dtogen/model/customers.Customer"
	CustomerTagID                        shape.TypeID = "github.com/teranos/dtogen/model/customers.CustomerTag"
	CustomerCorporateID                  shape.TypeID = "github.com/teranos/dtogen/model/corporate.CustomerCorporate"
	SerializedRelationAbstractCustomerID shape.TypeID = "github.com/teranos/dtogen/model/corporate.SerializedRelationAbstractCustomer"
	SerializedRelationCustomerID         shape.TypeID = "github.com/teranos/dtogen/model/orders.SerializedRelationCustomer"
)

// DefaultRegistry returns the overrides of the sample domain: the customer
// contract dispatches over its four concrete forms and a customer tag
// serializes as its name.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.entries[CustomerInterfaceID] = Override{
		Kind: KindVariants,
		Variants: []shape.TypeID{
			CustomerID,
			CustomerCorporateID,
			SerializedRelationAbstractCustomerID,
			SerializedRelationCustomerID,
		},
	}
	r.entries[CustomerTagID] = Override{Kind: KindAttribute, Attribute: "Name"}
	return r
}

// Register adds or replaces the override of id.
func (r *Registry) Register(id shape.TypeID, o Override) error {
	if id == "" {
		return errors.Wrap(errors.ErrInvalidConfig, "override without type")
	}
	if err := o.validate(); err != nil {
		return errors.Wrapf(err, "override %s", id)
	}
	for _, v := range o.Variants {
		if v == id {
			return errors.Wrapf(errors.ErrInvalidConfig, "override %s lists itself as a variant", id)
		}
	}
	r.entries[id] = o
	return nil
}

// Lookup returns the override of id.
func (r *Registry) Lookup(id shape.TypeID) (Override, bool) {
	if r == nil {
		return Override{}, false
	}
	o, ok := r.entries[id]
	return o, ok
}

// IDs returns the overridden identifiers in sorted order.
func (r *Registry) IDs() []shape.TypeID {
	ids := make([]shape.TypeID, 0, len(r.entries))
	for id := range r.entries {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
