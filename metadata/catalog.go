package metadata

import (
	"sort"

	"github.com/teranos/dtogen/shape"
)

// Catalog indexes raw classes by identifier. It is read-only once handed to
// a Builder.
type Catalog struct {
	classes map[shape.TypeID]*RawClass
}

// NewCatalog returns a catalog holding classes.
func NewCatalog(classes ...*RawClass) *Catalog {
	c := &Catalog{classes: make(map[shape.TypeID]*RawClass, len(classes))}
	for _, rc := range classes {
		c.Add(rc)
	}
	return c
}

// Add stores rc, replacing any class with the same identifier.
func (c *Catalog) Add(rc *RawClass) {
	c.classes[rc.ID] = rc
}

// Merge adds every class of other. Classes of other win on conflict.
func (c *Catalog) Merge(other *Catalog) {
	if other == nil {
		return
	}
	for _, rc := range other.classes {
		c.Add(rc)
	}
}

// Lookup returns the class with the given identifier.
func (c *Catalog) Lookup(id shape.TypeID) (*RawClass, bool) {
	rc, ok := c.classes[id]
	return rc, ok
}

// Len returns the number of classes.
func (c *Catalog) Len() int { return len(c.classes) }

// IDs returns every identifier in sorted order.
func (c *Catalog) IDs() []shape.TypeID {
	ids := make([]shape.TypeID, 0, len(c.classes))
	for id := range c.classes {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
