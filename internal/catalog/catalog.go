// Package catalog holds the specialty/doctor catalog the queue registers
// appointments against. The catalog is fetched once per process and is
// immutable afterwards.
package catalog

import (
	"github.com/google/uuid"

	"turnero/internal/catalog/models"
	pstrings "turnero/pkg/platform/strings"
)

// keyNamespace scopes specialty keys so they never collide with other
// name-based UUIDs.
var keyNamespace = uuid.NewSHA1(uuid.NameSpaceOID, []byte("turnero.catalog.specialty"))

// SpecialtyKey derives the stable key of a (name, doctor) pair.
func SpecialtyKey(name, doctor string) string {
	return uuid.NewSHA1(keyNamespace, []byte(name+"\x00"+doctor)).String()
}

// Catalog is an ordered, read-only list of specialties.
type Catalog struct {
	specialties []models.Specialty
	byKey       map[string]int
}

// New builds a Catalog, assigning each record its stable key. Duplicate
// records share a key; lookups resolve to the first one.
func New(records []models.Specialty) *Catalog {
	c := &Catalog{
		specialties: make([]models.Specialty, len(records)),
		byKey:       make(map[string]int, len(records)),
	}
	for i, rec := range records {
		rec.Key = SpecialtyKey(rec.Name, rec.Doctor)
		c.specialties[i] = rec
		if _, dup := c.byKey[rec.Key]; !dup {
			c.byKey[rec.Key] = i
		}
	}
	return c
}

// Len reports the number of specialties.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.specialties)
}

// Specialties returns a copy of the records in catalog order.
func (c *Catalog) Specialties() []models.Specialty {
	if c == nil {
		return []models.Specialty{}
	}
	out := make([]models.Specialty, len(c.specialties))
	copy(out, c.specialties)
	return out
}

// Resolve looks a specialty up by key.
func (c *Catalog) Resolve(key string) (models.Specialty, bool) {
	if c == nil {
		return models.Specialty{}, false
	}
	i, ok := c.byKey[key]
	if !ok {
		return models.Specialty{}, false
	}
	return c.specialties[i], true
}

// ResolveIndex looks a specialty up by catalog position.
func (c *Catalog) ResolveIndex(i int) (models.Specialty, bool) {
	if c == nil || i < 0 || i >= len(c.specialties) {
		return models.Specialty{}, false
	}
	return c.specialties[i], true
}

// Doctors lists each doctor once, in first-seen catalog order.
func (c *Catalog) Doctors() []string {
	if c == nil {
		return []string{}
	}
	doctors := make([]string, len(c.specialties))
	for i, s := range c.specialties {
		doctors[i] = s.Doctor
	}
	return pstrings.Unique(doctors)
}
