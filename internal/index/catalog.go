// Package index keeps the index catalog used to decide relationship cardinality.
package index

import (
	"slices"
	"strings"

	"github.com/tordrt/schemalive/internal/schema"
)

// Multiplicity tells how many rows may match one value of an index
type Multiplicity int

const (
	// Many means the indexed columns do not identify a single row
	Many Multiplicity = iota
	// Single means the indexed columns are unique or primary
	Single
)

func (m Multiplicity) String() string {
	if m == Single {
		return "1"
	}
	return "n"
}

// Index is a catalog entry for one (table, column set)
type Index struct {
	Name         string
	Multiplicity Multiplicity
	IsPrimary    bool
}

// Catalog maps (table, sorted column set) to index metadata
type Catalog struct {
	entries map[string]Index
}

// NewCatalog creates an empty catalog
func NewCatalog() *Catalog {
	return &Catalog{entries: make(map[string]Index)}
}

// Record stores an index. A later record for the same table and columns replaces the earlier one.
func (c *Catalog) Record(table string, columns []string, name string, isUnique, isPrimary bool) {
	m := Many
	if isUnique || isPrimary {
		m = Single
	}
	c.entries[key(table, columns)] = Index{
		Name:         name,
		Multiplicity: m,
		IsPrimary:    isPrimary,
	}
}

// RecordTable stores every index declared on a table
func (c *Catalog) RecordTable(t schema.Table) {
	for _, idx := range t.Indexes {
		c.Record(t.Name, idx.Columns, idx.Name, idx.IsUnique, idx.IsPrimary)
	}
}

// Lookup returns the index covering exactly the given columns, in any order
func (c *Catalog) Lookup(table string, columns []string) (*Index, bool) {
	idx, ok := c.entries[key(table, columns)]
	if !ok {
		return nil, false
	}
	return &idx, true
}

// Len returns the number of catalogued indexes
func (c *Catalog) Len() int {
	return len(c.entries)
}

func key(table string, columns []string) string {
	sorted := slices.Clone(columns)
	slices.Sort(sorted)
	return table + "\x00" + strings.Join(sorted, "\x00")
}
