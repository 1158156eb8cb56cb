// Package relation infers model relationships from foreign keys.
//
// Every foreign key yields up to two edges, one per direction. The kind of an
// edge follows from the indexes on both sides: a primary key pointing at a
// single row is a hasOne, any other key pointing at a single row is a
// belongsTo, and a key pointing at many rows is a hasMany. Once every foreign
// key is registered, pairs of hasMany edges into the same table are collapsed
// into belongsToMany edges through that pivot table.
package relation

import (
	"go.uber.org/zap"

	"github.com/tordrt/schemalive/internal/index"
	"github.com/tordrt/schemalive/internal/naming"
	"github.com/tordrt/schemalive/internal/schema"
	"github.com/tordrt/schemalive/modelconfig"
)

// side describes one end of a foreign key
type side struct {
	table   string
	class   string
	index   *index.Index
	columns modelconfig.Columns
}

func (s side) primary() bool {
	return s.index != nil && s.index.IsPrimary
}

func (s side) multiplicity() index.Multiplicity {
	if s.index == nil {
		return index.Many
	}
	return s.index.Multiplicity
}

// edge is a registered relationship plus the sides it was built from
type edge struct {
	rel  *modelconfig.Relationship
	from side
	to   side
}

type tableEdges struct {
	names  []string
	byName map[string]*edge
}

// Engine accumulates relationship edges for one schema
type Engine struct {
	catalog *index.Catalog
	guesser naming.Guesser
	logger  *zap.Logger

	tables  []string
	byTable map[string]*tableEdges
}

// NewEngine creates an engine that resolves cardinality through the catalog
func NewEngine(catalog *index.Catalog, guesser naming.Guesser, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		catalog: catalog,
		guesser: guesser,
		logger:  logger,
		byTable: make(map[string]*tableEdges),
	}
}

// AddForeignKey registers the edges of a foreign key declared on table:
// first from the owning table to the referenced one, then the reverse.
func (e *Engine) AddForeignKey(table string, fk schema.ForeignKey) {
	local := e.side(table, fk.Columns)
	foreign := e.side(fk.TargetTable, fk.TargetColumns)

	for _, dir := range [2][2]side{{local, foreign}, {foreign, local}} {
		e.register(dir[0], dir[1])
	}
}

func (e *Engine) side(table string, columns []string) side {
	s := side{
		table:   table,
		class:   e.guesser.Guess(table),
		columns: modelconfig.Columns(columns),
	}
	if idx, ok := e.catalog.Lookup(table, columns); ok {
		s.index = idx
	}
	if s.class == "" {
		e.logger.Debug("no model found for table", zap.String("table", table))
	}
	return s
}

func (e *Engine) register(from, to side) {
	name := relationName(from, to)
	if e.lookup(from.table, name) != nil {
		e.logger.Debug("relationship already registered",
			zap.String("table", from.table),
			zap.String("name", name),
			zap.String("related", to.table))
		return
	}

	rel := &modelconfig.Relationship{
		Name:        name,
		TargetClass: to.class,
		Related:     to.table,
	}
	m := to.multiplicity()
	switch {
	case from.primary() && m == index.Single && to.table != from.table:
		rel.Kind = modelconfig.HasOne
		rel.ForeignKey = to.columns
		rel.LocalKey = from.columns
	case !from.primary() && m == index.Single:
		rel.Kind = modelconfig.BelongsTo
		rel.ForeignKey = from.columns
		rel.OwnerKey = to.columns
	case m == index.Many:
		rel.Kind = modelconfig.HasMany
		rel.ForeignKey = to.columns
		rel.LocalKey = from.columns
	default:
		e.logger.Debug("self-referencing one-to-one key skipped",
			zap.String("table", from.table),
			zap.Stringer("columns", from.columns))
		return
	}

	e.put(from.table, &edge{rel: rel, from: from, to: to})
}

// relationName names an edge after the from side's index when it has a named
// non-primary one, otherwise after the target table, singular when the target
// side is a single row
func relationName(from, to side) string {
	if from.index != nil && from.index.Name != schema.PrimaryIndexName {
		return naming.LowerCamel(from.index.Name)
	}
	name := to.table
	if to.multiplicity() == index.Single {
		name = naming.Singular(name)
	}
	return naming.LowerCamel(name)
}

func (e *Engine) lookup(table, name string) *edge {
	te, ok := e.byTable[table]
	if !ok {
		return nil
	}
	return te.byName[name]
}

func (e *Engine) put(table string, ed *edge) {
	te, ok := e.byTable[table]
	if !ok {
		te = &tableEdges{byName: make(map[string]*edge)}
		e.byTable[table] = te
		e.tables = append(e.tables, table)
	}
	if _, exists := te.byName[ed.rel.Name]; !exists {
		te.names = append(te.names, ed.rel.Name)
	}
	te.byName[ed.rel.Name] = ed
}

// edges returns every registered edge in registration order
func (e *Engine) edges() []*edge {
	var out []*edge
	for _, table := range e.tables {
		te := e.byTable[table]
		for _, name := range te.names {
			out = append(out, te.byName[name])
		}
	}
	return out
}

// Relationships returns the registered relationships keyed by table and name
func (e *Engine) Relationships() map[string]map[string]*modelconfig.Relationship {
	out := make(map[string]map[string]*modelconfig.Relationship, len(e.tables))
	for _, table := range e.tables {
		te := e.byTable[table]
		rels := make(map[string]*modelconfig.Relationship, len(te.names))
		for _, name := range te.names {
			rels[name] = te.byName[name].rel
		}
		out[table] = rels
	}
	return out
}

// Len returns the number of registered relationships
func (e *Engine) Len() int {
	n := 0
	for _, te := range e.byTable {
		n += len(te.names)
	}
	return n
}
