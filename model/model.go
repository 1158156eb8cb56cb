// Package model binds a table to its generated model configuration and
// resolves the table's relationships into queries.
//
// A Model never reads global state: the configuration of its connection is
// passed in when the model is created.
package model

import (
	"fmt"
	"maps"
	"slices"

	"github.com/tordrt/schemalive/modelconfig"
)

// Record is one row keyed by column name
type Record map[string]any

// Model is a table bound to the configuration of its connection
type Model struct {
	cfg     *modelconfig.Configuration
	table   string
	dialect Dialect
}

// Option configures a Model
type Option func(*Model)

// WithDialect sets the SQL dialect used to render relation queries
func WithDialect(d Dialect) Option {
	return func(m *Model) { m.dialect = d }
}

// New binds table to cfg. A nil configuration means no build ran for the
// model's connection and is reported as modelconfig.ErrNotBuilt.
func New(cfg *modelconfig.Configuration, table string, opts ...Option) (*Model, error) {
	if cfg == nil {
		return nil, fmt.Errorf("model %s: %w", table, modelconfig.ErrNotBuilt)
	}
	m := &Model{cfg: cfg, table: table, dialect: SQLite}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// FromStore binds table to the configuration stored for connection
func FromStore(store *modelconfig.Store, connection, table string, opts ...Option) (*Model, error) {
	cfg, err := store.Get(connection)
	if err != nil {
		return nil, fmt.Errorf("model %s: %w", table, err)
	}
	return New(cfg, table, opts...)
}

// Table returns the table name
func (m *Model) Table() string {
	return m.table
}

// Connection returns the connection the configuration was built for
func (m *Model) Connection() string {
	return m.cfg.Connection
}

func (m *Model) fields() *modelconfig.FieldConfig {
	return m.cfg.Field(m.table)
}

// Guarded returns base followed by the configured guarded columns
func (m *Model) Guarded(base []string) []string {
	out := slices.Clone(base)
	if f := m.fields(); f != nil {
		out = append(out, f.Guarded...)
	}
	return out
}

// Casts returns base overlaid with the configured casts
func (m *Model) Casts(base map[string]modelconfig.CastKind) map[string]modelconfig.CastKind {
	out := make(map[string]modelconfig.CastKind, len(base))
	maps.Copy(out, base)
	if f := m.fields(); f != nil {
		maps.Copy(out, f.Casts)
	}
	return out
}

// Rules returns the validation rules per column
func (m *Model) Rules() map[string][]string {
	f := m.fields()
	if f == nil {
		return map[string][]string{}
	}
	out := make(map[string][]string, len(f.Rules))
	for col, rules := range f.Rules {
		out[col] = slices.Clone(rules)
	}
	return out
}

// Attributes returns the default attribute values; nil means no default
func (m *Model) Attributes() map[string]*string {
	out := map[string]*string{}
	if f := m.fields(); f != nil {
		maps.Copy(out, f.Attributes)
	}
	return out
}

// Hidden returns the columns left out of serialized records
func (m *Model) Hidden() []string {
	if f := m.fields(); f != nil {
		return slices.Clone(f.Hidden)
	}
	return []string{}
}

// Fillable returns the mass-assignable columns
func (m *Model) Fillable() []string {
	if f := m.fields(); f != nil {
		return slices.Clone(f.Fillable)
	}
	return []string{}
}

// Visible returns a copy of r without its hidden columns
func (m *Model) Visible(r Record) Record {
	out := make(Record, len(r))
	maps.Copy(out, r)
	for _, col := range m.Hidden() {
		delete(out, col)
	}
	return out
}

// Relation returns the named relationship of the table
func (m *Model) Relation(name string) (Relation, error) {
	def := m.cfg.Relationship(m.table, name)
	if def == nil {
		return nil, fmt.Errorf("%w: %s.%s", ErrUnknownRelation, m.table, name)
	}
	if !def.Resolved() {
		return nil, fmt.Errorf("%w: %s.%s -> %s", ErrUnresolvedModel, m.table, name, def.Related)
	}
	return newRelation(def, m.dialect)
}

// Relations returns the relationship names of the table in sorted order
func (m *Model) Relations() []string {
	return slices.Sorted(maps.Keys(m.cfg.Relationships[m.table]))
}
