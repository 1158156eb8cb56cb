package model

import (
	"fmt"
	"strings"

	"github.com/tordrt/schemalive/modelconfig"
)

// Relation is a relationship of a model resolved to its kind
type Relation interface {
	// Definition returns the generated relationship the relation was built from
	Definition() *modelconfig.Relationship
	// Many reports whether the relation yields any number of records rather than at most one
	Many() bool
	// Query renders the SELECT returning the related records of parent
	Query(parent Record) (string, []any, error)
}

func newRelation(def *modelconfig.Relationship, d Dialect) (Relation, error) {
	b := base{def: def, dialect: d}
	switch def.Kind {
	case modelconfig.HasOne:
		return &HasOne{b}, nil
	case modelconfig.BelongsTo:
		return &BelongsTo{b}, nil
	case modelconfig.HasMany:
		return &HasMany{b}, nil
	case modelconfig.BelongsToMany:
		return &BelongsToMany{b}, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrInvalidRelationType, def.Kind)
}

type base struct {
	def     *modelconfig.Relationship
	dialect Dialect
}

func (b base) Definition() *modelconfig.Relationship {
	return b.def
}

// where renders "qualifier.col = <placeholder>" for every column pair, reading
// the values from parent. The conditions bind the first arguments of the query.
func (b base) where(qualifier string, cols, parentCols modelconfig.Columns, parent Record) ([]string, []any, error) {
	if len(cols) != len(parentCols) {
		return nil, nil, fmt.Errorf("relation %s joins %d columns on %d", b.def.Name, len(cols), len(parentCols))
	}
	conds := make([]string, 0, len(cols))
	args := make([]any, 0, len(cols))
	for i, col := range cols {
		v, ok := parent[parentCols[i]]
		if !ok || v == nil {
			return nil, nil, fmt.Errorf("%w: %s (relation %s)", ErrMissingKey, parentCols[i], b.def.Name)
		}
		conds = append(conds, b.dialect.column(qualifier, col)+" = "+b.dialect.placeholder(i+1))
		args = append(args, v)
	}
	return conds, args, nil
}

func (b base) selectFrom(conds []string, limit bool) string {
	related := b.dialect.quote(b.def.Related)
	q := "SELECT " + related + ".* FROM " + related + " WHERE " + strings.Join(conds, " AND ")
	if limit {
		q += " LIMIT 1"
	}
	return q
}

// HasOne is a relation to the single related record whose foreign key holds
// the parent's local key
type HasOne struct{ base }

// Many implements Relation
func (r *HasOne) Many() bool { return false }

// Query implements Relation
func (r *HasOne) Query(parent Record) (string, []any, error) {
	conds, args, err := r.where(r.def.Related, r.def.ForeignKey, r.def.LocalKey, parent)
	if err != nil {
		return "", nil, err
	}
	return r.selectFrom(conds, true), args, nil
}

// BelongsTo is a relation to the owner record referenced by the parent's foreign key
type BelongsTo struct{ base }

// Many implements Relation
func (r *BelongsTo) Many() bool { return false }

// Query implements Relation
func (r *BelongsTo) Query(parent Record) (string, []any, error) {
	conds, args, err := r.where(r.def.Related, r.def.OwnerKey, r.def.ForeignKey, parent)
	if err != nil {
		return "", nil, err
	}
	return r.selectFrom(conds, true), args, nil
}

// HasMany is a relation to every related record whose foreign key holds the
// parent's local key
type HasMany struct{ base }

// Many implements Relation
func (r *HasMany) Many() bool { return true }

// Query implements Relation
func (r *HasMany) Query(parent Record) (string, []any, error) {
	conds, args, err := r.where(r.def.Related, r.def.ForeignKey, r.def.LocalKey, parent)
	if err != nil {
		return "", nil, err
	}
	return r.selectFrom(conds, false), args, nil
}

// BelongsToMany is a relation to the related records joined through a pivot table
type BelongsToMany struct{ base }

// Many implements Relation
func (r *BelongsToMany) Many() bool { return true }

// Query implements Relation
func (r *BelongsToMany) Query(parent Record) (string, []any, error) {
	d := r.def
	if len(d.RelatedPivotKey) != len(d.RelatedKey) {
		return "", nil, fmt.Errorf("relation %s joins %d pivot columns on %d", d.Name, len(d.RelatedPivotKey), len(d.RelatedKey))
	}

	conds, args, err := r.where(d.Pivot, d.ForeignPivotKey, d.ParentKey, parent)
	if err != nil {
		return "", nil, err
	}

	on := make([]string, len(d.RelatedKey))
	for i, col := range d.RelatedKey {
		on[i] = r.dialect.column(d.Pivot, d.RelatedPivotKey[i]) + " = " + r.dialect.column(d.Related, col)
	}

	related := r.dialect.quote(d.Related)
	q := "SELECT " + related + ".* FROM " + related +
		" INNER JOIN " + r.dialect.quote(d.Pivot) + " ON " + strings.Join(on, " AND ") +
		" WHERE " + strings.Join(conds, " AND ")
	return q, args, nil
}
