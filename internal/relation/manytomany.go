package relation

import (
	"go.uber.org/zap"

	"github.com/tordrt/schemalive/internal/naming"
	"github.com/tordrt/schemalive/modelconfig"
)

// collisionSuffix is appended to a belongsToMany name already used by another edge
const collisionSuffix = "2"

// CollapseManyToMany adds a belongsToMany edge for every pair of distinct
// hasMany edges pointing into the same table. It must run after every foreign
// key has been added. Running it again adds nothing.
func (e *Engine) CollapseManyToMany() {
	var hasMany []*edge
	for _, ed := range e.edges() {
		if ed.rel.Kind == modelconfig.HasMany {
			hasMany = append(hasMany, ed)
		}
	}

	for _, ref := range hasMany {
		for _, other := range hasMany {
			if other == ref || other.to.table != ref.to.table {
				continue
			}
			e.registerManyToMany(ref, other)
		}
	}
}

// registerManyToMany joins ref (A hasMany P) and other (B hasMany P) into
// A belongsToMany B through P
func (e *Engine) registerManyToMany(ref, other *edge) {
	parent, pivot, related := ref.from, ref.to, other.from

	base := naming.LowerCamel(related.table)
	for _, name := range []string{base, base + collisionSuffix} {
		rel := &modelconfig.Relationship{
			Name:            name,
			Kind:            modelconfig.BelongsToMany,
			TargetClass:     related.class,
			Related:         related.table,
			Pivot:           pivot.table,
			ForeignPivotKey: ref.to.columns,
			RelatedPivotKey: other.to.columns,
			ParentKey:       parent.columns,
			RelatedKey:      related.columns,
		}

		existing := e.lookup(parent.table, name)
		if existing == nil {
			e.put(parent.table, &edge{rel: rel, from: parent, to: related})
			return
		}
		if existing.rel.Equal(rel) {
			return
		}
	}

	e.logger.Debug("belongsToMany dropped, name already taken",
		zap.String("table", parent.table),
		zap.String("name", base),
		zap.String("pivot", pivot.table))
}
