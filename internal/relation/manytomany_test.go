package relation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tordrt/schemalive/internal/schema"
	"github.com/tordrt/schemalive/modelconfig"
)

func pivotSchema(extra ...schema.Table) *schema.Schema {
	tables := []schema.Table{
		{Name: "users", Indexes: []schema.Index{primary("id")}},
		{Name: "roles", Indexes: []schema.Index{primary("id")}},
		{Name: "role_user", ForeignKeys: []schema.ForeignKey{
			fk([]string{"user_id"}, "users", []string{"id"}),
			fk([]string{"role_id"}, "roles", []string{"id"}),
		}},
	}
	return &schema.Schema{Tables: append(tables, extra...)}
}

func TestCollapseManyToMany(t *testing.T) {
	e := newEngine(t, pivotSchema(), "User", "Role", "RoleUser")
	e.CollapseManyToMany()
	rels := e.Relationships()

	assert.Equal(t, &modelconfig.Relationship{
		Name: "roles", Kind: modelconfig.BelongsToMany, TargetClass: "Role", Related: "roles",
		Pivot:           "role_user",
		ForeignPivotKey: modelconfig.Columns{"user_id"},
		RelatedPivotKey: modelconfig.Columns{"role_id"},
		ParentKey:       modelconfig.Columns{"id"},
		RelatedKey:      modelconfig.Columns{"id"},
	}, rels["users"]["roles"])
	assert.Equal(t, &modelconfig.Relationship{
		Name: "users", Kind: modelconfig.BelongsToMany, TargetClass: "User", Related: "users",
		Pivot:           "role_user",
		ForeignPivotKey: modelconfig.Columns{"role_id"},
		RelatedPivotKey: modelconfig.Columns{"user_id"},
		ParentKey:       modelconfig.Columns{"id"},
		RelatedKey:      modelconfig.Columns{"id"},
	}, rels["roles"]["users"])

	// The one-to-many edges through the pivot stay in place.
	assert.Equal(t, modelconfig.HasMany, rels["users"]["roleUser"].Kind)
	assert.Equal(t, modelconfig.HasMany, rels["roles"]["roleUser"].Kind)
	assert.Equal(t, modelconfig.BelongsTo, rels["role_user"]["user"].Kind)
	assert.Equal(t, modelconfig.BelongsTo, rels["role_user"]["role"].Kind)
}

func TestCollapseManyToManyIsIdempotent(t *testing.T) {
	e := newEngine(t, pivotSchema(), "User", "Role")
	e.CollapseManyToMany()
	first := e.Relationships()
	n := e.Len()

	e.CollapseManyToMany()
	assert.Equal(t, n, e.Len())
	assert.Equal(t, first, e.Relationships())
}

func TestCollapseManyToManyNameCollision(t *testing.T) {
	// roles.user_id gives users a direct hasMany named "roles"
	s := &schema.Schema{Tables: []schema.Table{
		{Name: "users", Indexes: []schema.Index{primary("id")}},
		{Name: "roles", Indexes: []schema.Index{primary("id")}, ForeignKeys: []schema.ForeignKey{
			fk([]string{"owner_id"}, "users", []string{"id"}),
		}},
		{Name: "role_user", ForeignKeys: []schema.ForeignKey{
			fk([]string{"user_id"}, "users", []string{"id"}),
			fk([]string{"role_id"}, "roles", []string{"id"}),
		}},
	}}

	e := newEngine(t, s, "User", "Role")
	e.CollapseManyToMany()
	rels := e.Relationships()

	require.NotNil(t, rels["users"]["roles"])
	assert.Equal(t, modelconfig.HasMany, rels["users"]["roles"].Kind)
	assert.Equal(t, modelconfig.Columns{"owner_id"}, rels["users"]["roles"].ForeignKey)

	suffixed := rels["users"]["roles2"]
	require.NotNil(t, suffixed)
	assert.Equal(t, modelconfig.BelongsToMany, suffixed.Kind)
	assert.Equal(t, "role_user", suffixed.Pivot)
	assert.Equal(t, "roles2", suffixed.Name)

	n := e.Len()
	e.CollapseManyToMany()
	assert.Equal(t, n, e.Len())
	assert.Nil(t, e.Relationships()["users"]["roles22"])
}

func TestCollapseSelfReferencingPivot(t *testing.T) {
	s := &schema.Schema{Tables: []schema.Table{
		{Name: "users", Indexes: []schema.Index{primary("id")}},
		{Name: "follows", Indexes: []schema.Index{
			{Name: "follower", Columns: []string{"follower_id"}},
			{Name: "followed", Columns: []string{"followed_id"}},
		}, ForeignKeys: []schema.ForeignKey{
			fk([]string{"follower_id"}, "users", []string{"id"}),
			fk([]string{"followed_id"}, "users", []string{"id"}),
		}},
	}}

	e := newEngine(t, s, "User", "Follow")
	e.CollapseManyToMany()
	rels := e.Relationships()

	// Both reverse edges are named after the pivot table, so the second is
	// dropped and no pair is left to collapse.
	assert.Equal(t, modelconfig.BelongsTo, rels["follows"]["follower"].Kind)
	assert.Equal(t, modelconfig.BelongsTo, rels["follows"]["followed"].Kind)
	assert.Equal(t, modelconfig.Columns{"follower_id"}, rels["users"]["follows"].ForeignKey)
	assert.Len(t, rels["users"], 1)
}

func TestCollapseDistinctSelfReferencingEdges(t *testing.T) {
	// Named unique indexes on the users side give the two hasMany edges into
	// follows different names, so they collapse into users.users and users.users2.
	s := &schema.Schema{Tables: []schema.Table{
		{Name: "users", Indexes: []schema.Index{
			primary("id"),
			{Name: "users_handle_unique", Columns: []string{"handle"}, IsUnique: true},
		}},
		{Name: "follows", ForeignKeys: []schema.ForeignKey{
			fk([]string{"follower_id"}, "users", []string{"id"}),
			fk([]string{"followed_handle"}, "users", []string{"handle"}),
		}},
	}}

	e := newEngine(t, s, "User")
	e.CollapseManyToMany()
	rels := e.Relationships()["users"]

	require.NotNil(t, rels["follows"])
	require.NotNil(t, rels["usersHandleUnique"])

	first := rels["users"]
	require.NotNil(t, first)
	assert.Equal(t, modelconfig.BelongsToMany, first.Kind)
	assert.Equal(t, modelconfig.Columns{"follower_id"}, first.ForeignPivotKey)
	assert.Equal(t, modelconfig.Columns{"followed_handle"}, first.RelatedPivotKey)

	second := rels["users2"]
	require.NotNil(t, second)
	assert.Equal(t, modelconfig.Columns{"followed_handle"}, second.ForeignPivotKey)
	assert.Equal(t, modelconfig.Columns{"handle"}, second.ParentKey)
}

func TestCollapseIgnoresSingleEdges(t *testing.T) {
	s := &schema.Schema{Tables: []schema.Table{
		{Name: "users", Indexes: []schema.Index{primary("id")}},
		{Name: "posts", Indexes: []schema.Index{primary("id")}, ForeignKeys: []schema.ForeignKey{
			fk([]string{"user_id"}, "users", []string{"id"}),
		}},
	}}

	e := newEngine(t, s, "User", "Post")
	n := e.Len()
	e.CollapseManyToMany()
	assert.Equal(t, n, e.Len())
}
