package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tordrt/schemalive/modelconfig"
)

func TestRelationQuery(t *testing.T) {
	cfg := blogConfiguration()

	tests := []struct {
		name     string
		table    string
		relation string
		dialect  Dialect
		parent   Record
		wantSQL  string
		wantArgs []any
	}{
		{
			name:     "has many",
			table:    "users",
			relation: "posts",
			dialect:  SQLite,
			parent:   Record{"id": 1},
			wantSQL:  `SELECT "posts".* FROM "posts" WHERE "posts"."user_id" = ?`,
			wantArgs: []any{1},
		},
		{
			name:     "has one",
			table:    "users",
			relation: "profile",
			dialect:  Postgres,
			parent:   Record{"id": 1},
			wantSQL:  `SELECT "profiles".* FROM "profiles" WHERE "profiles"."user_id" = $1 LIMIT 1`,
			wantArgs: []any{1},
		},
		{
			name:     "belongs to",
			table:    "posts",
			relation: "user",
			dialect:  MySQL,
			parent:   Record{"id": 10, "user_id": 7},
			wantSQL:  "SELECT `users`.* FROM `users` WHERE `users`.`id` = ? LIMIT 1",
			wantArgs: []any{7},
		},
		{
			name:     "belongs to many",
			table:    "users",
			relation: "roles",
			dialect:  Postgres,
			parent:   Record{"id": 3},
			wantSQL: `SELECT "roles".* FROM "roles" INNER JOIN "role_user" ON "role_user"."role_id" = "roles"."id"` +
				` WHERE "role_user"."user_id" = $1`,
			wantArgs: []any{3},
		},
		{
			name:     "composite belongs to",
			table:    "member_badges",
			relation: "tenantMember",
			dialect:  Postgres,
			parent:   Record{"tenant_id": 2, "member_id": 5},
			wantSQL: `SELECT "tenant_members".* FROM "tenant_members"` +
				` WHERE "tenant_members"."tenant_id" = $1 AND "tenant_members"."member_id" = $2 LIMIT 1`,
			wantArgs: []any{2, 5},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := New(cfg, tt.table, WithDialect(tt.dialect))
			require.NoError(t, err)

			rel, err := m.Relation(tt.relation)
			require.NoError(t, err)

			query, args, err := rel.Query(tt.parent)
			require.NoError(t, err)
			assert.Equal(t, tt.wantSQL, query)
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}

func TestRelationQueryMissingKey(t *testing.T) {
	m, err := New(blogConfiguration(), "posts")
	require.NoError(t, err)

	rel, err := m.Relation("user")
	require.NoError(t, err)

	_, _, err = rel.Query(Record{"id": 1})
	assert.ErrorIs(t, err, ErrMissingKey)

	_, _, err = rel.Query(Record{"id": 1, "user_id": nil})
	assert.ErrorIs(t, err, ErrMissingKey)
}

func TestPlaceholder(t *testing.T) {
	assert.Equal(t, "$2", Postgres.placeholder(2))
	assert.Equal(t, "?", MySQL.placeholder(2))
	assert.Equal(t, "?", SQLite.placeholder(1))
}

func TestQueryKeepsQuestionMarksInIdentifiers(t *testing.T) {
	rel, err := newRelation(&modelconfig.Relationship{
		Name:       "answers",
		Kind:       modelconfig.HasMany,
		Related:    "answers?",
		ForeignKey: modelconfig.Columns{"question?_id"},
		LocalKey:   modelconfig.Columns{"id"},
	}, Postgres)
	require.NoError(t, err)

	q, args, err := rel.Query(Record{"id": int64(7)})
	require.NoError(t, err)
	assert.Equal(t, `SELECT "answers?".* FROM "answers?" WHERE "answers?"."question?_id" = $1`, q)
	assert.Equal(t, []any{int64(7)}, args)
}

func TestQuote(t *testing.T) {
	assert.Equal(t, `"odd""name"`, SQLite.quote(`odd"name`))
	assert.Equal(t, "`odd``name`", MySQL.quote("odd`name"))
}
