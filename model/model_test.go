package model

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tordrt/schemalive/modelconfig"
)

func strPtr(s string) *string { return &s }

func blogConfiguration() *modelconfig.Configuration {
	cfg := modelconfig.New("default")

	users := modelconfig.NewFieldConfig()
	users.Attributes = map[string]*string{"id": nil, "status": strPtr("active")}
	users.Fillable = []string{"id", "email", "password", "status"}
	users.Guarded = []string{"id"}
	users.Hidden = []string{"password"}
	users.Casts["created_at"] = modelconfig.CastDateTime
	users.Casts["meta"] = modelconfig.CastArray
	users.AddRule("email", "required")
	users.AddRule("email", "max:255")
	cfg.Fields["users"] = users
	cfg.Fields["posts"] = modelconfig.NewFieldConfig()

	cfg.Relationships["users"] = map[string]*modelconfig.Relationship{
		"posts": {
			Name:        "posts",
			Kind:        modelconfig.HasMany,
			TargetClass: "Post",
			Related:     "posts",
			ForeignKey:  modelconfig.Columns{"user_id"},
			LocalKey:    modelconfig.Columns{"id"},
		},
		"profile": {
			Name:        "profile",
			Kind:        modelconfig.HasOne,
			TargetClass: "Profile",
			Related:     "profiles",
			ForeignKey:  modelconfig.Columns{"user_id"},
			LocalKey:    modelconfig.Columns{"id"},
		},
		"roles": {
			Name:            "roles",
			Kind:            modelconfig.BelongsToMany,
			TargetClass:     "Role",
			Related:         "roles",
			Pivot:           "role_user",
			ForeignPivotKey: modelconfig.Columns{"user_id"},
			RelatedPivotKey: modelconfig.Columns{"role_id"},
			ParentKey:       modelconfig.Columns{"id"},
			RelatedKey:      modelconfig.Columns{"id"},
		},
		"auditEntries": {
			Name:       "auditEntries",
			Kind:       modelconfig.HasMany,
			Related:    "audit_entries",
			ForeignKey: modelconfig.Columns{"user_id"},
			LocalKey:   modelconfig.Columns{"id"},
		},
	}
	cfg.Relationships["posts"] = map[string]*modelconfig.Relationship{
		"user": {
			Name:        "user",
			Kind:        modelconfig.BelongsTo,
			TargetClass: "User",
			Related:     "users",
			ForeignKey:  modelconfig.Columns{"user_id"},
			OwnerKey:    modelconfig.Columns{"id"},
		},
	}
	cfg.Relationships["member_badges"] = map[string]*modelconfig.Relationship{
		"tenantMember": {
			Name:        "tenantMember",
			Kind:        modelconfig.BelongsTo,
			TargetClass: "TenantMember",
			Related:     "tenant_members",
			ForeignKey:  modelconfig.Columns{"tenant_id", "member_id"},
			OwnerKey:    modelconfig.Columns{"tenant_id", "member_id"},
		},
	}
	return cfg
}

func TestNewWithoutConfiguration(t *testing.T) {
	_, err := New(nil, "users")
	require.Error(t, err)
	assert.True(t, errors.Is(err, modelconfig.ErrNotBuilt))
}

func TestFromStore(t *testing.T) {
	store := modelconfig.NewStore()
	require.NoError(t, store.Put(blogConfiguration()))

	m, err := FromStore(store, "default", "users", WithDialect(Postgres))
	require.NoError(t, err)
	assert.Equal(t, "default", m.Connection())

	_, err = FromStore(store, "reporting", "users")
	assert.ErrorIs(t, err, modelconfig.ErrNotBuilt)
}

func TestModelFields(t *testing.T) {
	m, err := New(blogConfiguration(), "users")
	require.NoError(t, err)

	assert.Equal(t, "users", m.Table())
	assert.Equal(t, "default", m.Connection())
	assert.Equal(t, []string{"created_at", "id"}, m.Guarded([]string{"created_at"}))
	assert.Equal(t, []string{"id", "email", "password", "status"}, m.Fillable())
	assert.Equal(t, []string{"password"}, m.Hidden())
	assert.Equal(t, map[string][]string{"email": {"required", "max:255"}}, m.Rules())

	casts := m.Casts(map[string]modelconfig.CastKind{"meta": "json", "score": "float"})
	assert.Equal(t, map[string]modelconfig.CastKind{
		"meta":       modelconfig.CastArray,
		"score":      "float",
		"created_at": modelconfig.CastDateTime,
	}, casts)

	attrs := m.Attributes()
	require.Contains(t, attrs, "id")
	assert.Nil(t, attrs["id"])
	assert.Equal(t, "active", *attrs["status"])
}

func TestModelFieldsAreCopies(t *testing.T) {
	cfg := blogConfiguration()
	m, err := New(cfg, "users")
	require.NoError(t, err)

	m.Fillable()[0] = "changed"
	m.Rules()["email"][0] = "changed"
	m.Attributes()["status"] = nil

	assert.Equal(t, "id", cfg.Field("users").Fillable[0])
	assert.Equal(t, "required", cfg.Field("users").Rules["email"][0])
	assert.NotNil(t, cfg.Field("users").Attributes["status"])
}

func TestModelWithoutFields(t *testing.T) {
	m, err := New(blogConfiguration(), "comments")
	require.NoError(t, err)

	assert.Equal(t, []string{"id"}, m.Guarded([]string{"id"}))
	assert.Empty(t, m.Fillable())
	assert.Empty(t, m.Hidden())
	assert.Empty(t, m.Rules())
	assert.Empty(t, m.Attributes())
	assert.Empty(t, m.Relations())
}

func TestVisible(t *testing.T) {
	m, err := New(blogConfiguration(), "users")
	require.NoError(t, err)

	r := Record{"id": 1, "email": "a@example.com", "password": "secret"}
	assert.Equal(t, Record{"id": 1, "email": "a@example.com"}, m.Visible(r))
	assert.Contains(t, r, "password")
}

func TestRelationDispatch(t *testing.T) {
	m, err := New(blogConfiguration(), "users")
	require.NoError(t, err)

	tests := []struct {
		name     string
		wantType Relation
		wantMany bool
		wantErr  error
	}{
		{"posts", &HasMany{}, true, nil},
		{"profile", &HasOne{}, false, nil},
		{"roles", &BelongsToMany{}, true, nil},
		{"auditEntries", nil, false, ErrUnresolvedModel},
		{"comments", nil, false, ErrUnknownRelation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rel, err := m.Relation(tt.name)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.IsType(t, tt.wantType, rel)
			assert.Equal(t, tt.wantMany, rel.Many())
			assert.Equal(t, tt.name, rel.Definition().Name)
		})
	}

	assert.Equal(t, []string{"auditEntries", "posts", "profile", "roles"}, m.Relations())
}

func TestRelationInvalidKind(t *testing.T) {
	cfg := modelconfig.New("default")
	cfg.Relationships["users"] = map[string]*modelconfig.Relationship{
		"things": {Name: "things", Kind: "morphMany", TargetClass: "Thing", Related: "things"},
	}

	m, err := New(cfg, "users")
	require.NoError(t, err)

	_, err = m.Relation("things")
	assert.ErrorIs(t, err, ErrInvalidRelationType)
}
