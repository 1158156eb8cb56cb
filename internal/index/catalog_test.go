package index

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tordrt/schemalive/internal/schema"
)

func TestCatalogMultiplicity(t *testing.T) {
	tests := []struct {
		name      string
		unique    bool
		primary   bool
		wantMulti Multiplicity
	}{
		{name: "primary", primary: true, unique: true, wantMulti: Single},
		{name: "primary without unique flag", primary: true, wantMulti: Single},
		{name: "unique", unique: true, wantMulti: Single},
		{name: "plain", wantMulti: Many},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCatalog()
			c.Record("users", []string{"col"}, "idx", tt.unique, tt.primary)

			idx, ok := c.Lookup("users", []string{"col"})
			require.True(t, ok)
			assert.Equal(t, tt.wantMulti, idx.Multiplicity)
			assert.Equal(t, tt.primary, idx.IsPrimary)
			assert.Equal(t, "idx", idx.Name)
		})
	}
}

func TestCatalogLookupIgnoresColumnOrder(t *testing.T) {
	c := NewCatalog()
	cols := []string{"user_id", "role_id"}
	c.Record("role_user", cols, "role_user_unique", true, false)

	idx, ok := c.Lookup("role_user", []string{"role_id", "user_id"})
	require.True(t, ok)
	assert.Equal(t, "role_user_unique", idx.Name)
	assert.Equal(t, Single, idx.Multiplicity)

	// Record must not reorder the caller's slice.
	assert.Equal(t, []string{"user_id", "role_id"}, cols)
}

func TestCatalogMissingEntries(t *testing.T) {
	c := NewCatalog()
	c.Record("users", []string{"id"}, schema.PrimaryIndexName, true, true)

	_, ok := c.Lookup("users", []string{"email"})
	assert.False(t, ok)
	_, ok = c.Lookup("posts", []string{"id"})
	assert.False(t, ok)
	_, ok = c.Lookup("users", []string{"id", "email"})
	assert.False(t, ok)
}

func TestRecordTable(t *testing.T) {
	c := NewCatalog()
	c.RecordTable(schema.Table{
		Name: "posts",
		Indexes: []schema.Index{
			{Name: schema.PrimaryIndexName, Columns: []string{"id"}, IsUnique: true, IsPrimary: true},
			{Name: "posts_slug_unique", Columns: []string{"slug"}, IsUnique: true},
			{Name: "posts_user_id_index", Columns: []string{"user_id"}},
		},
	})

	assert.Equal(t, 3, c.Len())

	idx, ok := c.Lookup("posts", []string{"user_id"})
	require.True(t, ok)
	assert.Equal(t, Many, idx.Multiplicity)
	assert.Equal(t, "n", idx.Multiplicity.String())

	idx, ok = c.Lookup("posts", []string{"id"})
	require.True(t, ok)
	assert.True(t, idx.IsPrimary)
	assert.Equal(t, "1", idx.Multiplicity.String())
}
