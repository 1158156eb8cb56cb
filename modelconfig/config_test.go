package modelconfig

import (
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestColumnsEncoding(t *testing.T) {
	tests := []struct {
		name     string
		columns  Columns
		wantJSON string
		wantYAML string
	}{
		{name: "single column", columns: Columns{"user_id"}, wantJSON: `"user_id"`, wantYAML: "user_id\n"},
		{name: "composite", columns: Columns{"tenant_id", "user_id"}, wantJSON: `["tenant_id","user_id"]`, wantYAML: "- tenant_id\n- user_id\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.columns)
			require.NoError(t, err)
			assert.JSONEq(t, tt.wantJSON, string(data))

			var back Columns
			require.NoError(t, json.Unmarshal(data, &back))
			assert.Equal(t, tt.columns, back)

			out, err := yaml.Marshal(tt.columns)
			require.NoError(t, err)
			assert.Equal(t, tt.wantYAML, string(out))

			var yback Columns
			require.NoError(t, yaml.Unmarshal(out, &yback))
			assert.Equal(t, tt.columns, yback)
		})
	}
}

func TestRelationshipParams(t *testing.T) {
	tests := []struct {
		name string
		rel  Relationship
		want string
	}{
		{
			name: "hasMany",
			rel:  Relationship{Name: "posts", Kind: HasMany, TargetClass: "models.Post", ForeignKey: Columns{"user_id"}, LocalKey: Columns{"id"}},
			want: `{"kind":"hasMany","targetClass":"models.Post","params":["models.Post","user_id","id"]}`,
		},
		{
			name: "belongsTo",
			rel:  Relationship{Name: "user", Kind: BelongsTo, TargetClass: "User", ForeignKey: Columns{"user_id"}, OwnerKey: Columns{"id"}},
			want: `{"kind":"belongsTo","targetClass":"User","params":["User","user_id","id","user"]}`,
		},
		{
			name: "unresolved hasOne",
			rel:  Relationship{Name: "profile", Kind: HasOne, ForeignKey: Columns{"user_id"}, LocalKey: Columns{"id"}},
			want: `{"kind":"hasOne","targetClass":null,"params":[null,"user_id","id"]}`,
		},
		{
			name: "belongsToMany",
			rel: Relationship{
				Name: "roles", Kind: BelongsToMany, TargetClass: "Role", Pivot: "role_user",
				ForeignPivotKey: Columns{"user_id"}, RelatedPivotKey: Columns{"role_id"},
				ParentKey: Columns{"id"}, RelatedKey: Columns{"id"},
			},
			want: `{"kind":"belongsToMany","targetClass":"Role","params":["Role","role_user","user_id","role_id","id","id","roles"]}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(&tt.rel)
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, string(data))
		})
	}
}

func TestRelationshipEqual(t *testing.T) {
	a := &Relationship{Name: "roles", Kind: BelongsToMany, Pivot: "role_user", ParentKey: Columns{"id"}}
	b := &Relationship{Name: "roles", Kind: BelongsToMany, Pivot: "role_user", ParentKey: Columns{"id"}}
	c := &Relationship{Name: "roles", Kind: BelongsToMany, Pivot: "role_user", ParentKey: Columns{"uuid"}}

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
	assert.False(t, a.Equal(nil))
}

func TestStore(t *testing.T) {
	s := NewStore()

	_, err := s.Get("default")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotBuilt))

	cfg := New("default")
	require.NoError(t, s.Put(cfg))

	err = s.Put(New("default"))
	assert.ErrorIs(t, err, ErrAlreadyBuilt)

	got, err := s.Get("default")
	require.NoError(t, err)
	assert.Same(t, cfg, got)

	rebuilt := New("default")
	require.NoError(t, s.Replace(rebuilt))
	got, err = s.Get("default")
	require.NoError(t, err)
	assert.Same(t, rebuilt, got)

	assert.ErrorIs(t, s.Put(nil), ErrNilConfiguration)
	assert.ErrorIs(t, s.Replace(nil), ErrNilConfiguration)
}

func TestStoreConcurrentReads(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.PutAll(Set{"a": New("a"), "b": New("b")}))

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.Get("a")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
}

func TestSetConnections(t *testing.T) {
	set := Set{"reporting": New("reporting"), "default": New("default")}
	assert.Equal(t, []string{"default", "reporting"}, set.Connections())
}
