package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestColumnTypeClassification(t *testing.T) {
	tests := []struct {
		typ      string
		str      bool
		dateTime bool
	}{
		{typ: "varchar", str: true},
		{typ: "VARCHAR(255)", str: true},
		{typ: "character varying", str: true},
		{typ: "enum('draft','published')", str: true},
		{typ: "text"},
		{typ: "int unsigned"},
		{typ: "datetime", dateTime: true},
		{typ: "timestamp(6) without time zone", dateTime: true},
		{typ: "TIMESTAMPTZ", dateTime: true},
		{typ: "date"},
		{typ: "time"},
	}

	for _, tt := range tests {
		t.Run(tt.typ, func(t *testing.T) {
			col := Column{Name: "c", Type: tt.typ}
			assert.Equal(t, tt.str, col.IsString())
			assert.Equal(t, tt.dateTime, col.IsDateTime())
		})
	}
}

func TestTableLookups(t *testing.T) {
	s := &Schema{Tables: []Table{
		{Name: "users", Indexes: []Index{
			{Name: "users_email_unique", Columns: []string{"email"}, IsUnique: true},
			{Name: PrimaryIndexName, Columns: []string{"id"}, IsUnique: true, IsPrimary: true},
		}},
		{Name: "posts"},
	}}

	assert.Equal(t, []string{"users", "posts"}, s.TableNames())
	assert.Nil(t, s.Table("comments"))

	users := s.Table("users")
	if assert.NotNil(t, users) {
		assert.Equal(t, []string{"id"}, users.PrimaryKey())
	}
	assert.Nil(t, s.Table("posts").PrimaryKey())
}
