package db

import (
	"slices"
	"testing"

	"github.com/tordrt/schemalive/internal/schema"
)

// verifyTablesExist checks that exactly the expected tables are present in the schema
func verifyTablesExist(t *testing.T, s *schema.Schema, expectedTables []string) {
	t.Helper()

	if len(s.Tables) != len(expectedTables) {
		t.Errorf("Expected %d tables, got %d", len(expectedTables), len(s.Tables))
	}

	for _, tableName := range expectedTables {
		if s.Table(tableName) == nil {
			t.Errorf("Expected table %s not found in schema", tableName)
		}
	}
}

// findTable returns a table or stops the test
func findTable(t *testing.T, s *schema.Schema, tableName string) *schema.Table {
	t.Helper()

	table := s.Table(tableName)
	if table == nil {
		t.Fatalf("Table %s not found", tableName)
	}
	return table
}

// findColumn returns a column or stops the test
func findColumn(t *testing.T, table *schema.Table, columnName string) schema.Column {
	t.Helper()

	for _, col := range table.Columns {
		if col.Name == columnName {
			return col
		}
	}
	t.Fatalf("Column %s not found in table %s", columnName, table.Name)
	return schema.Column{}
}

// verifyPrimaryKey checks that a table has the expected primary index
func verifyPrimaryKey(t *testing.T, table *schema.Table, expectedPK []string) {
	t.Helper()

	if pk := table.PrimaryKey(); !slices.Equal(pk, expectedPK) {
		t.Errorf("Expected primary key %v, got %v", expectedPK, pk)
	}
	for _, idx := range table.Indexes {
		if idx.IsPrimary && idx.Name != schema.PrimaryIndexName {
			t.Errorf("Expected primary index of %s to be named %s, got %s", table.Name, schema.PrimaryIndexName, idx.Name)
		}
	}
}

// verifyForeignKey checks that a foreign key exists
func verifyForeignKey(t *testing.T, s *schema.Schema, tableName string, columns []string, targetTable string, targetColumns []string) {
	t.Helper()

	table := findTable(t, s, tableName)
	for _, fk := range table.ForeignKeys {
		if fk.TargetTable == targetTable && slices.Equal(fk.Columns, columns) {
			if !slices.Equal(fk.TargetColumns, targetColumns) {
				t.Errorf("Expected foreign key %s%v to reference %s%v, got %v", tableName, columns, targetTable, targetColumns, fk.TargetColumns)
			}
			return
		}
	}

	t.Errorf("Expected foreign key from %s%v to %s not found", tableName, columns, targetTable)
}

// verifyIndex checks that an index exists with the expected columns and uniqueness
func verifyIndex(t *testing.T, s *schema.Schema, tableName, indexName string, expectedColumns []string, unique bool) {
	t.Helper()

	table := findTable(t, s, tableName)
	for _, idx := range table.Indexes {
		if idx.Name != indexName {
			continue
		}
		if !slices.Equal(idx.Columns, expectedColumns) {
			t.Errorf("Expected index %s on %v, got %v", indexName, expectedColumns, idx.Columns)
		}
		if idx.IsUnique != unique {
			t.Errorf("Expected index %s unique=%v, got %v", indexName, unique, idx.IsUnique)
		}
		return
	}

	t.Errorf("Expected index %s not found in table %s", indexName, tableName)
}
