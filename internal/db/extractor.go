package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/tordrt/schemalive/internal/schema"
)

// Extractor reads a database schema
type Extractor interface {
	// ExtractSchema extracts the given tables, or every table when tables is empty
	ExtractSchema(ctx context.Context, tables []string) (*schema.Schema, error)
}

// catalogReader reads the catalog of one database dialect, table by table
type catalogReader interface {
	tableNames(ctx context.Context) ([]string, error)
	columns(ctx context.Context, table string) ([]schema.Column, error)
	indexes(ctx context.Context, table string) ([]schema.Index, error)
	foreignKeys(ctx context.Context, table string) ([]schema.ForeignKey, error)
}

// extractSchema extracts the complete schema for specified tables
// If tables is empty, extracts all tables
func extractSchema(ctx context.Context, r catalogReader, tables []string) (*schema.Schema, error) {
	tableNames := tables
	if len(tableNames) == 0 {
		var err error
		tableNames, err = r.tableNames(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to get table names: %w", err)
		}
	}

	extracted := make([]schema.Table, 0, len(tableNames))
	for _, tableName := range tableNames {
		table, err := extractTable(ctx, r, tableName)
		if err != nil {
			return nil, fmt.Errorf("failed to extract table %s: %w", tableName, err)
		}
		extracted = append(extracted, *table)
	}

	return &schema.Schema{Tables: extracted}, nil
}

// extractTable extracts all information for a single table
func extractTable(ctx context.Context, r catalogReader, tableName string) (*schema.Table, error) {
	table := &schema.Table{Name: tableName}

	columns, err := r.columns(ctx, tableName)
	if err != nil {
		return nil, fmt.Errorf("failed to extract columns: %w", err)
	}
	table.Columns = columns

	indexes, err := r.indexes(ctx, tableName)
	if err != nil {
		return nil, fmt.Errorf("failed to extract indexes: %w", err)
	}
	table.Indexes = indexes

	foreignKeys, err := r.foreignKeys(ctx, tableName)
	if err != nil {
		return nil, fmt.Errorf("failed to extract foreign keys: %w", err)
	}
	table.ForeignKeys = foreignKeys

	return table, nil
}

// literalDefault unquotes a string literal default such as 'draft' or
// 'draft'::character varying; any other expression is returned unchanged
func literalDefault(def string) string {
	v := def
	if i := strings.LastIndex(v, "'::"); strings.HasPrefix(v, "'") && i > 0 {
		v = v[:i+1]
	}
	if len(v) >= 2 && v[0] == '\'' && v[len(v)-1] == '\'' {
		return strings.ReplaceAll(v[1:len(v)-1], "''", "'")
	}
	return def
}

// foreignKeyRows groups per-column foreign key rows into constraints,
// keeping the order in which constraints and columns were first seen
type foreignKeyRows struct {
	keys   []schema.ForeignKey
	byName map[string]int
}

func (f *foreignKeyRows) add(name, column, targetTable, targetColumn string) {
	if f.byName == nil {
		f.byName = make(map[string]int)
	}
	i, ok := f.byName[name]
	if !ok {
		i = len(f.keys)
		f.byName[name] = i
		f.keys = append(f.keys, schema.ForeignKey{Name: name, TargetTable: targetTable})
	}
	f.keys[i].Columns = append(f.keys[i].Columns, column)
	f.keys[i].TargetColumns = append(f.keys[i].TargetColumns, targetColumn)
}

// width returns the number of columns added so far to a constraint
func (f *foreignKeyRows) width(name string) int {
	i, ok := f.byName[name]
	if !ok {
		return 0
	}
	return len(f.keys[i].Columns)
}

func (f *foreignKeyRows) result() []schema.ForeignKey {
	return f.keys
}
