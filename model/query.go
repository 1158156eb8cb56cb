package model

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
)

// Dialect is the SQL flavour relation queries are rendered in
type Dialect string

const (
	Postgres Dialect = "postgres"
	MySQL    Dialect = "mysql"
	SQLite   Dialect = "sqlite"
)

func (d Dialect) quote(ident string) string {
	if d == MySQL {
		return "`" + strings.ReplaceAll(ident, "`", "``") + "`"
	}
	return `"` + strings.ReplaceAll(ident, `"`, `""`) + `"`
}

func (d Dialect) column(table, col string) string {
	return d.quote(table) + "." + d.quote(col)
}

// placeholder returns the bind parameter for the nth argument, counting from 1
func (d Dialect) placeholder(n int) string {
	if d == Postgres {
		return "$" + strconv.Itoa(n)
	}
	return "?"
}

// Querier runs a query; *sql.DB, *sql.Conn and *sql.Tx satisfy it
type Querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// Load runs the query of rel for parent and returns the related records.
// Single-record relations return at most one record.
func Load(ctx context.Context, q Querier, rel Relation, parent Record) ([]Record, error) {
	query, args, err := rel.Query(parent)
	if err != nil {
		return nil, err
	}

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to load relation %s: %w", rel.Definition().Name, err)
	}
	defer rows.Close()

	records, err := scanRows(rows)
	if err != nil {
		return nil, fmt.Errorf("failed to scan relation %s: %w", rel.Definition().Name, err)
	}
	if !rel.Many() && len(records) > 1 {
		records = records[:1]
	}
	return records, nil
}

// scanRows scans every row into a Record
func scanRows(rows *sql.Rows) ([]Record, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	results := []Record{}
	for rows.Next() {
		values := make([]any, len(columns))
		valuePtrs := make([]any, len(columns))
		for i := range values {
			valuePtrs[i] = &values[i]
		}

		if err := rows.Scan(valuePtrs...); err != nil {
			return nil, err
		}

		record := make(Record, len(columns))
		for i, col := range columns {
			// Handle []byte conversion to string for text fields
			if b, ok := values[i].([]byte); ok {
				record[col] = string(b)
			} else {
				record[col] = values[i]
			}
		}
		results = append(results, record)
	}

	return results, rows.Err()
}
