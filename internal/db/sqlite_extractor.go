package db

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/tordrt/schemalive/internal/schema"
)

// SQLiteExtractor handles schema extraction from SQLite
type SQLiteExtractor struct {
	db *sql.DB
}

// NewSQLiteExtractor creates a new SQLite schema extractor
func NewSQLiteExtractor(client *SQLiteClient) *SQLiteExtractor {
	return &SQLiteExtractor{
		db: client.GetDB(),
	}
}

// ExtractSchema extracts the complete schema for specified tables
// If tables is empty, extracts all tables in the database
func (e *SQLiteExtractor) ExtractSchema(ctx context.Context, tables []string) (*schema.Schema, error) {
	return extractSchema(ctx, e, tables)
}

func (e *SQLiteExtractor) tableNames(ctx context.Context) ([]string, error) {
	query := `
		SELECT name
		FROM sqlite_master
		WHERE type = 'table' AND name NOT LIKE 'sqlite_%'
		ORDER BY name
	`

	rows, err := e.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tableList []string
	for rows.Next() {
		var tableName string
		if err := rows.Scan(&tableName); err != nil {
			return nil, err
		}
		tableList = append(tableList, tableName)
	}

	return tableList, rows.Err()
}

// tableInfo is one row of PRAGMA table_info
type tableInfo struct {
	name         string
	colType      string
	notNull      bool
	defaultValue sql.NullString
	pk           int
}

func (e *SQLiteExtractor) tableInfo(ctx context.Context, tableName string) ([]tableInfo, error) {
	query := `SELECT name, type, "notnull", dflt_value, pk FROM pragma_table_info(?) ORDER BY cid`

	rows, err := e.db.QueryContext(ctx, query, tableName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var infos []tableInfo
	for rows.Next() {
		var info tableInfo
		if err := rows.Scan(&info.name, &info.colType, &info.notNull, &info.defaultValue, &info.pk); err != nil {
			return nil, err
		}
		infos = append(infos, info)
	}

	return infos, rows.Err()
}

// primaryKey returns the primary key columns in key order
func primaryKey(infos []tableInfo) []string {
	var pk []tableInfo
	for _, info := range infos {
		if info.pk > 0 {
			pk = append(pk, info)
		}
	}
	sort.Slice(pk, func(i, j int) bool { return pk[i].pk < pk[j].pk })

	names := make([]string, len(pk))
	for i, info := range pk {
		names[i] = info.name
	}
	return names
}

// declaredLength returns n from a declared type such as VARCHAR(n), or 0
func declaredLength(colType string) int {
	open := strings.IndexByte(colType, '(')
	end := strings.IndexByte(colType, ')')
	if open < 0 || end < open {
		return 0
	}
	arg, _, _ := strings.Cut(colType[open+1:end], ",")
	n, err := strconv.Atoi(strings.TrimSpace(arg))
	if err != nil {
		return 0
	}
	return n
}

func (e *SQLiteExtractor) columns(ctx context.Context, tableName string) ([]schema.Column, error) {
	infos, err := e.tableInfo(ctx, tableName)
	if err != nil {
		return nil, err
	}

	// a single INTEGER primary key aliases the rowid and is assigned automatically
	pk := primaryKey(infos)
	rowidAlias := ""
	if len(pk) == 1 {
		rowidAlias = pk[0]
	}

	columns := make([]schema.Column, 0, len(infos))
	for _, info := range infos {
		col := schema.Column{
			Name:     info.name,
			Type:     info.colType,
			Nullable: !info.notNull && info.pk == 0,
			Length:   declaredLength(info.colType),
		}
		if info.name == rowidAlias && strings.EqualFold(info.colType, "INTEGER") {
			col.AutoIncrement = true
		}
		if info.defaultValue.Valid {
			def := literalDefault(info.defaultValue.String)
			col.DefaultValue = &def
		}
		columns = append(columns, col)
	}

	return columns, nil
}

// indexEntry is one row of PRAGMA index_list
type indexEntry struct {
	name   string
	unique bool
	origin string
}

func (e *SQLiteExtractor) indexes(ctx context.Context, tableName string) ([]schema.Index, error) {
	infos, err := e.tableInfo(ctx, tableName)
	if err != nil {
		return nil, err
	}

	var indexes []schema.Index
	if pk := primaryKey(infos); len(pk) > 0 {
		indexes = append(indexes, schema.Index{
			Name:      schema.PrimaryIndexName,
			Columns:   pk,
			IsUnique:  true,
			IsPrimary: true,
		})
	}

	entries, err := e.indexList(ctx, tableName)
	if err != nil {
		return nil, err
	}

	for _, entry := range entries {
		// the primary key index is already synthesized from table_info
		if entry.origin == "pk" {
			continue
		}

		columns, err := e.indexColumns(ctx, entry.name)
		if err != nil {
			return nil, err
		}
		if len(columns) == 0 {
			continue
		}

		indexes = append(indexes, schema.Index{
			Name:     entry.name,
			Columns:  columns,
			IsUnique: entry.unique,
		})
	}

	return indexes, nil
}

func (e *SQLiteExtractor) indexList(ctx context.Context, tableName string) ([]indexEntry, error) {
	query := `SELECT name, "unique", origin FROM pragma_index_list(?) ORDER BY name`

	rows, err := e.db.QueryContext(ctx, query, tableName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []indexEntry
	for rows.Next() {
		var entry indexEntry
		if err := rows.Scan(&entry.name, &entry.unique, &entry.origin); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	return entries, rows.Err()
}

func (e *SQLiteExtractor) indexColumns(ctx context.Context, indexName string) ([]string, error) {
	query := `SELECT name FROM pragma_index_info(?) ORDER BY seqno`

	rows, err := e.db.QueryContext(ctx, query, indexName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var columns []string
	for rows.Next() {
		var colName sql.NullString
		if err := rows.Scan(&colName); err != nil {
			return nil, err
		}
		// expression indexes have no column name
		if colName.Valid {
			columns = append(columns, colName.String)
		}
	}

	return columns, rows.Err()
}

// foreignKeyEntry is one row of PRAGMA foreign_key_list
type foreignKeyEntry struct {
	id          int
	targetTable string
	from        string
	to          sql.NullString
}

func (e *SQLiteExtractor) foreignKeys(ctx context.Context, tableName string) ([]schema.ForeignKey, error) {
	query := `SELECT id, "table", "from", "to" FROM pragma_foreign_key_list(?) ORDER BY id, seq`

	rows, err := e.db.QueryContext(ctx, query, tableName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []foreignKeyEntry
	for rows.Next() {
		var entry foreignKeyEntry
		if err := rows.Scan(&entry.id, &entry.targetTable, &entry.from, &entry.to); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	var keys foreignKeyRows
	targetKeys := make(map[string][]string)
	for _, entry := range entries {
		// SQLite leaves "to" empty when the key references the target's primary key
		target := entry.to.String
		if !entry.to.Valid || target == "" {
			pk, ok := targetKeys[entry.targetTable]
			if !ok {
				infos, err := e.tableInfo(ctx, entry.targetTable)
				if err != nil {
					return nil, err
				}
				pk = primaryKey(infos)
				targetKeys[entry.targetTable] = pk
			}
			position := keys.width(constraintName(tableName, entry.id))
			if position >= len(pk) {
				return nil, fmt.Errorf("foreign key %d on %s references missing primary key of %s", entry.id, tableName, entry.targetTable)
			}
			target = pk[position]
		}
		keys.add(constraintName(tableName, entry.id), entry.from, entry.targetTable, target)
	}

	return keys.result(), nil
}

// constraintName names an anonymous SQLite foreign key constraint
func constraintName(table string, id int) string {
	return fmt.Sprintf("%s_fk_%d", table, id)
}
