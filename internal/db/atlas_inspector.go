package db

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"

	"ariga.io/atlas/sql/migrate"
	atlasmysql "ariga.io/atlas/sql/mysql"
	atlaspg "ariga.io/atlas/sql/postgres"
	atlas "ariga.io/atlas/sql/schema"
	atlassqlite "ariga.io/atlas/sql/sqlite"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/tordrt/schemalive/internal/schema"
)

// Dialects understood by the atlas inspector
const (
	DialectPostgres = "postgres"
	DialectMySQL    = "mysql"
	DialectSQLite   = "sqlite"
)

// sqlDrivers maps a dialect to its database/sql driver name
var sqlDrivers = map[string]string{
	DialectPostgres: "pgx",
	DialectMySQL:    "mysql",
	DialectSQLite:   "sqlite3",
}

// AtlasInspector extracts schemas through the atlas inspection drivers
type AtlasInspector struct {
	db         *sql.DB
	owned      bool
	dialect    string
	schemaName string
	driver     migrate.Driver
}

// OpenAtlasInspector opens a database connection and an atlas driver for the dialect
func OpenAtlasInspector(ctx context.Context, dialect, dsn, schemaName string) (*AtlasInspector, error) {
	driverName, ok := sqlDrivers[dialect]
	if !ok {
		return nil, fmt.Errorf("unsupported dialect %q", dialect)
	}

	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	inspector, err := NewAtlasInspector(db, dialect, schemaName)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	inspector.owned = true
	return inspector, nil
}

// NewAtlasInspector wraps an open database. The caller keeps ownership of db.
func NewAtlasInspector(db *sql.DB, dialect, schemaName string) (*AtlasInspector, error) {
	var (
		drv migrate.Driver
		err error
	)
	switch dialect {
	case DialectPostgres:
		drv, err = atlaspg.Open(db)
	case DialectMySQL:
		drv, err = atlasmysql.Open(db)
	case DialectSQLite:
		drv, err = atlassqlite.Open(db)
	default:
		return nil, fmt.Errorf("unsupported dialect %q", dialect)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open %s inspector: %w", dialect, err)
	}

	return &AtlasInspector{
		db:         db,
		dialect:    dialect,
		schemaName: schemaName,
		driver:     drv,
	}, nil
}

// Close closes the database connection when the inspector opened it
func (i *AtlasInspector) Close() error {
	if !i.owned {
		return nil
	}
	return i.db.Close()
}

// ExtractSchema inspects the given tables, or every table when tables is empty
func (i *AtlasInspector) ExtractSchema(ctx context.Context, tables []string) (*schema.Schema, error) {
	s, err := i.driver.InspectSchema(ctx, i.schemaName, &atlas.InspectOptions{Tables: tables})
	if err != nil {
		return nil, fmt.Errorf("failed to inspect schema: %w", err)
	}
	return convertAtlasSchema(s, i.dialect, tables), nil
}

// convertAtlasSchema converts an inspected atlas schema. Tables keep the requested
// order, or are sorted by name when every table was inspected.
func convertAtlasSchema(s *atlas.Schema, dialect string, requested []string) *schema.Schema {
	byName := make(map[string]*atlas.Table, len(s.Tables))
	for _, t := range s.Tables {
		byName[t.Name] = t
	}

	names := requested
	if len(names) == 0 {
		names = make([]string, 0, len(s.Tables))
		for _, t := range s.Tables {
			names = append(names, t.Name)
		}
		sort.Strings(names)
	}

	out := &schema.Schema{Tables: make([]schema.Table, 0, len(names))}
	for _, name := range names {
		if t, ok := byName[name]; ok {
			out.Tables = append(out.Tables, convertAtlasTable(t, dialect))
		}
	}
	return out
}

func convertAtlasTable(t *atlas.Table, dialect string) schema.Table {
	table := schema.Table{Name: t.Name}

	for _, c := range t.Columns {
		table.Columns = append(table.Columns, convertAtlasColumn(c))
	}

	if t.PrimaryKey != nil {
		pk := indexColumns(t.PrimaryKey)
		table.Indexes = append(table.Indexes, schema.Index{
			Name:      schema.PrimaryIndexName,
			Columns:   pk,
			IsUnique:  true,
			IsPrimary: true,
		})
		// a single INTEGER primary key aliases the rowid
		if dialect == DialectSQLite && len(pk) == 1 {
			for j := range table.Columns {
				col := &table.Columns[j]
				if col.Name == pk[0] && strings.EqualFold(col.Type, "INTEGER") {
					col.AutoIncrement = true
				}
			}
		}
	}

	for _, idx := range t.Indexes {
		columns := indexColumns(idx)
		if len(columns) == 0 {
			continue
		}
		table.Indexes = append(table.Indexes, schema.Index{
			Name:     idx.Name,
			Columns:  columns,
			IsUnique: idx.Unique,
		})
	}

	for _, fk := range t.ForeignKeys {
		key := schema.ForeignKey{Name: fk.Symbol}
		for _, c := range fk.Columns {
			key.Columns = append(key.Columns, c.Name)
		}
		if fk.RefTable != nil {
			key.TargetTable = fk.RefTable.Name
		}
		for _, c := range fk.RefColumns {
			key.TargetColumns = append(key.TargetColumns, c.Name)
		}
		table.ForeignKeys = append(table.ForeignKeys, key)
	}

	return table
}

func convertAtlasColumn(c *atlas.Column) schema.Column {
	col := schema.Column{Name: c.Name}

	if c.Type != nil {
		col.Type = c.Type.Raw
		col.Nullable = c.Type.Null
		switch t := c.Type.Type.(type) {
		case *atlas.StringType:
			col.Length = t.Size
			if col.Type == "" {
				col.Type = t.T
			}
		case *atlas.TimeType:
			if col.Type == "" {
				col.Type = t.T
			}
		case *atlaspg.SerialType:
			col.AutoIncrement = true
			if col.Type == "" {
				col.Type = t.T
			}
		}
	}

	for _, attr := range c.Attrs {
		switch a := attr.(type) {
		case *atlas.Comment:
			col.Comment = a.Text
		case *atlassqlite.AutoIncrement, *atlasmysql.AutoIncrement, *atlaspg.Identity:
			col.AutoIncrement = true
		}
	}

	if !col.AutoIncrement {
		col.DefaultValue = atlasDefault(c.Default)
	}
	return col
}

// atlasDefault renders a column default; quoted string literals are unquoted
func atlasDefault(x atlas.Expr) *string {
	var v string
	switch d := x.(type) {
	case *atlas.Literal:
		v = literalDefault(d.V)
	case *atlas.RawExpr:
		v = d.X
	default:
		return nil
	}
	return &v
}

func indexColumns(idx *atlas.Index) []string {
	var columns []string
	for _, part := range idx.Parts {
		// expression parts have no column
		if part.C != nil {
			columns = append(columns, part.C.Name)
		}
	}
	return columns
}
