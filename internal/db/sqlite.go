package db

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteClient wraps a SQLite database file
type SQLiteClient struct {
	db *sql.DB
}

// NewSQLiteClient opens path for reading and writing, creating the file if needed
func NewSQLiteClient(ctx context.Context, path string) (*SQLiteClient, error) {
	return openSQLite(ctx, path)
}

// OpenSQLiteClient opens an existing database file read-only
func OpenSQLiteClient(ctx context.Context, path string) (*SQLiteClient, error) {
	dsn, err := SQLiteReadOnlyDSN(path)
	if err != nil {
		return nil, err
	}
	return openSQLite(ctx, dsn)
}

// SQLiteReadOnlyDSN returns a read-only URI for an existing database file.
// Opening a missing file would otherwise create an empty database.
func SQLiteReadOnlyDSN(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("failed to open database: %w", err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("failed to open database: %s is a directory", path)
	}
	return "file:" + path + "?mode=ro", nil
}

func openSQLite(ctx context.Context, dsn string) (*SQLiteClient, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &SQLiteClient{db: db}, nil
}

// Close closes the database
func (c *SQLiteClient) Close() error {
	return c.db.Close()
}

// GetDB returns the underlying database handle
func (c *SQLiteClient) GetDB() *sql.DB {
	return c.db
}
