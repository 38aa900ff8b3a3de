package database

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/schemato/schemato/generator"
	"github.com/schemato/schemato/schema"
)

// SQLite adapts a SQLite database file (or :memory:) to the Database
// collaborator. It supports the full introspection and alteration
// capability set.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens the database at path, creating the file if needed.
func OpenSQLite(ctx context.Context, path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite database: %w", err)
	}
	return &SQLite{db: db}, nil
}

// DB exposes the underlying handle for callers that need raw access.
func (s *SQLite) DB() *sql.DB { return s.db }

func (s *SQLite) Close() error { return s.db.Close() }

func (s *SQLite) Exec(ctx context.Context, stmt string) error {
	if _, err := s.db.ExecContext(ctx, stmt); err != nil {
		return fmt.Errorf("exec: %w", err)
	}
	return nil
}

func (s *SQLite) TableExists(ctx context.Context, name string) (bool, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT count(*) FROM sqlite_master WHERE type = 'table' AND name = ?`, name,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("check table %s: %w", name, err)
	}
	return count > 0, nil
}

// TableSchema reads the live shape of a table through the pragma
// table-valued functions, which accept bound parameters unlike bare
// PRAGMA statements.
func (s *SQLite) TableSchema(ctx context.Context, name string) (*TableSchema, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT name, type, "notnull", dflt_value FROM pragma_table_info(?)`, name)
	if err != nil {
		return nil, fmt.Errorf("table_info %s: %w", name, err)
	}
	defer rows.Close()

	ts := &TableSchema{}
	for rows.Next() {
		var col ColumnInfo
		var notNull int
		var def sql.NullString
		if err := rows.Scan(&col.Name, &col.Type, &notNull, &def); err != nil {
			return nil, fmt.Errorf("scan column: %w", err)
		}
		col.NotNull = notNull != 0
		if def.Valid {
			col.Default = &def.String
		}
		ts.Columns = append(ts.Columns, col)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate columns: %w", err)
	}

	idxRows, err := s.db.QueryContext(ctx,
		`SELECT name, "unique" FROM pragma_index_list(?)`, name)
	if err != nil {
		return nil, fmt.Errorf("index_list %s: %w", name, err)
	}
	defer idxRows.Close()

	for idxRows.Next() {
		var idx IndexInfo
		var unique int
		if err := idxRows.Scan(&idx.Name, &unique); err != nil {
			return nil, fmt.Errorf("scan index: %w", err)
		}
		idx.Unique = unique != 0
		ts.Indexes = append(ts.Indexes, idx)
	}
	if err := idxRows.Err(); err != nil {
		return nil, fmt.Errorf("iterate indexes: %w", err)
	}

	for i := range ts.Indexes {
		cols, err := s.indexColumns(ctx, ts.Indexes[i].Name)
		if err != nil {
			return nil, err
		}
		ts.Indexes[i].Columns = cols
	}

	return ts, nil
}

func (s *SQLite) indexColumns(ctx context.Context, indexName string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT name FROM pragma_index_info(?) ORDER BY seqno`, indexName)
	if err != nil {
		return nil, fmt.Errorf("index_info %s: %w", indexName, err)
	}
	defer rows.Close()

	var cols []string
	for rows.Next() {
		var col sql.NullString
		if err := rows.Scan(&col); err != nil {
			return nil, fmt.Errorf("scan index column: %w", err)
		}
		if col.Valid {
			cols = append(cols, col.String)
		}
	}
	return cols, rows.Err()
}

func (s *SQLite) AddColumn(ctx context.Context, table string, col schema.ColumnDefinition) error {
	return s.Exec(ctx, generator.AddColumnSQL(table, col))
}

func (s *SQLite) AddIndex(ctx context.Context, table string, idx schema.IndexDefinition) error {
	return s.Exec(ctx, generator.IndexSQL(table, idx))
}
