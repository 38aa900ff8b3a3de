package database

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/schemato/schemato/generator"
	"github.com/schemato/schemato/schema"
)

// Postgres adapts a PostgreSQL database to the Database collaborator,
// with introspection over information_schema and pg_indexes.
type Postgres struct {
	pool *pgxpool.Pool
}

// OpenPostgres connects a pool to the given URL and verifies it with
// a ping.
func OpenPostgres(ctx context.Context, url string) (*Postgres, error) {
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &Postgres{pool: pool}, nil
}

// Pool exposes the underlying pool for callers that need raw access.
func (p *Postgres) Pool() *pgxpool.Pool { return p.pool }

func (p *Postgres) Close() { p.pool.Close() }

func (p *Postgres) Exec(ctx context.Context, stmt string) error {
	if _, err := p.pool.Exec(ctx, stmt); err != nil {
		return fmt.Errorf("exec: %w", err)
	}
	return nil
}

func (p *Postgres) TableExists(ctx context.Context, name string) (bool, error) {
	var exists bool
	err := p.pool.QueryRow(ctx, `
	SELECT EXISTS (
		SELECT 1 FROM information_schema.tables
		WHERE table_schema = 'public' AND table_name = $1
	)`, name).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check table %s: %w", name, err)
	}
	return exists, nil
}

func (p *Postgres) TableSchema(ctx context.Context, name string) (*TableSchema, error) {
	columnsQuery := `
	SELECT column_name, data_type, (is_nullable = 'NO') AS not_null, column_default
	FROM information_schema.columns
	WHERE table_schema = 'public' AND table_name = $1
	ORDER BY ordinal_position;
	`

	rows, err := p.pool.Query(ctx, columnsQuery, name)
	if err != nil {
		return nil, fmt.Errorf("querying columns: %w", err)
	}
	defer rows.Close()

	ts := &TableSchema{}
	for rows.Next() {
		var col ColumnInfo
		if err := rows.Scan(&col.Name, &col.Type, &col.NotNull, &col.Default); err != nil {
			return nil, fmt.Errorf("scanning column: %w", err)
		}
		ts.Columns = append(ts.Columns, col)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterating column rows: %w", rows.Err())
	}

	indexesQuery := `
	SELECT
		i.indexname,
		array_to_string(array_agg(a.attname ORDER BY a.attnum), ',') AS column_names,
		idx.indisunique
	FROM pg_indexes i
	JOIN pg_class c ON c.relname = i.indexname
	JOIN pg_index idx ON idx.indexrelid = c.oid
	JOIN pg_attribute a ON a.attrelid = idx.indrelid AND a.attnum = ANY(idx.indkey)
	WHERE i.tablename = $1 AND i.schemaname = 'public'
	GROUP BY i.indexname, idx.indisunique
	ORDER BY i.indexname;
	`

	idxRows, err := p.pool.Query(ctx, indexesQuery, name)
	if err != nil {
		return nil, fmt.Errorf("querying indexes: %w", err)
	}
	defer idxRows.Close()

	for idxRows.Next() {
		var idx IndexInfo
		var columnNames string
		if err := idxRows.Scan(&idx.Name, &columnNames, &idx.Unique); err != nil {
			return nil, fmt.Errorf("scanning index: %w", err)
		}
		idx.Columns = splitColumnList(columnNames)
		ts.Indexes = append(ts.Indexes, idx)
	}
	if idxRows.Err() != nil {
		return nil, fmt.Errorf("iterating index rows: %w", idxRows.Err())
	}

	return ts, nil
}

func (p *Postgres) AddColumn(ctx context.Context, table string, col schema.ColumnDefinition) error {
	return p.Exec(ctx, generator.AddColumnSQL(table, col))
}

func (p *Postgres) AddIndex(ctx context.Context, table string, idx schema.IndexDefinition) error {
	return p.Exec(ctx, generator.IndexSQL(table, idx))
}

func splitColumnList(columnNames string) []string {
	cols := strings.Split(columnNames, ",")
	for i, col := range cols {
		cols[i] = strings.TrimSpace(col)
	}
	return cols
}
