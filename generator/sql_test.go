package generator

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schemato/schemato/schema"
)

func TestTableSQL(t *testing.T) {
	def := Generate(source("users", []schema.FieldDefinition{
		{Name: "email", Type: schema.TypeText, Required: true, Unique: true},
	}))

	sql := TableSQL(def)
	assert.True(t, strings.HasPrefix(sql, `CREATE TABLE IF NOT EXISTS "users" (`))
	assert.True(t, strings.HasSuffix(sql, ");"))
	assert.Contains(t, sql, `"id" TEXT PRIMARY KEY`)
	assert.Contains(t, sql, `"email" TEXT NOT NULL UNIQUE`)
	assert.Contains(t, sql, `"created_at" DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP`)
}

func TestTableSQLInlineReferences(t *testing.T) {
	def := Generate(source("posts", []schema.FieldDefinition{
		{Name: "author", Type: schema.TypeForeignKey, Relation: "users"},
	}))

	sql := TableSQL(def)
	assert.Contains(t, sql, `"author" TEXT REFERENCES "users" ("id") ON DELETE CASCADE`)
}

func TestGenerateSQLIncludesIndexes(t *testing.T) {
	def := Generate(source("users", []schema.FieldDefinition{
		{Name: "email", Type: schema.TypeText, Required: true, Unique: true},
	}))

	sql := GenerateSQL(def)
	assert.Contains(t, sql, `CREATE INDEX IF NOT EXISTS "idx_users_updated_at" ON "users" ("updated_at");`)
	assert.Contains(t, sql, `CREATE UNIQUE INDEX IF NOT EXISTS "uniq_users_email" ON "users" ("email");`)
}

func TestIndexSQLWhereClause(t *testing.T) {
	sql := IndexSQL("users", schema.IndexDefinition{
		Name:    "idx_users_active",
		Columns: []string{"email"},
		Where:   "active = TRUE",
	})
	assert.Equal(t, `CREATE INDEX IF NOT EXISTS "idx_users_active" ON "users" ("email") WHERE active = TRUE;`, sql)
}

func TestRenderDefault(t *testing.T) {
	tests := []struct {
		name    string
		sqlType string
		raw     string
		want    string
	}{
		{"empty text", "TEXT", "''", "CAST('' AS TEXT)"},
		{"bare empty text", "TEXT", "", "CAST('' AS TEXT)"},
		{"null text", "TEXT", "NULL", "CAST(NULL AS TEXT)"},
		{"quoted text", "TEXT", "'active'", "'active'"},
		{"embedded quote", "TEXT", "'it''s'", "'it''''s'"},
		{"integer", "INTEGER", "0", "0"},
		{"boolean", "BOOLEAN", "TRUE", "TRUE"},
		{"timestamp keyword", "DATETIME", "CURRENT_TIMESTAMP", "CURRENT_TIMESTAMP"},
		{"function call", "TEXT", "lower(hex(randomblob(16)))", "lower(hex(randomblob(16)))"},
		{"injection attempt", "TEXT", "x'); DROP TABLE users; --", "'x''); DROP TABLE users; --'"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, renderDefault(tt.sqlType, tt.raw))
		})
	}
}

func TestNormalizeDefault(t *testing.T) {
	tests := []struct {
		name    string
		sqlType string
		raw     string
		want    string
	}{
		{"plain text value", "TEXT", "draft", "'draft'"},
		{"already quoted", "TEXT", "'draft'", "'draft'"},
		{"text null", "TEXT", "NULL", "NULL"},
		{"text function", "TEXT", "lower(hex(randomblob(16)))", "lower(hex(randomblob(16)))"},
		{"text timestamp", "TEXT", "CURRENT_TIMESTAMP", "CURRENT_TIMESTAMP"},
		{"bool true", "BOOLEAN", "true", "TRUE"},
		{"bool one", "BOOLEAN", "1", "TRUE"},
		{"bool false", "BOOLEAN", "false", "FALSE"},
		{"int", "INTEGER", "42", "42"},
		{"real", "REAL", "1.5", "1.5"},
		{"unparseable int", "INTEGER", "abc", "abc"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, normalizeDefault(tt.sqlType, tt.raw))
		})
	}
}

func TestDefaultRoundTripThroughGeneration(t *testing.T) {
	draft := "draft"
	def := Generate(source("posts", []schema.FieldDefinition{
		{Name: "status", Type: schema.TypeText, Default: &draft},
	}))

	sql := TableSQL(def)
	assert.Contains(t, sql, `"status" TEXT DEFAULT 'draft'`)
}

func TestQuoteIdentEscapesQuotes(t *testing.T) {
	assert.Equal(t, `"we""ird"`, quoteIdent(`we"ird`))
}

func TestAddColumnSQL(t *testing.T) {
	dflt := "0"
	sql := AddColumnSQL("users", schema.ColumnDefinition{
		Name: "age", SQLType: "INTEGER", NotNull: true, Default: &dflt,
	})
	assert.Equal(t, `ALTER TABLE "users" ADD COLUMN "age" INTEGER NOT NULL DEFAULT 0;`, sql)
}

func TestDropTableSQL(t *testing.T) {
	assert.Equal(t, `DROP TABLE IF EXISTS "users";`, DropTableSQL("users"))
}

func TestColumnSQLCheckConstraint(t *testing.T) {
	sql := ColumnSQL(schema.ColumnDefinition{
		Name: "age", SQLType: "INTEGER", Check: "age >= 0",
	})
	assert.Equal(t, `"age" INTEGER CHECK (age >= 0)`, sql)
}

func TestTableSQLColumnSeparators(t *testing.T) {
	def := Generate(source("users", nil))
	sql := TableSQL(def)

	require.Equal(t, len(def.Columns)-1, strings.Count(sql, ",\n"),
		"every column but the last is followed by a comma")
}
