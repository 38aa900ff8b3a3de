package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashContent(t *testing.T) {
	a := HashContent("users", "email:text")
	b := HashContent("users", "email:text")
	c := HashContent("users", "email:integer")

	assert.Equal(t, a, b, "identical parts must hash identically")
	assert.NotEqual(t, a, c)
	assert.Len(t, a, 16)
}

func TestHashContentPartBoundaries(t *testing.T) {
	// "ab"+"c" and "a"+"bc" must not collide.
	assert.NotEqual(t, HashContent("ab", "c"), HashContent("a", "bc"))
}

func TestDeclarationVersion(t *testing.T) {
	fields := []FieldDefinition{
		{Name: "email", Type: TypeText, Required: true},
		{Name: "age", Type: TypeInteger},
	}

	v1 := DeclarationVersion("User", fields, "")
	v2 := DeclarationVersion("User", fields, "")
	assert.Equal(t, v1, v2, "version must be stable across regeneration")

	reordered := []FieldDefinition{fields[1], fields[0]}
	assert.NotEqual(t, v1, DeclarationVersion("User", reordered, ""),
		"field order is part of the declaration")

	assert.NotEqual(t, v1, DeclarationVersion("Account", fields, ""))
	assert.NotEqual(t, v1, DeclarationVersion("User", fields, "principals"))
}

func TestColumnVersion(t *testing.T) {
	def := SchemaDefinition{
		TableName: "users",
		Columns: []ColumnDefinition{
			{Name: "id", SQLType: "TEXT", PrimaryKey: true},
			{Name: "email", SQLType: "TEXT", NotNull: true},
		},
	}

	v1 := def.ColumnVersion()
	require.NotEmpty(t, v1)

	// Column order does not matter, content does.
	swapped := def.Clone()
	swapped.Columns[0], swapped.Columns[1] = swapped.Columns[1], swapped.Columns[0]
	assert.Equal(t, v1, swapped.ColumnVersion())

	changed := def.Clone()
	changed.Columns[1].SQLType = "INTEGER"
	assert.NotEqual(t, v1, changed.ColumnVersion())
}

func TestCloneIsDeep(t *testing.T) {
	dflt := "''"
	def := SchemaDefinition{
		TableName: "posts",
		Columns: []ColumnDefinition{
			{Name: "author_id", SQLType: "TEXT", Default: &dflt, ForeignKey: &ForeignKeyDefinition{
				Column: "author_id", ReferencesTable: "users", ReferencesColumn: "id",
			}},
		},
		Indexes:   []IndexDefinition{{Name: "idx_posts_author_id", Columns: []string{"author_id"}}},
		DependsOn: []string{"users"},
	}

	clone := def.Clone()
	*clone.Columns[0].Default = "'x'"
	clone.Columns[0].ForeignKey.ReferencesTable = "accounts"
	clone.Indexes[0].Columns[0] = "other"
	clone.DependsOn[0] = "other"

	assert.Equal(t, "''", *def.Columns[0].Default)
	assert.Equal(t, "users", def.Columns[0].ForeignKey.ReferencesTable)
	assert.Equal(t, "author_id", def.Indexes[0].Columns[0])
	assert.Equal(t, "users", def.DependsOn[0])
}

func TestSetColumnKeepsNamesUnique(t *testing.T) {
	var def SchemaDefinition
	def.SetColumn(ColumnDefinition{Name: "email", SQLType: "TEXT"})
	def.SetColumn(ColumnDefinition{Name: "email", SQLType: "INTEGER"})

	require.Len(t, def.Columns, 1)
	assert.Equal(t, "INTEGER", def.Columns[0].SQLType)
}

func TestRemoveColumnAbsentIsNoop(t *testing.T) {
	def := SchemaDefinition{Columns: []ColumnDefinition{{Name: "email"}}}
	def.RemoveColumn("missing")
	assert.Len(t, def.Columns, 1)
}
