package override

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schemato/schemato/generator"
	"github.com/schemato/schemato/schema"
)

func baseSchema(t *testing.T) schema.SchemaDefinition {
	t.Helper()
	return generator.Generate(schema.StaticSource{
		ClassMeta: schema.ClassMeta{Name: "posts"},
		FieldList: []schema.FieldDefinition{
			{Name: "title", Type: schema.TypeText, Required: true},
			{Name: "author", Type: schema.TypeForeignKey, Relation: "users"},
		},
	})
}

func TestApplyAddsColumns(t *testing.T) {
	base := baseSchema(t)
	out := Apply(base, schema.SchemaOverride{
		TableName: "posts",
		Package:   "seo",
		AddColumns: map[string]schema.ColumnDefinition{
			"meta_title": {SQLType: "TEXT", NotNull: true},
		},
	})

	col := out.Column("meta_title")
	require.NotNil(t, col)
	assert.Equal(t, "meta_title", col.Name, "map key wins as the column name")
	assert.True(t, col.NotNull)
}

func TestApplyDoesNotMutateBase(t *testing.T) {
	base := baseSchema(t)
	before := len(base.Columns)

	Apply(base, schema.SchemaOverride{
		TableName: "posts",
		AddColumns: map[string]schema.ColumnDefinition{
			"extra": {SQLType: "TEXT"},
		},
		RemoveColumns: []string{"title"},
	})

	assert.Len(t, base.Columns, before)
	assert.NotNil(t, base.Column("title"))
	assert.Nil(t, base.Column("extra"))
}

func TestApplyRemovalWins(t *testing.T) {
	base := baseSchema(t)
	out := Apply(base, schema.SchemaOverride{
		TableName: "posts",
		AddColumns: map[string]schema.ColumnDefinition{
			"extra": {SQLType: "TEXT"},
		},
		RemoveColumns: []string{"extra"},
	})

	assert.Nil(t, out.Column("extra"))
}

func TestApplyAddExistingColumnReplaces(t *testing.T) {
	base := baseSchema(t)
	out := Apply(base, schema.SchemaOverride{
		TableName: "posts",
		AddColumns: map[string]schema.ColumnDefinition{
			"title": {SQLType: "TEXT", NotNull: false},
		},
	})

	require.Len(t, columnNames(out), len(columnNames(base)), "replacement, not duplication")
	assert.False(t, out.Column("title").NotNull)
}

func TestApplyRecomputesForeignKeysAndDependencies(t *testing.T) {
	base := baseSchema(t)
	require.Equal(t, []string{"users"}, base.DependsOn)

	out := Apply(base, schema.SchemaOverride{
		TableName:     "posts",
		RemoveColumns: []string{"author"},
	})
	assert.Empty(t, out.ForeignKeys)
	assert.Empty(t, out.DependsOn)

	out = Apply(base, schema.SchemaOverride{
		TableName: "posts",
		AddColumns: map[string]schema.ColumnDefinition{
			"category_id": {SQLType: "TEXT", ForeignKey: &schema.ForeignKeyDefinition{
				ReferencesTable: "categories", ReferencesColumn: "id", OnDelete: "CASCADE",
			}},
		},
	})
	assert.Equal(t, []string{"categories", "users"}, out.DependsOn)
}

func TestApplyIndexesAndTriggers(t *testing.T) {
	base := baseSchema(t)
	out := Apply(base, schema.SchemaOverride{
		TableName: "posts",
		AddIndexes: []schema.IndexDefinition{
			{Name: "idx_posts_title", Columns: []string{"title"}},
		},
		RemoveIndexes: []string{"idx_posts_updated_at"},
		AddTriggers: []schema.TriggerDefinition{
			{Name: "trg_posts_touch", Timing: "BEFORE", Event: "UPDATE", Table: "posts"},
		},
	})

	var names []string
	for _, idx := range out.Indexes {
		names = append(names, idx.Name)
	}
	assert.Contains(t, names, "idx_posts_title")
	assert.NotContains(t, names, "idx_posts_updated_at")
	require.Len(t, out.Triggers, 1)
}

func TestApplyVersionDerivation(t *testing.T) {
	base := baseSchema(t)

	o1 := schema.SchemaOverride{
		TableName: "posts",
		AddColumns: map[string]schema.ColumnDefinition{
			"meta_title": {SQLType: "TEXT"},
		},
	}
	o2 := schema.SchemaOverride{
		TableName:     "posts",
		RemoveColumns: []string{"title"},
	}

	v1 := Apply(base, o1).Version
	v2 := Apply(base, o2).Version
	assert.NotEqual(t, base.Version, v1)
	assert.NotEqual(t, v1, v2, "distinct overrides yield distinct versions")
	assert.Equal(t, v1, Apply(base, o1).Version, "same override is reproducible")
}

func TestMergeSequentialComposition(t *testing.T) {
	base := baseSchema(t)
	overrides := []schema.SchemaOverride{
		{
			TableName: "posts",
			AddColumns: map[string]schema.ColumnDefinition{
				"meta_title": {SQLType: "TEXT"},
			},
		},
		{
			TableName:     "posts",
			RemoveColumns: []string{"meta_title"},
		},
		{
			TableName: "other_table",
			AddColumns: map[string]schema.ColumnDefinition{
				"ignored": {SQLType: "TEXT"},
			},
		},
	}

	out := Merge(base, overrides)
	assert.Nil(t, out.Column("meta_title"), "later override sees earlier state")
	assert.Nil(t, out.Column("ignored"), "non-matching table is filtered out")
}

func TestMergeNoMatchingOverrides(t *testing.T) {
	base := baseSchema(t)
	out := Merge(base, nil)
	assert.Equal(t, base.Version, out.Version)
}

func columnNames(def schema.SchemaDefinition) []string {
	names := make([]string, 0, len(def.Columns))
	for _, c := range def.Columns {
		names = append(names, c.Name)
	}
	return names
}
