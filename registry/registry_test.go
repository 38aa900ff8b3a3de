package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schemato/schemato/schema"
)

func TestRegisterAndSchema(t *testing.T) {
	r := New()
	err := r.Register("User", []schema.FieldDefinition{
		{Name: "email", Type: schema.TypeText, Required: true, Unique: true},
	}, Config{TableName: "users", Package: "auth"})
	require.NoError(t, err)

	def, err := r.Schema("User")
	require.NoError(t, err)
	assert.Equal(t, "users", def.TableName)
	assert.Equal(t, "auth", def.Package)
	assert.NotNil(t, def.Column("email"))
	assert.NotNil(t, def.Column("id"))
	assert.NotEmpty(t, def.Version)
}

func TestRegisterRequiresName(t *testing.T) {
	r := New()
	assert.Error(t, r.Register("", nil, Config{}))
}

func TestRegisterReplaceKeepsOrder(t *testing.T) {
	r := New()
	require.NoError(t, r.Register("A", nil, Config{}))
	require.NoError(t, r.Register("B", nil, Config{}))
	require.NoError(t, r.Register("A", []schema.FieldDefinition{
		{Name: "extra", Type: schema.TypeText},
	}, Config{}))

	assert.Equal(t, []string{"A", "B"}, r.Names())

	def, err := r.Schema("A")
	require.NoError(t, err)
	assert.NotNil(t, def.Column("extra"))
}

func TestSchemaUnknownClass(t *testing.T) {
	r := New()
	_, err := r.Schema("Missing")
	assert.Error(t, err)
}

func TestSchemasGeneratesAll(t *testing.T) {
	r := New()
	require.NoError(t, r.Register("User", nil, Config{TableName: "users"}))
	require.NoError(t, r.Register("Post", []schema.FieldDefinition{
		{Name: "author", Type: schema.TypeForeignKey, Relation: "users"},
	}, Config{TableName: "posts"}))

	schemas := r.Schemas()
	require.Len(t, schemas, 2)
	assert.Equal(t, "users", schemas["User"].TableName)
	assert.Equal(t, []string{"users"}, schemas["Post"].DependsOn)
}

func TestSchemaCachedResultIsIsolated(t *testing.T) {
	r := New()
	require.NoError(t, r.Register("User", []schema.FieldDefinition{
		{Name: "email", Type: schema.TypeText, Required: true},
	}, Config{TableName: "users"}))

	first, err := r.Schema("User")
	require.NoError(t, err)
	first.RemoveColumn("email")

	second, err := r.Schema("User")
	require.NoError(t, err)
	assert.NotNil(t, second.Column("email"), "callers get independent copies")
}

func TestRegisteredClassVersionsByColumns(t *testing.T) {
	r := New()
	require.NoError(t, r.Register("User", []schema.FieldDefinition{
		{Name: "email", Type: schema.TypeText, Required: true},
	}, Config{TableName: "users"}))

	def, err := r.Schema("User")
	require.NoError(t, err)
	assert.Equal(t, def.ColumnVersion(), def.Version)
}

func TestReRegisterChangesVersion(t *testing.T) {
	r := New()
	require.NoError(t, r.Register("User", []schema.FieldDefinition{
		{Name: "email", Type: schema.TypeText, Required: true},
	}, Config{TableName: "users"}))
	before, err := r.Schema("User")
	require.NoError(t, err)

	require.NoError(t, r.Register("User", []schema.FieldDefinition{
		{Name: "email", Type: schema.TypeText, Required: true},
		{Name: "age", Type: schema.TypeInteger},
	}, Config{TableName: "users"}))
	after, err := r.Schema("User")
	require.NoError(t, err)

	assert.NotEqual(t, before.Version, after.Version)
}
