package generator

import (
	"fmt"
	"sort"

	"github.com/schemato/schemato/schema"
)

// sqlTypes maps logical field types to target SQL column types.
// Relational key-holding types store the referenced primary key, which
// is TEXT. Types missing from this map fall back to TEXT so that
// generation stays total and never blocks class registration.
var sqlTypes = map[schema.FieldType]string{
	schema.TypeText:       "TEXT",
	schema.TypeInteger:    "INTEGER",
	schema.TypeDecimal:    "REAL",
	schema.TypeBoolean:    "BOOLEAN",
	schema.TypeDatetime:   "DATETIME",
	schema.TypeJSON:       "JSON",
	schema.TypeForeignKey: "TEXT",
}

const defaultDeletePolicy = "CASCADE"

// Generate turns one class's field set into a SchemaDefinition. It is
// pure and total: no side effects, no error return. Unknown field
// types degrade to TEXT columns instead of failing.
func Generate(src schema.FieldSource) schema.SchemaDefinition {
	meta := src.Meta()
	fields := src.Fields()

	def := schema.SchemaDefinition{
		TableName: meta.Table(),
		Package:   meta.Package,
		BaseTable: meta.Base,
	}

	for _, f := range fields {
		switch f.Type {
		case schema.TypeOneToMany, schema.TypeManyToMany:
			// Inverse-side relations hold no key on this table.
			continue
		}
		def.SetColumn(columnFor(f))
	}

	injectIdentityColumns(&def)
	buildIndexes(&def, meta)
	collectForeignKeys(&def)
	collectDependencies(&def)

	switch meta.Versioning {
	case schema.VersionByColumns:
		def.Version = def.ColumnVersion()
	default:
		def.Version = schema.DeclarationVersion(meta.Name, fields, meta.Base)
	}

	return def
}

func columnFor(f schema.FieldDefinition) schema.ColumnDefinition {
	sqlType, ok := sqlTypes[f.Type]
	if !ok {
		sqlType = "TEXT"
	}

	col := schema.ColumnDefinition{
		Name:        f.Name,
		SQLType:     sqlType,
		PrimaryKey:  f.Name == "id",
		NotNull:     f.Required,
		Unique:      f.Unique,
		Description: f.Description,
	}

	if f.Default != nil {
		d := normalizeDefault(sqlType, *f.Default)
		col.Default = &d
	}

	if f.Type == schema.TypeForeignKey {
		onDelete := f.OnDelete
		if onDelete == "" {
			onDelete = defaultDeletePolicy
		}
		col.ForeignKey = &schema.ForeignKeyDefinition{
			Column:           f.Name,
			ReferencesTable:  f.Relation,
			ReferencesColumn: "id",
			OnDelete:         onDelete,
			OnUpdate:         defaultDeletePolicy,
		}
		return col
	}

	// Plain nullable TEXT with no declared default gets NOT NULL with
	// an empty-string default. Columnar engines infer an untyped
	// column from a bare NULL default and then reject type-checked
	// writes, so the empty string stands in for NULL here. Do not
	// simplify this away.
	if f.Type == schema.TypeText && !col.NotNull && col.Default == nil && !col.PrimaryKey {
		col.NotNull = true
		empty := "''"
		col.Default = &empty
	}

	return col
}

// injectIdentityColumns prepends the primary identifier and the two
// bookkeeping timestamps unless the field set already supplies them.
func injectIdentityColumns(def *schema.SchemaDefinition) {
	now := "CURRENT_TIMESTAMP"

	if def.Column("updated_at") == nil {
		def.Columns = append([]schema.ColumnDefinition{{
			Name: "updated_at", SQLType: "DATETIME", NotNull: true, Default: &now,
		}}, def.Columns...)
	}
	if def.Column("created_at") == nil {
		def.Columns = append([]schema.ColumnDefinition{{
			Name: "created_at", SQLType: "DATETIME", NotNull: true, Default: &now,
		}}, def.Columns...)
	}

	if !hasPrimaryKey(def) {
		def.Columns = append([]schema.ColumnDefinition{{
			Name: "id", SQLType: "TEXT", PrimaryKey: true, NotNull: true,
		}}, def.Columns...)
	}
}

func hasPrimaryKey(def *schema.SchemaDefinition) bool {
	for _, c := range def.Columns {
		if c.PrimaryKey {
			return true
		}
	}
	return false
}

func buildIndexes(def *schema.SchemaDefinition, meta schema.ClassMeta) {
	table := def.TableName

	if def.Column("updated_at") != nil {
		addIndex(def, schema.IndexDefinition{
			Name:    fmt.Sprintf("idx_%s_updated_at", table),
			Columns: []string{"updated_at"},
		})
	}

	for _, c := range def.Columns {
		if c.Unique && !c.PrimaryKey {
			addIndex(def, schema.IndexDefinition{
				Name:    fmt.Sprintf("uniq_%s_%s", table, c.Name),
				Columns: []string{c.Name},
				Unique:  true,
			})
		}
		if c.ForeignKey != nil {
			addIndex(def, schema.IndexDefinition{
				Name:    fmt.Sprintf("idx_%s_%s", table, c.Name),
				Columns: []string{c.Name},
			})
		}
	}

	if def.Column("slug") != nil && meta.SlugScope != "" {
		addIndex(def, schema.IndexDefinition{
			Name:    fmt.Sprintf("uniq_%s_slug_%s", table, meta.SlugScope),
			Columns: []string{"slug", meta.SlugScope},
			Unique:  true,
		})
	}
}

func addIndex(def *schema.SchemaDefinition, idx schema.IndexDefinition) {
	for _, existing := range def.Indexes {
		if existing.Name == idx.Name {
			return
		}
	}
	def.Indexes = append(def.Indexes, idx)
}

// collectForeignKeys rebuilds the schema-level foreign key list from
// the column set, which is the single source of truth for relations.
func collectForeignKeys(def *schema.SchemaDefinition) {
	def.ForeignKeys = def.ForeignKeys[:0]
	for _, c := range def.Columns {
		if c.ForeignKey != nil {
			fk := *c.ForeignKey
			fk.Column = c.Name
			def.ForeignKeys = append(def.ForeignKeys, fk)
		}
	}
}

// collectDependencies derives the creation-order dependency list from
// foreign key targets plus the base table.
func collectDependencies(def *schema.SchemaDefinition) {
	seen := map[string]bool{}
	def.DependsOn = def.DependsOn[:0]
	for _, fk := range def.ForeignKeys {
		t := fk.ReferencesTable
		if t == "" || t == def.TableName || seen[t] {
			continue
		}
		seen[t] = true
		def.DependsOn = append(def.DependsOn, t)
	}
	if def.BaseTable != "" && def.BaseTable != def.TableName && !seen[def.BaseTable] {
		def.DependsOn = append(def.DependsOn, def.BaseTable)
	}
	sort.Strings(def.DependsOn)
}

// Recompute refreshes the derived parts of a schema after its column
// set changed: foreign keys, dependency edges. The version is left to
// the caller, which knows what the change was derived from.
func Recompute(def *schema.SchemaDefinition) {
	collectForeignKeys(def)
	collectDependencies(def)
}
