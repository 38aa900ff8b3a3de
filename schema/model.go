package schema

// FieldType is the logical type of a class field before it is mapped
// onto a SQL column type.
type FieldType string

const (
	TypeText       FieldType = "text"
	TypeInteger    FieldType = "integer"
	TypeDecimal    FieldType = "decimal"
	TypeBoolean    FieldType = "boolean"
	TypeDatetime   FieldType = "datetime"
	TypeJSON       FieldType = "json"
	TypeForeignKey FieldType = "foreignKey"
	TypeOneToMany  FieldType = "oneToMany"
	TypeManyToMany FieldType = "manyToMany"
)

// FieldDefinition describes one field of a registered class.
type FieldDefinition struct {
	Name        string
	Type        FieldType
	Required    bool
	Default     *string
	Unique      bool
	Description string
	Relation    string // referenced table for relational types
	OnDelete    string // delete policy for relational types, defaults to CASCADE
}

// ColumnDefinition describes one column of a generated table.
type ColumnDefinition struct {
	Name        string
	SQLType     string
	PrimaryKey  bool
	NotNull     bool
	Unique      bool
	Default     *string // raw SQL literal or expression
	ForeignKey  *ForeignKeyDefinition
	Check       string
	Description string
}

// IndexDefinition describes one index on a generated table.
type IndexDefinition struct {
	Name        string
	Columns     []string
	Unique      bool
	Where       string // optional filter clause
	Description string
}

// TriggerDefinition describes one trigger owned by a generated table.
type TriggerDefinition struct {
	Name   string
	Timing string // BEFORE or AFTER
	Event  string // INSERT, UPDATE or DELETE
	Table  string
	Body   string
	When   string // optional condition
}

// ForeignKeyDefinition describes one foreign key constraint.
type ForeignKeyDefinition struct {
	Column           string
	ReferencesTable  string
	ReferencesColumn string
	OnDelete         string
	OnUpdate         string
}

// SchemaDefinition is the full structured description of one table:
// its columns, indexes, triggers, foreign keys, the tables it must be
// created after, and a content-derived version.
type SchemaDefinition struct {
	TableName   string
	Columns     []ColumnDefinition
	Indexes     []IndexDefinition
	Triggers    []TriggerDefinition
	ForeignKeys []ForeignKeyDefinition
	DependsOn   []string
	Version     string
	Package     string
	BaseTable   string // base table when the class inherits a non-trivial base
}

// Column returns the column with the given name, or nil.
func (s *SchemaDefinition) Column(name string) *ColumnDefinition {
	for i := range s.Columns {
		if s.Columns[i].Name == name {
			return &s.Columns[i]
		}
	}
	return nil
}

// SetColumn replaces the column with the same name, or appends it.
// Column names stay unique within a schema.
func (s *SchemaDefinition) SetColumn(col ColumnDefinition) {
	for i := range s.Columns {
		if s.Columns[i].Name == col.Name {
			s.Columns[i] = col
			return
		}
	}
	s.Columns = append(s.Columns, col)
}

// RemoveColumn deletes the named column. Removing an absent column is
// a no-op.
func (s *SchemaDefinition) RemoveColumn(name string) {
	for i := range s.Columns {
		if s.Columns[i].Name == name {
			s.Columns = append(s.Columns[:i], s.Columns[i+1:]...)
			return
		}
	}
}

// Clone returns a deep copy. Override application never mutates the
// base schema, so everything reachable from the definition is copied.
func (s *SchemaDefinition) Clone() SchemaDefinition {
	out := *s

	out.Columns = make([]ColumnDefinition, len(s.Columns))
	for i, c := range s.Columns {
		if c.Default != nil {
			v := *c.Default
			c.Default = &v
		}
		if c.ForeignKey != nil {
			fk := *c.ForeignKey
			c.ForeignKey = &fk
		}
		out.Columns[i] = c
	}

	out.Indexes = make([]IndexDefinition, len(s.Indexes))
	for i, idx := range s.Indexes {
		idx.Columns = append([]string(nil), idx.Columns...)
		out.Indexes[i] = idx
	}

	out.Triggers = append([]TriggerDefinition(nil), s.Triggers...)
	out.ForeignKeys = append([]ForeignKeyDefinition(nil), s.ForeignKeys...)
	out.DependsOn = append([]string(nil), s.DependsOn...)

	return out
}

// SchemaOverride is a named, package-scoped patch against a base
// schema. Add lists are applied before remove lists, so a name present
// in both ends up removed.
type SchemaOverride struct {
	TableName      string
	Package        string
	AddColumns     map[string]ColumnDefinition
	RemoveColumns  []string
	AddIndexes     []IndexDefinition
	RemoveIndexes  []string
	AddTriggers    []TriggerDefinition
	RemoveTriggers []string
}
