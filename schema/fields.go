package schema

// VersionMode selects what the generated schema version is derived
// from.
type VersionMode int

const (
	// VersionByDeclaration hashes {class name, field set, base}. The
	// build-time path uses this so versions are stable across runs.
	VersionByDeclaration VersionMode = iota

	// VersionByColumns hashes the resulting column set. The
	// live-registry path uses this, since registered classes have no
	// durable declaration to hash.
	VersionByColumns
)

// ClassMeta carries the per-class configuration that accompanies a
// field set into schema generation.
type ClassMeta struct {
	Name       string // class name
	TableName  string // defaults to the class name
	Package    string
	Base       string // base table name, empty when the class has no non-trivial base
	SlugScope  string // scoping column paired with slug for compound unique identity
	Versioning VersionMode
}

// Table returns the effective table name.
func (m ClassMeta) Table() string {
	if m.TableName != "" {
		return m.TableName
	}
	return m.Name
}

// FieldSource yields the ordered field definitions of one class plus
// its metadata. Both generation entry points, the static scan result
// and the live registry, are adapters of this interface.
type FieldSource interface {
	Meta() ClassMeta
	Fields() []FieldDefinition
}

// StaticSource is a FieldSource over an already-materialized field
// list, typically parsed from a schema file.
type StaticSource struct {
	ClassMeta ClassMeta
	FieldList []FieldDefinition
}

func (s StaticSource) Meta() ClassMeta          { return s.ClassMeta }
func (s StaticSource) Fields() []FieldDefinition { return s.FieldList }
