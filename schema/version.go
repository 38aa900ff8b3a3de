package schema

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
)

// versionLen is the number of hex characters kept from the digest.
// Long enough to make collisions irrelevant, short enough to log.
const versionLen = 16

// HashContent returns a deterministic short hash over the given parts.
// Identical parts always yield the identical hash, so versions can be
// compared for equality instead of deep-comparing schemas.
func HashContent(parts ...string) string {
	h := sha256.New()
	for _, p := range parts {
		h.Write([]byte(p))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))[:versionLen]
}

// Canonical returns a stable one-line rendering of a column. Order of
// struct fields is fixed; pointer fields render their value or "-".
func (c ColumnDefinition) Canonical() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s:%s", c.Name, c.SQLType)
	if c.PrimaryKey {
		b.WriteString(":pk")
	}
	if c.NotNull {
		b.WriteString(":nn")
	}
	if c.Unique {
		b.WriteString(":uq")
	}
	if c.Default != nil {
		fmt.Fprintf(&b, ":def=%s", *c.Default)
	}
	if c.ForeignKey != nil {
		fk := c.ForeignKey
		fmt.Fprintf(&b, ":fk=%s.%s/%s/%s", fk.ReferencesTable, fk.ReferencesColumn, fk.OnDelete, fk.OnUpdate)
	}
	if c.Check != "" {
		fmt.Fprintf(&b, ":check=%s", c.Check)
	}
	return b.String()
}

// Canonical returns a stable one-line rendering of an index.
func (i IndexDefinition) Canonical() string {
	s := i.Name + ":" + strings.Join(i.Columns, ",")
	if i.Unique {
		s += ":uq"
	}
	if i.Where != "" {
		s += ":where=" + i.Where
	}
	return s
}

// Canonical returns a stable one-line rendering of a trigger.
func (t TriggerDefinition) Canonical() string {
	return strings.Join([]string{t.Name, t.Timing, t.Event, t.Table, t.When, t.Body}, ":")
}

// Canonical returns a stable one-line rendering of a field.
func (f FieldDefinition) Canonical() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s:%s", f.Name, f.Type)
	if f.Required {
		b.WriteString(":req")
	}
	if f.Unique {
		b.WriteString(":uq")
	}
	if f.Default != nil {
		fmt.Fprintf(&b, ":def=%s", *f.Default)
	}
	if f.Relation != "" {
		fmt.Fprintf(&b, ":rel=%s/%s", f.Relation, f.OnDelete)
	}
	return b.String()
}

// ColumnVersion hashes the resulting column set of a schema. Used by
// the live-registry generation path, where the column set is the only
// durable identity a class has.
func (s *SchemaDefinition) ColumnVersion() string {
	cols := make([]string, 0, len(s.Columns))
	for _, c := range s.Columns {
		cols = append(cols, c.Canonical())
	}
	sort.Strings(cols)
	return HashContent(append([]string{s.TableName}, cols...)...)
}

// DeclarationVersion hashes the declared identity of a class: its
// name, ordered field set and base class. Used by the build-time
// generation path so the version survives regeneration.
func DeclarationVersion(className string, fields []FieldDefinition, base string) string {
	parts := make([]string, 0, len(fields)+2)
	parts = append(parts, className)
	for _, f := range fields {
		parts = append(parts, f.Canonical())
	}
	parts = append(parts, "base="+base)
	return HashContent(parts...)
}
