// Package override applies named, package-scoped patches to base
// schemas. Application never mutates the base: the result is a new
// schema with a version derived from the base version and the patch
// delta, so every distinct (base, override) pair gets a distinct,
// reproducible version.
package override

import (
	"sort"
	"strings"

	"github.com/schemato/schemato/generator"
	"github.com/schemato/schemato/schema"
)

// Apply clones base and applies the override in fixed order: add
// columns, remove columns, add indexes, remove indexes, add triggers,
// remove triggers. A name present in both an add list and a remove
// list ends up removed, since removals run last. Foreign keys and
// dependencies are recomputed from the resulting column set, never
// copied, so removing a foreign-key column drops its dependency edge.
//
// Removing a column does not remove indexes that reference it; index
// removal must be requested explicitly.
func Apply(base schema.SchemaDefinition, o schema.SchemaOverride) schema.SchemaDefinition {
	out := base.Clone()

	for _, name := range sortedColumnNames(o.AddColumns) {
		col := o.AddColumns[name]
		col.Name = name
		out.SetColumn(col)
	}
	for _, name := range o.RemoveColumns {
		out.RemoveColumn(name)
	}

	out.Indexes = append(out.Indexes, o.AddIndexes...)
	for _, name := range o.RemoveIndexes {
		out.Indexes = removeIndex(out.Indexes, name)
	}

	out.Triggers = append(out.Triggers, o.AddTriggers...)
	for _, name := range o.RemoveTriggers {
		out.Triggers = removeTrigger(out.Triggers, name)
	}

	generator.Recompute(&out)
	out.Version = schema.HashContent("override", base.Version, delta(o), o.Package)

	return out
}

// Merge folds Apply across every override whose target table matches
// base, in list order. Later overrides observe the state left by
// earlier ones: sequential composition, not independent application.
func Merge(base schema.SchemaDefinition, overrides []schema.SchemaOverride) schema.SchemaDefinition {
	out := base
	for _, o := range overrides {
		if o.TableName != base.TableName {
			continue
		}
		out = Apply(out, o)
	}
	return out
}

// delta renders the override's content canonically so the derived
// version is stable across processes.
func delta(o schema.SchemaOverride) string {
	var parts []string

	for _, name := range sortedColumnNames(o.AddColumns) {
		col := o.AddColumns[name]
		col.Name = name
		parts = append(parts, "+col:"+col.Canonical())
	}
	for _, name := range o.RemoveColumns {
		parts = append(parts, "-col:"+name)
	}
	for _, idx := range o.AddIndexes {
		parts = append(parts, "+idx:"+idx.Canonical())
	}
	for _, name := range o.RemoveIndexes {
		parts = append(parts, "-idx:"+name)
	}
	for _, t := range o.AddTriggers {
		parts = append(parts, "+trg:"+t.Canonical())
	}
	for _, name := range o.RemoveTriggers {
		parts = append(parts, "-trg:"+name)
	}

	return strings.Join(parts, ";")
}

func sortedColumnNames(cols map[string]schema.ColumnDefinition) []string {
	names := make([]string, 0, len(cols))
	for name := range cols {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func removeIndex(indexes []schema.IndexDefinition, name string) []schema.IndexDefinition {
	out := indexes[:0]
	for _, idx := range indexes {
		if idx.Name != name {
			out = append(out, idx)
		}
	}
	return out
}

func removeTrigger(triggers []schema.TriggerDefinition, name string) []schema.TriggerDefinition {
	out := triggers[:0]
	for _, t := range triggers {
		if t.Name != name {
			out = append(out, t)
		}
	}
	return out
}
