package runner

import (
	"context"
	"fmt"
	"log"
	"sort"

	"github.com/schemato/schemato/database"
	"github.com/schemato/schemato/schema"
)

// ChangeKind classifies one planned change against a live database.
type ChangeKind string

const (
	ChangeCreateTable ChangeKind = "create_table"
	ChangeAddColumn   ChangeKind = "add_column"
	ChangeAddIndex    ChangeKind = "add_index"
)

// Change is one additive operation the manager would perform to bring
// a live database in line with a desired schema.
type Change struct {
	Kind   ChangeKind
	Table  string
	Column *schema.ColumnDefinition
	Index  *schema.IndexDefinition
}

// evolveTable runs additive evolution for one existing table: any
// column or index present in the desired schema but missing live is
// added. Nothing is ever dropped, renamed or retyped. When the
// database collaborator lacks introspection or alteration capability
// the evolution is skipped with a logged notice instead of failing.
func evolveTable(ctx context.Context, db database.Database, desired schema.SchemaDefinition) error {
	intro, ok := db.(database.Introspector)
	if !ok {
		log.Printf("schema %s: database does not support introspection, skipping evolution", desired.TableName)
		return nil
	}
	mig, ok := db.(database.Migrator)
	if !ok {
		log.Printf("schema %s: database does not support alteration, skipping evolution", desired.TableName)
		return nil
	}

	live, err := intro.TableSchema(ctx, desired.TableName)
	if err != nil {
		return fmt.Errorf("introspect table %s: %w", desired.TableName, err)
	}

	for _, change := range planTable(live, desired) {
		switch change.Kind {
		case ChangeAddColumn:
			if err := mig.AddColumn(ctx, desired.TableName, *change.Column); err != nil {
				return fmt.Errorf("add column %s.%s: %w", desired.TableName, change.Column.Name, err)
			}
		case ChangeAddIndex:
			if err := mig.AddIndex(ctx, desired.TableName, *change.Index); err != nil {
				return fmt.Errorf("add index %s: %w", change.Index.Name, err)
			}
		}
	}

	return nil
}

// planTable computes the additive changes for one existing table.
func planTable(live *database.TableSchema, desired schema.SchemaDefinition) []Change {
	var changes []Change

	for i := range desired.Columns {
		col := desired.Columns[i]
		if !live.HasColumn(col.Name) {
			changes = append(changes, Change{Kind: ChangeAddColumn, Table: desired.TableName, Column: &col})
		}
	}
	for i := range desired.Indexes {
		idx := desired.Indexes[i]
		if !live.HasIndex(idx.Name) {
			changes = append(changes, Change{Kind: ChangeAddIndex, Table: desired.TableName, Index: &idx})
		}
	}

	return changes
}

// PlanChanges computes, without touching anything, the changes a
// subsequent InitializeSchemas call would perform: tables to create
// plus, when the collaborator supports introspection, the additive
// per-table evolution.
func PlanChanges(ctx context.Context, db database.Database, schemas map[string]schema.SchemaDefinition) ([]Change, error) {
	names := make([]string, 0, len(schemas))
	for name := range schemas {
		names = append(names, name)
	}
	sort.Strings(names)

	intro, canIntrospect := db.(database.Introspector)

	var changes []Change
	for _, name := range names {
		def := schemas[name]
		exists, err := db.TableExists(ctx, def.TableName)
		if err != nil {
			return nil, fmt.Errorf("check table %s: %w", def.TableName, err)
		}
		if !exists {
			changes = append(changes, Change{Kind: ChangeCreateTable, Table: def.TableName})
			continue
		}
		if !canIntrospect {
			continue
		}
		live, err := intro.TableSchema(ctx, def.TableName)
		if err != nil {
			return nil, fmt.Errorf("introspect table %s: %w", def.TableName, err)
		}
		changes = append(changes, planTable(live, def)...)
	}

	return changes, nil
}
