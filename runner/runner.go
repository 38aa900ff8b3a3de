// Package runner is the runtime schema manager: it brings a live
// database into conformance with a batch of named schemas. Tables are
// created or additively evolved sequentially in dependency order,
// guarded by per-table in-flight locks and version-based idempotence.
package runner

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/schemato/schemato/database"
	"github.com/schemato/schemato/generator"
	"github.com/schemato/schemato/schema"
)

type initStatus string

const (
	statusCreated   initStatus = "created"
	statusRecreated initStatus = "recreated"
	statusEvolved   initStatus = "evolved"
	statusSkipped   initStatus = "skipped"
	statusFailed    initStatus = "failed"
)

// SchemaError pairs a failed schema name with its error.
type SchemaError struct {
	Schema string
	Err    error
}

func (e SchemaError) Error() string {
	return fmt.Sprintf("schema %s: %v", e.Schema, e.Err)
}

func (e SchemaError) Unwrap() error { return e.Err }

// Result aggregates the outcome of one InitializeSchemas call.
type Result struct {
	RunID         string
	Initialized   []string
	Skipped       []string
	Errors        []SchemaError
	ExecutionTime time.Duration
}

// Options tunes one InitializeSchemas call.
type Options struct {
	// Override substitutes whole entries of the schema batch by name
	// before anything else happens. This is entry replacement, not the
	// patch semantics of the override package.
	Override map[string]schema.SchemaDefinition

	// Force drops and recreates existing tables. Destructive; meant
	// for development and tests only.
	Force bool
}

// Manager coordinates schema initialization against one target
// database. Construct one Manager per database; its bookkeeping is the
// only cross-call shared state.
type Manager struct {
	db    database.Database
	coord *coordinator
}

// NewManager returns a Manager for the given database collaborator.
func NewManager(db database.Database) *Manager {
	return &Manager{db: db, coord: newCoordinator()}
}

// InitializeSchemas creates or evolves every schema in the batch, in
// dependency order. A dependency cycle aborts the whole call before
// any DDL is issued; every other failure is isolated per schema so the
// caller always receives a complete picture of partial success.
func (m *Manager) InitializeSchemas(ctx context.Context, schemas map[string]schema.SchemaDefinition, opts Options) Result {
	start := time.Now()
	res := Result{RunID: uuid.NewString()}

	batch := make(map[string]schema.SchemaDefinition, len(schemas))
	for name, def := range schemas {
		batch[name] = def
	}
	for name, def := range opts.Override {
		batch[name] = def
	}

	order, err := sortSchemas(batch)
	if err != nil {
		var node string
		var cycle *CycleError
		if errors.As(err, &cycle) {
			node = cycle.Table
		}
		res.Errors = append(res.Errors, SchemaError{Schema: node, Err: err})
		res.ExecutionTime = time.Since(start)
		return res
	}

	for _, name := range order {
		def := batch[name]
		key := initKey(name, def.TableName)

		if v, ok := m.coord.version(key); ok && v == def.Version && !opts.Force {
			res.Skipped = append(res.Skipped, name)
			continue
		}

		status, err := m.coord.do(key, func() (initStatus, error) {
			return m.initializeOne(ctx, key, def, opts.Force)
		})
		if err != nil {
			res.Errors = append(res.Errors, SchemaError{Schema: name, Err: err})
			continue
		}

		m.coord.setVersion(key, def.Version)
		if status == statusSkipped {
			res.Skipped = append(res.Skipped, name)
		} else {
			res.Initialized = append(res.Initialized, name)
		}
	}

	res.ExecutionTime = time.Since(start)
	log.Printf("schema initialization %s: %d initialized, %d skipped, %d failed in %s",
		res.RunID, len(res.Initialized), len(res.Skipped), len(res.Errors), res.ExecutionTime)
	return res
}

// initializeOne runs while holding the key's in-flight handle.
func (m *Manager) initializeOne(ctx context.Context, key string, def schema.SchemaDefinition, force bool) (initStatus, error) {
	// Re-check under the lock: a caller that queued behind a completed
	// initialization of the same version must not reissue DDL.
	if v, ok := m.coord.version(key); ok && v == def.Version && !force {
		return statusSkipped, nil
	}

	exists, err := m.db.TableExists(ctx, def.TableName)
	if err != nil {
		return statusFailed, fmt.Errorf("check table %s: %w", def.TableName, err)
	}

	switch {
	case !exists:
		if err := m.createTable(ctx, def); err != nil {
			return statusFailed, err
		}
		return statusCreated, nil

	case force:
		if err := m.db.Exec(ctx, generator.DropTableSQL(def.TableName)); err != nil {
			return statusFailed, fmt.Errorf("drop table %s: %w", def.TableName, err)
		}
		if err := m.createTable(ctx, def); err != nil {
			return statusFailed, err
		}
		return statusRecreated, nil

	default:
		// Evolution is best-effort, not a correctness requirement.
		if err := evolveTable(ctx, m.db, def); err != nil {
			log.Printf("schema %s: evolution failed: %v", def.TableName, err)
		}
		return statusEvolved, nil
	}
}

func (m *Manager) createTable(ctx context.Context, def schema.SchemaDefinition) error {
	if err := m.db.Exec(ctx, generator.TableSQL(def)); err != nil {
		return fmt.Errorf("create table %s: %w", def.TableName, err)
	}
	for _, idx := range def.Indexes {
		if err := m.db.Exec(ctx, generator.IndexSQL(def.TableName, idx)); err != nil {
			return fmt.Errorf("create index %s: %w", idx.Name, err)
		}
	}
	return nil
}

// Reset returns all bookkeeping to the uninitialized state without
// touching the physical database. Test isolation only.
func (m *Manager) Reset() {
	m.coord.reset()
}
