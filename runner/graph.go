package runner

import (
	"errors"
	"fmt"
	"sort"

	"github.com/schemato/schemato/schema"
)

// ErrCircularDependency is the batch-fatal failure class: if any cycle
// exists, no schema in the batch is touched.
var ErrCircularDependency = errors.New("circular dependency")

// CycleError names the table at which a dependency cycle was detected.
type CycleError struct {
	Table string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("circular dependency detected at table %q", e.Table)
}

func (e *CycleError) Is(target error) bool {
	return target == ErrCircularDependency
}

// sortSchemas returns the batch's schema names in creation order via a
// depth-first post-order traversal. The graph is restricted to tables
// present in the batch; dependencies on tables outside it are assumed
// to already exist. Revisiting a node currently being visited signals
// a cycle and aborts the whole sort.
func sortSchemas(schemas map[string]schema.SchemaDefinition) ([]string, error) {
	byTable := make(map[string]string, len(schemas))
	for name, def := range schemas {
		byTable[def.TableName] = name
	}

	names := make([]string, 0, len(schemas))
	for name := range schemas {
		names = append(names, name)
	}
	sort.Strings(names)

	const (
		unvisited = iota
		visiting
		resolved
	)
	state := make(map[string]int, len(schemas))
	order := make([]string, 0, len(schemas))

	var visit func(name string) error
	visit = func(name string) error {
		switch state[name] {
		case resolved:
			return nil
		case visiting:
			return &CycleError{Table: schemas[name].TableName}
		}
		state[name] = visiting

		def := schemas[name]
		for _, dep := range def.DependsOn {
			depName, ok := byTable[dep]
			if !ok {
				continue
			}
			if err := visit(depName); err != nil {
				return err
			}
		}

		state[name] = resolved
		order = append(order, name)
		return nil
	}

	for _, name := range names {
		if err := visit(name); err != nil {
			return nil, err
		}
	}

	return order, nil
}
