// Package registry is the live field source: annotated classes are
// fed in through explicit Register calls at process start, and schema
// definitions are generated from the registered field maps on demand.
package registry

import (
	"fmt"
	"sync"

	"github.com/schemato/schemato/generator"
	"github.com/schemato/schemato/schema"
)

// Config carries the per-class registration options.
type Config struct {
	TableName string // defaults to the class name
	Package   string
	Base      string // base table for inherited classes
	SlugScope string // scoping column for slug-based identity
}

type class struct {
	name   string
	fields []schema.FieldDefinition
	cfg    Config
}

// Meta and Fields make a registered class a schema.FieldSource. The
// live path versions by column set: a registered class has no durable
// declaration to hash.
func (c *class) Meta() schema.ClassMeta {
	return schema.ClassMeta{
		Name:       c.name,
		TableName:  c.cfg.TableName,
		Package:    c.cfg.Package,
		Base:       c.cfg.Base,
		SlugScope:  c.cfg.SlugScope,
		Versioning: schema.VersionByColumns,
	}
}

func (c *class) Fields() []schema.FieldDefinition {
	return append([]schema.FieldDefinition(nil), c.fields...)
}

// Registry holds registered classes and caches generated schemas by
// content fingerprint, so repeated generation of an unchanged class is
// a map lookup.
type Registry struct {
	mu      sync.RWMutex
	classes map[string]*class
	order   []string
	cache   map[string]schema.SchemaDefinition
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{
		classes: make(map[string]*class),
		cache:   make(map[string]schema.SchemaDefinition),
	}
}

// Register adds or replaces a class's field map. Field order is
// preserved as given.
func (r *Registry) Register(name string, fields []schema.FieldDefinition, cfg Config) error {
	if name == "" {
		return fmt.Errorf("register: class name is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.classes[name]; !exists {
		r.order = append(r.order, name)
	}
	r.classes[name] = &class{
		name:   name,
		fields: append([]schema.FieldDefinition(nil), fields...),
		cfg:    cfg,
	}
	return nil
}

// Names returns the registered class names in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.order...)
}

// Source returns the field source for one registered class.
func (r *Registry) Source(name string) (schema.FieldSource, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.classes[name]
	return c, ok
}

// Schema generates the schema definition for one registered class.
func (r *Registry) Schema(name string) (schema.SchemaDefinition, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.classes[name]
	if !ok {
		return schema.SchemaDefinition{}, fmt.Errorf("class %s is not registered", name)
	}
	return r.generateLocked(c), nil
}

// Schemas generates the schema definitions for every registered class,
// keyed by class name.
func (r *Registry) Schemas() map[string]schema.SchemaDefinition {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make(map[string]schema.SchemaDefinition, len(r.classes))
	for name, c := range r.classes {
		out[name] = r.generateLocked(c)
	}
	return out
}

func (r *Registry) generateLocked(c *class) schema.SchemaDefinition {
	key := fingerprint(c)
	if def, ok := r.cache[key]; ok {
		return def.Clone()
	}
	def := generator.Generate(c)
	r.cache[key] = def
	return def.Clone()
}

func fingerprint(c *class) string {
	return schema.HashContent(
		c.name,
		schema.DeclarationVersion(c.name, c.fields, c.cfg.Base),
		c.cfg.TableName, c.cfg.Package, c.cfg.SlugScope,
	)
}
