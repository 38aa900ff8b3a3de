// Package loader reads field definitions and schema overrides from a
// YAML file, the build-time counterpart of the live registry.
package loader

import (
	"fmt"
	"os"

	"github.com/spf13/cast"
	"gopkg.in/yaml.v3"

	"github.com/schemato/schemato/schema"
)

type yamlFile struct {
	Tables    []yamlTable    `yaml:"tables"`
	Overrides []yamlOverride `yaml:"overrides"`
}

type yamlTable struct {
	Name      string      `yaml:"name"`
	Table     string      `yaml:"table"`
	Package   string      `yaml:"package"`
	Base      string      `yaml:"base"`
	SlugScope string      `yaml:"slug_scope"`
	Fields    []yamlField `yaml:"fields"`
}

type yamlField struct {
	Name        string      `yaml:"name"`
	Type        string      `yaml:"type"`
	Required    bool        `yaml:"required"`
	Unique      bool        `yaml:"unique"`
	Default     interface{} `yaml:"default"`
	Description string      `yaml:"description"`
	Relation    string      `yaml:"relation"`
	OnDelete    string      `yaml:"on_delete"`
}

type yamlOverride struct {
	Table          string                `yaml:"table"`
	Package        string                `yaml:"package"`
	AddColumns     map[string]yamlColumn `yaml:"add_columns"`
	RemoveColumns  []string              `yaml:"remove_columns"`
	AddIndexes     []yamlIndex           `yaml:"add_indexes"`
	RemoveIndexes  []string              `yaml:"remove_indexes"`
	AddTriggers    []yamlTrigger         `yaml:"add_triggers"`
	RemoveTriggers []string              `yaml:"remove_triggers"`
}

type yamlColumn struct {
	Type       string      `yaml:"type"`
	NotNull    bool        `yaml:"not_null"`
	Unique     bool        `yaml:"unique"`
	Default    interface{} `yaml:"default"`
	Check      string      `yaml:"check"`
	References *yamlRef    `yaml:"references"`
}

type yamlRef struct {
	Table    string `yaml:"table"`
	Column   string `yaml:"column"`
	OnDelete string `yaml:"on_delete"`
	OnUpdate string `yaml:"on_update"`
}

type yamlIndex struct {
	Name    string   `yaml:"name"`
	Columns []string `yaml:"columns"`
	Unique  bool     `yaml:"unique"`
	Where   string   `yaml:"where"`
}

type yamlTrigger struct {
	Name   string `yaml:"name"`
	Timing string `yaml:"timing"`
	Event  string `yaml:"event"`
	Body   string `yaml:"body"`
	When   string `yaml:"when"`
}

// LoadSources parses a schema file into field sources and overrides.
func LoadSources(filename string) ([]schema.FieldSource, []schema.SchemaOverride, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, nil, fmt.Errorf("reading schema file: %w", err)
	}
	return ParseSources(data)
}

// ParseSources parses schema YAML from memory.
func ParseSources(data []byte) ([]schema.FieldSource, []schema.SchemaOverride, error) {
	var yf yamlFile
	if err := yaml.Unmarshal(data, &yf); err != nil {
		return nil, nil, fmt.Errorf("unmarshalling YAML: %w", err)
	}

	var sources []schema.FieldSource
	for _, t := range yf.Tables {
		if t.Name == "" {
			return nil, nil, fmt.Errorf("table entry without a name")
		}
		src := schema.StaticSource{
			ClassMeta: schema.ClassMeta{
				Name:      t.Name,
				TableName: t.Table,
				Package:   t.Package,
				Base:      t.Base,
				SlugScope: t.SlugScope,
			},
		}
		for _, f := range t.Fields {
			src.FieldList = append(src.FieldList, schema.FieldDefinition{
				Name:        f.Name,
				Type:        schema.FieldType(f.Type),
				Required:    f.Required,
				Unique:      f.Unique,
				Default:     defaultString(f.Default),
				Description: f.Description,
				Relation:    f.Relation,
				OnDelete:    f.OnDelete,
			})
		}
		sources = append(sources, src)
	}

	var overrides []schema.SchemaOverride
	for _, o := range yf.Overrides {
		if o.Table == "" {
			return nil, nil, fmt.Errorf("override entry without a table")
		}
		ov := schema.SchemaOverride{
			TableName:      o.Table,
			Package:        o.Package,
			RemoveColumns:  o.RemoveColumns,
			RemoveIndexes:  o.RemoveIndexes,
			RemoveTriggers: o.RemoveTriggers,
		}
		if len(o.AddColumns) > 0 {
			ov.AddColumns = make(map[string]schema.ColumnDefinition, len(o.AddColumns))
			for name, c := range o.AddColumns {
				col := schema.ColumnDefinition{
					Name:    name,
					SQLType: c.Type,
					NotNull: c.NotNull,
					Unique:  c.Unique,
					Default: defaultString(c.Default),
					Check:   c.Check,
				}
				if c.References != nil {
					refColumn := c.References.Column
					if refColumn == "" {
						refColumn = "id"
					}
					col.ForeignKey = &schema.ForeignKeyDefinition{
						Column:           name,
						ReferencesTable:  c.References.Table,
						ReferencesColumn: refColumn,
						OnDelete:         c.References.OnDelete,
						OnUpdate:         c.References.OnUpdate,
					}
				}
				ov.AddColumns[name] = col
			}
		}
		for _, idx := range o.AddIndexes {
			ov.AddIndexes = append(ov.AddIndexes, schema.IndexDefinition{
				Name:    idx.Name,
				Columns: idx.Columns,
				Unique:  idx.Unique,
				Where:   idx.Where,
			})
		}
		for _, trg := range o.AddTriggers {
			ov.AddTriggers = append(ov.AddTriggers, schema.TriggerDefinition{
				Name:   trg.Name,
				Timing: trg.Timing,
				Event:  trg.Event,
				Table:  o.Table,
				Body:   trg.Body,
				When:   trg.When,
			})
		}
		overrides = append(overrides, ov)
	}

	return sources, overrides, nil
}

// defaultString coerces a YAML default of any scalar type into the
// string literal the generator works with. Absent defaults stay nil.
func defaultString(v interface{}) *string {
	if v == nil {
		return nil
	}
	s := cast.ToString(v)
	return &s
}
