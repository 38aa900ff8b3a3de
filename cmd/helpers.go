package cmd

import (
	"context"
	"strings"

	"github.com/schemato/schemato/database"
	"github.com/schemato/schemato/generator"
	"github.com/schemato/schemato/loader"
	"github.com/schemato/schemato/override"
	"github.com/schemato/schemato/schema"
	"github.com/schemato/schemato/utils"
)

// loadSchemas reads the schema file, generates a definition per table
// and applies the file's overrides.
func loadSchemas(filename string) (map[string]schema.SchemaDefinition, error) {
	sources, overrides, err := loader.LoadSources(filename)
	if err != nil {
		return nil, err
	}

	schemas := make(map[string]schema.SchemaDefinition, len(sources))
	for _, src := range sources {
		def := generator.Generate(src)
		def = override.Merge(def, overrides)
		schemas[src.Meta().Name] = def
	}
	return schemas, nil
}

// openDatabase connects to the configured target. A postgres:// URL
// selects the Postgres adapter, anything else is a SQLite file path.
func openDatabase(ctx context.Context) (database.Database, error) {
	utils.LoadEnv()
	url := utils.GetDatabaseURL()
	if strings.HasPrefix(url, "postgres://") || strings.HasPrefix(url, "postgresql://") {
		return database.OpenPostgres(ctx, url)
	}
	return database.OpenSQLite(ctx, url)
}
