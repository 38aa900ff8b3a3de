package cmd

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/schemato/schemato/generator"
)

var (
	generateSchemaFile string
	generateOutFile    string
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate CREATE TABLE statements from the schema file",
	Long: `Generate the full DDL for every table in the schema file.

Examples:
  schemato generate                  # Print DDL for schema.yaml
  schemato generate -f custom.yaml   # Use a custom schema file
  schemato generate -o schema.sql    # Write DDL to a file
`,
	Run: func(cmd *cobra.Command, args []string) {
		schemas, err := loadSchemas(generateSchemaFile)
		if err != nil {
			fmt.Printf("❌ Error loading schema: %v\n", err)
			os.Exit(1)
		}

		names := make([]string, 0, len(schemas))
		for name := range schemas {
			names = append(names, name)
		}
		sort.Strings(names)

		var out string
		for _, name := range names {
			def := schemas[name]
			out += fmt.Sprintf("-- %s (version %s)\n", def.TableName, def.Version)
			out += generator.GenerateSQL(def) + "\n\n"
		}

		if generateOutFile != "" {
			if err := os.WriteFile(generateOutFile, []byte(out), 0o644); err != nil {
				fmt.Printf("❌ Error writing %s: %v\n", generateOutFile, err)
				os.Exit(1)
			}
			fmt.Printf("✅ Wrote DDL for %d tables to %s\n", len(names), generateOutFile)
			return
		}

		fmt.Print(out)
	},
}

func init() {
	generateCmd.Flags().StringVarP(&generateSchemaFile, "file", "f", "schema.yaml", "Schema file to load")
	generateCmd.Flags().StringVarP(&generateOutFile, "output", "o", "", "Write DDL to a file instead of stdout")
}
