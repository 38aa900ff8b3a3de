package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/schemato/schemato/generator"
	"github.com/schemato/schemato/loader"
	"github.com/schemato/schemato/override"
	"github.com/schemato/schemato/schema"
	"github.com/schemato/schemato/validator"
)

var (
	validateSchemaFile string
	validateFormat     string
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the schema file",
	Long: `Validate the schema file against identifier rules and
relationship constraints.

This command checks:
- Table, field and index naming (identifier rules, reserved keywords)
- Field types (unknown types fall back to TEXT)
- Relation targets (foreign keys pointing at declared tables)
- Index column references in the generated schemas

Examples:
  schemato validate                    # Validate schema.yaml
  schemato validate -f custom.yaml     # Validate a custom schema file
  schemato validate --format json      # Output results as JSON
`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runValidate(); err != nil {
			fmt.Printf("❌ Schema validation failed: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	validateCmd.Flags().StringVarP(&validateSchemaFile, "file", "f", "schema.yaml", "Schema file to validate")
	validateCmd.Flags().StringVar(&validateFormat, "format", "text", "Output format (text, json)")
}

func runValidate() error {
	sources, overrides, err := loader.LoadSources(validateSchemaFile)
	if err != nil {
		return fmt.Errorf("loading schema: %w", err)
	}

	result := validator.ValidateSources(sources)

	schemas := make(map[string]schema.SchemaDefinition, len(sources))
	for _, src := range sources {
		def := generator.Generate(src)
		schemas[src.Meta().Name] = override.Merge(def, overrides)
	}
	generated := validator.ValidateSchemas(schemas)
	result.Errors = append(result.Errors, generated.Errors...)
	result.Warnings = append(result.Warnings, generated.Warnings...)
	result.Valid = result.Valid && generated.Valid

	if validateFormat == "json" {
		out, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
	} else {
		printValidationResult(result)
	}

	if !result.Valid {
		os.Exit(1)
	}
	return nil
}

func printValidationResult(result *validator.ValidationResult) {
	red := color.New(color.FgRed).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()

	for _, e := range result.Errors {
		loc := e.Table
		if e.Column != "" {
			loc += "." + e.Column
		}
		fmt.Printf("%s [%s] %s: %s\n", red("error"), e.Type, loc, e.Message)
	}
	for _, w := range result.Warnings {
		loc := w.Table
		if w.Column != "" {
			loc += "." + w.Column
		}
		fmt.Printf("%s [%s] %s: %s\n", yellow("warning"), w.Type, loc, w.Message)
	}

	if result.Valid {
		fmt.Printf("✅ Schema is valid (%d warnings)\n", len(result.Warnings))
	} else {
		fmt.Printf("❌ Schema has %d errors and %d warnings\n", len(result.Errors), len(result.Warnings))
	}
}
