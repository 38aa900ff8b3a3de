package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/schemato/schemato/runner"
)

var planSchemaFile string

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Show what apply would change in the database",
	Long: `Show the changes a subsequent apply would perform, without
touching the database: tables to create and, for existing tables, the
columns and indexes that would be added.

Examples:
  schemato plan                  # Plan against DATABASE_URL (or schemato.db)
  schemato plan -f custom.yaml   # Use a custom schema file
`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		schemas, err := loadSchemas(planSchemaFile)
		if err != nil {
			fmt.Printf("❌ Error loading schema: %v\n", err)
			os.Exit(1)
		}

		db, err := openDatabase(ctx)
		if err != nil {
			fmt.Printf("❌ Error connecting to database: %v\n", err)
			os.Exit(1)
		}

		changes, err := runner.PlanChanges(ctx, db, schemas)
		if err != nil {
			fmt.Printf("❌ Error planning changes: %v\n", err)
			os.Exit(1)
		}

		if len(changes) == 0 {
			fmt.Println("✅ Database is up to date")
			return
		}

		green := color.New(color.FgGreen).SprintFunc()
		cyan := color.New(color.FgCyan).SprintFunc()

		fmt.Println("📋 Planned Changes")
		fmt.Println(strings.Repeat("=", 40))
		for _, change := range changes {
			switch change.Kind {
			case runner.ChangeCreateTable:
				fmt.Printf("%s create table %s\n", green("+"), cyan(change.Table))
			case runner.ChangeAddColumn:
				fmt.Printf("%s add column %s.%s (%s)\n", green("+"), cyan(change.Table), change.Column.Name, change.Column.SQLType)
			case runner.ChangeAddIndex:
				fmt.Printf("%s add index %s on %s\n", green("+"), cyan(change.Index.Name), change.Table)
			}
		}
		fmt.Printf("\n%d changes. Run 'schemato apply' to execute them.\n", len(changes))
	},
}

func init() {
	planCmd.Flags().StringVarP(&planSchemaFile, "file", "f", "schema.yaml", "Schema file to load")
}
