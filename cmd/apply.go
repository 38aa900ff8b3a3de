package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/schemato/schemato/runner"
)

var (
	applySchemaFile string
	applyForce      bool
)

var applyCmd = &cobra.Command{
	Use:   "apply",
	Short: "Create or evolve the database tables from the schema file",
	Long: `Bring the database in line with the schema file: missing tables
are created with their indexes, existing tables gain missing columns and
indexes. Nothing is ever dropped unless --force is given.

Examples:
  schemato apply                  # Apply schema.yaml
  schemato apply -f custom.yaml   # Use a custom schema file
  schemato apply --force          # Drop and recreate existing tables
`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		schemas, err := loadSchemas(applySchemaFile)
		if err != nil {
			fmt.Printf("❌ Error loading schema: %v\n", err)
			os.Exit(1)
		}

		db, err := openDatabase(ctx)
		if err != nil {
			fmt.Printf("❌ Error connecting to database: %v\n", err)
			os.Exit(1)
		}

		if applyForce {
			fmt.Println("⚠️  --force drops and recreates existing tables")
		}

		mgr := runner.NewManager(db)
		res := mgr.InitializeSchemas(ctx, schemas, runner.Options{Force: applyForce})

		for _, name := range res.Initialized {
			fmt.Printf("✅ %s initialized\n", name)
		}
		for _, name := range res.Skipped {
			fmt.Printf("⏭️  %s unchanged\n", name)
		}
		for _, e := range res.Errors {
			fmt.Printf("❌ %s: %v\n", e.Schema, e.Err)
		}

		fmt.Printf("\nRun %s: %d initialized, %d skipped, %d failed in %s\n",
			res.RunID, len(res.Initialized), len(res.Skipped), len(res.Errors), res.ExecutionTime)
		if len(res.Errors) > 0 {
			os.Exit(1)
		}
	},
}

func init() {
	applyCmd.Flags().StringVarP(&applySchemaFile, "file", "f", "schema.yaml", "Schema file to load")
	applyCmd.Flags().BoolVar(&applyForce, "force", false, "Drop and recreate existing tables (destructive)")
}
