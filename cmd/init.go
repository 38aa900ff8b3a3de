package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a new schemato project",
	Long: `Create a starter schema.yaml in the current directory.

Examples:
  schemato init
`,
	Run: func(cmd *cobra.Command, args []string) {
		if _, err := os.Stat("schema.yaml"); err == nil {
			fmt.Println("❌ schema.yaml already exists!")
			return
		}

		content := `# Field definitions. Identity columns (id, created_at, updated_at)
# are injected automatically.
tables:
  - name: users
    fields:
      - name: email
        type: text
        required: true
        unique: true
      - name: display_name
        type: text
      - name: active
        type: boolean
        default: true

  - name: posts
    fields:
      - name: title
        type: text
        required: true
      - name: body
        type: text
      - name: status
        type: text
        default: draft
      - name: author
        type: foreignKey
        relation: users

# Optional patches contributed on top of the generated schemas.
# overrides:
#   - table: posts
#     package: seo
#     add_columns:
#       meta_title:
#         type: TEXT
#         not_null: true
#         default: ""
`
		if err := os.WriteFile("schema.yaml", []byte(content), 0o644); err != nil {
			fmt.Printf("❌ Error creating schema.yaml: %v\n", err)
			os.Exit(1)
		}

		fmt.Println("✅ Created schema.yaml")
		fmt.Println("Next steps:")
		fmt.Println("  1. Edit schema.yaml to define your tables")
		fmt.Println("  2. Run 'schemato validate' to check it")
		fmt.Println("  3. Run 'schemato apply' to create the tables")
	},
}
