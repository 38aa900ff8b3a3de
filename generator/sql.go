package generator

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/spf13/cast"

	"github.com/schemato/schemato/schema"
)

// GenerateSQL renders one CREATE TABLE IF NOT EXISTS statement for the
// schema followed by one CREATE [UNIQUE] INDEX IF NOT EXISTS statement
// per index.
func GenerateSQL(def schema.SchemaDefinition) string {
	stmts := []string{TableSQL(def)}
	for _, idx := range def.Indexes {
		stmts = append(stmts, IndexSQL(def.TableName, idx))
	}
	return strings.Join(stmts, "\n")
}

// TableSQL renders only the CREATE TABLE statement. The runtime
// manager issues it separately from the index statements, since each
// DDL statement is its own unit of work.
func TableSQL(def schema.SchemaDefinition) string {
	var b strings.Builder

	fmt.Fprintf(&b, "CREATE TABLE IF NOT EXISTS %s (\n", quoteIdent(def.TableName))
	for i, col := range def.Columns {
		b.WriteString("  ")
		b.WriteString(ColumnSQL(col))
		if i < len(def.Columns)-1 {
			b.WriteString(",")
		}
		b.WriteString("\n")
	}
	b.WriteString(");")

	return b.String()
}

// ColumnSQL renders one column clause.
func ColumnSQL(col schema.ColumnDefinition) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s", quoteIdent(col.Name), col.SQLType)
	if col.PrimaryKey {
		b.WriteString(" PRIMARY KEY")
	}
	if col.NotNull && !col.PrimaryKey {
		b.WriteString(" NOT NULL")
	}
	if col.Unique && !col.PrimaryKey {
		b.WriteString(" UNIQUE")
	}
	if col.Default != nil {
		fmt.Fprintf(&b, " DEFAULT %s", renderDefault(col.SQLType, *col.Default))
	}
	if col.Check != "" {
		fmt.Fprintf(&b, " CHECK (%s)", col.Check)
	}
	if fk := col.ForeignKey; fk != nil {
		fmt.Fprintf(&b, " REFERENCES %s (%s)", quoteIdent(fk.ReferencesTable), quoteIdent(fk.ReferencesColumn))
		if fk.OnDelete != "" {
			fmt.Fprintf(&b, " ON DELETE %s", fk.OnDelete)
		}
		if fk.OnUpdate != "" {
			fmt.Fprintf(&b, " ON UPDATE %s", fk.OnUpdate)
		}
	}
	return b.String()
}

// IndexSQL renders one index statement.
func IndexSQL(table string, idx schema.IndexDefinition) string {
	var b strings.Builder
	b.WriteString("CREATE ")
	if idx.Unique {
		b.WriteString("UNIQUE ")
	}
	fmt.Fprintf(&b, "INDEX IF NOT EXISTS %s ON %s (", quoteIdent(idx.Name), quoteIdent(table))
	for i, col := range idx.Columns {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(quoteIdent(col))
	}
	b.WriteString(")")
	if idx.Where != "" {
		fmt.Fprintf(&b, " WHERE %s", idx.Where)
	}
	b.WriteString(";")
	return b.String()
}

// AddColumnSQL renders the additive evolution statement for one
// missing column.
func AddColumnSQL(table string, col schema.ColumnDefinition) string {
	return fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s;", quoteIdent(table), ColumnSQL(col))
}

// DropTableSQL renders the destructive recreate path's drop statement.
func DropTableSQL(table string) string {
	return fmt.Sprintf("DROP TABLE IF EXISTS %s;", quoteIdent(table))
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// safeExpr matches bare expressions that may pass through unquoted:
// numbers, keywords and simple function calls. Anything carrying a
// quote or statement separator is treated as a literal instead.
var safeExpr = regexp.MustCompile(`^[A-Za-z0-9_+.() -]*$`)

// renderDefault renders a default value clause. Empty-string and NULL
// defaults on TEXT columns get an explicit cast so engines that infer
// column types from defaults do not see an untyped NULL. Every literal
// is escaped against quote injection.
func renderDefault(sqlType, raw string) string {
	if sqlType == "TEXT" {
		if raw == "" || raw == "''" {
			return "CAST('' AS TEXT)"
		}
		if strings.EqualFold(raw, "NULL") {
			return "CAST(NULL AS TEXT)"
		}
	}
	if len(raw) >= 2 && strings.HasPrefix(raw, "'") && strings.HasSuffix(raw, "'") {
		return quoteLiteral(raw[1 : len(raw)-1])
	}
	if safeExpr.MatchString(raw) {
		return raw
	}
	return quoteLiteral(raw)
}

func quoteLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

var datetimeKeywords = map[string]bool{
	"CURRENT_TIMESTAMP": true,
	"CURRENT_DATE":      true,
	"CURRENT_TIME":      true,
}

// normalizeDefault coerces a declared field default into a rendered
// SQL literal for the mapped column type. Unparseable values pass
// through untouched and are quoted at render time.
func normalizeDefault(sqlType, raw string) string {
	switch sqlType {
	case "TEXT":
		if raw == "" || strings.EqualFold(raw, "NULL") {
			return raw
		}
		if strings.HasPrefix(raw, "'") && strings.HasSuffix(raw, "'") {
			return raw
		}
		// Function calls and datetime keywords stay bare expressions;
		// everything else is a string value.
		if strings.Contains(raw, "(") || datetimeKeywords[strings.ToUpper(raw)] {
			return raw
		}
		return "'" + raw + "'"
	case "BOOLEAN":
		if b, err := cast.ToBoolE(raw); err == nil {
			if b {
				return "TRUE"
			}
			return "FALSE"
		}
	case "INTEGER":
		if n, err := cast.ToInt64E(raw); err == nil {
			return strconv.FormatInt(n, 10)
		}
	case "REAL":
		if f, err := cast.ToFloat64E(raw); err == nil {
			return strconv.FormatFloat(f, 'g', -1, 64)
		}
	}
	return raw
}
