package csvload

import (
	"fmt"
	"strings"
)

// Dialect selects the placeholder and identifier quoting style used when
// building INSERT statements. The target table is always named verbatim so
// callers can pass schema-qualified identifiers.
type Dialect int

const (
	// DialectGeneric uses `?` placeholders and double-quoted identifiers.
	// It works for SQLite and any driver that accepts ordinal `?` markers.
	DialectGeneric Dialect = iota
	// DialectMySQL uses `?` placeholders and backtick-quoted identifiers.
	DialectMySQL
	// DialectPostgres uses `$1`-style placeholders.
	DialectPostgres
	// DialectSQLServer uses `@p1`-style placeholders and bracket-quoted identifiers.
	DialectSQLServer
	// DialectOracle uses `:1`-style placeholders. Oracle has no multi-row
	// VALUES syntax, so batches execute through a prepared single-row INSERT.
	DialectOracle
	// DialectSQLite is an alias for the generic style.
	DialectSQLite = DialectGeneric
)

// String returns the dialect name.
func (d Dialect) String() string {
	switch d {
	case DialectMySQL:
		return "mysql"
	case DialectPostgres:
		return "postgres"
	case DialectSQLServer:
		return "sqlserver"
	case DialectOracle:
		return "oracle"
	default:
		return "generic"
	}
}

// Placeholder returns the parameter marker for the zero-based index.
func (d Dialect) Placeholder(index int) string {
	switch d {
	case DialectPostgres:
		return fmt.Sprintf("$%d", index+1)
	case DialectSQLServer:
		return fmt.Sprintf("@p%d", index+1)
	case DialectOracle:
		return fmt.Sprintf(":%d", index+1)
	default:
		return "?"
	}
}

// QuoteIdentifier quotes a column name for this dialect.
func (d Dialect) QuoteIdentifier(name string) string {
	switch d {
	case DialectMySQL:
		return "`" + name + "`"
	case DialectSQLServer:
		return "[" + name + "]"
	default:
		return `"` + name + `"`
	}
}

// supportsMultiRowValues reports whether the dialect accepts
// INSERT ... VALUES (...), (...) with several row tuples.
func (d Dialect) supportsMultiRowValues() bool {
	return d != DialectOracle
}

// InsertQuery builds an INSERT statement for rowCount rows into table.
// Placeholders are numbered across all rows for dialects with ordinal
// markers.
func (d Dialect) InsertQuery(table string, columns []string, rowCount int) string {
	quoted := make([]string, len(columns))
	for i, col := range columns {
		quoted[i] = d.QuoteIdentifier(col)
	}

	tuples := make([]string, rowCount)
	index := 0
	for row := range rowCount {
		markers := make([]string, len(columns))
		for col := range columns {
			markers[col] = d.Placeholder(index)
			index++
		}
		tuples[row] = "(" + strings.Join(markers, ", ") + ")"
	}

	return fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES %s",
		table,
		strings.Join(quoted, ", "),
		strings.Join(tuples, ", "),
	)
}
