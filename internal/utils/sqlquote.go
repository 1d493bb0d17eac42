package utils

import "strings"

// SQLQuoteString wraps s in single quotes for use as a SQL string literal,
// doubling any embedded quotes. DuckDB has no bind parameters in COPY targets
// or view definitions, so paths are spliced into SQL text.
func SQLQuoteString(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// SQLQuoteIdent wraps s in double quotes for use as a SQL identifier. Table
// names derived from filenames are quoted verbatim, keeping them
// case-sensitive.
func SQLQuoteIdent(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
