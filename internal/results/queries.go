package results

// SQL templates. Identifiers and paths are spliced in pre-quoted; see
// utils.SQLQuoteIdent and utils.SQLQuoteString.

const (
	// SQLRegisterTableTemplate exposes a Parquet file as a named view.
	// Expects: quoted view name, quoted file path.
	SQLRegisterTableTemplate = `CREATE OR REPLACE VIEW %s AS SELECT * FROM read_parquet(%s)`

	// SQLCopyResultTemplate materializes a query's full result set into a
	// Parquet file. Expects: query text, quoted output path.
	SQLCopyResultTemplate = `COPY (%s) TO %s (FORMAT parquet)`

	// SQLCountParquetRowsTemplate counts the rows of a written result file.
	// Expects: quoted file path.
	SQLCountParquetRowsTemplate = `SELECT count(*) FROM read_parquet(%s)`
)
