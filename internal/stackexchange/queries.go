package stackexchange

// SQL templates for staging a parsed dump and exporting it. Identifiers and
// paths are spliced in pre-quoted.

const (
	// SQLCreateStagingTemplate creates the typed staging table.
	// Expects: quoted table name, column definition list.
	SQLCreateStagingTemplate = `CREATE TABLE %s (%s)`

	// SQLInsertStagingTemplate is the prepared insert for one record.
	// Expects: quoted table name, placeholder list.
	SQLInsertStagingTemplate = `INSERT INTO %s VALUES (%s)`

	// SQLCopyToParquetTemplate exports the staging table.
	// Expects: quoted table name, quoted output path.
	SQLCopyToParquetTemplate = `COPY %s TO %s (FORMAT parquet)`
)
