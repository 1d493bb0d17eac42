package stackexchange

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"

	_ "github.com/marcboeker/go-duckdb/v2"

	"github.com/querybench/benchdata/internal/utils"
)

// ConvertXMLToParquet parses one dump file, coerces its columns per the
// fixed type map, and writes the table to parquetPath. Each conversion uses
// its own in-memory database so a failed file leaves nothing behind.
func ConvertXMLToParquet(ctx context.Context, xmlPath, parquetPath, tableName string) error {
	rows, err := ParseRows(xmlPath)
	if err != nil {
		return err
	}
	if len(rows.Records) == 0 {
		log.Printf("stackexchange: warning: no rows found in %s", xmlPath)
		return nil
	}

	db, err := sql.Open("duckdb", "")
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	quotedTable := utils.SQLQuoteIdent(tableName)

	if err := createStaging(ctx, db, quotedTable, rows.Columns); err != nil {
		return err
	}
	if err := insertRecords(ctx, db, quotedTable, rows); err != nil {
		return err
	}

	copyStmt := fmt.Sprintf(SQLCopyToParquetTemplate, quotedTable, utils.SQLQuoteString(parquetPath))
	if _, err := db.ExecContext(ctx, copyStmt); err != nil {
		return fmt.Errorf("failed to export %s to parquet: %w", tableName, err)
	}

	log.Printf("stackexchange: converted %d rows to %s", len(rows.Records), parquetPath)
	return nil
}

func createStaging(ctx context.Context, db *sql.DB, quotedTable string, columns []string) error {
	defs := make([]string, len(columns))
	for i, col := range columns {
		defs[i] = fmt.Sprintf("%s %s", utils.SQLQuoteIdent(col), columnType(col))
	}

	stmt := fmt.Sprintf(SQLCreateStagingTemplate, quotedTable, strings.Join(defs, ", "))
	if _, err := db.ExecContext(ctx, stmt); err != nil {
		return fmt.Errorf("failed to create staging table: %w", err)
	}
	return nil
}

// insertRecords loads all records inside a single transaction with one
// prepared statement, the cheapest way to push row-at-a-time data through
// database/sql.
func insertRecords(ctx context.Context, db *sql.DB, quotedTable string, rows *Rows) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(rows.Columns)), ", ")
	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf(SQLInsertStagingTemplate, quotedTable, placeholders))
	if err != nil {
		return fmt.Errorf("failed to prepare insert statement: %w", err)
	}
	defer stmt.Close()

	args := make([]any, len(rows.Columns))
	for _, record := range rows.Records {
		for i, col := range rows.Columns {
			raw, ok := record[col]
			if !ok {
				args[i] = nil
				continue
			}
			args[i] = coerceValue(col, raw)
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return fmt.Errorf("failed to execute insert statement: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
