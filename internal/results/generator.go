// Package results replays benchmark SQL files against Parquet tables and
// captures each result set as a Parquet file, producing the expected results
// the benchmark harness compares against.
package results

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "github.com/marcboeker/go-duckdb/v2"

	"github.com/querybench/benchdata/internal/fsutil"
	"github.com/querybench/benchdata/internal/utils"
)

// Generator executes SQL files against Parquet tables registered in an
// in-memory DuckDB database.
type Generator struct {
	db *sql.DB
}

// Summary tallies the outcome of a batch run.
type Summary struct {
	Successful int
	Failed     int
	Total      int
}

// NewGenerator opens an in-memory database session.
func NewGenerator() (*Generator, error) {
	db, err := sql.Open("duckdb", "")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return &Generator{db: db}, nil
}

// Close releases the database session.
func (g *Generator) Close() {
	if err := g.db.Close(); err != nil {
		log.Printf("results: error closing database: %v", err)
	}
}

// RegisterTables exposes every *.parquet file in dataDir as a view named
// after the filename stem, quoted verbatim so case is preserved. It returns
// the registered table names.
func (g *Generator) RegisterTables(ctx context.Context, dataDir string) ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(dataDir, "*.parquet"))
	if err != nil {
		return nil, fmt.Errorf("failed to list parquet files: %w", err)
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("no parquet files found in %s", dataDir)
	}
	sort.Strings(matches)

	tables := make([]string, 0, len(matches))
	for _, path := range matches {
		name := strings.TrimSuffix(filepath.Base(path), ".parquet")
		stmt := fmt.Sprintf(SQLRegisterTableTemplate,
			utils.SQLQuoteIdent(name), utils.SQLQuoteString(path))
		if _, err := g.db.ExecContext(ctx, stmt); err != nil {
			return nil, fmt.Errorf("failed to register table %q from %s: %w", name, path, err)
		}
		log.Printf("results: registered table %q from %s", name, filepath.Base(path))
		tables = append(tables, name)
	}
	return tables, nil
}

// Run executes every *.sql file in sqlDir (sorted by name) and writes each
// result set to outputDir/<stem>.parquet. A failing query is logged and
// counted; it does not stop the batch. The returned error is non-nil only for
// setup problems, not per-query failures.
func (g *Generator) Run(ctx context.Context, sqlDir, outputDir string) (*Summary, error) {
	sqlFiles, err := filepath.Glob(filepath.Join(sqlDir, "*.sql"))
	if err != nil {
		return nil, fmt.Errorf("failed to list sql files: %w", err)
	}
	if len(sqlFiles) == 0 {
		return nil, fmt.Errorf("no sql files found in %s", sqlDir)
	}
	sort.Strings(sqlFiles)

	if err := fsutil.EnsureDir(outputDir); err != nil {
		return nil, err
	}

	log.Printf("results: found %d sql query files", len(sqlFiles))

	summary := &Summary{Total: len(sqlFiles)}
	errs := utils.MultiError{}

	for _, sqlFile := range sqlFiles {
		stem := strings.TrimSuffix(filepath.Base(sqlFile), ".sql")
		outputPath := filepath.Join(outputDir, stem+".parquet")

		query, err := os.ReadFile(sqlFile)
		if err != nil {
			log.Printf("results: error reading %s: %v", sqlFile, err)
			errs.Addf("read %s: %w", filepath.Base(sqlFile), err)
			summary.Failed++
			continue
		}

		rows, err := g.execute(ctx, string(query), outputPath)
		if err != nil {
			log.Printf("results: error executing %s: %v", filepath.Base(sqlFile), err)
			errs.Addf("execute %s: %w", filepath.Base(sqlFile), err)
			summary.Failed++
			continue
		}

		log.Printf("results: %s: wrote %d rows to %s", filepath.Base(sqlFile), rows, outputPath)
		summary.Successful++
	}

	log.Printf("results: summary: %d successful, %d failed, %d total",
		summary.Successful, summary.Failed, summary.Total)
	return summary, errs.ErrOrNil()
}

// execute wraps one query in a COPY so the engine streams the full result set
// straight into the output file, and reports how many rows landed there. An
// empty result still produces a schema-only file.
func (g *Generator) execute(ctx context.Context, query, outputPath string) (int64, error) {
	query = strings.TrimSpace(query)
	query = strings.TrimRight(query, ";")

	stmt := fmt.Sprintf(SQLCopyResultTemplate, query, utils.SQLQuoteString(outputPath))
	if _, err := g.db.ExecContext(ctx, stmt); err != nil {
		return 0, err
	}

	var rows int64
	countStmt := fmt.Sprintf(SQLCountParquetRowsTemplate, utils.SQLQuoteString(outputPath))
	if err := g.db.QueryRowContext(ctx, countStmt).Scan(&rows); err != nil {
		// The file is written; failing to count it is not a query failure.
		log.Printf("results: could not count rows of %s: %v", outputPath, err)
	}
	return rows, nil
}
