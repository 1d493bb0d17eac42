// Command genresults replays benchmark SQL files against a directory of
// Parquet tables and writes each query's expected result set to a Parquet
// file named after the query.
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/spf13/pflag"

	"github.com/querybench/benchdata/internal/results"
)

func main() {
	os.Exit(run())
}

// run carries the real work so deferred cleanup executes before the process
// exits with a status code.
func run() int {
	dataDir := pflag.String("data-dir", "", "Directory containing Parquet data files (required)")
	sqlDir := pflag.String("sql-dir", "", "Directory containing SQL query files (required)")
	outputDir := pflag.String("output-dir", "", "Output directory for query results (required)")
	pflag.Parse()

	if *dataDir == "" || *sqlDir == "" || *outputDir == "" {
		fmt.Fprintln(os.Stderr, "Error: --data-dir, --sql-dir and --output-dir are required")
		pflag.Usage()
		return 1
	}
	for _, dir := range []string{*dataDir, *sqlDir} {
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			fmt.Fprintf(os.Stderr, "Error: directory does not exist or is not a directory: %s\n", dir)
			return 1
		}
	}

	ctx := context.Background()

	gen, err := results.NewGenerator()
	if err != nil {
		log.Printf("genresults: %v", err)
		return 1
	}
	defer gen.Close()

	tables, err := gen.RegisterTables(ctx, *dataDir)
	if err != nil {
		log.Printf("genresults: %v", err)
		return 1
	}
	log.Printf("genresults: registered %d tables", len(tables))

	summary, err := gen.Run(ctx, *sqlDir, *outputDir)
	if summary == nil {
		log.Printf("genresults: %v", err)
		return 1
	}
	log.Printf("genresults: results written to %s", *outputDir)
	if summary.Failed > 0 {
		return 1
	}
	return 0
}
