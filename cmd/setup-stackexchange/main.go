// Command setup-stackexchange downloads a Stack Exchange site dump and
// converts its XML tables to Parquet files.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/querybench/benchdata/internal/config"
	"github.com/querybench/benchdata/internal/download"
	"github.com/querybench/benchdata/internal/stackexchange"
)

func main() {
	site := pflag.String("site", "", `Stack Exchange site name, e.g. "math" (required)`)
	outputDir := pflag.String("output-dir", "", "Output directory for Parquet files (default: data-<site>)")
	workDir := pflag.String("work-dir", ".", "Directory for archive and extraction scratch space")
	keepArchive := pflag.Bool("keep-archive", false, "Keep the downloaded archive file after extraction")
	pflag.Parse()

	if *site == "" {
		fmt.Fprintln(os.Stderr, "Error: --site is required")
		pflag.Usage()
		os.Exit(1)
	}
	if *outputDir == "" {
		*outputDir = "data-" + *site
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-stopCh
		log.Println("setup-stackexchange: received shutdown signal, stopping...")
		cancel()
	}()

	cfg := config.Load()

	err := stackexchange.Setup(ctx, stackexchange.Options{
		Site:        *site,
		OutputDir:   *outputDir,
		WorkDir:     *workDir,
		BaseURL:     cfg.StackExchangeBaseURL,
		KeepArchive: *keepArchive,
		Client:      download.NewClient(cfg.HTTPTimeout),
	})
	if err != nil {
		log.Fatalf("setup-stackexchange: %v", err)
	}
	log.Printf("setup-stackexchange: setup complete, output directory: %s", *outputDir)
}
