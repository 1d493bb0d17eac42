// Command setup-bluesky downloads the JSONBench Bluesky NDJSON shards and
// merges them into a single Parquet file.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/querybench/benchdata/internal/bluesky"
	"github.com/querybench/benchdata/internal/config"
	"github.com/querybench/benchdata/internal/download"
)

func main() {
	size := pflag.String("size", "1m", "Dataset size: "+strings.Join(bluesky.Sizes(), ", "))
	outputDir := pflag.String("output-dir", "", "Output directory for the Parquet file (default: data-bluesky-<size>)")
	toolDir := pflag.String("tool-dir", "json_to_variant", "Directory of the json_to_variant project")
	keepJSON := pflag.Bool("keep-json", false, "Keep JSON files after conversion")
	skipDownload := pflag.Bool("skip-download", false, "Skip download step and use existing JSON files")
	pflag.Parse()

	if *outputDir == "" {
		*outputDir = "data-bluesky-" + *size
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-stopCh
		log.Println("setup-bluesky: received shutdown signal, stopping...")
		cancel()
	}()

	cfg := config.Load()

	err := bluesky.Setup(ctx, bluesky.Options{
		Size:         *size,
		OutputDir:    *outputDir,
		WorkDir:      ".",
		ToolDir:      *toolDir,
		BaseURL:      cfg.BlueskyBaseURL,
		KeepJSON:     *keepJSON,
		SkipDownload: *skipDownload,
		Client:       download.NewClient(cfg.HTTPTimeout),
	})
	if err != nil {
		log.Fatalf("setup-bluesky: %v", err)
	}
	log.Printf("setup-bluesky: setup complete, output directory: %s", *outputDir)
}
