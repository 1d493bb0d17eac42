package bluesky

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/querybench/benchdata/internal/archive"
	"github.com/querybench/benchdata/internal/download"
	"github.com/querybench/benchdata/internal/fsutil"
)

// Options configures one Setup run.
type Options struct {
	Size         string // size selector: 1m, 10m, 100m, 1000m
	OutputDir    string // destination for bluesky.parquet
	WorkDir      string // where downloads/ and json-<size>/ scratch dirs live
	ToolDir      string // json_to_variant project directory
	BaseURL      string // object storage prefix for shard downloads
	KeepJSON     bool   // keep decompressed JSON after conversion
	SkipDownload bool   // use already-present shards, download nothing
	Client       *download.Client // optional; a default client is used when nil
}

// Setup runs the whole pipeline: download shards, decompress them, merge them
// into one Parquet file with the external tool, clean up. Individual shard
// failures are logged and skipped; Setup fails only when no JSON input
// survives or the conversion tool fails.
func Setup(ctx context.Context, opts Options) error {
	if opts.Client == nil {
		opts.Client = download.NewClient(0)
	}

	shards, err := Shards(opts.BaseURL, opts.Size)
	if err != nil {
		return err
	}
	log.Printf("bluesky: dataset size: %s (%d files)", Describe(opts.Size), len(shards))

	downloadDir := filepath.Join(opts.WorkDir, "downloads")
	jsonDir := filepath.Join(opts.WorkDir, "json-"+opts.Size)

	for _, dir := range []string{downloadDir, jsonDir, opts.OutputDir} {
		if err := fsutil.EnsureDir(dir); err != nil {
			return err
		}
	}
	if err := fsutil.WriteGitignore(opts.OutputDir); err != nil {
		return err
	}

	if opts.SkipDownload {
		log.Println("bluesky: skipping download (using existing files)")
	} else {
		downloaded := downloadShards(ctx, opts.Client, shards, downloadDir, jsonDir)
		log.Printf("bluesky: downloaded %d files", downloaded)
	}

	jsonFiles := decompressShards(jsonDir, opts.KeepJSON)
	if len(jsonFiles) == 0 {
		return fmt.Errorf("no json files found after download/decompression")
	}
	log.Printf("bluesky: found %d json files ready for conversion", len(jsonFiles))

	toolPath, err := EnsureTool(ctx, opts.ToolDir)
	if err != nil {
		return err
	}

	outputParquet := filepath.Join(opts.OutputDir, "bluesky.parquet")
	if err := Convert(ctx, toolPath, jsonDir, outputParquet); err != nil {
		return err
	}
	log.Printf("bluesky: conversion complete, parquet file: %s", outputParquet)

	cleanup(downloadDir, jsonDir, opts.KeepJSON)
	return nil
}

// downloadShards fetches each missing shard into downloadDir and moves it
// into jsonDir. Shards already present in jsonDir are skipped; a failed
// download is logged and the loop continues.
func downloadShards(ctx context.Context, client *download.Client, shards []Shard, downloadDir, jsonDir string) int {
	downloaded := 0
	for _, shard := range shards {
		gzPath := filepath.Join(jsonDir, shard.Filename)
		if fsutil.Exists(gzPath) {
			log.Printf("bluesky: skipping %s (already exists)", shard.Filename)
			downloaded++
			continue
		}

		downloadPath := filepath.Join(downloadDir, shard.Filename)
		if err := client.Fetch(ctx, shard.URL, downloadPath); err != nil {
			log.Printf("bluesky: error downloading %s: %v", shard.Filename, err)
			continue
		}
		if err := os.Rename(downloadPath, gzPath); err != nil {
			log.Printf("bluesky: error moving %s: %v", shard.Filename, err)
			continue
		}
		downloaded++
	}
	return downloaded
}

// decompressShards turns every *.json.gz in jsonDir into its *.json
// counterpart, skipping files already decompressed so re-runs leave earlier
// output byte-identical. The compressed shard is deleted after a successful
// decompression unless keepJSON is set. The returned list also picks up
// stray .json files that never came from a shard.
func decompressShards(jsonDir string, keepJSON bool) []string {
	gzFiles, err := filepath.Glob(filepath.Join(jsonDir, "*.json.gz"))
	if err != nil {
		log.Printf("bluesky: error listing shards: %v", err)
		return nil
	}
	sort.Strings(gzFiles)

	var jsonFiles []string
	decompressed := 0
	for _, gzPath := range gzFiles {
		jsonPath := strings.TrimSuffix(gzPath, ".gz")
		if fsutil.Exists(jsonPath) {
			log.Printf("bluesky: skipping %s (already decompressed)", filepath.Base(gzPath))
			jsonFiles = append(jsonFiles, jsonPath)
			continue
		}

		if err := archive.DecompressGzip(gzPath, jsonPath); err != nil {
			log.Printf("bluesky: error decompressing %s: %v", filepath.Base(gzPath), err)
			continue
		}
		jsonFiles = append(jsonFiles, jsonPath)
		decompressed++

		if !keepJSON {
			if err := os.Remove(gzPath); err != nil {
				log.Printf("bluesky: could not remove %s: %v", gzPath, err)
			}
		}
	}

	matches, err := filepath.Glob(filepath.Join(jsonDir, "*.json"))
	if err == nil {
		known := make(map[string]bool, len(jsonFiles))
		for _, f := range jsonFiles {
			known[f] = true
		}
		for _, f := range matches {
			if !known[f] {
				jsonFiles = append(jsonFiles, f)
			}
		}
	}

	log.Printf("bluesky: decompressed %d files, found %d json files total", decompressed, len(jsonFiles))
	return jsonFiles
}

// cleanup removes the scratch directories. The JSON directory survives when
// the caller asked to keep the decompressed shards.
func cleanup(downloadDir, jsonDir string, keepJSON bool) {
	log.Println("bluesky: cleaning up...")

	if fsutil.Exists(downloadDir) {
		log.Printf("bluesky: removing download directory: %s", downloadDir)
		if err := os.RemoveAll(downloadDir); err != nil {
			log.Printf("bluesky: could not remove download directory: %v", err)
		}
	}

	if keepJSON {
		log.Printf("bluesky: keeping json files in: %s", jsonDir)
		return
	}
	log.Printf("bluesky: removing json directory: %s", jsonDir)
	if err := os.RemoveAll(jsonDir); err != nil {
		log.Printf("bluesky: could not remove json directory: %v", err)
	}
}
