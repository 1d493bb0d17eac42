// Package stackexchange downloads a Stack Exchange site dump from
// archive.org and converts its XML tables to Parquet files named for the
// benchmark's table names.
package stackexchange

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/querybench/benchdata/internal/archive"
	"github.com/querybench/benchdata/internal/download"
	"github.com/querybench/benchdata/internal/fsutil"
	"github.com/querybench/benchdata/internal/utils"
)

// dumpFiles maps the known XML dump files to their benchmark table names, in
// conversion order. Table names are uppercase to match the SQL queries.
var dumpFiles = []struct {
	XMLName   string
	TableName string
}{
	{"Posts.xml", "Posts"},
	{"Users.xml", "Users"},
	{"Comments.xml", "Comments"},
	{"PostHistory.xml", "PostHistory"},
	{"PostLinks.xml", "PostLinks"},
	{"Tags.xml", "Tags"},
	{"Votes.xml", "Votes"},
	{"Badges.xml", "Badges"},
}

// Options configures one Setup run.
type Options struct {
	Site        string // Stack Exchange site name, e.g. "math"
	OutputDir   string // destination for Parquet files
	WorkDir     string // where archives/ and extracted/ scratch dirs live
	BaseURL     string // archive.org download prefix
	KeepArchive bool   // keep the downloaded .7z after conversion
	Client      *download.Client // optional; a default client is used when nil
}

// ArchiveURL returns the download URL for a site's dump archive.
func ArchiveURL(baseURL, site string) string {
	return fmt.Sprintf("%s/%s.stackexchange.com.7z", baseURL, site)
}

// Setup runs the whole pipeline: download, extract, convert each known dump
// file, clean up. A dump file that is missing or fails to convert is skipped;
// Setup returns an error only when nothing usable could be produced or a
// setup step (download, extraction) fails outright.
func Setup(ctx context.Context, opts Options) error {
	if opts.Client == nil {
		opts.Client = download.NewClient(0)
	}

	archiveDir := filepath.Join(opts.WorkDir, "archives")
	extractDir := filepath.Join(opts.WorkDir, "extracted")
	siteExtractDir := filepath.Join(extractDir, opts.Site)

	for _, dir := range []string{archiveDir, extractDir, opts.OutputDir} {
		if err := fsutil.EnsureDir(dir); err != nil {
			return err
		}
	}
	if err := fsutil.WriteGitignore(opts.OutputDir); err != nil {
		return err
	}

	archivePath := filepath.Join(archiveDir, fmt.Sprintf("%s.stackexchange.com.7z", opts.Site))

	if fsutil.Exists(archivePath) {
		log.Printf("stackexchange: archive already exists: %s", archivePath)
	} else {
		url := ArchiveURL(opts.BaseURL, opts.Site)
		if err := opts.Client.Fetch(ctx, url, archivePath); err != nil {
			return fmt.Errorf("failed to download dataset: %w", err)
		}
	}

	if fsutil.DirHasEntries(siteExtractDir) {
		log.Printf("stackexchange: archive already extracted to %s", siteExtractDir)
	} else {
		if err := archive.ExtractSevenZip(archivePath, siteExtractDir); err != nil {
			return fmt.Errorf("failed to extract archive: %w", err)
		}
	}

	converted := 0
	errs := utils.MultiError{}
	for _, dump := range dumpFiles {
		xmlPath := filepath.Join(siteExtractDir, dump.XMLName)
		if !fsutil.Exists(xmlPath) {
			log.Printf("stackexchange: warning: %s not found in extracted data", dump.XMLName)
			continue
		}

		parquetPath := filepath.Join(opts.OutputDir, dump.TableName+".parquet")
		if err := ConvertXMLToParquet(ctx, xmlPath, parquetPath, dump.TableName); err != nil {
			log.Printf("stackexchange: error converting %s: %v", dump.XMLName, err)
			errs.Addf("convert %s: %w", dump.XMLName, err)
			continue
		}
		converted++
	}

	log.Printf("stackexchange: conversion complete, converted %d files to %s", converted, opts.OutputDir)

	cleanup(archivePath, siteExtractDir, archiveDir, extractDir, opts.KeepArchive)

	if converted == 0 && errs.Len() > 0 {
		return fmt.Errorf("all conversions failed: %w", errs.ErrOrNil())
	}
	return nil
}

// cleanup removes the scratch files and prunes the scratch directories once
// they are empty. Failures here only warn: the Parquet output is already in
// place.
func cleanup(archivePath, siteExtractDir, archiveDir, extractDir string, keepArchive bool) {
	log.Println("stackexchange: cleaning up temporary files...")

	if !keepArchive && fsutil.Exists(archivePath) {
		log.Printf("stackexchange: removing archive file: %s", archivePath)
		if err := os.Remove(archivePath); err != nil {
			log.Printf("stackexchange: could not remove archive: %v", err)
		}
	}

	if fsutil.Exists(siteExtractDir) {
		log.Printf("stackexchange: removing extracted directory: %s", siteExtractDir)
		if err := os.RemoveAll(siteExtractDir); err != nil {
			log.Printf("stackexchange: could not remove extracted directory: %v", err)
		}
	}

	fsutil.RemoveIfEmpty(archiveDir)
	fsutil.RemoveIfEmpty(extractDir)
}
