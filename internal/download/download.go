// Package download provides streaming HTTP downloads with a percentage
// progress display.
package download

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/schollz/progressbar/v3"
)

// Client downloads files over HTTP. The zero timeout means a request may run
// for as long as the transfer takes, which is what multi-gigabyte archive
// downloads need.
type Client struct {
	httpClient *http.Client
}

// NewClient returns a Client using the given timeout for whole requests.
// A zero timeout disables the limit.
func NewClient(timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Fetch streams url into destPath, printing progress as the body arrives. On
// any failure the partial file is removed so an existence check on the next
// run does not mistake it for a completed download.
func (c *Client) Fetch(ctx context.Context, url, destPath string) error {
	log.Printf("download: fetching %s", url)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to build request for %s: %w", url, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request to %s failed: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %s for %s", resp.Status, url)
	}

	if err := os.MkdirAll(filepath.Dir(destPath), 0755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", destPath, err)
	}

	f, err := os.Create(destPath)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", destPath, err)
	}

	bar := progressbar.DefaultBytes(resp.ContentLength, filepath.Base(destPath))
	_, err = io.Copy(io.MultiWriter(f, bar), resp.Body)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(destPath)
		return fmt.Errorf("failed to download %s: %w", url, err)
	}
	return nil
}
