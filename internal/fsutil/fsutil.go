// Package fsutil holds the filesystem conventions shared by the dataset
// setup tools: output directory layout, the .gitignore marker, and cleanup of
// scratch directories.
package fsutil

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
)

const gitignoreContent = "*.parquet\n"

// EnsureDir creates dir (and parents) if it does not exist.
func EnsureDir(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return nil
}

// WriteGitignore drops a .gitignore ignoring Parquet files into dir. An
// existing .gitignore is left untouched.
func WriteGitignore(dir string) error {
	path := filepath.Join(dir, ".gitignore")
	if _, err := os.Stat(path); err == nil {
		return nil
	}
	if err := os.WriteFile(path, []byte(gitignoreContent), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// Exists reports whether path exists.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// DirHasEntries reports whether dir exists and contains at least one entry.
func DirHasEntries(dir string) bool {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return false
	}
	return len(entries) > 0
}

// RemoveIfEmpty removes dir when it exists and has no entries. Non-empty or
// missing directories are left alone.
func RemoveIfEmpty(dir string) {
	entries, err := os.ReadDir(dir)
	if err != nil || len(entries) > 0 {
		return
	}
	if err := os.Remove(dir); err != nil {
		log.Printf("fsutil: could not remove empty directory %s: %v", dir, err)
	}
}
