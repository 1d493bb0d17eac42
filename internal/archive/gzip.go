// Package archive extracts the compressed formats the dataset dumps ship in:
// gzip for NDJSON shards and 7z for Stack Exchange archives.
package archive

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/klauspost/compress/gzip"
)

// DecompressGzip streams gzPath decompressed into outPath. Callers decide
// whether an existing outPath counts as done; this function always rewrites.
func DecompressGzip(gzPath, outPath string) error {
	log.Printf("archive: decompressing %s", gzPath)

	in, err := os.Open(gzPath)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", gzPath, err)
	}
	defer in.Close()

	zr, err := gzip.NewReader(in)
	if err != nil {
		return fmt.Errorf("failed to read gzip header of %s: %w", gzPath, err)
	}
	defer zr.Close()

	out, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", outPath, err)
	}

	_, err = io.Copy(out, zr)
	if closeErr := out.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(outPath)
		return fmt.Errorf("failed to decompress %s: %w", gzPath, err)
	}
	return nil
}
