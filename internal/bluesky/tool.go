package bluesky

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
)

// The merge step is delegated to the json_to_variant Rust tool, which lives
// in its own project directory and is built on demand.

// binaryNames are the candidate names of the built tool, checked in order.
var binaryNames = []string{"json_to_variant", "json-to-variant"}

// EnsureTool returns the path to the json_to_variant binary under toolDir,
// running a release build first when no binary is present.
func EnsureTool(ctx context.Context, toolDir string) (string, error) {
	if path, ok := findBinary(toolDir); ok {
		return path, nil
	}

	log.Printf("bluesky: building json_to_variant tool in %s...", toolDir)
	cmd := exec.CommandContext(ctx, "cargo", "build", "--release")
	cmd.Dir = toolDir
	if out, err := cmd.CombinedOutput(); err != nil {
		return "", fmt.Errorf("failed to build json_to_variant tool: %w\n%s", err, out)
	}

	path, ok := findBinary(toolDir)
	if !ok {
		return "", fmt.Errorf("could not find built binary in %s", filepath.Join(toolDir, "target", "release"))
	}
	log.Printf("bluesky: built tool: %s", path)
	return path, nil
}

func findBinary(toolDir string) (string, bool) {
	for _, name := range binaryNames {
		path := filepath.Join(toolDir, "target", "release", name)
		if _, err := os.Stat(path); err == nil {
			return path, true
		}
	}
	return "", false
}

// Convert invokes the tool once over the whole shard directory, merging every
// NDJSON file into a single Parquet output. A non-zero exit aborts with the
// tool's stderr.
func Convert(ctx context.Context, toolPath, jsonDir, outputParquet string) error {
	cmd := exec.CommandContext(ctx, toolPath, jsonDir, outputParquet, "--recursive", "--format", "ndjson")
	log.Printf("bluesky: running: %s", cmd.String())

	out, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("conversion tool failed: %w\n%s", err, out)
	}
	if len(out) > 0 {
		log.Printf("bluesky: %s", out)
	}
	return nil
}
