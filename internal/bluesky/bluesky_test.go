package bluesky

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/require"

	"github.com/querybench/benchdata/internal/download"
)

func TestShardsForEachTier(t *testing.T) {
	base := "https://example.com/bluesky"

	shards, err := Shards(base, "1m")
	require.NoError(t, err)
	require.Len(t, shards, 1)
	require.Equal(t, "file_0001.json.gz", shards[0].Filename)
	require.Equal(t, base+"/file_0001.json.gz", shards[0].URL)

	shards, err = Shards(base, "10m")
	require.NoError(t, err)
	require.Len(t, shards, 10)
	require.Equal(t, "file_0010.json.gz", shards[9].Filename, "indexes are zero-padded to 4 digits")

	shards, err = Shards(base, "1000m")
	require.NoError(t, err)
	require.Len(t, shards, 1000)
	require.Equal(t, "file_1000.json.gz", shards[999].Filename)
}

func TestShardsRejectsUnknownSize(t *testing.T) {
	_, err := Shards("https://example.com", "5m")
	require.Error(t, err)
}

func TestSizes(t *testing.T) {
	require.Equal(t, []string{"1000m", "100m", "10m", "1m"}, Sizes())
	require.Equal(t, "1 million rows", Describe("1m"))
	require.Empty(t, Describe("bogus"))
}

func writeGzip(t *testing.T, path string, content []byte) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	zw := gzip.NewWriter(f)
	_, err = zw.Write(content)
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())
}

func TestDecompressShards(t *testing.T) {
	jsonDir := t.TempDir()
	writeGzip(t, filepath.Join(jsonDir, "file_0001.json.gz"), []byte(`{"kind":"commit"}`+"\n"))
	writeGzip(t, filepath.Join(jsonDir, "file_0002.json.gz"), []byte(`{"kind":"identity"}`+"\n"))

	files := decompressShards(jsonDir, false)
	require.Len(t, files, 2)

	got, err := os.ReadFile(filepath.Join(jsonDir, "file_0001.json"))
	require.NoError(t, err)
	require.Equal(t, `{"kind":"commit"}`+"\n", string(got))

	// Compressed shards are deleted after decompression when not keeping.
	require.NoFileExists(t, filepath.Join(jsonDir, "file_0001.json.gz"))
}

func TestDecompressShardsKeepsGzWhenAsked(t *testing.T) {
	jsonDir := t.TempDir()
	writeGzip(t, filepath.Join(jsonDir, "file_0001.json.gz"), []byte("{}\n"))

	files := decompressShards(jsonDir, true)
	require.Len(t, files, 1)
	require.FileExists(t, filepath.Join(jsonDir, "file_0001.json.gz"))
}

func TestDecompressShardsIsIdempotent(t *testing.T) {
	jsonDir := t.TempDir()
	writeGzip(t, filepath.Join(jsonDir, "file_0001.json.gz"), []byte("first run\n"))

	files := decompressShards(jsonDir, true)
	require.Len(t, files, 1)
	first, err := os.ReadFile(files[0])
	require.NoError(t, err)

	// Second run must not rewrite the decompressed file.
	info, err := os.Stat(files[0])
	require.NoError(t, err)
	files = decompressShards(jsonDir, true)
	require.Len(t, files, 1)

	second, err := os.ReadFile(files[0])
	require.NoError(t, err)
	require.Equal(t, first, second)

	infoAfter, err := os.Stat(files[0])
	require.NoError(t, err)
	require.Equal(t, info.ModTime(), infoAfter.ModTime())
}

func TestDecompressShardsPicksUpStrayJSON(t *testing.T) {
	jsonDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(jsonDir, "extra.json"), []byte("{}\n"), 0644))

	files := decompressShards(jsonDir, false)
	require.Len(t, files, 1)
	require.Equal(t, filepath.Join(jsonDir, "extra.json"), files[0])
}

func TestDownloadShardsSkipsPresentFiles(t *testing.T) {
	var requested []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requested = append(requested, r.URL.Path)
		w.Write([]byte("shard-body"))
	}))
	defer server.Close()

	downloadDir := t.TempDir()
	jsonDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(jsonDir, "file_0001.json.gz"), []byte("old"), 0644))

	shards, err := Shards(server.URL, "10m")
	require.NoError(t, err)
	shards = shards[:2]

	client := download.NewClient(0)
	downloaded := downloadShards(context.Background(), client, shards, downloadDir, jsonDir)
	require.Equal(t, 2, downloaded)

	// The present shard was not re-requested and its content is untouched.
	require.Equal(t, []string{"/file_0002.json.gz"}, requested)
	got, err := os.ReadFile(filepath.Join(jsonDir, "file_0001.json.gz"))
	require.NoError(t, err)
	require.Equal(t, "old", string(got))

	got, err = os.ReadFile(filepath.Join(jsonDir, "file_0002.json.gz"))
	require.NoError(t, err)
	require.Equal(t, "shard-body", string(got))
}

func TestDownloadShardsContinuesAfterFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/file_0001.json.gz" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte("ok"))
	}))
	defer server.Close()

	downloadDir := t.TempDir()
	jsonDir := t.TempDir()

	shards, err := Shards(server.URL, "10m")
	require.NoError(t, err)
	shards = shards[:2]

	client := download.NewClient(0)
	downloaded := downloadShards(context.Background(), client, shards, downloadDir, jsonDir)
	require.Equal(t, 1, downloaded)
	require.NoFileExists(t, filepath.Join(jsonDir, "file_0001.json.gz"))
	require.FileExists(t, filepath.Join(jsonDir, "file_0002.json.gz"))
}

// stubTool plants an executable in toolDir's release directory that writes an
// empty file to its output argument, standing in for json_to_variant.
func stubTool(t *testing.T, toolDir string) {
	t.Helper()
	releaseDir := filepath.Join(toolDir, "target", "release")
	require.NoError(t, os.MkdirAll(releaseDir, 0755))
	script := "#!/bin/sh\n: > \"$2\"\n"
	require.NoError(t, os.WriteFile(filepath.Join(releaseDir, "json_to_variant"), []byte(script), 0755))
}

func TestSetupEndToEnd(t *testing.T) {
	workDir := t.TempDir()
	outputDir := filepath.Join(workDir, "out")
	toolDir := filepath.Join(workDir, "json_to_variant")
	stubTool(t, toolDir)

	jsonDir := filepath.Join(workDir, "json-1m")
	require.NoError(t, os.MkdirAll(jsonDir, 0755))
	writeGzip(t, filepath.Join(jsonDir, "file_0001.json.gz"), []byte(`{"kind":"commit"}`+"\n"))

	err := Setup(context.Background(), Options{
		Size:         "1m",
		OutputDir:    outputDir,
		WorkDir:      workDir,
		ToolDir:      toolDir,
		BaseURL:      "http://127.0.0.1:0", // never contacted
		SkipDownload: true,
	})
	require.NoError(t, err)

	require.FileExists(t, filepath.Join(outputDir, "bluesky.parquet"))
	require.FileExists(t, filepath.Join(outputDir, ".gitignore"))

	// Scratch directories are gone once the Parquet file is in place.
	require.NoDirExists(t, filepath.Join(workDir, "downloads"))
	require.NoDirExists(t, jsonDir)
}

func TestSetupKeepsJSONDirWhenAsked(t *testing.T) {
	workDir := t.TempDir()
	outputDir := filepath.Join(workDir, "out")
	toolDir := filepath.Join(workDir, "json_to_variant")
	stubTool(t, toolDir)

	jsonDir := filepath.Join(workDir, "json-1m")
	require.NoError(t, os.MkdirAll(jsonDir, 0755))
	writeGzip(t, filepath.Join(jsonDir, "file_0001.json.gz"), []byte("{}\n"))

	err := Setup(context.Background(), Options{
		Size:         "1m",
		OutputDir:    outputDir,
		WorkDir:      workDir,
		ToolDir:      toolDir,
		BaseURL:      "http://127.0.0.1:0",
		KeepJSON:     true,
		SkipDownload: true,
	})
	require.NoError(t, err)

	require.FileExists(t, filepath.Join(outputDir, "bluesky.parquet"))
	require.NoDirExists(t, filepath.Join(workDir, "downloads"))
	require.DirExists(t, jsonDir)
	require.FileExists(t, filepath.Join(jsonDir, "file_0001.json"))
}

func TestSetupFailsWithoutInputs(t *testing.T) {
	workDir := t.TempDir()

	err := Setup(context.Background(), Options{
		Size:         "1m",
		OutputDir:    filepath.Join(workDir, "out"),
		WorkDir:      workDir,
		ToolDir:      filepath.Join(workDir, "json_to_variant"),
		BaseURL:      "http://127.0.0.1:0",
		SkipDownload: true,
	})
	require.Error(t, err)
	require.Contains(t, err.Error(), "no json files")
}

func TestEnsureToolFindsExistingBinary(t *testing.T) {
	toolDir := t.TempDir()
	releaseDir := filepath.Join(toolDir, "target", "release")
	require.NoError(t, os.MkdirAll(releaseDir, 0755))
	binPath := filepath.Join(releaseDir, "json_to_variant")
	require.NoError(t, os.WriteFile(binPath, []byte("#!/bin/sh\n"), 0755))

	got, err := EnsureTool(context.Background(), toolDir)
	require.NoError(t, err)
	require.Equal(t, binPath, got)
}

func TestEnsureToolFallbackName(t *testing.T) {
	toolDir := t.TempDir()
	releaseDir := filepath.Join(toolDir, "target", "release")
	require.NoError(t, os.MkdirAll(releaseDir, 0755))
	binPath := filepath.Join(releaseDir, "json-to-variant")
	require.NoError(t, os.WriteFile(binPath, []byte("#!/bin/sh\n"), 0755))

	got, err := EnsureTool(context.Background(), toolDir)
	require.NoError(t, err)
	require.Equal(t, binPath, got)
}
