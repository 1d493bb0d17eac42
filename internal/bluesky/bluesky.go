// Package bluesky downloads the JSONBench Bluesky NDJSON shards and merges
// them into a single Parquet file through the external json_to_variant tool.
package bluesky

import (
	"fmt"
	"sort"
)

// Shard identifies one numbered NDJSON file of the dataset.
type Shard struct {
	URL      string
	Filename string
}

// sizeTiers maps the size selector to the number of shards it spans. Each
// shard holds one million records.
var sizeTiers = map[string]struct {
	Files       int
	Description string
}{
	"1m":    {1, "1 million rows"},
	"10m":   {10, "10 million rows"},
	"100m":  {100, "100 million rows"},
	"1000m": {1000, "1 billion rows"},
}

// Sizes returns the valid size selectors, sorted.
func Sizes() []string {
	sizes := make([]string, 0, len(sizeTiers))
	for size := range sizeTiers {
		sizes = append(sizes, size)
	}
	sort.Strings(sizes)
	return sizes
}

// Describe returns the human-readable row count of a size selector.
func Describe(size string) string {
	tier, ok := sizeTiers[size]
	if !ok {
		return ""
	}
	return tier.Description
}

// Shards returns the download list for a size selector. Shards are numbered
// from 0001 with zero-padded 4-digit indexes.
func Shards(baseURL, size string) ([]Shard, error) {
	tier, ok := sizeTiers[size]
	if !ok {
		return nil, fmt.Errorf("invalid size %q, must be one of: 1m, 10m, 100m, 1000m", size)
	}

	shards := make([]Shard, 0, tier.Files)
	for i := 1; i <= tier.Files; i++ {
		filename := fmt.Sprintf("file_%04d.json.gz", i)
		shards = append(shards, Shard{
			URL:      fmt.Sprintf("%s/%s", baseURL, filename),
			Filename: filename,
		})
	}
	return shards, nil
}
