package data

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gvix-backtest/internal/model"
)

func TestRegistryRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "registry", "datasets.json")

	want := &DatasetList{
		UpdatedAt: "2024-04-30T00:00:00Z",
		Datasets: []Dataset{
			{
				ID:          "sse50",
				Name:        "SSE 50 ETF options",
				OptionsFile: "data/sse50_options.csv",
				IndexFile:   "data/sse50_index.csv",
				RatesFile:   "data/shibor.csv",
				Market:      "SSE",
			},
		},
	}

	require.NoError(t, SaveRegistry(want, path))

	got, err := LoadRegistry(path)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestLoadRegistryMissingFile(t *testing.T) {
	_, err := LoadRegistry(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}

func TestGetDefaultRegistryPath(t *testing.T) {
	t.Setenv("DATASETS_FILE", "/tmp/custom.json")
	assert.Equal(t, "/tmp/custom.json", GetDefaultRegistryPath())

	t.Setenv("DATASETS_FILE", "")
	assert.Equal(t, "./data/datasets.json", GetDefaultRegistryPath())
}

func TestRowCache(t *testing.T) {
	c := &RowCache{store: make(map[string]*CacheEntry), ttl: time.Minute}
	rows := []model.Row{{Code: "OPT001"}}

	_, ok := c.Get("k")
	assert.False(t, ok)

	c.Set("k", rows)
	got, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, rows, got)

	c.Clear()
	_, ok = c.Get("k")
	assert.False(t, ok)
}

func TestRowCacheExpiry(t *testing.T) {
	c := &RowCache{store: make(map[string]*CacheEntry), ttl: -time.Second}
	c.Set("k", []model.Row{{Code: "OPT001"}})

	_, ok := c.Get("k")
	assert.False(t, ok)
}

func TestRowCacheNilSafe(t *testing.T) {
	var c *RowCache
	c.Set("k", nil)
	c.Clear()
	_, ok := c.Get("k")
	assert.False(t, ok)
}

func TestGenerateCacheKeyDeterministic(t *testing.T) {
	p := CacheKeyParams{
		OptionsFile: "a.csv",
		IndexFile:   "b.csv",
		RatesFile:   "c.csv",
		RateTenor:   "1w",
		Sigma:       "gvix",
	}
	assert.Equal(t, GenerateCacheKey(p), GenerateCacheKey(p))

	q := p
	q.Sigma = "vix"
	assert.NotEqual(t, GenerateCacheKey(p), GenerateCacheKey(q))
}
