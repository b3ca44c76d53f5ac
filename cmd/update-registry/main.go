package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"gvix-backtest/internal/data"
)

func main() {
	var (
		dataDir    = flag.String("data-dir", "./data", "Directory to scan for dataset files")
		outputPath = flag.String("output", "", "Output file path (default: ./data/datasets.json)")
		market     = flag.String("market", "SSE", "Market label for discovered datasets")
	)
	flag.Parse()

	if *outputPath == "" {
		*outputPath = data.GetDefaultRegistryPath()
	}

	fmt.Printf("Scanning %s for dataset files...\n", *dataDir)

	datasets, err := scanDataDir(*dataDir, *market)
	if err != nil {
		log.Fatalf("Failed to scan data directory: %v", err)
	}

	fmt.Printf("Found %d datasets\n", len(datasets))
	for _, d := range datasets {
		fmt.Printf("  %s: options=%s index=%s rates=%s\n", d.ID, d.OptionsFile, d.IndexFile, d.RatesFile)
	}

	list := &data.DatasetList{
		UpdatedAt: time.Now().Format(time.RFC3339),
		Datasets:  datasets,
	}

	if err := data.SaveRegistry(list, *outputPath); err != nil {
		log.Fatalf("Failed to save registry: %v", err)
	}

	fmt.Printf("Saved %d datasets to %s\n", len(datasets), *outputPath)
}

// scanDataDir discovers dataset file triples by naming convention:
// <id>_options.csv, <id>_index.csv, <id>_rates.csv. A shared rates file named
// shibor.csv (or rates.csv) applies to every dataset that lacks its own.
func scanDataDir(dir, market string) ([]data.Dataset, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]*parts)
	sharedRates := ""

	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".csv") {
			continue
		}
		name := strings.TrimSuffix(e.Name(), ".csv")
		path := filepath.Join(dir, e.Name())

		switch {
		case name == "shibor" || name == "rates":
			sharedRates = path
		case strings.HasSuffix(name, "_options"):
			id := strings.TrimSuffix(name, "_options")
			get(byID, id).options = path
		case strings.HasSuffix(name, "_index"):
			id := strings.TrimSuffix(name, "_index")
			get(byID, id).index = path
		case strings.HasSuffix(name, "_rates"):
			id := strings.TrimSuffix(name, "_rates")
			get(byID, id).rates = path
		}
	}

	ids := make([]string, 0, len(byID))
	for id := range byID {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	datasets := make([]data.Dataset, 0, len(ids))
	for _, id := range ids {
		p := byID[id]
		if p.rates == "" {
			p.rates = sharedRates
		}
		if p.options == "" || p.index == "" || p.rates == "" {
			fmt.Printf("  skipping %s: incomplete file triple\n", id)
			continue
		}
		datasets = append(datasets, data.Dataset{
			ID:          id,
			Name:        id,
			OptionsFile: p.options,
			IndexFile:   p.index,
			RatesFile:   p.rates,
			Market:      market,
		})
	}

	return datasets, nil
}

type parts struct {
	options string
	index   string
	rates   string
}

func get(m map[string]*parts, id string) *parts {
	if _, ok := m[id]; !ok {
		m[id] = &parts{}
	}
	return m[id]
}
