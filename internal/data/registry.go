package data

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Dataset describes one backtestable dataset: the option quotes file plus the
// volatility-index and rates files it pairs with.
type Dataset struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	OptionsFile string `json:"options_file"`
	IndexFile   string `json:"index_file"`
	RatesFile   string `json:"rates_file"`
	Market      string `json:"market"` // e.g., "SSE"
}

// DatasetList represents the on-disk dataset registry.
type DatasetList struct {
	UpdatedAt string    `json:"updated_at"` // ISO 8601 timestamp
	Datasets  []Dataset `json:"datasets"`
}

// LoadRegistry loads the dataset registry from a JSON file.
func LoadRegistry(filePath string) (*DatasetList, error) {
	raw, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read registry file: %w", err)
	}

	var list DatasetList
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, fmt.Errorf("failed to parse registry file: %w", err)
	}

	return &list, nil
}

// SaveRegistry saves the dataset registry to a JSON file.
func SaveRegistry(list *DatasetList, filePath string) error {
	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	raw, err := json.MarshalIndent(list, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal registry: %w", err)
	}

	if err := os.WriteFile(filePath, raw, 0644); err != nil {
		return fmt.Errorf("failed to write registry file: %w", err)
	}

	return nil
}

// GetDefaultRegistryPath returns the default path for the registry file.
func GetDefaultRegistryPath() string {
	if path := os.Getenv("DATASETS_FILE"); path != "" {
		return path
	}
	return "./data/datasets.json"
}
