// Package foodtable loads, scrapes and saves extra food-table entries.
//
// The on-disk format is a JSON array of
// {"keyword", "calories", "protein", "carbs", "fat"} objects, validated
// against the embedded food table schema.
package foodtable

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/jonathan/health-tracker/internal/nutrition"
	"github.com/jonathan/health-tracker/internal/schemas"
)

// LoadFile reads and validates a food-table file. Keywords are lower-cased
// and trimmed.
func LoadFile(path string) ([]nutrition.FoodEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read food table %s: %w", path, err)
	}
	return Parse(data)
}

// Parse validates and decodes food-table JSON.
func Parse(data []byte) ([]nutrition.FoodEntry, error) {
	if err := schemas.Validate(schemas.FoodTable, data); err != nil {
		return nil, fmt.Errorf("invalid food table: %w", err)
	}

	var entries []nutrition.FoodEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to decode food table: %w", err)
	}
	for i := range entries {
		entries[i].Keyword = strings.ToLower(strings.TrimSpace(entries[i].Keyword))
		if entries[i].Keyword == "" {
			return nil, fmt.Errorf("invalid food table: entry %d has a blank keyword", i)
		}
	}
	return entries, nil
}

// SaveFile writes entries as indented JSON.
func SaveFile(path string, entries []nutrition.FoodEntry) error {
	if entries == nil {
		entries = []nutrition.FoodEntry{}
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode food table: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("failed to write food table %s: %w", path, err)
	}
	return nil
}
