package project

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/piwi3910/StairCut/internal/model"
)

// DefaultInventoryPath returns ~/.staircut/inventory.json.
func DefaultInventoryPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".staircut", "inventory.json"), nil
}

// SaveInventory writes inv to path.
func SaveInventory(path string, inv model.PlankInventory) error {
	return writeJSON(path, inv)
}

// LoadInventory reads the inventory at path. A missing file is created with
// the default catalogs.
func LoadInventory(path string) (model.PlankInventory, error) {
	var inv model.PlankInventory
	err := readJSON(path, &inv)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		inv = model.DefaultInventory()
		return inv, SaveInventory(path, inv)
	case err != nil:
		return model.PlankInventory{}, err
	}
	return inv, nil
}

// LoadOrCreateInventory loads the personal inventory and returns its path.
func LoadOrCreateInventory() (model.PlankInventory, string, error) {
	path, err := DefaultInventoryPath()
	if err != nil {
		return model.DefaultInventory(), "", err
	}
	inv, err := LoadInventory(path)
	return inv, path, err
}

// ImportInventory merges the specs of the inventory file at path into
// existing. Specs whose id is already present are skipped.
func ImportInventory(path string, existing model.PlankInventory) (model.PlankInventory, error) {
	var imported model.PlankInventory
	if err := readJSON(path, &imported); err != nil {
		return existing, err
	}

	merged := existing.Clone()
	merged.Treads = mergeSpecs(merged.Treads, imported.Treads)
	merged.Risers = mergeSpecs(merged.Risers, imported.Risers)
	return merged, nil
}

func mergeSpecs(existing, imported []model.PlankSpec) []model.PlankSpec {
	ids := make(map[string]bool, len(existing))
	for _, s := range existing {
		ids[s.ID] = true
	}
	for _, s := range imported {
		if !ids[s.ID] {
			existing = append(existing, s)
			ids[s.ID] = true
		}
	}
	return existing
}
