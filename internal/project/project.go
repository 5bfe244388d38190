// Package project stores staircase projects and plank inventories as JSON files.
package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/piwi3910/StairCut/internal/model"
)

// FileExtension is the extension used for saved staircase projects.
const FileExtension = ".staircut"

// Save writes the project to path as JSON, updating its modification time.
func Save(path string, p *model.Project) error {
	p.ModifiedAt = time.Now().UTC()
	if err := writeJSON(path, p); err != nil {
		return fmt.Errorf("failed to save project: %w", err)
	}
	return nil
}

// Load reads a project saved with Save.
func Load(path string) (model.Project, error) {
	var p model.Project
	if err := readJSON(path, &p); err != nil {
		return model.Project{}, fmt.Errorf("failed to load project: %w", err)
	}
	if p.ID == "" {
		return model.Project{}, fmt.Errorf("invalid project file: missing id field")
	}
	if p.Measurements == nil {
		p.Measurements = []model.StepMeasurement{}
	}
	return p, nil
}

// writeJSON writes v as indented JSON, creating parent directories as needed.
func writeJSON(path string, v interface{}) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", filepath.Base(path), err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// readJSON decodes the JSON file at path into v. A missing file keeps
// fs.ErrNotExist in the error chain.
func readJSON(path string, v interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}
