// Package config loads the StairCut command line configuration from defaults,
// a staircut.yaml file, STAIRCUT_ environment variables and flags.
package config

import (
	"fmt"

	"github.com/piwi3910/StairCut/internal/gcode"
	"github.com/piwi3910/StairCut/internal/logging"
	"github.com/piwi3910/StairCut/internal/model"
)

// Output formats.
const (
	OutputText = "text"
	OutputJSON = "json"
)

// Default values.
const (
	DefaultConfigFile    = "staircut.yaml"
	DefaultOutput        = OutputText
	DefaultMaxPlanks     = 20
	DefaultMaxIterations = 100
)

// Config holds the resolved command line configuration.
type Config struct {
	Kerf               float64        `koanf:"kerf"`
	SafetyMargin       float64        `koanf:"safety_margin"`
	AllowTreadRotation bool           `koanf:"allow_tread_rotation"`
	AllowRiserRotation bool           `koanf:"allow_riser_rotation"`
	MaxPlanks          int            `koanf:"max_planks"`
	MaxIterations      int            `koanf:"max_iterations"`
	Output             string         `koanf:"output"`
	Log                logging.Config `koanf:"log"`
	GCode              gcode.Settings `koanf:"gcode"`

	// File is the config file that was read, empty when none was found.
	File string `koanf:"-"`
}

// Constraints returns the cutting constraints described by the config.
func (c *Config) Constraints() model.CuttingConstraints {
	return model.CuttingConstraints{
		SawBladeKerf:       c.Kerf,
		SafetyMargin:       c.SafetyMargin,
		AllowTreadRotation: c.AllowTreadRotation,
		AllowRiserRotation: c.AllowRiserRotation,
	}
}

// Validate checks value ranges that the loaders cannot express.
func (c *Config) Validate() error {
	if c.Kerf < 0 {
		return fmt.Errorf("kerf must not be negative, got %.2f", c.Kerf)
	}
	if c.SafetyMargin < 0 {
		return fmt.Errorf("safety_margin must not be negative, got %.2f", c.SafetyMargin)
	}
	if c.MaxPlanks <= 0 {
		return fmt.Errorf("max_planks must be positive, got %d", c.MaxPlanks)
	}
	if c.MaxIterations <= 0 {
		return fmt.Errorf("max_iterations must be positive, got %d", c.MaxIterations)
	}
	switch c.Output {
	case OutputText, OutputJSON:
	default:
		return fmt.Errorf("unknown output format %q (want text or json)", c.Output)
	}
	if err := c.GCode.Validate(); err != nil {
		return fmt.Errorf("gcode: %w", err)
	}
	return nil
}

// Default returns the configuration used when nothing else is set.
func Default() *Config {
	c := model.DefaultConstraints()
	return &Config{
		Kerf:               c.SawBladeKerf,
		SafetyMargin:       c.SafetyMargin,
		AllowTreadRotation: c.AllowTreadRotation,
		AllowRiserRotation: c.AllowRiserRotation,
		MaxPlanks:          DefaultMaxPlanks,
		MaxIterations:      DefaultMaxIterations,
		Output:             DefaultOutput,
		Log:                logging.DefaultConfig(),
		GCode:              gcode.DefaultSettings(),
	}
}
