// Package commands implements the StairCut subcommands.
package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/piwi3910/StairCut/internal/cli/config"
	"github.com/piwi3910/StairCut/internal/engine"
	"github.com/piwi3910/StairCut/internal/model"
	"github.com/piwi3910/StairCut/internal/project"
)

// projectConstraints returns the cutting constraints stored in p with any
// cutting flag set on the command line applied on top. Projects without
// stored constraints use the configuration.
func projectConstraints(cmd *cobra.Command, p model.Project) model.CuttingConstraints {
	cfg := config.FromContext(cmd.Context())
	c := p.Constraints
	if c == (model.CuttingConstraints{}) {
		return cfg.Constraints()
	}

	flags := cmd.Flags()
	if flags.Changed("kerf") {
		c.SawBladeKerf = cfg.Kerf
	}
	if flags.Changed("safety-margin") {
		c.SafetyMargin = cfg.SafetyMargin
	}
	if flags.Changed("tread-rotation") {
		c.AllowTreadRotation = cfg.AllowTreadRotation
	}
	if flags.Changed("riser-rotation") {
		c.AllowRiserRotation = cfg.AllowRiserRotation
	}
	return c
}

func optimizerOptions(ctx context.Context) []engine.Option {
	cfg := config.FromContext(ctx)
	return []engine.Option{
		engine.WithLogger(config.Logger(ctx)),
		engine.WithMaxPlanks(cfg.MaxPlanks),
		engine.WithMaxIterations(cfg.MaxIterations),
	}
}

func loadProject(path string) (model.Project, error) {
	p, err := project.Load(path)
	if err != nil {
		return model.Project{}, fmt.Errorf("failed to load project %s: %w", path, err)
	}
	return p, nil
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func wantsJSON(ctx context.Context) bool {
	return config.FromContext(ctx).Output == config.OutputJSON
}
