package commands

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/piwi3910/StairCut/internal/cli/config"
	"github.com/piwi3910/StairCut/internal/importer"
	"github.com/piwi3910/StairCut/internal/model"
	"github.com/piwi3910/StairCut/internal/project"
)

// NewImportCommand creates the import command.
func NewImportCommand() *cobra.Command {
	var (
		replace   bool
		inventory string
	)

	cmd := &cobra.Command{
		Use:   "import <project> [measurements]",
		Short: "Import step measurements or plank specs into a project",
		Long: `Import step measurements from a CSV or Excel file into a project.

Columns are matched by header name (step, front width, back width, left depth,
center depth, right depth, riser height). A sheet with only width, depth and
height columns is enough. Imported steps replace existing steps with the same
number unless --replace drops all existing measurements first.

Use --inventory to merge plank specs from a JSON inventory file.`,
		Example: `  staircut import villa.staircut steps.csv
  staircut import villa.staircut steps.xlsx --replace
  staircut import villa.staircut --inventory supplier.json`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := config.Logger(cmd.Context())
			path := args[0]
			if len(args) == 1 && inventory == "" {
				return fmt.Errorf("nothing to import: pass a measurements file or --inventory")
			}

			p, err := loadProject(path)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			errOut := cmd.ErrOrStderr()

			if len(args) == 2 {
				result := importer.ImportFile(args[1])
				for _, w := range result.Warnings {
					_, _ = fmt.Fprintf(errOut, "warning: %s\n", w)
				}
				for _, e := range result.Errors {
					_, _ = fmt.Fprintf(errOut, "error: %s\n", e)
				}
				if len(result.Measurements) == 0 {
					return fmt.Errorf("no measurements imported from %s", args[1])
				}
				logger.Info("imported measurements",
					zap.String("file", args[1]),
					zap.Int("steps", len(result.Measurements)),
					zap.Int("errors", len(result.Errors)))

				if replace {
					p.Measurements = mergeMeasurements(nil, result.Measurements)
				} else {
					p.Measurements = mergeMeasurements(p.Measurements, result.Measurements)
				}
				_, _ = fmt.Fprintf(out, "Imported %d measurements (%d rows rejected)\n", len(result.Measurements), len(result.Errors))
			}

			if inventory != "" {
				before := len(p.Inventory.Treads) + len(p.Inventory.Risers)
				merged, err := project.ImportInventory(inventory, p.Inventory)
				if err != nil {
					return fmt.Errorf("failed to import inventory %s: %w", inventory, err)
				}
				v := model.ValidateInventory(merged)
				for _, w := range v.Warnings {
					_, _ = fmt.Fprintf(errOut, "warning: %s\n", w)
				}
				if !v.OK() {
					return fmt.Errorf("imported inventory is invalid: %v", v.Errors)
				}
				p.Inventory = merged
				added := len(merged.Treads) + len(merged.Risers) - before
				_, _ = fmt.Fprintf(out, "Added %d plank specs\n", added)
			}

			// Inputs changed, the stored plan no longer applies
			p.Result = nil
			return project.Save(path, &p)
		},
	}

	cmd.Flags().BoolVar(&replace, "replace", false, "Replace all existing measurements")
	cmd.Flags().StringVar(&inventory, "inventory", "", "JSON inventory file with plank specs to merge")

	return cmd
}

// mergeMeasurements overlays imported steps on existing ones by step number.
func mergeMeasurements(existing, imported []model.StepMeasurement) []model.StepMeasurement {
	byStep := make(map[int]model.StepMeasurement, len(existing)+len(imported))
	for _, m := range existing {
		byStep[m.StepNumber] = m
	}
	for _, m := range imported {
		byStep[m.StepNumber] = m
	}

	merged := make([]model.StepMeasurement, 0, len(byStep))
	for _, m := range byStep {
		merged = append(merged, m)
	}
	sort.Slice(merged, func(i, j int) bool {
		return merged[i].StepNumber < merged[j].StepNumber
	})
	return merged
}
