package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/piwi3910/StairCut/internal/engine"
)

// comparisonRow is the JSON form of one compared scenario.
type comparisonRow struct {
	Scenario     string  `json:"scenario"`
	PlanksUsed   int     `json:"planks_used"`
	TotalCost    float64 `json:"total_cost"`
	WastePercent float64 `json:"waste_percent"`
	UnfitCount   int     `json:"unfit_count"`
	Error        string  `json:"error,omitempty"`
}

// NewCompareCommand creates the compare command.
func NewCompareCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "compare <project>",
		Short: "Compare plank plans across what-if cutting settings",
		Long: `Run the optimizer for the project's cutting constraints and for a few
variations of them (half kerf, no safety margin, no rotation) and show the
plank count, cost and waste of each. Cutting flags override the stored
constraints as they do for optimize.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			p, err := loadProject(args[0])
			if err != nil {
				return err
			}
			if len(p.Measurements) == 0 {
				return fmt.Errorf("project %s has no measurements (use staircut import)", args[0])
			}

			scenarios := engine.BuildDefaultScenarios(projectConstraints(cmd, p))
			results := engine.CompareScenarios(scenarios, p.Measurements, p.Inventory, optimizerOptions(ctx)...)

			if wantsJSON(ctx) {
				rows := make([]comparisonRow, 0, len(results))
				for _, r := range results {
					row := comparisonRow{
						Scenario:     r.Scenario.Name,
						PlanksUsed:   r.PlanksUsed,
						TotalCost:    r.TotalCost,
						WastePercent: r.WastePercent,
						UnfitCount:   r.UnfitCount,
					}
					if r.Err != nil {
						row.Error = r.Err.Error()
					}
					rows = append(rows, row)
				}
				return writeJSON(cmd.OutOrStdout(), rows)
			}
			renderComparison(cmd.OutOrStdout(), results)
			return nil
		},
	}
}
