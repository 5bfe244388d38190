package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/piwi3910/StairCut/internal/engine"
	"github.com/piwi3910/StairCut/internal/model"
	"github.com/piwi3910/StairCut/internal/project"
)

// optimizeReport is the JSON form of the optimize output.
type optimizeReport struct {
	Result       model.OptimizationResult   `json:"result"`
	ShoppingList model.ShoppingList         `json:"shopping_list"`
	Instructions []model.CuttingInstruction `json:"cutting_instructions"`
	Offcuts      []model.Offcut             `json:"offcuts"`
}

// NewOptimizeCommand creates the optimize command.
func NewOptimizeCommand() *cobra.Command {
	var noSave bool

	cmd := &cobra.Command{
		Use:   "optimize <project>",
		Short: "Compute the cheapest plank plan for a project",
		Long: `Compute the plank purchase and cutting plan for all steps of a project.

The cutting constraints stored in the project are used, with --kerf,
--safety-margin, --tread-rotation and --riser-rotation overriding them.
Projects without stored constraints take them from the configuration
(staircut.yaml or STAIRCUT_* environment variables). The plan and the
constraints used are stored in the project unless --no-save is given.`,
		Example: `  staircut optimize villa.staircut
  staircut optimize villa.staircut --kerf 3.2 --riser-rotation=false
  staircut optimize villa.staircut -o json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			path := args[0]

			p, err := loadProject(path)
			if err != nil {
				return err
			}
			if len(p.Measurements) == 0 {
				return fmt.Errorf("project %s has no measurements (use staircut import)", path)
			}

			constraints := projectConstraints(cmd, p)
			result, err := engine.New(constraints, optimizerOptions(ctx)...).Optimize(p.Measurements, p.Inventory)
			if err != nil {
				return fmt.Errorf("optimization failed: %w", err)
			}
			offcuts := model.DetectAllOffcuts(result, constraints.Clearance())

			if !noSave {
				p.Constraints = constraints
				p.Result = &result
				if err := project.Save(path, &p); err != nil {
					return err
				}
			}

			out := cmd.OutOrStdout()
			if wantsJSON(ctx) {
				return writeJSON(out, optimizeReport{
					Result:       result,
					ShoppingList: model.GenerateShoppingList(result),
					Instructions: model.GenerateCuttingInstructions(result),
					Offcuts:      offcuts,
				})
			}
			renderReport(out, result, offcuts)
			return nil
		},
	}

	cmd.Flags().BoolVar(&noSave, "no-save", false, "Do not store the plan in the project")

	return cmd
}
