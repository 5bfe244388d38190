package engine

import (
	"fmt"

	"github.com/piwi3910/StairCut/internal/model"
)

// ComparisonScenario defines a named set of constraints to compare.
type ComparisonScenario struct {
	Name        string
	Constraints model.CuttingConstraints
}

// ComparisonResult holds the optimization result and computed statistics
// for a single scenario.
type ComparisonResult struct {
	Scenario     ComparisonScenario
	Result       model.OptimizationResult
	PlanksUsed   int
	TotalCost    float64
	WastePercent float64
	UnfitCount   int
	Err          error
}

// CompareScenarios runs the optimization once per scenario and returns the
// results in scenario order. A scenario with invalid constraints carries its
// error instead of aborting the comparison.
func CompareScenarios(scenarios []ComparisonScenario, measurements []model.StepMeasurement, inventory model.PlankInventory, opts ...Option) []ComparisonResult {
	results := make([]ComparisonResult, 0, len(scenarios))

	for _, scenario := range scenarios {
		opt := New(scenario.Constraints, opts...)
		result, err := opt.Optimize(measurements, inventory)
		if err != nil {
			results = append(results, ComparisonResult{Scenario: scenario, Err: err})
			continue
		}

		wastePercent := 0.0
		if result.TotalArea > 0 {
			wastePercent = 100.0 - result.OverallEfficiency
		}

		results = append(results, ComparisonResult{
			Scenario:     scenario,
			Result:       result,
			PlanksUsed:   len(result.TreadLayouts) + len(result.RiserLayouts),
			TotalCost:    result.TotalCost,
			WastePercent: wastePercent,
			UnfitCount:   len(result.UnfitPieces),
		})
	}

	return results
}

// BuildDefaultScenarios generates a set of comparison scenarios based on
// the current constraints, varying key parameters to show what-if alternatives.
func BuildDefaultScenarios(base model.CuttingConstraints) []ComparisonScenario {
	scenarios := []ComparisonScenario{
		{
			Name:        "Current Settings",
			Constraints: base,
		},
	}

	// Thinner blade
	if base.SawBladeKerf > 1.0 {
		halfKerf := base
		halfKerf.SawBladeKerf = base.SawBladeKerf * 0.5
		scenarios = append(scenarios, ComparisonScenario{
			Name:        fmt.Sprintf("Kerf %.1fmm (half)", halfKerf.SawBladeKerf),
			Constraints: halfKerf,
		})
	}

	if base.SafetyMargin > 0 {
		noMargin := base
		noMargin.SafetyMargin = 0
		scenarios = append(scenarios, ComparisonScenario{
			Name:        "No Safety Margin",
			Constraints: noMargin,
		})
	}

	if base.AllowTreadRotation || base.AllowRiserRotation {
		fixed := base
		fixed.AllowTreadRotation = false
		fixed.AllowRiserRotation = false
		scenarios = append(scenarios, ComparisonScenario{
			Name:        "No Rotation",
			Constraints: fixed,
		})
	}

	return scenarios
}
