package engine

import "github.com/piwi3910/StairCut/internal/model"

// Aggregate merges the tread and riser results into one optimization result.
func Aggregate(treads, risers model.TypeResult) model.OptimizationResult {
	result := model.OptimizationResult{
		TreadLayouts: treads.Layouts,
		RiserLayouts: risers.Layouts,
		PlanksUsed: model.PlanksUsed{
			Treads: countBySpec(treads.Layouts),
			Risers: countBySpec(risers.Layouts),
		},
		TotalCost:    treads.TotalCost + risers.TotalCost,
		TotalWaste:   treads.TotalWaste + risers.TotalWaste,
		AllPiecesFit: treads.AllPiecesFit && risers.AllPiecesFit,
	}
	result.UnfitPieces = append(result.UnfitPieces, treads.UnfitPieces...)
	result.UnfitPieces = append(result.UnfitPieces, risers.UnfitPieces...)

	for _, l := range result.Layouts() {
		result.TotalArea += l.TotalArea
	}
	if result.TotalArea > 0 {
		result.OverallEfficiency = (result.TotalArea - result.TotalWaste) / result.TotalArea * 100
	}
	return result
}

func countBySpec(layouts []model.PlankLayout) map[string]int {
	counts := make(map[string]int)
	for _, l := range layouts {
		counts[l.Spec.ID]++
	}
	return counts
}

// TypeStats summarizes the planks of one piece type.
type TypeStats struct {
	Planks     int     `json:"planks"`
	Pieces     int     `json:"pieces"`
	Cost       float64 `json:"cost"`
	Efficiency float64 `json:"efficiency"`
}

// Stats summarizes an optimization result for reports.
type Stats struct {
	Treads            TypeStats `json:"treads"`
	Risers            TypeStats `json:"risers"`
	TotalPlanks       int       `json:"total_planks"`
	TotalCost         float64   `json:"total_cost"`
	OverallEfficiency float64   `json:"overall_efficiency"`
	UnfitPieces       int       `json:"unfit_pieces"`
}

// CalculateStats derives per-type plank counts, cost and efficiency.
func CalculateStats(result model.OptimizationResult) Stats {
	treads := typeStats(result.TreadLayouts)
	risers := typeStats(result.RiserLayouts)
	return Stats{
		Treads:            treads,
		Risers:            risers,
		TotalPlanks:       treads.Planks + risers.Planks,
		TotalCost:         result.TotalCost,
		OverallEfficiency: result.OverallEfficiency,
		UnfitPieces:       len(result.UnfitPieces),
	}
}

func typeStats(layouts []model.PlankLayout) TypeStats {
	var s TypeStats
	var area, used float64
	for _, l := range layouts {
		s.Planks++
		s.Pieces += len(l.Placements)
		s.Cost += l.Spec.PricePerPlank
		area += l.TotalArea
		used += l.UsedArea()
	}
	if area > 0 {
		s.Efficiency = used / area * 100
	}
	return s
}
