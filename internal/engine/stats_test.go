package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/piwi3910/StairCut/internal/model"
)

func layoutFor(spec model.PlankSpec, totalArea float64, pieceAreas ...float64) model.PlankLayout {
	l := model.PlankLayout{Spec: spec, TotalArea: totalArea}
	used := 0.0
	for _, a := range pieceAreas {
		l.Placements = append(l.Placements, model.PlacedPiece{Piece: model.Piece{Area: a}})
		used += a
	}
	l.WasteArea = totalArea - used
	l.Efficiency = used / totalArea * 100
	return l
}

func TestAggregate(t *testing.T) {
	tSpec := treadSpec("Tread", 1000, 400, 40)
	rSpec := riserSpec("Riser", 1360, 400, 12)

	treads := model.TypeResult{
		Type:         model.PieceTread,
		Layouts:      []model.PlankLayout{layoutFor(tSpec, 1000, 600), layoutFor(tSpec, 1000, 400)},
		TotalCost:    80,
		TotalWaste:   1000,
		AllPiecesFit: true,
	}
	risers := model.TypeResult{
		Type:         model.PieceRiser,
		Layouts:      []model.PlankLayout{layoutFor(rSpec, 2000, 1500)},
		TotalCost:    12,
		TotalWaste:   500,
		AllPiecesFit: false,
		UnfitPieces:  []model.Piece{{ID: "riser-9"}},
	}

	result := Aggregate(treads, risers)

	assert.Len(t, result.TreadLayouts, 2)
	assert.Len(t, result.RiserLayouts, 1)
	assert.InDelta(t, 92.0, result.TotalCost, 1e-9)
	assert.InDelta(t, 1500.0, result.TotalWaste, 1e-9)
	assert.InDelta(t, 4000.0, result.TotalArea, 1e-9)
	assert.InDelta(t, 62.5, result.OverallEfficiency, 1e-9)
	assert.False(t, result.AllPiecesFit)
	assert.Equal(t, []model.Piece{{ID: "riser-9"}}, result.UnfitPieces)
	assert.Equal(t, map[string]int{tSpec.ID: 2}, result.PlanksUsed.Treads)
	assert.Equal(t, map[string]int{rSpec.ID: 1}, result.PlanksUsed.Risers)
}

func TestAggregate_Empty(t *testing.T) {
	result := Aggregate(
		model.TypeResult{Type: model.PieceTread, AllPiecesFit: true},
		model.TypeResult{Type: model.PieceRiser, AllPiecesFit: true},
	)

	assert.True(t, result.AllPiecesFit)
	assert.Zero(t, result.TotalArea)
	assert.Zero(t, result.OverallEfficiency)
	assert.Empty(t, result.PlanksUsed.Treads)
}

func TestCalculateStats(t *testing.T) {
	tSpec := treadSpec("Tread", 1000, 400, 40)
	rSpec := riserSpec("Riser", 1360, 400, 12)

	result := Aggregate(
		model.TypeResult{
			Type:         model.PieceTread,
			Layouts:      []model.PlankLayout{layoutFor(tSpec, 1000, 600, 200), layoutFor(tSpec, 1000, 400)},
			TotalCost:    80,
			TotalWaste:   800,
			AllPiecesFit: true,
		},
		model.TypeResult{
			Type:         model.PieceRiser,
			Layouts:      []model.PlankLayout{layoutFor(rSpec, 2000, 500)},
			TotalCost:    12,
			TotalWaste:   1500,
			AllPiecesFit: true,
		},
	)

	stats := CalculateStats(result)

	assert.Equal(t, 2, stats.Treads.Planks)
	assert.Equal(t, 3, stats.Treads.Pieces)
	assert.InDelta(t, 80.0, stats.Treads.Cost, 1e-9)
	assert.InDelta(t, 60.0, stats.Treads.Efficiency, 1e-9)
	assert.Equal(t, 1, stats.Risers.Planks)
	assert.InDelta(t, 25.0, stats.Risers.Efficiency, 1e-9)
	assert.Equal(t, 3, stats.TotalPlanks)
	assert.InDelta(t, 92.0, stats.TotalCost, 1e-9)
	assert.Zero(t, stats.UnfitPieces)
}
