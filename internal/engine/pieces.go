package engine

import (
	"fmt"

	"github.com/piwi3910/StairCut/internal/model"
)

// ExtractTreadPieces creates one tread piece per step. The piece is sized to
// the widest width and deepest depth so it covers the whole step.
func ExtractTreadPieces(measurements []model.StepMeasurement) []model.Piece {
	pieces := make([]model.Piece, 0, len(measurements))
	for _, m := range measurements {
		w := m.MaxWidth()
		h := m.MaxDepth()
		pieces = append(pieces, model.Piece{
			ID:           fmt.Sprintf("tread-%d", m.StepNumber),
			StepNumber:   m.StepNumber,
			Width:        w,
			Height:       h,
			Area:         w * h,
			Type:         model.PieceTread,
			RequiresNose: true,
			NoseAxis:     model.NoseAxisWidth,
		})
	}
	return pieces
}

// ExtractRiserPieces creates one riser piece per step from its front width
// and riser height.
func ExtractRiserPieces(measurements []model.StepMeasurement) []model.Piece {
	pieces := make([]model.Piece, 0, len(measurements))
	for _, m := range measurements {
		pieces = append(pieces, model.Piece{
			ID:         fmt.Sprintf("riser-%d", m.StepNumber),
			StepNumber: m.StepNumber,
			Width:      m.FrontWidth,
			Height:     m.RiserHeight,
			Area:       m.FrontWidth * m.RiserHeight,
			Type:       model.PieceRiser,
		})
	}
	return pieces
}

// ExtractPieces returns the pieces of the given type.
func ExtractPieces(t model.PieceType, measurements []model.StepMeasurement) []model.Piece {
	if t == model.PieceTread {
		return ExtractTreadPieces(measurements)
	}
	return ExtractRiserPieces(measurements)
}
