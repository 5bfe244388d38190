package model

import (
	"math"
	"sort"

	"github.com/google/uuid"
)

// Offcut represents a usable rectangular remnant left on a plank after cutting.
type Offcut struct {
	ID         string    `json:"id"`
	SpecID     string    `json:"spec_id"`
	SpecName   string    `json:"spec_name"`
	PieceType  PieceType `json:"piece_type"`  // Catalog the source plank came from
	PlankIndex int       `json:"plank_index"` // Index of the source plank in its layouts
	X          float64   `json:"x"`           // Position on the usable area (mm from left)
	Y          float64   `json:"y"`           // Position on the usable area (mm from top)
	Width      float64   `json:"width"`
	Height     float64   `json:"height"`
	Thickness  float64   `json:"thickness"`
	Value      float64   `json:"value"` // Share of the plank price, proportional to area
}

// Area returns the area of the offcut in square mm.
func (o Offcut) Area() float64 {
	return o.Width * o.Height
}

// ToPlankSpec turns an offcut into a single plank for the riser catalog.
// Offcuts never carry a nosing, so they cannot be reused for treads.
func (o Offcut) ToPlankSpec() PlankSpec {
	spec := NewPlankSpec("Offcut "+o.SpecName, o.Width, o.Height, o.Thickness, o.Value)
	return spec.WithStock(1)
}

// MinOffcutDimension is the minimum width or height (in mm) for a remnant
// to be considered a usable offcut. Remnants smaller than this are waste.
const MinOffcutDimension = 50.0

// MinOffcutArea is the minimum area (in sq mm) for a remnant to be considered usable.
const MinOffcutArea = 10000.0 // 100mm x 100mm equivalent

// DetectOffcuts finds the strips to the right of and below the bounding box
// of all pieces on one plank. clearance is the kerf plus safety margin
// reserved behind every piece.
func DetectOffcuts(l PlankLayout, t PieceType, clearance float64) []Offcut {
	plankW, plankH := l.Spec.UsableSize(t)
	newOffcut := func(x, y, w, h float64) Offcut {
		return Offcut{
			ID:         uuid.New().String()[:8],
			SpecID:     l.Spec.ID,
			SpecName:   l.Spec.Label(),
			PieceType:  t,
			PlankIndex: l.Index,
			X:          x,
			Y:          y,
			Width:      w,
			Height:     h,
			Thickness:  l.Spec.Thickness,
		}
	}

	var offcuts []Offcut
	if len(l.Placements) == 0 {
		offcuts = append(offcuts, newOffcut(0, 0, plankW, plankH))
	} else {
		var maxRight, maxBottom float64
		for _, p := range l.Placements {
			maxRight = math.Max(maxRight, p.X+p.PlacedWidth()+clearance)
			maxBottom = math.Max(maxBottom, p.Y+p.PlacedHeight()+clearance)
		}

		rightW := plankW - maxRight
		if usableRemnant(rightW, plankH) {
			offcuts = append(offcuts, newOffcut(maxRight, 0, rightW, plankH))
		}

		// Only up to the right edge of the pieces so it does not overlap the right strip
		bottomH := plankH - maxBottom
		bottomW := math.Min(maxRight, plankW)
		if usableRemnant(bottomW, bottomH) {
			offcuts = append(offcuts, newOffcut(0, maxBottom, bottomW, bottomH))
		}
	}

	if l.Spec.PricePerPlank > 0 {
		total := l.Spec.Area()
		for i := range offcuts {
			offcuts[i].Value = offcuts[i].Area() / total * l.Spec.PricePerPlank
		}
	}

	sort.Slice(offcuts, func(i, j int) bool {
		return offcuts[i].Area() > offcuts[j].Area()
	})
	return offcuts
}

func usableRemnant(w, h float64) bool {
	return w >= MinOffcutDimension && h >= MinOffcutDimension && w*h >= MinOffcutArea
}

// DetectAllOffcuts finds offcuts across all planks of an optimization result.
func DetectAllOffcuts(result OptimizationResult, clearance float64) []Offcut {
	var all []Offcut
	for _, l := range result.TreadLayouts {
		all = append(all, DetectOffcuts(l, PieceTread, clearance)...)
	}
	for _, l := range result.RiserLayouts {
		all = append(all, DetectOffcuts(l, PieceRiser, clearance)...)
	}
	return all
}

// TotalOffcutArea returns the total area of all offcuts in square mm.
func TotalOffcutArea(offcuts []Offcut) float64 {
	var total float64
	for _, o := range offcuts {
		total += o.Area()
	}
	return total
}
