package model

import (
	"fmt"
	"sort"
	"time"
)

// ShoppingListItem is one line of the plank purchase list.
type ShoppingListItem struct {
	Spec       PlankSpec `json:"plank_spec"`
	Quantity   int       `json:"quantity"`
	UnitPrice  float64   `json:"unit_price"`
	TotalPrice float64   `json:"total_price"`
	Purpose    PieceType `json:"purpose"`
}

// ShoppingList groups the planks of a result by spec.
type ShoppingList struct {
	Items          []ShoppingListItem `json:"items"`
	GrandTotal     float64            `json:"grand_total"`
	EstimatedWaste float64            `json:"estimated_waste"` // percent
	GeneratedAt    time.Time          `json:"generated_at"`
}

// GenerateShoppingList counts plank instances per spec. Items keep the order in
// which a spec first appears, treads before risers.
func GenerateShoppingList(result OptimizationResult) ShoppingList {
	type key struct {
		purpose PieceType
		id      string
	}
	index := make(map[key]int)
	var items []ShoppingListItem

	add := func(layouts []PlankLayout, purpose PieceType) {
		for _, l := range layouts {
			k := key{purpose, l.Spec.ID}
			if i, ok := index[k]; ok {
				items[i].Quantity++
				continue
			}
			index[k] = len(items)
			items = append(items, ShoppingListItem{
				Spec:      l.Spec,
				Quantity:  1,
				UnitPrice: l.Spec.PricePerPlank,
				Purpose:   purpose,
			})
		}
	}
	add(result.TreadLayouts, PieceTread)
	add(result.RiserLayouts, PieceRiser)

	var total float64
	for i := range items {
		items[i].TotalPrice = items[i].UnitPrice * float64(items[i].Quantity)
		total += items[i].TotalPrice
	}

	waste := 0.0
	if result.TotalArea > 0 {
		waste = 100 - result.OverallEfficiency
	}

	return ShoppingList{
		Items:          items,
		GrandTotal:     total,
		EstimatedWaste: waste,
		GeneratedAt:    time.Now().UTC(),
	}
}

// CuttingInstruction tells the workshop how to cut one piece.
type CuttingInstruction struct {
	Number          int       `json:"instruction_number"`
	StepNumber      int       `json:"step_number"`
	PieceID         string    `json:"piece_id"`
	PieceType       PieceType `json:"piece_type"`
	PlankID         string    `json:"plank_id"`
	PlankName       string    `json:"plank_name"`
	PlankIndex      int       `json:"plank_index"`
	Width           float64   `json:"width"`
	Height          float64   `json:"height"`
	Rotation        Rotation  `json:"rotation"`
	NoseOrientation string    `json:"nose_orientation,omitempty"`
	X               float64   `json:"x"`
	Y               float64   `json:"y"`
	Notes           []string  `json:"notes,omitempty"`
}

// GenerateCuttingInstructions lists every placed piece, sorted by step number.
// Instruction numbers follow layout order, treads first.
func GenerateCuttingInstructions(result OptimizationResult) []CuttingInstruction {
	var out []CuttingInstruction
	n := 1
	for _, l := range result.Layouts() {
		for _, p := range l.Placements {
			out = append(out, newCuttingInstruction(p, l, n))
			n++
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].StepNumber < out[j].StepNumber
	})
	return out
}

func newCuttingInstruction(p PlacedPiece, l PlankLayout, number int) CuttingInstruction {
	var notes []string
	if p.Rotation != Rotation0 {
		notes = append(notes, fmt.Sprintf("Rotate %d° before cutting", p.Rotation))
	}

	ci := CuttingInstruction{
		Number:     number,
		StepNumber: p.StepNumber,
		PieceID:    p.ID,
		PieceType:  p.Type,
		PlankID:    p.PlankID,
		PlankName:  l.Spec.Label(),
		PlankIndex: l.Index,
		Width:      p.Width,
		Height:     p.Height,
		Rotation:   p.Rotation,
		X:          p.X,
		Y:          p.Y,
	}

	if p.Type == PieceTread && l.Spec.HasNosing {
		edge := "long edge"
		if p.Rotation.SwapsAxes() {
			edge = "short edge"
		}
		notes = append(notes, "Nose on "+edge)
		ci.NoseOrientation = NoseOrientation(p.Rotation)
	}
	if number == 1 {
		notes = append(notes, "Safety: wear protective equipment")
	}
	ci.Notes = notes
	return ci
}

// NoseOrientation names the plank edge the nose faces for a rotation.
func NoseOrientation(r Rotation) string {
	switch r {
	case Rotation0:
		return "Front edge"
	case Rotation90:
		return "Right edge"
	case Rotation180:
		return "Back edge"
	case Rotation270:
		return "Left edge"
	default:
		return "Unknown"
	}
}
