package model

import (
	"fmt"
	"math"
)

// PlankInventory holds the two independent plank catalogs.
type PlankInventory struct {
	Treads []PlankSpec `json:"treads"`
	Risers []PlankSpec `json:"risers"`
}

// DefaultInventory returns an inventory populated with common stock planks.
func DefaultInventory() PlankInventory {
	treads := []PlankSpec{
		NewPlankSpec("Oak tread 1000x400", 1000, 400, DefaultTreadThickness, 39.90),
		NewPlankSpec("Oak tread 1200x400", 1200, 400, DefaultTreadThickness, 47.50),
		NewPlankSpec("Oak tread 1500x400", 1500, 400, DefaultTreadThickness, 59.00),
	}
	for i := range treads {
		treads[i].HasNosing = true
		treads[i].NosingDepth = DefaultNosingDepth
	}
	return PlankInventory{
		Treads: treads,
		Risers: []PlankSpec{
			NewPlankSpec("Riser panel 900x400", 900, 400, DefaultRiserThickness, 7.92),
			NewPlankSpec("Riser panel 1360x400", 1360, 400, DefaultRiserThickness, 11.74),
			NewPlankSpec("Riser panel 2500x600", 2500, 600, DefaultRiserThickness, 29.90),
		},
	}
}

// Clone returns a deep copy so callers can hand out immutable snapshots.
func (inv PlankInventory) Clone() PlankInventory {
	return PlankInventory{
		Treads: cloneSpecs(inv.Treads),
		Risers: cloneSpecs(inv.Risers),
	}
}

func cloneSpecs(specs []PlankSpec) []PlankSpec {
	if specs == nil {
		return nil
	}
	out := make([]PlankSpec, len(specs))
	for i, s := range specs {
		if s.StockQuantity != nil {
			qty := *s.StockQuantity
			s.StockQuantity = &qty
		}
		out[i] = s
	}
	return out
}

// Catalog returns the catalog used for the given piece type.
func (inv PlankInventory) Catalog(t PieceType) []PlankSpec {
	if t == PieceTread {
		return inv.Treads
	}
	return inv.Risers
}

// FindByID returns a pointer to the spec with the given id in either catalog, or nil.
func (inv *PlankInventory) FindByID(id string) *PlankSpec {
	for i := range inv.Treads {
		if inv.Treads[i].ID == id {
			return &inv.Treads[i]
		}
	}
	for i := range inv.Risers {
		if inv.Risers[i].ID == id {
			return &inv.Risers[i]
		}
	}
	return nil
}

// Typical measurement ranges (mm). Values outside produce warnings, not errors.
type Bounds struct {
	Min, Max float64
}

var (
	WidthBounds     = Bounds{Min: 600, Max: 1500}
	DepthBounds     = Bounds{Min: 200, Max: 400}
	HeightBounds    = Bounds{Min: 150, Max: 220}
	ThicknessBounds = Bounds{Min: 15, Max: 30}
)

// Validation collects the findings for one record.
type Validation struct {
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

// OK reports whether no errors were found.
func (v Validation) OK() bool { return len(v.Errors) == 0 }

// ValidateMeasurement checks a step for missing values and unusual dimensions.
func ValidateMeasurement(m StepMeasurement) Validation {
	var v Validation
	fields := []struct {
		name  string
		value float64
	}{
		{"front width", m.FrontWidth},
		{"back width", m.BackWidth},
		{"left depth", m.LeftDepth},
		{"center depth", m.CenterDepth},
		{"right depth", m.RightDepth},
		{"riser height", m.RiserHeight},
	}
	for _, f := range fields {
		if f.value <= 0 {
			v.Errors = append(v.Errors, fmt.Sprintf("step %d: %s is missing or invalid", m.StepNumber, f.name))
		}
	}
	if !v.OK() {
		return v
	}

	checkBounds := func(label string, value float64, b Bounds) {
		if value < b.Min {
			v.Warnings = append(v.Warnings, fmt.Sprintf("step %d: %s (%.0fmm) is below typical minimum (%.0fmm)", m.StepNumber, label, value, b.Min))
		} else if value > b.Max {
			v.Warnings = append(v.Warnings, fmt.Sprintf("step %d: %s (%.0fmm) exceeds typical maximum (%.0fmm)", m.StepNumber, label, value, b.Max))
		}
	}
	checkBounds("width", m.MaxWidth(), WidthBounds)
	checkBounds("depth", m.MaxDepth(), DepthBounds)
	checkBounds("riser height", m.RiserHeight, HeightBounds)

	if diff := math.Abs(m.FrontWidth - m.BackWidth); diff > 50 {
		v.Warnings = append(v.Warnings, fmt.Sprintf("step %d: large difference between front (%.0fmm) and back (%.0fmm) widths", m.StepNumber, m.FrontWidth, m.BackWidth))
	}
	depthRange := m.MaxDepth() - min(m.LeftDepth, m.CenterDepth, m.RightDepth)
	if depthRange > 30 {
		v.Warnings = append(v.Warnings, fmt.Sprintf("step %d: significant depth variation (%.0fmm), step may be irregular", m.StepNumber, depthRange))
	}
	return v
}

// ValidatePlankSpec checks a plank for impossible values.
func ValidatePlankSpec(s PlankSpec) Validation {
	var v Validation
	if s.Width <= 0 {
		v.Errors = append(v.Errors, "plank width must be greater than 0")
	}
	if s.Length <= 0 {
		v.Errors = append(v.Errors, "plank length must be greater than 0")
	}
	if s.Thickness <= 0 {
		v.Errors = append(v.Errors, "plank thickness must be greater than 0")
	} else if s.Thickness < ThicknessBounds.Min || s.Thickness > ThicknessBounds.Max {
		v.Warnings = append(v.Warnings, fmt.Sprintf("plank thickness (%.0fmm) outside typical range (%.0f-%.0fmm)", s.Thickness, ThicknessBounds.Min, ThicknessBounds.Max))
	}
	if s.PricePerPlank < 0 {
		v.Errors = append(v.Errors, "plank price must be 0 or greater")
	}
	if s.HasNosing && s.NosingDepth < 0 {
		v.Errors = append(v.Errors, "planks with nosing must have a valid nosing depth")
	}
	if qty, ok := s.Stock(); ok && qty < 0 {
		v.Errors = append(v.Errors, "stock quantity cannot be negative")
	}
	return v
}

// ValidateInventory checks that both catalogs can serve an optimization run.
func ValidateInventory(inv PlankInventory) Validation {
	var v Validation
	if len(inv.Treads) == 0 {
		v.Errors = append(v.Errors, "no tread planks defined")
	} else {
		nosing := 0
		for _, s := range inv.Treads {
			if s.HasNosing {
				nosing++
			}
		}
		if nosing == 0 {
			v.Errors = append(v.Errors, "tread planks must have nosing")
		}
	}
	if len(inv.Risers) == 0 {
		v.Warnings = append(v.Warnings, "no riser planks defined")
	}

	for _, group := range []struct {
		kind  string
		specs []PlankSpec
	}{{"tread", inv.Treads}, {"riser", inv.Risers}} {
		for _, s := range group.specs {
			sv := ValidatePlankSpec(s)
			for _, e := range sv.Errors {
				v.Errors = append(v.Errors, fmt.Sprintf("%s plank %q: %s", group.kind, s.Label(), e))
			}
			for _, w := range sv.Warnings {
				v.Warnings = append(v.Warnings, fmt.Sprintf("%s plank %q: %s", group.kind, s.Label(), w))
			}
		}
	}
	return v
}
