package model

import (
	"time"

	"github.com/google/uuid"
)

// PieceType identifies which part of a step a piece is cut for.
type PieceType string

const (
	PieceTread PieceType = "tread" // Horizontal walking surface, carries the nosing
	PieceRiser PieceType = "riser" // Vertical front of the step
)

func (t PieceType) String() string {
	switch t {
	case PieceTread:
		return "Tread"
	case PieceRiser:
		return "Riser"
	default:
		return string(t)
	}
}

// NoseAxis names the piece dimension that carries the decorative nose.
type NoseAxis string

const (
	NoseAxisNone   NoseAxis = ""
	NoseAxisWidth  NoseAxis = "width"
	NoseAxisHeight NoseAxis = "height"
)

// Rotation is a placement angle in degrees.
type Rotation int

const (
	Rotation0   Rotation = 0
	Rotation90  Rotation = 90
	Rotation180 Rotation = 180
	Rotation270 Rotation = 270
)

// SwapsAxes reports whether the rotation exchanges width and height.
func (r Rotation) SwapsAxes() bool {
	return r == Rotation90 || r == Rotation270
}

// StepMeasurement holds the raw measurements of one staircase step (mm).
type StepMeasurement struct {
	StepNumber  int     `json:"step_number"`
	FrontWidth  float64 `json:"front_width"` // Width at the nose
	BackWidth   float64 `json:"back_width"`
	LeftDepth   float64 `json:"left_depth"`
	CenterDepth float64 `json:"center_depth"`
	RightDepth  float64 `json:"right_depth"`
	RiserHeight float64 `json:"riser_height"`
}

// MaxWidth returns the widest of the front and back widths.
func (m StepMeasurement) MaxWidth() float64 {
	return max(m.FrontWidth, m.BackWidth)
}

// MaxDepth returns the deepest of the three depth readings.
func (m StepMeasurement) MaxDepth() float64 {
	return max(m.LeftDepth, m.CenterDepth, m.RightDepth)
}

// Piece is a rectangle that has to be cut out of a plank.
type Piece struct {
	ID           string    `json:"id"`
	StepNumber   int       `json:"step_number"`
	Width        float64   `json:"width"`  // mm
	Height       float64   `json:"height"` // mm (depth for treads)
	Area         float64   `json:"area"`   // mm²
	Type         PieceType `json:"type"`
	RequiresNose bool      `json:"requires_nose"`
	NoseAxis     NoseAxis  `json:"nose_axis,omitempty"`
}

// DefaultNosingDepth is used when a nosing plank does not state its nosing depth.
const DefaultNosingDepth = 30.0

// Standard plank thicknesses (mm).
const (
	DefaultTreadThickness = 20.0
	DefaultRiserThickness = 18.0
)

// PlankSpec describes a purchasable plank.
type PlankSpec struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Supplier      string  `json:"supplier,omitempty"`
	Width         float64 `json:"width"`     // mm
	Length        float64 `json:"length"`    // mm, depth direction for treads
	Thickness     float64 `json:"thickness"` // mm
	HasNosing     bool    `json:"has_nosing"`
	NosingDepth   float64 `json:"nosing_depth,omitempty"` // mm, 0 means DefaultNosingDepth
	PricePerPlank float64 `json:"price_per_plank"`
	StockQuantity *int    `json:"stock_quantity,omitempty"` // nil means unlimited
}

func NewPlankSpec(name string, w, l, thickness, price float64) PlankSpec {
	return PlankSpec{
		ID:            uuid.New().String()[:8],
		Name:          name,
		Width:         w,
		Length:        l,
		Thickness:     thickness,
		PricePerPlank: price,
	}
}

// Label returns the name of the spec, falling back to its id.
func (s PlankSpec) Label() string {
	if s.Name != "" {
		return s.Name
	}
	return s.ID
}

// EffectiveNosingDepth returns the nosing depth, applying the default when unset.
func (s PlankSpec) EffectiveNosingDepth() float64 {
	if s.NosingDepth > 0 {
		return s.NosingDepth
	}
	return DefaultNosingDepth
}

// Area returns the full plank area in mm².
func (s PlankSpec) Area() float64 {
	return s.Width * s.Length
}

// UsableSize returns the width and length pieces of type t may occupy.
// Tread planks lose the nosing on both long edges.
func (s PlankSpec) UsableSize(t PieceType) (width, length float64) {
	width, length = s.Width, s.Length
	if t == PieceTread && s.HasNosing {
		length -= 2 * s.EffectiveNosingDepth()
	}
	return width, length
}

// Stock returns the stock quantity and whether a limit is set.
func (s PlankSpec) Stock() (int, bool) {
	if s.StockQuantity == nil {
		return 0, false
	}
	return *s.StockQuantity, true
}

// WithStock returns a copy of the spec limited to qty planks.
func (s PlankSpec) WithStock(qty int) PlankSpec {
	s.StockQuantity = &qty
	return s
}

// CuttingConstraints holds saw and rotation settings for a run.
type CuttingConstraints struct {
	SawBladeKerf       float64 `json:"saw_blade_kerf"` // mm removed per cut
	SafetyMargin       float64 `json:"safety_margin"`  // mm extra clearance
	AllowTreadRotation bool    `json:"allow_tread_rotation"`
	AllowRiserRotation bool    `json:"allow_riser_rotation"`
}

func DefaultConstraints() CuttingConstraints {
	return CuttingConstraints{
		SawBladeKerf:       10,
		SafetyMargin:       5,
		AllowTreadRotation: true,
		AllowRiserRotation: true,
	}
}

// Clearance is the gap reserved on the trailing edges of every piece.
func (c CuttingConstraints) Clearance() float64 {
	return c.SawBladeKerf + c.SafetyMargin
}

// PlacedPiece is a piece positioned on one plank instance.
type PlacedPiece struct {
	Piece
	X        float64  `json:"x"` // Position from the left edge (mm)
	Y        float64  `json:"y"` // Position from the top edge (mm)
	Rotation Rotation `json:"rotation"`
	PlankID  string   `json:"plank_id"`
}

// PlacedWidth returns the width the piece occupies on the plank.
func (p PlacedPiece) PlacedWidth() float64 {
	if p.Rotation.SwapsAxes() {
		return p.Height
	}
	return p.Width
}

// PlacedHeight returns the height the piece occupies on the plank.
func (p PlacedPiece) PlacedHeight() float64 {
	if p.Rotation.SwapsAxes() {
		return p.Width
	}
	return p.Height
}

// PlankLayout is the realized packing of one physical plank.
type PlankLayout struct {
	Spec       PlankSpec     `json:"plank_spec"`
	Index      int           `json:"plank_index"`
	Placements []PlacedPiece `json:"placed_pieces"`
	Efficiency float64       `json:"efficiency"` // percent of usable area
	WasteArea  float64       `json:"waste_area"` // mm²
	TotalArea  float64       `json:"total_area"` // usable mm²
}

// UsedArea returns the total area of the placed pieces.
func (l PlankLayout) UsedArea() float64 {
	var total float64
	for _, p := range l.Placements {
		total += p.Area
	}
	return total
}

// TypeResult is the outcome of optimizing one piece type.
type TypeResult struct {
	Type         PieceType     `json:"type"`
	Layouts      []PlankLayout `json:"layouts"`
	TotalCost    float64       `json:"total_cost"`
	TotalWaste   float64       `json:"total_waste"`
	AllPiecesFit bool          `json:"all_pieces_fit"`
	UnfitPieces  []Piece       `json:"unfit_pieces"`
}

// PlanksUsed counts plank instances per spec id.
type PlanksUsed struct {
	Treads map[string]int `json:"treads"`
	Risers map[string]int `json:"risers"`
}

// OptimizationResult holds the full solution for a staircase.
type OptimizationResult struct {
	TreadLayouts      []PlankLayout `json:"tread_layouts"`
	RiserLayouts      []PlankLayout `json:"riser_layouts"`
	PlanksUsed        PlanksUsed    `json:"total_planks_used"`
	TotalCost         float64       `json:"total_cost"`
	TotalWaste        float64       `json:"total_waste"`
	TotalArea         float64       `json:"total_area"`
	OverallEfficiency float64       `json:"overall_efficiency"`
	AllPiecesFit      bool          `json:"all_pieces_fit"`
	UnfitPieces       []Piece       `json:"unfit_pieces"`
	OptimizedAt       time.Time     `json:"optimized_at"`
}

// Layouts returns tread layouts followed by riser layouts.
func (r OptimizationResult) Layouts() []PlankLayout {
	all := make([]PlankLayout, 0, len(r.TreadLayouts)+len(r.RiserLayouts))
	all = append(all, r.TreadLayouts...)
	return append(all, r.RiserLayouts...)
}

// PlacedCount returns the number of placed pieces across all layouts.
func (r OptimizationResult) PlacedCount() int {
	n := 0
	for _, l := range r.Layouts() {
		n += len(l.Placements)
	}
	return n
}

// ClientInfo identifies the customer a staircase belongs to.
type ClientInfo struct {
	Name        string `json:"name"`
	PostalCode  string `json:"postal_code,omitempty"`
	Coordinates string `json:"coordinates,omitempty"`
}

// Project ties everything together for save/load.
type Project struct {
	ID           string              `json:"id"`
	Name         string              `json:"name"`
	Client       ClientInfo          `json:"client"`
	Measurements []StepMeasurement   `json:"measurements"`
	Inventory    PlankInventory      `json:"plank_inventory"`
	Constraints  CuttingConstraints  `json:"cutting_constraints"`
	Result       *OptimizationResult `json:"optimization_result,omitempty"`
	CreatedAt    time.Time           `json:"created_at"`
	ModifiedAt   time.Time           `json:"modified_at"`
}

func NewProject(name string) Project {
	now := time.Now().UTC()
	return Project{
		ID:           uuid.New().String(),
		Name:         name,
		Measurements: []StepMeasurement{},
		Inventory:    DefaultInventory(),
		Constraints:  DefaultConstraints(),
		CreatedAt:    now,
		ModifiedAt:   now,
	}
}
