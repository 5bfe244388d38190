package engine

import (
	"fmt"
	"math"
	"sort"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/piwi3910/StairCut/internal/model"
)

const (
	// DefaultMaxPlanks caps the instances tried per spec when stock is unlimited.
	DefaultMaxPlanks = 20
	// DefaultMaxIterations caps the multi-spec fallback.
	DefaultMaxIterations = 100
)

// Optimizer picks the cheapest plank layouts for a staircase.
type Optimizer struct {
	Constraints   model.CuttingConstraints
	MaxPlanks     int
	MaxIterations int

	logger *zap.Logger
	now    func() time.Time
}

// Option configures an Optimizer.
type Option func(*Optimizer)

// WithLogger sets the logger used for run diagnostics.
func WithLogger(l *zap.Logger) Option {
	return func(o *Optimizer) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithMaxPlanks sets the per-spec instance cap for specs without a stock limit.
func WithMaxPlanks(n int) Option {
	return func(o *Optimizer) {
		if n > 0 {
			o.MaxPlanks = n
		}
	}
}

// WithMaxIterations sets the iteration cap of the multi-spec fallback.
func WithMaxIterations(n int) Option {
	return func(o *Optimizer) {
		if n > 0 {
			o.MaxIterations = n
		}
	}
}

func New(constraints model.CuttingConstraints, opts ...Option) *Optimizer {
	o := &Optimizer{
		Constraints:   constraints,
		MaxPlanks:     DefaultMaxPlanks,
		MaxIterations: DefaultMaxIterations,
		logger:        zap.NewNop(),
		now:           func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Optimize runs a full optimization with default options.
func Optimize(measurements []model.StepMeasurement, inventory model.PlankInventory, constraints model.CuttingConstraints) (model.OptimizationResult, error) {
	return New(constraints).Optimize(measurements, inventory)
}

// Optimize derives tread and riser pieces from the measurements and packs
// each type onto its own catalog. A *ConfigurationError is returned before
// any packing when a type with pieces has no usable plank. Pieces that cannot
// be placed are reported in the result, never as an error.
func (o *Optimizer) Optimize(measurements []model.StepMeasurement, inventory model.PlankInventory) (model.OptimizationResult, error) {
	if err := o.validateConstraints(); err != nil {
		return model.OptimizationResult{}, err
	}

	if err := checkStepNumbers(measurements); err != nil {
		return model.OptimizationResult{}, err
	}

	inv := inventory.Clone()
	steps := append([]model.StepMeasurement(nil), measurements...)

	treadPieces := ExtractTreadPieces(steps)
	riserPieces := ExtractRiserPieces(steps)

	treadPlanks, err := o.candidates(model.PieceTread, inv.Treads, len(treadPieces))
	if err != nil {
		return model.OptimizationResult{}, err
	}
	riserPlanks, err := o.candidates(model.PieceRiser, inv.Risers, len(riserPieces))
	if err != nil {
		return model.OptimizationResult{}, err
	}

	treads := o.optimizeType(model.PieceTread, treadPieces, treadPlanks)
	risers := o.optimizeType(model.PieceRiser, riserPieces, riserPlanks)

	result := Aggregate(treads, risers)
	result.OptimizedAt = o.now()

	o.logger.Info("optimization complete",
		zap.Int("steps", len(steps)),
		zap.Int("planks", len(result.TreadLayouts)+len(result.RiserLayouts)),
		zap.Float64("total_cost", result.TotalCost),
		zap.Float64("efficiency", result.OverallEfficiency),
		zap.Bool("all_pieces_fit", result.AllPiecesFit))
	return result, nil
}

// OptimizeTreads packs the tread pieces of the measurements onto specs.
// Only specs with nosing are considered.
func (o *Optimizer) OptimizeTreads(measurements []model.StepMeasurement, specs []model.PlankSpec) (model.TypeResult, error) {
	return o.optimizePieceType(model.PieceTread, measurements, specs)
}

// OptimizeRisers packs the riser pieces of the measurements onto specs.
func (o *Optimizer) OptimizeRisers(measurements []model.StepMeasurement, specs []model.PlankSpec) (model.TypeResult, error) {
	return o.optimizePieceType(model.PieceRiser, measurements, specs)
}

func (o *Optimizer) optimizePieceType(t model.PieceType, measurements []model.StepMeasurement, specs []model.PlankSpec) (model.TypeResult, error) {
	if err := o.validateConstraints(); err != nil {
		return model.TypeResult{}, err
	}
	if err := checkStepNumbers(measurements); err != nil {
		return model.TypeResult{}, err
	}
	pieces := ExtractPieces(t, measurements)
	// The clone keeps stock pointers private to this run.
	planks, err := o.candidates(t, model.PlankInventory{Treads: specs, Risers: specs}.Clone().Catalog(t), len(pieces))
	if err != nil {
		return model.TypeResult{}, err
	}
	return o.optimizeType(t, pieces, planks), nil
}

func (o *Optimizer) validateConstraints() error {
	c := o.Constraints
	if c.SawBladeKerf < 0 || c.SafetyMargin < 0 {
		return &ConfigurationError{
			Reason: fmt.Sprintf("kerf (%.1fmm) and safety margin (%.1fmm) must not be negative", c.SawBladeKerf, c.SafetyMargin),
			Err:    ErrInvalidConstraints,
		}
	}
	return nil
}

// checkStepNumbers rejects measurements that reuse a step number.
func checkStepNumbers(measurements []model.StepMeasurement) error {
	seen := make(map[int]bool, len(measurements))
	for _, m := range measurements {
		if seen[m.StepNumber] {
			return &ConfigurationError{
				Reason: fmt.Sprintf("step %d is measured more than once", m.StepNumber),
				Err:    ErrDuplicateStep,
			}
		}
		seen[m.StepNumber] = true
	}
	return nil
}

// candidates restricts a catalog to the planks usable for piece type t.
// Treads need nosing and a positive length once the nosing is deducted.
func (o *Optimizer) candidates(t model.PieceType, specs []model.PlankSpec, pieceCount int) ([]UsablePlank, error) {
	var planks []UsablePlank
	for _, s := range specs {
		if t == model.PieceTread && !s.HasNosing {
			continue
		}
		up := UsablePlankFor(s, t)
		if !up.valid() {
			o.logger.Debug("skipping plank without usable area",
				zap.String("type", string(t)),
				zap.String("spec", s.Label()))
			continue
		}
		planks = append(planks, up)
	}

	if len(planks) == 0 && pieceCount > 0 {
		reason := "no riser plank with a usable area"
		if t == model.PieceTread {
			reason = "no tread plank with nosing and a usable area"
		}
		return nil, &ConfigurationError{PieceType: t, Reason: reason, Err: ErrNoValidPlankSpec}
	}
	return planks, nil
}

// rotationsFor returns the rotations a piece type may use.
func (o *Optimizer) rotationsFor(t model.PieceType) []model.Rotation {
	if t == model.PieceTread {
		if o.Constraints.AllowTreadRotation {
			return []model.Rotation{model.Rotation0, model.Rotation180}
		}
		return []model.Rotation{model.Rotation0}
	}
	if o.Constraints.AllowRiserRotation {
		return []model.Rotation{model.Rotation0, model.Rotation90}
	}
	return []model.Rotation{model.Rotation0}
}

func (o *Optimizer) maxPlanksFor(spec model.PlankSpec) int {
	if qty, ok := spec.Stock(); ok {
		return qty
	}
	return o.MaxPlanks
}

// optimizeType tries every spec on its own first and keeps the cheapest one
// that places all pieces. When none does, specs are combined greedily.
func (o *Optimizer) optimizeType(t model.PieceType, pieces []model.Piece, planks []UsablePlank) model.TypeResult {
	result := model.TypeResult{Type: t, AllPiecesFit: true}
	if len(pieces) == 0 {
		return result
	}

	packer := NewBinPacker(o.Constraints, o.rotationsFor(t))
	packs, ok := o.bestSingleSpec(t, packer, pieces, planks)
	if !ok {
		o.logger.Debug("no single spec holds every piece, combining specs",
			zap.String("type", string(t)),
			zap.Int("pieces", len(pieces)))
		packs = o.combineSpecs(t, packer, pieces, planks)
	}

	result.Layouts = toLayouts(t, packs)
	placed := make(map[string]bool, len(pieces))
	for _, l := range result.Layouts {
		result.TotalCost += l.Spec.PricePerPlank
		result.TotalWaste += l.WasteArea
		for _, p := range l.Placements {
			placed[p.ID] = true
		}
	}
	for _, p := range pieces {
		if !placed[p.ID] {
			result.UnfitPieces = append(result.UnfitPieces, p)
		}
	}
	result.AllPiecesFit = len(result.UnfitPieces) == 0

	if !result.AllPiecesFit {
		ids := make([]string, len(result.UnfitPieces))
		for i, p := range result.UnfitPieces {
			ids[i] = p.ID
		}
		o.logger.Warn("pieces could not be placed",
			zap.String("type", string(t)),
			zap.Strings("pieces", ids))
	}
	return result
}

type specAttempt struct {
	packs    []PackingResult
	cost     float64
	complete bool
}

// bestSingleSpec packs every piece onto each candidate independently. The
// attempts share no state so they run concurrently; selection walks them in
// catalog order so the cheapest, earliest spec always wins.
func (o *Optimizer) bestSingleSpec(t model.PieceType, packer BinPacker, pieces []model.Piece, planks []UsablePlank) ([]PackingResult, bool) {
	attempts := make([]specAttempt, len(planks))

	var g errgroup.Group
	for i, plank := range planks {
		g.Go(func() error {
			maxPlanks := o.maxPlanksFor(plank.Spec)
			if maxPlanks <= 0 {
				return nil
			}
			packs := packer.PackIntoPlanks(pieces, plank, maxPlanks)
			placed := 0
			for _, p := range packs {
				placed += len(p.Placements)
			}
			attempts[i] = specAttempt{
				packs:    packs,
				cost:     packsCost(packs),
				complete: placed == len(pieces),
			}
			return nil
		})
	}
	_ = g.Wait()

	best := -1
	for i, a := range attempts {
		o.logger.Debug("single spec attempt",
			zap.String("type", string(t)),
			zap.String("spec", planks[i].Spec.Label()),
			zap.Int("planks", len(a.packs)),
			zap.Float64("cost", a.cost),
			zap.Bool("complete", a.complete))
		if a.complete && (best < 0 || a.cost < attempts[best].cost) {
			best = i
		}
	}
	if best < 0 {
		return nil, false
	}
	return attempts[best].packs, true
}

// combineSpecs fills one plank at a time, each time committing the spec whose
// fresh instance places the most remaining pieces. It stops when everything is
// placed, nothing more fits, stock runs out or the iteration cap is hit.
func (o *Optimizer) combineSpecs(t model.PieceType, packer BinPacker, pieces []model.Piece, planks []UsablePlank) []PackingResult {
	order := make([]UsablePlank, len(planks))
	copy(order, planks)
	sort.SliceStable(order, func(i, j int) bool {
		return areaPerPrice(order[i].Spec) > areaPerPrice(order[j].Spec)
	})

	used := make(map[string]int, len(order))
	remaining := append([]model.Piece(nil), pieces...)
	var packs []PackingResult

	iterations := 0
	for ; len(remaining) > 0 && iterations < o.MaxIterations; iterations++ {
		var best *PackingResult
		for _, plank := range order {
			if qty, ok := plank.Spec.Stock(); ok && used[plank.Spec.ID] >= qty {
				continue
			}
			res := packer.PackIntoPlanks(remaining, plank, 1)
			if len(res) > 0 && (best == nil || len(res[0].Placements) > len(best.Placements)) {
				best = &res[0]
			}
		}
		if best == nil {
			break
		}

		used[best.Plank.Spec.ID]++
		packs = append(packs, *best)
		remaining = withoutPlaced(remaining, best.Placements)
	}

	if len(remaining) > 0 && iterations >= o.MaxIterations {
		o.logger.Warn("iteration cap reached",
			zap.String("type", string(t)),
			zap.Int("iterations", iterations),
			zap.Int("remaining", len(remaining)))
	}
	return packs
}

// areaPerPrice ranks specs for the multi-spec fallback. Free planks come first.
func areaPerPrice(s model.PlankSpec) float64 {
	if s.PricePerPlank <= 0 {
		return math.Inf(1)
	}
	return s.Area() / s.PricePerPlank
}

func packsCost(packs []PackingResult) float64 {
	var cost float64
	for _, p := range packs {
		cost += p.Plank.Spec.PricePerPlank
	}
	return cost
}

func withoutPlaced(pieces []model.Piece, placed []model.PlacedPiece) []model.Piece {
	ids := make(map[string]bool, len(placed))
	for _, p := range placed {
		ids[p.ID] = true
	}
	kept := pieces[:0:0]
	for _, p := range pieces {
		if !ids[p.ID] {
			kept = append(kept, p)
		}
	}
	return kept
}

// toLayouts numbers the packed instances and stamps each placement with the
// id of its plank instance.
func toLayouts(t model.PieceType, packs []PackingResult) []model.PlankLayout {
	layouts := make([]model.PlankLayout, 0, len(packs))
	for i, p := range packs {
		plankID := fmt.Sprintf("%s-%s-%d", string(t), p.Plank.Spec.ID, i+1)
		placements := make([]model.PlacedPiece, len(p.Placements))
		for j, pp := range p.Placements {
			pp.PlankID = plankID
			placements[j] = pp
		}
		layouts = append(layouts, model.PlankLayout{
			Spec:       p.Plank.Spec,
			Index:      i,
			Placements: placements,
			Efficiency: p.Efficiency,
			WasteArea:  p.WasteArea,
			TotalArea:  p.TotalArea,
		})
	}
	return layouts
}
