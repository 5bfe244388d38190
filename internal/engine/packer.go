package engine

import (
	"math"
	"sort"

	"github.com/piwi3910/StairCut/internal/model"
)

const (
	// epsilon absorbs floating point noise when comparing edges (mm).
	epsilon = 0.001
	// positionWeight biases ties toward placements close to the plank origin.
	positionWeight = 0.1
)

// UsablePlank is a plank spec together with the area pieces may occupy.
type UsablePlank struct {
	Spec   model.PlankSpec
	Width  float64
	Length float64
}

// UsablePlankFor returns the usable rectangle of spec for pieces of type t.
func UsablePlankFor(spec model.PlankSpec, t model.PieceType) UsablePlank {
	w, l := spec.UsableSize(t)
	return UsablePlank{Spec: spec, Width: w, Length: l}
}

// Area returns the usable area in mm².
func (p UsablePlank) Area() float64 {
	return p.Width * p.Length
}

func (p UsablePlank) valid() bool {
	return p.Width > 0 && p.Length > 0
}

// PackingResult is the packing of one plank instance.
type PackingResult struct {
	Plank      UsablePlank
	Index      int
	Placements []model.PlacedPiece
	Efficiency float64
	WasteArea  float64
	TotalArea  float64
}

// BinPacker packs pieces into instances of a single plank spec.
type BinPacker struct {
	Rotations    []model.Rotation
	Kerf         float64
	SafetyMargin float64
}

func NewBinPacker(c model.CuttingConstraints, rotations []model.Rotation) BinPacker {
	return BinPacker{
		Rotations:    rotations,
		Kerf:         c.SawBladeKerf,
		SafetyMargin: c.SafetyMargin,
	}
}

func (bp BinPacker) clearance() float64 {
	return bp.Kerf + bp.SafetyMargin
}

// PackIntoPlanks fills plank instances one after the other until every piece
// is placed, maxPlanks instances are used, or an instance receives nothing.
// The input slice is not modified.
func (bp BinPacker) PackIntoPlanks(pieces []model.Piece, plank UsablePlank, maxPlanks int) []PackingResult {
	if !plank.valid() {
		return nil
	}

	remaining := make([]model.Piece, len(pieces))
	copy(remaining, pieces)
	// Largest first, stable so equal areas keep their input order
	sort.SliceStable(remaining, func(i, j int) bool {
		return remaining[i].Area > remaining[j].Area
	})

	var results []PackingResult
	for index := 0; len(remaining) > 0 && index < maxPlanks; index++ {
		result, unplaced := bp.packSingle(remaining, plank, index)
		if len(result.Placements) == 0 {
			break
		}
		results = append(results, result)
		remaining = unplaced
	}
	return results
}

// packSingle packs as many pieces as possible into one plank instance and
// returns the pieces left over, in their original order.
func (bp BinPacker) packSingle(pieces []model.Piece, plank UsablePlank, index int) (PackingResult, []model.Piece) {
	packer := newGuillotinePacker(plank.Width, plank.Length, bp.clearance())
	result := PackingResult{
		Plank:     plank,
		Index:     index,
		TotalArea: plank.Area(),
	}

	var unplaced []model.Piece
	for _, piece := range pieces {
		c, ok := packer.findPosition(piece, bp.allowedRotations(piece, plank.Spec))
		if !ok {
			unplaced = append(unplaced, piece)
			continue
		}
		packer.place(c)
		result.Placements = append(result.Placements, model.PlacedPiece{
			Piece:    piece,
			X:        c.x,
			Y:        c.y,
			Rotation: c.rotation,
		})
	}

	var used float64
	for _, p := range result.Placements {
		used += p.Area
	}
	if result.TotalArea > 0 {
		result.Efficiency = used / result.TotalArea * 100
	}
	result.WasteArea = result.TotalArea - used
	return result, unplaced
}

// allowedRotations filters the packer rotations for one piece. A nosed tread
// keeps its nose on the long edge of a nosing plank, so quarter turns and
// planks without nosing are ruled out.
func (bp BinPacker) allowedRotations(piece model.Piece, spec model.PlankSpec) []model.Rotation {
	if !piece.RequiresNose {
		return bp.Rotations
	}
	if !spec.HasNosing {
		return nil
	}
	allowed := make([]model.Rotation, 0, len(bp.Rotations))
	for _, r := range bp.Rotations {
		if !r.SwapsAxes() {
			allowed = append(allowed, r)
		}
	}
	return allowed
}

// guillotinePacker tracks the free space of a single plank instance.
type guillotinePacker struct {
	freeRects []rect
	clearance float64
}

type rect struct {
	x, y, w, h float64
}

func newGuillotinePacker(width, height, clearance float64) *guillotinePacker {
	return &guillotinePacker{
		freeRects: []rect{{0, 0, width, height}},
		clearance: clearance,
	}
}

// candidate is a feasible placement of a piece in one free rectangle.
// w and h are the rotated footprint including clearance.
type candidate struct {
	rectIdx  int
	x, y     float64
	w, h     float64
	rotation model.Rotation
	score    float64
}

// findPosition scores every free rectangle and rotation pair. The score is the
// shorter leftover side plus a small penalty for distance from the origin;
// the lowest score wins and the first one found wins ties.
func (gp *guillotinePacker) findPosition(piece model.Piece, rotations []model.Rotation) (candidate, bool) {
	best := candidate{rectIdx: -1}

	for i, r := range gp.freeRects {
		for _, rot := range rotations {
			w, h := piece.Width, piece.Height
			if rot.SwapsAxes() {
				w, h = h, w
			}
			wk := w + gp.clearance
			hk := h + gp.clearance
			if wk > r.w+epsilon || hk > r.h+epsilon {
				continue
			}

			score := math.Min(r.w-wk, r.h-hk) + (r.x+r.y)*positionWeight
			if best.rectIdx < 0 || score < best.score {
				best = candidate{
					rectIdx:  i,
					x:        r.x,
					y:        r.y,
					w:        wk,
					h:        hk,
					rotation: rot,
					score:    score,
				}
			}
		}
	}
	return best, best.rectIdx >= 0
}

// place commits a candidate and replaces its free rectangle with the strip to
// the right and the strip below. The cut runs along the shorter leftover so
// the larger remainder stays in one piece; both strips are disjoint.
func (gp *guillotinePacker) place(c candidate) {
	r := gp.freeRects[c.rectIdx]
	rightW := r.x + r.w - (c.x + c.w)
	belowH := r.y + r.h - (c.y + c.h)

	var right, below rect
	if rightW <= belowH {
		right = rect{x: c.x + c.w, y: r.y, w: rightW, h: c.h}
		below = rect{x: r.x, y: c.y + c.h, w: r.w, h: belowH}
	} else {
		right = rect{x: c.x + c.w, y: r.y, w: rightW, h: r.h}
		below = rect{x: r.x, y: c.y + c.h, w: c.w, h: belowH}
	}

	next := make([]rect, 0, len(gp.freeRects)+1)
	next = append(next, gp.freeRects[:c.rectIdx]...)
	next = append(next, gp.freeRects[c.rectIdx+1:]...)
	for _, nr := range []rect{right, below} {
		if nr.w > epsilon && nr.h > epsilon {
			next = append(next, nr)
		}
	}
	gp.freeRects = pruneContained(next)
}

// pruneContained removes any rect that is fully contained within another.
// Of two identical rects the first is kept.
func pruneContained(rects []rect) []rect {
	if len(rects) <= 1 {
		return rects
	}
	kept := make([]rect, 0, len(rects))
	for i, a := range rects {
		contained := false
		for j, b := range rects {
			if i == j || !containsRect(b, a) {
				continue
			}
			if !containsRect(a, b) || j < i {
				contained = true
				break
			}
		}
		if !contained {
			kept = append(kept, a)
		}
	}
	return kept
}

// containsRect returns true if outer fully contains inner.
func containsRect(outer, inner rect) bool {
	return outer.x <= inner.x+epsilon && outer.y <= inner.y+epsilon &&
		outer.x+outer.w >= inner.x+inner.w-epsilon &&
		outer.y+outer.h >= inner.y+inner.h-epsilon
}
