package export

import (
	"fmt"

	"github.com/yofu/dxf"
	"github.com/yofu/dxf/color"
	"github.com/yofu/dxf/drawing"

	"github.com/piwi3910/StairCut/internal/model"
)

// DXF layer names.
const (
	LayerPlank  = "PLANK"
	LayerNosing = "NOSING"
	LayerTreads = "TREADS"
	LayerRisers = "RISERS"
	LayerLabels = "LABELS"
)

// dxfPlankGap separates consecutive planks along the X axis (mm).
const dxfPlankGap = 100.0

// ExportDXF writes every plank layout as outlines into a DXF drawing for CNC
// or CAD use. Planks are laid out left to right, treads first. DXF uses a
// Y-up coordinate system, so layout Y positions are mirrored.
func ExportDXF(path string, result model.OptimizationResult) error {
	if len(result.Layouts()) == 0 {
		return fmt.Errorf("no planks to export")
	}

	d := dxf.NewDrawing()
	layers := []struct {
		name string
		col  color.ColorNumber
	}{
		{LayerPlank, color.White},
		{LayerNosing, color.Yellow},
		{LayerTreads, color.Green},
		{LayerRisers, color.Cyan},
		{LayerLabels, color.Red},
	}
	for _, l := range layers {
		if _, err := d.AddLayer(l.name, l.col, dxf.DefaultLineType, false); err != nil {
			return fmt.Errorf("failed to add layer %s: %w", l.name, err)
		}
	}

	originX := 0.0
	for _, set := range []struct {
		t       model.PieceType
		layouts []model.PlankLayout
	}{
		{model.PieceTread, result.TreadLayouts},
		{model.PieceRiser, result.RiserLayouts},
	} {
		for _, l := range set.layouts {
			if err := drawPlank(d, l, set.t, originX); err != nil {
				return fmt.Errorf("failed to draw plank %s #%d: %w", l.Spec.Label(), l.Index+1, err)
			}
			originX += l.Spec.Width + dxfPlankGap
		}
	}

	if err := d.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save DXF: %w", err)
	}
	return nil
}

func drawPlank(d *drawing.Drawing, l model.PlankLayout, t model.PieceType, originX float64) error {
	spec := l.Spec
	// top maps layout Y (down from the top edge) to DXF Y (up from the bottom).
	top := spec.Length

	if err := d.ChangeLayer(LayerPlank); err != nil {
		return err
	}
	if err := rect(d, originX, 0, spec.Width, spec.Length); err != nil {
		return err
	}
	if _, err := d.Text(fmt.Sprintf("%s #%d", spec.Label(), l.Index+1), originX, top+20, 0, 20); err != nil {
		return err
	}

	usableTop := top
	if t == model.PieceTread && spec.HasNosing {
		nosing := spec.EffectiveNosingDepth()
		if err := d.ChangeLayer(LayerNosing); err != nil {
			return err
		}
		if err := rect(d, originX, top-nosing, spec.Width, nosing); err != nil {
			return err
		}
		if err := rect(d, originX, 0, spec.Width, nosing); err != nil {
			return err
		}
		usableTop -= nosing
	}

	pieceLayer := LayerRisers
	if t == model.PieceTread {
		pieceLayer = LayerTreads
	}
	for _, p := range l.Placements {
		x := originX + p.X
		y := usableTop - p.Y - p.PlacedHeight()

		if err := d.ChangeLayer(pieceLayer); err != nil {
			return err
		}
		if err := rect(d, x, y, p.PlacedWidth(), p.PlacedHeight()); err != nil {
			return err
		}

		if err := d.ChangeLayer(LayerLabels); err != nil {
			return err
		}
		h := min(p.PlacedHeight()/4, 30)
		if _, err := d.Text(p.ID, x+5, y+p.PlacedHeight()/2, 0, h); err != nil {
			return err
		}
	}
	return nil
}

// rect draws an axis-aligned rectangle from its lower-left corner as four lines.
func rect(d *drawing.Drawing, x, y, w, h float64) error {
	corners := [][2]float64{{x, y}, {x + w, y}, {x + w, y + h}, {x, y + h}}
	for i := range corners {
		a, b := corners[i], corners[(i+1)%len(corners)]
		if _, err := d.Line(a[0], a[1], 0, b[0], b[1], 0); err != nil {
			return err
		}
	}
	return nil
}
