package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/piwi3910/StairCut/internal/engine"
	"github.com/piwi3910/StairCut/internal/model"
)

func newTable(w io.Writer, title string) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	if title != "" {
		t.SetTitle(title)
	}
	return t
}

func money(v float64) string {
	return fmt.Sprintf("€%.2f", v)
}

func stockLabel(s model.PlankSpec) string {
	if qty, ok := s.Stock(); ok {
		return fmt.Sprintf("%d", qty)
	}
	return "unlimited"
}

// renderReport prints the full optimization report in text form.
func renderReport(w io.Writer, result model.OptimizationResult, offcuts []model.Offcut) {
	renderStats(w, engine.CalculateStats(result))
	renderShoppingList(w, model.GenerateShoppingList(result))
	renderLayouts(w, result)
	if len(offcuts) > 0 {
		renderOffcuts(w, offcuts)
	}
	if !result.AllPiecesFit {
		renderUnfit(w, result.UnfitPieces)
	}
}

func renderStats(w io.Writer, s engine.Stats) {
	t := newTable(w, "Summary")
	t.AppendHeader(table.Row{"", "Planks", "Pieces", "Cost", "Efficiency"})
	t.AppendRow(table.Row{"Treads", s.Treads.Planks, s.Treads.Pieces, money(s.Treads.Cost), fmt.Sprintf("%.1f%%", s.Treads.Efficiency)})
	t.AppendRow(table.Row{"Risers", s.Risers.Planks, s.Risers.Pieces, money(s.Risers.Cost), fmt.Sprintf("%.1f%%", s.Risers.Efficiency)})
	t.AppendFooter(table.Row{"Total", s.TotalPlanks, s.Treads.Pieces + s.Risers.Pieces, money(s.TotalCost), fmt.Sprintf("%.1f%%", s.OverallEfficiency)})
	t.Render()
}

func renderShoppingList(w io.Writer, list model.ShoppingList) {
	t := newTable(w, "Shopping List")
	t.AppendHeader(table.Row{"Purpose", "Plank", "Dimensions (mm)", "Qty", "Unit Price", "Total"})
	for _, item := range list.Items {
		t.AppendRow(table.Row{
			item.Purpose.String(),
			item.Spec.Label(),
			fmt.Sprintf("%.0f x %.0f x %.0f", item.Spec.Width, item.Spec.Length, item.Spec.Thickness),
			item.Quantity,
			money(item.UnitPrice),
			money(item.TotalPrice),
		})
	}
	t.AppendFooter(table.Row{"", "", "", "", "Grand Total", money(list.GrandTotal)})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 4, Align: text.AlignRight},
		{Number: 5, Align: text.AlignRight},
		{Number: 6, Align: text.AlignRight},
	})
	t.Render()
}

func renderLayouts(w io.Writer, result model.OptimizationResult) {
	t := newTable(w, "Plank Layouts")
	t.AppendHeader(table.Row{"Plank", "Spec", "Pieces", "Efficiency"})
	for _, l := range result.Layouts() {
		plankID := ""
		pieces := make([]string, 0, len(l.Placements))
		for _, p := range l.Placements {
			plankID = p.PlankID
			label := p.ID
			if p.Rotation != model.Rotation0 {
				label += fmt.Sprintf(" (%d°)", p.Rotation)
			}
			pieces = append(pieces, label)
		}
		t.AppendRow(table.Row{plankID, l.Spec.Label(), strings.Join(pieces, ", "), fmt.Sprintf("%.1f%%", l.Efficiency)})
	}
	t.Render()
}

func renderOffcuts(w io.Writer, offcuts []model.Offcut) {
	t := newTable(w, "Reusable Offcuts")
	t.AppendHeader(table.Row{"From", "Plank", "Size (mm)", "Value"})
	for _, o := range offcuts {
		t.AppendRow(table.Row{
			fmt.Sprintf("%s #%d", o.PieceType, o.PlankIndex+1),
			o.SpecName,
			fmt.Sprintf("%.0f x %.0f", o.Width, o.Height),
			money(o.Value),
		})
	}
	t.AppendFooter(table.Row{"", "", fmt.Sprintf("%.0f mm²", model.TotalOffcutArea(offcuts)), ""})
	t.Render()
}

func renderUnfit(w io.Writer, pieces []model.Piece) {
	t := newTable(w, "Pieces That Do Not Fit")
	t.AppendHeader(table.Row{"Piece", "Step", "Size (mm)"})
	for _, p := range pieces {
		t.AppendRow(table.Row{p.ID, p.StepNumber, fmt.Sprintf("%.0f x %.0f", p.Width, p.Height)})
	}
	t.Render()
}

func renderComparison(w io.Writer, results []engine.ComparisonResult) {
	t := newTable(w, "Scenario Comparison")
	t.AppendHeader(table.Row{"Scenario", "Planks", "Cost", "Waste", "Unfit"})
	for _, r := range results {
		if r.Err != nil {
			t.AppendRow(table.Row{r.Scenario.Name, "-", "-", "-", r.Err.Error()})
			continue
		}
		t.AppendRow(table.Row{r.Scenario.Name, r.PlanksUsed, money(r.TotalCost), fmt.Sprintf("%.1f%%", r.WastePercent), r.UnfitCount})
	}
	t.Render()
}

func renderInventory(w io.Writer, inv model.PlankInventory) {
	for _, c := range []struct {
		t     model.PieceType
		specs []model.PlankSpec
	}{
		{model.PieceTread, inv.Treads},
		{model.PieceRiser, inv.Risers},
	} {
		t := newTable(w, c.t.String()+" Planks")
		t.AppendHeader(table.Row{"ID", "Name", "Width", "Length", "Thickness", "Nosing", "Price", "Stock"})
		for _, s := range c.specs {
			nosing := "-"
			if s.HasNosing {
				nosing = fmt.Sprintf("%.0f", s.EffectiveNosingDepth())
			}
			t.AppendRow(table.Row{s.ID, s.Label(), s.Width, s.Length, s.Thickness, nosing, money(s.PricePerPlank), stockLabel(s)})
		}
		t.Render()
	}
}
