// Package export provides functionality for exporting staircase plank
// layouts to various file formats.
package export

import (
	"fmt"
	"math"

	"github.com/go-pdf/fpdf"

	"github.com/piwi3910/StairCut/internal/model"
)

// pieceColor represents an RGB color for a placed piece.
type pieceColor struct {
	R, G, B int
}

// Treads and risers get separate palettes so mixed reports stay readable.
var (
	treadColors = []pieceColor{
		{R: 76, G: 175, B: 80},  // green
		{R: 0, G: 188, B: 212},  // cyan
		{R: 139, G: 195, B: 74}, // light green
		{R: 0, G: 150, B: 136},  // teal
	}
	riserColors = []pieceColor{
		{R: 33, G: 150, B: 243}, // blue
		{R: 255, G: 152, B: 0},  // orange
		{R: 156, G: 39, B: 176}, // purple
		{R: 244, G: 67, B: 54},  // red
	}
)

// Page layout constants (A4 landscape in mm).
const (
	pageWidth    = 297.0
	pageHeight   = 210.0
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	marginBottom = 15.0
	headerHeight = 12.0
	statsHeight  = 20.0
	drawAreaTop  = marginTop + headerHeight + 5.0
)

// ExportPDF generates a PDF document with one page per plank showing its
// layout diagram, followed by a summary page with the shopping list and
// overall statistics.
func ExportPDF(path string, result model.OptimizationResult, constraints model.CuttingConstraints) error {
	layouts := result.Layouts()
	if len(layouts) == 0 {
		return fmt.Errorf("no planks to export")
	}

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, marginBottom)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	for i, l := range result.TreadLayouts {
		pdf.AddPage()
		renderPlankPage(pdf, tr, l, model.PieceTread, i+1)
	}
	for i, l := range result.RiserLayouts {
		pdf.AddPage()
		renderPlankPage(pdf, tr, l, model.PieceRiser, i+1)
	}

	pdf.AddPage()
	renderSummaryPage(pdf, tr, result, constraints)

	return pdf.OutputFileAndClose(path)
}

// renderPlankPage draws a single plank layout on the current PDF page.
// Pieces are positioned on the usable area, which for tread planks starts
// below the nosing strip.
func renderPlankPage(pdf *fpdf.Fpdf, tr func(string) string, l model.PlankLayout, t model.PieceType, plankNum int) {
	spec := l.Spec

	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetXY(marginLeft, marginTop)
	title := fmt.Sprintf("%s plank %d: %s (%.0f x %.0f mm)", t, plankNum, spec.Label(), spec.Width, spec.Length)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, headerHeight, tr(title), "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetXY(marginLeft, marginTop+headerHeight)
	stats := fmt.Sprintf("Pieces: %d | Used: %.0f mm2 | Usable: %.0f mm2 | Efficiency: %.1f%% | Price: %s",
		len(l.Placements), l.UsedArea(), l.TotalArea, l.Efficiency, euro(spec.PricePerPlank))
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 5, tr(stats), "", 0, "L", false, 0, "")

	drawWidth := pageWidth - marginLeft - marginRight
	drawHeight := pageHeight - drawAreaTop - marginBottom - statsHeight

	scale := math.Min(drawWidth/spec.Width, drawHeight/spec.Length)
	canvasW := spec.Width * scale
	canvasH := spec.Length * scale
	offsetX := marginLeft + (drawWidth-canvasW)/2
	offsetY := drawAreaTop

	// Plank background (wood color)
	pdf.SetFillColor(210, 180, 140)
	pdf.SetDrawColor(100, 100, 100)
	pdf.SetLineWidth(0.5)
	pdf.Rect(offsetX, offsetY, canvasW, canvasH, "FD")

	usableTop := offsetY
	if t == model.PieceTread && spec.HasNosing {
		nosing := spec.EffectiveNosingDepth() * scale
		drawNosingStrip(pdf, offsetX, offsetY, canvasW, nosing)
		drawNosingStrip(pdf, offsetX, offsetY+canvasH-nosing, canvasW, nosing)
		usableTop += nosing
	}

	palette := riserColors
	if t == model.PieceTread {
		palette = treadColors
	}
	for i, p := range l.Placements {
		col := palette[i%len(palette)]
		pw := p.PlacedWidth() * scale
		ph := p.PlacedHeight() * scale
		px := offsetX + p.X*scale
		py := usableTop + p.Y*scale

		pdf.SetFillColor(col.R, col.G, col.B)
		pdf.SetDrawColor(30, 30, 30)
		pdf.SetLineWidth(0.3)
		pdf.Rect(px, py, pw, ph, "FD")

		// Label only if the rectangle is large enough
		if pw > 15 && ph > 8 {
			pdf.SetFont("Helvetica", "", labelFontSize(pw, ph))
			pdf.SetTextColor(0, 0, 0)

			label := fmt.Sprintf("Step %d", p.StepNumber)
			dims := fmt.Sprintf("%.0fx%.0f", p.Width, p.Height)
			labelW := pdf.GetStringWidth(label)
			dimsW := pdf.GetStringWidth(dims)

			if labelW < pw-2 {
				pdf.SetXY(px+(pw-labelW)/2, py+ph/2-4)
				pdf.CellFormat(labelW, 4, label, "", 0, "C", false, 0, "")
			}
			if ph > 14 && dimsW < pw-2 {
				pdf.SetXY(px+(pw-dimsW)/2, py+ph/2)
				pdf.CellFormat(dimsW, 4, dims, "", 0, "C", false, 0, "")
			}
		}
	}

	drawDimensionAnnotations(pdf, spec, offsetX, offsetY, canvasW, canvasH)
	drawPiecesLegend(pdf, tr, l, palette, offsetY+canvasH+5)
}

// drawNosingStrip marks a nosing edge that pieces may not use.
func drawNosingStrip(pdf *fpdf.Fpdf, x, y, w, h float64) {
	pdf.SetFillColor(160, 120, 80)
	pdf.SetDrawColor(100, 70, 40)
	pdf.SetLineWidth(0.2)
	pdf.Rect(x, y, w, h, "FD")
	drawHatchPattern(pdf, x, y, w, h)
}

// drawHatchPattern draws diagonal lines inside a rectangle.
func drawHatchPattern(pdf *fpdf.Fpdf, x, y, w, h float64) {
	pdf.SetDrawColor(100, 70, 40)
	pdf.SetLineWidth(0.15)

	spacing := 4.0
	maxDist := w + h

	for d := spacing; d < maxDist; d += spacing {
		x1 := x + math.Max(0, d-h)
		y1 := y + math.Min(h, d)
		x2 := x + math.Min(w, d)
		y2 := y + math.Max(0, d-w)

		pdf.Line(x1, y1, x2, y2)
	}
}

// drawDimensionAnnotations adds width and length labels outside the plank rectangle.
func drawDimensionAnnotations(pdf *fpdf.Fpdf, spec model.PlankSpec, offsetX, offsetY, canvasW, canvasH float64) {
	pdf.SetFont("Helvetica", "", 8)
	pdf.SetTextColor(80, 80, 80)

	widthLabel := fmt.Sprintf("%.0f mm", spec.Width)
	wLabelW := pdf.GetStringWidth(widthLabel)
	pdf.SetXY(offsetX+(canvasW-wLabelW)/2, offsetY+canvasH+1)
	pdf.CellFormat(wLabelW, 4, widthLabel, "", 0, "C", false, 0, "")

	lengthLabel := fmt.Sprintf("%.0f mm", spec.Length)
	pdf.TransformBegin()
	pdf.TransformRotate(90, offsetX-3, offsetY+canvasH/2)
	lLabelW := pdf.GetStringWidth(lengthLabel)
	pdf.SetXY(offsetX-3-lLabelW/2, offsetY+canvasH/2-2)
	pdf.CellFormat(lLabelW, 4, lengthLabel, "", 0, "C", false, 0, "")
	pdf.TransformEnd()

	pdf.SetTextColor(0, 0, 0)
}

// drawPiecesLegend renders a compact legend of placed pieces below the plank.
func drawPiecesLegend(pdf *fpdf.Fpdf, tr func(string) string, l model.PlankLayout, palette []pieceColor, startY float64) {
	if len(l.Placements) == 0 {
		return
	}

	pdf.SetFont("Helvetica", "B", 8)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(marginLeft, startY)
	pdf.CellFormat(30, 4, "Pieces placed:", "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	xPos := marginLeft + 32
	maxX := pageWidth - marginRight

	for i, p := range l.Placements {
		col := palette[i%len(palette)]
		label := fmt.Sprintf("%s (%.0fx%.0f)", p.ID, p.Width, p.Height)
		if p.Rotation != model.Rotation0 {
			label += fmt.Sprintf(" %d°", p.Rotation)
		}
		labelW := pdf.GetStringWidth(label) + 6

		if xPos+labelW > maxX {
			startY += 5
			xPos = marginLeft
		}

		pdf.SetFillColor(col.R, col.G, col.B)
		pdf.Rect(xPos, startY+0.5, 3, 3, "F")

		pdf.SetXY(xPos+4, startY)
		pdf.CellFormat(labelW-4, 4, tr(label), "", 0, "L", false, 0, "")

		xPos += labelW + 2
	}
}

// renderSummaryPage draws the final summary page with the shopping list and
// overall statistics.
func renderSummaryPage(pdf *fpdf.Fpdf, tr func(string) string, result model.OptimizationResult, constraints model.CuttingConstraints) {
	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetXY(marginLeft, marginTop)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 10, "Staircase Plank Summary", "", 0, "L", false, 0, "")

	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.5)
	pdf.Line(marginLeft, marginTop+12, pageWidth-marginRight, marginTop+12)

	y := marginTop + 18

	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(100, 7, "Overall Statistics", "", 0, "L", false, 0, "")
	y += 9

	summaryItems := []struct {
		label string
		value string
	}{
		{"Tread Planks", fmt.Sprintf("%d", len(result.TreadLayouts))},
		{"Riser Planks", fmt.Sprintf("%d", len(result.RiserLayouts))},
		{"Total Cost", euro(result.TotalCost)},
		{"Overall Efficiency", fmt.Sprintf("%.1f%%", result.OverallEfficiency)},
		{"Pieces Placed", fmt.Sprintf("%d", result.PlacedCount())},
		{"Unfit Pieces", fmt.Sprintf("%d", len(result.UnfitPieces))},
	}

	pdf.SetFont("Helvetica", "", 10)
	for _, item := range summaryItems {
		pdf.SetXY(marginLeft+5, y)
		pdf.CellFormat(60, 6, item.label+":", "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(40, 6, tr(item.value), "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		y += 7
	}

	y += 5

	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(100, 7, "Shopping List", "", 0, "L", false, 0, "")
	y += 9

	colWidths := []float64{30, 80, 50, 25, 40, 40}
	headers := []string{"Purpose", "Plank", "Dimensions", "Qty", "Unit Price", "Total"}

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	xPos := marginLeft
	for i, header := range headers {
		pdf.SetXY(xPos, y)
		pdf.CellFormat(colWidths[i], 6, header, "1", 0, "C", true, 0, "")
		xPos += colWidths[i]
	}
	y += 6

	list := model.GenerateShoppingList(result)
	pdf.SetFont("Helvetica", "", 9)
	for i, item := range list.Items {
		xPos = marginLeft
		rowData := []string{
			item.Purpose.String(),
			item.Spec.Label(),
			fmt.Sprintf("%.0f x %.0f x %.0f mm", item.Spec.Width, item.Spec.Length, item.Spec.Thickness),
			fmt.Sprintf("%d", item.Quantity),
			euro(item.UnitPrice),
			euro(item.TotalPrice),
		}

		if i%2 == 0 {
			pdf.SetFillColor(245, 245, 245)
		} else {
			pdf.SetFillColor(255, 255, 255)
		}

		for j, cell := range rowData {
			pdf.SetXY(xPos, y)
			pdf.CellFormat(colWidths[j], 6, tr(cell), "1", 0, "C", true, 0, "")
			xPos += colWidths[j]
		}
		y += 6
	}

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetXY(marginLeft+colWidths[0]+colWidths[1]+colWidths[2]+colWidths[3], y)
	pdf.CellFormat(colWidths[4], 6, "Grand Total", "1", 0, "C", false, 0, "")
	pdf.CellFormat(colWidths[5], 6, tr(euro(list.GrandTotal)), "1", 0, "C", false, 0, "")
	y += 6

	if len(result.UnfitPieces) > 0 {
		y += 8
		pdf.SetFont("Helvetica", "B", 11)
		pdf.SetTextColor(200, 0, 0)
		pdf.SetXY(marginLeft, y)
		pdf.CellFormat(200, 7, "WARNING: Pieces that do not fit any plank", "", 0, "L", false, 0, "")
		y += 8

		pdf.SetFont("Helvetica", "", 9)
		pdf.SetTextColor(0, 0, 0)

		for _, p := range result.UnfitPieces {
			pdf.SetXY(marginLeft+5, y)
			text := fmt.Sprintf("- %s (step %d): %.0f x %.0f mm", p.ID, p.StepNumber, p.Width, p.Height)
			pdf.CellFormat(200, 5, text, "", 0, "L", false, 0, "")
			y += 5
		}
	}

	y += 8
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(100, 7, "Cutting Constraints", "", 0, "L", false, 0, "")
	y += 9

	constraintItems := []struct {
		label string
		value string
	}{
		{"Saw Blade Kerf", fmt.Sprintf("%.1f mm", constraints.SawBladeKerf)},
		{"Safety Margin", fmt.Sprintf("%.1f mm", constraints.SafetyMargin)},
		{"Tread Rotation", yesNo(constraints.AllowTreadRotation)},
		{"Riser Rotation", yesNo(constraints.AllowRiserRotation)},
	}

	pdf.SetFont("Helvetica", "", 9)
	for _, item := range constraintItems {
		pdf.SetXY(marginLeft+5, y)
		pdf.CellFormat(50, 5, item.label+":", "", 0, "L", false, 0, "")
		pdf.CellFormat(30, 5, item.value, "", 0, "L", false, 0, "")
		y += 5
	}

	pdf.SetFont("Helvetica", "I", 8)
	pdf.SetTextColor(120, 120, 120)
	pdf.SetXY(marginLeft, pageHeight-marginBottom)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 4, "Generated by StairCut - Staircase Plank Optimizer", "", 0, "C", false, 0, "")
}

// labelFontSize returns an appropriate font size based on the rectangle dimensions.
func labelFontSize(w, h float64) float64 {
	minDim := math.Min(w, h)
	switch {
	case minDim > 40:
		return 8
	case minDim > 20:
		return 7
	default:
		return 6
	}
}

func euro(v float64) string {
	return fmt.Sprintf("€%.2f", v)
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}
