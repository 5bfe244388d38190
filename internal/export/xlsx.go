package export

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/piwi3910/StairCut/internal/model"
)

// Workbook sheet names.
const (
	SheetShoppingList = "Shopping List"
	SheetInstructions = "Cutting Instructions"
	SheetLayouts      = "Layouts"
)

// ExportWorkbook writes the shopping list, the cutting instructions and a
// per-plank layout table to an Excel workbook.
func ExportWorkbook(path string, result model.OptimizationResult) error {
	if len(result.Layouts()) == 0 {
		return fmt.Errorf("no planks to export")
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetShoppingList); err != nil {
		return fmt.Errorf("failed to rename sheet: %w", err)
	}
	for _, name := range []string{SheetInstructions, SheetLayouts} {
		if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("failed to create sheet %q: %w", name, err)
		}
	}

	header, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"E6E6E6"}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	list := model.GenerateShoppingList(result)
	shopping := [][]interface{}{
		{"Purpose", "Plank", "Width (mm)", "Length (mm)", "Thickness (mm)", "Nosing", "Quantity", "Unit Price", "Total"},
	}
	for _, item := range list.Items {
		shopping = append(shopping, []interface{}{
			item.Purpose.String(), item.Spec.Label(),
			item.Spec.Width, item.Spec.Length, item.Spec.Thickness, yesNo(item.Spec.HasNosing),
			item.Quantity, item.UnitPrice, item.TotalPrice,
		})
	}
	shopping = append(shopping, []interface{}{"", "", "", "", "", "", "", "Grand Total", list.GrandTotal})

	instructions := [][]interface{}{
		{"#", "Step", "Piece", "Type", "Plank", "Width (mm)", "Height (mm)", "X (mm)", "Y (mm)", "Rotation", "Nose", "Notes"},
	}
	for _, ci := range model.GenerateCuttingInstructions(result) {
		instructions = append(instructions, []interface{}{
			ci.Number, ci.StepNumber, ci.PieceID, ci.PieceType.String(), ci.PlankID,
			ci.Width, ci.Height, ci.X, ci.Y, int(ci.Rotation), ci.NoseOrientation, strings.Join(ci.Notes, "; "),
		})
	}

	layouts := [][]interface{}{
		{"Type", "Plank", "Index", "Pieces", "Usable Area (mm²)", "Waste (mm²)", "Efficiency (%)", "Price"},
	}
	addLayouts := func(t model.PieceType, ls []model.PlankLayout) {
		for _, l := range ls {
			layouts = append(layouts, []interface{}{
				t.String(), l.Spec.Label(), l.Index, len(l.Placements),
				l.TotalArea, l.WasteArea, l.Efficiency, l.Spec.PricePerPlank,
			})
		}
	}
	addLayouts(model.PieceTread, result.TreadLayouts)
	addLayouts(model.PieceRiser, result.RiserLayouts)

	for _, s := range []struct {
		name string
		rows [][]interface{}
	}{
		{SheetShoppingList, shopping},
		{SheetInstructions, instructions},
		{SheetLayouts, layouts},
	} {
		if err := writeRows(f, s.name, s.rows, header); err != nil {
			return err
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

// writeRows fills a sheet from A1 and styles the first row as a header.
func writeRows(f *excelize.File, sheet string, rows [][]interface{}, headerStyle int) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write %s row %d: %w", sheet, i+1, err)
		}
	}
	if len(rows) == 0 {
		return nil
	}
	last, err := excelize.CoordinatesToCellName(len(rows[0]), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", last, headerStyle); err != nil {
		return fmt.Errorf("failed to style %s header: %w", sheet, err)
	}
	lastCol, _, err := excelize.SplitCellName(last)
	if err != nil {
		return err
	}
	return f.SetColWidth(sheet, "A", lastCol, 16)
}
