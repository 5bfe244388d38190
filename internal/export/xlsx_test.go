package export

import (
	"math"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/piwi3910/StairCut/internal/model"
)

func TestExportWorkbook_Sheets(t *testing.T) {
	path := filepath.Join(t.TempDir(), "staircase.xlsx")

	if err := ExportWorkbook(path, buildTestResult()); err != nil {
		t.Fatalf("ExportWorkbook returned error: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("failed to open workbook: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	want := []string{SheetShoppingList, SheetInstructions, SheetLayouts}
	if len(sheets) != len(want) {
		t.Fatalf("expected sheets %v, got %v", want, sheets)
	}
	for i := range want {
		if sheets[i] != want[i] {
			t.Errorf("sheet %d: expected %q, got %q", i, want[i], sheets[i])
		}
	}
}

func TestExportWorkbook_ShoppingList(t *testing.T) {
	path := filepath.Join(t.TempDir(), "staircase.xlsx")
	if err := ExportWorkbook(path, buildTestResult()); err != nil {
		t.Fatalf("ExportWorkbook returned error: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("failed to open workbook: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(SheetShoppingList)
	if err != nil {
		t.Fatalf("failed to read rows: %v", err)
	}
	// header, tread spec, riser spec, grand total
	if len(rows) != 4 {
		t.Fatalf("expected 4 rows, got %d: %v", len(rows), rows)
	}
	if rows[1][0] != "Tread" || rows[1][1] != "Oak tread 1000x300" || rows[1][6] != "2" {
		t.Errorf("unexpected tread row %v", rows[1])
	}
	if rows[2][0] != "Riser" || rows[2][6] != "1" {
		t.Errorf("unexpected riser row %v", rows[2])
	}
	if rows[3][7] != "Grand Total" {
		t.Errorf("unexpected total row %v", rows[3])
	}
	total, err := strconv.ParseFloat(rows[3][8], 64)
	if err != nil || math.Abs(total-91.54) > 0.001 {
		t.Errorf("expected grand total 91.54, got %q", rows[3][8])
	}
}

func TestExportWorkbook_InstructionsAndLayouts(t *testing.T) {
	path := filepath.Join(t.TempDir(), "staircase.xlsx")
	if err := ExportWorkbook(path, buildTestResult()); err != nil {
		t.Fatalf("ExportWorkbook returned error: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("failed to open workbook: %v", err)
	}
	defer f.Close()

	instructions, err := f.GetRows(SheetInstructions)
	if err != nil {
		t.Fatalf("failed to read rows: %v", err)
	}
	if len(instructions) != 5 {
		t.Fatalf("expected header plus 4 instructions, got %d", len(instructions))
	}
	// Sorted by step: tread-1 and riser-1 come first
	if instructions[1][2] != "tread-1" || instructions[2][2] != "riser-1" {
		t.Errorf("unexpected instruction order: %v / %v", instructions[1], instructions[2])
	}

	layouts, err := f.GetRows(SheetLayouts)
	if err != nil {
		t.Fatalf("failed to read rows: %v", err)
	}
	if len(layouts) != 4 {
		t.Fatalf("expected header plus 3 plank rows, got %d", len(layouts))
	}
	if layouts[3][0] != "Riser" || layouts[3][3] != "2" {
		t.Errorf("unexpected riser layout row %v", layouts[3])
	}
}

func TestExportWorkbook_EmptyResult(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.xlsx")
	if err := ExportWorkbook(path, model.OptimizationResult{}); err == nil {
		t.Fatal("expected error for empty result, got nil")
	}
}
