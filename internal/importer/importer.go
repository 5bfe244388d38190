// Package importer provides CSV and Excel import functionality for staircase
// measurements. It supports automatic delimiter detection, flexible column
// mapping, and case-insensitive header recognition.
package importer

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/piwi3910/StairCut/internal/model"
)

// ImportResult holds the results of an import operation.
type ImportResult struct {
	Measurements []model.StepMeasurement
	Errors       []string
	Warnings     []string
}

// ColumnMapping maps semantic column roles to their indices in the data.
// A value of -1 means the column is absent.
type ColumnMapping struct {
	Step        int
	FrontWidth  int
	BackWidth   int
	LeftDepth   int
	CenterDepth int
	RightDepth  int
	RiserHeight int
}

// headerAliases maps canonical column names to their accepted aliases (all lowercase).
var headerAliases = map[string][]string{
	"step":   {"step", "step number", "step_number", "nr", "no", "#", "trede"},
	"front":  {"front width", "front_width", "front", "width", "w", "breedte"},
	"back":   {"back width", "back_width", "back", "rear width"},
	"left":   {"left depth", "left_depth", "left"},
	"center": {"center depth", "center_depth", "centre depth", "center", "centre", "depth", "d", "diepte"},
	"right":  {"right depth", "right_depth", "right"},
	"riser":  {"riser height", "riser_height", "riser", "height", "h", "rise", "hoogte"},
}

// DetectCSVDelimiter reads the file content and determines the most likely CSV delimiter.
// It tries comma, semicolon, tab, and pipe. The delimiter that produces the most
// consistent (non-one) column count across lines wins.
func DetectCSVDelimiter(data []byte) rune {
	candidates := []rune{',', ';', '\t', '|'}
	bestDelimiter := ','
	bestScore := 0

	for _, delim := range candidates {
		reader := csv.NewReader(bytes.NewReader(data))
		reader.Comma = delim
		reader.LazyQuotes = true
		reader.FieldsPerRecord = -1

		records, err := reader.ReadAll()
		if err != nil || len(records) < 1 {
			continue
		}

		// Only consider delimiters that produce more than 1 column
		firstCols := len(records[0])
		if firstCols < 2 {
			continue
		}

		score := 0
		for _, row := range records {
			if len(row) == firstCols {
				score++
			}
		}

		weighted := score*10 + firstCols
		if weighted > bestScore {
			bestScore = weighted
			bestDelimiter = delim
		}
	}

	return bestDelimiter
}

// DetectColumns examines a header row and returns a ColumnMapping.
// Returns the mapping and true if a header was detected, or the positional
// mapping (step, front, back, left, center, right, riser) and false otherwise.
func DetectColumns(row []string) (ColumnMapping, bool) {
	mapping := ColumnMapping{-1, -1, -1, -1, -1, -1, -1}
	slots := map[string]*int{
		"step":   &mapping.Step,
		"front":  &mapping.FrontWidth,
		"back":   &mapping.BackWidth,
		"left":   &mapping.LeftDepth,
		"center": &mapping.CenterDepth,
		"right":  &mapping.RightDepth,
		"riser":  &mapping.RiserHeight,
	}

	isHeader := false
	for i, cell := range row {
		normalized := strings.ToLower(strings.TrimSpace(cell))
		for role, aliases := range headerAliases {
			for _, alias := range aliases {
				if normalized == alias {
					isHeader = true
					if *slots[role] == -1 {
						*slots[role] = i
					}
				}
			}
		}
	}

	if !isHeader {
		return ColumnMapping{
			Step:        0,
			FrontWidth:  1,
			BackWidth:   2,
			LeftDepth:   3,
			CenterDepth: 4,
			RightDepth:  5,
			RiserHeight: 6,
		}, false
	}

	return mapping, true
}

// getCell safely retrieves a cell value from a row by column index.
// Returns empty string if the index is out of range or negative.
func getCell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// parseNumber accepts both "280.5" and "280,5".
func parseNumber(s string) (float64, error) {
	if !strings.Contains(s, ".") {
		s = strings.Replace(s, ",", ".", 1)
	}
	return strconv.ParseFloat(s, 64)
}

// parseRow extracts a StepMeasurement from a row using the given column mapping.
// Back width falls back to the front width, and left and right depths fall back
// to the center depth, so a simple width/depth/height sheet is enough.
func parseRow(row []string, mapping ColumnMapping, rowLabel string, stepCount int) (model.StepMeasurement, string) {
	m := model.StepMeasurement{StepNumber: stepCount + 1}

	if s := getCell(row, mapping.Step); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 {
			return m, fmt.Sprintf("%s: Invalid step number '%s'", rowLabel, s)
		}
		m.StepNumber = n
	}

	fields := []struct {
		name     string
		idx      int
		dst      *float64
		fallback *float64
	}{
		{"front width", mapping.FrontWidth, &m.FrontWidth, nil},
		{"center depth", mapping.CenterDepth, &m.CenterDepth, nil},
		{"riser height", mapping.RiserHeight, &m.RiserHeight, nil},
		{"back width", mapping.BackWidth, &m.BackWidth, &m.FrontWidth},
		{"left depth", mapping.LeftDepth, &m.LeftDepth, &m.CenterDepth},
		{"right depth", mapping.RightDepth, &m.RightDepth, &m.CenterDepth},
	}
	for _, f := range fields {
		s := getCell(row, f.idx)
		if s == "" {
			if f.fallback == nil {
				return m, fmt.Sprintf("%s: Missing %s value", rowLabel, f.name)
			}
			*f.dst = *f.fallback
			continue
		}
		v, err := parseNumber(s)
		if err != nil {
			return m, fmt.Sprintf("%s: Invalid %s '%s'", rowLabel, f.name, s)
		}
		if v <= 0 {
			return m, fmt.Sprintf("%s: %s must be positive", rowLabel, strings.ToUpper(f.name[:1])+f.name[1:])
		}
		*f.dst = v
	}

	return m, ""
}

// isEmptyRow returns true if the row has no meaningful content.
func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// ImportCSV imports measurements from a CSV file.
// It automatically detects the delimiter and maps columns by header names.
// Supports comma, semicolon, tab, and pipe delimiters.
func ImportCSV(path string) ImportResult {
	result := ImportResult{}

	data, err := os.ReadFile(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open file: %v", err))
		return result
	}

	if len(bytes.TrimSpace(data)) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	delimiter := DetectCSVDelimiter(data)
	if delimiter != ',' {
		delimName := map[rune]string{';': "semicolon", '\t': "tab", '|': "pipe"}[delimiter]
		result.Warnings = append(result.Warnings, fmt.Sprintf("Detected %s delimiter", delimName))
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = delimiter
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read CSV: %v", err))
		return result
	}

	if len(records) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	return importFromRows(records, "Line", result.Warnings)
}

// ImportCSVFromReader imports measurements from a CSV reader with a specific delimiter.
func ImportCSVFromReader(reader io.Reader, delimiter rune) ImportResult {
	result := ImportResult{}

	csvReader := csv.NewReader(reader)
	csvReader.Comma = delimiter
	csvReader.LazyQuotes = true
	csvReader.FieldsPerRecord = -1

	records, err := csvReader.ReadAll()
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read CSV: %v", err))
		return result
	}

	if len(records) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	return importFromRows(records, "Line", nil)
}

// ImportExcel imports measurements from an Excel (.xlsx) file.
// Reads the first sheet and auto-detects column mapping from headers.
func ImportExcel(path string) ImportResult {
	result := ImportResult{}

	f, err := excelize.OpenFile(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open Excel file: %v", err))
		return result
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		result.Errors = append(result.Errors, "Excel file has no sheets")
		return result
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read Excel data: %v", err))
		return result
	}

	if len(rows) == 0 {
		result.Errors = append(result.Errors, "Sheet is empty")
		return result
	}

	return importFromRows(rows, "Row", nil)
}

// ImportFile picks the CSV or Excel importer from the file extension.
func ImportFile(path string) ImportResult {
	lower := strings.ToLower(path)
	if strings.HasSuffix(lower, ".xlsx") || strings.HasSuffix(lower, ".xlsm") {
		return ImportExcel(path)
	}
	return ImportCSV(path)
}

// importFromRows is the shared import logic for both CSV and Excel data.
// It detects headers, maps columns, parses each row and runs the measurement
// checks, turning unusual dimensions into warnings.
func importFromRows(rows [][]string, rowPrefix string, initialWarnings []string) ImportResult {
	result := ImportResult{
		Warnings: initialWarnings,
	}

	if len(rows) == 0 {
		result.Errors = append(result.Errors, "No data rows found")
		return result
	}

	mapping, hasHeader := DetectColumns(rows[0])
	startRow := 0
	if hasHeader {
		startRow = 1
		result.Warnings = append(result.Warnings, "Detected header row, skipping")

		missing := []string{}
		if mapping.FrontWidth == -1 {
			missing = append(missing, "Front width")
		}
		if mapping.CenterDepth == -1 {
			missing = append(missing, "Depth")
		}
		if mapping.RiserHeight == -1 {
			missing = append(missing, "Riser height")
		}
		if len(missing) > 0 {
			result.Errors = append(result.Errors, fmt.Sprintf("Required columns not found in header: %s", strings.Join(missing, ", ")))
			return result
		}
	} else if len(rows[0]) >= 3 {
		if _, err := parseNumber(strings.TrimSpace(rows[0][1])); err != nil {
			// Unrecognized header: skip it but keep the positional mapping
			startRow = 1
			result.Warnings = append(result.Warnings, "Detected header row, skipping")
		}
	}

	seen := make(map[int]string)
	for i := startRow; i < len(rows); i++ {
		row := rows[i]
		if isEmptyRow(row) {
			continue
		}

		rowLabel := fmt.Sprintf("%s %d", rowPrefix, i+1)
		m, errMsg := parseRow(row, mapping, rowLabel, len(result.Measurements))
		if errMsg != "" {
			result.Errors = append(result.Errors, errMsg)
			continue
		}
		if prev, dup := seen[m.StepNumber]; dup {
			result.Errors = append(result.Errors, fmt.Sprintf("%s: Step %d already defined on %s", rowLabel, m.StepNumber, prev))
			continue
		}
		seen[m.StepNumber] = rowLabel

		v := model.ValidateMeasurement(m)
		result.Errors = append(result.Errors, v.Errors...)
		result.Warnings = append(result.Warnings, v.Warnings...)
		if !v.OK() {
			continue
		}

		result.Measurements = append(result.Measurements, m)
	}

	return result
}
