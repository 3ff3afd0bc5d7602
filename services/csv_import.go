package services

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/xuri/excelize/v2"
)

// File-level import failures. These abort the whole import.
var (
	ErrUnsupportedFormat = errors.New("unsupported file format: must be .csv, .xlsx or .xlsm")
	ErrEmptyFile         = errors.New("file is empty")
	ErrNoSheets          = errors.New("workbook has no sheets")
	ErrNoDataRows        = errors.New("file must contain a header row and at least one data row")
)

// FileFormat is the decoded shape of an uploaded lead file.
type FileFormat string

const (
	FormatCSV  FileFormat = "csv"
	FormatXLSX FileFormat = "xlsx"
)

// ValidationError represents a single field-level error on one row.
type ValidationError struct {
	Row     int    `json:"row"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

// DetectFormat picks the parser for an upload, by extension first and then
// by sniffing the content.
func DetectFormat(fileName string, data []byte) (FileFormat, error) {
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".csv":
		return FormatCSV, nil
	case ".xlsx", ".xlsm":
		return FormatXLSX, nil
	case ".xls":
		return "", fmt.Errorf("%w (re-save legacy .xls workbooks as .xlsx)", ErrUnsupportedFormat)
	}

	if len(data) == 0 {
		return "", ErrEmptyFile
	}
	for m := mimetype.Detect(data); m != nil; m = m.Parent() {
		switch {
		case m.Is("text/csv"), m.Is("text/plain"):
			return FormatCSV, nil
		case m.Is("application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"), m.Is("application/zip"):
			return FormatXLSX, nil
		}
	}
	return "", ErrUnsupportedFormat
}

// parseRows decodes an upload into a header row and data rows.
func parseRows(format FileFormat, data []byte) ([]string, [][]string, error) {
	if len(data) == 0 {
		return nil, nil, ErrEmptyFile
	}
	var (
		rows [][]string
		err  error
	)
	switch format {
	case FormatCSV:
		rows, err = parseCSV(data)
	case FormatXLSX:
		rows, err = parseExcel(data)
	default:
		return nil, nil, ErrUnsupportedFormat
	}
	if err != nil {
		return nil, nil, err
	}

	rows = dropBlankRows(rows)
	if len(rows) < 2 {
		return nil, nil, ErrNoDataRows
	}
	return rows[0], rows[1:], nil
}

// parseCSV reads CSV text. Ragged rows are allowed.
func parseCSV(data []byte) ([][]string, error) {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	reader := csv.NewReader(bytes.NewReader(data))
	reader.TrimLeadingSpace = true
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse CSV: %w", err)
	}
	return rows, nil
}

// parseExcel reads the first sheet of a workbook with raw cell values, so
// date cells arrive as serial numbers.
func parseExcel(data []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrNoSheets
	}
	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}
	return rows, nil
}

func dropBlankRows(rows [][]string) [][]string {
	out := rows[:0]
	for _, r := range rows {
		for _, c := range r {
			if strings.TrimSpace(c) != "" {
				out = append(out, r)
				break
			}
		}
	}
	return out
}

// unsanitizeCell reverses the formula guard applied on export.
func unsanitizeCell(s string) string {
	if len(s) >= 2 && s[0] == '\'' && sanitizeExcelCell(s[1:]) != s[1:] {
		return s[1:]
	}
	return s
}

// GenerateErrorReport creates a downloadable .xlsx file from validation errors.
func GenerateErrorReport(errs []ValidationError) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Errors"
	defaultSheet := f.GetSheetName(0)
	f.SetSheetName(defaultSheet, sheet)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#DC2626"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
		Border:    thinBorders(),
	})

	f.SetCellValue(sheet, "A1", "Row #")
	f.SetCellValue(sheet, "B1", "Field")
	f.SetCellValue(sheet, "C1", "Error")
	f.SetCellStyle(sheet, "A1", "C1", headerStyle)
	f.SetColWidth(sheet, "A", "A", 8)
	f.SetColWidth(sheet, "B", "B", 22)
	f.SetColWidth(sheet, "C", "C", 55)

	for i, e := range errs {
		row := fmt.Sprintf("%d", i+2)
		f.SetCellValue(sheet, "A"+row, e.Row)
		f.SetCellValue(sheet, "B"+row, sanitizeExcelCell(e.Field))
		f.SetCellValue(sheet, "C"+row, sanitizeExcelCell(e.Message))
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write error report: %w", err)
	}
	return buf.Bytes(), nil
}
