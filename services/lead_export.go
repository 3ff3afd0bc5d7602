package services

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cast"
	"github.com/xuri/excelize/v2"
)

// DefaultExportSheet is the sheet name of lead exports.
const DefaultExportSheet = "Leads"

// ExportCell renders one lead field for the given column.
func ExportCell(lead *Lead, col ColumnConfig) any {
	switch col.Key {
	case FieldMobileNumber:
		return lead.MainMobile().Number
	case FieldStatus:
		return DisplayStatus(lead.Status)
	}

	if col.Type == ColumnDate || dateFieldKeys[col.Key] {
		s, _ := NormalizeDate(lead.GetString(col.Key))
		return s
	}
	if col.Type == ColumnNumber {
		v, ok := lead.Get(col.Key)
		if !ok || v == nil || stringify(v) == "" {
			return ""
		}
		f, err := cast.ToFloat64E(strings.TrimSpace(stringify(v)))
		if err != nil {
			return stringify(v)
		}
		return f
	}
	return lead.GetString(col.Key)
}

// BuildExportRows returns the header row and one row per lead for the given
// columns. labels overrides column labels per field key.
func BuildExportRows(leads []Lead, cols []ColumnConfig, labels map[string]string) ([]string, [][]any) {
	headers := make([]string, len(cols))
	for i, c := range cols {
		headers[i] = c.Label
		if l, ok := labels[c.Key]; ok && l != "" {
			headers[i] = l
		}
	}

	rows := make([][]any, len(leads))
	for r := range leads {
		row := make([]any, len(cols))
		for i, c := range cols {
			row[i] = ExportCell(&leads[r], c)
		}
		rows[r] = row
	}
	return headers, rows
}

// GenerateLeadsExcel writes leads to a single-sheet workbook whose first row
// holds the column labels.
func GenerateLeadsExcel(leads []Lead, cols []ColumnConfig, labels map[string]string, sheetName string) ([]byte, error) {
	if len(cols) == 0 {
		return nil, fmt.Errorf("export leads: no visible columns")
	}
	if sheetName == "" {
		sheetName = DefaultExportSheet
	}
	if len(sheetName) > 31 {
		sheetName = sheetName[:31]
	}

	f := excelize.NewFile()
	defer f.Close()

	defaultSheet := f.GetSheetName(0)
	if err := f.SetSheetName(defaultSheet, sheetName); err != nil {
		return nil, fmt.Errorf("set sheet name: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 11},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#333333"}, Pattern: 1},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
			WrapText:   true,
		},
		Border: thinBorders(),
	})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}

	dataStyle, err := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Size: 10},
		Border: thinBorders(),
		Alignment: &excelize.Alignment{
			Vertical: "center",
			WrapText: true,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create data style: %w", err)
	}

	for i, col := range cols {
		width := col.Width
		if width <= 0 {
			width = 16
		}
		letter := columnName(i)
		f.SetColWidth(sheetName, letter, letter, width)
	}

	headers, rows := BuildExportRows(leads, cols, labels)
	lastCol := columnName(len(cols) - 1)

	for i, h := range headers {
		f.SetCellValue(sheetName, fmt.Sprintf("%s1", columnName(i)), h)
	}
	f.SetCellStyle(sheetName, "A1", lastCol+"1", headerStyle)

	f.SetPanes(sheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})

	for rowIdx, row := range rows {
		rowStr := fmt.Sprintf("%d", rowIdx+2)
		for colIdx, v := range row {
			cell := columnName(colIdx) + rowStr
			if s, ok := v.(string); ok {
				f.SetCellValue(sheetName, cell, sanitizeExcelCell(s))
				continue
			}
			f.SetCellValue(sheetName, cell, v)
		}
		f.SetCellStyle(sheetName, "A"+rowStr, lastCol+rowStr, dataStyle)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write excel: %w", err)
	}
	return buf.Bytes(), nil
}

// ExportFileName returns leads-export-<context>-<YYYY-MM-DD>.xlsx.
func ExportFileName(context string, now time.Time) string {
	context = strings.TrimSpace(context)
	if context == "" {
		context = "all"
	}
	return fmt.Sprintf("leads-export-%s-%s.xlsx", context, now.Format("2006-01-02"))
}

// sanitizeExcelCell prevents formula injection by prefixing dangerous leading
// characters with a single quote.
func sanitizeExcelCell(s string) string {
	if len(s) == 0 {
		return s
	}
	switch s[0] {
	case '=', '+', '-', '@', '\t', '\r', '|':
		return "'" + s
	}
	return s
}

// thinBorders returns a slice of excelize.Border for thin borders on all four sides.
func thinBorders() []excelize.Border {
	sides := []string{"left", "top", "bottom", "right"}
	borders := make([]excelize.Border, len(sides))
	for i, side := range sides {
		borders[i] = excelize.Border{
			Type:  side,
			Color: "#000000",
			Style: 1, // thin
		}
	}
	return borders
}

// columnName converts a 0-based column index to an Excel column letter (A, B, ..., Z, AA, ...).
func columnName(index int) string {
	name := ""
	for index >= 0 {
		name = string(rune('A'+index%26)) + name
		index = index/26 - 1
	}
	return name
}
