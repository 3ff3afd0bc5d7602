package services

import (
	"testing"
	"time"

	"github.com/xuri/excelize/v2"
)

func exportFixture() []Lead {
	a := Lead{
		ID: "lead-1", ClientName: "Alice", Company: "Acme", Status: StatusWorkAlloted,
		FollowUpDate: "2024-03-15", ConsumerNumber: "-C1",
	}
	ApplySlot(&a, 0, SlotNumber, "9876543210")
	ApplySlot(&a, 1, SlotNumber, "9000000002")
	b := Lead{ID: "lead-2", ClientName: "Bob", Status: StatusNew, MobileNumber: "9111111111"}
	b.Set("budget", "1200")
	return []Lead{a, b}
}

func TestExportCell(t *testing.T) {
	leads := exportFixture()
	budget := ColumnConfig{Key: "budget", Label: "Budget", Type: ColumnNumber}

	tests := []struct {
		name string
		lead *Lead
		col  ColumnConfig
		want any
	}{
		{"main slot number", &leads[0], ColumnConfig{Key: FieldMobileNumber, Type: ColumnPhone}, "9876543210"},
		{"legacy scalar number", &leads[1], ColumnConfig{Key: FieldMobileNumber, Type: ColumnPhone}, "9111111111"},
		{"status abbreviation", &leads[0], ColumnConfig{Key: FieldStatus, Type: ColumnSelect}, "WAO"},
		{"date normalized", &leads[0], ColumnConfig{Key: FieldFollowUpDate, Type: ColumnText}, "15-03-2024"},
		{"number column", &leads[1], budget, float64(1200)},
		{"empty number", &leads[0], budget, ""},
		{"text", &leads[0], ColumnConfig{Key: FieldCompany, Type: ColumnText}, "Acme"},
		{"secondary slot", &leads[0], ColumnConfig{Key: FieldMobileNumber2, Type: ColumnPhone}, "9000000002"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExportCell(tt.lead, tt.col); got != tt.want {
				t.Errorf("ExportCell() = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestBuildExportRows_HeaderLabels(t *testing.T) {
	cols := []ColumnConfig{
		{Key: FieldClientName, Label: "Client Name", Type: ColumnText},
		{Key: FieldCompany, Label: "Company Name", Type: ColumnText},
	}
	headers, rows := BuildExportRows(exportFixture(), cols, map[string]string{FieldCompany: "Firm"})
	if headers[0] != "Client Name" || headers[1] != "Firm" {
		t.Errorf("headers = %v", headers)
	}
	if len(rows) != 2 || rows[1][0] != "Bob" {
		t.Errorf("rows = %v", rows)
	}
}

func TestGenerateLeadsExcel(t *testing.T) {
	cols := NewColumnSchema(DefaultColumns()).VisibleColumns()
	data, err := GenerateLeadsExcel(exportFixture(), cols, nil, "")
	if err != nil {
		t.Fatalf("GenerateLeadsExcel() error = %v", err)
	}

	f, err := excelize.OpenReader(bytesReader(data))
	if err != nil {
		t.Fatalf("result is not valid Excel: %v", err)
	}
	defer f.Close()

	if sheet := f.GetSheetList()[0]; sheet != DefaultExportSheet {
		t.Errorf("sheet = %q, want %q", sheet, DefaultExportSheet)
	}
	rows, err := f.GetRows(DefaultExportSheet)
	if err != nil {
		t.Fatalf("GetRows() error = %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected header + 2 rows, got %d", len(rows))
	}
	if rows[0][0] != "con.no" || rows[0][4] != "Client Name" {
		t.Errorf("header row = %v", rows[0])
	}
	if rows[1][0] != "'-C1" {
		t.Errorf("formula-like cell not sanitized: %q", rows[1][0])
	}
}

func TestGenerateLeadsExcel_NoColumns(t *testing.T) {
	if _, err := GenerateLeadsExcel(exportFixture(), nil, nil, "Leads"); err == nil {
		t.Error("expected error with no columns")
	}
}

func TestExport_RoundTrip(t *testing.T) {
	schema := NewColumnSchema(DefaultColumns())
	cols := schema.VisibleColumns()
	original := exportFixture()

	data, err := GenerateLeadsExcel(original, cols, nil, "Leads")
	if err != nil {
		t.Fatalf("GenerateLeadsExcel() error = %v", err)
	}
	result, err := ImportLeads(ExportFileName("all", importNow), data, testImportOptions())
	if err != nil {
		t.Fatalf("ImportLeads() error = %v", err)
	}
	if result.AcceptedCount() != len(original) {
		t.Fatalf("accepted %d, want %d (errors %+v)", result.AcceptedCount(), len(original), result.Errors)
	}
	if len(result.UnmappedHeaders) != 0 {
		t.Errorf("exported headers did not map back: %v", result.UnmappedHeaders)
	}

	for i, got := range result.Accepted {
		want := original[i]
		if got.ClientName != want.ClientName {
			t.Errorf("row %d clientName = %q, want %q", i, got.ClientName, want.ClientName)
		}
		if got.Status != want.Status {
			t.Errorf("row %d status = %q, want %q", i, got.Status, want.Status)
		}
		if got.MainMobile().Number != want.MainMobile().Number {
			t.Errorf("row %d main mobile = %q, want %q", i, got.MainMobile().Number, want.MainMobile().Number)
		}
		if got.ConsumerNumber != want.ConsumerNumber {
			t.Errorf("row %d consumerNumber = %q, want %q", i, got.ConsumerNumber, want.ConsumerNumber)
		}
	}
	if got := result.Accepted[0].FollowUpDate; got != "15-03-2024" {
		t.Errorf("followUpDate = %q, want 15-03-2024", got)
	}
}

func TestExportFileName(t *testing.T) {
	now := time.Date(2024, 3, 9, 8, 0, 0, 0, time.UTC)
	if got := ExportFileName("due-today", now); got != "leads-export-due-today-2024-03-09.xlsx" {
		t.Errorf("ExportFileName() = %q", got)
	}
	if got := ExportFileName("  ", now); got != "leads-export-all-2024-03-09.xlsx" {
		t.Errorf("ExportFileName(blank) = %q", got)
	}
}

func TestColumnName(t *testing.T) {
	tests := map[int]string{0: "A", 25: "Z", 26: "AA", 27: "AB", 701: "ZZ", 702: "AAA"}
	for idx, want := range tests {
		if got := columnName(idx); got != want {
			t.Errorf("columnName(%d) = %q, want %q", idx, got, want)
		}
	}
}
