package services

import (
	"bytes"
	"testing"
)

func TestBuildFollowUpSheet(t *testing.T) {
	sheet := BuildFollowUpSheet(followUpFixture(), filterNow, 7)
	assertIDs(t, "Overdue", sheet.Overdue, "overdue")
	assertIDs(t, "DueToday", sheet.DueToday, "today")
	assertIDs(t, "Upcoming", sheet.Upcoming, "tomorrow", "week")
	if !sheet.Generated.Equal(filterNow) {
		t.Errorf("Generated = %v", sheet.Generated)
	}
}

func TestGenerateFollowUpPDF(t *testing.T) {
	sheet := BuildFollowUpSheet(followUpFixture(), filterNow, 7)
	data, err := GenerateFollowUpPDF(sheet)
	if err != nil {
		t.Fatalf("GenerateFollowUpPDF() error = %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Error("output is not a PDF")
	}
}

func TestGenerateFollowUpPDF_Empty(t *testing.T) {
	data, err := GenerateFollowUpPDF(BuildFollowUpSheet(nil, filterNow, 7))
	if err != nil {
		t.Fatalf("GenerateFollowUpPDF() error = %v", err)
	}
	if len(data) == 0 {
		t.Error("empty sheet produced no bytes")
	}
}
