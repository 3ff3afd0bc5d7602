package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"leadtracker/services"
	"leadtracker/testhelpers"
)

func TestHandleLeadDelete_SoftDeletes(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	testhelpers.CreateTestLeads(t, app, testhelpers.NewTestLead("L1", "Delete Me", ""))
	handler := HandleLeadDelete(app)

	req := httptest.NewRequest(http.MethodPost, "/leads/L1/delete", nil)
	req.SetPathValue("id", "L1")
	rec := httptest.NewRecorder()
	if err := handler(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Errorf("expected 204, got %d", rec.Code)
	}

	leads, _ := services.NewRecordStore(app).Leads()
	if len(leads) != 1 || !leads[0].IsDeleted {
		t.Errorf("expected lead kept and flagged deleted, got %+v", leads)
	}
}

func TestHandleLeadDelete_HTMX(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	testhelpers.CreateTestLeads(t, app, testhelpers.NewTestLead("L1", "HTMX Delete", ""))
	handler := HandleLeadDelete(app)

	req := httptest.NewRequest(http.MethodPost, "/leads/L1/delete", nil)
	req.SetPathValue("id", "L1")
	req.Header.Set("HX-Request", "true")
	rec := httptest.NewRecorder()
	if err := handler(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
	if rec.Header().Get("HX-Trigger-After-Settle") != "leadsChanged" {
		t.Error("expected leadsChanged trigger")
	}
}

func TestHandleLeadDelete_NotFound(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	handler := HandleLeadDelete(app)

	req := httptest.NewRequest(http.MethodPost, "/leads/nope/delete", nil)
	req.SetPathValue("id", "nope")
	rec := httptest.NewRecorder()
	if err := handler(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}

func TestHandleLeadRestore(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	l := testhelpers.NewTestLead("L1", "Restore Me", "")
	l.IsDeleted = true
	testhelpers.CreateTestLeads(t, app, l)
	handler := HandleLeadRestore(app)

	req := httptest.NewRequest(http.MethodPost, "/leads/L1/restore", nil)
	req.SetPathValue("id", "L1")
	rec := httptest.NewRecorder()
	if err := handler(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}

	leads, _ := services.NewRecordStore(app).Leads()
	if leads[0].IsDeleted {
		t.Error("expected lead to be restored")
	}
}

func TestHandleLeadBulkRestore(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	a := testhelpers.NewTestLead("A", "A", "")
	a.IsDeleted = true
	b := testhelpers.NewTestLead("B", "B", "")
	b.IsDeleted = true
	testhelpers.CreateTestLeads(t, app, a, b, testhelpers.NewTestLead("C", "C", ""))
	handler := HandleLeadBulkRestore(app)

	req := httptest.NewRequest(http.MethodPost, "/leads/restore", strings.NewReader(`{"ids":["A","B","C","missing"]}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	if err := handler(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp map[string]int
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON response: %v", err)
	}
	if resp["restored"] != 2 {
		t.Errorf("expected 2 restored, got %d", resp["restored"])
	}
}

func TestHandleLeadBulkRestore_NoIDs(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	handler := HandleLeadBulkRestore(app)

	req := httptest.NewRequest(http.MethodPost, "/leads/restore", strings.NewReader(`{"ids":[]}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	if err := handler(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestHandleLeadPermanentDelete(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	testhelpers.CreateTestLeads(t, app,
		testhelpers.NewTestLead("L1", "Gone", ""),
		testhelpers.NewTestLead("L2", "Stays", ""),
	)
	handler := HandleLeadPermanentDelete(app)

	req := httptest.NewRequest(http.MethodDelete, "/leads/L1", nil)
	req.SetPathValue("id", "L1")
	rec := httptest.NewRecorder()
	if err := handler(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Errorf("expected 204, got %d", rec.Code)
	}

	leads, _ := services.NewRecordStore(app).Leads()
	if len(leads) != 1 || leads[0].ID != "L2" {
		t.Errorf("expected only L2 left, got %+v", leads)
	}

	rec = httptest.NewRecorder()
	if err := handler(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 on second delete, got %d", rec.Code)
	}
}
