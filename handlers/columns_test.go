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

func decodeColumns(t *testing.T, rec *httptest.ResponseRecorder) columnsResponse {
	t.Helper()
	var resp columnsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON response: %v\n%s", err, rec.Body.String())
	}
	return resp
}

func newJSONRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestHandleColumnList(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	handler := HandleColumnList(app)

	req := httptest.NewRequest(http.MethodGet, "/columns", nil)
	rec := httptest.NewRecorder()
	if err := handler(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	resp := decodeColumns(t, rec)
	if len(resp.Columns) != len(services.DefaultColumns()) {
		t.Errorf("expected default columns, got %d", len(resp.Columns))
	}
}

func TestHandleColumnUpsert_AddsColumn(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	handler := HandleColumnUpsert(app)

	req := newJSONRequest(http.MethodPost, "/columns",
		`{"fieldKey":"region","label":"Region","type":"select","options":["North","South"],"visible":true}`)
	rec := httptest.NewRecorder()
	if err := handler(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	schema, err := services.LoadColumnSchema(app)
	if err != nil {
		t.Fatalf("LoadColumnSchema() error = %v", err)
	}
	col, ok := schema.ColumnByKey("region")
	if !ok {
		t.Fatal("expected region column to be persisted")
	}
	if col.Type != services.ColumnSelect || len(col.Options) != 2 {
		t.Errorf("unexpected column %+v", col)
	}
	cols := schema.Columns()
	if cols[len(cols)-1].Key != "region" {
		t.Errorf("expected new column last, got %q", cols[len(cols)-1].Key)
	}
}

func TestHandleColumnUpsert_Invalid(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	handler := HandleColumnUpsert(app)

	req := newJSONRequest(http.MethodPost, "/columns", `{"fieldKey":"1bad","label":"","type":"text"}`)
	rec := httptest.NewRecorder()
	if err := handler(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("expected 422, got %d", rec.Code)
	}
}

func TestHandleColumnUpdate(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	handler := HandleColumnUpdate(app)

	req := newJSONRequest(http.MethodPost, "/columns/notes",
		`{"label":"Discussion","visible":false,"headerLabel":"Remarks"}`)
	req.SetPathValue("key", services.FieldNotes)
	rec := httptest.NewRecorder()
	if err := handler(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	resp := decodeColumns(t, rec)
	if resp.HeaderLabels[services.FieldNotes] != "Remarks" {
		t.Errorf("expected header label Remarks, got %v", resp.HeaderLabels)
	}

	schema, _ := services.LoadColumnSchema(app)
	col, _ := schema.ColumnByKey(services.FieldNotes)
	if col.Label != "Discussion" || col.Visible {
		t.Errorf("unexpected column after update %+v", col)
	}
	if schema.DisplayName(services.FieldNotes) != "Remarks" {
		t.Errorf("DisplayName = %q", schema.DisplayName(services.FieldNotes))
	}
}

func TestHandleColumnUpdate_NotFound(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	handler := HandleColumnUpdate(app)

	req := newJSONRequest(http.MethodPost, "/columns/nope", `{"visible":true}`)
	req.SetPathValue("key", "nope")
	rec := httptest.NewRecorder()
	if err := handler(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}

func TestHandleColumnDelete(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	handler := HandleColumnDelete(app)

	req := httptest.NewRequest(http.MethodDelete, "/columns/gidc", nil)
	req.SetPathValue("key", services.FieldGIDC)
	rec := httptest.NewRecorder()
	if err := handler(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	schema, _ := services.LoadColumnSchema(app)
	if _, ok := schema.ColumnByKey(services.FieldGIDC); ok {
		t.Error("expected gidc column to be removed")
	}

	rec = httptest.NewRecorder()
	if err := handler(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 on second delete, got %d", rec.Code)
	}
}
