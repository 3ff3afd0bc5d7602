package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"leadtracker/config"
	"leadtracker/services"
	"leadtracker/templates"
	"leadtracker/testhelpers"
)

func TestGetColumnSchema_FromContext(t *testing.T) {
	expected := services.NewColumnSchema(services.DefaultColumns())
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	ctx := context.WithValue(req.Context(), ColumnSchemaKey, expected)
	req = req.WithContext(ctx)

	if got := GetColumnSchema(req); got != expected {
		t.Errorf("expected schema from context, got %v", got)
	}
}

func TestGetColumnSchema_NotInContext(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if got := GetColumnSchema(req); got != nil {
		t.Errorf("expected nil, got %v", got)
	}
}

func TestGetNavCounts_FromContext(t *testing.T) {
	expected := templates.NavCounts{ActivePath: "/leads", DueToday: 2}
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	ctx := context.WithValue(req.Context(), NavCountsKey, expected)
	req = req.WithContext(ctx)

	if got := GetNavCounts(req); got != expected {
		t.Errorf("expected %+v, got %+v", expected, got)
	}
}

func TestGetNavCounts_NotInContext(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/leads/overdue", nil)
	got := GetNavCounts(req)
	if got.ActivePath != "/leads/overdue" || got.DueToday != 0 {
		t.Errorf("unexpected default counts %+v", got)
	}
}

func TestLeadContextMiddleware_PopulatesContext(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	today := services.FormatDate(time.Now())
	due := testhelpers.NewTestLead("L1", "Due Client", "9876543210")
	due.FollowUpDate = today
	testhelpers.CreateTestLeads(t, app, due, testhelpers.NewTestLead("L2", "Other", ""))

	middleware := LeadContextMiddleware(app, config.Default())

	req := httptest.NewRequest(http.MethodGet, "/leads", nil)
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)

	// e.Next() with no handler set returns nil.
	_ = middleware(e)

	schema := GetColumnSchema(e.Request)
	if schema == nil {
		t.Fatal("expected column schema in context after middleware")
	}
	if _, ok := schema.ColumnByKey(services.FieldClientName); !ok {
		t.Error("expected default clientName column")
	}

	counts := GetNavCounts(e.Request)
	if counts.ActivePath != "/leads" {
		t.Errorf("expected active path /leads, got %q", counts.ActivePath)
	}
	if counts.DueToday != 1 {
		t.Errorf("expected 1 lead due today, got %d", counts.DueToday)
	}
}

func TestRequestSchema_FallsBackToStore(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	e := newTestRequestEvent(app, req, httptest.NewRecorder())

	schema, err := requestSchema(e, app)
	if err != nil {
		t.Fatalf("requestSchema() error = %v", err)
	}
	if len(schema.Columns()) != len(services.DefaultColumns()) {
		t.Errorf("expected default columns, got %d", len(schema.Columns()))
	}
}
