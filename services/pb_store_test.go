package services_test

import (
	"errors"
	"testing"

	"leadtracker/services"
	"leadtracker/testhelpers"
)

func TestRecordStore_RoundTrip(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	a := testhelpers.NewTestLead("lead-a", "Alice", "9876543210")
	services.ApplySlot(&a, 2, services.SlotNumber, "9000000003")
	a.Set("region", "West")
	b := testhelpers.NewTestLead("lead-b", "Bob", "")
	testhelpers.CreateTestLeads(t, app, a, b)

	store := services.NewRecordStore(app)
	leads, err := store.Leads()
	if err != nil {
		t.Fatalf("Leads() error = %v", err)
	}
	if len(leads) != 2 || leads[0].ID != "lead-a" || leads[1].ID != "lead-b" {
		t.Fatalf("leads = %+v", leads)
	}
	if len(leads[0].MobileNumbers) != 3 || leads[0].MobileNumbers[2].Number != "9000000003" {
		t.Errorf("slots not persisted: %+v", leads[0].MobileNumbers)
	}
	if got := leads[0].GetString("region"); got != "West" {
		t.Errorf("dynamic field region = %q", got)
	}

	rec, err := app.FindFirstRecordByData(services.LeadsCollection, "lead_id", "lead-a")
	if err != nil {
		t.Fatalf("record lookup: %v", err)
	}
	if rec.GetString("client_name") != "Alice" || rec.GetString("status") != services.StatusNew {
		t.Errorf("denormalized columns = %q/%q", rec.GetString("client_name"), rec.GetString("status"))
	}
}

func TestRecordStore_SetLeadsRemovesMissing(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	testhelpers.CreateTestLeads(t, app,
		testhelpers.NewTestLead("l1", "A", ""),
		testhelpers.NewTestLead("l2", "B", ""),
		testhelpers.NewTestLead("l3", "C", ""),
	)
	store := services.NewRecordStore(app)

	err := store.SetLeads(func(prev []services.Lead) []services.Lead {
		prev[2].Company = "Moved"
		return []services.Lead{prev[2], prev[0]}
	})
	if err != nil {
		t.Fatalf("SetLeads() error = %v", err)
	}

	leads, _ := store.Leads()
	if len(leads) != 2 || leads[0].ID != "l3" || leads[1].ID != "l1" {
		t.Fatalf("leads = %+v", leads)
	}
	if leads[0].Company != "Moved" {
		t.Errorf("update not saved: %q", leads[0].Company)
	}
	count, _ := app.CountRecords(services.LeadsCollection)
	if count != 2 {
		t.Errorf("record count = %d, want 2", count)
	}
}

func TestRecordStore_PermanentlyDelete(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	testhelpers.CreateTestLeads(t, app, testhelpers.NewTestLead("l1", "A", ""))
	store := services.NewRecordStore(app)

	if err := store.PermanentlyDelete("l1"); err != nil {
		t.Fatalf("PermanentlyDelete() error = %v", err)
	}
	if err := store.PermanentlyDelete("l1"); !errors.Is(err, services.ErrLeadNotFound) {
		t.Errorf("expected ErrLeadNotFound, got %v", err)
	}
}

func TestRecordStore_SoftDeleteFlagsRecord(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	testhelpers.CreateTestLeads(t, app, testhelpers.NewTestLead("l1", "A", ""))
	store := services.NewRecordStore(app)

	if err := services.SoftDelete(store, "l1", testhelpers.FixedNow); err != nil {
		t.Fatalf("SoftDelete() error = %v", err)
	}
	rec, err := app.FindFirstRecordByData(services.LeadsCollection, "lead_id", "l1")
	if err != nil {
		t.Fatalf("record lookup: %v", err)
	}
	if !rec.GetBool("is_deleted") {
		t.Error("is_deleted not set on record")
	}
}

func TestColumnSchema_Persistence(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	schema, err := services.LoadColumnSchema(app)
	if err != nil {
		t.Fatalf("LoadColumnSchema() error = %v", err)
	}
	if len(schema.Columns()) != len(services.DefaultColumns()) {
		t.Fatalf("empty store should yield defaults, got %d columns", len(schema.Columns()))
	}

	if err := schema.Upsert(services.ColumnConfig{Key: "region", Label: "Region", Type: services.ColumnSelect, Options: []string{"North", "West"}, Visible: true}); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}
	if err := schema.SetVisible(services.FieldGIDC, false); err != nil {
		t.Fatalf("SetVisible() error = %v", err)
	}
	schema.SetHeaderLabel(services.FieldCompany, "Firm")
	if err := services.SaveColumnSchema(app, schema); err != nil {
		t.Fatalf("SaveColumnSchema() error = %v", err)
	}

	loaded, err := services.LoadColumnSchema(app)
	if err != nil {
		t.Fatalf("LoadColumnSchema() error = %v", err)
	}
	region, ok := loaded.ColumnByKey("region")
	if !ok || region.Type != services.ColumnSelect || len(region.Options) != 2 {
		t.Errorf("region = %+v (found=%v)", region, ok)
	}
	cols := loaded.Columns()
	if cols[len(cols)-1].Key != "region" {
		t.Errorf("order not preserved, last = %q", cols[len(cols)-1].Key)
	}
	if gidc, _ := loaded.ColumnByKey(services.FieldGIDC); gidc.Visible {
		t.Error("visibility not persisted")
	}
	if got := loaded.DisplayName(services.FieldCompany); got != "Firm" {
		t.Errorf("header label = %q", got)
	}
}
