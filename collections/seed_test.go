package collections_test

import (
	"testing"

	"leadtracker/collections"
	"leadtracker/services"
	"leadtracker/testhelpers"
)

func TestSeed_CreatesData(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	if err := collections.Seed(app); err != nil {
		t.Fatalf("Seed() error: %v", err)
	}

	count, err := app.CountRecords(services.ColumnsCollection)
	if err != nil {
		t.Fatalf("count columns: %v", err)
	}
	if int(count) != len(services.DefaultColumns()) {
		t.Errorf("expected %d columns, got %d", len(services.DefaultColumns()), count)
	}

	leads, err := services.NewRecordStore(app).Leads()
	if err != nil {
		t.Fatalf("Leads() error: %v", err)
	}
	if len(leads) != 3 {
		t.Fatalf("expected 3 demo leads, got %d", len(leads))
	}
	if leads[0].ClientName != "Ramesh Patel" || leads[0].Status != services.StatusFollowUp {
		t.Errorf("first lead = %q/%q", leads[0].ClientName, leads[0].Status)
	}
	if got := leads[0].GetString(services.FieldMobileNumber2); got != "9123456780" {
		t.Errorf("expected second contact slot 9123456780, got %q", got)
	}
	if leads[1].Status != services.StatusHotlead || leads[2].Status != services.StatusMandateSent {
		t.Errorf("statuses = %q, %q", leads[1].Status, leads[2].Status)
	}
}

func TestSeed_Idempotent(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	if err := collections.Seed(app); err != nil {
		t.Fatalf("first Seed() error: %v", err)
	}
	if err := collections.Seed(app); err != nil {
		t.Fatalf("second Seed() error: %v", err)
	}

	leads, _ := services.NewRecordStore(app).Leads()
	if len(leads) != 3 {
		t.Errorf("expected 3 leads after two seeds, got %d", len(leads))
	}
	count, _ := app.CountRecords(services.ColumnsCollection)
	if int(count) != len(services.DefaultColumns()) {
		t.Errorf("expected %d columns after two seeds, got %d", len(services.DefaultColumns()), count)
	}
}

func TestSeed_SkipsWhenDataExists(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	testhelpers.CreateTestLeads(t, app, testhelpers.NewTestLead("mine", "Existing", ""))

	schema := services.NewColumnSchema(services.DefaultColumns()[:2])
	if err := services.SaveColumnSchema(app, schema); err != nil {
		t.Fatalf("SaveColumnSchema: %v", err)
	}

	if err := collections.Seed(app); err != nil {
		t.Fatalf("Seed() error: %v", err)
	}

	leads, _ := services.NewRecordStore(app).Leads()
	if len(leads) != 1 || leads[0].ID != "mine" {
		t.Errorf("expected only the existing lead, got %d", len(leads))
	}
	count, _ := app.CountRecords(services.ColumnsCollection)
	if count != 2 {
		t.Errorf("expected configured columns kept, got %d", count)
	}
}
