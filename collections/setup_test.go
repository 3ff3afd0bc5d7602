package collections_test

import (
	"testing"

	"leadtracker/collections"
	"leadtracker/services"
	"leadtracker/testhelpers"

	"github.com/pocketbase/pocketbase/core"
)

// expectedCollections is the full list of collections that Setup() must create.
var expectedCollections = []string{
	services.LeadsCollection,
	services.ColumnsCollection,
	services.HeaderLabelsCollection,
}

func TestSetup_AllCollectionsExist(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	for _, name := range expectedCollections {
		col, err := app.FindCollectionByNameOrId(name)
		if err != nil {
			t.Errorf("collection %q not found after Setup(): %v", name, err)
			continue
		}
		if col.Name != name {
			t.Errorf("expected collection name %q, got %q", name, col.Name)
		}
	}
}

func TestSetup_Idempotent(t *testing.T) {
	app := testhelpers.NewTestApp(t) // Setup() already called once via NewTestApp

	ids := make(map[string]string)
	for _, name := range expectedCollections {
		col, _ := app.FindCollectionByNameOrId(name)
		ids[name] = col.Id
	}

	collections.Setup(app)

	for _, name := range expectedCollections {
		col, err := app.FindCollectionByNameOrId(name)
		if err != nil {
			t.Errorf("collection %q missing after second Setup(): %v", name, err)
			continue
		}
		if col.Id != ids[name] {
			t.Errorf("collection %q id changed after second Setup(): %s -> %s", name, ids[name], col.Id)
		}
	}
}

func TestSetup_LeadsFields(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	col, _ := app.FindCollectionByNameOrId(services.LeadsCollection)

	fields := []string{"lead_id", "position", "data", "client_name", "status", "follow_up_date", "is_deleted", "is_done", "created", "updated"}
	for _, f := range fields {
		if col.Fields.GetByName(f) == nil {
			t.Errorf("leads: missing field %q", f)
		}
	}

	statusField := col.Fields.GetByName("status")
	sf, ok := statusField.(*core.SelectField)
	if !ok {
		t.Fatal("status field is not a SelectField")
	}
	if len(sf.Values) != len(services.LeadStatuses) {
		t.Errorf("expected %d status values, got %d", len(services.LeadStatuses), len(sf.Values))
	}
	for i, v := range services.LeadStatuses {
		if sf.Values[i] != v {
			t.Errorf("status value %d = %q, want %q", i, sf.Values[i], v)
		}
	}

	if _, ok := col.Fields.GetByName("data").(*core.JSONField); !ok {
		t.Error("data field is not a JSONField")
	}
}

func TestSetup_LeadIDUnique(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	col, _ := app.FindCollectionByNameOrId(services.LeadsCollection)

	first := core.NewRecord(col)
	first.Set("lead_id", "dup")
	if err := app.Save(first); err != nil {
		t.Fatalf("save first: %v", err)
	}
	second := core.NewRecord(col)
	second.Set("lead_id", "dup")
	if err := app.Save(second); err == nil {
		t.Error("expected duplicate lead_id to be rejected")
	}
}

func TestSetup_ColumnConfigsFields(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	col, _ := app.FindCollectionByNameOrId(services.ColumnsCollection)

	for _, f := range []string{"field_key", "position", "config"} {
		if col.Fields.GetByName(f) == nil {
			t.Errorf("column_configs: missing field %q", f)
		}
	}
}

func TestSetup_HeaderLabelsFields(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	col, _ := app.FindCollectionByNameOrId(services.HeaderLabelsCollection)

	for _, f := range []string{"field_key", "label"} {
		if col.Fields.GetByName(f) == nil {
			t.Errorf("header_labels: missing field %q", f)
		}
	}
}
