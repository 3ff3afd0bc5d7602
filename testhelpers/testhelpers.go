// Package testhelpers provides utilities for testing PocketBase-based applications.
package testhelpers

import (
	"strings"
	"testing"
	"time"

	"github.com/pocketbase/pocketbase"

	"leadtracker/collections"
	"leadtracker/services"
)

// FixedNow is the clock used by tests that need a stable "today"
// (Sunday 10 March 2024, local time).
var FixedNow = time.Date(2024, 3, 10, 10, 0, 0, 0, time.Local)

// NewTestApp creates a PocketBase instance backed by a temporary directory.
// It bootstraps the app and runs collections.Setup to create all tables.
// The temporary directory is cleaned up automatically when the test finishes.
func NewTestApp(t *testing.T) *pocketbase.PocketBase {
	t.Helper()

	tmpDir := t.TempDir()
	app := pocketbase.NewWithConfig(pocketbase.Config{
		DefaultDataDir: tmpDir,
	})

	if err := app.Bootstrap(); err != nil {
		t.Fatalf("failed to bootstrap test app: %v", err)
	}

	collections.Setup(app)

	return app
}

// NewTestLead returns a minimal valid lead with one main contact slot.
func NewTestLead(id, clientName, mobile string) services.Lead {
	l := services.Lead{
		ID:             id,
		ClientName:     clientName,
		Status:         services.StatusNew,
		UnitType:       "New",
		MandateStatus:  "Pending",
		DocumentStatus: "Pending Documents",
		Activities:     []services.Activity{},
	}
	if mobile != "" {
		services.ApplySlot(&l, 0, services.SlotNumber, mobile)
	}
	return l
}

// CreateTestLeads stores leads in the app's leads collection, appended after
// any existing ones.
func CreateTestLeads(t *testing.T, app *pocketbase.PocketBase, leads ...services.Lead) {
	t.Helper()

	store := services.NewRecordStore(app)
	if err := services.MergeImported(store, leads); err != nil {
		t.Fatalf("failed to save test leads: %v", err)
	}
}

// AssertHTMLContains checks that body contains all specified fragments.
func AssertHTMLContains(t *testing.T, body string, fragments ...string) {
	t.Helper()

	for _, frag := range fragments {
		if !strings.Contains(body, frag) {
			t.Errorf("expected HTML to contain %q, but it was not found\nbody (first 500 chars): %s",
				frag, truncate(body, 500))
		}
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
