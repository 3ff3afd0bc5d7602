package collections

import (
	"fmt"
	"log"
	"slices"

	"github.com/pocketbase/pocketbase/core"

	"leadtracker/services"
)

// MigrateLegacyLeads upgrades stored leads written before contact slots
// existed: a lead with only the scalar mobile number gets a main slot, and
// statuses outside the vocabulary are normalized.
// Safe to call on every startup -- returns early if nothing to migrate.
func MigrateLegacyLeads(app core.App) error {
	store := services.NewRecordStore(app)
	leads, err := store.Leads()
	if err != nil {
		return fmt.Errorf("migrate: could not load leads: %w", err)
	}
	if !slices.ContainsFunc(leads, needsMigration) {
		return nil
	}

	migrated := 0
	err = store.SetLeads(func(prev []services.Lead) []services.Lead {
		for i := range prev {
			if !needsMigration(prev[i]) {
				continue
			}
			if len(prev[i].MobileNumbers) == 0 && prev[i].MobileNumber != "" {
				services.ApplySlot(&prev[i], 0, services.SlotNumber, prev[i].MobileNumber)
			}
			if !slices.Contains(services.LeadStatuses, prev[i].Status) {
				prev[i].Status = services.NormalizeStatus(prev[i].Status)
			}
			migrated++
		}
		return prev
	})
	if err != nil {
		return fmt.Errorf("migrate: could not save leads: %w", err)
	}

	log.Printf("migrate: upgraded %d legacy lead(s)\n", migrated)
	return nil
}

func needsMigration(l services.Lead) bool {
	if len(l.MobileNumbers) == 0 && l.MobileNumber != "" {
		return true
	}
	return !slices.Contains(services.LeadStatuses, l.Status)
}
