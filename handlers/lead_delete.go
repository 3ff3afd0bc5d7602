package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"leadtracker/services"
)

// BulkRestoreRequest is the JSON body for restoring several leads.
type BulkRestoreRequest struct {
	IDs []string `json:"ids"`
}

// HandleLeadDelete moves a lead to the deleted list.
// Route: POST /leads/{id}/delete
func HandleLeadDelete(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return leadFlagHandler(app, "lead_delete", "Lead moved to deleted", services.SoftDelete)
}

// HandleLeadRestore brings a deleted lead back.
// Route: POST /leads/{id}/restore
func HandleLeadRestore(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return leadFlagHandler(app, "lead_restore", "Lead restored", services.Restore)
}

func leadFlagHandler(app *pocketbase.PocketBase, logPrefix, message string,
	op func(services.LeadStore, string, time.Time) error) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		leadID := e.Request.PathValue("id")
		if leadID == "" {
			return ErrorToast(e, http.StatusBadRequest, "Missing lead ID")
		}

		if err := op(services.NewRecordStore(app), leadID, time.Now()); err != nil {
			if errors.Is(err, services.ErrLeadNotFound) {
				return ErrorToast(e, http.StatusNotFound, "Lead not found")
			}
			log.Printf("%s: %s: %v", logPrefix, leadID, err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		SetToast(e, "success", message)
		if e.Request.Header.Get("HX-Request") == "true" {
			e.Response.Header().Set("HX-Trigger-After-Settle", "leadsChanged")
			return e.String(http.StatusOK, "")
		}
		return e.NoContent(http.StatusNoContent)
	}
}

// HandleLeadBulkRestore restores several deleted leads.
// Expects JSON body: {"ids": ["id1", "id2", ...]}
// Route: POST /leads/restore
func HandleLeadBulkRestore(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var req BulkRestoreRequest
		if err := e.BindBody(&req); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid request body")
		}
		if len(req.IDs) == 0 {
			return ErrorToast(e, http.StatusBadRequest, "No IDs provided")
		}

		n, err := services.SetDeleted(services.NewRecordStore(app), req.IDs, false, time.Now())
		if err != nil {
			log.Printf("lead_restore: bulk: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		SetToast(e, "success", fmt.Sprintf("Restored %d lead(s)", n))
		return e.JSON(http.StatusOK, map[string]int{"restored": n})
	}
}

// HandleLeadPermanentDelete removes a lead for good.
// Route: DELETE /leads/{id}
func HandleLeadPermanentDelete(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		leadID := e.Request.PathValue("id")
		if leadID == "" {
			return ErrorToast(e, http.StatusBadRequest, "Missing lead ID")
		}

		if err := services.NewRecordStore(app).PermanentlyDelete(leadID); err != nil {
			if errors.Is(err, services.ErrLeadNotFound) {
				return ErrorToast(e, http.StatusNotFound, "Lead not found")
			}
			log.Printf("lead_delete: permanent %s: %v", leadID, err)
			return ErrorToast(e, http.StatusInternalServerError, "Failed to delete lead")
		}

		log.Printf("lead_delete: permanently deleted %s", leadID)
		SetToast(e, "success", "Lead deleted permanently")
		if e.Request.Header.Get("HX-Request") == "true" {
			return e.String(http.StatusOK, "")
		}
		return e.NoContent(http.StatusNoContent)
	}
}
