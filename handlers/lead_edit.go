package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"mime"
	"net/http"
	"strconv"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"leadtracker/services"
	"leadtracker/templates"
)

// cellEditRequest is the JSON body of an inline edit.
type cellEditRequest struct {
	Value any `json:"value"`
}

// HandleCellEdit updates one field of one lead.
// Route: PATCH /leads/{id}/cells/{field}
func HandleCellEdit(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		leadID := e.Request.PathValue("id")
		field := e.Request.PathValue("field")
		if leadID == "" || field == "" {
			return ErrorToast(e, http.StatusBadRequest, "Missing lead ID or field")
		}

		value, err := cellValue(e.Request)
		if err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid request body")
		}

		schema, err := requestSchema(e, app)
		if err != nil {
			log.Printf("lead_edit: load schema: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		editor := &services.CellEditor{
			Store:   services.NewRecordStore(app),
			Columns: schema,
		}
		lead, err := editor.UpdateCell(leadID, field, value)
		if err != nil {
			var fe *services.FieldError
			switch {
			case errors.As(err, &fe):
				return ErrorToast(e, http.StatusUnprocessableEntity, fe.Error())
			case errors.Is(err, services.ErrLeadNotFound):
				return ErrorToast(e, http.StatusNotFound, "Lead not found")
			case errors.Is(err, services.ErrColumnNotFound):
				return ErrorToast(e, http.StatusNotFound, "Column not found")
			}
			log.Printf("lead_edit: %s.%s: %v", leadID, field, err)
			return ErrorToast(e, http.StatusInternalServerError, "Failed to save changes")
		}

		if e.Request.Header.Get("HX-Request") != "true" {
			return e.JSON(http.StatusOK, lead)
		}
		SetToast(e, "success", "Saved")
		col, ok := schema.ColumnByKey(field)
		if !ok {
			col = services.ColumnConfig{Key: field, Type: services.ColumnText}
		}
		return templates.LeadCell(services.ExportCell(&lead, col)).Render(e.Request.Context(), e.Response)
	}
}

// cellValue reads the edited value from a JSON body or the "value" form field.
func cellValue(r *http.Request) (any, error) {
	ct, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if ct == "application/json" {
		var req cellEditRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return nil, err
		}
		return req.Value, nil
	}
	if err := r.ParseForm(); err != nil {
		return nil, err
	}
	return r.FormValue("value"), nil
}

// HandleMarkDone sets the done flag of a lead from the "done" form value.
// A missing value marks the lead done.
// Route: POST /leads/{id}/done
func HandleMarkDone(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		leadID := e.Request.PathValue("id")
		if leadID == "" {
			return ErrorToast(e, http.StatusBadRequest, "Missing lead ID")
		}
		done := true
		if v := e.Request.FormValue("done"); v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return ErrorToast(e, http.StatusBadRequest, "Invalid done value")
			}
			done = b
		}

		if err := services.MarkDone(services.NewRecordStore(app), leadID, done, time.Now()); err != nil {
			if errors.Is(err, services.ErrLeadNotFound) {
				return ErrorToast(e, http.StatusNotFound, "Lead not found")
			}
			log.Printf("lead_done: %s: %v", leadID, err)
			return ErrorToast(e, http.StatusInternalServerError, "Failed to save changes")
		}

		if done {
			SetToast(e, "success", "Lead marked done")
		} else {
			SetToast(e, "info", "Lead reopened")
		}
		return e.NoContent(http.StatusNoContent)
	}
}
