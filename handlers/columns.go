package handlers

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"leadtracker/services"
)

// columnsResponse is the JSON view of the column schema.
type columnsResponse struct {
	Columns      []services.ColumnConfig `json:"columns"`
	HeaderLabels map[string]string       `json:"headerLabels"`
}

// ColumnPatchRequest updates one column. Nil members are left unchanged.
type ColumnPatchRequest struct {
	Label       *string `json:"label"`
	Visible     *bool   `json:"visible"`
	HeaderLabel *string `json:"headerLabel"`
}

func schemaResponse(schema *services.ColumnSchema) columnsResponse {
	return columnsResponse{
		Columns:      schema.Columns(),
		HeaderLabels: schema.HeaderLabels(),
	}
}

// HandleColumnList returns the column schema.
// Route: GET /columns
func HandleColumnList(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		schema, err := services.LoadColumnSchema(app)
		if err != nil {
			log.Printf("columns: load: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}
		return e.JSON(http.StatusOK, schemaResponse(schema))
	}
}

// HandleColumnUpsert adds a column or replaces the column with the same key.
// Route: POST /columns
func HandleColumnUpsert(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var col services.ColumnConfig
		if err := e.BindBody(&col); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid request body")
		}
		col.Key = strings.TrimSpace(col.Key)
		col.Label = strings.TrimSpace(col.Label)

		return updateSchema(e, app, func(schema *services.ColumnSchema) error {
			return schema.Upsert(col)
		})
	}
}

// HandleColumnUpdate changes the label, visibility or header label of a column.
// Route: POST /columns/{key}
func HandleColumnUpdate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		key := e.Request.PathValue("key")
		if key == "" {
			return ErrorToast(e, http.StatusBadRequest, "Missing column key")
		}
		var req ColumnPatchRequest
		if err := e.BindBody(&req); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid request body")
		}

		return updateSchema(e, app, func(schema *services.ColumnSchema) error {
			col, ok := schema.ColumnByKey(key)
			if !ok {
				return services.ErrColumnNotFound
			}
			if req.Label != nil {
				col.Label = strings.TrimSpace(*req.Label)
				if err := schema.Upsert(col); err != nil {
					return err
				}
			}
			if req.Visible != nil {
				if err := schema.SetVisible(key, *req.Visible); err != nil {
					return err
				}
			}
			if req.HeaderLabel != nil {
				schema.SetHeaderLabel(key, *req.HeaderLabel)
			}
			return nil
		})
	}
}

// HandleColumnDelete removes a column from the schema. Lead values stored
// under the key are kept.
// Route: DELETE /columns/{key}
func HandleColumnDelete(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		key := e.Request.PathValue("key")
		if key == "" {
			return ErrorToast(e, http.StatusBadRequest, "Missing column key")
		}
		return updateSchema(e, app, func(schema *services.ColumnSchema) error {
			return schema.Remove(key)
		})
	}
}

// updateSchema loads the schema, applies change and persists the result.
func updateSchema(e *core.RequestEvent, app *pocketbase.PocketBase, change func(*services.ColumnSchema) error) error {
	schema, err := services.LoadColumnSchema(app)
	if err != nil {
		log.Printf("columns: load: %v", err)
		return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
	}

	if err := change(schema); err != nil {
		if errors.Is(err, services.ErrColumnNotFound) {
			return ErrorToast(e, http.StatusNotFound, "Column not found")
		}
		return ErrorToast(e, http.StatusUnprocessableEntity, err.Error())
	}

	if err := services.SaveColumnSchema(app, schema); err != nil {
		log.Printf("columns: save: %v", err)
		return ErrorToast(e, http.StatusInternalServerError, "Failed to save columns")
	}

	SetToast(e, "success", "Columns updated")
	return e.JSON(http.StatusOK, schemaResponse(schema))
}
