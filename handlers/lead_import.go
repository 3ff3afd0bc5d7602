package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"leadtracker/config"
	"leadtracker/services"
	"leadtracker/templates"
)

// importResponse is the JSON body of a non-HTMX import.
type importResponse struct {
	Accepted     int                    `json:"accepted"`
	Result       *services.ImportResult `json:"result"`
	Notification services.Notification  `json:"notification"`
	Unmapped     *services.Notification `json:"unmapped,omitempty"`
	LeadIDs      []string               `json:"lead_ids"`
}

// HandleLeadImport receives a CSV or Excel upload, maps its rows to leads
// and appends the accepted ones to the lead collection.
// Route: POST /leads/import
func HandleLeadImport(app *pocketbase.PocketBase, cfg config.Config) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		limit := cfg.MaxUploadBytes()
		if err := e.Request.ParseMultipartForm(limit); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "File too large or invalid form data")
		}

		file, header, err := e.Request.FormFile("file")
		if err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Please select a file to upload")
		}
		defer file.Close()

		if header.Size > limit {
			return ErrorToast(e, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("File exceeds the %d MB upload limit", cfg.MaxUploadMB))
		}
		data, err := io.ReadAll(io.LimitReader(file, limit+1))
		if err != nil {
			log.Printf("lead_import: read upload: %v", err)
			return ErrorToast(e, http.StatusBadRequest, "Could not read the uploaded file")
		}
		if int64(len(data)) > limit {
			return ErrorToast(e, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("File exceeds the %d MB upload limit", cfg.MaxUploadMB))
		}

		schema, err := requestSchema(e, app)
		if err != nil {
			log.Printf("lead_import: load schema: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		result, err := services.ImportLeads(header.Filename, data, services.ImportOptions{
			Columns:      schema,
			HeaderLabels: schema.HeaderLabels(),
			ExtraAliases: cfg.Aliases,
		})
		if err != nil {
			log.Printf("lead_import: %s: %v", header.Filename, err)
			return ErrorToast(e, http.StatusBadRequest, importErrorMessage(err))
		}

		if err := services.MergeImported(services.NewRecordStore(app), result.Accepted); err != nil {
			log.Printf("lead_import: save: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		notification := services.ImportNotification(result)
		Notify(e, notification)

		resp := importResponse{
			Accepted:     result.AcceptedCount(),
			Result:       result,
			Notification: notification,
			LeadIDs:      make([]string, 0, len(result.Accepted)),
		}
		for _, l := range result.Accepted {
			resp.LeadIDs = append(resp.LeadIDs, l.ID)
		}
		if n, ok := services.UnmappedNotification(result.Mapping, schema.VisibleColumns()); ok {
			resp.Unmapped = &n
		}

		if e.Request.Header.Get("HX-Request") != "true" {
			return e.JSON(http.StatusOK, resp)
		}

		var errorsJSON string
		if len(result.Errors) > 0 {
			b, err := json.Marshal(result.Errors)
			if err != nil {
				log.Printf("lead_import: marshal errors: %v", err)
			} else {
				errorsJSON = string(b)
			}
		}
		return templates.ImportSummary(templates.ImportSummaryData{
			Result:       result,
			Notification: notification,
			Unmapped:     resp.Unmapped,
			ErrorsJSON:   errorsJSON,
		}).Render(e.Request.Context(), e.Response)
	}
}

// importErrorMessage turns a file-level import failure into a toast message.
func importErrorMessage(err error) string {
	switch {
	case errors.Is(err, services.ErrUnsupportedFormat):
		return "Unsupported file type. Please upload a .csv or .xlsx file (save .xls files as .xlsx first)"
	case errors.Is(err, services.ErrEmptyFile):
		return "The uploaded file is empty"
	case errors.Is(err, services.ErrNoSheets):
		return "The workbook has no sheets"
	case errors.Is(err, services.ErrNoDataRows):
		return "File must contain a header row and at least one data row"
	}
	return "Could not read the file: " + err.Error()
}

// HandleImportErrorReport downloads the rejected rows of an import as an
// Excel file. The errors arrive in the errors_json form field or as a JSON
// body.
// Route: POST /leads/import/errors
func HandleImportErrorReport(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var errs []services.ValidationError

		if v := e.Request.FormValue("errors_json"); v != "" {
			if err := json.Unmarshal([]byte(v), &errs); err != nil {
				return ErrorToast(e, http.StatusBadRequest, "Invalid error data")
			}
		} else if err := json.NewDecoder(e.Request.Body).Decode(&errs); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid error data")
		}

		xlsxBytes, err := services.GenerateErrorReport(errs)
		if err != nil {
			log.Printf("error_report: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		filename := fmt.Sprintf("lead-import-errors-%s.xlsx", time.Now().Format("2006-01-02"))
		writeDownload(e, xlsxContentType, filename, xlsxBytes)
		return nil
	}
}

const (
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	pdfContentType  = "application/pdf"
)

func writeDownload(e *core.RequestEvent, contentType, filename string, data []byte) {
	e.Response.Header().Set("Content-Type", contentType)
	e.Response.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	e.Response.Write(data)
}
