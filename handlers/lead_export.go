package handlers

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"leadtracker/config"
	"leadtracker/services"
)

// HandleLeadExport downloads the leads of an export context as an Excel file
// with the visible columns in schema order.
// Route: GET /leads/export?context=all|due-today|upcoming|overdue|mandate|documentation
func HandleLeadExport(app *pocketbase.PocketBase, cfg config.Config) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		raw := e.Request.URL.Query().Get("context")
		if raw == "" {
			raw = cfg.Context
		}
		ctx, ok := services.ParseExportContext(raw)
		if !ok {
			return ErrorToast(e, http.StatusBadRequest, fmt.Sprintf("Unknown export context %q", raw))
		}

		schema, err := requestSchema(e, app)
		if err != nil {
			log.Printf("lead_export: load schema: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}
		leads, err := services.NewRecordStore(app).Leads()
		if err != nil {
			log.Printf("lead_export: load leads: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		now := time.Now()
		selected := services.LeadsForContext(leads, ctx, now, cfg.UpcomingDays)

		xlsxBytes, err := services.GenerateLeadsExcel(selected, schema.VisibleColumns(), schema.HeaderLabels(), cfg.SheetName)
		if err != nil {
			log.Printf("lead_export: generate: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Failed to generate Excel file")
		}

		filename := services.ExportFileName(string(ctx), now)
		log.Printf("lead_export: %d leads (%s) -> %s", len(selected), ctx, filename)

		Notify(e, services.ExportNotification(len(selected), filename))
		writeDownload(e, xlsxContentType, filename, xlsxBytes)
		return nil
	}
}

// HandleFollowUpPDF downloads the printable follow-up call sheet.
// Route: GET /leads/followups.pdf
func HandleFollowUpPDF(app *pocketbase.PocketBase, cfg config.Config) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		leads, err := services.NewRecordStore(app).Leads()
		if err != nil {
			log.Printf("followup_pdf: load leads: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		now := time.Now()
		pdfBytes, err := services.GenerateFollowUpPDF(services.BuildFollowUpSheet(leads, now, cfg.UpcomingDays))
		if err != nil {
			log.Printf("followup_pdf: generate: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Failed to generate PDF")
		}

		filename := fmt.Sprintf("followups-%s.pdf", now.Format("2006-01-02"))
		writeDownload(e, pdfContentType, filename, pdfBytes)
		return nil
	}
}
