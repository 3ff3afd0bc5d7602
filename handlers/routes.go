package handlers

import (
	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
	"github.com/pocketbase/pocketbase/tools/router"

	"leadtracker/config"
)

// RegisterRoutes adds the lead and column routes to r. The lead context
// middleware is bound to the /leads group only; the returned group is that
// /leads group.
func RegisterRoutes(r *router.Router[*core.RequestEvent], app *pocketbase.PocketBase, cfg config.Config) *router.RouterGroup[*core.RequestEvent] {
	leads := r.Group("/leads")
	leads.BindFunc(LeadContextMiddleware(app, cfg))

	// ── Lead views ───────────────────────────────────────────
	leads.GET("", HandleLeadList(app))
	leads.GET("/due-today", HandleDueToday(app))
	leads.GET("/overdue", HandleOverdue(app))
	leads.GET("/upcoming", HandleUpcoming(app, cfg))
	leads.GET("/this-week", HandleThisWeek(app))

	// ── Import / export ──────────────────────────────────────
	leads.POST("/import", HandleLeadImport(app, cfg))
	leads.POST("/import/errors", HandleImportErrorReport(app))
	leads.GET("/export", HandleLeadExport(app, cfg))
	leads.GET("/followups.pdf", HandleFollowUpPDF(app, cfg))

	// ── Lead edits ───────────────────────────────────────────
	leads.PATCH("/{id}/cells/{field}", HandleCellEdit(app))
	leads.POST("/{id}/done", HandleMarkDone(app))

	// ── Delete / restore (bulk restore before {id} routes) ──
	leads.POST("/restore", HandleLeadBulkRestore(app))
	leads.POST("/{id}/delete", HandleLeadDelete(app))
	leads.POST("/{id}/restore", HandleLeadRestore(app))
	leads.DELETE("/{id}", HandleLeadPermanentDelete(app))

	// ── Column schema ────────────────────────────────────────
	columns := r.Group("/columns")
	columns.GET("", HandleColumnList(app))
	columns.POST("", HandleColumnUpsert(app))
	columns.POST("/{key}", HandleColumnUpdate(app))
	columns.DELETE("/{key}", HandleColumnDelete(app))

	return leads
}
