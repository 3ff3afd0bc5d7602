package handlers

import (
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"leadtracker/config"
	"leadtracker/services"
	"leadtracker/templates"
)

// leadView selects and titles the leads of one list route.
type leadView func(r *http.Request, leads []services.Lead, now time.Time) (string, []services.Lead, bool)

// HandleLeadList lists the active leads, or the deleted ones with ?deleted=1,
// filtered by the ?q= search term.
// Route: GET /leads
func HandleLeadList(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return leadListHandler(app, func(r *http.Request, leads []services.Lead, _ time.Time) (string, []services.Lead, bool) {
		title := "All Leads"
		var selected []services.Lead
		if r.URL.Query().Get("deleted") == "1" {
			title = "Deleted Leads"
			for _, l := range leads {
				if l.IsDeleted {
					selected = append(selected, l)
				}
			}
		} else {
			selected = services.ActiveLeads(leads)
		}
		return title, services.SearchLeads(selected, r.URL.Query().Get("q")), true
	})
}

// HandleDueToday lists open leads whose follow-up is today.
// Route: GET /leads/due-today
func HandleDueToday(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return leadListHandler(app, func(_ *http.Request, leads []services.Lead, now time.Time) (string, []services.Lead, bool) {
		return "Due Today", services.DueToday(leads, now), true
	})
}

// HandleOverdue lists open leads whose follow-up date has passed.
// Route: GET /leads/overdue
func HandleOverdue(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return leadListHandler(app, func(_ *http.Request, leads []services.Lead, now time.Time) (string, []services.Lead, bool) {
		return "Overdue", services.Overdue(leads, now), true
	})
}

// HandleThisWeek lists open leads due after today and up to Sunday.
// Route: GET /leads/this-week
func HandleThisWeek(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return leadListHandler(app, func(_ *http.Request, leads []services.Lead, now time.Time) (string, []services.Lead, bool) {
		return "This Week", services.ThisWeek(leads, now), true
	})
}

// HandleUpcoming lists open leads due within ?days= days (default from config).
// Route: GET /leads/upcoming
func HandleUpcoming(app *pocketbase.PocketBase, cfg config.Config) func(*core.RequestEvent) error {
	return leadListHandler(app, func(r *http.Request, leads []services.Lead, now time.Time) (string, []services.Lead, bool) {
		days := cfg.UpcomingDays
		if v := r.URL.Query().Get("days"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n < 1 {
				return "", nil, false
			}
			days = n
		}
		return "Upcoming", services.Upcoming(leads, now, days), true
	})
}

func leadListHandler(app *pocketbase.PocketBase, view leadView) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		leads, err := services.NewRecordStore(app).Leads()
		if err != nil {
			log.Printf("lead_list: load leads: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		title, selected, ok := view(e.Request, leads, time.Now())
		if !ok {
			return ErrorToast(e, http.StatusBadRequest, "Invalid query parameters")
		}
		if selected == nil {
			selected = []services.Lead{}
		}
		services.SortLeads(selected)

		if e.Request.Header.Get("HX-Request") != "true" {
			return e.JSON(http.StatusOK, selected)
		}

		schema, err := requestSchema(e, app)
		if err != nil {
			log.Printf("lead_list: load schema: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}
		return templates.LeadTable(templates.LeadTableData{
			Title:   title,
			Columns: schema.VisibleColumns(),
			Labels:  schema.HeaderLabels(),
			Leads:   selected,
			Nav:     GetNavCounts(e.Request),
		}).Render(e.Request.Context(), e.Response)
	}
}
