package handlers

import (
	"log"
	"net/http"
	"time"

	"github.com/pocketbase/pocketbase"

	"leadtracker/services"
	"leadtracker/templates"
)

// BuildNavCounts constructs the follow-up counters for the lead views from
// the stored leads. upcomingDays is the window of the Upcoming badge.
func BuildNavCounts(r *http.Request, app *pocketbase.PocketBase, now time.Time, upcomingDays int) templates.NavCounts {
	data := templates.NavCounts{ActivePath: r.URL.Path}

	leads, err := services.NewRecordStore(app).Leads()
	if err != nil {
		log.Printf("nav: load leads: %v", err)
		return data
	}
	return countLeads(data, leads, now, upcomingDays)
}

func countLeads(data templates.NavCounts, leads []services.Lead, now time.Time, upcomingDays int) templates.NavCounts {
	data.DueToday = len(services.DueToday(leads, now))
	data.Overdue = len(services.Overdue(leads, now))
	data.Upcoming = len(services.Upcoming(leads, now, upcomingDays))
	for _, l := range leads {
		if l.IsDeleted {
			data.Deleted++
		}
	}
	return data
}
