package handlers

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"leadtracker/config"
	"leadtracker/services"
	"leadtracker/templates"
)

type contextKey string

const ColumnSchemaKey contextKey = "columnSchema"
const NavCountsKey contextKey = "navCounts"

// GetColumnSchema extracts the column schema loaded by the middleware.
func GetColumnSchema(r *http.Request) *services.ColumnSchema {
	if val, ok := r.Context().Value(ColumnSchemaKey).(*services.ColumnSchema); ok {
		return val
	}
	return nil
}

// GetNavCounts extracts the pre-built follow-up counters from the request context.
func GetNavCounts(r *http.Request) templates.NavCounts {
	if val, ok := r.Context().Value(NavCountsKey).(templates.NavCounts); ok {
		return val
	}
	return templates.NavCounts{ActivePath: r.URL.Path}
}

// LeadContextMiddleware loads the column schema and the follow-up counters
// once per request and stores both in the request context.
func LeadContextMiddleware(app *pocketbase.PocketBase, cfg config.Config) func(e *core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		schema, err := services.LoadColumnSchema(app)
		if err != nil {
			log.Printf("middleware: load column schema: %v", err)
			return e.Next()
		}
		ctx := context.WithValue(e.Request.Context(), ColumnSchemaKey, schema)
		e.Request = e.Request.WithContext(ctx)

		counts := BuildNavCounts(e.Request, app, time.Now(), cfg.UpcomingDays)
		ctx = context.WithValue(e.Request.Context(), NavCountsKey, counts)
		e.Request = e.Request.WithContext(ctx)

		return e.Next()
	}
}

// requestSchema returns the schema from the request context, loading it when
// the middleware did not run.
func requestSchema(e *core.RequestEvent, app *pocketbase.PocketBase) (*services.ColumnSchema, error) {
	if s := GetColumnSchema(e.Request); s != nil {
		return s, nil
	}
	return services.LoadColumnSchema(app)
}
