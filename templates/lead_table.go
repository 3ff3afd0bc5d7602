package templates

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"

	"leadtracker/services"
)

// LeadTableData feeds the lead grid partial.
type LeadTableData struct {
	Title   string
	Columns []services.ColumnConfig
	Labels  map[string]string
	Leads   []services.Lead
	Nav     NavCounts
}

// LeadTable renders a lead grid with one editable cell per visible column.
func LeadTable(data LeadTableData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if err := Nav(data.Nav).Render(ctx, w); err != nil {
			return err
		}

		h := &htmlWriter{w: w}
		h.raw(`<section id="content"><h2>`)
		h.text(data.Title)
		h.rawf(` <small>(%d)</small></h2>`, len(data.Leads))

		if len(data.Leads) == 0 {
			h.raw(`<p class="empty">No leads.</p></section>`)
			return h.err
		}

		headers, rows := services.BuildExportRows(data.Leads, data.Columns, data.Labels)
		h.raw(`<table class="lead-table"><thead><tr>`)
		for _, hd := range headers {
			h.raw(`<th>`)
			h.text(hd)
			h.raw(`</th>`)
		}
		h.raw(`<th></th></tr></thead><tbody>`)

		for i, row := range rows {
			lead := data.Leads[i]
			class := "lead"
			if lead.IsDeleted {
				class += " deleted"
			}
			if lead.IsDone {
				class += " done"
			}
			id := templ.EscapeString(lead.ID)
			h.rawf(`<tr id="lead-%s" class="%s">`, id, class)
			for c, v := range row {
				key := templ.EscapeString(data.Columns[c].Key)
				h.rawf(`<td data-field="%s" hx-patch="/leads/%s/cells/%s" hx-trigger="change" hx-include="this">`, key, id, key)
				if err := LeadCell(v).Render(ctx, w); err != nil {
					return err
				}
				h.raw(`</td>`)
			}
			h.raw(`<td class="actions">`)
			if lead.IsDeleted {
				h.rawf(`<button hx-post="/leads/%s/restore">Restore</button>`, id)
				h.rawf(`<button hx-delete="/leads/%s" hx-confirm="Delete permanently?">Delete</button>`, id)
			} else {
				h.rawf(`<button hx-post="/leads/%s/delete">Remove</button>`, id)
			}
			h.raw(`</td></tr>`)
		}
		h.raw(`</tbody></table></section>`)
		return h.err
	})
}

// LeadCell renders the input of one editable cell.
func LeadCell(v any) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.rawf(`<input name="value" value="%s">`, templ.EscapeString(cellText(v)))
		return h.err
	})
}

func cellText(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return fmt.Sprintf("%g", t)
	case nil:
		return ""
	}
	return fmt.Sprint(v)
}
