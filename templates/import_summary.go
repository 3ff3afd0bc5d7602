package templates

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"leadtracker/services"
)

// maxListedErrors bounds the rejected-row list in the summary; the full
// list is available through the error report download.
const maxListedErrors = 20

// ImportSummaryData feeds the import result partial.
type ImportSummaryData struct {
	Result       *services.ImportResult
	Notification services.Notification
	Unmapped     *services.Notification
	ErrorsJSON   string
}

// ImportSummary renders the outcome of an upload: totals, the header
// mapping and the first rejected rows.
func ImportSummary(data ImportSummaryData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		r := data.Result

		h.rawf(`<div id="import-summary" class="import-summary %s">`, templ.EscapeString(string(data.Notification.Severity)))
		h.raw(`<p class="import-message">`)
		h.text(data.Notification.Message)
		h.raw(`</p>`)
		h.rawf(`<dl class="import-totals"><dt>Rows</dt><dd>%d</dd><dt>Imported</dt><dd>%d</dd><dt>Skipped</dt><dd>%d</dd></dl>`,
			r.TotalRows, r.AcceptedCount(), r.Rejected)

		if data.Unmapped != nil {
			h.raw(`<p class="import-unmapped">`)
			h.text(data.Unmapped.Message)
			h.raw(`</p>`)
		}

		h.raw(`<table class="import-mapping"><thead><tr><th>File header</th><th>Column</th><th>Type</th></tr></thead><tbody>`)
		for _, m := range r.Mapping {
			class := "mapped"
			label := m.Label
			if !m.Mapped {
				class = "unmapped"
				label = services.UnmappedField
			}
			h.rawf(`<tr class="%s"><td>`, class)
			h.text(m.Header)
			h.raw(`</td><td>`)
			h.text(label)
			if len(m.Suggestions) > 0 {
				h.raw(` <small>did you mean `)
				h.raw(joinEscaped(m.Suggestions, " or "))
				h.raw(`?</small>`)
			}
			h.raw(`</td><td>`)
			h.text(string(m.Type))
			h.raw(`</td></tr>`)
		}
		h.raw(`</tbody></table>`)

		if len(r.Errors) > 0 {
			h.raw(`<table class="import-errors"><thead><tr><th>Row</th><th>Field</th><th>Error</th></tr></thead><tbody>`)
			for i, e := range r.Errors {
				if i == maxListedErrors {
					h.rawf(`<tr><td colspan="3">and %d more</td></tr>`, len(r.Errors)-maxListedErrors)
					break
				}
				h.rawf(`<tr><td>%d</td><td>`, e.Row)
				h.text(e.Field)
				h.raw(`</td><td>`)
				h.text(e.Message)
				h.raw(`</td></tr>`)
			}
			h.raw(`</tbody></table>`)
			h.raw(`<form method="post" action="/leads/import/errors">`)
			h.rawf(`<input type="hidden" name="errors_json" value="%s">`, templ.EscapeString(data.ErrorsJSON))
			h.raw(`<button type="submit">Download error report</button></form>`)
		}

		if len(r.Warnings) > 0 {
			h.raw(`<ul class="import-warnings">`)
			for _, wn := range r.Warnings {
				h.rawf(`<li>Row %d, `, wn.Row)
				h.text(wn.Field)
				h.raw(`: `)
				h.text(wn.Message)
				h.raw(`</li>`)
			}
			h.raw(`</ul>`)
		}

		h.raw(`</div>`)
		return h.err
	})
}
