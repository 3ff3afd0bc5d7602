// Package templates holds the HTML partials rendered by the handlers. The
// components are written against the templ runtime so handlers render them
// with Component.Render like any generated templ view.
package templates

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/a-h/templ"
)

// NavCounts are the follow-up badges shown next to the lead views.
type NavCounts struct {
	ActivePath string
	DueToday   int
	Overdue    int
	Upcoming   int
	Deleted    int
}

type htmlWriter struct {
	w   io.Writer
	err error
}

func (h *htmlWriter) raw(s string) {
	if h.err != nil {
		return
	}
	_, h.err = io.WriteString(h.w, s)
}

func (h *htmlWriter) text(s string) {
	h.raw(templ.EscapeString(s))
}

func (h *htmlWriter) rawf(format string, args ...any) {
	h.raw(fmt.Sprintf(format, args...))
}

// Nav renders the lead view links with their counters.
func Nav(counts NavCounts) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		links := []struct {
			href  string
			label string
			count int
		}{
			{"/leads", "All Leads", -1},
			{"/leads/due-today", "Due Today", counts.DueToday},
			{"/leads/overdue", "Overdue", counts.Overdue},
			{"/leads/upcoming", "Upcoming", counts.Upcoming},
			{"/leads?deleted=1", "Deleted", counts.Deleted},
		}
		h.raw(`<nav class="lead-nav">`)
		for _, l := range links {
			class := "nav-link"
			if l.href == counts.ActivePath {
				class += " active"
			}
			h.rawf(`<a class="%s" href="%s" hx-get="%s" hx-target="#content">`, class, templ.EscapeString(l.href), templ.EscapeString(l.href))
			h.text(l.label)
			if l.count >= 0 {
				h.rawf(` <span class="badge">%d</span>`, l.count)
			}
			h.raw(`</a>`)
		}
		h.raw(`</nav>`)
		return h.err
	})
}

// joinEscaped escapes each item and joins them with sep.
func joinEscaped(items []string, sep string) string {
	out := make([]string, len(items))
	for i, s := range items {
		out[i] = templ.EscapeString(s)
	}
	return strings.Join(out, sep)
}
