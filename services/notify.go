package services

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
)

// Severity is the toast level of a Notification.
type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Notification is an operation outcome for the toast surface.
type Notification struct {
	Message  string   `json:"message"`
	Severity Severity `json:"severity"`
	Count    int      `json:"count"`
}

// ImportNotification summarizes an import batch.
func ImportNotification(r *ImportResult) Notification {
	accepted := len(r.Accepted)
	var b strings.Builder
	fmt.Fprintf(&b, "Imported %s %s", humanize.Comma(int64(accepted)), plural(accepted, "lead", "leads"))
	if r.Rejected > 0 {
		fmt.Fprintf(&b, ", skipped %s invalid %s", humanize.Comma(int64(r.Rejected)), plural(r.Rejected, "row", "rows"))
	}
	if len(r.UnmappedHeaders) > 0 {
		fmt.Fprintf(&b, ". Unmapped columns: %s", strings.Join(r.UnmappedHeaders, ", "))
	}

	sev := SeveritySuccess
	switch {
	case accepted == 0:
		sev = SeverityError
	case r.Rejected > 0 || len(r.UnmappedHeaders) > 0:
		sev = SeverityWarning
	}
	return Notification{Message: b.String(), Severity: sev, Count: accepted}
}

// UnmappedNotification lists unmapped headers with the labels a file could
// have used instead.
func UnmappedNotification(mapping []HeaderMapping, cols []ColumnConfig) (Notification, bool) {
	var lines []string
	for _, m := range mapping {
		if m.Mapped {
			continue
		}
		line := fmt.Sprintf("%q", m.Header)
		if len(m.Suggestions) > 0 {
			line += " (did you mean " + strings.Join(m.Suggestions, " or ") + "?)"
		}
		lines = append(lines, line)
	}
	if len(lines) == 0 {
		return Notification{}, false
	}
	labels := make([]string, len(cols))
	for i, c := range cols {
		labels[i] = c.Label
	}
	msg := fmt.Sprintf("%s %s not recognized: %s. Available columns: %s",
		humanize.Comma(int64(len(lines))), plural(len(lines), "header", "headers"),
		strings.Join(lines, ", "), strings.Join(labels, ", "))
	return Notification{Message: msg, Severity: SeverityWarning, Count: len(lines)}, true
}

// ExportNotification reports an export.
func ExportNotification(count int, fileName string) Notification {
	return Notification{
		Message:  fmt.Sprintf("Exported %s %s to %s", humanize.Comma(int64(count)), plural(count, "lead", "leads"), fileName),
		Severity: SeveritySuccess,
		Count:    count,
	}
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
