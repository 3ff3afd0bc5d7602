package services

import (
	"regexp"
	"sort"
	"strings"
	"time"
)

var digitsOnly = regexp.MustCompile(`^\d+$`)

// SearchLeads filters leads by a free-text term. A digits-only term also
// matches any contact number containing those digits.
func SearchLeads(leads []Lead, term string) []Lead {
	term = strings.TrimSpace(term)
	if term == "" {
		return leads
	}
	lower := strings.ToLower(term)
	phoneSearch := digitsOnly.MatchString(term)

	var out []Lead
	for i := range leads {
		if leadMatches(&leads[i], lower, phoneSearch) {
			out = append(out, leads[i])
		}
	}
	return out
}

func leadMatches(l *Lead, lower string, phoneSearch bool) bool {
	numbers := []string{l.MobileNumber}
	var names []string
	for _, m := range l.MobileNumbers {
		numbers = append(numbers, m.Number)
		names = append(names, m.Name)
	}

	if phoneSearch {
		for _, n := range numbers {
			if n != "" && strings.Contains(CleanPhone(n), lower) {
				return true
			}
		}
	}

	fields := []string{l.ClientName, l.Company}
	fields = append(fields, numbers...)
	fields = append(fields, names...)
	fields = append(fields, l.ConsumerNumber, l.KVA, l.Discom, l.CompanyLocation,
		l.Notes, l.FinalConclusion, l.Status)
	for _, f := range fields {
		if f != "" && strings.Contains(strings.ToLower(f), lower) {
			return true
		}
	}
	return false
}

// SortLeads orders leads in place: deleted first, then done, then by most
// recent last activity.
func SortLeads(leads []Lead) {
	sort.SliceStable(leads, func(i, j int) bool {
		a, b := leads[i], leads[j]
		if a.IsDeleted != b.IsDeleted {
			return a.IsDeleted
		}
		if a.IsDone != b.IsDone {
			return a.IsDone
		}
		ta, _ := ParseDate(a.LastActivityDate)
		tb, _ := ParseDate(b.LastActivityDate)
		return ta.After(tb)
	})
}

// startOfDay truncates t to local midnight.
func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// followUpFilter keeps open leads whose follow-up date satisfies keep.
func followUpFilter(leads []Lead, loc *time.Location, keep func(due time.Time) bool) []Lead {
	var out []Lead
	for _, l := range leads {
		if l.IsDeleted || l.IsDone || l.FollowUpDate == "" {
			continue
		}
		due, ok := ParseDate(l.FollowUpDate)
		if !ok {
			continue
		}
		if keep(time.Date(due.Year(), due.Month(), due.Day(), 0, 0, 0, 0, loc)) {
			out = append(out, l)
		}
	}
	return out
}

// DueToday returns open leads with a follow-up scheduled for today.
func DueToday(leads []Lead, now time.Time) []Lead {
	today := startOfDay(now)
	return followUpFilter(leads, today.Location(), func(d time.Time) bool { return d.Equal(today) })
}

// Overdue returns open leads whose follow-up date has passed.
func Overdue(leads []Lead, now time.Time) []Lead {
	today := startOfDay(now)
	return followUpFilter(leads, today.Location(), func(d time.Time) bool { return d.Before(today) })
}

// Upcoming returns open leads with a follow-up after today and within days.
func Upcoming(leads []Lead, now time.Time, days int) []Lead {
	today := startOfDay(now)
	limit := today.AddDate(0, 0, days)
	return followUpFilter(leads, today.Location(), func(d time.Time) bool {
		return d.After(today) && !d.After(limit)
	})
}

// ThisWeek returns open leads with a follow-up after today and no later than
// the coming Sunday.
func ThisWeek(leads []Lead, now time.Time) []Lead {
	today := startOfDay(now)
	endOfWeek := today.AddDate(0, 0, 7-int(today.Weekday()))
	return followUpFilter(leads, today.Location(), func(d time.Time) bool {
		return d.After(today) && !d.After(endOfWeek)
	})
}

// ByStatus returns open leads with the given status.
func ByStatus(leads []Lead, status string) []Lead {
	var out []Lead
	for _, l := range leads {
		if !l.IsDeleted && !l.IsDone && l.Status == status {
			out = append(out, l)
		}
	}
	return out
}

// ActiveLeads drops soft-deleted leads.
func ActiveLeads(leads []Lead) []Lead {
	var out []Lead
	for _, l := range leads {
		if !l.IsDeleted {
			out = append(out, l)
		}
	}
	return out
}

// ExportContext selects which leads an export covers.
type ExportContext string

const (
	ContextAll      ExportContext = "all"
	ContextDueToday ExportContext = "due-today"
	ContextUpcoming ExportContext = "upcoming"
	ContextOverdue  ExportContext = "overdue"
	ContextMandate  ExportContext = "mandate"
	ContextDocument ExportContext = "documentation"
)

// ExportContexts lists the recognized export contexts.
var ExportContexts = []ExportContext{
	ContextAll, ContextDueToday, ContextUpcoming, ContextOverdue, ContextMandate, ContextDocument,
}

// ParseExportContext maps a query value to an ExportContext. An empty value
// selects ContextAll.
func ParseExportContext(s string) (ExportContext, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return ContextAll, true
	}
	for _, c := range ExportContexts {
		if string(c) == s {
			return c, true
		}
	}
	return "", false
}

// LeadsForContext applies an export context to the collection.
func LeadsForContext(leads []Lead, ctx ExportContext, now time.Time, upcomingDays int) []Lead {
	switch ctx {
	case ContextDueToday:
		return DueToday(leads, now)
	case ContextUpcoming:
		return Upcoming(leads, now, upcomingDays)
	case ContextOverdue:
		return Overdue(leads, now)
	case ContextMandate:
		return ByStatus(leads, StatusMandateSent)
	case ContextDocument:
		return ByStatus(leads, StatusDocumentation)
	}
	return ActiveLeads(leads)
}
