package services

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cast"
)

// DateLayout is the canonical stored date format (DD-MM-YYYY).
const DateLayout = "02-01-2006"

// Coerced is the tagged result of normalizing one raw cell. OK is false when
// the value could not be converted to the column's type and Value holds the
// original input as a string.
type Coerced struct {
	Value    any
	OK       bool
	Original any
}

var (
	ddmmyyyyPattern  = regexp.MustCompile(`^\d{2}-\d{2}-\d{4}$`)
	isoDatePattern   = regexp.MustCompile(`^(\d{4})-(\d{1,2})-(\d{1,2})$`)
	slashDatePattern = regexp.MustCompile(`^(\d{1,2})[/.](\d{1,2})[/.](\d{4})$`)
	serialPattern    = regexp.MustCompile(`^\d{1,5}(\.\d+)?$`)
	yearPattern      = regexp.MustCompile(`^\d{4}$`)
	nonDigit         = regexp.MustCompile(`\D`)
)

const (
	minYear = "1900"
	maxYear = "2100"
)

// excelEpoch is the anchor for spreadsheet serial dates. Serial n maps to
// excelEpoch + (n-2) days, absorbing the 1900 leap-year bug.
var excelEpoch = time.Date(1900, time.January, 1, 0, 0, 0, 0, time.UTC)

// dateFieldKeys are always treated as dates regardless of column type.
var dateFieldKeys = map[string]bool{
	FieldConnectionDate:   true,
	FieldFollowUpDate:     true,
	FieldLastActivityDate: true,
}

// stringify renders any cell value as a string.
func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case time.Time:
		return t.Format(DateLayout)
	}
	s, err := cast.ToStringE(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return s
}

// Coerce normalizes a raw cell value for fieldKey. Field-specific rules
// (status, unit type, built-in dates) take precedence over the column type.
// Notes appending is handled by the import mapper, not here.
func Coerce(fieldKey string, raw any, colType ColumnType) Coerced {
	switch fieldKey {
	case FieldStatus:
		return Coerced{Value: NormalizeStatus(stringify(raw)), OK: true, Original: raw}
	case FieldUnitType:
		return Coerced{Value: NormalizeUnitType(stringify(raw)), OK: true, Original: raw}
	}
	if dateFieldKeys[fieldKey] {
		colType = ColumnDate
	}

	switch colType {
	case ColumnDate:
		s, ok := NormalizeDate(raw)
		return Coerced{Value: s, OK: ok, Original: raw}
	case ColumnPhone:
		return Coerced{Value: CleanPhone(stringify(raw)), OK: true, Original: raw}
	case ColumnEmail:
		return Coerced{Value: strings.ToLower(strings.TrimSpace(stringify(raw))), OK: true, Original: raw}
	case ColumnNumber:
		f, err := cast.ToFloat64E(strings.TrimSpace(stringify(raw)))
		if err != nil {
			return Coerced{Value: stringify(raw), OK: false, Original: raw}
		}
		return Coerced{Value: f, OK: true, Original: raw}
	default:
		return Coerced{Value: stringify(raw), OK: true, Original: raw}
	}
}

// NormalizeDate converts a date-like value to DD-MM-YYYY. The second return
// is false when the value could not be interpreted; the original string is
// returned in that case.
func NormalizeDate(raw any) (string, bool) {
	switch t := raw.(type) {
	case nil:
		return "", true
	case time.Time:
		return t.Format(DateLayout), true
	case float64:
		return serialToDate(t), true
	case int:
		return serialToDate(float64(t)), true
	case int64:
		return serialToDate(float64(t)), true
	}

	s := strings.TrimSpace(stringify(raw))
	if s == "" {
		return "", true
	}
	if ddmmyyyyPattern.MatchString(s) {
		return s, true
	}
	if m := isoDatePattern.FindStringSubmatch(s); m != nil {
		return fmt.Sprintf("%s-%s-%s", pad2(m[3]), pad2(m[2]), m[1]), true
	}
	if m := slashDatePattern.FindStringSubmatch(s); m != nil {
		// Day-first; M/D/YYYY input is not distinguished.
		return fmt.Sprintf("%s-%s-%s", pad2(m[1]), pad2(m[2]), m[3]), true
	}
	// A bare year in text is the first of January, not a serial.
	if yearPattern.MatchString(s) && s >= minYear && s <= maxYear {
		return "01-01-" + s, true
	}
	if serialPattern.MatchString(s) {
		f, err := strconv.ParseFloat(s, 64)
		if err == nil {
			return serialToDate(f), true
		}
	}
	if t, err := cast.ToTimeE(s); err == nil {
		return t.Format(DateLayout), true
	}
	return s, false
}

func pad2(s string) string {
	if len(s) == 1 {
		return "0" + s
	}
	return s
}

func serialToDate(serial float64) string {
	days := int(serial) - 2
	return excelEpoch.AddDate(0, 0, days).Format(DateLayout)
}

// ParseDate parses a stored DD-MM-YYYY date.
func ParseDate(s string) (time.Time, bool) {
	t, err := time.ParseInLocation(DateLayout, strings.TrimSpace(s), time.Local)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// FormatDate renders t as DD-MM-YYYY.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// CleanPhone strips every non-digit character.
func CleanPhone(s string) string {
	return nonDigit.ReplaceAllString(s, "")
}

var statusExact = map[string]string{
	"new":           StatusNew,
	"cnr":           StatusCNR,
	"busy":          StatusBusy,
	"follow-up":     StatusFollowUp,
	"followup":      StatusFollowUp,
	"follow up":     StatusFollowUp,
	"deal close":    StatusDealClose,
	"dealclose":     StatusDealClose,
	"deal_close":    StatusDealClose,
	"work alloted":  StatusWorkAlloted,
	"workalloted":   StatusWorkAlloted,
	"work_alloted":  StatusWorkAlloted,
	"wao":           StatusWorkAlloted,
	"hotlead":       StatusHotlead,
	"hot lead":      StatusHotlead,
	"hot_lead":      StatusHotlead,
	"mandate sent":  StatusMandateSent,
	"mandatesent":   StatusMandateSent,
	"mandate_sent":  StatusMandateSent,
	"documentation": StatusDocumentation,
	"others":        StatusOthers,
	"other":         StatusOthers,
}

// statusContains is evaluated in order after an exact match fails.
var statusContains = []struct {
	needles []string
	status  string
}{
	{[]string{"new"}, StatusNew},
	{[]string{"cnr"}, StatusCNR},
	{[]string{"busy"}, StatusBusy},
	{[]string{"follow"}, StatusFollowUp},
	{[]string{"deal", "close"}, StatusDealClose},
	{[]string{"work", "allot", "wao"}, StatusWorkAlloted},
	{[]string{"hot"}, StatusHotlead},
	{[]string{"mandate"}, StatusMandateSent},
	{[]string{"document"}, StatusDocumentation},
	{[]string{"other"}, StatusOthers},
}

// NormalizeStatus maps free-form status text onto the status vocabulary.
// Unrecognized values become StatusNew.
func NormalizeStatus(s string) string {
	v := strings.ToLower(strings.TrimSpace(s))
	if st, ok := statusExact[v]; ok {
		return st
	}
	for _, rule := range statusContains {
		for _, n := range rule.needles {
			if strings.Contains(v, n) {
				return rule.status
			}
		}
	}
	return StatusNew
}

// DisplayStatus returns the label shown for a stored status.
func DisplayStatus(status string) string {
	if status == StatusWorkAlloted {
		return "WAO"
	}
	return status
}

// NormalizeUnitType maps unit type text to New, Existing or Other, keeping
// any other value as a custom type.
func NormalizeUnitType(s string) string {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "new":
		return "New"
	case "existing":
		return "Existing"
	case "other", "others":
		return "Other"
	}
	return strings.TrimSpace(s)
}

// AppendNote joins an imported note fragment onto existing notes.
func AppendNote(existing, fragment string) string {
	fragment = strings.TrimSpace(fragment)
	if fragment == "" {
		return existing
	}
	if existing == "" {
		return fragment
	}
	return existing + " | " + fragment
}
