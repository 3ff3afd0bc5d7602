package services

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/spf13/cast"
)

var (
	leadEmailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	leadPhonePattern = regexp.MustCompile(`^[0-9]{10,15}$`)
)

// FieldValidator checks one field value against its column definition and
// returns a user-facing message, or "" when the value is acceptable.
type FieldValidator func(fieldKey string, value any, lead *Lead, col ColumnConfig) string

// ValidateLeadField is the default FieldValidator used by inline edits and
// import row filtering.
func ValidateLeadField(fieldKey string, value any, lead *Lead, col ColumnConfig) string {
	s := strings.TrimSpace(stringify(value))
	if s == "" {
		if col.Required {
			return fmt.Sprintf("%s is required", col.Label)
		}
		return ""
	}

	switch col.Type {
	case ColumnText:
		if col.MaxLength > 0 && len([]rune(s)) > col.MaxLength {
			return fmt.Sprintf("%s must be at most %d characters", col.Label, col.MaxLength)
		}
	case ColumnNumber:
		f, err := cast.ToFloat64E(s)
		if err != nil {
			return ""
		}
		if col.Min != nil && f < *col.Min {
			return fmt.Sprintf("%s must be at least %v", col.Label, *col.Min)
		}
		if col.Max != nil && f > *col.Max {
			return fmt.Sprintf("%s must be at most %v", col.Label, *col.Max)
		}
	case ColumnEmail:
		if !leadEmailPattern.MatchString(s) {
			return "Invalid email format"
		}
	case ColumnPhone:
		if !leadPhonePattern.MatchString(CleanPhone(s)) {
			return fmt.Sprintf("%s must be 10 to 15 digits", col.Label)
		}
	case ColumnSelect:
		if len(col.Options) > 0 && !slices.Contains(col.Options, s) {
			return fmt.Sprintf("%s must be one of: %s", col.Label, strings.Join(col.Options, ", "))
		}
	case ColumnDate:
		if col.AllowPast {
			return ""
		}
		t, ok := ParseDate(s)
		if !ok {
			return ""
		}
		y, m, d := time.Now().Date()
		if t.Before(time.Date(y, m, d, 0, 0, 0, 0, time.Local)) {
			return fmt.Sprintf("%s cannot be in the past", col.Label)
		}
	}
	return ""
}
