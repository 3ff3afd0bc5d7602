package services

import (
	"maps"
	"regexp"
	"slices"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// AliasSource records which table contributed an alias entry.
type AliasSource int

const (
	AliasFromSchema AliasSource = iota
	AliasFromLegacy
)

// AliasEntry is the field a normalized header resolves to.
type AliasEntry struct {
	FieldKey string
	Source   AliasSource
}

// AliasMap maps normalized header strings to field keys.
type AliasMap map[string]AliasEntry

// Lookup resolves a raw header. Lookups are case- and whitespace-insensitive.
func (m AliasMap) Lookup(header string) (AliasEntry, bool) {
	e, ok := m[normalizeHeader(header)]
	return e, ok
}

// add inserts an entry unless the header is already mapped.
func (m AliasMap) add(header, fieldKey string, src AliasSource) {
	if header == "" {
		return
	}
	if _, exists := m[header]; exists {
		return
	}
	m[header] = AliasEntry{FieldKey: fieldKey, Source: src}
}

var whitespaceRun = regexp.MustCompile(`\s+`)

// normalizeHeader folds a header to its lookup form: NFKC, lowercase,
// trimmed, with the " *" required marker from our own templates removed.
func normalizeHeader(h string) string {
	h = strings.ToLower(strings.TrimSpace(norm.NFKC.String(h)))
	h = strings.TrimSpace(strings.TrimSuffix(h, " *"))
	return h
}

// BuildAliasMap derives the header alias map for one import. Entries are
// inserted in priority order and never overwritten: custom header labels,
// then column labels, then their type-specific variants, then the legacy
// table, then operator-configured extras. Header labels are taken in column
// order, and labels or extras outside it in sorted key order.
func BuildAliasMap(columns []ColumnConfig, headerLabels map[string]string, extra map[string]string) AliasMap {
	m := make(AliasMap, len(columns)*6+len(legacyHeaderAliases))

	for _, col := range columns {
		if label, ok := headerLabels[col.Key]; ok {
			m.add(normalizeHeader(label), col.Key, AliasFromSchema)
		}
	}
	for _, key := range slices.Sorted(maps.Keys(headerLabels)) {
		m.add(normalizeHeader(headerLabels[key]), key, AliasFromSchema)
	}
	for _, col := range columns {
		m.add(normalizeHeader(col.Label), col.Key, AliasFromSchema)
	}
	for _, col := range columns {
		for _, v := range labelVariants(normalizeHeader(col.Label), col.Type) {
			m.add(v, col.Key, AliasFromSchema)
		}
	}
	for header, key := range legacyHeaderAliases {
		m.add(header, key, AliasFromLegacy)
	}
	for _, header := range slices.Sorted(maps.Keys(extra)) {
		m.add(normalizeHeader(header), extra[header], AliasFromLegacy)
	}
	return m
}

// labelVariants returns the alternative spellings a column label is also
// matched under, depending on its type.
func labelVariants(label string, t ColumnType) []string {
	joined := []string{
		whitespaceRun.ReplaceAllString(label, ""),
		whitespaceRun.ReplaceAllString(label, "_"),
		whitespaceRun.ReplaceAllString(label, "-"),
	}
	var affixed []string
	switch t {
	case ColumnDate:
		affixed = []string{label + " date", "date " + label}
	case ColumnPhone:
		affixed = []string{label + " number", "phone " + label}
	case ColumnEmail:
		affixed = []string{label + " email", "email " + label}
	case ColumnNumber:
		affixed = []string{label + " number", "number " + label}
	}
	return append(affixed, joined...)
}

// legacyHeaderAliases maps historical spreadsheet headers to core field keys.
// Keys are already normalized.
var legacyHeaderAliases = map[string]string{
	// consumer number
	"con.no":            FieldConsumerNumber,
	"con.no.":           FieldConsumerNumber,
	"con no":            FieldConsumerNumber,
	"connection number": FieldConsumerNumber,
	"consumer number":   FieldConsumerNumber,
	"consumernumber":    FieldConsumerNumber,
	"consumer_number":   FieldConsumerNumber,
	"consumer no":       FieldConsumerNumber,

	// kva
	"kva":        FieldKVA,
	"kva rating": FieldKVA,
	"load (kva)": FieldKVA,

	// client name
	"client name":  FieldClientName,
	"clientname":   FieldClientName,
	"client_name":  FieldClientName,
	"client":       FieldClientName,
	"name":         FieldClientName,
	"full name":    FieldClientName,
	"lead name":    FieldClientName,
	"contact name": FieldClientName,
	"customer":     FieldClientName,

	// connection date
	"connection date": FieldConnectionDate,
	"connectiondate":  FieldConnectionDate,
	"connection_date": FieldConnectionDate,

	// company
	"company":      FieldCompany,
	"company name": FieldCompany,
	"companyname":  FieldCompany,
	"company_name": FieldCompany,
	"organization": FieldCompany,
	"organisation": FieldCompany,
	"firm":         FieldCompany,

	// company location
	"company location": FieldCompanyLocation,
	"companylocation":  FieldCompanyLocation,
	"company_location": FieldCompanyLocation,
	"location":         FieldCompanyLocation,
	"address":          FieldCompanyLocation,

	// main mobile number
	"mo.no":              FieldMobileNumber,
	"mo.no.":             FieldMobileNumber,
	"mo .no":             FieldMobileNumber,
	"mo .no.":            FieldMobileNumber,
	"mobile number":      FieldMobileNumber,
	"mobilenumber":       FieldMobileNumber,
	"mobile":             FieldMobileNumber,
	"phone":              FieldMobileNumber,
	"phone number":       FieldMobileNumber,
	"contact phone":      FieldMobileNumber,
	"telephone":          FieldMobileNumber,
	"main mobile number": FieldMobileNumber,

	// unit type
	"unit type": FieldUnitType,
	"unittype":  FieldUnitType,
	"unit_type": FieldUnitType,
	"type":      FieldUnitType,

	// status
	"status":         FieldStatus,
	"lead status":    FieldStatus,
	"current status": FieldStatus,
	"leadstatus":     FieldStatus,
	"lead_status":    FieldStatus,
	"lead-status":    FieldStatus,

	// follow-up date
	"follow up date":      FieldFollowUpDate,
	"follow-up date":      FieldFollowUpDate,
	"followup date":       FieldFollowUpDate,
	"followupdate":        FieldFollowUpDate,
	"follow_up_date":      FieldFollowUpDate,
	"follow-up-date":      FieldFollowUpDate,
	"followup_date":       FieldFollowUpDate,
	"followup":            FieldFollowUpDate,
	"follow_up":           FieldFollowUpDate,
	"follow-up":           FieldFollowUpDate,
	"next follow up":      FieldFollowUpDate,
	"next follow-up":      FieldFollowUpDate,
	"next followup":       FieldFollowUpDate,
	"nextfollowup":        FieldFollowUpDate,
	"next_follow_up":      FieldFollowUpDate,
	"next_followup":       FieldFollowUpDate,
	"next-follow-up":      FieldFollowUpDate,
	"next follow-up date": FieldFollowUpDate,
	"next followup date":  FieldFollowUpDate,
	"next_follow_up_date": FieldFollowUpDate,
	"nextfollowupdate":    FieldFollowUpDate,
	"nextfollowup_date":   FieldFollowUpDate,
	"next call date":      FieldFollowUpDate,
	"nextcalldate":        FieldFollowUpDate,
	"next_call_date":      FieldFollowUpDate,
	"next-call-date":      FieldFollowUpDate,
	"callback date":       FieldFollowUpDate,
	"callbackdate":        FieldFollowUpDate,
	"callback_date":       FieldFollowUpDate,
	"callback-date":       FieldFollowUpDate,
	"reminder date":       FieldFollowUpDate,
	"reminderdate":        FieldFollowUpDate,
	"reminder_date":       FieldFollowUpDate,
	"reminder-date":       FieldFollowUpDate,

	// last activity date
	"last activity date": FieldLastActivityDate,
	"lastactivitydate":   FieldLastActivityDate,
	"last_activity_date": FieldLastActivityDate,
	"last activity":      FieldLastActivityDate,
	"lastactivity":       FieldLastActivityDate,
	"last_activity":      FieldLastActivityDate,
	"activity date":      FieldLastActivityDate,
	"activitydate":       FieldLastActivityDate,
	"activity_date":      FieldLastActivityDate,
	"last call date":     FieldLastActivityDate,
	"lastcalldate":       FieldLastActivityDate,
	"last_call_date":     FieldLastActivityDate,
	"last contact date":  FieldLastActivityDate,
	"lastcontactdate":    FieldLastActivityDate,
	"last_contact_date":  FieldLastActivityDate,

	// notes
	"notes":           FieldNotes,
	"note":            FieldNotes,
	"discussion":      FieldNotes,
	"last discussion": FieldNotes,
	"lastdiscussion":  FieldNotes,
	"last_discussion": FieldNotes,
	"last-discussion": FieldNotes,
	"call notes":      FieldNotes,
	"comments":        FieldNotes,
	"comment":         FieldNotes,
	"remarks":         FieldNotes,
	"description":     FieldNotes,

	// gidc, discom, gst
	"gidc":       FieldGIDC,
	"gidc code":  FieldGIDC,
	"discom":     FieldDiscom,
	"gst number": FieldGSTNumber,
	"gstnumber":  FieldGSTNumber,
	"gst_number": FieldGSTNumber,
	"gst":        FieldGSTNumber,
	"gstin":      FieldGSTNumber,

	// final conclusion
	"final conclusion": FieldFinalConclusion,
	"finalconclusion":  FieldFinalConclusion,
	"final_conclusion": FieldFinalConclusion,
	"conclusion":       FieldFinalConclusion,
}
