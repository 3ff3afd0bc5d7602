package services

import (
	"fmt"
	"log"
	"strings"
	"time"
)

// UnmappedField is the field key reported for headers that resolve to nothing.
const UnmappedField = "UNMAPPED"

// ImportOptions carries the collaborators an import runs against.
type ImportOptions struct {
	Columns      ColumnRegistry
	HeaderLabels map[string]string
	ExtraAliases map[string]string
	Validate     FieldValidator
	Now          func() time.Time
}

func (o ImportOptions) now() time.Time {
	if o.Now != nil {
		return o.Now()
	}
	return time.Now()
}

func (o ImportOptions) validator() FieldValidator {
	if o.Validate != nil {
		return o.Validate
	}
	return ValidateLeadField
}

// HeaderMapping describes how one uploaded header was interpreted.
type HeaderMapping struct {
	Header      string     `json:"header"`
	FieldKey    string     `json:"fieldKey"`
	Label       string     `json:"label"`
	Type        ColumnType `json:"type"`
	Mapped      bool       `json:"mapped"`
	Match       MatchKind  `json:"match"`
	Suggestions []string   `json:"suggestions,omitempty"`
}

// ImportResult is the outcome of one import batch.
type ImportResult struct {
	FileName        string            `json:"file_name"`
	TotalRows       int               `json:"total_rows"`
	Accepted        []Lead            `json:"-"`
	Rejected        int               `json:"rejected"`
	UnmappedHeaders []string          `json:"unmapped_headers"`
	Mapping         []HeaderMapping   `json:"mapping"`
	Errors          []ValidationError `json:"errors"`
	Warnings        []ValidationError `json:"warnings"`
}

// AcceptedCount is the number of leads that passed validation.
func (r *ImportResult) AcceptedCount() int { return len(r.Accepted) }

// ImportLeads decodes an uploaded file and maps its rows to leads. Only
// file-level problems return an error; row problems are reported in the
// result.
func ImportLeads(fileName string, data []byte, opts ImportOptions) (*ImportResult, error) {
	format, err := DetectFormat(fileName, data)
	if err != nil {
		return nil, err
	}
	headers, rows, err := parseRows(format, data)
	if err != nil {
		return nil, err
	}
	result := ImportRows(headers, rows, opts)
	result.FileName = fileName
	log.Printf("lead_import: %s: %d accepted, %d rejected, %d unmapped headers",
		fileName, len(result.Accepted), result.Rejected, len(result.UnmappedHeaders))
	return result, nil
}

// ImportRows maps already-decoded rows to leads.
func ImportRows(headers []string, rows [][]string, opts ImportOptions) *ImportResult {
	cols := opts.Columns.VisibleColumns()
	aliases := BuildAliasMap(cols, opts.HeaderLabels, opts.ExtraAliases)
	matches := ResolveHeaders(headers, aliases)

	result := &ImportResult{
		TotalRows: len(rows),
		Mapping:   PreviewMapping(matches, opts.Columns, cols),
	}
	for _, m := range matches {
		if !m.Mapped() && strings.TrimSpace(m.Header) != "" {
			result.UnmappedHeaders = append(result.UnmappedHeaders, m.Header)
		}
	}
	if len(result.UnmappedHeaders) > 0 {
		log.Printf("lead_import: unmapped headers: %s", strings.Join(result.UnmappedHeaders, ", "))
	}

	now := opts.now()
	today := FormatDate(now)
	validate := opts.validator()

	for rowIdx, row := range rows {
		rowNum := rowIdx + 2 // 1-indexed, +1 for header row

		draft := newLeadDraft()
		result.Warnings = append(result.Warnings, draft.mapRow(rowNum, row, matches, opts.Columns)...)
		draft.applyDefaults(cols, today)

		rowErrors := draft.validate(rowNum, cols, validate)
		if len(rowErrors) > 0 {
			result.Errors = append(result.Errors, rowErrors...)
			result.Rejected++
			continue
		}

		lead := draft.lead
		lead.ID = ImportedLeadID(now, len(result.Accepted))
		if lead.LastActivityDate == "" {
			lead.LastActivityDate = today
		}
		syncMainSlotName(&lead)
		result.Accepted = append(result.Accepted, lead)
	}
	return result
}

// PreviewMapping reports, per header, the field it resolved to.
func PreviewMapping(matches []HeaderMatch, registry ColumnRegistry, cols []ColumnConfig) []HeaderMapping {
	out := make([]HeaderMapping, 0, len(matches))
	for _, m := range matches {
		hm := HeaderMapping{Header: m.Header, Match: m.Kind}
		if !m.Mapped() {
			hm.FieldKey = UnmappedField
			hm.Suggestions = SuggestColumns(m.Header, cols, 3)
			out = append(out, hm)
			continue
		}
		hm.FieldKey = m.FieldKey
		hm.Mapped = true
		hm.Label = m.FieldKey
		hm.Type = ColumnText
		if col, ok := registry.ColumnByKey(m.FieldKey); ok {
			hm.Label = col.Label
			hm.Type = col.Type
		} else if t, ok := slotForKey(m.FieldKey); ok && t.Kind == SlotNumber {
			hm.Type = ColumnPhone
		}
		out = append(out, hm)
	}
	return out
}

// leadDraft is a lead under construction plus the set of keys the row
// actually supplied.
type leadDraft struct {
	lead     Lead
	assigned map[string]bool
}

func newLeadDraft() *leadDraft {
	return &leadDraft{assigned: make(map[string]bool)}
}

// mapRow assigns every non-empty, mapped cell. It returns coercion warnings.
func (d *leadDraft) mapRow(rowNum int, row []string, matches []HeaderMatch, registry ColumnRegistry) []ValidationError {
	var warnings []ValidationError
	for colIdx, m := range matches {
		if !m.Mapped() || colIdx >= len(row) {
			continue
		}
		value := unsanitizeCell(strings.TrimSpace(row[colIdx]))
		if value == "" {
			continue
		}
		key := m.FieldKey
		d.assigned[key] = true

		if t, ok := slotForKey(key); ok {
			ApplySlot(&d.lead, t.Index, t.Kind, value)
			continue
		}
		if key == FieldNotes {
			d.lead.Notes = AppendNote(d.lead.Notes, value)
			continue
		}

		colType := ColumnText
		label := key
		if col, ok := registry.ColumnByKey(key); ok {
			colType = col.Type
			label = col.Label
		}
		c := Coerce(key, value, colType)
		if !c.OK {
			warnings = append(warnings, ValidationError{
				Row:     rowNum,
				Field:   label,
				Message: fmt.Sprintf("could not interpret %q as %s, kept as-is", value, colType),
			})
		}
		d.lead.Set(key, c.Value)
	}
	return warnings
}

// applyDefaults fills every field the row did not supply.
func (d *leadDraft) applyDefaults(cols []ColumnConfig, today string) {
	l := &d.lead
	if !d.assigned[FieldStatus] {
		l.Status = StatusNew
	}
	if !d.assigned[FieldUnitType] {
		l.UnitType = "New"
	}
	if l.MandateStatus == "" {
		l.MandateStatus = "Pending"
	}
	if l.DocumentStatus == "" {
		l.DocumentStatus = "Pending Documents"
	}
	if l.MobileNumbers == nil {
		l.MobileNumbers = []MobileNumberSlot{}
	}
	if l.Activities == nil {
		l.Activities = []Activity{}
	}

	for _, col := range cols {
		if d.assigned[col.Key] || col.Key == FieldStatus || col.Key == FieldUnitType {
			continue
		}
		if _, ok := slotForKey(col.Key); ok {
			continue
		}
		value := col.Default
		if value == nil {
			value = typeDefault(col, today)
		}
		l.Set(col.Key, value)
	}
}

func typeDefault(col ColumnConfig, today string) any {
	switch col.Type {
	case ColumnDate:
		return today
	case ColumnNumber:
		return float64(0)
	case ColumnSelect:
		if len(col.Options) > 0 {
			return col.Options[0]
		}
	}
	return ""
}

// validate runs the field validator over supplied and required columns and
// enforces a non-empty client name.
func (d *leadDraft) validate(rowNum int, cols []ColumnConfig, validate FieldValidator) []ValidationError {
	var errs []ValidationError
	failed := make(map[string]bool)

	for _, col := range cols {
		if !d.assigned[col.Key] && !col.Required {
			continue
		}
		value, _ := d.lead.Get(col.Key)
		if msg := validate(col.Key, value, &d.lead, col); msg != "" {
			errs = append(errs, ValidationError{Row: rowNum, Field: col.Label, Message: msg})
			failed[col.Key] = true
		}
	}

	if strings.TrimSpace(d.lead.ClientName) == "" && !failed[FieldClientName] {
		errs = append(errs, ValidationError{
			Row:     rowNum,
			Field:   "Client Name",
			Message: "Client Name is required",
		})
	}
	return errs
}

// MergeImported appends accepted leads to the store. Existing leads are never
// matched or overwritten.
func MergeImported(store LeadStore, accepted []Lead) error {
	if len(accepted) == 0 {
		return nil
	}
	return store.SetLeads(func(prev []Lead) []Lead {
		return append(prev, accepted...)
	})
}
