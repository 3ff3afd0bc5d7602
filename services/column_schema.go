package services

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// ColumnType is the value type of a schema column.
type ColumnType string

const (
	ColumnText   ColumnType = "text"
	ColumnDate   ColumnType = "date"
	ColumnNumber ColumnType = "number"
	ColumnPhone  ColumnType = "phone"
	ColumnEmail  ColumnType = "email"
	ColumnSelect ColumnType = "select"
)

var fieldKeyPattern = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_]*$`)

// ErrColumnNotFound is returned when a column key is not registered.
var ErrColumnNotFound = errors.New("column not found")

// ColumnConfig describes one column of the lead table.
type ColumnConfig struct {
	Key       string     `json:"fieldKey"`
	Label     string     `json:"label"`
	Type      ColumnType `json:"type"`
	Required  bool       `json:"required"`
	Default   any        `json:"defaultValue,omitempty"` // nil means no configured default
	MaxLength int        `json:"maxLength,omitempty"`
	Min       *float64   `json:"min,omitempty"`
	Max       *float64   `json:"max,omitempty"`
	Options   []string   `json:"options,omitempty"`
	AllowPast bool       `json:"allowPast"`
	Width     float64    `json:"width,omitempty"`
	Visible   bool       `json:"visible"`
	Position  int        `json:"position"`
}

// Validate checks that the column definition is usable.
func (c ColumnConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Key, validation.Required, validation.Match(fieldKeyPattern)),
		validation.Field(&c.Label, validation.Required, validation.Length(1, 80)),
		validation.Field(&c.Type, validation.Required, validation.In(
			ColumnText, ColumnDate, ColumnNumber, ColumnPhone, ColumnEmail, ColumnSelect,
		)),
		validation.Field(&c.Options, validation.When(c.Type == ColumnSelect, validation.Required)),
		validation.Field(&c.MaxLength, validation.Min(0)),
	)
}

// ColumnRegistry is the read side of the column schema as the import and
// export pipelines see it.
type ColumnRegistry interface {
	VisibleColumns() []ColumnConfig
	ColumnByKey(key string) (ColumnConfig, bool)
}

// DefaultColumns returns the built-in lead table schema.
func DefaultColumns() []ColumnConfig {
	empty := ""
	cols := []ColumnConfig{
		{Key: FieldConsumerNumber, Label: "con.no", Type: ColumnText, Width: 14},
		{Key: FieldKVA, Label: "KVA", Type: ColumnText, Width: 8},
		{Key: FieldConnectionDate, Label: "Connection Date", Type: ColumnDate, Default: empty, AllowPast: true, Width: 16},
		{Key: FieldCompany, Label: "Company Name", Type: ColumnText, MaxLength: 120, Width: 28},
		{Key: FieldClientName, Label: "Client Name", Type: ColumnText, Required: true, MaxLength: 120, Width: 24},
		{Key: FieldDiscom, Label: "Discom", Type: ColumnText, Width: 12},
		{Key: FieldGIDC, Label: "GIDC", Type: ColumnText, Width: 12},
		{Key: FieldGSTNumber, Label: "GST Number", Type: ColumnText, MaxLength: 15, Width: 18},
		{Key: FieldUnitType, Label: "Unit Type", Type: ColumnText, Default: "New", Width: 12},
		{Key: FieldMobileNumber, Label: "Main Mobile Number", Type: ColumnPhone, Width: 18},
		{Key: FieldStatus, Label: "Lead Status", Type: ColumnSelect, Options: LeadStatuses, Default: StatusNew, Width: 14},
		{Key: FieldNotes, Label: "Last Discussion", Type: ColumnText, Width: 40},
		{Key: FieldCompanyLocation, Label: "Address", Type: ColumnText, Width: 30},
		{Key: FieldFollowUpDate, Label: "Next Follow-up Date", Type: ColumnDate, Default: empty, AllowPast: true, Width: 18},
		{Key: FieldLastActivityDate, Label: "Last Activity Date", Type: ColumnDate, AllowPast: true, Width: 18},
	}
	for i := range cols {
		cols[i].Visible = true
		cols[i].Position = i
	}
	return cols
}

// ColumnSchema is the mutable, ordered column registry plus per-field
// display label overrides.
type ColumnSchema struct {
	mu      sync.RWMutex
	columns []ColumnConfig
	labels  map[string]string
}

// NewColumnSchema builds a registry from cols, ordered by Position.
func NewColumnSchema(cols []ColumnConfig) *ColumnSchema {
	s := &ColumnSchema{labels: make(map[string]string)}
	s.columns = append(s.columns, cols...)
	s.sortLocked()
	return s
}

func (s *ColumnSchema) sortLocked() {
	sort.SliceStable(s.columns, func(i, j int) bool {
		return s.columns[i].Position < s.columns[j].Position
	})
}

// Columns returns every column, visible or not, in order.
func (s *ColumnSchema) Columns() []ColumnConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]ColumnConfig, len(s.columns))
	copy(out, s.columns)
	return out
}

// VisibleColumns returns the visible columns in order.
func (s *ColumnSchema) VisibleColumns() []ColumnConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []ColumnConfig
	for _, c := range s.columns {
		if c.Visible {
			out = append(out, c)
		}
	}
	return out
}

// ColumnByKey looks a column up by field key.
func (s *ColumnSchema) ColumnByKey(key string) (ColumnConfig, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.columns {
		if c.Key == key {
			return c, true
		}
	}
	return ColumnConfig{}, false
}

// Upsert validates col and inserts or replaces it by key. New columns are
// appended after the current last position.
func (s *ColumnSchema) Upsert(col ColumnConfig) error {
	if err := col.Validate(); err != nil {
		return fmt.Errorf("invalid column %q: %w", col.Key, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, c := range s.columns {
		if c.Key == col.Key {
			s.columns[i] = col
			s.sortLocked()
			return nil
		}
	}
	if len(s.columns) > 0 && col.Position <= s.columns[len(s.columns)-1].Position {
		col.Position = s.columns[len(s.columns)-1].Position + 1
	}
	s.columns = append(s.columns, col)
	return nil
}

// Remove deletes the column with key.
func (s *ColumnSchema) Remove(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, c := range s.columns {
		if c.Key == key {
			s.columns = append(s.columns[:i], s.columns[i+1:]...)
			delete(s.labels, key)
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrColumnNotFound, key)
}

// SetVisible shows or hides a column.
func (s *ColumnSchema) SetVisible(key string, visible bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.columns {
		if s.columns[i].Key == key {
			s.columns[i].Visible = visible
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrColumnNotFound, key)
}

// SetHeaderLabel records a custom display label for a field. An empty label
// clears the override.
func (s *ColumnSchema) SetHeaderLabel(key, label string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	label = strings.TrimSpace(label)
	if label == "" {
		delete(s.labels, key)
		return
	}
	s.labels[key] = label
}

// HeaderLabels returns a copy of the custom display labels.
func (s *ColumnSchema) HeaderLabels() map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]string, len(s.labels))
	for k, v := range s.labels {
		out[k] = v
	}
	return out
}

// DisplayName returns the custom label for key, else the column label,
// else the key itself.
func (s *ColumnSchema) DisplayName(key string) string {
	s.mu.RLock()
	label, ok := s.labels[key]
	s.mu.RUnlock()
	if ok {
		return label
	}
	if c, ok := s.ColumnByKey(key); ok {
		return c.Label
	}
	return key
}
