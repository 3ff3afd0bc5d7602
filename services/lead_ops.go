package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidValue is wrapped by FieldError.
var ErrInvalidValue = errors.New("invalid value")

// FieldError is a rejected inline edit.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string { return e.Field + ": " + e.Message }

func (e *FieldError) Unwrap() error { return ErrInvalidValue }

// activityFields are the edits that bump lastActivityDate.
var activityFields = map[string]bool{
	FieldStatus:       true,
	FieldFollowUpDate: true,
	FieldNotes:        true,
}

// CellEditor applies inline edits to leads in a store.
type CellEditor struct {
	Store    LeadStore
	Columns  ColumnRegistry
	Validate FieldValidator
	Now      func() time.Time
}

func (e *CellEditor) now() time.Time {
	if e.Now != nil {
		return e.Now()
	}
	return time.Now()
}

// UpdateCell validates and stores one field of one lead and returns the
// updated lead.
func (e *CellEditor) UpdateCell(leadID, field string, value any) (Lead, error) {
	validate := e.Validate
	if validate == nil {
		validate = ValidateLeadField
	}
	now := e.now()

	var (
		updated Lead
		opErr   error
	)
	err := e.Store.SetLeads(func(prev []Lead) []Lead {
		i := findLead(prev, leadID)
		if i < 0 {
			opErr = fmt.Errorf("%w: %s", ErrLeadNotFound, leadID)
			return prev
		}
		lead := prev[i]
		before := lead.GetString(field)

		if err := e.applyCell(&lead, field, value, validate); err != nil {
			opErr = err
			return prev
		}

		after := lead.GetString(field)
		if before != after {
			lead.IsUpdated = true
			lead.AddActivity("edit", field,
				fmt.Sprintf("%s changed from %q to %q", field, before, after), now)
			if activityFields[field] {
				lead.LastActivityDate = FormatDate(now)
			}
		}
		prev[i] = lead
		updated = lead
		return prev
	})
	if err != nil {
		return Lead{}, fmt.Errorf("update cell: %w", err)
	}
	if opErr != nil {
		return Lead{}, opErr
	}
	return updated, nil
}

func (e *CellEditor) applyCell(lead *Lead, field string, value any, validate FieldValidator) error {
	if field == FieldMobileNumbers {
		slots, err := parseSlots(value)
		if err != nil {
			return &FieldError{Field: field, Message: err.Error()}
		}
		lead.MobileNumbers = slots
		lead.MobileNumber = ""
		if len(slots) > 0 {
			lead.MobileNumber = slots[0].Number
		}
		return nil
	}
	if t, ok := slotForKey(field); ok {
		if t.Kind == SlotNumber {
			col, ok := e.Columns.ColumnByKey(field)
			if !ok {
				col = ColumnConfig{Key: field, Label: field, Type: ColumnPhone}
			}
			if msg := validate(field, value, lead, col); msg != "" {
				return &FieldError{Field: col.Label, Message: msg}
			}
		}
		ApplySlot(lead, t.Index, t.Kind, stringify(value))
		return nil
	}

	col, ok := e.Columns.ColumnByKey(field)
	if !ok {
		if !IsCoreField(field) {
			return fmt.Errorf("%w: %s", ErrColumnNotFound, field)
		}
		col = ColumnConfig{Key: field, Label: field, Type: ColumnText}
	}
	c := Coerce(field, value, col.Type)
	if msg := validate(field, c.Value, lead, col); msg != "" {
		return &FieldError{Field: col.Label, Message: msg}
	}
	lead.Set(field, c.Value)
	return nil
}

// parseSlots accepts a slot list as a JSON string or an already-decoded
// value and normalizes it.
func parseSlots(value any) ([]MobileNumberSlot, error) {
	var raw []byte
	switch v := value.(type) {
	case []MobileNumberSlot:
		raw, _ = json.Marshal(v)
	case string:
		raw = []byte(strings.TrimSpace(v))
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		raw = b
	}
	if len(raw) == 0 {
		return []MobileNumberSlot{}, nil
	}

	var slots []MobileNumberSlot
	if err := json.Unmarshal(raw, &slots); err != nil {
		return nil, fmt.Errorf("mobile numbers must be a JSON array: %w", err)
	}
	if len(slots) > MaxContactSlots {
		return nil, fmt.Errorf("at most %d mobile numbers allowed", MaxContactSlots)
	}
	l := Lead{MobileNumbers: slots}
	for i := range l.MobileNumbers {
		l.MobileNumbers[i].Number = CleanPhone(l.MobileNumbers[i].Number)
		l.MobileNumbers[i].Name = strings.TrimSpace(l.MobileNumbers[i].Name)
	}
	normalizeSlots(&l)
	return l.MobileNumbers, nil
}

// SetDeleted soft-deletes or restores the leads with the given ids and
// returns how many changed.
func SetDeleted(store LeadStore, ids []string, deleted bool, now time.Time) (int, error) {
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	changed := 0
	err := store.SetLeads(func(prev []Lead) []Lead {
		for i := range prev {
			if !want[prev[i].ID] || prev[i].IsDeleted == deleted {
				continue
			}
			prev[i].IsDeleted = deleted
			if deleted {
				prev[i].AddActivity("delete", "", "Lead moved to deleted", now)
			} else {
				prev[i].AddActivity("restore", "", "Lead restored", now)
			}
			changed++
		}
		return prev
	})
	if err != nil {
		return 0, fmt.Errorf("set deleted: %w", err)
	}
	return changed, nil
}

// SoftDelete marks one lead deleted.
func SoftDelete(store LeadStore, id string, now time.Time) error {
	return setDeletedOne(store, id, true, now)
}

// Restore clears the deleted flag on one lead.
func Restore(store LeadStore, id string, now time.Time) error {
	return setDeletedOne(store, id, false, now)
}

func setDeletedOne(store LeadStore, id string, deleted bool, now time.Time) error {
	leads, err := store.Leads()
	if err != nil {
		return err
	}
	if findLead(leads, id) < 0 {
		return fmt.Errorf("%w: %s", ErrLeadNotFound, id)
	}
	_, err = SetDeleted(store, []string{id}, deleted, now)
	return err
}

// MarkDone sets or clears the done flag on one lead.
func MarkDone(store LeadStore, id string, done bool, now time.Time) error {
	found := false
	err := store.SetLeads(func(prev []Lead) []Lead {
		i := findLead(prev, id)
		if i < 0 {
			return prev
		}
		found = true
		if prev[i].IsDone != done {
			prev[i].IsDone = done
			prev[i].LastActivityDate = FormatDate(now)
			prev[i].AddActivity("status", "isDone", fmt.Sprintf("Marked done: %t", done), now)
		}
		return prev
	})
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("%w: %s", ErrLeadNotFound, id)
	}
	return nil
}
