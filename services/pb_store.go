package services

import (
	"fmt"
	"sort"

	"github.com/pocketbase/pocketbase/core"
)

// Collection names used by the PocketBase-backed stores.
const (
	LeadsCollection        = "leads"
	ColumnsCollection      = "column_configs"
	HeaderLabelsCollection = "header_labels"
)

// RecordStore is a LeadStore persisted in the leads collection. Each lead is
// one record keyed by lead_id; the full lead lives in the data JSON field and
// a few attributes are copied out for filtering in the admin UI.
type RecordStore struct {
	app core.App
}

// NewRecordStore returns a store over app's leads collection.
func NewRecordStore(app core.App) *RecordStore {
	return &RecordStore{app: app}
}

// Leads loads the collection in stored order.
func (s *RecordStore) Leads() ([]Lead, error) {
	records, err := s.app.FindAllRecords(LeadsCollection)
	if err != nil {
		return nil, fmt.Errorf("load leads: %w", err)
	}
	return decodeLeadRecords(records)
}

// SetLeads replaces the stored collection with update(current) in one
// transaction. Leads missing from the result are removed.
func (s *RecordStore) SetLeads(update func(prev []Lead) []Lead) error {
	return s.app.RunInTransaction(func(txApp core.App) error {
		records, err := txApp.FindAllRecords(LeadsCollection)
		if err != nil {
			return fmt.Errorf("load leads: %w", err)
		}
		prev, err := decodeLeadRecords(records)
		if err != nil {
			return err
		}
		byID := make(map[string]*core.Record, len(records))
		for _, r := range records {
			byID[r.GetString("lead_id")] = r
		}

		next := update(prev)

		col, err := txApp.FindCollectionByNameOrId(LeadsCollection)
		if err != nil {
			return fmt.Errorf("find leads collection: %w", err)
		}
		keep := make(map[string]bool, len(next))
		for i := range next {
			l := next[i]
			keep[l.ID] = true
			rec, ok := byID[l.ID]
			if !ok {
				rec = core.NewRecord(col)
				rec.Set("lead_id", l.ID)
			}
			fillLeadRecord(rec, &l, i)
			if err := txApp.Save(rec); err != nil {
				return fmt.Errorf("save lead %s: %w", l.ID, err)
			}
		}
		for id, rec := range byID {
			if keep[id] {
				continue
			}
			if err := txApp.Delete(rec); err != nil {
				return fmt.Errorf("delete lead %s: %w", id, err)
			}
		}
		return nil
	})
}

// PermanentlyDelete removes one lead record.
func (s *RecordStore) PermanentlyDelete(id string) error {
	rec, err := s.app.FindFirstRecordByData(LeadsCollection, "lead_id", id)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrLeadNotFound, id)
	}
	if err := s.app.Delete(rec); err != nil {
		return fmt.Errorf("delete lead %s: %w", id, err)
	}
	return nil
}

func fillLeadRecord(rec *core.Record, l *Lead, position int) {
	rec.Set("data", l)
	rec.Set("position", position)
	rec.Set("client_name", l.ClientName)
	rec.Set("status", l.Status)
	rec.Set("follow_up_date", l.FollowUpDate)
	rec.Set("is_deleted", l.IsDeleted)
	rec.Set("is_done", l.IsDone)
}

func decodeLeadRecords(records []*core.Record) ([]Lead, error) {
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].GetInt("position") < records[j].GetInt("position")
	})
	leads := make([]Lead, 0, len(records))
	for _, r := range records {
		var l Lead
		if err := r.UnmarshalJSONField("data", &l); err != nil {
			return nil, fmt.Errorf("decode lead %s: %w", r.GetString("lead_id"), err)
		}
		l.ID = r.GetString("lead_id")
		leads = append(leads, l)
	}
	return leads, nil
}

// LoadColumnSchema reads the persisted column schema and header labels.
// An empty collection yields the built-in default columns.
func LoadColumnSchema(app core.App) (*ColumnSchema, error) {
	records, err := app.FindAllRecords(ColumnsCollection)
	if err != nil {
		return nil, fmt.Errorf("load columns: %w", err)
	}
	var cols []ColumnConfig
	for _, r := range records {
		var c ColumnConfig
		if err := r.UnmarshalJSONField("config", &c); err != nil {
			return nil, fmt.Errorf("decode column %s: %w", r.GetString("field_key"), err)
		}
		c.Key = r.GetString("field_key")
		c.Position = r.GetInt("position")
		cols = append(cols, c)
	}
	if len(cols) == 0 {
		cols = DefaultColumns()
	}
	schema := NewColumnSchema(cols)

	labels, err := app.FindAllRecords(HeaderLabelsCollection)
	if err != nil {
		return nil, fmt.Errorf("load header labels: %w", err)
	}
	for _, r := range labels {
		schema.SetHeaderLabel(r.GetString("field_key"), r.GetString("label"))
	}
	return schema, nil
}

// SaveColumnSchema persists every column and header label of schema,
// replacing what was stored.
func SaveColumnSchema(app core.App, schema *ColumnSchema) error {
	return app.RunInTransaction(func(txApp core.App) error {
		if err := replaceRecords(txApp, ColumnsCollection, func(col *core.Collection) ([]*core.Record, error) {
			var out []*core.Record
			for _, c := range schema.Columns() {
				rec := core.NewRecord(col)
				rec.Set("field_key", c.Key)
				rec.Set("position", c.Position)
				rec.Set("config", c)
				out = append(out, rec)
			}
			return out, nil
		}); err != nil {
			return err
		}
		return replaceRecords(txApp, HeaderLabelsCollection, func(col *core.Collection) ([]*core.Record, error) {
			var out []*core.Record
			for key, label := range schema.HeaderLabels() {
				rec := core.NewRecord(col)
				rec.Set("field_key", key)
				rec.Set("label", label)
				out = append(out, rec)
			}
			return out, nil
		})
	})
}

func replaceRecords(txApp core.App, name string, build func(*core.Collection) ([]*core.Record, error)) error {
	col, err := txApp.FindCollectionByNameOrId(name)
	if err != nil {
		return fmt.Errorf("find %s collection: %w", name, err)
	}
	existing, err := txApp.FindAllRecords(col)
	if err != nil {
		return fmt.Errorf("load %s: %w", name, err)
	}
	for _, r := range existing {
		if err := txApp.Delete(r); err != nil {
			return fmt.Errorf("delete %s record: %w", name, err)
		}
	}
	records, err := build(col)
	if err != nil {
		return err
	}
	for _, r := range records {
		if err := txApp.Save(r); err != nil {
			return fmt.Errorf("save %s record: %w", name, err)
		}
	}
	return nil
}
