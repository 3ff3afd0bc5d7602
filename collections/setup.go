package collections

import (
	"fmt"
	"log"

	"github.com/pocketbase/pocketbase/core"

	"leadtracker/services"
)

// Setup programmatically creates/ensures the leads, column_configs and
// header_labels collections exist.
func Setup(app core.App) {
	ensureCollection(app, services.LeadsCollection, func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "lead_id", Required: true})
		c.Fields.Add(&core.NumberField{Name: "position"})
		c.Fields.Add(&core.JSONField{Name: "data", MaxSize: 1 << 20})
		c.Fields.Add(&core.TextField{Name: "client_name"})
		c.Fields.Add(&core.SelectField{
			Name:      "status",
			Values:    services.LeadStatuses,
			MaxSelect: 1,
		})
		c.Fields.Add(&core.TextField{Name: "follow_up_date"})
		c.Fields.Add(&core.BoolField{Name: "is_deleted"})
		c.Fields.Add(&core.BoolField{Name: "is_done"})
		c.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
		c.Fields.Add(&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true})
		c.AddIndex("idx_leads_lead_id", true, "lead_id", "")
	})

	ensureCollection(app, services.ColumnsCollection, func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "field_key", Required: true})
		c.Fields.Add(&core.NumberField{Name: "position"})
		c.Fields.Add(&core.JSONField{Name: "config", MaxSize: 1 << 16})
		c.AddIndex("idx_column_configs_field_key", true, "field_key", "")
	})

	ensureCollection(app, services.HeaderLabelsCollection, func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "field_key", Required: true})
		c.Fields.Add(&core.TextField{Name: "label", Required: true})
	})
}

// ensureCollection checks if a collection already exists by name. If it does,
// the existing collection is returned. Otherwise a new base collection is
// created, the addFields callback is invoked to populate its fields, and the
// collection is saved.
func ensureCollection(app core.App, name string, addFields func(*core.Collection)) *core.Collection {
	existing, err := app.FindCollectionByNameOrId(name)
	if err == nil && existing != nil {
		log.Printf("Collection %q already exists, skipping creation.\n", name)
		return existing
	}

	collection := core.NewBaseCollection(name)
	addFields(collection)

	if err := app.Save(collection); err != nil {
		log.Fatalf("Failed to create collection %q: %v", name, err)
	}

	fmt.Printf("Created collection %q (id=%s)\n", name, collection.Id)
	return collection
}
