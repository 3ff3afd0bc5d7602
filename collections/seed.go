package collections

import (
	"fmt"
	"log"

	"github.com/pocketbase/pocketbase/core"

	"leadtracker/services"
)

// sampleHeaders and sampleRows are the demo leads seeded into an empty
// database. They go through the regular import mapping.
var sampleHeaders = []string{"con.no", "KVA", "Client Name", "Company Name", "Mobile Number", "Mobile Number 2", "Discom", "Status", "Next Follow-up Date", "Notes"}

var sampleRows = [][]string{
	{"CN-1001", "75", "Ramesh Patel", "Patel Plastics", "9876543210", "9123456780", "UGVCL", "follow up", "", "Asked for quotation"},
	{"CN-1002", "150", "Meena Shah", "Shah Textiles", "9988776655", "", "DGVCL", "hot lead", "", "Site visit done"},
	{"CN-1003", "40", "Irfan Khan", "Khan Engineering", "9090909090", "", "MGVCL", "mandate", "", ""},
}

// Seed populates the column schema with the built-in columns and inserts
// demo leads when the respective collections are empty.
func Seed(app core.App) error {
	if err := seedColumns(app); err != nil {
		return err
	}
	return seedLeads(app)
}

func seedColumns(app core.App) error {
	count, err := app.CountRecords(services.ColumnsCollection)
	if err != nil {
		return fmt.Errorf("count columns: %w", err)
	}
	if count > 0 {
		log.Printf("Seed: %d columns already configured, skipping.", count)
		return nil
	}
	schema := services.NewColumnSchema(services.DefaultColumns())
	if err := services.SaveColumnSchema(app, schema); err != nil {
		return fmt.Errorf("seed columns: %w", err)
	}
	log.Printf("Seed: created %d default columns.", len(schema.Columns()))
	return nil
}

func seedLeads(app core.App) error {
	count, err := app.CountRecords(services.LeadsCollection)
	if err != nil {
		return fmt.Errorf("count leads: %w", err)
	}
	if count > 0 {
		return nil
	}
	schema, err := services.LoadColumnSchema(app)
	if err != nil {
		return err
	}
	result := services.ImportRows(sampleHeaders, sampleRows, services.ImportOptions{Columns: schema})
	if err := services.MergeImported(services.NewRecordStore(app), result.Accepted); err != nil {
		return fmt.Errorf("seed leads: %w", err)
	}
	log.Printf("Seed: created %d demo leads.", len(result.Accepted))
	return nil
}
