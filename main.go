package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"
	"github.com/spf13/cobra"

	"leadtracker/collections"
	"leadtracker/config"
	"leadtracker/handlers"
	"leadtracker/services"
)

func main() {
	app := pocketbase.New()

	cfg, err := config.Load(".")
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	// Create collections, seed data and migrate legacy leads on startup
	app.OnServe().BindFunc(func(se *core.ServeEvent) error {
		collections.Setup(app)
		if err := collections.Seed(app); err != nil {
			log.Printf("Warning: seed data failed: %v", err)
		}
		if err := collections.MigrateLegacyLeads(app); err != nil {
			log.Printf("Warning: lead migration failed: %v", err)
		}
		return se.Next()
	})

	app.OnServe().BindFunc(func(se *core.ServeEvent) error {
		se.Router.GET("/static/{path...}", apis.Static(os.DirFS("./static"), false))

		// Lead and column routes; the lead context middleware is scoped to /leads
		handlers.RegisterRoutes(se.Router, app, cfg)

		// Redirect home to the lead list
		se.Router.GET("/", func(e *core.RequestEvent) error {
			return e.Redirect(http.StatusFound, "/leads")
		})

		return se.Next()
	})

	app.RootCmd.AddCommand(importCommand(app, cfg), exportCommand(app, cfg), followUpCommand(app, cfg))

	if err := app.Start(); err != nil {
		log.Fatal(err)
	}
}

// importCommand imports a CSV or Excel file from the command line.
func importCommand(app *pocketbase.PocketBase, cfg config.Config) *cobra.Command {
	var errorsOut string
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import leads from a CSV or Excel file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			collections.Setup(app)

			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			if int64(len(data)) > cfg.MaxUploadBytes() {
				return fmt.Errorf("%s exceeds the %d MB upload limit", args[0], cfg.MaxUploadMB)
			}
			schema, err := services.LoadColumnSchema(app)
			if err != nil {
				return err
			}
			result, err := services.ImportLeads(args[0], data, services.ImportOptions{
				Columns:      schema,
				HeaderLabels: schema.HeaderLabels(),
				ExtraAliases: cfg.Aliases,
			})
			if err != nil {
				return err
			}
			if err := services.MergeImported(services.NewRecordStore(app), result.Accepted); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), services.ImportNotification(result).Message)
			if n, ok := services.UnmappedNotification(result.Mapping, schema.VisibleColumns()); ok {
				fmt.Fprintln(cmd.OutOrStdout(), n.Message)
			}
			if errorsOut != "" && len(result.Errors) > 0 {
				report, err := services.GenerateErrorReport(result.Errors)
				if err != nil {
					return err
				}
				if err := os.WriteFile(errorsOut, report, 0o644); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Error report written to %s\n", errorsOut)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&errorsOut, "errors", "", "write rejected rows to this .xlsx file")
	return cmd
}

// exportCommand writes the leads of an export context to an Excel file.
func exportCommand(app *pocketbase.PocketBase, cfg config.Config) *cobra.Command {
	var (
		context string
		out     string
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export leads to an Excel file",
		RunE: func(cmd *cobra.Command, args []string) error {
			collections.Setup(app)

			ctx, ok := services.ParseExportContext(context)
			if !ok {
				return fmt.Errorf("unknown export context %q", context)
			}
			schema, err := services.LoadColumnSchema(app)
			if err != nil {
				return err
			}
			leads, err := services.NewRecordStore(app).Leads()
			if err != nil {
				return err
			}

			now := time.Now()
			selected := services.LeadsForContext(leads, ctx, now, cfg.UpcomingDays)
			data, err := services.GenerateLeadsExcel(selected, schema.VisibleColumns(), schema.HeaderLabels(), cfg.SheetName)
			if err != nil {
				return err
			}
			if out == "" {
				out = services.ExportFileName(string(ctx), now)
			}
			if err := os.WriteFile(out, data, 0o644); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), services.ExportNotification(len(selected), out).Message)
			return nil
		},
	}
	cmd.Flags().StringVar(&context, "context", cfg.Context, "all, due-today, upcoming, overdue, mandate or documentation")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default leads-export-<context>-<date>.xlsx)")
	return cmd
}

// followUpCommand writes the follow-up call sheet PDF.
func followUpCommand(app *pocketbase.PocketBase, cfg config.Config) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "followups",
		Short: "Write the follow-up call sheet as a PDF",
		RunE: func(cmd *cobra.Command, args []string) error {
			collections.Setup(app)

			leads, err := services.NewRecordStore(app).Leads()
			if err != nil {
				return err
			}
			now := time.Now()
			data, err := services.GenerateFollowUpPDF(services.BuildFollowUpSheet(leads, now, cfg.UpcomingDays))
			if err != nil {
				return err
			}
			if out == "" {
				out = fmt.Sprintf("followups-%s.pdf", now.Format("2006-01-02"))
			}
			if err := os.WriteFile(out, data, 0o644); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Follow-up sheet written to %s\n", out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default followups-<date>.pdf)")
	return cmd
}
