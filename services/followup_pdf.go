package services

import (
	"fmt"
	"time"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/orientation"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

// FollowUpSheet is the input of the printable call sheet.
type FollowUpSheet struct {
	Title     string
	Generated time.Time
	Overdue   []Lead
	DueToday  []Lead
	Upcoming  []Lead
}

// BuildFollowUpSheet groups open leads into overdue, due today and upcoming.
func BuildFollowUpSheet(leads []Lead, now time.Time, upcomingDays int) FollowUpSheet {
	return FollowUpSheet{
		Title:     "Follow-up Call Sheet",
		Generated: now,
		Overdue:   Overdue(leads, now),
		DueToday:  DueToday(leads, now),
		Upcoming:  Upcoming(leads, now, upcomingDays),
	}
}

// followUpColumns are the grid widths of the call sheet table (sum 12).
var followUpColumns = []struct {
	title string
	size  int
}{
	{"#", 1},
	{"Client", 2},
	{"Company", 2},
	{"Mobile", 2},
	{"Status", 1},
	{"Follow-up", 1},
	{"Last Discussion", 3},
}

// GenerateFollowUpPDF renders the call sheet.
func GenerateFollowUpPDF(sheet FollowUpSheet) ([]byte, error) {
	cfg := config.NewBuilder().
		WithOrientation(orientation.Horizontal).
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).
		WithTopMargin(10).
		WithRightMargin(10).
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
			Size:    7,
			Color:   &props.Color{Red: 120, Green: 120, Blue: 120},
		}).
		Build()

	m := maroto.New(cfg)

	addSheetHeader(m, sheet)
	addFollowUpSection(m, "Overdue", sheet.Overdue)
	addFollowUpSection(m, "Due Today", sheet.DueToday)
	addFollowUpSection(m, "Upcoming", sheet.Upcoming)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}
	return doc.GetBytes(), nil
}

func addSheetHeader(m core.Maroto, sheet FollowUpSheet) {
	m.AddRows(
		row.New(12).Add(
			col.New(12).Add(
				text.New(sheet.Title, props.Text{
					Size:  16,
					Style: fontstyle.Bold,
					Align: align.Center,
				}),
			),
		),
		row.New(8).Add(
			col.New(12).Add(
				text.New(fmt.Sprintf("Generated: %s", FormatDate(sheet.Generated)), props.Text{
					Size:  9,
					Align: align.Right,
					Color: &props.Color{Red: 80, Green: 80, Blue: 80},
				}),
			),
		),
		row.New(4),
	)
}

func addFollowUpSection(m core.Maroto, title string, leads []Lead) {
	m.AddRows(
		row.New(8).Add(
			col.New(12).Add(
				text.New(fmt.Sprintf("%s (%d)", title, len(leads)), props.Text{
					Size:  11,
					Style: fontstyle.Bold,
				}),
			),
		),
	)
	if len(leads) == 0 {
		m.AddRows(
			row.New(6).Add(
				col.New(12).Add(text.New("No leads", props.Text{Size: 8, Style: fontstyle.Italic})),
			),
			row.New(4),
		)
		return
	}

	headerCell := props.Cell{BackgroundColor: &props.Color{Red: 33, Green: 37, Blue: 41}}
	headerText := props.Text{
		Size:  8,
		Style: fontstyle.Bold,
		Align: align.Left,
		Color: &props.Color{Red: 255, Green: 255, Blue: 255},
	}
	header := row.New(7)
	for _, c := range followUpColumns {
		header.Add(col.New(c.size).Add(text.New(c.title, headerText)).WithStyle(&headerCell))
	}
	m.AddRows(header)

	stripe := props.Cell{BackgroundColor: &props.Color{Red: 245, Green: 245, Blue: 245}}
	cellText := props.Text{Size: 7, Align: align.Left}
	for i, l := range leads {
		values := []string{
			fmt.Sprintf("%d", i+1),
			l.ClientName,
			l.Company,
			l.MainMobile().Number,
			DisplayStatus(l.Status),
			l.FollowUpDate,
			l.Notes,
		}
		r := row.New(7)
		for j, c := range followUpColumns {
			cc := col.New(c.size).Add(text.New(values[j], cellText))
			if i%2 == 1 {
				cc.WithStyle(&stripe)
			}
			r.Add(cc)
		}
		m.AddRows(r)
	}
	m.AddRows(row.New(4))
}
