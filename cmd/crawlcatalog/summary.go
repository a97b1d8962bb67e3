package main

import (
	"io"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"

	"catalog-crawl/internal/crawler"
	"catalog-crawl/internal/domain"
)

func renderSummary(w io.Writer, s crawler.Summary, units domain.UnitTable) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetTitle("Crawl summary")
	t.AppendRows([]table.Row{
		{"Units crawled", s.Units},
		{"Units incomplete", s.UnitsIncomplete},
		{"Units page-limited", s.UnitsPageLimited},
		{"Listing pages", s.Pages},
	})
	t.AppendSeparator()
	t.AppendRows([]table.Row{
		{"Identifiers seen", s.IdentifiersSeen},
		{"Duplicates collapsed", s.Duplicates},
		{"Distinct courses", s.Unique},
	})
	t.AppendSeparator()
	t.AppendRows([]table.Row{
		{"Resolved", s.Resolved},
		{"Resolved (current term)", s.ResolvedFallback},
		{"Not found", s.NotFound},
		{"Failed", s.Failed},
		{"Records written", s.Records},
		{"Duration", s.Duration.Round(10 * time.Millisecond)},
	})
	t.SetStyle(table.StyleRounded)
	t.Render()

	if len(s.Diagnostics) == 0 {
		return
	}

	d := table.NewWriter()
	d.SetOutputMirror(w)
	d.SetTitle("Diagnostics")
	d.AppendHeader(table.Row{"Kind", "Subject", "Detail"})
	for _, diag := range s.Diagnostics {
		subject := diag.Subject
		if diag.Kind != crawler.CourseFailed {
			subject = units.DisplayName(diag.Subject)
		}
		detail := ""
		if diag.Err != nil {
			detail = diag.Err.Error()
		}
		d.AppendRow(table.Row{string(diag.Kind), subject, detail})
	}
	d.SetColumnConfigs([]table.ColumnConfig{{Number: 3, WidthMax: 80}})
	d.SetStyle(table.StyleRounded)
	d.Render()
}
