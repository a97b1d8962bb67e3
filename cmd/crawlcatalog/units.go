package main

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"catalog-crawl/internal/domain"
)

func newUnitsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "units",
		Short: "Prints the academic units the crawler knows about.",
		RunE: func(cmd *cobra.Command, args []string) error {
			units, err := domain.NewUnitTable(domain.DefaultUnits())
			if err != nil {
				return err
			}

			t := table.NewWriter()
			t.SetOutputMirror(cmd.OutOrStdout())
			t.AppendHeader(table.Row{"Code", "Unit"})
			for _, u := range units.Units() {
				t.AppendRow(table.Row{u.Code, u.Name})
			}
			t.AppendFooter(table.Row{"", units.Len()})
			t.SetStyle(table.StyleRounded)
			t.Render()
			return nil
		},
	}
}
