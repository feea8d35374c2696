package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"gomercuriale/internal/mercuriale/app"
	"gomercuriale/internal/mercuriale/compare"
	"gomercuriale/internal/mercuriale/models"
	"gomercuriale/internal/mercuriale/search"
	"gomercuriale/pkg/business/service/money"
)

const (
	highlightOpen  = "\x1b[1;33m"
	highlightClose = "\x1b[0m"
)

func newSourcesCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "sources",
		Short: "List the mercuriales and which ones are searched",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			enabled := make(map[models.SourceID]bool)
			for _, id := range s.app.EnabledSources() {
				enabled[id] = true
			}
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			for _, src := range s.app.Sources() {
				mark := " "
				if enabled[src.ID] {
					mark = "x"
				}
				fmt.Fprintf(tw, "[%s]\t%s\t%s\t%s\n", mark, src.ID, src.Name, src.Location)
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			fmt.Fprintln(out, s.app.ProductCountLabel())
			fmt.Fprintln(out, s.app.Placeholder())
			return nil
		},
	}
}

func newSearchCmd(s *session) *cobra.Command {
	var field string
	var plain bool
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search the enabled mercuriales",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			results, err := s.app.Search(args[0], field)
			if err != nil {
				return err
			}
			open, close := highlightOpen, highlightClose
			if plain {
				open, close = "", ""
			}

			out := cmd.OutOrStdout()
			cols := s.app.VisibleFields()
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintf(tw, "\tSource\tCode\t%s\n", strings.Join(cols, "\t"))
			for _, rec := range results {
				mark := " "
				if s.app.InCart(rec.Code, rec.Source) {
					mark = "*"
				}
				cells := make([]string, len(cols))
				for i, c := range cols {
					cells[i] = s.app.Highlight(rec.Value(c), open, close)
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", mark, rec.Source, rec.Code, strings.Join(cells, "\t"))
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(out, "%d résultat(s)\n", len(results))
			return nil
		},
	}
	cmd.Flags().StringVarP(&field, "field", "f", search.AllFields, "field to search, or \"all\"")
	cmd.Flags().BoolVar(&plain, "plain", false, "do not highlight matches")
	return cmd
}

func printNotice(w io.Writer, n app.Notice) {
	if n.Message != "" {
		fmt.Fprintln(w, n)
	}
}

func newAddCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "add <code> <source>",
		Short: "Add a product to the order list",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			notice, err := s.app.Add(args[0], models.SourceID(args[1]))
			printNotice(cmd.OutOrStdout(), notice)
			if errors.Is(err, models.ErrDuplicateCartEntry) {
				return nil
			}
			return err
		},
	}
}

func newRemoveCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <code> <source>",
		Short: "Remove a product from the order list",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			notice, removed, err := s.app.Remove(args[0], models.SourceID(args[1]))
			if err != nil {
				return err
			}
			if !removed {
				fmt.Fprintln(cmd.OutOrStdout(), "nothing removed")
				return nil
			}
			printNotice(cmd.OutOrStdout(), notice)
			return nil
		},
	}
}

func newQtyCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "qty <code> <source> <quantity>",
		Short: "Set a quantity; 0 or anything not a positive integer removes the line",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			found, err := s.app.SetQuantity(args[0], models.SourceID(args[1]), args[2])
			if err != nil {
				return err
			}
			if !found {
				fmt.Fprintln(cmd.OutOrStdout(), "not in the order list")
			}
			return nil
		},
	}
}

func newCartCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:     "cart",
		Aliases: []string{"commande"},
		Short:   "Show the order list",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			entries := s.app.Cart()
			if len(entries) == 0 {
				fmt.Fprintln(out, "Aucun article ajouté pour le moment.")
				return nil
			}
			table, err := s.app.Table()
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintf(tw, "%s\tCode\n", strings.Join(table.Header(), "\t"))
			for i, row := range table.Rows {
				fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\n", row.Source, strings.Join(row.Values, "\t"),
					row.Quantity, money.FormatFromCents(row.LineTotal), entries[i].Code)
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(out, "%d article(s), %d unité(s), total %s\n",
				len(table.Rows), table.TotalQuantity, money.FormatFromCents(table.GrandTotal))
			return nil
		},
	}
}

func newClearCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Empty the order list",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return s.app.Clear()
		},
	}
}

func newColumnsCmd(s *session) *cobra.Command {
	var show, hide []string
	cmd := &cobra.Command{
		Use:   "columns",
		Short: "List or change the visible columns",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, f := range show {
				if err := s.app.ToggleColumn(f, true); err != nil {
					return err
				}
			}
			for _, f := range hide {
				if err := s.app.ToggleColumn(f, false); err != nil {
					return err
				}
			}
			visible := make(map[string]bool)
			for _, f := range s.app.VisibleFields() {
				visible[f] = true
			}
			out := cmd.OutOrStdout()
			for _, f := range s.app.AllFields() {
				mark := " "
				if visible[f] {
					mark = "x"
				}
				fmt.Fprintf(out, "[%s] %s\n", mark, f)
			}
			return nil
		},
	}
	cmd.Flags().StringArrayVar(&show, "show", nil, "field to show (repeatable)")
	cmd.Flags().StringArrayVar(&hide, "hide", nil, "field to hide (repeatable)")
	return cmd
}

func newCompareCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "compare <code>",
		Short: "Compare a product's price across every mercuriale",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			list, err := s.app.Compare(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(list) == 0 {
				fmt.Fprintln(out, "Pas de comparaison possible: le code n'existe que dans une mercuriale au plus.")
				return nil
			}
			best, _ := compare.Cheapest(list)
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			for _, c := range list {
				mark := ""
				if c.Source == best.Source {
					mark = "<"
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\n", c.Name, money.FormatFromCents(c.PriceCents), mark)
			}
			return tw.Flush()
		},
	}
}

func newExportCmd(s *session) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the order list as CSV and/or Excel",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			run := func(export func() (string, app.Notice, error)) error {
				path, notice, err := export()
				if err != nil {
					return err
				}
				printNotice(out, notice)
				fmt.Fprintln(out, path)
				return nil
			}
			switch format {
			case "csv":
				return run(s.app.ExportCSV)
			case "xlsx":
				return run(s.app.ExportXLSX)
			case "both":
				if err := run(s.app.ExportCSV); err != nil {
					return err
				}
				return run(s.app.ExportXLSX)
			default:
				return fmt.Errorf("unsupported format %q (supported: csv, xlsx, both)", format)
			}
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "csv", "csv, xlsx or both")
	return cmd
}

func newResetCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Forget the order list and the column choice",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return s.app.Reset()
		},
	}
}
