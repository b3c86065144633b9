package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/RaviGowdaS/InventoryManagement/internal/itemstate"
	"github.com/RaviGowdaS/InventoryManagement/internal/stats"
)

const barWidth = 30

func dashboardCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Show summary statistics and charts for a page of items",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.newStore(cmd)
			if err != nil {
				return err
			}

			change := filterChange(cmd.Flags())
			if change != (itemstate.FilterChange{}) {
				// SetFilters fetches too; only the categories are left.
				if err := s.SetFilters(cmd.Context(), change); err != nil {
					return err
				}
				if err := s.FetchCategories(cmd.Context()); err != nil {
					return err
				}
			} else {
				g, ctx := errgroup.WithContext(cmd.Context())
				g.Go(func() error { return s.FetchItems(ctx) })
				g.Go(func() error { return s.FetchCategories(ctx) })
				if err := g.Wait(); err != nil {
					return err
				}
			}

			printDashboard(cmd.OutOrStdout(), s.State())
			return nil
		},
	}
	filterFlags(cmd.Flags())
	return cmd
}

func printDashboard(w io.Writer, st itemstate.State) {
	sum := stats.Summarize(st.Items, st.Categories)
	fmt.Fprintf(w, "Total items:  %d\n", sum.TotalItems)
	fmt.Fprintf(w, "Categories:   %d\n", sum.Categories)
	fmt.Fprintf(w, "Total value:  $%.2f\n", sum.TotalValue)
	fmt.Fprintf(w, "Low stock:    %d\n", sum.LowStock)
	printPagination(w, st.Pagination)

	if len(st.Items) == 0 {
		return
	}

	byCategory := stats.ByCategory(st.Items)
	largestCount := 0
	for _, p := range byCategory {
		largestCount = max(largestCount, p.Count)
	}
	fmt.Fprintln(w, "\nItems by category")
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, p := range byCategory {
		fmt.Fprintf(tw, "%s\t%s\t%d items, $%.2f\n", p.Category, bar(float64(p.Count), float64(largestCount), barWidth), p.Count, p.TotalValue)
	}
	tw.Flush()

	levels := stats.StockLevels(st.Items)
	largestStock := 0
	for _, p := range levels {
		largestStock = max(largestStock, p.Stock)
	}
	fmt.Fprintln(w, "\nStock levels")
	tw = tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, p := range levels {
		fmt.Fprintf(tw, "%s\t%s\t%d\n", p.Label, bar(float64(p.Stock), float64(largestStock), barWidth), p.Stock)
	}
	tw.Flush()
}
