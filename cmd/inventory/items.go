package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/RaviGowdaS/InventoryManagement/internal/itemstate"
	"github.com/RaviGowdaS/InventoryManagement/internal/model"
)

func itemsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "items",
		Short: "List and manage inventory items",
	}
	cmd.AddCommand(
		itemsListCmd(a),
		itemsGetCmd(a),
		itemsCreateCmd(a),
		itemsUpdateCmd(a),
		itemsDeleteCmd(a),
		itemsCategoriesCmd(a),
	)
	return cmd
}

// newStore returns an item store backed by the logged-in client.
func (a *app) newStore(cmd *cobra.Command) (*itemstate.Store, error) {
	c, _, err := a.authedClient(cmd)
	if err != nil {
		return nil, err
	}
	return itemstate.New(c), nil
}

// filterFlags registers the list filter flags shared by items list and dashboard.
func filterFlags(fs *pflag.FlagSet) {
	fs.Int("page", model.DefaultPage, "page number")
	fs.Int("limit", model.DefaultLimit, "items per page")
	fs.String("category", "", "exact category")
	fs.String("search", "", "case-insensitive match on title or description")
}

func filterChange(fs *pflag.FlagSet) itemstate.FilterChange {
	var change itemstate.FilterChange
	if fs.Changed("limit") {
		n, _ := fs.GetInt("limit")
		change.Limit = &n
	}
	if fs.Changed("category") {
		s, _ := fs.GetString("category")
		change.Category = &s
	}
	if fs.Changed("search") {
		s, _ := fs.GetString("search")
		change.Search = &s
	}
	if fs.Changed("page") {
		n, _ := fs.GetInt("page")
		change.Page = &n
	}
	return change
}

func itemsListCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List active items",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.newStore(cmd)
			if err != nil {
				return err
			}
			if err := s.SetFilters(cmd.Context(), filterChange(cmd.Flags())); err != nil {
				return err
			}
			st := s.State()
			printItems(cmd.OutOrStdout(), st.Items)
			printPagination(cmd.OutOrStdout(), st.Pagination)
			return nil
		},
	}
	filterFlags(cmd.Flags())
	return cmd
}

func itemsGetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show one item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, _, err := a.authedClient(cmd)
			if err != nil {
				return err
			}
			item, err := c.GetItem(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printItem(cmd.OutOrStdout(), item)
			return nil
		},
	}
}

// itemFlags registers the writable item fields.
func itemFlags(fs *pflag.FlagSet) {
	fs.String("title", "", "title")
	fs.String("description", "", "description")
	fs.String("category", "", "category")
	fs.Float64("price", 0, "unit price")
	fs.Int("stock", 0, "units in stock")
	fs.String("image-url", "", "image URL")
}

// itemInput collects the item fields that were set on the command line.
func itemInput(fs *pflag.FlagSet) model.ItemInput {
	var in model.ItemInput
	str := func(name string) *string {
		if !fs.Changed(name) {
			return nil
		}
		s, _ := fs.GetString(name)
		return &s
	}
	in.Title = str("title")
	in.Description = str("description")
	in.Category = str("category")
	in.ImageURL = str("image-url")
	if fs.Changed("price") {
		p, _ := fs.GetFloat64("price")
		in.Price = &p
	}
	if fs.Changed("stock") {
		n, _ := fs.GetInt("stock")
		in.Stock = &n
	}
	if fs.Lookup("active") != nil && fs.Changed("active") {
		b, _ := fs.GetBool("active")
		in.IsActive = &b
	}
	return in
}

func itemsCreateCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an item owned by you",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.newStore(cmd)
			if err != nil {
				return err
			}
			item, err := s.Create(cmd.Context(), itemInput(cmd.Flags()))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Item created successfully")
			printItem(cmd.OutOrStdout(), item)
			return nil
		},
	}
	itemFlags(cmd.Flags())
	cmd.MarkFlagRequired("title")
	cmd.MarkFlagRequired("category")
	cmd.MarkFlagRequired("price")
	return cmd
}

func itemsUpdateCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change fields of an item you own",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.newStore(cmd)
			if err != nil {
				return err
			}
			item, err := s.Update(cmd.Context(), args[0], itemInput(cmd.Flags()))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Item updated successfully")
			printItem(cmd.OutOrStdout(), item)
			return nil
		},
	}
	itemFlags(cmd.Flags())
	cmd.Flags().Bool("active", true, "whether the item is listed")
	return cmd
}

func itemsDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an item you own",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.newStore(cmd)
			if err != nil {
				return err
			}
			if err := s.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Item deleted successfully")
			return nil
		},
	}
}

func itemsCategoriesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List categories of active items",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.newStore(cmd)
			if err != nil {
				return err
			}
			if err := s.FetchCategories(cmd.Context()); err != nil {
				return err
			}
			for _, c := range s.State().Categories {
				fmt.Fprintln(cmd.OutOrStdout(), c)
			}
			return nil
		},
	}
}

func printItems(w io.Writer, items []model.Item) {
	if len(items) == 0 {
		fmt.Fprintln(w, "No items found.")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tCATEGORY\tPRICE\tSTOCK\tOWNER")
	for _, it := range items {
		stock := fmt.Sprint(it.Stock)
		if it.Stock < model.LowStockThreshold {
			stock += " (low)"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t$%.2f\t%s\t%s\n", it.ID, it.Title, it.Category, it.Price, stock, it.CreatedBy.Name)
	}
	tw.Flush()
}

func printPagination(w io.Writer, p *model.Pagination) {
	if p == nil || p.TotalPages == 0 {
		return
	}
	fmt.Fprintf(w, "\nPage %d of %d (%d items)\n", p.CurrentPage, p.TotalPages, p.TotalItems)
}

func printItem(w io.Writer, it *model.Item) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "ID:\t%s\n", it.ID)
	fmt.Fprintf(tw, "Title:\t%s\n", it.Title)
	if it.Description != "" {
		fmt.Fprintf(tw, "Description:\t%s\n", it.Description)
	}
	fmt.Fprintf(tw, "Category:\t%s\n", it.Category)
	fmt.Fprintf(tw, "Price:\t$%.2f\n", it.Price)
	fmt.Fprintf(tw, "Stock:\t%d\n", it.Stock)
	fmt.Fprintf(tw, "Value:\t$%.2f\n", it.Value())
	if it.ImageURL != "" {
		fmt.Fprintf(tw, "Image:\t%s\n", it.ImageURL)
	}
	fmt.Fprintf(tw, "Active:\t%t\n", it.IsActive)
	fmt.Fprintf(tw, "Owner:\t%s <%s>\n", it.CreatedBy.Name, it.CreatedBy.Email)
	fmt.Fprintf(tw, "Created:\t%s\n", it.CreatedAt.Local().Format("2006-01-02 15:04"))
	fmt.Fprintf(tw, "Updated:\t%s\n", it.UpdatedAt.Local().Format("2006-01-02 15:04"))
	tw.Flush()
}

// bar renders an ASCII bar of width cells scaled against largest.
func bar(v, largest float64, width int) string {
	if largest <= 0 || v <= 0 {
		return ""
	}
	n := int(v / largest * float64(width))
	return strings.Repeat("#", max(n, 1))
}
