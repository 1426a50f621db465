package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/naveenspark/shelfdesk/internal/guard"
	"github.com/naveenspark/shelfdesk/pkg/client"
)

const dateLayout = "2006-01-02"

func renderTable(headers []string, rows [][]string) string {
	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		Rows(rows...).
		String()
}

func money(v float64) string { return fmt.Sprintf("S/ %.2f", v) }

// parseDate accepts an empty string as "no bound".
func parseDate(s string, loc *time.Location) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.ParseInLocation(dateLayout, s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: want YYYY-MM-DD", s)
	}
	return t, nil
}

// reportRange turns --from/--to into a range covering whole local days.
func reportRange(from, to string) (client.ReportRange, error) {
	return reportRangeIn(from, to, time.Local)
}

func reportRangeIn(from, to string, loc *time.Location) (client.ReportRange, error) {
	start, err := parseDate(from, loc)
	if err != nil {
		return client.ReportRange{}, err
	}
	end, err := parseDate(to, loc)
	if err != nil {
		return client.ReportRange{}, err
	}
	if !end.IsZero() {
		// Days are not always 24h long.
		end = end.AddDate(0, 0, 1).Add(-time.Second)
	}
	if !start.IsZero() && !end.IsZero() && end.Before(start) {
		return client.ReportRange{}, fmt.Errorf("--to %s is before --from %s", to, from)
	}
	return client.ReportRange{Start: start, End: end}, nil
}

// authorize restores the saved session and checks it against screen's entry
// in the access table.
func authorize(e *env, screen guard.Screen) error {
	e.session.Restore()
	switch e.access.Check(screen, e.session) {
	case guard.Allow:
		return nil
	case guard.RedirectLogin:
		return errNotSignedIn
	default:
		return fmt.Errorf("not authorized for %s", screen)
	}
}

func newCatalogCmd(envOf func() *env) *cobra.Command {
	var (
		title string
		page  int
		size  int
	)
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "List the public catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e := envOf()
			if page < 1 {
				return fmt.Errorf("--page must be at least 1")
			}
			res, err := e.client.ListPublicProducts(cmd.Context(), client.ProductFilter{Title: title, Page: page - 1, Size: size})
			if err != nil {
				return err
			}
			rows := make([][]string, 0, len(res.Content))
			for _, p := range res.Content {
				author := ""
				if p.Author != nil {
					author = p.Author.Name
				}
				rows = append(rows, []string{p.ISBN, p.Title, author, money(p.Price), strconv.Itoa(p.Stock)})
			}
			printf(cmd.OutOrStdout(), "%s\npage %d of %d, %d titles\n",
				renderTable([]string{"isbn", "title", "author", "price", "stock"}, rows),
				page, max(res.TotalPages, 1), res.TotalElements)
			return nil
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "filter by title")
	cmd.Flags().IntVar(&page, "page", 1, "page number")
	cmd.Flags().IntVar(&size, "size", 20, "page size")
	return cmd
}

func newReportCmd(envOf func() *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print sales and inventory reports",
	}
	cmd.AddCommand(newTopSoldCmd(envOf), newLowStockCmd(envOf), newSalesReportCmd(envOf))
	return cmd
}

func newTopSoldCmd(envOf func() *env) *cobra.Command {
	var (
		limit    int
		from, to string
	)
	cmd := &cobra.Command{
		Use:   "top-sold",
		Short: "Best selling products",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e := envOf()
			r, err := reportRange(from, to)
			if err != nil {
				return err
			}
			if err := authorize(e, guard.ScreenDashboard); err != nil {
				return err
			}
			list, err := e.client.TopSoldProducts(cmd.Context(), limit, r)
			if err != nil {
				return err
			}
			rows := make([][]string, 0, len(list))
			for i, p := range list {
				rows = append(rows, []string{strconv.Itoa(i + 1), p.Title, strconv.Itoa(p.TotalSold)})
			}
			printf(cmd.OutOrStdout(), "%s\n", renderTable([]string{"#", "title", "sold"}, rows))
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 10, "number of products")
	cmd.Flags().StringVar(&from, "from", "", "first day (YYYY-MM-DD)")
	cmd.Flags().StringVar(&to, "to", "", "last day (YYYY-MM-DD)")
	return cmd
}

func newLowStockCmd(envOf func() *env) *cobra.Command {
	var threshold int
	cmd := &cobra.Command{
		Use:   "low-stock",
		Short: "Products below a stock threshold",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e := envOf()
			if err := authorize(e, guard.ScreenDashboard); err != nil {
				return err
			}
			list, err := e.client.LowStockProducts(cmd.Context(), threshold)
			if err != nil {
				return err
			}
			rows := make([][]string, 0, len(list))
			for _, p := range list {
				rows = append(rows, []string{strconv.FormatInt(p.ProductID, 10), p.Title, strconv.Itoa(p.Stock)})
			}
			printf(cmd.OutOrStdout(), "%s\n", renderTable([]string{"id", "title", "stock"}, rows))
			return nil
		},
	}
	cmd.Flags().IntVar(&threshold, "threshold", 5, "report products with less stock than this")
	return cmd
}

func newSalesReportCmd(envOf func() *env) *cobra.Command {
	var (
		f        client.SalesReportFilter
		from, to string
	)
	cmd := &cobra.Command{
		Use:   "sales",
		Short: "Sold items by date, product or cashier",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e := envOf()
			r, err := reportRange(from, to)
			if err != nil {
				return err
			}
			f.Range = r
			if err := authorize(e, guard.ScreenSales); err != nil {
				return err
			}
			list, err := e.client.SalesReport(cmd.Context(), f)
			if err != nil {
				return err
			}
			var total float64
			rows := make([][]string, 0, len(list))
			for _, s := range list {
				total += s.TotalPrice
				rows = append(rows, []string{
					strconv.FormatInt(s.SaleID, 10), s.SaleDate, s.Username, s.ProductTitle,
					strconv.Itoa(s.Quantity), money(s.TotalPrice),
				})
			}
			printf(cmd.OutOrStdout(), "%s\n%d items, %s\n",
				renderTable([]string{"sale", "date", "cashier", "product", "qty", "total"}, rows),
				len(list), money(total))
			return nil
		},
	}
	cmd.Flags().IntVar(&f.Limit, "limit", 50, "maximum rows")
	cmd.Flags().Int64Var(&f.ProductID, "product", 0, "only this product id")
	cmd.Flags().Int64Var(&f.UserID, "user", 0, "only this cashier's user id")
	cmd.Flags().StringVar(&from, "from", "", "first day (YYYY-MM-DD)")
	cmd.Flags().StringVar(&to, "to", "", "last day (YYYY-MM-DD)")
	return cmd
}
