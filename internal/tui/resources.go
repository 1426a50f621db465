package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/naveenspark/shelfdesk/internal/guard"
	"github.com/naveenspark/shelfdesk/pkg/client"
	"github.com/naveenspark/shelfdesk/pkg/domain"
)

// row is one rendered record of a resource list.
type row struct {
	id        int64
	cells     []string
	active    bool
	protected bool
}

type column struct {
	title string
	width int
}

// resource describes how an admin list screen fetches and acts on records.
// remove and toggle are optional.
type resource struct {
	title   string
	columns []column
	load    func(ctx context.Context, c *client.Client) ([]row, error)
	remove  func(c *client.Client, ctx context.Context, id int64) error
	toggle  func(c *client.Client, ctx context.Context, id int64, active bool) error
}

func idCell(id int64) string { return strconv.FormatInt(id, 10) }

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func nameOf[T any](v *T, name func(*T) string) string {
	if v == nil {
		return ""
	}
	return name(v)
}

// resources maps each admin list screen to its definition.
var resources = map[guard.Screen]resource{
	guard.ScreenProducts: {
		title: "Products",
		columns: []column{{"id", 5}, {"title", 32}, {"author", 18}, {"price", 11}, {"stock", 6}, {"active", 6}},
		load: func(ctx context.Context, c *client.Client) ([]row, error) {
			page, err := c.ListProducts(ctx, client.ProductFilter{Size: 100, Sort: "title,asc"})
			if err != nil {
				return nil, err
			}
			rows := make([]row, 0, len(page.Content))
			for _, p := range page.Content {
				author := nameOf(p.Author, func(a *domain.Author) string { return a.Name })
				rows = append(rows, row{id: p.ID, active: p.Active, cells: []string{
					idCell(p.ID), p.Title, author, formatMoney(p.Price), strconv.Itoa(p.Stock), yesNo(p.Active),
				}})
			}
			return rows, nil
		},
		remove: (*client.Client).DeleteProduct,
		toggle: (*client.Client).SetProductActive,
	},
	guard.ScreenAuthors: {
		title:   "Authors",
		columns: []column{{"id", 5}, {"name", 32}, {"active", 6}},
		load: func(ctx context.Context, c *client.Client) ([]row, error) {
			list, err := c.ListAuthors(ctx)
			if err != nil {
				return nil, err
			}
			rows := make([]row, 0, len(list))
			for _, a := range list {
				rows = append(rows, row{id: a.ID, active: a.Active, cells: []string{idCell(a.ID), a.Name, yesNo(a.Active)}})
			}
			return rows, nil
		},
		remove: (*client.Client).DeleteAuthor,
	},
	guard.ScreenCategories: {
		title:   "Categories",
		columns: []column{{"id", 5}, {"name", 24}, {"description", 36}},
		load: func(ctx context.Context, c *client.Client) ([]row, error) {
			list, err := c.ListCategories(ctx)
			if err != nil {
				return nil, err
			}
			rows := make([]row, 0, len(list))
			for _, cat := range list {
				rows = append(rows, row{id: cat.ID, active: cat.Active, cells: []string{idCell(cat.ID), cat.Name, cat.Description}})
			}
			return rows, nil
		},
		remove: (*client.Client).DeleteCategory,
	},
	guard.ScreenEditorials: {
		title:   "Editorials",
		columns: []column{{"id", 5}, {"name", 32}, {"active", 6}},
		load: func(ctx context.Context, c *client.Client) ([]row, error) {
			list, err := c.ListEditorials(ctx)
			if err != nil {
				return nil, err
			}
			rows := make([]row, 0, len(list))
			for _, e := range list {
				rows = append(rows, row{id: e.ID, active: e.Active, cells: []string{idCell(e.ID), e.Name, yesNo(e.Active)}})
			}
			return rows, nil
		},
		remove: (*client.Client).DeleteEditorial,
	},
	guard.ScreenStock: {
		title:   "Stock movements",
		columns: []column{{"id", 5}, {"date", 16}, {"product", 30}, {"type", 4}, {"qty", 5}, {"reason", 24}},
		load: func(ctx context.Context, c *client.Client) ([]row, error) {
			list, err := c.ListStockMovements(ctx)
			if err != nil {
				return nil, err
			}
			rows := make([]row, 0, len(list))
			for _, mv := range list {
				product := nameOf(mv.Product, func(p *domain.ProductRef) string { return p.Title })
				rows = append(rows, row{id: mv.ID, cells: []string{
					idCell(mv.ID), formatDate(mv.MovementDate), product, mv.Type, strconv.Itoa(mv.Quantity), mv.Reason,
				}})
			}
			return rows, nil
		},
	},
	guard.ScreenSales: {
		title:   "Sales",
		columns: []column{{"id", 5}, {"date", 16}, {"cashier", 18}, {"items", 5}, {"total", 11}, {"paid", 11}},
		load: func(ctx context.Context, c *client.Client) ([]row, error) {
			list, err := c.ListSales(ctx)
			if err != nil {
				return nil, err
			}
			rows := make([]row, 0, len(list))
			for _, s := range list {
				cashier := nameOf(s.User, func(u *domain.SaleUser) string { return u.Username })
				rows = append(rows, row{id: s.ID, cells: []string{
					idCell(s.ID), formatDate(s.SaleDate), cashier, strconv.Itoa(len(s.Items)),
					formatMoney(s.TotalAmount), formatMoney(s.AmountPaid),
				}})
			}
			return rows, nil
		},
	},
	guard.ScreenUsers: {
		title:   "Users",
		columns: []column{{"id", 5}, {"username", 18}, {"name", 32}},
		load: func(ctx context.Context, c *client.Client) ([]row, error) {
			list, err := c.ListUsers(ctx)
			if err != nil {
				return nil, err
			}
			rows := make([]row, 0, len(list))
			for _, u := range list {
				rows = append(rows, row{id: u.ID, cells: []string{idCell(u.ID), u.Username, u.FullName}})
			}
			return rows, nil
		},
		remove: (*client.Client).DeleteUser,
	},
	guard.ScreenRoles: {
		title:   "Roles",
		columns: []column{{"id", 5}, {"name", 16}, {"permissions", 48}},
		load: func(ctx context.Context, c *client.Client) ([]row, error) {
			list, err := c.ListRoles(ctx)
			if err != nil {
				return nil, err
			}
			rows := make([]row, 0, len(list))
			for _, r := range list {
				names := make([]string, 0, len(r.Permissions))
				for _, p := range r.Permissions {
					names = append(names, p.Name)
				}
				rows = append(rows, row{id: r.ID, protected: domain.ProtectedRole(r.Name), cells: []string{
					idCell(r.ID), r.Name, fmt.Sprintf("%d: %s", len(names), strings.Join(names, ", ")),
				}})
			}
			return rows, nil
		},
		remove: (*client.Client).DeleteRole,
	},
}
