package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/naveenspark/shelfdesk/internal/guard"
	"github.com/naveenspark/shelfdesk/pkg/client"
	"github.com/naveenspark/shelfdesk/pkg/domain"
)

// record wires the get/create/update calls of one backend resource into a
// command group. In is the payload read from --file.
type record[T, In any] struct {
	use    string
	short  string
	screen guard.Screen
	get    func(c *client.Client, ctx context.Context, id int64) (*T, error)
	create func(c *client.Client, ctx context.Context, in In) (*T, error)
	update func(c *client.Client, ctx context.Context, id int64, in In) (*T, error)
}

func newRecordCmd[T, In any](envOf func() *env, r record[T, In]) *cobra.Command {
	cmd := &cobra.Command{Use: r.use, Short: r.short}

	cmd.AddCommand(&cobra.Command{
		Use:   "get <id>",
		Short: "Show one " + r.use,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			e := envOf()
			if err := authorize(e, r.screen); err != nil {
				return err
			}
			v, err := r.get(e.client, cmd.Context(), id)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), v)
		},
	})

	var createFile string
	create := &cobra.Command{
		Use:   "create",
		Short: "Create a " + r.use + " from a JSON payload",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var in In
			if err := readPayload(cmd, createFile, &in); err != nil {
				return err
			}
			e := envOf()
			if err := authorize(e, r.screen); err != nil {
				return err
			}
			v, err := r.create(e.client, cmd.Context(), in)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), v)
		},
	}
	payloadFlag(create, &createFile)

	var updateFile string
	update := &cobra.Command{
		Use:   "update <id>",
		Short: "Replace a " + r.use + " with a JSON payload",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			var in In
			if err := readPayload(cmd, updateFile, &in); err != nil {
				return err
			}
			e := envOf()
			if err := authorize(e, r.screen); err != nil {
				return err
			}
			v, err := r.update(e.client, cmd.Context(), id, in)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), v)
		},
	}
	payloadFlag(update, &updateFile)

	cmd.AddCommand(create, update)
	return cmd
}

func payloadFlag(cmd *cobra.Command, path *string) {
	cmd.Flags().StringVarP(path, "file", "f", "-", "JSON payload file, - for stdin")
}

// readPayload decodes the JSON at path (stdin for "-") into v. Unknown
// fields are rejected so typos do not silently drop data.
func readPayload(cmd *cobra.Command, path string, v any) error {
	var r io.Reader = cmd.InOrStdin()
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("read payload: %w", err)
		}
		defer f.Close() //nolint:errcheck
		r = f
	}
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("parse payload: %w", err)
	}
	return nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}

// authorized runs fn once the saved session passes screen's guard.
func authorized(envOf func() *env, screen guard.Screen, fn func(cmd *cobra.Command, e *env, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		e := envOf()
		if err := authorize(e, screen); err != nil {
			return err
		}
		return fn(cmd, e, args)
	}
}

func newProductCmd(envOf func() *env) *cobra.Command {
	return newRecordCmd(envOf, record[domain.Product, domain.ProductInput]{
		use: "product", short: "Manage products", screen: guard.ScreenProducts,
		get:    (*client.Client).GetProduct,
		create: (*client.Client).CreateProduct,
		update: (*client.Client).UpdateProduct,
	})
}

func newAuthorCmd(envOf func() *env) *cobra.Command {
	return newRecordCmd(envOf, record[domain.Author, domain.Author]{
		use: "author", short: "Manage authors", screen: guard.ScreenAuthors,
		get:    (*client.Client).GetAuthor,
		create: (*client.Client).CreateAuthor,
		update: (*client.Client).UpdateAuthor,
	})
}

func newCategoryCmd(envOf func() *env) *cobra.Command {
	return newRecordCmd(envOf, record[domain.Category, domain.Category]{
		use: "category", short: "Manage categories", screen: guard.ScreenCategories,
		get:    (*client.Client).GetCategory,
		create: (*client.Client).CreateCategory,
		update: (*client.Client).UpdateCategory,
	})
}

func newEditorialCmd(envOf func() *env) *cobra.Command {
	return newRecordCmd(envOf, record[domain.Editorial, domain.Editorial]{
		use: "editorial", short: "Manage editorials", screen: guard.ScreenEditorials,
		get:    (*client.Client).GetEditorial,
		create: (*client.Client).CreateEditorial,
		update: (*client.Client).UpdateEditorial,
	})
}

func newUserCmd(envOf func() *env) *cobra.Command {
	cmd := newRecordCmd(envOf, record[domain.Person, domain.PersonInput]{
		use: "user", short: "Manage users and their accounts", screen: guard.ScreenUsers,
		get:    (*client.Client).GetUser,
		create: (*client.Client).CreateUser,
		update: (*client.Client).UpdateUser,
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "persons",
		Short: "List every person record",
		Args:  cobra.NoArgs,
		RunE: authorized(envOf, guard.ScreenUsers, func(cmd *cobra.Command, e *env, _ []string) error {
			list, err := e.client.ListPersons(cmd.Context())
			if err != nil {
				return err
			}
			rows := make([][]string, 0, len(list))
			for _, p := range list {
				username, role := "", ""
				if p.User != nil {
					username, role = p.User.Username, p.User.Role
				}
				rows = append(rows, []string{strconv.FormatInt(p.ID, 10), p.FullName(), p.DocumentNumber, username, role})
			}
			printf(cmd.OutOrStdout(), "%s\n", renderTable([]string{"id", "name", "document", "username", "role"}, rows))
			return nil
		}),
	})
	return cmd
}

func newRoleCmd(envOf func() *env) *cobra.Command {
	cmd := newRecordCmd(envOf, record[domain.Role, domain.RoleInput]{
		use: "role", short: "Manage roles and their permissions", screen: guard.ScreenRoles,
		get:    (*client.Client).GetRole,
		create: (*client.Client).CreateRole,
		update: (*client.Client).UpdateRole,
	})
	permissionChange := func(use, short string, call func(*client.Client, context.Context, int64, string) (*domain.Role, error)) *cobra.Command {
		return &cobra.Command{
			Use:   use + " <role-id> <permission>",
			Short: short,
			Args:  cobra.ExactArgs(2),
			RunE: authorized(envOf, guard.ScreenRoles, func(cmd *cobra.Command, e *env, args []string) error {
				id, err := parseID(args[0])
				if err != nil {
					return err
				}
				r, err := call(e.client, cmd.Context(), id, args[1])
				if err != nil {
					return err
				}
				names := make([]string, 0, len(r.Permissions))
				for _, p := range r.Permissions {
					names = append(names, p.Name)
				}
				printf(cmd.OutOrStdout(), "%s: %v\n", r.Name, names)
				return nil
			}),
		}
	}
	cmd.AddCommand(
		permissionChange("grant", "Grant a permission to a role", (*client.Client).AssignPermission),
		permissionChange("revoke", "Revoke a permission from a role", (*client.Client).RevokePermission),
	)
	return cmd
}

func newPermissionCmd(envOf func() *env) *cobra.Command {
	cmd := &cobra.Command{Use: "permission", Short: "Inspect permissions"}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List every permission",
			Args:  cobra.NoArgs,
			RunE: authorized(envOf, guard.ScreenRoles, func(cmd *cobra.Command, e *env, _ []string) error {
				list, err := e.client.ListPermissions(cmd.Context())
				if err != nil {
					return err
				}
				rows := make([][]string, 0, len(list))
				for _, p := range list {
					rows = append(rows, []string{strconv.FormatInt(p.ID, 10), p.Name, p.Label})
				}
				printf(cmd.OutOrStdout(), "%s\n", renderTable([]string{"id", "name", "label"}, rows))
				return nil
			}),
		},
		&cobra.Command{
			Use:   "get <id|name>",
			Short: "Show a permission by id or name",
			Args:  cobra.ExactArgs(1),
			RunE: authorized(envOf, guard.ScreenRoles, func(cmd *cobra.Command, e *env, args []string) error {
				var (
					p   *domain.Permission
					err error
				)
				if id, perr := strconv.ParseInt(args[0], 10, 64); perr == nil {
					p, err = e.client.GetPermission(cmd.Context(), id)
				} else {
					p, err = e.client.GetPermissionByName(cmd.Context(), args[0])
				}
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), p)
			}),
		},
	)
	return cmd
}

func newStockCmd(envOf func() *env) *cobra.Command {
	cmd := newRecordCmd(envOf, record[domain.StockMovement, domain.StockMovementInput]{
		use: "stock", short: "Stock movements and inventory", screen: guard.ScreenStock,
		get:    (*client.Client).GetStockMovement,
		create: (*client.Client).CreateStockMovement,
		update: (*client.Client).UpdateStockMovement,
	})

	var productID int64
	movements := &cobra.Command{
		Use:   "movements",
		Short: "List stock movements",
		Args:  cobra.NoArgs,
		RunE: authorized(envOf, guard.ScreenStock, func(cmd *cobra.Command, e *env, _ []string) error {
			var (
				list []domain.StockMovement
				err  error
			)
			if productID > 0 {
				list, err = e.client.ListProductMovements(cmd.Context(), productID)
			} else {
				list, err = e.client.ListStockMovements(cmd.Context())
			}
			if err != nil {
				return err
			}
			rows := make([][]string, 0, len(list))
			for _, m := range list {
				product := ""
				if m.Product != nil {
					product = m.Product.Title
				}
				rows = append(rows, []string{
					strconv.FormatInt(m.ID, 10), m.MovementDate, product, m.Type, strconv.Itoa(m.Quantity), m.Reason,
				})
			}
			printf(cmd.OutOrStdout(), "%s\n", renderTable([]string{"id", "date", "product", "type", "qty", "reason"}, rows))
			return nil
		}),
	}
	movements.Flags().Int64Var(&productID, "product", 0, "only this product id")

	adjust := func(use, short string, call func(*client.Client, context.Context, domain.StockAdjustment) error) *cobra.Command {
		var reason string
		c := &cobra.Command{
			Use:   use + " <product-id> <quantity>",
			Short: short,
			Args:  cobra.ExactArgs(2),
			RunE: authorized(envOf, guard.ScreenStock, func(cmd *cobra.Command, e *env, args []string) error {
				id, err := parseID(args[0])
				if err != nil {
					return err
				}
				qty, err := strconv.Atoi(args[1])
				if err != nil || qty <= 0 {
					return fmt.Errorf("invalid quantity %q", args[1])
				}
				adj := domain.StockAdjustment{ProductID: id, Quantity: qty, Reason: reason}
				if err := call(e.client, cmd.Context(), adj); err != nil {
					return err
				}
				stock, err := e.client.ProductStock(cmd.Context(), id)
				if err != nil {
					return err
				}
				printf(cmd.OutOrStdout(), "product #%d now has %d in stock\n", id, stock)
				return nil
			}),
		}
		c.Flags().StringVar(&reason, "reason", "", "reason recorded with the movement")
		return c
	}

	level := &cobra.Command{
		Use:   "level <product-id>",
		Short: "Show the current stock of a product",
		Args:  cobra.ExactArgs(1),
		RunE: authorized(envOf, guard.ScreenStock, func(cmd *cobra.Command, e *env, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			stock, err := e.client.ProductStock(cmd.Context(), id)
			if err != nil {
				return err
			}
			printf(cmd.OutOrStdout(), "%d\n", stock)
			return nil
		}),
	}

	cmd.AddCommand(
		movements,
		adjust("recharge", "Add units to a product's inventory", (*client.Client).RechargeStock),
		adjust("decrease", "Remove units from a product's inventory", (*client.Client).DecreaseStock),
		level,
	)
	return cmd
}

func newSaleCmd(envOf func() *env) *cobra.Command {
	cmd := &cobra.Command{Use: "sale", Short: "Inspect registered sales"}

	get := &cobra.Command{
		Use:   "get <id>",
		Short: "Show one sale with its items",
		Args:  cobra.ExactArgs(1),
		RunE: authorized(envOf, guard.ScreenSales, func(cmd *cobra.Command, e *env, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			s, err := e.client.GetSale(cmd.Context(), id)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), s)
		}),
	}

	var userID int64
	list := &cobra.Command{
		Use:   "list",
		Short: "List sales, optionally for one cashier",
		Args:  cobra.NoArgs,
		RunE: authorized(envOf, guard.ScreenSales, func(cmd *cobra.Command, e *env, _ []string) error {
			var (
				sales []domain.Sale
				err   error
			)
			if userID > 0 {
				sales, err = e.client.ListSalesByUser(cmd.Context(), userID)
			} else {
				sales, err = e.client.ListSales(cmd.Context())
			}
			if err != nil {
				return err
			}
			rows := make([][]string, 0, len(sales))
			for _, s := range sales {
				cashier := ""
				if s.User != nil {
					cashier = s.User.Username
				}
				rows = append(rows, []string{
					strconv.FormatInt(s.ID, 10), s.SaleDate, cashier, strconv.Itoa(len(s.Items)), money(s.TotalAmount),
				})
			}
			printf(cmd.OutOrStdout(), "%s\n", renderTable([]string{"id", "date", "cashier", "items", "total"}, rows))
			return nil
		}),
	}
	list.Flags().Int64Var(&userID, "user", 0, "only sales registered by this user id")

	cmd.AddCommand(get, list)
	return cmd
}
