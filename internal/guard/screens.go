package guard

import (
	"errors"
	"fmt"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/naveenspark/shelfdesk/pkg/domain"
)

// Screen identifies a navigable view.
type Screen string

const (
	ScreenLogin         Screen = "login"
	ScreenCatalog       Screen = "catalog"
	ScreenNotAuthorized Screen = "not-authorized"
	ScreenDashboard     Screen = "dashboard"
	ScreenAdmin         Screen = "admin"
	ScreenProducts      Screen = "products"
	ScreenAuthors       Screen = "authors"
	ScreenCategories    Screen = "categories"
	ScreenEditorials    Screen = "editorials"
	ScreenStock         Screen = "stock"
	ScreenSales         Screen = "sales"
	ScreenCashier       Screen = "cashier"
	ScreenUsers         Screen = "users"
	ScreenRoles         Screen = "roles"
)

// Screens lists every screen in navigation order.
var Screens = []Screen{
	ScreenLogin, ScreenCatalog, ScreenNotAuthorized, ScreenDashboard, ScreenAdmin,
	ScreenProducts, ScreenAuthors, ScreenCategories, ScreenEditorials,
	ScreenStock, ScreenSales, ScreenCashier, ScreenUsers, ScreenRoles,
}

// Access is a screen's declared protection.
type Access struct {
	Public bool
	Requirement
}

// AccessTable maps each screen to its protection.
type AccessTable map[Screen]Access

func public() Access { return Access{Public: true} }

func roles(r ...string) Access { return Access{Requirement: Requirement{Roles: r}} }

func perms(p ...string) Access { return Access{Requirement: Requirement{Permissions: p}} }

// DefaultAccessTable returns a fresh copy of the built-in protections.
func DefaultAccessTable() AccessTable {
	return AccessTable{
		ScreenLogin:         public(),
		ScreenCatalog:       public(),
		ScreenNotAuthorized: public(),
		ScreenDashboard:     roles(domain.StaffRoles...),
		ScreenAdmin:         roles(domain.RoleAdministrator),
		ScreenProducts:      perms("GET_PRODUCTS"),
		ScreenAuthors:       perms("GET_AUTHORS"),
		ScreenCategories:    perms("GET_CATEGORIES"),
		ScreenEditorials:    perms("GET_EDITORIALS"),
		ScreenStock:         perms("GET_STOCK_MOVEMENTS", "GET_INVENTORY"),
		ScreenSales:         perms("GET_SALES"),
		ScreenCashier:       perms("CREATE_SALE"),
		ScreenUsers:         roles(domain.RoleAdministrator),
		ScreenRoles:         roles(domain.RoleAdministrator),
	}
}

// Check evaluates screen against src. Public screens never redirect and
// unknown screens are not authorized.
func (t AccessTable) Check(screen Screen, src IdentitySource) Decision {
	a, ok := t[screen]
	switch {
	case !ok:
		return RedirectNotAuthorized
	case a.Public:
		return Allow
	default:
		return Evaluate(a.Requirement, src)
	}
}

// Visible returns the protected screens src may open right now, in
// navigation order.
func (t AccessTable) Visible(src IdentitySource) []Screen {
	var out []Screen
	for _, s := range Screens {
		a, ok := t[s]
		if !ok || a.Public {
			continue
		}
		if Evaluate(a.Requirement, src) == Allow {
			out = append(out, s)
		}
	}
	return out
}

type accessFile struct {
	Screens map[Screen]Requirement `yaml:"screens"`
}

// LoadAccessTable overlays the YAML file at path onto the defaults. Each
// entry must name a protected screen and declare roles or permissions, not
// both. An empty path returns the defaults.
func LoadAccessTable(path string) (AccessTable, error) {
	t := DefaultAccessTable()
	if path == "" {
		return t, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("guard.LoadAccessTable: %w", err)
	}
	var f accessFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("guard.LoadAccessTable: parse %s: %w", path, err)
	}
	var errs []error
	for screen, req := range f.Screens {
		cur, ok := t[screen]
		switch {
		case !ok:
			errs = append(errs, fmt.Errorf("unknown screen %q", screen))
		case cur.Public:
			errs = append(errs, fmt.Errorf("screen %q is public", screen))
		case len(req.Roles) > 0 && len(req.Permissions) > 0:
			errs = append(errs, fmt.Errorf("screen %q declares both roles and permissions", screen))
		default:
			t[screen] = Access{Requirement: Requirement{
				Roles:       slices.Clone(req.Roles),
				Permissions: slices.Clone(req.Permissions),
			}}
		}
	}
	if err := errors.Join(errs...); err != nil {
		return nil, fmt.Errorf("guard.LoadAccessTable: %s: %w", path, err)
	}
	return t, nil
}
