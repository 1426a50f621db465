package guard

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/naveenspark/shelfdesk/pkg/domain"
)

func TestDefaultAccessTableCoversScreens(t *testing.T) {
	table := DefaultAccessTable()
	for _, s := range Screens {
		a, ok := table[s]
		require.True(t, ok, "screen %s missing", s)
		if !a.Public {
			// Protected screens use one style of declaration.
			assert.True(t, (len(a.Roles) > 0) != (len(a.Permissions) > 0), "screen %s", s)
		}
	}
}

func TestAccessTableCheck(t *testing.T) {
	table := DefaultAccessTable()
	anon := &stubSource{ready: true}
	admin := &stubSource{ready: true, identity: identity(domain.RoleAdministrator)}
	clerk := &stubSource{ready: true, identity: identity(domain.RoleTeacher, "GET_PRODUCTS")}

	assert.Equal(t, Allow, table.Check(ScreenCatalog, anon))
	assert.Equal(t, Allow, table.Check(ScreenLogin, &stubSource{}))
	assert.Equal(t, RedirectLogin, table.Check(ScreenDashboard, anon))
	assert.Equal(t, Pending, table.Check(ScreenDashboard, &stubSource{}))

	assert.Equal(t, Allow, table.Check(ScreenAdmin, admin))
	assert.Equal(t, RedirectNotAuthorized, table.Check(ScreenAdmin, clerk))
	assert.Equal(t, Allow, table.Check(ScreenDashboard, clerk))
	assert.Equal(t, Allow, table.Check(ScreenProducts, clerk))
	assert.Equal(t, RedirectNotAuthorized, table.Check(ScreenSales, clerk))

	assert.Equal(t, RedirectNotAuthorized, table.Check(Screen("nowhere"), admin))
}

func TestAccessTableVisible(t *testing.T) {
	table := DefaultAccessTable()
	clerk := &stubSource{ready: true, identity: identity(domain.RoleTeacher, "GET_PRODUCTS", "CREATE_SALE")}
	assert.Equal(t, []Screen{ScreenDashboard, ScreenProducts, ScreenCashier}, table.Visible(clerk))
	assert.Empty(t, table.Visible(&stubSource{ready: true}))
}

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "access.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoadAccessTable(t *testing.T) {
	path := writeFile(t, `
screens:
  products:
    permissions: [GET_PRODUCTS, MANAGE_CATALOG]
  users:
    permissions: [GET_USERS]
`)
	table, err := LoadAccessTable(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"GET_PRODUCTS", "MANAGE_CATALOG"}, table[ScreenProducts].Permissions)
	assert.Equal(t, []string{"GET_USERS"}, table[ScreenUsers].Permissions)
	assert.Empty(t, table[ScreenUsers].Roles)
	// Untouched entries keep their defaults.
	assert.Equal(t, DefaultAccessTable()[ScreenAdmin], table[ScreenAdmin])
}

func TestLoadAccessTableEmptyPath(t *testing.T) {
	table, err := LoadAccessTable("")
	require.NoError(t, err)
	assert.Equal(t, DefaultAccessTable(), table)
}

func TestLoadAccessTableRejects(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"unknown screen", "screens:\n  attic:\n    roles: [X]\n", `unknown screen "attic"`},
		{"both styles", "screens:\n  sales:\n    roles: [X]\n    permissions: [Y]\n", "both roles and permissions"},
		{"public screen", "screens:\n  catalog:\n    roles: [X]\n", "is public"},
		{"bad yaml", "screens: [", "parse"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadAccessTable(writeFile(t, tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadAccessTableMissingFile(t *testing.T) {
	_, err := LoadAccessTable(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
