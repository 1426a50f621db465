package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/naveenspark/shelfdesk/internal/guard"
	"github.com/naveenspark/shelfdesk/internal/session"
	"github.com/naveenspark/shelfdesk/pkg/client"
)

// restoredMsg reports that session restoration finished.
type restoredMsg struct{}

// sessionChangedMsg carries a session transition from the manager.
type sessionChangedMsg struct {
	snapshot session.Snapshot
}

// screenKeys are the global navigation keys.
var screenKeys = []struct {
	key    string
	screen guard.Screen
}{
	{"1", guard.ScreenDashboard},
	{"2", guard.ScreenCatalog},
	{"3", guard.ScreenProducts},
	{"4", guard.ScreenAuthors},
	{"5", guard.ScreenCategories},
	{"6", guard.ScreenEditorials},
	{"7", guard.ScreenStock},
	{"8", guard.ScreenSales},
	{"9", guard.ScreenCashier},
	{"0", guard.ScreenAdmin},
	{"U", guard.ScreenUsers},
	{"R", guard.ScreenRoles},
	{"i", guard.ScreenLogin},
}

var screenTitles = map[guard.Screen]string{
	guard.ScreenLogin:         "Sign in",
	guard.ScreenCatalog:       "Catalog",
	guard.ScreenNotAuthorized: "Not authorized",
	guard.ScreenDashboard:     "Dashboard",
	guard.ScreenAdmin:         "Admin",
	guard.ScreenProducts:      "Products",
	guard.ScreenAuthors:       "Authors",
	guard.ScreenCategories:    "Categories",
	guard.ScreenEditorials:    "Editorials",
	guard.ScreenStock:         "Stock",
	guard.ScreenSales:         "Sales",
	guard.ScreenCashier:       "Cashier",
	guard.ScreenUsers:         "Users",
	guard.ScreenRoles:         "Roles",
}

func screenTitle(s guard.Screen) string {
	if t, ok := screenTitles[s]; ok {
		return t
	}
	return string(s)
}

func screenKey(s guard.Screen) string {
	for _, k := range screenKeys {
		if k.screen == s {
			return k.key
		}
	}
	return ""
}

// App is the root Bubbletea model. Every navigation goes through the access
// table, and every session transition re-runs the guard for the screen the
// user asked for.
type App struct {
	client  *client.Client
	session *session.Manager
	access  guard.AccessTable
	version string
	changes chan session.Snapshot
	// unsubscribe detaches changes from the manager.
	unsubscribe func()

	wanted  guard.Screen
	screen  guard.Screen
	pending bool

	login     loginModel
	catalog   catalogModel
	dashboard dashboardModel
	admin     adminModel
	cashier   cashierModel
	lists     map[guard.Screen]listModel

	helpOpen      bool
	flash         string
	latestVersion string
	width         int
	height        int
}

// NewApp creates the TUI. access may be nil for the built-in table.
func NewApp(c *client.Client, m *session.Manager, access guard.AccessTable, version string) App {
	if access == nil {
		access = guard.DefaultAccessTable()
	}
	changes := make(chan session.Snapshot, 16)
	unsubscribe := m.Subscribe(func(s session.Snapshot) {
		// The guard re-reads the manager, so a dropped snapshot loses nothing.
		select {
		case changes <- s:
		default:
		}
	})

	lists := make(map[guard.Screen]listModel, len(resources))
	for s, res := range resources {
		lists[s] = newListModel(c, s, res)
	}
	return App{
		client:      c,
		session:     m,
		access:      access,
		version:     version,
		changes:     changes,
		unsubscribe: unsubscribe,
		wanted:      guard.ScreenDashboard,
		pending:     true,
		login:       newLoginModel(c, m),
		catalog:     newCatalogModel(c),
		dashboard:   newDashboardModel(c),
		cashier:     newCashierModel(c),
		lists:       lists,
	}
}

// Close stops forwarding session changes to the app. The manager itself
// stays usable.
func (a App) Close() {
	if a.unsubscribe != nil {
		a.unsubscribe()
	}
}

func (a App) Init() tea.Cmd {
	m := a.session
	restore := func() tea.Msg {
		m.Restore()
		return restoredMsg{}
	}
	return tea.Batch(restore, waitForSession(a.changes), checkVersion(a.version))
}

func waitForSession(ch <-chan session.Snapshot) tea.Cmd {
	return func() tea.Msg {
		return sessionChangedMsg{snapshot: <-ch}
	}
}

// navigate records s as the requested screen and shows whatever the guard allows.
func (a App) navigate(s guard.Screen) (App, tea.Cmd) {
	a.wanted = s
	a.flash = ""
	return a.show()
}

// show evaluates the guard for the requested screen. Nothing is reloaded
// when the resolved screen is already on display.
func (a App) show() (App, tea.Cmd) {
	if p, ok := a.session.CurrentIdentity(); ok {
		a.dashboard.identity = &p
	} else {
		a.dashboard.identity = nil
	}

	target := a.wanted
	switch a.access.Check(a.wanted, a.session) {
	case guard.Pending:
		a.pending = true
		return a, nil
	case guard.RedirectLogin:
		target = guard.ScreenLogin
	case guard.RedirectNotAuthorized:
		target = guard.ScreenNotAuthorized
	}
	if target == a.screen && !a.pending {
		return a, nil
	}
	a.pending = false
	a.screen = target
	return a.enter(target)
}

// enter resets or reloads the model behind s.
func (a App) enter(s guard.Screen) (App, tea.Cmd) {
	var cmd tea.Cmd
	switch s {
	case guard.ScreenLogin:
		a.login = a.login.reset()
	case guard.ScreenCatalog:
		a.catalog.loading = true
		cmd = a.catalog.Init()
	case guard.ScreenDashboard:
		a.dashboard, cmd = a.dashboard.start()
	case guard.ScreenAdmin:
		var entries []guard.Screen
		for _, v := range a.access.Visible(a.session) {
			if v != guard.ScreenAdmin && v != guard.ScreenDashboard {
				entries = append(entries, v)
			}
		}
		a.admin = a.admin.withEntries(entries)
	case guard.ScreenCashier:
		cmd = a.cashier.Init()
	default:
		if l, ok := a.lists[s]; ok {
			l, cmd = l.start()
			a.lists[s] = l
		}
	}
	return a, cmd
}

// afterLogin picks where a fresh session lands: the protected screen that
// redirected to login, or the dashboard.
func (a App) afterLogin() guard.Screen {
	if acc, ok := a.access[a.wanted]; ok && !acc.Public {
		return a.wanted
	}
	return guard.ScreenDashboard
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		// Chrome: header(1) + tabs(1) + blank(1) + help(1) = 4 lines
		bodyMsg := tea.WindowSizeMsg{Width: msg.Width, Height: msg.Height - 4}
		a.catalog, _ = a.catalog.Update(bodyMsg)
		for s, l := range a.lists {
			a.lists[s], _ = l.Update(bodyMsg)
		}
		return a, nil

	case versionCheckMsg:
		if msg.hasUpdate {
			a.latestVersion = msg.latestVersion
		}
		return a, nil

	case restoredMsg:
		return a.show()

	case sessionChangedMsg:
		var cmd tea.Cmd
		a, cmd = a.show()
		return a, tea.Batch(cmd, waitForSession(a.changes))

	case navigateMsg:
		return a.navigate(msg.screen)

	case loginResultMsg:
		a.login, _ = a.login.Update(msg)
		if msg.err != nil {
			return a, nil
		}
		return a.navigate(a.afterLogin())

	case forgotResultMsg:
		a.login, _ = a.login.Update(msg)
		return a, nil

	case catalogLoadedMsg:
		var cmd tea.Cmd
		a.catalog, cmd = a.catalog.Update(msg)
		return a, cmd

	case topSoldLoadedMsg, lowStockLoadedMsg:
		var cmd tea.Cmd
		a.dashboard, cmd = a.dashboard.Update(msg)
		return a, cmd

	case listLoadedMsg:
		return a.updateList(msg.screen, msg)

	case listActionMsg:
		return a.updateList(msg.screen, msg)

	case cashierProductsMsg, saleCreatedMsg:
		var cmd tea.Cmd
		a.cashier, cmd = a.cashier.Update(msg)
		return a, cmd

	case tea.KeyMsg:
		return a.updateKeys(msg)
	}
	return a, nil
}

func (a App) updateList(s guard.Screen, msg tea.Msg) (App, tea.Cmd) {
	l, ok := a.lists[s]
	if !ok {
		return a, nil
	}
	var cmd tea.Cmd
	a.lists[s], cmd = l.Update(msg)
	return a, cmd
}

func (a App) updateKeys(msg tea.KeyMsg) (App, tea.Cmd) {
	key := msg.String()
	if key == "ctrl+c" {
		return a, tea.Quit
	}

	// Help overlay captures all keys when open
	if a.helpOpen {
		switch key {
		case "?", "esc":
			a.helpOpen = false
		case "q":
			return a, tea.Quit
		}
		return a, nil
	}

	if a.pending {
		if key == "q" {
			return a, tea.Quit
		}
		return a, nil
	}

	if a.screen == guard.ScreenLogin && key == "esc" {
		return a.navigate(guard.ScreenCatalog)
	}

	if !a.isEditing() {
		switch key {
		case "q":
			return a, tea.Quit
		case "?":
			a.helpOpen = true
			return a, nil
		case "L":
			if err := a.session.Logout(); err != nil {
				a.flash = client.Message(err)
			}
			return a.show()
		}
		for _, k := range screenKeys {
			if k.key == key {
				return a.navigate(k.screen)
			}
		}
	}

	var cmd tea.Cmd
	switch a.screen {
	case guard.ScreenLogin:
		a.login, cmd = a.login.Update(msg)
	case guard.ScreenCatalog:
		a.catalog, cmd = a.catalog.Update(msg)
	case guard.ScreenDashboard:
		a.dashboard, cmd = a.dashboard.Update(msg)
	case guard.ScreenAdmin:
		a.admin, cmd = a.admin.Update(msg)
	case guard.ScreenCashier:
		a.cashier, cmd = a.cashier.Update(msg)
	default:
		return a.updateList(a.screen, msg)
	}
	return a, cmd
}

func (a App) isEditing() bool {
	switch a.screen {
	case guard.ScreenLogin:
		return true
	case guard.ScreenCatalog:
		return a.catalog.searching
	case guard.ScreenCashier:
		return a.cashier.editing()
	}
	return false
}

// tabs lists the screens shown in the tab bar for the current identity.
func (a App) tabs() []guard.Screen {
	out := []guard.Screen{guard.ScreenCatalog}
	for _, s := range a.access.Visible(a.session) {
		if screenKey(s) != "" {
			out = append(out, s)
		}
	}
	return out
}

func (a App) View() string {
	// Header: title, identity and update notice
	header := titleStyle.Render("shelfdesk")
	if p, ok := a.session.CurrentIdentity(); ok && p.User != nil {
		header += "  " + normalStyle.Render(p.User.Username) + " " + RoleStyle(p.User.Role).Render(p.User.Role)
	} else if !a.pending {
		header += "  " + dimStyle.Render("guest")
	}
	if a.latestVersion != "" {
		header += "  " + warnStyle.Render(a.latestVersion+" available")
	}

	var tabBar strings.Builder
	for _, s := range a.tabs() {
		if s == a.screen {
			tabBar.WriteString(accentStyle.Render(screenKey(s)) + " " + selectedStyle.Underline(true).Render(screenTitle(s)))
		} else {
			tabBar.WriteString(metaStyle.Render(screenKey(s)) + " " + dimStyle.Render(screenTitle(s)))
		}
		tabBar.WriteString("  ")
	}
	tabs := strings.TrimRight(tabBar.String(), " ")

	var body, help string
	switch {
	case a.pending:
		body = dimStyle.Render("restoring session...")
		help = helpBar("q", "quit")
	case a.helpOpen:
		apiURL := ""
		if a.client != nil {
			apiURL = a.client.BaseURL()
		}
		body = helpView(apiURL)
		help = helpBar("esc", "close")
	default:
		body, help = a.screenView()
	}
	if a.flash != "" {
		body += "\n" + errorStyle.Render(a.flash)
	}

	chrome := 4
	body = strings.TrimRight(truncateToHeight(body, a.height-chrome), "\n")
	return fmt.Sprintf("%s\n%s\n%s\n%s", header, tabs, body, help)
}

func (a App) screenView() (body, help string) {
	switch a.screen {
	case guard.ScreenLogin:
		return a.login.View(), a.login.helpKeys()
	case guard.ScreenCatalog:
		return a.catalog.View(), a.catalog.helpKeys()
	case guard.ScreenDashboard:
		return a.dashboard.View(), helpBar("1-9", "screens", "r", "reload", "L", "sign out", "?", "help", "q", "quit")
	case guard.ScreenAdmin:
		return a.admin.View(), helpBar("j/k", "nav", "enter", "open", "?", "help", "q", "quit")
	case guard.ScreenCashier:
		return a.cashier.View(), a.cashier.helpKeys()
	case guard.ScreenNotAuthorized:
		return notAuthorizedView(a.wanted), helpBar("2", "catalog", "1", "dashboard", "L", "sign out", "q", "quit")
	}
	if l, ok := a.lists[a.screen]; ok {
		return l.View(), l.helpKeys()
	}
	return "", helpBar("q", "quit")
}

func notAuthorizedView(wanted guard.Screen) string {
	var b strings.Builder
	b.WriteString(errorStyle.Render("Not authorized") + "\n\n")
	fmt.Fprintf(&b, "%s\n", normalStyle.Render("Your account cannot open "+screenTitle(wanted)+"."))
	b.WriteString(dimStyle.Render("Ask an administrator for access, or sign in with another account."))
	return b.String()
}
