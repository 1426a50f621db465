package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/naveenspark/shelfdesk/pkg/client"
	"github.com/naveenspark/shelfdesk/pkg/domain"
)

const (
	topSoldLimit      = 5
	lowStockThreshold = 5
)

type topSoldLoadedMsg struct {
	rows []domain.TopSoldProduct
	err  error
}

type lowStockLoadedMsg struct {
	rows []domain.LowStockProduct
	err  error
}

// dashboardModel shows the home reports for staff.
type dashboardModel struct {
	client      *client.Client
	identity    *domain.Person
	topSold     []domain.TopSoldProduct
	lowStock    []domain.LowStockProduct
	topSoldErr  string
	lowStockErr string
	loading     int
}

func newDashboardModel(c *client.Client) dashboardModel {
	return dashboardModel{client: c}
}

func (m dashboardModel) Init() tea.Cmd {
	c := m.client
	topSold := func() tea.Msg {
		rows, err := c.TopSoldProducts(context.Background(), topSoldLimit, client.ReportRange{})
		if err != nil {
			return topSoldLoadedMsg{err: fmt.Errorf("client.TopSoldProducts: %w", err)}
		}
		return topSoldLoadedMsg{rows: rows}
	}
	lowStock := func() tea.Msg {
		rows, err := c.LowStockProducts(context.Background(), lowStockThreshold)
		if err != nil {
			return lowStockLoadedMsg{err: fmt.Errorf("client.LowStockProducts: %w", err)}
		}
		return lowStockLoadedMsg{rows: rows}
	}
	return tea.Batch(topSold, lowStock)
}

// start marks both reports as loading and returns the fetch command.
func (m dashboardModel) start() (dashboardModel, tea.Cmd) {
	m.loading = 2
	return m, m.Init()
}

func (m dashboardModel) Update(msg tea.Msg) (dashboardModel, tea.Cmd) {
	switch msg := msg.(type) {
	case topSoldLoadedMsg:
		m.loading = max(m.loading-1, 0)
		m.topSoldErr = ""
		if msg.err != nil {
			m.topSoldErr = client.Message(msg.err)
		} else {
			m.topSold = msg.rows
		}
	case lowStockLoadedMsg:
		m.loading = max(m.loading-1, 0)
		m.lowStockErr = ""
		if msg.err != nil {
			m.lowStockErr = client.Message(msg.err)
		} else {
			m.lowStock = msg.rows
		}
	case tea.KeyMsg:
		if msg.String() == "r" {
			return m.start()
		}
	}
	return m, nil
}

func (m dashboardModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Dashboard"))
	if m.identity != nil {
		name := m.identity.FullName()
		role := ""
		if m.identity.User != nil {
			if name == "" {
				name = m.identity.User.Username
			}
			role = m.identity.User.Role
		}
		b.WriteString("  " + normalStyle.Render("welcome, "+name) + "  " + RoleStyle(role).Render(role))
	}
	b.WriteString("\n\n")

	b.WriteString(sectionHeaderStyle.Render("Top sellers") + "\n")
	switch {
	case m.topSoldErr != "":
		b.WriteString(errorStyle.Render(m.topSoldErr) + "\n")
	case len(m.topSold) == 0 && m.loading > 0:
		b.WriteString(dimStyle.Render("loading...") + "\n")
	case len(m.topSold) == 0:
		b.WriteString(dimStyle.Render("no sales yet") + "\n")
	default:
		most := m.topSold[0].TotalSold
		for i, r := range m.topSold {
			fmt.Fprintf(&b, "%s %s %s %s\n",
				metaStyle.Render(fmt.Sprintf("%d.", i+1)),
				padRight(r.Title, 36),
				accentStyle.Render(bar(r.TotalSold, most, 20)),
				dimStyle.Render(fmt.Sprintf("%d sold", r.TotalSold)))
		}
	}

	b.WriteString("\n" + sectionHeaderStyle.Render(fmt.Sprintf("Low stock (under %d)", lowStockThreshold)) + "\n")
	switch {
	case m.lowStockErr != "":
		b.WriteString(errorStyle.Render(m.lowStockErr) + "\n")
	case len(m.lowStock) == 0 && m.loading > 0:
		b.WriteString(dimStyle.Render("loading...") + "\n")
	case len(m.lowStock) == 0:
		b.WriteString(okStyle.Render("all products are stocked") + "\n")
	default:
		for _, r := range m.lowStock {
			fmt.Fprintf(&b, "  %s %s\n", padRight(r.Title, 40), stockLabel(r.Stock))
		}
	}
	return b.String()
}

// bar renders a proportional bar of at most width cells.
func bar(v, most, width int) string {
	if most <= 0 || v <= 0 {
		return strings.Repeat(" ", width)
	}
	n := min(max(v*width/most, 1), width)
	return strings.Repeat("█", n) + strings.Repeat(" ", width-n)
}
