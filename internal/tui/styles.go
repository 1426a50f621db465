package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/naveenspark/shelfdesk/pkg/domain"
)

var (
	// Base styles, shelfdesk paper palette
	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#8a8f98"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#f2efe6")).
			Bold(true)

	normalStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#c9c5b9"))

	metaStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#5c6068"))

	// Help bar
	helpKeyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#8a8f98"))

	helpLabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#5c6068"))

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#e0a458")).
			Bold(true)

	accentStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#e0a458"))

	okStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#7fb069"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#c8553d"))

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#f0c808"))

	sectionHeaderStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#8a8f98")).
				Bold(true)

	inputPromptStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#e0a458")).
				Bold(true)

	inputPlaceholderStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#3c4048"))

	// Selected row background
	selectedRowBg = lipgloss.NewStyle().Background(lipgloss.Color("#2a2620"))

	roleColors = map[string]lipgloss.Color{
		domain.RoleAdministrator: lipgloss.Color("#e0a458"),
		domain.RoleTeacher:       lipgloss.Color("#7fb069"),
		domain.RoleStudent:       lipgloss.Color("#6c9bd2"),
		domain.RoleGuardian:      lipgloss.Color("#b48ead"),
	}
)

// RoleStyle returns the badge style for a role label.
func RoleStyle(role string) lipgloss.Style {
	if c, ok := roleColors[role]; ok {
		return lipgloss.NewStyle().Foreground(c)
	}
	return dimStyle
}

// helpEntry renders a single "key label" pair for help bars.
func helpEntry(key, label string) string {
	return helpKeyStyle.Render(key) + " " + helpLabelStyle.Render(label)
}

// helpBar joins pairs of key/label into one help line.
func helpBar(pairs ...string) string {
	parts := make([]string, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		parts = append(parts, helpEntry(pairs[i], pairs[i+1]))
	}
	return " " + strings.Join(parts, "  ")
}

// helpView renders the key and command reference overlay.
func helpView(apiURL string) string {
	cmdStyle := lipgloss.NewStyle().Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("245"))

	keys := []struct{ key, desc string }{
		{"1", "Dashboard"},
		{"2", "Catalog"},
		{"3-8", "Products, authors, categories, editorials, stock, sales"},
		{"9", "Cashier"},
		{"0", "Admin"},
		{"U / R", "Users / roles"},
		{"i", "Sign in"},
		{"L", "Sign out"},
		{"r", "Reload the current screen"},
	}
	commands := []struct{ cmd, desc string }{
		{"shelfdesk", "Open the terminal client"},
		{"shelfdesk login", "Sign in from the shell"},
		{"shelfdesk logout", "Clear the stored session"},
		{"shelfdesk whoami", "Show the current identity"},
		{"shelfdesk report", "Print dashboard reports"},
	}

	var b strings.Builder
	fmt.Fprintf(&b, "\n  %s\n  %s\n\n", titleStyle.Render("S H E L F D E S K"), metaStyle.Render(apiURL))
	fmt.Fprintf(&b, "  %s\n", sectionHeaderStyle.Render("Keys"))
	for _, k := range keys {
		fmt.Fprintf(&b, "    %s  %s\n", cmdStyle.Render(fmt.Sprintf("%-8s", k.key)), descStyle.Render(k.desc))
	}
	fmt.Fprintf(&b, "\n  %s\n", sectionHeaderStyle.Render("Commands"))
	for _, c := range commands {
		fmt.Fprintf(&b, "    %s  %s\n", cmdStyle.Render(fmt.Sprintf("%-18s", c.cmd)), descStyle.Render(c.desc))
	}
	return b.String()
}
