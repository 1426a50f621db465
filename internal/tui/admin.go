package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/naveenspark/shelfdesk/internal/guard"
)

// navigateMsg asks the App to open a screen through the guard.
type navigateMsg struct {
	screen guard.Screen
}

// adminModel is the administrator's menu of every screen they may open.
type adminModel struct {
	entries []guard.Screen
	cursor  int
}

func (m adminModel) withEntries(entries []guard.Screen) adminModel {
	m.entries = entries
	m.cursor = min(m.cursor, max(len(entries)-1, 0))
	return m
}

func (m adminModel) Update(msg tea.Msg) (adminModel, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "j", "down":
		if m.cursor < len(m.entries)-1 {
			m.cursor++
		}
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
	case "enter":
		if m.cursor < len(m.entries) {
			s := m.entries[m.cursor]
			return m, func() tea.Msg { return navigateMsg{screen: s} }
		}
	}
	return m, nil
}

func (m adminModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Administration") + "\n\n")
	for i, s := range m.entries {
		label := padRight(screenTitle(s), 20) + metaStyle.Render(screenKey(s))
		if i == m.cursor {
			b.WriteString(selectedStyle.Render("> "+label) + "\n")
		} else {
			b.WriteString(normalStyle.Render("  "+label) + "\n")
		}
	}
	return b.String()
}
