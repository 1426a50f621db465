package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/naveenspark/shelfdesk/internal/guard"
	"github.com/naveenspark/shelfdesk/pkg/client"
)

type listLoadedMsg struct {
	screen guard.Screen
	rows   []row
	err    error
}

type listActionMsg struct {
	screen guard.Screen
	status string
	err    error
}

// listModel renders one admin resource as a table.
type listModel struct {
	client     *client.Client
	screen     guard.Screen
	res        resource
	rows       []row
	cursor     int
	loading    bool
	confirming bool
	err        string
	statusMsg  string
	height     int
}

func newListModel(c *client.Client, s guard.Screen, res resource) listModel {
	return listModel{client: c, screen: s, res: res}
}

func (m listModel) start() (listModel, tea.Cmd) {
	m.loading = true
	m.confirming = false
	return m, m.load()
}

func (m listModel) load() tea.Cmd {
	c, s, load := m.client, m.screen, m.res.load
	return func() tea.Msg {
		rows, err := load(context.Background(), c)
		return listLoadedMsg{screen: s, rows: rows, err: err}
	}
}

func (m listModel) selected() (row, bool) {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return row{}, false
	}
	return m.rows[m.cursor], true
}

func (m listModel) Update(msg tea.Msg) (listModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.height = msg.Height
		return m, nil

	case listLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = client.Message(msg.err)
			return m, nil
		}
		m.err = ""
		m.rows = msg.rows
		if m.cursor >= len(m.rows) {
			m.cursor = max(len(m.rows)-1, 0)
		}
		return m, nil

	case listActionMsg:
		if msg.err != nil {
			m.statusMsg = ""
			m.err = client.Message(msg.err)
			return m, nil
		}
		m.err = ""
		m.statusMsg = msg.status
		m.loading = true
		return m, m.load()

	case tea.KeyMsg:
		return m.updateKeys(msg)
	}
	return m, nil
}

func (m listModel) updateKeys(msg tea.KeyMsg) (listModel, tea.Cmd) {
	if m.confirming {
		m.confirming = false
		if msg.String() == "y" {
			return m, m.remove()
		}
		m.statusMsg = "cancelled"
		return m, nil
	}

	switch msg.String() {
	case "j", "down":
		if m.cursor < len(m.rows)-1 {
			m.cursor++
		}
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
	case "g":
		m.cursor = 0
	case "G":
		m.cursor = max(len(m.rows)-1, 0)
	case "r":
		return m.start()
	case "d":
		r, ok := m.selected()
		if !ok || m.res.remove == nil {
			return m, nil
		}
		if r.protected {
			m.statusMsg = "built-in records cannot be deleted"
			return m, nil
		}
		m.confirming = true
		m.statusMsg = ""
	case "x":
		r, ok := m.selected()
		if !ok || m.res.toggle == nil {
			return m, nil
		}
		return m, m.toggle(r)
	}
	return m, nil
}

func (m listModel) remove() tea.Cmd {
	r, ok := m.selected()
	if !ok {
		return nil
	}
	c, s, remove := m.client, m.screen, m.res.remove
	return func() tea.Msg {
		if err := remove(c, context.Background(), r.id); err != nil {
			return listActionMsg{screen: s, err: err}
		}
		return listActionMsg{screen: s, status: fmt.Sprintf("deleted #%d", r.id)}
	}
}

func (m listModel) toggle(r row) tea.Cmd {
	c, s, toggle := m.client, m.screen, m.res.toggle
	return func() tea.Msg {
		if err := toggle(c, context.Background(), r.id, !r.active); err != nil {
			return listActionMsg{screen: s, err: err}
		}
		state := "deactivated"
		if !r.active {
			state = "activated"
		}
		return listActionMsg{screen: s, status: fmt.Sprintf("%s #%d", state, r.id)}
	}
}

func (m listModel) helpKeys() string {
	if m.confirming {
		return helpBar("y", "confirm delete", "any", "cancel")
	}
	pairs := []string{"j/k", "nav", "r", "reload"}
	if m.res.remove != nil {
		pairs = append(pairs, "d", "delete")
	}
	if m.res.toggle != nil {
		pairs = append(pairs, "x", "toggle active")
	}
	return helpBar(append(pairs, "?", "help")...)
}

func (m listModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(m.res.title))
	b.WriteString(metaStyle.Render(fmt.Sprintf("  %d records", len(m.rows))) + "\n\n")

	var header strings.Builder
	for _, col := range m.res.columns {
		header.WriteString(padRight(col.title, col.width) + "  ")
	}
	b.WriteString("  " + sectionHeaderStyle.Render(strings.TrimRight(header.String(), " ")) + "\n")

	switch {
	case m.loading && len(m.rows) == 0:
		b.WriteString(dimStyle.Render("  loading...") + "\n")
	case m.err != "" && len(m.rows) == 0:
	case len(m.rows) == 0:
		b.WriteString(dimStyle.Render("  nothing here yet") + "\n")
	}

	visible := m.rows
	start := 0
	if m.height > 6 && len(m.rows) > m.height-6 {
		limit := m.height - 6
		start = min(max(m.cursor-limit/2, 0), len(m.rows)-limit)
		visible = m.rows[start : start+limit]
	}
	for i, r := range visible {
		var line strings.Builder
		for j, col := range m.res.columns {
			cell := ""
			if j < len(r.cells) {
				cell = r.cells[j]
			}
			line.WriteString(padRight(cell, col.width) + "  ")
		}
		text := strings.TrimRight(line.String(), " ")
		if start+i == m.cursor {
			b.WriteString(selectedRowBg.Render(selectedStyle.Render("> " + text)))
		} else if !r.active && m.res.toggle != nil {
			b.WriteString(dimStyle.Render("  " + text))
		} else {
			b.WriteString(normalStyle.Render("  " + text))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	switch {
	case m.confirming:
		if r, ok := m.selected(); ok {
			b.WriteString(warnStyle.Render(fmt.Sprintf("delete #%d? press y to confirm", r.id)))
		}
	case m.err != "":
		b.WriteString(errorStyle.Render(m.err))
	case m.statusMsg != "":
		b.WriteString(okStyle.Render(m.statusMsg))
	}
	return b.String()
}
