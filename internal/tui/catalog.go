package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/naveenspark/shelfdesk/internal/browser"
	"github.com/naveenspark/shelfdesk/pkg/client"
	"github.com/naveenspark/shelfdesk/pkg/domain"
)

type catalogLoadedMsg struct {
	page *domain.Page[domain.Product]
	err  error
}

// catalogModel browses the public catalog. It needs no identity.
type catalogModel struct {
	client    *client.Client
	products  []domain.Product
	page      int
	lastPage  bool
	total     int
	cursor    int
	query     string
	searching bool
	loading   bool
	err       string
	statusMsg string
	height    int
}

func newCatalogModel(c *client.Client) catalogModel {
	return catalogModel{client: c}
}

func (m catalogModel) Init() tea.Cmd {
	return m.load()
}

func (m catalogModel) load() tea.Cmd {
	c := m.client
	f := client.ProductFilter{Title: strings.TrimSpace(m.query), Page: m.page, Size: pageSize}
	return func() tea.Msg {
		page, err := c.ListPublicProducts(context.Background(), f)
		if err != nil {
			return catalogLoadedMsg{err: fmt.Errorf("client.ListPublicProducts: %w", err)}
		}
		return catalogLoadedMsg{page: page}
	}
}

func (m catalogModel) selected() (domain.Product, bool) {
	if m.cursor < 0 || m.cursor >= len(m.products) {
		return domain.Product{}, false
	}
	return m.products[m.cursor], true
}

func (m catalogModel) Update(msg tea.Msg) (catalogModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.height = msg.Height
		return m, nil

	case catalogLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = client.Message(msg.err)
			return m, nil
		}
		m.err = ""
		m.products = msg.page.Content
		m.lastPage = msg.page.Last || msg.page.TotalPages <= m.page+1
		m.total = msg.page.TotalElements
		if m.cursor >= len(m.products) {
			m.cursor = max(len(m.products)-1, 0)
		}
		return m, nil

	case tea.KeyMsg:
		if m.searching {
			switch msg.String() {
			case "enter":
				m.searching = false
				m.page = 0
				m.cursor = 0
				m.loading = true
				return m, m.load()
			case "esc":
				m.searching = false
			default:
				m.query = editRune(m.query, msg.String())
			}
			return m, nil
		}
		return m.updateKeys(msg)
	}
	return m, nil
}

func (m catalogModel) updateKeys(msg tea.KeyMsg) (catalogModel, tea.Cmd) {
	m.statusMsg = ""
	switch msg.String() {
	case "j", "down":
		if m.cursor < len(m.products)-1 {
			m.cursor++
		}
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
	case "/":
		m.searching = true
	case "n", "right":
		if !m.lastPage {
			m.page++
			m.cursor = 0
			m.loading = true
			return m, m.load()
		}
	case "p", "left":
		if m.page > 0 {
			m.page--
			m.cursor = 0
			m.loading = true
			return m, m.load()
		}
	case "r":
		m.loading = true
		return m, m.load()
	case "c":
		if p, ok := m.selected(); ok {
			code := p.ISBN
			if code == "" {
				code = p.Code
			}
			if err := clipboard.WriteAll(code); err != nil {
				m.statusMsg = "copy failed"
			} else {
				m.statusMsg = "copied " + code
			}
		}
	case "o":
		if p, ok := m.selected(); ok && p.ImageURL != "" {
			if err := browser.Open(p.ImageURL); err != nil {
				m.statusMsg = "could not open the cover image"
			}
		}
	}
	return m, nil
}

func (m catalogModel) helpKeys() string {
	if m.searching {
		return helpBar("enter", "search", "esc", "cancel")
	}
	return helpBar("j/k", "nav", "/", "search", "n/p", "page", "c", "copy isbn", "o", "cover", "?", "help")
}

func (m catalogModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Catalog"))
	b.WriteString(metaStyle.Render(fmt.Sprintf("  page %d · %d titles", m.page+1, m.total)) + "\n")
	if m.searching || m.query != "" {
		b.WriteString(renderInput("title", m.query, "filter by title", m.searching) + "\n")
	}
	b.WriteString("\n")

	switch {
	case m.loading && len(m.products) == 0:
		b.WriteString(dimStyle.Render("loading catalog..."))
		return b.String()
	case m.err != "":
		b.WriteString(errorStyle.Render(m.err))
		return b.String()
	case len(m.products) == 0:
		b.WriteString(dimStyle.Render("no products match"))
		return b.String()
	}

	for i, p := range m.products {
		author := ""
		if p.Author != nil {
			author = p.Author.Name
		}
		line := fmt.Sprintf("%s  %s  %s  %s",
			padRight(p.Title, 36), padRight(author, 20), padRight(formatMoney(p.Price), 11), stockLabel(p.Stock))
		if i == m.cursor {
			b.WriteString(selectedRowBg.Render(selectedStyle.Render("> " + line)))
		} else {
			b.WriteString(normalStyle.Render("  " + line))
		}
		b.WriteString("\n")
	}

	if p, ok := m.selected(); ok {
		b.WriteString("\n" + sectionHeaderStyle.Render("Details") + "\n")
		if p.ISBN != "" {
			b.WriteString(metaStyle.Render("isbn ") + p.ISBN + "\n")
		}
		if p.Category != nil {
			b.WriteString(metaStyle.Render("category ") + p.Category.Name + "\n")
		}
		if p.Editorial != nil {
			b.WriteString(metaStyle.Render("editorial ") + p.Editorial.Name + "\n")
		}
		if p.Description != "" {
			b.WriteString(dimStyle.Render(truncStr(p.Description, 200)) + "\n")
		}
	}
	if m.statusMsg != "" {
		b.WriteString("\n" + okStyle.Render(m.statusMsg))
	}
	return b.String()
}

func stockLabel(n int) string {
	switch {
	case n <= 0:
		return errorStyle.Render("out of stock")
	case n < 5:
		return warnStyle.Render(fmt.Sprintf("%d left", n))
	default:
		return dimStyle.Render(fmt.Sprintf("%d in stock", n))
	}
}
