package tui

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/naveenspark/shelfdesk/pkg/client"
	"github.com/naveenspark/shelfdesk/pkg/domain"
)

type cashierProductsMsg struct {
	products []domain.Product
	err      error
}

type saleCreatedMsg struct {
	sale *domain.Sale
	err  error
}

type cashierFocus int

const (
	focusProducts cashierFocus = iota
	focusCart
	focusPaid
)

// cashierModel builds a cart and registers it as a sale.
type cashierModel struct {
	client    *client.Client
	products  []domain.Product
	query     string
	searching bool
	cursor    int
	cart      domain.Cart
	cartRow   int
	paid      string
	focus     cashierFocus
	submitted bool
	err       string
	statusMsg string
}

func newCashierModel(c *client.Client) cashierModel {
	return cashierModel{client: c}
}

func (m cashierModel) Init() tea.Cmd {
	c := m.client
	f := client.ProductFilter{Title: strings.TrimSpace(m.query), Size: pageSize}
	return func() tea.Msg {
		page, err := c.ListProducts(context.Background(), f)
		if err != nil {
			return cashierProductsMsg{err: fmt.Errorf("client.ListProducts: %w", err)}
		}
		return cashierProductsMsg{products: page.Content}
	}
}

// editing reports whether keystrokes go to a text input.
func (m cashierModel) editing() bool {
	return m.searching || m.focus == focusPaid
}

func (m cashierModel) Update(msg tea.Msg) (cashierModel, tea.Cmd) {
	switch msg := msg.(type) {
	case cashierProductsMsg:
		if msg.err != nil {
			m.err = client.Message(msg.err)
			return m, nil
		}
		m.err = ""
		m.products = msg.products
		if m.cursor >= len(m.products) {
			m.cursor = max(len(m.products)-1, 0)
		}
		return m, nil

	case saleCreatedMsg:
		m.submitted = false
		if msg.err != nil {
			m.err = client.Message(msg.err)
			return m, nil
		}
		m.err = ""
		m.statusMsg = fmt.Sprintf("sale #%d registered, change %s", msg.sale.ID, formatMoney(msg.sale.Change))
		m.cart = domain.Cart{}
		m.cartRow = 0
		m.paid = ""
		m.focus = focusProducts
		return m, m.Init()

	case tea.KeyMsg:
		if m.submitted {
			return m, nil
		}
		return m.updateKeys(msg)
	}
	return m, nil
}

func (m cashierModel) updateKeys(msg tea.KeyMsg) (cashierModel, tea.Cmd) {
	key := msg.String()
	if key != "ctrl+s" {
		m.statusMsg = ""
	}

	if m.searching {
		switch key {
		case "enter":
			m.searching = false
			m.cursor = 0
			return m, m.Init()
		case "esc":
			m.searching = false
		default:
			m.query = editRune(m.query, key)
		}
		return m, nil
	}

	switch key {
	case "ctrl+s":
		return m.checkout()
	case "tab":
		m.focus = (m.focus + 1) % 3
		return m, nil
	case "shift+tab":
		m.focus = (m.focus + 2) % 3
		return m, nil
	}

	switch m.focus {
	case focusPaid:
		switch key {
		case "esc", "enter":
			m.focus = focusCart
		default:
			if key == "backspace" || (len(key) == 1 && strings.ContainsAny(key, "0123456789.")) {
				m.paid = editRune(m.paid, key)
			}
		}
	case focusCart:
		switch key {
		case "j", "down":
			if m.cartRow < len(m.cart.Items)-1 {
				m.cartRow++
			}
		case "k", "up":
			if m.cartRow > 0 {
				m.cartRow--
			}
		case "+", "-":
			if m.cartRow < len(m.cart.Items) {
				it := m.cart.Items[m.cartRow]
				qty := it.Quantity + 1
				if key == "-" {
					qty = it.Quantity - 1
				}
				if err := m.cart.SetQuantity(it.ProductID, qty); errors.Is(err, domain.ErrStockExceeded) {
					m.err = fmt.Sprintf("only %d of %s in stock", it.Stock, truncStr(it.Title, 30))
				} else {
					m.err = ""
				}
			}
		case "x":
			if m.cartRow < len(m.cart.Items) {
				m.cart.Remove(m.cart.Items[m.cartRow].ProductID)
			}
		}
		m.cartRow = min(m.cartRow, max(len(m.cart.Items)-1, 0))
	default:
		switch key {
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
		case "a", "enter":
			if m.cursor < len(m.products) {
				p := m.products[m.cursor]
				switch err := m.cart.Add(p, 1); {
				case errors.Is(err, domain.ErrStockExceeded):
					m.err = fmt.Sprintf("only %d of %s in stock", p.Stock, truncStr(p.Title, 30))
				case err != nil:
					m.err = err.Error()
				default:
					m.err = ""
					m.statusMsg = "added " + truncStr(p.Title, 30)
				}
			}
		}
	}
	return m, nil
}

func (m cashierModel) checkout() (cashierModel, tea.Cmd) {
	paid, err := strconv.ParseFloat(strings.TrimSpace(m.paid), 64)
	if err != nil && len(m.cart.Items) > 0 {
		m.err = "enter the amount paid"
		m.focus = focusPaid
		return m, nil
	}
	req, err := m.cart.Checkout(paid)
	switch {
	case errors.Is(err, domain.ErrEmptyCart):
		m.err = "add at least one product"
		return m, nil
	case errors.Is(err, domain.ErrInsufficientPayment):
		m.err = fmt.Sprintf("amount paid is below the total of %s", formatMoney(m.cart.Total()))
		m.focus = focusPaid
		return m, nil
	case err != nil:
		m.err = err.Error()
		return m, nil
	}

	m.err = ""
	m.submitted = true
	c := m.client
	return m, func() tea.Msg {
		sale, err := c.CreateSale(context.Background(), req)
		return saleCreatedMsg{sale: sale, err: err}
	}
}

func (m cashierModel) helpKeys() string {
	switch {
	case m.searching:
		return helpBar("enter", "search", "esc", "cancel")
	case m.focus == focusPaid:
		return helpBar("0-9", "amount", "enter", "done", "ctrl+s", "checkout")
	case m.focus == focusCart:
		return helpBar("+/-", "qty", "x", "remove", "tab", "paid", "ctrl+s", "checkout")
	default:
		return helpBar("j/k", "nav", "/", "search", "a", "add", "tab", "cart", "ctrl+s", "checkout")
	}
}

func (m cashierModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Cashier") + "\n")
	if m.searching || m.query != "" {
		b.WriteString(renderInput("search", m.query, "title", m.searching) + "\n")
	}
	b.WriteString("\n")

	header := "Products"
	if m.focus == focusProducts {
		header = "> " + header
	}
	b.WriteString(sectionHeaderStyle.Render(header) + "\n")
	if len(m.products) == 0 {
		b.WriteString(dimStyle.Render("  no products") + "\n")
	}
	for i, p := range m.products {
		line := fmt.Sprintf("%s  %s  %s", padRight(p.Title, 36), padRight(formatMoney(p.Price), 11), stockLabel(p.Stock))
		if i == m.cursor && m.focus == focusProducts {
			b.WriteString(selectedRowBg.Render(selectedStyle.Render("> "+line)) + "\n")
		} else {
			b.WriteString(normalStyle.Render("  "+line) + "\n")
		}
	}

	header = "Cart"
	if m.focus == focusCart {
		header = "> " + header
	}
	b.WriteString("\n" + sectionHeaderStyle.Render(header) + "\n")
	if len(m.cart.Items) == 0 {
		b.WriteString(dimStyle.Render("  empty") + "\n")
	}
	for i, it := range m.cart.Items {
		line := fmt.Sprintf("%s  x%-3d %s", padRight(it.Title, 36), it.Quantity, formatMoney(it.Subtotal()))
		if i == m.cartRow && m.focus == focusCart {
			b.WriteString(selectedStyle.Render("> "+line) + "\n")
		} else {
			b.WriteString(normalStyle.Render("  "+line) + "\n")
		}
	}

	b.WriteString("\n" + metaStyle.Render("total ") + accentStyle.Render(formatMoney(m.cart.Total())) + "\n")
	b.WriteString(renderInput("paid", m.paid, "0.00", m.focus == focusPaid) + "\n")
	if paid, err := strconv.ParseFloat(m.paid, 64); err == nil && len(m.cart.Items) > 0 && paid >= m.cart.Total() {
		b.WriteString(metaStyle.Render("change ") + okStyle.Render(formatMoney(m.cart.Change(paid))) + "\n")
	}

	b.WriteString("\n")
	switch {
	case m.submitted:
		b.WriteString(dimStyle.Render("registering sale..."))
	case m.err != "":
		b.WriteString(errorStyle.Render(m.err))
	case m.statusMsg != "":
		b.WriteString(okStyle.Render(m.statusMsg))
	}
	return b.String()
}
