package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Thamsanqa-bit/penden-storefront/internal/api"
	"github.com/Thamsanqa-bit/penden-storefront/internal/checkout"
	"github.com/Thamsanqa-bit/penden-storefront/internal/domain"
)

// --- catalog ---

func (m Model) updateCatalog(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.page.Products)-1 {
			m.cursor++
		}
	case "n", "right":
		if m.page.Pagination.HasNext {
			m.loading = true
			return m, m.loadPageCmd(m.page.Pagination.Page+1, m.page.Category)
		}
	case "p", "left":
		if m.page.Pagination.HasPrevious {
			m.loading = true
			return m, m.loadPageCmd(m.page.Pagination.Page-1, m.page.Category)
		}
	case "f":
		m.categoryIdx = (m.categoryIdx + 1) % len(categories)
		m.loading = true
		m.cursor = 0
		return m, m.loadPageCmd(1, categories[m.categoryIdx])
	case "r":
		m.loading = true
		return m, m.loadPageCmd(m.page.Pagination.Page, m.page.Category)
	case "enter", "+", "a":
		if p, ok := m.selectedProduct(); ok && !m.cart.InFlight(p.ID) {
			return m, m.addLineCmd(p.ID)
		}
	case "-", "x":
		if p, ok := m.selectedProduct(); ok && m.cart.QuantityOf(p.ID) > 0 && !m.cart.InFlight(p.ID) {
			return m, m.removeLineCmd(p.ID)
		}
	case "c":
		m.view = viewCart
		m.loading = true
		return m, m.refreshCartCmd()
	case "l":
		m.view = viewAuth
		m.registerMode = false
		m.resetAuthInputs()
	}
	return m, nil
}

func (m Model) selectedProduct() (domain.Product, bool) {
	if m.cursor < 0 || m.cursor >= len(m.page.Products) {
		return domain.Product{}, false
	}
	return m.page.Products[m.cursor], true
}

func (m Model) viewCatalog() string {
	var b strings.Builder
	title := "PenDen.com"
	if cat := categories[m.categoryIdx]; cat != "" {
		title += " - " + cat
	}
	b.WriteString(m.styles.Title.Render(title) + "\n")
	b.WriteString(m.banner())

	if m.loading {
		b.WriteString(m.spin.View() + " Loading products...\n")
		return b.String()
	}
	if len(m.page.Products) == 0 {
		b.WriteString(m.styles.Dim.Render("No products found.") + "\n")
	}

	for i, p := range m.page.Products {
		cursor := "  "
		line := fmt.Sprintf("%-32s R%s", p.Name, p.Price.StringFixed(2))
		if qty := m.cart.QuantityOf(p.ID); qty > 0 {
			line += m.styles.Badge.Render(fmt.Sprintf("  [%d in cart]", qty))
		}
		if m.cart.InFlight(p.ID) {
			line += " " + m.spin.View()
		}
		if i == m.cursor {
			cursor = "> "
			line = m.styles.Selected.Render(line)
		}
		b.WriteString(cursor + line + "\n")
	}

	pg := m.page.Pagination
	b.WriteString("\n" + m.styles.Dim.Render(fmt.Sprintf("Page %d/%d", pg.Page, pg.TotalPages)) + "\n")
	b.WriteString(m.styles.Help.Render("enter/+ add - +/- qty - n/p page - f filter - c cart - l sign in - q quit"))
	return b.String()
}

// --- cart ---

func (m Model) updateCart(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	snapshot := m.cart.Snapshot()
	switch msg.String() {
	case "q", "esc":
		m.view = viewCatalog
	case "up", "k":
		if m.cartCursor > 0 {
			m.cartCursor--
		}
	case "down", "j":
		if m.cartCursor < len(snapshot.Lines)-1 {
			m.cartCursor++
		}
	case "+", "a":
		if line, ok := m.selectedLine(snapshot); ok && !m.cart.InFlight(line.ProductID) {
			return m, m.addLineCmd(line.ProductID)
		}
	case "-", "x":
		if line, ok := m.selectedLine(snapshot); ok && !m.cart.InFlight(line.ProductID) {
			return m, m.removeLineCmd(line.ProductID)
		}
	case "d":
		if line, ok := m.selectedLine(snapshot); ok && !m.cart.InFlight(line.ProductID) {
			return m, m.removeAllCmd(line.ProductID)
		}
	case "r":
		m.loading = true
		return m, m.refreshCartCmd()
	case "enter":
		if snapshot.IsEmpty() {
			return m.withError("Your cart is empty! Please add some products before checkout.")
		}
		m.view = viewCheckout
		m.flow = checkout.NewFlow(m.client, m.cart, m.log)
		m.paymentURL = ""
		m.resetAddrInputs()
	}
	return m, nil
}

func (m Model) selectedLine(snapshot domain.Cart) (domain.CartLine, bool) {
	if m.cartCursor < 0 || m.cartCursor >= len(snapshot.Lines) {
		return domain.CartLine{}, false
	}
	return snapshot.Lines[m.cartCursor], true
}

func (m Model) viewCart() string {
	var b strings.Builder
	b.WriteString(m.styles.Title.Render("Your Cart") + "\n")
	b.WriteString(m.banner())

	if m.loading {
		b.WriteString(m.spin.View() + " Loading cart...\n")
		return b.String()
	}

	snapshot := m.cart.Snapshot()
	if snapshot.IsEmpty() {
		b.WriteString(m.styles.Dim.Render("Your cart is empty.") + "\n\n")
		b.WriteString(m.styles.Help.Render("esc back - q quit"))
		return b.String()
	}

	for i, line := range snapshot.Lines {
		cursor := "  "
		row := fmt.Sprintf("%-32s %3d x R%-9s = R%s",
			line.Name, line.Quantity, line.UnitPrice.StringFixed(2), line.Subtotal().StringFixed(2))
		if m.cart.InFlight(line.ProductID) {
			row += " " + m.spin.View()
		}
		if i == m.cartCursor {
			cursor = "> "
			row = m.styles.Selected.Render(row)
		}
		b.WriteString(cursor + row + "\n")
	}

	b.WriteString("\n" + m.styles.Total.Render(
		fmt.Sprintf("Total: R%s (%d items)", snapshot.TotalPrice.StringFixed(2), snapshot.TotalItems)) + "\n")
	b.WriteString(m.styles.Help.Render("+/- qty - d remove line - enter checkout - r refresh - esc back"))
	return b.String()
}

// --- checkout ---

var addrFieldLabels = []string{"Full name", "Phone", "Street", "City", "Province", "Postal code", "Country", "Email (optional)"}

func (m *Model) resetAddrInputs() {
	inputs := make([]textinput.Model, len(addrFieldLabels))
	for i, label := range addrFieldLabels {
		ti := textinput.New()
		ti.Placeholder = label
		ti.CharLimit = 100
		inputs[i] = ti
	}
	inputs[0].Focus()
	m.addrInputs = inputs
	m.addrFocus = 0
}

func (m Model) addressFromInputs() domain.Address {
	return domain.Address{
		FullName:   m.addrInputs[0].Value(),
		Phone:      m.addrInputs[1].Value(),
		Street:     m.addrInputs[2].Value(),
		City:       m.addrInputs[3].Value(),
		Province:   m.addrInputs[4].Value(),
		PostalCode: m.addrInputs[5].Value(),
		Country:    m.addrInputs[6].Value(),
		Email:      m.addrInputs[7].Value(),
	}
}

func (m Model) updateCheckout(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	confirmed := m.flow != nil && m.flow.Status() == domain.CheckoutStatusConfirmed

	switch msg.String() {
	case "esc":
		m.view = viewCart
		return m, m.refreshCartCmd()
	case "tab", "down":
		if !confirmed {
			return m.focusAddr(m.addrFocus + 1), nil
		}
	case "shift+tab", "up":
		if !confirmed {
			return m.focusAddr(m.addrFocus - 1), nil
		}
	case "enter":
		if confirmed {
			if m.paymentURL == "" && !m.loading {
				m.loading = true
				return m, m.payCmd()
			}
			return m, nil
		}
		if m.addrFocus < len(m.addrInputs)-1 {
			return m.focusAddr(m.addrFocus + 1), nil
		}
		// Last field: validate locally, then submit.
		addr := m.addressFromInputs()
		if errs := addr.Validate(); len(errs) > 0 {
			return m.withError((&checkout.ValidationError{Errors: errs}).Error())
		}
		m.loading = true
		return m, m.confirmCmd(addr)
	case "p":
		if confirmed && !m.loading {
			m.loading = true
			return m, m.payCmd()
		}
	}

	if !confirmed {
		var cmd tea.Cmd
		m.addrInputs[m.addrFocus], cmd = m.addrInputs[m.addrFocus].Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) focusAddr(next int) Model {
	if next < 0 {
		next = len(m.addrInputs) - 1
	}
	if next >= len(m.addrInputs) {
		next = 0
	}
	m.addrInputs[m.addrFocus].Blur()
	m.addrInputs[next].Focus()
	m.addrFocus = next
	return m
}

func (m Model) viewCheckout() string {
	var b strings.Builder
	b.WriteString(m.styles.Title.Render("Checkout") + "\n")
	b.WriteString(m.banner())

	snapshot := m.cart.Snapshot()
	for _, line := range snapshot.Lines {
		b.WriteString(m.styles.Dim.Render(fmt.Sprintf("  %s x%d - R%s",
			line.Name, line.Quantity, line.Subtotal().StringFixed(2))) + "\n")
	}
	b.WriteString(m.styles.Total.Render(
		fmt.Sprintf("  Total: R%s", snapshot.TotalPrice.StringFixed(2))) + "\n\n")

	if m.flow != nil && m.flow.Status() == domain.CheckoutStatusConfirmed {
		order := m.flow.Order()
		b.WriteString(fmt.Sprintf("Order %s confirmed.\n\n", order.ID))
		if m.loading {
			b.WriteString(m.spin.View() + " Contacting payment gateway...\n")
		} else if m.paymentURL != "" {
			b.WriteString("Complete payment at:\n  " + m.paymentURL + "\n")
		} else {
			b.WriteString(m.styles.Help.Render("p request payment link - esc back") + "\n")
		}
		return b.String()
	}

	b.WriteString("Shipping address:\n")
	for i, ti := range m.addrInputs {
		marker := "  "
		if i == m.addrFocus {
			marker = "> "
		}
		b.WriteString(marker + m.styles.Field.Render(ti.View()) + "\n")
	}
	if m.loading {
		b.WriteString("\n" + m.spin.View() + " Confirming order...\n")
	}
	b.WriteString("\n" + m.styles.Help.Render("tab next field - enter confirm - esc back"))
	return b.String()
}

// --- auth ---

func (m *Model) resetAuthInputs() {
	labels := []string{"Username", "Password"}
	if m.registerMode {
		labels = []string{"Username", "Email", "Phone", "Address", "Password"}
	}
	inputs := make([]textinput.Model, len(labels))
	for i, label := range labels {
		ti := textinput.New()
		ti.Placeholder = label
		ti.CharLimit = 100
		if label == "Password" {
			ti.EchoMode = textinput.EchoPassword
		}
		inputs[i] = ti
	}
	inputs[0].Focus()
	m.authInputs = inputs
	m.authFocus = 0
}

func (m Model) updateAuth(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.view = viewCatalog
		return m, nil
	case "ctrl+r":
		m.registerMode = !m.registerMode
		m.resetAuthInputs()
		return m, nil
	case "tab", "down":
		return m.focusAuth(m.authFocus + 1), nil
	case "shift+tab", "up":
		return m.focusAuth(m.authFocus - 1), nil
	case "enter":
		if m.authFocus < len(m.authInputs)-1 {
			return m.focusAuth(m.authFocus + 1), nil
		}
		m.loading = true
		if m.registerMode {
			return m, m.registerCmd(api.RegisterRequest{
				Username: m.authInputs[0].Value(),
				Email:    m.authInputs[1].Value(),
				Phone:    m.authInputs[2].Value(),
				Address:  m.authInputs[3].Value(),
				Password: m.authInputs[4].Value(),
			})
		}
		return m, m.loginCmd(m.authInputs[0].Value(), m.authInputs[1].Value())
	}

	var cmd tea.Cmd
	m.authInputs[m.authFocus], cmd = m.authInputs[m.authFocus].Update(msg)
	return m, cmd
}

func (m Model) focusAuth(next int) Model {
	if next < 0 {
		next = len(m.authInputs) - 1
	}
	if next >= len(m.authInputs) {
		next = 0
	}
	m.authInputs[m.authFocus].Blur()
	m.authInputs[next].Focus()
	m.authFocus = next
	return m
}

func (m Model) viewAuth() string {
	var b strings.Builder
	title := "Sign In"
	if m.registerMode {
		title = "Register"
	}
	b.WriteString(m.styles.Title.Render(title) + "\n")
	b.WriteString(m.banner())

	for i, ti := range m.authInputs {
		marker := "  "
		if i == m.authFocus {
			marker = "> "
		}
		b.WriteString(marker + m.styles.Field.Render(ti.View()) + "\n")
	}
	if m.loading {
		b.WriteString("\n" + m.spin.View() + " Working...\n")
	}

	mode := "ctrl+r switch to register"
	if m.registerMode {
		mode = "ctrl+r switch to sign in"
	}
	b.WriteString("\n" + m.styles.Help.Render("enter submit - "+mode+" - esc back"))
	return b.String()
}
