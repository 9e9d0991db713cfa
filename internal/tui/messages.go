package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Thamsanqa-bit/penden-storefront/internal/api"
	"github.com/Thamsanqa-bit/penden-storefront/internal/catalog"
	"github.com/Thamsanqa-bit/penden-storefront/internal/domain"
)

// How long transient banners stay on screen.
const statusTTL = 4 * time.Second

type pageLoadedMsg struct {
	page catalog.Page
	err  error
}

type cartRefreshedMsg struct {
	cart domain.Cart
	err  error
}

type lineMutatedMsg struct {
	productID int64
	err       error
}

type authDoneMsg struct {
	username string
	err      error
}

type orderConfirmedMsg struct {
	order domain.Order
	err   error
}

type paymentReadyMsg struct {
	url string
	err error
}

// statusExpiredMsg clears the banner, but only when seq still matches: a
// newer banner must not be wiped by an older banner's timer.
type statusExpiredMsg struct {
	seq int
}

func (m Model) loadPageCmd(page int, category string) tea.Cmd {
	return func() tea.Msg {
		p, err := m.browser.LoadPage(context.Background(), page, category)
		return pageLoadedMsg{page: p, err: err}
	}
}

func (m Model) refreshCartCmd() tea.Cmd {
	return func() tea.Msg {
		cart, err := m.cart.Load(context.Background())
		return cartRefreshedMsg{cart: cart, err: err}
	}
}

func (m Model) addLineCmd(productID int64) tea.Cmd {
	return func() tea.Msg {
		err := m.cart.AddLine(context.Background(), productID, 1)
		return lineMutatedMsg{productID: productID, err: err}
	}
}

func (m Model) removeLineCmd(productID int64) tea.Cmd {
	return func() tea.Msg {
		err := m.cart.RemoveLine(context.Background(), productID, 1)
		return lineMutatedMsg{productID: productID, err: err}
	}
}

func (m Model) removeAllCmd(productID int64) tea.Cmd {
	return func() tea.Msg {
		err := m.cart.RemoveAll(context.Background(), productID)
		return lineMutatedMsg{productID: productID, err: err}
	}
}

func (m Model) loginCmd(username, password string) tea.Cmd {
	return func() tea.Msg {
		err := m.gate.Login(context.Background(), username, password)
		return authDoneMsg{username: username, err: err}
	}
}

func (m Model) registerCmd(req api.RegisterRequest) tea.Cmd {
	return func() tea.Msg {
		err := m.gate.Register(context.Background(), req)
		return authDoneMsg{username: req.Username, err: err}
	}
}

func (m Model) confirmCmd(addr domain.Address) tea.Cmd {
	flow := m.flow
	return func() tea.Msg {
		order, err := flow.Confirm(context.Background(), addr)
		return orderConfirmedMsg{order: order, err: err}
	}
}

func (m Model) payCmd() tea.Cmd {
	flow := m.flow
	return func() tea.Msg {
		url, err := flow.Pay(context.Background())
		return paymentReadyMsg{url: url, err: err}
	}
}

func statusExpireCmd(seq int) tea.Cmd {
	return tea.Tick(statusTTL, func(time.Time) tea.Msg {
		return statusExpiredMsg{seq: seq}
	})
}
