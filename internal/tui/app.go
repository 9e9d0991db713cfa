// Package tui is the interactive shop: catalog browsing, cart editing,
// sign-in, and the two-step checkout, all against the live backend through
// the same managers the CLI commands use.
package tui

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/Thamsanqa-bit/penden-storefront/internal/api"
	"github.com/Thamsanqa-bit/penden-storefront/internal/auth"
	"github.com/Thamsanqa-bit/penden-storefront/internal/cart"
	"github.com/Thamsanqa-bit/penden-storefront/internal/catalog"
	"github.com/Thamsanqa-bit/penden-storefront/internal/checkout"
)

type view int

const (
	viewCatalog view = iota
	viewCart
	viewCheckout
	viewAuth
)

// Departments offered by the sidebar filter; empty means all.
var categories = []string{"", "Frames", "Stationaries", "Printing", "Woods", "Books", "Mirrors", "Electronics"}

type Model struct {
	cart    *cart.Manager
	browser *catalog.Browser
	gate    *auth.Gate
	client  *api.Client
	log     *zap.Logger
	styles  styles

	view    view
	width   int
	spin    spinner.Model
	loading bool

	// catalog state
	page        catalog.Page
	cursor      int
	categoryIdx int

	// cart state
	cartCursor int

	// checkout state
	flow       *checkout.Flow
	addrInputs []textinput.Model
	addrFocus  int
	paymentURL string

	// auth state
	authInputs   []textinput.Model
	authFocus    int
	registerMode bool

	// transient banner
	status    string
	statusErr bool
	statusSeq int
}

// Run starts the interactive shop and blocks until the user quits.
func Run(cartMgr *cart.Manager, browser *catalog.Browser, gate *auth.Gate, client *api.Client, log *zap.Logger) error {
	if log == nil {
		log = zap.NewNop()
	}
	m := newModel(cartMgr, browser, gate, client, log)
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}

func newModel(cartMgr *cart.Manager, browser *catalog.Browser, gate *auth.Gate, client *api.Client, log *zap.Logger) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot

	m := Model{
		cart:    cartMgr,
		browser: browser,
		gate:    gate,
		client:  client,
		log:     log,
		styles:  defaultStyles(),
		spin:    sp,
		loading: true,
	}
	m.resetAuthInputs()
	m.resetAddrInputs()

	// Last-known state first, server truth right behind it.
	cartMgr.Restore(context.Background())
	if cached, ok := browser.CachedPage(context.Background()); ok {
		m.page = cached
	}
	return m
}

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.spin.Tick, m.loadPageCmd(1, "")}
	if m.gate.IsLoggedIn(context.Background()) {
		cmds = append(cmds, m.refreshCartCmd())
	}
	return tea.Batch(cmds...)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case statusExpiredMsg:
		if msg.seq == m.statusSeq {
			m.status = ""
		}
		return m, nil

	case pageLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.page = catalog.Page{}
			return m.withError(describeErr(msg.err))
		}
		m.page = msg.page
		if m.cursor >= len(m.page.Products) {
			m.cursor = 0
		}
		return m, nil

	case cartRefreshedMsg:
		m.loading = false
		if msg.err != nil {
			if errors.Is(msg.err, api.ErrUnauthorized) {
				return m.toLogin("Please sign in to see your cart")
			}
			return m.withError(describeErr(msg.err))
		}
		if m.cartCursor >= len(msg.cart.Lines) {
			m.cartCursor = 0
		}
		return m, nil

	case lineMutatedMsg:
		if msg.err != nil {
			switch {
			case errors.Is(msg.err, api.ErrUnauthorized):
				return m.toLogin("Please sign in to shop")
			case errors.Is(msg.err, cart.ErrLineBusy):
				// The guard already kept the duplicate request off the wire.
				return m, nil
			default:
				return m.withError(describeErr(msg.err))
			}
		}
		snapshot := m.cart.Snapshot()
		if m.cartCursor >= len(snapshot.Lines) && m.cartCursor > 0 {
			m.cartCursor = len(snapshot.Lines) - 1
		}
		return m, nil

	case authDoneMsg:
		m.loading = false
		if msg.err != nil {
			return m.withError(describeErr(msg.err))
		}
		m.view = viewCatalog
		m.resetAuthInputs()
		model, cmd := m.withOK(fmt.Sprintf("Signed in as %s", msg.username))
		return model, tea.Batch(cmd, m.refreshCartCmd())

	case orderConfirmedMsg:
		m.loading = false
		if msg.err != nil {
			if errors.Is(msg.err, api.ErrUnauthorized) {
				return m.toLogin("Please sign in to check out")
			}
			// Flow stays in EDITING; the form keeps its values.
			return m.withError(describeErr(msg.err))
		}
		model, cmd := m.withOK(fmt.Sprintf("Order %s confirmed - press p to pay", msg.order.ID))
		return model, tea.Batch(cmd, m.refreshCartCmd())

	case paymentReadyMsg:
		m.loading = false
		if msg.err != nil {
			// Order stays CONFIRMED, payment can be retried with p.
			return m.withError(describeErr(msg.err))
		}
		m.paymentURL = msg.url
		return m.withOK("Payment link ready - open it in your browser")

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}

	switch m.view {
	case viewCatalog:
		return m.updateCatalog(msg)
	case viewCart:
		return m.updateCart(msg)
	case viewCheckout:
		return m.updateCheckout(msg)
	case viewAuth:
		return m.updateAuth(msg)
	}
	return m, nil
}

func (m Model) View() string {
	switch m.view {
	case viewCart:
		return m.viewCart()
	case viewCheckout:
		return m.viewCheckout()
	case viewAuth:
		return m.viewAuth()
	default:
		return m.viewCatalog()
	}
}

// withError shows a red transient banner.
func (m Model) withError(text string) (Model, tea.Cmd) {
	m.status = text
	m.statusErr = true
	m.statusSeq++
	return m, statusExpireCmd(m.statusSeq)
}

// withOK shows a green transient banner.
func (m Model) withOK(text string) (Model, tea.Cmd) {
	m.status = text
	m.statusErr = false
	m.statusSeq++
	return m, statusExpireCmd(m.statusSeq)
}

// toLogin switches to the sign-in form after a 401. The api client's hook
// has already cleared the stored token by the time this runs.
func (m Model) toLogin(reason string) (Model, tea.Cmd) {
	m.view = viewAuth
	m.registerMode = false
	m.resetAuthInputs()
	return m.withError(reason)
}

func (m Model) banner() string {
	if m.status == "" {
		return ""
	}
	if m.statusErr {
		return m.styles.BannerNO.Render(m.status) + "\n\n"
	}
	return m.styles.BannerOK.Render(m.status) + "\n\n"
}

func describeErr(err error) string {
	var apiErr *api.Error
	if errors.As(err, &apiErr) {
		return apiErr.Error()
	}
	var vErr *checkout.ValidationError
	if errors.As(err, &vErr) {
		return vErr.Error()
	}
	switch {
	case errors.Is(err, checkout.ErrEmptyCart):
		return "Your cart is empty! Please add some products before checkout."
	case errors.Is(err, api.ErrUnauthorized):
		return "Session expired, please sign in again"
	}
	return err.Error()
}
