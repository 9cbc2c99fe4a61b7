package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/naveenspark/coachdesk/internal/browser"
	"github.com/naveenspark/coachdesk/pkg/client"
	"github.com/naveenspark/coachdesk/pkg/domain"
)

var paymentMethods = []domain.PaymentMethod{domain.PaymentWechat, domain.PaymentAlipay, domain.PaymentOffline}

type paymentsLoadedMsg struct {
	balance *domain.Balance
	summary *domain.PaymentSummary
	records []domain.Payment
	err     error
}

// rechargeDoneMsg carries the new order and, for online methods, its QR link.
type rechargeDoneMsg struct {
	payment *domain.Payment
	qrURL   string
	opened  bool
	err     error
}

type paymentsModel struct {
	env     env
	balance *domain.Balance
	summary *domain.PaymentSummary
	records []domain.Payment
	amount  int
	method  int
	cursor  int
	loading bool
	pending bool
	err     string
	qrURL   string
	flash   flash
}

func newPaymentsModel(e env) paymentsModel {
	return paymentsModel{env: e, loading: true, amount: 1}
}

func (m paymentsModel) Init() tea.Cmd { return m.load() }

func (m paymentsModel) load() tea.Cmd {
	c, logger := m.env.client, m.env.logger
	return func() tea.Msg {
		var out paymentsLoadedMsg
		var g errgroup.Group
		ctx := context.Background()
		g.Go(func() (err error) {
			out.balance, err = c.GetBalance(ctx)
			return err
		})
		g.Go(func() (err error) {
			out.summary, err = c.PaymentSummary(ctx)
			return err
		})
		g.Go(func() (err error) {
			out.records, err = c.PaymentRecords(ctx, "", 0, pageSize)
			return err
		})
		if out.err = g.Wait(); out.err != nil {
			logger.Warn("payments load", zap.Error(out.err))
		}
		return out
	}
}

func (m paymentsModel) recharge() tea.Cmd {
	c, logger := m.env.client, m.env.logger
	req := domain.RechargeRequest{
		Amount:        domain.QuickRechargeAmounts[m.amount],
		PaymentMethod: paymentMethods[m.method],
		Description:   "account recharge",
	}
	return func() tea.Msg {
		ctx := context.Background()
		p, err := c.CreateRecharge(ctx, req)
		if err != nil {
			return rechargeDoneMsg{err: err}
		}
		if req.PaymentMethod == domain.PaymentOffline {
			return rechargeDoneMsg{payment: p}
		}
		qr, err := c.GenerateQRCode(ctx, req.PaymentMethod, p.ID)
		if err != nil {
			return rechargeDoneMsg{payment: p, err: err}
		}
		opened := true
		if err := browser.Open(qr); err != nil {
			logger.Info("open payment link", zap.Error(err))
			opened = false
		}
		return rechargeDoneMsg{payment: p, qrURL: qr, opened: opened}
	}
}

func (m paymentsModel) Editing() bool { return false }

func (m paymentsModel) Help() string {
	h := helpLine("a", "amount", "m", "method", "enter", "recharge", "r", "refresh")
	if m.qrURL != "" {
		h += "  " + helpLine("c", "copy link")
	}
	return h
}

func (m paymentsModel) Update(msg tea.Msg) (pane, tea.Cmd) {
	switch msg := msg.(type) {
	case paymentsLoadedMsg:
		m.loading = false
		m.balance, m.summary, m.records = msg.balance, msg.summary, msg.records
		m.err = ""
		if msg.err != nil {
			m.err = client.UserMessage(msg.err)
		}

	case rechargeDoneMsg:
		m.pending = false
		m.qrURL = msg.qrURL
		switch {
		case msg.err != nil:
			m.flash = flash{text: client.UserMessage(msg.err), failed: true}
		case msg.qrURL == "":
			m.flash = flash{text: "offline recharge recorded, pay at the front desk"}
		case msg.opened:
			m.flash = flash{text: "payment page opened in your browser"}
		default:
			m.flash = flash{text: "scan or open the payment link below"}
		}
		if msg.payment != nil {
			return m, m.load()
		}

	case copyResultMsg:
		m.flash = flashFromCopy(msg)

	case tea.KeyMsg:
		if m.pending {
			return m, nil
		}
		switch msg.String() {
		case "r":
			m.loading = true
			return m, m.load()
		case "a":
			m.amount = (m.amount + 1) % len(domain.QuickRechargeAmounts)
		case "m":
			m.method = (m.method + 1) % len(paymentMethods)
		case "enter":
			m.pending, m.qrURL, m.flash = true, "", flash{}
			return m, m.recharge()
		case "c":
			if m.qrURL != "" {
				return m, copyCmd("payment link", m.qrURL)
			}
		default:
			m.cursor = moveCursor(msg.String(), m.cursor, len(m.records))
		}
	}
	return m, nil
}

func (m paymentsModel) View() string {
	var b strings.Builder
	b.WriteString("\n  " + titleStyle.Render("Balance & recharge") + "\n\n")
	if m.balance != nil {
		b.WriteString("    " + dimStyle.Render("balance   ") + selectedStyle.Render(money(m.balance.Balance)) + "\n")
	}
	if s := m.summary; s != nil {
		b.WriteString("    " + dimStyle.Render(fmt.Sprintf("recharged %s  spent %s  refunded %s",
			money(s.TotalRecharge), money(s.TotalExpense), money(s.TotalRefund))) + "\n")
	}

	b.WriteString("\n  " + sectionHeaderStyle.Render("Recharge") + "\n")
	var amounts []string
	for i, a := range domain.QuickRechargeAmounts {
		label := fmt.Sprintf("%.0f", a)
		if i == m.amount {
			amounts = append(amounts, accentStyle.Render("["+label+"]"))
		} else {
			amounts = append(amounts, dimStyle.Render(" "+label+" "))
		}
	}
	b.WriteString("    " + strings.Join(amounts, " ") + "\n")
	b.WriteString("    " + dimStyle.Render("via ") + selectedStyle.Render(string(paymentMethods[m.method])) + "\n")
	if m.pending {
		b.WriteString("    " + dimStyle.Render("creating order...") + "\n")
	}
	if m.qrURL != "" {
		b.WriteString("    " + accentStyle.Render(m.qrURL) + "\n")
	}
	b.WriteString(m.flash.view())

	b.WriteString("\n  " + sectionHeaderStyle.Render("History") + "\n")
	switch {
	case m.loading && len(m.records) == 0:
		b.WriteString("    " + dimStyle.Render("loading...") + "\n")
	case m.err != "":
		b.WriteString("    " + errorStyle.Render(m.err) + "\n")
	case len(m.records) == 0:
		b.WriteString("    " + dimStyle.Render("no payments yet") + "\n")
	}
	for i, p := range m.records {
		line := fmt.Sprintf("%-9s %10s  %-8s %-9s %s", p.Type, money(p.Amount), p.PaymentMethod, p.Status, formatTime(p.CreatedAt))
		b.WriteString("  " + cursorRow(i == m.cursor, line) + "\n")
	}
	return b.String()
}
