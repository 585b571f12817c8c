package tui

import (
	"context"
	"errors"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/grtech/pilates/internal/payment"
	"github.com/grtech/pilates/pkg/domain"
)

// subscribeResultMsg reports a full purchase attempt for one plan.
type subscribeResultMsg struct {
	plan string
	err  error
}

// fixResultMsg reports that the hard session reset ran.
type fixResultMsg struct{}

// subscriptionModel shows the plan catalog and drives the purchase workflow.
// "f" is the escape hatch: a hard reset of the cached credential for when the
// intent function keeps rejecting a stale token.
type subscriptionModel struct {
	deps   Deps
	cursor int
	busy   bool
}

func newSubscriptionModel(deps Deps) subscriptionModel {
	return subscriptionModel{deps: deps}
}

func (m subscriptionModel) Init() tea.Cmd { return nil }

func (m subscriptionModel) Update(msg tea.Msg) (subscriptionModel, tea.Cmd) {
	switch msg := msg.(type) {
	case subscribeResultMsg:
		m.busy = false
		if msg.err != nil {
			if errors.Is(msg.err, payment.ErrCanceled) {
				return m, func() tea.Msg {
					return showAlertMsg{alert: infoAlert("Pago cancelado", "No se realizó ningún cargo.")}
				}
			}
			err := msg.err
			return m, func() tea.Msg {
				return showAlertMsg{alert: errorAlert(err, "No se pudo completar la compra.")}
			}
		}
		plan := msg.plan
		return m, func() tea.Msg {
			return showAlertMsg{alert: alert{
				title:   "¡Pago y Suscripción Activados!",
				message: "Tu plan " + plan + " ya está activo.",
				buttons: []alertButton{
					{label: "Ver Historial", msg: navigateMsg{to: viewHistory}},
					{label: "Ir a Agenda", msg: navigateMsg{to: viewAgenda}},
				},
			}}
		}

	case fixResultMsg:
		m.busy = false
		return m, func() tea.Msg {
			return showAlertMsg{alert: infoAlert("Sesión reiniciada", "Credenciales locales borradas. Inicia sesión de nuevo.")}
		}

	case tea.KeyMsg:
		if m.busy {
			return m, nil
		}
		switch msg.String() {
		case "j", "down":
			if m.cursor < len(domain.Plans)-1 {
				m.cursor++
			}
		case "k", "up":
			if m.cursor > 0 {
				m.cursor--
			}
		case "enter":
			if m.deps.Purchase == nil {
				return m, nil
			}
			plan := domain.Plans[m.cursor]
			purchase := m.deps.Purchase
			m.busy = true
			return m, func() tea.Msg {
				err := purchase.Subscribe(context.Background(), plan)
				return subscribeResultMsg{plan: plan.Name, err: err}
			}
		case "f":
			sessions := m.deps.Sessions
			m.busy = true
			return m, func() tea.Msg {
				sessions.HardReset(context.Background())
				return fixResultMsg{}
			}
		}
	}
	return m, nil
}

func (m subscriptionModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Planes de Suscripción") + "\n\n")

	for i, p := range domain.Plans {
		name := p.Name
		if p.Recommended {
			name += " " + recommendedStyle.Render("★ Recomendado")
		}
		header := name + "  " + accentStyle.Render(p.Price) + "  " + metaStyle.Render(p.Sessions)
		if i == m.cursor {
			b.WriteString(accentStyle.Render("▸ ") + selectedStyle.Render(header) + "\n")
			for _, benefit := range p.Benefits {
				b.WriteString("    " + metaStyle.Render("· "+benefit) + "\n")
			}
		} else {
			b.WriteString("  " + normalStyle.Render(header) + "\n")
		}
		b.WriteString("\n")
	}

	if m.busy {
		b.WriteString(dimStyle.Render("Procesando pago, sigue las instrucciones en tu navegador..."))
	} else {
		b.WriteString(dimStyle.Render("El pago se completa en tu navegador."))
	}
	return b.String()
}
