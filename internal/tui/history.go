package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/grtech/pilates/pkg/domain"
)

// historyLoadedMsg carries both history sections.
type historyLoadedMsg struct {
	subs    []domain.Subscription
	entries []domain.HistoryEntry
	err     error
}

// copyResultMsg reports a clipboard copy.
type copyResultMsg struct {
	err error
}

// historyModel shows the user's subscriptions and past reservations, newest
// first. "c" copies the selected line for sharing or support tickets.
type historyModel struct {
	deps    Deps
	subs    []domain.Subscription
	entries []domain.HistoryEntry
	cursor  int
	loading bool
	loadErr error
	status  string
}

func newHistoryModel(deps Deps) historyModel {
	return historyModel{deps: deps, loading: true}
}

func (m historyModel) Init() tea.Cmd {
	deps := m.deps
	if deps.Backend == nil {
		return nil
	}
	return func() tea.Msg {
		ctx := context.Background()
		uid, err := currentUserID(deps)
		if err != nil {
			return historyLoadedMsg{err: err}
		}
		subs, err := deps.Backend.ListSubscriptions(ctx, uid)
		if err != nil {
			return historyLoadedMsg{err: err}
		}
		entries, err := deps.Backend.ListHistory(ctx, uid)
		if err != nil {
			return historyLoadedMsg{err: err}
		}
		return historyLoadedMsg{subs: subs, entries: entries}
	}
}

func (m historyModel) Update(msg tea.Msg) (historyModel, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		m.loading = false
		m.loadErr = msg.err
		if msg.err == nil {
			m.subs = msg.subs
			m.entries = msg.entries
			if m.cursor >= len(m.entries) {
				m.cursor = 0
			}
		}
		return m, nil

	case copyResultMsg:
		if msg.err != nil {
			m.status = "No se pudo copiar."
		} else {
			m.status = "Copiado al portapapeles."
		}
		return m, nil

	case tea.KeyMsg:
		m.status = ""
		switch msg.String() {
		case "j", "down":
			if m.cursor < len(m.entries)-1 {
				m.cursor++
			}
		case "k", "up":
			if m.cursor > 0 {
				m.cursor--
			}
		case "r":
			m.loading = true
			return m, m.Init()
		case "c":
			if m.cursor >= len(m.entries) {
				return m, nil
			}
			text := entryLine(m.entries[m.cursor])
			return m, func() tea.Msg {
				return copyResultMsg{err: clipboard.WriteAll(text)}
			}
		}
	}
	return m, nil
}

// entryLine is the plain-text rendering of one reservation, also what "c"
// puts on the clipboard.
func entryLine(e domain.HistoryEntry) string {
	if e.Session == nil {
		return fmt.Sprintf("Clase eliminada · reservada %s", formatDateTime(e.CreatedAt))
	}
	return fmt.Sprintf("%s · %s %s · reservada %s",
		e.Session.Title, e.Session.Date, e.Session.Time, formatDateTime(e.CreatedAt))
}

func (m historyModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Historial") + "\n\n")

	switch {
	case m.loading:
		b.WriteString(dimStyle.Render("Cargando historial..."))
		return b.String()
	case m.loadErr != nil:
		b.WriteString(errorStyle.Render("No se pudo cargar el historial.") + "\n")
		b.WriteString(dimStyle.Render("Pulsa r para reintentar."))
		return b.String()
	}

	b.WriteString(accentStyle.Render("Suscripciones") + "\n")
	if len(m.subs) == 0 {
		b.WriteString("  " + dimStyle.Render("Sin suscripciones.") + "\n")
	}
	for _, s := range m.subs {
		label := statusLabel(s.Status)
		if s.Status == domain.StatusActive {
			label = successStyle.Render(label)
		} else {
			label = dimStyle.Render(label)
		}
		b.WriteString(fmt.Sprintf("  %s  %s  %s\n",
			normalStyle.Render(s.Plan), label, metaStyle.Render(formatDate(s.CreatedAt))))
	}
	b.WriteString("\n")

	b.WriteString(accentStyle.Render("Reservas") + "\n")
	if len(m.entries) == 0 {
		b.WriteString("  " + dimStyle.Render("Sin reservas todavía.") + "\n")
	}
	for i, e := range m.entries {
		line := entryLine(e)
		if i == m.cursor {
			b.WriteString(accentStyle.Render("▸ ") + selectedStyle.Render(line) + "\n")
		} else {
			b.WriteString("  " + normalStyle.Render(line) + "\n")
		}
	}

	if m.status != "" {
		b.WriteString("\n" + successStyle.Render(m.status))
	}
	return b.String()
}
