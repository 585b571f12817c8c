package tui

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// homeLoadedMsg carries the subscription badge for the home screen.
type homeLoadedMsg struct {
	active bool
	err    error
}

// signOutResultMsg reports a sign-out attempt; the session-change stream
// handles the actual navigation.
type signOutResultMsg struct {
	err error
}

// homeModel is the landing menu: agenda, subscription, history.
type homeModel struct {
	deps    Deps
	cursor  int
	active  bool
	loaded  bool
	loadErr error
}

var homeEntries = []struct {
	label string
	to    view
}{
	{"Agenda de clases", viewAgenda},
	{"Suscripción", viewSubscription},
	{"Historial", viewHistory},
}

func newHomeModel(deps Deps) homeModel {
	return homeModel{deps: deps}
}

func (m homeModel) Init() tea.Cmd {
	sessions := m.deps.Sessions
	backend := m.deps.Backend
	if sessions == nil || backend == nil {
		return nil
	}
	return func() tea.Msg {
		s := sessions.Current()
		if !s.Valid() {
			return homeLoadedMsg{}
		}
		active, err := backend.HasActiveSubscription(context.Background(), s.UserID)
		return homeLoadedMsg{active: active, err: err}
	}
}

func (m homeModel) Update(msg tea.Msg) (homeModel, tea.Cmd) {
	switch msg := msg.(type) {
	case homeLoadedMsg:
		m.loaded = true
		m.active = msg.active
		m.loadErr = msg.err
		return m, nil

	case signOutResultMsg:
		// Navigation back to Auth rides the session-change stream; only a
		// failure needs surfacing here.
		if msg.err != nil {
			err := msg.err
			return m, func() tea.Msg {
				return showAlertMsg{alert: errorAlert(err, "No se pudo cerrar la sesión.")}
			}
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "j", "down":
			if m.cursor < len(homeEntries)-1 {
				m.cursor++
			}
		case "k", "up":
			if m.cursor > 0 {
				m.cursor--
			}
		case "enter":
			to := homeEntries[m.cursor].to
			return m, func() tea.Msg { return navigateMsg{to: to} }
		case "x":
			sessions := m.deps.Sessions
			return m, func() tea.Msg {
				return signOutResultMsg{err: sessions.SignOut(context.Background())}
			}
		}
	}
	return m, nil
}

func (m homeModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Inicio"))
	if s := m.deps.Sessions.Current(); s.Valid() {
		b.WriteString("  " + metaStyle.Render(s.Email))
	}
	b.WriteString("\n")
	switch {
	case m.loadErr != nil:
		b.WriteString(warningStyle.Render("No se pudo consultar tu suscripción.") + "\n")
	case m.loaded && m.active:
		b.WriteString(successStyle.Render("Suscripción activa") + "\n")
	case m.loaded:
		b.WriteString(dimStyle.Render("Sin suscripción activa") + "\n")
	default:
		b.WriteString(dimStyle.Render("Cargando...") + "\n")
	}
	b.WriteString("\n")

	for i, e := range homeEntries {
		if i == m.cursor {
			b.WriteString(accentStyle.Render("▸ ") + selectedStyle.Render(e.label) + "\n")
		} else {
			b.WriteString("  " + normalStyle.Render(e.label) + "\n")
		}
	}
	return b.String()
}
