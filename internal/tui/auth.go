package tui

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/grtech/pilates/pkg/domain"
)

// signInResultMsg carries the outcome of a sign-in attempt.
type signInResultMsg struct {
	err error
}

// authModel is the sign-in form: email and password with inline validation
// hints. A successful sign-in lands on Home via the session-change stream.
type authModel struct {
	deps     Deps
	email    string
	password string
	focus    int // 0 email, 1 password
	hints    domain.CredentialHints
	busy     bool
	errText  string
}

func newAuthModel(deps Deps) authModel {
	return authModel{deps: deps}
}

func (m authModel) Init() tea.Cmd { return nil }

func (m authModel) Update(msg tea.Msg) (authModel, tea.Cmd) {
	switch msg := msg.(type) {
	case signInResultMsg:
		m.busy = false
		if msg.err != nil {
			m.errText = "Credenciales incorrectas o error de red."
		}
		return m, nil

	case tea.KeyMsg:
		if m.busy {
			return m, nil
		}
		switch msg.String() {
		case "tab", "shift+tab", "up", "down":
			m.focus = 1 - m.focus
			return m, nil
		case "ctrl+r":
			return m, func() tea.Msg { return navigateMsg{to: viewRegister} }
		case "enter":
			return m.submit()
		default:
			m.errText = ""
			if m.focus == 0 {
				m.email = editRune(m.email, msg.String())
				delete(m.hints, "Email")
			} else {
				m.password = editRune(m.password, msg.String())
				delete(m.hints, "Password")
			}
			return m, nil
		}
	}
	return m, nil
}

// submit validates locally first; the backend is only hit with well-formed
// credentials.
func (m authModel) submit() (authModel, tea.Cmd) {
	creds := domain.LoginCredentials{Email: strings.TrimSpace(m.email), Password: m.password}
	if hints := domain.Validate(creds); len(hints) > 0 {
		m.hints = hints
		return m, nil
	}
	m.hints = nil
	m.busy = true
	m.errText = ""
	sessions := m.deps.Sessions
	return m, func() tea.Msg {
		_, err := sessions.SignIn(context.Background(), creds.Email, creds.Password)
		return signInResultMsg{err: err}
	}
}

func (m authModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Iniciar Sesión") + "\n\n")
	b.WriteString(renderField("Correo", m.email, "tu@correo.com", m.hints["Email"], m.focus == 0, false) + "\n\n")
	b.WriteString(renderField("Contraseña", m.password, "••••••••", m.hints["Password"], m.focus == 1, true) + "\n\n")
	switch {
	case m.busy:
		b.WriteString(dimStyle.Render("Entrando..."))
	case m.errText != "":
		b.WriteString(errorStyle.Render(m.errText))
	default:
		b.WriteString(dimStyle.Render("¿Sin cuenta? ctrl+r para registrarte."))
	}
	return b.String()
}
