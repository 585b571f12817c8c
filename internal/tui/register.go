package tui

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/grtech/pilates/pkg/domain"
)

// signUpResultMsg carries the outcome of an account creation attempt.
type signUpResultMsg struct {
	err error
}

// registerModel is the account creation form. On success it shows a
// confirmation and returns the user to the sign-in screen; the account may
// need email confirmation before the first sign-in.
type registerModel struct {
	deps     Deps
	email    string
	password string
	confirm  string
	focus    int // 0 email, 1 password, 2 confirm
	hints    domain.CredentialHints
	busy     bool
	errText  string
}

func newRegisterModel(deps Deps) registerModel {
	return registerModel{deps: deps}
}

func (m registerModel) Init() tea.Cmd { return nil }

func (m registerModel) Update(msg tea.Msg) (registerModel, tea.Cmd) {
	switch msg := msg.(type) {
	case signUpResultMsg:
		m.busy = false
		if msg.err != nil {
			m.errText = "No se pudo crear la cuenta: " + msg.err.Error()
			return m, nil
		}
		m = newRegisterModel(m.deps)
		return m, func() tea.Msg {
			return showAlertMsg{alert: alert{
				title:   "Cuenta creada",
				message: "Revisa tu correo para confirmar la cuenta y luego inicia sesión.",
				buttons: []alertButton{{label: "OK", msg: navigateMsg{to: viewAuth}}},
			}}
		}

	case tea.KeyMsg:
		if m.busy {
			return m, nil
		}
		switch msg.String() {
		case "esc":
			return m, func() tea.Msg { return navigateMsg{to: viewAuth} }
		case "tab", "down":
			m.focus = (m.focus + 1) % 3
			return m, nil
		case "shift+tab", "up":
			m.focus = (m.focus + 2) % 3
			return m, nil
		case "enter":
			return m.submit()
		default:
			m.errText = ""
			switch m.focus {
			case 0:
				m.email = editRune(m.email, msg.String())
				delete(m.hints, "Email")
			case 1:
				m.password = editRune(m.password, msg.String())
				delete(m.hints, "Password")
			case 2:
				m.confirm = editRune(m.confirm, msg.String())
			}
			return m, nil
		}
	}
	return m, nil
}

func (m registerModel) submit() (registerModel, tea.Cmd) {
	creds := domain.SignupCredentials{Email: strings.TrimSpace(m.email), Password: m.password}
	if hints := domain.Validate(creds); len(hints) > 0 {
		m.hints = hints
		return m, nil
	}
	if m.password != m.confirm {
		m.errText = "Las contraseñas no coinciden."
		return m, nil
	}
	m.hints = nil
	m.busy = true
	m.errText = ""
	sessions := m.deps.Sessions
	return m, func() tea.Msg {
		err := sessions.SignUp(context.Background(), creds.Email, creds.Password)
		return signUpResultMsg{err: err}
	}
}

func (m registerModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Crear Cuenta") + "\n\n")
	b.WriteString(renderField("Correo", m.email, "tu@correo.com", m.hints["Email"], m.focus == 0, false) + "\n\n")
	b.WriteString(renderField("Contraseña", m.password, "mínimo 6 caracteres", m.hints["Password"], m.focus == 1, true) + "\n\n")
	b.WriteString(renderField("Confirmar contraseña", m.confirm, "", "", m.focus == 2, true) + "\n\n")
	switch {
	case m.busy:
		b.WriteString(dimStyle.Render("Creando cuenta..."))
	case m.errText != "":
		b.WriteString(errorStyle.Render(m.errText))
	default:
		b.WriteString(dimStyle.Render("esc para volver a iniciar sesión."))
	}
	return b.String()
}
