package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/grtech/pilates/internal/auth"
	"github.com/grtech/pilates/internal/payment"
	"github.com/grtech/pilates/pkg/backend"
	"github.com/grtech/pilates/pkg/domain"
)

type view int

const (
	viewAuth view = iota
	viewRegister
	viewHome
	viewAgenda
	viewSubscription
	viewHistory
)

// Deps are the collaborators the screens orchestrate. Screens never hold
// session state of their own; they read it from Sessions per action.
type Deps struct {
	Sessions *auth.Manager
	Backend  *backend.Client
	Purchase *payment.Workflow
}

// navigateMsg switches the active screen.
type navigateMsg struct {
	to view
}

// sessionChangedMsg is delivered for every session-store change. The shell
// reacts to it; screens do not.
type sessionChangedMsg struct {
	session *domain.AuthSession
}

// App is the root model: the navigation shell. It picks the initial screen
// from session presence, reacts to session-change events, owns the alert
// overlay, and routes every other message to the active screen only, so a
// result arriving after the user navigated away is dropped with its screen.
type App struct {
	deps Deps
	view view

	authScreen   authModel
	register     registerModel
	home         homeModel
	agenda       agendaModel
	subscription subscriptionModel
	history      historyModel

	alert     *alert
	sessionCh chan *domain.AuthSession
	width     int
	height    int
}

// NewApp builds the shell and subscribes it to the session store. The
// subscription lives for the whole program; teardown happens with the
// process.
func NewApp(deps Deps) App {
	a := App{
		deps:         deps,
		authScreen:   newAuthModel(deps),
		register:     newRegisterModel(deps),
		home:         newHomeModel(deps),
		agenda:       newAgendaModel(deps),
		subscription: newSubscriptionModel(deps),
		history:      newHistoryModel(deps),
		sessionCh:    make(chan *domain.AuthSession, 8),
	}
	if deps.Sessions != nil {
		ch := a.sessionCh
		deps.Sessions.Subscribe(func(s *domain.AuthSession) {
			select {
			case ch <- s:
			default: // a slow UI never blocks the session store
			}
		})
		if deps.Sessions.Current().Valid() {
			a.view = viewHome
		}
	}
	return a
}

// waitForSessionChange turns the subscription stream into messages.
func waitForSessionChange(ch chan *domain.AuthSession) tea.Cmd {
	return func() tea.Msg {
		return sessionChangedMsg{session: <-ch}
	}
}

func (a App) Init() tea.Cmd {
	return tea.Batch(a.currentInit(), waitForSessionChange(a.sessionCh))
}

// currentInit returns the active screen's load command.
func (a App) currentInit() tea.Cmd {
	switch a.view {
	case viewHome:
		return a.home.Init()
	case viewAgenda:
		return a.agenda.Init()
	case viewSubscription:
		return a.subscription.Init()
	case viewHistory:
		return a.history.Init()
	default:
		return nil
	}
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		bodyMsg := tea.WindowSizeMsg{Width: msg.Width, Height: msg.Height - chromeLines}
		a.authScreen, _ = a.authScreen.Update(bodyMsg)
		a.register, _ = a.register.Update(bodyMsg)
		a.home, _ = a.home.Update(bodyMsg)
		a.agenda, _ = a.agenda.Update(bodyMsg)
		a.subscription, _ = a.subscription.Update(bodyMsg)
		a.history, _ = a.history.Update(bodyMsg)
		return a, nil

	case sessionChangedMsg:
		rearm := waitForSessionChange(a.sessionCh)
		if !msg.session.Valid() {
			// Signed out (logout, hard reset, expiry): back to Auth from
			// anywhere except the auth flow itself.
			if a.view != viewAuth && a.view != viewRegister {
				a.view = viewAuth
				a.authScreen = newAuthModel(a.deps)
			}
			return a, rearm
		}
		if a.view == viewAuth {
			a.view = viewHome
			return a, tea.Batch(a.home.Init(), rearm)
		}
		return a, rearm

	case showAlertMsg:
		al := msg.alert
		a.alert = &al
		return a, nil

	case navigateMsg:
		a.alert = nil
		a.view = msg.to
		return a, a.currentInit()

	case tea.KeyMsg:
		// The alert overlay captures every key while open.
		if a.alert != nil {
			al, done, out := a.alert.update(msg)
			a.alert = &al
			if done {
				a.alert = nil
				if out != nil {
					return a.Update(out)
				}
			}
			return a, nil
		}

		// Global keys. Auth and Register own all printable input, so quit
		// and back-navigation keys only apply on the other screens.
		switch a.view {
		case viewHome, viewAgenda, viewSubscription, viewHistory:
			switch msg.String() {
			case "q", "ctrl+c":
				return a, tea.Quit
			case "esc":
				if a.view != viewHome {
					a.view = viewHome
					return a, a.home.Init()
				}
			}
		default:
			if msg.String() == "ctrl+c" {
				return a, tea.Quit
			}
		}
	}

	// Everything else goes to the active screen only.
	var cmd tea.Cmd
	switch a.view {
	case viewAuth:
		a.authScreen, cmd = a.authScreen.Update(msg)
	case viewRegister:
		a.register, cmd = a.register.Update(msg)
	case viewHome:
		a.home, cmd = a.home.Update(msg)
	case viewAgenda:
		a.agenda, cmd = a.agenda.Update(msg)
	case viewSubscription:
		a.subscription, cmd = a.subscription.Update(msg)
	case viewHistory:
		a.history, cmd = a.history.Update(msg)
	}
	return a, cmd
}

// chromeLines is header(2) + blank(1) + help(1).
const chromeLines = 4

func (a App) View() string {
	header := logoStyle.Render("P I L A T E S") + "\n" +
		subtitleStyle.Render("Tu Espacio Pilates")

	var body, help string
	switch a.view {
	case viewAuth:
		body = a.authScreen.View()
		help = " " + helpEntry("tab", "campo") + "  " + helpEntry("enter", "entrar") + "  " + helpEntry("ctrl+r", "registro") + "  " + helpEntry("ctrl+c", "salir")
	case viewRegister:
		body = a.register.View()
		help = " " + helpEntry("tab", "campo") + "  " + helpEntry("enter", "crear cuenta") + "  " + helpEntry("esc", "volver") + "  " + helpEntry("ctrl+c", "salir")
	case viewHome:
		body = a.home.View()
		help = " " + helpEntry("j/k", "mover") + "  " + helpEntry("enter", "abrir") + "  " + helpEntry("x", "cerrar sesión") + "  " + helpEntry("q", "salir")
	case viewAgenda:
		body = a.agenda.View()
		help = " " + helpEntry("j/k", "mover") + "  " + helpEntry("enter", "reservar/cancelar") + "  " + helpEntry("r", "recargar") + "  " + helpEntry("esc", "inicio")
	case viewSubscription:
		body = a.subscription.View()
		help = " " + helpEntry("j/k", "plan") + "  " + helpEntry("enter", "pagar y activar") + "  " + helpEntry("f", "arreglar sesión") + "  " + helpEntry("esc", "inicio")
	case viewHistory:
		body = a.history.View()
		help = " " + helpEntry("j/k", "mover") + "  " + helpEntry("c", "copiar") + "  " + helpEntry("r", "recargar") + "  " + helpEntry("esc", "inicio")
	}

	if a.alert != nil {
		body = "\n" + a.alert.view(a.width)
		help = " " + helpEntry("←/→", "opción") + "  " + helpEntry("enter", "elegir") + "  " + helpEntry("esc", "cerrar")
	}

	if a.height > 0 {
		body = truncateToHeight(body, a.height-chromeLines)
	}
	return header + "\n\n" + body + "\n" + help
}
