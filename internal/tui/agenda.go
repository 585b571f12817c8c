package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/grtech/pilates/pkg/backend"
	"github.com/grtech/pilates/pkg/domain"
)

// agendaLoadedMsg carries the class list and the user's reservation set.
type agendaLoadedMsg struct {
	sessions []domain.ClassSession
	reserved map[uuid.UUID]bool
	err      error
}

// reserveResultMsg reports a reservation attempt with the fresh reservation
// set fetched right after the write.
type reserveResultMsg struct {
	reserved map[uuid.UUID]bool
	needsSub bool
	already  bool
	err      error
}

// cancelResultMsg reports a cancellation with the fresh reservation set.
type cancelResultMsg struct {
	reserved map[uuid.UUID]bool
	err      error
}

// agendaModel lists upcoming classes with a "Reservada" badge on the ones
// the user holds. Enter toggles: reserve when free, cancel when held.
type agendaModel struct {
	deps     Deps
	sessions []domain.ClassSession
	reserved map[uuid.UUID]bool
	cursor   int
	loading  bool
	busy     bool
	loadErr  error
}

func newAgendaModel(deps Deps) agendaModel {
	return agendaModel{deps: deps, loading: true}
}

// currentUserID reads the signed-in user id, or an error when the session is
// gone or malformed.
func currentUserID(deps Deps) (string, error) {
	s := deps.Sessions.Current()
	if !s.Valid() {
		return "", fmt.Errorf("no hay sesión activa")
	}
	if _, err := uuid.Parse(s.UserID); err != nil {
		return "", fmt.Errorf("sesión con id inválido: %w", err)
	}
	return s.UserID, nil
}

// fetchReserved loads the user's reservation set.
func fetchReserved(ctx context.Context, client *backend.Client, userID string) (map[uuid.UUID]bool, error) {
	rows, err := client.ListReservations(ctx, userID)
	if err != nil {
		return nil, err
	}
	set := make(map[uuid.UUID]bool, len(rows))
	for _, r := range rows {
		set[r.SessionID] = true
	}
	return set, nil
}

func (m agendaModel) Init() tea.Cmd {
	deps := m.deps
	if deps.Backend == nil {
		return nil
	}
	return func() tea.Msg {
		ctx := context.Background()
		uid, err := currentUserID(deps)
		if err != nil {
			return agendaLoadedMsg{err: err}
		}
		sessions, err := deps.Backend.ListSessions(ctx)
		if err != nil {
			return agendaLoadedMsg{err: err}
		}
		reserved, err := fetchReserved(ctx, deps.Backend, uid)
		if err != nil {
			return agendaLoadedMsg{err: err}
		}
		return agendaLoadedMsg{sessions: sessions, reserved: reserved}
	}
}

func (m agendaModel) Update(msg tea.Msg) (agendaModel, tea.Cmd) {
	switch msg := msg.(type) {
	case agendaLoadedMsg:
		m.loading = false
		m.loadErr = msg.err
		if msg.err == nil {
			m.sessions = msg.sessions
			m.reserved = msg.reserved
			if m.cursor >= len(m.sessions) {
				m.cursor = 0
			}
		}
		return m, nil

	case reserveResultMsg:
		m.busy = false
		if msg.reserved != nil {
			m.reserved = msg.reserved
		}
		switch {
		case msg.needsSub:
			return m, func() tea.Msg {
				return showAlertMsg{alert: alert{
					title:   "Necesitas suscripción",
					message: "Activa un plan para reservar clases.",
					buttons: []alertButton{
						{label: "Cancelar"},
						{label: "Ir a Suscripción", msg: navigateMsg{to: viewSubscription}},
					},
				}}
			}
		case msg.already:
			return m, func() tea.Msg {
				return showAlertMsg{alert: infoAlert("Reserva", "Ya reservaste esta sesión.")}
			}
		case msg.err != nil:
			err := msg.err
			return m, func() tea.Msg {
				return showAlertMsg{alert: errorAlert(err, "No se pudo reservar.")}
			}
		default:
			return m, func() tea.Msg {
				return showAlertMsg{alert: infoAlert("Reserva", "Reserva confirmada.")}
			}
		}

	case cancelResultMsg:
		m.busy = false
		if msg.reserved != nil {
			m.reserved = msg.reserved
		}
		if msg.err != nil {
			err := msg.err
			return m, func() tea.Msg {
				return showAlertMsg{alert: errorAlert(err, "No se pudo cancelar.")}
			}
		}
		return m, func() tea.Msg {
			return showAlertMsg{alert: infoAlert("Reserva", "Reserva cancelada.")}
		}

	case tea.KeyMsg:
		if m.busy || m.loading {
			return m, nil
		}
		switch msg.String() {
		case "j", "down":
			if m.cursor < len(m.sessions)-1 {
				m.cursor++
			}
		case "k", "up":
			if m.cursor > 0 {
				m.cursor--
			}
		case "r":
			m.loading = true
			return m, m.Init()
		case "enter":
			if m.cursor >= len(m.sessions) {
				return m, nil
			}
			target := m.sessions[m.cursor]
			m.busy = true
			if m.reserved[target.ID] {
				return m, m.cancelCmd(target.ID)
			}
			return m, m.reserveCmd(target.ID)
		}
	}
	return m, nil
}

// reserveCmd runs the full reserve flow in one command: eligibility check,
// duplicate check, insert, then re-fetch. The unique constraint on the server
// stays authoritative; a conflict is reported as an existing reservation.
func (m agendaModel) reserveCmd(sessionID uuid.UUID) tea.Cmd {
	deps := m.deps
	return func() tea.Msg {
		ctx := context.Background()
		uid, err := currentUserID(deps)
		if err != nil {
			return reserveResultMsg{err: err}
		}
		reserved, err := fetchReserved(ctx, deps.Backend, uid)
		if err != nil {
			return reserveResultMsg{err: err}
		}
		if reserved[sessionID] {
			return reserveResultMsg{reserved: reserved, already: true}
		}
		active, err := deps.Backend.HasActiveSubscription(ctx, uid)
		if err != nil {
			return reserveResultMsg{reserved: reserved, err: err}
		}
		if !active {
			return reserveResultMsg{reserved: reserved, needsSub: true}
		}
		if err := deps.Backend.InsertReservation(ctx, uid, sessionID.String()); err != nil {
			if backend.IsConflict(err) {
				if fresh, ferr := fetchReserved(ctx, deps.Backend, uid); ferr == nil {
					reserved = fresh
				}
				return reserveResultMsg{reserved: reserved, already: true}
			}
			return reserveResultMsg{reserved: reserved, err: err}
		}
		if fresh, ferr := fetchReserved(ctx, deps.Backend, uid); ferr == nil {
			reserved = fresh
		} else {
			reserved[sessionID] = true
		}
		return reserveResultMsg{reserved: reserved}
	}
}

// cancelCmd deletes the reservation and re-fetches. Deleting a reservation
// that is already gone still reads as success.
func (m agendaModel) cancelCmd(sessionID uuid.UUID) tea.Cmd {
	deps := m.deps
	return func() tea.Msg {
		ctx := context.Background()
		uid, err := currentUserID(deps)
		if err != nil {
			return cancelResultMsg{err: err}
		}
		if err := deps.Backend.DeleteReservation(ctx, uid, sessionID.String()); err != nil {
			return cancelResultMsg{err: err}
		}
		reserved, err := fetchReserved(ctx, deps.Backend, uid)
		if err != nil {
			reserved = nil
		}
		return cancelResultMsg{reserved: reserved}
	}
}

func (m agendaModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Agenda de Clases") + "\n\n")

	switch {
	case m.loading:
		b.WriteString(dimStyle.Render("Cargando clases..."))
		return b.String()
	case m.loadErr != nil:
		b.WriteString(errorStyle.Render("No se pudieron cargar las clases.") + "\n")
		b.WriteString(dimStyle.Render("Pulsa r para reintentar."))
		return b.String()
	case len(m.sessions) == 0:
		b.WriteString(dimStyle.Render("No hay clases programadas."))
		return b.String()
	}

	for i, s := range m.sessions {
		line := fmt.Sprintf("%s  %s %s  %s",
			truncStr(s.Title, 28), s.Date, s.Time, metaStyle.Render(fmt.Sprintf("%d lugares", s.Spots)))
		if m.reserved[s.ID] {
			line += "  " + badgeStyle.Render("Reservada")
		}
		if i == m.cursor {
			b.WriteString(accentStyle.Render("▸ ") + selectedStyle.Render(line) + "\n")
		} else {
			b.WriteString("  " + normalStyle.Render(line) + "\n")
		}
	}
	if m.busy {
		b.WriteString("\n" + dimStyle.Render("Procesando..."))
	}
	return b.String()
}
