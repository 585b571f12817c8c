package tui

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/grtech/pilates/pkg/domain"
)

var errTest = errors.New("boom")

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

// runCmd executes a returned command and hands back the message it produces.
func runCmd(t *testing.T, cmd tea.Cmd) tea.Msg {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a command")
	}
	return cmd()
}

func testAgenda() agendaModel {
	m := newAgendaModel(Deps{})
	m.loading = false
	id1 := uuid.New()
	id2 := uuid.New()
	m.sessions = []domain.ClassSession{
		{ID: id1, Title: "Mat Flow", Date: "2026-09-01", Time: "09:00", Spots: 8},
		{ID: id2, Title: "Reformer", Date: "2026-09-01", Time: "10:00", Spots: 6},
	}
	m.reserved = map[uuid.UUID]bool{id2: true}
	return m
}

func TestAgendaBadgeOnlyOnReservedRows(t *testing.T) {
	m := testAgenda()
	view := m.View()

	lines := strings.Split(view, "\n")
	var matLine, reformerLine string
	for _, l := range lines {
		if strings.Contains(l, "Mat Flow") {
			matLine = l
		}
		if strings.Contains(l, "Reformer") {
			reformerLine = l
		}
	}
	if matLine == "" || reformerLine == "" {
		t.Fatalf("rows missing from view:\n%s", view)
	}
	if strings.Contains(matLine, "Reservada") {
		t.Error("unreserved row shows the badge")
	}
	if !strings.Contains(reformerLine, "Reservada") {
		t.Error("reserved row missing the badge")
	}
}

func TestAgendaReserveNeedsSubscription(t *testing.T) {
	m := testAgenda()
	m, cmd := m.Update(reserveResultMsg{needsSub: true})
	msg := runCmd(t, cmd)

	show, ok := msg.(showAlertMsg)
	if !ok {
		t.Fatalf("message = %T", msg)
	}
	if show.alert.title != "Necesitas suscripción" {
		t.Fatalf("title = %q", show.alert.title)
	}
	if len(show.alert.buttons) != 2 {
		t.Fatalf("buttons = %d", len(show.alert.buttons))
	}
	nav, ok := show.alert.buttons[1].msg.(navigateMsg)
	if !ok || nav.to != viewSubscription {
		t.Fatalf("second button = %+v", show.alert.buttons[1])
	}
	if m.busy {
		t.Fatal("still busy after result")
	}
}

func TestAgendaReserveAlreadyReserved(t *testing.T) {
	m := testAgenda()
	_, cmd := m.Update(reserveResultMsg{already: true})
	msg := runCmd(t, cmd)

	show, ok := msg.(showAlertMsg)
	if !ok {
		t.Fatalf("message = %T", msg)
	}
	if show.alert.message != "Ya reservaste esta sesión." {
		t.Fatalf("message = %q", show.alert.message)
	}
}

func TestAgendaReserveSuccessUpdatesSet(t *testing.T) {
	m := testAgenda()
	target := m.sessions[0].ID
	fresh := map[uuid.UUID]bool{target: true}

	m, cmd := m.Update(reserveResultMsg{reserved: fresh})
	msg := runCmd(t, cmd)

	if show, ok := msg.(showAlertMsg); !ok || show.alert.message != "Reserva confirmada." {
		t.Fatalf("message = %+v", msg)
	}
	if !m.reserved[target] {
		t.Fatal("reservation set not replaced with the fresh fetch")
	}
	if !strings.Contains(m.View(), "Reservada") {
		t.Fatal("badge missing after reserve")
	}
}

func TestAgendaCancelUpdatesSet(t *testing.T) {
	m := testAgenda()
	m, cmd := m.Update(cancelResultMsg{reserved: map[uuid.UUID]bool{}})
	msg := runCmd(t, cmd)

	if show, ok := msg.(showAlertMsg); !ok || show.alert.message != "Reserva cancelada." {
		t.Fatalf("message = %+v", msg)
	}
	if strings.Contains(m.View(), "Reservada") {
		t.Fatal("badge still shown after cancel")
	}
}

func TestAgendaLoadError(t *testing.T) {
	m := newAgendaModel(Deps{})
	m, _ = m.Update(agendaLoadedMsg{err: errTest})
	if !strings.Contains(m.View(), "No se pudieron cargar") {
		t.Fatalf("error not surfaced:\n%s", m.View())
	}
}

func TestAgendaCursorMovement(t *testing.T) {
	m := testAgenda()
	if m.cursor != 0 {
		t.Fatal("cursor should start at 0")
	}
	m, _ = m.Update(keyMsg("j"))
	if m.cursor != 1 {
		t.Fatalf("cursor = %d after j", m.cursor)
	}
	m, _ = m.Update(keyMsg("j"))
	if m.cursor != 1 {
		t.Fatal("cursor moved past the last row")
	}
	m, _ = m.Update(keyMsg("k"))
	if m.cursor != 0 {
		t.Fatalf("cursor = %d after k", m.cursor)
	}
}
