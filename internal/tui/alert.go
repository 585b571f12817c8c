package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// showAlertMsg raises the modal alert overlay. Every remote-call failure and
// every confirmation in the app goes through this one path.
type showAlertMsg struct {
	alert alert
}

// alertButton is one choice on an alert. msg, when non-nil, is re-dispatched
// into the program after the alert closes (e.g. a navigateMsg).
type alertButton struct {
	label string
	msg   tea.Msg
}

// alert is a dismissable modal. It captures all keys while open; the current
// action stays terminated regardless of which button closes it.
type alert struct {
	title   string
	message string
	buttons []alertButton
	focus   int
}

// infoAlert builds a single-button alert that just dismisses.
func infoAlert(title, message string) alert {
	return alert{title: title, message: message, buttons: []alertButton{{label: "OK"}}}
}

// errorAlert builds the standard failure alert: the provider's message when
// there is one, otherwise the given fallback.
func errorAlert(err error, fallback string) alert {
	message := fallback
	if err != nil && err.Error() != "" {
		message = err.Error()
	}
	return infoAlert("Error", message)
}

// update handles a keypress while the alert is open. done reports that the
// alert closed; out is the selected button's message, if any.
func (a alert) update(msg tea.KeyMsg) (alert, bool, tea.Msg) {
	switch msg.String() {
	case "esc":
		return a, true, nil
	case "left", "h", "shift+tab":
		if a.focus > 0 {
			a.focus--
		}
	case "right", "l", "tab":
		if a.focus < len(a.buttons)-1 {
			a.focus++
		}
	case "enter":
		if len(a.buttons) == 0 {
			return a, true, nil
		}
		return a, true, a.buttons[a.focus].msg
	}
	return a, false, nil
}

// view renders the alert box centered in the given width.
func (a alert) view(width int) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(a.title) + "\n\n")
	b.WriteString(normalStyle.Render(a.message) + "\n\n")

	labels := make([]string, 0, len(a.buttons))
	for i, btn := range a.buttons {
		if i == a.focus {
			labels = append(labels, alertButtonFocusStyle.Render(btn.label))
		} else {
			labels = append(labels, alertButtonStyle.Render(btn.label))
		}
	}
	b.WriteString(strings.Join(labels, "  "))

	box := alertBoxStyle.Render(b.String())
	if width <= 0 {
		return box
	}
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, box)
}
