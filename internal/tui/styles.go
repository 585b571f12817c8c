package tui

import "github.com/charmbracelet/lipgloss"

// Studio palette: warm sage and cream, carried over from the product's
// design language.
var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#2C3E2E")).
			Bold(true)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6B7D63"))

	logoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#8B9D83")).
			Bold(true)

	normalStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#2C3E2E"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#9AA99E"))

	metaStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6B7D63"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#2C3E2E")).
			Bold(true)

	accentStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6B7D63")).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#7FA570")).
			Bold(true)

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#D4A574"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#C17A6F"))

	hintErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#B54B4B"))

	badgeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color("#7FA570")).
			Padding(0, 1)

	recommendedStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#7FA570")).
				Bold(true)

	helpKeyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6B7D63"))

	helpLabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#9AA99E"))

	alertBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#8B9D83")).
			Padding(1, 3)

	alertButtonStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#6B7D63")).
				Padding(0, 2)

	alertButtonFocusStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#FFFFFF")).
				Background(lipgloss.Color("#6B7D63")).
				Padding(0, 2)

	inputLabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6B7D63")).
			Bold(true)

	inputValueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#2C3E2E"))

	inputPlaceholderStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#9AA99E"))
)

// helpEntry renders one "key action" pair for the bottom help bar.
func helpEntry(key, label string) string {
	return helpKeyStyle.Render(key) + " " + helpLabelStyle.Render(label)
}
