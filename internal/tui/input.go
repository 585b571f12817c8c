package tui

import (
	"strings"
	"unicode/utf8"
)

// maxInputLen is the maximum number of runes allowed in form fields.
const maxInputLen = 200

// editRune processes a keystroke for inline text editing: rune-aware
// backspace and single printable characters. Non-printable keys leave the
// text unchanged. Input is clamped to maxInputLen runes.
func editRune(text, key string) string {
	switch key {
	case "backspace":
		if len(text) > 0 {
			runes := []rune(text)
			return string(runes[:len(runes)-1])
		}
		return text
	default:
		if utf8.RuneCountInString(key) == 1 {
			if utf8.RuneCountInString(text) >= maxInputLen {
				return text
			}
			return text + key
		}
		return text
	}
}

// renderField renders a labelled form field with an optional inline hint and
// password masking. A block cursor marks the focused field.
func renderField(label, value, placeholder, hint string, focused, masked bool) string {
	shown := value
	if masked {
		shown = strings.Repeat("•", utf8.RuneCountInString(value))
	}

	var b strings.Builder
	b.WriteString(inputLabelStyle.Render(label) + "\n")
	switch {
	case shown == "" && !focused:
		b.WriteString("  " + inputPlaceholderStyle.Render(placeholder))
	case focused:
		b.WriteString("  " + inputValueStyle.Render(shown) + accentStyle.Render("█"))
	default:
		b.WriteString("  " + inputValueStyle.Render(shown))
	}
	if hint != "" {
		b.WriteString("\n  " + hintErrorStyle.Render(hint))
	}
	return b.String()
}

// truncateToHeight limits output to maxLines newline-delimited lines.
func truncateToHeight(s string, maxLines int) string {
	if maxLines <= 0 {
		return s
	}
	n := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			n++
			if n >= maxLines {
				return s[:i+1]
			}
		}
	}
	return s
}
