package tui

import (
	"fmt"
	"strings"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"
)

// pageSize is the default number of items fetched per API call.
const pageSize = 50

// maxInputLen is the maximum number of runes allowed in form inputs.
const maxInputLen = 200

// editRune processes a keystroke for inline text editing.
// Handles backspace (rune-aware) and single printable characters.
// Returns the text unchanged for non-printable keys (enter, esc, etc.).
// Input is clamped to maxInputLen runes.
func editRune(text string, key string) string {
	switch key {
	case "backspace":
		if len(text) > 0 {
			runes := []rune(text)
			return string(runes[:len(runes)-1])
		}
		return text
	case "space":
		key = " "
	}
	if utf8.RuneCountInString(key) == 1 {
		if utf8.RuneCountInString(text) >= maxInputLen {
			return text
		}
		return text + key
	}
	return text
}

// truncateToHeight limits output to maxLines newline-delimited lines.
// Returns the original string if it fits or maxLines is <= 0.
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

// formField is one labelled input of a form.
type formField struct {
	label       string
	value       string
	placeholder string
	secret      bool
}

// form is a vertical list of text inputs with a focused field.
type form struct {
	fields []formField
	focus  int
}

func newForm(fields ...formField) form {
	return form{fields: fields}
}

// formAction tells the form's owner what a keystroke asked for.
type formAction int

const (
	formNone formAction = iota
	formSubmit
)

func (f form) update(msg tea.KeyMsg) (form, formAction) {
	switch msg.String() {
	case "tab", "down":
		f.focus = (f.focus + 1) % len(f.fields)
	case "shift+tab", "up":
		f.focus = (f.focus - 1 + len(f.fields)) % len(f.fields)
	case "enter":
		if f.focus == len(f.fields)-1 {
			return f, formSubmit
		}
		f.focus++
	case "ctrl+s":
		return f, formSubmit
	default:
		fields := make([]formField, len(f.fields))
		copy(fields, f.fields)
		fields[f.focus].value = editRune(fields[f.focus].value, msg.String())
		f.fields = fields
	}
	return f, formNone
}

func (f form) value(i int) string {
	return strings.TrimSpace(f.fields[i].value)
}

// set returns a copy of f with field i set to v.
func (f form) set(i int, v string) form {
	fields := make([]formField, len(f.fields))
	copy(fields, f.fields)
	fields[i].value = v
	f.fields = fields
	return f
}

func (f form) view() string {
	width := 0
	for _, fl := range f.fields {
		if w := utf8.RuneCountInString(fl.label); w > width {
			width = w
		}
	}
	var b strings.Builder
	for i, fl := range f.fields {
		label := fmt.Sprintf("%-*s", width, fl.label)
		shown := fl.value
		if fl.secret {
			shown = strings.Repeat("*", utf8.RuneCountInString(fl.value))
		}
		if i == f.focus {
			b.WriteString("  " + inputPromptStyle.Render("> ") + selectedStyle.Render(label) + "  ")
			if shown == "" {
				b.WriteString(inputPlaceholderStyle.Render(fl.placeholder))
			} else {
				b.WriteString(normalStyle.Render(shown))
			}
			b.WriteString(accentStyle.Render("█"))
		} else {
			b.WriteString("    " + dimStyle.Render(label) + "  ")
			if shown == "" {
				b.WriteString(inputPlaceholderStyle.Render(fl.placeholder))
			} else {
				b.WriteString(normalStyle.Render(shown))
			}
		}
		b.WriteString("\n")
	}
	return b.String()
}
