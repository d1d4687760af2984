package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// InputModel is the bubbletea model for a single line prompt
type InputModel struct {
	title     string
	input     textinput.Model
	submitted bool
	cancelled bool
}

// NewInputModel creates a prompt; placeholder is shown while empty
func NewInputModel(title, placeholder string) InputModel {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Prompt = "> "
	ti.PromptStyle = selectedStyle
	ti.Width = 60
	ti.Focus()
	return InputModel{title: title, input: ti}
}

func (m InputModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m InputModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "enter":
			m.submitted = true
			return m, tea.Quit
		case "esc", "ctrl+c":
			m.cancelled = true
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m InputModel) View() string {
	if m.submitted || m.cancelled {
		return ""
	}
	var b strings.Builder
	b.WriteString(titleStyle.Render(m.title))
	b.WriteString("\n\n")
	b.WriteString(m.input.View())
	b.WriteString("\n\n")
	b.WriteString(uncheckedStyle.Render("enter to confirm • esc to cancel"))
	b.WriteString("\n")
	return b.String()
}

// Value returns the trimmed input, or "" if the prompt was cancelled
func (m InputModel) Value() string {
	if m.cancelled {
		return ""
	}
	return strings.TrimSpace(m.input.Value())
}

// RunInput shows a prompt and returns what was typed. An empty result
// means the user cancelled or entered nothing.
func RunInput(title, placeholder string) (string, error) {
	final, err := tea.NewProgram(NewInputModel(title, placeholder)).Run()
	if err != nil {
		return "", fmt.Errorf("prompt: %w", err)
	}
	return final.(InputModel).Value(), nil
}
