// Package form collects template field values interactively.
package form

import (
	"errors"
	"fmt"
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
)

// ErrCancelled is returned when the user leaves the form with esc or ctrl+c.
var ErrCancelled = errors.New("form cancelled by user")

var (
	colorTitle  = lipgloss.Color("#cba6f7")
	colorLabel  = lipgloss.Color("#a6adc8")
	colorActive = lipgloss.Color("#b4befe")
	colorHint   = lipgloss.Color("#6c7086")
)

// Model is a bubbletea model with one text input per field.
type Model struct {
	title     string
	fields    []string
	inputs    []textinput.Model
	focus     int
	done      bool
	cancelled bool
	width     int
}

// New creates a form for fields, in order. Initial values, when present,
// prefill the matching inputs.
func New(title string, fields []string, initial map[string]string) *Model {
	styles := textinput.Styles{
		Focused: textinput.StyleState{
			Text:        lipgloss.NewStyle().Foreground(lipgloss.Color("#cdd6f4")),
			Placeholder: lipgloss.NewStyle().Foreground(colorLabel),
			Prompt:      lipgloss.NewStyle().Foreground(colorActive),
		},
		Blurred: textinput.StyleState{
			Text:        lipgloss.NewStyle().Foreground(colorLabel),
			Placeholder: lipgloss.NewStyle().Foreground(colorLabel),
			Prompt:      lipgloss.NewStyle().Foreground(colorHint),
		},
		Cursor: textinput.CursorStyle{
			Color: colorTitle,
			Shape: tea.CursorBar,
			Blink: true,
		},
	}

	inputs := make([]textinput.Model, len(fields))
	for i, field := range fields {
		input := textinput.New()
		input.Placeholder = field
		input.Prompt = "> "
		input.SetStyles(styles)
		input.SetWidth(60)
		if v, ok := initial[field]; ok {
			input.SetValue(v)
		}
		inputs[i] = input
	}

	m := &Model{
		title:  title,
		fields: fields,
		inputs: inputs,
		width:  70,
	}
	m.updateFocus()
	return m
}

// Run shows the form on the terminal and returns the entered values keyed by
// field name.
func Run(title string, fields []string, initial map[string]string) (map[string]string, error) {
	if len(fields) == 0 {
		return map[string]string{}, nil
	}

	p := tea.NewProgram(New(title, fields, initial))
	finalModel, err := p.Run()
	if err != nil {
		return nil, fmt.Errorf("form failed: %w", err)
	}

	m, ok := finalModel.(*Model)
	if !ok {
		return nil, fmt.Errorf("unexpected model type")
	}
	if m.cancelled {
		return nil, ErrCancelled
	}
	return m.Values(), nil
}

// Init starts the cursor blinking.
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles key presses and forwards everything else to the focused
// input.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		for i := range m.inputs {
			m.inputs[i].SetWidth(max(msg.Width-10, 10))
		}
		return m, nil

	case tea.KeyPressMsg:
		switch msg.String() {
		case "esc", "ctrl+c":
			m.cancelled = true
			return m, tea.Quit
		case "enter":
			if m.focus == len(m.inputs)-1 {
				m.done = true
				return m, tea.Quit
			}
			m.next()
			return m, nil
		case "tab", "down":
			m.next()
			return m, nil
		case "shift+tab", "up":
			m.prev()
			return m, nil
		}
	}

	if len(m.inputs) == 0 {
		return m, nil
	}
	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m *Model) next() {
	if len(m.inputs) == 0 {
		return
	}
	m.focus = (m.focus + 1) % len(m.inputs)
	m.updateFocus()
}

func (m *Model) prev() {
	if len(m.inputs) == 0 {
		return
	}
	m.focus = (m.focus - 1 + len(m.inputs)) % len(m.inputs)
	m.updateFocus()
}

func (m *Model) updateFocus() {
	for i := range m.inputs {
		if i == m.focus {
			m.inputs[i].Focus()
		} else {
			m.inputs[i].Blur()
		}
	}
}

// View renders the form.
func (m *Model) View() tea.View {
	var view tea.View
	if m.done || m.cancelled {
		view.Content = lipgloss.NewLayer("")
		return view
	}
	view.Content = lipgloss.NewLayer(m.render())
	return view
}

func (m *Model) render() string {
	titleStyle := lipgloss.NewStyle().Foreground(colorTitle).Bold(true)
	labelStyle := lipgloss.NewStyle().Foreground(colorLabel)
	activeStyle := lipgloss.NewStyle().Foreground(colorActive).Bold(true)
	hintStyle := lipgloss.NewStyle().Foreground(colorHint)

	var b strings.Builder
	b.WriteString(titleStyle.Render(m.title))
	b.WriteString("\n\n")

	for i, field := range m.fields {
		if i == m.focus {
			b.WriteString(activeStyle.Render(field))
		} else {
			b.WriteString(labelStyle.Render(field))
		}
		b.WriteString("\n")
		b.WriteString(m.inputs[i].View())
		b.WriteString("\n\n")
	}

	b.WriteString(hintStyle.Render(fmt.Sprintf("field %d/%d · tab next · shift+tab back · enter confirm · esc cancel", m.focus+1, len(m.fields))))
	b.WriteString("\n")
	return b.String()
}

// Values returns the current input values keyed by field name.
func (m *Model) Values() map[string]string {
	values := make(map[string]string, len(m.fields))
	for i, field := range m.fields {
		values[field] = m.inputs[i].Value()
	}
	return values
}

// Focused returns the name of the focused field.
func (m *Model) Focused() string {
	if len(m.fields) == 0 {
		return ""
	}
	return m.fields[m.focus]
}

// Done reports whether the user confirmed the last field.
func (m *Model) Done() bool {
	return m.done
}

// Cancelled reports whether the user left the form.
func (m *Model) Cancelled() bool {
	return m.cancelled
}
