package commands

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// maxVisible caps the list shown under the filter.
const maxVisible = 10

type drugModel struct {
	input   textinput.Model
	choices []string
	matches []string
	cursor  int
	chosen  string
}

func initialDrugModel(drugs []string) drugModel {
	ti := textinput.New()
	ti.Placeholder = "filter"
	ti.Prompt = "> "
	ti.Focus()

	return drugModel{
		input:   ti,
		choices: drugs,
		matches: drugs,
	}
}

func (m drugModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m drugModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyUp:
			if m.cursor > 0 {
				m.cursor--
			}
			return m, nil
		case tea.KeyDown:
			if m.cursor < len(m.matches)-1 {
				m.cursor++
			}
			return m, nil
		case tea.KeyEnter:
			if len(m.matches) > 0 {
				m.chosen = m.matches[m.cursor]
			}
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.filter()
	return m, cmd
}

func (m *drugModel) filter() {
	q := strings.ToLower(strings.TrimSpace(m.input.Value()))
	if q == "" {
		m.matches = m.choices
	} else {
		m.matches = nil
		for _, d := range m.choices {
			if strings.Contains(strings.ToLower(d), q) {
				m.matches = append(m.matches, d)
			}
		}
	}
	if m.cursor >= len(m.matches) {
		m.cursor = max(len(m.matches)-1, 0)
	}
}

func (m drugModel) View() string {
	s := strings.Builder{}
	s.WriteString(lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205")).Render("? Which drug do you want to draw?"))
	s.WriteString("\n\n")
	s.WriteString(m.input.View())
	s.WriteString("\n\n")

	start := 0
	if m.cursor >= maxVisible {
		start = m.cursor - maxVisible + 1
	}
	for i := start; i < len(m.matches) && i < start+maxVisible; i++ {
		cursor := " "
		if m.cursor == i {
			cursor = ">"
		}
		s.WriteString(fmt.Sprintf("%s %s\n", cursor, m.matches[i]))
	}
	if len(m.matches) == 0 {
		s.WriteString("  (no match)\n")
	}

	s.WriteString(fmt.Sprintf("\n%d/%d  (type to filter, [enter] to confirm, [esc] to cancel)\n", len(m.matches), len(m.choices)))
	return s.String()
}

// PromptForDrug lets the user pick one of drugs. An empty result means the
// prompt was cancelled.
func PromptForDrug(drugs []string) (string, error) {
	p := tea.NewProgram(initialDrugModel(drugs))
	m, err := p.Run()
	if err != nil {
		return "", err
	}

	if dm, ok := m.(drugModel); ok {
		return dm.chosen, nil
	}
	return "", nil
}
