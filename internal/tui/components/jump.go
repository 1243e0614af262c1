package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/evgengiga/dashbord/internal/tui/themes"
	"github.com/sahilm/fuzzy"
)

const maxJumpResults = 10

// JumpModel is a fuzzy prompt over dashboard item titles.
type JumpModel struct {
	theme   themes.Theme
	input   textinput.Model
	titles  []string
	results []int
	cursor  int
}

// NewJumpModel creates a focused prompt over titles.
func NewJumpModel(titles []string, theme themes.Theme) JumpModel {
	input := textinput.New()
	input.Placeholder = "Перейти к таблице..."
	input.Prompt = "/ "
	input.CharLimit = 64
	input.Focus()

	m := JumpModel{theme: theme, input: input, titles: titles}
	m.filter()
	return m
}

// Init starts the cursor blink.
func (m JumpModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles key input.
func (m JumpModel) Update(msg tea.Msg) (JumpModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.Type {
		case tea.KeyEsc, tea.KeyCtrlC:
			return m, func() tea.Msg { return JumpCanceledMsg{} }
		case tea.KeyEnter:
			if len(m.results) == 0 {
				return m, nil
			}
			index := m.results[m.cursor]
			return m, func() tea.Msg { return JumpSelectedMsg{Index: index} }
		case tea.KeyUp, tea.KeyCtrlP:
			if m.cursor > 0 {
				m.cursor--
			}
			return m, nil
		case tea.KeyDown, tea.KeyCtrlN:
			if m.cursor < len(m.results)-1 {
				m.cursor++
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.filter()
	return m, cmd
}

// Query returns the current input.
func (m JumpModel) Query() string {
	return m.input.Value()
}

// Results returns matching item indexes, best first.
func (m JumpModel) Results() []int {
	return m.results
}

func (m *JumpModel) filter() {
	query := strings.TrimSpace(m.input.Value())
	results := make([]int, 0, len(m.titles))
	if query == "" {
		for i := range m.titles {
			results = append(results, i)
		}
	} else {
		for _, match := range fuzzy.Find(query, m.titles) {
			results = append(results, match.Index)
		}
	}
	if len(results) > maxJumpResults {
		results = results[:maxJumpResults]
	}
	m.results = results
	if m.cursor >= len(m.results) {
		m.cursor = max(len(m.results)-1, 0)
	}
}

// View renders the prompt and its matches.
func (m JumpModel) View() string {
	lines := []string{m.input.View(), ""}
	if len(m.results) == 0 {
		lines = append(lines, m.theme.Placeholder.Render("Ничего не найдено"))
	}
	for i, idx := range m.results {
		line := "  " + m.titles[idx]
		if i == m.cursor {
			line = m.theme.Selected.Render("› " + m.titles[idx])
		}
		lines = append(lines, line)
	}
	return m.theme.BorderedBox.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}
