package cli

import (
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/gemstar/pkg/errors"
	"github.com/matzehuels/gemstar/pkg/lockfile"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// PickModel - Interactive gem selection
// =============================================================================

// PickModel is the bubbletea model for choosing which changed gems to
// resolve. Every gem starts selected.
type PickModel struct {
	Changes  []lockfile.Change
	Cursor   int
	Chosen   map[int]bool
	Height   int
	Offset   int
	Done     bool // confirmed with enter
	Canceled bool // left with q or esc
}

// NewPickModel creates a pick model with all changes selected.
func NewPickModel(changes []lockfile.Change) PickModel {
	chosen := make(map[int]bool, len(changes))
	for i := range changes {
		chosen[i] = true
	}
	return PickModel{Changes: changes, Chosen: chosen, Height: 15}
}

func (m PickModel) Init() tea.Cmd {
	return nil
}

func (m PickModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.Canceled = true
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Changes)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case " ", "x":
			m.Chosen[m.Cursor] = !m.Chosen[m.Cursor]
		case "a":
			all := len(m.Selected()) < len(m.Changes)
			for i := range m.Changes {
				m.Chosen[i] = all
			}
		case "enter":
			m.Done = true
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-6, 5)
	}
	return m, nil
}

func (m PickModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Gems"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  space toggle  a all  ⏎ confirm  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.Changes))
	for i := m.Offset; i < end; i++ {
		ch := m.Changes[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		box := "[ ]"
		if m.Chosen[i] {
			box = "[x]"
		}
		old := ch.Old
		if ch.Added() {
			old = "new"
		}
		line := fmt.Sprintf("%s%s %-30s %s %s %s", cursor, box, ch.Name, old, iconArrow, ch.New)

		switch {
		case i == m.Cursor:
			b.WriteString(listSelectedStyle.Render(line))
		case !m.Chosen[i]:
			b.WriteString(listDimStyle.Render(line))
		default:
			b.WriteString(listNormalStyle.Render(line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d selected]", len(m.Selected()), len(m.Changes))))
	return b.String()
}

// Selected returns the names of the chosen gems in list order.
func (m PickModel) Selected() []string {
	var names []string
	for i, ch := range m.Changes {
		if m.Chosen[i] {
			names = append(names, ch.Name)
		}
	}
	return names
}

// pickChanges runs the picker on the terminal and returns the chosen gem
// names. Quitting without confirming selects nothing.
func pickChanges(changes []lockfile.Change) ([]string, error) {
	if !isTerminal(os.Stdin) || !isTerminal(os.Stdout) {
		return nil, errors.New(errors.ErrCodeInvalidInput, "--pick needs an interactive terminal")
	}
	final, err := tea.NewProgram(NewPickModel(changes)).Run()
	if err != nil {
		return nil, fmt.Errorf("run picker: %w", err)
	}
	m, ok := final.(PickModel)
	if !ok || !m.Done {
		return nil, nil
	}
	return m.Selected(), nil
}
