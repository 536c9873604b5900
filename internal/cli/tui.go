package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/modstack/pkg/deps"
)

var listDimStyle = lipgloss.NewStyle().Foreground(colorDim)

// =============================================================================
// ModListModel - Interactive mod selection
// =============================================================================

// ModListModel is the bubbletea model for interactive mod selection.
type ModListModel struct {
	Mods     []*deps.Mod
	Cursor   int
	Selected *deps.Mod
	Height   int
	Offset   int
}

// NewModListModel creates a new mod list model.
func NewModListModel(mods []*deps.Mod) ModListModel {
	return ModListModel{
		Mods:   mods,
		Height: 15,
	}
}

func (m ModListModel) Init() tea.Cmd {
	return nil
}

func (m ModListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Mods)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter":
			if len(m.Mods) == 0 {
				return m, nil
			}
			m.Selected = m.Mods[m.Cursor]
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-6, 5)
	}
	return m, nil
}

func (m ModListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Mod"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.Mods))

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		mod := m.Mods[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		rows = append(rows, []string{cursor, mod.Key(), nameOrDash(mod), dashIfEmpty(mod.Version().String()),
			fmt.Sprint(declaredCount(mod))})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Mod", "Name", "Version", "Deps").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if m.Offset+row == m.Cursor {
				return lipgloss.NewStyle().Foreground(colorGreen).Bold(true)
			}
			if col >= 3 {
				return lipgloss.NewStyle().Foreground(colorDim)
			}
			return lipgloss.NewStyle()
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Mods))))

	return b.String()
}
