package cli

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/mcviz/pkg/glyph"
)

// glyphPicker is the bubbletea model behind "glyphs pick".
type glyphPicker struct {
	glyphs   []glyph.Glyph
	cursor   int
	offset   int
	height   int
	selected *glyph.Glyph
}

func newGlyphPicker(glyphs []glyph.Glyph) glyphPicker {
	return glyphPicker{glyphs: glyphs, height: 15}
}

func (m glyphPicker) Init() tea.Cmd { return nil }

func (m glyphPicker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
				if m.cursor < m.offset {
					m.offset = m.cursor
				}
			}
		case "down", "j":
			if m.cursor < len(m.glyphs)-1 {
				m.cursor++
				if m.cursor >= m.offset+m.height {
					m.offset = m.cursor - m.height + 1
				}
			}
		case "enter":
			if len(m.glyphs) == 0 {
				return m, tea.Quit
			}
			g := m.glyphs[m.cursor]
			m.selected = &g
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.height = max(msg.Height-6, 5)
	}
	return m, nil
}

func (m glyphPicker) View() string {
	var b strings.Builder
	b.WriteString(StyleTitle.Render("Select Glyph"))
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("↑/↓ navigate  ⏎ select  q quit"))
	b.WriteString("\n\n")

	end := min(m.offset+m.height, len(m.glyphs))
	rows := make([][]string, 0, end-m.offset)
	for i := m.offset; i < end; i++ {
		g := m.glyphs[i]
		cursor := "  "
		if i == m.cursor {
			cursor = "▸ "
		}
		rows = append(rows, []string{cursor, strconv.Itoa(g.PDGID), strings.Join(g.Names, ", ")})
	}

	header := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(StyleDim).
		Headers("", "PDGID", "Names").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return header
			}
			if m.offset+row == m.cursor {
				return lipgloss.NewStyle().Foreground(colorGreen).Bold(true)
			}
			return lipgloss.NewStyle().Foreground(colorDim)
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(StyleDim.Render(fmt.Sprintf("  [%d/%d]", m.cursor+1, len(m.glyphs))))
	return b.String()
}
