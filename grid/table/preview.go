package table

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/gdamore/tcell/v2"
)

// renderCells converts screen cells to styled text. Neighbouring cells with
// the same style are rendered as one run.
func renderCells(cells []tcell.SimCell, width, height int) string {
	if width == 0 || height == 0 || len(cells) < width*height {
		return ""
	}
	styles := make(map[tcell.Style]lipgloss.Style)
	lines := make([]string, height)
	for y := 0; y < height; y++ {
		row := cells[y*width : (y+1)*width]
		var sb strings.Builder
		var run []rune
		runStyle := row[0].Style
		for x := 0; x <= width; x++ {
			if x < width && row[x].Style == runStyle {
				run = append(run, cellRunes(row[x])...)
				continue
			}
			sb.WriteString(styleFor(styles, runStyle).Render(string(run)))
			if x < width {
				runStyle = row[x].Style
				run = append(run[:0], cellRunes(row[x])...)
			}
		}
		lines[y] = strings.TrimRight(sb.String(), " ")
	}
	return strings.Join(lines, "\n")
}

func cellRunes(c tcell.SimCell) []rune {
	if len(c.Runes) == 0 {
		return []rune{' '}
	}
	return c.Runes
}

func styleFor(cache map[tcell.Style]lipgloss.Style, st tcell.Style) lipgloss.Style {
	if s, ok := cache[st]; ok {
		return s
	}
	fg, bg, attr := st.Decompose()
	s := lipgloss.NewStyle().Bold(attr&tcell.AttrBold != 0)
	if v := fg.Hex(); v >= 0 {
		s = s.Foreground(lipgloss.Color(fmt.Sprintf("#%06x", v)))
	}
	if v := bg.Hex(); v >= 0 {
		s = s.Background(lipgloss.Color(fmt.Sprintf("#%06x", v)))
	}
	cache[st] = s
	return s
}
