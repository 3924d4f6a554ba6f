package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// wrapCell is one rune of text with its display width.
type wrapCell struct {
	s       string
	width   int
	isSpace bool
}

func buildCells(text string) []wrapCell {
	out := make([]wrapCell, 0, len(text))
	for _, r := range text {
		if r == '\n' || r == '\t' {
			r = ' '
		}
		out = append(out, wrapCell{
			s:       string(r),
			width:   runewidth.RuneWidth(r),
			isSpace: r == ' ',
		})
	}
	return out
}

func joinCells(runes []wrapCell) string {
	var b strings.Builder
	for _, item := range runes {
		b.WriteString(item.s)
	}
	return b.String()
}

// wrapText breaks text at spaces so no line exceeds width cells and styles
// each line. Words longer than width are split.
func wrapText(text string, style lipgloss.Style, width int) string {
	lines := wrapCells(buildCells(text), width)
	for i, line := range lines {
		lines[i] = style.Render(line)
	}
	return strings.Join(lines, "\n")
}

func wrapCells(runes []wrapCell, width int) []string {
	if width <= 0 {
		return []string{joinCells(runes)}
	}
	var lines []string
	line := make([]wrapCell, 0, len(runes))
	lineWidth := 0
	lastSpaceIdx := -1

	flush := func(part []wrapCell) {
		lines = append(lines, joinCells(part))
	}
	for i := 0; i < len(runes); {
		item := runes[i]
		if item.isSpace && len(line) == 0 {
			i++
			continue
		}
		if lineWidth+item.width > width && len(line) > 0 {
			if lastSpaceIdx >= 0 {
				flush(line[:lastSpaceIdx])
				line = append([]wrapCell{}, line[lastSpaceIdx+1:]...)
			} else {
				flush(line)
				line = line[:0]
			}
			lineWidth = lineWidthOf(line)
			lastSpaceIdx = lastSpaceIndex(line)
			continue
		}
		line = append(line, item)
		lineWidth += item.width
		if item.isSpace {
			lastSpaceIdx = len(line) - 1
		}
		i++
	}
	if len(line) > 0 {
		flush(line)
	}
	return lines
}

func lineWidthOf(line []wrapCell) int {
	total := 0
	for _, item := range line {
		total += item.width
	}
	return total
}

func lastSpaceIndex(line []wrapCell) int {
	for i := len(line) - 1; i >= 0; i-- {
		if line[i].isSpace {
			return i
		}
	}
	return -1
}
