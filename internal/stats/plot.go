package stats

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/mattn/go-runewidth"
	"golang.org/x/term"
)

// Series is a named data series on the 0..100 scale.
type Series struct {
	Name   string
	Values []float64
}

// PlotOptions controls PlotSeries output.
type PlotOptions struct {
	Width  int
	Height int
	// Guide draws a dotted horizontal line at this value when positive.
	Guide     float64
	GuideName string
	// ForceColor emits ANSI colors even when w is not a terminal.
	ForceColor bool
}

type lineStyle struct {
	name   string
	period int
	on     int
}

const (
	defaultPlotHeight   = 10
	minPlotWidth        = 10
	scaleMax            = 100.0
	axisWidth           = 3
	axisSeparator       = " ┤ "
	colorReset          = "\x1b[0m"
	guideColor          = "\x1b[90m"
	terminalWidthBackup = 80
)

var lineStyles = []lineStyle{
	{name: "solid", period: 1, on: 1},
	{name: "dashed", period: 6, on: 3},
	{name: "dotted", period: 4, on: 1},
}

var palette = []string{"\x1b[33m", "\x1b[36m", "\x1b[35m", "\x1b[32m"}

// PlotSeries renders braille line charts of series on a fixed 0..100 axis.
func PlotSeries(w io.Writer, title string, series []Series, opts PlotOptions) error {
	series = nonEmpty(series)
	if len(series) == 0 {
		return nil
	}
	height := opts.Height
	if height <= 0 {
		height = defaultPlotHeight
	}
	width := opts.Width
	if width <= 0 {
		width = PlotWidthFor(terminalWidth())
	}
	if width < minPlotWidth {
		width = minPlotWidth
	}

	dotRows := height * 4
	layers := make([][][]uint8, len(series))
	for si, s := range series {
		layers[si] = makeCells(height, width)
		style := lineStyles[si%len(lineStyles)]
		prevX, prevY := -1, -1
		for x, v := range resample(s.Values, width) {
			px, py := x*2, scoreRow(v, dotRows)
			if prevX < 0 {
				if style.shouldPlot(px) {
					setDot(layers[si], px, py)
				}
			} else {
				drawLine(prevX, prevY, px, py, func(dx, dy int) {
					if style.shouldPlot(dx) {
						setDot(layers[si], dx, dy)
					}
				})
			}
			prevX, prevY = px, py
		}
	}
	var guide [][]uint8
	if opts.Guide > 0 {
		guide = makeCells(height, width)
		gy := scoreRow(opts.Guide, dotRows)
		for x := 0; x < width*2; x += 4 {
			setDot(guide, x, gy)
		}
	}

	useColor := shouldUseColor(w, opts.ForceColor)
	var b strings.Builder
	if title != "" {
		b.WriteString(title)
		b.WriteByte('\n')
	}
	for y := 0; y < height; y++ {
		fmt.Fprintf(&b, "%*s%s", axisWidth, axisLabel(y, height), axisSeparator)
		for x := 0; x < width; x++ {
			mask, idx := compose(layers, x, y)
			switch {
			case mask != 0 && useColor:
				b.WriteString(palette[idx%len(palette)])
				b.WriteRune(braille(mask))
				b.WriteString(colorReset)
			case mask != 0:
				b.WriteRune(braille(mask))
			case guide != nil && guide[y][x] != 0 && useColor:
				b.WriteString(guideColor)
				b.WriteRune(braille(guide[y][x]))
				b.WriteString(colorReset)
			case guide != nil && guide[y][x] != 0:
				b.WriteRune(braille(guide[y][x]))
			default:
				b.WriteRune(braille(0))
			}
		}
		b.WriteByte('\n')
	}
	b.WriteString(legend(series, opts, useColor))
	b.WriteString("\n\n")
	_, err := io.WriteString(w, b.String())
	return err
}

func nonEmpty(series []Series) []Series {
	out := make([]Series, 0, len(series))
	for _, s := range series {
		if len(s.Values) > 0 {
			out = append(out, s)
		}
	}
	return out
}

// PlotWidthFor computes a plot width that fits within the total available width.
func PlotWidthFor(totalWidth int) int {
	if totalWidth <= 0 {
		return minPlotWidth
	}
	plotWidth := totalWidth - axisWidth - runewidth.StringWidth(axisSeparator)
	if plotWidth < minPlotWidth {
		plotWidth = minPlotWidth
	}
	return plotWidth
}

func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return terminalWidthBackup
	}
	return width
}

func shouldUseColor(w io.Writer, force bool) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if force {
		return true
	}
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(file.Fd()))
}

func axisLabel(y, height int) string {
	switch {
	case y == 0:
		return "100"
	case y == height-1:
		return "0"
	case height > 2 && y == height/2:
		return "50"
	}
	return ""
}

func legend(series []Series, opts PlotOptions, useColor bool) string {
	parts := make([]string, 0, len(series)+1)
	for i, s := range series {
		last := s.Values[len(s.Values)-1]
		label := fmt.Sprintf("%s %s (%s, last %.0f)", string(braille(0x09)), s.Name, lineStyles[i%len(lineStyles)].name, last)
		if useColor {
			label = palette[i%len(palette)] + label + colorReset
		}
		parts = append(parts, label)
	}
	if opts.Guide > 0 {
		name := opts.GuideName
		if name == "" {
			name = "guide"
		}
		parts = append(parts, fmt.Sprintf("┈ %s %.0f", name, opts.Guide))
	}
	return "Legend: " + strings.Join(parts, "  ")
}

func (ls lineStyle) shouldPlot(x int) bool {
	if ls.period <= 1 {
		return true
	}
	if x < 0 {
		x = -x
	}
	return x%ls.period < ls.on
}

// resample stretches or averages values to exactly width points.
func resample(values []float64, width int) []float64 {
	if len(values) == 0 || width <= 0 {
		return nil
	}
	out := make([]float64, width)
	n := len(values)
	if n >= width {
		for i := range out {
			start := i * n / width
			end := (i + 1) * n / width
			if end <= start {
				end = start + 1
			}
			var sum float64
			for _, v := range values[start:end] {
				sum += v
			}
			out[i] = sum / float64(end-start)
		}
		return out
	}
	if n == 1 || width == 1 {
		for i := range out {
			out[i] = values[0]
		}
		return out
	}
	for i := range out {
		pos := float64(i) * float64(n-1) / float64(width-1)
		idx := int(pos)
		if idx >= n-1 {
			out[i] = values[n-1]
			continue
		}
		frac := pos - float64(idx)
		out[i] = values[idx]*(1-frac) + values[idx+1]*frac
	}
	return out
}

// scoreRow maps a 0..100 value to a dot row, top row first.
func scoreRow(v float64, rows int) int {
	if rows <= 1 {
		return 0
	}
	v = math.Max(0, math.Min(scaleMax, v))
	return int(math.Round((1 - v/scaleMax) * float64(rows-1)))
}

func makeCells(height, width int) [][]uint8 {
	cells := make([][]uint8, height)
	for y := range cells {
		cells[y] = make([]uint8, width)
	}
	return cells
}

func compose(layers [][][]uint8, x, y int) (uint8, int) {
	var mask uint8
	idx := -1
	for i, cells := range layers {
		if m := cells[y][x]; m != 0 {
			if idx < 0 {
				idx = i
			}
			mask |= m
		}
	}
	return mask, idx
}

// drawLine walks a Bresenham line between two dot coordinates.
func drawLine(x0, y0, x1, y1 int, plot func(x, y int)) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	e := dx + dy
	for {
		plot(x0, y0)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x0 += sx
		}
		if e2 <= dx {
			e += dx
			y0 += sy
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// Braille cells are 2 dots wide and 4 dots tall.
var dotBits = [2][4]uint8{
	{0x01, 0x02, 0x04, 0x40},
	{0x08, 0x10, 0x20, 0x80},
}

func setDot(cells [][]uint8, x, y int) {
	cy, cx := y/4, x/2
	if x < 0 || y < 0 || cy >= len(cells) || cx >= len(cells[cy]) {
		return
	}
	cells[cy][cx] |= dotBits[x%2][y%4]
}

func braille(mask uint8) rune {
	return rune(0x2800 + int(mask))
}
