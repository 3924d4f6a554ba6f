package statsui

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/phonicpal/internal/model"
	"github.com/verte-zerg/phonicpal/internal/stats"
)

var (
	activeNavStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF")).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#F59E0B"))
	inactiveNavStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#9CA3AF")).
				Padding(0, 1).
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#4B5563"))
	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444"))
	cardStyle  = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4B5563"))
	cardTitleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#9CA3AF"))
	cardValueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FCD34D")).Bold(true)
)

func (m *Model) renderHeader() string {
	parts := make([]string, len(m.tabs))
	for i, tab := range m.tabs {
		if i == m.activeTab {
			parts[i] = activeNavStyle.Render(tab)
		} else {
			parts[i] = inactiveNavStyle.Render(tab)
		}
	}
	tabs := lipgloss.JoinHorizontal(lipgloss.Top, parts...)
	return tabs + "\n" + mutedStyle.Render(truncateLine(m.filterSummary(), m.width))
}

func (m *Model) filterSummary() string {
	age, topic, since, last := "any", "any", "any", "all"
	if m.cfg.Age.Valid() {
		age = m.cfg.Age.String()
	}
	if m.cfg.Topic.Valid() {
		topic = string(m.cfg.Topic)
	}
	if m.cfg.Since != nil {
		since = m.cfg.Since.Format("2006-01-02")
	}
	if m.cfg.Last > 0 {
		last = strconv.Itoa(m.cfg.Last)
	}
	return fmt.Sprintf("Filters: age=%s  topic=%s  since=%s  last=%s  window=%d", age, topic, since, last, m.cfg.CurveWindow)
}

func (m *Model) renderFooter() string {
	if m.filterMode {
		return mutedStyle.Render("tab/shift+tab: next field  enter: apply  esc: cancel")
	}
	help := mutedStyle.Render("Tabs: left/right  Scroll: up/down  Window: -/=  Filters: /  Quit: q")
	if m.errMsg != "" {
		return help + "\n" + errorStyle.Render(m.errMsg)
	}
	return help
}

func (m *Model) renderBody() string {
	if m.filterMode {
		return m.renderFilterForm()
	}
	if m.activeTab == tabWords {
		switch {
		case len(m.report.Sessions) == 0:
			return "No sessions found."
		case len(m.report.WordAggsWindow) == 0:
			return "No word stats found."
		}
		return m.words.View()
	}
	return m.viewports[m.activeTab].View()
}

func (m *Model) renderTabContents() {
	if m.errMsg != "" {
		for i := range m.viewports {
			m.viewports[i].SetContent("Failed to load history.")
		}
		return
	}
	width := m.width
	if width <= 0 {
		width = 80
	}
	m.viewports[tabOverview].SetContent(renderOverview(m.report.Sessions, m.cfg.CurveWindow, width))
	m.viewports[tabCurves].SetContent(renderWordCurves(m.report, m.cfg.CurveWindow, width))
}

func renderOverview(sessions []model.SessionAggregate, window, width int) string {
	if len(sessions) == 0 {
		return "No sessions found."
	}
	sum := stats.Summarize(sessions)
	cards := []string{
		metricCard("Sessions", strconv.Itoa(sum.Sessions)),
		metricCard("Words", strconv.Itoa(sum.Words)),
		metricCard("Stars", fmt.Sprintf("%.1f ⭐", sum.Stars)),
		metricCard("Avg Stars", fmt.Sprintf("%.0f%%", sum.AvgStarPct)),
		metricCard("Avg Score", fmt.Sprintf("%.0f", sum.AvgScore)),
	}
	var summary string
	if width < 80 {
		summary = strings.Join(cards, "\n")
	} else {
		summary = lipgloss.JoinHorizontal(lipgloss.Top, cards...)
	}
	var buf bytes.Buffer
	if err := stats.RenderCurvesWithSize(&buf, sessions, window, width, plotHeight, true); err != nil {
		return fmt.Sprintf("Failed to render curves: %v", err)
	}
	return strings.TrimRight(summary+"\n\n"+buf.String(), "\n")
}

func renderWordCurves(report stats.Report, window, width int) string {
	if len(report.Sessions) == 0 {
		return "No sessions found."
	}
	if len(report.CurveWords) == 0 {
		return "No tricky words yet. Every word is above the mastery line!"
	}
	header := mutedStyle.Render("Tricky words: " + strings.Join(report.CurveWords, ", "))
	var buf bytes.Buffer
	if err := stats.RenderWordCurvesWithSize(&buf, report.Sessions, report.WordScores, report.CurveWords, window, width, plotHeight, true); err != nil {
		return fmt.Sprintf("Failed to render word curves: %v", err)
	}
	return strings.TrimRight(header+"\n"+buf.String(), "\n")
}

func metricCard(label, value string) string {
	return cardStyle.Render(cardTitleStyle.Render(label) + "\n" + cardValueStyle.Render(value))
}

func newWordTable() table.Model {
	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "Word", Width: 16},
			{Title: "Avg Score", Width: 9},
			{Title: "Best", Width: 5},
			{Title: "Sessions", Width: 8},
			{Title: "Struggled", Width: 9},
		}),
		table.WithHeight(1),
	)
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4B5563")).
		Bold(true)
	styles.Selected = styles.Selected.
		Foreground(lipgloss.Color("#FCD34D")).
		Background(lipgloss.NoColor{})
	t.SetStyles(styles)
	return t
}

func wordRows(aggs []model.WordAggregate) []table.Row {
	sorted := stats.SortByDifficulty(aggs)
	rows := make([]table.Row, len(sorted))
	for i, agg := range sorted {
		rows[i] = table.Row{
			agg.Word,
			fmt.Sprintf("%.1f", stats.AverageScore(agg)),
			fmt.Sprintf("%.0f", agg.BestScore),
			strconv.Itoa(agg.Attempts),
			strconv.Itoa(agg.Struggled),
		}
	}
	return rows
}

func padLine(line string, width int) string {
	if w := lipgloss.Width(line); w < width {
		return line + strings.Repeat(" ", width-w)
	}
	return line
}

func fitLines(s string, width, height int) string {
	if width <= 0 || height <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	if len(lines) > height {
		lines = lines[:height]
	}
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width))
	}
	return strings.Join(lines, "\n")
}

func truncateLine(s string, width int) string {
	runes := []rune(s)
	if width <= 0 || len(runes) <= width {
		return s
	}
	if width <= 3 {
		return string(runes[:width])
	}
	return string(runes[:width-3]) + "..."
}
