package statsui

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/phonicpal/internal/model"
)

const (
	fieldAge = iota
	fieldTopic
	fieldSince
	fieldLast
	fieldWindow
)

func (m *Model) initInputs() {
	m.filterInputs = []textinput.Model{
		newFilterInput("Age (e.g. grade2): "),
		newFilterInput("Topic (e.g. nature): "),
		newFilterInput("Since (YYYY-MM-DD): "),
		newFilterInput("Last: "),
		newFilterInput("Curve window: "),
	}
	m.setInputsFromConfig()
}

func newFilterInput(prompt string) textinput.Model {
	input := textinput.New()
	input.Prompt = prompt
	input.Cursor.SetMode(cursor.CursorBlink)
	return input
}

func (m *Model) setInputsFromConfig() {
	m.filterInputs[fieldAge].SetValue(m.cfg.Age.Slug())
	m.filterInputs[fieldTopic].SetValue(m.cfg.Topic.Slug())
	since := ""
	if m.cfg.Since != nil {
		since = m.cfg.Since.Format("2006-01-02")
	}
	m.filterInputs[fieldSince].SetValue(since)
	last := ""
	if m.cfg.Last > 0 {
		last = strconv.Itoa(m.cfg.Last)
	}
	m.filterInputs[fieldLast].SetValue(last)
	m.filterInputs[fieldWindow].SetValue(strconv.Itoa(m.cfg.CurveWindow))
}

func (m *Model) startFilter() (tea.Model, tea.Cmd) {
	m.filterMode = true
	m.filterError = ""
	m.setInputsFromConfig()
	return m, m.setFilterIndex(0)
}

func (m *Model) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.filterMode = false
		m.filterError = ""
		return m, nil
	case tea.KeyEnter:
		cfg, err := parseFilters(m.filterInputs)
		if err != nil {
			m.filterError = err.Error()
			return m, nil
		}
		m.cfg = cfg
		m.filterMode = false
		m.filterError = ""
		m.refreshReport()
		return m, nil
	case tea.KeyTab, tea.KeyDown:
		return m, m.setFilterIndex(m.filterIndex + 1)
	case tea.KeyShiftTab, tea.KeyUp:
		return m, m.setFilterIndex(m.filterIndex - 1)
	}
	var cmd tea.Cmd
	m.filterInputs[m.filterIndex], cmd = m.filterInputs[m.filterIndex].Update(msg)
	return m, cmd
}

func (m *Model) setFilterIndex(idx int) tea.Cmd {
	count := len(m.filterInputs)
	m.filterIndex = (idx + count) % count
	var cmd tea.Cmd
	for i := range m.filterInputs {
		if i == m.filterIndex {
			cmd = m.filterInputs[i].Focus()
		} else {
			m.filterInputs[i].Blur()
		}
	}
	return cmd
}

func (m *Model) renderFilterForm() string {
	lines := []string{"Filters (enter to apply, esc to cancel)"}
	for _, input := range m.filterInputs {
		lines = append(lines, input.View())
	}
	if m.filterError != "" {
		lines = append(lines, errorStyle.Render(m.filterError))
	}
	return strings.Join(lines, "\n")
}

func parseFilters(inputs []textinput.Model) (model.StatsConfig, error) {
	var cfg model.StatsConfig
	if v := strings.TrimSpace(inputs[fieldAge].Value()); v != "" {
		age, err := model.ParseAgeGroup(v)
		if err != nil {
			return cfg, err
		}
		cfg.Age = age
	}
	if v := strings.TrimSpace(inputs[fieldTopic].Value()); v != "" {
		topic, err := model.ParseTopic(v)
		if err != nil {
			return cfg, err
		}
		cfg.Topic = topic
	}
	if v := strings.TrimSpace(inputs[fieldSince].Value()); v != "" {
		parsed, err := time.ParseInLocation("2006-01-02", v, time.Local)
		if err != nil {
			return cfg, errors.New("invalid since date (expected YYYY-MM-DD)")
		}
		cfg.Since = &parsed
	}
	if v := strings.TrimSpace(inputs[fieldLast].Value()); v != "" {
		last, err := strconv.Atoi(v)
		if err != nil || last < 0 {
			return cfg, errors.New("invalid last value (use 0 or a positive integer)")
		}
		cfg.Last = last
	}
	cfg.CurveWindow = 1
	if v := strings.TrimSpace(inputs[fieldWindow].Value()); v != "" {
		window, err := strconv.Atoi(v)
		if err != nil || window < 1 {
			return cfg, errors.New("invalid curve window (use an integer >= 1)")
		}
		cfg.CurveWindow = window
	}
	return cfg, nil
}
