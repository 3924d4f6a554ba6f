// Package tui provides the Bubble Tea game interface.
package tui

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/phonicpal/internal/audio"
	"github.com/verte-zerg/phonicpal/internal/media"
	"github.com/verte-zerg/phonicpal/internal/model"
	"github.com/verte-zerg/phonicpal/internal/nav"
	"github.com/verte-zerg/phonicpal/internal/session"
)

// Recorder persists finished sessions.
type Recorder interface {
	InsertSession(ctx context.Context, rec model.SessionRecord, attempts []model.WordAttempt) (int64, error)
}

// Options are the collaborators of the game UI.
type Options struct {
	Media    media.Service
	Mic      audio.Microphone
	Player   audio.Player
	Voices   media.Voices
	Recorder Recorder
	Logger   *slog.Logger
	Tick     session.TickFunc
	Now      func() time.Time
}

// Model implements the Bubble Tea game UI.
type Model struct {
	ctx  context.Context
	nav  *nav.Controller
	opts Options

	keys    keyMap
	help    help.Model
	spinner spinner.Model

	machine   *session.Machine
	startedAt time.Time
	lastQuit  bool
	cursor    int
	notice    string
	fanfare   audio.Playback
	picture   pictureCache

	width  int
	height int
}

// NewModel constructs the game UI over a navigation controller.
func NewModel(ctx context.Context, controller *nav.Controller, opts Options) *Model {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Player == nil {
		opts.Player = audio.SilentPlayer{}
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	m := &Model{
		ctx:     ctx,
		nav:     controller,
		opts:    opts,
		keys:    defaultKeyMap(),
		help:    help.New(),
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot)),
	}
	m.syncCursor()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Screen returns the screen being shown.
func (m *Model) Screen() nav.Screen {
	return m.nav.Screen()
}

// Machine returns the running session, or nil outside the game screen.
func (m *Model) Machine() *session.Machine {
	return m.machine
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil
	case spinner.TickMsg:
		if m.machine == nil {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case session.FinishedMsg:
		if m.machine != nil && msg.Session == m.machine.ID() {
			m.endGame(msg.Outcome)
		}
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	if m.machine == nil {
		session.Discard(msg)
		return m, nil
	}
	return m, m.machine.Update(msg)
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.notice = ""
	if key.Matches(msg, m.keys.Exit) {
		if m.machine != nil {
			m.machine.Quit()
			if out, ok := m.machine.Outcome(); ok {
				m.endGame(out)
			}
		}
		m.stopFanfare()
		return m, tea.Quit
	}
	switch m.nav.Screen() {
	case nav.Landing:
		return m.updateLanding(msg)
	case nav.AgeSelection:
		return m.updatePicker(msg, len(model.AgeGroups), func(i int) error {
			return m.nav.SelectAge(model.AgeGroups[i])
		})
	case nav.TopicSelection:
		return m.updatePicker(msg, len(model.Topics), func(i int) error {
			return m.nav.SelectTopic(model.Topics[i])
		})
	case nav.PreGame:
		return m.updatePreGame(msg)
	case nav.Game:
		return m, m.updateGame(msg)
	case nav.Finish:
		return m.updateFinish(msg)
	}
	return m, nil
}

func (m *Model) updateLanding(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit), key.Matches(msg, m.keys.Back):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Choose):
		m.apply(m.nav.Open())
	}
	return m, nil
}

func (m *Model) updatePicker(msg tea.KeyMsg, count int, choose func(int) error) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Back):
		m.apply(m.nav.Back())
	case key.Matches(msg, m.keys.Up):
		m.cursor = (m.cursor - 1 + count) % count
	case key.Matches(msg, m.keys.Down):
		m.cursor = (m.cursor + 1) % count
	case key.Matches(msg, m.keys.Choose):
		m.apply(choose(m.cursor))
	case msg.Type == tea.KeyRunes && len(msg.Runes) == 1:
		if n := int(msg.Runes[0] - '1'); n >= 0 && n < count {
			m.cursor = n
			m.apply(choose(n))
		}
	}
	return m, nil
}

func (m *Model) updatePreGame(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Back):
		m.apply(m.nav.Back())
	case key.Matches(msg, m.keys.Choose):
		return m, m.startGame()
	}
	return m, nil
}

func (m *Model) startGame() tea.Cmd {
	if err := m.nav.Start(); err != nil {
		if errors.Is(err, nav.ErrEmptyDeck) {
			m.notice = "There are no words here yet. Pick another topic!"
			return nil
		}
		m.apply(err)
		return nil
	}
	m.machine = session.New(m.ctx, m.nav.Deck(), session.Deps{
		Media:  m.opts.Media,
		Mic:    m.opts.Mic,
		Player: m.opts.Player,
		Voices: m.opts.Voices,
		Logger: m.opts.Logger,
		Tick:   m.opts.Tick,
	})
	m.startedAt = m.opts.Now()
	m.picture = pictureCache{}
	return tea.Batch(m.machine.Start(), m.spinner.Tick)
}

func (m *Model) updateGame(msg tea.KeyMsg) tea.Cmd {
	mc := m.machine
	if mc == nil {
		return nil
	}
	if mc.MicDenied() {
		switch {
		case key.Matches(msg, m.keys.Dismiss):
			mc.DismissMicError()
		case key.Matches(msg, m.keys.Quit):
			return mc.Quit()
		}
		return nil
	}
	switch {
	case key.Matches(msg, m.keys.Record):
		switch mc.State() {
		case session.Presenting:
			return mc.StartRecording()
		case session.Recording:
			return mc.StopRecording()
		case session.ReviewingResult:
			return mc.Advance()
		}
	case key.Matches(msg, m.keys.Retry):
		return mc.Retry()
	case key.Matches(msg, m.keys.Next):
		if mc.State() == session.ReviewingResult {
			return mc.Advance()
		}
		return mc.Skip()
	case key.Matches(msg, m.keys.Previous):
		return mc.Previous()
	case key.Matches(msg, m.keys.Listen):
		return mc.Listen()
	case key.Matches(msg, m.keys.Slow):
		return mc.ListenSlowly()
	case key.Matches(msg, m.keys.Definition):
		mc.ToggleDefinition()
	case key.Matches(msg, m.keys.EndSession):
		return mc.Quit()
	}
	return nil
}

func (m *Model) updateFinish(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit), key.Matches(msg, m.keys.Back):
		m.stopFanfare()
		return m, tea.Quit
	case key.Matches(msg, m.keys.Review):
		err := m.nav.Review()
		if errors.Is(err, nav.ErrNothingToReview) {
			m.notice = "No tricky words this time!"
			return m, nil
		}
		m.stopFanfare()
		m.apply(err)
	case key.Matches(msg, m.keys.Again):
		m.stopFanfare()
		m.apply(m.nav.Restart())
	}
	return m, nil
}

// endGame records the outcome and moves to the finish screen.
func (m *Model) endGame(out session.Outcome) {
	if m.machine == nil {
		return
	}
	m.machine = nil
	m.lastQuit = out.Quit
	m.persist(out)
	m.apply(m.nav.Finish(out.Stars, out.Struggled))
	m.playFanfare()
}

func (m *Model) persist(out session.Outcome) {
	if m.opts.Recorder == nil || (out.Quit && out.Completed == 0) {
		return
	}
	rec := model.SessionRecord{
		StartedAt: m.startedAt,
		EndedAt:   m.opts.Now(),
		Age:       m.nav.Age(),
		Topic:     m.nav.Topic(),
		Review:    m.nav.IsReview(),
		DeckSize:  len(m.nav.Deck()),
		Completed: out.Completed,
		Skipped:   out.Skipped,
		Stars:     out.Stars,
		Quit:      out.Quit,
	}
	id, err := m.opts.Recorder.InsertSession(m.ctx, rec, out.Attempts)
	if err != nil {
		m.opts.Logger.Warn("save session", "err", err)
		m.notice = "Could not save this game to history."
		return
	}
	m.opts.Logger.Info("session saved", "id", id, "stars", out.Stars, "completed", out.Completed)
}

func (m *Model) playFanfare() {
	pb, err := m.opts.Player.Play(audio.Fanfare())
	if err != nil {
		m.opts.Logger.Warn("play fanfare", "err", err)
		return
	}
	m.fanfare = pb
}

func (m *Model) stopFanfare() {
	if m.fanfare != nil {
		m.fanfare.Stop()
		m.fanfare = nil
	}
}

// apply logs a rejected navigation event and re-aims the picker cursor.
func (m *Model) apply(err error) {
	if err != nil {
		m.opts.Logger.Warn("navigation", "screen", m.nav.Screen().String(), "err", err)
	}
	m.syncCursor()
}

func (m *Model) syncCursor() {
	m.cursor = 0
	switch m.nav.Screen() {
	case nav.AgeSelection:
		for i, a := range model.AgeGroups {
			if a == m.nav.Age() {
				m.cursor = i
			}
		}
	case nav.TopicSelection:
		for i, t := range model.Topics {
			if t == m.nav.Topic() {
				m.cursor = i
			}
		}
	}
}

func (m *Model) contextKeys() []key.Binding {
	k := m.keys
	switch m.nav.Screen() {
	case nav.Landing:
		return []key.Binding{withHelp(k.Choose, "enter", "let's play"), k.Quit}
	case nav.AgeSelection, nav.TopicSelection:
		return []key.Binding{k.Up, k.Choose, k.Back, k.Quit}
	case nav.PreGame:
		if len(m.nav.Deck()) == 0 {
			return []key.Binding{k.Back, k.Quit}
		}
		return []key.Binding{withHelp(k.Choose, "enter", "start"), k.Back, k.Quit}
	case nav.Game:
		return m.gameKeys()
	case nav.Finish:
		keys := []key.Binding{}
		if len(m.nav.Struggled()) > 0 {
			keys = append(keys, k.Review)
		}
		return append(keys, k.Again, k.Quit)
	}
	return nil
}

func (m *Model) gameKeys() []key.Binding {
	k := m.keys
	mc := m.machine
	if mc == nil {
		return nil
	}
	if mc.MicDenied() {
		return []key.Binding{k.Dismiss}
	}
	switch mc.State() {
	case session.Recording:
		return []key.Binding{withHelp(k.Record, "enter", "stop"), k.EndSession}
	case session.Analyzing:
		return []key.Binding{k.EndSession}
	case session.ReviewingResult:
		return []key.Binding{withHelp(k.Record, "enter", "next"), k.Retry, k.Listen, k.Definition, k.EndSession}
	}
	keys := []key.Binding{k.Record, k.Listen, k.Slow, k.Definition, withHelp(k.Next, "n", "skip")}
	if mc.Index() > 0 {
		keys = append(keys, k.Previous)
	}
	return append(keys, k.EndSession)
}

func withHelp(b key.Binding, keyLabel, desc string) key.Binding {
	b.SetHelp(keyLabel, desc)
	return b
}

// View implements tea.Model.
func (m *Model) View() string {
	var body string
	switch m.nav.Screen() {
	case nav.Landing:
		body = m.viewLanding()
	case nav.AgeSelection:
		body = m.viewAgePicker()
	case nav.TopicSelection:
		body = m.viewTopicPicker()
	case nav.PreGame:
		body = m.viewPreGame()
	case nav.Game:
		body = m.viewGame()
	case nav.Finish:
		body = m.viewFinish()
	}
	footer := footerStyle.Render(m.help.ShortHelpView(m.contextKeys()))
	if m.notice != "" {
		footer = noticeStyle.Render(m.notice) + "\n" + footer
	}
	if m.width == 0 || m.height == 0 {
		return body + "\n\n" + footer
	}
	footerHeight := lipgloss.Height(footer)
	bodyHeight := max(1, m.height-footerHeight)
	return lipgloss.Place(m.width, bodyHeight, lipgloss.Center, lipgloss.Center, body) + "\n" +
		lipgloss.Place(m.width, footerHeight, lipgloss.Center, lipgloss.Top, footer)
}
