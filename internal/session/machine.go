// Package session drives one practice deck through presentation, recording,
// scoring and advance.
package session

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/phonicpal/internal/audio"
	"github.com/verte-zerg/phonicpal/internal/media"
	"github.com/verte-zerg/phonicpal/internal/model"
)

// State is the phase of the current word.
type State int

// Session states.
const (
	Presenting State = iota
	Recording
	Analyzing
	ReviewingResult
	Finished
)

func (s State) String() string {
	switch s {
	case Presenting:
		return "presenting"
	case Recording:
		return "recording"
	case Analyzing:
		return "analyzing"
	case ReviewingResult:
		return "reviewing"
	case Finished:
		return "finished"
	default:
		return "unknown"
	}
}

const (
	narrateDelay  = 400 * time.Millisecond
	feedbackDelay = 800 * time.Millisecond
)

// Outcome is the result of a finished session.
type Outcome struct {
	Stars     float64
	Struggled []model.WordEntry
	Attempts  []model.WordAttempt
	Completed int
	Skipped   int
	Quit      bool
}

// TickFunc schedules a message after d. tea.Tick is the default.
type TickFunc func(d time.Duration, fn func(time.Time) tea.Msg) tea.Cmd

// Deps are the collaborators of a Machine.
type Deps struct {
	Media    media.Service
	Mic      audio.Microphone
	Player   audio.Player
	Voices   media.Voices
	Logger   *slog.Logger
	OnFinish func(Outcome)
	Tick     TickFunc
}

// machineSeq gives every machine a distinct id; tokens alone restart at
// zero with each machine.
var machineSeq atomic.Uint64

// Machine is the session state machine. It is not safe for concurrent use;
// drive it from the Bubble Tea update loop.
type Machine struct {
	id   uint64
	deps Deps

	deck      []model.WordEntry
	index     int
	state     State
	scored    map[int]model.WordAttempt
	order     []int
	skipped   map[int]struct{}
	result    *model.AssessmentResult
	remaining int

	showDefinition bool
	micDenied      bool
	micPending     bool
	speaking       bool
	image          []byte
	imageLoading   bool

	wordGen   int
	attempt   int
	narration int

	ctx        context.Context
	cancel     context.CancelFunc
	wordCtx    context.Context
	wordCancel context.CancelFunc
	capture    audio.Capture
	playback   audio.Playback

	outcome *Outcome
}

// New returns a machine for deck. Call Start to present the first word.
func New(ctx context.Context, deck []model.WordEntry, deps Deps) *Machine {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Tick == nil {
		deps.Tick = tea.Tick
	}
	if deps.Player == nil {
		deps.Player = audio.SilentPlayer{}
	}
	if deps.Voices.Teacher == "" {
		deps.Voices.Teacher = media.DefaultVoices.Teacher
	}
	if deps.Voices.Coach == "" {
		deps.Voices.Coach = media.DefaultVoices.Coach
	}
	ctx, cancel := context.WithCancel(ctx)
	return &Machine{
		id:      machineSeq.Add(1),
		deps:    deps,
		deck:    append([]model.WordEntry(nil), deck...),
		scored:  make(map[int]model.WordAttempt),
		skipped: make(map[int]struct{}),
		ctx:     ctx,
		cancel:  cancel,
	}
}

// ID identifies the machine; FinishedMsg carries it.
func (m *Machine) ID() uint64 { return m.id }

func (m *Machine) stamp() stamp { return stamp{sid: m.id} }

// Start presents the first word. An empty deck finishes immediately.
func (m *Machine) Start() tea.Cmd {
	if m.state == Finished {
		return nil
	}
	if len(m.deck) == 0 {
		return m.finish(false)
	}
	return m.enterWord(0)
}

// State returns the current state.
func (m *Machine) State() State { return m.state }

// Index returns the cursor into the deck.
func (m *Machine) Index() int { return m.index }

// Len returns the deck length.
func (m *Machine) Len() int { return len(m.deck) }

// Deck returns a copy of the deck.
func (m *Machine) Deck() []model.WordEntry {
	return append([]model.WordEntry(nil), m.deck...)
}

// Current returns the word under the cursor.
func (m *Machine) Current() (model.WordEntry, bool) {
	if m.index < 0 || m.index >= len(m.deck) {
		return model.WordEntry{}, false
	}
	return m.deck[m.index], true
}

// Result returns the assessment of the current attempt, if any.
func (m *Machine) Result() (model.AssessmentResult, bool) {
	if m.result == nil {
		return model.AssessmentResult{}, false
	}
	return *m.result, true
}

// SessionStars returns the accumulated stars.
func (m *Machine) SessionStars() float64 {
	total := 0.0
	for _, a := range m.scored {
		total += a.Stars
	}
	return total
}

// StruggledWords returns the struggled words in the order they were advanced.
func (m *Machine) StruggledWords() []model.WordEntry {
	var out []model.WordEntry
	for _, idx := range m.order {
		if m.scored[idx].Struggled {
			out = append(out, m.deck[idx])
		}
	}
	return out
}

// Completed returns the number of scored and advanced words.
func (m *Machine) Completed() int { return len(m.scored) }

// IsCompleted reports whether the word at i has been scored and advanced.
func (m *Machine) IsCompleted(i int) bool {
	_, ok := m.scored[i]
	return ok
}

// Remaining returns the recording countdown in seconds.
func (m *Machine) Remaining() int { return m.remaining }

// Speaking reports whether narration is being fetched or played.
func (m *Machine) Speaking() bool { return m.speaking }

// MicDenied reports that the last capture attempt failed to open the microphone.
func (m *Machine) MicDenied() bool { return m.micDenied }

// MicPending reports that a capture start is in flight.
func (m *Machine) MicPending() bool { return m.micPending }

// ShowDefinition reports whether the definition is revealed.
func (m *Machine) ShowDefinition() bool { return m.showDefinition }

// Image returns the current word's illustration, or nil.
func (m *Machine) Image() []byte { return m.image }

// ImageLoading reports whether the illustration is being fetched.
func (m *Machine) ImageLoading() bool { return m.imageLoading }

// Outcome returns the final outcome once finished.
func (m *Machine) Outcome() (Outcome, bool) {
	if m.outcome == nil {
		return Outcome{}, false
	}
	return *m.outcome, true
}

// StartRecording opens the microphone. It is ignored unless a word is being
// presented and no capture start is already pending.
func (m *Machine) StartRecording() tea.Cmd {
	st := m.stamp()
	if m.state != Presenting || m.micPending {
		return nil
	}
	m.stopPlayback()
	m.micPending = true
	m.micDenied = false
	m.result = nil
	m.attempt++
	attempt := m.attempt
	ctx := m.wordCtx
	mic := m.deps.Mic
	return func() tea.Msg {
		if mic == nil {
			return micReadyMsg{stamp: st, attempt: attempt, err: audio.ErrMicAccessDenied}
		}
		capture, err := mic.Acquire(ctx)
		return micReadyMsg{stamp: st, attempt: attempt, capture: capture, err: err}
	}
}

// StopRecording ends the recording early and sends it for scoring.
func (m *Machine) StopRecording() tea.Cmd {
	if m.state != Recording {
		return nil
	}
	return m.stopRecording()
}

// Retry discards the current result and presents the same word again.
func (m *Machine) Retry() tea.Cmd {
	if m.state != ReviewingResult {
		return nil
	}
	m.stopPlayback()
	m.attempt++
	m.result = nil
	m.state = Presenting
	return nil
}

// Advance credits the reviewed result and moves to the next word.
func (m *Machine) Advance() tea.Cmd {
	if m.state != ReviewingResult || m.result == nil {
		return nil
	}
	m.credit(*m.result)
	return m.next()
}

// Skip passes over the presented word without scoring it.
func (m *Machine) Skip() tea.Cmd {
	if m.state != Presenting || m.micPending {
		return nil
	}
	if _, done := m.scored[m.index]; !done {
		m.skipped[m.index] = struct{}{}
	}
	return m.next()
}

// Previous returns to the prior word.
func (m *Machine) Previous() tea.Cmd {
	if m.state != Presenting || m.micPending || m.index == 0 {
		return nil
	}
	return m.enterWord(m.index - 1)
}

// Quit finishes the session from any state, keeping what was earned so far.
func (m *Machine) Quit() tea.Cmd {
	if m.state == Finished {
		return nil
	}
	return m.finish(true)
}

// Listen narrates the current word again.
func (m *Machine) Listen() tea.Cmd {
	return m.listen(media.SayWordAgain)
}

// ListenSlowly narrates the current word slowly.
func (m *Machine) ListenSlowly() tea.Cmd {
	return m.listen(media.SayWordSlowly)
}

func (m *Machine) listen(instruction string) tea.Cmd {
	if m.state != Presenting && m.state != ReviewingResult {
		return nil
	}
	if m.speaking || m.micPending {
		return nil
	}
	word, ok := m.Current()
	if !ok {
		return nil
	}
	return m.narrate(word.Word, instruction, m.deps.Voices.Teacher)
}

// ToggleDefinition shows or hides the definition.
func (m *Machine) ToggleDefinition() {
	if m.state == Finished {
		return
	}
	m.showDefinition = !m.showDefinition
}

// DismissMicError closes the microphone error.
func (m *Machine) DismissMicError() {
	m.micDenied = false
}

// Update consumes the machine's own messages.
func (m *Machine) Update(msg tea.Msg) tea.Cmd {
	if s, ok := msg.(stamped); ok && s.session() != m.id {
		Discard(msg)
		return nil
	}
	switch msg := msg.(type) {
	case illustrationMsg:
		return m.handleIllustration(msg)
	case narrateWordMsg:
		if msg.gen != m.wordGen || m.state != Presenting || m.micPending {
			return nil
		}
		word, ok := m.Current()
		if !ok {
			return nil
		}
		return m.narrate(word.Word, media.SayWord, m.deps.Voices.Teacher)
	case narrationAudioMsg:
		return m.handleNarrationAudio(msg)
	case narrationEndedMsg:
		if msg.seq == m.narration {
			m.playback = nil
			m.speaking = false
		}
		return nil
	case micReadyMsg:
		return m.handleMicReady(msg)
	case tickMsg:
		if msg.attempt != m.attempt || m.state != Recording {
			return nil
		}
		m.remaining--
		if m.remaining <= 0 {
			return m.stopRecording()
		}
		return m.tick()
	case scoreMsg:
		return m.handleScore(msg)
	case feedbackMsg:
		if msg.attempt != m.attempt || m.state != ReviewingResult || m.result == nil {
			return nil
		}
		return m.narrate(media.SpokenFeedback(m.result.Feedback, m.result.CoachingTip), media.GiveFeedback, m.deps.Voices.Coach)
	}
	return nil
}

func (m *Machine) handleIllustration(msg illustrationMsg) tea.Cmd {
	if msg.gen != m.wordGen {
		return nil
	}
	m.imageLoading = false
	if msg.err != nil {
		if !errors.Is(msg.err, context.Canceled) {
			m.deps.Logger.Warn("illustration failed", "err", msg.err)
		}
		return nil
	}
	m.image = msg.image
	return nil
}

func (m *Machine) handleNarrationAudio(msg narrationAudioMsg) tea.Cmd {
	if msg.seq != m.narration {
		return nil
	}
	if msg.err != nil {
		m.speaking = false
		if !errors.Is(msg.err, context.Canceled) {
			m.deps.Logger.Warn("narration failed", "err", msg.err)
		}
		return nil
	}
	if m.state == Recording || m.state == Analyzing || m.state == Finished {
		m.speaking = false
		return nil
	}
	return m.play(msg.pcm, true)
}

func (m *Machine) handleMicReady(msg micReadyMsg) tea.Cmd {
	if msg.attempt != m.attempt || m.state != Presenting {
		if msg.capture != nil {
			msg.capture.Cancel()
		}
		return nil
	}
	m.micPending = false
	if msg.err != nil {
		if errors.Is(msg.err, context.Canceled) {
			return nil
		}
		m.deps.Logger.Warn("microphone unavailable", "err", msg.err)
		m.micDenied = true
		return nil
	}
	m.stopPlayback()
	m.capture = msg.capture
	m.state = Recording
	m.remaining = RecordSeconds
	return m.tick()
}

func (m *Machine) handleScore(msg scoreMsg) tea.Cmd {
	st := m.stamp()
	if msg.attempt != m.attempt || m.state != Analyzing {
		return nil
	}
	if msg.err != nil {
		m.state = Presenting
		if errors.Is(msg.err, audio.ErrMicAccessDenied) {
			m.micDenied = true
		}
		if !errors.Is(msg.err, context.Canceled) {
			m.deps.Logger.Warn("scoring failed", "err", msg.err)
		}
		return nil
	}
	res := msg.result
	m.result = &res
	m.state = ReviewingResult
	chimes := int(math.Ceil(Stars(res.PronunciationScore)))
	attempt := m.attempt
	return tea.Batch(
		m.play(audio.Chimes(chimes), false),
		m.deps.Tick(feedbackDelay, func(time.Time) tea.Msg { return feedbackMsg{stamp: st, attempt: attempt} }),
	)
}

func (m *Machine) tick() tea.Cmd {
	st := m.stamp()
	attempt := m.attempt
	return m.deps.Tick(time.Second, func(time.Time) tea.Msg { return tickMsg{stamp: st, attempt: attempt} })
}

// stopRecording releases the capture and countdown together and sends the
// recording for scoring.
func (m *Machine) stopRecording() tea.Cmd {
	st := m.stamp()
	capture := m.capture
	m.capture = nil
	m.state = Analyzing
	m.remaining = 0
	attempt := m.attempt
	word, _ := m.Current()
	ctx := m.wordCtx
	svc := m.deps.Media
	return func() tea.Msg {
		if capture == nil {
			return scoreMsg{stamp: st, attempt: attempt, err: audio.ErrEmptyCapture}
		}
		wav, err := capture.Stop()
		if err != nil {
			return scoreMsg{stamp: st, attempt: attempt, err: err}
		}
		if svc == nil {
			return scoreMsg{stamp: st, attempt: attempt, err: media.ErrScoring}
		}
		res, err := svc.ScorePronunciation(ctx, word.Word, wav)
		return scoreMsg{stamp: st, attempt: attempt, result: res, err: err}
	}
}

// credit records the best score of the word at the cursor.
func (m *Machine) credit(res model.AssessmentResult) {
	word := m.deck[m.index]
	att := model.WordAttempt{
		Word:      word.Word,
		Score:     res.PronunciationScore,
		Fluency:   res.FluencyScore,
		Stars:     Stars(res.PronunciationScore),
		Struggled: Struggled(res.PronunciationScore),
	}
	prev, seen := m.scored[m.index]
	if !seen {
		m.order = append(m.order, m.index)
	} else if prev.Score >= att.Score {
		return
	}
	m.scored[m.index] = att
	delete(m.skipped, m.index)
}

func (m *Machine) next() tea.Cmd {
	if m.index >= len(m.deck)-1 {
		return m.finish(false)
	}
	return m.enterWord(m.index + 1)
}

// enterWord presents deck[i], cancelling everything issued for the old word.
func (m *Machine) enterWord(i int) tea.Cmd {
	st := m.stamp()
	if m.wordCancel != nil {
		m.wordCancel()
	}
	m.wordCtx, m.wordCancel = context.WithCancel(m.ctx)
	m.stopPlayback()
	m.wordGen++
	m.attempt++
	m.index = i
	m.state = Presenting
	m.result = nil
	m.remaining = 0
	m.micPending = false
	m.showDefinition = false
	m.image = nil
	m.imageLoading = true

	gen := m.wordGen
	word := m.deck[i]
	ctx := m.wordCtx
	svc := m.deps.Media
	fetch := func() tea.Msg {
		if svc == nil {
			return illustrationMsg{stamp: st, gen: gen, err: media.ErrIllustration}
		}
		img, err := svc.Illustrate(ctx, word.Word, word.Definition)
		return illustrationMsg{stamp: st, gen: gen, image: img, err: err}
	}
	narrate := m.deps.Tick(narrateDelay, func(time.Time) tea.Msg { return narrateWordMsg{stamp: st, gen: gen} })
	return tea.Batch(fetch, narrate)
}

// narrate fetches speech for text. Any playing sound is halted first.
func (m *Machine) narrate(text, instruction, voice string) tea.Cmd {
	st := m.stamp()
	m.stopPlayback()
	m.speaking = true
	seq := m.narration
	ctx := m.wordCtx
	svc := m.deps.Media
	return func() tea.Msg {
		if svc == nil {
			return narrationAudioMsg{stamp: st, seq: seq, err: media.ErrNarration}
		}
		pcm, err := svc.Narrate(ctx, text, instruction, voice)
		return narrationAudioMsg{stamp: st, seq: seq, pcm: pcm, err: err}
	}
}

// play starts pcm on the single playback handle. speech marks narration so
// Speaking stays true until it ends.
func (m *Machine) play(pcm []byte, speech bool) tea.Cmd {
	st := m.stamp()
	m.stopPlayback()
	if len(pcm) == 0 {
		return nil
	}
	pb, err := m.deps.Player.Play(pcm)
	if err != nil {
		m.deps.Logger.Warn("playback failed", "err", err)
		return nil
	}
	m.playback = pb
	m.speaking = speech
	seq := m.narration
	return func() tea.Msg {
		<-pb.Done()
		return narrationEndedMsg{stamp: st, seq: seq}
	}
}

// stopPlayback halts the current sound and invalidates pending narration.
func (m *Machine) stopPlayback() {
	m.narration++
	m.speaking = false
	if m.playback != nil {
		m.playback.Stop()
		m.playback = nil
	}
}

func (m *Machine) finish(quit bool) tea.Cmd {
	m.cancel()
	if m.wordCancel != nil {
		m.wordCancel()
	}
	if m.capture != nil {
		m.capture.Cancel()
		m.capture = nil
	}
	m.stopPlayback()
	m.attempt++
	m.wordGen++
	m.micPending = false
	m.remaining = 0
	m.state = Finished

	out := Outcome{
		Stars:     m.SessionStars(),
		Struggled: m.StruggledWords(),
		Completed: len(m.scored),
		Skipped:   len(m.skipped),
		Quit:      quit,
	}
	for _, idx := range m.order {
		out.Attempts = append(out.Attempts, m.scored[idx])
	}
	m.outcome = &out
	if m.deps.OnFinish != nil {
		m.deps.OnFinish(out)
	}
	sid := m.id
	return func() tea.Msg { return FinishedMsg{Session: sid, Outcome: out} }
}
