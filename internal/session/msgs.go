package session

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/phonicpal/internal/audio"
	"github.com/verte-zerg/phonicpal/internal/model"
)

// Every message carries the machine that issued it and the token it was
// issued under; the machine drops messages from other machines and messages
// whose token is no longer current.

// stamp identifies the machine a message belongs to.
type stamp struct {
	sid uint64
}

func (s stamp) session() uint64 { return s.sid }

type stamped interface {
	session() uint64
}

type illustrationMsg struct {
	stamp
	gen   int
	image []byte
	err   error
}

type narrateWordMsg struct {
	stamp
	gen int
}

type narrationAudioMsg struct {
	stamp
	seq int
	pcm []byte
	err error
}

type narrationEndedMsg struct {
	stamp
	seq int
}

type micReadyMsg struct {
	stamp
	attempt int
	capture audio.Capture
	err     error
}

type tickMsg struct {
	stamp
	attempt int
}

type scoreMsg struct {
	stamp
	attempt int
	result  model.AssessmentResult
	err     error
}

type feedbackMsg struct {
	stamp
	attempt int
}

// FinishedMsg is emitted once when the session reaches Finished.
type FinishedMsg struct {
	Session uint64
	Outcome Outcome
}

// Discard releases resources held by a message that no machine will consume.
func Discard(msg tea.Msg) {
	if ready, ok := msg.(micReadyMsg); ok && ready.capture != nil {
		ready.capture.Cancel()
	}
}
