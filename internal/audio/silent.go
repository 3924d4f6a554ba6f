package audio

import (
	"context"
	"sync"
)

// SilentPlayer discards audio; every playback is already finished.
type SilentPlayer struct{}

// Play implements Player.
func (SilentPlayer) Play([]byte) (Playback, error) {
	return newFinishedPlayback(), nil
}

type finishedPlayback struct {
	done chan struct{}
}

func newFinishedPlayback() *finishedPlayback {
	done := make(chan struct{})
	close(done)
	return &finishedPlayback{done: done}
}

func (p *finishedPlayback) Stop()                 {}
func (p *finishedPlayback) Done() <-chan struct{} { return p.done }

// SilentMicrophone records a fixed span of silence.
type SilentMicrophone struct {
	Millis int
}

// Acquire implements Microphone.
func (m SilentMicrophone) Acquire(context.Context) (Capture, error) {
	ms := m.Millis
	if ms <= 0 {
		ms = 500
	}
	return &silentCapture{pcm: make([]byte, CaptureRate*ms/1000*2)}, nil
}

type silentCapture struct {
	pcm  []byte
	once sync.Once
	wav  []byte
}

func (c *silentCapture) Stop() ([]byte, error) {
	c.once.Do(func() { c.wav = EncodeWAV(c.pcm, CaptureRate, Channels) })
	return c.wav, nil
}

func (c *silentCapture) Cancel() {
	c.once.Do(func() {})
}
