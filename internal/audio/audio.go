// Package audio provides microphone capture and sound playback handles.
package audio

import (
	"context"
	"errors"
)

// Sample formats used by the devices. All PCM is signed 16-bit little-endian.
const (
	CaptureRate  = 16000
	PlaybackRate = 24000
	Channels     = 1
)

var (
	// ErrMicAccessDenied reports that the capture device could not be opened.
	ErrMicAccessDenied = errors.New("audio: microphone access denied")
	// ErrEmptyCapture reports that a capture ended without any samples.
	ErrEmptyCapture = errors.New("audio: capture produced no audio")
)

// Microphone opens capture handles.
type Microphone interface {
	Acquire(ctx context.Context) (Capture, error)
}

// Capture is an active recording. Exactly one of Stop or Cancel should be
// called; further calls are no-ops.
type Capture interface {
	// Stop ends the recording and returns all captured chunks as one WAV blob.
	Stop() ([]byte, error)
	// Cancel ends the recording and discards the audio.
	Cancel()
}

// Player starts playback of PCM audio at PlaybackRate.
type Player interface {
	Play(pcm []byte) (Playback, error)
}

// Playback is an in-flight sound.
type Playback interface {
	// Stop halts playback. Safe to call more than once.
	Stop()
	// Done is closed when playback ends or is stopped.
	Done() <-chan struct{}
}
