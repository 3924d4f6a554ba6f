package audio

import (
	"context"
	"encoding/binary"
	"errors"
	"testing"
)

func TestEncodeWAVHeader(t *testing.T) {
	pcm := make([]byte, 320)
	wav := EncodeWAV(pcm, CaptureRate, Channels)
	if len(wav) != 44+len(pcm) {
		t.Fatalf("unexpected length %d", len(wav))
	}
	if string(wav[0:4]) != "RIFF" || string(wav[8:12]) != "WAVE" || string(wav[36:40]) != "data" {
		t.Fatalf("bad chunk ids")
	}
	if got := binary.LittleEndian.Uint32(wav[24:28]); got != CaptureRate {
		t.Fatalf("sample rate = %d", got)
	}
	if got := binary.LittleEndian.Uint32(wav[40:44]); got != uint32(len(pcm)) {
		t.Fatalf("data size = %d", got)
	}
}

func TestToneLengths(t *testing.T) {
	if got := Duration(Tone(440, 500, 1), PlaybackRate); got != 500 {
		t.Fatalf("tone duration = %dms", got)
	}
	if Tone(440, 0, 1) != nil {
		t.Fatalf("expected nil for empty tone")
	}
	if len(Chimes(3)) <= len(Chimes(2)) {
		t.Fatalf("expected more chimes to be longer")
	}
	if len(Fanfare()) == 0 || len(Pop()) == 0 {
		t.Fatalf("expected effect audio")
	}
}

func TestStarChimeRises(t *testing.T) {
	if semitone(chimeBase, pentatonic[1]) <= chimeBase {
		t.Fatalf("expected rising scale")
	}
	if len(StarChime(7)) != len(StarChime(1)) {
		t.Fatalf("expected wrapping chime index")
	}
}

func TestMissingRecordCommandIsDenied(t *testing.T) {
	mic := NewCommandMicrophone([]string{"phonicpal-no-such-recorder"})
	_, err := mic.Acquire(context.Background())
	if !errors.Is(err, ErrMicAccessDenied) {
		t.Fatalf("expected ErrMicAccessDenied, got %v", err)
	}
}

func TestSilentDevices(t *testing.T) {
	capture, err := SilentMicrophone{Millis: 100}.Acquire(context.Background())
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}
	wav, err := capture.Stop()
	if err != nil {
		t.Fatalf("stop: %v", err)
	}
	if len(wav) != 44+CaptureRate/10*2 {
		t.Fatalf("unexpected wav length %d", len(wav))
	}
	pb, err := SilentPlayer{}.Play(Pop())
	if err != nil {
		t.Fatalf("play: %v", err)
	}
	select {
	case <-pb.Done():
	default:
		t.Fatalf("silent playback should be done")
	}
	pb.Stop()
}
