package audio

import (
	"encoding/binary"
	"math"
)

const (
	chimeBase   = 523.25 // C5
	fanfareBase = 440.0  // A4
	fadeMs      = 8
)

var (
	pentatonic   = []int{0, 2, 4, 7, 9, 12}
	fanfareSteps = []int{0, 4, 7, 12}
)

// Tone synthesises a sine wave at PlaybackRate. volume is clamped to 0..1.
func Tone(freq float64, ms int, volume float64) []byte {
	if ms <= 0 {
		return nil
	}
	volume = math.Max(0, math.Min(1, volume))
	n := PlaybackRate * ms / 1000
	fade := PlaybackRate * fadeMs / 1000
	out := make([]byte, n*2)
	for i := 0; i < n; i++ {
		env := 1.0
		if i < fade {
			env = float64(i) / float64(fade)
		} else if n-i < fade {
			env = float64(n-i) / float64(fade)
		}
		v := math.Sin(2*math.Pi*freq*float64(i)/PlaybackRate) * volume * env
		binary.LittleEndian.PutUint16(out[i*2:], uint16(int16(v*math.MaxInt16)))
	}
	return out
}

// Silence returns ms milliseconds of zero samples at PlaybackRate.
func Silence(ms int) []byte {
	if ms <= 0 {
		return nil
	}
	return make([]byte, PlaybackRate*ms/1000*2)
}

// StarChime returns the i-th chime of the ascending pentatonic run.
func StarChime(i int) []byte {
	if i < 0 {
		i = 0
	}
	step := pentatonic[i%len(pentatonic)]
	return Tone(semitone(chimeBase, step), 160, 0.35)
}

// Chimes joins n star chimes with short gaps.
func Chimes(n int) []byte {
	var out []byte
	for i := 0; i < n; i++ {
		out = append(out, StarChime(i)...)
		out = append(out, Silence(40)...)
	}
	return out
}

// Pop is the short click played on selection.
func Pop() []byte {
	return Tone(880, 60, 0.3)
}

// Fanfare is the session finish melody.
func Fanfare() []byte {
	var out []byte
	for i, step := range fanfareSteps {
		ms := 150
		if i == len(fanfareSteps)-1 {
			ms = 450
		}
		out = append(out, Tone(semitone(fanfareBase, step), ms, 0.4)...)
	}
	return out
}

func semitone(base float64, steps int) float64 {
	return base * math.Pow(2, float64(steps)/12)
}
