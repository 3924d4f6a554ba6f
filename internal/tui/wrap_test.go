package tui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestWrapTextBreaksAtSpaces(t *testing.T) {
	got := wrapText("a big friendly tiger", lipgloss.NewStyle(), 9)
	want := "a big\nfriendly\ntiger"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestWrapTextSplitsLongWords(t *testing.T) {
	got := wrapText("photosynthesis", lipgloss.NewStyle(), 5)
	want := "photo\nsynth\nesis"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestWrapTextCountsWideRunes(t *testing.T) {
	got := wrapText("ねこ ねこ", lipgloss.NewStyle(), 5)
	lines := strings.Split(got, "\n")
	if len(lines) != 2 || lines[0] != "ねこ" || lines[1] != "ねこ" {
		t.Fatalf("unexpected wrap %q", got)
	}
}

func TestWrapTextNoWidth(t *testing.T) {
	if got := wrapText("one two", lipgloss.NewStyle(), 0); got != "one two" {
		t.Fatalf("expected unwrapped text, got %q", got)
	}
}

func TestWrapTextFlattensNewlines(t *testing.T) {
	if got := wrapText("Say it\nslowly", lipgloss.NewStyle(), 40); got != "Say it slowly" {
		t.Fatalf("unexpected text %q", got)
	}
}
