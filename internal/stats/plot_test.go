package stats

import (
	"bytes"
	"strings"
	"testing"
)

func TestPlotSeries(t *testing.T) {
	t.Setenv("NO_COLOR", "")
	var buf bytes.Buffer
	err := PlotSeries(&buf, "Test Plot", []Series{
		{Name: "A", Values: []float64{0, 50, 100}},
		{Name: "B", Values: []float64{90, 80, 70}},
	}, PlotOptions{Width: 12, Height: 4, Guide: 88, GuideName: "mastery"})
	if err != nil {
		t.Fatalf("PlotSeries failed: %v", err)
	}
	out := buf.String()
	if strings.Contains(out, "\x1b[") {
		t.Fatalf("expected no color codes for a buffer")
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 1+4+1 {
		t.Fatalf("expected 6 lines, got %d: %q", len(lines), out)
	}
	if lines[0] != "Test Plot" {
		t.Fatalf("unexpected title %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "100 ┤ ") || !strings.HasPrefix(lines[4], "  0 ┤ ") {
		t.Fatalf("unexpected axis labels: %q / %q", lines[1], lines[4])
	}
	if !strings.Contains(lines[5], "mastery 88") || !strings.Contains(lines[5], "A (solid, last 100)") {
		t.Fatalf("unexpected legend %q", lines[5])
	}
}

func TestPlotSeriesSkipsEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := PlotSeries(&buf, "Empty", []Series{{Name: "A"}}, PlotOptions{}); err != nil {
		t.Fatalf("PlotSeries failed: %v", err)
	}
	if buf.Len() != 0 {
		t.Fatalf("expected no output, got %q", buf.String())
	}
}

func TestPlotSeriesForceColor(t *testing.T) {
	t.Setenv("NO_COLOR", "")
	var buf bytes.Buffer
	err := PlotSeries(&buf, "", []Series{{Name: "A", Values: []float64{10, 20}}}, PlotOptions{Width: 10, Height: 2, ForceColor: true})
	if err != nil {
		t.Fatalf("PlotSeries failed: %v", err)
	}
	if !strings.Contains(buf.String(), "\x1b[") {
		t.Fatalf("expected color codes when forced")
	}
}

func TestScoreRowClamps(t *testing.T) {
	cases := []struct {
		value float64
		want  int
	}{
		{100, 0},
		{150, 0},
		{0, 15},
		{-5, 15},
		{50, 8},
	}
	for _, tc := range cases {
		if got := scoreRow(tc.value, 16); got != tc.want {
			t.Fatalf("scoreRow(%v) = %d, want %d", tc.value, got, tc.want)
		}
	}
}

func TestPlotWidthFor(t *testing.T) {
	if got := PlotWidthFor(80); got != 74 {
		t.Fatalf("expected width 74, got %d", got)
	}
	if got := PlotWidthFor(0); got != minPlotWidth {
		t.Fatalf("expected min width %d, got %d", minPlotWidth, got)
	}
}
