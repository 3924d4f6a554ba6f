package stats

import (
	"bytes"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/verte-zerg/phonicpal/internal/model"
)

func TestSessionMetrics(t *testing.T) {
	cases := []struct {
		stars float64
		size  int
		want  float64
	}{
		{stars: 15, size: 5, want: 100},
		{stars: 7.5, size: 5, want: 50},
		{stars: 3, size: 0, want: 0},
		{stars: 30, size: 5, want: 100},
	}
	for _, tc := range cases {
		if got := SessionMetrics(tc.stars, tc.size); math.Abs(got-tc.want) > 1e-9 {
			t.Fatalf("SessionMetrics(%v, %d) = %v, want %v", tc.stars, tc.size, got, tc.want)
		}
	}
}

func TestMovingAverage(t *testing.T) {
	got := MovingAverage([]float64{10, 20, 30, 40}, 2)
	want := []float64{10, 15, 25, 35}
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-9 {
			t.Fatalf("index %d: expected %v, got %v", i, want[i], got[i])
		}
	}
	same := MovingAverage([]float64{1, 2}, 1)
	if same[0] != 1 || same[1] != 2 {
		t.Fatalf("expected copy for window 1, got %v", same)
	}
}

func TestSparkline(t *testing.T) {
	if got := Sparkline([]float64{0, 100, 120, -3}); got != "▁██▁" {
		t.Fatalf("unexpected sparkline %q", got)
	}
	if got := Sparkline(nil); got != "" {
		t.Fatalf("expected empty sparkline, got %q", got)
	}
}

func TestSummarize(t *testing.T) {
	sessions := []model.SessionAggregate{
		{SessionID: 1, DeckSize: 4, Completed: 4, Stars: 12, AvgScore: 95},
		{SessionID: 2, DeckSize: 4, Completed: 2, Stars: 3, AvgScore: 75},
		{SessionID: 3, DeckSize: 4, Completed: 0},
	}
	sum := Summarize(sessions)
	if sum.Sessions != 3 || sum.Words != 6 || sum.Stars != 15 {
		t.Fatalf("unexpected totals: %+v", sum)
	}
	if sum.BestStarPct != 100 {
		t.Fatalf("expected best 100%%, got %v", sum.BestStarPct)
	}
	if math.Abs(sum.AvgStarPct-(100+25)/3.0) > 1e-9 {
		t.Fatalf("unexpected avg star pct %v", sum.AvgStarPct)
	}
	if sum.AvgScore != 85 {
		t.Fatalf("expected avg score over scored sessions 85, got %v", sum.AvgScore)
	}
}

func TestRenderSummaryEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderSummary(&buf, nil); err != nil {
		t.Fatalf("RenderSummary failed: %v", err)
	}
	if strings.TrimSpace(buf.String()) != "No sessions found." {
		t.Fatalf("unexpected output %q", buf.String())
	}
}

func TestRenderWordTableHardestFirst(t *testing.T) {
	var buf bytes.Buffer
	err := RenderWordTable(&buf, []model.WordAggregate{
		{Word: "cat", Attempts: 2, ScoreSum: 190, BestScore: 96},
		{Word: "tiger", Attempts: 2, Struggled: 2, ScoreSum: 120, BestScore: 70},
	})
	if err != nil {
		t.Fatalf("RenderWordTable failed: %v", err)
	}
	lines := strings.Split(buf.String(), "\n")
	if lines[0] != "Per-Word (Windowed)" {
		t.Fatalf("unexpected title %q", lines[0])
	}
	if !strings.HasPrefix(lines[2], "tiger") || !strings.HasPrefix(lines[3], "cat") {
		t.Fatalf("expected tiger before cat: %q", buf.String())
	}
}

func TestRenderWordCurvesSkipsUnscoredWords(t *testing.T) {
	t.Setenv("NO_COLOR", "")
	sessions := []model.SessionAggregate{
		{SessionID: 1, EndedAt: time.Unix(0, 0)},
		{SessionID: 2, EndedAt: time.Unix(60, 0)},
	}
	perSession := map[int64]map[string]float64{
		1: {"tiger": 40},
		2: {"tiger": 80},
	}
	var buf bytes.Buffer
	if err := RenderWordCurvesWithSize(&buf, sessions, perSession, []string{"Tiger", "owl"}, 1, 40, 4, false); err != nil {
		t.Fatalf("RenderWordCurves failed: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "Tiger  ") {
		t.Fatalf("expected tiger curve: %q", out)
	}
	if strings.Contains(out, "owl") {
		t.Fatalf("unexpected curve for unscored word: %q", out)
	}
}
