// Package stats contains history metrics and text reporting.
package stats

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strings"

	"github.com/verte-zerg/phonicpal/internal/model"
	"github.com/verte-zerg/phonicpal/internal/session"
)

// MasteryGuide is the score line drawn on score plots.
const MasteryGuide = session.MasteryThreshold

var sparkBlocks = []rune("▁▂▃▄▅▆▇█")

// SessionMetrics returns stars earned as a percentage of the stars possible
// for a deck of deckSize words.
func SessionMetrics(stars float64, deckSize int) float64 {
	if deckSize <= 0 {
		return 0
	}
	possible := float64(deckSize * session.MaxStarsPerWord)
	return math.Min(100, stars/possible*100)
}

// CompletionRate returns the share of the deck that was scored, in percent.
func CompletionRate(s model.SessionAggregate) float64 {
	if s.DeckSize <= 0 {
		return 0
	}
	return float64(s.Completed) / float64(s.DeckSize) * 100
}

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	out := make([]float64, len(values))
	if window <= 1 {
		copy(out, values)
		return out
	}
	var sum float64
	for i, v := range values {
		sum += v
		n := i + 1
		if i >= window {
			sum -= values[i-window]
			n = window
		}
		out[i] = sum / float64(n)
	}
	return out
}

// Sparkline renders 0..100 values as a row of block characters.
func Sparkline(values []float64) string {
	var b strings.Builder
	top := len(sparkBlocks) - 1
	for _, v := range values {
		v = math.Max(0, math.Min(100, v))
		b.WriteRune(sparkBlocks[int(math.Round(v/100*float64(top)))])
	}
	return b.String()
}

// Summary holds the headline numbers of a session history.
type Summary struct {
	Sessions    int
	Words       int
	Stars       float64
	AvgStarPct  float64
	BestStarPct float64
	AvgScore    float64
}

// Summarize computes headline numbers across sessions.
func Summarize(sessions []model.SessionAggregate) Summary {
	sum := Summary{Sessions: len(sessions)}
	if len(sessions) == 0 {
		return sum
	}
	var pctTotal, scoreTotal float64
	scored := 0
	for _, s := range sessions {
		pct := SessionMetrics(s.Stars, s.DeckSize)
		pctTotal += pct
		sum.BestStarPct = math.Max(sum.BestStarPct, pct)
		sum.Stars += s.Stars
		sum.Words += s.Completed
		if s.Completed > 0 {
			scoreTotal += s.AvgScore
			scored++
		}
	}
	sum.AvgStarPct = pctTotal / float64(len(sessions))
	if scored > 0 {
		sum.AvgScore = scoreTotal / float64(scored)
	}
	return sum
}

// RenderSummary prints the headline numbers for sessions.
func RenderSummary(w io.Writer, sessions []model.SessionAggregate) error {
	if len(sessions) == 0 {
		_, err := fmt.Fprintln(w, "No sessions found.")
		return err
	}
	sum := Summarize(sessions)
	lines := formatTable(nil, [][]string{
		{"Sessions", fmt.Sprintf("%d", sum.Sessions)},
		{"Words scored", fmt.Sprintf("%d", sum.Words)},
		{"Stars earned", fmt.Sprintf("%.1f", sum.Stars)},
		{"Avg stars", fmt.Sprintf("%.1f%%", sum.AvgStarPct)},
		{"Best stars", fmt.Sprintf("%.1f%%", sum.BestStarPct)},
		{"Avg score", fmt.Sprintf("%.1f", sum.AvgScore)},
	}, map[int]bool{1: true})
	return writeBlock(w, "Summary", lines)
}

// RenderCurves prints star and score curves.
func RenderCurves(w io.Writer, sessions []model.SessionAggregate, window int) error {
	return RenderCurvesWithSize(w, sessions, window, 0, defaultPlotHeight, false)
}

// RenderCurvesWithSize prints star and score curves sized to a given total width.
func RenderCurvesWithSize(w io.Writer, sessions []model.SessionAggregate, window, totalWidth, height int, useColor bool) error {
	if len(sessions) == 0 {
		return nil
	}
	starPct := make([]float64, len(sessions))
	scores := make([]float64, len(sessions))
	for i, s := range sessions {
		starPct[i] = SessionMetrics(s.Stars, s.DeckSize)
		scores[i] = s.AvgScore
	}
	return PlotSeries(w, "Progress", []Series{
		{Name: "Stars %", Values: MovingAverage(starPct, window)},
		{Name: "Avg score", Values: MovingAverage(scores, window)},
	}, plotOptions(totalWidth, height, useColor))
}

// RenderWordTable prints per-word aggregates, hardest first.
func RenderWordTable(w io.Writer, aggs []model.WordAggregate) error {
	if len(aggs) == 0 {
		_, err := fmt.Fprintln(w, "No word stats found.")
		return err
	}
	sorted := SortByDifficulty(aggs)
	rows := make([][]string, 0, len(sorted))
	for _, agg := range sorted {
		rows = append(rows, []string{
			agg.Word,
			fmt.Sprintf("%.1f", AverageScore(agg)),
			fmt.Sprintf("%.0f", agg.BestScore),
			fmt.Sprintf("%d", agg.Attempts),
			fmt.Sprintf("%d", agg.Struggled),
		})
	}
	lines := formatTable([]string{"Word", "Avg Score", "Best", "Sessions", "Struggled"}, rows,
		map[int]bool{1: true, 2: true, 3: true, 4: true})
	return writeBlock(w, "Per-Word (Windowed)", lines)
}

// RenderWordCurves prints score curves for the given words.
func RenderWordCurves(w io.Writer, sessions []model.SessionAggregate, perSession map[int64]map[string]float64, words []string, window int) error {
	return RenderWordCurvesWithSize(w, sessions, perSession, words, window, 0, defaultPlotHeight, false)
}

// RenderWordCurvesWithSize prints score curves for the given words sized to a
// given total width. Sessions in which a word was not scored are skipped.
func RenderWordCurvesWithSize(w io.Writer, sessions []model.SessionAggregate, perSession map[int64]map[string]float64, words []string, window, totalWidth, height int, useColor bool) error {
	if len(words) == 0 || len(sessions) == 0 {
		return nil
	}
	if _, err := fmt.Fprintln(w, "Per-Word Curves"); err != nil {
		return err
	}
	for _, word := range words {
		key := strings.ToLower(word)
		var scores []float64
		for _, s := range sessions {
			if score, ok := perSession[s.SessionID][key]; ok {
				scores = append(scores, score)
			}
		}
		if len(scores) == 0 {
			continue
		}
		title := fmt.Sprintf("%s  %s", word, Sparkline(scores))
		if err := PlotSeries(w, title, []Series{
			{Name: "Score", Values: MovingAverage(scores, window)},
		}, plotOptions(totalWidth, height, useColor)); err != nil {
			return err
		}
	}
	return nil
}

// AverageScore returns the mean score of a word aggregate.
func AverageScore(agg model.WordAggregate) float64 {
	if agg.Attempts == 0 {
		return 0
	}
	return agg.ScoreSum / float64(agg.Attempts)
}

// SortByDifficulty returns a copy of aggs ordered by lowest average score,
// then by word.
func SortByDifficulty(aggs []model.WordAggregate) []model.WordAggregate {
	out := make([]model.WordAggregate, len(aggs))
	copy(out, aggs)
	sort.SliceStable(out, func(i, j int) bool {
		ai, aj := AverageScore(out[i]), AverageScore(out[j])
		if ai == aj {
			return out[i].Word < out[j].Word
		}
		return ai < aj
	})
	return out
}

func plotOptions(totalWidth, height int, useColor bool) PlotOptions {
	opts := PlotOptions{
		Height:     height,
		Guide:      MasteryGuide,
		GuideName:  "mastery",
		ForceColor: useColor,
	}
	if totalWidth > 0 {
		opts.Width = PlotWidthFor(totalWidth)
	}
	return opts
}

func writeBlock(w io.Writer, title string, lines []string) error {
	if _, err := fmt.Fprintln(w, title); err != nil {
		return err
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w)
	return err
}
