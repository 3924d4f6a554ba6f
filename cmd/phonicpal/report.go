package main

import (
	"fmt"
	"io"

	"github.com/verte-zerg/phonicpal/internal/model"
	"github.com/verte-zerg/phonicpal/internal/stats"
)

// writePlainReport prints the history report for pipes and scripts.
func writePlainReport(w io.Writer, report stats.Report, cfg model.StatsConfig) error {
	if err := stats.RenderSummary(w, report.Sessions); err != nil {
		return fmt.Errorf("failed to write summary: %w", err)
	}
	if len(report.Sessions) == 0 {
		return nil
	}
	if err := stats.RenderCurves(w, report.Sessions, cfg.CurveWindow); err != nil {
		return fmt.Errorf("failed to write curves: %w", err)
	}
	if err := stats.RenderWordTable(w, report.WordAggsWindow); err != nil {
		return fmt.Errorf("failed to write word table: %w", err)
	}
	if err := stats.RenderWordCurves(w, report.Sessions, report.WordScores, report.CurveWords, cfg.CurveWindow); err != nil {
		return fmt.Errorf("failed to write word curves: %w", err)
	}
	return nil
}
