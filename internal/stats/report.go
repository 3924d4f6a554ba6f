package stats

import (
	"context"

	"github.com/verte-zerg/phonicpal/internal/model"
	"github.com/verte-zerg/phonicpal/internal/store"
)

// curveWords caps how many words get their own curve.
const curveWords = 5

// Report contains precomputed data for history rendering.
type Report struct {
	Sessions         []model.SessionAggregate
	WindowSessionIDs []int64
	WordAggsAll      []model.WordAggregate
	WordAggsWindow   []model.WordAggregate
	// CurveWords are the hardest recent words; WordScores holds their
	// per-session scores.
	CurveWords []string
	WordScores map[int64]map[string]float64
}

// BuildReport loads and prepares data for history rendering.
func BuildReport(ctx context.Context, st *store.Store, cfg model.StatsConfig) (Report, error) {
	sessions, err := st.ListSessions(ctx, cfg)
	if err != nil {
		return Report{}, err
	}
	if cfg.Last > 0 && len(sessions) > cfg.Last {
		sessions = sessions[len(sessions)-cfg.Last:]
	}

	allIDs := sessionIDs(sessions)
	windowIDs := lastSessionIDs(sessions, cfg.CurveWindow)
	aggsAll, err := st.ListWordAggregatesForSessions(ctx, allIDs)
	if err != nil {
		return Report{}, err
	}
	aggsWindow, err := st.ListWordAggregatesForSessions(ctx, windowIDs)
	if err != nil {
		return Report{}, err
	}
	words := SelectWeakWords(aggsWindow, curveWords)
	scores, err := st.ListWordScoresForSessions(ctx, allIDs, words)
	if err != nil {
		return Report{}, err
	}

	return Report{
		Sessions:         sessions,
		WindowSessionIDs: windowIDs,
		WordAggsAll:      aggsAll,
		WordAggsWindow:   aggsWindow,
		CurveWords:       words,
		WordScores:       scores,
	}, nil
}

func sessionIDs(sessions []model.SessionAggregate) []int64 {
	ids := make([]int64, len(sessions))
	for i, s := range sessions {
		ids[i] = s.SessionID
	}
	return ids
}

func lastSessionIDs(sessions []model.SessionAggregate, window int) []int64 {
	if window <= 0 || len(sessions) <= window {
		return sessionIDs(sessions)
	}
	return sessionIDs(sessions[len(sessions)-window:])
}
