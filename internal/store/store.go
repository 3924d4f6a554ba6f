// Package store handles SQLite persistence.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/verte-zerg/phonicpal/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// Store wraps SQLite access for session history and cached media.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// Cache writes come from command goroutines; serialize them on one connection.
	db.SetMaxOpenConns(1)
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS sessions (
			id INTEGER PRIMARY KEY,
			started_at TEXT NOT NULL,
			ended_at TEXT NOT NULL,
			age TEXT NOT NULL,
			topic TEXT NOT NULL,
			review INTEGER NOT NULL,
			deck_size INTEGER NOT NULL,
			completed INTEGER NOT NULL,
			skipped INTEGER NOT NULL,
			stars REAL NOT NULL,
			quit INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS word_attempts (
			session_id INTEGER NOT NULL,
			word TEXT NOT NULL,
			score REAL NOT NULL,
			fluency REAL NOT NULL,
			stars REAL NOT NULL,
			struggled INTEGER NOT NULL,
			PRIMARY KEY (session_id, word)
		);`,
		`CREATE TABLE IF NOT EXISTS image_cache (
			key TEXT PRIMARY KEY,
			value BLOB NOT NULL,
			size INTEGER NOT NULL,
			updated_at TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_ended_at ON sessions(ended_at);`,
		`CREATE INDEX IF NOT EXISTS idx_word_attempts_word ON word_attempts(word);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// InsertSession stores a finished session and its scored words.
func (s *Store) InsertSession(ctx context.Context, rec model.SessionRecord, attempts []model.WordAttempt) (_ int64, err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO sessions (started_at, ended_at, age, topic, review, deck_size, completed, skipped, stars, quit)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.StartedAt.Format(time.RFC3339Nano),
		rec.EndedAt.Format(time.RFC3339Nano),
		rec.Age.Slug(),
		rec.Topic.Slug(),
		boolInt(rec.Review),
		rec.DeckSize,
		rec.Completed,
		rec.Skipped,
		rec.Stars,
		boolInt(rec.Quit),
	)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	if len(attempts) > 0 {
		stmt, err := tx.PrepareContext(ctx,
			`INSERT OR REPLACE INTO word_attempts (session_id, word, score, fluency, stars, struggled)
			 VALUES (?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return 0, err
		}
		defer func() {
			if cerr := stmt.Close(); cerr != nil {
				// Best-effort statement close.
				_ = cerr
			}
		}()
		for _, a := range attempts {
			if _, err := stmt.ExecContext(ctx, id, strings.ToLower(a.Word), a.Score, a.Fluency, a.Stars, boolInt(a.Struggled)); err != nil {
				return 0, err
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return id, nil
}

// GetWeakWords aggregates word attempts over the most recent sessions of an
// age group and topic. A zero age or empty topic matches all.
func (s *Store) GetWeakWords(ctx context.Context, window int, age model.AgeGroup, topic model.Topic) ([]model.WordAggregate, error) {
	if window <= 0 {
		return nil, nil
	}
	query := `WITH recent_sessions AS (
		SELECT id FROM sessions
		WHERE (? = '' OR age = ?) AND (? = '' OR topic = ?)
		ORDER BY ended_at DESC
		LIMIT ?
	)
	SELECT w.word, COUNT(*) AS attempts, SUM(w.struggled) AS struggled,
		SUM(w.score) AS score_sum, MAX(w.score) AS best_score
	FROM word_attempts w
	JOIN recent_sessions r ON r.id = w.session_id
	GROUP BY w.word`

	ageSlug, topicSlug := age.Slug(), topic.Slug()
	rows, err := s.db.QueryContext(ctx, query, ageSlug, ageSlug, topicSlug, topicSlug, window)
	if err != nil {
		return nil, err
	}
	return scanWordAggregates(rows)
}

// ListSessions returns session aggregates filtered by stats config.
func (s *Store) ListSessions(ctx context.Context, cfg model.StatsConfig) ([]model.SessionAggregate, error) {
	clauses := []string{"1=1"}
	args := []any{}
	if cfg.Age.Valid() {
		clauses = append(clauses, "s.age = ?")
		args = append(args, cfg.Age.Slug())
	}
	if cfg.Topic.Valid() {
		clauses = append(clauses, "s.topic = ?")
		args = append(args, cfg.Topic.Slug())
	}
	if cfg.Since != nil {
		clauses = append(clauses, "s.ended_at >= ?")
		args = append(args, cfg.Since.Format(time.RFC3339Nano))
	}
	query := fmt.Sprintf(`SELECT s.id, s.ended_at, s.deck_size, s.completed, s.stars, COALESCE(AVG(w.score), 0)
		FROM sessions s
		LEFT JOIN word_attempts w ON w.session_id = s.id
		WHERE %s
		GROUP BY s.id
		ORDER BY s.ended_at ASC`, strings.Join(clauses, " AND "))
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var sessions []model.SessionAggregate
	for rows.Next() {
		var agg model.SessionAggregate
		var endedAt string
		if err := rows.Scan(&agg.SessionID, &endedAt, &agg.DeckSize, &agg.Completed, &agg.Stars, &agg.AvgScore); err != nil {
			return nil, err
		}
		parsed, err := time.Parse(time.RFC3339Nano, endedAt)
		if err != nil {
			return nil, err
		}
		agg.EndedAt = parsed
		sessions = append(sessions, agg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return sessions, nil
}

// ListWordAggregatesForSessions aggregates word attempts across sessions.
func (s *Store) ListWordAggregatesForSessions(ctx context.Context, sessionIDs []int64) ([]model.WordAggregate, error) {
	if len(sessionIDs) == 0 {
		return nil, nil
	}
	placeholders, args := inList(sessionIDs)
	query := fmt.Sprintf(`SELECT word, COUNT(*) AS attempts, SUM(struggled) AS struggled,
		SUM(score) AS score_sum, MAX(score) AS best_score
		FROM word_attempts
		WHERE session_id IN (%s)
		GROUP BY word`, placeholders)
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return scanWordAggregates(rows)
}

// ListWordScoresForSessions returns per-session scores for selected words.
func (s *Store) ListWordScoresForSessions(ctx context.Context, sessionIDs []int64, words []string) (map[int64]map[string]float64, error) {
	if len(sessionIDs) == 0 || len(words) == 0 {
		return map[int64]map[string]float64{}, nil
	}
	idPlaceholders, args := inList(sessionIDs)
	wordPlaceholders := make([]string, len(words))
	for i, w := range words {
		wordPlaceholders[i] = "?"
		args = append(args, strings.ToLower(w))
	}

	query := fmt.Sprintf(`SELECT session_id, word, score
		FROM word_attempts
		WHERE session_id IN (%s) AND word IN (%s)`, idPlaceholders, strings.Join(wordPlaceholders, ","))

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	result := map[int64]map[string]float64{}
	for rows.Next() {
		var sessionID int64
		var word string
		var score float64
		if err := rows.Scan(&sessionID, &word, &score); err != nil {
			return nil, err
		}
		if _, ok := result[sessionID]; !ok {
			result[sessionID] = map[string]float64{}
		}
		result[sessionID][word] = score
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func scanWordAggregates(rows *sql.Rows) ([]model.WordAggregate, error) {
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()
	var result []model.WordAggregate
	for rows.Next() {
		var agg model.WordAggregate
		if err := rows.Scan(&agg.Word, &agg.Attempts, &agg.Struggled, &agg.ScoreSum, &agg.BestScore); err != nil {
			return nil, err
		}
		result = append(result, agg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func inList(ids []int64) (string, []any) {
	placeholders := make([]string, len(ids))
	args := make([]any, len(ids))
	for i, id := range ids {
		placeholders[i] = "?"
		args[i] = id
	}
	return strings.Join(placeholders, ","), args
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
