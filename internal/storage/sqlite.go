// Package storage provides SQLite-based persistence for training runs,
// their periodic episode reports and manual-play scores.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// ErrRunNotFound is returned when a run ID is not in the database.
var ErrRunNotFound = errors.New("storage: run not found")

// Store manages the SQLite database connection.
type Store struct {
	db *sql.DB
}

// Run describes one training session.
type Run struct {
	ID         string
	EnvID      string
	Episodes   int
	Alpha      float64
	Gamma      float64
	Seed       int64
	MeanReward float64
	BestReward float64
	ModelPath  string
	Duration   time.Duration
	CreatedAt  time.Time
}

// EpisodeReport is one periodic training report of a run.
type EpisodeReport struct {
	RunID   string
	Episode int
	Reward  float64
	Epsilon float64
	Steps   int
}

// ScoreEntry represents a single manual-play score record.
type ScoreEntry struct {
	ID        int64
	EnvID     string
	Score     int
	CreatedAt time.Time
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			env_id TEXT NOT NULL,
			episodes INTEGER NOT NULL,
			alpha REAL NOT NULL,
			gamma REAL NOT NULL,
			seed INTEGER NOT NULL,
			mean_reward REAL NOT NULL DEFAULT 0,
			best_reward REAL NOT NULL DEFAULT 0,
			model_path TEXT NOT NULL DEFAULT '',
			duration_ms INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_runs_env_id ON runs(env_id);

		CREATE TABLE IF NOT EXISTS episode_reports (
			run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			episode INTEGER NOT NULL,
			reward REAL NOT NULL,
			epsilon REAL NOT NULL,
			steps INTEGER NOT NULL,
			PRIMARY KEY (run_id, episode)
		);

		CREATE TABLE IF NOT EXISTS scores (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			env_id TEXT NOT NULL,
			score INTEGER NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_scores_top ON scores(env_id, score DESC);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveRun records a finished training run. An empty ID is replaced by a
// new UUID, which is returned.
func (s *Store) SaveRun(r Run) (string, error) {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	_, err := s.db.Exec(
		`INSERT INTO runs
		 (id, env_id, episodes, alpha, gamma, seed, mean_reward, best_reward, model_path, duration_ms)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.EnvID, r.Episodes, r.Alpha, r.Gamma, r.Seed,
		r.MeanReward, r.BestReward, r.ModelPath, r.Duration.Milliseconds(),
	)
	if err != nil {
		return "", fmt.Errorf("storage: cannot save run: %w", err)
	}
	return r.ID, nil
}

// AddReports stores the periodic reports of a run in one transaction.
func (s *Store) AddReports(reports []EpisodeReport) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("storage: cannot begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(
		`INSERT INTO episode_reports (run_id, episode, reward, epsilon, steps)
		 VALUES (?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot prepare report insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range reports {
		if _, err := stmt.Exec(r.RunID, r.Episode, r.Reward, r.Epsilon, r.Steps); err != nil {
			return fmt.Errorf("storage: cannot save report for episode %d: %w", r.Episode, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage: cannot commit reports: %w", err)
	}
	return nil
}

// Reports returns a run's episode reports in episode order.
func (s *Store) Reports(runID string) ([]EpisodeReport, error) {
	rows, err := s.db.Query(
		`SELECT run_id, episode, reward, epsilon, steps
		 FROM episode_reports
		 WHERE run_id = ?
		 ORDER BY episode`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query reports: %w", err)
	}
	defer rows.Close()

	var reports []EpisodeReport
	for rows.Next() {
		var r EpisodeReport
		if err := rows.Scan(&r.RunID, &r.Episode, &r.Reward, &r.Epsilon, &r.Steps); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		reports = append(reports, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return reports, nil
}

const runColumns = `id, env_id, episodes, alpha, gamma, seed, mean_reward, best_reward, model_path, duration_ms, created_at`

// RunByID retrieves a run by its ID.
func (s *Store) RunByID(id string) (Run, error) {
	row := s.db.QueryRow(`SELECT `+runColumns+` FROM runs WHERE id = ?`, id)
	r, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	if err != nil {
		return Run{}, fmt.Errorf("storage: cannot query run: %w", err)
	}
	return r, nil
}

// ListRuns returns the most recent runs, optionally filtered by environment.
func (s *Store) ListRuns(envID string, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT `+runColumns+`
		 FROM runs
		 WHERE ? = '' OR env_id = ?
		 ORDER BY created_at DESC, rowid DESC
		 LIMIT ?`,
		envID, envID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return runs, nil
}

// DeleteRun removes a run and its reports.
func (s *Store) DeleteRun(id string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("storage: cannot begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM episode_reports WHERE run_id = ?", id); err != nil {
		return fmt.Errorf("storage: cannot delete reports: %w", err)
	}
	res, err := tx.Exec("DELETE FROM runs WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("storage: cannot delete run: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage: cannot commit delete: %w", err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (Run, error) {
	var r Run
	var durationMS int64
	var createdAt any
	if err := row.Scan(
		&r.ID,
		&r.EnvID,
		&r.Episodes,
		&r.Alpha,
		&r.Gamma,
		&r.Seed,
		&r.MeanReward,
		&r.BestReward,
		&r.ModelPath,
		&durationMS,
		&createdAt,
	); err != nil {
		return Run{}, err
	}
	r.Duration = time.Duration(durationMS) * time.Millisecond
	r.CreatedAt = parseTime(createdAt)
	return r, nil
}

// SaveScore records a new manual-play score for the given environment.
// Returns the ID of the inserted record.
func (s *Store) SaveScore(envID string, score int) (int64, error) {
	result, err := s.db.Exec(
		"INSERT INTO scores (env_id, score) VALUES (?, ?)",
		envID, score,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save score: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return id, nil
}

// TopScores retrieves the top N scores for the given environment.
// Results are ordered by score descending.
func (s *Store) TopScores(envID string, limit int) ([]ScoreEntry, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(
		`SELECT id, env_id, score, created_at
		 FROM scores
		 WHERE env_id = ?
		 ORDER BY score DESC
		 LIMIT ?`,
		envID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query scores: %w", err)
	}
	defer rows.Close()

	var entries []ScoreEntry
	for rows.Next() {
		var e ScoreEntry
		var createdAt any
		if err := rows.Scan(&e.ID, &e.EnvID, &e.Score, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		e.CreatedAt = parseTime(createdAt)
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return entries, nil
}

// HighScore returns the highest score for the given environment.
// Returns 0 if no scores exist.
func (s *Store) HighScore(envID string) (int, error) {
	var score sql.NullInt64
	err := s.db.QueryRow(
		"SELECT MAX(score) FROM scores WHERE env_id = ?",
		envID,
	).Scan(&score)

	if err != nil {
		return 0, fmt.Errorf("storage: cannot query high score: %w", err)
	}

	if !score.Valid {
		return 0, nil
	}

	return int(score.Int64), nil
}

// parseTime handles both time.Time and string datetime values.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
