// Package store persists session runs, per-frame records, and benchmark
// summaries to SQLite so batch and benchmark results can be inspected after
// the process exits.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	_ "modernc.org/sqlite"

	"github.com/pstagner/toruscope/internal/session"
)

// SQLiteStore wraps a single SQLite database file.
type SQLiteStore struct {
	path string

	mu sync.RWMutex
	db *sql.DB
}

// NewSQLiteStore creates a store for the given path. Init must be called
// before use.
func NewSQLiteStore(path string) *SQLiteStore {
	return &SQLiteStore{path: path}
}

// Init opens the database and creates the schema. Calling Init twice is a
// no-op.
func (s *SQLiteStore) Init(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.path == "" {
		return errors.New("sqlite path is required")
	}
	if s.db != nil {
		return nil
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return err
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return err
	}

	if err := createTables(ctx, db); err != nil {
		_ = db.Close()
		return err
	}

	s.db = db
	return nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

func (s *SQLiteStore) getDB() (*sql.DB, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.db == nil {
		return nil, errors.New("store is not initialized")
	}
	return s.db, nil
}

func createTables(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS frames (
			run_id     TEXT NOT NULL,
			frame      INTEGER NOT NULL,
			ms         REAL NOT NULL,
			fps        REAL NOT NULL,
			quality    REAL NOT NULL,
			similarity REAL NOT NULL,
			scale      REAL NOT NULL,
			spp        INTEGER NOT NULL,
			gamma      REAL NOT NULL,
			smooth     REAL NOT NULL,
			ramp       INTEGER NOT NULL,
			controller TEXT NOT NULL,
			PRIMARY KEY (run_id, frame)
		);
		CREATE TABLE IF NOT EXISTS summaries (
			run_id         TEXT NOT NULL,
			mode           TEXT NOT NULL,
			frames         INTEGER NOT NULL,
			avg_fps        REAL NOT NULL,
			avg_quality    REAL NOT NULL,
			avg_similarity REAL NOT NULL,
			PRIMARY KEY (run_id, mode)
		);
	`)
	return err
}

// SaveFrame persists a single frame record under the given run ID.
func (s *SQLiteStore) SaveFrame(ctx context.Context, runID string, rec session.FrameRecord) error {
	db, err := s.getDB()
	if err != nil {
		return err
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO frames (run_id, frame, ms, fps, quality, similarity, scale, spp, gamma, smooth, ramp, controller)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(run_id, frame) DO UPDATE SET
			ms = excluded.ms,
			fps = excluded.fps,
			quality = excluded.quality,
			similarity = excluded.similarity,
			scale = excluded.scale,
			spp = excluded.spp,
			gamma = excluded.gamma,
			smooth = excluded.smooth,
			ramp = excluded.ramp,
			controller = excluded.controller
	`, runID, rec.Frame, rec.Ms, rec.FPS, rec.Quality, rec.Similarity,
		rec.Params.ResolutionScale, rec.Params.SamplesPerPixel, rec.Params.Gamma,
		rec.Params.NormalSmooth, rec.Params.RampSize, rec.Controller)
	return err
}

// FrameCount returns the number of stored frames for a run.
func (s *SQLiteStore) FrameCount(ctx context.Context, runID string) (int, error) {
	db, err := s.getDB()
	if err != nil {
		return 0, err
	}

	var count int
	err = db.QueryRowContext(ctx, `SELECT COUNT(*) FROM frames WHERE run_id = ?`, runID).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}

// SaveSummaries persists benchmark summaries under the given run ID.
func (s *SQLiteStore) SaveSummaries(ctx context.Context, runID string, summaries []session.Summary) error {
	db, err := s.getDB()
	if err != nil {
		return err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	for _, sum := range summaries {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO summaries (run_id, mode, frames, avg_fps, avg_quality, avg_similarity)
			VALUES (?, ?, ?, ?, ?, ?)
			ON CONFLICT(run_id, mode) DO UPDATE SET
				frames = excluded.frames,
				avg_fps = excluded.avg_fps,
				avg_quality = excluded.avg_quality,
				avg_similarity = excluded.avg_similarity
		`, runID, sum.Mode, sum.Frames, sum.AvgFPS, sum.AvgQuality, sum.AvgSimilarity)
		if err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to save summary %s/%s: %w", runID, sum.Mode, err)
		}
	}
	return tx.Commit()
}

// GetSummaries returns the stored benchmark summaries for a run, in
// insertion order.
func (s *SQLiteStore) GetSummaries(ctx context.Context, runID string) ([]session.Summary, error) {
	db, err := s.getDB()
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, `
		SELECT mode, frames, avg_fps, avg_quality, avg_similarity
		FROM summaries WHERE run_id = ? ORDER BY rowid
	`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []session.Summary
	for rows.Next() {
		var sum session.Summary
		if err := rows.Scan(&sum.Mode, &sum.Frames, &sum.AvgFPS, &sum.AvgQuality, &sum.AvgSimilarity); err != nil {
			return nil, err
		}
		out = append(out, sum)
	}
	return out, rows.Err()
}

// FrameRecorder adapts the store to the session.Recorder interface for one
// run ID.
type FrameRecorder struct {
	store *SQLiteStore
	runID string
	ctx   context.Context
}

// NewFrameRecorder binds a run ID to the store.
func (s *SQLiteStore) NewFrameRecorder(ctx context.Context, runID string) *FrameRecorder {
	return &FrameRecorder{store: s, runID: runID, ctx: ctx}
}

// Record persists one frame record.
func (r *FrameRecorder) Record(rec session.FrameRecord) error {
	return r.store.SaveFrame(r.ctx, r.runID, rec)
}
