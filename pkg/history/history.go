// SPDX-License-Identifier: Apache-2.0

// Package history records install runs in a SQLite database.
package history

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/Work-Fort/Loadstar/pkg/install"
)

//go:embed schema.sql
var schemaSQL string

// ErrRunNotFound is returned when no run matches an id.
var ErrRunNotFound = errors.New("run not found")

type ItemStatus string

const (
	StatusSucceeded ItemStatus = "succeeded"
	StatusFailed    ItemStatus = "failed"
	StatusSkipped   ItemStatus = "skipped"
)

// Item is the outcome of one app in a run.
type Item struct {
	Name   string
	Status ItemStatus
	Detail string
}

// Run is one install attempt.
type Run struct {
	ID         string
	StartedAt  time.Time
	FinishedAt time.Time
	Aborted    bool
	Fatal      string
	Hostname   string
	Succeeded  int
	Failed     int
	Skipped    int
	Items      []Item
}

// NewRun starts a run record with a fresh id.
func NewRun(started time.Time, hostname string) *Run {
	return &Run{
		ID:        uuid.NewString(),
		StartedAt: started,
		Hostname:  hostname,
	}
}

// ShortID is the first eight characters of the id.
func (r *Run) ShortID() string {
	if len(r.ID) < 8 {
		return r.ID
	}
	return r.ID[:8]
}

func (r *Run) Duration() time.Duration {
	if r.FinishedAt.Before(r.StartedAt) {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// ApplySummary fills items and counts from an executor summary.
func (r *Run) ApplySummary(sum install.Summary) {
	r.Items = r.Items[:0]
	for _, name := range sum.Succeeded {
		r.Items = append(r.Items, Item{Name: name, Status: StatusSucceeded})
	}
	for _, o := range sum.Failed {
		r.Items = append(r.Items, Item{Name: o.Name, Status: StatusFailed, Detail: o.Detail})
	}
	for _, o := range sum.Skipped {
		r.Items = append(r.Items, Item{Name: o.Name, Status: StatusSkipped, Detail: o.Detail})
	}
	r.Succeeded = len(sum.Succeeded)
	r.Failed = len(sum.Failed)
	r.Skipped = len(sum.Skipped)
}

// Store is the history database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the database at path and applies the schema.
func Open(ctx context.Context, path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create history directory: %w", err)
	}

	db, err := sql.Open("sqlite", path+"?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping history database: %w", err)
	}
	if _, err := db.ExecContext(ctx, schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply history schema: %w", err)
	}

	log.Debug("history database opened", "path", path)
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Record stores a finished run and its items in one transaction.
func (s *Store) Record(ctx context.Context, r *Run) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			log.Warn("history rollback failed", "err", err)
		}
	}()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, started_at, finished_at, aborted, fatal, hostname, succeeded, failed, skipped)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.StartedAt.UnixMilli(), r.FinishedAt.UnixMilli(), r.Aborted, r.Fatal, r.Hostname,
		r.Succeeded, r.Failed, r.Skipped)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	for i, item := range r.Items {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO run_items (run_id, position, name, status, detail) VALUES (?, ?, ?, ?, ?)`,
			r.ID, i, item.Name, string(item.Status), item.Detail)
		if err != nil {
			return fmt.Errorf("failed to insert item %s: %w", item.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit run: %w", err)
	}
	return nil
}

// List returns the most recent runs first, without items. limit <= 0 means
// no limit.
func (s *Store) List(ctx context.Context, limit int) ([]*Run, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, started_at, finished_at, aborted, fatal, hostname, succeeded, failed, skipped
		 FROM runs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Get loads a run by full id or unique id prefix.
func (s *Store) Get(ctx context.Context, id string) (*Run, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, started_at, finished_at, aborted, fatal, hostname, succeeded, failed, skipped
		 FROM runs WHERE id LIKE ? || '%' LIMIT 2`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to look up run: %w", err)
	}
	var matches []*Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		matches = append(matches, r)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	case 2:
		return nil, fmt.Errorf("run id %q is ambiguous", id)
	}
	run := matches[0]

	items, err := s.db.QueryContext(ctx,
		`SELECT name, status, detail FROM run_items WHERE run_id = ? ORDER BY position`, run.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load run items: %w", err)
	}
	defer items.Close()
	for items.Next() {
		var it Item
		var status string
		if err := items.Scan(&it.Name, &status, &it.Detail); err != nil {
			return nil, fmt.Errorf("failed to scan run item: %w", err)
		}
		it.Status = ItemStatus(status)
		run.Items = append(run.Items, it)
	}
	return run, items.Err()
}

// Clear deletes every run and returns how many were removed.
func (s *Store) Clear(ctx context.Context) (int64, error) {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM run_items`); err != nil {
		return 0, fmt.Errorf("failed to clear run items: %w", err)
	}
	res, err := s.db.ExecContext(ctx, `DELETE FROM runs`)
	if err != nil {
		return 0, fmt.Errorf("failed to clear runs: %w", err)
	}
	return res.RowsAffected()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (*Run, error) {
	var r Run
	var started, finished int64
	if err := row.Scan(&r.ID, &started, &finished, &r.Aborted, &r.Fatal, &r.Hostname,
		&r.Succeeded, &r.Failed, &r.Skipped); err != nil {
		return nil, fmt.Errorf("failed to scan run: %w", err)
	}
	r.StartedAt = time.UnixMilli(started)
	r.FinishedAt = time.UnixMilli(finished)
	return &r, nil
}
