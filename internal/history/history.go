// Package history keeps a local SQLite log of diagnostics runs so an
// installer can show how a controller's health changed over a commissioning
// visit.
package history

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/BurntSushi/toml"
	"golang.org/x/crypto/blake2b"
	_ "modernc.org/sqlite"

	"github.com/tonhe/fireline/internal/diag"
)

// ErrClosed is returned by operations on a closed Store.
var ErrClosed = errors.New("history store closed")

const schema = `
CREATE TABLE IF NOT EXISTS runs(
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	controller TEXT NOT NULL,
	ts INTEGER NOT NULL,
	label TEXT NOT NULL,
	status TEXT NOT NULL,
	errors INTEGER NOT NULL,
	warnings INTEGER NOT NULL,
	statuses TEXT NOT NULL,
	fingerprint TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_runs_controller_ts ON runs(controller, ts);`

// Run is one recorded diagnostics pass.
type Run struct {
	ID          int64                            `json:"id"`
	Controller  string                           `json:"controller"`
	Time        time.Time                        `json:"time"`
	Label       diag.OverallLabel                `json:"label"`
	Status      diag.Status                      `json:"status"`
	Errors      int                              `json:"errors"`
	Warnings    int                              `json:"warnings"`
	Statuses    map[diag.SubsystemID]diag.Status `json:"statuses"`
	Fingerprint string                           `json:"fingerprint"`
}

// NewRun builds a Run from an evaluated snapshot set. When the fingerprint
// cannot be computed the run is still returned, with an empty Fingerprint,
// alongside the error.
func NewRun(set *diag.SnapshotSet, verdicts []diag.Verdict, sum diag.Summary) (Run, error) {
	if set == nil {
		set = &diag.SnapshotSet{}
	}
	statuses := make(map[diag.SubsystemID]diag.Status, len(verdicts))
	for _, v := range verdicts {
		statuses[v.Subsystem] = v.Status
	}
	ts := set.CollectedAt
	if ts.IsZero() {
		ts = time.Now()
	}
	run := Run{
		Controller: set.Controller,
		Time:       ts,
		Label:      sum.Label,
		Status:     sum.Status,
		Errors:     sum.Errors,
		Warnings:   sum.Warnings,
		Statuses:   statuses,
	}
	fp, err := Fingerprint(set)
	if err != nil {
		return run, fmt.Errorf("fingerprint: %w", err)
	}
	run.Fingerprint = fp
	return run, nil
}

// Fingerprint hashes the measurements of set with BLAKE2b-256. The
// controller name and collection time are excluded, so two runs that saw
// identical readings share a fingerprint. The set is hashed in its TOML
// form, which keeps NaN and infinite readings representable.
func Fingerprint(set *diag.SnapshotSet) (string, error) {
	if set == nil {
		set = &diag.SnapshotSet{}
	}
	m := *set
	m.Controller = ""
	m.CollectedAt = time.Time{}
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(m); err != nil {
		return "", err
	}
	sum := blake2b.Sum256(buf.Bytes())
	return hex.EncodeToString(sum[:]), nil
}

// Store is a SQLite-backed run log. It is safe for concurrent use; writes
// are serialised through a single connection.
type Store struct {
	mu     sync.RWMutex
	db     *sql.DB
	closed bool
}

// Open opens or creates the database at path.
func Open(ctx context.Context, path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, err
	}
	dsn := "file:" + path + "?_pragma=busy_timeout=5000"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open history: %w", err)
	}
	db.SetMaxOpenConns(1)

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("open history: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init history schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Record appends run and returns its row id.
func (s *Store) Record(ctx context.Context, run Run) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return 0, ErrClosed
	}
	statuses, err := json.Marshal(run.Statuses)
	if err != nil {
		return 0, err
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO runs(controller, ts, label, status, errors, warnings, statuses, fingerprint) VALUES(?,?,?,?,?,?,?,?)`,
		run.Controller, run.Time.UnixMilli(), string(run.Label), string(run.Status),
		run.Errors, run.Warnings, string(statuses), run.Fingerprint)
	if err != nil {
		return 0, fmt.Errorf("record run: %w", err)
	}
	return res.LastInsertId()
}

// List returns up to limit runs, newest first. An empty controller matches
// every controller; a non-positive limit returns all runs.
func (s *Store) List(ctx context.Context, controller string, limit int) ([]Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ErrClosed
	}
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, controller, ts, label, status, errors, warnings, statuses, fingerprint
		 FROM runs WHERE (? = '' OR controller = ?) ORDER BY ts DESC, id DESC LIMIT ?`,
		controller, controller, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			r        Run
			ts       int64
			label    string
			status   string
			statuses string
		)
		if err := rows.Scan(&r.ID, &r.Controller, &ts, &label, &status, &r.Errors, &r.Warnings, &statuses, &r.Fingerprint); err != nil {
			return nil, err
		}
		r.Time = time.UnixMilli(ts)
		r.Label = diag.OverallLabel(label)
		r.Status = diag.Status(status)
		if err := json.Unmarshal([]byte(statuses), &r.Statuses); err != nil {
			return nil, fmt.Errorf("run %d statuses: %w", r.ID, err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Close releases the database. Further calls return ErrClosed.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}
