// Package sqlite provides the SQLite-backed implementation of the storage
// interfaces.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/groundstate/hktheorem/internal/platform/storage/sqlitemigrate"
	"github.com/groundstate/hktheorem/internal/storage"
	"github.com/groundstate/hktheorem/internal/storage/sqlite/migrations"
	_ "modernc.org/sqlite"
)

// Store provides a SQLite-backed ProofStore and TelemetryStore.
type Store struct {
	sqlDB *sql.DB
}

// Open opens a SQLite store at the provided path and applies migrations.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := sqlitemigrate.Apply(sqlDB, migrations.FS, "."); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the underlying database. Close is nil-safe so callers can
// defer it in all startup paths.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// AppendProof stores a derivation trace and returns its assigned id.
func (s *Store) AppendProof(ctx context.Context, record storage.ProofRecord) (int64, error) {
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin proof transaction: %w", err)
	}

	res, err := tx.ExecContext(ctx, `
INSERT INTO proofs (theorem, scenario, potential1, potential2, equivalent, closed, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?)`,
		record.Theorem,
		record.Scenario,
		record.Potential1,
		record.Potential2,
		boolToInt(record.Equivalent),
		boolToInt(record.Closed),
		toMillis(record.CreatedAt),
	)
	if err != nil {
		_ = tx.Rollback()
		return 0, fmt.Errorf("insert proof: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		_ = tx.Rollback()
		return 0, fmt.Errorf("proof id: %w", err)
	}

	for i, step := range record.Steps {
		if _, err := tx.ExecContext(ctx, `
INSERT INTO proof_steps (proof_id, step_index, code, message, fact)
VALUES (?, ?, ?, ?, ?)`,
			id, i, step.Code, step.Message, step.Fact,
		); err != nil {
			_ = tx.Rollback()
			return 0, fmt.Errorf("insert proof step %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit proof: %w", err)
	}
	return id, nil
}

// GetProof loads a proof record with its steps.
func (s *Store) GetProof(ctx context.Context, id int64) (storage.ProofRecord, error) {
	var record storage.ProofRecord
	var equivalent, closed int
	var createdAt int64
	err := s.sqlDB.QueryRowContext(ctx, `
SELECT id, theorem, scenario, potential1, potential2, equivalent, closed, created_at
FROM proofs WHERE id = ?`, id).Scan(
		&record.ID,
		&record.Theorem,
		&record.Scenario,
		&record.Potential1,
		&record.Potential2,
		&equivalent,
		&closed,
		&createdAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return storage.ProofRecord{}, storage.ErrNotFound
	}
	if err != nil {
		return storage.ProofRecord{}, fmt.Errorf("select proof: %w", err)
	}
	record.Equivalent = equivalent != 0
	record.Closed = closed != 0
	record.CreatedAt = fromMillis(createdAt)

	rows, err := s.sqlDB.QueryContext(ctx, `
SELECT step_index, code, message, fact
FROM proof_steps WHERE proof_id = ? ORDER BY step_index`, id)
	if err != nil {
		return storage.ProofRecord{}, fmt.Errorf("select proof steps: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var step storage.StepRecord
		if err := rows.Scan(&step.Index, &step.Code, &step.Message, &step.Fact); err != nil {
			return storage.ProofRecord{}, fmt.Errorf("scan proof step: %w", err)
		}
		record.Steps = append(record.Steps, step)
	}
	if err := rows.Err(); err != nil {
		return storage.ProofRecord{}, fmt.Errorf("read proof steps: %w", err)
	}
	return record, nil
}

// ListProofs returns the most recent proof records without their steps.
func (s *Store) ListProofs(ctx context.Context, limit int) ([]storage.ProofRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.sqlDB.QueryContext(ctx, `
SELECT id, theorem, scenario, potential1, potential2, equivalent, closed, created_at
FROM proofs ORDER BY created_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("select proofs: %w", err)
	}
	defer rows.Close()

	var records []storage.ProofRecord
	for rows.Next() {
		var record storage.ProofRecord
		var equivalent, closed int
		var createdAt int64
		if err := rows.Scan(
			&record.ID,
			&record.Theorem,
			&record.Scenario,
			&record.Potential1,
			&record.Potential2,
			&equivalent,
			&closed,
			&createdAt,
		); err != nil {
			return nil, fmt.Errorf("scan proof: %w", err)
		}
		record.Equivalent = equivalent != 0
		record.Closed = closed != 0
		record.CreatedAt = fromMillis(createdAt)
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read proofs: %w", err)
	}
	return records, nil
}

// AppendTelemetryEvent stores one telemetry event.
func (s *Store) AppendTelemetryEvent(ctx context.Context, event storage.TelemetryEvent) error {
	metadata := event.Metadata
	if metadata == nil {
		metadata = map[string]string{}
	}
	encoded, err := json.Marshal(metadata)
	if err != nil {
		return fmt.Errorf("encode telemetry metadata: %w", err)
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	if _, err := s.sqlDB.ExecContext(ctx, `
INSERT INTO telemetry_events (timestamp, severity, code, message, metadata)
VALUES (?, ?, ?, ?, ?)`,
		toMillis(event.Timestamp),
		event.Severity,
		event.Code,
		event.Message,
		string(encoded),
	); err != nil {
		return fmt.Errorf("insert telemetry event: %w", err)
	}
	return nil
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}
