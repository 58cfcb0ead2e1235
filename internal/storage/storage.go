// Package storage defines the persistence interfaces for checked proofs and
// operational telemetry. Implementations live in subpackages.
package storage

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound indicates a requested record is missing.
var ErrNotFound = errors.New("record not found")

// StepRecord is one derivation step as persisted.
type StepRecord struct {
	Index   int
	Code    string
	Message string
	Fact    string
}

// ProofRecord is a persisted derivation trace for one theorem check.
type ProofRecord struct {
	ID         int64
	Theorem    string
	Scenario   string
	Potential1 string
	Potential2 string
	Equivalent bool
	Closed     bool
	Steps      []StepRecord
	CreatedAt  time.Time
}

// TelemetryEvent is a structured operational event.
type TelemetryEvent struct {
	Timestamp time.Time
	Severity  string
	Code      string
	Message   string
	Metadata  map[string]string
}

// ProofStore persists derivation traces.
type ProofStore interface {
	AppendProof(ctx context.Context, record ProofRecord) (int64, error)
	GetProof(ctx context.Context, id int64) (ProofRecord, error)
	ListProofs(ctx context.Context, limit int) ([]ProofRecord, error)
}

// TelemetryStore persists telemetry events.
type TelemetryStore interface {
	AppendTelemetryEvent(ctx context.Context, event TelemetryEvent) error
}
