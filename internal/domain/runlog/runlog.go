// Package runlog records the outcome of reconciliation runs.
package runlog

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Mode is how a run was invoked.
type Mode string

// Run modes.
const (
	ModeDryRun  Mode = "dry-run"
	ModeExecute Mode = "execute"
)

// IsValid checks if the mode is a known mode.
func (m Mode) IsValid() bool {
	switch m {
	case ModeDryRun, ModeExecute:
		return true
	default:
		return false
	}
}

// ModeFor returns the mode matching a dry-run flag.
func ModeFor(dryRun bool) Mode {
	if dryRun {
		return ModeDryRun
	}
	return ModeExecute
}

// Record errors.
var (
	ErrRecordNotFound = errors.New("no run has been recorded")
	ErrRecordCorrupt  = errors.New("run record is corrupt")
	ErrSaveFailed     = errors.New("failed to save run record")
)

// Record is the outcome of one run.
type Record struct {
	ID         string
	Mode       Mode
	Backend    string
	StartedAt  time.Time
	FinishedAt time.Time
	Info       []string
	Warnings   []string
	Hardened   []string
	RepoFiles  []string
	Error      string
}

// NewRecord starts a record with a fresh run ID.
func NewRecord(mode Mode, backend string, startedAt time.Time) *Record {
	return &Record{
		ID:        uuid.New().String(),
		Mode:      mode,
		Backend:   backend,
		StartedAt: startedAt,
	}
}

// Finish stamps the finish time and the run error, if any.
func (r *Record) Finish(finishedAt time.Time, err error) {
	r.FinishedAt = finishedAt
	if err != nil {
		r.Error = err.Error()
	}
}

// Succeeded reports whether the run finished without error.
func (r *Record) Succeeded() bool {
	return !r.FinishedAt.IsZero() && r.Error == ""
}

// Duration returns how long the run took, or 0 if it has not finished.
func (r *Record) Duration() time.Duration {
	if r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// Repository persists the most recent run record.
type Repository interface {
	Load(ctx context.Context, path string) (*Record, error)
	Save(ctx context.Context, path string, record *Record) error
	Exists(ctx context.Context, path string) bool
}

// RecordDTO is the serialized form of a Record.
type RecordDTO struct {
	ID         string    `yaml:"id"`
	Mode       string    `yaml:"mode"`
	Backend    string    `yaml:"backend,omitempty"`
	StartedAt  time.Time `yaml:"started_at"`
	FinishedAt time.Time `yaml:"finished_at"`
	Info       []string  `yaml:"info,omitempty"`
	Warnings   []string  `yaml:"warnings,omitempty"`
	Hardened   []string  `yaml:"hardened,omitempty"`
	RepoFiles  []string  `yaml:"repo_files,omitempty"`
	Error      string    `yaml:"error,omitempty"`
}

// ToDTO converts a Record for serialization.
func ToDTO(r *Record) RecordDTO {
	return RecordDTO{
		ID:         r.ID,
		Mode:       string(r.Mode),
		Backend:    r.Backend,
		StartedAt:  r.StartedAt.UTC(),
		FinishedAt: r.FinishedAt.UTC(),
		Info:       r.Info,
		Warnings:   r.Warnings,
		Hardened:   r.Hardened,
		RepoFiles:  r.RepoFiles,
		Error:      r.Error,
	}
}

// FromDTO validates and converts a deserialized record.
func FromDTO(dto RecordDTO) (*Record, error) {
	if _, err := uuid.Parse(dto.ID); err != nil {
		return nil, errors.New("invalid run id")
	}
	mode := Mode(dto.Mode)
	if !mode.IsValid() {
		return nil, errors.New("invalid run mode")
	}

	return &Record{
		ID:         dto.ID,
		Mode:       mode,
		Backend:    dto.Backend,
		StartedAt:  dto.StartedAt,
		FinishedAt: dto.FinishedAt,
		Info:       dto.Info,
		Warnings:   dto.Warnings,
		Hardened:   dto.Hardened,
		RepoFiles:  dto.RepoFiles,
		Error:      dto.Error,
	}, nil
}
