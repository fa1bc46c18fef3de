// Package runstore persists run records as YAML files.
package runstore

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/felixgeelhaar/pkgreconcile/internal/domain/runlog"
	"github.com/felixgeelhaar/pkgreconcile/internal/ports"
	"gopkg.in/yaml.v3"
)

// YAMLRepository implements runlog.Repository using YAML files.
type YAMLRepository struct {
	fs ports.FileSystem
}

// NewYAMLRepository creates a new YAML-based run record repository.
func NewYAMLRepository(fs ports.FileSystem) *YAMLRepository {
	return &YAMLRepository{fs: fs}
}

// Load reads a run record from the given path.
func (r *YAMLRepository) Load(_ context.Context, path string) (*runlog.Record, error) {
	data, err := r.fs.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, runlog.ErrRecordNotFound
		}
		return nil, fmt.Errorf("failed to read run record: %w", err)
	}

	var dto runlog.RecordDTO
	if err := yaml.Unmarshal(data, &dto); err != nil {
		return nil, fmt.Errorf("%w: %w", runlog.ErrRecordCorrupt, err)
	}

	record, err := runlog.FromDTO(dto)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", runlog.ErrRecordCorrupt, err)
	}

	return record, nil
}

// Save writes a run record to the given path.
func (r *YAMLRepository) Save(_ context.Context, path string, record *runlog.Record) error {
	dto := runlog.ToDTO(record)

	data, err := yaml.Marshal(&dto)
	if err != nil {
		return fmt.Errorf("%w: %w", runlog.ErrSaveFailed, err)
	}

	dir := filepath.Dir(path)
	if err := r.fs.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("%w: failed to create directory: %w", runlog.ErrSaveFailed, err)
	}

	if err := ports.WriteFileAtomic(r.fs, path, data, 0o644); err != nil {
		return fmt.Errorf("%w: %w", runlog.ErrSaveFailed, err)
	}

	return nil
}

// Exists returns true if a run record exists at the given path.
func (r *YAMLRepository) Exists(_ context.Context, path string) bool {
	return r.fs.Exists(path)
}

// Ensure YAMLRepository implements runlog.Repository.
var _ runlog.Repository = (*YAMLRepository)(nil)
