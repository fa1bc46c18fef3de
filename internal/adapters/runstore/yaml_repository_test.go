package runstore

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/felixgeelhaar/pkgreconcile/internal/adapters/filesystem"
	"github.com/felixgeelhaar/pkgreconcile/internal/domain/runlog"
	"github.com/felixgeelhaar/pkgreconcile/internal/testutil"
	"github.com/felixgeelhaar/pkgreconcile/internal/testutil/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRecord() *runlog.Record {
	start := time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC)
	r := runlog.NewRecord(runlog.ModeExecute, "yum", start)
	r.Info = []string{"Packages installed: nagios-plugins-argo-0.1.12"}
	r.Warnings = []string{"Packages not found: ghost"}
	r.Hardened = []string{"nagios-plugins-argo"}
	r.Finish(start.Add(42*time.Second), nil)
	return r
}

func TestYAMLRepository_SaveAndLoad(t *testing.T) {
	t.Parallel()

	repo := NewYAMLRepository(filesystem.NewRealFileSystem())
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "last-run.yaml")

	record := sampleRecord()
	require.NoError(t, repo.Save(ctx, path, record))
	assert.True(t, repo.Exists(ctx, path))

	loaded, err := repo.Load(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, record, loaded)

	testutil.AssertFileNotExists(t, path+".tmp")
	testutil.AssertFileContains(t, path, "mode: execute")
}

func TestYAMLRepository_LoadNotFound(t *testing.T) {
	t.Parallel()

	repo := NewYAMLRepository(filesystem.NewRealFileSystem())
	_, err := repo.Load(context.Background(), filepath.Join(t.TempDir(), "missing.yaml"))

	assert.ErrorIs(t, err, runlog.ErrRecordNotFound)
}

func TestYAMLRepository_LoadCorrupt(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
	}{
		{"not yaml", "id: [unclosed\n"},
		{"bad id", "id: nope\nmode: execute\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			fs := mocks.NewFileSystem()
			fs.AddFile("/state/last-run.yaml", tt.content)

			_, err := NewYAMLRepository(fs).Load(context.Background(), "/state/last-run.yaml")
			assert.ErrorIs(t, err, runlog.ErrRecordCorrupt)
		})
	}
}

func TestYAMLRepository_SaveCreatesDirectory(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "var", "lib", "pkgreconcile", "last-run.yaml")
	repo := NewYAMLRepository(filesystem.NewRealFileSystem())

	require.NoError(t, repo.Save(context.Background(), path, sampleRecord()))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o644), info.Mode().Perm())
}

func TestYAMLRepository_SaveWriteFailure(t *testing.T) {
	t.Parallel()

	fs := mocks.NewFileSystem()
	fs.FailWrite("/state/last-run.yaml.tmp", errors.New("disk full"))

	err := NewYAMLRepository(fs).Save(context.Background(), "/state/last-run.yaml", sampleRecord())

	assert.ErrorIs(t, err, runlog.ErrSaveFailed)
	assert.False(t, fs.Exists("/state/last-run.yaml"))
}

func TestYAMLRepository_SavedFormat(t *testing.T) {
	t.Parallel()

	fs := mocks.NewFileSystem()
	record := sampleRecord()

	require.NoError(t, NewYAMLRepository(fs).Save(context.Background(), "/s.yaml", record))

	content := fs.Content("/s.yaml")
	assert.Contains(t, content, "id: "+record.ID)
	assert.Contains(t, content, "mode: execute")
	assert.Contains(t, content, "Packages not found: ghost")
	assert.NotContains(t, content, "error:")
}
