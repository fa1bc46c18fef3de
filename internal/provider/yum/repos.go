package yum

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/felixgeelhaar/pkgreconcile/internal/ports"
	"github.com/felixgeelhaar/pkgreconcile/internal/validation"
	"gopkg.in/ini.v1"
)

// DefaultRepoDir is where yum and dnf read repository definitions.
const DefaultRepoDir = "/etc/yum.repos.d"

const repoFilePerm = 0o644

// ErrInvalidRepoDefinition is returned for .repo content yum would reject.
var ErrInvalidRepoDefinition = errors.New("invalid repository definition")

// Repo is a repository definition to install as <dir>/<Name>.repo.
type Repo struct {
	Name    string
	Content string
}

// ValidateRepoContent checks that content is an INI repository file with at
// least one section and a package source in every section.
func ValidateRepoContent(content string) error {
	if strings.TrimSpace(content) == "" {
		return fmt.Errorf("%w: empty content", ErrInvalidRepoDefinition)
	}

	cfg, err := ini.Load([]byte(content))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidRepoDefinition, err)
	}

	var sections int
	for _, section := range cfg.Sections() {
		if section.Name() == ini.DefaultSection {
			if len(section.Keys()) > 0 {
				return fmt.Errorf("%w: keys outside of a [section]", ErrInvalidRepoDefinition)
			}
			continue
		}
		sections++

		if !section.HasKey("baseurl") && !section.HasKey("mirrorlist") && !section.HasKey("metalink") {
			return fmt.Errorf("%w: section [%s] needs baseurl, mirrorlist or metalink",
				ErrInvalidRepoDefinition, section.Name())
		}
	}

	if sections == 0 {
		return fmt.Errorf("%w: no [section] found", ErrInvalidRepoDefinition)
	}
	return nil
}

// RepoWriter installs repository definitions into a repository directory.
type RepoWriter struct {
	fs  ports.FileSystem
	dir string
}

// NewRepoWriter creates a RepoWriter for dir; empty means DefaultRepoDir.
func NewRepoWriter(fs ports.FileSystem, dir string) *RepoWriter {
	if dir == "" {
		dir = DefaultRepoDir
	}
	return &RepoWriter{fs: fs, dir: ports.ExpandPath(dir)}
}

// Path returns the file a repository is written to.
func (w *RepoWriter) Path(name string) string {
	return filepath.Join(w.dir, name+".repo")
}

// Write validates and writes repo. It reports whether the file changed;
// a file already holding the same content is left alone.
func (w *RepoWriter) Write(repo Repo) (bool, error) {
	if err := validation.ValidateRepoName(repo.Name); err != nil {
		return false, err
	}
	if err := ValidateRepoContent(repo.Content); err != nil {
		return false, fmt.Errorf("repository %s: %w", repo.Name, err)
	}

	content := []byte(repo.Content)
	if !bytes.HasSuffix(content, []byte("\n")) {
		content = append(content, '\n')
	}

	path := w.Path(repo.Name)
	if existing, err := w.fs.ReadFile(path); err == nil && bytes.Equal(existing, content) {
		return false, nil
	}

	if err := w.fs.MkdirAll(w.dir, 0o755); err != nil {
		return false, fmt.Errorf("failed to create repository directory: %w", err)
	}

	if err := ports.WriteFileAtomic(w.fs, path, content, repoFilePerm); err != nil {
		return false, fmt.Errorf("failed to install repository %s: %w", repo.Name, err)
	}

	return true, nil
}
