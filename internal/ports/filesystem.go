package ports

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FileSystem provides the file operations used for repository definitions
// and run records.
type FileSystem interface {
	ReadFile(path string) ([]byte, error)
	WriteFile(path string, data []byte, perm os.FileMode) error
	Exists(path string) bool
	IsDir(path string) bool
	MkdirAll(path string, perm os.FileMode) error
	Rename(oldPath, newPath string) error
	Remove(path string) error
}

// WriteFileAtomic writes data to path+".tmp" and renames it over path, so
// readers (yum, the last-run command) never observe a partial file. The temp
// file is removed when the rename fails.
func WriteFileAtomic(fs FileSystem, path string, data []byte, perm os.FileMode) error {
	tmpPath := path + ".tmp"
	if err := fs.WriteFile(tmpPath, data, perm); err != nil {
		return fmt.Errorf("write %s: %w", tmpPath, err)
	}
	if err := fs.Rename(tmpPath, path); err != nil {
		_ = fs.Remove(tmpPath)
		return fmt.Errorf("rename %s: %w", tmpPath, err)
	}
	return nil
}

// ExpandPath expands ~ to the user's home directory.
func ExpandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}
