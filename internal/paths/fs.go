package paths

import (
	"os"
	"path/filepath"
)

// FS is the set of filesystem probes the resolver depends on. Tests supply
// an in-memory implementation; [OSFS] is the real one.
type FS interface {
	// Exists reports whether path names an existing file or directory.
	Exists(path string) bool
	// IsSymlink reports whether path itself is a symbolic link.
	IsSymlink(path string) bool
	// RealPath returns the absolute path with every symlink resolved.
	RealPath(path string) (string, error)
	// ReadFile returns the contents of the file at path.
	ReadFile(path string) ([]byte, error)
}

// OSFS implements [FS] on the host filesystem.
type OSFS struct{}

// Exists reports whether path can be stat'ed. Any error counts as absent.
func (OSFS) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// IsSymlink uses [os.Lstat] so the link itself is inspected, not its target.
func (OSFS) IsSymlink(path string) bool {
	fi, err := os.Lstat(path)
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeSymlink != 0
}

// RealPath makes path absolute and resolves symlinks.
func (OSFS) RealPath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	return filepath.EvalSymlinks(abs)
}

// ReadFile reads the named file.
func (OSFS) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}
