// FILE: lixenwraith/stylecheck/config/locator.go
package config

import (
	"path/filepath"

	"github.com/go-git/go-billy/v5"
)

// FileLocator finds configuration resources on a filesystem.
// Relative names resolve against the current directory first, then the search paths.
type FileLocator struct {
	fs    billy.Filesystem
	paths []string
}

// NewFileLocator creates a locator over fs with optional search paths
func NewFileLocator(fs billy.Filesystem, paths ...string) *FileLocator {
	return &FileLocator{fs: fs, paths: paths}
}

// Locate returns the cleaned path of the first matching file.
// A miss is reported as *ResourceNotFoundError.
func (l *FileLocator) Locate(name, currentDir string) (string, error) {
	if name == "" {
		return "", &ResourceNotFoundError{Resource: name}
	}

	if filepath.IsAbs(name) {
		if l.isFile(name) {
			return filepath.Clean(name), nil
		}
		return "", &ResourceNotFoundError{Resource: name}
	}

	dirs := make([]string, 0, len(l.paths)+1)
	if currentDir != "" {
		dirs = append(dirs, currentDir)
	}
	dirs = append(dirs, l.paths...)

	for _, dir := range dirs {
		candidate := filepath.Join(dir, name)
		if l.isFile(candidate) {
			return candidate, nil
		}
	}

	return "", &ResourceNotFoundError{Resource: name, Paths: dirs}
}

// Filesystem exposes the filesystem resources are read from
func (l *FileLocator) Filesystem() billy.Filesystem {
	return l.fs
}

func (l *FileLocator) isFile(path string) bool {
	info, err := l.fs.Stat(path)
	return err == nil && !info.IsDir()
}
