// FILE: lixenwraith/stylecheck/internal/fsutil/fsutil.go

// Package fsutil holds filesystem helpers shared by the cache and the fix writer.
package fsutil

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strconv"

	"github.com/go-git/go-billy/v5"
)

// WriteFileAtomic writes data to a temporary file next to path and renames it
// into place, so readers never see a partial file. An existing file keeps its
// permissions; new files get 0644. The mode is set when the temporary file is
// created, subject to the process umask.
func WriteFileAtomic(fs billy.Filesystem, path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := fs.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory '%s': %w", dir, err)
	}

	mode := os.FileMode(0644)
	if info, err := fs.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}

	tempFile, tempPath, err := createTemp(fs, path, mode)
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}
	defer fs.Remove(tempPath) // Clean up on any error

	if _, err := tempFile.Write(data); err != nil {
		tempFile.Close()
		return fmt.Errorf("failed to write temporary file: %w", err)
	}

	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("failed to close temporary file: %w", err)
	}

	if err := fs.Rename(tempPath, path); err != nil {
		return fmt.Errorf("failed to rename temporary file: %w", err)
	}

	return nil
}

// createTemp exclusively creates <path>.<random>.tmp with mode.
func createTemp(fs billy.Filesystem, path string, mode os.FileMode) (billy.File, string, error) {
	for range 100 {
		tempPath := path + "." + strconv.FormatUint(rand.Uint64(), 36) + ".tmp"
		f, err := fs.OpenFile(tempPath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, mode)
		if errors.Is(err, os.ErrExist) {
			continue
		}
		if err != nil {
			return nil, "", err
		}
		return f, tempPath, nil
	}
	return nil, "", fmt.Errorf("no unused temporary name for '%s'", path)
}
