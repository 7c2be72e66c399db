// FILE: lixenwraith/stylecheck/internal/cache/cache.go

// Package cache remembers which files passed all checks so unchanged files
// are skipped on the next run.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"

	"github.com/lixenwraith/stylecheck/internal/fsutil"
)

const fileName = "changed-files.json"

// state is the on-disk form
type state struct {
	Fingerprint string            `json:"fingerprint"`
	Files       map[string]string `json:"files"`
}

// ChangedFilesDetector tracks content hashes of files that passed a run.
// The whole cache is dropped when the configuration fingerprint changes.
type ChangedFilesDetector struct {
	fs          billy.Filesystem
	dir         string
	fingerprint string
	files       map[string]string
	dirty       bool
	logger      *slog.Logger
	mutex       sync.Mutex
}

// New creates a detector storing its state under dir. Call Load before use.
func New(fs billy.Filesystem, dir, fingerprint string, logger *slog.Logger) *ChangedFilesDetector {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &ChangedFilesDetector{
		fs:          fs,
		dir:         dir,
		fingerprint: fingerprint,
		files:       make(map[string]string),
		logger:      logger,
	}
}

// DefaultDirectory is used when the cache_directory parameter is not set
func DefaultDirectory() string {
	return filepath.Join(os.TempDir(), "stylecheck")
}

// Fingerprint hashes the content of every configuration resource in order,
// followed by the JSON encoding of effective. effective should hold the merged
// configuration, so values set outside any resource also invalidate the cache.
func Fingerprint(fs billy.Filesystem, resources []string, effective any) (string, error) {
	h := sha256.New()
	for _, path := range resources {
		data, err := util.ReadFile(fs, path)
		if err != nil {
			return "", fmt.Errorf("failed to read config resource '%s': %w", path, err)
		}
		fmt.Fprintf(h, "%s\x00%d\x00", path, len(data))
		h.Write(data)
	}

	encoded, err := json.Marshal(effective)
	if err != nil {
		return "", fmt.Errorf("failed to encode effective configuration: %w", err)
	}
	h.Write([]byte{0})
	h.Write(encoded)
	return hex.EncodeToString(h.Sum(nil)), nil
}

// Load reads the stored state. A missing or unreadable cache starts empty.
func (d *ChangedFilesDetector) Load() error {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	data, err := util.ReadFile(d.fs, d.path())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to read cache '%s': %w", d.path(), err)
	}

	var stored state
	if err := json.Unmarshal(data, &stored); err != nil {
		d.logger.Warn("Cache is corrupt, starting empty.", "file", d.path(), "error", err)
		d.dirty = true
		return nil
	}

	if stored.Fingerprint != d.fingerprint {
		d.logger.Debug("Configuration changed, cache invalidated.", "file", d.path())
		d.dirty = true
		return nil
	}

	if stored.Files != nil {
		d.files = stored.Files
	}
	d.logger.Debug("Cache loaded.", "file", d.path(), "entries", len(d.files))
	return nil
}

// HasChanged reports whether content differs from what passed last time
func (d *ChangedFilesDetector) HasChanged(path string, content []byte) bool {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	hash, ok := d.files[path]
	return !ok || hash != contentHash(content)
}

// Add records content as passing
func (d *ChangedFilesDetector) Add(path string, content []byte) {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	d.files[path] = contentHash(content)
	d.dirty = true
}

// Invalidate forgets a file so it is checked again next run
func (d *ChangedFilesDetector) Invalidate(path string) {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	if _, ok := d.files[path]; ok {
		delete(d.files, path)
		d.dirty = true
	}
}

// Save writes the state if anything changed
func (d *ChangedFilesDetector) Save() error {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	if !d.dirty {
		return nil
	}

	data, err := json.MarshalIndent(state{Fingerprint: d.fingerprint, Files: d.files}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal cache: %w", err)
	}
	if err := fsutil.WriteFileAtomic(d.fs, d.path(), data); err != nil {
		return fmt.Errorf("failed to save cache: %w", err)
	}
	d.dirty = false
	return nil
}

// Clear removes the stored cache and forgets every entry
func (d *ChangedFilesDetector) Clear() error {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	d.files = make(map[string]string)
	d.dirty = false
	if err := util.RemoveAll(d.fs, d.dir); err != nil {
		return fmt.Errorf("failed to clear cache '%s': %w", d.dir, err)
	}
	d.logger.Debug("Cache cleared.", "dir", d.dir)
	return nil
}

func (d *ChangedFilesDetector) path() string {
	return filepath.Join(d.dir, fileName)
}

func contentHash(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}
