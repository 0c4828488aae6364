// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package status

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// 📊 FileStatus represents the outcome of patching a file
type FileStatus int

const (
	StatusUnknown   FileStatus = iota
	StatusPatched              // File content was replaced and written back
	StatusUnchanged            // Rules matched nothing (or matched identical text)
	StatusPending              // Dry run: file would be modified
	StatusError                // Patching the file failed
)

// String returns a string representation of FileStatus
func (s FileStatus) String() string {
	switch s {
	case StatusPatched:
		return "patched"
	case StatusUnchanged:
		return "unchanged"
	case StatusPending:
		return "pending"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

// 📄 FileInfo contains metadata about a patched file
type FileInfo struct {
	Path     string      // Path to the target file
	Rule     string      // Name of the rule that touched it
	Status   FileStatus  // Outcome of the patch
	Matches  int         // Number of regions replaced
	Size     int64       // Size after patching, in bytes
	Mode     os.FileMode // File permissions, preserved across rewrites
	Checksum string      // Content hash after patching
	Error    error       // Any error associated with this file
}

// 💾 FileManager handles the file system side of in-place patching
type FileManager interface {
	ReadFile(ctx context.Context, path string) ([]byte, os.FileMode, error)
	WriteFileInPlace(ctx context.Context, path string, content []byte, mode os.FileMode) error
	FileExists(ctx context.Context, path string) (bool, error)
}

// 📈 StatusReporter tracks per-file outcomes and reports progress
type StatusReporter interface {
	TrackFile(ctx context.Context, path string, info FileInfo)
	GetFileInfo(ctx context.Context, path string) (FileInfo, error)
	ListFiles(ctx context.Context) ([]FileInfo, error)

	StartOperation(ctx context.Context, total int)
	UpdateProgress(ctx context.Context, processed int)
	FinishOperation(ctx context.Context)
}

// 🔧 Manager implements both FileManager and StatusReporter
type Manager struct {
	logger    *zerolog.Logger // Logger for status updates
	formatter FileFormatter   // Formatter for status messages

	// Status tracking
	mu    sync.RWMutex
	files map[string]FileInfo

	// Progress tracking
	total     int
	processed int
}

// 🏭 New creates a new status manager
func New(logger *zerolog.Logger) *Manager {
	return &Manager{
		logger:    logger,
		formatter: NewDefaultFileFormatter(),
		files:     make(map[string]FileInfo),
	}
}

// 🔍 Checksum generates a SHA-256 hash of the content
func Checksum(content []byte) string {
	hash := sha256.Sum256(content)
	return hex.EncodeToString(hash[:])
}

// FileManager interface implementation

// ReadFile reads a target file and reports its permissions so a later
// rewrite can preserve them.
func (m *Manager) ReadFile(ctx context.Context, path string) ([]byte, os.FileMode, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, 0, errors.Errorf("stating file: %w", err)
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, 0, errors.Errorf("reading file: %w", err)
	}
	return content, info.Mode().Perm(), nil
}

// WriteFileInPlace atomically overwrites path with content, keeping the
// given permissions. The temp file lives in the same directory so the
// rename never crosses filesystems.
func (m *Manager) WriteFileInPlace(ctx context.Context, path string, content []byte, mode os.FileMode) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp*")
	if err != nil {
		return errors.Errorf("creating temp file: %w", err)
	}
	tempPath := tmp.Name()

	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		os.Remove(tempPath)
		return errors.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tempPath)
		return errors.Errorf("closing temp file: %w", err)
	}
	if err := os.Chmod(tempPath, mode); err != nil {
		os.Remove(tempPath)
		return errors.Errorf("setting file mode: %w", err)
	}

	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath)
		return errors.Errorf("renaming temp file: %w", err)
	}

	return nil
}

func (m *Manager) FileExists(ctx context.Context, path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, errors.Errorf("checking file existence: %w", err)
}

// StatusReporter interface implementation

// statusRank orders outcomes so merging never downgrades a file:
// an error always wins, a patch beats a later no-op.
func statusRank(s FileStatus) int {
	switch s {
	case StatusError:
		return 4
	case StatusPatched:
		return 3
	case StatusPending:
		return 2
	case StatusUnchanged:
		return 1
	default:
		return 0
	}
}

// TrackFile records the outcome of one rule against one file. Several
// rules may touch the same file: replacement counts accumulate, and
// the strongest outcome wins (a rule that matched nothing must not
// mask an earlier patch).
func (m *Manager) TrackFile(ctx context.Context, path string, info FileInfo) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if prev, ok := m.files[path]; ok {
		info.Matches += prev.Matches
		if statusRank(prev.Status) > statusRank(info.Status) {
			info.Status = prev.Status
			info.Rule = prev.Rule
			if info.Error == nil {
				info.Error = prev.Error
			}
		}
	}
	m.files[path] = info
	msg := m.formatter.FormatFileOperation(path, info.Status, info.Matches)
	if info.Error != nil {
		msg = m.formatter.FormatError(info.Error)
	}
	m.logger.Info().
		Str("path", path).
		Str("rule", info.Rule).
		Str("status", info.Status.String()).
		Int("matches", info.Matches).
		Msg(msg)
}

func (m *Manager) GetFileInfo(ctx context.Context, path string) (FileInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	info, ok := m.files[path]
	if !ok {
		return FileInfo{}, errors.Errorf("file not tracked: %s", path)
	}
	return info, nil
}

func (m *Manager) ListFiles(ctx context.Context) ([]FileInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	files := make([]FileInfo, 0, len(m.files))
	for _, info := range m.files {
		files = append(files, info)
	}
	return files, nil
}

// TotalMatches sums the replacements made across all tracked files
func (m *Manager) TotalMatches(ctx context.Context) int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	total := 0
	for _, info := range m.files {
		total += info.Matches
	}
	return total
}

func (m *Manager) StartOperation(ctx context.Context, total int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.total = total
	m.processed = 0
	msg := m.formatter.FormatProgress(0, total)
	m.logger.Info().Int("total", total).Msg(msg)
}

func (m *Manager) UpdateProgress(ctx context.Context, processed int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.processed = processed
	msg := m.formatter.FormatProgress(processed, m.total)
	m.logger.Info().
		Int("processed", processed).
		Int("total", m.total).
		Msg(msg)
}

func (m *Manager) FinishOperation(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()

	msg := m.formatter.FormatProgress(m.total, m.total)
	m.logger.Info().
		Int("processed", m.total).
		Int("total", m.total).
		Msg(msg)
}
