// Package backup writes rotating JSON snapshots of every table and restores
// them through the table store, so it works the same on every medium.
package backup

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/julianstephens/neuroflow/internal/constants"
	"github.com/julianstephens/neuroflow/internal/kv"
	"github.com/julianstephens/neuroflow/internal/logger"
)

// ErrInvalidBackup marks files that are not neuroflow table dumps.
var ErrInvalidBackup = errors.New("backup file is corrupted or invalid")

// Store is the part of *kv.TableStore a backup needs.
type Store interface {
	Dump(ctx context.Context) (kv.Dump, error)
	Restore(ctx context.Context, d kv.Dump) error
}

// BackupInfo contains information about a backup file
type BackupInfo struct {
	Path      string
	Timestamp time.Time
	Size      int64
}

// File is the on-disk backup document.
type File struct {
	Version   string    `json:"version"`
	CreatedAt time.Time `json:"createdAt"`
	Tables    kv.Dump   `json:"tables"`
}

type Option func(*Manager)

func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// Manager handles backup operations
type Manager struct {
	store     Store
	backupDir string
	now       func() time.Time
}

func NewManager(store Store, backupDir string, opts ...Option) *Manager {
	m := &Manager{store: store, backupDir: backupDir, now: time.Now}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// DefaultDir returns the backup directory under the config dir.
func DefaultDir(configDir string) string {
	return filepath.Join(configDir, constants.BackupDirName)
}

// GetBackupDir returns the backup directory path
func (m *Manager) GetBackupDir() string {
	return m.backupDir
}

// CreateBackup dumps every table to a new file and prunes old backups.
func (m *Manager) CreateBackup(ctx context.Context) (string, error) {
	return m.createBackup(ctx, false)
}

// createBackup skips rotation for the safety copy taken before a restore.
func (m *Manager) createBackup(ctx context.Context, skipRotation bool) (string, error) {
	if err := os.MkdirAll(m.backupDir, 0o700); err != nil {
		return "", fmt.Errorf("failed to create backup directory: %w", err)
	}

	now := m.now()
	backupPath, err := m.uniquePath(now)
	if err != nil {
		return "", err
	}

	dump, err := m.store.Dump(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to read tables: %w", err)
	}
	data, err := json.MarshalIndent(File{Version: constants.Version, CreatedAt: now.UTC(), Tables: dump}, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode backup: %w", err)
	}

	tmp := backupPath + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return "", fmt.Errorf("failed to write backup: %w", err)
	}
	if err := os.Rename(tmp, backupPath); err != nil {
		_ = os.Remove(tmp)
		return "", fmt.Errorf("failed to write backup: %w", err)
	}

	if !skipRotation {
		if err := m.rotateBackups(); err != nil {
			logger.Warn("failed to rotate old backups", "error", err)
		}
	}
	return backupPath, nil
}

// uniquePath tries minute precision, then seconds, then a counter.
func (m *Manager) uniquePath(now time.Time) (string, error) {
	name := func(stamp string) string {
		return filepath.Join(m.backupDir, constants.BackupFilePrefix+stamp+constants.BackupFileSuffix)
	}
	exists := func(p string) bool {
		_, err := os.Stat(p)
		return err == nil
	}

	path := name(now.Format("20060102-1504"))
	if !exists(path) {
		return path, nil
	}
	stamp := now.Format("20060102-150405")
	path = name(stamp)
	for counter := 1; exists(path); counter++ {
		if counter > 100 {
			return "", errors.New("failed to generate unique backup filename")
		}
		path = name(fmt.Sprintf("%s-%d", stamp, counter))
	}
	return path, nil
}

// ListBackups returns all backups, newest first.
func (m *Manager) ListBackups() ([]BackupInfo, error) {
	entries, err := os.ReadDir(m.backupDir)
	if errors.Is(err, os.ErrNotExist) {
		return []BackupInfo{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read backup directory: %w", err)
	}

	backups := []BackupInfo{}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, constants.BackupFilePrefix) || !strings.HasSuffix(name, constants.BackupFileSuffix) {
			continue
		}
		timestamp, ok := parseStamp(strings.TrimSuffix(strings.TrimPrefix(name, constants.BackupFilePrefix), constants.BackupFileSuffix))
		if !ok {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		backups = append(backups, BackupInfo{
			Path:      filepath.Join(m.backupDir, name),
			Timestamp: timestamp,
			Size:      info.Size(),
		})
	}

	sort.SliceStable(backups, func(i, j int) bool {
		if backups[i].Timestamp.Equal(backups[j].Timestamp) {
			return backups[i].Path > backups[j].Path
		}
		return backups[i].Timestamp.After(backups[j].Timestamp)
	})
	return backups, nil
}

// parseStamp accepts YYYYMMDD-HHMM, YYYYMMDD-HHMMSS and either with a -N counter.
func parseStamp(s string) (time.Time, bool) {
	parts := strings.Split(s, "-")
	if len(parts) == 3 {
		s = parts[0] + "-" + parts[1]
	}
	for _, layout := range []string{"20060102-1504", "20060102-150405"} {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// rotateBackups removes old backups beyond the retention limit
func (m *Manager) rotateBackups() error {
	backups, err := m.ListBackups()
	if err != nil {
		return err
	}
	for i := constants.MaxBackups; i < len(backups); i++ {
		if err := os.Remove(backups[i].Path); err != nil {
			return fmt.Errorf("failed to remove old backup %s: %w", backups[i].Path, err)
		}
	}
	return nil
}

// ReadBackup loads and validates a backup file.
func ReadBackup(path string) (File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return File{}, fmt.Errorf("failed to read backup: %w", err)
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var f File
	if err := dec.Decode(&f); err != nil {
		return File{}, fmt.Errorf("%w: %v", ErrInvalidBackup, err)
	}
	if f.Tables == nil {
		return File{}, fmt.Errorf("%w: no tables", ErrInvalidBackup)
	}
	return f, nil
}

// RestoreBackup replaces the stored tables with the contents of backupPath.
// The current state is saved first and that path is returned.
func (m *Manager) RestoreBackup(ctx context.Context, backupPath string) (string, error) {
	f, err := ReadBackup(backupPath)
	if err != nil {
		return "", err
	}

	safety, err := m.createBackup(ctx, true)
	if err != nil {
		return "", fmt.Errorf("failed to backup current data before restore: %w", err)
	}

	if err := m.store.Restore(ctx, f.Tables); err != nil {
		return safety, fmt.Errorf("failed to restore backup: %w", err)
	}
	return safety, nil
}
