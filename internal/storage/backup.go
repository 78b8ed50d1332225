package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// Backup errors.
var (
	ErrBackupNotFound  = errors.New("backup not found")
	ErrBackupExists    = errors.New("backup already exists")
	ErrBackupCorrupted = errors.New("backup integrity check failed")
	ErrInvalidBackupID = errors.New("invalid backup ID")
)

const maxAutoBackups = 5

// BackupInfo describes one backup on disk.
type BackupInfo struct {
	CreatedAt     time.Time `json:"created_at"`
	ID            string    `json:"id"`
	Description   string    `json:"description"`
	FileSize      int64     `json:"file_size"`
	Keys          int       `json:"keys"`
	SchemaVersion int       `json:"schema_version"`
	IsAuto        bool      `json:"is_auto"`
}

// BackupManager snapshots the key-value store into standalone SQLite files
// stored next to the main database.
type BackupManager struct {
	storage    *SQLiteStorage
	backupsDir string
}

// NewBackupManager creates a backup manager for this storage instance.
func (s *SQLiteStorage) NewBackupManager() (*BackupManager, error) {
	if s.dbPath == ":memory:" {
		return nil, fmt.Errorf("backups are not supported for in-memory databases")
	}

	dir := filepath.Join(filepath.Dir(s.dbPath), "backups")
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create backups directory: %w", err)
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve backups directory: %w", err)
	}

	return &BackupManager{storage: s, backupsDir: abs}, nil
}

// Create snapshots the database under the given tag. An empty tag gets a
// timestamped name.
func (bm *BackupManager) Create(ctx context.Context, tag, description string) (*BackupInfo, error) {
	if tag == "" {
		tag = "backup-" + time.Now().Format("2006-01-02-150405")
	}
	if err := validateBackupID(tag); err != nil {
		return nil, err
	}

	backupPath := bm.dataPath(tag)
	if _, err := os.Stat(backupPath); err == nil {
		return nil, ErrBackupExists
	}

	version, err := bm.storage.SchemaVersion(ctx)
	if err != nil {
		return nil, err
	}

	var keys int
	if err := bm.storage.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM kv_store").Scan(&keys); err != nil {
		return nil, fmt.Errorf("failed to count keys: %w", err)
	}

	if _, err := bm.storage.db.ExecContext(ctx, "VACUUM INTO ?", backupPath); err != nil {
		return nil, fmt.Errorf("failed to write backup: %w", err)
	}

	stat, err := os.Stat(backupPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat backup: %w", err)
	}

	info := BackupInfo{
		ID:            tag,
		CreatedAt:     time.Now(),
		Description:   description,
		FileSize:      stat.Size(),
		Keys:          keys,
		SchemaVersion: version,
	}

	if err := bm.saveMetadata(info); err != nil {
		if rmErr := os.Remove(backupPath); rmErr != nil {
			slog.Error("failed to remove backup file after metadata save failure", "error", rmErr)
		}
		return nil, fmt.Errorf("failed to save metadata: %w", err)
	}

	return &info, nil
}

// Auto creates an automatic backup before a destructive operation and prunes
// old automatic backups.
func (bm *BackupManager) Auto(ctx context.Context, operation string) (*BackupInfo, error) {
	tag := fmt.Sprintf("auto-%s-%s", operation, time.Now().Format("2006-01-02-150405.000"))
	info, err := bm.Create(ctx, tag, "Automatic backup before "+operation)
	if err != nil {
		return nil, fmt.Errorf("failed to create automatic backup: %w", err)
	}

	info.IsAuto = true
	if err := bm.saveMetadata(*info); err != nil {
		slog.Warn("failed to mark backup as automatic", "backup_id", tag, "error", err)
	}

	if err := bm.pruneAuto(ctx); err != nil {
		slog.Warn("failed to prune automatic backups", "error", err)
	}

	return info, nil
}

// List returns all backups, newest first.
func (bm *BackupManager) List(_ context.Context) ([]BackupInfo, error) {
	entries, err := os.ReadDir(bm.backupsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read backups directory: %w", err)
	}

	backups := make([]BackupInfo, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".meta.json") {
			continue
		}
		info, err := bm.loadMetadata(strings.TrimSuffix(entry.Name(), ".meta.json"))
		if err != nil {
			slog.Debug("skipping unreadable backup metadata", "file", entry.Name(), "error", err)
			continue
		}
		backups = append(backups, *info)
	}

	sort.Slice(backups, func(i, j int) bool {
		return backups[i].CreatedAt.After(backups[j].CreatedAt)
	})

	return backups, nil
}

// Restore replaces every key in the live store with the backup's contents.
func (bm *BackupManager) Restore(ctx context.Context, id string) error {
	if err := validateBackupID(id); err != nil {
		return err
	}

	backupPath := bm.dataPath(id)
	if _, err := os.Stat(backupPath); err != nil {
		if os.IsNotExist(err) {
			return ErrBackupNotFound
		}
		return fmt.Errorf("failed to access backup: %w", err)
	}

	src, err := sql.Open("sqlite3", "file:"+backupPath+"?mode=ro")
	if err != nil {
		return fmt.Errorf("failed to open backup: %w", err)
	}
	defer func() { _ = src.Close() }()

	var result string
	if err := src.QueryRowContext(ctx, "PRAGMA integrity_check").Scan(&result); err != nil || result != "ok" {
		return ErrBackupCorrupted
	}

	rows, err := src.QueryContext(ctx, "SELECT key, value FROM kv_store")
	if err != nil {
		return fmt.Errorf("failed to read backup: %w", err)
	}
	defer func() { _ = rows.Close() }()

	type item struct{ key, value string }
	var items []item
	for rows.Next() {
		var it item
		if err := rows.Scan(&it.key, &it.value); err != nil {
			return fmt.Errorf("failed to scan backup row: %w", err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to read backup: %w", err)
	}

	tx, err := bm.storage.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM kv_store"); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("failed to clear store: %w", err)
	}
	for _, it := range items {
		if _, err := tx.ExecContext(ctx, "INSERT INTO kv_store (key, value) VALUES (?, ?)", it.key, it.value); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to restore key %s: %w", it.key, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit restore: %w", err)
	}

	slog.Info("Restored backup", "backup_id", id, "keys", len(items))
	return nil
}

// Delete removes a backup and its metadata.
func (bm *BackupManager) Delete(_ context.Context, id string) error {
	if err := validateBackupID(id); err != nil {
		return err
	}

	if err := os.Remove(bm.dataPath(id)); err != nil {
		if os.IsNotExist(err) {
			return ErrBackupNotFound
		}
		return fmt.Errorf("failed to remove backup: %w", err)
	}
	if err := os.Remove(bm.metaPath(id)); err != nil && !os.IsNotExist(err) {
		slog.Debug("failed to remove backup metadata", "backup_id", id, "error", err)
	}
	return nil
}

func (bm *BackupManager) pruneAuto(ctx context.Context) error {
	backups, err := bm.List(ctx)
	if err != nil {
		return err
	}

	autoCount := 0
	for _, b := range backups {
		if !b.IsAuto {
			continue
		}
		autoCount++
		if autoCount > maxAutoBackups {
			if err := bm.Delete(ctx, b.ID); err != nil {
				slog.Debug("failed to delete old automatic backup", "backup_id", b.ID, "error", err)
			}
		}
	}
	return nil
}

func (bm *BackupManager) dataPath(id string) string {
	return filepath.Join(bm.backupsDir, id+".db")
}

func (bm *BackupManager) metaPath(id string) string {
	return filepath.Join(bm.backupsDir, id+".meta.json")
}

func (bm *BackupManager) saveMetadata(info BackupInfo) error {
	data, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return err
	}

	path := bm.metaPath(info.ID)
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0600); err != nil {
		return err
	}
	return os.Rename(tmpPath, path)
}

func (bm *BackupManager) loadMetadata(id string) (*BackupInfo, error) {
	data, err := os.ReadFile(bm.metaPath(id)) // #nosec G304 - id is validated and joined onto backupsDir
	if err != nil {
		return nil, err
	}

	var info BackupInfo
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

func validateBackupID(id string) error {
	if strings.TrimSpace(id) == "" ||
		strings.ContainsAny(id, `/\'";`) ||
		strings.Contains(id, "..") {
		return fmt.Errorf("%w: %q", ErrInvalidBackupID, id)
	}
	return nil
}
