package database

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"hotelbooking/internal/config"
	"hotelbooking/internal/metrics"

	"github.com/rs/zerolog"
)

const (
	backupPrefix          = "hotelbooking_"
	defaultBackupInterval = 24 * time.Hour
)

// BackupService snapshots the SQLite file on a fixed interval and prunes
// snapshots older than the retention window.
type BackupService struct {
	db     *DB
	cfg    config.BackupConfig
	now    func() time.Time
	logger *zerolog.Logger
}

func NewBackupService(db *DB, cfg config.BackupConfig, logger *zerolog.Logger) *BackupService {
	return &BackupService{db: db, cfg: cfg, now: time.Now, logger: logger}
}

func (s *BackupService) interval() time.Duration {
	if s.cfg.Schedule == "" {
		return defaultBackupInterval
	}
	d, err := time.ParseDuration(s.cfg.Schedule)
	if err != nil || d <= 0 {
		s.logger.Warn().Err(err).Str("schedule", s.cfg.Schedule).Msg("invalid backup schedule, using 24h")
		return defaultBackupInterval
	}
	return d
}

// Start takes a snapshot right away and then once per interval until ctx is done.
func (s *BackupService) Start(ctx context.Context) {
	if !s.cfg.Enabled {
		s.logger.Info().Msg("database backups disabled")
		return
	}

	interval := s.interval()
	s.logger.Info().Dur("interval", interval).Str("path", s.cfg.StoragePath).Msg("database backups scheduled")

	s.runOnce(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.runOnce(ctx)
		}
	}
}

func (s *BackupService) runOnce(ctx context.Context) {
	if _, err := s.PerformBackup(ctx); err != nil {
		s.logger.Error().Err(err).Msg("database backup failed")
	}
	if removed, err := s.CleanupOldBackups(); err != nil {
		s.logger.Error().Err(err).Msg("backup cleanup failed")
	} else if removed > 0 {
		s.logger.Info().Int("removed", removed).Msg("old backups removed")
	}
}

// PerformBackup writes a consistent copy of the hotel database and returns its path.
func (s *BackupService) PerformBackup(ctx context.Context) (string, error) {
	if err := os.MkdirAll(s.cfg.StoragePath, 0o755); err != nil {
		metrics.IncBackup("failed")
		return "", fmt.Errorf("create backup directory: %w", err)
	}

	name := backupPrefix + s.now().UTC().Format("20060102_150405.000") + ".db"
	backupPath := filepath.Join(s.cfg.StoragePath, name)

	if _, err := s.db.ExecContext(ctx, "VACUUM INTO ?", backupPath); err != nil {
		if !s.isFileBacked() {
			metrics.IncBackup("failed")
			return "", fmt.Errorf("vacuum into %s: %w", backupPath, err)
		}
		// VACUUM INTO needs SQLite 3.27+
		s.logger.Warn().Err(err).Msg("vacuum into failed, copying database file")
		if err := s.copyDatabaseFile(backupPath); err != nil {
			metrics.IncBackup("failed")
			return "", fmt.Errorf("copy database file: %w", err)
		}
	}

	metrics.IncBackup("ok")
	s.logger.Info().Str("path", backupPath).Msg("database backup written")
	return backupPath, nil
}

func (s *BackupService) isFileBacked() bool {
	p := s.db.Path()
	return p != "" && !strings.HasPrefix(p, ":memory:") && !strings.HasPrefix(p, "file:")
}

// copyDatabaseFile is not atomic: concurrent writes may leave a torn copy.
func (s *BackupService) copyDatabaseFile(backupPath string) error {
	src, err := os.Open(s.db.Path())
	if err != nil {
		return err
	}
	defer src.Close()

	dst, err := os.Create(backupPath)
	if err != nil {
		return err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return err
	}
	return dst.Sync()
}

// CleanupOldBackups removes snapshots older than retention_days and returns
// how many were deleted. Files without the backup prefix are left alone.
func (s *BackupService) CleanupOldBackups() (int, error) {
	if s.cfg.RetentionDays <= 0 {
		return 0, nil
	}

	entries, err := os.ReadDir(s.cfg.StoragePath)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("read backup directory: %w", err)
	}

	cutoff := s.now().AddDate(0, 0, -s.cfg.RetentionDays)
	removed := 0
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasPrefix(entry.Name(), backupPrefix) {
			continue
		}
		info, err := entry.Info()
		if err != nil || !info.ModTime().Before(cutoff) {
			continue
		}
		if err := os.Remove(filepath.Join(s.cfg.StoragePath, entry.Name())); err != nil {
			s.logger.Warn().Err(err).Str("file", entry.Name()).Msg("failed to delete old backup")
			continue
		}
		removed++
	}
	return removed, nil
}
