package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"gamebus_backend/internal/database"
	"gamebus_backend/internal/repositories"
	"gamebus_backend/pkg/utils"

	"github.com/robfig/cron/v3"
)

const (
	backupPrefix     = "gamebus-"
	backupSuffix     = ".xlsx"
	backupTimeLayout = "20060102-150405"
)

// BackupService writes periodic xlsx snapshots of the store into a directory
// and keeps only the newest ones.
type BackupService struct {
	store    *repositories.Store
	dir      string
	schedule string
	keep     int
	cron     *cron.Cron
	now      func() time.Time
}

func NewBackupService(store *repositories.Store, dir, schedule string, keep int) *BackupService {
	if keep <= 0 {
		keep = 14
	}
	return &BackupService{
		store:    store,
		dir:      dir,
		schedule: schedule,
		keep:     keep,
		cron:     cron.New(),
		now:      time.Now,
	}
}

// StartScheduler registers the backup job and starts the cron runner.
func (s *BackupService) StartScheduler() error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create backup dir: %w", err)
	}
	_, err := s.cron.AddFunc(s.schedule, func() {
		if _, err := s.RunOnce(); err != nil {
			utils.LogError(err, "Scheduled backup failed", nil)
		}
	})
	if err != nil {
		return fmt.Errorf("invalid BACKUP_SCHEDULE %q: %w", s.schedule, err)
	}
	s.cron.Start()
	utils.LogInfo("Backup scheduler started", map[string]interface{}{"dir": s.dir, "schedule": s.schedule, "keep": s.keep})
	return nil
}

// Stop halts the scheduler; the returned context is done when running jobs finish.
func (s *BackupService) Stop() context.Context {
	return s.cron.Stop()
}

// RunOnce writes one snapshot and prunes old ones. It returns the file path.
func (s *BackupService) RunOnce() (string, error) {
	wb, err := s.store.Workbook()
	if err != nil {
		return "", err
	}
	path := filepath.Join(s.dir, backupPrefix+s.now().Format(backupTimeLayout)+backupSuffix)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create backup file: %w", err)
	}
	if err := database.WriteXLSX(f, wb); err != nil {
		f.Close()
		os.Remove(path)
		return "", fmt.Errorf("write backup: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close backup file: %w", err)
	}
	utils.LogInfo("Backup written", map[string]interface{}{"path": path})

	if err := s.prune(); err != nil {
		utils.LogError(err, "Failed to prune old backups", nil)
	}
	return path, nil
}

// prune deletes all but the newest keep snapshots. Timestamped names sort
// chronologically.
func (s *BackupService) prune() error {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return err
	}
	var names []string
	for _, e := range entries {
		n := e.Name()
		if !e.IsDir() && strings.HasPrefix(n, backupPrefix) && strings.HasSuffix(n, backupSuffix) {
			names = append(names, n)
		}
	}
	if len(names) <= s.keep {
		return nil
	}
	sort.Strings(names)
	for _, n := range names[:len(names)-s.keep] {
		if err := os.Remove(filepath.Join(s.dir, n)); err != nil {
			return err
		}
	}
	return nil
}
