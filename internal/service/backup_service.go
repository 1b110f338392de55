package service

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"gorm.io/gorm"

	"pushup-tracker/internal/config"
)

// BackupService periodically snapshots the SQLite database file into the
// backup directory and prunes old snapshots.
type BackupService struct {
	cron   *cron.Cron
	db     *gorm.DB
	dbPath string
	cfg    config.BackupConfig
}

func NewBackupService(db *gorm.DB, dbPath string, cfg config.BackupConfig) *BackupService {
	return &BackupService{
		cron:   cron.New(cron.WithLocation(time.Local)),
		db:     db,
		dbPath: dbPath,
		cfg:    cfg,
	}
}

// Start schedules periodic backups. A non-positive interval disables them.
func (s *BackupService) Start() error {
	interval := s.cfg.Interval()
	if interval <= 0 {
		return nil
	}
	spec := fmt.Sprintf("@every %ds", int(interval.Seconds()))
	if _, err := s.cron.AddFunc(spec, func() {
		if err := s.RunOnce(); err != nil {
			log.Printf("backup: %v", err)
		}
	}); err != nil {
		return fmt.Errorf("schedule backup: %w", err)
	}
	s.cron.Start()
	return nil
}

func (s *BackupService) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

// RunOnce takes a single snapshot. The WAL is checkpointed first so the
// copied file contains every committed write.
func (s *BackupService) RunOnce() error {
	if err := os.MkdirAll(s.cfg.Dir, 0o755); err != nil {
		return fmt.Errorf("create backup dir: %w", err)
	}
	if err := s.db.Exec("PRAGMA wal_checkpoint(TRUNCATE);").Error; err != nil {
		return fmt.Errorf("wal checkpoint: %w", err)
	}

	name := fmt.Sprintf("pushups-%s-%s.db",
		time.Now().Format("20060102-150405"), uuid.NewString()[:8])
	if err := copyFile(s.dbPath, filepath.Join(s.cfg.Dir, name)); err != nil {
		return err
	}
	return s.prune()
}

func (s *BackupService) prune() error {
	keep := s.cfg.Keep
	if keep <= 0 {
		return nil
	}
	matches, err := filepath.Glob(filepath.Join(s.cfg.Dir, "pushups-*.db"))
	if err != nil {
		return fmt.Errorf("list backups: %w", err)
	}
	if len(matches) <= keep {
		return nil
	}
	// Timestamped names sort chronologically.
	sort.Strings(matches)
	for _, path := range matches[:len(matches)-keep] {
		if err := os.Remove(path); err != nil {
			return fmt.Errorf("prune backup %s: %w", path, err)
		}
	}
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open %s: %w", src, err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("create %s: %w", dst, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return fmt.Errorf("copy %s: %w", dst, err)
	}
	return out.Close()
}
