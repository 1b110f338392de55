package repository

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"pushup-tracker/internal/config"
	"pushup-tracker/internal/model"
)

// NewDB opens the SQLite database, runs migrations and imports legacy
// JSON data when the store is still empty.
func NewDB(cfg config.DatabaseConfig) (*gorm.DB, error) {
	dsn := cfg.Path
	if dsn == "" {
		dsn = "data/pushups.db"
	}

	if err := ensureDirForSQLite(dsn); err != nil {
		return nil, err
	}

	logLevel := logger.Warn
	if cfg.LogMode {
		logLevel = logger.Info
	}
	dbLogger := logger.New(
		log.New(os.Stdout, "", log.LstdFlags),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logLevel,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: dbLogger,
	})
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql db: %w", err)
	}
	_, _ = sqlDB.Exec("PRAGMA journal_mode = WAL;")
	_, _ = sqlDB.Exec("PRAGMA synchronous = NORMAL;")
	_, _ = sqlDB.Exec("PRAGMA foreign_keys = ON;")

	if err := db.AutoMigrate(&model.User{}, &model.Entry{}); err != nil {
		return nil, fmt.Errorf("migrate db: %w", err)
	}

	if err := ImportLegacyJSON(db, cfg.LegacyJSONPath); err != nil {
		return nil, fmt.Errorf("import legacy data: %w", err)
	}

	return db, nil
}

// ensureDirForSQLite creates parent dir for SQLite file if needed.
func ensureDirForSQLite(dsn string) error {
	// Ignore DSNs with explicit mode=memory or network.
	if strings.Contains(dsn, ":memory:") || strings.Contains(dsn, "mode=memory") {
		return nil
	}
	// Strip file: prefix if present.
	clean := strings.TrimPrefix(dsn, "file:")
	clean = strings.Split(clean, "?")[0]
	dir := filepath.Dir(clean)
	if dir == "." || dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create db dir %q: %w", dir, err)
	}
	return nil
}
