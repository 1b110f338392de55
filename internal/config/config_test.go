package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaultsWithoutFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Address != ":3000" {
		t.Errorf("address = %q, want :3000", cfg.Server.Address)
	}
	if cfg.Database.Path != "data/pushups.db" {
		t.Errorf("db path = %q, want data/pushups.db", cfg.Database.Path)
	}
	if cfg.Backup.Interval() != 0 {
		t.Errorf("backup interval = %v, want disabled", cfg.Backup.Interval())
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := `
server:
  address: ":8080"
  mode: release
database:
  path: /tmp/x.db
backup:
  interval_hours: 6
  keep: 3
`
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Address != ":8080" || cfg.Server.Mode != "release" {
		t.Errorf("server = %+v", cfg.Server)
	}
	if cfg.Database.Path != "/tmp/x.db" {
		t.Errorf("db path = %q", cfg.Database.Path)
	}
	if cfg.Backup.Interval() != 6*time.Hour {
		t.Errorf("backup interval = %v, want 6h", cfg.Backup.Interval())
	}
	if cfg.Backup.Keep != 3 {
		t.Errorf("keep = %d, want 3", cfg.Backup.Keep)
	}
}
