package service

import (
	"path/filepath"
	"sync"
	"testing"
	"time"

	"pushup-tracker/internal/config"
	"pushup-tracker/internal/repository"
)

type testEnv struct {
	users   *repository.UserRepository
	entries *repository.EntryRepository
	stats   *StatsService
}

func newTestEnv(t *testing.T, now time.Time) *testEnv {
	t.Helper()
	db, err := repository.NewDB(config.DatabaseConfig{
		Path: filepath.Join(t.TempDir(), "test.db"),
	})
	if err != nil {
		t.Fatalf("NewDB: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	env := &testEnv{
		users:   repository.NewUserRepository(db),
		entries: repository.NewEntryRepository(db),
	}
	env.stats = NewStatsService(env.users, env.entries)
	env.stats.now = func() time.Time { return now }
	return env
}

func (e *testEnv) activity(t *testing.T, now time.Time) *ActivityService {
	t.Helper()
	svc := NewActivityService(e.users, e.entries, e.stats, nil)
	svc.now = func() time.Time { return now }
	return svc
}

// recordingNotifier captures announcements for assertions.
type recordingNotifier struct {
	mu    sync.Mutex
	calls []string
}

func (n *recordingNotifier) EntryLogged(username string, count, todayTotal int) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls = append(n.calls, username)
}

func (n *recordingNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.calls)
}
