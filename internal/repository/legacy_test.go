package repository

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"pushup-tracker/internal/config"
)

const legacyJSON = `{
	"users": {
		" Alice ": {"weightLbs": 199.6, "createdAt": 1111},
		"bob": {"createdAt": 2222},
		"": {"weightLbs": 150}
	},
	"entries": [
		{"user": "alice", "count": 10, "timestamp": 3333},
		{"user": "ALICE", "count": 20.9, "timestamp": 4444},
		{"user": "carol", "count": 5, "timestamp": 5555},
		{"user": "alice", "count": 0, "timestamp": 6666},
		{"user": "alice", "count": -3, "timestamp": 7777},
		{"user": "", "count": 9, "timestamp": 8888}
	]
}`

func TestImportLegacyJSON(t *testing.T) {
	dir := t.TempDir()
	legacyPath := filepath.Join(dir, "db.json")
	if err := os.WriteFile(legacyPath, []byte(legacyJSON), 0o644); err != nil {
		t.Fatalf("write legacy file: %v", err)
	}

	db, err := NewDB(config.DatabaseConfig{
		Path:           filepath.Join(dir, "pushups.db"),
		LegacyJSONPath: legacyPath,
	})
	if err != nil {
		t.Fatalf("NewDB: %v", err)
	}
	ctx := context.Background()
	users := NewUserRepository(db)
	entries := NewEntryRepository(db)

	alice, err := users.Find(ctx, "alice")
	if err != nil {
		t.Fatalf("Find alice: %v", err)
	}
	if alice == nil {
		t.Fatal("alice missing after import")
	}
	if alice.WeightLbs == nil || *alice.WeightLbs != 200 {
		t.Errorf("alice weight = %v, want rounded 200", alice.WeightLbs)
	}
	if alice.CreatedAt != 1111 {
		t.Errorf("alice createdAt = %d, want 1111", alice.CreatedAt)
	}

	// carol was only referenced by an entry, created implicitly.
	carol, err := users.Find(ctx, "carol")
	if err != nil {
		t.Fatalf("Find carol: %v", err)
	}
	if carol == nil {
		t.Fatal("carol missing after import")
	}

	sum, err := entries.SumAll(ctx, "alice")
	if err != nil {
		t.Fatalf("SumAll: %v", err)
	}
	if sum != 30 { // 10 + floor(20.9); zero/negative rows skipped
		t.Errorf("alice sum = %d, want 30", sum)
	}

	total, err := entries.Count(ctx)
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if total != 3 {
		t.Errorf("entry rows = %d, want 3", total)
	}
}

func TestImportOnlyRunsIntoEmptyStore(t *testing.T) {
	dir := t.TempDir()
	legacyPath := filepath.Join(dir, "db.json")
	dbPath := filepath.Join(dir, "pushups.db")
	if err := os.WriteFile(legacyPath, []byte(legacyJSON), 0o644); err != nil {
		t.Fatalf("write legacy file: %v", err)
	}
	cfg := config.DatabaseConfig{Path: dbPath, LegacyJSONPath: legacyPath}

	db, err := NewDB(cfg)
	if err != nil {
		t.Fatalf("NewDB: %v", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}

	// Reopening runs the import hook again; it must not duplicate anything.
	db, err = NewDB(cfg)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	total, err := NewEntryRepository(db).Count(context.Background())
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if total != 3 {
		t.Errorf("entry rows after reopen = %d, want 3", total)
	}
}

func TestImportToleratesMissingOrBrokenFile(t *testing.T) {
	dir := t.TempDir()

	db, err := NewDB(config.DatabaseConfig{
		Path:           filepath.Join(dir, "a.db"),
		LegacyJSONPath: filepath.Join(dir, "absent.json"),
	})
	if err != nil {
		t.Fatalf("NewDB with missing legacy file: %v", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}

	broken := filepath.Join(dir, "broken.json")
	if err := os.WriteFile(broken, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write broken file: %v", err)
	}
	if _, err := NewDB(config.DatabaseConfig{
		Path:           filepath.Join(dir, "b.db"),
		LegacyJSONPath: broken,
	}); err != nil {
		t.Fatalf("NewDB with broken legacy file: %v", err)
	}
}
