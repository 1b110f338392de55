package repository

import (
	"context"
	"testing"
)

func TestAppendRejectsNonPositiveCounts(t *testing.T) {
	db := newTestDB(t)
	repo := NewEntryRepository(db)
	ctx := context.Background()

	for _, count := range []int{0, -1, -100} {
		if _, err := repo.Append(ctx, "alice", count, 1000); err == nil {
			t.Errorf("Append(count=%d) error = nil, want error", count)
		}
	}

	n, err := repo.Count(ctx)
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if n != 0 {
		t.Errorf("entry rows = %d, want 0 after rejected appends", n)
	}
}

func TestLastOrdersByTimestampThenID(t *testing.T) {
	db := newTestDB(t)
	repo := NewEntryRepository(db)
	ctx := context.Background()

	if _, err := repo.Append(ctx, "alice", 10, 1000); err != nil {
		t.Fatalf("Append: %v", err)
	}
	// Same instant: the higher id is the later entry.
	second, err := repo.Append(ctx, "alice", 20, 1000)
	if err != nil {
		t.Fatalf("Append: %v", err)
	}

	last, err := repo.Last(ctx, "alice")
	if err != nil {
		t.Fatalf("Last: %v", err)
	}
	if last == nil || last.ID != second.ID {
		t.Fatalf("Last = %+v, want id %d", last, second.ID)
	}

	third, err := repo.Append(ctx, "alice", 5, 2000)
	if err != nil {
		t.Fatalf("Append: %v", err)
	}
	last, err = repo.Last(ctx, "alice")
	if err != nil {
		t.Fatalf("Last: %v", err)
	}
	if last.ID != third.ID {
		t.Errorf("Last id = %d, want %d (later timestamp wins)", last.ID, third.ID)
	}
}

func TestLastForUserWithoutEntries(t *testing.T) {
	db := newTestDB(t)
	repo := NewEntryRepository(db)

	last, err := repo.Last(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("Last: %v", err)
	}
	if last != nil {
		t.Errorf("Last = %+v, want nil", last)
	}
}

func TestSumRangeBoundsAreInclusive(t *testing.T) {
	db := newTestDB(t)
	repo := NewEntryRepository(db)
	ctx := context.Background()

	for _, e := range []struct {
		count int
		ts    int64
	}{
		{1, 999},  // before range
		{2, 1000}, // on lower bound
		{4, 1500},
		{8, 2000},  // on upper bound
		{16, 2001}, // after range
	} {
		if _, err := repo.Append(ctx, "alice", e.count, e.ts); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}

	sum, err := repo.SumRange(ctx, "alice", 1000, 2000)
	if err != nil {
		t.Fatalf("SumRange: %v", err)
	}
	if sum != 14 {
		t.Errorf("SumRange = %d, want 14", sum)
	}

	all, err := repo.SumAll(ctx, "alice")
	if err != nil {
		t.Fatalf("SumAll: %v", err)
	}
	if all != 31 {
		t.Errorf("SumAll = %d, want 31", all)
	}
}

func TestListSinceIsChronological(t *testing.T) {
	db := newTestDB(t)
	repo := NewEntryRepository(db)
	ctx := context.Background()

	for _, ts := range []int64{3000, 1000, 2000} {
		if _, err := repo.Append(ctx, "alice", 1, ts); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}
	if _, err := repo.Append(ctx, "bob", 1, 1500); err != nil {
		t.Fatalf("Append: %v", err)
	}

	entries, err := repo.ListSince(ctx, "alice", 2000)
	if err != nil {
		t.Fatalf("ListSince: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("len = %d, want 2", len(entries))
	}
	if entries[0].Timestamp != 2000 || entries[1].Timestamp != 3000 {
		t.Errorf("timestamps = %d,%d, want 2000,3000", entries[0].Timestamp, entries[1].Timestamp)
	}
}

func TestLeaderboardSums(t *testing.T) {
	db := newTestDB(t)
	users := NewUserRepository(db)
	entries := NewEntryRepository(db)
	ctx := context.Background()

	for _, name := range []string{"alice", "bob", "carol", "dave"} {
		if err := users.Ensure(ctx, name, 1); err != nil {
			t.Fatalf("Ensure: %v", err)
		}
	}
	// Today's window for this test is [1000, 1999].
	mustAppend := func(user string, count int, ts int64) {
		t.Helper()
		if _, err := entries.Append(ctx, user, count, ts); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}
	mustAppend("alice", 10, 1500)
	mustAppend("alice", 7, 500) // outside today, counts toward all-time
	mustAppend("bob", 20, 1500)
	mustAppend("dave", 10, 1200) // ties alice on today

	rows, err := entries.LeaderboardSums(ctx, 1000, 1999)
	if err != nil {
		t.Fatalf("LeaderboardSums: %v", err)
	}
	if len(rows) != 4 {
		t.Fatalf("rows = %d, want 4 (inactive users included)", len(rows))
	}

	wantOrder := []string{"bob", "alice", "dave", "carol"}
	for i, want := range wantOrder {
		if rows[i].Username != want {
			t.Fatalf("row %d = %s, want %s (order %v)", i, rows[i].Username, want, wantOrder)
		}
	}
	if rows[1].Today != 10 || rows[1].AllTime != 17 {
		t.Errorf("alice today/allTime = %d/%d, want 10/17", rows[1].Today, rows[1].AllTime)
	}
	if rows[3].Today != 0 || rows[3].AllTime != 0 {
		t.Errorf("carol today/allTime = %d/%d, want zeros", rows[3].Today, rows[3].AllTime)
	}
}
