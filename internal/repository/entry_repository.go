package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"pushup-tracker/internal/model"
)

// EntryRepository owns the append-only log of exercise entries. Identity and
// ordering of entries live here: an entry is addressed by its id, and the
// per-user order is (timestamp, id) ascending.
type EntryRepository struct {
	db *gorm.DB
}

func NewEntryRepository(db *gorm.DB) *EntryRepository {
	return &EntryRepository{db: db}
}

// Append stores one entry. Counts must be positive; the append is a single
// atomic insert.
func (r *EntryRepository) Append(ctx context.Context, username string, count int, timestampMs int64) (*model.Entry, error) {
	if count <= 0 {
		return nil, fmt.Errorf("count must be positive, got %d", count)
	}
	entry := model.Entry{Username: username, Count: count, Timestamp: timestampMs}
	if err := r.db.WithContext(ctx).Create(&entry).Error; err != nil {
		return nil, fmt.Errorf("append entry: %w", err)
	}
	return &entry, nil
}

// DeleteByID removes one entry by its identity. Deleting by id rather than
// by recomputed "last" keeps a concurrent log from losing the wrong entry.
func (r *EntryRepository) DeleteByID(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&model.Entry{}, id).Error; err != nil {
		return fmt.Errorf("delete entry %d: %w", id, err)
	}
	return nil
}

// Last returns the user's most recent entry under (timestamp, id) order,
// or nil when the user has no entries.
func (r *EntryRepository) Last(ctx context.Context, username string) (*model.Entry, error) {
	var entry model.Entry
	err := r.db.WithContext(ctx).
		Where("username = ?", username).
		Order("timestamp DESC, id DESC").
		First(&entry).Error
	switch {
	case err == nil:
		return &entry, nil
	case err == gorm.ErrRecordNotFound:
		return nil, nil
	default:
		return nil, fmt.Errorf("last entry: %w", err)
	}
}

// SumRange totals counts with timestamp in [fromMs, toMs], both inclusive.
func (r *EntryRepository) SumRange(ctx context.Context, username string, fromMs, toMs int64) (int, error) {
	var total int
	err := r.db.WithContext(ctx).Model(&model.Entry{}).
		Select("COALESCE(SUM(count), 0)").
		Where("username = ? AND timestamp BETWEEN ? AND ?", username, fromMs, toMs).
		Scan(&total).Error
	if err != nil {
		return 0, fmt.Errorf("sum range: %w", err)
	}
	return total, nil
}

func (r *EntryRepository) SumAll(ctx context.Context, username string) (int, error) {
	var total int
	err := r.db.WithContext(ctx).Model(&model.Entry{}).
		Select("COALESCE(SUM(count), 0)").
		Where("username = ?", username).
		Scan(&total).Error
	if err != nil {
		return 0, fmt.Errorf("sum all: %w", err)
	}
	return total, nil
}

// ListSince returns the user's entries with timestamp >= fromMs in
// chronological order.
func (r *EntryRepository) ListSince(ctx context.Context, username string, fromMs int64) ([]model.Entry, error) {
	var entries []model.Entry
	err := r.db.WithContext(ctx).
		Where("username = ? AND timestamp >= ?", username, fromMs).
		Order("timestamp ASC, id ASC").
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("list since: %w", err)
	}
	return entries, nil
}

// ListForUser returns every entry for the user in chronological order.
func (r *EntryRepository) ListForUser(ctx context.Context, username string) ([]model.Entry, error) {
	return r.ListSince(ctx, username, 0)
}

func (r *EntryRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&model.Entry{}).Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

// LeaderboardSum is one aggregated row of the community leaderboard query.
type LeaderboardSum struct {
	Username  string
	Today     int
	AllTime   int
	WeightLbs *int
}

// LeaderboardSums aggregates per-user totals in one pass, partitioning each
// user's entries into today's window vs all time. Users without entries are
// included with zero totals. Ordered by today's total descending, ties
// broken by username ascending.
func (r *EntryRepository) LeaderboardSums(ctx context.Context, todayFromMs, todayToMs int64) ([]LeaderboardSum, error) {
	var rows []LeaderboardSum
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			u.username AS username,
			COALESCE(SUM(CASE WHEN e.timestamp BETWEEN ? AND ? THEN e.count ELSE 0 END), 0) AS today,
			COALESCE(SUM(e.count), 0) AS all_time,
			u.weight_lbs AS weight_lbs
		FROM users u
		LEFT JOIN entries e ON e.username = u.username
		GROUP BY u.username
		ORDER BY today DESC, u.username ASC
	`, todayFromMs, todayToMs).Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("leaderboard sums: %w", err)
	}
	return rows, nil
}
