package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"pushup-tracker/internal/model"
)

// UserRepository handles persistence of user profiles.
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Ensure inserts the user if absent, keeping the original creation instant
// when the row already exists. Rows carrying a non-positive created_at
// (possible after a legacy import) are backfilled to now. Safe to call
// concurrently for the same username.
func (r *UserRepository) Ensure(ctx context.Context, username string, nowMs int64) error {
	db := r.db.WithContext(ctx)

	user := model.User{Username: username, CreatedAt: nowMs}
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&user).Error; err != nil {
		return fmt.Errorf("ensure user: %w", err)
	}

	if err := db.Model(&model.User{}).
		Where("username = ? AND created_at <= 0", username).
		Update("created_at", nowMs).Error; err != nil {
		return fmt.Errorf("backfill created_at: %w", err)
	}
	return nil
}

// SetWeight records the user's weight. Non-positive values are ignored, and
// an existing weight is never cleared.
func (r *UserRepository) SetWeight(ctx context.Context, username string, weightLbs int) error {
	if weightLbs <= 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).Model(&model.User{}).
		Where("username = ?", username).
		Update("weight_lbs", weightLbs).Error; err != nil {
		return fmt.Errorf("set weight: %w", err)
	}
	return nil
}

// Find returns the user or nil when no such username is known.
func (r *UserRepository) Find(ctx context.Context, username string) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error
	switch {
	case err == nil:
		return &user, nil
	case err == gorm.ErrRecordNotFound:
		return nil, nil
	default:
		return nil, fmt.Errorf("find user: %w", err)
	}
}

func (r *UserRepository) ListAll(ctx context.Context) ([]model.User, error) {
	var users []model.User
	if err := r.db.WithContext(ctx).Order("username ASC").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (r *UserRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&model.User{}).Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}
