package service

import (
	"context"
	"errors"
	"math"
	"time"

	"pushup-tracker/internal/model"
	"pushup-tracker/internal/notify"
	"pushup-tracker/internal/repository"
)

// Domain conditions surfaced to the boundary. Validation failures and the
// undo no-op leave state unchanged.
var (
	ErrInvalidUsername = errors.New("username required")
	ErrInvalidCount    = errors.New("positive count required")
	ErrNothingToUndo   = errors.New("nothing to undo")
	ErrUserExists      = errors.New("username already exists")
)

// UndoResult reports what an undo removed and the totals that remain.
type UndoResult struct {
	Undone int
	UserTotals
}

// ActivityService coordinates the state-changing operations against the
// entry log and returns fresh aggregates after each mutation.
type ActivityService struct {
	userRepo  *repository.UserRepository
	entryRepo *repository.EntryRepository
	stats     *StatsService
	notifier  notify.Notifier
	now       func() time.Time
}

func NewActivityService(userRepo *repository.UserRepository, entryRepo *repository.EntryRepository, stats *StatsService, notifier notify.Notifier) *ActivityService {
	if notifier == nil {
		notifier = notify.Noop()
	}
	return &ActivityService{
		userRepo:  userRepo,
		entryRepo: entryRepo,
		stats:     stats,
		notifier:  notifier,
		now:       time.Now,
	}
}

// Log appends one entry for the user and returns their fresh totals.
// Fractional counts are floored; counts that do not floor to a positive
// integer are rejected before any write.
func (s *ActivityService) Log(ctx context.Context, username string, count float64) (UserTotals, error) {
	username = model.NormalizeUsername(username)
	if username == "" {
		return UserTotals{}, ErrInvalidUsername
	}
	if math.IsNaN(count) || math.IsInf(count, 0) || count <= 0 {
		return UserTotals{}, ErrInvalidCount
	}
	reps := int(math.Floor(count))
	if reps <= 0 {
		return UserTotals{}, ErrInvalidCount
	}

	nowMs := s.now().UnixMilli()
	if err := s.userRepo.Ensure(ctx, username, nowMs); err != nil {
		return UserTotals{}, err
	}
	if _, err := s.entryRepo.Append(ctx, username, reps, nowMs); err != nil {
		return UserTotals{}, err
	}

	totals, err := s.stats.TotalsForUser(ctx, username)
	if err != nil {
		return UserTotals{}, err
	}
	s.notifier.EntryLogged(username, reps, totals.Today)
	return totals, nil
}

// UndoLast removes the user's single most recent entry, however long ago it
// was logged. Repeated calls peel off successively older entries; with no
// entries left it reports ErrNothingToUndo and changes nothing.
func (s *ActivityService) UndoLast(ctx context.Context, username string) (UndoResult, error) {
	username = model.NormalizeUsername(username)
	if username == "" {
		return UndoResult{}, ErrInvalidUsername
	}

	last, err := s.entryRepo.Last(ctx, username)
	if err != nil {
		return UndoResult{}, err
	}
	if last == nil {
		return UndoResult{}, ErrNothingToUndo
	}
	if err := s.entryRepo.DeleteByID(ctx, last.ID); err != nil {
		return UndoResult{}, err
	}

	totals, err := s.stats.TotalsForUser(ctx, username)
	if err != nil {
		return UndoResult{}, err
	}
	return UndoResult{Undone: last.Count, UserTotals: totals}, nil
}

// Register ensures the user exists and records a weight when a valid one is
// supplied. With createOnly set it reports ErrUserExists for a known
// username instead of touching it. Returns the stored weight, nil when none
// has ever been recorded.
func (s *ActivityService) Register(ctx context.Context, username string, weightLbs *float64, createOnly bool) (*int, error) {
	username = model.NormalizeUsername(username)
	if username == "" {
		return nil, ErrInvalidUsername
	}

	existing, err := s.userRepo.Find(ctx, username)
	if err != nil {
		return nil, err
	}
	if existing != nil && createOnly {
		return nil, ErrUserExists
	}

	if err := s.userRepo.Ensure(ctx, username, s.now().UnixMilli()); err != nil {
		return nil, err
	}
	if weightLbs != nil && !math.IsNaN(*weightLbs) && !math.IsInf(*weightLbs, 0) && *weightLbs > 0 {
		if err := s.userRepo.SetWeight(ctx, username, int(math.Round(*weightLbs))); err != nil {
			return nil, err
		}
	}

	user, err := s.userRepo.Find(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, nil
	}
	return user.WeightLbs, nil
}

// GetUser looks up a profile by any spelling of the username. Returns nil
// without error when the user is unknown.
func (s *ActivityService) GetUser(ctx context.Context, username string) (*model.User, error) {
	username = model.NormalizeUsername(username)
	if username == "" {
		return nil, ErrInvalidUsername
	}
	return s.userRepo.Find(ctx, username)
}
