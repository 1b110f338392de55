package service

import (
	"context"
	"math"
	"time"

	"pushup-tracker/internal/model"
	"pushup-tracker/internal/repository"
)

// caloriesPerRepPerLb is the estimate used for all calorie figures.
const caloriesPerRepPerLb = 0.0019

// HistoryMode selects the bucket width of a history query.
type HistoryMode string

const (
	ModeDay   HistoryMode = "day"
	ModeHour  HistoryMode = "hour"
	ModeMonth HistoryMode = "month"
)

// Defaults and caps for history bucket counts.
const (
	DefaultHistoryDays   = 7
	MaxHistoryDays       = 30
	DefaultHistoryHours  = 12
	MaxHistoryHours      = 72
	DefaultHistoryMonths = 12
	MaxHistoryMonths     = 24
)

// Totals are a user's raw rep sums.
type Totals struct {
	Today   int
	AllTime int
}

// UserTotals are rep sums plus the derived calorie estimates.
type UserTotals struct {
	Today           int     `json:"today"`
	AllTime         int     `json:"allTime"`
	TodayCalories   float64 `json:"todayCalories"`
	AllTimeCalories float64 `json:"allTimeCalories"`
}

// LeaderboardRow summarizes one user for the community ranking.
type LeaderboardRow struct {
	User            string  `json:"user"`
	Today           int     `json:"today"`
	AllTime         int     `json:"allTime"`
	TodayCalories   float64 `json:"todayCalories"`
	AllTimeCalories float64 `json:"allTimeCalories"`
}

// HistoryBucket is one fixed-width slot of a history query. Buckets are
// pre-seeded to zero, so every requested slot appears even without activity.
type HistoryBucket struct {
	Date  string `json:"date"`
	Label string `json:"label"`
	Total int    `json:"total"`
}

// StatsService computes aggregates over the entry log. It holds no state of
// its own; every call recomputes from the store, so results always reflect
// the latest committed mutation.
type StatsService struct {
	userRepo  *repository.UserRepository
	entryRepo *repository.EntryRepository
	now       func() time.Time
}

func NewStatsService(userRepo *repository.UserRepository, entryRepo *repository.EntryRepository) *StatsService {
	return &StatsService{userRepo: userRepo, entryRepo: entryRepo, now: time.Now}
}

// Calories estimates calories burned for reps at the given body weight,
// rounded to one decimal place.
func Calories(reps, weightLbs int) float64 {
	return math.Round(float64(reps)*caloriesPerRepPerLb*float64(weightLbs)*10) / 10
}

// todayRange returns the inclusive unix-ms bounds of the current local day.
func (s *StatsService) todayRange() (int64, int64) {
	start := startOfDay(s.now())
	startMs := start.UnixMilli()
	return startMs, startMs + 24*time.Hour.Milliseconds() - 1
}

// Totals returns the user's sums for today and all time.
func (s *StatsService) Totals(ctx context.Context, username string) (Totals, error) {
	fromMs, toMs := s.todayRange()
	today, err := s.entryRepo.SumRange(ctx, username, fromMs, toMs)
	if err != nil {
		return Totals{}, err
	}
	allTime, err := s.entryRepo.SumAll(ctx, username)
	if err != nil {
		return Totals{}, err
	}
	return Totals{Today: today, AllTime: allTime}, nil
}

// TotalsForUser returns totals plus calorie estimates based on the user's
// recorded weight, falling back to the default weight.
func (s *StatsService) TotalsForUser(ctx context.Context, username string) (UserTotals, error) {
	totals, err := s.Totals(ctx, username)
	if err != nil {
		return UserTotals{}, err
	}
	user, err := s.userRepo.Find(ctx, username)
	if err != nil {
		return UserTotals{}, err
	}
	weight := user.Weight()
	return UserTotals{
		Today:           totals.Today,
		AllTime:         totals.AllTime,
		TodayCalories:   Calories(totals.Today, weight),
		AllTimeCalories: Calories(totals.AllTime, weight),
	}, nil
}

// Leaderboard returns one row per known user, users without entries
// included, sorted by today's total descending with ties broken by
// username ascending.
func (s *StatsService) Leaderboard(ctx context.Context) ([]LeaderboardRow, error) {
	fromMs, toMs := s.todayRange()
	sums, err := s.entryRepo.LeaderboardSums(ctx, fromMs, toMs)
	if err != nil {
		return nil, err
	}
	rows := make([]LeaderboardRow, 0, len(sums))
	for _, sum := range sums {
		weight := model.DefaultWeightLbs
		if sum.WeightLbs != nil && *sum.WeightLbs > 0 {
			weight = *sum.WeightLbs
		}
		rows = append(rows, LeaderboardRow{
			User:            sum.Username,
			Today:           sum.Today,
			AllTime:         sum.AllTime,
			TodayCalories:   Calories(sum.Today, weight),
			AllTimeCalories: Calories(sum.AllTime, weight),
		})
	}
	return rows, nil
}

// ClampBuckets resolves the requested bucket count for a mode: non-positive
// requests fall back to the mode's default, oversized ones are capped.
func ClampBuckets(mode HistoryMode, n int) int {
	var def, max int
	switch mode {
	case ModeHour:
		def, max = DefaultHistoryHours, MaxHistoryHours
	case ModeMonth:
		def, max = DefaultHistoryMonths, MaxHistoryMonths
	default:
		def, max = DefaultHistoryDays, MaxHistoryDays
	}
	if n <= 0 {
		return def
	}
	if n > max {
		return max
	}
	return n
}

// History returns n chronologically ordered buckets ending at the current
// (partial) bucket, gaps zero-filled. Every entry at or after the earliest
// bucket's start is accumulated into its bucket, so summing the buckets
// reproduces the range sum exactly.
func (s *StatsService) History(ctx context.Context, username string, mode HistoryMode, n int) ([]HistoryBucket, error) {
	n = ClampBuckets(mode, n)
	now := s.now()

	var anchors []time.Time
	var keyFn func(time.Time) (string, string)
	switch mode {
	case ModeHour:
		anchor := startOfHour(now)
		for i := n - 1; i >= 0; i-- {
			anchors = append(anchors, anchor.Add(-time.Duration(i)*time.Hour))
		}
		keyFn = hourKey
	case ModeMonth:
		anchor := startOfMonth(now)
		for i := n - 1; i >= 0; i-- {
			anchors = append(anchors, anchor.AddDate(0, -i, 0))
		}
		keyFn = monthKey
	default:
		anchor := startOfDay(now)
		for i := n - 1; i >= 0; i-- {
			anchors = append(anchors, anchor.AddDate(0, 0, -i))
		}
		keyFn = dayKey
	}

	buckets := make([]HistoryBucket, 0, n)
	index := make(map[string]int, n)
	for _, t := range anchors {
		key, label := keyFn(t)
		index[key] = len(buckets)
		buckets = append(buckets, HistoryBucket{Date: key, Label: label})
	}

	entries, err := s.entryRepo.ListSince(ctx, username, anchors[0].UnixMilli())
	if err != nil {
		return nil, err
	}
	for _, entry := range entries {
		key, _ := keyFn(time.UnixMilli(entry.Timestamp))
		// Keys outside the generated window cannot occur given the fetch
		// lower bound; unknown keys are ignored rather than grown.
		if i, ok := index[key]; ok {
			buckets[i].Total += entry.Count
		}
	}
	return buckets, nil
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func startOfHour(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), 0, 0, 0, t.Location())
}

func startOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

func dayKey(t time.Time) (string, string) {
	key := t.Format("2006-01-02")
	return key, key
}

func hourKey(t time.Time) (string, string) {
	return t.Format("2006-01-02 15") + ":00", t.Format("01/02 15") + ":00"
}

func monthKey(t time.Time) (string, string) {
	key := t.Format("2006-01")
	return key, key
}
