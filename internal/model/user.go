package model

import "strings"

// DefaultWeightLbs is assumed for calorie estimates when a user has no recorded weight.
const DefaultWeightLbs = 180

// User identifies a participant by normalized username.
type User struct {
	Username  string `gorm:"primaryKey;size:64"`
	WeightLbs *int
	CreatedAt int64 `gorm:"not null;autoCreateTime:false"` // unix milliseconds, set on first touch
}

// Weight returns the recorded weight or the default when none is set.
func (u *User) Weight() int {
	if u != nil && u.WeightLbs != nil && *u.WeightLbs > 0 {
		return *u.WeightLbs
	}
	return DefaultWeightLbs
}

// NormalizeUsername maps any spelling of a username to its canonical
// lowercase, whitespace-trimmed form.
func NormalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}
