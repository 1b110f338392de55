package model

// Entry is one immutable logged set of push-ups. Entries are only ever
// appended or deleted (by undo); they are never updated in place.
type Entry struct {
	ID        uint   `gorm:"primaryKey"`
	Username  string `gorm:"size:64;not null;index:idx_entries_user_time,priority:1"`
	Count     int    `gorm:"not null"`
	Timestamp int64  `gorm:"not null;index:idx_entries_user_time,priority:2"` // unix milliseconds
}
