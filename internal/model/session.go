package model

import "time"

// Session persists the current user's identifier between restarts. There is
// exactly one row, keyed by the same fixed name the web frontend uses for its
// local storage entry.
type Session struct {
	Key       string `gorm:"primaryKey;size:64"`
	UserID    string `gorm:"size:128;not null"`
	UpdatedAt time.Time
}
