package model

import "time"

// PushSubscription holds a browser push subscription registered through the
// local surface. Every event-creation notification is forwarded to all of them.
type PushSubscription struct {
	Endpoint  string    `gorm:"primaryKey"`
	P256DH    string    `gorm:"column:p256dh;not null"`
	Auth      string    `gorm:"not null"`
	CreatedAt time.Time `gorm:"not null"`
}
