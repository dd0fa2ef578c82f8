package model

import "time"

// PushSubscription holds the information for a browser push subscription.
// Each subscription is tied to one client and receives that client's
// open/close reminders.
type PushSubscription struct {
	Endpoint  string    `gorm:"primaryKey" json:"endpoint"`
	P256DH    string    `gorm:"column:p256dh;not null" json:"p256dh"`
	Auth      string    `gorm:"not null" json:"auth"`
	ClientID  int64     `gorm:"index;not null" json:"client_id"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}
