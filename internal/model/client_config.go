package model

import "time"

// ClientConfig holds the per-client scheduling settings. Rows are created
// lazily with defaults on first read, never deleted.
type ClientConfig struct {
	ID       int64 `gorm:"primaryKey" json:"-"`
	ClientID int64 `gorm:"uniqueIndex;not null" json:"client_id"`

	// Timezone is an IANA zone name; all window matching happens in it.
	Timezone string `gorm:"size:64;not null" json:"timezone"`

	AutoScheduleEnabled       bool `gorm:"not null;default:true" json:"auto_schedule_enabled"`
	NotificationEnabled       bool `gorm:"not null;default:false" json:"notification_enabled"`
	NotificationMinutesBefore int  `gorm:"not null;default:0" json:"notification_minutes_before"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
