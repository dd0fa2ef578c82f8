package model

import "time"

// SchedulePeriod is a named operating window on one weekday of one client.
// DayOfWeek uses the Monday=1 .. Sunday=7 convention.
type SchedulePeriod struct {
	ID          int64  `gorm:"primaryKey" json:"id"`
	ClientID    int64  `gorm:"index:idx_period_client_day;not null" json:"client_id"`
	DayOfWeek   int    `gorm:"index:idx_period_client_day;not null" json:"day_of_week"`
	PeriodName  string `gorm:"size:128;not null" json:"period_name"`
	OpenHour    int    `gorm:"not null" json:"open_hour"`
	OpenMinute  int    `gorm:"not null" json:"open_minute"`
	CloseHour   int    `gorm:"not null" json:"close_hour"`
	CloseMinute int    `gorm:"not null" json:"close_minute"`

	AutoOpenEnabled  bool `gorm:"not null;default:false" json:"auto_open_enabled"`
	AutoCloseEnabled bool `gorm:"not null;default:false" json:"auto_close_enabled"`

	// IsActive is the soft-delete flag; inactive periods never match.
	IsActive bool `gorm:"not null;default:true" json:"is_active"`

	// PriorityOrder ranks periods of the same day; lower wins.
	PriorityOrder int `gorm:"not null;default:100" json:"priority_order"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// OpenMinutes returns the opening boundary as minute-of-day.
func (p SchedulePeriod) OpenMinutes() int {
	return p.OpenHour*60 + p.OpenMinute
}

// CloseMinutes returns the closing boundary as minute-of-day.
// Close before open is representable and intentionally not rejected here.
func (p SchedulePeriod) CloseMinutes() int {
	return p.CloseHour*60 + p.CloseMinute
}
