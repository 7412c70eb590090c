package models

import "time"

// ScheduleSettings holds named numeric scheduling configuration, looked
// up by setting name. Currently the only consumer is the default booking
// duration used to suggest end times.
type ScheduleSettings struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	SettingName  string    `json:"setting_name" gorm:"uniqueIndex;not null"`
	NumericValue float64   `json:"numeric_value"`
	IsActive     bool      `json:"is_active" gorm:"default:true"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (ScheduleSettings) TableName() string {
	return "schedule_settings"
}

// SettingBookingDurationHours is the default truck booking duration in
// hours (fractional allowed, valid range 0.5–24).
const SettingBookingDurationHours = "booking_duration_hours"
