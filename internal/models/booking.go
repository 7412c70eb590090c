package models

import "time"

// Booking allocates a truck to a calendar date, optionally linked to an
// enquiry. A booking with no enquiry and no notes is a manual block of
// truck time.
type Booking struct {
	ID        uint       `json:"id" gorm:"primaryKey"`
	TruckID   uint       `json:"truck_id" gorm:"not null;index"`
	Truck     *Truck     `json:"truck,omitempty" gorm:"foreignKey:TruckID"`
	EnquiryID *uint      `json:"enquiry_id" gorm:"index"`
	Enquiry   *Enquiry   `json:"enquiry,omitempty" gorm:"foreignKey:EnquiryID"`
	Date      time.Time  `json:"date" gorm:"type:date;not null;index"`
	StartTime *string    `json:"start_time"` // "HH:MM"
	EndTime   *string    `json:"end_time"`   // "HH:MM"
	Notes     string     `json:"notes" gorm:"type:text"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

func (Booking) TableName() string {
	return "truck_bookings"
}

// IsBlocked reports whether the booking is an anonymous block of truck
// time rather than a job: no enquiry link and no notes.
func (b *Booking) IsBlocked() bool {
	return b.EnquiryID == nil && b.Notes == ""
}
