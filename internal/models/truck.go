package models

import "time"

// Truck is a vehicle that can be booked against calendar dates. Trucks
// are never hard-deleted once referenced; deactivation keeps booking and
// enquiry history intact.
type Truck struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Name         string    `json:"name" gorm:"not null"`
	Registration string    `json:"registration"`
	Capacity     string    `json:"capacity"` // free-text descriptor, e.g. "4.5 tonne"
	Status       string    `json:"status" gorm:"default:'active'"` // active, inactive
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (Truck) TableName() string {
	return "trucks"
}

const (
	TruckActive   = "active"
	TruckInactive = "inactive"
)

// TruckPatch is the typed update bag for truck edits.
type TruckPatch struct {
	Name         *string `json:"name"`
	Registration *string `json:"registration"`
	Capacity     *string `json:"capacity"`
	Status       *string `json:"status"`
}
