package models

import "time"

// Note is an append-only entry on an enquiry's activity trail. Notes are
// either written by staff or generated by the system (status changes,
// email sends). There is no edit operation — corrections are new notes.
type Note struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	EnquiryID uint      `json:"enquiry_id" gorm:"not null;index"`
	Text      string    `json:"text" gorm:"type:text;not null"`
	CreatedAt time.Time `json:"created_at"`
}

func (Note) TableName() string {
	return "enquiry_notes"
}
