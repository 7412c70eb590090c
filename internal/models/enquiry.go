package models

import (
	"strings"
	"time"
)

// Enquiry is a prospective customer's service request, the central record
// of the CRM. Full name and the combined address display string are
// derived fields and must be recomputed whenever their parts change.
type Enquiry struct {
	ID       uint   `json:"id" gorm:"primaryKey"`
	FirstName string `json:"first_name" gorm:"not null"`
	LastName  string `json:"last_name"`
	FullName  string `json:"full_name"`
	Email     string `json:"email" gorm:"not null;index"`
	Phone     string `json:"phone"`

	DeliveryFromAddress string `json:"delivery_from_address"`
	DeliveryToAddress   string `json:"delivery_to_address"`
	FromSuburb          string `json:"from_suburb"`
	ToSuburb            string `json:"to_suburb"`
	Address             string `json:"address"` // derived "{from} → {to}" display string

	ContactSource   string `json:"contact_source" gorm:"default:'form'"` // form, whatsapp, phone, email, other
	SourceFormName  string `json:"source_form_name"`
	ExternalEntryID string `json:"external_entry_id"`
	ExternalFormID  string `json:"external_form_id"`

	JobType             string `json:"job_type"`
	Bedrooms            int    `json:"bedrooms"`
	Rooms               int    `json:"rooms"`
	StairsFrom          bool   `json:"stairs_from"`
	StairsTo            bool   `json:"stairs_to"`
	PropertyNotes       string `json:"property_notes"`
	SpecialInstructions string `json:"special_instructions"`

	MoveDate         *time.Time `json:"move_date" gorm:"type:date;index"`
	MoveTime         *string    `json:"move_time"`
	AlternateDate    *time.Time `json:"alternate_date" gorm:"type:date"`
	BookingStartTime *string    `json:"booking_start_time"`
	BookingEndTime   *string    `json:"booking_end_time"`
	TruckID          *uint      `json:"truck_id" gorm:"index"`
	Truck            *Truck     `json:"truck,omitempty" gorm:"foreignKey:TruckID"`

	Status string `json:"status" gorm:"default:'First Contact';index"`

	EmailSent        bool       `json:"email_sent" gorm:"default:false"`
	FirstEmailSentAt *time.Time `json:"first_email_sent_at"`

	AdminNotes string `json:"admin_notes"` // legacy single field, superseded by Note

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Enquiry) TableName() string {
	return "enquiries"
}

// Enquiry statuses. "Dead" is a legacy synonym for Archived kept only so
// old rows still read correctly; NormalizeStatus folds it away.
const (
	StatusFirstContact     = "First Contact"
	StatusQuoteSent        = "Quote Sent"
	StatusBookingConfirmed = "Booking Confirmed"
	StatusDepositPaid      = "Deposit Paid"
	StatusCompleted        = "Completed"
	StatusArchived         = "Archived"
	StatusDead             = "Dead"
)

// ActiveStatuses are the unresolved pipeline states swept by auto-archive.
var ActiveStatuses = []string{
	StatusFirstContact,
	StatusQuoteSent,
	StatusBookingConfirmed,
	StatusDepositPaid,
}

// AllStatuses lists every status accepted on write (Dead is read-only legacy).
var AllStatuses = []string{
	StatusFirstContact,
	StatusQuoteSent,
	StatusBookingConfirmed,
	StatusDepositPaid,
	StatusCompleted,
	StatusArchived,
}

// Contact sources.
const (
	SourceForm     = "form"
	SourceWhatsApp = "whatsapp"
	SourcePhone    = "phone"
	SourceEmail    = "email"
	SourceOther    = "other"
)

var ContactSources = []string{SourceForm, SourceWhatsApp, SourcePhone, SourceEmail, SourceOther}

// NormalizeStatus maps the legacy "Dead" value to Archived. Applied once
// when a row is read so internal logic never checks for the legacy string.
func NormalizeStatus(status string) string {
	if status == StatusDead {
		return StatusArchived
	}
	return status
}

// IsValidStatus reports whether status is accepted on write.
func IsValidStatus(status string) bool {
	for _, s := range AllStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// IsValidContactSource reports whether source is a known contact source.
func IsValidContactSource(source string) bool {
	for _, s := range ContactSources {
		if s == source {
			return true
		}
	}
	return false
}

// RecomputeFullName rebuilds FullName from the current name parts.
func (e *Enquiry) RecomputeFullName() {
	e.FullName = strings.TrimSpace(strings.TrimSpace(e.FirstName) + " " + strings.TrimSpace(e.LastName))
}

// RecomputeAddress rebuilds the combined display address from the current
// from/to pair. Both set → "{from} → {to}"; one set → that side; none → "".
func (e *Enquiry) RecomputeAddress() {
	from := strings.TrimSpace(e.DeliveryFromAddress)
	to := strings.TrimSpace(e.DeliveryToAddress)
	switch {
	case from != "" && to != "":
		e.Address = from + " → " + to
	case from != "":
		e.Address = from
	case to != "":
		e.Address = to
	default:
		e.Address = ""
	}
}

// EnquiryPatch is the typed update bag for PATCH operations. Only non-nil
// fields are applied; the struct itself is the allow-list of updatable
// fields. Status is deliberately absent — status changes go through the
// status engine so the audit trail stays complete.
type EnquiryPatch struct {
	FirstName           *string    `json:"first_name"`
	LastName            *string    `json:"last_name"`
	Email               *string    `json:"email"`
	Phone               *string    `json:"phone"`
	DeliveryFromAddress *string    `json:"delivery_from_address"`
	DeliveryToAddress   *string    `json:"delivery_to_address"`
	FromSuburb          *string    `json:"from_suburb"`
	ToSuburb            *string    `json:"to_suburb"`
	JobType             *string    `json:"job_type"`
	Bedrooms            *int       `json:"bedrooms"`
	Rooms               *int       `json:"rooms"`
	StairsFrom          *bool      `json:"stairs_from"`
	StairsTo            *bool      `json:"stairs_to"`
	PropertyNotes       *string    `json:"property_notes"`
	SpecialInstructions *string    `json:"special_instructions"`
	MoveDate            *string    `json:"move_date"`      // "2006-01-02", empty string clears
	MoveTime            *string    `json:"move_time"`      // "15:04", empty string clears
	AlternateDate       *string    `json:"alternate_date"` // "2006-01-02", empty string clears
	BookingStartTime    *string    `json:"booking_start_time"`
	BookingEndTime      *string    `json:"booking_end_time"`
}
