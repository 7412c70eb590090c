package services

import (
	"fmt"
	"log"
	"net/mail"
	"strings"
	"time"

	"movers_crm/internal/models"
	"movers_crm/internal/repository"
)

// EnquiryInput carries a new enquiry from the contact form or the
// external form webhook. Dates are "2006-01-02", times "15:04".
type EnquiryInput struct {
	FirstName           string `json:"first_name"`
	LastName            string `json:"last_name"`
	Email               string `json:"email"`
	Phone               string `json:"phone"`
	DeliveryFromAddress string `json:"delivery_from_address"`
	DeliveryToAddress   string `json:"delivery_to_address"`
	FromSuburb          string `json:"from_suburb"`
	ToSuburb            string `json:"to_suburb"`
	ContactSource       string `json:"contact_source"`
	SourceFormName      string `json:"source_form_name"`
	ExternalEntryID     string `json:"external_entry_id"`
	ExternalFormID      string `json:"external_form_id"`
	JobType             string `json:"job_type"`
	Bedrooms            int    `json:"bedrooms"`
	Rooms               int    `json:"rooms"`
	StairsFrom          bool   `json:"stairs_from"`
	StairsTo            bool   `json:"stairs_to"`
	PropertyNotes       string `json:"property_notes"`
	SpecialInstructions string `json:"special_instructions"`
	MoveDate            string `json:"move_date"`
	MoveTime            string `json:"move_time"`
	AlternateDate       string `json:"alternate_date"`
}

type EnquiryService interface {
	CreateEnquiry(input EnquiryInput) (*models.Enquiry, error)
	GetEnquiry(id uint) (*models.Enquiry, error)
	ListEnquiries(statusFilter, sortKey, sortDir string) ([]models.Enquiry, error)
	CountByStatus() (map[string]int64, error)
	UpdateEnquiry(id uint, patch models.EnquiryPatch) (*models.Enquiry, error)
	ChangeStatus(id uint, newStatus, oldStatus string) (*models.Note, error)
	AddNote(enquiryID uint, text string) (*models.Note, error)
	GetNotes(enquiryID uint) ([]models.Note, error)
	DeleteNote(noteID uint) error
	UpdateAdminNotes(id uint, text string) error
	AssignTruck(enquiryID uint, truckID *uint) error
}

type enquiryService struct {
	enquiryRepo repository.EnquiryRepository
	noteRepo    repository.NoteRepository
	truckRepo   repository.TruckRepository
}

func NewEnquiryService(
	enquiryRepo repository.EnquiryRepository,
	noteRepo repository.NoteRepository,
	truckRepo repository.TruckRepository,
) EnquiryService {
	return &enquiryService{
		enquiryRepo: enquiryRepo,
		noteRepo:    noteRepo,
		truckRepo:   truckRepo,
	}
}

func (s *enquiryService) CreateEnquiry(input EnquiryInput) (*models.Enquiry, error) {
	firstName := strings.TrimSpace(input.FirstName)
	email := strings.TrimSpace(input.Email)
	if firstName == "" {
		return nil, newValidationError("first_name", "first name is required")
	}
	if email == "" {
		return nil, newValidationError("email", "email is required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, newValidationError("email", "malformed email address")
	}

	source := strings.TrimSpace(input.ContactSource)
	if source == "" {
		source = models.SourceForm
	}
	if !models.IsValidContactSource(source) {
		return nil, newValidationError("contact_source", "unknown contact source")
	}

	moveDate, err := parseOptionalDate(input.MoveDate, "move_date")
	if err != nil {
		return nil, err
	}
	alternateDate, err := parseOptionalDate(input.AlternateDate, "alternate_date")
	if err != nil {
		return nil, err
	}
	moveTime, err := parseOptionalTime(input.MoveTime, "move_time")
	if err != nil {
		return nil, err
	}

	enquiry := &models.Enquiry{
		FirstName:           firstName,
		LastName:            strings.TrimSpace(input.LastName),
		Email:               email,
		Phone:               strings.TrimSpace(input.Phone),
		DeliveryFromAddress: strings.TrimSpace(input.DeliveryFromAddress),
		DeliveryToAddress:   strings.TrimSpace(input.DeliveryToAddress),
		FromSuburb:          strings.TrimSpace(input.FromSuburb),
		ToSuburb:            strings.TrimSpace(input.ToSuburb),
		ContactSource:       source,
		SourceFormName:      strings.TrimSpace(input.SourceFormName),
		ExternalEntryID:     strings.TrimSpace(input.ExternalEntryID),
		ExternalFormID:      strings.TrimSpace(input.ExternalFormID),
		JobType:             strings.TrimSpace(input.JobType),
		Bedrooms:            input.Bedrooms,
		Rooms:               input.Rooms,
		StairsFrom:          input.StairsFrom,
		StairsTo:            input.StairsTo,
		PropertyNotes:       strings.TrimSpace(input.PropertyNotes),
		SpecialInstructions: strings.TrimSpace(input.SpecialInstructions),
		MoveDate:            moveDate,
		MoveTime:            moveTime,
		AlternateDate:       alternateDate,
		Status:              models.StatusFirstContact,
	}
	enquiry.RecomputeFullName()
	enquiry.RecomputeAddress()

	if err := s.enquiryRepo.Create(enquiry); err != nil {
		return nil, err
	}
	return enquiry, nil
}

func (s *enquiryService) GetEnquiry(id uint) (*models.Enquiry, error) {
	return s.enquiryRepo.GetByID(id)
}

func (s *enquiryService) ListEnquiries(statusFilter, sortKey, sortDir string) ([]models.Enquiry, error) {
	return s.enquiryRepo.List(statusFilter, sortKey, sortDir)
}

func (s *enquiryService) CountByStatus() (map[string]int64, error) {
	return s.enquiryRepo.CountByStatus()
}

func (s *enquiryService) UpdateEnquiry(id uint, patch models.EnquiryPatch) (*models.Enquiry, error) {
	enquiry, err := s.enquiryRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if err := applyPatch(enquiry, patch); err != nil {
		return nil, err
	}
	enquiry.RecomputeFullName()
	enquiry.RecomputeAddress()
	if err := s.enquiryRepo.Update(enquiry); err != nil {
		return nil, err
	}
	return enquiry, nil
}

func applyPatch(enquiry *models.Enquiry, patch models.EnquiryPatch) error {
	if patch.FirstName != nil {
		name := strings.TrimSpace(*patch.FirstName)
		if name == "" {
			return newValidationError("first_name", "first name cannot be empty")
		}
		enquiry.FirstName = name
	}
	if patch.LastName != nil {
		enquiry.LastName = strings.TrimSpace(*patch.LastName)
	}
	if patch.Email != nil {
		email := strings.TrimSpace(*patch.Email)
		if email == "" {
			return newValidationError("email", "email cannot be empty")
		}
		if _, err := mail.ParseAddress(email); err != nil {
			return newValidationError("email", "malformed email address")
		}
		enquiry.Email = email
	}
	if patch.Phone != nil {
		enquiry.Phone = strings.TrimSpace(*patch.Phone)
	}
	if patch.DeliveryFromAddress != nil {
		enquiry.DeliveryFromAddress = strings.TrimSpace(*patch.DeliveryFromAddress)
	}
	if patch.DeliveryToAddress != nil {
		enquiry.DeliveryToAddress = strings.TrimSpace(*patch.DeliveryToAddress)
	}
	if patch.FromSuburb != nil {
		enquiry.FromSuburb = strings.TrimSpace(*patch.FromSuburb)
	}
	if patch.ToSuburb != nil {
		enquiry.ToSuburb = strings.TrimSpace(*patch.ToSuburb)
	}
	if patch.JobType != nil {
		enquiry.JobType = strings.TrimSpace(*patch.JobType)
	}
	if patch.Bedrooms != nil {
		enquiry.Bedrooms = *patch.Bedrooms
	}
	if patch.Rooms != nil {
		enquiry.Rooms = *patch.Rooms
	}
	if patch.StairsFrom != nil {
		enquiry.StairsFrom = *patch.StairsFrom
	}
	if patch.StairsTo != nil {
		enquiry.StairsTo = *patch.StairsTo
	}
	if patch.PropertyNotes != nil {
		enquiry.PropertyNotes = strings.TrimSpace(*patch.PropertyNotes)
	}
	if patch.SpecialInstructions != nil {
		enquiry.SpecialInstructions = strings.TrimSpace(*patch.SpecialInstructions)
	}
	if patch.MoveDate != nil {
		date, err := parseOptionalDate(*patch.MoveDate, "move_date")
		if err != nil {
			return err
		}
		enquiry.MoveDate = date
	}
	if patch.MoveTime != nil {
		t, err := parseOptionalTime(*patch.MoveTime, "move_time")
		if err != nil {
			return err
		}
		enquiry.MoveTime = t
	}
	if patch.AlternateDate != nil {
		date, err := parseOptionalDate(*patch.AlternateDate, "alternate_date")
		if err != nil {
			return err
		}
		enquiry.AlternateDate = date
	}
	if patch.BookingStartTime != nil {
		t, err := parseOptionalTime(*patch.BookingStartTime, "booking_start_time")
		if err != nil {
			return err
		}
		enquiry.BookingStartTime = t
	}
	if patch.BookingEndTime != nil {
		t, err := parseOptionalTime(*patch.BookingEndTime, "booking_end_time")
		if err != nil {
			return err
		}
		enquiry.BookingEndTime = t
	}
	return nil
}

// ChangeStatus persists the new status, then appends the audit note.
// A failed status write aborts before any note is written. A failed note
// append is logged and the transition still stands — the returned note
// is nil in that case.
func (s *enquiryService) ChangeStatus(id uint, newStatus, oldStatus string) (*models.Note, error) {
	newStatus = models.NormalizeStatus(strings.TrimSpace(newStatus))
	if !models.IsValidStatus(newStatus) {
		return nil, newValidationError("status", "unknown status")
	}

	oldStatus = strings.TrimSpace(oldStatus)
	if oldStatus == "" {
		if existing, err := s.enquiryRepo.GetByID(id); err == nil {
			oldStatus = existing.Status
		}
	} else {
		oldStatus = models.NormalizeStatus(oldStatus)
	}

	if err := s.enquiryRepo.UpdateStatus(id, newStatus); err != nil {
		return nil, err
	}

	text := fmt.Sprintf("Status changed to %q", newStatus)
	if oldStatus != "" {
		text = fmt.Sprintf("Status changed from %q to %q", oldStatus, newStatus)
	}
	note := &models.Note{EnquiryID: id, Text: text}
	if err := s.noteRepo.Create(note); err != nil {
		log.Printf("Warning: status changed on enquiry %d but audit note failed: %v", id, err)
		return nil, nil
	}
	return note, nil
}

func (s *enquiryService) AddNote(enquiryID uint, text string) (*models.Note, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, newValidationError("text", "note text is required")
	}
	if _, err := s.enquiryRepo.GetByID(enquiryID); err != nil {
		return nil, err
	}
	note := &models.Note{EnquiryID: enquiryID, Text: text}
	if err := s.noteRepo.Create(note); err != nil {
		return nil, err
	}
	return note, nil
}

func (s *enquiryService) GetNotes(enquiryID uint) ([]models.Note, error) {
	return s.noteRepo.GetByEnquiryID(enquiryID)
}

func (s *enquiryService) DeleteNote(noteID uint) error {
	return s.noteRepo.Delete(noteID)
}

func (s *enquiryService) UpdateAdminNotes(id uint, text string) error {
	enquiry, err := s.enquiryRepo.GetByID(id)
	if err != nil {
		return err
	}
	enquiry.AdminNotes = strings.TrimSpace(text)
	return s.enquiryRepo.Update(enquiry)
}

// AssignTruck sets or clears the enquiry's truck and records the change
// on the activity trail.
func (s *enquiryService) AssignTruck(enquiryID uint, truckID *uint) error {
	enquiry, err := s.enquiryRepo.GetByID(enquiryID)
	if err != nil {
		return err
	}

	var text string
	if truckID != nil {
		truck, err := s.truckRepo.GetByID(*truckID)
		if err != nil {
			return err
		}
		text = fmt.Sprintf("Truck assigned: %s", truck.Name)
	} else {
		text = "Truck unassigned"
	}

	enquiry.TruckID = truckID
	enquiry.Truck = nil
	if err := s.enquiryRepo.Update(enquiry); err != nil {
		return err
	}

	note := &models.Note{EnquiryID: enquiryID, Text: text}
	if err := s.noteRepo.Create(note); err != nil {
		log.Printf("Warning: truck assignment saved on enquiry %d but audit note failed: %v", enquiryID, err)
	}
	return nil
}

func parseOptionalDate(value, field string) (*time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	date, err := time.Parse("2006-01-02", value)
	if err != nil {
		return nil, newValidationError(field, "expected date in YYYY-MM-DD format")
	}
	return &date, nil
}

func parseOptionalTime(value, field string) (*string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	parsed, err := time.Parse("15:04", value)
	if err != nil {
		return nil, newValidationError(field, "expected time in HH:MM format")
	}
	formatted := parsed.Format("15:04")
	return &formatted, nil
}
