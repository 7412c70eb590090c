package services

import (
	"testing"

	"movers_crm/internal/models"
	"movers_crm/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEnquiryService(t *testing.T) (EnquiryService, repository.NoteRepository) {
	t.Helper()
	db := setupTestDB(t)
	enquiryRepo := repository.NewEnquiryRepository(db)
	noteRepo := repository.NewNoteRepository(db)
	truckRepo := repository.NewTruckRepository(db)
	return NewEnquiryService(enquiryRepo, noteRepo, truckRepo), noteRepo
}

func strPtr(s string) *string {
	return &s
}

func TestCreateEnquiryDerivesFullNameAndAddress(t *testing.T) {
	service, _ := newEnquiryService(t)

	enquiry, err := service.CreateEnquiry(EnquiryInput{
		FirstName:           "  Jane ",
		LastName:            " Doe ",
		Email:               "jane@example.com",
		DeliveryFromAddress: "123 A St",
		DeliveryToAddress:   "456 B Rd",
	})
	require.NoError(t, err)

	assert.Equal(t, "Jane Doe", enquiry.FullName)
	assert.Equal(t, "123 A St → 456 B Rd", enquiry.Address)
	assert.Equal(t, models.StatusFirstContact, enquiry.Status)
	assert.Equal(t, models.SourceForm, enquiry.ContactSource)
}

func TestCreateEnquiryValidation(t *testing.T) {
	service, _ := newEnquiryService(t)

	tests := []struct {
		name  string
		input EnquiryInput
	}{
		{"missing first name", EnquiryInput{Email: "a@b.com"}},
		{"missing email", EnquiryInput{FirstName: "Jane"}},
		{"malformed email", EnquiryInput{FirstName: "Jane", Email: "not-an-email"}},
		{"unknown contact source", EnquiryInput{FirstName: "Jane", Email: "a@b.com", ContactSource: "carrier-pigeon"}},
		{"bad move date", EnquiryInput{FirstName: "Jane", Email: "a@b.com", MoveDate: "31/12/2026"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.CreateEnquiry(tt.input)
			assert.True(t, IsValidationError(err), "expected validation error, got %v", err)
		})
	}
}

func TestUpdateEnquiryRecomputesFullNameFromStoredFirst(t *testing.T) {
	service, _ := newEnquiryService(t)

	enquiry, err := service.CreateEnquiry(EnquiryInput{FirstName: "Jane", LastName: "Doe", Email: "jane@example.com"})
	require.NoError(t, err)

	updated, err := service.UpdateEnquiry(enquiry.ID, models.EnquiryPatch{LastName: strPtr("Smith")})
	require.NoError(t, err)

	assert.Equal(t, "Jane Smith", updated.FullName)
}

func TestUpdateEnquiryAddressDerivation(t *testing.T) {
	service, _ := newEnquiryService(t)

	enquiry, err := service.CreateEnquiry(EnquiryInput{
		FirstName:           "Jane",
		Email:               "jane@example.com",
		DeliveryFromAddress: "123 A St",
		DeliveryToAddress:   "456 B Rd",
	})
	require.NoError(t, err)
	assert.Equal(t, "123 A St → 456 B Rd", enquiry.Address)

	updated, err := service.UpdateEnquiry(enquiry.ID, models.EnquiryPatch{DeliveryToAddress: strPtr("")})
	require.NoError(t, err)
	assert.Equal(t, "123 A St", updated.Address)

	updated, err = service.UpdateEnquiry(enquiry.ID, models.EnquiryPatch{DeliveryFromAddress: strPtr("")})
	require.NoError(t, err)
	assert.Equal(t, "", updated.Address)
}

func TestChangeStatusCreatesAuditNote(t *testing.T) {
	service, noteRepo := newEnquiryService(t)

	enquiry, err := service.CreateEnquiry(EnquiryInput{FirstName: "Jane", Email: "jane@example.com"})
	require.NoError(t, err)

	_, err = service.ChangeStatus(enquiry.ID, models.StatusQuoteSent, "")
	require.NoError(t, err)

	note, err := service.ChangeStatus(enquiry.ID, models.StatusBookingConfirmed, models.StatusQuoteSent)
	require.NoError(t, err)
	require.NotNil(t, note)
	assert.Equal(t, `Status changed from "Quote Sent" to "Booking Confirmed"`, note.Text)

	updated, err := service.GetEnquiry(enquiry.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusBookingConfirmed, updated.Status)

	notes, err := noteRepo.GetByEnquiryID(enquiry.ID)
	require.NoError(t, err)
	assert.Len(t, notes, 2)
}

func TestChangeStatusNormalizesLegacyDead(t *testing.T) {
	service, _ := newEnquiryService(t)

	enquiry, err := service.CreateEnquiry(EnquiryInput{FirstName: "Jane", Email: "jane@example.com"})
	require.NoError(t, err)

	_, err = service.ChangeStatus(enquiry.ID, models.StatusDead, "")
	require.NoError(t, err)

	updated, err := service.GetEnquiry(enquiry.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusArchived, updated.Status)
}

func TestChangeStatusRejectsUnknownStatus(t *testing.T) {
	service, _ := newEnquiryService(t)

	enquiry, err := service.CreateEnquiry(EnquiryInput{FirstName: "Jane", Email: "jane@example.com"})
	require.NoError(t, err)

	_, err = service.ChangeStatus(enquiry.ID, "On Hold", "")
	assert.True(t, IsValidationError(err))
}

func TestChangeStatusUnknownEnquiry(t *testing.T) {
	service, _ := newEnquiryService(t)

	_, err := service.ChangeStatus(9999, models.StatusArchived, "")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestArchivedCanBeReopened(t *testing.T) {
	service, _ := newEnquiryService(t)

	enquiry, err := service.CreateEnquiry(EnquiryInput{FirstName: "Jane", Email: "jane@example.com"})
	require.NoError(t, err)

	_, err = service.ChangeStatus(enquiry.ID, models.StatusArchived, "")
	require.NoError(t, err)

	_, err = service.ChangeStatus(enquiry.ID, models.StatusFirstContact, "")
	require.NoError(t, err)

	updated, err := service.GetEnquiry(enquiry.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusFirstContact, updated.Status)
}

func TestAddAndDeleteNote(t *testing.T) {
	service, _ := newEnquiryService(t)

	enquiry, err := service.CreateEnquiry(EnquiryInput{FirstName: "Jane", Email: "jane@example.com"})
	require.NoError(t, err)

	note, err := service.AddNote(enquiry.ID, "Customer called to confirm")
	require.NoError(t, err)

	notes, err := service.GetNotes(enquiry.ID)
	require.NoError(t, err)
	assert.Len(t, notes, 1)

	require.NoError(t, service.DeleteNote(note.ID))

	notes, err = service.GetNotes(enquiry.ID)
	require.NoError(t, err)
	assert.Empty(t, notes)

	assert.ErrorIs(t, service.DeleteNote(note.ID), ErrNotFound)
}

func TestAddNoteValidation(t *testing.T) {
	service, _ := newEnquiryService(t)

	enquiry, err := service.CreateEnquiry(EnquiryInput{FirstName: "Jane", Email: "jane@example.com"})
	require.NoError(t, err)

	_, err = service.AddNote(enquiry.ID, "   ")
	assert.True(t, IsValidationError(err))

	_, err = service.AddNote(9999, "orphan note")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAssignTruckAppendsNote(t *testing.T) {
	db := setupTestDB(t)
	enquiryRepo := repository.NewEnquiryRepository(db)
	noteRepo := repository.NewNoteRepository(db)
	truckRepo := repository.NewTruckRepository(db)
	service := NewEnquiryService(enquiryRepo, noteRepo, truckRepo)

	truck := &models.Truck{Name: "Big Red", Status: models.TruckActive}
	require.NoError(t, truckRepo.Create(truck))

	enquiry, err := service.CreateEnquiry(EnquiryInput{FirstName: "Jane", Email: "jane@example.com"})
	require.NoError(t, err)

	require.NoError(t, service.AssignTruck(enquiry.ID, &truck.ID))

	updated, err := service.GetEnquiry(enquiry.ID)
	require.NoError(t, err)
	require.NotNil(t, updated.TruckID)
	assert.Equal(t, truck.ID, *updated.TruckID)

	notes, err := noteRepo.GetByEnquiryID(enquiry.ID)
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, "Truck assigned: Big Red", notes[0].Text)

	require.NoError(t, service.AssignTruck(enquiry.ID, nil))

	updated, err = service.GetEnquiry(enquiry.ID)
	require.NoError(t, err)
	assert.Nil(t, updated.TruckID)

	notes, err = noteRepo.GetByEnquiryID(enquiry.ID)
	require.NoError(t, err)
	require.Len(t, notes, 2)
}

func TestUpdateAdminNotes(t *testing.T) {
	service, _ := newEnquiryService(t)

	enquiry, err := service.CreateEnquiry(EnquiryInput{FirstName: "Jane", Email: "jane@example.com"})
	require.NoError(t, err)

	require.NoError(t, service.UpdateAdminNotes(enquiry.ID, " legacy note "))

	updated, err := service.GetEnquiry(enquiry.ID)
	require.NoError(t, err)
	assert.Equal(t, "legacy note", updated.AdminNotes)

	assert.ErrorIs(t, service.UpdateAdminNotes(9999, "x"), ErrNotFound)
}
