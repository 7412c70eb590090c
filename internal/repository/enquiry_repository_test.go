package repository

import (
	"testing"
	"time"

	"movers_crm/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.Truck{},
		&models.Enquiry{},
		&models.Note{},
		&models.Booking{},
		&models.ScheduleSettings{},
	); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	return db
}

func date(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func TestListArchivedIncludesLegacyDead(t *testing.T) {
	db := setupTestDB(t)
	repo := NewEnquiryRepository(db)

	archived := &models.Enquiry{FirstName: "A", Email: "a@example.com", Status: models.StatusArchived}
	dead := &models.Enquiry{FirstName: "B", Email: "b@example.com", Status: models.StatusDead}
	active := &models.Enquiry{FirstName: "C", Email: "c@example.com", Status: models.StatusFirstContact}
	for _, e := range []*models.Enquiry{archived, dead, active} {
		require.NoError(t, repo.Create(e))
	}

	enquiries, err := repo.List(StatusFilterArchived, "created_at", "asc")
	require.NoError(t, err)
	require.Len(t, enquiries, 2)

	// Legacy Dead rows read back as Archived.
	for _, e := range enquiries {
		assert.Equal(t, models.StatusArchived, e.Status)
	}
}

func TestCountByStatusMergesDeadIntoArchived(t *testing.T) {
	db := setupTestDB(t)
	repo := NewEnquiryRepository(db)

	for _, status := range []string{models.StatusArchived, models.StatusDead, models.StatusQuoteSent} {
		require.NoError(t, repo.Create(&models.Enquiry{FirstName: "X", Email: "x@example.com", Status: status}))
	}

	counts, err := repo.CountByStatus()
	require.NoError(t, err)
	assert.Equal(t, int64(2), counts[models.StatusArchived])
	assert.Equal(t, int64(1), counts[models.StatusQuoteSent])
	assert.NotContains(t, counts, models.StatusDead)
}

func TestListActiveFilter(t *testing.T) {
	db := setupTestDB(t)
	repo := NewEnquiryRepository(db)

	for _, status := range []string{
		models.StatusFirstContact,
		models.StatusQuoteSent,
		models.StatusBookingConfirmed,
		models.StatusDepositPaid,
		models.StatusCompleted,
		models.StatusArchived,
	} {
		require.NoError(t, repo.Create(&models.Enquiry{FirstName: "X", Email: "x@example.com", Status: status}))
	}

	enquiries, err := repo.List(StatusFilterActive, "", "")
	require.NoError(t, err)
	assert.Len(t, enquiries, 4)

	// An empty filter means the active pipeline view.
	enquiries, err = repo.List("", "", "")
	require.NoError(t, err)
	assert.Len(t, enquiries, 4)

	// A specific status filters just itself.
	enquiries, err = repo.List(models.StatusCompleted, "", "")
	require.NoError(t, err)
	assert.Len(t, enquiries, 1)
}

func TestOrderClauseFallbacks(t *testing.T) {
	tests := []struct {
		name    string
		sortKey string
		sortDir string
		want    string
	}{
		{"injection attempt falls back", "description; DROP TABLE x", "asc", "move_date IS NULL, move_date ASC, created_at DESC"},
		{"unknown direction falls back to asc", "created_at", "sideways", "created_at ASC"},
		{"valid desc", "status", "DESC", "status DESC"},
		{"name maps to full_name", "name", "asc", "full_name ASC"},
		{"empty key defaults", "", "", "move_date IS NULL, move_date ASC, created_at DESC"},
		{"unknown key ignores direction", "secret_column", "desc", "move_date IS NULL, move_date ASC, created_at DESC"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, orderClause(tt.sortKey, tt.sortDir))
		})
	}
}

func TestListMoveDateSortNullsLast(t *testing.T) {
	db := setupTestDB(t)
	repo := NewEnquiryRepository(db)

	noDate := &models.Enquiry{FirstName: "NoDate", Email: "n@example.com", Status: models.StatusFirstContact}
	late := &models.Enquiry{FirstName: "Late", Email: "l@example.com", Status: models.StatusFirstContact, MoveDate: date(2026, 10, 1)}
	early := &models.Enquiry{FirstName: "Early", Email: "e@example.com", Status: models.StatusFirstContact, MoveDate: date(2026, 9, 1)}
	for _, e := range []*models.Enquiry{noDate, late, early} {
		require.NoError(t, repo.Create(e))
	}

	enquiries, err := repo.List(StatusFilterActive, "move_date", "asc")
	require.NoError(t, err)
	require.Len(t, enquiries, 3)
	assert.Equal(t, "Early", enquiries[0].FirstName)
	assert.Equal(t, "Late", enquiries[1].FirstName)
	assert.Equal(t, "NoDate", enquiries[2].FirstName)
}

func TestArchiveStaleBefore(t *testing.T) {
	db := setupTestDB(t)
	repo := NewEnquiryRepository(db)

	stale := &models.Enquiry{FirstName: "Stale", Email: "s@example.com", Status: models.StatusFirstContact, MoveDate: date(2026, 9, 13)}
	today := &models.Enquiry{FirstName: "Today", Email: "t@example.com", Status: models.StatusFirstContact, MoveDate: date(2026, 9, 14)}
	for _, e := range []*models.Enquiry{stale, today} {
		require.NoError(t, repo.Create(e))
	}

	cutoff := time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC)
	archived, err := repo.ArchiveStaleBefore(cutoff, time.Now())
	require.NoError(t, err)
	assert.Equal(t, int64(1), archived)

	loaded, err := repo.GetByID(stale.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusArchived, loaded.Status)

	// Moves on the cutoff day itself are not stale.
	loaded, err = repo.GetByID(today.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusFirstContact, loaded.Status)
}

func TestUpdateStatusUnknownID(t *testing.T) {
	db := setupTestDB(t)
	repo := NewEnquiryRepository(db)

	assert.ErrorIs(t, repo.UpdateStatus(42, models.StatusArchived), ErrNotFound)
}

func TestNotesOrderedNewestFirst(t *testing.T) {
	db := setupTestDB(t)
	enquiryRepo := NewEnquiryRepository(db)
	noteRepo := NewNoteRepository(db)

	enquiry := &models.Enquiry{FirstName: "Jane", Email: "jane@example.com", Status: models.StatusFirstContact}
	require.NoError(t, enquiryRepo.Create(enquiry))

	older := &models.Note{EnquiryID: enquiry.ID, Text: "first", CreatedAt: time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC)}
	newer := &models.Note{EnquiryID: enquiry.ID, Text: "second", CreatedAt: time.Date(2026, 9, 2, 9, 0, 0, 0, time.UTC)}
	require.NoError(t, noteRepo.Create(older))
	require.NoError(t, noteRepo.Create(newer))

	notes, err := noteRepo.GetByEnquiryID(enquiry.ID)
	require.NoError(t, err)
	require.Len(t, notes, 2)
	assert.Equal(t, "second", notes[0].Text)
	assert.Equal(t, "first", notes[1].Text)
}
