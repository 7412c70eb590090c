package services

import (
	"context"
	"testing"
	"time"

	"movers_crm/internal/models"
	"movers_crm/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubGate admits the first caller per window, like the Redis SETNX gate.
type stubGate struct {
	calls    int
	acquired int
}

func (g *stubGate) TryAcquire(ctx context.Context, window time.Duration) (bool, error) {
	g.calls++
	if g.acquired == 0 {
		g.acquired++
		return true, nil
	}
	return false, nil
}

func datePtr(t time.Time) *time.Time {
	return &t
}

func TestSweepIfDueArchivesStaleEnquiries(t *testing.T) {
	db := setupTestDB(t)
	enquiryRepo := repository.NewEnquiryRepository(db)
	gate := &stubGate{}

	today := time.Date(2026, 9, 14, 10, 30, 0, 0, time.UTC)
	yesterday := time.Date(2026, 9, 13, 0, 0, 0, 0, time.UTC)
	tomorrow := time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)

	stale := &models.Enquiry{FirstName: "Stale", Email: "stale@example.com", Status: models.StatusFirstContact, MoveDate: datePtr(yesterday)}
	upcoming := &models.Enquiry{FirstName: "Upcoming", Email: "up@example.com", Status: models.StatusQuoteSent, MoveDate: datePtr(tomorrow)}
	dateless := &models.Enquiry{FirstName: "Dateless", Email: "none@example.com", Status: models.StatusFirstContact}
	done := &models.Enquiry{FirstName: "Done", Email: "done@example.com", Status: models.StatusCompleted, MoveDate: datePtr(yesterday)}
	for _, e := range []*models.Enquiry{stale, upcoming, dateless, done} {
		require.NoError(t, enquiryRepo.Create(e))
	}

	service := &archiveService{
		enquiryRepo: enquiryRepo,
		gate:        gate,
		cooldown:    time.Hour,
		Now:         func() time.Time { return today },
	}

	archived, err := service.SweepIfDue(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), archived)

	loaded, err := enquiryRepo.GetByID(stale.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusArchived, loaded.Status)

	for _, e := range []*models.Enquiry{upcoming, dateless} {
		loaded, err := enquiryRepo.GetByID(e.ID)
		require.NoError(t, err)
		assert.NotEqual(t, models.StatusArchived, loaded.Status)
	}

	// Completed enquiries are not in the active set and stay untouched.
	loaded, err = enquiryRepo.GetByID(done.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, loaded.Status)
}

func TestSweepIfDueThrottledByGate(t *testing.T) {
	db := setupTestDB(t)
	enquiryRepo := repository.NewEnquiryRepository(db)
	gate := &stubGate{}

	today := time.Date(2026, 9, 14, 10, 30, 0, 0, time.UTC)
	yesterday := time.Date(2026, 9, 13, 0, 0, 0, 0, time.UTC)

	first := &models.Enquiry{FirstName: "One", Email: "one@example.com", Status: models.StatusFirstContact, MoveDate: datePtr(yesterday)}
	require.NoError(t, enquiryRepo.Create(first))

	service := &archiveService{
		enquiryRepo: enquiryRepo,
		gate:        gate,
		cooldown:    time.Hour,
		Now:         func() time.Time { return today },
	}

	archived, err := service.SweepIfDue(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), archived)

	// A second stale enquiry arrives inside the cooldown window; the gate
	// is already held so the sweep must not run again.
	second := &models.Enquiry{FirstName: "Two", Email: "two@example.com", Status: models.StatusFirstContact, MoveDate: datePtr(yesterday)}
	require.NoError(t, enquiryRepo.Create(second))

	archived, err = service.SweepIfDue(context.Background())
	require.NoError(t, err)
	assert.Zero(t, archived)
	assert.Equal(t, 2, gate.calls)

	loaded, err := enquiryRepo.GetByID(second.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusFirstContact, loaded.Status)
}

// brokenGate simulates Redis being down.
type brokenGate struct{}

func (brokenGate) TryAcquire(ctx context.Context, window time.Duration) (bool, error) {
	return false, assert.AnError
}

func TestSweepIfDueSkipsWhenGateUnavailable(t *testing.T) {
	db := setupTestDB(t)
	enquiryRepo := repository.NewEnquiryRepository(db)

	service := &archiveService{
		enquiryRepo: enquiryRepo,
		gate:        brokenGate{},
		cooldown:    time.Hour,
		Now:         time.Now,
	}

	archived, err := service.SweepIfDue(context.Background())
	require.NoError(t, err)
	assert.Zero(t, archived)
}
