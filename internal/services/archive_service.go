package services

import (
	"context"
	"log"
	"time"

	"movers_crm/internal/repository"

	"github.com/jinzhu/now"
)

// ArchiveCooldown is the default minimum interval between sweeps.
const ArchiveCooldown = time.Hour

// SweepGate decides whether a sweep may run this period. The gate is
// shared across processes (Redis SETNX in production) so concurrent
// readers agree on whether the sweep already ran.
type SweepGate interface {
	TryAcquire(ctx context.Context, window time.Duration) (bool, error)
}

type ArchiveService interface {
	// SweepIfDue archives stale active enquiries if the cooldown window
	// has elapsed. Returns the number of enquiries archived (0 when the
	// gate was already held).
	SweepIfDue(ctx context.Context) (int64, error)
}

type archiveService struct {
	enquiryRepo repository.EnquiryRepository
	gate        SweepGate
	cooldown    time.Duration

	// Now is the injected clock, replaceable in tests.
	Now func() time.Time
}

func NewArchiveService(enquiryRepo repository.EnquiryRepository, gate SweepGate, cooldown time.Duration) ArchiveService {
	if cooldown <= 0 {
		cooldown = ArchiveCooldown
	}
	return &archiveService{
		enquiryRepo: enquiryRepo,
		gate:        gate,
		cooldown:    cooldown,
		Now:         time.Now,
	}
}

// SweepIfDue runs inline with the active-list request path. An enquiry
// is stale when its move date falls before the start of the current
// local calendar day. The bulk update skips per-row audit notes.
func (s *archiveService) SweepIfDue(ctx context.Context) (int64, error) {
	acquired, err := s.gate.TryAcquire(ctx, s.cooldown)
	if err != nil {
		// A broken gate must not take the list view down with it.
		log.Printf("Warning: archive sweep gate unavailable, skipping sweep: %v", err)
		return 0, nil
	}
	if !acquired {
		return 0, nil
	}

	current := s.Now()
	startOfToday := now.New(current).BeginningOfDay()
	archived, err := s.enquiryRepo.ArchiveStaleBefore(startOfToday, current)
	if err != nil {
		return 0, err
	}
	if archived > 0 {
		log.Printf("Auto-archived %d stale enquiries", archived)
	}
	return archived, nil
}
