package services

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"movers_crm/internal/models"
	"movers_crm/internal/repository"
)

// DefaultBookingDurationHours is used when no schedule setting has been
// stored yet.
const DefaultBookingDurationHours = 3.0

// EndTimeMode says what the caller intends for a booking's end time.
// An auto-computed end time is only a suggestion: once a caller has set
// one explicitly it must never be silently overwritten.
type EndTimeMode int

const (
	// EndTimeUseDefault computes the end time from the start time plus
	// the configured duration (and keeps an already-set end time on edit).
	EndTimeUseDefault EndTimeMode = iota
	// EndTimeExplicit stores Value as given.
	EndTimeExplicit
	// EndTimeUnset clears the end time.
	EndTimeUnset
)

// EndTimeChoice is the tri-state end-time intent passed by the caller.
type EndTimeChoice struct {
	Mode  EndTimeMode
	Value string
}

// BookingInput carries a booking create or update.
type BookingInput struct {
	TruckID   uint
	EnquiryID *uint
	Date      string // "2006-01-02"
	StartTime string // "15:04", optional
	End       EndTimeChoice
	Notes     string
}

// CalendarDay is one row of the booking grid: a date with its bookings
// grouped per truck.
type CalendarDay struct {
	Date   string               `json:"date"`
	Trucks []CalendarTruckSlots `json:"trucks"`
}

type CalendarTruckSlots struct {
	TruckID   uint             `json:"truck_id"`
	TruckName string           `json:"truck_name"`
	Bookings  []models.Booking `json:"bookings"`
}

type SchedulerService interface {
	CreateTruck(truck *models.Truck) error
	GetTruck(id uint) (*models.Truck, error)
	ListTrucks(includeInactive bool) ([]models.Truck, error)
	UpdateTruck(id uint, patch models.TruckPatch) (*models.Truck, error)
	DeactivateTruck(id uint) error

	CreateBooking(input BookingInput) (*models.Booking, error)
	GetBooking(id uint) (*models.Booking, error)
	ListBookings(from, to *time.Time, truckID *uint) ([]models.Booking, error)
	UpdateBooking(id uint, input BookingInput) (*models.Booking, error)
	DeleteBooking(id uint) error
	GetCalendar(from, to time.Time) ([]CalendarDay, error)

	GetBookingDuration() (float64, error)
	SetBookingDuration(hours float64) error
}

// SettingsCache is an optional read-through cache in front of the
// schedule settings table. The Redis client implements it.
type SettingsCache interface {
	GetFloat(key string) (float64, bool)
	SetFloat(key string, value float64)
	Invalidate(key string)
}

type schedulerService struct {
	truckRepo    repository.TruckRepository
	bookingRepo  repository.BookingRepository
	settingsRepo repository.SettingsRepository
	cache        SettingsCache
}

func NewSchedulerService(
	truckRepo repository.TruckRepository,
	bookingRepo repository.BookingRepository,
	settingsRepo repository.SettingsRepository,
	cache SettingsCache,
) SchedulerService {
	return &schedulerService{
		truckRepo:    truckRepo,
		bookingRepo:  bookingRepo,
		settingsRepo: settingsRepo,
		cache:        cache,
	}
}

// ComputeDefaultEndTime suggests an end time from a start time plus the
// configured duration. The duration is converted to whole minutes to
// avoid floating-point drift; the time of day wraps past midnight but
// the date is never advanced.
func ComputeDefaultEndTime(startTime string, durationHours float64) (string, error) {
	if durationHours < 0.5 || durationHours > 24 {
		return "", newValidationError("duration_hours", "duration must be between 0.5 and 24 hours")
	}
	parsed, err := time.Parse("15:04", strings.TrimSpace(startTime))
	if err != nil {
		return "", newValidationError("start_time", "expected time in HH:MM format")
	}
	minutes := int(math.Round(durationHours * 60))
	total := (parsed.Hour()*60 + parsed.Minute() + minutes) % (24 * 60)
	return fmt.Sprintf("%02d:%02d", total/60, total%60), nil
}

func (s *schedulerService) CreateTruck(truck *models.Truck) error {
	truck.Name = strings.TrimSpace(truck.Name)
	if truck.Name == "" {
		return newValidationError("name", "truck name is required")
	}
	if truck.Status == "" {
		truck.Status = models.TruckActive
	}
	if truck.Status != models.TruckActive && truck.Status != models.TruckInactive {
		return newValidationError("status", "truck status must be active or inactive")
	}
	return s.truckRepo.Create(truck)
}

func (s *schedulerService) GetTruck(id uint) (*models.Truck, error) {
	return s.truckRepo.GetByID(id)
}

func (s *schedulerService) ListTrucks(includeInactive bool) ([]models.Truck, error) {
	return s.truckRepo.GetAll(includeInactive)
}

func (s *schedulerService) UpdateTruck(id uint, patch models.TruckPatch) (*models.Truck, error) {
	truck, err := s.truckRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return nil, newValidationError("name", "truck name cannot be empty")
		}
		truck.Name = name
	}
	if patch.Registration != nil {
		truck.Registration = strings.TrimSpace(*patch.Registration)
	}
	if patch.Capacity != nil {
		truck.Capacity = strings.TrimSpace(*patch.Capacity)
	}
	if patch.Status != nil {
		status := strings.TrimSpace(*patch.Status)
		if status != models.TruckActive && status != models.TruckInactive {
			return nil, newValidationError("status", "truck status must be active or inactive")
		}
		truck.Status = status
	}
	if err := s.truckRepo.Update(truck); err != nil {
		return nil, err
	}
	return truck, nil
}

// DeactivateTruck is the only delete trucks get. Bookings and enquiries
// keep their references.
func (s *schedulerService) DeactivateTruck(id uint) error {
	truck, err := s.truckRepo.GetByID(id)
	if err != nil {
		return err
	}
	truck.Status = models.TruckInactive
	return s.truckRepo.Update(truck)
}

func (s *schedulerService) CreateBooking(input BookingInput) (*models.Booking, error) {
	booking, err := s.buildBooking(input, nil)
	if err != nil {
		return nil, err
	}
	if err := s.bookingRepo.Create(booking); err != nil {
		return nil, err
	}
	return booking, nil
}

func (s *schedulerService) GetBooking(id uint) (*models.Booking, error) {
	return s.bookingRepo.GetByID(id)
}

func (s *schedulerService) ListBookings(from, to *time.Time, truckID *uint) ([]models.Booking, error) {
	return s.bookingRepo.List(from, to, truckID)
}

func (s *schedulerService) UpdateBooking(id uint, input BookingInput) (*models.Booking, error) {
	existing, err := s.bookingRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	booking, err := s.buildBooking(input, existing)
	if err != nil {
		return nil, err
	}
	if err := s.bookingRepo.Update(booking); err != nil {
		return nil, err
	}
	return booking, nil
}

// buildBooking validates the input and resolves the end time. When
// editing, an existing non-nil end time counts as manually set, so
// EndTimeUseDefault keeps it instead of recomputing.
func (s *schedulerService) buildBooking(input BookingInput, existing *models.Booking) (*models.Booking, error) {
	if input.TruckID == 0 {
		return nil, newValidationError("truck_id", "truck is required")
	}
	if _, err := s.truckRepo.GetByID(input.TruckID); err != nil {
		return nil, err
	}
	date, err := parseOptionalDate(input.Date, "date")
	if err != nil {
		return nil, err
	}
	if date == nil {
		return nil, newValidationError("date", "booking date is required")
	}
	startTime, err := parseOptionalTime(input.StartTime, "start_time")
	if err != nil {
		return nil, err
	}

	booking := &models.Booking{
		TruckID:   input.TruckID,
		EnquiryID: input.EnquiryID,
		Date:      *date,
		StartTime: startTime,
		Notes:     strings.TrimSpace(input.Notes),
	}
	if existing != nil {
		booking.ID = existing.ID
		booking.CreatedAt = existing.CreatedAt
	}

	switch input.End.Mode {
	case EndTimeExplicit:
		endTime, err := parseOptionalTime(input.End.Value, "end_time")
		if err != nil {
			return nil, err
		}
		booking.EndTime = endTime
	case EndTimeUnset:
		booking.EndTime = nil
	case EndTimeUseDefault:
		if existing != nil && existing.EndTime != nil {
			booking.EndTime = existing.EndTime
			break
		}
		if startTime != nil {
			duration, err := s.GetBookingDuration()
			if err != nil {
				return nil, err
			}
			end, err := ComputeDefaultEndTime(*startTime, duration)
			if err != nil {
				return nil, err
			}
			booking.EndTime = &end
		}
	}
	return booking, nil
}

func (s *schedulerService) DeleteBooking(id uint) error {
	return s.bookingRepo.Delete(id)
}

// GetCalendar groups bookings by date, then by truck, for the grid view.
func (s *schedulerService) GetCalendar(from, to time.Time) ([]CalendarDay, error) {
	bookings, err := s.bookingRepo.List(&from, &to, nil)
	if err != nil {
		return nil, err
	}

	byDay := make(map[string]map[uint]*CalendarTruckSlots)
	for _, booking := range bookings {
		day := booking.Date.Format("2006-01-02")
		if byDay[day] == nil {
			byDay[day] = make(map[uint]*CalendarTruckSlots)
		}
		slots := byDay[day][booking.TruckID]
		if slots == nil {
			slots = &CalendarTruckSlots{TruckID: booking.TruckID}
			if booking.Truck != nil {
				slots.TruckName = booking.Truck.Name
			}
			byDay[day][booking.TruckID] = slots
		}
		slots.Bookings = append(slots.Bookings, booking)
	}

	days := make([]CalendarDay, 0, len(byDay))
	for date, trucks := range byDay {
		day := CalendarDay{Date: date}
		for _, slots := range trucks {
			day.Trucks = append(day.Trucks, *slots)
		}
		sort.Slice(day.Trucks, func(i, j int) bool {
			return day.Trucks[i].TruckID < day.Trucks[j].TruckID
		})
		days = append(days, day)
	}
	sort.Slice(days, func(i, j int) bool {
		return days[i].Date < days[j].Date
	})
	return days, nil
}

func (s *schedulerService) GetBookingDuration() (float64, error) {
	if s.cache != nil {
		if value, ok := s.cache.GetFloat(models.SettingBookingDurationHours); ok {
			return value, nil
		}
	}
	settings, err := s.settingsRepo.Get(models.SettingBookingDurationHours)
	if err == repository.ErrNotFound {
		return DefaultBookingDurationHours, nil
	}
	if err != nil {
		return 0, err
	}
	if s.cache != nil {
		s.cache.SetFloat(models.SettingBookingDurationHours, settings.NumericValue)
	}
	return settings.NumericValue, nil
}

func (s *schedulerService) SetBookingDuration(hours float64) error {
	if hours < 0.5 || hours > 24 {
		return newValidationError("duration_hours", "duration must be between 0.5 and 24 hours")
	}
	if err := s.settingsRepo.Upsert(models.SettingBookingDurationHours, hours); err != nil {
		return err
	}
	if s.cache != nil {
		s.cache.Invalidate(models.SettingBookingDurationHours)
	}
	return nil
}
