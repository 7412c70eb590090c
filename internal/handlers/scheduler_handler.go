package handlers

import (
	"strconv"
	"time"

	"movers_crm/internal/models"
	"movers_crm/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/jinzhu/now"
)

type SchedulerHandler struct {
	schedulerService services.SchedulerService
}

func NewSchedulerHandler(schedulerService services.SchedulerService) *SchedulerHandler {
	return &SchedulerHandler{schedulerService: schedulerService}
}

// Trucks

type truckRequest struct {
	Name         string `json:"name" binding:"required"`
	Registration string `json:"registration"`
	Capacity     string `json:"capacity"`
}

func (h *SchedulerHandler) CreateTruck(c *gin.Context) {
	var req truckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request format")
		return
	}
	truck := &models.Truck{
		Name:         req.Name,
		Registration: req.Registration,
		Capacity:     req.Capacity,
	}
	if err := h.schedulerService.CreateTruck(truck); err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, truck)
}

func (h *SchedulerHandler) ListTrucks(c *gin.Context) {
	includeInactive := c.Query("include_inactive") == "true"
	trucks, err := h.schedulerService.ListTrucks(includeInactive)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, trucks)
}

func (h *SchedulerHandler) UpdateTruck(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var patch models.TruckPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		respondBadRequest(c, "Invalid request format")
		return
	}
	truck, err := h.schedulerService.UpdateTruck(id, patch)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, truck)
}

// DeactivateTruck is the DELETE route for trucks. It only flips the
// status so booking and enquiry history keeps its references.
func (h *SchedulerHandler) DeactivateTruck(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.schedulerService.DeactivateTruck(id); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, gin.H{"id": id, "status": models.TruckInactive})
}

// Bookings

// bookingRequest's end_time is tri-state: absent → follow the default
// duration, "" → clear, a value → explicit (and sticky thereafter).
type bookingRequest struct {
	TruckID   uint    `json:"truck_id" binding:"required"`
	EnquiryID *uint   `json:"enquiry_id"`
	Date      string  `json:"date" binding:"required"`
	StartTime string  `json:"start_time"`
	EndTime   *string `json:"end_time"`
	Notes     string  `json:"notes"`
}

func (r *bookingRequest) toInput() services.BookingInput {
	input := services.BookingInput{
		TruckID:   r.TruckID,
		EnquiryID: r.EnquiryID,
		Date:      r.Date,
		StartTime: r.StartTime,
		Notes:     r.Notes,
	}
	switch {
	case r.EndTime == nil:
		input.End = services.EndTimeChoice{Mode: services.EndTimeUseDefault}
	case *r.EndTime == "":
		input.End = services.EndTimeChoice{Mode: services.EndTimeUnset}
	default:
		input.End = services.EndTimeChoice{Mode: services.EndTimeExplicit, Value: *r.EndTime}
	}
	return input
}

func (h *SchedulerHandler) CreateBooking(c *gin.Context) {
	var req bookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request format")
		return
	}
	booking, err := h.schedulerService.CreateBooking(req.toInput())
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, booking)
}

func (h *SchedulerHandler) UpdateBooking(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req bookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request format")
		return
	}
	booking, err := h.schedulerService.UpdateBooking(id, req.toInput())
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, booking)
}

func (h *SchedulerHandler) DeleteBooking(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.schedulerService.DeleteBooking(id); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, gin.H{"id": id})
}

func (h *SchedulerHandler) ListBookings(c *gin.Context) {
	from, ok := parseDateQuery(c, "from")
	if !ok {
		return
	}
	to, ok := parseDateQuery(c, "to")
	if !ok {
		return
	}

	var truckID *uint
	if raw := c.Query("truck_id"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			respondBadRequest(c, "Invalid truck_id")
			return
		}
		id := uint(parsed)
		truckID = &id
	}

	bookings, err := h.schedulerService.ListBookings(from, to, truckID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, bookings)
}

// GetCalendar returns the (date, truck) booking grid. Defaults to the
// current month when no range is given.
func (h *SchedulerHandler) GetCalendar(c *gin.Context) {
	from, ok := parseDateQuery(c, "from")
	if !ok {
		return
	}
	to, ok := parseDateQuery(c, "to")
	if !ok {
		return
	}
	if from == nil {
		start := now.BeginningOfMonth()
		from = &start
	}
	if to == nil {
		end := now.EndOfMonth()
		to = &end
	}

	days, err := h.schedulerService.GetCalendar(*from, *to)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, days)
}

// Schedule settings

func (h *SchedulerHandler) GetBookingDuration(c *gin.Context) {
	hours, err := h.schedulerService.GetBookingDuration()
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, gin.H{"duration_hours": hours})
}

type durationRequest struct {
	DurationHours float64 `json:"duration_hours" binding:"required"`
}

func (h *SchedulerHandler) SetBookingDuration(c *gin.Context) {
	var req durationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request format")
		return
	}
	if err := h.schedulerService.SetBookingDuration(req.DurationHours); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, gin.H{"duration_hours": req.DurationHours})
}

func parseDateQuery(c *gin.Context, param string) (*time.Time, bool) {
	raw := c.Query(param)
	if raw == "" {
		return nil, true
	}
	parsed, err := time.Parse("2006-01-02", raw)
	if err != nil {
		respondBadRequest(c, "Invalid "+param+" date, expected YYYY-MM-DD")
		return nil, false
	}
	return &parsed, true
}
