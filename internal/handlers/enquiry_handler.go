package handlers

import (
	"context"
	"strconv"

	"movers_crm/internal/models"
	"movers_crm/internal/services"

	"github.com/gin-gonic/gin"
)

type EnquiryHandler struct {
	enquiryService services.EnquiryService
	archiveService services.ArchiveService
}

func NewEnquiryHandler(enquiryService services.EnquiryService, archiveService services.ArchiveService) *EnquiryHandler {
	return &EnquiryHandler{
		enquiryService: enquiryService,
		archiveService: archiveService,
	}
}

// CreateEnquiry handles the public contact form.
func (h *EnquiryHandler) CreateEnquiry(c *gin.Context) {
	var input services.EnquiryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBadRequest(c, "Invalid request format")
		return
	}

	enquiry, err := h.enquiryService.CreateEnquiry(input)
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, enquiry)
}

// ListEnquiries returns enquiries filtered and sorted. Viewing the
// active pipeline triggers the throttled auto-archive sweep first.
func (h *EnquiryHandler) ListEnquiries(c *gin.Context) {
	statusFilter := c.Query("status")
	if statusFilter == "" || statusFilter == "active" {
		// Sweep failures are logged inside the service; the list still renders.
		h.archiveService.SweepIfDue(context.Background())
	}

	enquiries, err := h.enquiryService.ListEnquiries(statusFilter, c.Query("orderby"), c.Query("order"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, enquiries)
}

// StatusCounts returns the per-status pipeline buckets.
func (h *EnquiryHandler) StatusCounts(c *gin.Context) {
	counts, err := h.enquiryService.CountByStatus()
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, counts)
}

func (h *EnquiryHandler) GetEnquiry(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	enquiry, err := h.enquiryService.GetEnquiry(id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, enquiry)
}

func (h *EnquiryHandler) UpdateEnquiry(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var patch models.EnquiryPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		respondBadRequest(c, "Invalid request format")
		return
	}
	enquiry, err := h.enquiryService.UpdateEnquiry(id, patch)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, enquiry)
}

type changeStatusRequest struct {
	Status    string `json:"status" binding:"required"`
	OldStatus string `json:"old_status"`
}

func (h *EnquiryHandler) ChangeStatus(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req changeStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request format")
		return
	}
	note, err := h.enquiryService.ChangeStatus(id, req.Status, req.OldStatus)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, gin.H{"status": req.Status, "note": note})
}

type adminNotesRequest struct {
	AdminNotes string `json:"admin_notes"`
}

func (h *EnquiryHandler) UpdateAdminNotes(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req adminNotesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request format")
		return
	}
	if err := h.enquiryService.UpdateAdminNotes(id, req.AdminNotes); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, gin.H{"id": id})
}

type assignTruckRequest struct {
	TruckID *uint `json:"truck_id"`
}

func (h *EnquiryHandler) AssignTruck(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req assignTruckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request format")
		return
	}
	if err := h.enquiryService.AssignTruck(id, req.TruckID); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, gin.H{"id": id, "truck_id": req.TruckID})
}

type addNoteRequest struct {
	Text string `json:"text" binding:"required"`
}

func (h *EnquiryHandler) AddNote(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req addNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request format")
		return
	}
	note, err := h.enquiryService.AddNote(id, req.Text)
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, note)
}

func (h *EnquiryHandler) ListNotes(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	notes, err := h.enquiryService.GetNotes(id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, notes)
}

func (h *EnquiryHandler) DeleteNote(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.enquiryService.DeleteNote(id); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, gin.H{"id": id})
}

func parseID(c *gin.Context, param string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(param), 10, 32)
	if err != nil {
		respondBadRequest(c, "Invalid id")
		return 0, false
	}
	return uint(id), true
}
