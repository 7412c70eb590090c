package handlers

import (
	"movers_crm/internal/services"

	"github.com/gin-gonic/gin"
)

// WebhookHandler accepts enquiry submissions pushed by an external
// form-submission service. Field mapping is the sender's concern; the
// payload arrives already shaped like an enquiry.
type WebhookHandler struct {
	enquiryService services.EnquiryService
}

func NewWebhookHandler(enquiryService services.EnquiryService) *WebhookHandler {
	return &WebhookHandler{enquiryService: enquiryService}
}

type formWebhookRequest struct {
	FormName string                `json:"form_name"`
	EntryID  string                `json:"entry_id"`
	FormID   string                `json:"form_id"`
	Fields   services.EnquiryInput `json:"fields"`
}

func (h *WebhookHandler) HandleFormSubmission(c *gin.Context) {
	var req formWebhookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request format")
		return
	}

	input := req.Fields
	input.SourceFormName = req.FormName
	input.ExternalEntryID = req.EntryID
	input.ExternalFormID = req.FormID
	if input.ContactSource == "" {
		input.ContactSource = "form"
	}

	enquiry, err := h.enquiryService.CreateEnquiry(input)
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, enquiry)
}
