package handlers

import (
	"movers_crm/internal/services"

	"github.com/gin-gonic/gin"
)

type EmailHandler struct {
	emailService services.EmailService
}

func NewEmailHandler(emailService services.EmailService) *EmailHandler {
	return &EmailHandler{emailService: emailService}
}

type sendEmailRequest struct {
	Subject   string               `json:"subject" binding:"required"`
	Message   string               `json:"message"`
	Items     []services.QuoteItem `json:"items"`
	EmailType string               `json:"email_type"`
}

// SendEmail sends a quote/invoice/receipt email to the enquiry's stored
// address. Each successful send appends a fresh note; the first-sent
// timestamp is only ever written once.
func (h *EmailHandler) SendEmail(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req sendEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request format")
		return
	}
	if err := h.emailService.SendEnquiryEmail(id, req.Subject, req.Message, req.Items, req.EmailType); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, gin.H{"id": id, "sent": true})
}

type quoteTotalsRequest struct {
	Items []services.QuoteItem `json:"items"`
}

// QuoteTotals is the pure preview endpoint; it runs the same calculator
// the email body uses.
func (h *EmailHandler) QuoteTotals(c *gin.Context) {
	var req quoteTotalsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request format")
		return
	}
	respondOK(c, gin.H{
		"lines":  services.ComputeQuoteLines(req.Items),
		"totals": services.ComputeQuoteTotals(req.Items),
	})
}
