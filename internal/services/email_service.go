package services

import (
	"fmt"
	"html"
	"log"
	"strings"
	"time"

	"movers_crm/internal/models"
	"movers_crm/internal/repository"
	"movers_crm/pkg/mailer"
)

// Email type tags accepted by the dispatch facade.
const (
	EmailTypeQuote   = "send_quote"
	EmailTypeInvoice = "send_invoice"
	EmailTypeReceipt = "send_receipt"
)

type EmailService interface {
	// SendEnquiryEmail builds and sends a transactional email to the
	// enquiry's stored address. On success it marks the enquiry emailed,
	// stamps first_email_sent_at exactly once and appends an audit note.
	// On failure nothing is mutated.
	SendEnquiryEmail(enquiryID uint, subject, message string, items []QuoteItem, emailType string) error
}

type emailService struct {
	enquiryRepo repository.EnquiryRepository
	noteRepo    repository.NoteRepository
	sender      mailer.Sender

	// Now is the injected clock, replaceable in tests.
	Now func() time.Time
}

func NewEmailService(enquiryRepo repository.EnquiryRepository, noteRepo repository.NoteRepository, sender mailer.Sender) EmailService {
	return &emailService{
		enquiryRepo: enquiryRepo,
		noteRepo:    noteRepo,
		sender:      sender,
		Now:         time.Now,
	}
}

func (s *emailService) SendEnquiryEmail(enquiryID uint, subject, message string, items []QuoteItem, emailType string) error {
	subject = strings.TrimSpace(subject)
	if subject == "" {
		return newValidationError("subject", "subject is required")
	}

	enquiry, err := s.enquiryRepo.GetByID(enquiryID)
	if err != nil {
		return err
	}
	if enquiry.Email == "" {
		return newValidationError("email", "enquiry has no email address")
	}

	body := buildEmailHTML(enquiry, message, items, emailType)
	if err := s.sender.Send(enquiry.Email, subject, body); err != nil {
		return &MailError{Err: err}
	}

	enquiry.EmailSent = true
	if enquiry.FirstEmailSentAt == nil {
		sentAt := s.Now()
		enquiry.FirstEmailSentAt = &sentAt
	}
	if err := s.enquiryRepo.Update(enquiry); err != nil {
		return err
	}

	note := &models.Note{
		EnquiryID: enquiryID,
		Text:      fmt.Sprintf("%s sent to %s", emailTypeLabel(emailType), enquiry.Email),
	}
	if err := s.noteRepo.Create(note); err != nil {
		log.Printf("Warning: email sent for enquiry %d but audit note failed: %v", enquiryID, err)
	}
	return nil
}

func emailTypeLabel(emailType string) string {
	switch emailType {
	case EmailTypeQuote:
		return "Quote"
	case EmailTypeInvoice:
		return "Invoice"
	case EmailTypeReceipt:
		return "Receipt"
	default:
		return "Email"
	}
}

// buildEmailHTML assembles the transactional document: the staff
// message, an optional quote/invoice/receipt table and the enquiry's
// contact and job details. The quote table uses the same calculator as
// the on-screen preview so the sent artifact never drifts from it.
func buildEmailHTML(enquiry *models.Enquiry, message string, items []QuoteItem, emailType string) string {
	var b strings.Builder

	b.WriteString(`<!DOCTYPE html><html><body style="font-family: Arial, sans-serif; color: #333;">`)
	b.WriteString(`<div style="max-width: 600px; margin: 0 auto;">`)

	if message != "" {
		b.WriteString(`<div style="margin-bottom: 24px; white-space: pre-line;">`)
		b.WriteString(htmlEscape(message))
		b.WriteString(`</div>`)
	}

	lines := ComputeQuoteLines(items)
	if len(lines) > 0 {
		totals := ComputeQuoteTotals(items)
		b.WriteString(fmt.Sprintf(`<h3 style="margin-bottom: 8px;">%s</h3>`, htmlEscape(emailTypeLabel(emailType))))
		b.WriteString(`<table style="width: 100%; border-collapse: collapse;" cellpadding="8">`)
		b.WriteString(`<tr style="background: #f2f2f2;"><th align="left">Description</th><th align="right">Cost</th><th align="right">GST</th><th align="right">Total</th></tr>`)
		for _, line := range lines {
			b.WriteString(fmt.Sprintf(
				`<tr><td>%s</td><td align="right">$%.2f</td><td align="right">$%.2f</td><td align="right">$%.2f</td></tr>`,
				htmlEscape(line.Description), line.Cost, line.GST, line.LineTotal,
			))
		}
		b.WriteString(fmt.Sprintf(
			`<tr><td colspan="3" align="right"><strong>Subtotal</strong></td><td align="right">$%.2f</td></tr>`, totals.Subtotal))
		b.WriteString(fmt.Sprintf(
			`<tr><td colspan="3" align="right"><strong>GST (15%%)</strong></td><td align="right">$%.2f</td></tr>`, totals.TotalGST))
		b.WriteString(fmt.Sprintf(
			`<tr><td colspan="3" align="right"><strong>Total</strong></td><td align="right"><strong>$%.2f</strong></td></tr>`, totals.GrandTotal))
		b.WriteString(`</table>`)
	}

	b.WriteString(`<hr style="margin: 24px 0; border: none; border-top: 1px solid #ddd;">`)
	b.WriteString(`<h4 style="margin-bottom: 8px;">Your Details</h4><table cellpadding="4">`)
	writeDetailRow(&b, "Name", enquiry.FullName)
	writeDetailRow(&b, "Email", enquiry.Email)
	writeDetailRow(&b, "Phone", enquiry.Phone)
	writeDetailRow(&b, "Address", enquiry.Address)
	writeDetailRow(&b, "Job type", enquiry.JobType)
	if enquiry.MoveDate != nil {
		writeDetailRow(&b, "Move date", enquiry.MoveDate.Format("2 January 2006"))
	}
	if enquiry.MoveTime != nil {
		writeDetailRow(&b, "Move time", *enquiry.MoveTime)
	}
	b.WriteString(`</table></div></body></html>`)

	return b.String()
}

func writeDetailRow(b *strings.Builder, label, value string) {
	if value == "" {
		return
	}
	fmt.Fprintf(b, `<tr><td><strong>%s</strong></td><td>%s</td></tr>`, label, htmlEscape(value))
}

func htmlEscape(s string) string {
	return html.EscapeString(s)
}
