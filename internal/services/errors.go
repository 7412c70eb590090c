package services

import (
	"errors"
	"fmt"

	"movers_crm/internal/repository"
)

// ErrNotFound is re-exported so callers don't import the repository
// package just to classify errors.
var ErrNotFound = repository.ErrNotFound

// ValidationError rejects bad input before any write. The message is
// safe to show to the caller.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return e.Message
}

func newValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// IsValidationError reports whether err is a ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// MailError marks a failed outbound send so callers can tell "saved but
// not emailed" apart from "not saved".
type MailError struct {
	Err error
}

func (e *MailError) Error() string {
	return fmt.Sprintf("mail send failed: %v", e.Err)
}

func (e *MailError) Unwrap() error {
	return e.Err
}

// IsMailError reports whether err is a MailError.
func IsMailError(err error) bool {
	var me *MailError
	return errors.As(err, &me)
}
