package validators

import (
	"marketChat/internal/errs"
	"marketChat/internal/models"
	"strings"
)

// ValidateSendMessage rejects a send before anything is written. Resolver
// checks (does the receiver exist) happen in the service; this is pure shape
// validation.
func ValidateSendMessage(req *models.SendMessageRequestBody, senderID uint) []error {
	var errors []error
	if req == nil {
		errors = append(errors, errs.ErrInvalidRequestBody)
		return errors
	}

	if strings.TrimSpace(req.Content) == "" {
		errors = append(errors, errs.ErrEmptyContent)
	}

	if req.ReceiverID == 0 {
		errors = append(errors, errs.ErrInvalidParams)
	} else if req.ReceiverID == senderID {
		errors = append(errors, errs.ErrSelfMessaging)
	}

	return errors
}
