package counseling

import "errors"

var (
	ErrNotFound              = errors.New("counseling not found")
	ErrPaymentFinal          = errors.New("payment status is final and can no longer be changed")
	ErrApproveFailedSession  = errors.New("cannot approve payment for a failed session")
	ErrRejectionNoteRequired = errors.New("a rejection note is required")
	ErrInvalidPaymentStatus  = errors.New("invalid payment status")
)
