package appointment

import "errors"

var (
	ErrNotFound           = errors.New("appointment not found")
	ErrForbidden          = errors.New("forbidden")
	ErrValidation         = errors.New("validation failed")
	ErrPastDate           = errors.New("appointment date is in the past")
	ErrSlotUnavailable    = errors.New("slot is outside the doctor's availability")
	ErrSlotConflict       = errors.New("slot already booked")
	ErrInvalidTransition  = errors.New("invalid status transition")
	ErrCancelledImmutable = errors.New("cancelled appointment cannot change")
)
