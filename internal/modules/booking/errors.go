package booking

import "errors"

var (
	ErrValidation      = errors.New("validation error")
	ErrNotFound        = errors.New("booking or room not found")
	ErrConflict        = errors.New("room already booked for the requested dates")
	ErrCapacity        = errors.New("party exceeds room capacity")
	ErrForbidden       = errors.New("actor does not own this booking or hotel")
	ErrDuplicateAction = errors.New("booking already cancelled")
	ErrBadTransition   = errors.New("illegal booking status transition")
	ErrRoomBusy        = errors.New("room is being booked by another request")
)
