package session

import "errors"

var (
	ErrSessionNotFound        = errors.New("session not found")
	ErrSessionExists          = errors.New("session already exists")
	ErrCourtNotInSession      = errors.New("court is not part of the session")
	ErrSlotNotFound           = errors.New("slot not found")
	ErrAvailabilityNotLoaded  = errors.New("availability is not loaded")
	ErrSubmissionInProgress   = errors.New("a reservation is already being submitted")
	ErrInvalidDate            = errors.New("invalid date")
	ErrNoCourts               = errors.New("at least one court is required")
	ErrConcurrentModification = errors.New("session was modified concurrently")
)
