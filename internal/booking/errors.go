package booking

import "errors"

var (
	// ErrEmptySelection is returned when a summary or reservation is requested without any selected slot.
	ErrEmptySelection = errors.New("no slot selected")
	// ErrInvalidSlot is returned when fetched slots break the per-court invariants.
	ErrInvalidSlot = errors.New("invalid time slot")
	// ErrInvalidCourt is returned for courts without a usable configuration.
	ErrInvalidCourt = errors.New("invalid court")
	// ErrUnsupportedSport is returned when the requested sport is not played on the court.
	ErrUnsupportedSport = errors.New("sport not supported by court")
	// ErrInvalidNeededPlayers is returned for public games that do not ask for at least one player.
	ErrInvalidNeededPlayers = errors.New("public game needs at least one missing player")
	// ErrInvalidRecurrence is returned for unknown recurrence periods.
	ErrInvalidRecurrence = errors.New("invalid recurrence period")
)
