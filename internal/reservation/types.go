package reservation

import (
	"database/sql"
	"errors"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mauv0809/arena-booking/internal/booking"
)

// ErrNotFound is returned when no reservation has the requested id.
var ErrNotFound = errors.New("reservation not found")

// Status tracks a stored reservation through submission and notification.
type Status string

const (
	StatusSubmitted Status = "SUBMITTED"
	StatusNotified  Status = "NOTIFIED"
	StatusFailed    Status = "NOTIFY_FAILED"
)

// Reservation is a reservation request the arena accepted, as persisted locally.
type Reservation struct {
	ID               string                   `json:"id" msgpack:"id"`
	ExternalID       string                   `json:"external_id" msgpack:"external_id"`
	UserID           string                   `json:"user_id" msgpack:"user_id"`
	CourtID          string                   `json:"court_id" msgpack:"court_id"`
	CourtName        string                   `json:"court_name" msgpack:"court_name"`
	Date             string                   `json:"date" msgpack:"date"`
	Start            booking.Clock            `json:"start_time" msgpack:"start_time"`
	End              booking.Clock            `json:"end_time" msgpack:"end_time"`
	SlotIDs          []string                 `json:"slot_ids" msgpack:"slot_ids"`
	Sport            string                   `json:"sport" msgpack:"sport"`
	IsRecurring      bool                     `json:"is_recurring" msgpack:"is_recurring"`
	RecurrencePeriod booking.RecurrencePeriod `json:"recurrence_period,omitempty" msgpack:"recurrence_period"`
	IsPublic         bool                     `json:"is_public" msgpack:"is_public"`
	NeededPlayers    int                      `json:"needed_players,omitempty" msgpack:"needed_players"`
	Occurrences      int                      `json:"occurrences" msgpack:"occurrences"`
	BasePrice        decimal.Decimal          `json:"base_price" msgpack:"base_price"`
	TotalPrice       decimal.Decimal          `json:"total_price" msgpack:"total_price"`
	Status           Status                   `json:"status" msgpack:"status"`
	CreatedAt        int64                    `json:"created_at" msgpack:"created_at"`
	NotifiedAt       *int64                   `json:"notified_at,omitempty" msgpack:"notified_at"`
}

// New assembles the reservation record for an accepted request.
func New(id, externalID, userID string, court booking.Court, req booking.ReservationRequest, summary booking.Summary, now time.Time) *Reservation {
	r := &Reservation{
		ID:          id,
		ExternalID:  externalID,
		UserID:      userID,
		CourtID:     req.CourtID,
		CourtName:   court.Name,
		Date:        req.Date,
		Start:       summary.FirstSlotStart,
		End:         summary.LastSlotEnd,
		SlotIDs:     req.SlotIDs,
		Sport:       req.Sport,
		IsRecurring: req.IsRecurring,
		IsPublic:    req.IsPublic,
		Occurrences: summary.Occurrences,
		BasePrice:   summary.BaseSessionPrice,
		TotalPrice:  summary.TotalPrice,
		Status:      StatusSubmitted,
		CreatedAt:   now.Unix(),
	}
	if req.RecurrencePeriod != nil {
		r.RecurrencePeriod = *req.RecurrencePeriod
	}
	if req.NeededPlayers != nil {
		r.NeededPlayers = *req.NeededPlayers
	}
	return r
}

// Policy returns the recurrence policy the reservation was booked with.
func (r *Reservation) Policy() booking.RecurrencePolicy {
	if !r.IsRecurring {
		return booking.OneOff
	}
	return booking.Weekly(r.RecurrencePeriod)
}

// OccurrenceDates lists every date the reservation takes place on, in loc.
func (r *Reservation) OccurrenceDates(loc *time.Location) ([]time.Time, error) {
	anchor, err := time.ParseInLocation(booking.DateLayout, r.Date, loc)
	if err != nil {
		return nil, err
	}
	return booking.Occurrences(anchor, r.Policy()), nil
}

// store persists reservations in the application database.
type store struct {
	db *sql.DB
	mu sync.RWMutex
}
