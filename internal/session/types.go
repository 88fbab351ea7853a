package session

import (
	"time"

	"github.com/mauv0809/arena-booking/internal/booking"
)

// LoadState tracks the availability fetch of one court.
type LoadState string

const (
	LoadIdle    LoadState = "IDLE"
	LoadLoading LoadState = "LOADING"
	LoadLoaded  LoadState = "LOADED"
	LoadError   LoadState = "ERROR"
)

// Availability is the fetch state of one court for the session's date.
type Availability struct {
	State LoadState `json:"state" msgpack:"state"`
	Error string    `json:"error,omitempty" msgpack:"error"`
}

// Session is one user's booking flow: a date, the courts being looked at,
// their slots and the current selection.
type Session struct {
	ID                string                        `json:"id" msgpack:"id"`
	UserID            string                        `json:"user_id" msgpack:"user_id"`
	Date              string                        `json:"date" msgpack:"date"`
	CourtIDs          []string                      `json:"court_ids" msgpack:"court_ids"`
	Courts            map[string]booking.Court      `json:"courts" msgpack:"courts"`
	Slots             map[string][]booking.TimeSlot `json:"-" msgpack:"slots"`
	Availability      map[string]Availability       `json:"availability" msgpack:"availability"`
	Selection         booking.Selection             `json:"selection" msgpack:"selection"`
	Options           booking.BookingOptions        `json:"options" msgpack:"options"`
	Submitting        bool                          `json:"submitting" msgpack:"submitting"`
	LastReservationID string                        `json:"last_reservation_id,omitempty" msgpack:"last_reservation_id"`
	CreatedAt         time.Time                     `json:"created_at" msgpack:"created_at"`
	UpdatedAt         time.Time                     `json:"updated_at" msgpack:"updated_at"`
}

// HasCourt reports whether courtID is one of the session's courts.
func (s *Session) HasCourt(courtID string) bool {
	for _, id := range s.CourtIDs {
		if id == courtID {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the session.
func (s *Session) Clone() *Session {
	cp := *s
	cp.CourtIDs = append([]string(nil), s.CourtIDs...)
	cp.Courts = make(map[string]booking.Court, len(s.Courts))
	for id, c := range s.Courts {
		cp.Courts[id] = c
	}
	cp.Slots = make(map[string][]booking.TimeSlot, len(s.Slots))
	for id, slots := range s.Slots {
		cp.Slots[id] = append([]booking.TimeSlot(nil), slots...)
	}
	cp.Availability = make(map[string]Availability, len(s.Availability))
	for id, a := range s.Availability {
		cp.Availability[id] = a
	}
	cp.Selection.Slots = append([]booking.TimeSlot(nil), s.Selection.Slots...)
	return &cp
}

func (s *Session) ensureMaps() {
	if s.Courts == nil {
		s.Courts = make(map[string]booking.Court)
	}
	if s.Slots == nil {
		s.Slots = make(map[string][]booking.TimeSlot)
	}
	if s.Availability == nil {
		s.Availability = make(map[string]Availability)
	}
}

// clearSelection drops the selection. Switching date or courts always does this.
func (s *Session) clearSelection() {
	s.Selection = booking.Selection{}
}

// CourtAvailability is the slot grid of one court, grouped by period and
// classified against the session's selection.
type CourtAvailability struct {
	CourtID string                     `json:"court_id"`
	Date    string                     `json:"date"`
	State   LoadState                  `json:"state"`
	Error   string                     `json:"error,omitempty"`
	Buckets []booking.ClassifiedBucket `json:"buckets"`
}

// ToggleResult reports what a tap did to the selection.
type ToggleResult struct {
	Transition booking.Transition `json:"transition"`
	Selection  booking.Selection  `json:"selection"`
	Price      string             `json:"price"`
}
