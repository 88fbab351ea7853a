package booking

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// AvailabilityStatus is the status of a slot as reported by the arena.
type AvailabilityStatus string

const (
	StatusAvailable   AvailabilityStatus = "AVAILABLE"
	StatusUnavailable AvailabilityStatus = "UNAVAILABLE"
	StatusMaintenance AvailabilityStatus = "MAINTENANCE"
)

// SlotState is the render state of a slot relative to the current selection.
type SlotState string

const (
	StateNormal   SlotState = "NORMAL"
	StateSelected SlotState = "SELECTED"
	StateDisabled SlotState = "DISABLED"
)

// Period is a time-of-day bucket used to group slots for display.
type Period string

const (
	PeriodMorning   Period = "MORNING"
	PeriodAfternoon Period = "AFTERNOON"
	PeriodEvening   Period = "EVENING"
)

// Clock is a time of day expressed in minutes since midnight.
type Clock int

const (
	noon     Clock = 12 * 60
	evening  Clock = 18 * 60
	midnight Clock = 24 * 60
)

// ParseClock parses an "HH:MM" (or "HH:MM:SS") string. Every field is one or
// two unsigned digits; seconds must be in range and are dropped.
func ParseClock(s string) (Clock, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, fmt.Errorf("invalid time of day %q", s)
	}
	h, ok := clockField(parts[0], 24)
	if !ok {
		return 0, fmt.Errorf("invalid hour in %q", s)
	}
	m, ok := clockField(parts[1], 59)
	if !ok {
		return 0, fmt.Errorf("invalid minute in %q", s)
	}
	sec := 0
	if len(parts) == 3 {
		if sec, ok = clockField(parts[2], 59); !ok {
			return 0, fmt.Errorf("invalid second in %q", s)
		}
	}
	c := Clock(h*60 + m)
	if c > midnight || (c == midnight && sec > 0) {
		return 0, fmt.Errorf("time of day %q is past midnight", s)
	}
	return c, nil
}

func clockField(f string, limit int) (int, bool) {
	if len(f) == 0 || len(f) > 2 {
		return 0, false
	}
	n := 0
	for _, r := range f {
		if r < '0' || r > '9' {
			return 0, false
		}
		n = n*10 + int(r-'0')
	}
	return n, n <= limit
}

// MustParseClock is like ParseClock but panics on error. Intended for tests and constants.
func MustParseClock(s string) Clock {
	c, err := ParseClock(s)
	if err != nil {
		panic(err)
	}
	return c
}

func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", int(c)/60, int(c)%60)
}

// Add shifts the clock by d, truncated to whole minutes.
func (c Clock) Add(d time.Duration) Clock {
	return c + Clock(d/time.Minute)
}

// Period returns the display bucket the clock falls in.
func (c Clock) Period() Period {
	switch {
	case c < noon:
		return PeriodMorning
	case c < evening:
		return PeriodAfternoon
	default:
		return PeriodEvening
	}
}

// MarshalText encodes the clock as "HH:MM".
func (c Clock) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText decodes an "HH:MM" clock.
func (c *Clock) UnmarshalText(b []byte) error {
	parsed, err := ParseClock(string(b))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// TimeSlot is one bookable interval of a court on a date.
type TimeSlot struct {
	ID      string             `json:"id" msgpack:"id"`
	CourtID string             `json:"court_id" msgpack:"court_id"`
	Start   Clock              `json:"start_time" msgpack:"start"`
	End     Clock              `json:"end_time" msgpack:"end"`
	Price   decimal.Decimal    `json:"price" msgpack:"price"`
	Status  AvailabilityStatus `json:"status" msgpack:"status"`
}

// Duration is the length of the slot.
func (s TimeSlot) Duration() time.Duration {
	return time.Duration(s.End-s.Start) * time.Minute
}

// Available reports whether the slot may be added to a selection.
func (s TimeSlot) Available() bool {
	return s.Status == StatusAvailable
}

// Court is a bookable physical court (quadra).
type Court struct {
	ID                  string        `json:"id" msgpack:"id"`
	Name                string        `json:"name" msgpack:"name"`
	SportTypes          []string      `json:"sport_types" msgpack:"sport_types"`
	ReservationDuration time.Duration `json:"reservation_duration" msgpack:"reservation_duration"`
	SuppliedMaterials   []string      `json:"supplied_materials" msgpack:"supplied_materials"`
}

// SupportedDurations lists the slot lengths a court may be configured with.
var SupportedDurations = []time.Duration{
	30 * time.Minute,
	time.Hour,
	90 * time.Minute,
	2 * time.Hour,
}

// Validate checks the court's fixed slot length.
func (c Court) Validate() error {
	if c.ID == "" {
		return fmt.Errorf("%w: missing id", ErrInvalidCourt)
	}
	for _, d := range SupportedDurations {
		if c.ReservationDuration == d {
			return nil
		}
	}
	return fmt.Errorf("%w: court %s has unsupported reservation duration %s", ErrInvalidCourt, c.ID, c.ReservationDuration)
}

// Supports reports whether the court can host the given sport.
func (c Court) Supports(sport string) bool {
	for _, s := range c.SportTypes {
		if strings.EqualFold(s, sport) {
			return true
		}
	}
	return false
}
