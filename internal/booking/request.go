package booking

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the ISO 8601 calendar date format used on the wire.
const DateLayout = "2006-01-02"

// BookingOptions holds the choices made next to the slot grid.
// Recurring (fixo) and public (jogo aberto) bookings are mutually exclusive.
type BookingOptions struct {
	Sport         string           `json:"sport,omitempty" msgpack:"sport"`
	Recurrence    RecurrencePolicy `json:"recurrence" msgpack:"recurrence"`
	Public        bool             `json:"public" msgpack:"public"`
	NeededPlayers int              `json:"needed_players,omitempty" msgpack:"needed_players"`
}

// SetRecurring turns the weekly recurrence on or off. Turning it on clears the public flag.
func (o *BookingOptions) SetRecurring(recurring bool, period RecurrencePeriod) {
	o.Recurrence.Recurring = recurring
	if !recurring {
		o.Recurrence.Period = ""
		return
	}
	if period == "" {
		period = PeriodOneMonth
	}
	o.Recurrence.Period = period
	o.Public = false
	o.NeededPlayers = 0
}

// SetPublic turns the open game flag on or off. Turning it on clears the recurrence.
func (o *BookingOptions) SetPublic(public bool, neededPlayers int) {
	o.Public = public
	if !public {
		o.NeededPlayers = 0
		return
	}
	o.NeededPlayers = neededPlayers
	o.Recurrence = OneOff
}

// Normalize enforces the exclusivity rule on options that were set as a whole.
// When both flags arrive set, recurrence wins.
func (o *BookingOptions) Normalize() {
	if o.Recurrence.Recurring {
		o.SetRecurring(true, o.Recurrence.Period)
		return
	}
	o.Recurrence.Period = ""
	if !o.Public {
		o.NeededPlayers = 0
	}
}

// ReservationRequest is the payload handed to the submission collaborator.
type ReservationRequest struct {
	CourtID          string            `json:"courtId" msgpack:"court_id"`
	Date             string            `json:"date" msgpack:"date"`
	SlotIDs          []string          `json:"slotIds" msgpack:"slot_ids"`
	Sport            string            `json:"sport" msgpack:"sport"`
	IsRecurring      bool              `json:"isRecurring" msgpack:"is_recurring"`
	RecurrencePeriod *RecurrencePeriod `json:"recurrencePeriod,omitempty" msgpack:"recurrence_period"`
	IsPublic         bool              `json:"isPublic" msgpack:"is_public"`
	NeededPlayers    *int              `json:"neededPlayers,omitempty" msgpack:"needed_players"`
}

// Policy returns the recurrence policy encoded in the request.
func (r ReservationRequest) Policy() RecurrencePolicy {
	if !r.IsRecurring || r.RecurrencePeriod == nil {
		return OneOff
	}
	return Weekly(*r.RecurrencePeriod)
}

// AnchorDate parses the request date.
func (r ReservationRequest) AnchorDate() (time.Time, error) {
	return time.Parse(DateLayout, r.Date)
}

// BuildRequest assembles the reservation request for the current selection.
// It refuses to build a request for an empty selection.
func BuildRequest(sel Selection, court Court, date time.Time, opts BookingOptions) (ReservationRequest, error) {
	if sel.IsEmpty() {
		return ReservationRequest{}, ErrEmptySelection
	}
	if sel.CourtID != court.ID {
		return ReservationRequest{}, fmt.Errorf("%w: selection belongs to court %s, not %s", ErrInvalidCourt, sel.CourtID, court.ID)
	}
	opts.Normalize()

	sport, err := resolveSport(court, opts.Sport)
	if err != nil {
		return ReservationRequest{}, err
	}

	req := ReservationRequest{
		CourtID: court.ID,
		Date:    date.Format(DateLayout),
		SlotIDs: sel.SlotIDs(),
		Sport:   sport,
	}
	if opts.Recurrence.Recurring {
		if err := opts.Recurrence.Period.Validate(); err != nil {
			return ReservationRequest{}, err
		}
		period := opts.Recurrence.Period
		req.IsRecurring = true
		req.RecurrencePeriod = &period
	}
	if opts.Public {
		if opts.NeededPlayers < 1 {
			return ReservationRequest{}, ErrInvalidNeededPlayers
		}
		needed := opts.NeededPlayers
		req.IsPublic = true
		req.NeededPlayers = &needed
	}
	return req, nil
}

func resolveSport(court Court, sport string) (string, error) {
	sport = strings.TrimSpace(sport)
	if sport == "" {
		if len(court.SportTypes) == 1 {
			return court.SportTypes[0], nil
		}
		return "", fmt.Errorf("%w: choose one of %s", ErrUnsupportedSport, strings.Join(court.SportTypes, ", "))
	}
	for _, s := range court.SportTypes {
		if strings.EqualFold(s, sport) {
			return s, nil
		}
	}
	return "", fmt.Errorf("%w: %s on court %s", ErrUnsupportedSport, sport, court.ID)
}

// Summary is the aggregate shown under the slot grid.
type Summary struct {
	Occurrences      int             `json:"occurrences"`
	BaseSessionPrice decimal.Decimal `json:"base_session_price"`
	TotalPrice       decimal.Decimal `json:"total_price"`
	FirstSlotStart   Clock           `json:"first_slot_start"`
	LastSlotEnd      Clock           `json:"last_slot_end"`
	LimitDate        string          `json:"limit_date,omitempty"`
}

// Summarize computes the display aggregate for the selection.
func Summarize(sel Selection, policy RecurrencePolicy, anchor time.Time) (Summary, error) {
	first, ok := sel.First()
	if !ok {
		return Summary{}, ErrEmptySelection
	}
	last, _ := sel.Last()
	quote := Compute(sel, policy, anchor)
	s := Summary{
		Occurrences:      quote.Occurrences,
		BaseSessionPrice: BaseSessionPrice(sel),
		TotalPrice:       quote.Total,
		FirstSlotStart:   first.Start,
		LastSlotEnd:      last.End,
	}
	if policy.Recurring {
		s.LimitDate = LimitDate(anchor, policy).Format(DateLayout)
	}
	return s, nil
}
