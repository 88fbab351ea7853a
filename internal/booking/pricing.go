package booking

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// RecurrencePeriod is how long a weekly (fixo) reservation repeats.
type RecurrencePeriod string

const (
	PeriodOneMonth    RecurrencePeriod = "ONE_MONTH"
	PeriodThreeMonths RecurrencePeriod = "THREE_MONTHS"
	PeriodSixMonths   RecurrencePeriod = "SIX_MONTHS"
)

// RecurrencePeriods lists the periods in increasing length.
var RecurrencePeriods = []RecurrencePeriod{PeriodOneMonth, PeriodThreeMonths, PeriodSixMonths}

// Months is the number of calendar months the period spans.
func (p RecurrencePeriod) Months() int {
	switch p {
	case PeriodOneMonth:
		return 1
	case PeriodThreeMonths:
		return 3
	case PeriodSixMonths:
		return 6
	default:
		return 0
	}
}

// Validate rejects unknown periods.
func (p RecurrencePeriod) Validate() error {
	if p.Months() == 0 {
		return fmt.Errorf("%w: %q", ErrInvalidRecurrence, string(p))
	}
	return nil
}

// RecurrencePolicy says whether a reservation repeats weekly and for how long.
type RecurrencePolicy struct {
	Recurring bool             `json:"recurring" msgpack:"recurring"`
	Period    RecurrencePeriod `json:"period,omitempty" msgpack:"period"`
}

// OneOff is the policy of a single booking.
var OneOff = RecurrencePolicy{}

// Weekly returns a recurring policy for the given period.
func Weekly(p RecurrencePeriod) RecurrencePolicy {
	return RecurrencePolicy{Recurring: true, Period: p}
}

// Quote is the occurrence count and total price of a selection under a policy.
type Quote struct {
	Occurrences int             `json:"occurrences"`
	Total       decimal.Decimal `json:"total"`
}

// BaseSessionPrice is the sum of the prices of the selected slots.
func BaseSessionPrice(sel Selection) decimal.Decimal {
	return sel.Price()
}

// LimitDate is the last date a weekly occurrence may fall on.
// The anchor is returned for one-off policies.
func LimitDate(anchor time.Time, policy RecurrencePolicy) time.Time {
	if !policy.Recurring {
		return anchor
	}
	return anchor.AddDate(0, policy.Period.Months(), 0)
}

// Occurrences lists the dates the reservation takes place on: the anchor
// itself and then every 7 days while not after the limit date.
func Occurrences(anchor time.Time, policy RecurrencePolicy) []time.Time {
	dates := []time.Time{anchor}
	if !policy.Recurring {
		return dates
	}
	limit := LimitDate(anchor, policy)
	for cursor := anchor.AddDate(0, 0, 7); !cursor.After(limit); cursor = cursor.AddDate(0, 0, 7) {
		dates = append(dates, cursor)
	}
	return dates
}

// Compute returns the number of occurrences and the total price of the selection.
func Compute(sel Selection, policy RecurrencePolicy, anchor time.Time) Quote {
	n := len(Occurrences(anchor, policy))
	return Quote{
		Occurrences: n,
		Total:       BaseSessionPrice(sel).Mul(decimal.NewFromInt(int64(n))),
	}
}
