package booking

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOccurrences_OneMonthFromMidJanuary(t *testing.T) {
	anchor := date("2024-01-15")

	dates := Occurrences(anchor, Weekly(PeriodOneMonth))
	var got []string
	for _, d := range dates {
		got = append(got, d.Format(DateLayout))
	}
	assert.Equal(t, []string{"2024-01-15", "2024-01-22", "2024-01-29", "2024-02-05", "2024-02-12"}, got)
	assert.Equal(t, "2024-02-15", LimitDate(anchor, Weekly(PeriodOneMonth)).Format(DateLayout))
}

func TestOccurrences_LimitDayIsIncluded(t *testing.T) {
	// 2024-02-01 + 1 month = 2024-03-01; 02-29 is the last weekly cursor before it.
	dates := Occurrences(date("2024-02-01"), Weekly(PeriodOneMonth))
	assert.Len(t, dates, 5)

	// 2023-02-01 + 1 month = 2023-03-01, and 2023-03-01 is exactly 4 weeks later.
	dates = Occurrences(date("2023-02-01"), Weekly(PeriodOneMonth))
	assert.Len(t, dates, 5)
	assert.Equal(t, "2023-03-01", dates[4].Format(DateLayout))
}

func TestOccurrences_OneOff(t *testing.T) {
	dates := Occurrences(date("2024-01-15"), OneOff)
	assert.Len(t, dates, 1)
}

func TestCompute(t *testing.T) {
	court := hourCourt("A")
	sel := selectAll(court, hourSlots("A", 19, 2, "75.50")...)
	anchor := date("2024-01-15")

	one := Compute(sel, OneOff, anchor)
	assert.Equal(t, 1, one.Occurrences)
	assert.True(t, decimal.RequireFromString("151").Equal(one.Total), one.Total.String())

	monthly := Compute(sel, Weekly(PeriodOneMonth), anchor)
	assert.Equal(t, 5, monthly.Occurrences)
	assert.True(t, decimal.RequireFromString("755").Equal(monthly.Total), monthly.Total.String())
}

func TestCompute_OccurrencesGrowWithPeriod(t *testing.T) {
	court := hourCourt("A")
	sel := selectAll(court, hourSlots("A", 8, 1, "33.33")...)

	for _, anchor := range []string{"2024-01-15", "2024-01-31", "2024-02-29", "2024-08-30", "2024-12-31"} {
		prev := 0
		for _, p := range RecurrencePeriods {
			q := Compute(sel, Weekly(p), date(anchor))
			assert.GreaterOrEqual(t, q.Occurrences, prev, "anchor %s period %s", anchor, p)
			assert.GreaterOrEqual(t, q.Occurrences, 1)
			prev = q.Occurrences
		}
	}
}

func TestCompute_TotalIsBaseTimesOccurrences(t *testing.T) {
	court := hourCourt("A")
	sel := selectAll(court, hourSlots("A", 8, 3, "0.10")...)
	base := BaseSessionPrice(sel)
	require.True(t, decimal.RequireFromString("0.3").Equal(base), base.String())

	for _, p := range RecurrencePeriods {
		q := Compute(sel, Weekly(p), date("2024-03-10"))
		assert.True(t, base.Mul(decimal.NewFromInt(int64(q.Occurrences))).Equal(q.Total), "period %s", p)
	}
}

func TestRecurrencePeriod_Validate(t *testing.T) {
	assert.NoError(t, PeriodSixMonths.Validate())
	assert.ErrorIs(t, RecurrencePeriod("TWO_YEARS").Validate(), ErrInvalidRecurrence)
}
