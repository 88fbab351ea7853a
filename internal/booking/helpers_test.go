package booking

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

func hourCourt(id string) Court {
	return Court{
		ID:                  id,
		Name:                "Quadra " + id,
		SportTypes:          []string{"FUTEVOLEI", "BEACH_TENNIS"},
		ReservationDuration: time.Hour,
	}
}

// hourSlots builds consecutive one-hour slots starting at the given hour.
func hourSlots(courtID string, fromHour, count int, price string) []TimeSlot {
	slots := make([]TimeSlot, count)
	for i := 0; i < count; i++ {
		start := Clock((fromHour + i) * 60)
		slots[i] = TimeSlot{
			ID:      fmt.Sprintf("%s-%02d", courtID, fromHour+i),
			CourtID: courtID,
			Start:   start,
			End:     start.Add(time.Hour),
			Price:   decimal.RequireFromString(price),
			Status:  StatusAvailable,
		}
	}
	return slots
}

func selectAll(court Court, slots ...TimeSlot) Selection {
	var sel Selection
	for _, s := range slots {
		sel, _ = Toggle(sel, court, s)
	}
	return sel
}

func date(s string) time.Time {
	d, err := time.Parse(DateLayout, s)
	if err != nil {
		panic(err)
	}
	return d
}
