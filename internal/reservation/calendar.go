package reservation

import (
	"fmt"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"
)

// Calendar renders every occurrence of the reservation as an iCalendar
// document. Times are interpreted in loc, the arena's timezone.
func Calendar(r *Reservation, loc *time.Location) (string, error) {
	dates, err := r.OccurrenceDates(loc)
	if err != nil {
		return "", fmt.Errorf("invalid reservation date %q: %w", r.Date, err)
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//arena-booking//reservations//EN")
	cal.SetName(fmt.Sprintf("%s %s", courtLabel(r), r.Sport))

	stamp := time.Unix(r.CreatedAt, 0).UTC()
	for i, day := range dates {
		start := day.Add(time.Duration(r.Start) * time.Minute)
		end := day.Add(time.Duration(r.End) * time.Minute)

		event := cal.AddEvent(fmt.Sprintf("%s-%d@arena-booking", r.ID, i+1))
		event.SetDtStampTime(stamp)
		event.SetCreatedTime(stamp)
		event.SetStartAt(start)
		event.SetEndAt(end)
		event.SetSummary(fmt.Sprintf("%s - %s", r.Sport, courtLabel(r)))
		event.SetLocation(courtLabel(r))
		event.SetDescription(description(r, i+1, len(dates)))
	}
	return cal.Serialize(), nil
}

func courtLabel(r *Reservation) string {
	if r.CourtName != "" {
		return r.CourtName
	}
	return r.CourtID
}

func description(r *Reservation, n, total int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Session %d of %d, %s-%s.", n, total, r.Start, r.End)
	fmt.Fprintf(&b, " Price per session: %s.", r.BasePrice.StringFixed(2))
	if r.IsPublic {
		fmt.Fprintf(&b, " Open game, %d players needed.", r.NeededPlayers)
	}
	return b.String()
}
