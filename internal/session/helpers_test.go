package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mauv0809/arena-booking/internal/arena"
	"github.com/mauv0809/arena-booking/internal/booking"
	"github.com/mauv0809/arena-booking/internal/metrics"
	"github.com/mauv0809/arena-booking/internal/processor"
	"github.com/mauv0809/arena-booking/internal/reservation"
)

// stubSubmitter records submissions and answers with SubmitFunc.
type stubSubmitter struct {
	mu         sync.Mutex
	SubmitFunc func(sub processor.Submission, dryRun bool) (*reservation.Reservation, error)
	Calls      []processor.Submission
}

func (s *stubSubmitter) Submit(ctx context.Context, sub processor.Submission, dryRun bool) (*reservation.Reservation, error) {
	s.mu.Lock()
	s.Calls = append(s.Calls, sub)
	fn := s.SubmitFunc
	s.mu.Unlock()
	if fn != nil {
		return fn(sub, dryRun)
	}
	return &reservation.Reservation{ID: "res-1", CourtID: sub.Request.CourtID}, nil
}

func (s *stubSubmitter) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.Calls)
}

// hourSlots builds one-hour slots from 08:00 to 12:00 for courtID. Slot ids
// carry the date so refetches for another day are distinguishable.
func hourSlots(courtID string, date time.Time) []booking.TimeSlot {
	var slots []booking.TimeSlot
	for h := 8; h < 12; h++ {
		start := booking.Clock(h * 60)
		slots = append(slots, booking.TimeSlot{
			ID:      fmt.Sprintf("%s-%s-%02d", courtID, date.Format("0102"), h),
			CourtID: courtID,
			Start:   start,
			End:     start.Add(time.Hour),
			Price:   decimal.NewFromInt(50),
			Status:  booking.StatusAvailable,
		})
	}
	return slots
}

type fixture struct {
	arena     *arena.MockClient
	submitter *stubSubmitter
	metrics   *metrics.Mock
	svc       *Service
}

func newFixture() *fixture {
	f := &fixture{
		arena:     arena.NewMockClient(),
		submitter: &stubSubmitter{},
		metrics:   metrics.NewMock(),
	}
	f.arena.GetCourtFunc = func(courtID string) (booking.Court, error) {
		return booking.Court{
			ID:                  courtID,
			Name:                "Quadra " + courtID,
			SportTypes:          []string{"FUTEVOLEI"},
			ReservationDuration: time.Hour,
		}, nil
	}
	f.arena.GetAvailabilityFunc = func(courtID string, date time.Time) ([]booking.TimeSlot, error) {
		return hourSlots(courtID, date), nil
	}
	f.svc = NewService(NewMemoryStore(0), f.arena, f.submitter, f.metrics, time.UTC)
	return f
}

func slotID(courtID, date string, hour int) string {
	d, _ := time.Parse(booking.DateLayout, date)
	return fmt.Sprintf("%s-%s-%02d", courtID, d.Format("0102"), hour)
}
