package processor

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mauv0809/arena-booking/internal/arena"
	"github.com/mauv0809/arena-booking/internal/booking"
	"github.com/mauv0809/arena-booking/internal/metrics"
	"github.com/mauv0809/arena-booking/internal/notifier"
	"github.com/mauv0809/arena-booking/internal/pubsub"
	"github.com/mauv0809/arena-booking/internal/reservation"
)

type fixture struct {
	arena    *arena.MockClient
	store    *reservation.Mock
	notifier *notifier.Mock
	metrics  *metrics.Mock
	pubsub   *pubsub.MockPubSubClient
	p        *Processor
}

func newFixture() *fixture {
	f := &fixture{
		arena:    arena.NewMockClient(),
		store:    reservation.NewMock(),
		notifier: notifier.NewMock(),
		metrics:  metrics.NewMock(),
		pubsub:   pubsub.NewMock("TEST"),
	}
	f.p = New(f.arena, f.store, f.notifier, f.metrics, f.pubsub)
	f.p.newID = func() string { return "res-1" }
	f.p.now = func() time.Time { return time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC) }
	return f
}

func testSubmission() Submission {
	period := booking.PeriodOneMonth
	return Submission{
		UserID: "user-1",
		Court:  booking.Court{ID: "A", Name: "Quadra A", SportTypes: []string{"FUTEVOLEI"}, ReservationDuration: time.Hour},
		Request: booking.ReservationRequest{
			CourtID:          "A",
			Date:             "2024-01-15",
			SlotIDs:          []string{"A-18", "A-19"},
			Sport:            "FUTEVOLEI",
			IsRecurring:      true,
			RecurrencePeriod: &period,
		},
		Summary: booking.Summary{
			Occurrences:      5,
			BaseSessionPrice: decimal.NewFromInt(160),
			TotalPrice:       decimal.NewFromInt(800),
			FirstSlotStart:   booking.MustParseClock("18:00"),
			LastSlotEnd:      booking.MustParseClock("20:00"),
		},
	}
}

func TestProcessor_Submit(t *testing.T) {
	t.Run("accepted reservation is recorded and published", func(t *testing.T) {
		f := newFixture()
		f.arena.SubmitReservationFunc = func(req booking.ReservationRequest) (arena.Confirmation, error) {
			return arena.Confirmation{ReservationID: "arena-77", Status: "PENDING"}, nil
		}

		r, err := f.p.Submit(context.Background(), testSubmission(), false)
		require.NoError(t, err)

		assert.Equal(t, "res-1", r.ID)
		assert.Equal(t, "arena-77", r.ExternalID)
		assert.Equal(t, "Quadra A", r.CourtName)
		assert.Equal(t, booking.PeriodOneMonth, r.RecurrencePeriod)
		assert.True(t, decimal.NewFromInt(800).Equal(r.TotalPrice))
		assert.Equal(t, reservation.StatusSubmitted, r.Status)

		require.Len(t, f.arena.SubmitReservationCalls, 1)
		require.Len(t, f.store.SaveCalls, 1)
		require.Len(t, f.pubsub.SendMessageCalls, 1)
		assert.Equal(t, pubsub.EventReservationSubmitted, f.pubsub.SendMessageCalls[0].Topic)
		assert.Equal(t, 0, f.notifier.NotificationCount(), "notification happens on the event, not inline")
		assert.Equal(t, 1, f.metrics.ReservationsSubmitted())
	})

	t.Run("arena failure records nothing", func(t *testing.T) {
		f := newFixture()
		arenaErr := &arena.StatusError{StatusCode: 409, Body: "slot taken"}
		f.arena.SubmitReservationFunc = func(req booking.ReservationRequest) (arena.Confirmation, error) {
			return arena.Confirmation{}, arenaErr
		}

		r, err := f.p.Submit(context.Background(), testSubmission(), false)
		require.Error(t, err)
		assert.Nil(t, r)
		assert.ErrorIs(t, err, arena.ErrRequestFailed)

		assert.Empty(t, f.store.SaveCalls)
		assert.Empty(t, f.pubsub.SendMessageCalls)
		assert.Equal(t, 1, f.notifier.FailureCount())
		assert.Equal(t, 1, f.metrics.ReservationSubmitFailures())
		assert.Equal(t, 0, f.metrics.ReservationsSubmitted())
	})

	t.Run("dry run does not contact the arena", func(t *testing.T) {
		f := newFixture()

		r, err := f.p.Submit(context.Background(), testSubmission(), true)
		require.NoError(t, err)
		assert.Equal(t, DryRunID, r.ID)
		assert.Empty(t, f.arena.SubmitReservationCalls)
		assert.Empty(t, f.store.SaveCalls)
		assert.Empty(t, f.pubsub.SendMessageCalls)
	})

	t.Run("publish failure falls back to inline notification", func(t *testing.T) {
		f := newFixture()
		f.pubsub.SendMessageFunc = func(topic pubsub.EventType, data any) error {
			return errors.New("pubsub unavailable")
		}

		r, err := f.p.Submit(context.Background(), testSubmission(), false)
		require.NoError(t, err)
		assert.Equal(t, 1, f.notifier.NotificationCount())
		assert.Equal(t, reservation.StatusNotified, r.Status)

		stored, err := f.store.Get("res-1")
		require.NoError(t, err)
		assert.Equal(t, reservation.StatusNotified, stored.Status)
	})

	t.Run("store failure does not fail the submission", func(t *testing.T) {
		f := newFixture()
		f.store.SaveFunc = func(r *reservation.Reservation) error { return errors.New("disk full") }

		r, err := f.p.Submit(context.Background(), testSubmission(), false)
		require.NoError(t, err)
		assert.Equal(t, "res-1", r.ID)
		assert.Len(t, f.pubsub.SendMessageCalls, 1)
	})
}

func TestProcessor_HandleSubmitted(t *testing.T) {
	t.Run("notifies and marks notified", func(t *testing.T) {
		f := newFixture()
		r, err := f.p.Submit(context.Background(), testSubmission(), false)
		require.NoError(t, err)

		// Decode the published payload the way the push endpoint does.
		var event reservation.Reservation
		require.NoError(t, f.pubsub.ProcessMessage(f.pubsub.SendMessageCalls[0].Encoded, &event))
		assert.Equal(t, r.ID, event.ID)
		assert.True(t, r.TotalPrice.Equal(event.TotalPrice))

		require.NoError(t, f.p.HandleSubmitted(&event, false))
		require.Len(t, f.notifier.SendReservationNotificationCalls, 1)
		assert.Equal(t, "res-1", f.notifier.SendReservationNotificationCalls[0].Reservation.ID)

		stored, err := f.store.Get("res-1")
		require.NoError(t, err)
		assert.Equal(t, reservation.StatusNotified, stored.Status)
	})

	t.Run("notification failure marks failed", func(t *testing.T) {
		f := newFixture()
		_, err := f.p.Submit(context.Background(), testSubmission(), false)
		require.NoError(t, err)
		f.notifier.SendReservationNotificationFunc = func(r *reservation.Reservation, dryRun bool) error {
			return errors.New("slack down")
		}

		stored, err := f.store.Get("res-1")
		require.NoError(t, err)
		err = f.p.HandleSubmitted(stored, false)
		require.Error(t, err)

		stored, err = f.store.Get("res-1")
		require.NoError(t, err)
		assert.Equal(t, reservation.StatusFailed, stored.Status)
	})

	t.Run("dry run leaves status alone", func(t *testing.T) {
		f := newFixture()
		r := &reservation.Reservation{ID: "x", Status: reservation.StatusSubmitted}

		require.NoError(t, f.p.HandleSubmitted(r, true))
		assert.Empty(t, f.store.UpdateStatusCalls)
		assert.True(t, f.notifier.SendReservationNotificationCalls[0].DryRun)
	})
}
