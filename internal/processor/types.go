package processor

import (
	"time"

	"github.com/mauv0809/arena-booking/internal/arena"
	"github.com/mauv0809/arena-booking/internal/booking"
	"github.com/mauv0809/arena-booking/internal/metrics"
	"github.com/mauv0809/arena-booking/internal/pubsub"
)

// Processor handles submitting reservations and the follow-up once the arena accepted them.
type Processor struct {
	arena    arena.Client
	store    Store
	pubsub   pubsub.PubSubClient
	notifier Notifier
	metrics  metrics.Metrics

	now   func() time.Time
	newID func() string
}

// Submission is a composed reservation request ready to be sent to the arena.
type Submission struct {
	UserID  string
	Court   booking.Court
	Request booking.ReservationRequest
	Summary booking.Summary
}
