package arena

import (
	"context"
	"time"

	"github.com/mauv0809/arena-booking/internal/booking"
)

// Client defines the interface for interacting with the arena API.
// This allows for mock implementations to be used in tests.
type Client interface {
	GetCourt(ctx context.Context, courtID string) (booking.Court, error)
	GetAvailability(ctx context.Context, courtID string, date time.Time) ([]booking.TimeSlot, error)
	SubmitReservation(ctx context.Context, req booking.ReservationRequest) (Confirmation, error)
}
