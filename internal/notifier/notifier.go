package notifier

import (
	"github.com/mauv0809/arena-booking/internal/booking"
	"github.com/mauv0809/arena-booking/internal/reservation"
)

// Notifier defines a high-level interface for sending notifications about business events.
// This decouples the rest of the application from the specific notification provider (e.g., Slack).
type Notifier interface {
	// For reservations the arena accepted
	SendReservationNotification(r *reservation.Reservation, dryRun bool) error
	// For reservations the arena refused or could not be reached for
	SendSubmissionFailure(req booking.ReservationRequest, reason error, dryRun bool) error
}
