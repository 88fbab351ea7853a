package processor

import (
	"github.com/mauv0809/arena-booking/internal/notifier"
	"github.com/mauv0809/arena-booking/internal/reservation"
)

// Store defines the database operations required by the processor.
type Store interface {
	Save(r *reservation.Reservation) error
	UpdateStatus(id string, status reservation.Status) error
}

// Notifier defines the notification operations required by the processor.
// This is an alias for the main notifier interface for decoupling.
type Notifier interface {
	notifier.Notifier
}
