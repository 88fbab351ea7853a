package notifier

import (
	"sync"

	"github.com/mauv0809/arena-booking/internal/booking"
	"github.com/mauv0809/arena-booking/internal/reservation"
)

// Mock is a mock implementation of the Notifier interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu sync.Mutex

	// Spies
	SendReservationNotificationFunc func(r *reservation.Reservation, dryRun bool) error
	SendSubmissionFailureFunc       func(req booking.ReservationRequest, reason error, dryRun bool) error

	// Call records
	SendReservationNotificationCalls []ReservationNotificationCall
	SendSubmissionFailureCalls       []SubmissionFailureCall
}

// ReservationNotificationCall holds the arguments for a call to SendReservationNotification.
type ReservationNotificationCall struct {
	Reservation *reservation.Reservation
	DryRun      bool
}

// SubmissionFailureCall holds the arguments for a call to SendSubmissionFailure.
type SubmissionFailureCall struct {
	Request booking.ReservationRequest
	Reason  error
	DryRun  bool
}

var _ Notifier = (*Mock)(nil)

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{}
}

// Reset clears all call records.
func (m *Mock) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendReservationNotificationCalls = nil
	m.SendSubmissionFailureCalls = nil
}

func (m *Mock) SendReservationNotification(r *reservation.Reservation, dryRun bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendReservationNotificationCalls = append(m.SendReservationNotificationCalls, ReservationNotificationCall{Reservation: r, DryRun: dryRun})
	if m.SendReservationNotificationFunc != nil {
		return m.SendReservationNotificationFunc(r, dryRun)
	}
	return nil
}

func (m *Mock) SendSubmissionFailure(req booking.ReservationRequest, reason error, dryRun bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendSubmissionFailureCalls = append(m.SendSubmissionFailureCalls, SubmissionFailureCall{Request: req, Reason: reason, DryRun: dryRun})
	if m.SendSubmissionFailureFunc != nil {
		return m.SendSubmissionFailureFunc(req, reason, dryRun)
	}
	return nil
}

// NotificationCount returns how many reservation notifications were sent.
func (m *Mock) NotificationCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.SendReservationNotificationCalls)
}

// FailureCount returns how many failure alerts were sent.
func (m *Mock) FailureCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.SendSubmissionFailureCalls)
}
