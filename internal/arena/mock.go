package arena

import (
	"context"
	"sync"
	"time"

	"github.com/mauv0809/arena-booking/internal/booking"
)

// MockClient is a mock implementation of the Client interface for testing.
// It is safe for concurrent use.
type MockClient struct {
	mu sync.Mutex

	// Spies for method calls
	GetCourtFunc          func(courtID string) (booking.Court, error)
	GetAvailabilityFunc   func(courtID string, date time.Time) ([]booking.TimeSlot, error)
	SubmitReservationFunc func(req booking.ReservationRequest) (Confirmation, error)

	// Call records
	GetCourtCalls          []string
	GetAvailabilityCalls   []AvailabilityCall
	SubmitReservationCalls []booking.ReservationRequest
}

// AvailabilityCall holds the arguments for a call to GetAvailability.
type AvailabilityCall struct {
	CourtID string
	Date    time.Time
}

// NewMockClient creates a new mock instance.
func NewMockClient() *MockClient {
	return &MockClient{}
}

// Reset clears all call records.
func (m *MockClient) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GetCourtCalls = nil
	m.GetAvailabilityCalls = nil
	m.SubmitReservationCalls = nil
}

func (m *MockClient) GetCourt(ctx context.Context, courtID string) (booking.Court, error) {
	m.mu.Lock()
	m.GetCourtCalls = append(m.GetCourtCalls, courtID)
	fn := m.GetCourtFunc
	m.mu.Unlock()
	if fn != nil {
		return fn(courtID)
	}
	return booking.Court{ID: courtID, Name: courtID, SportTypes: []string{"FUTEVOLEI"}, ReservationDuration: time.Hour}, nil
}

func (m *MockClient) GetAvailability(ctx context.Context, courtID string, date time.Time) ([]booking.TimeSlot, error) {
	m.mu.Lock()
	m.GetAvailabilityCalls = append(m.GetAvailabilityCalls, AvailabilityCall{CourtID: courtID, Date: date})
	fn := m.GetAvailabilityFunc
	m.mu.Unlock()
	if fn != nil {
		return fn(courtID, date)
	}
	return []booking.TimeSlot{}, nil
}

func (m *MockClient) SubmitReservation(ctx context.Context, req booking.ReservationRequest) (Confirmation, error) {
	m.mu.Lock()
	m.SubmitReservationCalls = append(m.SubmitReservationCalls, req)
	fn := m.SubmitReservationFunc
	m.mu.Unlock()
	if fn != nil {
		return fn(req)
	}
	return Confirmation{ReservationID: "arena-1", Status: "PENDING"}, nil
}

// AvailabilityCallCount returns how many availability fetches were made.
func (m *MockClient) AvailabilityCallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.GetAvailabilityCalls)
}

// SubmitCallCount returns how many reservations were submitted.
func (m *MockClient) SubmitCallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.SubmitReservationCalls)
}
