package metrics

import "sync"

// Mock is a mock implementation of the Metrics interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu                      sync.Mutex
	toggles                 map[string]int
	availabilityFetches     int
	availabilityFetchFailed int
	reservationsSubmitted   int
	reservationSubmitFailed int
	submitDurations         []float64
	slackNotifSent          int
	slackNotifFailed        int
	startupTime             float64
}

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{
		toggles:         make(map[string]int),
		submitDurations: make([]float64, 0),
	}
}

func (m *Mock) IncToggle(transition string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.toggles[transition]++
}

func (m *Mock) IncAvailabilityFetches() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.availabilityFetches++
}

func (m *Mock) IncAvailabilityFetchFailures() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.availabilityFetchFailed++
}

func (m *Mock) IncReservationsSubmitted() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reservationsSubmitted++
}

func (m *Mock) IncReservationSubmitFailures() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reservationSubmitFailed++
}

func (m *Mock) ObserveSubmitDuration(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.submitDurations = append(m.submitDurations, duration)
}

func (m *Mock) IncSlackNotifSent() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slackNotifSent++
}

func (m *Mock) IncSlackNotifFailed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slackNotifFailed++
}

func (m *Mock) SetStartupTime(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.startupTime = duration
}

// Toggles returns how many times IncToggle was called with the given transition.
func (m *Mock) Toggles(transition string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.toggles[transition]
}

// AvailabilityFetches returns the number of times IncAvailabilityFetches was called.
func (m *Mock) AvailabilityFetches() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.availabilityFetches
}

// AvailabilityFetchFailures returns the number of times IncAvailabilityFetchFailures was called.
func (m *Mock) AvailabilityFetchFailures() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.availabilityFetchFailed
}

// ReservationsSubmitted returns the number of times IncReservationsSubmitted was called.
func (m *Mock) ReservationsSubmitted() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.reservationsSubmitted
}

// ReservationSubmitFailures returns the number of times IncReservationSubmitFailures was called.
func (m *Mock) ReservationSubmitFailures() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.reservationSubmitFailed
}

// SlackNotifSent returns the number of times IncSlackNotifSent was called.
func (m *Mock) SlackNotifSent() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.slackNotifSent
}

// SlackNotifFailed returns the number of times IncSlackNotifFailed was called.
func (m *Mock) SlackNotifFailed() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.slackNotifFailed
}
