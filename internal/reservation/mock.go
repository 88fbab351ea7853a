package reservation

import (
	"sync"
)

// Mock is an in-memory implementation of Store for testing.
// It is safe for concurrent use.
type Mock struct {
	mu           sync.Mutex
	reservations map[string]*Reservation

	// Spies for method calls
	SaveFunc         func(r *Reservation) error
	UpdateStatusFunc func(id string, status Status) error

	// Call records
	SaveCalls         []*Reservation
	UpdateStatusCalls []UpdateStatusCall
}

// UpdateStatusCall holds the arguments for a call to UpdateStatus.
type UpdateStatusCall struct {
	ID     string
	Status Status
}

var _ Store = (*Mock)(nil)

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{reservations: make(map[string]*Reservation)}
}

func (m *Mock) Save(r *Reservation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SaveCalls = append(m.SaveCalls, r)
	if m.SaveFunc != nil {
		if err := m.SaveFunc(r); err != nil {
			return err
		}
	}
	cp := *r
	m.reservations[r.ID] = &cp
	return nil
}

func (m *Mock) Get(id string) (*Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.reservations[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *r
	return &cp, nil
}

func (m *Mock) List() ([]*Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*Reservation, 0, len(m.reservations))
	for _, r := range m.reservations {
		cp := *r
		out = append(out, &cp)
	}
	return out, nil
}

func (m *Mock) ListByCourt(courtID string) ([]*Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*Reservation
	for _, r := range m.reservations {
		if r.CourtID == courtID {
			cp := *r
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *Mock) UpdateStatus(id string, status Status) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.UpdateStatusCalls = append(m.UpdateStatusCalls, UpdateStatusCall{ID: id, Status: status})
	if m.UpdateStatusFunc != nil {
		return m.UpdateStatusFunc(id, status)
	}
	r, ok := m.reservations[id]
	if !ok {
		return ErrNotFound
	}
	r.Status = status
	return nil
}
