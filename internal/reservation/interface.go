package reservation

// Store defines the interface for persisting reservations.
type Store interface {
	Save(r *Reservation) error
	Get(id string) (*Reservation, error)
	List() ([]*Reservation, error)
	ListByCourt(courtID string) ([]*Reservation, error)
	UpdateStatus(id string, status Status) error
}
