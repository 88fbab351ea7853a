package session

import (
	"context"

	"github.com/mauv0809/arena-booking/internal/processor"
	"github.com/mauv0809/arena-booking/internal/reservation"
)

// Store persists sessions. Update runs fn on a copy of the session and stores
// the result only if fn returns nil; updates of one session never interleave.
type Store interface {
	Create(ctx context.Context, s *Session) error
	Get(ctx context.Context, id string) (*Session, error)
	Update(ctx context.Context, id string, fn func(*Session) error) (*Session, error)
	Delete(ctx context.Context, id string) error
}

// Submitter sends a composed reservation to the arena.
type Submitter interface {
	Submit(ctx context.Context, sub processor.Submission, dryRun bool) (*reservation.Reservation, error)
}
