package processor

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/mauv0809/arena-booking/internal/arena"
	"github.com/mauv0809/arena-booking/internal/metrics"
	"github.com/mauv0809/arena-booking/internal/pubsub"
	"github.com/mauv0809/arena-booking/internal/reservation"
)

// DryRunID is the id given to reservations that were only previewed.
const DryRunID = "dry-run"

// New creates a new Processor.
func New(arenaClient arena.Client, store Store, notifier Notifier, metrics metrics.Metrics, pubsub pubsub.PubSubClient) *Processor {
	return &Processor{
		arena:    arenaClient,
		store:    store,
		pubsub:   pubsub,
		notifier: notifier,
		metrics:  metrics,
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

// Submit sends the request to the arena. When the arena accepts it the
// reservation is recorded and a reservation-submitted event is published;
// otherwise nothing is recorded and the arena's error is returned.
// In dry-run mode the arena is not contacted and the previewed reservation is returned.
func (p *Processor) Submit(ctx context.Context, sub Submission, dryRun bool) (*reservation.Reservation, error) {
	req := sub.Request
	if dryRun {
		r := reservation.New(DryRunID, "", sub.UserID, sub.Court, req, sub.Summary, p.now())
		log.Info("[Dry Run] Would submit reservation", "courtID", req.CourtID, "date", req.Date, "slots", req.SlotIDs, "total", r.TotalPrice.String())
		return r, nil
	}

	log.Info("Submitting reservation", "courtID", req.CourtID, "date", req.Date, "slots", req.SlotIDs, "recurring", req.IsRecurring)
	start := p.now()
	conf, err := p.arena.SubmitReservation(ctx, req)
	p.metrics.ObserveSubmitDuration(time.Since(start).Seconds())
	if err != nil {
		p.metrics.IncReservationSubmitFailures()
		log.Error("Arena rejected reservation", "error", err, "courtID", req.CourtID, "date", req.Date)
		if notifyErr := p.notifier.SendSubmissionFailure(req, err, false); notifyErr != nil {
			log.Error("Failed to send submission failure notification", "error", notifyErr)
		}
		return nil, fmt.Errorf("failed to submit reservation: %w", err)
	}
	p.metrics.IncReservationsSubmitted()

	r := reservation.New(p.newID(), conf.ReservationID, sub.UserID, sub.Court, req, sub.Summary, p.now())
	// The arena already holds the reservation, so a local write failure must not
	// surface as a failed submission.
	if err := p.store.Save(r); err != nil {
		log.Error("Failed to record reservation", "error", err, "reservationID", r.ID, "externalID", r.ExternalID)
	}

	if err := p.pubsub.SendMessage(ctx, pubsub.EventReservationSubmitted, r); err != nil {
		log.Warn("Failed to publish reservation event, notifying inline", "error", err, "reservationID", r.ID)
		if err := p.HandleSubmitted(r, false); err != nil {
			log.Error("Inline reservation notification failed", "error", err, "reservationID", r.ID)
		}
	}
	log.Info("Reservation submitted", "reservationID", r.ID, "externalID", r.ExternalID, "total", r.TotalPrice.String())
	return r, nil
}

// HandleSubmitted notifies the venue about an accepted reservation and records the outcome.
func (p *Processor) HandleSubmitted(r *reservation.Reservation, dryRun bool) error {
	log.Debug("Handling submitted reservation", "reservationID", r.ID)
	if err := p.notifier.SendReservationNotification(r, dryRun); err != nil {
		p.updateStatus(r, reservation.StatusFailed, dryRun)
		return fmt.Errorf("failed to notify reservation %s: %w", r.ID, err)
	}
	p.updateStatus(r, reservation.StatusNotified, dryRun)
	return nil
}

func (p *Processor) updateStatus(r *reservation.Reservation, status reservation.Status, dryRun bool) {
	if dryRun {
		log.Info("[Dry Run] Would update reservation status", "reservationID", r.ID, "from", r.Status, "to", status)
		return
	}
	if err := p.store.UpdateStatus(r.ID, status); err != nil {
		log.Error("Failed to update reservation status", "error", err, "reservationID", r.ID, "status", status)
		return
	}
	r.Status = status
}
