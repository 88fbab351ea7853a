package session

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/mauv0809/arena-booking/internal/arena"
	"github.com/mauv0809/arena-booking/internal/booking"
	"github.com/mauv0809/arena-booking/internal/metrics"
	"github.com/mauv0809/arena-booking/internal/processor"
	"github.com/mauv0809/arena-booking/internal/reservation"
)

// Service drives booking sessions: it loads availability from the arena,
// applies taps to the selection and submits the composed reservation.
type Service struct {
	store     Store
	arena     arena.Client
	submitter Submitter
	metrics   metrics.Metrics
	loc       *time.Location

	now               func() time.Time
	newID             func() string
	outcomeRetryDelay time.Duration
}

// maxOutcomeAttempts bounds recordOutcome so a session that is permanently
// contended cannot pin the request goroutine.
const maxOutcomeAttempts = 100

// NewService creates a new Service. Dates are interpreted in loc, the arena's timezone.
func NewService(store Store, arenaClient arena.Client, submitter Submitter, metrics metrics.Metrics, loc *time.Location) *Service {
	if loc == nil {
		loc = time.UTC
	}
	return &Service{
		store:     store,
		arena:     arenaClient,
		submitter: submitter,
		metrics:   metrics,
		loc:       loc,
		now:       time.Now,
		newID:     uuid.NewString,

		outcomeRetryDelay: 50 * time.Millisecond,
	}
}

// Open starts a session for userID on date, looking at courtIDs, and loads
// the availability of every court.
func (s *Service) Open(ctx context.Context, userID, date string, courtIDs []string) (*Session, error) {
	if _, err := s.parseDate(date); err != nil {
		return nil, err
	}
	courtIDs = dedupe(courtIDs)
	if len(courtIDs) == 0 {
		return nil, ErrNoCourts
	}
	courts, err := s.fetchCourts(ctx, courtIDs, nil)
	if err != nil {
		return nil, err
	}

	now := s.now()
	sess := &Session{
		ID:        s.newID(),
		UserID:    userID,
		Date:      date,
		CourtIDs:  courtIDs,
		Courts:    courts,
		CreatedAt: now,
		UpdatedAt: now,
	}
	sess.ensureMaps()
	markLoading(sess)
	if err := s.store.Create(ctx, sess); err != nil {
		return nil, err
	}
	log.Info("Opened booking session", "sessionID", sess.ID, "userID", userID, "date", date, "courts", courtIDs)
	return s.load(ctx, sess.ID, date, courtIDs)
}

// Get returns the session.
func (s *Service) Get(ctx context.Context, id string) (*Session, error) {
	return s.store.Get(ctx, id)
}

// Close discards the session.
func (s *Service) Close(ctx context.Context, id string) error {
	return s.store.Delete(ctx, id)
}

// Availability returns the slot grid of one court. A court whose last fetch
// failed (or never ran) is fetched again first.
func (s *Service) Availability(ctx context.Context, id, courtID string) (*CourtAvailability, error) {
	sess, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !sess.HasCourt(courtID) {
		return nil, fmt.Errorf("%w: %s", ErrCourtNotInSession, courtID)
	}
	switch sess.Availability[courtID].State {
	case LoadError, LoadIdle, "":
		if sess, err = s.load(ctx, id, sess.Date, []string{courtID}); err != nil {
			return nil, err
		}
	}

	avail := sess.Availability[courtID]
	out := &CourtAvailability{
		CourtID: courtID,
		Date:    sess.Date,
		State:   avail.State,
		Error:   avail.Error,
		Buckets: []booking.ClassifiedBucket{},
	}
	if avail.State != LoadLoaded {
		return out, nil
	}
	idx, err := booking.NewDayIndex(sess.Courts[courtID], sess.Slots[courtID])
	if err != nil {
		return nil, err
	}
	out.Buckets = idx.ClassifiedBuckets(sess.Selection)
	return out, nil
}

// Toggle applies a tap on slotID of courtID to the selection. Taps the
// selection rules refuse are reported as a REJECTED transition, not an error.
func (s *Service) Toggle(ctx context.Context, id, courtID, slotID string) (ToggleResult, error) {
	var tr booking.Transition
	sess, err := s.store.Update(ctx, id, func(sess *Session) error {
		if sess.Submitting {
			return ErrSubmissionInProgress
		}
		if !sess.HasCourt(courtID) {
			return fmt.Errorf("%w: %s", ErrCourtNotInSession, courtID)
		}
		if sess.Availability[courtID].State != LoadLoaded {
			return fmt.Errorf("%w: court %s is %s", ErrAvailabilityNotLoaded, courtID, sess.Availability[courtID].State)
		}
		court := sess.Courts[courtID]
		idx, err := booking.NewDayIndex(court, sess.Slots[courtID])
		if err != nil {
			return err
		}
		slot, ok := idx.Slot(slotID)
		if !ok {
			return fmt.Errorf("%w: %s on court %s", ErrSlotNotFound, slotID, courtID)
		}
		sess.Selection, tr = booking.Toggle(sess.Selection, court, slot)
		if !tr.Changed() {
			return errUnchanged
		}
		return nil
	})
	if errors.Is(err, errUnchanged) {
		sess, err = s.store.Get(ctx, id)
	}
	if err != nil {
		return ToggleResult{}, err
	}
	s.metrics.IncToggle(string(tr))
	log.Debug("Toggled slot", "sessionID", id, "courtID", courtID, "slotID", slotID, "transition", tr, "selected", len(sess.Selection.Slots))
	return ToggleResult{
		Transition: tr,
		Selection:  sess.Selection,
		Price:      sess.Selection.Price().StringFixed(2),
	}, nil
}

// errUnchanged aborts an update whose mutation turned out to be a no-op.
var errUnchanged = errors.New("unchanged")

// ChangeDate moves the session to another date. The selection is cleared in
// the same step and every court is fetched again.
func (s *Service) ChangeDate(ctx context.Context, id, date string) (*Session, error) {
	if _, err := s.parseDate(date); err != nil {
		return nil, err
	}
	sess, err := s.store.Update(ctx, id, func(sess *Session) error {
		if sess.Submitting {
			return ErrSubmissionInProgress
		}
		sess.Date = date
		sess.clearSelection()
		markLoading(sess)
		return nil
	})
	if err != nil {
		return nil, err
	}
	log.Info("Changed session date", "sessionID", id, "date", date)
	return s.load(ctx, id, date, sess.CourtIDs)
}

// ChangeCourts replaces the courts the session looks at. The selection is
// cleared and the new courts are fetched.
func (s *Service) ChangeCourts(ctx context.Context, id string, courtIDs []string) (*Session, error) {
	courtIDs = dedupe(courtIDs)
	if len(courtIDs) == 0 {
		return nil, ErrNoCourts
	}
	current, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	courts, err := s.fetchCourts(ctx, courtIDs, current.Courts)
	if err != nil {
		return nil, err
	}

	sess, err := s.store.Update(ctx, id, func(sess *Session) error {
		if sess.Submitting {
			return ErrSubmissionInProgress
		}
		sess.CourtIDs = courtIDs
		sess.Courts = courts
		sess.Slots = make(map[string][]booking.TimeSlot)
		sess.Availability = make(map[string]Availability)
		sess.clearSelection()
		markLoading(sess)
		return nil
	})
	if err != nil {
		return nil, err
	}
	log.Info("Changed session courts", "sessionID", id, "courts", courtIDs)
	return s.load(ctx, id, sess.Date, courtIDs)
}

// SetOptions replaces the booking options. Recurring and public are mutually
// exclusive; when both are requested the recurrence is kept.
func (s *Service) SetOptions(ctx context.Context, id string, opts booking.BookingOptions) (*Session, error) {
	opts.Normalize()
	if opts.Recurrence.Recurring {
		if err := opts.Recurrence.Period.Validate(); err != nil {
			return nil, err
		}
	}
	if opts.NeededPlayers < 0 {
		return nil, fmt.Errorf("%w: %d", booking.ErrInvalidNeededPlayers, opts.NeededPlayers)
	}
	return s.store.Update(ctx, id, func(sess *Session) error {
		if sess.Submitting {
			return ErrSubmissionInProgress
		}
		sess.Options = opts
		return nil
	})
}

// Cancel clears the selection.
func (s *Service) Cancel(ctx context.Context, id string) (*Session, error) {
	return s.store.Update(ctx, id, func(sess *Session) error {
		if sess.Submitting {
			return ErrSubmissionInProgress
		}
		sess.clearSelection()
		return nil
	})
}

// Summary computes the price and occurrence aggregate of the current selection.
func (s *Service) Summary(ctx context.Context, id string) (booking.Summary, error) {
	sess, err := s.store.Get(ctx, id)
	if err != nil {
		return booking.Summary{}, err
	}
	anchor, err := s.parseDate(sess.Date)
	if err != nil {
		return booking.Summary{}, err
	}
	opts := sess.Options
	opts.Normalize()
	return booking.Summarize(sess.Selection, opts.Recurrence, anchor)
}

// Confirm composes the reservation request from the selection and submits it.
// A failed submission leaves the session as it was. A successful one clears
// the selection unless it changed while the submission was in flight.
func (s *Service) Confirm(ctx context.Context, id string, dryRun bool) (*reservation.Reservation, error) {
	var (
		sub      processor.Submission
		snapshot []string
	)
	_, err := s.store.Update(ctx, id, func(sess *Session) error {
		if sess.Submitting {
			return ErrSubmissionInProgress
		}
		anchor, err := s.parseDate(sess.Date)
		if err != nil {
			return err
		}
		court, ok := sess.Courts[sess.Selection.CourtID]
		if sess.Selection.IsEmpty() {
			return booking.ErrEmptySelection
		}
		if !ok {
			return fmt.Errorf("%w: %s", ErrCourtNotInSession, sess.Selection.CourtID)
		}
		req, err := booking.BuildRequest(sess.Selection, court, anchor, sess.Options)
		if err != nil {
			return err
		}
		summary, err := booking.Summarize(sess.Selection, req.Policy(), anchor)
		if err != nil {
			return err
		}
		sub = processor.Submission{UserID: sess.UserID, Court: court, Request: req, Summary: summary}
		snapshot = sess.Selection.SlotIDs()
		if dryRun {
			return errUnchanged
		}
		sess.Submitting = true
		return nil
	})
	if err != nil && !errors.Is(err, errUnchanged) {
		return nil, err
	}

	r, submitErr := s.submitter.Submit(ctx, sub, dryRun)
	if dryRun {
		return r, submitErr
	}

	s.recordOutcome(context.WithoutCancel(ctx), id, sub, snapshot, r, submitErr)
	if submitErr != nil {
		return nil, submitErr
	}
	log.Info("Confirmed reservation", "sessionID", id, "reservationID", r.ID, "courtID", sub.Request.CourtID)
	return r, nil
}

// recordOutcome clears the Submitting flag and, on success, the submitted
// selection. Losing a contended update would leave the session locked until
// it expires, so it is retried until the write lands or the session is gone.
func (s *Service) recordOutcome(ctx context.Context, id string, sub processor.Submission, snapshot []string, r *reservation.Reservation, submitErr error) {
	for attempt := 1; ; attempt++ {
		_, err := s.store.Update(ctx, id, func(sess *Session) error {
			sess.Submitting = false
			if submitErr != nil {
				return nil
			}
			sess.LastReservationID = r.ID
			if sess.Selection.CourtID == sub.Request.CourtID && slices.Equal(sess.Selection.SlotIDs(), snapshot) {
				sess.clearSelection()
			}
			return nil
		})
		if err == nil {
			return
		}
		if !errors.Is(err, ErrConcurrentModification) || attempt >= maxOutcomeAttempts {
			log.Error("Failed to record submission outcome", "error", err, "sessionID", id, "attempts", attempt)
			return
		}
		log.Warn("Retrying submission outcome", "sessionID", id, "attempt", attempt)
		time.Sleep(s.outcomeRetryDelay)
	}
}

// load fetches the slots of courtIDs for date and stores them, unless the
// session moved to another date in the meantime.
func (s *Service) load(ctx context.Context, id, date string, courtIDs []string) (*Session, error) {
	day, err := s.parseDate(date)
	if err != nil {
		return nil, err
	}

	type result struct {
		slots []booking.TimeSlot
		err   error
	}
	results := make([]result, len(courtIDs))
	var wg sync.WaitGroup
	for i, courtID := range courtIDs {
		wg.Add(1)
		go func(i int, courtID string) {
			defer wg.Done()
			s.metrics.IncAvailabilityFetches()
			slots, err := s.arena.GetAvailability(ctx, courtID, day)
			if err != nil {
				s.metrics.IncAvailabilityFetchFailures()
				log.Error("Failed to fetch availability", "error", err, "sessionID", id, "courtID", courtID, "date", date)
			}
			results[i] = result{slots: slots, err: err}
		}(i, courtID)
	}
	wg.Wait()

	return s.store.Update(context.WithoutCancel(ctx), id, func(sess *Session) error {
		if sess.Date != date {
			log.Debug("Discarding availability for a stale date", "sessionID", id, "fetched", date, "current", sess.Date)
			return nil
		}
		sess.ensureMaps()
		for i, courtID := range courtIDs {
			if !sess.HasCourt(courtID) {
				continue
			}
			res := results[i]
			if res.err == nil {
				_, res.err = booking.NewDayIndex(sess.Courts[courtID], res.slots)
			}
			if res.err != nil {
				delete(sess.Slots, courtID)
				sess.Availability[courtID] = Availability{State: LoadError, Error: res.err.Error()}
				continue
			}
			sess.Slots[courtID] = res.slots
			sess.Availability[courtID] = Availability{State: LoadLoaded}
		}
		return nil
	})
}

func (s *Service) fetchCourts(ctx context.Context, courtIDs []string, known map[string]booking.Court) (map[string]booking.Court, error) {
	courts := make(map[string]booking.Court, len(courtIDs))
	for _, courtID := range courtIDs {
		if c, ok := known[courtID]; ok {
			courts[courtID] = c
			continue
		}
		c, err := s.arena.GetCourt(ctx, courtID)
		if err != nil {
			return nil, err
		}
		courts[courtID] = c
	}
	return courts, nil
}

func (s *Service) parseDate(date string) (time.Time, error) {
	d, err := time.ParseInLocation(booking.DateLayout, date, s.loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, date)
	}
	return d, nil
}

func markLoading(sess *Session) {
	sess.ensureMaps()
	for _, courtID := range sess.CourtIDs {
		delete(sess.Slots, courtID)
		sess.Availability[courtID] = Availability{State: LoadLoading}
	}
}

func dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
