package reservation

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/shopspring/decimal"

	"github.com/mauv0809/arena-booking/internal/booking"
)

const selectColumns = `id, external_id, user_id, court_id, court_name, date, start_time, end_time, slot_ids_json, sport, is_recurring, recurrence_period, is_public, needed_players, occurrences, base_price, total_price, status, created_at, notified_at`

// NewStore creates a new reservation Store.
func NewStore(db *sql.DB) Store {
	return &store{
		db: db,
	}
}

// Save inserts the reservation. Saving an id that already exists only refreshes
// its arena reference, status and notified_at; the booked slots and prices are
// fixed once recorded.
func (s *store) Save(r *Reservation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	slotIDsJSON, err := json.Marshal(r.SlotIDs)
	if err != nil {
		return err
	}

	var period sql.NullString
	if r.RecurrencePeriod != "" {
		period = sql.NullString{String: string(r.RecurrencePeriod), Valid: true}
	}
	var needed sql.NullInt64
	if r.IsPublic {
		needed = sql.NullInt64{Int64: int64(r.NeededPlayers), Valid: true}
	}

	_, err = s.db.Exec(`
		INSERT INTO reservations (`+selectColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			external_id = excluded.external_id,
			status = excluded.status,
			notified_at = excluded.notified_at;
	`,
		r.ID, r.ExternalID, r.UserID, r.CourtID, r.CourtName, r.Date,
		r.Start.String(), r.End.String(), string(slotIDsJSON), r.Sport,
		r.IsRecurring, period, r.IsPublic, needed, r.Occurrences,
		r.BasePrice.String(), r.TotalPrice.String(), r.Status, r.CreatedAt, r.NotifiedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save reservation %s: %w", r.ID, err)
	}
	return nil
}

// Get returns the reservation with the given id.
func (s *store) Get(id string) (*Reservation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRow(`SELECT `+selectColumns+` FROM reservations WHERE id = ?`, id)
	r, err := scanReservation(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return r, err
}

// List returns every reservation, most recent first.
func (s *store) List() ([]*Reservation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`SELECT ` + selectColumns + ` FROM reservations ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, err
	}
	return collect(rows)
}

// ListByCourt returns the reservations of one court ordered by date and start time.
func (s *store) ListByCourt(courtID string) ([]*Reservation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`SELECT `+selectColumns+` FROM reservations WHERE court_id = ? ORDER BY date, start_time`, courtID)
	if err != nil {
		return nil, err
	}
	return collect(rows)
}

// UpdateStatus moves a reservation to a new status. Moving to NOTIFIED stamps notified_at.
func (s *store) UpdateStatus(id string, status Status) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var (
		res sql.Result
		err error
	)
	if status == StatusNotified {
		res, err = s.db.Exec("UPDATE reservations SET status = ?, notified_at = ? WHERE id = ?", status, time.Now().Unix(), id)
	} else {
		res, err = s.db.Exec("UPDATE reservations SET status = ? WHERE id = ?", status, id)
	}
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func collect(rows *sql.Rows) ([]*Reservation, error) {
	defer rows.Close()

	var reservations []*Reservation
	for rows.Next() {
		r, err := scanReservation(rows)
		if err != nil {
			log.Error("Failed to scan reservation row", "error", err)
			continue
		}
		reservations = append(reservations, r)
	}
	return reservations, rows.Err()
}

// scanReservation is a helper function to scan a single reservation row.
func scanReservation(scanner interface{ Scan(...any) error }) (*Reservation, error) {
	var (
		r                       Reservation
		externalID, period      sql.NullString
		needed, notifiedAt      sql.NullInt64
		start, end, slotIDsJSON string
		basePrice, totalPrice   string
	)
	err := scanner.Scan(
		&r.ID, &externalID, &r.UserID, &r.CourtID, &r.CourtName, &r.Date,
		&start, &end, &slotIDsJSON, &r.Sport, &r.IsRecurring, &period,
		&r.IsPublic, &needed, &r.Occurrences, &basePrice, &totalPrice,
		&r.Status, &r.CreatedAt, &notifiedAt,
	)
	if err != nil {
		return nil, err
	}

	r.ExternalID = externalID.String
	r.RecurrencePeriod = booking.RecurrencePeriod(period.String)
	r.NeededPlayers = int(needed.Int64)
	if notifiedAt.Valid {
		r.NotifiedAt = &notifiedAt.Int64
	}
	if r.Start, err = booking.ParseClock(start); err != nil {
		return nil, err
	}
	if r.End, err = booking.ParseClock(end); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(slotIDsJSON), &r.SlotIDs); err != nil {
		return nil, fmt.Errorf("failed to unmarshal slot ids: %w", err)
	}
	if r.BasePrice, err = decimal.NewFromString(basePrice); err != nil {
		return nil, err
	}
	if r.TotalPrice, err = decimal.NewFromString(totalPrice); err != nil {
		return nil, err
	}
	return &r, nil
}
