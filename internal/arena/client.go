package arena

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/shopspring/decimal"

	"github.com/mauv0809/arena-booking/internal/booking"
)

// APIClient talks to the arena REST backend.
type APIClient struct {
	httpClient *http.Client
	BaseURL    string
	token      string
}

// NewClient creates a new arena client for baseURL. An empty token sends no
// Authorization header.
func NewClient(baseURL, token string) Client {
	return &APIClient{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		BaseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
	}
}

// Ensure APIClient implements the Client interface.
var _ Client = (*APIClient)(nil)

// GetCourt fetches the court configuration.
func (c *APIClient) GetCourt(ctx context.Context, courtID string) (booking.Court, error) {
	var resp courtResponse
	if err := c.do(ctx, http.MethodGet, "/quadras/"+url.PathEscape(courtID), nil, &resp); err != nil {
		return booking.Court{}, fmt.Errorf("error fetching court %s: %w", courtID, err)
	}
	court := booking.Court{
		ID:                  resp.ID,
		Name:                resp.Name,
		SportTypes:          resp.SportTypes,
		ReservationDuration: time.Duration(resp.ReservationDurationMin) * time.Minute,
		SuppliedMaterials:   resp.SuppliedMaterials,
	}
	if err := court.Validate(); err != nil {
		return booking.Court{}, err
	}
	return court, nil
}

// GetAvailability fetches the slots of a court on the given date.
func (c *APIClient) GetAvailability(ctx context.Context, courtID string, date time.Time) ([]booking.TimeSlot, error) {
	path := fmt.Sprintf("/quadras/%s/horarios?data=%s", url.PathEscape(courtID), date.Format(booking.DateLayout))
	var resp availabilityResponse
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, fmt.Errorf("error fetching availability for court %s: %w", courtID, err)
	}

	slots := make([]booking.TimeSlot, 0, len(resp.Slots))
	for _, s := range resp.Slots {
		slot, err := mapSlot(courtID, s)
		if err != nil {
			return nil, err
		}
		slots = append(slots, slot)
	}
	log.Debug("Fetched availability", "courtID", courtID, "date", date.Format(booking.DateLayout), "count", len(slots))
	return slots, nil
}

// SubmitReservation posts the reservation request.
func (c *APIClient) SubmitReservation(ctx context.Context, req booking.ReservationRequest) (Confirmation, error) {
	var resp reservationResponse
	if err := c.do(ctx, http.MethodPost, "/reservas", req, &resp); err != nil {
		return Confirmation{}, fmt.Errorf("error submitting reservation for court %s: %w", req.CourtID, err)
	}
	log.Info("Reservation accepted by arena", "courtID", req.CourtID, "reservationID", resp.ID, "status", resp.Status)
	return Confirmation{ReservationID: resp.ID, Status: resp.Status}, nil
}

func (c *APIClient) do(ctx context.Context, method, path string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "ArenaBookingGoClient/1.0")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	log.Debug("Requesting arena API", "method", method, "path", path)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrRequestFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(resp.Body)
		log.Error("Received non-OK HTTP status from arena API", "status", resp.StatusCode, "body", string(b))
		return &StatusError{StatusCode: resp.StatusCode, Body: string(b)}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: failed to decode response: %w", ErrRequestFailed, err)
	}
	return nil
}

func mapSlot(courtID string, s slotResponse) (booking.TimeSlot, error) {
	start, err := booking.ParseClock(s.StartTime)
	if err != nil {
		return booking.TimeSlot{}, fmt.Errorf("%w: slot %s: %w", booking.ErrInvalidSlot, s.ID, err)
	}
	end, err := booking.ParseClock(s.EndTime)
	if err != nil {
		return booking.TimeSlot{}, fmt.Errorf("%w: slot %s: %w", booking.ErrInvalidSlot, s.ID, err)
	}
	price, err := decimal.NewFromString(s.Price)
	if err != nil {
		return booking.TimeSlot{}, fmt.Errorf("%w: slot %s has price %q", booking.ErrInvalidSlot, s.ID, s.Price)
	}
	if s.CourtID == "" {
		s.CourtID = courtID
	}

	var status booking.AvailabilityStatus
	switch strings.ToUpper(s.Status) {
	case string(booking.StatusAvailable), "DISPONIVEL":
		status = booking.StatusAvailable
	case string(booking.StatusMaintenance), "MANUTENCAO":
		status = booking.StatusMaintenance
	case string(booking.StatusUnavailable), "INDISPONIVEL", "RESERVADO":
		status = booking.StatusUnavailable
	default:
		status = booking.StatusUnavailable
		log.Warn("Unknown slot status received from arena API", "status", s.Status, "slotID", s.ID)
	}

	return booking.TimeSlot{
		ID:      s.ID,
		CourtID: s.CourtID,
		Start:   start,
		End:     end,
		Price:   price,
		Status:  status,
	}, nil
}
