package arena

import (
	"errors"
	"fmt"
)

// ErrRequestFailed wraps every failure talking to the arena API.
var ErrRequestFailed = errors.New("arena request failed")

// ErrNotFound is returned when the arena does not know the requested court.
var ErrNotFound = errors.New("arena resource not found")

// Confirmation is what the arena answers when it accepts a reservation.
type Confirmation struct {
	ReservationID string `json:"id"`
	Status        string `json:"status"`
}

// StatusError is returned for any non-2xx response.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("received non-OK HTTP status: %d", e.StatusCode)
}

func (e *StatusError) Unwrap() error {
	return ErrRequestFailed
}

// Wire DTOs, as served by the arena backend.

type courtResponse struct {
	ID                     string   `json:"id"`
	Name                   string   `json:"nome"`
	SportTypes             []string `json:"modalidades"`
	ReservationDurationMin int      `json:"duracao_reserva_minutos"`
	SuppliedMaterials      []string `json:"materiais_fornecidos"`
}

type slotResponse struct {
	ID        string `json:"id"`
	CourtID   string `json:"quadra_id"`
	StartTime string `json:"horario_inicio"`
	EndTime   string `json:"horario_fim"`
	Price     string `json:"valor"`
	Status    string `json:"status"`
}

type availabilityResponse struct {
	Date  string         `json:"data"`
	Slots []slotResponse `json:"horarios"`
}

type reservationResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}
