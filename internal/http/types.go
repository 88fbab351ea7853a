package http

import (
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/mauv0809/arena-booking/internal/config"
	"github.com/mauv0809/arena-booking/internal/metrics"
	"github.com/mauv0809/arena-booking/internal/processor"
	"github.com/mauv0809/arena-booking/internal/pubsub"
	"github.com/mauv0809/arena-booking/internal/reservation"
	"github.com/mauv0809/arena-booking/internal/session"
)

type Server struct {
	Sessions       *session.Service
	Reservations   reservation.Store
	Processor      *processor.Processor
	Metrics        metrics.Metrics
	MetricsHandler http.Handler
	Cfg            config.Config
	Router         *http.ServeMux
	pubsub         pubsub.PubSubClient
	validate       *validator.Validate
}

type openSessionRequest struct {
	UserID   string   `json:"user_id" validate:"required"`
	Date     string   `json:"date" validate:"required,datetime=2006-01-02"`
	CourtIDs []string `json:"court_ids" validate:"required,min=1,dive,required"`
}

type toggleRequest struct {
	CourtID string `json:"court_id" validate:"required"`
	SlotID  string `json:"slot_id" validate:"required"`
}

type changeDateRequest struct {
	Date string `json:"date" validate:"required,datetime=2006-01-02"`
}

type changeCourtsRequest struct {
	CourtIDs []string `json:"court_ids" validate:"required,min=1,dive,required"`
}

type optionsRequest struct {
	Sport         string `json:"sport"`
	Recurring     bool   `json:"recurring"`
	Period        string `json:"period" validate:"omitempty,oneof=ONE_MONTH THREE_MONTHS SIX_MONTHS"`
	Public        bool   `json:"public"`
	NeededPlayers int    `json:"needed_players" validate:"gte=0"`
}

type errorResponse struct {
	Error string `json:"error"`
}
