package http

import (
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/mauv0809/arena-booking/internal/config"
	"github.com/mauv0809/arena-booking/internal/metrics"
	"github.com/mauv0809/arena-booking/internal/processor"
	"github.com/mauv0809/arena-booking/internal/pubsub"
	"github.com/mauv0809/arena-booking/internal/reservation"
	"github.com/mauv0809/arena-booking/internal/session"
)

func NewServer(sessions *session.Service, reservations reservation.Store, metricsSvc metrics.Metrics, metricsHandler http.Handler, cfg config.Config, processor *processor.Processor, pubsub pubsub.PubSubClient) *Server {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	server := &Server{
		Sessions:       sessions,
		Reservations:   reservations,
		Metrics:        metricsSvc,
		MetricsHandler: metricsHandler,
		Cfg:            cfg,
		Processor:      processor,
		Router:         http.NewServeMux(),
		pubsub:         pubsub,
		validate:       validator.New(validator.WithRequiredStructEnabled()),
	}

	server.routes()
	return server
}

func (s *Server) routes() {
	// All handlers are wrapped with middleware using the Chain helper.
	// e.g. Chain(s.MyHandler(), paramsMiddleware, authMiddleware)
	s.Router.Handle("GET /metrics", s.MetricsHandler)
	s.Router.Handle("GET /health", Chain(s.HealthCheckHandler(), paramsMiddleware))

	s.Router.Handle("POST /sessions", Chain(s.OpenSessionHandler(), paramsMiddleware))
	s.Router.Handle("GET /sessions/{id}", Chain(s.GetSessionHandler(), paramsMiddleware))
	s.Router.Handle("DELETE /sessions/{id}", Chain(s.CloseSessionHandler(), paramsMiddleware))
	s.Router.Handle("GET /sessions/{id}/courts/{courtID}/slots", Chain(s.AvailabilityHandler(), paramsMiddleware))
	s.Router.Handle("POST /sessions/{id}/toggle", Chain(s.ToggleHandler(), paramsMiddleware))
	s.Router.Handle("PUT /sessions/{id}/date", Chain(s.ChangeDateHandler(), paramsMiddleware))
	s.Router.Handle("PUT /sessions/{id}/courts", Chain(s.ChangeCourtsHandler(), paramsMiddleware))
	s.Router.Handle("PUT /sessions/{id}/options", Chain(s.SetOptionsHandler(), paramsMiddleware))
	s.Router.Handle("DELETE /sessions/{id}/selection", Chain(s.CancelSelectionHandler(), paramsMiddleware))
	s.Router.Handle("GET /sessions/{id}/summary", Chain(s.SummaryHandler(), paramsMiddleware))
	s.Router.Handle("POST /sessions/{id}/confirm", Chain(s.ConfirmHandler(), paramsMiddleware))

	s.Router.Handle("GET /reservations", Chain(s.ListReservationsHandler(), paramsMiddleware))
	s.Router.Handle("GET /reservations/export.xlsx", Chain(s.ExportReservationsHandler(), paramsMiddleware))
	s.Router.Handle("GET /reservations/{id}", Chain(s.GetReservationHandler(), paramsMiddleware))
	s.Router.Handle("GET /reservations/{id}/calendar.ics", Chain(s.CalendarHandler(), paramsMiddleware))

	s.Router.Handle("POST /pubsub/reservation-submitted", Chain(s.ReservationSubmittedHandler(), paramsMiddleware))
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Router.ServeHTTP(w, r)
}
