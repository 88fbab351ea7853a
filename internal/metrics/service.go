package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var _ Metrics = (*Service)(nil)

// NewMetricsHandler returns an http.Handler for the given Gatherer.
// If no gatherer is provided, it uses the default one.
func NewMetricsHandler(gatherer ...prometheus.Gatherer) http.Handler {
	gath := prometheus.DefaultGatherer
	if len(gatherer) > 0 {
		gath = gatherer[0]
	}
	return promhttp.HandlerFor(gath, promhttp.HandlerOpts{})
}

// NewService creates and registers the Prometheus metrics.
// If no registerer is provided, it uses the default Prometheus registerer.
func NewService(registerer ...prometheus.Registerer) *Service {
	reg := prometheus.DefaultRegisterer
	if len(registerer) > 0 {
		reg = registerer[0]
	}

	s := &Service{
		Toggles: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "arena_slot_toggles_total",
			Help: "The total number of slot taps, by resulting selection transition.",
		}, []string{"transition"}),
		AvailabilityFetches: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "arena_availability_fetches_total",
			Help: "The total number of court availability fetches.",
		}),
		AvailabilityFetchFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "arena_availability_fetch_failures_total",
			Help: "The total number of court availability fetches that failed.",
		}),
		ReservationsSubmitted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "arena_reservations_submitted_total",
			Help: "The total number of reservations accepted by the arena.",
		}),
		ReservationSubmitFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "arena_reservation_submit_failures_total",
			Help: "The total number of reservation submissions that failed.",
		}),
		SubmitDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "arena_reservation_submit_duration_seconds",
			Help:    "The duration of reservation submissions.",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		SlackNotifSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "arena_slack_notifications_sent_total",
			Help: "The total number of Slack notifications successfully sent.",
		}),
		SlackNotifFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "arena_slack_notifications_failed_total",
			Help: "The total number of Slack notifications that failed to send.",
		}),
		StartupTimeSeconds: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "arena_startup_duration_seconds",
			Help: "The duration of the application startup in seconds.",
		}),
	}

	reg.MustRegister(
		s.Toggles,
		s.AvailabilityFetches,
		s.AvailabilityFetchFailed,
		s.ReservationsSubmitted,
		s.ReservationSubmitFailed,
		s.SubmitDuration,
		s.SlackNotifSent,
		s.SlackNotifFailed,
		s.StartupTimeSeconds,
	)

	return s
}

func (s *Service) IncToggle(transition string) {
	s.Toggles.WithLabelValues(transition).Inc()
}

func (s *Service) IncAvailabilityFetches() {
	s.AvailabilityFetches.Inc()
}

func (s *Service) IncAvailabilityFetchFailures() {
	s.AvailabilityFetchFailed.Inc()
}

func (s *Service) IncReservationsSubmitted() {
	s.ReservationsSubmitted.Inc()
}

func (s *Service) IncReservationSubmitFailures() {
	s.ReservationSubmitFailed.Inc()
}

func (s *Service) ObserveSubmitDuration(duration float64) {
	s.SubmitDuration.Observe(duration)
}

func (s *Service) IncSlackNotifSent() {
	s.SlackNotifSent.Inc()
}

func (s *Service) IncSlackNotifFailed() {
	s.SlackNotifFailed.Inc()
}

func (s *Service) SetStartupTime(duration float64) {
	s.StartupTimeSeconds.Set(duration)
}
