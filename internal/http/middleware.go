package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/go-playground/validator/v10"

	"github.com/mauv0809/arena-booking/internal/arena"
	"github.com/mauv0809/arena-booking/internal/booking"
	"github.com/mauv0809/arena-booking/internal/reservation"
	"github.com/mauv0809/arena-booking/internal/session"
)

// Middleware defines the standard signature for an HTTP middleware.
type Middleware func(http.Handler) http.Handler

// Chain combines multiple middlewares into a single handler.
// The middlewares are applied in the order they are passed.
func Chain(h http.Handler, middlewares ...Middleware) http.Handler {
	for i := len(middlewares) - 1; i >= 0; i-- {
		h = middlewares[i](h)
	}
	return h
}

// contextKey is a custom type to avoid key collisions in context.
type contextKey string

const (
	dryRunKey contextKey = "dryRun"
)

// paramsMiddleware handles common query parameters like 'verbose' and 'dry_run'.
func paramsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log.Info("incoming request", "method", r.Method, "url", r.URL.String())
		// Handle 'verbose' for request-scoped verbose logging.
		if r.URL.Query().Get("verbose") == "true" {
			originalLevel := log.GetLevel()
			log.SetLevel(log.DebugLevel)
			defer log.SetLevel(originalLevel)
		}

		// Handle 'dry_run' and add it to the request context.
		isDryRun := r.URL.Query().Get("dry_run") == "true"
		ctx := context.WithValue(r.Context(), dryRunKey, isDryRun)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// isDryRunFromContext is a helper to safely retrieve the dry_run flag from the request context.
func isDryRunFromContext(r *http.Request) bool {
	dryRun, ok := r.Context().Value(dryRunKey).(bool)
	return ok && dryRun
}

// decode reads a JSON body into dst and validates it.
func (s *Server) decode(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return &badRequestError{err: err}
	}
	if err := s.validate.Struct(dst); err != nil {
		return &badRequestError{err: err}
	}
	return nil
}

type badRequestError struct {
	err error
}

func (e *badRequestError) Error() string { return e.err.Error() }
func (e *badRequestError) Unwrap() error { return e.err }

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("Failed to encode response", "error", err)
	}
}

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	var badRequest *badRequestError
	var validationErrs validator.ValidationErrors
	switch {
	case errors.As(err, &badRequest), errors.As(err, &validationErrs):
		return http.StatusBadRequest
	case errors.Is(err, session.ErrSessionNotFound),
		errors.Is(err, reservation.ErrNotFound),
		errors.Is(err, arena.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, session.ErrSubmissionInProgress),
		errors.Is(err, session.ErrSessionExists),
		errors.Is(err, session.ErrConcurrentModification):
		return http.StatusConflict
	case errors.Is(err, booking.ErrEmptySelection),
		errors.Is(err, booking.ErrUnsupportedSport),
		errors.Is(err, booking.ErrInvalidNeededPlayers),
		errors.Is(err, booking.ErrInvalidRecurrence),
		errors.Is(err, session.ErrCourtNotInSession),
		errors.Is(err, session.ErrSlotNotFound),
		errors.Is(err, session.ErrAvailabilityNotLoaded),
		errors.Is(err, session.ErrInvalidDate),
		errors.Is(err, session.ErrNoCourts):
		return http.StatusUnprocessableEntity
	case errors.Is(err, arena.ErrRequestFailed),
		errors.Is(err, booking.ErrInvalidCourt),
		errors.Is(err, booking.ErrInvalidSlot):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		log.Error("Request failed", "error", err, "status", status)
	} else {
		log.Debug("Request rejected", "error", err, "status", status)
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}
