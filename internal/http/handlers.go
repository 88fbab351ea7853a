package http

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/charmbracelet/log"

	"github.com/mauv0809/arena-booking/internal/booking"
	"github.com/mauv0809/arena-booking/internal/pubsub"
	"github.com/mauv0809/arena-booking/internal/reservation"
)

func (s *Server) HealthCheckHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Debug("Received health check request")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "OK!")
	}
}

func (s *Server) OpenSessionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req openSessionRequest
		if err := s.decode(r, &req); err != nil {
			writeError(w, err)
			return
		}
		sess, err := s.Sessions.Open(r.Context(), req.UserID, req.Date, req.CourtIDs)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, sess)
	}
}

func (s *Server) GetSessionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := s.Sessions.Get(r.Context(), r.PathValue("id"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, sess)
	}
}

func (s *Server) CloseSessionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := s.Sessions.Close(r.Context(), r.PathValue("id")); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func (s *Server) AvailabilityHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		avail, err := s.Sessions.Availability(r.Context(), r.PathValue("id"), r.PathValue("courtID"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, avail)
	}
}

func (s *Server) ToggleHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req toggleRequest
		if err := s.decode(r, &req); err != nil {
			writeError(w, err)
			return
		}
		res, err := s.Sessions.Toggle(r.Context(), r.PathValue("id"), req.CourtID, req.SlotID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, res)
	}
}

func (s *Server) ChangeDateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req changeDateRequest
		if err := s.decode(r, &req); err != nil {
			writeError(w, err)
			return
		}
		sess, err := s.Sessions.ChangeDate(r.Context(), r.PathValue("id"), req.Date)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, sess)
	}
}

func (s *Server) ChangeCourtsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req changeCourtsRequest
		if err := s.decode(r, &req); err != nil {
			writeError(w, err)
			return
		}
		sess, err := s.Sessions.ChangeCourts(r.Context(), r.PathValue("id"), req.CourtIDs)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, sess)
	}
}

func (s *Server) SetOptionsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req optionsRequest
		if err := s.decode(r, &req); err != nil {
			writeError(w, err)
			return
		}
		opts := booking.BookingOptions{
			Sport: req.Sport,
			Recurrence: booking.RecurrencePolicy{
				Recurring: req.Recurring,
				Period:    booking.RecurrencePeriod(req.Period),
			},
			Public:        req.Public,
			NeededPlayers: req.NeededPlayers,
		}
		sess, err := s.Sessions.SetOptions(r.Context(), r.PathValue("id"), opts)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, sess)
	}
}

func (s *Server) CancelSelectionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := s.Sessions.Cancel(r.Context(), r.PathValue("id"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, sess)
	}
}

func (s *Server) SummaryHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		summary, err := s.Sessions.Summary(r.Context(), r.PathValue("id"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, summary)
	}
}

func (s *Server) ConfirmHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		isDryRun := isDryRunFromContext(r)
		res, err := s.Sessions.Confirm(r.Context(), r.PathValue("id"), isDryRun)
		if err != nil {
			writeError(w, err)
			return
		}
		status := http.StatusCreated
		if isDryRun {
			status = http.StatusOK
		}
		writeJSON(w, status, res)
	}
}

func (s *Server) listReservations(r *http.Request) ([]*reservation.Reservation, error) {
	if courtID := r.URL.Query().Get("court_id"); courtID != "" {
		return s.Reservations.ListByCourt(courtID)
	}
	return s.Reservations.List()
}

func (s *Server) ListReservationsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		reservations, err := s.listReservations(r)
		if err != nil {
			writeError(w, err)
			return
		}
		if reservations == nil {
			reservations = []*reservation.Reservation{}
		}
		writeJSON(w, http.StatusOK, reservations)
	}
}

func (s *Server) GetReservationHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, err := s.Reservations.Get(r.PathValue("id"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, res)
	}
}

func (s *Server) ExportReservationsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		reservations, err := s.listReservations(r)
		if err != nil {
			writeError(w, err)
			return
		}
		buf, err := reservation.Export(reservations)
		if err != nil {
			writeError(w, err)
			return
		}
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", `attachment; filename="reservations.xlsx"`)
		w.WriteHeader(http.StatusOK)
		if _, err := buf.WriteTo(w); err != nil {
			log.Error("Failed to write export", "error", err)
		}
	}
}

func (s *Server) CalendarHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, err := s.Reservations.Get(r.PathValue("id"))
		if err != nil {
			writeError(w, err)
			return
		}
		cal, err := reservation.Calendar(res, s.Cfg.Location)
		if err != nil {
			writeError(w, err)
			return
		}
		w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
		w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="reservation-%s.ics"`, res.ID))
		w.WriteHeader(http.StatusOK)
		io.WriteString(w, cal)
	}
}

// ReservationSubmittedHandler is the push endpoint of the reservation-submitted subscription.
func (s *Server) ReservationSubmittedHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		bodyBytes, err := io.ReadAll(r.Body)
		if err != nil {
			log.Error("Failed to read request body", "error", err)
			http.Error(w, "Failed to read request body", http.StatusInternalServerError)
			return
		}
		log.Debug("Received reservation-submitted message", "body", string(bodyBytes))

		var envelope pubsub.PushEnvelope
		if err := json.Unmarshal(bodyBytes, &envelope); err != nil {
			log.Error("Failed to unmarshal wrapper JSON", "error", err)
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}
		// Decode base64 to raw MessagePack bytes
		rawData, err := base64.StdEncoding.DecodeString(envelope.Message.Data)
		if err != nil {
			log.Error("Failed to decode base64 data", "error", err)
			http.Error(w, "Invalid base64 data", http.StatusBadRequest)
			return
		}
		var res reservation.Reservation
		if err := s.pubsub.ProcessMessage(rawData, &res); err != nil {
			http.Error(w, "Invalid message payload", http.StatusBadRequest)
			return
		}
		if err := s.Processor.HandleSubmitted(&res, isDryRunFromContext(r)); err != nil {
			// A non-2xx answer makes Pub/Sub redeliver the message.
			http.Error(w, "Failed to notify reservation", http.StatusInternalServerError)
			return
		}
		w.Write([]byte("OK"))
	}
}
