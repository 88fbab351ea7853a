package slack

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/slack-go/slack"

	"github.com/mauv0809/arena-booking/internal/booking"
	"github.com/mauv0809/arena-booking/internal/metrics"
	"github.com/mauv0809/arena-booking/internal/notifier"
	"github.com/mauv0809/arena-booking/internal/reservation"
)

// slackClient is an interface that contains the methods from the slack.Client that we use.
// This allows for easy mocking in tests.
type slackClient interface {
	PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error)
}

var _ notifier.Notifier = &Notifier{}

// Notifier posts reservation updates to the venue's Slack channel.
type Notifier struct {
	api       slackClient
	channelID string
	metrics   metrics.Metrics
	loc       *time.Location
}

// NewNotifier creates a new Notifier.
func NewNotifier(token, channelID string, loc *time.Location, metrics metrics.Metrics) *Notifier {
	api := slack.New(token)
	return NewNotifierWithAPI(api, channelID, loc, metrics)
}

// NewNotifierWithAPI creates a new Notifier with a specific slack.Client instance.
// Useful for tests that need to intercept API calls.
func NewNotifierWithAPI(api slackClient, channelID string, loc *time.Location, metrics metrics.Metrics) *Notifier {
	if loc == nil {
		loc = time.UTC
	}
	return &Notifier{
		api:       api,
		channelID: channelID,
		metrics:   metrics,
		loc:       loc,
	}
}

func (s *Notifier) sendMessage(message slack.Message, dryRun bool) (string, string, error) {
	if dryRun {
		jsonMsg, _ := json.MarshalIndent(message, "", "  ")
		log.Info("[Dry Run] Would send Slack message", "channel", s.channelID, "message", string(jsonMsg))
		return "dry-run-ts", "dry-run-thread-ts", nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	channelID, timestamp, err := s.api.PostMessageContext(
		ctx,
		s.channelID,
		slack.MsgOptionBlocks(message.Blocks.BlockSet...),
		slack.MsgOptionAsUser(true),
	)

	if err != nil {
		s.metrics.IncSlackNotifFailed()
		log.Error("Failed to send Slack message", "error", err, "channel", channelID)
		return "", "", fmt.Errorf("failed to post message: %w", err)
	}

	s.metrics.IncSlackNotifSent()
	log.Info("Successfully sent Slack message", "channel", channelID, "timestamp", timestamp)
	return channelID, timestamp, nil
}

func (s *Notifier) SendReservationNotification(r *reservation.Reservation, dryRun bool) error {
	msg := s.formatReservationNotification(r)
	_, _, err := s.sendMessage(msg, dryRun)
	return err
}

func (s *Notifier) SendSubmissionFailure(req booking.ReservationRequest, reason error, dryRun bool) error {
	msg := s.formatSubmissionFailure(req, reason)
	_, _, err := s.sendMessage(msg, dryRun)
	return err
}

// formatReservationNotification creates the Slack message for a new reservation using Block Kit.
func (s *Notifier) formatReservationNotification(r *reservation.Reservation) slack.Message {
	blocks := make([]slack.Block, 0)

	headerText := slack.NewTextBlockObject("plain_text", "🏐 New reservation! 🏐", true, false)
	blocks = append(blocks, slack.NewHeaderBlock(headerText))

	court := r.CourtName
	if court == "" {
		court = r.CourtID
	}
	dayStr := r.Date
	if day, err := time.ParseInLocation(booking.DateLayout, r.Date, s.loc); err == nil {
		dayStr = day.Format("Monday 02 Jan")
	}
	detailsText := fmt.Sprintf("Court: %s\nSport: %s\nTime: %s, %s-%s", court, r.Sport, dayStr, r.Start, r.End)
	blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", detailsText, true, false), nil, nil))

	priceLines := []string{fmt.Sprintf("Per session: %s", r.BasePrice.StringFixed(2))}
	if r.IsRecurring {
		limit := ""
		if dates, err := r.OccurrenceDates(s.loc); err == nil && len(dates) > 0 {
			limit = fmt.Sprintf(" (until %s)", dates[len(dates)-1].Format("02 Jan"))
		}
		priceLines = append(priceLines, fmt.Sprintf("Weekly, %d sessions%s", r.Occurrences, limit))
	}
	priceLines = append(priceLines, fmt.Sprintf("Total: %s", r.TotalPrice.StringFixed(2)))
	blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", strings.Join(priceLines, "\n"), true, false), nil, nil))

	var contextElements []slack.MixedElement
	if r.IsPublic {
		contextElements = append(contextElements, slack.NewTextBlockObject("plain_text", fmt.Sprintf("🙋 Open game, looking for %d players", r.NeededPlayers), true, false))
	}
	if r.ExternalID != "" {
		contextElements = append(contextElements, slack.NewTextBlockObject("plain_text", "Arena ref: "+r.ExternalID, true, false))
	}
	if len(contextElements) > 0 {
		blocks = append(blocks, slack.NewContextBlock("", contextElements...))
	}

	return slack.NewBlockMessage(blocks...)
}

// formatSubmissionFailure creates the Slack message for a reservation the arena did not accept.
func (s *Notifier) formatSubmissionFailure(req booking.ReservationRequest, reason error) slack.Message {
	headerText := slack.NewTextBlockObject("plain_text", "⚠️ Reservation failed", true, false)
	detailsText := fmt.Sprintf("Court: %s\nDate: %s\nSlots: %s", req.CourtID, req.Date, strings.Join(req.SlotIDs, ", "))
	reasonText := "unknown error"
	if reason != nil {
		reasonText = reason.Error()
	}
	return slack.NewBlockMessage(
		slack.NewHeaderBlock(headerText),
		slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", detailsText, true, false), nil, nil),
		slack.NewContextBlock("", slack.NewTextBlockObject("plain_text", reasonText, false, false)),
	)
}
