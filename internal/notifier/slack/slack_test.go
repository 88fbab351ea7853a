package slack

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	slackapi "github.com/slack-go/slack"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mauv0809/arena-booking/internal/booking"
	"github.com/mauv0809/arena-booking/internal/metrics"
	"github.com/mauv0809/arena-booking/internal/reservation"
)

// mockSlackAPI is a mock implementation of the parts of the slack.Client that we use.
type mockSlackAPI struct {
	postMessageContextFunc func(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error)
}

func (m *mockSlackAPI) PostMessageContext(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error) {
	if m.postMessageContextFunc != nil {
		return m.postMessageContextFunc(ctx, channelID, options...)
	}
	return "C12345", "123456789.12345", nil
}

func testReservation() *reservation.Reservation {
	return &reservation.Reservation{
		ID:               "r1",
		ExternalID:       "arena-77",
		CourtID:          "A",
		CourtName:        "Quadra A",
		Date:             "2024-01-15",
		Start:            booking.MustParseClock("18:00"),
		End:              booking.MustParseClock("20:00"),
		Sport:            "FUTEVOLEI",
		IsRecurring:      true,
		RecurrencePeriod: booking.PeriodOneMonth,
		Occurrences:      5,
		BasePrice:        decimal.NewFromInt(160),
		TotalPrice:       decimal.NewFromInt(800),
	}
}

func TestSendMessage_DryRun(t *testing.T) {
	metrics := metrics.NewMock()
	// Pass nil for the api, as it shouldn't be called in dry-run mode.
	notifier := NewNotifierWithAPI(nil, "C123", time.UTC, metrics)

	message := slackapi.NewBlockMessage()
	_, _, err := notifier.sendMessage(message, true)
	require.NoError(t, err)
	assert.Equal(t, 0, metrics.SlackNotifSent())
}

func TestSendMessage_Success(t *testing.T) {
	postMessageCalled := false
	api := &mockSlackAPI{
		postMessageContextFunc: func(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error) {
			postMessageCalled = true
			assert.Equal(t, "C123", channelID)
			return "C123", "ts123", nil
		},
	}

	metrics := metrics.NewMock()
	notifier := NewNotifierWithAPI(api, "C123", time.UTC, metrics)

	err := notifier.SendReservationNotification(testReservation(), false)

	require.NoError(t, err)
	assert.True(t, postMessageCalled, "PostMessageContext should have been called")
	assert.Equal(t, 1, metrics.SlackNotifSent())
	assert.Equal(t, 0, metrics.SlackNotifFailed())
}

func TestSendMessage_Failure(t *testing.T) {
	expectedErr := errors.New("slack API is down")
	api := &mockSlackAPI{
		postMessageContextFunc: func(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error) {
			return "", "", expectedErr
		},
	}

	metrics := metrics.NewMock()
	notifier := NewNotifierWithAPI(api, "C123", time.UTC, metrics)

	err := notifier.SendSubmissionFailure(booking.ReservationRequest{CourtID: "A"}, errors.New("slot taken"), false)

	require.Error(t, err)
	assert.ErrorIs(t, err, expectedErr)
	assert.Equal(t, 0, metrics.SlackNotifSent())
	assert.Equal(t, 1, metrics.SlackNotifFailed())
}

func blockTexts(t *testing.T, msg slackapi.Message) []string {
	t.Helper()
	var texts []string
	for _, block := range msg.Blocks.BlockSet {
		switch b := block.(type) {
		case *slackapi.HeaderBlock:
			texts = append(texts, b.Text.Text)
		case *slackapi.SectionBlock:
			texts = append(texts, b.Text.Text)
		case *slackapi.ContextBlock:
			for _, el := range b.ContextElements.Elements {
				if txt, ok := el.(*slackapi.TextBlockObject); ok {
					texts = append(texts, txt.Text)
				}
			}
		}
	}
	return texts
}

func TestFormatReservationNotification(t *testing.T) {
	notifier := NewNotifierWithAPI(nil, "C123", time.UTC, metrics.NewMock())

	t.Run("recurring", func(t *testing.T) {
		texts := blockTexts(t, notifier.formatReservationNotification(testReservation()))
		require.Len(t, texts, 4)
		assert.Contains(t, texts[1], "Court: Quadra A")
		assert.Contains(t, texts[1], "Monday 15 Jan, 18:00-20:00")
		assert.Contains(t, texts[2], "Per session: 160.00")
		assert.Contains(t, texts[2], "Weekly, 5 sessions (until 12 Feb)")
		assert.Contains(t, texts[2], "Total: 800.00")
		assert.Equal(t, "Arena ref: arena-77", texts[3])
	})

	t.Run("public one-off", func(t *testing.T) {
		r := testReservation()
		r.IsRecurring = false
		r.RecurrencePeriod = ""
		r.Occurrences = 1
		r.IsPublic = true
		r.NeededPlayers = 2
		r.ExternalID = ""
		texts := blockTexts(t, notifier.formatReservationNotification(r))
		require.Len(t, texts, 4)
		assert.NotContains(t, texts[2], "Weekly")
		assert.Contains(t, texts[3], "looking for 2 players")
	})
}

func TestFormatSubmissionFailure(t *testing.T) {
	notifier := NewNotifierWithAPI(nil, "C123", time.UTC, metrics.NewMock())

	msg := notifier.formatSubmissionFailure(booking.ReservationRequest{CourtID: "A", Date: "2024-01-15", SlotIDs: []string{"A-18", "A-19"}}, errors.New("slot taken"))
	texts := blockTexts(t, msg)
	require.Len(t, texts, 3)
	assert.Contains(t, texts[1], "Slots: A-18, A-19")
	assert.Equal(t, "slot taken", texts[2])
}
