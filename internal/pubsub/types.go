package pubsub

import "cloud.google.com/go/pubsub"

type client struct {
	client   *pubsub.Client
	teardown func()
}

// EventType represents the type of event/message sent via pubsub.
type EventType string

const (
	EventReservationSubmitted EventType = "reservation-submitted"
)

// PushEnvelope is the JSON body Pub/Sub push subscriptions POST to the service.
type PushEnvelope struct {
	Subscription string `json:"subscription"`
	Message      struct {
		ID   string `json:"messageId"`
		Data string `json:"data"` // base64-encoded message payload
	} `json:"message"`
}
