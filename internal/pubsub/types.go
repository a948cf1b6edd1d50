package pubsub

import "cloud.google.com/go/pubsub"

type client struct {
	client   *pubsub.Client
	teardown func()
}

// EventType represents the type of event/message sent via pubsub.
type EventType string

const (
	// EventRoundSettled carries the full settled round document.
	EventRoundSettled EventType = "round-settled"
	// EventHandicapsUpdated carries the committed handicap map after a
	// stroke-play round.
	EventHandicapsUpdated EventType = "handicaps-updated"
)
