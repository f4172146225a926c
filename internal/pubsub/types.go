package pubsub

import "cloud.google.com/go/pubsub"

type client struct {
	client   *pubsub.Client
	teardown func()
}

// EventType represents the type of event/message sent via pubsub.
type EventType string

const (
	EventUpdatePlayerStats EventType = "update-player-stats"
	EventNotifyResult      EventType = "notify-result"
)

// GameCompletedEvent is the payload published when a recording session
// finishes a game. Consumers roll the box score into player stats and send
// the result notification.
type GameCompletedEvent struct {
	GameID string `msgpack:"game_id"`
}
