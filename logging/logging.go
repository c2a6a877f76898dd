package logging

import (
	"context"
	"time"
)

// EventType names a client lifecycle or gameplay observation.
type EventType string

const (
	EventConnect      EventType = "session.connect"
	EventDisconnect   EventType = "session.disconnect"
	EventRoomJoined   EventType = "room.joined"
	EventStateSync    EventType = "room.state_sync"
	EventRollRequest  EventType = "turn.roll_request"
	EventRollRejected EventType = "turn.roll_rejected"
	EventDiceSettled  EventType = "turn.dice_settled"
	EventGameOver     EventType = "game.over"
	EventGameReset    EventType = "game.reset"
	EventServerError  EventType = "server.error"
)

type Severity int

const (
	SeverityDebug Severity = iota
	SeverityInfo
	SeverityWarn
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityDebug:
		return "debug"
	case SeverityInfo:
		return "info"
	case SeverityWarn:
		return "warn"
	case SeverityError:
		return "error"
	default:
		return "unknown"
	}
}

// Event is one structured log record. Room and Player are empty when the
// event precedes room membership or has no actor.
type Event struct {
	Type     EventType      `json:"type"`
	Time     time.Time      `json:"time"`
	Severity Severity       `json:"severity"`
	Room     string         `json:"room,omitempty"`
	Player   string         `json:"player,omitempty"`
	Message  string         `json:"message,omitempty"`
	Fields   map[string]any `json:"fields,omitempty"`
}

type Publisher interface {
	Publish(ctx context.Context, event Event)
}

type PublisherFunc func(ctx context.Context, event Event)

func (f PublisherFunc) Publish(ctx context.Context, event Event) {
	if f == nil {
		return
	}
	f(ctx, event)
}

type nopPublisher struct{}

func (nopPublisher) Publish(context.Context, Event) {}

// NopPublisher discards everything; the default for tests.
func NopPublisher() Publisher {
	return nopPublisher{}
}
