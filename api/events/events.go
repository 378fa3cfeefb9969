/* events.go
 * Contains the game result event and the bus interface used to deliver it. Recording a game result publishes a
 * GameResultRecorded event; the Recomputer consumes it and brings the isCorrect flag of every pick on that game in
 * line with the result
 * Authors: Zachary Bower
 */

package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// EventTypeGameResultRecorded is the type name carried in the event envelope
const EventTypeGameResultRecorded = "GameResultRecorded"

// GameResultRecorded is published whenever an admin marks a game complete (with a winner) or reopens it
type GameResultRecorded struct {
	ID         uuid.UUID          `json:"eventId"`
	GameID     primitive.ObjectID `json:"gameId"`
	PoolID     primitive.ObjectID `json:"poolId"`
	Winner     string             `json:"winner"`
	IsComplete bool               `json:"isComplete"`
	RecordedAt time.Time          `json:"recordedAt"`
}

// NewGameResultRecorded creates an event with a fresh id
func NewGameResultRecorded(gameID, poolID primitive.ObjectID, winner string, isComplete bool, recordedAt time.Time) GameResultRecorded {
	return GameResultRecorded{
		ID:         uuid.New(),
		GameID:     gameID,
		PoolID:     poolID,
		Winner:     winner,
		IsComplete: isComplete,
		RecordedAt: recordedAt.UTC(),
	}
}

// Handler processes a single event
type Handler func(ctx context.Context, event GameResultRecorded) error

// Bus delivers game result events to subscribed handlers
type Bus interface {
	Publish(ctx context.Context, event GameResultRecorded) error
	Subscribe(handler Handler) error
	Close() error
}

// envelope is the wire form of an event
type envelope struct {
	EventType string             `json:"eventType"`
	Payload   GameResultRecorded `json:"payload"`
}

// encodeEvent serialises an event for transport
func encodeEvent(event GameResultRecorded) ([]byte, error) {
	data, err := json.Marshal(envelope{EventType: EventTypeGameResultRecorded, Payload: event})
	if err != nil {
		return nil, fmt.Errorf("marshal event: %w", err)
	}
	return data, nil
}

// decodeEvent parses an event received from transport
func decodeEvent(data []byte) (GameResultRecorded, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return GameResultRecorded{}, fmt.Errorf("unmarshal event: %w", err)
	}
	if env.EventType != EventTypeGameResultRecorded {
		return GameResultRecorded{}, fmt.Errorf("unexpected event type '%s'", env.EventType)
	}
	return env.Payload, nil
}
