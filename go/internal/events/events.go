package events

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Update messages understood by every dashboard client.
const (
	MsgGamesUpdated    = "Games updated"
	MsgPlaysUpdated    = "Plays updated"
	MsgStudentsUpdated = "Students updated"
)

// UpdateMessage is the wire shape relayed over /ws/updates/ and the NATS
// bridge. Info carries the affected game id for play updates, nil
// otherwise. Sender is the username of the client that performed the
// mutation; receivers drop their own echoes.
type UpdateMessage struct {
	Message string `json:"message"`
	Info    *int64 `json:"info,omitempty"`
	Sender  string `json:"sender"`
}

// Validate rejects messages that no handler would dispatch on.
func (m UpdateMessage) Validate() error {
	switch m.Message {
	case MsgGamesUpdated, MsgStudentsUpdated:
		return nil
	case MsgPlaysUpdated:
		if m.Info == nil {
			return fmt.Errorf("%q requires a game id in info", m.Message)
		}
		return nil
	default:
		return fmt.Errorf("unknown update message %q", m.Message)
	}
}

// Envelope wraps an update message for the NATS stream so nodes can
// deduplicate, trace, and drop their own deliveries.
type Envelope struct {
	EventID   uuid.UUID     `json:"event_id"`
	Node      string        `json:"node"`
	Timestamp time.Time     `json:"timestamp"`
	Update    UpdateMessage `json:"update"`
}

// NewEnvelope stamps an update message for publishing from a node.
func NewEnvelope(node string, update UpdateMessage) Envelope {
	return Envelope{
		EventID:   uuid.New(),
		Node:      node,
		Timestamp: time.Now().UTC(),
		Update:    update,
	}
}

// Marshal serializes the envelope for the wire.
func (e Envelope) Marshal() ([]byte, error) {
	data, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("marshal update envelope: %w", err)
	}
	return data, nil
}
