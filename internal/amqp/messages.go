package amqp

import (
	"encoding/json"
	"errors"
	"time"
)

// Record kinds carried by SyncMessage.
const (
	KindMeal        = "meal"
	KindTransaction = "transaction"
)

var ErrInvalidMessage = errors.New("invalid sync message")

// SyncMessage announces a stored record that should be exported. It carries
// only the identity; the worker reads the record itself from storage.
type SyncMessage struct {
	Kind      string    `json:"kind"`
	ID        string    `json:"id"`
	Version   int64     `json:"version"`
	Timestamp time.Time `json:"timestamp"`
}

func NewSyncMessage(kind, id string, version int64) *SyncMessage {
	return &SyncMessage{Kind: kind, ID: id, Version: version, Timestamp: time.Now().UTC()}
}

func (m *SyncMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// SyncMessageFromJSON decodes and checks a message body.
func SyncMessageFromJSON(data []byte) (*SyncMessage, error) {
	var msg SyncMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if msg.ID == "" || (msg.Kind != KindMeal && msg.Kind != KindTransaction) {
		return nil, ErrInvalidMessage
	}
	return &msg, nil
}
