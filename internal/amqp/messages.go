package amqp

import (
	"encoding/json"
	"errors"
	"time"
)

// EntryEventMessage describes one committed change to a food or fitness
// entry. It carries the full entry so consumers never read the database.
type EntryEventMessage struct {
	Event       string    `json:"event"`
	Kind        string    `json:"kind"`
	EntryID     int64     `json:"entry_id"`
	PrincipalID int64     `json:"principal_id"`
	Date        string    `json:"date,omitempty"`
	Name        string    `json:"name,omitempty"`
	Calories    int64     `json:"calories,omitempty"`
	Protein     int64     `json:"protein,omitempty"`
	Fat         int64     `json:"fat,omitempty"`
	Carbs       int64     `json:"carbs,omitempty"`
	KcalBurned  int64     `json:"kcal_burned,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}

// NewEntryEventMessage stamps a message for event on the given entry.
func NewEntryEventMessage(event, kind string, entryID, principalID int64) *EntryEventMessage {
	return &EntryEventMessage{
		Event:       event,
		Kind:        kind,
		EntryID:     entryID,
		PrincipalID: principalID,
		Timestamp:   time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *EntryEventMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// EntryEventMessageFromJSON decodes and sanity-checks a message body.
func EntryEventMessageFromJSON(data []byte) (*EntryEventMessage, error) {
	var msg EntryEventMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if msg.Event == "" || msg.Kind == "" || msg.EntryID <= 0 || msg.PrincipalID <= 0 {
		return nil, errors.New("entry event message missing event, kind, entry_id or principal_id")
	}
	return &msg, nil
}
