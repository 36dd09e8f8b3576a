package amqp

import (
	"encoding/json"
	"time"
)

// ExportMessage is the lightweight queue message for exporting one
// transaction to the Google Sheets backup. It carries only ids; the
// worker fetches the full row from the database.
type ExportMessage struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Timestamp time.Time `json:"timestamp"`
}

// NewExportMessage creates a new export message
func NewExportMessage(id, userID int64) *ExportMessage {
	return &ExportMessage{
		ID:        id,
		UserID:    userID,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *ExportMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// ExportMessageFromJSON creates a message from JSON bytes
func ExportMessageFromJSON(data []byte) (*ExportMessage, error) {
	var msg ExportMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
