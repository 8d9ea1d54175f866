package domain

import (
	"encoding/json"
	"time"
)

// MedicalRecord is stored with its payload as raw JSON; shape validation
// happens at the API boundary, the store treats it as opaque.
type MedicalRecord struct {
	ID        string
	UserID    string
	Type      string
	Date      time.Time
	Payload   json.RawMessage
	CreatedAt time.Time
	UpdatedAt time.Time
}
