package models

import (
	"encoding/json"
	"time"
)

// Log records one admin action for the audit table.
type Log struct {
	ID       int64           `json:"id"`
	Action   string          `json:"actionPerformed"`
	Username string          `json:"username"`
	Time     time.Time       `json:"time"`
	Details  json.RawMessage `json:"details,omitempty"`
}
