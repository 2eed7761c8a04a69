package models

import (
	"time"
)

// Play represents one student's session on one game.
type Play struct {
	ID        int64     `json:"id"`
	StudentID string    `json:"student_id"`
	GameID    int64     `json:"game_id"`
	GameName  string    `json:"game_name,omitempty"`
	Ended     bool      `json:"ended"`
	Time      time.Time `json:"time"`
}
