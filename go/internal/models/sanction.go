package models

import (
	"time"
)

// Sanction is a punitive restriction applied to a student, optionally
// referencing the play that triggered it.
type Sanction struct {
	ID        int64     `json:"id"`
	StudentID string    `json:"student_id"`
	Cause     string    `json:"cause"`
	PlayID    *int64    `json:"play_id,omitempty"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
}

// Active reports whether the sanction is still in force at the given time.
func (s Sanction) Active(now time.Time) bool {
	return s.EndTime.After(now)
}
