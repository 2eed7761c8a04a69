package plays

// StartPlayRequest represents the request to start a play session.
type StartPlayRequest struct {
	StudentID string `json:"student_id"`
	GameID    int64  `json:"game_id"`
}

// ReassignRequest moves a student's active play to another game.
type ReassignRequest struct {
	StudentID  string `json:"student_id"`
	FromGameID *int64 `json:"from_game_id,omitempty"`
	ToGameID   int64  `json:"to_game_id"`
}

// Eligibility limits for starting a play.
const (
	WeeklyPlayLimit = 3
	DailyPlayLimit  = 2
)
