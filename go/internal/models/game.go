package models

import (
	"time"
)

// Game represents a rentable game at the center.
type Game struct {
	ID          int64      `json:"id"`
	Name        string     `json:"name"`
	DisplayName string     `json:"displayName"`
	Available   bool       `json:"available"`
	Show        bool       `json:"show"`
	FileRoute   string     `json:"file_route"`
	StartTime   *time.Time `json:"start_time,omitempty"` // nil until the first student starts playing
	Category    string     `json:"category,omitempty"`
}

// PlayData is the per-player slice of a game's occupancy as served by
// the games listing for authenticated requesters.
type PlayData struct {
	StudentID string    `json:"student_id"`
	StartTime time.Time `json:"start_time"`
}

// GameWithPlays is a game plus its current occupancy.
type GameWithPlays struct {
	Game
	Players   int        `json:"players"`
	PlaysData []PlayData `json:"plays_data,omitempty"`
}

// GameStartTime pairs a game with its countdown deadline.
type GameStartTime struct {
	GameID int64     `json:"game_id"`
	Time   time.Time `json:"time"`
}
