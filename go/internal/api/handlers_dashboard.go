package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/ciberteca/rental/go/internal/events"
	"github.com/ciberteca/rental/go/internal/logs"
	"github.com/ciberteca/rental/go/internal/models"
	"github.com/ciberteca/rental/go/internal/plays"
	"github.com/ciberteca/rental/go/internal/sanctions"
)

// startTimeSentinel stands in for games that have never been played, so
// their countdown renders as elapsed.
var startTimeSentinel = time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)

func (s *Service) handleGetGames(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, "method not allowed")
		return
	}

	authenticated := requestUser(r) != ""
	games, err := s.games.ListGamesWithPlays(r.Context(), authenticated)
	if err != nil {
		writeError(w, err.Error())
		return
	}
	if games == nil {
		games = []models.GameWithPlays{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"games": games})
}

func (s *Service) handleGetStartTimes(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, "method not allowed")
		return
	}

	starts, err := s.games.ListStartTimes(r.Context())
	if err != nil {
		writeError(w, err.Error())
		return
	}
	for i := range starts {
		if starts[i].Time.IsZero() {
			starts[i].Time = startTimeSentinel
		}
	}
	if starts == nil {
		starts = []models.GameStartTime{}
	}
	writeJSON(w, http.StatusOK, starts)
}

func (s *Service) handleGetPlayers(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, "method not allowed")
		return
	}

	gameID, err := strconv.ParseInt(r.URL.Query().Get("game-id"), 10, 64)
	if err != nil {
		writeError(w, "missing or invalid game-id")
		return
	}

	players, err := s.plays.ListActiveByGame(r.Context(), gameID)
	if err != nil {
		writeError(w, err.Error())
		return
	}
	if players == nil {
		players = []models.Play{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "success",
		"players": players,
	})
}

type playActionRequest struct {
	StudentID string `json:"student_id"`
	GameID    int64  `json:"game_id"`
}

func (s *Service) handleSetPlayEnded(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, "method not allowed")
		return
	}

	var req playActionRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, "invalid request body")
		return
	}

	play, err := s.plays.EndPlay(r.Context(), req.StudentID)
	if err != nil {
		writeError(w, "Play not found")
		return
	}

	user := requestUser(r)
	s.audit.Record(r.Context(), user, logs.ActionEndPlay, req.StudentID)
	s.notify(user, events.MsgPlaysUpdated, &play.GameID)
	writeSuccess(w)
}

func (s *Service) handleAddStudentToGame(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, "method not allowed")
		return
	}

	var req playActionRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, "invalid request body")
		return
	}

	play, err := s.plays.StartPlay(r.Context(), plays.StartPlayRequest{
		StudentID: req.StudentID,
		GameID:    req.GameID,
	})
	if err != nil {
		if errors.Is(err, plays.ErrAlreadyPlaying) {
			writeError(w, "Student is already playing")
			return
		}
		writeError(w, err.Error())
		return
	}

	user := requestUser(r)
	s.audit.Record(r.Context(), user, logs.ActionStartPlay, req.StudentID)
	s.notify(user, events.MsgPlaysUpdated, &play.GameID)
	writeJSON(w, http.StatusOK, statusResponse{Status: "success", Message: "Student added to the game"})
}

func (s *Service) handleAddStudentToSanctioned(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, "method not allowed")
		return
	}

	var req sanctions.CreateSanctionRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, "invalid request body")
		return
	}

	sanction, err := s.sanctions.CreateSanction(r.Context(), req)
	if err != nil {
		writeError(w, err.Error())
		return
	}

	s.audit.RecordDetails(r.Context(), requestUser(r), logs.ActionSanction, sanction, req.StudentID)
	writeSuccess(w)
}

type changeGameRequest struct {
	StudentID  string `json:"student_id"`
	GameID     int64  `json:"game_id"`
	FromGameID *int64 `json:"from_game_id,omitempty"`
}

func (s *Service) handleChangeStudentGame(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, "method not allowed")
		return
	}

	var req changeGameRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, "invalid request body")
		return
	}

	play, fromGameID, err := s.plays.Reassign(r.Context(), plays.ReassignRequest{
		StudentID:  req.StudentID,
		FromGameID: req.FromGameID,
		ToGameID:   req.GameID,
	})
	if err != nil {
		writeError(w, err.Error())
		return
	}

	user := requestUser(r)
	s.audit.Record(r.Context(), user, logs.ActionMovePlay, req.StudentID)
	s.notify(user, events.MsgPlaysUpdated, &play.GameID)
	if fromGameID != play.GameID {
		s.notify(user, events.MsgPlaysUpdated, &fromGameID)
	}
	writeSuccess(w)
}
