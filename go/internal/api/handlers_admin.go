package api

import (
	"errors"
	"net/http"

	"github.com/ciberteca/rental/go/internal/events"
	"github.com/ciberteca/rental/go/internal/games"
	"github.com/ciberteca/rental/go/internal/logs"
	"github.com/ciberteca/rental/go/internal/models"
	"github.com/ciberteca/rental/go/internal/students"
	"github.com/ciberteca/rental/go/internal/users"
)

func (s *Service) listFeed(w http.ResponseWriter, r *http.Request, key string, fetch func() (interface{}, error)) {
	if r.Method != http.MethodGet {
		writeError(w, "method not allowed")
		return
	}
	data, err := fetch()
	if err != nil {
		writeError(w, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{key: data})
}

func (s *Service) handleGetGamesList(w http.ResponseWriter, r *http.Request) {
	s.listFeed(w, r, "games", func() (interface{}, error) {
		list, err := s.games.ListGames(r.Context())
		if list == nil {
			list = []models.Game{}
		}
		return list, err
	})
}

func (s *Service) handleGetStudentsList(w http.ResponseWriter, r *http.Request) {
	s.listFeed(w, r, "students", func() (interface{}, error) {
		list, err := s.students.ListStudents(r.Context())
		if list == nil {
			list = []models.Student{}
		}
		return list, err
	})
}

func (s *Service) handleGetPlaysList(w http.ResponseWriter, r *http.Request) {
	s.listFeed(w, r, "plays", func() (interface{}, error) {
		list, err := s.plays.ListPlays(r.Context())
		if list == nil {
			list = []models.Play{}
		}
		return list, err
	})
}

func (s *Service) handleGetSanctionsList(w http.ResponseWriter, r *http.Request) {
	s.listFeed(w, r, "sanctions", func() (interface{}, error) {
		list, err := s.sanctions.ListSanctions(r.Context())
		if list == nil {
			list = []models.Sanction{}
		}
		return list, err
	})
}

func (s *Service) handleGetLogsList(w http.ResponseWriter, r *http.Request) {
	s.listFeed(w, r, "logs", func() (interface{}, error) {
		list, err := s.audit.ListLogs(r.Context())
		if list == nil {
			list = []models.Log{}
		}
		return list, err
	})
}

func (s *Service) handleGetUsersList(w http.ResponseWriter, r *http.Request) {
	s.listFeed(w, r, "users", func() (interface{}, error) {
		list, err := s.users.ListActiveUsers(r.Context())
		if list == nil {
			list = []models.User{}
		}
		return list, err
	})
}

type idRequest struct {
	ID int64 `json:"id"`
}

func (s *Service) handleGame(w http.ResponseWriter, r *http.Request) {
	user := requestUser(r)

	switch r.Method {
	case http.MethodPost:
		var req games.CreateGameRequest
		if err := decodeBody(r, &req); err != nil {
			writeError(w, "invalid request body")
			return
		}
		game, err := s.games.CreateGame(r.Context(), req)
		if err != nil {
			writeError(w, err.Error())
			return
		}
		s.audit.Record(r.Context(), user, logs.ActionCreateGame, game.Name)
		s.notify(user, events.MsgGamesUpdated, nil)
		writeSuccess(w)

	case http.MethodPatch:
		var req games.UpdateGameRequest
		if err := decodeBody(r, &req); err != nil {
			writeError(w, "invalid request body")
			return
		}
		game, err := s.games.UpdateGame(r.Context(), req)
		if err != nil {
			writeError(w, err.Error())
			return
		}
		s.audit.Record(r.Context(), user, logs.ActionUpdateGame, game.Name)
		s.notify(user, events.MsgGamesUpdated, nil)
		writeSuccess(w)

	case http.MethodDelete:
		var req idRequest
		if err := decodeBody(r, &req); err != nil || req.ID == 0 {
			writeError(w, "Missing or invalid id in request body")
			return
		}
		game, err := s.games.GetGame(r.Context(), req.ID)
		if err != nil {
			writeError(w, "Game not found")
			return
		}
		if err := s.games.DeleteGame(r.Context(), req.ID); err != nil {
			writeError(w, err.Error())
			return
		}
		s.audit.Record(r.Context(), user, logs.ActionDeleteGame, game.Name)
		s.notify(user, events.MsgGamesUpdated, nil)
		writeSuccess(w)

	default:
		writeError(w, "method not allowed")
	}
}

type studentIDRequest struct {
	ID string `json:"id"`
}

func (s *Service) handleStudent(w http.ResponseWriter, r *http.Request) {
	user := requestUser(r)

	switch r.Method {
	case http.MethodPost:
		var req students.CreateStudentRequest
		if err := decodeBody(r, &req); err != nil {
			writeError(w, "invalid request body")
			return
		}
		student, err := s.students.CreateStudent(r.Context(), req)
		if err != nil {
			writeError(w, err.Error())
			return
		}
		s.audit.Record(r.Context(), user, logs.ActionUpdateStudent, student.ID)
		s.notify(user, events.MsgStudentsUpdated, nil)
		writeSuccess(w)

	case http.MethodPatch:
		var req students.UpdateStudentRequest
		if err := decodeBody(r, &req); err != nil {
			writeError(w, "invalid request body")
			return
		}
		student, err := s.students.UpdateStudent(r.Context(), req)
		if err != nil {
			writeError(w, err.Error())
			return
		}
		s.audit.Record(r.Context(), user, logs.ActionUpdateStudent, student.ID)
		s.notify(user, events.MsgStudentsUpdated, nil)
		writeSuccess(w)

	case http.MethodDelete:
		var req studentIDRequest
		if err := decodeBody(r, &req); err != nil || req.ID == "" {
			writeError(w, "Missing or invalid id in request body")
			return
		}
		if err := s.students.DeleteStudent(r.Context(), req.ID); err != nil {
			writeError(w, "Student not found")
			return
		}
		s.audit.Record(r.Context(), user, logs.ActionDeleteStudent, req.ID)
		s.notify(user, events.MsgStudentsUpdated, nil)
		writeSuccess(w)

	default:
		writeError(w, "method not allowed")
	}
}

func (s *Service) handlePlay(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		writeError(w, "method not allowed")
		return
	}

	var req idRequest
	if err := decodeBody(r, &req); err != nil || req.ID == 0 {
		writeError(w, "Missing or invalid id in request body")
		return
	}

	play, err := s.plays.DeletePlay(r.Context(), req.ID)
	if err != nil {
		writeError(w, "Play not found")
		return
	}

	user := requestUser(r)
	s.audit.Record(r.Context(), user, logs.ActionDeletePlay, play.StudentID)
	s.notify(user, events.MsgPlaysUpdated, &play.GameID)
	writeSuccess(w)
}

func (s *Service) handleUser(w http.ResponseWriter, r *http.Request) {
	actor := requestUser(r)

	switch r.Method {
	case http.MethodPost:
		var req users.CreateUserRequest
		if err := decodeBody(r, &req); err != nil {
			writeError(w, "invalid request body")
			return
		}
		created, reactivated, err := s.users.CreateUser(r.Context(), req)
		if err != nil {
			if errors.Is(err, users.ErrUserExists) {
				writeError(w, "User already exists")
				return
			}
			writeError(w, err.Error())
			return
		}
		if reactivated {
			s.audit.Record(r.Context(), actor, logs.ActionReactivateUser, created.Username)
		} else {
			s.audit.Record(r.Context(), actor, logs.ActionCreateUser, created.Username, created.IsAdmin)
		}
		writeSuccess(w)

	case http.MethodPatch:
		var req users.UpdateUserRequest
		if err := decodeBody(r, &req); err != nil {
			writeError(w, "invalid request body")
			return
		}
		updated, err := s.users.UpdateUser(r.Context(), req)
		if err != nil {
			if errors.Is(err, users.ErrEmailInUse) {
				writeError(w, "Email already in use")
				return
			}
			writeError(w, err.Error())
			return
		}
		s.audit.Record(r.Context(), actor, logs.ActionUpdateUser, updated.Username, updated.IsAdmin)
		writeSuccess(w)

	case http.MethodDelete:
		var req idRequest
		if err := decodeBody(r, &req); err != nil || req.ID == 0 {
			writeError(w, "Missing or invalid id in request body")
			return
		}
		deactivated, err := s.users.DeactivateUser(r.Context(), req.ID)
		if err != nil {
			writeError(w, "User not found")
			return
		}
		s.audit.Record(r.Context(), actor, logs.ActionDeactivateUser, deactivated.Username)
		writeSuccess(w)

	default:
		writeError(w, "method not allowed")
	}
}
