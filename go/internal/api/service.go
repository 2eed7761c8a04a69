package api

import (
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/ciberteca/rental/go/internal/events"
	"github.com/ciberteca/rental/go/internal/games"
	"github.com/ciberteca/rental/go/internal/logs"
	"github.com/ciberteca/rental/go/internal/plays"
	"github.com/ciberteca/rental/go/internal/sanctions"
	"github.com/ciberteca/rental/go/internal/students"
	"github.com/ciberteca/rental/go/internal/users"
)

// Broadcaster fans an update out to this node's connected dashboards.
type Broadcaster interface {
	Broadcast(msg events.UpdateMessage)
}

// Service is the REST surface of the rental system: the dashboard data
// feeds, the front-desk actions and the admin CRUD tables. Mutations
// are followed by an update broadcast so open dashboards refresh.
type Service struct {
	games     *games.App
	students  *students.App
	plays     *plays.App
	sanctions *sanctions.App
	users     *users.App
	audit     *logs.App

	broadcaster Broadcaster
	csrfToken   string
}

// NewService creates the REST service.
func NewService(gamesApp *games.App, studentsApp *students.App, playsApp *plays.App,
	sanctionsApp *sanctions.App, usersApp *users.App, audit *logs.App,
	broadcaster Broadcaster, csrfToken string) *Service {
	return &Service{
		games:       gamesApp,
		students:    studentsApp,
		plays:       playsApp,
		sanctions:   sanctionsApp,
		users:       usersApp,
		audit:       audit,
		broadcaster: broadcaster,
		csrfToken:   csrfToken,
	}
}

// RegisterRoutes registers every REST route on the mux.
func (s *Service) RegisterRoutes(mux *http.ServeMux) {
	// Dashboard feeds
	mux.HandleFunc("/api/get-games/", s.handleGetGames)
	mux.HandleFunc("/api/get-games-start-time/", s.handleGetStartTimes)
	mux.HandleFunc("/api/get-players/", s.handleGetPlayers)

	// Front desk actions
	mux.HandleFunc("/api/set-play-ended", s.requireCSRF(s.handleSetPlayEnded))
	mux.HandleFunc("/api/add-student-to-game", s.requireCSRF(s.handleAddStudentToGame))
	mux.HandleFunc("/api/add-student-to-sanctioned", s.requireCSRF(s.handleAddStudentToSanctioned))
	mux.HandleFunc("/api/change-student-game", s.requireCSRF(s.handleChangeStudentGame))

	// Admin table feeds
	mux.HandleFunc("/api/get-games-list", s.handleGetGamesList)
	mux.HandleFunc("/api/get-students-list", s.handleGetStudentsList)
	mux.HandleFunc("/api/get-plays-list", s.handleGetPlaysList)
	mux.HandleFunc("/api/get-sanctions-list", s.handleGetSanctionsList)
	mux.HandleFunc("/api/get-logs-list", s.handleGetLogsList)
	mux.HandleFunc("/api/get-users-list", s.handleGetUsersList)

	// Admin CRUD
	mux.HandleFunc("/api/game", s.requireCSRF(s.handleGame))
	mux.HandleFunc("/api/student", s.requireCSRF(s.handleStudent))
	mux.HandleFunc("/api/play", s.requireCSRF(s.handlePlay))
	mux.HandleFunc("/api/user", s.requireCSRF(s.handleUser))

	mux.HandleFunc("/health", s.handleHealth)

	log.Info().Msg("rental API routes registered")
}

// notify broadcasts an update on behalf of the acting user. Their own
// dashboard suppresses the echo, everyone else refreshes.
func (s *Service) notify(username, message string, info *int64) {
	s.broadcaster.Broadcast(events.UpdateMessage{
		Message: message,
		Info:    info,
		Sender:  username,
	})
}

func (s *Service) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
