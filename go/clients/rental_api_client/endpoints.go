package rental_api_client

const (
	// API Endpoints
	GamesEndpoint         = "/api/get-games/"
	StartTimesEndpoint    = "/api/get-games-start-time/"
	PlayersEndpoint       = "/api/get-players/"
	SetPlayEndedEndpoint  = "/api/set-play-ended"
	AddStudentEndpoint    = "/api/add-student-to-game"
	AddSanctionedEndpoint = "/api/add-student-to-sanctioned"
	ChangeStudentEndpoint = "/api/change-student-game"
	UpdatesSocketEndpoint = "/ws/updates/"

	// Headers
	CSRFTokenHeader = "X-CSRFToken"
)
