package main

import (
	"database/sql"
	"log/slog"
	"os"

	"github.com/jonboulle/clockwork"

	"github.com/ciberteca/rental/go/internal/api"
	"github.com/ciberteca/rental/go/internal/events"
	"github.com/ciberteca/rental/go/internal/games"
	"github.com/ciberteca/rental/go/internal/gateway"
	"github.com/ciberteca/rental/go/internal/logs"
	"github.com/ciberteca/rental/go/internal/plays"
	"github.com/ciberteca/rental/go/internal/sanctions"
	"github.com/ciberteca/rental/go/internal/students"
	"github.com/ciberteca/rental/go/internal/users"
)

type Services struct {
	API     *api.Service
	Gateway *gateway.Service
}

func setupServices(database *sql.DB, config *Config) (*Services, error) {
	// Wire up dependency injection chain
	// Database layer → Repository layer → App layer → Service layer
	clock := clockwork.NewRealClock()

	gamesRepo := games.NewRepository(database)
	studentsRepo := students.NewRepository(database)
	playsRepo := plays.NewRepository(database)
	sanctionsRepo := sanctions.NewRepository(database)
	usersRepo := users.NewRepository(database)
	logsRepo := logs.NewRepository(database)

	gamesApp := games.NewApp(gamesRepo)
	studentsApp := students.NewApp(studentsRepo)
	sanctionsApp := sanctions.NewApp(sanctionsRepo, studentsApp, clock)
	playsApp := plays.NewApp(database, playsRepo, gamesRepo, sanctionsApp, studentsApp, clock, config.slotDuration())
	usersApp := users.NewApp(usersRepo)
	auditApp := logs.NewApp(logsRepo, clock)

	var publisher events.Publisher
	if config.Bridge.Enabled {
		jsConfig := events.DefaultJetStreamConfig()
		jsConfig.URL = config.Bridge.NatsURL
		p, err := events.NewJetStreamPublisher(jsConfig, config.Bridge.NodeID)
		if err != nil {
			return nil, err
		}
		publisher = p
	} else {
		publisher = events.NewNoopPublisher(slog.New(slog.NewTextHandler(os.Stderr, nil)))
	}

	gatewayConfig := gateway.DefaultConfig()
	gatewayConfig.JetStreamConfig.URL = config.Bridge.NatsURL
	gatewayConfig.JetStreamConfig.NodeID = config.Bridge.NodeID
	gatewayService, err := gateway.NewService(gatewayConfig, publisher, config.Bridge.Enabled)
	if err != nil {
		return nil, err
	}

	apiService := api.NewService(gamesApp, studentsApp, playsApp, sanctionsApp,
		usersApp, auditApp, gatewayService, config.Rental.CSRFToken)

	return &Services{
		API:     apiService,
		Gateway: gatewayService,
	}, nil
}
