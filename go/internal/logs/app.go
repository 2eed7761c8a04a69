package logs

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/sqlc-dev/pqtype"

	"github.com/ciberteca/rental/go/internal/models"
)

// Audit action strings shown in the admin logs table. They are
// formatted with the affected entity's name or ID.
const (
	ActionStartPlay      = "Inicia sesión de juego para: %s"
	ActionEndPlay        = "Termina sesión de juego de: %s"
	ActionDeletePlay     = "Elimina sesión de juego de: %s"
	ActionMovePlay       = "Mueve sesión de juego de: %s"
	ActionSanction       = "Sanciona a: %s"
	ActionCreateGame     = "Crea juego: %s"
	ActionUpdateGame     = "Actualiza juego: %s"
	ActionDeleteGame     = "Elimina juego: %s"
	ActionUpdateStudent  = "Actualiza datos de estudiante: %s"
	ActionDeleteStudent  = "Elimina datos de estudiante: %s"
	ActionCreateUser     = "Crea usuario: %s; admin = %t"
	ActionReactivateUser = "Reactiva usuario: %s"
	ActionUpdateUser     = "Actualiza usuario: %s; admin = %t"
	ActionDeactivateUser = "Desactiva usuario: %s"
)

// LogsRepository defines what the app layer needs from the repository
type LogsRepository interface {
	CreateLog(ctx context.Context, action, username string, at time.Time, details pqtype.NullRawMessage) (*models.Log, error)
	ListLogs(ctx context.Context) ([]models.Log, error)
}

// App handles audit logging. A failed append never fails the action it
// records, it is logged and dropped.
type App struct {
	repo  LogsRepository
	clock clockwork.Clock
}

// NewApp creates a new logs App
func NewApp(repo LogsRepository, clock clockwork.Clock) *App {
	return &App{
		repo:  repo,
		clock: clock,
	}
}

// Record appends an audit entry for an action performed by username.
func (a *App) Record(ctx context.Context, username, action string, args ...interface{}) {
	a.record(ctx, username, fmt.Sprintf(action, args...), pqtype.NullRawMessage{})
}

// RecordDetails appends an audit entry carrying a JSON payload with the
// request that triggered it.
func (a *App) RecordDetails(ctx context.Context, username, action string, details interface{}, args ...interface{}) {
	raw, err := json.Marshal(details)
	if err != nil {
		log.Printf("Failed to marshal audit details: %v", err)
		a.Record(ctx, username, action, args...)
		return
	}
	a.record(ctx, username, fmt.Sprintf(action, args...), pqtype.NullRawMessage{RawMessage: raw, Valid: true})
}

func (a *App) record(ctx context.Context, username, action string, details pqtype.NullRawMessage) {
	if _, err := a.repo.CreateLog(ctx, action, username, a.clock.Now(), details); err != nil {
		log.Printf("Failed to record audit entry %q: %v", action, err)
	}
}

// ListLogs retrieves every audit entry for the admin table
func (a *App) ListLogs(ctx context.Context) ([]models.Log, error) {
	logs, err := a.repo.ListLogs(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list logs: %w", err)
	}
	return logs, nil
}
