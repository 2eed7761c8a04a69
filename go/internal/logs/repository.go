package logs

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/sqlc-dev/pqtype"

	"github.com/ciberteca/rental/go/internal/models"
)

// DBTX defines what the repository needs from the database layer
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// Repository implements audit log data access operations
type Repository struct {
	db DBTX
}

// NewRepository creates a new logs repository
func NewRepository(db DBTX) *Repository {
	return &Repository{db: db}
}

// CreateLog inserts an audit entry
func (r *Repository) CreateLog(ctx context.Context, action, username string, at time.Time, details pqtype.NullRawMessage) (*models.Log, error) {
	var l models.Log
	var rawDetails pqtype.NullRawMessage
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO logs (action_performed, username, time, details)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, action_performed, username, time, details`,
		action, username, at, details).
		Scan(&l.ID, &l.Action, &l.Username, &l.Time, &rawDetails)
	if err != nil {
		return nil, fmt.Errorf("failed to create log: %w", err)
	}
	if rawDetails.Valid {
		l.Details = rawDetails.RawMessage
	}
	return &l, nil
}

// ListLogs retrieves every audit entry for the admin table
func (r *Repository) ListLogs(ctx context.Context) ([]models.Log, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, action_performed, username, time, details FROM logs ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list logs: %w", err)
	}
	defer rows.Close()

	var logs []models.Log
	for rows.Next() {
		var l models.Log
		var rawDetails pqtype.NullRawMessage
		if err := rows.Scan(&l.ID, &l.Action, &l.Username, &l.Time, &rawDetails); err != nil {
			return nil, fmt.Errorf("failed to scan log: %w", err)
		}
		if rawDetails.Valid {
			l.Details = rawDetails.RawMessage
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}
