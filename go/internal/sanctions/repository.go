package sanctions

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/ciberteca/rental/go/internal/models"
	"github.com/ciberteca/rental/go/internal/sqlutil"
)

// DBTX defines what the repository needs from the database layer
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// Repository implements sanction data access operations
type Repository struct {
	db DBTX
}

// NewRepository creates a new sanctions repository
func NewRepository(db DBTX) *Repository {
	return &Repository{db: db}
}

const sanctionColumns = `id, student_id, cause, play_id, start_time, end_time`

func scanSanction(row interface{ Scan(...interface{}) error }) (*models.Sanction, error) {
	var s models.Sanction
	var playID sql.NullInt64
	if err := row.Scan(&s.ID, &s.StudentID, &s.Cause, &playID, &s.StartTime, &s.EndTime); err != nil {
		return nil, err
	}
	s.PlayID = sqlutil.FromSqlInt64(playID)
	return &s, nil
}

// CreateSanction inserts a new sanction
func (r *Repository) CreateSanction(ctx context.Context, studentID, cause string, playID *int64, start, end time.Time) (*models.Sanction, error) {
	row := r.db.QueryRowContext(ctx,
		`INSERT INTO sanctions (student_id, cause, play_id, start_time, end_time)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING `+sanctionColumns,
		studentID, cause, sqlutil.ToSqlInt64(playID), start, end)

	sanction, err := scanSanction(row)
	if err != nil {
		return nil, fmt.Errorf("failed to create sanction: %w", err)
	}
	return sanction, nil
}

// ListSanctions retrieves every sanction for the admin table
func (r *Repository) ListSanctions(ctx context.Context) ([]models.Sanction, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+sanctionColumns+` FROM sanctions ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list sanctions: %w", err)
	}
	defer rows.Close()

	var sanctions []models.Sanction
	for rows.Next() {
		sanction, err := scanSanction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan sanction: %w", err)
		}
		sanctions = append(sanctions, *sanction)
	}
	return sanctions, rows.Err()
}

// HasActiveSanction reports whether the student has a sanction ending
// after the given time.
func (r *Repository) HasActiveSanction(ctx context.Context, studentID string, now time.Time) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM sanctions WHERE student_id = $1 AND end_time > $2)`,
		studentID, now).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check active sanctions: %w", err)
	}
	return exists, nil
}
