package plays

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/ciberteca/rental/go/internal/models"
)

// DBTX defines what the repository needs from the database layer
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// Repository implements play data access operations
type Repository struct {
	db DBTX
}

// NewRepository creates a new plays repository
func NewRepository(db DBTX) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the given transaction.
func (r *Repository) WithTx(tx *sql.Tx) *Repository {
	return &Repository{db: tx}
}

const playColumns = `id, student_id, game_id, ended, time`

func scanPlay(row interface{ Scan(...interface{}) error }) (*models.Play, error) {
	var p models.Play
	if err := row.Scan(&p.ID, &p.StudentID, &p.GameID, &p.Ended, &p.Time); err != nil {
		return nil, err
	}
	return &p, nil
}

// CreatePlay inserts a new play starting now
func (r *Repository) CreatePlay(ctx context.Context, studentID string, gameID int64, start time.Time) (*models.Play, error) {
	row := r.db.QueryRowContext(ctx,
		`INSERT INTO plays (student_id, game_id, ended, time)
		 VALUES ($1, $2, false, $3)
		 RETURNING `+playColumns,
		studentID, gameID, start)

	play, err := scanPlay(row)
	if err != nil {
		return nil, fmt.Errorf("failed to create play: %w", err)
	}
	return play, nil
}

// GetPlay retrieves a play by ID
func (r *Repository) GetPlay(ctx context.Context, id int64) (*models.Play, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+playColumns+` FROM plays WHERE id = $1`, id)
	play, err := scanPlay(row)
	if err != nil {
		return nil, fmt.Errorf("failed to get play: %w", err)
	}
	return play, nil
}

// GetLatestByStudent retrieves the student's most recent play.
func (r *Repository) GetLatestByStudent(ctx context.Context, studentID string) (*models.Play, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+playColumns+` FROM plays WHERE student_id = $1 ORDER BY time DESC LIMIT 1`, studentID)
	play, err := scanPlay(row)
	if err != nil {
		return nil, fmt.Errorf("failed to get latest play: %w", err)
	}
	return play, nil
}

// GetActiveByStudent retrieves the student's unended play, if any.
func (r *Repository) GetActiveByStudent(ctx context.Context, studentID string) (*models.Play, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+playColumns+` FROM plays WHERE student_id = $1 AND NOT ended ORDER BY time DESC LIMIT 1`,
		studentID)
	play, err := scanPlay(row)
	if err != nil {
		return nil, fmt.Errorf("failed to get active play: %w", err)
	}
	return play, nil
}

// ListPlays retrieves every play with its game name for the admin table.
func (r *Repository) ListPlays(ctx context.Context) ([]models.Play, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT p.id, p.student_id, p.game_id, g.name, p.ended, p.time
		 FROM plays p JOIN games g ON g.id = p.game_id
		 ORDER BY p.id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list plays: %w", err)
	}
	defer rows.Close()

	var plays []models.Play
	for rows.Next() {
		var p models.Play
		if err := rows.Scan(&p.ID, &p.StudentID, &p.GameID, &p.GameName, &p.Ended, &p.Time); err != nil {
			return nil, fmt.Errorf("failed to scan play: %w", err)
		}
		plays = append(plays, p)
	}
	return plays, rows.Err()
}

// ListActiveByGame retrieves the unended plays on one game, oldest first.
func (r *Repository) ListActiveByGame(ctx context.Context, gameID int64) ([]models.Play, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+playColumns+` FROM plays WHERE game_id = $1 AND NOT ended ORDER BY time`, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to list active plays: %w", err)
	}
	defer rows.Close()

	var plays []models.Play
	for rows.Next() {
		play, err := scanPlay(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan play: %w", err)
		}
		plays = append(plays, *play)
	}
	return plays, rows.Err()
}

// CountActiveByGame counts the unended plays on one game.
func (r *Repository) CountActiveByGame(ctx context.Context, gameID int64) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM plays WHERE game_id = $1 AND NOT ended`, gameID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count active plays: %w", err)
	}
	return count, nil
}

// CountByStudentSince counts the student's plays started in [since, until).
func (r *Repository) CountByStudentSince(ctx context.Context, studentID string, since, until time.Time) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM plays WHERE student_id = $1 AND time >= $2 AND time < $3`,
		studentID, since, until).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count plays: %w", err)
	}
	return count, nil
}

// HasActivePlay reports whether the student has an unended play.
func (r *Repository) HasActivePlay(ctx context.Context, studentID string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM plays WHERE student_id = $1 AND NOT ended)`, studentID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check active play: %w", err)
	}
	return exists, nil
}

// SetEnded marks a play as ended
func (r *Repository) SetEnded(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `UPDATE plays SET ended = true WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to end play: %w", err)
	}
	return nil
}

// SetGame moves a play to another game
func (r *Repository) SetGame(ctx context.Context, id int64, gameID int64) error {
	if _, err := r.db.ExecContext(ctx, `UPDATE plays SET game_id = $1 WHERE id = $2`, gameID, id); err != nil {
		return fmt.Errorf("failed to move play: %w", err)
	}
	return nil
}

// DeletePlay deletes a play by ID. Postgres rejects the delete while a
// sanction still references the play.
func (r *Repository) DeletePlay(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM plays WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete play: %w", err)
	}
	return nil
}
