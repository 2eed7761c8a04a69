package games

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
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

// Repository implements game data access operations
type Repository struct {
	db DBTX
}

// NewRepository creates a new games repository
func NewRepository(db DBTX) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the given transaction.
func (r *Repository) WithTx(tx *sql.Tx) *Repository {
	return &Repository{db: tx}
}

const gameColumns = `id, name, display_name, available, show, file_route, start_time, category`

func scanGame(row interface{ Scan(...interface{}) error }) (*models.Game, error) {
	var g models.Game
	var fileRoute, category sql.NullString
	var startTime sql.NullTime
	if err := row.Scan(&g.ID, &g.Name, &g.DisplayName, &g.Available, &g.Show, &fileRoute, &startTime, &category); err != nil {
		return nil, err
	}
	g.FileRoute = sqlutil.FromSqlString(fileRoute, "")
	g.Category = sqlutil.FromSqlString(category, "")
	g.StartTime = sqlutil.FromSqlTime(startTime)
	return &g, nil
}

// CreateGame inserts a new game
func (r *Repository) CreateGame(ctx context.Context, req CreateGameRequest) (*models.Game, error) {
	row := r.db.QueryRowContext(ctx,
		`INSERT INTO games (name, display_name, available, show, file_route, category)
		 VALUES ($1, $2, true, $3, $4, $5)
		 RETURNING `+gameColumns,
		req.Name, req.DisplayName, req.Show, sqlutil.ToSqlString(req.FileRoute), sqlutil.ToSqlString(req.Category))

	game, err := scanGame(row)
	if err != nil {
		return nil, fmt.Errorf("failed to create game: %w", err)
	}
	return game, nil
}

// GetGame retrieves a game by ID
func (r *Repository) GetGame(ctx context.Context, id int64) (*models.Game, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+gameColumns+` FROM games WHERE id = $1`, id)
	game, err := scanGame(row)
	if err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}
	return game, nil
}

// ListGames retrieves every game for the admin table.
func (r *Repository) ListGames(ctx context.Context) ([]models.Game, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+gameColumns+` FROM games ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list games: %w", err)
	}
	defer rows.Close()

	var games []models.Game
	for rows.Next() {
		game, err := scanGame(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan game: %w", err)
		}
		games = append(games, *game)
	}
	return games, rows.Err()
}

// ListVisibleWithPlays retrieves the games shown on the dashboard with
// their active play counts and, for each, the unended plays.
func (r *Repository) ListVisibleWithPlays(ctx context.Context) ([]models.GameWithPlays, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+gameColumns+`,
		        (SELECT COUNT(*) FROM plays p WHERE p.game_id = games.id AND NOT p.ended)
		 FROM games WHERE show ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list visible games: %w", err)
	}
	defer rows.Close()

	var result []models.GameWithPlays
	for rows.Next() {
		var g models.GameWithPlays
		var fileRoute, category sql.NullString
		var startTime sql.NullTime
		if err := rows.Scan(&g.ID, &g.Name, &g.DisplayName, &g.Available, &g.Show,
			&fileRoute, &startTime, &category, &g.Players); err != nil {
			return nil, fmt.Errorf("failed to scan game: %w", err)
		}
		g.FileRoute = sqlutil.FromSqlString(fileRoute, "")
		g.Category = sqlutil.FromSqlString(category, "")
		g.StartTime = sqlutil.FromSqlTime(startTime)
		result = append(result, g)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range result {
		plays, err := r.listActivePlayData(ctx, result[i].ID)
		if err != nil {
			return nil, err
		}
		result[i].PlaysData = plays
	}
	return result, nil
}

func (r *Repository) listActivePlayData(ctx context.Context, gameID int64) ([]models.PlayData, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT student_id, time FROM plays WHERE game_id = $1 AND NOT ended ORDER BY time`, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to list plays for game %d: %w", gameID, err)
	}
	defer rows.Close()

	var plays []models.PlayData
	for rows.Next() {
		var p models.PlayData
		if err := rows.Scan(&p.StudentID, &p.StartTime); err != nil {
			return nil, fmt.Errorf("failed to scan play data: %w", err)
		}
		plays = append(plays, p)
	}
	return plays, rows.Err()
}

// ListStartTimes retrieves the countdown deadlines of visible games.
func (r *Repository) ListStartTimes(ctx context.Context) ([]models.GameStartTime, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, start_time FROM games WHERE show ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list start times: %w", err)
	}
	defer rows.Close()

	var result []models.GameStartTime
	for rows.Next() {
		var st models.GameStartTime
		var t sql.NullTime
		if err := rows.Scan(&st.GameID, &t); err != nil {
			return nil, fmt.Errorf("failed to scan start time: %w", err)
		}
		if t.Valid {
			st.Time = t.Time
		}
		result = append(result, st)
	}
	return result, rows.Err()
}

// UpdateGame applies the non-empty fields of req.
func (r *Repository) UpdateGame(ctx context.Context, req UpdateGameRequest) (*models.Game, error) {
	sets := make([]string, 0, 6)
	args := make([]interface{}, 0, 7)

	add := func(col string, val interface{}) {
		args = append(args, val)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}

	if req.Name != "" {
		add("name", req.Name)
	}
	if req.DisplayName != "" {
		add("display_name", req.DisplayName)
	}
	if req.Show != nil {
		add("show", *req.Show)
	}
	if req.Available != nil {
		add("available", *req.Available)
	}
	if req.FileRoute != "" {
		add("file_route", req.FileRoute)
	}
	if req.Category != nil {
		add("category", sqlutil.ToSqlString(*req.Category))
	}

	if len(sets) == 0 {
		return r.GetGame(ctx, req.ID)
	}

	args = append(args, req.ID)
	query := fmt.Sprintf(`UPDATE games SET %s WHERE id = $%d RETURNING `+gameColumns,
		strings.Join(sets, ", "), len(args))

	game, err := scanGame(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		return nil, fmt.Errorf("failed to update game: %w", err)
	}
	return game, nil
}

// SetStartTime sets or clears a game's countdown deadline.
func (r *Repository) SetStartTime(ctx context.Context, id int64, startTime *time.Time) error {
	if _, err := r.db.ExecContext(ctx,
		`UPDATE games SET start_time = $1 WHERE id = $2`, sqlutil.ToSqlTime(startTime), id); err != nil {
		return fmt.Errorf("failed to set start time: %w", err)
	}
	return nil
}

// DeleteGame deletes a game by ID. Postgres rejects the delete while
// plays still reference the game.
func (r *Repository) DeleteGame(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM games WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete game: %w", err)
	}
	return nil
}
