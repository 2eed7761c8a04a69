package games

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/ciberteca/rental/go/internal/models"
)

// GamesRepository defines what the app layer needs from the repository
type GamesRepository interface {
	CreateGame(ctx context.Context, req CreateGameRequest) (*models.Game, error)
	GetGame(ctx context.Context, id int64) (*models.Game, error)
	ListGames(ctx context.Context) ([]models.Game, error)
	ListVisibleWithPlays(ctx context.Context) ([]models.GameWithPlays, error)
	ListStartTimes(ctx context.Context) ([]models.GameStartTime, error)
	UpdateGame(ctx context.Context, req UpdateGameRequest) (*models.Game, error)
	SetStartTime(ctx context.Context, id int64, startTime *time.Time) error
	DeleteGame(ctx context.Context, id int64) error
}

// App handles games business logic
type App struct {
	repo GamesRepository
}

// NewApp creates a new games App
func NewApp(repo GamesRepository) *App {
	return &App{
		repo: repo,
	}
}

// CreateGame creates a new game with validation
func (a *App) CreateGame(ctx context.Context, req CreateGameRequest) (*models.Game, error) {
	if req.Name == "" {
		return nil, fmt.Errorf("name is required")
	}
	if req.DisplayName == "" {
		return nil, fmt.Errorf("display name is required")
	}

	game, err := a.repo.CreateGame(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to create game: %w", err)
	}

	log.Printf("Created game: %s", game.Name)
	return game, nil
}

// GetGame retrieves a game by ID
func (a *App) GetGame(ctx context.Context, id int64) (*models.Game, error) {
	game, err := a.repo.GetGame(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}
	return game, nil
}

// ListGames retrieves all games for the admin table
func (a *App) ListGames(ctx context.Context) ([]models.Game, error) {
	games, err := a.repo.ListGames(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list games: %w", err)
	}
	return games, nil
}

// ListGamesWithPlays retrieves the dashboard games with occupancy.
// Play details are stripped for unauthenticated requesters, the counts
// stay public.
func (a *App) ListGamesWithPlays(ctx context.Context, authenticated bool) ([]models.GameWithPlays, error) {
	games, err := a.repo.ListVisibleWithPlays(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list games with plays: %w", err)
	}
	if !authenticated {
		for i := range games {
			games[i].PlaysData = nil
		}
	}
	return games, nil
}

// ListStartTimes retrieves the countdown deadlines of visible games
func (a *App) ListStartTimes(ctx context.Context) ([]models.GameStartTime, error) {
	times, err := a.repo.ListStartTimes(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list start times: %w", err)
	}
	return times, nil
}

// UpdateGame updates an existing game with validation
func (a *App) UpdateGame(ctx context.Context, req UpdateGameRequest) (*models.Game, error) {
	if _, err := a.repo.GetGame(ctx, req.ID); err != nil {
		return nil, fmt.Errorf("game not found: %w", err)
	}

	game, err := a.repo.UpdateGame(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to update game: %w", err)
	}

	log.Printf("Updated game: %s", game.Name)
	return game, nil
}

// DeleteGame deletes a game by ID
func (a *App) DeleteGame(ctx context.Context, id int64) error {
	game, err := a.repo.GetGame(ctx, id)
	if err != nil {
		return fmt.Errorf("game not found: %w", err)
	}

	if err := a.repo.DeleteGame(ctx, id); err != nil {
		return fmt.Errorf("failed to delete game: %w", err)
	}

	log.Printf("Deleted game: %s", game.Name)
	return nil
}
