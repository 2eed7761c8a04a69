package rental_api_client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/ciberteca/rental/go/clients"
	"github.com/ciberteca/rental/go/internal/models"
)

// RentalApiClient is the remote data gateway for the dashboard: thin
// typed wrappers over the rental service's REST endpoints. Mutating
// calls carry the CSRF token header.
type RentalApiClient struct {
	base *clients.BaseClient
}

// NewRentalApiClient creates a client against the given server origin.
func NewRentalApiClient(baseURL, csrfToken string) *RentalApiClient {
	base := clients.NewBaseClient(baseURL)
	base.SetHeader("Content-Type", "application/json")
	if csrfToken != "" {
		base.SetHeader(CSRFTokenHeader, csrfToken)
	}
	return &RentalApiClient{base: base}
}

type gamesResponse struct {
	Games []models.GameWithPlays `json:"games"`
}

// FetchGames lists the visible games with their current occupancy.
func (c *RentalApiClient) FetchGames(ctx context.Context) ([]models.GameWithPlays, error) {
	body, err := c.base.Get(ctx, GamesEndpoint)
	if err != nil {
		return nil, fmt.Errorf("fetch games: %w", err)
	}

	var resp gamesResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decode games response: %w", err)
	}
	return resp.Games, nil
}

// FetchStartTimes lists every visible game's countdown deadline.
func (c *RentalApiClient) FetchStartTimes(ctx context.Context) ([]models.GameStartTime, error) {
	body, err := c.base.Get(ctx, StartTimesEndpoint)
	if err != nil {
		return nil, fmt.Errorf("fetch start times: %w", err)
	}

	var starts []models.GameStartTime
	if err := json.Unmarshal(body, &starts); err != nil {
		return nil, fmt.Errorf("decode start times response: %w", err)
	}
	return starts, nil
}

type playersResponse struct {
	Status  string        `json:"status"`
	Message string        `json:"message,omitempty"`
	Players []models.Play `json:"players"`
}

// FetchPlayers lists the active plays for one game.
func (c *RentalApiClient) FetchPlayers(ctx context.Context, gameID int64) ([]models.Play, error) {
	body, err := c.base.Get(ctx, fmt.Sprintf("%s?game-id=%d", PlayersEndpoint, gameID))
	if err != nil {
		return nil, fmt.Errorf("fetch players for game %d: %w", gameID, err)
	}

	var resp playersResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decode players response: %w", err)
	}
	if resp.Status != "success" {
		return nil, fmt.Errorf("players fetch failed: %s", resp.Message)
	}
	return resp.Players, nil
}

type statusResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

func (c *RentalApiClient) post(ctx context.Context, endpoint string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	body, err := c.base.Post(ctx, endpoint, bytes.NewReader(data))
	if err != nil {
		return err
	}

	var resp statusResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	if resp.Status != "success" {
		return fmt.Errorf("request rejected: %s", resp.Message)
	}
	return nil
}

// SetPlayEnded ends a student's active play.
func (c *RentalApiClient) SetPlayEnded(ctx context.Context, studentID string, gameID int64) error {
	return c.post(ctx, SetPlayEndedEndpoint, map[string]interface{}{
		"student_id": studentID,
		"game_id":    gameID,
	})
}

// AddStudentToGame starts a play for a student, subject to the server's
// eligibility rules.
func (c *RentalApiClient) AddStudentToGame(ctx context.Context, studentID string, gameID int64) error {
	return c.post(ctx, AddStudentEndpoint, map[string]interface{}{
		"student_id": studentID,
		"game_id":    gameID,
	})
}

// AddStudentToSanctioned creates a sanction lasting until the given date.
func (c *RentalApiClient) AddStudentToSanctioned(ctx context.Context, studentID, cause, untilDate string) error {
	return c.post(ctx, AddSanctionedEndpoint, map[string]interface{}{
		"student_id": studentID,
		"cause":      cause,
		"days":       untilDate,
	})
}

// ChangeStudentGame moves a student's active play to another game.
func (c *RentalApiClient) ChangeStudentGame(ctx context.Context, studentID string, toGameID int64) error {
	return c.post(ctx, ChangeStudentEndpoint, map[string]interface{}{
		"student_id": studentID,
		"game_id":    toGameID,
	})
}
