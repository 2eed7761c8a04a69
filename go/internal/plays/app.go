package plays

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/ciberteca/rental/go/internal/games"
	"github.com/ciberteca/rental/go/internal/models"
	"github.com/ciberteca/rental/go/internal/sqlutil"
)

// ErrNotEligible is returned when a student fails the play conditions.
// The message is surfaced verbatim to the front desk.
var ErrNotEligible = errors.New("El alumno no cumple con las condiciones para jugar, ya sea que jugó hoy, tres veces en la semana o tiene sanciones activas.")

// ErrAlreadyPlaying is returned when the student has an unended play.
var ErrAlreadyPlaying = errors.New("student is already playing")

// SanctionChecker reports whether a student is under an active sanction
type SanctionChecker interface {
	HasActiveSanction(ctx context.Context, studentID string, now time.Time) (bool, error)
}

// StudentRegistry registers students on first contact
type StudentRegistry interface {
	GetOrCreateStudent(ctx context.Context, id string) (*models.Student, error)
}

// App handles plays business logic. Starting and ending plays also
// maintains the owning game's countdown deadline.
type App struct {
	db        *sql.DB
	repo      *Repository
	games     *games.Repository
	sanctions SanctionChecker
	students  StudentRegistry
	clock     clockwork.Clock
	slot      time.Duration
}

// NewApp creates a new plays App. slot is how long a session may run
// before the game's countdown reads as exhausted.
func NewApp(db *sql.DB, repo *Repository, gamesRepo *games.Repository, sanctions SanctionChecker, students StudentRegistry, clock clockwork.Clock, slot time.Duration) *App {
	return &App{
		db:        db,
		repo:      repo,
		games:     gamesRepo,
		sanctions: sanctions,
		students:  students,
		clock:     clock,
		slot:      slot,
	}
}

// Eligible is the play-condition policy: no active sanction, fewer
// than WeeklyPlayLimit plays in the trailing week and fewer than
// DailyPlayLimit plays today.
func Eligible(sanctioned bool, weeklyPlays, dailyPlays int) bool {
	return !sanctioned && weeklyPlays < WeeklyPlayLimit && dailyPlays < DailyPlayLimit
}

// checkEligibility gathers the student's record and applies Eligible.
func (a *App) checkEligibility(ctx context.Context, studentID string, now time.Time) error {
	sanctioned, err := a.sanctions.HasActiveSanction(ctx, studentID, now)
	if err != nil {
		return fmt.Errorf("failed to check sanctions: %w", err)
	}

	weekAgo := now.AddDate(0, 0, -7)
	weekly, err := a.repo.CountByStudentSince(ctx, studentID, weekAgo, now)
	if err != nil {
		return err
	}

	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	daily, err := a.repo.CountByStudentSince(ctx, studentID, midnight, now)
	if err != nil {
		return err
	}

	if !Eligible(sanctioned, weekly, daily) {
		return ErrNotEligible
	}
	return nil
}

// StartPlay starts a session for the student on the given game. The
// student is registered on first contact. When the game was empty its
// countdown deadline is set to one slot from now.
func (a *App) StartPlay(ctx context.Context, req StartPlayRequest) (*models.Play, error) {
	if _, err := a.games.GetGame(ctx, req.GameID); err != nil {
		return nil, fmt.Errorf("game not found: %w", err)
	}
	if _, err := a.students.GetOrCreateStudent(ctx, req.StudentID); err != nil {
		return nil, err
	}

	now := a.clock.Now()
	if err := a.checkEligibility(ctx, req.StudentID, now); err != nil {
		return nil, err
	}

	playing, err := a.repo.HasActivePlay(ctx, req.StudentID)
	if err != nil {
		return nil, err
	}
	if playing {
		return nil, ErrAlreadyPlaying
	}

	var play *models.Play
	err = sqlutil.Run(ctx, a.db, func(tx *sql.Tx) error {
		playsTx := a.repo.WithTx(tx)
		gamesTx := a.games.WithTx(tx)

		occupancy, err := playsTx.CountActiveByGame(ctx, req.GameID)
		if err != nil {
			return err
		}

		play, err = playsTx.CreatePlay(ctx, req.StudentID, req.GameID, now)
		if err != nil {
			return err
		}

		if occupancy == 0 {
			deadline := now.Add(a.slot)
			if err := gamesTx.SetStartTime(ctx, req.GameID, &deadline); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("Started play %d for student %s on game %d", play.ID, play.StudentID, play.GameID)
	return play, nil
}

// EndPlay ends the student's most recent play and clears the game's
// countdown deadline once no sessions remain on it.
func (a *App) EndPlay(ctx context.Context, studentID string) (*models.Play, error) {
	play, err := a.repo.GetLatestByStudent(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("play not found: %w", err)
	}

	err = sqlutil.Run(ctx, a.db, func(tx *sql.Tx) error {
		playsTx := a.repo.WithTx(tx)
		gamesTx := a.games.WithTx(tx)

		if err := playsTx.SetEnded(ctx, play.ID); err != nil {
			return err
		}

		remaining, err := playsTx.CountActiveByGame(ctx, play.GameID)
		if err != nil {
			return err
		}
		if remaining == 0 {
			if err := gamesTx.SetStartTime(ctx, play.GameID, nil); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	play.Ended = true
	log.Printf("Ended play %d for student %s", play.ID, play.StudentID)
	return play, nil
}

// Reassign moves the student's active play to another game, keeping
// both games' countdown deadlines consistent with their occupancy. It
// returns the play and the game it moved away from.
func (a *App) Reassign(ctx context.Context, req ReassignRequest) (*models.Play, int64, error) {
	play, err := a.repo.GetActiveByStudent(ctx, req.StudentID)
	if err != nil {
		return nil, 0, fmt.Errorf("student has no active play: %w", err)
	}
	if req.FromGameID != nil && play.GameID != *req.FromGameID {
		return nil, 0, fmt.Errorf("student %s is playing game %d, not %d", req.StudentID, play.GameID, *req.FromGameID)
	}
	if play.GameID == req.ToGameID {
		return play, play.GameID, nil
	}
	if _, err := a.games.GetGame(ctx, req.ToGameID); err != nil {
		return nil, 0, fmt.Errorf("game not found: %w", err)
	}

	now := a.clock.Now()
	fromGameID := play.GameID

	err = sqlutil.Run(ctx, a.db, func(tx *sql.Tx) error {
		playsTx := a.repo.WithTx(tx)
		gamesTx := a.games.WithTx(tx)

		targetOccupancy, err := playsTx.CountActiveByGame(ctx, req.ToGameID)
		if err != nil {
			return err
		}

		if err := playsTx.SetGame(ctx, play.ID, req.ToGameID); err != nil {
			return err
		}

		remaining, err := playsTx.CountActiveByGame(ctx, fromGameID)
		if err != nil {
			return err
		}
		if remaining == 0 {
			if err := gamesTx.SetStartTime(ctx, fromGameID, nil); err != nil {
				return err
			}
		}
		if targetOccupancy == 0 {
			deadline := now.Add(a.slot)
			if err := gamesTx.SetStartTime(ctx, req.ToGameID, &deadline); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, 0, err
	}

	play.GameID = req.ToGameID
	log.Printf("Moved play %d of student %s from game %d to game %d", play.ID, play.StudentID, fromGameID, req.ToGameID)
	return play, fromGameID, nil
}

// GetPlay retrieves a play by ID
func (a *App) GetPlay(ctx context.Context, id int64) (*models.Play, error) {
	play, err := a.repo.GetPlay(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get play: %w", err)
	}
	return play, nil
}

// ListPlays retrieves every play for the admin table
func (a *App) ListPlays(ctx context.Context) ([]models.Play, error) {
	plays, err := a.repo.ListPlays(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list plays: %w", err)
	}
	return plays, nil
}

// ListActiveByGame retrieves the unended plays on one game
func (a *App) ListActiveByGame(ctx context.Context, gameID int64) ([]models.Play, error) {
	plays, err := a.repo.ListActiveByGame(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to list active plays: %w", err)
	}
	return plays, nil
}

// DeletePlay deletes a play by ID
func (a *App) DeletePlay(ctx context.Context, id int64) (*models.Play, error) {
	play, err := a.repo.GetPlay(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("play not found: %w", err)
	}

	if err := a.repo.DeletePlay(ctx, id); err != nil {
		return nil, err
	}

	log.Printf("Deleted play %d of student %s", play.ID, play.StudentID)
	return play, nil
}
