package sanctions

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/ciberteca/rental/go/internal/models"
)

// SanctionsRepository defines what the app layer needs from the repository
type SanctionsRepository interface {
	CreateSanction(ctx context.Context, studentID, cause string, playID *int64, start, end time.Time) (*models.Sanction, error)
	ListSanctions(ctx context.Context) ([]models.Sanction, error)
	HasActiveSanction(ctx context.Context, studentID string, now time.Time) (bool, error)
}

// StudentRegistry registers students on first contact
type StudentRegistry interface {
	GetOrCreateStudent(ctx context.Context, id string) (*models.Student, error)
}

// App handles sanctions business logic
type App struct {
	repo     SanctionsRepository
	students StudentRegistry
	clock    clockwork.Clock
}

// NewApp creates a new sanctions App
func NewApp(repo SanctionsRepository, students StudentRegistry, clock clockwork.Clock) *App {
	return &App{
		repo:     repo,
		students: students,
		clock:    clock,
	}
}

// CreateSanction sanctions a student until the end of the given day.
// The student is registered first if unknown.
func (a *App) CreateSanction(ctx context.Context, req CreateSanctionRequest) (*models.Sanction, error) {
	if req.Cause == "" {
		return nil, fmt.Errorf("cause is required")
	}

	end, err := time.ParseInLocation("2006-01-02", req.Days, time.Local)
	if err != nil {
		return nil, fmt.Errorf("invalid end date %q: %w", req.Days, err)
	}

	if _, err := a.students.GetOrCreateStudent(ctx, req.StudentID); err != nil {
		return nil, err
	}

	sanction, err := a.repo.CreateSanction(ctx, req.StudentID, req.Cause, req.PlayID, a.clock.Now(), end)
	if err != nil {
		return nil, fmt.Errorf("failed to create sanction: %w", err)
	}

	log.Printf("Sanctioned student %s until %s: %s", sanction.StudentID, req.Days, sanction.Cause)
	return sanction, nil
}

// ListSanctions retrieves every sanction for the admin table
func (a *App) ListSanctions(ctx context.Context) ([]models.Sanction, error) {
	sanctions, err := a.repo.ListSanctions(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list sanctions: %w", err)
	}
	return sanctions, nil
}

// HasActiveSanction reports whether the student is currently sanctioned
func (a *App) HasActiveSanction(ctx context.Context, studentID string, now time.Time) (bool, error) {
	return a.repo.HasActiveSanction(ctx, studentID, now)
}
