package students

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"regexp"

	"github.com/ciberteca/rental/go/internal/models"
)

// matriculaPattern matches campus IDs like A01606010 or L00123456.
var matriculaPattern = regexp.MustCompile(`^[AL][0-9]{8}$`)

// StudentsRepository defines what the app layer needs from the repository
type StudentsRepository interface {
	CreateStudent(ctx context.Context, req CreateStudentRequest) (*models.Student, error)
	GetStudent(ctx context.Context, id string) (*models.Student, error)
	ListStudents(ctx context.Context) ([]models.Student, error)
	UpdateStudent(ctx context.Context, req UpdateStudentRequest) (*models.Student, error)
	DeleteStudent(ctx context.Context, id string) error
}

// App handles students business logic
type App struct {
	repo StudentsRepository
}

// NewApp creates a new students App
func NewApp(repo StudentsRepository) *App {
	return &App{
		repo: repo,
	}
}

// ValidateID reports whether the given matricula is well formed.
func ValidateID(id string) error {
	if !matriculaPattern.MatchString(id) {
		return fmt.Errorf("invalid matricula %q", id)
	}
	return nil
}

// CreateStudent creates a new student with validation
func (a *App) CreateStudent(ctx context.Context, req CreateStudentRequest) (*models.Student, error) {
	if err := ValidateID(req.ID); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	existing, err := a.repo.GetStudent(ctx, req.ID)
	if err == nil && existing != nil {
		return nil, fmt.Errorf("student %s already exists", req.ID)
	}

	student, err := a.repo.CreateStudent(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to create student: %w", err)
	}

	log.Printf("Created student: %s", student.ID)
	return student, nil
}

// GetOrCreateStudent fetches the student, registering them on first
// contact. A student swiping in for their first play should not need a
// prior admin step.
func (a *App) GetOrCreateStudent(ctx context.Context, id string) (*models.Student, error) {
	if err := ValidateID(id); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	student, err := a.repo.GetStudent(ctx, id)
	if err == nil {
		return student, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to get student: %w", err)
	}

	student, err = a.repo.CreateStudent(ctx, CreateStudentRequest{ID: id})
	if err != nil {
		return nil, fmt.Errorf("failed to register student: %w", err)
	}

	log.Printf("Registered student: %s", student.ID)
	return student, nil
}

// GetStudent retrieves a student by matricula
func (a *App) GetStudent(ctx context.Context, id string) (*models.Student, error) {
	student, err := a.repo.GetStudent(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get student: %w", err)
	}
	return student, nil
}

// ListStudents retrieves every student for the admin table
func (a *App) ListStudents(ctx context.Context) ([]models.Student, error) {
	students, err := a.repo.ListStudents(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list students: %w", err)
	}
	return students, nil
}

// UpdateStudent updates an existing student with validation
func (a *App) UpdateStudent(ctx context.Context, req UpdateStudentRequest) (*models.Student, error) {
	if _, err := a.repo.GetStudent(ctx, req.ID); err != nil {
		return nil, fmt.Errorf("student not found: %w", err)
	}

	student, err := a.repo.UpdateStudent(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to update student: %w", err)
	}

	log.Printf("Updated student: %s", student.ID)
	return student, nil
}

// DeleteStudent deletes a student by matricula
func (a *App) DeleteStudent(ctx context.Context, id string) error {
	if _, err := a.repo.GetStudent(ctx, id); err != nil {
		return fmt.Errorf("student not found: %w", err)
	}

	if err := a.repo.DeleteStudent(ctx, id); err != nil {
		return fmt.Errorf("failed to delete student: %w", err)
	}

	log.Printf("Deleted student: %s", id)
	return nil
}
