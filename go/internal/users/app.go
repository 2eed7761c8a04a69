package users

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/ciberteca/rental/go/internal/models"
)

// ErrUserExists is returned when creating a user whose username is
// already taken by an active account.
var ErrUserExists = errors.New("user already exists")

// ErrEmailInUse is returned when updating a user to an email another
// account already holds.
var ErrEmailInUse = errors.New("email already in use")

// UsersRepository defines what the app layer needs from the repository
type UsersRepository interface {
	CreateUser(ctx context.Context, req CreateUserRequest, passwordHash string) (*models.User, error)
	GetUser(ctx context.Context, id int64) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetPasswordHash(ctx context.Context, username string) (string, error)
	ListActiveUsers(ctx context.Context) ([]models.User, error)
	UpdateUser(ctx context.Context, req UpdateUserRequest, passwordHash string) (*models.User, error)
	SetActive(ctx context.Context, id int64, active bool) error
	SetPasswordHash(ctx context.Context, id int64, passwordHash string) error
	SetAdmin(ctx context.Context, id int64, isAdmin bool) error
}

// App handles users business logic
type App struct {
	repo UsersRepository
}

// NewApp creates a new users App
func NewApp(repo UsersRepository) *App {
	return &App{
		repo: repo,
	}
}

// CreateUser creates a new user. When the username belongs to a
// deactivated account, the account is reactivated with the new
// password instead. Reactivated reports which path was taken.
func (a *App) CreateUser(ctx context.Context, req CreateUserRequest) (user *models.User, reactivated bool, err error) {
	if err := a.validateCreateUserRequest(req); err != nil {
		return nil, false, fmt.Errorf("validation failed: %w", err)
	}

	existing, err := a.repo.GetUserByUsername(ctx, req.Username)
	if err == nil && existing != nil {
		if existing.Active {
			return nil, false, ErrUserExists
		}

		if err := a.repo.SetActive(ctx, existing.ID, true); err != nil {
			return nil, false, err
		}
		if err := a.repo.SetPasswordHash(ctx, existing.ID, HashPassword(req.Password)); err != nil {
			return nil, false, err
		}
		if req.IsAdmin {
			if err := a.repo.SetAdmin(ctx, existing.ID, true); err != nil {
				return nil, false, err
			}
			existing.IsAdmin = true
		}
		existing.Active = true

		log.Printf("Reactivated user: %s", existing.Username)
		return existing, true, nil
	}

	user, err = a.repo.CreateUser(ctx, req, HashPassword(req.Password))
	if err != nil {
		return nil, false, fmt.Errorf("failed to create user: %w", err)
	}

	log.Printf("Created user: %s (%s)", user.Username, user.Email)
	return user, false, nil
}

// Authenticate verifies a username and password against the stored hash
func (a *App) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	hash, err := a.repo.GetPasswordHash(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("unknown user: %w", err)
	}
	if !VerifyPassword(password, hash) {
		return nil, fmt.Errorf("invalid credentials for %s", username)
	}
	return a.repo.GetUserByUsername(ctx, username)
}

// GetUser retrieves a user by ID
func (a *App) GetUser(ctx context.Context, id int64) (*models.User, error) {
	user, err := a.repo.GetUser(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// ListActiveUsers retrieves the active users for the admin table
func (a *App) ListActiveUsers(ctx context.Context) ([]models.User, error) {
	users, err := a.repo.ListActiveUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// UpdateUser updates an existing user with validation
func (a *App) UpdateUser(ctx context.Context, req UpdateUserRequest) (*models.User, error) {
	existing, err := a.repo.GetUser(ctx, req.ID)
	if err != nil {
		return nil, fmt.Errorf("user not found: %w", err)
	}

	if req.Email != "" && req.Email != existing.Email {
		conflict, err := a.repo.GetUserByEmail(ctx, req.Email)
		if err == nil && conflict != nil {
			return nil, ErrEmailInUse
		}
	}

	var hash string
	if req.Password != "" {
		hash = HashPassword(req.Password)
	}

	user, err := a.repo.UpdateUser(ctx, req, hash)
	if err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	log.Printf("Updated user: %s (%s)", user.Username, user.Email)
	return user, nil
}

// DeactivateUser deactivates a user instead of deleting it, so the
// audit trail keeps resolving usernames.
func (a *App) DeactivateUser(ctx context.Context, id int64) (*models.User, error) {
	user, err := a.repo.GetUser(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("user not found: %w", err)
	}

	if err := a.repo.SetActive(ctx, id, false); err != nil {
		return nil, err
	}

	user.Active = false
	log.Printf("Deactivated user: %s", user.Username)
	return user, nil
}

func (a *App) validateCreateUserRequest(req CreateUserRequest) error {
	if req.Username == "" {
		return fmt.Errorf("username is required")
	}
	if req.Password == "" {
		return fmt.Errorf("password is required")
	}
	if req.Email == "" {
		return fmt.Errorf("email is required")
	}
	if !strings.Contains(req.Email, "@") || !strings.Contains(req.Email, ".") {
		return fmt.Errorf("email format is invalid")
	}
	return nil
}
