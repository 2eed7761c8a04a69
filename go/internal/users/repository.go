package users

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/ciberteca/rental/go/internal/models"
)

// DBTX defines what the repository needs from the database layer
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// Repository implements user data access operations
type Repository struct {
	db DBTX
}

// NewRepository creates a new users repository
func NewRepository(db DBTX) *Repository {
	return &Repository{db: db}
}

const userColumns = `id, username, email, is_admin, active, created_at`

func scanUser(row interface{ Scan(...interface{}) error }) (*models.User, error) {
	var u models.User
	if err := row.Scan(&u.ID, &u.Username, &u.Email, &u.IsAdmin, &u.Active, &u.CreatedAt); err != nil {
		return nil, err
	}
	return &u, nil
}

// CreateUser inserts a new active user with the given password hash
func (r *Repository) CreateUser(ctx context.Context, req CreateUserRequest, passwordHash string) (*models.User, error) {
	row := r.db.QueryRowContext(ctx,
		`INSERT INTO users (username, email, password_hash, is_admin, active, created_at)
		 VALUES ($1, $2, $3, $4, true, now())
		 RETURNING `+userColumns,
		req.Username, req.Email, passwordHash, req.IsAdmin)

	user, err := scanUser(row)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

// GetUser retrieves a user by ID
func (r *Repository) GetUser(ctx context.Context, id int64) (*models.User, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	user, err := scanUser(row)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// GetUserByUsername retrieves a user by username, active or not
func (r *Repository) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, username)
	user, err := scanUser(row)
	if err != nil {
		return nil, fmt.Errorf("failed to get user by username: %w", err)
	}
	return user, nil
}

// GetUserByEmail retrieves a user by email
func (r *Repository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	user, err := scanUser(row)
	if err != nil {
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return user, nil
}

// GetPasswordHash retrieves the stored password hash of an active user
func (r *Repository) GetPasswordHash(ctx context.Context, username string) (string, error) {
	var hash string
	err := r.db.QueryRowContext(ctx,
		`SELECT password_hash FROM users WHERE username = $1 AND active`, username).Scan(&hash)
	if err != nil {
		return "", fmt.Errorf("failed to get password hash: %w", err)
	}
	return hash, nil
}

// ListActiveUsers retrieves the active users for the admin table
func (r *Repository) ListActiveUsers(ctx context.Context) ([]models.User, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+userColumns+` FROM users WHERE active ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, *user)
	}
	return users, rows.Err()
}

// UpdateUser applies the non-empty fields of req. passwordHash is
// applied only when non-empty.
func (r *Repository) UpdateUser(ctx context.Context, req UpdateUserRequest, passwordHash string) (*models.User, error) {
	sets := make([]string, 0, 4)
	args := make([]interface{}, 0, 5)

	add := func(col string, val interface{}) {
		args = append(args, val)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}

	if req.Username != "" {
		add("username", req.Username)
	}
	if req.Email != "" {
		add("email", req.Email)
	}
	if passwordHash != "" {
		add("password_hash", passwordHash)
	}
	add("is_admin", req.IsAdmin)

	args = append(args, req.ID)
	query := fmt.Sprintf(`UPDATE users SET %s WHERE id = $%d RETURNING `+userColumns,
		strings.Join(sets, ", "), len(args))

	user, err := scanUser(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return user, nil
}

// SetActive activates or deactivates a user
func (r *Repository) SetActive(ctx context.Context, id int64, active bool) error {
	if _, err := r.db.ExecContext(ctx, `UPDATE users SET active = $1 WHERE id = $2`, active, id); err != nil {
		return fmt.Errorf("failed to set user active: %w", err)
	}
	return nil
}

// SetPasswordHash replaces a user's password hash
func (r *Repository) SetPasswordHash(ctx context.Context, id int64, passwordHash string) error {
	if _, err := r.db.ExecContext(ctx, `UPDATE users SET password_hash = $1 WHERE id = $2`, passwordHash, id); err != nil {
		return fmt.Errorf("failed to set password: %w", err)
	}
	return nil
}

// SetAdmin grants or revokes the admin role
func (r *Repository) SetAdmin(ctx context.Context, id int64, isAdmin bool) error {
	if _, err := r.db.ExecContext(ctx, `UPDATE users SET is_admin = $1 WHERE id = $2`, isAdmin, id); err != nil {
		return fmt.Errorf("failed to set admin role: %w", err)
	}
	return nil
}
