package students

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/ciberteca/rental/go/internal/models"
	"github.com/ciberteca/rental/go/internal/sqlutil"
)

// DBTX defines what the repository needs from the database layer
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// Repository implements student data access operations
type Repository struct {
	db DBTX
}

// NewRepository creates a new students repository
func NewRepository(db DBTX) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the given transaction.
func (r *Repository) WithTx(tx *sql.Tx) *Repository {
	return &Repository{db: tx}
}

const studentColumns = `id, name, forgoten_id, hash`

func scanStudent(row interface{ Scan(...interface{}) error }) (*models.Student, error) {
	var s models.Student
	var name, hash sql.NullString
	if err := row.Scan(&s.ID, &name, &s.ForgotID, &hash); err != nil {
		return nil, err
	}
	s.Name = sqlutil.FromSqlString(name, "")
	s.Hash = sqlutil.FromSqlString(hash, "")
	return &s, nil
}

// CreateStudent inserts a new student
func (r *Repository) CreateStudent(ctx context.Context, req CreateStudentRequest) (*models.Student, error) {
	row := r.db.QueryRowContext(ctx,
		`INSERT INTO students (id, name, forgoten_id)
		 VALUES ($1, $2, $3)
		 RETURNING `+studentColumns,
		req.ID, sqlutil.ToSqlString(req.Name), req.ForgotID)

	student, err := scanStudent(row)
	if err != nil {
		return nil, fmt.Errorf("failed to create student: %w", err)
	}
	return student, nil
}

// GetStudent retrieves a student by matricula
func (r *Repository) GetStudent(ctx context.Context, id string) (*models.Student, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+studentColumns+` FROM students WHERE id = $1`, id)
	student, err := scanStudent(row)
	if err != nil {
		return nil, fmt.Errorf("failed to get student: %w", err)
	}
	return student, nil
}

// ListStudents retrieves every student for the admin table
func (r *Repository) ListStudents(ctx context.Context) ([]models.Student, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+studentColumns+` FROM students ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list students: %w", err)
	}
	defer rows.Close()

	var students []models.Student
	for rows.Next() {
		student, err := scanStudent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan student: %w", err)
		}
		students = append(students, *student)
	}
	return students, rows.Err()
}

// UpdateStudent applies the non-nil fields of req.
func (r *Repository) UpdateStudent(ctx context.Context, req UpdateStudentRequest) (*models.Student, error) {
	sets := make([]string, 0, 2)
	args := make([]interface{}, 0, 3)

	if req.Name != nil {
		args = append(args, sqlutil.ToSqlString(*req.Name))
		sets = append(sets, fmt.Sprintf("name = $%d", len(args)))
	}
	if req.ForgotID != nil {
		args = append(args, *req.ForgotID)
		sets = append(sets, fmt.Sprintf("forgoten_id = $%d", len(args)))
	}

	if len(sets) == 0 {
		return r.GetStudent(ctx, req.ID)
	}

	args = append(args, req.ID)
	query := fmt.Sprintf(`UPDATE students SET %s WHERE id = $%d RETURNING `+studentColumns,
		strings.Join(sets, ", "), len(args))

	student, err := scanStudent(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		return nil, fmt.Errorf("failed to update student: %w", err)
	}
	return student, nil
}

// DeleteStudent deletes a student by matricula
func (r *Repository) DeleteStudent(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM students WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete student: %w", err)
	}
	return nil
}
