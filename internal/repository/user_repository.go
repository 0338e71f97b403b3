package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"lguportal/portal/internal/database"
	"lguportal/portal/internal/models"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrEmailTaken   = errors.New("email already registered")
	// ErrDuplicateUserRecords means more than one row matched an email that
	// should be unique. It is a data-integrity fault, never a login.
	ErrDuplicateUserRecords = errors.New("multiple users share one email")
)

const (
	uniqueViolation = "23505"
	usersPrimaryKey = "users_pkey"
)

const userColumns = `
	id, username, email, password_hash, full_name, role, department, is_active,
	id_document_path, birthday, address, civil_status, created_at, updated_at
`

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func (r *UserRepository) Create(ctx context.Context, user models.User) error {
	const query = `
		INSERT INTO users (
			id, username, email, password_hash, full_name, role, department, is_active,
			id_document_path, birthday, address, civil_status, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, NOW(), NOW()
		)
	`

	var civilStatus *string
	if user.CivilStatus != nil {
		s := string(*user.CivilStatus)
		civilStatus = &s
	}

	_, err := r.pool.Exec(ctx, query,
		user.ID,
		user.Username,
		user.Email,
		user.PasswordHash,
		user.FullName,
		string(user.Role),
		user.Department,
		user.IsActive,
		user.IDDocumentPath,
		user.Birthday,
		user.Address,
		civilStatus,
	)
	return mapInsertError(err)
}

// mapInsertError turns a unique violation on users into ErrEmailTaken. Email
// is the only unique column besides the primary key, so a table created
// before the constraint was named still maps correctly.
func mapInsertError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != uniqueViolation {
		return err
	}
	if pgErr.ConstraintName == database.UsersEmailKey {
		return ErrEmailTaken
	}
	if pgErr.TableName == "users" && pgErr.ConstraintName != usersPrimaryKey {
		return ErrEmailTaken
	}
	return err
}

func (r *UserRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)`
	var exists bool
	if err := r.pool.QueryRow(ctx, query, email).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// FindByEmail returns the single user holding email. It reads at most two
// rows so that a broken uniqueness guarantee surfaces as
// ErrDuplicateUserRecords instead of an arbitrary pick.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1 LIMIT 2`

	rows, err := r.pool.Query(ctx, query, email)
	if err != nil {
		return models.User{}, err
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return models.User{}, err
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return models.User{}, err
	}

	return singleUser(users)
}

func singleUser(users []models.User) (models.User, error) {
	switch len(users) {
	case 0:
		return models.User{}, ErrUserNotFound
	case 1:
		return users[0], nil
	default:
		return models.User{}, ErrDuplicateUserRecords
	}
}

// DocumentReferenced reports whether any user points at the stored document.
func (r *UserRepository) DocumentReferenced(ctx context.Context, path string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM users WHERE id_document_path = $1)`
	var exists bool
	if err := r.pool.QueryRow(ctx, query, path).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func scanUser(row pgx.Row) (models.User, error) {
	var (
		user        models.User
		role        string
		civilStatus *string
	)
	if err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.FullName,
		&role,
		&user.Department,
		&user.IsActive,
		&user.IDDocumentPath,
		&user.Birthday,
		&user.Address,
		&civilStatus,
		&user.CreatedAt,
		&user.UpdatedAt,
	); err != nil {
		return models.User{}, err
	}
	user.Role = models.UserRole(role)
	if civilStatus != nil {
		cs := models.CivilStatus(*civilStatus)
		user.CivilStatus = &cs
	}
	return user, nil
}
