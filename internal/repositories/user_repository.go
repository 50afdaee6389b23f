package repositories

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"busbooking/internal/domain"
	"busbooking/internal/domain/models"

	"github.com/go-sql-driver/mysql"
)

// UserRepository persists user credentials and federated-identity bindings.
type UserRepository struct {
	DB *sql.DB
}

func (r UserRepository) FindByUsername(ctx context.Context, username string) (models.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return models.User{}, domain.ValidationError{Field: "username", Msg: "must not be empty"}
	}

	var u models.User
	err := r.DB.QueryRowContext(ctx, `
		SELECT id, username, password_hash, role, created_at
		FROM users
		WHERE username = ?
		LIMIT 1
	`, username).Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Role, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, domain.NotFoundError{Resource: "user"}
		}
		return models.User{}, domain.UnavailableError{Op: "identity store", Err: err}
	}
	return u, nil
}

func (r UserRepository) FindByID(ctx context.Context, id int64) (models.User, error) {
	if id <= 0 {
		return models.User{}, domain.ValidationError{Field: "id", Msg: "must be positive"}
	}

	var u models.User
	err := r.DB.QueryRowContext(ctx, `
		SELECT id, username, password_hash, role, created_at
		FROM users
		WHERE id = ?
		LIMIT 1
	`, id).Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Role, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, domain.NotFoundError{Resource: "user"}
		}
		return models.User{}, domain.UnavailableError{Op: "identity store", Err: err}
	}
	return u, nil
}

// Create inserts a new user. The unique index on username makes this the
// race-safe insert-if-absent primitive: a concurrent duplicate surfaces as
// DuplicateUserError and the caller re-fetches the winning row.
func (r UserRepository) Create(ctx context.Context, username, credentialHash string) (models.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return models.User{}, domain.ValidationError{Field: "username", Msg: "must not be empty"}
	}
	if credentialHash == "" {
		return models.User{}, domain.ValidationError{Field: "credential", Msg: "must not be empty"}
	}

	res, err := r.DB.ExecContext(ctx, `
		INSERT INTO users (username, password_hash, role, created_at)
		VALUES (?, ?, 'user', NOW())
	`, username, credentialHash)
	if err != nil {
		var me *mysql.MySQLError
		if errors.As(err, &me) && me.Number == 1062 {
			return models.User{}, domain.DuplicateUserError{Username: username, Err: err}
		}
		return models.User{}, domain.UnavailableError{Op: "identity store", Err: err}
	}

	id, err := res.LastInsertId()
	if err != nil {
		return models.User{}, domain.InternalError{Err: err}
	}
	return models.User{ID: id, Username: username, PasswordHash: credentialHash, Role: "user"}, nil
}
