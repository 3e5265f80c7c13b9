package repository

import (
	"context"
	"ctchen222/todo-api/internal/api/models"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("repository")

//go:generate mockgen -source=user_repository.go -destination=mock_repository.go -package=repository
//go:generate mockgen -source=item_repository.go -destination=mock_item_repository.go -package=repository

// UserRepository defines the interface for user data operations.
// Lookups return (nil, nil) when no user matches.
type UserRepository interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	GetUserByCredentials(ctx context.Context, username, password string) (*models.User, error)
}

type sqliteUserRepository struct {
	db *sqlx.DB
}

// NewUserRepository creates a new SQLite-based UserRepository.
func NewUserRepository(db *sqlx.DB) UserRepository {
	return &sqliteUserRepository{db: db}
}

// CreateUser inserts a new user and sets user.ID to the assigned key.
func (r *sqliteUserRepository) CreateUser(ctx context.Context, user *models.User) error {
	ctx, span := tracer.Start(ctx, "UserRepository.CreateUser")
	defer span.End()

	query := `INSERT INTO users (username, password) VALUES (?, ?)`
	res, err := r.db.ExecContext(ctx, query, user.Username, user.Password)
	if err != nil {
		span.RecordError(err)
		return storageErr("create user", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return storageErr("create user", err)
	}
	user.ID = id
	return nil
}

// GetUserByID retrieves a user by primary key.
func (r *sqliteUserRepository) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	ctx, span := tracer.Start(ctx, "UserRepository.GetUserByID")
	defer span.End()

	var user models.User
	query := `SELECT id, username, password FROM users WHERE id = ?`
	if err := r.db.GetContext(ctx, &user, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		span.RecordError(err)
		return nil, storageErr("get user by id", err)
	}
	return &user, nil
}

// GetUserByUsername retrieves the first user registered under username.
func (r *sqliteUserRepository) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	ctx, span := tracer.Start(ctx, "UserRepository.GetUserByUsername")
	defer span.End()

	var user models.User
	query := `SELECT id, username, password FROM users WHERE username = ? ORDER BY id LIMIT 1`
	if err := r.db.GetContext(ctx, &user, query, username); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // No user found is not an application error
		}
		span.RecordError(err)
		return nil, storageErr("get user by username", err)
	}
	return &user, nil
}

// GetUserByCredentials retrieves the first user whose username and password
// both match. Duplicate usernames are allowed, so each account stays
// reachable with its own password.
func (r *sqliteUserRepository) GetUserByCredentials(ctx context.Context, username, password string) (*models.User, error) {
	ctx, span := tracer.Start(ctx, "UserRepository.GetUserByCredentials")
	defer span.End()

	var user models.User
	query := `SELECT id, username, password FROM users WHERE username = ? AND password = ? ORDER BY id LIMIT 1`
	if err := r.db.GetContext(ctx, &user, query, username, password); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		span.RecordError(err)
		return nil, storageErr("get user by credentials", err)
	}
	return &user, nil
}
