package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"budget_tracker/internal/model"
)

// UserRepository defines operations for user data
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByUsername(ctx context.Context, username string) (*model.User, error)
	FindByID(ctx context.Context, id int) (*model.User, error)
}

type userRepository struct {
	db Querier
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db Querier) UserRepository {
	return &userRepository{db: db}
}

// Create inserts a new user into the database
func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	sql := `INSERT INTO users (username, email, password_hash, role)
            VALUES ($1, $2, $3, $4) RETURNING id, created_at`
	err := r.db.QueryRow(ctx, sql, user.Username, user.Email, user.PasswordHash, user.Role).Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		return persistenceErr("create user", err)
	}
	return nil
}

// FindByUsername retrieves a user by username. A missing user is (nil, nil).
func (r *userRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	return r.findOne(ctx, `SELECT id, username, email, password_hash, role, created_at FROM users WHERE username = $1`, username)
}

// FindByID retrieves a user by their ID. A missing user is (nil, nil).
func (r *userRepository) FindByID(ctx context.Context, id int) (*model.User, error) {
	return r.findOne(ctx, `SELECT id, username, email, password_hash, role, created_at FROM users WHERE id = $1`, id)
}

func (r *userRepository) findOne(ctx context.Context, sql string, arg any) (*model.User, error) {
	user := &model.User{}
	err := r.db.QueryRow(ctx, sql, arg).Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.Role, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, persistenceErr("find user", err)
	}
	return user, nil
}
