package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/classtrack/classtrack/internal/app/models"
	"github.com/classtrack/classtrack/internal/pkg/apperrors"
	"github.com/classtrack/classtrack/internal/pkg/dberrors"
	"github.com/classtrack/classtrack/internal/pkg/logger"
)

// UserRepository handles user database operations
type UserRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts a new user and sets its generated ID
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	sql, args, err := r.sb.Insert("users").
		Columns("email", "password", "full_name", "role", "created_at").
		Values(user.Email, user.Password, user.FullName, user.Role, time.Now()).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create user query: %w", err)
	}

	err = r.db.QueryRow(ctx, sql, args...).Scan(&user.ID)
	if err != nil {
		if dberrors.IsUniqueViolation(err) {
			return apperrors.ErrEmailAlreadyExists
		}
		logger.Error().Err(err).Str("email", user.Email).Msg("Error creating user")
		return fmt.Errorf("error creating user: %w", err)
	}

	return nil
}

// GetByEmail retrieves a user by email
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	sql, args, err := r.sb.Select("id", "email", "password", "full_name", "role", "created_at").
		From("users").
		Where(squirrel.Eq{"email": email}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get user query: %w", err)
	}

	var user models.User
	err = r.db.QueryRow(ctx, sql, args...).Scan(
		&user.ID, &user.Email, &user.Password, &user.FullName, &user.Role, &user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("error retrieving user by email: %w", err)
	}

	return &user, nil
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	sql, args, err := r.sb.Select("id", "email", "password", "full_name", "role", "created_at").
		From("users").
		Where(squirrel.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get user query: %w", err)
	}

	var user models.User
	err = r.db.QueryRow(ctx, sql, args...).Scan(
		&user.ID, &user.Email, &user.Password, &user.FullName, &user.Role, &user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("error retrieving user by id: %w", err)
	}

	return &user, nil
}

// EmailExists checks if an email is already registered
func (r *UserRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	sql, args, err := r.sb.Select("1").
		From("users").
		Where(squirrel.Eq{"email": email}).
		Prefix("SELECT EXISTS (").
		Suffix(")").
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build email exists query: %w", err)
	}

	var exists bool
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("error checking email existence: %w", err)
	}

	return exists, nil
}
