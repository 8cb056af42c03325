package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/classtrack/classtrack/internal/pkg/apperrors"
	"github.com/classtrack/classtrack/internal/pkg/logger"
)

// TokenRepository handles refresh token database operations
type TokenRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewTokenRepository creates a new TokenRepository
func NewTokenRepository(db *pgxpool.Pool) *TokenRepository {
	return &TokenRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create stores a new refresh token
func (r *TokenRepository) Create(ctx context.Context, token string, userID int64, expiryDate time.Time) error {
	sql, args, err := r.sb.Insert("refresh_tokens").
		Columns("token", "user_id", "expiry_date", "is_revoked", "created_at").
		Values(token, userID, expiryDate, false, time.Now()).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create token query: %w", err)
	}

	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		logger.Error().Err(err).Int64("userID", userID).Msg("Error creating refresh token")
		return fmt.Errorf("error creating refresh token: %w", err)
	}

	return nil
}

// GetUserID validates a refresh token and returns its owner.
// Revoked and expired tokens yield apperrors sentinels; for a revoked
// token the owner is still returned so callers can react to replay.
func (r *TokenRepository) GetUserID(ctx context.Context, token string) (int64, error) {
	sql, args, err := r.sb.Select("user_id", "expiry_date", "is_revoked").
		From("refresh_tokens").
		Where(squirrel.Eq{"token": token}).
		Limit(1).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build get token query: %w", err)
	}

	var userID int64
	var expiryDate time.Time
	var isRevoked bool
	err = r.db.QueryRow(ctx, sql, args...).Scan(&userID, &expiryDate, &isRevoked)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, apperrors.ErrTokenNotFound
		}
		return 0, fmt.Errorf("error retrieving refresh token: %w", err)
	}

	if isRevoked {
		return userID, apperrors.ErrTokenInvalid
	}
	if expiryDate.Before(time.Now()) {
		return 0, apperrors.ErrTokenExpired
	}

	return userID, nil
}

// Revoke marks a single refresh token as revoked
func (r *TokenRepository) Revoke(ctx context.Context, token string) error {
	sql, args, err := r.sb.Update("refresh_tokens").
		Set("is_revoked", true).
		Where(squirrel.Eq{"token": token}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build revoke token query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error revoking refresh token: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrTokenNotFound
	}

	return nil
}

// RevokeAllForUser revokes every refresh token owned by a user
func (r *TokenRepository) RevokeAllForUser(ctx context.Context, userID int64) error {
	sql, args, err := r.sb.Update("refresh_tokens").
		Set("is_revoked", true).
		Where(squirrel.Eq{"user_id": userID, "is_revoked": false}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build revoke tokens query: %w", err)
	}

	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("error revoking refresh tokens: %w", err)
	}

	return nil
}

// DeleteExpired removes tokens past their expiry date
func (r *TokenRepository) DeleteExpired(ctx context.Context) (int64, error) {
	sql, args, err := r.sb.Delete("refresh_tokens").
		Where(squirrel.Lt{"expiry_date": time.Now()}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build delete expired tokens query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return 0, fmt.Errorf("error deleting expired tokens: %w", err)
	}

	return cmdTag.RowsAffected(), nil
}
