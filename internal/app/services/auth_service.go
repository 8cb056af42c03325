package services

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"github.com/rs/zerolog"

	"github.com/classtrack/classtrack/internal/app/models"
	"github.com/classtrack/classtrack/internal/app/models/dto"
	"github.com/classtrack/classtrack/internal/app/repositories"
	"github.com/classtrack/classtrack/internal/pkg/apperrors"
	"github.com/classtrack/classtrack/internal/pkg/auth"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// AuthService defines the interface for authentication operations
type AuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*dto.AuthResponse, error)
	Logout(ctx context.Context, refreshToken string) error
}

// authServiceImpl implements the AuthService interface
type authServiceImpl struct {
	userRepo   *repositories.UserRepository
	tokenRepo  *repositories.TokenRepository
	jwtService *auth.JWTService
	logger     zerolog.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(
	userRepo *repositories.UserRepository,
	tokenRepo *repositories.TokenRepository,
	jwtService *auth.JWTService,
	logger zerolog.Logger,
) AuthService {
	return &authServiceImpl{
		userRepo:   userRepo,
		tokenRepo:  tokenRepo,
		jwtService: jwtService,
		logger:     logger,
	}
}

// Register creates a new user account and signs it in
func (s *authServiceImpl) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if !emailRegex.MatchString(email) {
		return nil, apperrors.NewValidationError("email format is invalid")
	}
	if len(req.Password) < 6 {
		return nil, apperrors.NewValidationError("password must be at least 6 characters")
	}
	fullName := strings.TrimSpace(req.FullName)
	if fullName == "" {
		return nil, apperrors.NewValidationError("full name cannot be empty")
	}

	// Role is accepted case-insensitively and stored upper case.
	role, ok := models.ParseRole(strings.ToUpper(strings.TrimSpace(req.Role)))
	if !ok {
		return nil, apperrors.NewValidationError("role must be STUDENT or INSTRUCTOR")
	}

	hashed, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Email:    email,
		Password: hashed,
		FullName: fullName,
		Role:     role,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, apperrors.ErrEmailAlreadyExists) {
			return nil, apperrors.ErrEmailAlreadyExists
		}
		return nil, err
	}

	s.logger.Info().Int64("userID", user.ID).Str("role", string(role)).Msg("User registered")

	return s.issueTokens(ctx, user)
}

// Login authenticates a user by email and password
func (s *authServiceImpl) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			// Same error as a bad password so login never leaks which
			// emails are registered.
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := auth.CheckPassword(user.Password, req.Password); err != nil {
		return nil, apperrors.ErrInvalidCredentials
	}

	s.logger.Info().Int64("userID", user.ID).Msg("User logged in")

	return s.issueTokens(ctx, user)
}

// Refresh exchanges a valid refresh token for a fresh token pair. The
// used token is revoked so each refresh token works exactly once; a
// replayed revoked token cuts every session for the account, since the
// replay means the token may have leaked.
func (s *authServiceImpl) Refresh(ctx context.Context, refreshToken string) (*dto.AuthResponse, error) {
	userID, err := s.tokenRepo.GetUserID(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, apperrors.ErrTokenInvalid) && userID > 0 {
			if revokeErr := s.tokenRepo.RevokeAllForUser(ctx, userID); revokeErr != nil {
				s.logger.Error().Err(revokeErr).Int64("userID", userID).Msg("Failed to revoke sessions after token replay")
			} else {
				s.logger.Warn().Int64("userID", userID).Msg("Revoked refresh token replayed, all sessions revoked")
			}
		}
		return nil, err
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := s.tokenRepo.Revoke(ctx, refreshToken); err != nil {
		return nil, err
	}

	return s.issueTokens(ctx, user)
}

// Logout revokes a refresh token. Unknown tokens are treated as already
// logged out.
func (s *authServiceImpl) Logout(ctx context.Context, refreshToken string) error {
	err := s.tokenRepo.Revoke(ctx, refreshToken)
	if err != nil && !errors.Is(err, apperrors.ErrTokenNotFound) {
		return err
	}
	return nil
}

func (s *authServiceImpl) issueTokens(ctx context.Context, user *models.User) (*dto.AuthResponse, error) {
	accessToken, refreshToken, expiresIn, err := s.jwtService.GenerateTokenPair(user)
	if err != nil {
		return nil, err
	}

	if err := s.tokenRepo.Create(ctx, refreshToken, user.ID, s.jwtService.RefreshTokenExpiry()); err != nil {
		return nil, err
	}

	return &dto.AuthResponse{
		Token: dto.TokenResponse{
			AccessToken:  accessToken,
			TokenType:    "Bearer",
			ExpiresIn:    expiresIn,
			RefreshToken: refreshToken,
		},
		User: dto.ToUserResponse(user),
	}, nil
}
