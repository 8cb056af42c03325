package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/classtrack/classtrack/internal/app/models/dto"
	"github.com/classtrack/classtrack/internal/app/services"
	"github.com/classtrack/classtrack/internal/middleware"
)

// AuthController handles authentication operations
type AuthController struct {
	authService services.AuthService
}

// NewAuthController creates a new AuthController
func NewAuthController(authService services.AuthService) *AuthController {
	return &AuthController{authService: authService}
}

// Register handles new account creation
// @Summary Register a new user
// @Description Creates a student or instructor account and returns a token pair
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.RegisterRequest true "Registration data"
// @Success 201 {object} dto.APIResponse{data=dto.AuthResponse} "Account created"
// @Failure 400 {object} dto.ErrorResponse "Invalid registration data"
// @Failure 409 {object} dto.ErrorResponse "Email already registered"
// @Router /auth/register [post]
func (c *AuthController) Register(ctx *gin.Context) {
	var req dto.RegisterRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid registration data")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail.WithDetails(err.Error())))
		return
	}

	resp, err := c.authService.Register(ctx, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{
		Data:      resp,
		Timestamp: time.Now(),
	})
}

// Login handles email and password authentication
// @Summary Log in
// @Description Authenticates a user and returns a token pair with the role claim
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Credentials"
// @Success 200 {object} dto.APIResponse{data=dto.AuthResponse} "Authenticated"
// @Failure 400 {object} dto.ErrorResponse "Invalid request body"
// @Failure 401 {object} dto.ErrorResponse "Invalid credentials"
// @Router /auth/login [post]
func (c *AuthController) Login(ctx *gin.Context) {
	var req dto.LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid login data")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail.WithDetails(err.Error())))
		return
	}

	resp, err := c.authService.Login(ctx, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      resp,
		Timestamp: time.Now(),
	})
}

// Refresh exchanges a refresh token for a new token pair
// @Summary Refresh tokens
// @Description Rotates a refresh token into a fresh access and refresh token pair
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.RefreshTokenRequest true "Refresh token"
// @Success 200 {object} dto.APIResponse{data=dto.AuthResponse} "Tokens refreshed"
// @Failure 401 {object} dto.ErrorResponse "Token invalid, expired or revoked"
// @Router /auth/refresh [post]
func (c *AuthController) Refresh(ctx *gin.Context) {
	var req dto.RefreshTokenRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid refresh data")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail.WithDetails(err.Error())))
		return
	}

	resp, err := c.authService.Refresh(ctx, req.RefreshToken)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      resp,
		Timestamp: time.Now(),
	})
}

// Logout revokes a refresh token
// @Summary Log out
// @Description Revokes the given refresh token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.RefreshTokenRequest true "Refresh token"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Logged out"
// @Router /auth/logout [post]
func (c *AuthController) Logout(ctx *gin.Context) {
	var req dto.RefreshTokenRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid logout data")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail.WithDetails(err.Error())))
		return
	}

	if err := c.authService.Logout(ctx, req.RefreshToken); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.SuccessResponse{Message: "Logged out"},
		Timestamp: time.Now(),
	})
}
