package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/classtrack/classtrack/internal/app/models/dto"
	"github.com/classtrack/classtrack/internal/pkg/apperrors"
	"github.com/classtrack/classtrack/internal/pkg/logger"
)

// HandleAPIError maps service errors to HTTP responses. Sentinel errors
// carry the status; CustomError wrappers contribute the message.
func HandleAPIError(c *gin.Context, err error) {
	status, code := classify(err)

	message := err.Error()
	var custom *apperrors.CustomError
	if errors.As(err, &custom) {
		message = custom.Error()
	}

	if status == http.StatusInternalServerError {
		logger.Error().Err(err).Str("path", c.FullPath()).Msg("Unhandled API error")
		message = "Internal server error"
	}

	c.JSON(status, dto.APIResponse{
		Error: dto.NewErrorDetail(code, message),
	})
}

func classify(err error) (int, dto.ErrorCode) {
	switch {
	// 404
	case errors.Is(err, apperrors.ErrResourceNotFound),
		errors.Is(err, apperrors.ErrUserNotFound),
		errors.Is(err, apperrors.ErrClassroomNotFound),
		errors.Is(err, apperrors.ErrJoinCodeNotFound),
		errors.Is(err, apperrors.ErrLeaveRequestNotFound),
		errors.Is(err, apperrors.ErrEvidenceNotFound):
		return http.StatusNotFound, dto.ErrorCodeResourceNotFound

	// 401
	case errors.Is(err, apperrors.ErrInvalidCredentials):
		return http.StatusUnauthorized, dto.ErrorCodeInvalidCredentials
	case errors.Is(err, apperrors.ErrTokenExpired):
		return http.StatusUnauthorized, dto.ErrorCodeExpiredToken
	case errors.Is(err, apperrors.ErrTokenInvalid):
		return http.StatusUnauthorized, dto.ErrorCodeInvalidToken
	case errors.Is(err, apperrors.ErrTokenNotFound):
		return http.StatusUnauthorized, dto.ErrorCodeTokenNotFound

	// 403
	case errors.Is(err, apperrors.ErrPermissionDenied):
		return http.StatusForbidden, dto.ErrorCodeForbidden

	// 409
	case errors.Is(err, apperrors.ErrConflict),
		errors.Is(err, apperrors.ErrEmailAlreadyExists),
		errors.Is(err, apperrors.ErrClassroomAlreadyExists),
		errors.Is(err, apperrors.ErrClassroomHasRelations),
		errors.Is(err, apperrors.ErrAlreadyEnrolled),
		errors.Is(err, apperrors.ErrNotEnrolled),
		errors.Is(err, apperrors.ErrRequestNotPending),
		errors.Is(err, apperrors.ErrDuplicateRequest):
		return http.StatusConflict, dto.ErrorCodeResourceConflict

	// 400
	case errors.Is(err, apperrors.ErrValidationFailed),
		errors.Is(err, apperrors.ErrBadRequest):
		return http.StatusBadRequest, dto.ErrorCodeValidationFailed

	default:
		return http.StatusInternalServerError, dto.ErrorCodeInternalServer
	}
}
