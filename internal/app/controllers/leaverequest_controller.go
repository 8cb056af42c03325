package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/classtrack/classtrack/internal/app/models/dto"
	"github.com/classtrack/classtrack/internal/app/services"
	"github.com/classtrack/classtrack/internal/middleware"
)

// LeaveRequestController handles leave request operations
type LeaveRequestController struct {
	leaveRequestService services.LeaveRequestService
}

// NewLeaveRequestController creates a new LeaveRequestController
func NewLeaveRequestController(leaveRequestService services.LeaveRequestService) *LeaveRequestController {
	return &LeaveRequestController{leaveRequestService: leaveRequestService}
}

// Submit handles leave request submission
// @Summary Submit a leave request
// @Description Creates a pending leave request with an optional evidence file
// @Tags leave-requests
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Param classroomId formData string true "Classroom ID"
// @Param absenceDate formData string true "Absence date (YYYY-MM-DD)"
// @Param reason formData string true "Reason for absence"
// @Param evidence formData file false "Evidence file"
// @Success 201 {object} dto.APIResponse{data=dto.LeaveRequestResponse} "Request submitted"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 403 {object} dto.ErrorResponse "Not enrolled in the classroom"
// @Failure 409 {object} dto.ErrorResponse "Request for this date already exists"
// @Router /leave-request/submit [post]
func (c *LeaveRequestController) Submit(ctx *gin.Context) {
	callerID, ok := middleware.CallerID(ctx)
	if !ok {
		abortNoIdentity(ctx)
		return
	}

	var req dto.SubmitLeaveRequest
	if err := ctx.ShouldBind(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid leave request data")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail.WithDetails(err.Error())))
		return
	}

	// Evidence is optional, absence of the form file is not an error.
	evidence, err := ctx.FormFile("evidence")
	if err != nil && err != http.ErrMissingFile {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid evidence file")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail.WithDetails(err.Error())))
		return
	}

	resp, err := c.leaveRequestService.Submit(ctx, callerID, &req, evidence)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{Data: resp, Timestamp: time.Now()})
}

// Get retrieves one leave request
// @Summary Get leave request details
// @Tags leave-requests
// @Produce json
// @Security BearerAuth
// @Param id path int true "Leave request ID"
// @Success 200 {object} dto.APIResponse{data=dto.LeaveRequestResponse} "Leave request"
// @Failure 403 {object} dto.ErrorResponse "Not the owner or classroom instructor"
// @Failure 404 {object} dto.ErrorResponse "Leave request not found"
// @Router /leave-request/{id} [get]
func (c *LeaveRequestController) Get(ctx *gin.Context) {
	callerID, ok := middleware.CallerID(ctx)
	if !ok {
		abortNoIdentity(ctx)
		return
	}

	requestID, ok := parseRequestID(ctx)
	if !ok {
		return
	}

	resp, err := c.leaveRequestService.Get(ctx, callerID, requestID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: resp, Timestamp: time.Now()})
}

// ListMine lists the calling student's requests
// @Summary List my leave requests
// @Tags leave-requests
// @Produce json
// @Security BearerAuth
// @Param status query string false "Filter by status (PENDING, APPROVED, REJECTED)"
// @Success 200 {object} dto.APIResponse{data=[]dto.LeaveRequestResponse} "Requests"
// @Router /leave-request/my-requests [get]
func (c *LeaveRequestController) ListMine(ctx *gin.Context) {
	callerID, ok := middleware.CallerID(ctx)
	if !ok {
		abortNoIdentity(ctx)
		return
	}

	resp, err := c.leaveRequestService.ListMine(ctx, callerID, ctx.Query("status"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: resp, Timestamp: time.Now()})
}

// ListAll lists requests across the calling instructor's classrooms
// @Summary List all incoming leave requests
// @Tags leave-requests
// @Produce json
// @Security BearerAuth
// @Param status query string false "Filter by status (PENDING, APPROVED, REJECTED)"
// @Success 200 {object} dto.APIResponse{data=[]dto.LeaveRequestResponse} "Requests"
// @Router /leave-request/my-all [get]
func (c *LeaveRequestController) ListAll(ctx *gin.Context) {
	callerID, ok := middleware.CallerID(ctx)
	if !ok {
		abortNoIdentity(ctx)
		return
	}

	resp, err := c.leaveRequestService.ListForInstructor(ctx, callerID, ctx.Query("status"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: resp, Timestamp: time.Now()})
}

// ListForClassroom lists requests for one classroom
// @Summary List classroom leave requests
// @Tags leave-requests
// @Produce json
// @Security BearerAuth
// @Param id path string true "Classroom ID"
// @Param status query string false "Filter by status (PENDING, APPROVED, REJECTED)"
// @Success 200 {object} dto.APIResponse{data=[]dto.LeaveRequestResponse} "Requests"
// @Failure 403 {object} dto.ErrorResponse "Not the owning instructor"
// @Router /leave-request/classroom/{id} [get]
func (c *LeaveRequestController) ListForClassroom(ctx *gin.Context) {
	callerID, ok := middleware.CallerID(ctx)
	if !ok {
		abortNoIdentity(ctx)
		return
	}

	resp, err := c.leaveRequestService.ListForClassroom(ctx, callerID, ctx.Param("id"), ctx.Query("status"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: resp, Timestamp: time.Now()})
}

// Approve marks a pending request approved
// @Summary Approve a leave request
// @Tags leave-requests
// @Produce json
// @Security BearerAuth
// @Param id path int true "Leave request ID"
// @Success 200 {object} dto.APIResponse{data=dto.LeaveRequestResponse} "Request approved"
// @Failure 403 {object} dto.ErrorResponse "Not the classroom instructor"
// @Failure 409 {object} dto.ErrorResponse "Request already decided"
// @Router /leave-request/{id}/approve [post]
func (c *LeaveRequestController) Approve(ctx *gin.Context) {
	callerID, ok := middleware.CallerID(ctx)
	if !ok {
		abortNoIdentity(ctx)
		return
	}

	requestID, ok := parseRequestID(ctx)
	if !ok {
		return
	}

	resp, err := c.leaveRequestService.Approve(ctx, callerID, requestID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: resp, Timestamp: time.Now()})
}

// Deny marks a pending request rejected
// @Summary Deny a leave request
// @Description Rejects a pending request. The denial reason is mandatory.
// @Tags leave-requests
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Leave request ID"
// @Param request body dto.DenyLeaveRequest true "Denial reason"
// @Success 200 {object} dto.APIResponse{data=dto.LeaveRequestResponse} "Request denied"
// @Failure 400 {object} dto.ErrorResponse "Missing denial reason"
// @Failure 403 {object} dto.ErrorResponse "Not the classroom instructor"
// @Failure 409 {object} dto.ErrorResponse "Request already decided"
// @Router /leave-request/{id}/deny [post]
func (c *LeaveRequestController) Deny(ctx *gin.Context) {
	callerID, ok := middleware.CallerID(ctx)
	if !ok {
		abortNoIdentity(ctx)
		return
	}

	requestID, ok := parseRequestID(ctx)
	if !ok {
		return
	}

	var req dto.DenyLeaveRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Denial reason is required")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail.WithDetails(err.Error())))
		return
	}

	resp, err := c.leaveRequestService.Deny(ctx, callerID, requestID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: resp, Timestamp: time.Now()})
}

// Withdraw deletes the calling student's pending request
// @Summary Withdraw a leave request
// @Tags leave-requests
// @Produce json
// @Security BearerAuth
// @Param id path int true "Leave request ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Request withdrawn"
// @Failure 403 {object} dto.ErrorResponse "Not the owner"
// @Failure 409 {object} dto.ErrorResponse "Request already decided"
// @Router /leave-request/{id} [delete]
func (c *LeaveRequestController) Withdraw(ctx *gin.Context) {
	callerID, ok := middleware.CallerID(ctx)
	if !ok {
		abortNoIdentity(ctx)
		return
	}

	requestID, ok := parseRequestID(ctx)
	if !ok {
		return
	}

	if err := c.leaveRequestService.Withdraw(ctx, callerID, requestID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.SuccessResponse{Message: "Leave request withdrawn"},
		Timestamp: time.Now(),
	})
}

// Evidence streams a request's evidence file
// @Summary Download evidence
// @Description Streams the evidence file attached to a leave request
// @Tags leave-requests
// @Produce octet-stream
// @Security BearerAuth
// @Param id path int true "Leave request ID"
// @Success 200 {file} binary "Evidence file"
// @Failure 403 {object} dto.ErrorResponse "Not the owner or classroom instructor"
// @Failure 404 {object} dto.ErrorResponse "Request or evidence not found"
// @Router /leave-request/evidence/{id} [get]
func (c *LeaveRequestController) Evidence(ctx *gin.Context) {
	callerID, ok := middleware.CallerID(ctx)
	if !ok {
		abortNoIdentity(ctx)
		return
	}

	requestID, ok := parseRequestID(ctx)
	if !ok {
		return
	}

	path, err := c.leaveRequestService.EvidencePath(ctx, callerID, requestID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.File(path)
}

func parseRequestID(ctx *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid leave request ID")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail.WithDetails("Leave request ID must be a positive number")))
		return 0, false
	}
	return id, true
}
