package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/classtrack/classtrack/internal/app/models/dto"
	"github.com/classtrack/classtrack/internal/app/services"
	"github.com/classtrack/classtrack/internal/middleware"
)

// ClassroomController handles classroom operations
type ClassroomController struct {
	classroomService services.ClassroomService
}

// NewClassroomController creates a new ClassroomController
func NewClassroomController(classroomService services.ClassroomService) *ClassroomController {
	return &ClassroomController{classroomService: classroomService}
}

// Create handles classroom creation
// @Summary Create a classroom
// @Description Creates a classroom owned by the calling instructor. The caller picks the ID, the join code is generated.
// @Tags classrooms
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateClassroomRequest true "Classroom data"
// @Success 201 {object} dto.APIResponse{data=dto.ClassroomResponse} "Classroom created"
// @Failure 400 {object} dto.ErrorResponse "Invalid classroom data"
// @Failure 409 {object} dto.ErrorResponse "Classroom ID already taken"
// @Router /classroom/create [post]
func (c *ClassroomController) Create(ctx *gin.Context) {
	callerID, ok := middleware.CallerID(ctx)
	if !ok {
		abortNoIdentity(ctx)
		return
	}

	var req dto.CreateClassroomRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid classroom data")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail.WithDetails(err.Error())))
		return
	}

	resp, err := c.classroomService.Create(ctx, callerID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{Data: resp, Timestamp: time.Now()})
}

// Get retrieves one classroom
// @Summary Get classroom details
// @Tags classrooms
// @Produce json
// @Security BearerAuth
// @Param id path string true "Classroom ID"
// @Success 200 {object} dto.APIResponse{data=dto.ClassroomResponse} "Classroom"
// @Failure 404 {object} dto.ErrorResponse "Classroom not found"
// @Router /classroom/{id} [get]
func (c *ClassroomController) Get(ctx *gin.Context) {
	callerID, ok := middleware.CallerID(ctx)
	if !ok {
		abortNoIdentity(ctx)
		return
	}

	resp, err := c.classroomService.Get(ctx, callerID, ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: resp, Timestamp: time.Now()})
}

// Update handles classroom updates
// @Summary Update a classroom
// @Description Changes name and description, owning instructor only
// @Tags classrooms
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Classroom ID"
// @Param request body dto.UpdateClassroomRequest true "New classroom data"
// @Success 200 {object} dto.APIResponse{data=dto.ClassroomResponse} "Classroom updated"
// @Failure 403 {object} dto.ErrorResponse "Not the owning instructor"
// @Failure 404 {object} dto.ErrorResponse "Classroom not found"
// @Router /classroom/{id} [put]
func (c *ClassroomController) Update(ctx *gin.Context) {
	callerID, ok := middleware.CallerID(ctx)
	if !ok {
		abortNoIdentity(ctx)
		return
	}

	var req dto.UpdateClassroomRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid classroom data")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail.WithDetails(err.Error())))
		return
	}

	resp, err := c.classroomService.Update(ctx, callerID, ctx.Param("id"), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: resp, Timestamp: time.Now()})
}

// Delete removes a classroom
// @Summary Delete a classroom
// @Tags classrooms
// @Produce json
// @Security BearerAuth
// @Param id path string true "Classroom ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Classroom deleted"
// @Failure 403 {object} dto.ErrorResponse "Not the owning instructor"
// @Failure 409 {object} dto.ErrorResponse "Classroom still has enrollments or requests"
// @Router /classroom/{id} [delete]
func (c *ClassroomController) Delete(ctx *gin.Context) {
	callerID, ok := middleware.CallerID(ctx)
	if !ok {
		abortNoIdentity(ctx)
		return
	}

	if err := c.classroomService.Delete(ctx, callerID, ctx.Param("id")); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.SuccessResponse{Message: "Classroom deleted"},
		Timestamp: time.Now(),
	})
}

// ListEnrolled lists the calling student's classrooms
// @Summary List enrolled classrooms
// @Tags classrooms
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]dto.ClassroomResponse} "Classrooms"
// @Router /classroom/my-enrolled [get]
func (c *ClassroomController) ListEnrolled(ctx *gin.Context) {
	callerID, ok := middleware.CallerID(ctx)
	if !ok {
		abortNoIdentity(ctx)
		return
	}

	resp, err := c.classroomService.ListEnrolled(ctx, callerID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: resp, Timestamp: time.Now()})
}

// ListTeaching lists the calling instructor's classrooms
// @Summary List taught classrooms
// @Tags classrooms
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]dto.ClassroomResponse} "Classrooms"
// @Router /classroom/my-teaching [get]
func (c *ClassroomController) ListTeaching(ctx *gin.Context) {
	callerID, ok := middleware.CallerID(ctx)
	if !ok {
		abortNoIdentity(ctx)
		return
	}

	resp, err := c.classroomService.ListTeaching(ctx, callerID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: resp, Timestamp: time.Now()})
}

// Join enrolls the calling student via join code
// @Summary Join a classroom
// @Description Enrolls the calling student in the classroom matching the join code
// @Tags classrooms
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.JoinClassroomRequest true "Join code"
// @Success 200 {object} dto.APIResponse{data=dto.ClassroomResponse} "Joined"
// @Failure 404 {object} dto.ErrorResponse "Join code not found"
// @Failure 409 {object} dto.ErrorResponse "Already enrolled"
// @Router /classroom/join [post]
func (c *ClassroomController) Join(ctx *gin.Context) {
	callerID, ok := middleware.CallerID(ctx)
	if !ok {
		abortNoIdentity(ctx)
		return
	}

	var req dto.JoinClassroomRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid join data")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail.WithDetails(err.Error())))
		return
	}

	resp, err := c.classroomService.Join(ctx, callerID, req.JoinCode)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: resp, Timestamp: time.Now()})
}

// Leave removes the calling student from a classroom
// @Summary Leave a classroom
// @Description Unenrolls the calling student. Refused while pending leave requests exist.
// @Tags classrooms
// @Produce json
// @Security BearerAuth
// @Param id path string true "Classroom ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Left classroom"
// @Failure 409 {object} dto.ErrorResponse "Pending leave requests exist or not enrolled"
// @Router /classroom/leave/{id} [delete]
func (c *ClassroomController) Leave(ctx *gin.Context) {
	callerID, ok := middleware.CallerID(ctx)
	if !ok {
		abortNoIdentity(ctx)
		return
	}

	if err := c.classroomService.Leave(ctx, callerID, ctx.Param("id")); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.SuccessResponse{Message: "Left classroom"},
		Timestamp: time.Now(),
	})
}

// ListStudents lists a classroom roster
// @Summary List enrolled students
// @Tags classrooms
// @Produce json
// @Security BearerAuth
// @Param id path string true "Classroom ID"
// @Success 200 {object} dto.APIResponse{data=[]dto.StudentResponse} "Roster"
// @Failure 403 {object} dto.ErrorResponse "Not the owning instructor"
// @Router /classroom/{id}/students [get]
func (c *ClassroomController) ListStudents(ctx *gin.Context) {
	callerID, ok := middleware.CallerID(ctx)
	if !ok {
		abortNoIdentity(ctx)
		return
	}

	resp, err := c.classroomService.ListStudents(ctx, callerID, ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: resp, Timestamp: time.Now()})
}

func abortNoIdentity(ctx *gin.Context) {
	ctx.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(
		dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required"),
	))
}
