package controllers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/classtrack/classtrack/internal/app/models/dto"
	"github.com/classtrack/classtrack/internal/app/services"
	"github.com/classtrack/classtrack/internal/middleware"
)

// ReportController handles attendance report exports
type ReportController struct {
	reportService services.ReportService
}

// NewReportController creates a new ReportController
func NewReportController(reportService services.ReportService) *ReportController {
	return &ReportController{reportService: reportService}
}

// AttendanceReport exports a classroom attendance report as CSV
// @Summary Export attendance report
// @Description Exports all leave requests of a classroom in a date range as CSV
// @Tags reports
// @Produce text/csv
// @Security BearerAuth
// @Param id path string true "Classroom ID"
// @Param from query string true "Range start (YYYY-MM-DD)"
// @Param to query string true "Range end (YYYY-MM-DD)"
// @Success 200 {file} binary "CSV report"
// @Failure 400 {object} dto.ErrorResponse "Invalid date range"
// @Failure 403 {object} dto.ErrorResponse "Not the owning instructor"
// @Router /report/{id}/attendance-report [get]
func (c *ReportController) AttendanceReport(ctx *gin.Context) {
	callerID, ok := middleware.CallerID(ctx)
	if !ok {
		abortNoIdentity(ctx)
		return
	}

	from := ctx.Query("from")
	to := ctx.Query("to")
	if from == "" || to == "" {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Both from and to dates are required")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	content, filename, err := c.reportService.AttendanceCSV(ctx, callerID, ctx.Param("id"), from, to)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	ctx.Data(http.StatusOK, "text/csv", content)
}
