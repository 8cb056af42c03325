package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/classtrack/classtrack/internal/app/models/dto"
	"github.com/classtrack/classtrack/internal/app/repositories"
	"github.com/classtrack/classtrack/internal/pkg/apperrors"
)

// ReportService defines the interface for attendance reporting
type ReportService interface {
	AttendanceCSV(ctx context.Context, instructorID int64, classroomID string, from, to string) ([]byte, string, error)
}

// reportServiceImpl implements the ReportService interface
type reportServiceImpl struct {
	leaveRequestRepo *repositories.LeaveRequestRepository
	classroomRepo    *repositories.ClassroomRepository
	logger           zerolog.Logger
}

// NewReportService creates a new ReportService
func NewReportService(
	leaveRequestRepo *repositories.LeaveRequestRepository,
	classroomRepo *repositories.ClassroomRepository,
	logger zerolog.Logger,
) ReportService {
	return &reportServiceImpl{
		leaveRequestRepo: leaveRequestRepo,
		classroomRepo:    classroomRepo,
		logger:           logger,
	}
}

// AttendanceCSV builds a CSV attendance report for a classroom over an
// inclusive date range. Returns the file content and a suggested
// filename. Owning instructor only.
func (s *reportServiceImpl) AttendanceCSV(ctx context.Context, instructorID int64, classroomID string, from, to string) ([]byte, string, error) {
	fromDate, err := time.Parse(dto.AbsenceDateLayout, from)
	if err != nil {
		return nil, "", apperrors.NewValidationError("from date must be formatted as YYYY-MM-DD")
	}
	toDate, err := time.Parse(dto.AbsenceDateLayout, to)
	if err != nil {
		return nil, "", apperrors.NewValidationError("to date must be formatted as YYYY-MM-DD")
	}
	if toDate.Before(fromDate) {
		return nil, "", apperrors.NewValidationError("to date must not be before from date")
	}

	classroom, err := s.classroomRepo.GetByID(ctx, classroomID)
	if err != nil {
		return nil, "", err
	}
	if classroom.InstructorID != instructorID {
		return nil, "", apperrors.NewForbiddenError("only the owning instructor can export reports")
	}

	rows, err := s.leaveRequestRepo.ReportRows(ctx, classroomID, fromDate, toDate)
	if err != nil {
		return nil, "", err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	_ = w.Write([]string{"email", "fullName", "absenceDate", "status"})
	for _, row := range rows {
		if err := w.Write([]string{
			row.StudentEmail,
			row.StudentName,
			row.AbsenceDate.Format(dto.AbsenceDateLayout),
			string(row.Status),
		}); err != nil {
			return nil, "", fmt.Errorf("error writing report row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, "", fmt.Errorf("error flushing report: %w", err)
	}

	s.logger.Info().Str("classroomID", classroomID).Int("rows", len(rows)).Msg("Attendance report generated")

	filename := fmt.Sprintf("attendance-%s-%s-%s.csv", classroomID, from, to)
	return buf.Bytes(), filename, nil
}
