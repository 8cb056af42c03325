package services

import (
	"context"
	"mime/multipart"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/classtrack/classtrack/internal/app/models"
	"github.com/classtrack/classtrack/internal/app/models/dto"
	"github.com/classtrack/classtrack/internal/app/repositories"
	"github.com/classtrack/classtrack/internal/pkg/apperrors"
	"github.com/classtrack/classtrack/internal/pkg/filestorage"
)

const evidenceSubDir = "evidence"

// maxEvidenceSize caps evidence uploads at 10 MiB
const maxEvidenceSize = 10 << 20

// LeaveRequestService defines the interface for leave request operations
type LeaveRequestService interface {
	Submit(ctx context.Context, studentID int64, req *dto.SubmitLeaveRequest, evidence *multipart.FileHeader) (*dto.LeaveRequestResponse, error)
	Get(ctx context.Context, callerID int64, requestID int64) (*dto.LeaveRequestResponse, error)
	ListMine(ctx context.Context, studentID int64, status string) ([]dto.LeaveRequestResponse, error)
	ListForClassroom(ctx context.Context, instructorID int64, classroomID string, status string) ([]dto.LeaveRequestResponse, error)
	ListForInstructor(ctx context.Context, instructorID int64, status string) ([]dto.LeaveRequestResponse, error)
	Approve(ctx context.Context, instructorID int64, requestID int64) (*dto.LeaveRequestResponse, error)
	Deny(ctx context.Context, instructorID int64, requestID int64, req *dto.DenyLeaveRequest) (*dto.LeaveRequestResponse, error)
	Withdraw(ctx context.Context, studentID int64, requestID int64) error
	EvidencePath(ctx context.Context, callerID int64, requestID int64) (string, error)
}

// leaveRequestServiceImpl implements the LeaveRequestService interface
type leaveRequestServiceImpl struct {
	leaveRequestRepo *repositories.LeaveRequestRepository
	classroomRepo    *repositories.ClassroomRepository
	storage          *filestorage.LocalStorage
	logger           zerolog.Logger
}

// NewLeaveRequestService creates a new LeaveRequestService
func NewLeaveRequestService(
	leaveRequestRepo *repositories.LeaveRequestRepository,
	classroomRepo *repositories.ClassroomRepository,
	storage *filestorage.LocalStorage,
	logger zerolog.Logger,
) LeaveRequestService {
	return &leaveRequestServiceImpl{
		leaveRequestRepo: leaveRequestRepo,
		classroomRepo:    classroomRepo,
		storage:          storage,
		logger:           logger,
	}
}

// Submit creates a pending leave request for the calling student,
// storing the optional evidence file first.
func (s *leaveRequestServiceImpl) Submit(ctx context.Context, studentID int64, req *dto.SubmitLeaveRequest, evidence *multipart.FileHeader) (*dto.LeaveRequestResponse, error) {
	reason := strings.TrimSpace(req.Reason)
	if reason == "" {
		return nil, apperrors.NewValidationError("reason cannot be empty")
	}

	absenceDate, err := time.Parse(dto.AbsenceDateLayout, req.AbsenceDate)
	if err != nil {
		return nil, apperrors.NewValidationError("absence date must be formatted as YYYY-MM-DD")
	}
	today := time.Now().UTC().Truncate(24 * time.Hour)
	if absenceDate.Before(today) {
		return nil, apperrors.NewValidationError("absence date must not be in the past")
	}

	if evidence != nil && evidence.Size > maxEvidenceSize {
		return nil, apperrors.NewValidationError("evidence file exceeds the 10 MiB limit")
	}

	enrolled, err := s.classroomRepo.IsEnrolled(ctx, studentID, req.ClassroomID)
	if err != nil {
		return nil, err
	}
	if !enrolled {
		return nil, apperrors.NewForbiddenError("you are not enrolled in this classroom")
	}

	storedPath, err := s.storage.Save(evidence, evidenceSubDir)
	if err != nil {
		return nil, err
	}

	lr := &models.LeaveRequest{
		StudentID:   studentID,
		ClassroomID: req.ClassroomID,
		AbsenceDate: absenceDate,
		Reason:      reason,
	}
	if storedPath != "" {
		lr.EvidencePath = &storedPath
	}

	if err := s.leaveRequestRepo.Create(ctx, lr); err != nil {
		// Creation failed, drop the orphaned evidence file.
		if storedPath != "" {
			_ = s.storage.Delete(storedPath)
		}
		return nil, err
	}

	s.logger.Info().Int64("requestID", lr.ID).Int64("studentID", studentID).
		Str("classroomID", req.ClassroomID).Msg("Leave request submitted")

	// Reload with student and classroom names joined in.
	full, err := s.leaveRequestRepo.GetByID(ctx, lr.ID)
	if err != nil {
		return nil, err
	}
	resp := dto.ToLeaveRequestResponse(full)
	return &resp, nil
}

// Get retrieves one leave request, visible to the owning student and
// to the instructor of its classroom.
func (s *leaveRequestServiceImpl) Get(ctx context.Context, callerID int64, requestID int64) (*dto.LeaveRequestResponse, error) {
	lr, err := s.authorizedRequest(ctx, callerID, requestID)
	if err != nil {
		return nil, err
	}
	resp := dto.ToLeaveRequestResponse(lr)
	return &resp, nil
}

func (s *leaveRequestServiceImpl) authorizedRequest(ctx context.Context, callerID int64, requestID int64) (*models.LeaveRequest, error) {
	lr, err := s.leaveRequestRepo.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if lr.StudentID == callerID {
		return lr, nil
	}

	classroom, err := s.classroomRepo.GetByID(ctx, lr.ClassroomID)
	if err != nil {
		return nil, err
	}
	if classroom.InstructorID != callerID {
		return nil, apperrors.NewForbiddenError("you cannot access this leave request")
	}
	return lr, nil
}

// ListMine retrieves the calling student's requests
func (s *leaveRequestServiceImpl) ListMine(ctx context.Context, studentID int64, status string) ([]dto.LeaveRequestResponse, error) {
	filter, err := parseStatusFilter(status)
	if err != nil {
		return nil, err
	}
	requests, err := s.leaveRequestRepo.ListByStudent(ctx, studentID, filter)
	if err != nil {
		return nil, err
	}
	return dto.ToLeaveRequestResponses(requests), nil
}

// ListForClassroom retrieves requests for one classroom, owning
// instructor only.
func (s *leaveRequestServiceImpl) ListForClassroom(ctx context.Context, instructorID int64, classroomID string, status string) ([]dto.LeaveRequestResponse, error) {
	filter, err := parseStatusFilter(status)
	if err != nil {
		return nil, err
	}

	classroom, err := s.classroomRepo.GetByID(ctx, classroomID)
	if err != nil {
		return nil, err
	}
	if classroom.InstructorID != instructorID {
		return nil, apperrors.NewForbiddenError("only the owning instructor can view classroom requests")
	}

	requests, err := s.leaveRequestRepo.ListByClassroom(ctx, classroomID, filter)
	if err != nil {
		return nil, err
	}
	return dto.ToLeaveRequestResponses(requests), nil
}

// ListForInstructor retrieves requests across every classroom the
// calling instructor teaches.
func (s *leaveRequestServiceImpl) ListForInstructor(ctx context.Context, instructorID int64, status string) ([]dto.LeaveRequestResponse, error) {
	filter, err := parseStatusFilter(status)
	if err != nil {
		return nil, err
	}
	requests, err := s.leaveRequestRepo.ListByInstructor(ctx, instructorID, filter)
	if err != nil {
		return nil, err
	}
	return dto.ToLeaveRequestResponses(requests), nil
}

func parseStatusFilter(status string) (models.RequestStatus, error) {
	if status == "" {
		return "", nil
	}
	filter := models.RequestStatus(strings.ToUpper(status))
	if !filter.Valid() {
		return "", apperrors.NewValidationError("status must be PENDING, APPROVED or REJECTED")
	}
	return filter, nil
}

// Approve marks a pending request APPROVED. Requests already decided
// are never silently re-approved.
func (s *leaveRequestServiceImpl) Approve(ctx context.Context, instructorID int64, requestID int64) (*dto.LeaveRequestResponse, error) {
	return s.decide(ctx, instructorID, requestID, models.StatusApproved, nil)
}

// Deny marks a pending request REJECTED with a mandatory reason
func (s *leaveRequestServiceImpl) Deny(ctx context.Context, instructorID int64, requestID int64, req *dto.DenyLeaveRequest) (*dto.LeaveRequestResponse, error) {
	reason := strings.TrimSpace(req.DenialReason)
	if reason == "" {
		return nil, apperrors.NewValidationError("denial reason cannot be empty")
	}
	return s.decide(ctx, instructorID, requestID, models.StatusRejected, &reason)
}

func (s *leaveRequestServiceImpl) decide(ctx context.Context, instructorID int64, requestID int64, status models.RequestStatus, denialReason *string) (*dto.LeaveRequestResponse, error) {
	lr, err := s.leaveRequestRepo.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}

	classroom, err := s.classroomRepo.GetByID(ctx, lr.ClassroomID)
	if err != nil {
		return nil, err
	}
	if classroom.InstructorID != instructorID {
		return nil, apperrors.NewForbiddenError("only the owning instructor can decide this request")
	}

	if !lr.Status.CanTransitionTo(status) {
		return nil, apperrors.ErrRequestNotPending
	}

	if err := s.leaveRequestRepo.UpdateDecision(ctx, requestID, status, denialReason, instructorID); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("requestID", requestID).Str("status", string(status)).
		Int64("instructorID", instructorID).Msg("Leave request decided")

	full, err := s.leaveRequestRepo.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	resp := dto.ToLeaveRequestResponse(full)
	return &resp, nil
}

// Withdraw deletes the calling student's own pending request along
// with its evidence file.
func (s *leaveRequestServiceImpl) Withdraw(ctx context.Context, studentID int64, requestID int64) error {
	lr, err := s.leaveRequestRepo.GetByID(ctx, requestID)
	if err != nil {
		return err
	}
	if lr.StudentID != studentID {
		return apperrors.NewForbiddenError("you can only withdraw your own leave requests")
	}
	if lr.Status != models.StatusPending {
		return apperrors.ErrRequestNotPending
	}

	if err := s.leaveRequestRepo.Delete(ctx, requestID); err != nil {
		return err
	}

	if lr.EvidencePath != nil {
		if err := s.storage.Delete(*lr.EvidencePath); err != nil {
			s.logger.Warn().Err(err).Int64("requestID", requestID).Msg("Failed to delete evidence file")
		}
	}

	s.logger.Info().Int64("requestID", requestID).Int64("studentID", studentID).Msg("Leave request withdrawn")
	return nil
}

// EvidencePath resolves the on-disk path of a request's evidence file,
// with the same visibility rules as Get.
func (s *leaveRequestServiceImpl) EvidencePath(ctx context.Context, callerID int64, requestID int64) (string, error) {
	lr, err := s.authorizedRequest(ctx, callerID, requestID)
	if err != nil {
		return "", err
	}
	if lr.EvidencePath == nil {
		return "", apperrors.ErrEvidenceNotFound
	}

	path, err := s.storage.Resolve(*lr.EvidencePath)
	if err != nil {
		return "", apperrors.ErrEvidenceNotFound
	}
	return path, nil
}
