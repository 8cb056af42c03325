package services

import (
	"context"
	"regexp"
	"strings"

	"github.com/rs/zerolog"

	"github.com/classtrack/classtrack/internal/app/models"
	"github.com/classtrack/classtrack/internal/app/models/dto"
	"github.com/classtrack/classtrack/internal/app/repositories"
	"github.com/classtrack/classtrack/internal/pkg/apperrors"
	"github.com/classtrack/classtrack/internal/pkg/joincode"
)

// classroomIDRegex constrains caller-chosen classroom IDs to something
// that survives URLs and rosters unescaped.
var classroomIDRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_\-]{0,63}$`)

const joinCodeAttempts = 5

// ClassroomService defines the interface for classroom operations
type ClassroomService interface {
	Create(ctx context.Context, instructorID int64, req *dto.CreateClassroomRequest) (*dto.ClassroomResponse, error)
	Get(ctx context.Context, callerID int64, classroomID string) (*dto.ClassroomResponse, error)
	Update(ctx context.Context, instructorID int64, classroomID string, req *dto.UpdateClassroomRequest) (*dto.ClassroomResponse, error)
	Delete(ctx context.Context, instructorID int64, classroomID string) error
	ListEnrolled(ctx context.Context, studentID int64) ([]dto.ClassroomResponse, error)
	ListTeaching(ctx context.Context, instructorID int64) ([]dto.ClassroomResponse, error)
	Join(ctx context.Context, studentID int64, joinCode string) (*dto.ClassroomResponse, error)
	Leave(ctx context.Context, studentID int64, classroomID string) error
	ListStudents(ctx context.Context, instructorID int64, classroomID string) ([]dto.StudentResponse, error)
}

// classroomServiceImpl implements the ClassroomService interface
type classroomServiceImpl struct {
	classroomRepo    *repositories.ClassroomRepository
	leaveRequestRepo *repositories.LeaveRequestRepository
	logger           zerolog.Logger
}

// NewClassroomService creates a new ClassroomService
func NewClassroomService(
	classroomRepo *repositories.ClassroomRepository,
	leaveRequestRepo *repositories.LeaveRequestRepository,
	logger zerolog.Logger,
) ClassroomService {
	return &classroomServiceImpl{
		classroomRepo:    classroomRepo,
		leaveRequestRepo: leaveRequestRepo,
		logger:           logger,
	}
}

// Create creates a classroom owned by the calling instructor and
// assigns it a fresh join code.
func (s *classroomServiceImpl) Create(ctx context.Context, instructorID int64, req *dto.CreateClassroomRequest) (*dto.ClassroomResponse, error) {
	id := strings.TrimSpace(req.ID)
	if !classroomIDRegex.MatchString(id) {
		return nil, apperrors.NewValidationError("classroom ID must be alphanumeric with dashes or underscores")
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, apperrors.NewValidationError("classroom name cannot be empty")
	}

	code, err := s.freshJoinCode(ctx)
	if err != nil {
		return nil, err
	}

	classroom := &models.Classroom{
		ID:           id,
		Name:         name,
		Description:  strings.TrimSpace(req.Description),
		JoinCode:     code,
		InstructorID: instructorID,
	}
	if err := s.classroomRepo.Create(ctx, classroom); err != nil {
		return nil, err
	}

	s.logger.Info().Str("classroomID", classroom.ID).Int64("instructorID", instructorID).Msg("Classroom created")

	resp := dto.ToClassroomResponse(classroom, 0, true)
	return &resp, nil
}

func (s *classroomServiceImpl) freshJoinCode(ctx context.Context) (string, error) {
	for i := 0; i < joinCodeAttempts; i++ {
		code, err := joincode.Generate()
		if err != nil {
			return "", err
		}
		exists, err := s.classroomRepo.JoinCodeExists(ctx, code)
		if err != nil {
			return "", err
		}
		if !exists {
			return code, nil
		}
	}
	return "", apperrors.NewConflictError("could not allocate a unique join code")
}

// Get retrieves one classroom. The join code is only included for the
// owning instructor.
func (s *classroomServiceImpl) Get(ctx context.Context, callerID int64, classroomID string) (*dto.ClassroomResponse, error) {
	classroom, err := s.classroomRepo.GetByID(ctx, classroomID)
	if err != nil {
		return nil, err
	}

	count, err := s.classroomRepo.StudentCount(ctx, classroomID)
	if err != nil {
		return nil, err
	}

	resp := dto.ToClassroomResponse(classroom, count, classroom.InstructorID == callerID)
	return &resp, nil
}

// Update changes a classroom's name and description, owner only
func (s *classroomServiceImpl) Update(ctx context.Context, instructorID int64, classroomID string, req *dto.UpdateClassroomRequest) (*dto.ClassroomResponse, error) {
	classroom, err := s.classroomRepo.GetByID(ctx, classroomID)
	if err != nil {
		return nil, err
	}
	if classroom.InstructorID != instructorID {
		return nil, apperrors.NewForbiddenError("only the owning instructor can update a classroom")
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, apperrors.NewValidationError("classroom name cannot be empty")
	}

	if err := s.classroomRepo.Update(ctx, classroomID, name, strings.TrimSpace(req.Description)); err != nil {
		return nil, err
	}

	return s.Get(ctx, instructorID, classroomID)
}

// Delete removes a classroom, owner only. Classrooms with enrollments
// or leave requests are kept to preserve request history.
func (s *classroomServiceImpl) Delete(ctx context.Context, instructorID int64, classroomID string) error {
	classroom, err := s.classroomRepo.GetByID(ctx, classroomID)
	if err != nil {
		return err
	}
	if classroom.InstructorID != instructorID {
		return apperrors.NewForbiddenError("only the owning instructor can delete a classroom")
	}

	if err := s.classroomRepo.Delete(ctx, classroomID); err != nil {
		return err
	}

	s.logger.Info().Str("classroomID", classroomID).Msg("Classroom deleted")
	return nil
}

// ListEnrolled retrieves classrooms the calling student belongs to
func (s *classroomServiceImpl) ListEnrolled(ctx context.Context, studentID int64) ([]dto.ClassroomResponse, error) {
	classrooms, err := s.classroomRepo.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}
	return s.toResponses(ctx, classrooms, 0)
}

// ListTeaching retrieves classrooms the calling instructor owns
func (s *classroomServiceImpl) ListTeaching(ctx context.Context, instructorID int64) ([]dto.ClassroomResponse, error) {
	classrooms, err := s.classroomRepo.ListByInstructor(ctx, instructorID)
	if err != nil {
		return nil, err
	}
	return s.toResponses(ctx, classrooms, instructorID)
}

func (s *classroomServiceImpl) toResponses(ctx context.Context, classrooms []*models.Classroom, ownerID int64) ([]dto.ClassroomResponse, error) {
	out := make([]dto.ClassroomResponse, 0, len(classrooms))
	for _, c := range classrooms {
		count, err := s.classroomRepo.StudentCount(ctx, c.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, dto.ToClassroomResponse(c, count, c.InstructorID == ownerID && ownerID != 0))
	}
	return out, nil
}

// Join enrolls the calling student in the classroom matching the join
// code. Codes are matched case-insensitively.
func (s *classroomServiceImpl) Join(ctx context.Context, studentID int64, code string) (*dto.ClassroomResponse, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if len(code) != joincode.Length {
		return nil, apperrors.NewValidationError("join code must be 8 characters")
	}

	classroom, err := s.classroomRepo.GetByJoinCode(ctx, code)
	if err != nil {
		return nil, err
	}

	if err := s.classroomRepo.Enroll(ctx, studentID, classroom.ID); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("studentID", studentID).Str("classroomID", classroom.ID).Msg("Student joined classroom")

	count, err := s.classroomRepo.StudentCount(ctx, classroom.ID)
	if err != nil {
		return nil, err
	}
	resp := dto.ToClassroomResponse(classroom, count, false)
	return &resp, nil
}

// Leave removes the calling student from a classroom. Leaving is
// refused while the student still has pending leave requests there.
func (s *classroomServiceImpl) Leave(ctx context.Context, studentID int64, classroomID string) error {
	if _, err := s.classroomRepo.GetByID(ctx, classroomID); err != nil {
		return err
	}

	pending, err := s.leaveRequestRepo.CountPending(ctx, studentID, classroomID)
	if err != nil {
		return err
	}
	if pending > 0 {
		return apperrors.NewConflictError("cannot leave a classroom with pending leave requests")
	}

	if err := s.classroomRepo.Unenroll(ctx, studentID, classroomID); err != nil {
		return err
	}

	s.logger.Info().Int64("studentID", studentID).Str("classroomID", classroomID).Msg("Student left classroom")
	return nil
}

// ListStudents retrieves a classroom roster, owning instructor only
func (s *classroomServiceImpl) ListStudents(ctx context.Context, instructorID int64, classroomID string) ([]dto.StudentResponse, error) {
	classroom, err := s.classroomRepo.GetByID(ctx, classroomID)
	if err != nil {
		return nil, err
	}
	if classroom.InstructorID != instructorID {
		return nil, apperrors.NewForbiddenError("only the owning instructor can view the roster")
	}

	students, err := s.classroomRepo.ListStudents(ctx, classroomID)
	if err != nil {
		return nil, err
	}

	out := make([]dto.StudentResponse, 0, len(students))
	for _, u := range students {
		out = append(out, dto.ToStudentResponse(u))
	}
	return out, nil
}
