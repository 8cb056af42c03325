package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/classtrack/classtrack/internal/app/models/dto"
	"github.com/classtrack/classtrack/internal/middleware"
	"github.com/classtrack/classtrack/internal/pkg/apperrors"
)

// stubClassroomService returns canned results per method
type stubClassroomService struct {
	response *dto.ClassroomResponse
	err      error
	calls    int
}

func (s *stubClassroomService) Create(ctx context.Context, instructorID int64, req *dto.CreateClassroomRequest) (*dto.ClassroomResponse, error) {
	s.calls++
	return s.response, s.err
}

func (s *stubClassroomService) Get(ctx context.Context, callerID int64, classroomID string) (*dto.ClassroomResponse, error) {
	s.calls++
	return s.response, s.err
}

func (s *stubClassroomService) Update(ctx context.Context, instructorID int64, classroomID string, req *dto.UpdateClassroomRequest) (*dto.ClassroomResponse, error) {
	s.calls++
	return s.response, s.err
}

func (s *stubClassroomService) Delete(ctx context.Context, instructorID int64, classroomID string) error {
	s.calls++
	return s.err
}

func (s *stubClassroomService) ListEnrolled(ctx context.Context, studentID int64) ([]dto.ClassroomResponse, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return []dto.ClassroomResponse{}, nil
}

func (s *stubClassroomService) ListTeaching(ctx context.Context, instructorID int64) ([]dto.ClassroomResponse, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return []dto.ClassroomResponse{}, nil
}

func (s *stubClassroomService) Join(ctx context.Context, studentID int64, joinCode string) (*dto.ClassroomResponse, error) {
	s.calls++
	return s.response, s.err
}

func (s *stubClassroomService) Leave(ctx context.Context, studentID int64, classroomID string) error {
	s.calls++
	return s.err
}

func (s *stubClassroomService) ListStudents(ctx context.Context, instructorID int64, classroomID string) ([]dto.StudentResponse, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return []dto.StudentResponse{}, nil
}

func newClassroomRouter(stub *stubClassroomService) *gin.Engine {
	controller := NewClassroomController(stub)
	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set(middleware.ContextUserID, int64(7))
	})
	router.GET("/classroom/:id", controller.Get)
	router.DELETE("/classroom/:id", controller.Delete)
	router.DELETE("/classroom/leave/:id", controller.Leave)
	return router
}

func TestDeleteClassroom_WithRelationsConflicts(t *testing.T) {
	stub := &stubClassroomService{err: apperrors.ErrClassroomHasRelations}
	router := newClassroomRouter(stub)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/classroom/CS101", nil))

	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", rec.Code)
	}
	if code := responseErrorCode(t, rec.Body.Bytes()); code != dto.ErrorCodeResourceConflict {
		t.Errorf("error code = %s, want %s", code, dto.ErrorCodeResourceConflict)
	}
}

func TestDeleteClassroom_NotOwnerForbidden(t *testing.T) {
	stub := &stubClassroomService{err: apperrors.NewForbiddenError("only the owning instructor can delete a classroom")}
	router := newClassroomRouter(stub)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/classroom/CS101", nil))

	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rec.Code)
	}
}

func TestLeaveClassroom_PendingRequestsConflict(t *testing.T) {
	stub := &stubClassroomService{err: apperrors.NewConflictError("cannot leave a classroom with pending leave requests")}
	router := newClassroomRouter(stub)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/classroom/leave/CS101", nil))

	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", rec.Code)
	}
}
