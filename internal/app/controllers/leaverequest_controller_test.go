package controllers

import (
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/classtrack/classtrack/internal/app/models/dto"
	"github.com/classtrack/classtrack/internal/middleware"
	"github.com/classtrack/classtrack/internal/pkg/apperrors"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// stubLeaveRequestService returns canned results per method, enough to
// drive the controller's status mapping.
type stubLeaveRequestService struct {
	response *dto.LeaveRequestResponse
	err      error
	calls    int
}

func (s *stubLeaveRequestService) Submit(ctx context.Context, studentID int64, req *dto.SubmitLeaveRequest, evidence *multipart.FileHeader) (*dto.LeaveRequestResponse, error) {
	s.calls++
	return s.response, s.err
}

func (s *stubLeaveRequestService) Get(ctx context.Context, callerID, requestID int64) (*dto.LeaveRequestResponse, error) {
	s.calls++
	return s.response, s.err
}

func (s *stubLeaveRequestService) ListMine(ctx context.Context, studentID int64, status string) ([]dto.LeaveRequestResponse, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return []dto.LeaveRequestResponse{}, nil
}

func (s *stubLeaveRequestService) ListForClassroom(ctx context.Context, instructorID int64, classroomID, status string) ([]dto.LeaveRequestResponse, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return []dto.LeaveRequestResponse{}, nil
}

func (s *stubLeaveRequestService) ListForInstructor(ctx context.Context, instructorID int64, status string) ([]dto.LeaveRequestResponse, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return []dto.LeaveRequestResponse{}, nil
}

func (s *stubLeaveRequestService) Approve(ctx context.Context, instructorID, requestID int64) (*dto.LeaveRequestResponse, error) {
	s.calls++
	return s.response, s.err
}

func (s *stubLeaveRequestService) Deny(ctx context.Context, instructorID, requestID int64, req *dto.DenyLeaveRequest) (*dto.LeaveRequestResponse, error) {
	s.calls++
	return s.response, s.err
}

func (s *stubLeaveRequestService) Withdraw(ctx context.Context, studentID, requestID int64) error {
	s.calls++
	return s.err
}

func (s *stubLeaveRequestService) EvidencePath(ctx context.Context, callerID, requestID int64) (string, error) {
	s.calls++
	return "", s.err
}

func newLeaveRequestRouter(stub *stubLeaveRequestService) *gin.Engine {
	controller := NewLeaveRequestController(stub)
	router := gin.New()
	// Identity normally comes from JWTAuth.
	router.Use(func(c *gin.Context) {
		c.Set(middleware.ContextUserID, int64(7))
	})
	router.GET("/leave-request/:id", controller.Get)
	router.POST("/leave-request/:id/approve", controller.Approve)
	router.POST("/leave-request/:id/deny", controller.Deny)
	router.DELETE("/leave-request/:id", controller.Withdraw)
	return router
}

func responseErrorCode(t *testing.T, body []byte) dto.ErrorCode {
	t.Helper()
	var resp struct {
		Error *dto.ErrorDetail `json:"error"`
	}
	if err := json.Unmarshal(body, &resp); err != nil || resp.Error == nil {
		t.Fatalf("unexpected error body %s", body)
	}
	return resp.Error.Code
}

func TestApprove_DecidedRequestConflicts(t *testing.T) {
	stub := &stubLeaveRequestService{err: apperrors.ErrRequestNotPending}
	router := newLeaveRequestRouter(stub)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/leave-request/3/approve", nil))

	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", rec.Code)
	}
	if code := responseErrorCode(t, rec.Body.Bytes()); code != dto.ErrorCodeResourceConflict {
		t.Errorf("error code = %s, want %s", code, dto.ErrorCodeResourceConflict)
	}
}

func TestGet_ForbiddenForStranger(t *testing.T) {
	stub := &stubLeaveRequestService{err: apperrors.NewForbiddenError("you cannot access this leave request")}
	router := newLeaveRequestRouter(stub)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/leave-request/3", nil))

	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rec.Code)
	}
}

func TestGet_UnknownRequestNotFound(t *testing.T) {
	stub := &stubLeaveRequestService{err: apperrors.ErrLeaveRequestNotFound}
	router := newLeaveRequestRouter(stub)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/leave-request/999", nil))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	if code := responseErrorCode(t, rec.Body.Bytes()); code != dto.ErrorCodeResourceNotFound {
		t.Errorf("error code = %s, want %s", code, dto.ErrorCodeResourceNotFound)
	}
}

func TestParseRequestID_RejectsGarbage(t *testing.T) {
	stub := &stubLeaveRequestService{}
	router := newLeaveRequestRouter(stub)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/leave-request/abc", nil))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if stub.calls != 0 {
		t.Errorf("service called %d times for an invalid ID", stub.calls)
	}
}

func TestDeny_MissingReasonBadRequest(t *testing.T) {
	stub := &stubLeaveRequestService{}
	router := newLeaveRequestRouter(stub)

	req := httptest.NewRequest(http.MethodPost, "/leave-request/3/deny", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if stub.calls != 0 {
		t.Errorf("service called %d times despite missing denial reason", stub.calls)
	}
}

func TestDeny_ReturnsDecidedRequest(t *testing.T) {
	stub := &stubLeaveRequestService{response: &dto.LeaveRequestResponse{
		ID:     3,
		Status: "REJECTED",
	}}
	router := newLeaveRequestRouter(stub)

	req := httptest.NewRequest(http.MethodPost, "/leave-request/3/deny", strings.NewReader(`{"denialReason":"no evidence provided"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Data dto.LeaveRequestResponse `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if resp.Data.Status != "REJECTED" {
		t.Errorf("status = %q, want REJECTED", resp.Data.Status)
	}
}

func TestWithdraw_DecidedRequestConflicts(t *testing.T) {
	stub := &stubLeaveRequestService{err: apperrors.ErrRequestNotPending}
	router := newLeaveRequestRouter(stub)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/leave-request/3", nil))

	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", rec.Code)
	}
	if code := responseErrorCode(t, rec.Body.Bytes()); code != dto.ErrorCodeResourceConflict {
		t.Errorf("error code = %s, want %s", code, dto.ErrorCodeResourceConflict)
	}
}

func TestWithdraw_Success(t *testing.T) {
	stub := &stubLeaveRequestService{}
	router := newLeaveRequestRouter(stub)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/leave-request/3", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if stub.calls != 1 {
		t.Errorf("service calls = %d, want 1", stub.calls)
	}
}
