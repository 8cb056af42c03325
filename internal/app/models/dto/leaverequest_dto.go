package dto

import (
	"time"

	"github.com/classtrack/classtrack/internal/app/models"
)

// AbsenceDateLayout is the wire format for absence dates
const AbsenceDateLayout = "2006-01-02"

// SubmitLeaveRequest represents the multipart form fields of a leave
// request submission. The optional evidence file travels alongside it
// under the "evidence" form key.
type SubmitLeaveRequest struct {
	ClassroomID string `form:"classroomId" binding:"required"`
	AbsenceDate string `form:"absenceDate" binding:"required"`
	Reason      string `form:"reason" binding:"required,max=1000"`
}

// DenyLeaveRequest represents a denial decision. The reason is
// mandatory; a denial without one is rejected before any state change.
type DenyLeaveRequest struct {
	DenialReason string `json:"denialReason" binding:"required,max=1000"`
}

// LeaveRequestResponse represents a leave request on the wire
type LeaveRequestResponse struct {
	ID            int64      `json:"id"`
	StudentID     int64      `json:"studentId"`
	StudentName   string     `json:"studentName,omitempty"`
	ClassroomID   string     `json:"classroomId"`
	ClassroomName string     `json:"classroomName,omitempty"`
	AbsenceDate   string     `json:"absenceDate"`
	Reason        string     `json:"reason"`
	HasEvidence   bool       `json:"hasEvidence"`
	Status        string     `json:"status"`
	DenialReason  *string    `json:"denialReason,omitempty"`
	DecidedBy     *int64     `json:"decidedBy,omitempty"`
	DecidedAt     *time.Time `json:"decidedAt,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
}

// ToLeaveRequestResponse maps a leave request model to its response DTO
func ToLeaveRequestResponse(r *models.LeaveRequest) LeaveRequestResponse {
	return LeaveRequestResponse{
		ID:            r.ID,
		StudentID:     r.StudentID,
		StudentName:   r.StudentName,
		ClassroomID:   r.ClassroomID,
		ClassroomName: r.ClassroomName,
		AbsenceDate:   r.AbsenceDate.Format(AbsenceDateLayout),
		Reason:        r.Reason,
		HasEvidence:   r.EvidencePath != nil,
		Status:        string(r.Status),
		DenialReason:  r.DenialReason,
		DecidedBy:     r.DecidedBy,
		DecidedAt:     r.DecidedAt,
		CreatedAt:     r.CreatedAt,
	}
}

// ToLeaveRequestResponses maps a slice of leave request models
func ToLeaveRequestResponses(rs []*models.LeaveRequest) []LeaveRequestResponse {
	out := make([]LeaveRequestResponse, 0, len(rs))
	for _, r := range rs {
		out = append(out, ToLeaveRequestResponse(r))
	}
	return out
}
