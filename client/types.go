package client

import (
	"encoding/json"
	"time"
)

// absenceDateLayout is the wire format for absence dates
const absenceDateLayout = "2006-01-02"

// Request statuses as returned by the API
const (
	StatusPending  = "PENDING"
	StatusApproved = "APPROVED"
	StatusRejected = "REJECTED"
)

// Roles as returned by the API
const (
	RoleStudent    = "STUDENT"
	RoleInstructor = "INSTRUCTOR"
)

// User is an account as returned by the API
type User struct {
	ID       int64  `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"fullName"`
	Role     string `json:"role"`
}

// Classroom is a classroom as returned by the API. JoinCode is only
// populated for the owning instructor.
type Classroom struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Description    string `json:"description,omitempty"`
	JoinCode       string `json:"joinCode,omitempty"`
	InstructorID   int64  `json:"instructorId"`
	InstructorName string `json:"instructorName,omitempty"`
	StudentCount   int    `json:"studentCount"`
}

// Student is a roster entry as returned by the API
type Student struct {
	ID       int64  `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"fullName"`
}

// LeaveRequest is a leave request as returned by the API. AbsenceDate
// uses the YYYY-MM-DD wire format.
type LeaveRequest struct {
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

// Pending reports whether the request still awaits a decision
func (r *LeaveRequest) Pending() bool {
	return r.Status == StatusPending
}

// CreateClassroomRequest is the payload for creating a classroom
type CreateClassroomRequest struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// UpdateClassroomRequest is the payload for updating a classroom
type UpdateClassroomRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// SubmitLeaveRequestOptions describes a leave request submission. The
// optional Evidence is uploaded as a multipart file part.
type SubmitLeaveRequestOptions struct {
	ClassroomID string
	AbsenceDate string // YYYY-MM-DD
	Reason      string
	Evidence    *Evidence
}

// Evidence is a file attached to a leave request submission
type Evidence struct {
	Filename string
	Content  []byte
}

// tokenPayload mirrors the token object of auth responses
type tokenPayload struct {
	AccessToken  string `json:"accessToken"`
	TokenType    string `json:"tokenType"`
	ExpiresIn    int    `json:"expiresIn"`
	RefreshToken string `json:"refreshToken,omitempty"`
}

// authPayload mirrors the data object of auth responses
type authPayload struct {
	Token tokenPayload `json:"token"`
	User  User         `json:"user"`
}

// apiEnvelope is the server's response envelope: successful responses
// carry data, failed responses carry error.
type apiEnvelope struct {
	Data  json.RawMessage `json:"data"`
	Error *errorDetail    `json:"error"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
