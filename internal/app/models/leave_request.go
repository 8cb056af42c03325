package models

import (
	"time"
)

// RequestStatus is the lifecycle state of a leave request
type RequestStatus string

const (
	StatusPending  RequestStatus = "PENDING"
	StatusApproved RequestStatus = "APPROVED"
	StatusRejected RequestStatus = "REJECTED"
)

// Valid reports whether s names a known status
func (s RequestStatus) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// Terminal reports whether s admits no further transitions
func (s RequestStatus) Terminal() bool {
	return s == StatusApproved || s == StatusRejected
}

// CanTransitionTo reports whether the transition s -> target is allowed.
// Requests are created PENDING and may only move PENDING -> APPROVED or
// PENDING -> REJECTED; terminal states are immutable.
func (s RequestStatus) CanTransitionTo(target RequestStatus) bool {
	return s == StatusPending && target.Terminal()
}

// LeaveRequest defines the leave request model based on the
// 'leave_requests' table. StudentName and ClassroomName are joined from
// the owning tables for display.
type LeaveRequest struct {
	ID            int64         `json:"id" db:"id"`
	StudentID     int64         `json:"studentId" db:"student_id"`
	StudentName   string        `json:"studentName"`
	ClassroomID   string        `json:"classroomId" db:"classroom_id"`
	ClassroomName string        `json:"classroomName"`
	AbsenceDate   time.Time     `json:"-" db:"absence_date"`
	Reason        string        `json:"reason" db:"reason"`
	EvidencePath  *string       `json:"-" db:"evidence_path"`
	HasEvidence   bool          `json:"hasEvidence"`
	Status        RequestStatus `json:"status" db:"status"`
	DenialReason  *string       `json:"denialReason,omitempty" db:"denial_reason"`
	DecidedBy     *int64        `json:"decidedBy,omitempty" db:"decided_by"`
	DecidedAt     *time.Time    `json:"decidedAt,omitempty" db:"decided_at"`
	CreatedAt     time.Time     `json:"createdAt" db:"created_at"`
}
