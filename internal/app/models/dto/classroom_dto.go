package dto

import (
	"github.com/classtrack/classtrack/internal/app/models"
)

// CreateClassroomRequest represents classroom creation data. The caller
// picks the classroom ID, typically a course code like "CS101-2026S".
type CreateClassroomRequest struct {
	ID          string `json:"id" binding:"required,max=64"`
	Name        string `json:"name" binding:"required,max=255"`
	Description string `json:"description" binding:"max=1000"`
}

// UpdateClassroomRequest represents classroom update data
type UpdateClassroomRequest struct {
	Name        string `json:"name" binding:"required,max=255"`
	Description string `json:"description" binding:"max=1000"`
}

// JoinClassroomRequest represents a join-by-code request
type JoinClassroomRequest struct {
	JoinCode string `json:"joinCode" binding:"required,len=8"`
}

// ClassroomResponse represents classroom information. JoinCode is only
// populated for the owning instructor.
type ClassroomResponse struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Description    string `json:"description,omitempty"`
	JoinCode       string `json:"joinCode,omitempty"`
	InstructorID   int64  `json:"instructorId"`
	InstructorName string `json:"instructorName,omitempty"`
	StudentCount   int    `json:"studentCount"`
}

// StudentResponse represents an enrolled student in a roster listing
type StudentResponse struct {
	ID       int64  `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"fullName"`
}

// ToClassroomResponse maps a classroom model to its response DTO.
// withJoinCode controls whether the join code is exposed.
func ToClassroomResponse(c *models.Classroom, studentCount int, withJoinCode bool) ClassroomResponse {
	resp := ClassroomResponse{
		ID:             c.ID,
		Name:           c.Name,
		Description:    c.Description,
		InstructorID:   c.InstructorID,
		InstructorName: c.InstructorName,
		StudentCount:   studentCount,
	}
	if withJoinCode {
		resp.JoinCode = c.JoinCode
	}
	return resp
}

// ToStudentResponse maps a user model to a roster entry
func ToStudentResponse(u *models.User) StudentResponse {
	return StudentResponse{
		ID:       u.ID,
		Email:    u.Email,
		FullName: u.FullName,
	}
}
