package models

import (
	"time"
)

// Classroom defines the classroom model based on the 'classrooms' table.
// The ID is chosen by the instructor at creation (e.g. a course code) and
// doubles as the default display identifier; the join code is generated.
type Classroom struct {
	ID             string    `json:"id" db:"id"`
	Name           string    `json:"name" db:"name"`
	Description    string    `json:"description" db:"description"`
	JoinCode       string    `json:"joinCode" db:"join_code"`
	InstructorID   int64     `json:"instructorId" db:"instructor_id"`
	InstructorName string    `json:"instructorName,omitempty"` // joined from users
	CreatedAt      time.Time `json:"createdAt" db:"created_at"`
}

// Enrollment links a student to a classroom (many-to-many membership)
type Enrollment struct {
	ID          int64     `json:"id" db:"id"`
	StudentID   int64     `json:"studentId" db:"student_id"`
	ClassroomID string    `json:"classroomId" db:"classroom_id"`
	JoinedAt    time.Time `json:"joinedAt" db:"joined_at"`
}
