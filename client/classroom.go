package client

import (
	"context"
	"fmt"
	"net/url"
	"strings"
)

// joinCodeLength is the fixed length of classroom join codes
const joinCodeLength = 8

// CreateClassroom creates a classroom owned by the calling instructor.
// The caller picks the ID; the join code is generated server-side and
// returned on the classroom.
func (c *Client) CreateClassroom(ctx context.Context, req CreateClassroomRequest) (*Classroom, error) {
	if strings.TrimSpace(req.ID) == "" {
		return nil, &ValidationError{Field: "id", Message: "classroom ID is required"}
	}
	if strings.TrimSpace(req.Name) == "" {
		return nil, &ValidationError{Field: "name", Message: "classroom name is required"}
	}

	var classroom Classroom
	if err := c.post(ctx, "/classroom/create", &req, &classroom); err != nil {
		return nil, err
	}
	return &classroom, nil
}

// Classroom retrieves one classroom by ID
func (c *Client) Classroom(ctx context.Context, classroomID string) (*Classroom, error) {
	if strings.TrimSpace(classroomID) == "" {
		return nil, &ValidationError{Field: "classroomID", Message: "classroom ID is required"}
	}

	var classroom Classroom
	if err := c.get(ctx, "/classroom/"+url.PathEscape(classroomID), &classroom); err != nil {
		return nil, err
	}
	return &classroom, nil
}

// UpdateClassroom changes a classroom's name and description, owning
// instructor only.
func (c *Client) UpdateClassroom(ctx context.Context, classroomID string, req UpdateClassroomRequest) (*Classroom, error) {
	if strings.TrimSpace(classroomID) == "" {
		return nil, &ValidationError{Field: "classroomID", Message: "classroom ID is required"}
	}
	if strings.TrimSpace(req.Name) == "" {
		return nil, &ValidationError{Field: "name", Message: "classroom name is required"}
	}

	var classroom Classroom
	if err := c.put(ctx, "/classroom/"+url.PathEscape(classroomID), &req, &classroom); err != nil {
		return nil, err
	}
	return &classroom, nil
}

// DeleteClassroom removes a classroom, owning instructor only
func (c *Client) DeleteClassroom(ctx context.Context, classroomID string) error {
	if strings.TrimSpace(classroomID) == "" {
		return &ValidationError{Field: "classroomID", Message: "classroom ID is required"}
	}
	return c.delete(ctx, "/classroom/"+url.PathEscape(classroomID))
}

// MyEnrolledClassrooms lists the classrooms the calling student is
// enrolled in.
func (c *Client) MyEnrolledClassrooms(ctx context.Context) ([]Classroom, error) {
	var classrooms []Classroom
	if err := c.get(ctx, "/classroom/my-enrolled", &classrooms); err != nil {
		return nil, err
	}
	return classrooms, nil
}

// MyTeachingClassrooms lists the classrooms the calling instructor
// owns, join codes included.
func (c *Client) MyTeachingClassrooms(ctx context.Context) ([]Classroom, error) {
	var classrooms []Classroom
	if err := c.get(ctx, "/classroom/my-teaching", &classrooms); err != nil {
		return nil, err
	}
	return classrooms, nil
}

// JoinClassroom enrolls the calling student via join code. Codes are
// normalized to upper case before sending.
func (c *Client) JoinClassroom(ctx context.Context, joinCode string) (*Classroom, error) {
	joinCode = strings.ToUpper(strings.TrimSpace(joinCode))
	if len(joinCode) != joinCodeLength {
		return nil, &ValidationError{
			Field:   "joinCode",
			Message: fmt.Sprintf("join code must be %d characters", joinCodeLength),
		}
	}

	body := struct {
		JoinCode string `json:"joinCode"`
	}{JoinCode: joinCode}

	var classroom Classroom
	if err := c.post(ctx, "/classroom/join", &body, &classroom); err != nil {
		return nil, err
	}
	return &classroom, nil
}

// LeaveClassroom unenrolls the calling student. The server refuses
// with a conflict while pending leave requests exist in the classroom.
func (c *Client) LeaveClassroom(ctx context.Context, classroomID string) error {
	if strings.TrimSpace(classroomID) == "" {
		return &ValidationError{Field: "classroomID", Message: "classroom ID is required"}
	}
	return c.delete(ctx, "/classroom/leave/"+url.PathEscape(classroomID))
}

// ClassroomStudents lists a classroom roster, owning instructor only
func (c *Client) ClassroomStudents(ctx context.Context, classroomID string) ([]Student, error) {
	if strings.TrimSpace(classroomID) == "" {
		return nil, &ValidationError{Field: "classroomID", Message: "classroom ID is required"}
	}

	var students []Student
	if err := c.get(ctx, "/classroom/"+url.PathEscape(classroomID)+"/students", &students); err != nil {
		return nil, err
	}
	return students, nil
}

// AttendanceReport downloads a classroom attendance report as CSV for
// an inclusive date range. Dates use the YYYY-MM-DD format.
func (c *Client) AttendanceReport(ctx context.Context, classroomID, from, to string) ([]byte, error) {
	if strings.TrimSpace(classroomID) == "" {
		return nil, &ValidationError{Field: "classroomID", Message: "classroom ID is required"}
	}
	if err := validateDate("from", from); err != nil {
		return nil, err
	}
	if err := validateDate("to", to); err != nil {
		return nil, err
	}

	query := url.Values{}
	query.Set("from", from)
	query.Set("to", to)
	path := "/report/" + url.PathEscape(classroomID) + "/attendance-report?" + query.Encode()

	body, _, err := c.doRaw(ctx, "GET", path, nil, "")
	if err != nil {
		return nil, err
	}
	return body, nil
}
