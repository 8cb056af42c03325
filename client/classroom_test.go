package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestJoinClassroom_NormalizesCode(t *testing.T) {
	var sent struct {
		JoinCode string `json:"joinCode"`
	}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&sent)
		w.Write([]byte(envelopeJSON(`{"id":"CS101","name":"Intro","instructorId":2,"studentCount":5}`)))
	}))
	defer server.Close()

	c := newTestClient(t, server)
	classroom, err := c.JoinClassroom(context.Background(), "  ab12cd34 ")
	if err != nil {
		t.Fatalf("JoinClassroom: %v", err)
	}
	if sent.JoinCode != "AB12CD34" {
		t.Errorf("sent join code = %q, want AB12CD34", sent.JoinCode)
	}
	if classroom.ID != "CS101" {
		t.Errorf("classroom ID = %q", classroom.ID)
	}
}

func TestJoinClassroom_WrongLengthShortCircuits(t *testing.T) {
	c, _ := NewClient(Config{BaseURL: "http://localhost:0"})
	if _, err := c.JoinClassroom(context.Background(), "SHORT"); !IsValidation(err) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestJoinClassroom_UnknownCodeIsNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(errorJSON("RES_001", "join code not found")))
	}))
	defer server.Close()

	c := newTestClient(t, server)
	if _, err := c.JoinClassroom(context.Background(), "AB12CD34"); !IsNotFound(err) {
		t.Errorf("IsNotFound = false, want true")
	}
}

func TestJoinClassroom_AlreadyEnrolledIsConflict(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(errorJSON("RES_003", "already enrolled in this classroom")))
	}))
	defer server.Close()

	c := newTestClient(t, server)
	if _, err := c.JoinClassroom(context.Background(), "AB12CD34"); !IsConflict(err) {
		t.Errorf("IsConflict = false, want true")
	}
}

func TestLeaveClassroom_PendingRequestsConflict(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			t.Errorf("method = %s, want DELETE", r.Method)
		}
		if r.URL.Path != "/classroom/leave/CS101" {
			t.Errorf("path = %q", r.URL.Path)
		}
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(errorJSON("RES_003", "cannot leave a classroom with pending leave requests")))
	}))
	defer server.Close()

	c := newTestClient(t, server)
	if err := c.LeaveClassroom(context.Background(), "CS101"); !IsConflict(err) {
		t.Errorf("IsConflict = false, want true")
	}
}

func TestClassroomStudents_ForbiddenForNonOwner(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(errorJSON("AUTH_006", "only the owning instructor can view the roster")))
	}))
	defer server.Close()

	c := newTestClient(t, server)
	if _, err := c.ClassroomStudents(context.Background(), "CS101"); !IsForbidden(err) {
		t.Errorf("IsForbidden = false, want true")
	}
}

func TestAttendanceReport_ReturnsCSV(t *testing.T) {
	const report = "email,fullName,absenceDate,status\nli.wei@example.com,Li Wei,2030-01-15,APPROVED\n"
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/report/CS101/attendance-report" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if r.URL.Query().Get("from") != "2030-01-01" || r.URL.Query().Get("to") != "2030-01-31" {
			t.Errorf("query = %v", r.URL.Query())
		}
		w.Header().Set("Content-Type", "text/csv")
		w.Write([]byte(report))
	}))
	defer server.Close()

	c := newTestClient(t, server)
	content, err := c.AttendanceReport(context.Background(), "CS101", "2030-01-01", "2030-01-31")
	if err != nil {
		t.Fatalf("AttendanceReport: %v", err)
	}
	if string(content) != report {
		t.Errorf("content = %q", content)
	}
}

func TestAttendanceReport_BadDateShortCircuits(t *testing.T) {
	c, _ := NewClient(Config{BaseURL: "http://localhost:0"})
	if _, err := c.AttendanceReport(context.Background(), "CS101", "01/15/2030", "2030-01-31"); !IsValidation(err) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestCreateClassroom_ReturnsJoinCode(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(envelopeJSON(`{"id":"CS101","name":"Intro","joinCode":"AB12CD34","instructorId":2,"studentCount":0}`)))
	}))
	defer server.Close()

	c := newTestClient(t, server)
	classroom, err := c.CreateClassroom(context.Background(), CreateClassroomRequest{ID: "CS101", Name: "Intro"})
	if err != nil {
		t.Fatalf("CreateClassroom: %v", err)
	}
	if classroom.JoinCode != "AB12CD34" {
		t.Errorf("JoinCode = %q", classroom.JoinCode)
	}
}
