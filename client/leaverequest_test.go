package client

import (
	"context"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestDenyLeaveRequest_EmptyReasonShortCircuits(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
	}))
	defer server.Close()

	c := newTestClient(t, server)
	_, err := c.DenyLeaveRequest(context.Background(), 5, "   ")
	if !IsValidation(err) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if requests != 0 {
		t.Errorf("server saw %d requests, want 0", requests)
	}
}

func TestApproveLeaveRequest_ConflictOnDecidedRequest(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(errorJSON("RES_003", "leave request is not pending")))
	}))
	defer server.Close()

	c := newTestClient(t, server)
	_, err := c.ApproveLeaveRequest(context.Background(), 9)
	if !IsConflict(err) {
		t.Errorf("IsConflict = false, want true (err: %v)", err)
	}
}

func TestSubmitLeaveRequest_PastDateShortCircuits(t *testing.T) {
	c, _ := NewClient(Config{BaseURL: "http://localhost:0"})
	yesterday := time.Now().UTC().AddDate(0, 0, -1).Format("2006-01-02")

	_, err := c.SubmitLeaveRequest(context.Background(), SubmitLeaveRequestOptions{
		ClassroomID: "CS101",
		AbsenceDate: yesterday,
		Reason:      "dentist",
	})
	if !IsValidation(err) {
		t.Fatalf("expected ValidationError for past date, got %v", err)
	}
}

func TestSubmitLeaveRequest_MultipartFieldsAndEvidence(t *testing.T) {
	var fields map[string]string
	var evidenceName string
	var evidenceContent []byte

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mediaType, params, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
		if err != nil || mediaType != "multipart/form-data" {
			t.Fatalf("Content-Type = %q", r.Header.Get("Content-Type"))
		}

		fields = map[string]string{}
		reader := multipart.NewReader(r.Body, params["boundary"])
		for {
			part, err := reader.NextPart()
			if err == io.EOF {
				break
			}
			if err != nil {
				t.Fatalf("reading part: %v", err)
			}
			content, _ := io.ReadAll(part)
			if part.FileName() != "" {
				evidenceName = part.FileName()
				evidenceContent = content
			} else {
				fields[part.FormName()] = string(content)
			}
		}

		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(envelopeJSON(`{"id":11,"studentId":1,"classroomId":"CS101","absenceDate":"2030-01-15","reason":"dentist","hasEvidence":true,"status":"PENDING","createdAt":"2026-08-29T10:00:00Z"}`)))
	}))
	defer server.Close()

	c := newTestClient(t, server)
	request, err := c.SubmitLeaveRequest(context.Background(), SubmitLeaveRequestOptions{
		ClassroomID: "CS101",
		AbsenceDate: "2030-01-15",
		Reason:      "dentist",
		Evidence:    &Evidence{Filename: "note.pdf", Content: []byte("pdf-bytes")},
	})
	if err != nil {
		t.Fatalf("SubmitLeaveRequest: %v", err)
	}

	if fields["classroomId"] != "CS101" || fields["absenceDate"] != "2030-01-15" || fields["reason"] != "dentist" {
		t.Errorf("form fields = %v", fields)
	}
	if evidenceName != "note.pdf" || string(evidenceContent) != "pdf-bytes" {
		t.Errorf("evidence = %q (%q)", evidenceName, evidenceContent)
	}
	if !request.Pending() {
		t.Errorf("status = %q, want PENDING", request.Status)
	}
	if !request.HasEvidence {
		t.Error("HasEvidence = false, want true")
	}
}

func TestMyLeaveRequests_SortedNewestAbsenceFirst(t *testing.T) {
	// Server returns requests out of order; the client re-sorts.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(envelopeJSON(`[
			{"id":1,"studentId":1,"classroomId":"CS101","absenceDate":"2030-01-10","reason":"a","status":"PENDING","createdAt":"2026-08-29T10:00:00Z"},
			{"id":3,"studentId":1,"classroomId":"CS101","absenceDate":"2030-02-20","reason":"c","status":"APPROVED","createdAt":"2026-08-29T10:00:00Z"},
			{"id":2,"studentId":1,"classroomId":"CS101","absenceDate":"2030-01-15","reason":"b","status":"REJECTED","createdAt":"2026-08-29T10:00:00Z"}
		]`)))
	}))
	defer server.Close()

	c := newTestClient(t, server)
	requests, err := c.MyLeaveRequests(context.Background(), "")
	if err != nil {
		t.Fatalf("MyLeaveRequests: %v", err)
	}

	want := []string{"2030-02-20", "2030-01-15", "2030-01-10"}
	if len(requests) != len(want) {
		t.Fatalf("len = %d, want %d", len(requests), len(want))
	}
	for i, date := range want {
		if requests[i].AbsenceDate != date {
			t.Errorf("requests[%d].AbsenceDate = %q, want %q", i, requests[i].AbsenceDate, date)
		}
	}
}

func TestMyLeaveRequests_StatusFilterOnQuery(t *testing.T) {
	var gotStatus string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotStatus = r.URL.Query().Get("status")
		w.Write([]byte(envelopeJSON(`[]`)))
	}))
	defer server.Close()

	c := newTestClient(t, server)
	if _, err := c.MyLeaveRequests(context.Background(), "pending"); err != nil {
		t.Fatalf("MyLeaveRequests: %v", err)
	}
	if gotStatus != "PENDING" {
		t.Errorf("status query = %q, want PENDING", gotStatus)
	}
}

func TestMyLeaveRequests_RejectsUnknownStatus(t *testing.T) {
	c, _ := NewClient(Config{BaseURL: "http://localhost:0"})
	if _, err := c.MyLeaveRequests(context.Background(), "MAYBE"); !IsValidation(err) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestLeaveRequestEvidence_ReturnsRawBytes(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/leave-request/evidence/4" {
			t.Errorf("path = %q", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/pdf")
		w.Write([]byte("raw-pdf"))
	}))
	defer server.Close()

	c := newTestClient(t, server)
	content, err := c.LeaveRequestEvidence(context.Background(), 4)
	if err != nil {
		t.Fatalf("LeaveRequestEvidence: %v", err)
	}
	if string(content) != "raw-pdf" {
		t.Errorf("content = %q", content)
	}
}

func TestLeaveRequestEvidence_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(errorJSON("RES_001", "no evidence attached to this leave request")))
	}))
	defer server.Close()

	c := newTestClient(t, server)
	_, err := c.LeaveRequestEvidence(context.Background(), 4)
	if !IsNotFound(err) {
		t.Errorf("IsNotFound = false, want true (err: %v)", err)
	}
}
