package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

// newTestClient creates a Client backed by the given httptest.Server,
// signed in with a stub session.
func newTestClient(t *testing.T, server *httptest.Server) *Client {
	t.Helper()
	c, err := NewClient(Config{
		BaseURL:    server.URL,
		HTTPClient: server.Client(),
	})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	c.SetSession(&Session{
		AccessToken: "test-token",
		User:        User{ID: 1, Email: "test@example.com", Role: RoleStudent},
	})
	return c
}

func envelopeJSON(data string) string {
	return `{"data":` + data + `,"timestamp":"2026-08-29T10:00:00Z"}`
}

func errorJSON(code, message string) string {
	return `{"error":{"code":"` + code + `","message":"` + message + `"},"timestamp":"2026-08-29T10:00:00Z"}`
}

func TestNewClient_RequiresBaseURL(t *testing.T) {
	_, err := NewClient(Config{})
	if err == nil {
		t.Fatal("expected error for missing base URL")
	}
	if !IsValidation(err) {
		t.Errorf("expected ValidationError, got %T", err)
	}
}

func TestNewClient_RejectsBadScheme(t *testing.T) {
	_, err := NewClient(Config{BaseURL: "ftp://classtrack.example.com"})
	if err == nil {
		t.Fatal("expected error for non-http scheme")
	}
}

func TestClient_AuthHeaderInjection(t *testing.T) {
	var receivedAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		receivedAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(envelopeJSON(`[]`)))
	}))
	defer server.Close()

	c := newTestClient(t, server)
	if _, err := c.MyEnrolledClassrooms(context.Background()); err != nil {
		t.Fatalf("MyEnrolledClassrooms: %v", err)
	}
	if receivedAuth != "Bearer test-token" {
		t.Errorf("Authorization = %q, want %q", receivedAuth, "Bearer test-token")
	}
}

func TestClient_NoSessionSendsNoAuthHeader(t *testing.T) {
	var receivedAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		receivedAuth = r.Header.Get("Authorization")
		w.Write([]byte(envelopeJSON(`[]`)))
	}))
	defer server.Close()

	c := newTestClient(t, server)
	c.SetSession(nil)
	if _, err := c.MyEnrolledClassrooms(context.Background()); err != nil {
		t.Fatalf("MyEnrolledClassrooms: %v", err)
	}
	if receivedAuth != "" {
		t.Errorf("Authorization = %q, want empty", receivedAuth)
	}
}

func TestClient_ParsesAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(errorJSON("RES_003", "leave request is not pending")))
	}))
	defer server.Close()

	c := newTestClient(t, server)
	_, err := c.ApproveLeaveRequest(context.Background(), 42)
	if err == nil {
		t.Fatal("expected error")
	}
	if !IsConflict(err) {
		t.Errorf("IsConflict = false, want true (err: %v)", err)
	}

	apiErr, ok := err.(*APIError)
	if !ok {
		t.Fatalf("expected *APIError, got %T", err)
	}
	if apiErr.Code != "RES_003" {
		t.Errorf("Code = %q, want %q", apiErr.Code, "RES_003")
	}
	if apiErr.Message != "leave request is not pending" {
		t.Errorf("Message = %q", apiErr.Message)
	}
}

func TestClient_UnparseableErrorBodyStillYieldsAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("upstream exploded"))
	}))
	defer server.Close()

	c := newTestClient(t, server)
	_, err := c.MyLeaveRequests(context.Background(), "")
	apiErr, ok := err.(*APIError)
	if !ok {
		t.Fatalf("expected *APIError, got %T (%v)", err, err)
	}
	if apiErr.StatusCode != http.StatusBadGateway {
		t.Errorf("StatusCode = %d, want 502", apiErr.StatusCode)
	}
	if apiErr.Message == "" {
		t.Error("expected fallback message")
	}
}

func TestClient_NetworkErrorWrapsTransportFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // immediately, so requests fail to connect

	c, err := NewClient(Config{BaseURL: server.URL})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	_, err = c.MyEnrolledClassrooms(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
	if _, ok := err.(*NetworkError); !ok {
		t.Errorf("expected *NetworkError, got %T", err)
	}
}
