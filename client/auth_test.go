package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

const authResponseJSON = `{
	"token": {
		"accessToken": "access-abc",
		"tokenType": "Bearer",
		"expiresIn": 3600,
		"refreshToken": "refresh-def"
	},
	"user": {"id": 7, "email": "amara@example.com", "fullName": "Amara Okafor", "role": "INSTRUCTOR"}
}`

func TestLogin_InstallsSessionWithRoleClaim(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/login" {
			t.Errorf("path = %q, want /auth/login", r.URL.Path)
		}
		w.Write([]byte(envelopeJSON(authResponseJSON)))
	}))
	defer server.Close()

	c, err := NewClient(Config{BaseURL: server.URL})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	session, err := c.Login(context.Background(), "amara@example.com", "secret123")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	// The role arrives as an explicit claim, no endpoint probing.
	if !session.IsInstructor() {
		t.Errorf("IsInstructor = false, want true (role %q)", session.User.Role)
	}
	if session.AccessToken != "access-abc" {
		t.Errorf("AccessToken = %q", session.AccessToken)
	}
	if session.RefreshToken != "refresh-def" {
		t.Errorf("RefreshToken = %q", session.RefreshToken)
	}
	if session.Expired() {
		t.Error("fresh session reports expired")
	}

	if got := c.Session(); got == nil || got.AccessToken != "access-abc" {
		t.Error("Login did not install the session on the client")
	}
}

func TestLogin_EmptyPasswordShortCircuits(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
	}))
	defer server.Close()

	c, _ := NewClient(Config{BaseURL: server.URL})
	_, err := c.Login(context.Background(), "amara@example.com", "")
	if !IsValidation(err) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if requests != 0 {
		t.Errorf("server saw %d requests, want 0", requests)
	}
}

func TestLogin_BadCredentialsIsAuthError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(errorJSON("AUTH_001", "invalid credentials")))
	}))
	defer server.Close()

	c, _ := NewClient(Config{BaseURL: server.URL})
	_, err := c.Login(context.Background(), "amara@example.com", "wrong")
	if !IsAuth(err) {
		t.Errorf("IsAuth = false, want true (err: %v)", err)
	}
	if c.Session() != nil {
		t.Error("failed login must not install a session")
	}
}

func TestRegister_NormalizesRoleToUpperCase(t *testing.T) {
	var sent registerRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&sent); err != nil {
			t.Fatalf("decoding register body: %v", err)
		}
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(envelopeJSON(authResponseJSON)))
	}))
	defer server.Close()

	c, _ := NewClient(Config{BaseURL: server.URL})
	if _, err := c.Register(context.Background(), "amara@example.com", "secret123", "Amara Okafor", "instructor"); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if sent.Role != "INSTRUCTOR" {
		t.Errorf("sent role = %q, want INSTRUCTOR", sent.Role)
	}
}

func TestRegister_RejectsUnknownRole(t *testing.T) {
	c, _ := NewClient(Config{BaseURL: "http://localhost:0"})
	_, err := c.Register(context.Background(), "a@example.com", "secret123", "A", "ADMIN")
	if !IsValidation(err) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestRefresh_RotatesSession(t *testing.T) {
	var sentRefresh string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req refreshRequest
		json.NewDecoder(r.Body).Decode(&req)
		sentRefresh = req.RefreshToken
		w.Write([]byte(envelopeJSON(authResponseJSON)))
	}))
	defer server.Close()

	c, _ := NewClient(Config{BaseURL: server.URL})
	c.SetSession(&Session{AccessToken: "old", RefreshToken: "old-refresh"})

	session, err := c.Refresh(context.Background())
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if sentRefresh != "old-refresh" {
		t.Errorf("sent refresh token = %q, want old-refresh", sentRefresh)
	}
	if session.AccessToken != "access-abc" {
		t.Errorf("AccessToken = %q after refresh", session.AccessToken)
	}
}

func TestRefresh_WithoutSessionShortCircuits(t *testing.T) {
	c, _ := NewClient(Config{BaseURL: "http://localhost:0"})
	if _, err := c.Refresh(context.Background()); !IsValidation(err) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestLogout_ClearsSessionEvenOnServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(errorJSON("SRV_001", "boom")))
	}))
	defer server.Close()

	c, _ := NewClient(Config{BaseURL: server.URL})
	c.SetSession(&Session{AccessToken: "tok", RefreshToken: "ref"})

	if err := c.Logout(context.Background()); err == nil {
		t.Fatal("expected server error to propagate")
	}
	if c.Session() != nil {
		t.Error("Logout must clear the local session regardless")
	}
}
