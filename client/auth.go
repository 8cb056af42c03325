package client

import (
	"context"
	"strings"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"fullName"`
	Role     string `json:"role"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// Login authenticates with email and password. The returned session
// carries the user's role as an explicit claim, so callers never need
// to probe privileged endpoints to discover it. The session is also
// installed on the client for subsequent calls.
func (c *Client) Login(ctx context.Context, email, password string) (*Session, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, &ValidationError{Field: "email", Message: "email is required"}
	}
	if password == "" {
		return nil, &ValidationError{Field: "password", Message: "password is required"}
	}

	var payload authPayload
	if err := c.post(ctx, "/auth/login", &loginRequest{Email: email, Password: password}, &payload); err != nil {
		return nil, err
	}

	session := sessionFromAuth(&payload)
	c.SetSession(session)
	return c.Session(), nil
}

// Register creates a new account and signs it in. The role is accepted
// case-insensitively and normalized to upper case before sending.
func (c *Client) Register(ctx context.Context, email, password, fullName, role string) (*Session, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, &ValidationError{Field: "email", Message: "email is required"}
	}
	if len(password) < 6 {
		return nil, &ValidationError{Field: "password", Message: "password must be at least 6 characters"}
	}
	if strings.TrimSpace(fullName) == "" {
		return nil, &ValidationError{Field: "fullName", Message: "full name is required"}
	}

	role = strings.ToUpper(strings.TrimSpace(role))
	if role != RoleStudent && role != RoleInstructor {
		return nil, &ValidationError{Field: "role", Message: "role must be STUDENT or INSTRUCTOR"}
	}

	req := &registerRequest{
		Email:    email,
		Password: password,
		FullName: strings.TrimSpace(fullName),
		Role:     role,
	}

	var payload authPayload
	if err := c.post(ctx, "/auth/register", req, &payload); err != nil {
		return nil, err
	}

	session := sessionFromAuth(&payload)
	c.SetSession(session)
	return c.Session(), nil
}

// Refresh exchanges the session's refresh token for a fresh token pair
// and installs the new session.
func (c *Client) Refresh(ctx context.Context) (*Session, error) {
	current := c.Session()
	if current == nil || current.RefreshToken == "" {
		return nil, &ValidationError{Field: "refreshToken", Message: "no refresh token available"}
	}

	var payload authPayload
	if err := c.post(ctx, "/auth/refresh", &refreshRequest{RefreshToken: current.RefreshToken}, &payload); err != nil {
		return nil, err
	}

	session := sessionFromAuth(&payload)
	c.SetSession(session)
	return c.Session(), nil
}

// Logout revokes the session's refresh token and clears the session.
// The local session is cleared even when the server call fails.
func (c *Client) Logout(ctx context.Context) error {
	current := c.Session()
	if current == nil {
		return nil
	}
	defer c.SetSession(nil)

	if current.RefreshToken == "" {
		return nil
	}
	return c.post(ctx, "/auth/logout", &refreshRequest{RefreshToken: current.RefreshToken}, nil)
}
