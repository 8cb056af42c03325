package client

import "time"

// Session holds the authenticated state of a client: the token pair and
// the signed-in user, including the explicit role claim. Sessions are
// plain data and safe to serialize for reuse across process restarts.
type Session struct {
	AccessToken  string    `json:"accessToken"`
	RefreshToken string    `json:"refreshToken,omitempty"`
	ExpiresAt    time.Time `json:"expiresAt"`
	User         User      `json:"user"`
}

// Expired reports whether the access token's lifetime has passed
func (s *Session) Expired() bool {
	return !s.ExpiresAt.IsZero() && time.Now().After(s.ExpiresAt)
}

// IsInstructor reports whether the session belongs to an instructor
func (s *Session) IsInstructor() bool {
	return s.User.Role == RoleInstructor
}

// IsStudent reports whether the session belongs to a student
func (s *Session) IsStudent() bool {
	return s.User.Role == RoleStudent
}

func sessionFromAuth(payload *authPayload) *Session {
	return &Session{
		AccessToken:  payload.Token.AccessToken,
		RefreshToken: payload.Token.RefreshToken,
		ExpiresAt:    time.Now().Add(time.Duration(payload.Token.ExpiresIn) * time.Second),
		User:         payload.User,
	}
}
