package auth

import (
	"testing"
	"time"

	"github.com/classtrack/classtrack/internal/app/models"
)

func testService(accessExp time.Duration) *JWTService {
	return NewJWTService(JWTConfig{
		SecretKey:       "test-secret",
		AccessTokenExp:  accessExp,
		RefreshTokenExp: 24 * time.Hour,
		TokenIssuer:     "classtrack.test",
	})
}

func TestGenerateTokenPair_RoundTrip(t *testing.T) {
	service := testService(time.Hour)
	user := &models.User{ID: 42, Email: "li.wei@example.com", Role: models.RoleStudent}

	accessToken, refreshToken, expiresIn, err := service.GenerateTokenPair(user)
	if err != nil {
		t.Fatalf("GenerateTokenPair: %v", err)
	}
	if refreshToken == "" {
		t.Error("empty refresh token")
	}
	if expiresIn != 3600 {
		t.Errorf("expiresIn = %d, want 3600", expiresIn)
	}

	claims, err := service.ValidateToken(accessToken)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if claims.UserID != 42 {
		t.Errorf("UserID = %d, want 42", claims.UserID)
	}
	if claims.Email != "li.wei@example.com" {
		t.Errorf("Email = %q", claims.Email)
	}
	// Role travels as an explicit claim.
	if claims.Role != models.RoleStudent {
		t.Errorf("Role = %q, want STUDENT", claims.Role)
	}
}

func TestValidateToken_WrongSecret(t *testing.T) {
	service := testService(time.Hour)
	user := &models.User{ID: 1, Email: "a@example.com", Role: models.RoleInstructor}
	accessToken, _, _, err := service.GenerateTokenPair(user)
	if err != nil {
		t.Fatalf("GenerateTokenPair: %v", err)
	}

	other := NewJWTService(JWTConfig{SecretKey: "other-secret", AccessTokenExp: time.Hour})
	if _, err := other.ValidateToken(accessToken); err == nil {
		t.Error("token signed with a different secret validated")
	}
}

func TestValidateToken_Expired(t *testing.T) {
	service := testService(-time.Minute)
	user := &models.User{ID: 1, Email: "a@example.com", Role: models.RoleStudent}
	accessToken, _, _, err := service.GenerateTokenPair(user)
	if err != nil {
		t.Fatalf("GenerateTokenPair: %v", err)
	}

	if _, err := service.ValidateToken(accessToken); err != ErrExpiredToken {
		t.Errorf("err = %v, want ErrExpiredToken", err)
	}
}

func TestExtractBearerToken(t *testing.T) {
	if token, err := ExtractBearerToken("Bearer abc.def.ghi"); err != nil || token != "abc.def.ghi" {
		t.Errorf("ExtractBearerToken = %q, %v", token, err)
	}
	if _, err := ExtractBearerToken(""); err == nil {
		t.Error("empty header accepted")
	}
	if _, err := ExtractBearerToken("abc.def.ghi"); err == nil {
		t.Error("raw token without Bearer prefix accepted")
	}
	if _, err := ExtractBearerToken("Basic dXNlcjpwYXNz"); err == nil {
		t.Error("Basic auth header accepted")
	}
}
