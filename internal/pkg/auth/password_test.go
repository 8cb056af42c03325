package auth

import "testing"

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("secret123")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if hash == "secret123" {
		t.Fatal("hash equals plaintext")
	}

	if err := CheckPassword(hash, "secret123"); err != nil {
		t.Errorf("CheckPassword with correct password: %v", err)
	}
	if err := CheckPassword(hash, "wrong"); err == nil {
		t.Error("CheckPassword accepted a wrong password")
	}
}
