package utils

import (
	"strings"
	"testing"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}

	if !strings.HasPrefix(hash, "$argon2id$") {
		t.Errorf("Expected argon2id hash format, got %s", hash)
	}

	ok, err := VerifyPassword("correct horse battery staple", hash)
	if err != nil {
		t.Fatalf("Failed to verify password: %v", err)
	}
	if !ok {
		t.Error("Expected correct password to verify")
	}

	ok, err = VerifyPassword("wrong password", hash)
	if err != nil {
		t.Fatalf("Failed to verify password: %v", err)
	}
	if ok {
		t.Error("Expected wrong password to fail verification")
	}
}

func TestHashPassword_Salted(t *testing.T) {
	first, err := HashPassword("same password")
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}
	second, err := HashPassword("same password")
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}
	if first == second {
		t.Error("Expected different salts to produce different hashes")
	}
}

func TestVerifyPassword_MalformedHash(t *testing.T) {
	if _, err := VerifyPassword("whatever", "not-a-hash"); err == nil {
		t.Error("Expected error for malformed hash")
	}
}
