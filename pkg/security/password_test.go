package security_test

import (
	"errors"
	"testing"

	"github.com/fruitnut/fruitnut-backend/pkg/config"
	"github.com/fruitnut/fruitnut-backend/pkg/security"
)

func TestHashAndVerifyPassword(t *testing.T) {
	cfg := config.PasswordConfig{
		ArgonMemoryKB:    32768,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     16,
		ArgonKeyLen:      32,
	}

	hash, err := security.HashPassword("very-secure-password", cfg)
	if err != nil {
		t.Fatalf("HashPassword returned error: %v", err)
	}
	if hash == "" {
		t.Fatal("HashPassword returned empty string")
	}

	ok, err := security.VerifyPassword("very-secure-password", hash)
	if err != nil {
		t.Fatalf("VerifyPassword returned error for valid hash: %v", err)
	}
	if !ok {
		t.Fatal("VerifyPassword failed for the correct password")
	}

	ok, err = security.VerifyPassword("bogus-password", hash)
	if err != nil {
		t.Fatalf("VerifyPassword returned error for invalid password: %v", err)
	}
	if ok {
		t.Fatal("VerifyPassword returned true for incorrect password")
	}
}

func TestVerifyPasswordBadHash(t *testing.T) {
	if _, err := security.VerifyPassword("irrelevant", "not-a-hash"); err == nil {
		t.Fatal("expected error for malformed hash")
	}
}

func TestCheckNewPassword(t *testing.T) {
	cfg := config.PasswordConfig{MinLength: 6}

	if err := security.CheckNewPassword("peach1", "peach1", cfg); err != nil {
		t.Fatalf("expected six characters to pass, got %v", err)
	}
	if err := security.CheckNewPassword("plum", "plum", cfg); !errors.Is(err, security.ErrPasswordTooShort) {
		t.Fatalf("expected too short, got %v", err)
	}
	if err := security.CheckNewPassword("apricot", "apricots", cfg); !errors.Is(err, security.ErrPasswordMismatch) {
		t.Fatalf("expected mismatch, got %v", err)
	}
	if err := security.CheckNewPassword("fig", "fig", config.PasswordConfig{}); !errors.Is(err, security.ErrPasswordTooShort) {
		t.Fatalf("expected default minimum to apply, got %v", err)
	}
}
