package auth

import (
	"errors"
	"testing"
	"time"
)

func TestGenerateAndValidate(t *testing.T) {
	tokens := NewTokens("test-secret", time.Hour)

	token, err := tokens.Generate("user-1", "a@b.com")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	claims, err := tokens.Validate(token)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if claims.UserID != "user-1" {
		t.Fatalf("expected user-1, got %q", claims.UserID)
	}
	if claims.Email != "a@b.com" {
		t.Fatalf("expected a@b.com, got %q", claims.Email)
	}
}

func TestValidateRejectsWrongSecret(t *testing.T) {
	token, err := NewTokens("secret-one", time.Hour).Generate("user-1", "a@b.com")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if _, err := NewTokens("secret-two", time.Hour).Validate(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestValidateRejectsExpired(t *testing.T) {
	token, err := NewTokens("test-secret", -time.Minute).Generate("user-1", "a@b.com")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if _, err := NewTokens("test-secret", -time.Minute).Validate(token); !errors.Is(err, ErrExpiredToken) {
		t.Fatalf("expected ErrExpiredToken, got %v", err)
	}
}

func TestValidateRejectsGarbage(t *testing.T) {
	tokens := NewTokens("test-secret", time.Hour)
	if _, err := tokens.Validate("not-a-token"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}
