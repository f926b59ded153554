package auth_test

import (
	"testing"

	"holdem-service/internal/config"
	"holdem-service/pkg/auth"
)

func initConfig(t *testing.T) {
	t.Helper()
	config.GlobalConfig = &config.Config{
		JWT: config.JWTConfig{Secret: "test-secret", Expire: 1},
	}
}

func TestTokenRoundTrip(t *testing.T) {
	initConfig(t)

	token, err := auth.GenerateToken(42, "alice")
	if err != nil {
		t.Fatalf("generate token failed: %v", err)
	}

	claims, err := auth.ParseToken(token)
	if err != nil {
		t.Fatalf("parse token failed: %v", err)
	}
	if claims.SubjectID != 42 {
		t.Fatalf("expected subject 42, got %d", claims.SubjectID)
	}
	if claims.DisplayName() != "alice" {
		t.Fatalf("expected display name alice, got %q", claims.DisplayName())
	}
	if claims.Scope != auth.ScopePlayer {
		t.Fatalf("expected player scope, got %q", claims.Scope)
	}
}

func TestDisplayNameDerivedWhenEmpty(t *testing.T) {
	initConfig(t)

	token, err := auth.GenerateToken(7, "")
	if err != nil {
		t.Fatalf("generate token failed: %v", err)
	}
	claims, err := auth.ParseToken(token)
	if err != nil {
		t.Fatalf("parse token failed: %v", err)
	}
	if claims.DisplayName() != "Player7" {
		t.Fatalf("expected derived name Player7, got %q", claims.DisplayName())
	}
}

func TestParseRejectsTamperedToken(t *testing.T) {
	initConfig(t)

	token, err := auth.GenerateToken(42, "alice")
	if err != nil {
		t.Fatalf("generate token failed: %v", err)
	}

	if _, err := auth.ParseToken(token + "x"); err == nil {
		t.Fatal("expected error for tampered token")
	}
	if _, err := auth.ParseToken("not-a-token"); err == nil {
		t.Fatal("expected error for garbage token")
	}
}

func TestParseRejectsWrongSecret(t *testing.T) {
	initConfig(t)
	token, err := auth.GenerateToken(42, "alice")
	if err != nil {
		t.Fatalf("generate token failed: %v", err)
	}

	config.GlobalConfig.JWT.Secret = "other-secret"
	if _, err := auth.ParseToken(token); err == nil {
		t.Fatal("expected error for wrong signing secret")
	}
}
