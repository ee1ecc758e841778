package utils

import (
	"testing"

	"drivedrop/config"
)

func setJWTConfig(secret string) {
	config.AppConfig = &config.Config{
		JWT: config.JWTConfig{Secret: secret, ExpireHours: 24},
	}
}

func TestGenerateAndParseToken(t *testing.T) {
	setJWTConfig("test-secret")

	token, err := GenerateToken(42, "owner@example.com")
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	claims, err := ParseToken(token)
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}
	if claims.UserID != 42 || claims.Email != "owner@example.com" {
		t.Errorf("claims = %+v", claims)
	}
}

func TestParseTokenRejectsWrongSecret(t *testing.T) {
	setJWTConfig("secret-a")
	token, err := GenerateToken(1, "owner@example.com")
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	setJWTConfig("secret-b")
	if _, err := ParseToken(token); err == nil {
		t.Fatal("expected signature verification failure")
	}
}

func TestParseTokenRejectsGarbage(t *testing.T) {
	setJWTConfig("test-secret")
	if _, err := ParseToken("not-a-jwt"); err == nil {
		t.Fatal("expected parse failure")
	}
}
