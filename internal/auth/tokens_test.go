package auth

import (
	"testing"
	"time"
)

func TestSignAndParseToken(t *testing.T) {
	token, err := SignToken("user-1", "a@example.com", "secret", time.Minute)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	claims, err := ParseToken(token, "secret")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.Subject != "user-1" || claims.Email != "a@example.com" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestParseTokenWrongSecret(t *testing.T) {
	token, err := SignToken("user-1", "a@example.com", "secret", time.Minute)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	if _, err := ParseToken(token, "other"); err == nil {
		t.Fatalf("expected signature verification failure")
	}
}

func TestParseTokenExpired(t *testing.T) {
	token, err := SignToken("user-1", "a@example.com", "secret", -time.Minute)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	if _, err := ParseToken(token, "secret"); err == nil {
		t.Fatalf("expected expiry failure")
	}
}
