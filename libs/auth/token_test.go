package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func signTestToken(t *testing.T, claims Claims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func TestParseUnverified(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	token := signTestToken(t, Claims{
		UserID: "user-1",
		Email:  "owner@example.com",
		Roles:  []string{"admin"},
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	})

	claims, err := ParseUnverified("Bearer " + token)
	if err != nil {
		t.Fatalf("ParseUnverified failed: %v", err)
	}
	if claims.Identity() != "user-1" || claims.Email != "owner@example.com" {
		t.Fatalf("claims mismatch: %+v", claims)
	}
	if len(claims.Roles) != 1 || claims.Roles[0] != "admin" {
		t.Fatalf("unexpected roles: %v", claims.Roles)
	}
	if claims.ExpiresWithin(time.Now(), time.Minute) {
		t.Fatal("token should not expire within a minute")
	}
	if !claims.ExpiresWithin(time.Now(), 2*time.Hour) {
		t.Fatal("token should expire within two hours")
	}
}

func TestParseUnverifiedRejectsGarbage(t *testing.T) {
	for _, raw := range []string{"", "Bearer ", "not-a-token", "a.b.c"} {
		if _, err := ParseUnverified(raw); err == nil {
			t.Fatalf("expected error for %q", raw)
		}
	}
}

func TestSubjectFallsBackToSub(t *testing.T) {
	token := signTestToken(t, Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: "sub-7"}})
	claims, err := ParseUnverified(token)
	if err != nil {
		t.Fatalf("ParseUnverified failed: %v", err)
	}
	if claims.Identity() != "sub-7" {
		t.Fatalf("expected sub fallback, got %q", claims.Identity())
	}
	if claims.ExpiresWithin(time.Now(), 24*time.Hour) {
		t.Fatal("token without exp must not expire")
	}
}
