package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	apperrors "taskboard/internal/errors"
	"taskboard/internal/models"
)

func testUser() *models.User {
	return &models.User{Base: models.Base{ID: 42}, Username: "ana", Email: "ana@x.com"}
}

func assertInvalidToken(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("expected an error, got nil")
	}
	appErr, ok := err.(*apperrors.AppError)
	if !ok {
		t.Fatalf("expected *AppError, got %T", err)
	}
	if appErr.Code != "INVALID_TOKEN" {
		t.Errorf("expected INVALID_TOKEN, got %s", appErr.Code)
	}
}

func TestAccessTokenRoundTrip(t *testing.T) {
	m := NewTokenManager("secret", 15*time.Minute, time.Hour)

	token, err := m.GenerateAccessToken(testUser())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if token == "" {
		t.Fatal("expected non-empty token")
	}

	identity, err := m.ParseAccessToken(token)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if identity.UserID != 42 || identity.Username != "ana" {
		t.Errorf("unexpected identity: %+v", identity)
	}
}

func TestTokensAreUnique(t *testing.T) {
	m := NewTokenManager("secret", 15*time.Minute, time.Hour)

	first, _ := m.GenerateAccessToken(testUser())
	second, _ := m.GenerateAccessToken(testUser())
	if first == second {
		t.Error("expected distinct tokens for back-to-back issuance")
	}
}

func TestParseAccessToken_Rejects(t *testing.T) {
	m := NewTokenManager("secret", 15*time.Minute, time.Hour)
	valid, _ := m.GenerateAccessToken(testUser())
	refresh, _ := m.GenerateRefreshToken(testUser())
	otherKey, _ := NewTokenManager("other-secret", 15*time.Minute, time.Hour).GenerateAccessToken(testUser())

	noneToken, err := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{
		UserID:    42,
		TokenType: tokenTypeAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("failed to build unsigned token: %v", err)
	}

	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"garbage", "not-a-jwt"},
		{"tampered", valid[:len(valid)-2] + "xx"},
		{"wrong_key", otherKey},
		{"refresh_as_access", refresh},
		{"alg_none", noneToken},
		{"truncated", strings.Join(strings.Split(valid, ".")[:2], ".")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := m.ParseAccessToken(tt.token)
			assertInvalidToken(t, err)
		})
	}
}

func TestParseAccessToken_Expired(t *testing.T) {
	m := NewTokenManager("secret", time.Minute, time.Hour)
	issued := time.Now().Add(-2 * time.Hour)
	m.now = func() time.Time { return issued }
	token, err := m.GenerateAccessToken(testUser())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	m.now = time.Now
	_, err = m.ParseAccessToken(token)
	assertInvalidToken(t, err)
}

func TestParseRefreshToken(t *testing.T) {
	m := NewTokenManager("secret", 15*time.Minute, time.Hour)

	refresh, _ := m.GenerateRefreshToken(testUser())
	claims, err := m.ParseRefreshToken(refresh)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if claims.UserID != 42 {
		t.Errorf("expected user 42, got %d", claims.UserID)
	}

	access, _ := m.GenerateAccessToken(testUser())
	_, err = m.ParseRefreshToken(access)
	assertInvalidToken(t, err)
}

func TestHashToken(t *testing.T) {
	h := HashToken("abc")
	if len(h) != 64 {
		t.Fatalf("expected 64 hex chars, got %d", len(h))
	}
	if h != HashToken("abc") {
		t.Error("expected deterministic hash")
	}
	if h == HashToken("abd") {
		t.Error("expected different hashes for different input")
	}
}
