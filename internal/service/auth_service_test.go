package service

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/optimum-study/optimum-backend/internal/config"
)

func testAuthService(secret string) *AuthService {
	cfg := &config.Config{
		JWTSecret:  secret,
		JWTExpiry:  time.Hour,
		BcryptCost: 4, // minimum cost, keeps the test fast
	}
	return NewAuthService(cfg, nil)
}

func signToken(t *testing.T, secret string, claims Claims) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func TestPasswordHashRoundTrip(t *testing.T) {
	s := testAuthService("secret")

	hash, err := s.HashPassword("correct horse battery staple")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if hash == "correct horse battery staple" {
		t.Fatal("password stored in plaintext")
	}
	if err := s.CheckPassword(hash, "correct horse battery staple"); err != nil {
		t.Fatalf("check: %v", err)
	}
	if err := s.CheckPassword(hash, "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("wrong password: got %v, want ErrInvalidCredentials", err)
	}
}

func TestValidateToken(t *testing.T) {
	s := testAuthService("secret")
	userID := uuid.New()
	now := time.Now()

	base := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
		UserID: userID,
		Email:  "user@example.com",
	}

	claims, err := s.ValidateToken(signToken(t, "secret", base))
	if err != nil {
		t.Fatalf("valid token rejected: %v", err)
	}
	if claims.UserID != userID || claims.Email != "user@example.com" {
		t.Fatalf("claims = %+v", claims)
	}

	if _, err := s.ValidateToken(signToken(t, "other-secret", base)); err == nil {
		t.Fatal("token signed with wrong secret accepted")
	}

	expired := base
	expired.ExpiresAt = jwt.NewNumericDate(now.Add(-time.Minute))
	if _, err := s.ValidateToken(signToken(t, "secret", expired)); err == nil {
		t.Fatal("expired token accepted")
	}

	if _, err := s.ValidateToken("not.a.token"); err == nil {
		t.Fatal("garbage token accepted")
	}
}
