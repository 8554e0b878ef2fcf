package service

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

func TestJWTService_GenerateParseAccess(t *testing.T) {
	svc := NewJWTService("secret", 15*time.Minute)

	token, err := svc.GenerateAccessToken("dashboard")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if token.AccessToken == "" || token.TokenType != "Bearer" || token.ExpiresIn != 900 {
		t.Fatalf("unexpected token: %+v", token)
	}

	claims, err := svc.ParseAccessToken(token.AccessToken)
	if err != nil {
		t.Fatalf("parse access: %v", err)
	}
	if claims.ClientID != "dashboard" || claims.ID == "" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestJWTService_RejectsBadTokens(t *testing.T) {
	svc := NewJWTService("secret", time.Minute)

	if _, err := svc.ParseAccessToken(""); !errors.Is(err, ErrJWTInvalid) {
		t.Fatalf("expected invalid for empty token, got %v", err)
	}

	other := NewJWTService("other-secret", time.Minute)
	token, _ := other.GenerateAccessToken("dashboard")
	if _, err := svc.ParseAccessToken(token.AccessToken); !errors.Is(err, ErrJWTInvalid) {
		t.Fatalf("expected invalid for foreign signature, got %v", err)
	}

	if _, err := svc.GenerateAccessToken(" "); !errors.Is(err, ErrJWTInvalid) {
		t.Fatalf("expected invalid for blank client, got %v", err)
	}
}

func TestJWTService_Expired(t *testing.T) {
	svc := NewJWTService("secret", time.Minute)
	past := time.Now().Add(-time.Hour)
	claims := Claims{
		ClientID:  "dashboard",
		TokenType: "access",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "psyscore",
			Subject:   "dashboard",
			IssuedAt:  jwt.NewNumericDate(past),
			ExpiresAt: jwt.NewNumericDate(past.Add(time.Minute)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := svc.ParseAccessToken(signed); !errors.Is(err, ErrJWTExpired) {
		t.Fatalf("expected expired, got %v", err)
	}
}

func TestJWTService_WrongTokenType(t *testing.T) {
	svc := NewJWTService("secret", time.Minute)
	claims := Claims{
		ClientID:  "dashboard",
		TokenType: "refresh",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "psyscore",
			Subject:   "dashboard",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
		},
	}
	signed, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	if _, err := svc.ParseAccessToken(signed); !errors.Is(err, ErrJWTInvalid) {
		t.Fatalf("expected invalid for refresh typ, got %v", err)
	}
}

func TestClientAuthenticator(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}
	auth := NewClientAuthenticator("dashboard", string(hash))
	if !auth.Enabled() {
		t.Fatalf("expected enabled authenticator")
	}
	if err := auth.Authenticate("dashboard", "s3cret"); err != nil {
		t.Fatalf("expected valid credentials, got %v", err)
	}
	if err := auth.Authenticate("dashboard", "nope"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected invalid secret, got %v", err)
	}
	if err := auth.Authenticate("other", "s3cret"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected invalid client, got %v", err)
	}
	if NewClientAuthenticator("", "").Enabled() {
		t.Fatalf("expected disabled authenticator without config")
	}
}
