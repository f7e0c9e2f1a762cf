package service

import (
	"strings"
	"testing"
	"time"

	"leadscore/internal/services/api/auth/domain"

	"github.com/golang-jwt/jwt/v5"
)

const secret = "0123456789abcdef0123456789abcdef"

func TestNewSigner_ShortSecret(t *testing.T) {
	if _, err := NewSigner("short", "leadscore", time.Hour); err == nil {
		t.Fatal("short secret should fail")
	}
}

func TestSigner_RoundTripAndRejections(t *testing.T) {
	now := time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)
	s, _ := NewSigner(secret, "leadscore", time.Hour)
	s.now = func() time.Time { return now }

	tok, exp, err := s.Issue(domain.User{ID: "u1", Email: "ada@acme.io"})
	if err != nil || !exp.Equal(now.Add(time.Hour)) {
		t.Fatalf("Issue: %v %v", exp, err)
	}
	who, err := s.Parse(tok)
	if err != nil || who.UserID != "u1" || who.Email != "ada@acme.io" {
		t.Fatalf("Parse = %+v %v", who, err)
	}

	// other secret
	other, _ := NewSigner(strings.Repeat("x", 32), "leadscore", time.Hour)
	other.now = s.now
	if _, err := other.Parse(tok); err == nil {
		t.Fatal("foreign secret accepted")
	}

	// other issuer
	iss, _ := NewSigner(secret, "someone-else", time.Hour)
	iss.now = s.now
	if _, err := iss.Parse(tok); err == nil {
		t.Fatal("foreign issuer accepted")
	}

	// expired beyond leeway
	s.now = func() time.Time { return now.Add(time.Hour + time.Minute) }
	if _, err := s.Parse(tok); err == nil {
		t.Fatal("expired token accepted")
	}

	// alg none
	none := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"sub": "u1", "iss": "leadscore"})
	raw, _ := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	if _, err := s.Parse(raw); err == nil {
		t.Fatal("alg none accepted")
	}
}
