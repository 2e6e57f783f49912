package utils

import (
	"testing"
	"time"
)

func TestTokenRoundTrip(t *testing.T) {
	tok, err := MintToken("secret", "user-1", "recruiter", time.Hour)
	if err != nil {
		t.Fatalf("MintToken: %v", err)
	}

	claims, err := ParseToken("secret", tok)
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}
	if claims.Subject != "user-1" {
		t.Errorf("subject = %q, want user-1", claims.Subject)
	}
	if claims.Role != "recruiter" {
		t.Errorf("role = %q, want recruiter", claims.Role)
	}
}

func TestTokenWrongSecretRejected(t *testing.T) {
	tok, err := MintToken("secret", "user-1", "worker", time.Hour)
	if err != nil {
		t.Fatalf("MintToken: %v", err)
	}
	if _, err := ParseToken("other-secret", tok); err == nil {
		t.Errorf("token verified under the wrong secret")
	}
}

func TestExpiredTokenRejected(t *testing.T) {
	tok, err := MintToken("secret", "user-1", "worker", -time.Minute)
	if err != nil {
		t.Fatalf("MintToken: %v", err)
	}
	if _, err := ParseToken("secret", tok); err == nil {
		t.Errorf("expired token accepted")
	}
}
