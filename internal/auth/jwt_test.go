package auth

import (
	"strings"
	"testing"
	"time"
)

func TestTokenManager_IssueAndVerify_Success(t *testing.T) {
	secret := "test-secret-at-least-32-chars-long-for-security"
	issuer := "docxtranslate-test"

	m := NewTokenManager(secret, issuer)

	token, err := m.IssueToken("caller-1", 15*time.Minute)
	if err != nil {
		t.Fatalf("IssueToken failed: %v", err)
	}
	if token == "" {
		t.Fatal("expected non-empty token")
	}

	subject, err := m.Verify(token)
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	if subject != "caller-1" {
		t.Errorf("expected subject 'caller-1', got %q", subject)
	}
}

func TestTokenManager_Verify_Expired(t *testing.T) {
	m := NewTokenManager("test-secret-at-least-32-chars-long-for-security", "docxtranslate-test")

	token, err := m.IssueToken("caller-1", -1*time.Hour)
	if err != nil {
		t.Fatalf("IssueToken failed: %v", err)
	}

	_, err = m.Verify(token)
	if err == nil {
		t.Fatal("expected error for expired token, got nil")
	}
}

func TestTokenManager_Verify_InvalidSignature(t *testing.T) {
	m1 := NewTokenManager("test-secret-at-least-32-chars-long-for-security", "docxtranslate-test")
	m2 := NewTokenManager("different-secret-32-chars-long-for-security!!", "docxtranslate-test")

	token, err := m1.IssueToken("caller-1", 15*time.Minute)
	if err != nil {
		t.Fatalf("IssueToken failed: %v", err)
	}

	_, err = m2.Verify(token)
	if err == nil {
		t.Fatal("expected error for invalid signature, got nil")
	}
}

func TestTokenManager_Verify_Malformed(t *testing.T) {
	m := NewTokenManager("test-secret-at-least-32-chars-long-for-security", "docxtranslate-test")

	for _, token := range []string{"not.a.jwt", "invalid-token", "header.payload"} {
		if _, err := m.Verify(token); err == nil {
			t.Errorf("expected error for malformed token %q, got nil", token)
		}
	}
}

func TestTokenManager_Verify_WrongIssuer(t *testing.T) {
	m1 := NewTokenManager("test-secret-at-least-32-chars-long-for-security", "issuer-a")
	m2 := NewTokenManager("test-secret-at-least-32-chars-long-for-security", "issuer-b")

	token, err := m1.IssueToken("caller-1", 15*time.Minute)
	if err != nil {
		t.Fatalf("IssueToken failed: %v", err)
	}

	_, err = m2.Verify(token)
	if err == nil {
		t.Fatal("expected error for wrong issuer, got nil")
	}
	if !strings.Contains(err.Error(), "invalid issuer") {
		t.Errorf("expected 'invalid issuer' error, got: %v", err)
	}
}

func TestTokenManager_Verify_EmptyString(t *testing.T) {
	m := NewTokenManager("test-secret-at-least-32-chars-long-for-security", "docxtranslate-test")

	_, err := m.Verify("")
	if err == nil {
		t.Fatal("expected error for empty token, got nil")
	}
	if !strings.Contains(err.Error(), "empty") {
		t.Errorf("expected 'empty' error, got: %v", err)
	}
}
