package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestTokenManager_IssueAndVerify(t *testing.T) {
	m := NewTokenManager("test-secret-at-least-32-characters!", time.Hour)

	userID := uuid.New()
	token, err := m.Issue(userID, `\COLLEGE\jdoe`, "")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	claims, err := m.Verify(token)
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if claims.UserID != userID.String() {
		t.Errorf("UserID = %q, want %q", claims.UserID, userID.String())
	}
	if claims.Username != `\COLLEGE\jdoe` {
		t.Errorf("Username = %q, want %q", claims.Username, `\COLLEGE\jdoe`)
	}
	if claims.Role != "" {
		t.Errorf("Role = %q, want empty for student tokens", claims.Role)
	}
}

func TestTokenManager_AdminRoleClaim(t *testing.T) {
	m := NewTokenManager("test-secret-at-least-32-characters!", time.Hour)

	token, err := m.Issue(uuid.New(), "admin@example.edu", "SUPER_ADMIN")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	claims, err := m.Verify(token)
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if claims.Role != "SUPER_ADMIN" {
		t.Errorf("Role = %q, want SUPER_ADMIN", claims.Role)
	}
}

func TestTokenManager_RejectsExpired(t *testing.T) {
	m := NewTokenManager("test-secret-at-least-32-characters!", -time.Minute)

	token, err := m.Issue(uuid.New(), "user", "")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	if _, err := m.Verify(token); err == nil {
		t.Error("Verify() accepted an expired token")
	}
}

func TestTokenManager_RejectsWrongSecret(t *testing.T) {
	issuer := NewTokenManager("secret-one-that-is-long-enough-123", time.Hour)
	verifier := NewTokenManager("secret-two-that-is-long-enough-456", time.Hour)

	token, err := issuer.Issue(uuid.New(), "user", "")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	if _, err := verifier.Verify(token); err == nil {
		t.Error("Verify() accepted a token signed with a different secret")
	}
}

func TestTokenManager_RejectsGarbage(t *testing.T) {
	m := NewTokenManager("test-secret-at-least-32-characters!", time.Hour)

	for _, token := range []string{"", "not-a-token", "a.b.c"} {
		if _, err := m.Verify(token); err == nil {
			t.Errorf("Verify(%q) accepted malformed token", token)
		}
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}

	if !VerifyPassword("correct horse battery staple", hash) {
		t.Error("VerifyPassword() rejected the correct password")
	}
	if VerifyPassword("wrong password", hash) {
		t.Error("VerifyPassword() accepted a wrong password")
	}
}
