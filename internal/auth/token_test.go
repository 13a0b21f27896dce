package auth

import (
	"strings"
	"testing"
)

func TestTokenRoundTrip(t *testing.T) {
	token, err := GenerateToken("secret", "user_abc", "student@hostel.edu", "Jane Doe")
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	claims, err := ValidateToken("secret", token)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if claims.StudentID() != "user_abc" {
		t.Errorf("expected subject 'user_abc', got %q", claims.StudentID())
	}
	if claims.Email != "student@hostel.edu" {
		t.Errorf("expected email claim, got %q", claims.Email)
	}
	if claims.Name != "Jane Doe" {
		t.Errorf("expected name claim, got %q", claims.Name)
	}
}

func TestTokenWrongSecret(t *testing.T) {
	token, _ := GenerateToken("secret", "user_abc", "", "")

	if _, err := ValidateToken("other-secret", token); err == nil {
		t.Error("expected validation to fail with wrong secret")
	}
}

func TestTokenMissingSubject(t *testing.T) {
	token, _ := GenerateToken("secret", "", "student@hostel.edu", "")

	_, err := ValidateToken("secret", token)
	if err == nil || !strings.Contains(err.Error(), "subject") {
		t.Errorf("expected missing-subject error, got %v", err)
	}
}

func TestTokenGarbage(t *testing.T) {
	if _, err := ValidateToken("secret", "not-a-token"); err == nil {
		t.Error("expected validation to fail for garbage input")
	}
}
