package auth

import (
	"errors"
	"testing"
	"time"
)

func TestJWTManager_RoundTrip(t *testing.T) {
	m := NewJWTManager("test-secret", time.Hour)

	token, err := m.Generate("alice", "alice@example.com")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	claims, err := m.Validate(token)
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if claims.UserID != "alice" || claims.Email != "alice@example.com" {
		t.Errorf("unexpected claims: %+v", claims)
	}
	if claims.Subject != "alice" {
		t.Errorf("Subject: got %q, want alice", claims.Subject)
	}
}

func TestJWTManager_RejectsBadTokens(t *testing.T) {
	m := NewJWTManager("test-secret", time.Hour)

	other, err := NewJWTManager("other-secret", time.Hour).Generate("alice", "")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	expiredMgr := NewJWTManager("test-secret", time.Hour)
	expiredMgr.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	expired, err := expiredMgr.Generate("alice", "")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	tests := []struct {
		name  string
		token string
	}{
		{"garbage", "not-a-token"},
		{"wrong secret", other},
		{"expired", expired},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := m.Validate(tt.token); !errors.Is(err, ErrInvalidToken) {
				t.Errorf("Validate: got %v, want ErrInvalidToken", err)
			}
		})
	}
}

func TestJWTManager_GenerateRequiresUser(t *testing.T) {
	m := NewJWTManager("test-secret", time.Hour)
	if _, err := m.Generate("", "x@example.com"); err == nil {
		t.Error("expected error for empty user ID")
	}
}
