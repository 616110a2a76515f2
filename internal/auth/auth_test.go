package auth

import (
	"strings"
	"testing"
	"time"
)

func TestPasswordHashRoundTrip(t *testing.T) {
	// Small params keep the test fast; Compare honors embedded params.
	hasher := NewPasswordHasher(&Argon2Params{
		Memory:      8 * 1024,
		Iterations:  1,
		Parallelism: 1,
		SaltLength:  16,
		KeyLength:   32,
	})

	encoded, err := hasher.Hash("upon-this-rock")
	if err != nil {
		t.Fatalf("Hash returned error: %v", err)
	}
	if !strings.HasPrefix(encoded, "$argon2id$") {
		t.Errorf("hash %q is not PHC-encoded argon2id", encoded)
	}

	if err := hasher.Compare(encoded, "upon-this-rock"); err != nil {
		t.Errorf("Compare with correct password returned %v", err)
	}
	if err := hasher.Compare(encoded, "wrong-password"); err != ErrPasswordMismatch {
		t.Errorf("Compare with wrong password = %v, want ErrPasswordMismatch", err)
	}
}

func TestPasswordHashUnique(t *testing.T) {
	hasher := NewPasswordHasher(&Argon2Params{
		Memory: 8 * 1024, Iterations: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32,
	})

	a, _ := hasher.Hash("same-password")
	b, _ := hasher.Hash("same-password")
	if a == b {
		t.Error("two hashes of the same password share a salt")
	}
}

func TestSessionRoundTrip(t *testing.T) {
	provider := NewSessionProvider("test-secret", time.Hour)

	token, err := provider.Issue("user-1", "peter", "USER")
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	claims, err := provider.Validate(token)
	if err != nil {
		t.Fatalf("Validate returned error: %v", err)
	}
	if claims.Subject != "user-1" {
		t.Errorf("Subject = %q, want user-1", claims.Subject)
	}
	if claims.Username != "peter" {
		t.Errorf("Username = %q, want peter", claims.Username)
	}
	if claims.Role != "USER" {
		t.Errorf("Role = %q, want USER", claims.Role)
	}
}

func TestSessionExpired(t *testing.T) {
	provider := NewSessionProvider("test-secret", -time.Minute)

	token, err := provider.Issue("user-1", "peter", "USER")
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	if _, err := provider.Validate(token); err != ErrInvalidSession {
		t.Errorf("Validate(expired) = %v, want ErrInvalidSession", err)
	}
}

func TestSessionWrongSecret(t *testing.T) {
	token, err := NewSessionProvider("secret-a", time.Hour).Issue("user-1", "peter", "USER")
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	if _, err := NewSessionProvider("secret-b", time.Hour).Validate(token); err != ErrInvalidSession {
		t.Errorf("Validate with wrong secret = %v, want ErrInvalidSession", err)
	}
}
