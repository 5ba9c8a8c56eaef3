package auth

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

// mockCredentialSource implements CredentialSource for testing.
type mockCredentialSource struct {
	loadFn func(ctx context.Context) (map[string]string, error)
}

func (m *mockCredentialSource) Load(ctx context.Context) (map[string]string, error) {
	if m.loadFn != nil {
		return m.loadFn(ctx)
	}
	return map[string]string{}, nil
}

// testHash generates a bcrypt hash for test credentials. MinCost keeps the
// suite fast.
func testHash(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hashing password: %v", err)
	}
	return string(hash)
}

func TestVerify_ValidCredentials(t *testing.T) {
	creds := &mockCredentialSource{
		loadFn: func(ctx context.Context) (map[string]string, error) {
			return map[string]string{"admin": testHash(t, "secret")}, nil
		},
	}

	ok, err := NewService(creds).Verify(context.Background(), "admin", "secret")
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if !ok {
		t.Error("expected valid credentials to verify")
	}
}

func TestVerify_WrongPassword(t *testing.T) {
	creds := &mockCredentialSource{
		loadFn: func(ctx context.Context) (map[string]string, error) {
			return map[string]string{"admin": testHash(t, "secret")}, nil
		},
	}

	ok, err := NewService(creds).Verify(context.Background(), "admin", "wrong")
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if ok {
		t.Error("expected wrong password to fail verification")
	}
}

func TestVerify_UnknownUsername(t *testing.T) {
	creds := &mockCredentialSource{
		loadFn: func(ctx context.Context) (map[string]string, error) {
			return map[string]string{"admin": testHash(t, "secret")}, nil
		},
	}

	// Unknown username behaves exactly like a wrong password: false, no error.
	ok, err := NewService(creds).Verify(context.Background(), "xxx", "xxx")
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if ok {
		t.Error("expected unknown username to fail verification")
	}
}

func TestVerify_SourceFailure(t *testing.T) {
	creds := &mockCredentialSource{
		loadFn: func(ctx context.Context) (map[string]string, error) {
			return nil, errors.New("disk on fire")
		},
	}

	_, err := NewService(creds).Verify(context.Background(), "admin", "secret")
	if err == nil {
		t.Error("expected source failure to surface as an error")
	}
}

func TestVerify_LoadsFreshPerCall(t *testing.T) {
	calls := 0
	creds := &mockCredentialSource{
		loadFn: func(ctx context.Context) (map[string]string, error) {
			calls++
			return map[string]string{}, nil
		},
	}

	svc := NewService(creds)
	for i := 0; i < 3; i++ {
		if _, err := svc.Verify(context.Background(), "admin", "secret"); err != nil {
			t.Fatalf("verify: %v", err)
		}
	}
	if calls != 3 {
		t.Errorf("source loaded %d times, want 3 (no caching)", calls)
	}
}

func TestFileSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "users.yaml")
	content := "admin: " + testHash(t, "secret") + "\neditor: " + testHash(t, "hunter2") + "\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("writing users file: %v", err)
	}

	creds, err := NewFileSource(path).Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(creds) != 2 {
		t.Fatalf("loaded %d credentials, want 2", len(creds))
	}
	if _, ok := creds["admin"]; !ok {
		t.Error("missing admin credential")
	}

	ok, err := NewService(NewFileSource(path)).Verify(context.Background(), "editor", "hunter2")
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if !ok {
		t.Error("expected file-backed credentials to verify")
	}
}

func TestFileSource_MissingFile(t *testing.T) {
	_, err := NewFileSource(filepath.Join(t.TempDir(), "absent.yaml")).Load(context.Background())
	if err == nil {
		t.Error("expected error for missing credentials file")
	}
}
